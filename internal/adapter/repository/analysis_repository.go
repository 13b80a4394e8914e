package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/johnquangdev/meeting-insights/internal/domain/entities"
	repo "github.com/johnquangdev/meeting-insights/internal/domain/repositories"
)

type analysisRepository struct {
	db *gorm.DB
}

// NewAnalysisRepository creates a new analysis repository backed by GORM
func NewAnalysisRepository(db *gorm.DB) repo.AnalysisRepository {
	return &analysisRepository{db: db}
}

// SaveResults stores every envelope of a run or none of them
func (r *analysisRepository) SaveResults(ctx context.Context, results []*entities.AnalysisResult) error {
	if len(results) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, res := range results {
			if res == nil {
				return errors.New("analysis result cannot be nil")
			}
			if err := tx.Create(res).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// GetLatest returns nil when the meeting has no result for the agent
func (r *analysisRepository) GetLatest(ctx context.Context, meetingID string, agent entities.AgentType) (*entities.AnalysisResult, error) {
	var result entities.AnalysisResult
	err := r.db.WithContext(ctx).
		Where("meeting_id = ? AND agent_type = ?", meetingID, agent).
		Order("created_at DESC").
		First(&result).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &result, nil
}

// ListByMeeting returns every stored result of a meeting, newest first
func (r *analysisRepository) ListByMeeting(ctx context.Context, meetingID string) ([]*entities.AnalysisResult, error) {
	var results []*entities.AnalysisResult
	err := r.db.WithContext(ctx).
		Where("meeting_id = ?", meetingID).
		Order("created_at DESC").
		Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}
