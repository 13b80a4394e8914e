package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/johnquangdev/meeting-insights/internal/domain/entities"
	repo "github.com/johnquangdev/meeting-insights/internal/domain/repositories"
)

// transcriptRepository handles utterance rows of meeting transcripts
type transcriptRepository struct {
	db *gorm.DB
}

// NewTranscriptRepository creates a new transcript repository
func NewTranscriptRepository(db *gorm.DB) repo.TranscriptRepository {
	return &transcriptRepository{db: db}
}

// ReplaceUtterances deletes the stored utterances of a meeting and inserts rows
// in one transaction
func (r *transcriptRepository) ReplaceUtterances(ctx context.Context, meetingID string, rows []*entities.TranscriptUtterance) error {
	if meetingID == "" {
		return errors.New("meeting id cannot be empty")
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("meeting_id = ?", meetingID).Delete(&entities.TranscriptUtterance{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.CreateInBatches(rows, 200).Error
	})
}

// ListUtterances returns the utterances of a meeting in sequence order
func (r *transcriptRepository) ListUtterances(ctx context.Context, meetingID string) ([]*entities.TranscriptUtterance, error) {
	var rows []*entities.TranscriptUtterance
	if err := r.db.WithContext(ctx).
		Where("meeting_id = ?", meetingID).
		Order("sequence ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
