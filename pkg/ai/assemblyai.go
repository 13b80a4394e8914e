package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	aai "github.com/AssemblyAI/assemblyai-go-sdk"

	"github.com/johnquangdev/meeting-insights/pkg/config"
)

// ErrTranscriptNotReady is returned for transcripts that are still queued,
// processing or failed
var ErrTranscriptNotReady = errors.New("transcript not completed")

// AssemblyAIClient reads finished transcripts through the official SDK
type AssemblyAIClient struct {
	client *aai.Client
}

// NewAssemblyAIClient creates an AssemblyAI client using the provided config.
// Extra options (base URL, HTTP client) are passed to the SDK.
func NewAssemblyAIClient(cfg *config.AssemblyAIConfig, opts ...aai.ClientOption) *AssemblyAIClient {
	all := append([]aai.ClientOption{aai.WithAPIKey(cfg.APIKey)}, opts...)
	return &AssemblyAIClient{client: aai.NewClientWithOptions(all...)}
}

// TranscriptSegment is one speaker turn, with times in seconds
type TranscriptSegment struct {
	Speaker    string
	Text       string
	Start      float64
	End        float64
	Confidence float64
}

// TranscriptResult is a completed transcript reduced to speaker turns
type TranscriptResult struct {
	ID       string
	Status   string
	Language string
	Segments []TranscriptSegment
}

// FetchTranscript loads a transcript and converts its utterances. Only
// completed transcripts are returned; anything else wraps
// ErrTranscriptNotReady.
func (c *AssemblyAIClient) FetchTranscript(ctx context.Context, transcriptID string) (*TranscriptResult, error) {
	if strings.TrimSpace(transcriptID) == "" {
		return nil, fmt.Errorf("transcript id is required")
	}

	transcript, err := c.client.Transcripts.Get(ctx, transcriptID)
	if err != nil {
		return nil, fmt.Errorf("failed to get transcript %s: %w", transcriptID, err)
	}

	status := string(transcript.Status)
	if transcript.Status != aai.TranscriptStatusCompleted {
		if transcript.Error != nil && *transcript.Error != "" {
			return nil, fmt.Errorf("%w: status %s: %s", ErrTranscriptNotReady, status, *transcript.Error)
		}
		return nil, fmt.Errorf("%w: status %s", ErrTranscriptNotReady, status)
	}

	result := &TranscriptResult{
		ID:       transcriptID,
		Status:   status,
		Language: string(transcript.LanguageCode),
		Segments: make([]TranscriptSegment, 0, len(transcript.Utterances)),
	}

	for _, u := range transcript.Utterances {
		seg := TranscriptSegment{
			Speaker: derefString(u.Speaker),
			Text:    derefString(u.Text),
		}
		// AssemblyAI reports milliseconds
		if u.Start != nil {
			seg.Start = float64(*u.Start) / 1000.0
		}
		if u.End != nil {
			seg.End = float64(*u.End) / 1000.0
		}
		if u.Confidence != nil {
			seg.Confidence = *u.Confidence
		}
		if seg.Speaker != "" && !strings.HasPrefix(seg.Speaker, "Speaker") {
			seg.Speaker = "Speaker " + seg.Speaker
		}
		result.Segments = append(result.Segments, seg)
	}

	return result, nil
}

func derefString(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
