package handler

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-insights/errors"
	dto "github.com/johnquangdev/meeting-insights/internal/adapter/dto/analysis"
	"github.com/johnquangdev/meeting-insights/internal/usecase/analysis"
	"github.com/johnquangdev/meeting-insights/pkg/ai"
)

// SignatureHeader carries the hex HMAC-SHA256 of WebhookSigningPayload
const SignatureHeader = "X-Webhook-Signature"

const (
	transcriptStatusCompleted = "completed"
	maxWebhookBodyBytes       = 1 << 20
)

// WebhookSigningPayload is the message a webhook signature covers. The
// meeting ID travels in the query string, so it is signed along with the body.
func WebhookSigningPayload(meetingID string, body []byte) []byte {
	msg := make([]byte, 0, len(meetingID)+1+len(body))
	msg = append(msg, meetingID...)
	msg = append(msg, '\n')
	return append(msg, body...)
}

// AIWebhookHandler handles transcript callbacks from AssemblyAI
type AIWebhookHandler struct {
	svc    analysis.Service
	secret string
	logger *zap.Logger
}

// NewAIWebhookHandler creates a new handler
func NewAIWebhookHandler(svc analysis.Service, secret string, logger *zap.Logger) *AIWebhookHandler {
	return &AIWebhookHandler{svc: svc, secret: secret, logger: logger}
}

// HandleAssemblyAIWebhook receives transcript status callbacks. A completed
// transcript is analyzed for the meeting named by the meeting_id query.
func (h *AIWebhookHandler) HandleAssemblyAIWebhook(c echo.Context) error {
	body, err := io.ReadAll(io.LimitReader(c.Request().Body, maxWebhookBodyBytes+1))
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}
	if len(body) > maxWebhookBodyBytes {
		return HandleError(h.logger, c, errors.AppError{
			HTTPCode: http.StatusRequestEntityTooLarge,
			Code:     errors.ErrorCode_INVALID_PAYLOAD,
			Message:  "Webhook body too large",
		})
	}

	meetingID := c.QueryParam("meeting_id")
	if meetingID == "" {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("meeting_id query parameter is required"))
	}

	if !ai.VerifyHMAC(h.secret, WebhookSigningPayload(meetingID, body), c.Request().Header.Get(SignatureHeader)) {
		return HandleError(h.logger, c, errors.AppError{
			HTTPCode: http.StatusUnauthorized,
			Code:     errors.ErrorCode_INVALID_ARGUMENT,
			Message:  "Invalid webhook signature",
		})
	}

	var payload dto.AssemblyAIWebhookRequest
	if err := json.Unmarshal(body, &payload); err != nil || payload.TranscriptID == "" {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}
	if payload.MeetingID != "" && payload.MeetingID != meetingID {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("meeting_id does not match the webhook body"))
	}

	if payload.Status != transcriptStatusCompleted {
		if h.logger != nil {
			h.logger.Info("ignoring transcript webhook",
				zap.String("meeting_id", meetingID),
				zap.String("transcript_id", payload.TranscriptID),
				zap.String("status", payload.Status),
			)
		}
		return HandleSuccess(h.logger, c, dto.WebhookResponse{Status: "ignored"})
	}

	result, err := h.svc.AnalyzeAssemblyAITranscript(c.Request().Context(), meetingID, payload.TranscriptID)
	if err != nil {
		return HandleError(h.logger, c, toAppError(err, meetingID))
	}
	return HandleSuccess(h.logger, c, dto.WebhookResponse{
		Status:   "analyzed",
		Analysis: dto.ToAnalysisResponse(result),
	})
}
