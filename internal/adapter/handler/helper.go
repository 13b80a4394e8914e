package handler

import (
	stdErrors "errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-insights/errors"
	"github.com/johnquangdev/meeting-insights/internal/domain/entities"
	"github.com/johnquangdev/meeting-insights/internal/usecase/analysis"
	"github.com/johnquangdev/meeting-insights/pkg/ai"
)

// Response shapes
type success struct {
	Code    interface{} `json:"code,omitempty"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

type errs struct {
	Code    interface{}       `json:"code,omitempty"`
	Message string            `json:"message,omitempty"`
	Info    string            `json:"info,omitempty"`
	Details map[string]string `json:"details,omitempty"`
}

// getRequestID tries to read X-Request-ID from the request
func getRequestID(c echo.Context) string {
	if c == nil || c.Request() == nil {
		return ""
	}
	return c.Request().Header.Get("X-Request-ID")
}

// HandleSuccess writes a standardized success response using provided logger
func HandleSuccess(logger *zap.Logger, c echo.Context, data interface{}) error {
	return handleStatus(logger, c, http.StatusOK, data)
}

func handleStatus(logger *zap.Logger, c echo.Context, status int, data interface{}) error {
	resp := success{
		Code:    int(errors.ErrorCode_HTTP_OK),
		Message: "success",
		Data:    data,
	}

	if logger != nil {
		logger.Info("http.response.success",
			zap.String("request_id", getRequestID(c)),
			zap.String("path", c.Path()),
		)
	}

	return c.JSON(status, resp)
}

// HandleError centralizes error handling and logging using provided logger
func HandleError(logger *zap.Logger, c echo.Context, err error) error {
	reqID := getRequestID(c)

	var appErr errors.AppError
	if !stdErrors.As(err, &appErr) {
		appErr = errors.ErrInternal(err)
	}

	if logger != nil {
		logger.Error("http.response.error",
			zap.String("request_id", reqID),
			zap.String("path", c.Path()),
			zap.Any("app_code", appErr.Code),
			zap.Error(err),
		)
	}

	info := ""
	if appErr.Raw != nil {
		info = appErr.Raw.Error()
	}

	body := errs{
		Code:    appErr.Code,
		Message: appErr.Message,
		Info:    info,
		Details: appErr.Details,
	}

	return c.JSON(appErr.HTTPCode, body)
}

// toAppError maps use case errors onto the HTTP error taxonomy
func toAppError(err error, meetingID string) errors.AppError {
	var verr *entities.ValidationError
	var derr *analysis.DependencyError
	switch {
	case stdErrors.As(err, &verr):
		return errors.ErrInvalidArgument(verr.Error()).WithDetail("field", verr.Field)
	case stdErrors.Is(err, entities.ErrAnalysisNotFound):
		return errors.ErrReportNotFound(meetingID)
	case stdErrors.Is(err, entities.ErrTranscriptNotFound):
		return errors.ErrNotFound("transcript").WithDetail("meeting_id", meetingID)
	case stdErrors.Is(err, ai.ErrTranscriptNotReady):
		return errors.ErrTranscriptNotReady(err)
	case stdErrors.As(err, &derr) && derr.Dependency == analysis.DependencyDatabase:
		return errors.ErrDBQueryFailed(derr.Op, derr.Err)
	case stdErrors.As(err, &derr):
		return errors.ErrExternalAPIFailed(string(derr.Dependency), derr.Err)
	case stdErrors.Is(err, analysis.ErrTranscriptSourceDisabled):
		return errors.ErrAIServiceUnavailable("assemblyai")
	default:
		return errors.ErrAIAnalysisFailed(err)
	}
}
