package handler

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-insights/errors"
	dto "github.com/johnquangdev/meeting-insights/internal/adapter/dto/analysis"
	"github.com/johnquangdev/meeting-insights/internal/usecase/analysis"
)

// AnalysisController handles the meeting analysis endpoints
type AnalysisController struct {
	svc    analysis.Service
	logger *zap.Logger
}

// NewAnalysisController creates a new analysis controller
func NewAnalysisController(svc analysis.Service, logger *zap.Logger) *AnalysisController {
	return &AnalysisController{svc: svc, logger: logger}
}

// AnalyzeMeeting analyzes the utterances sent in the request body
// @Summary      Analyze meeting transcript
// @Description  Runs the speaker profiler and the agenda analyzer over the given utterances
// @Tags         Analysis
// @Accept       json
// @Produce      json
// @Param        id       path      string                         true  "Meeting ID"
// @Param        request  body      analysis.AnalyzeMeetingRequest  true  "Utterances"
// @Success      200      {object}  analysis.AnalysisResponse
// @Failure      400      {object}  map[string]interface{}  "Invalid payload or missing utterances"
// @Failure      500      {object}  map[string]interface{}  "Analysis failed"
// @Router       /meetings/{id}/analysis [post]
func (ac *AnalysisController) AnalyzeMeeting(c echo.Context) error {
	meetingID := c.Param("id")

	var req dto.AnalyzeMeetingRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(ac.logger, c, errors.ErrInvalidPayload())
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(ac.logger, c, errors.ErrInvalidArgument(err.Error()))
	}

	result, err := ac.svc.AnalyzeMeeting(c.Request().Context(), req.ToInput(meetingID))
	if err != nil {
		return HandleError(ac.logger, c, toAppError(err, meetingID))
	}
	return HandleSuccess(ac.logger, c, dto.ToAnalysisResponse(result))
}

// AnalyzeStoredTranscript analyzes the utterances stored for a meeting
// @Summary      Analyze stored transcript
// @Tags         Analysis
// @Produce      json
// @Param        id   path      string  true  "Meeting ID"
// @Success      200  {object}  analysis.AnalysisResponse
// @Failure      404  {object}  map[string]interface{}  "No stored transcript"
// @Router       /meetings/{id}/analysis/stored [post]
func (ac *AnalysisController) AnalyzeStoredTranscript(c echo.Context) error {
	meetingID := c.Param("id")

	result, err := ac.svc.AnalyzeStoredTranscript(c.Request().Context(), meetingID)
	if err != nil {
		return HandleError(ac.logger, c, toAppError(err, meetingID))
	}
	return HandleSuccess(ac.logger, c, dto.ToAnalysisResponse(result))
}

// AnalyzeAssemblyAITranscript fetches an AssemblyAI transcript and analyzes it
// @Summary      Analyze AssemblyAI transcript
// @Tags         Analysis
// @Accept       json
// @Produce      json
// @Param        id       path      string                            true  "Meeting ID"
// @Param        request  body      analysis.AnalyzeAssemblyAIRequest  true  "Transcript"
// @Success      200      {object}  analysis.AnalysisResponse
// @Failure      409      {object}  map[string]interface{}  "Transcript not completed"
// @Failure      503      {object}  map[string]interface{}  "AssemblyAI not configured"
// @Router       /meetings/{id}/analysis/assemblyai [post]
func (ac *AnalysisController) AnalyzeAssemblyAITranscript(c echo.Context) error {
	meetingID := c.Param("id")

	var req dto.AnalyzeAssemblyAIRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(ac.logger, c, errors.ErrInvalidPayload())
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(ac.logger, c, errors.ErrInvalidArgument(err.Error()))
	}

	result, err := ac.svc.AnalyzeAssemblyAITranscript(c.Request().Context(), meetingID, req.TranscriptID)
	if err != nil {
		return HandleError(ac.logger, c, toAppError(err, meetingID))
	}
	return HandleSuccess(ac.logger, c, dto.ToAnalysisResponse(result))
}

// GetLatestReport returns the newest stored report of a meeting
// @Summary      Get latest analysis
// @Tags         Analysis
// @Produce      json
// @Param        id   path      string  true  "Meeting ID"
// @Success      200  {object}  analysis.AnalysisResponse
// @Failure      404  {object}  map[string]interface{}  "No analysis stored"
// @Router       /meetings/{id}/analysis [get]
func (ac *AnalysisController) GetLatestReport(c echo.Context) error {
	meetingID := c.Param("id")

	result, err := ac.svc.GetLatestReport(c.Request().Context(), meetingID)
	if err != nil {
		return HandleError(ac.logger, c, toAppError(err, meetingID))
	}
	return HandleSuccess(ac.logger, c, dto.ToAnalysisResponse(result))
}
