package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/istorrs/junit-test-results-sub000/internal/dto"
	"github.com/istorrs/junit-test-results-sub000/internal/service"
	"github.com/istorrs/junit-test-results-sub000/pkg/responses"
	"github.com/istorrs/junit-test-results-sub000/pkg/utils"
)

type AnalyticsHandler struct {
	analytics service.AnalyticsService
	flaky     service.FlakyService
}

func NewAnalyticsHandler(analytics service.AnalyticsService, flaky service.FlakyService) *AnalyticsHandler {
	return &AnalyticsHandler{
		analytics: analytics,
		flaky:     flaky,
	}
}

// AnalyzeFailures clusters a run's failures into patterns
// @Summary Analyze a run's failures
// @Tags Analytics
// @Produce json
// @Param id query int true "Run ID"
// @Success 200 {object} responses.Response{data=dto.FailureAnalysisResponse}
// @Router /api/v1/run/failures [get]
func (h *AnalyticsHandler) AnalyzeFailures(c *gin.Context) {
	var req dto.GetRunRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		responses.ErrorWithDetail(c, responses.CodeBadRequest, "invalid request parameters", utils.FormatValidationError(err))
		return
	}

	resp, err := h.analytics.AnalyzeFailures(req.ID)
	if err != nil {
		responses.Error(c, err)
		return
	}

	responses.Success(c, resp)
}

// DetectFlaky runs flaky detection for one run synchronously, the backfill
// companion of the post-ingestion background pass
// @Summary Detect flaky tests in a run
// @Tags Flaky
// @Produce json
// @Param id path int true "Run ID"
// @Success 200 {object} responses.Response{data=dto.FlakyDetectionResponse}
// @Router /api/v1/run/{id}/detect-flaky [post]
func (h *AnalyticsHandler) DetectFlaky(c *gin.Context) {
	var param dto.IDParam
	if err := c.ShouldBindUri(&param); err != nil {
		responses.ErrorWithDetail(c, responses.CodeBadRequest, "invalid request parameters", utils.FormatValidationError(err))
		return
	}

	resp, err := h.flaky.DetectForRun(param.ID)
	if err != nil {
		responses.Error(c, err)
		return
	}

	responses.Success(c, resp)
}
