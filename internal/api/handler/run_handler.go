package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/istorrs/junit-test-results-sub000/internal/dto"
	"github.com/istorrs/junit-test-results-sub000/internal/service"
	"github.com/istorrs/junit-test-results-sub000/pkg/responses"
	"github.com/istorrs/junit-test-results-sub000/pkg/utils"
)

type RunHandler struct {
	service service.RunService
}

func NewRunHandler(service service.RunService) *RunHandler {
	return &RunHandler{
		service: service,
	}
}

// List lists test runs
// @Summary List test runs
// @Tags Run
// @Produce json
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Param source query string false "Source filter" Enums(manual_upload, ci_cd, api)
// @Param keyword query string false "Name or job name keyword"
// @Success 200 {object} responses.Response{data=dto.PageResponse}
// @Router /api/v1/runs [get]
func (h *RunHandler) List(c *gin.Context) {
	var query dto.RunListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		responses.ErrorWithDetail(c, responses.CodeBadRequest, "invalid request parameters", utils.FormatValidationError(err))
		return
	}

	runs, total, err := h.service.List(&query)
	if err != nil {
		responses.Error(c, err)
		return
	}

	responses.Success(c, dto.NewPageResponse(runs, total, query.GetPage(), query.GetPageSize()))
}

// GetByID returns one run with its suites and cases
// @Summary Get run detail
// @Tags Run
// @Produce json
// @Param id query int true "Run ID"
// @Success 200 {object} responses.Response{data=dto.RunResponse}
// @Router /api/v1/run [get]
func (h *RunHandler) GetByID(c *gin.Context) {
	var req dto.GetRunRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		responses.ErrorWithDetail(c, responses.CodeBadRequest, "invalid request parameters", utils.FormatValidationError(err))
		return
	}

	run, err := h.service.GetByID(req.ID)
	if err != nil {
		responses.Error(c, err)
		return
	}

	responses.Success(c, run)
}

// GetFailedCases returns the stored failure detail rows of one run
// @Summary List a run's failed cases
// @Tags Run
// @Produce json
// @Param id query int true "Run ID"
// @Success 200 {object} responses.Response{data=[]dto.FailedCaseResponse}
// @Router /api/v1/run/failed-cases [get]
func (h *RunHandler) GetFailedCases(c *gin.Context) {
	var req dto.GetRunRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		responses.ErrorWithDetail(c, responses.CodeBadRequest, "invalid request parameters", utils.FormatValidationError(err))
		return
	}

	cases, err := h.service.GetFailures(req.ID)
	if err != nil {
		responses.Error(c, err)
		return
	}

	responses.Success(c, cases)
}

// Delete deletes a run and everything it owns
// @Summary Delete a run
// @Tags Run
// @Produce json
// @Param id path int true "Run ID"
// @Success 200 {object} responses.Response
// @Router /api/v1/run/{id} [delete]
func (h *RunHandler) Delete(c *gin.Context) {
	var param dto.IDParam
	if err := c.ShouldBindUri(&param); err != nil {
		responses.ErrorWithDetail(c, responses.CodeBadRequest, "invalid request parameters", utils.FormatValidationError(err))
		return
	}

	if err := h.service.Delete(param.ID); err != nil {
		responses.Error(c, err)
		return
	}

	responses.SuccessWithMessage(c, "run deleted", nil)
}

// ListFlaky lists all flagged flaky test cases
// @Summary List flaky test cases
// @Tags Flaky
// @Produce json
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} responses.Response{data=dto.PageResponse}
// @Router /api/v1/flaky [get]
func (h *RunHandler) ListFlaky(c *gin.Context) {
	var query dto.FlakyListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		responses.ErrorWithDetail(c, responses.CodeBadRequest, "invalid request parameters", utils.FormatValidationError(err))
		return
	}

	infos, total, err := h.service.ListFlaky(&query)
	if err != nil {
		responses.Error(c, err)
		return
	}

	responses.Success(c, dto.NewPageResponse(infos, total, query.GetPage(), query.GetPageSize()))
}
