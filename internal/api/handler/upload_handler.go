package handler

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/gin-gonic/gin"

	"github.com/istorrs/junit-test-results-sub000/internal/dto"
	"github.com/istorrs/junit-test-results-sub000/internal/pkg/config"
	"github.com/istorrs/junit-test-results-sub000/internal/service"
	"github.com/istorrs/junit-test-results-sub000/pkg/constants"
	"github.com/istorrs/junit-test-results-sub000/pkg/responses"
	"github.com/istorrs/junit-test-results-sub000/pkg/utils"
)

type UploadHandler struct {
	service         service.IngestService
	maxUploadSizeMB int
}

func NewUploadHandler(service service.IngestService, ingestCfg *config.IngestConfig) *UploadHandler {
	return &UploadHandler{
		service:         service,
		maxUploadSizeMB: ingestCfg.MaxUploadSizeMB,
	}
}

// Upload ingests one JUnit XML report
// @Summary Upload a test report
// @Tags Upload
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "JUnit XML report"
// @Param ci_metadata formData string false "CI metadata as JSON"
// @Param job_name formData string false "CI job name"
// @Param build_number formData string false "CI build number"
// @Param build_time formData string false "CI build time (RFC3339)"
// @Success 200 {object} responses.Response{data=dto.UploadResponse}
// @Router /api/v1/uploads [post]
func (h *UploadHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		responses.ErrorWithCode(c, responses.CodeBadRequest, "missing report file")
		return
	}

	if max := int64(h.maxUploadSizeMB) * 1024 * 1024; max > 0 && fileHeader.Size > max {
		responses.ErrorWithCode(c, responses.CodeBadRequest,
			fmt.Sprintf("report file exceeds %d MB limit", h.maxUploadSizeMB))
		return
	}

	ci, err := bindCIMetadata(c)
	if err != nil {
		responses.ErrorWithDetail(c, responses.CodeBadRequest, "invalid request parameters", utils.FormatValidationError(err))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		responses.ErrorWithCode(c, responses.CodeBadRequest, "unreadable report file")
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		responses.ErrorWithCode(c, responses.CodeBadRequest, "unreadable report file")
		return
	}

	source := constants.RunSourceManualUpload
	if ci.HasIdentity() {
		source = constants.RunSourceCICD
	}

	resp, err := h.service.Ingest(&service.UploadInput{
		Filename:   fileHeader.Filename,
		Content:    content,
		Source:     source,
		CI:         ci,
		UploaderIP: c.ClientIP(),
		UserAgent:  c.Request.UserAgent(),
	})
	if err != nil {
		responses.Error(c, err)
		return
	}

	responses.Success(c, resp)
}

// bindCIMetadata accepts CI context either as a ci_metadata JSON form field or
// as individual form fields
func bindCIMetadata(c *gin.Context) (*dto.CIMetadata, error) {
	if raw := c.PostForm("ci_metadata"); raw != "" {
		var ci dto.CIMetadata
		if err := json.Unmarshal([]byte(raw), &ci); err != nil {
			return nil, err
		}
		return &ci, nil
	}

	var ci dto.CIMetadata
	if err := c.ShouldBind(&ci); err != nil {
		return nil, err
	}
	return &ci, nil
}

// GetByID returns one upload record
// @Summary Get upload detail
// @Tags Upload
// @Produce json
// @Param id query int true "Upload ID"
// @Success 200 {object} responses.Response{data=dto.UploadInfo}
// @Router /api/v1/upload [get]
func (h *UploadHandler) GetByID(c *gin.Context) {
	var req dto.GetRunRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		responses.ErrorWithDetail(c, responses.CodeBadRequest, "invalid request parameters", utils.FormatValidationError(err))
		return
	}

	info, err := h.service.GetUpload(req.ID)
	if err != nil {
		responses.Error(c, err)
		return
	}

	responses.Success(c, info)
}

// List lists upload records
// @Summary List uploads
// @Tags Upload
// @Produce json
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Param status query string false "Status filter" Enums(processing, completed, failed)
// @Success 200 {object} responses.Response{data=dto.PageResponse}
// @Router /api/v1/uploads [get]
func (h *UploadHandler) List(c *gin.Context) {
	var query dto.UploadListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		responses.ErrorWithDetail(c, responses.CodeBadRequest, "invalid request parameters", utils.FormatValidationError(err))
		return
	}

	infos, total, err := h.service.ListUploads(&query)
	if err != nil {
		responses.Error(c, err)
		return
	}

	responses.Success(c, dto.NewPageResponse(infos, total, query.GetPage(), query.GetPageSize()))
}
