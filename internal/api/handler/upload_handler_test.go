package handler

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/istorrs/junit-test-results-sub000/internal/dto"
	"github.com/istorrs/junit-test-results-sub000/internal/pkg/config"
	"github.com/istorrs/junit-test-results-sub000/internal/service"
	pkgErrors "github.com/istorrs/junit-test-results-sub000/pkg/errors"
	"github.com/istorrs/junit-test-results-sub000/pkg/responses"
)

type stubIngestService struct {
	resp *dto.UploadResponse
	err  error
	got  *service.UploadInput
}

func (s *stubIngestService) Ingest(input *service.UploadInput) (*dto.UploadResponse, error) {
	s.got = input
	return s.resp, s.err
}

func (s *stubIngestService) GetUpload(id int64) (*dto.UploadInfo, error) {
	return nil, pkgErrors.ErrUploadNotFound
}

func (s *stubIngestService) ListUploads(query *dto.UploadListQuery) ([]*dto.UploadInfo, int64, error) {
	return nil, 0, nil
}

func uploadRouter(svc service.IngestService, maxMB int) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewUploadHandler(svc, &config.IngestConfig{MaxUploadSizeMB: maxMB})
	r.POST("/api/v1/uploads", h.Upload)
	return r
}

func multipartReport(t *testing.T, fields map[string]string, content []byte) (*bytes.Buffer, string) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("file", "report.xml")
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)

	for key, value := range fields {
		require.NoError(t, writer.WriteField(key, value))
	}
	require.NoError(t, writer.Close())

	return body, writer.FormDataContentType()
}

func doUpload(t *testing.T, r *gin.Engine, body *bytes.Buffer, contentType string) *responses.Response {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/uploads", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp responses.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return &resp
}

func TestUploadHandlerPassesCIMetadata(t *testing.T) {
	runID := int64(7)
	svc := &stubIngestService{resp: &dto.UploadResponse{UploadID: 1, RunID: &runID, Status: "completed"}}
	r := uploadRouter(svc, 50)

	body, contentType := multipartReport(t, map[string]string{
		"job_name":     "nightly",
		"build_number": "12",
		"build_time":   "2024-05-01T08:00:00Z",
	}, []byte("<testsuite/>"))

	resp := doUpload(t, r, body, contentType)
	assert.Equal(t, responses.CodeSuccess, resp.Code)

	require.NotNil(t, svc.got)
	assert.Equal(t, "report.xml", svc.got.Filename)
	assert.Equal(t, "ci_cd", svc.got.Source)
	assert.Equal(t, "nightly", svc.got.CI.JobName)
	assert.Equal(t, "12", svc.got.CI.BuildNumber)
}

func TestUploadHandlerAcceptsCIMetadataJSONField(t *testing.T) {
	svc := &stubIngestService{resp: &dto.UploadResponse{UploadID: 1, Status: "completed"}}
	r := uploadRouter(svc, 50)

	body, contentType := multipartReport(t, map[string]string{
		"ci_metadata": `{"job_name":"nightly","build_number":"12","build_time":"2024-05-01T08:00:00Z","branch":"main"}`,
	}, []byte("<testsuite/>"))

	resp := doUpload(t, r, body, contentType)
	assert.Equal(t, responses.CodeSuccess, resp.Code)

	require.NotNil(t, svc.got)
	assert.Equal(t, "nightly", svc.got.CI.JobName)
	assert.Equal(t, "main", svc.got.CI.Branch)
}

func TestUploadHandlerMissingFile(t *testing.T) {
	svc := &stubIngestService{}
	r := uploadRouter(svc, 50)

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	require.NoError(t, writer.Close())

	resp := doUpload(t, r, body, writer.FormDataContentType())
	assert.Equal(t, responses.CodeBadRequest, resp.Code)
	assert.Nil(t, svc.got)
}

func TestUploadHandlerRejectsOversizedFile(t *testing.T) {
	svc := &stubIngestService{}
	r := uploadRouter(svc, 1)

	body, contentType := multipartReport(t, nil, bytes.Repeat([]byte("x"), 2<<20))

	resp := doUpload(t, r, body, contentType)
	assert.Equal(t, responses.CodeBadRequest, resp.Code)
	assert.Nil(t, svc.got)
}

func TestUploadHandlerPropagatesServiceError(t *testing.T) {
	svc := &stubIngestService{err: pkgErrors.New(pkgErrors.CodeMalformedInput, "malformed report XML")}
	r := uploadRouter(svc, 50)

	body, contentType := multipartReport(t, nil, []byte("not xml"))

	resp := doUpload(t, r, body, contentType)
	assert.Equal(t, responses.CodeMalformedInput, resp.Code)
	assert.Equal(t, "malformed report XML", resp.Message)
}
