package responses

import (
	"github.com/gin-gonic/gin"

	pkgErrors "github.com/istorrs/junit-test-results-sub000/pkg/errors"
)

// business codes re-exported so handlers only import one package
const (
	CodeSuccess        = pkgErrors.CodeSuccess
	CodeBadRequest     = pkgErrors.CodeBadRequest
	CodeNotFound       = pkgErrors.CodeNotFound
	CodeConflict       = pkgErrors.CodeConflict
	CodeMalformedInput = pkgErrors.CodeMalformedInput
	CodeInternalError  = pkgErrors.CodeInternalError
)

// Response unified response envelope
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Detail  string      `json:"detail,omitempty"` // optional detail for errors
	Data    interface{} `json:"data,omitempty"`
}

// Success success response
func Success(c *gin.Context, data interface{}) {
	c.JSON(200, Response{
		Code:    pkgErrors.CodeSuccess,
		Message: "success",
		Data:    data,
	})
}

// SuccessWithMessage success response with a custom message
func SuccessWithMessage(c *gin.Context, message string, data interface{}) {
	c.JSON(200, Response{
		Code:    pkgErrors.CodeSuccess,
		Message: message,
		Data:    data,
	})
}

// Error error response
func Error(c *gin.Context, err error) {
	if appErr, ok := err.(*pkgErrors.AppError); ok {
		// HTTP status is always 200, the business code lives in response.code
		c.JSON(200, Response{
			Code:    appErr.Code,
			Message: appErr.Message,
		})
		return
	}

	// unknown errors also return HTTP 200
	c.JSON(200, Response{
		Code:    pkgErrors.CodeInternalError,
		Message: err.Error(),
	})
}

// ErrorWithCode error response with an explicit code
func ErrorWithCode(c *gin.Context, code int, message string) {
	c.JSON(200, Response{
		Code:    code,
		Message: message,
	})
}

// ErrorWithDetail error response with detail text
func ErrorWithDetail(c *gin.Context, code int, message, detail string) {
	c.JSON(200, Response{
		Code:    code,
		Message: message,
		Detail:  detail,
	})
}
