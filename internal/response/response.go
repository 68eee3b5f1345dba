package response

import (
	"github.com/gin-gonic/gin"
)

// SuccessResponse wraps successful payloads of the local control API
type SuccessResponse struct {
	Data interface{} `json:"data"`
}

// ErrorBody is the error object of an ErrorResponse
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps error payloads of the local control API
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// Envelope is the response shape of the remote board API: { result, message }
type Envelope[T any] struct {
	Result  T      `json:"result"`
	Message string `json:"message"`
}

// SendSuccess writes a success response
func SendSuccess(c *gin.Context, status int, data interface{}) {
	c.JSON(status, SuccessResponse{Data: data})
}

// SendError writes an error response
func SendError(c *gin.Context, status int, code, message string) {
	c.JSON(status, ErrorResponse{Error: ErrorBody{Code: code, Message: message}})
}
