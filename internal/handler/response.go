package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/clinicpos/record-api/pkg/apperror"
)

type Response struct {
	Status  string      `json:"status"`
	Code    string      `json:"code,omitempty"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func NewSuccessResponse(data interface{}) *Response {
	return &Response{
		Status: "success",
		Data:   data,
	}
}

func NewErrorResponse(message string) *Response {
	return &Response{
		Status:  "error",
		Message: message,
	}
}

// RespondError writes a typed application error with its mapped status:
// tenant/branch authorization failures as forbidden, duplicates as conflict,
// missing patient and validation as bad request, everything unclassified as
// an internal error.
func RespondError(c *gin.Context, err error) {
	code := apperror.CodeOf(err)

	message := "internal server error"
	if code != apperror.CodeStorage {
		message = err.Error()
	}

	c.JSON(apperror.HTTPStatus(code), &Response{
		Status:  "error",
		Code:    string(code),
		Message: message,
	})
}
