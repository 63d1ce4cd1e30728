package server

import (
	"github.com/gin-gonic/gin"
)

// ApiResponse is the envelope of every API response.
type ApiResponse struct {
	Message   string      `json:"message"`
	Data      any         `json:"data,omitempty"`
	Error     bool        `json:"error,omitempty"`
	Meta      *Pagination `json:"meta"`
	RequestID string      `json:"request_id,omitempty"`
}

// Pagination describes the page carried in Data.
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

func SuccessResponse(c *gin.Context, message string, data any) ApiResponse {
	return ApiResponse{
		Message:   message,
		Data:      data,
		RequestID: requestID(c),
	}
}

func PaginatedResponse(c *gin.Context, message string, data any, meta *Pagination) ApiResponse {
	return ApiResponse{
		Message:   message,
		Data:      data,
		Meta:      meta,
		RequestID: requestID(c),
	}
}

func ErrorResponse(c *gin.Context, message string) ApiResponse {
	return ApiResponse{
		Message:   message,
		Error:     true,
		RequestID: requestID(c),
	}
}
