package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/smolder-dev/smolder/internal/domain"
)

const internalDatabaseError = "An internal database error occurred"

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// statusFor maps an error kind to its HTTP status class
func statusFor(kind domain.ErrorKind) int {
	switch {
	case kind.IsNotFound():
		return http.StatusNotFound
	}
	switch kind {
	case domain.KindAbiParse, domain.KindAbiEncode, domain.KindAbiDecode, domain.KindHexDecode,
		domain.KindValidation, domain.KindInvalidParameter:
		return http.StatusBadRequest
	case domain.KindRPC, domain.KindTransactionFailed, domain.KindTransactionReverted:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// writeError renders err; storage details never leave the process
func (s *Server) writeError(c *gin.Context, err error) {
	kind, ok := domain.KindOf(err)
	if !ok {
		s.log.Error("unclassified error", "path", c.Request.URL.Path, "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Code: "INTERNAL_ERROR", Message: "internal server error"})
		return
	}

	status := statusFor(kind)
	message := err.Error()
	if kind == domain.KindStorage {
		s.log.Error("storage error", "path", c.Request.URL.Path, "error", err)
		message = internalDatabaseError
	} else if status >= http.StatusInternalServerError {
		s.log.Error("request failed", "path", c.Request.URL.Path, "error", err)
	}

	c.JSON(status, ErrorResponse{Code: kind.Code(), Message: message})
}
