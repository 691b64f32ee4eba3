package api

import (
	"errors"
	"net/http"

	"github.com/Domenick1991/travelbooking/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func statusFor(kind domain.ErrorKind) int {
	switch kind {
	case domain.KindValidation:
		return http.StatusBadRequest
	case domain.KindForbidden:
		return http.StatusForbidden
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindConflict, domain.KindState:
		return http.StatusConflict
	case domain.KindGateway:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// writeError maps classified errors to their status and hides everything
// else behind a 500.
func writeError(c *gin.Context, log *logrus.Entry, err error) {
	de, ok := domain.AsError(err)
	if !ok {
		log.WithError(err).WithFields(logrus.Fields{
			"method": c.Request.Method,
			"path":   c.FullPath(),
		}).Error("request failed")
		c.AbortWithStatusJSON(http.StatusInternalServerError, errorResponse{Code: "INTERNAL", Message: "internal server error"})
		return
	}

	status := statusFor(de.Kind)
	if status >= http.StatusInternalServerError {
		log.WithError(err).WithField("path", c.FullPath()).Warn("upstream failure")
	}
	c.AbortWithStatusJSON(status, errorResponse{Code: de.Code, Message: err.Error()})
}

func badRequest(c *gin.Context, err error) {
	var de *domain.Error
	if errors.As(err, &de) {
		c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse{Code: de.Code, Message: err.Error()})
		return
	}
	c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse{Code: domain.ErrInvalidInput.Code, Message: err.Error()})
}
