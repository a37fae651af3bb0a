package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/KanomTHX/flexi-furnish-hub-sub005/internal/domain/models"
	"github.com/KanomTHX/flexi-furnish-hub-sub005/internal/service/installments"
	"github.com/KanomTHX/flexi-furnish-hub-sub005/internal/service/receiving"
)

var unprocessable = []error{
	receiving.ErrNegativeCost,
	receiving.ErrProductBranch,
	receiving.ErrSupplierBranch,
	receiving.ErrInactiveCatalogItem,
	installments.ErrInvalidPrice,
	installments.ErrInvalidTerm,
	installments.ErrInvalidRate,
	installments.ErrInvalidDownPayment,
	installments.ErrDownPaymentExceedsPrice,
	installments.ErrNothingToFinance,
}

var notFound = []error{
	models.ErrDraftNotFound,
	models.ErrNotFound,
	receiving.ErrItemNotFound,
}

var conflict = []error{
	receiving.ErrSubmissionInFlight,
	receiving.ErrAlreadySubmitted,
	receiving.ErrNotFinalStep,
	receiving.ErrNotPrintable,
}

func isAny(err error, targets []error) bool {
	for _, t := range targets {
		if errors.Is(err, t) {
			return true
		}
	}
	return false
}

// statusFor maps service errors onto HTTP status codes.
func statusFor(err error) int {
	var ve *receiving.ValidationError
	var ce *models.CommitError
	switch {
	case errors.As(err, &ve), isAny(err, unprocessable):
		return http.StatusUnprocessableEntity
	case isAny(err, notFound):
		return http.StatusNotFound
	case isAny(err, conflict):
		return http.StatusConflict
	case errors.As(err, &ce):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeError(c *gin.Context, logger *zap.Logger, msg string, err error) {
	status := statusFor(err)
	body := gin.H{"error": err.Error()}

	var ve *receiving.ValidationError
	if errors.As(err, &ve) {
		body["step"] = ve.Step
	}
	var ce *models.CommitError
	if errors.As(err, &ce) {
		body["stage"] = ce.Stage
		body["rolled_back"] = ce.RolledBack
	}

	if status >= http.StatusInternalServerError {
		logger.Error(msg, zap.Error(err), zap.Int("status", status))
		if status == http.StatusInternalServerError {
			body["error"] = "internal error"
		}
	} else {
		logger.Debug(msg, zap.Error(err), zap.Int("status", status))
	}

	c.JSON(status, body)
}
