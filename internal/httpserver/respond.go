package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/falck5561-ux/miss-donitas-order-engine/internal/domain"
	"github.com/falck5561-ux/miss-donitas-order-engine/internal/service/checkout"
)

func respondError(c *gin.Context, err error) {
	var declined *checkout.DeclinedError
	switch {
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrMalformedItem),
		errors.Is(err, domain.ErrEmptyTicket),
		errors.Is(err, domain.ErrInvalidPhone),
		errors.Is(err, domain.ErrAddressRequired),
		errors.Is(err, domain.ErrInsufficientCash),
		errors.Is(err, domain.ErrNoEligibleLine):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrRewardAlreadyApplied),
		errors.Is(err, domain.ErrInvalidTransition),
		errors.Is(err, domain.ErrQuotePending),
		errors.Is(err, domain.ErrQuoteFailed),
		errors.Is(err, domain.ErrConfirmationInFlight):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.As(err, &declined):
		c.JSON(http.StatusPaymentRequired, gin.H{"error": declined.Error(), "message": declined.Message})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
