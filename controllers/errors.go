package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"libris/services"
	"libris/storage"
)

// handleServiceError translates service errors into HTTP responses.
// Validation problems map to 400, missing records to 404, permission
// problems to 403, and business-rule violations to 409 with the rule's
// user-facing message; anything unrecognized is a 500.
func handleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": err.Error()})
	case errors.Is(err, services.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"message": err.Error()})
	case errors.Is(err, services.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"message": err.Error()})
	case errors.Is(err, services.ErrInvalidISBN),
		errors.Is(err, storage.ErrUnsupportedImage):
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
	case errors.Is(err, services.ErrUsernameTaken),
		errors.Is(err, services.ErrEmailTaken),
		errors.Is(err, services.ErrISBNTaken),
		errors.Is(err, services.ErrBookNotAvailable),
		errors.Is(err, services.ErrDuplicateLoan),
		errors.Is(err, services.ErrAlreadyReturned),
		errors.Is(err, services.ErrRenewalLimit),
		errors.Is(err, services.ErrCopiesBelowOnLoan),
		errors.Is(err, services.ErrBookOnLoan),
		errors.Is(err, services.ErrUserHasOpenLoans),
		errors.Is(err, services.ErrSelfDelete):
		c.JSON(http.StatusConflict, gin.H{"message": err.Error()})
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "An internal error occurred"})
	}
}
