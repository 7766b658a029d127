package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/JJ8s/Space-GYM/internal/helpers"
	"github.com/JJ8s/Space-GYM/internal/models"
)

// currentUser pulls the authenticated claims set by the auth middleware and
// parses the account id. It writes the error response itself on failure.
func currentUser(c *gin.Context) (*helpers.EnhancedClaims, uuid.UUID, bool) {
	userClaims, exists := c.Get("user")
	if !exists {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse("unauthorized"))
		return nil, uuid.Nil, false
	}

	claims, ok := userClaims.(*helpers.EnhancedClaims)
	if !ok {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse("invalid user claims"))
		return nil, uuid.Nil, false
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse("invalid user ID in token"))
		return nil, uuid.Nil, false
	}

	return claims, userID, true
}

// statusForError maps domain sentinels onto HTTP statuses so every handler
// surfaces the same user-legible classes.
func statusForError(err error) int {
	switch {
	case models.IsValidation(err):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrSlotTaken):
		return http.StatusConflict
	case errors.Is(err, models.ErrClosed):
		return http.StatusConflict
	case errors.Is(err, models.ErrAlreadyRedeemed),
		errors.Is(err, models.ErrBookingCancelled),
		errors.Is(err, models.ErrAlreadyFinalized):
		return http.StatusConflict
	case errors.Is(err, models.ErrBookingNotFound),
		errors.Is(err, models.ErrSpaceNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrWrongSpace),
		errors.Is(err, models.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, models.ErrReviewExists),
		errors.Is(err, models.ErrBookingNotableYet):
		return http.StatusConflict
	default:
		// Store/identity failures are retryable transients, never swallowed.
		return http.StatusServiceUnavailable
	}
}

func respondError(c *gin.Context, err error) {
	c.JSON(statusForError(err), models.ErrorResponse(err.Error()))
}
