package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/JJ8s/Space-GYM/internal/models"
	"github.com/JJ8s/Space-GYM/internal/services"
)

// CheckIn redeems a scanned booking token at the owner's desk. Only business
// accounts can redeem, and only for bookings held against their own spaces.
func CheckIn(b *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ownerID, ok := currentUser(c)
		if !ok {
			return
		}
		if !claims.IsBusiness() && !claims.IsAdmin() {
			c.JSON(http.StatusForbidden, models.ErrorResponse("only business accounts can redeem bookings"))
			return
		}

		var req struct {
			Token string `json:"token" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("token is required"))
			return
		}

		accessToken, _ := c.Cookie("access_token")
		receipt, err := b.CheckIn(c.Request.Context(), req.Token, ownerID, accessToken)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, models.SuccessResponse(receipt, "Booking redeemed"))
	}
}

func ListOwnerBookings(b *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ownerID, ok := currentUser(c)
		if !ok {
			return
		}
		if !claims.IsBusiness() && !claims.IsAdmin() {
			c.JSON(http.StatusForbidden, models.ErrorResponse("only business accounts can view space bookings"))
			return
		}
		offset, limit, ok := parsePagination(c)
		if !ok {
			return
		}

		bookings, total, err := b.ListOwnerBookings(c.Request.Context(), ownerID, offset, limit)
		if err != nil {
			respondError(c, err)
			return
		}

		page := (offset / limit) + 1
		c.JSON(http.StatusOK, models.PaginatedResponse(bookings, page, limit, total))
	}
}

// OwnerEarnings sums the totals of every confirmed or completed booking across
// the owner's spaces. Cancelled bookings never count.
func OwnerEarnings(b *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ownerID, ok := currentUser(c)
		if !ok {
			return
		}
		if !claims.IsBusiness() && !claims.IsAdmin() {
			c.JSON(http.StatusForbidden, models.ErrorResponse("only business accounts have earnings"))
			return
		}

		total, err := b.Earnings(c.Request.Context(), ownerID)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, models.SuccessResponse(gin.H{"total_earnings": total}, ""))
	}
}
