package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/JJ8s/Space-GYM/internal/models"
	"github.com/JJ8s/Space-GYM/internal/services"
)

func CheckAvailability(b *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var draft models.BookingDraft
		if err := c.ShouldBindJSON(&draft); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}

		if err := b.CheckAvailability(c.Request.Context(), &draft); err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, models.SuccessResponse(gin.H{"available": true}, "Slot is available"))
	}
}

func CreateBooking(b *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, userID, ok := currentUser(c)
		if !ok {
			return
		}

		var draft models.BookingDraft
		if err := c.ShouldBindJSON(&draft); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}

		booking, err := b.CreateBooking(c.Request.Context(), &draft, userID, claims.Email)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusCreated, models.SuccessResponse(booking, "Booking confirmed"))
	}
}

func ListMyBookings(b *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		_, userID, ok := currentUser(c)
		if !ok {
			return
		}
		offset, limit, ok := parsePagination(c)
		if !ok {
			return
		}

		bookings, total, err := b.ListMyBookings(c.Request.Context(), userID, offset, limit)
		if err != nil {
			respondError(c, err)
			return
		}

		page := (offset / limit) + 1
		c.JSON(http.StatusOK, models.PaginatedResponse(bookings, page, limit, total))
	}
}

func GetBooking(b *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		_, userID, ok := currentUser(c)
		if !ok {
			return
		}
		bookingID, ok := parseIDParam(c, "id")
		if !ok {
			return
		}

		booking, err := b.GetBooking(c.Request.Context(), bookingID, userID)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, models.SuccessResponse(booking, ""))
	}
}

// BookingQR renders the booking id as a PNG QR code. The owner scans this at
// the door; the payload is just the id, which the check-in endpoint accepts
// as the redemption token.
func BookingQR(b *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		_, userID, ok := currentUser(c)
		if !ok {
			return
		}
		bookingID, ok := parseIDParam(c, "id")
		if !ok {
			return
		}

		booking, err := b.GetBooking(c.Request.Context(), bookingID, userID)
		if err != nil {
			respondError(c, err)
			return
		}

		png, err := qrcode.Encode(booking.ID.String(), qrcode.Medium, 256)
		if err != nil {
			c.JSON(http.StatusInternalServerError, models.ErrorResponse("failed to render QR code"))
			return
		}

		c.Data(http.StatusOK, "image/png", png)
	}
}

func CancelBooking(b *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		_, userID, ok := currentUser(c)
		if !ok {
			return
		}
		bookingID, ok := parseIDParam(c, "id")
		if !ok {
			return
		}

		booking, err := b.CancelBooking(c.Request.Context(), bookingID, userID)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, models.SuccessResponse(booking, "Booking cancelled"))
	}
}
