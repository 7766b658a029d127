package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/JJ8s/Space-GYM/internal/models"
	"github.com/JJ8s/Space-GYM/internal/services"
)

func GetUser(u *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, claimsUserID, ok := currentUser(c)
		if !ok {
			return
		}
		userID, ok := parseIDParam(c, "id")
		if !ok {
			return
		}

		// A user can read their own profile; admins can read any.
		if claimsUserID != userID && !claims.IsAdmin() {
			c.JSON(http.StatusForbidden, models.ErrorResponse("access denied"))
			return
		}

		accessToken, err := c.Cookie("access_token")
		if err != nil {
			c.JSON(http.StatusUnauthorized, models.ErrorResponse("access token not found"))
			return
		}

		user, err := u.GetUser(userID, accessToken)
		if err != nil {
			c.JSON(http.StatusNotFound, models.ErrorResponse(err.Error()))
			return
		}

		c.JSON(http.StatusOK, models.SuccessResponse(user, ""))
	}
}

func UpdateUser(u *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, claimsUserID, ok := currentUser(c)
		if !ok {
			return
		}
		userID, ok := parseIDParam(c, "id")
		if !ok {
			return
		}

		if claimsUserID != userID && !claims.IsAdmin() {
			c.JSON(http.StatusForbidden, models.ErrorResponse("access denied"))
			return
		}

		var updates map[string]interface{}
		if err := c.ShouldBindJSON(&updates); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}
		// Role changes go through support, never through self-service.
		delete(updates, "role")
		delete(updates, "id")

		accessToken, err := c.Cookie("access_token")
		if err != nil {
			c.JSON(http.StatusUnauthorized, models.ErrorResponse("access token not found"))
			return
		}

		user, err := u.UpdateUser(c.Request.Context(), updates, userID, accessToken)
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}

		c.JSON(http.StatusOK, models.SuccessResponse(user, "Profile updated successfully"))
	}
}
