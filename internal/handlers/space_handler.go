package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/JJ8s/Space-GYM/internal/helpers"
	"github.com/JJ8s/Space-GYM/internal/models"
	"github.com/JJ8s/Space-GYM/internal/services"
)

// parsePagination reads the usual limit/offset query params. It writes the
// error response itself on bad input.
func parsePagination(c *gin.Context) (offset, limit int, ok bool) {
	limitStr := c.DefaultQuery("limit", "10")
	offsetStr := c.DefaultQuery("offset", "0")

	limit, err := strconv.Atoi(limitStr)
	if err != nil || limit <= 0 {
		c.JSON(http.StatusBadRequest, models.ErrorResponse("invalid limit parameter"))
		return 0, 0, false
	}
	offset, err = strconv.Atoi(offsetStr)
	if err != nil || offset < 0 {
		c.JSON(http.StatusBadRequest, models.ErrorResponse("invalid offset parameter"))
		return 0, 0, false
	}
	return offset, limit, true
}

func parseIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	raw := strings.TrimSpace(c.Param(name))
	raw = strings.Trim(raw, "\"'")
	if raw == "" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse(name+" is required"))
		return uuid.Nil, false
	}

	parsed, err := uuid.Parse(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse("invalid "+name+" format"))
		return uuid.Nil, false
	}
	return parsed, true
}

func CreateSpace(s *services.SpacesService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ownerID, ok := currentUser(c)
		if !ok {
			return
		}
		if !claims.IsBusiness() && !claims.IsAdmin() {
			c.JSON(http.StatusForbidden, models.ErrorResponse("only business accounts can register spaces"))
			return
		}

		var space models.SportSpace
		if err := c.ShouldBindJSON(&space); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}

		created, err := s.CreateSpace(c.Request.Context(), &space, ownerID)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusCreated, models.SuccessResponse(created, "Space registered successfully"))
	}
}

func ListSpaces(s *services.SpacesService) gin.HandlerFunc {
	return func(c *gin.Context) {
		offset, limit, ok := parsePagination(c)
		if !ok {
			return
		}

		filters := models.SpaceFilters{
			SearchQuery: strings.TrimSpace(c.Query("q")),
			Location:    strings.TrimSpace(c.Query("location")),
		}
		if raw := c.Query("min_price"); raw != "" {
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil || v < 0 {
				c.JSON(http.StatusBadRequest, models.ErrorResponse("invalid min_price parameter"))
				return
			}
			filters.MinPrice = v
		}
		if raw := c.Query("max_price"); raw != "" {
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil || v < 0 {
				c.JSON(http.StatusBadRequest, models.ErrorResponse("invalid max_price parameter"))
				return
			}
			filters.MaxPrice = v
		}

		spaces, total, err := s.ListSpaces(c.Request.Context(), filters, offset, limit)
		if err != nil {
			respondError(c, err)
			return
		}

		page := (offset / limit) + 1
		c.JSON(http.StatusOK, models.PaginatedResponse(spaces, page, limit, total))
	}
}

func GetSpaceByID(s *services.SpacesService) gin.HandlerFunc {
	return func(c *gin.Context) {
		spaceID, ok := parseIDParam(c, "id")
		if !ok {
			return
		}

		space, err := s.GetSpaceByID(c.Request.Context(), spaceID)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, models.SuccessResponse(space, ""))
	}
}

func ListSpacesByOwner(s *services.SpacesService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, userID, ok := currentUser(c)
		if !ok {
			return
		}
		offset, limit, ok := parsePagination(c)
		if !ok {
			return
		}

		ownerID, ok := parseIDParam(c, "owner_id")
		if !ok {
			return
		}
		if ownerID != userID && !claims.IsAdmin() {
			c.JSON(http.StatusForbidden, models.ErrorResponse("unauthorized access"))
			return
		}

		spaces, total, err := s.ListSpacesByOwner(c.Request.Context(), ownerID, offset, limit)
		if err != nil {
			respondError(c, err)
			return
		}

		page := (offset / limit) + 1
		c.JSON(http.StatusOK, models.PaginatedResponse(spaces, page, limit, total))
	}
}

type updateSpaceRequest struct {
	Name        *string                 `json:"name"`
	Location    *string                 `json:"location"`
	Description *string                 `json:"description"`
	Amenities   *[]string               `json:"amenities"`
	PricePerDay *float64                `json:"price_per_day"`
	Schedule    *[]models.ScheduleBlock `json:"schedule"`
}

func UpdateSpace(s *services.SpacesService) gin.HandlerFunc {
	return func(c *gin.Context) {
		_, userID, ok := currentUser(c)
		if !ok {
			return
		}
		spaceID, ok := parseIDParam(c, "id")
		if !ok {
			return
		}

		var req updateSpaceRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}

		updates := map[string]interface{}{}
		if req.Name != nil {
			name := strings.TrimSpace(*req.Name)
			if name == "" {
				c.JSON(http.StatusBadRequest, models.ErrorResponse("name cannot be empty"))
				return
			}
			updates["name"] = name
			updates["slug"] = helpers.GenerateSlug(name, "")
		}
		if req.Location != nil {
			updates["location"] = strings.TrimSpace(*req.Location)
		}
		if req.Description != nil {
			updates["description"] = *req.Description
		}
		if req.Amenities != nil {
			updates["amenities"] = *req.Amenities
		}
		if req.PricePerDay != nil {
			if *req.PricePerDay < 0 {
				c.JSON(http.StatusBadRequest, models.ErrorResponse("price_per_day cannot be negative"))
				return
			}
			updates["price_per_day"] = *req.PricePerDay
		}
		if req.Schedule != nil {
			updates["schedule"] = *req.Schedule
		}

		updated, err := s.UpdateSpace(c.Request.Context(), spaceID, userID, updates)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, models.SuccessResponse(updated, "Space updated successfully"))
	}
}

func DeleteSpace(s *services.SpacesService) gin.HandlerFunc {
	return func(c *gin.Context) {
		_, userID, ok := currentUser(c)
		if !ok {
			return
		}
		spaceID, ok := parseIDParam(c, "id")
		if !ok {
			return
		}

		if err := s.DeleteSpace(c.Request.Context(), spaceID, userID); err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, models.SuccessResponse(nil, "Space deleted successfully"))
	}
}
