package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/JJ8s/Space-GYM/internal/connect"
	"github.com/JJ8s/Space-GYM/internal/helpers"
	"github.com/JJ8s/Space-GYM/internal/models"
)

type SpacesService struct {
	spacesRepo   models.SpacesRepo
	bookingsRepo models.BookingsRepo
}

func NewSpacesService(spacesRepo models.SpacesRepo, bookingsRepo models.BookingsRepo) *SpacesService {
	return &SpacesService{
		spacesRepo:   spacesRepo,
		bookingsRepo: bookingsRepo,
	}
}

func (ss *SpacesService) CreateSpace(ctx context.Context, space *models.SportSpace, ownerID uuid.UUID) (*models.SportSpace, error) {
	if err := models.Validate.Struct(space); err != nil {
		return nil, fmt.Errorf("invalid space data provided: %v", err)
	}
	if err := models.ValidateSchedule(space.Schedule); err != nil {
		return nil, models.NewValidationError("schedule", err.Error())
	}
	if len(space.ExtraImageURLs) > models.MaxExtraImages {
		return nil, models.NewValidationError("extra_image_urls", fmt.Sprintf("at most %d extra images", models.MaxExtraImages))
	}

	now := time.Now().UTC()
	if space.ID == uuid.Nil {
		space.ID = uuid.New()
	}
	space.OwnerID = ownerID
	space.Slug = helpers.GenerateSlug(space.Name, space.Location)
	space.CreatedAt = now
	space.UpdatedAt = now

	// Upload images first if any
	var uploadedPublicIDs []string
	sources := space.ExtraImageURLs
	if space.ImageURL != "" {
		sources = append([]string{space.ImageURL}, sources...)
	}
	if len(sources) > 0 && connect.Cld != nil {
		uploadCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()

		urls, publicIDs, err := helpers.UploadImages(uploadCtx, connect.Cld, sources, helpers.SpaceFolder)
		if err != nil {
			return nil, fmt.Errorf("failed to upload images: %v", err)
		}
		uploadedPublicIDs = publicIDs
		if space.ImageURL != "" && len(urls) > 0 {
			space.ImageURL = urls[0]
			space.ExtraImageURLs = urls[1:]
		} else {
			space.ExtraImageURLs = urls
		}
	}

	created, err := ss.spacesRepo.CreateSpace(ctx, space)
	if err != nil {
		// If the insert fails, clean up whatever was uploaded
		if len(uploadedPublicIDs) > 0 {
			helpers.DeleteImages(ctx, connect.Cld, uploadedPublicIDs)
		}
		return nil, err
	}

	return created, nil
}

func (ss *SpacesService) GetSpaceByID(ctx context.Context, id uuid.UUID) (*models.SportSpace, error) {
	if id == uuid.Nil {
		return nil, fmt.Errorf("invalid space ID")
	}
	return ss.spacesRepo.GetSpaceByID(ctx, id)
}

func (ss *SpacesService) ListSpaces(ctx context.Context, filters models.SpaceFilters, offset, limit int) ([]*models.SportSpace, int, error) {
	if offset < 0 || limit <= 0 {
		return nil, 0, fmt.Errorf("invalid offset or limit")
	}
	return ss.spacesRepo.ListSpaces(ctx, filters, offset, limit)
}

func (ss *SpacesService) ListSpacesByOwner(ctx context.Context, ownerID uuid.UUID, offset, limit int) ([]*models.SportSpace, int, error) {
	if offset < 0 || limit <= 0 {
		return nil, 0, fmt.Errorf("invalid offset or limit")
	}
	if ownerID == uuid.Nil {
		return nil, 0, fmt.Errorf("invalid owner ID")
	}
	return ss.spacesRepo.ListSpacesByOwner(ctx, ownerID, offset, limit)
}

// UpdateSpace applies a partial update after re-validating the schedule if it
// changed. Only the owning account may mutate a space; the handler enforces
// that before calling in, and the ownership filter here is the backstop.
func (ss *SpacesService) UpdateSpace(ctx context.Context, id, actorID uuid.UUID, updates map[string]interface{}) (*models.SportSpace, error) {
	if id == uuid.Nil {
		return nil, fmt.Errorf("invalid space ID")
	}
	if len(updates) == 0 {
		return nil, fmt.Errorf("no fields to update")
	}

	space, err := ss.spacesRepo.GetSpaceByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if space.OwnerID != actorID {
		return nil, models.ErrForbidden
	}

	if raw, ok := updates["schedule"]; ok {
		blocks, ok := raw.([]models.ScheduleBlock)
		if !ok {
			return nil, models.NewValidationError("schedule", "expected a list of open/close blocks")
		}
		if err := models.ValidateSchedule(blocks); err != nil {
			return nil, models.NewValidationError("schedule", err.Error())
		}
	}

	updates["updated_at"] = time.Now().UTC()
	return ss.spacesRepo.UpdateSpace(ctx, id, updates)
}

// DeleteSpace removes a space and its booking history. The purge runs first;
// if it fails the space stays, so no booking is ever left pointing at a
// deleted space.
func (ss *SpacesService) DeleteSpace(ctx context.Context, id, actorID uuid.UUID) error {
	if id == uuid.Nil {
		return fmt.Errorf("invalid space ID")
	}

	space, err := ss.spacesRepo.GetSpaceByID(ctx, id)
	if err != nil {
		return err
	}
	if space.OwnerID != actorID {
		return models.ErrForbidden
	}

	if err := ss.bookingsRepo.DeleteBookingsBySpace(ctx, id); err != nil {
		return fmt.Errorf("aborting space delete, booking purge failed: %w", err)
	}
	return ss.spacesRepo.DeleteSpace(ctx, id)
}
