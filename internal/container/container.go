package container

import (
	"log/slog"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/supabase-community/supabase-go"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/JJ8s/Space-GYM/internal/clock"
	"github.com/JJ8s/Space-GYM/internal/config"
	"github.com/JJ8s/Space-GYM/internal/models"
	"github.com/JJ8s/Space-GYM/internal/notify"
	"github.com/JJ8s/Space-GYM/internal/services"
)

// Container holds all application dependencies
type Container struct {
	Logger     *slog.Logger
	Config     *config.Config
	Cloudinary *cloudinary.Cloudinary
	// Database clients
	SupabaseClient *supabase.Client
	MongoDBClient  *mongo.Client
	Dispatcher     notify.Dispatcher
	UserService    *services.UserService
	SpacesService  *services.SpacesService
	BookingService *services.BookingService
	ReviewService  *services.ReviewService
}

// NewContainer creates a new dependency injection container
func NewContainer(
	cfg *config.Config,
	logger *slog.Logger,
	cld *cloudinary.Cloudinary,
	supabaseClient *supabase.Client,
	mongoDBClient *mongo.Client,
	dispatcher notify.Dispatcher,
	supaUrl, supaKey string,
) *Container {
	// Initialize repositories
	supa := models.SupabaseNewRepo(supabaseClient, supaUrl, supaKey)
	mongo := models.MongodbNewRepo(mongoDBClient)

	userService := services.NewUserService(supa)
	spacesService := services.NewSpacesService(mongo, mongo)
	bookingService := services.NewBookingService(mongo, mongo, supa, dispatcher, clock.NewSystem(), logger)
	reviewService := services.NewReviewService(mongo, mongo)

	return &Container{
		Logger:         logger,
		Config:         cfg,
		Cloudinary:     cld,
		SupabaseClient: supabaseClient,
		MongoDBClient:  mongoDBClient,
		Dispatcher:     dispatcher,
		UserService:    userService,
		SpacesService:  spacesService,
		BookingService: bookingService,
		ReviewService:  reviewService,
	}
}
