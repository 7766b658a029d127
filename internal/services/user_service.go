package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/JJ8s/Space-GYM/internal/models"
)

type UserService struct {
	userRepo models.UserRepo
}

func NewUserService(userRepo models.UserRepo) *UserService {
	return &UserService{
		userRepo: userRepo,
	}
}

func (us *UserService) CreateUser(ctx context.Context, user *models.User) (interface{}, error) {
	user.Email = strings.TrimSpace(strings.ToLower(user.Email))
	if user.Email == "" {
		return nil, fmt.Errorf("email is required")
	}
	if len(user.Password) < 8 {
		return nil, fmt.Errorf("password must be at least 8 characters")
	}
	switch user.Role {
	case models.RoleCustomer, models.RoleBusiness:
	case "":
		user.Role = models.RoleCustomer
	default:
		return nil, fmt.Errorf("unsupported role: %s", user.Role)
	}
	return us.userRepo.CreateUser(ctx, user)
}

func (us *UserService) AuthenticateUser(ctx context.Context, email, password string) (interface{}, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return nil, fmt.Errorf("email and password are required")
	}
	return us.userRepo.AuthenticateUser(ctx, email, password)
}

func (us *UserService) RefreshToken(refreshToken string) (interface{}, error) {
	if refreshToken == "" {
		return nil, fmt.Errorf("refresh token is required")
	}
	return us.userRepo.RefreshToken(context.Background(), refreshToken)
}

func (us *UserService) GetUser(id uuid.UUID, accessToken string) (*models.User, error) {
	if id == uuid.Nil {
		return nil, fmt.Errorf("invalid user ID")
	}
	return us.userRepo.GetUser(context.Background(), id, accessToken)
}

func (us *UserService) UpdateUser(ctx context.Context, updates map[string]interface{}, userID uuid.UUID, accessToken string) (*models.User, error) {
	return us.userRepo.UpdateUser(ctx, updates, userID, accessToken)
}
