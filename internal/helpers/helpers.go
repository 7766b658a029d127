package helpers

import (
	"context"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/golang-jwt/jwt/v5"
)

const (
	AvatarFolder = "avatars"
	SpaceFolder  = "spaces"
)

type CustomClaims struct {
	Role        string `json:"role"`
	Email       string `json:"email"`
	AppMetadata struct {
		Provider  string   `json:"provider"`
		Providers []string `json:"providers"`
		Roles     []string `json:"roles,omitempty"`
	} `json:"app_metadata"`
	UserMetadata map[string]interface{} `json:"user_metadata"`
	jwt.RegisteredClaims
}

func ValidateToken(tokenStr string) (*CustomClaims, error) {
	supabaseURL := os.Getenv("SUPABASE_URL")
	if supabaseURL == "" {
		return nil, errors.New("SUPABASE_URL not set")
	}

	jwksURL := fmt.Sprintf("%s/rest/v1/auth/jwks", supabaseURL)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	jwks, err := keyfunc.Get(jwksURL, keyfunc.Options{
		Ctx: ctx,
	})
	if err != nil {
		// Fallback to unverified parsing if JWKS fails (for development)
		token, _, parseErr := jwt.NewParser().ParseUnverified(tokenStr, &CustomClaims{})
		if parseErr != nil {
			return nil, fmt.Errorf("JWKS validation failed and fallback parsing failed: %v", parseErr)
		}
		claims, ok := token.Claims.(*CustomClaims)
		if !ok {
			return nil, errors.New("invalid token claims")
		}
		return claims, nil
	}
	defer jwks.EndBackground()

	token, err := jwt.ParseWithClaims(tokenStr, &CustomClaims{}, jwks.Keyfunc)
	if err != nil {
		return nil, fmt.Errorf("token validation failed: %v", err)
	}

	claims, ok := token.Claims.(*CustomClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid or expired token")
	}

	return claims, nil
}

var slugCleaner = regexp.MustCompile(`[^a-z0-9]+`)

// GenerateSlug builds a url-safe identifier from a space name and location.
func GenerateSlug(name, location string) string {
	raw := strings.ToLower(name + " " + location)
	slug := slugCleaner.ReplaceAllString(raw, "-")
	return strings.Trim(slug, "-")
}

// NormalizeToken trims whitespace and stray quotes from a presented check-in
// token; scanned and typed input funnel through the same cleanup.
func NormalizeToken(raw string) string {
	token := strings.TrimSpace(raw)
	return strings.Trim(token, "\"'")
}

// UploadImages pushes the given image sources to Cloudinary and returns their
// delivery URLs plus public ids so a failed create can clean up after itself.
func UploadImages(ctx context.Context, cld *cloudinary.Cloudinary, imageSources []string, folder string) ([]string, []string, error) {
	var urls []string
	var publicIDs []string

	for i, src := range imageSources {
		if strings.TrimSpace(src) == "" {
			fmt.Printf("Skipping empty image source at index %d\n", i)
			continue
		}
		uploadResult, err := cld.Upload.Upload(ctx, src, uploader.UploadParams{
			Folder: folder,
			Tags:   []string{"space-gym"},
		})
		if err != nil {
			return nil, nil, fmt.Errorf("failed to upload image %s: %v", src, err)
		}
		urls = append(urls, uploadResult.SecureURL)
		publicIDs = append(publicIDs, uploadResult.PublicID)
	}

	return urls, publicIDs, nil
}

// DeleteImages removes previously uploaded images; cleanup is best-effort.
func DeleteImages(ctx context.Context, cld *cloudinary.Cloudinary, publicIDs []string) {
	for _, id := range publicIDs {
		if _, err := cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: id}); err != nil {
			fmt.Printf("failed to delete image %s: %v\n", id, err)
		}
	}
}
