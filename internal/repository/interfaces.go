package repository

import "context"

// ImageRepository resolves an image URL to its encoded bytes
type ImageRepository interface {
	// FetchImage retrieves the raw image bytes behind a URL
	FetchImage(ctx context.Context, imageURL string) ([]byte, error)

	// ValidateImageURL validates if the provided URL is acceptable
	ValidateImageURL(imageURL string) error
}
