package repository

import (
	"context"
	"fmt"

	"go-skin-inspector/internal/logger"
	"go-skin-inspector/internal/storage"
	"go-skin-inspector/pkg/validation"
)

// SourceImageRepository dispatches URLs to the HTTP or blob fetcher
type SourceImageRepository struct {
	http      storage.ImageFetcher
	blob      storage.ImageFetcher
	validator *validation.URLValidator
}

// NewSourceImageRepository creates a repository; blob may be nil, in which case
// blob URLs are fetched over plain HTTP.
func NewSourceImageRepository(http, blob storage.ImageFetcher, validator *validation.URLValidator) *SourceImageRepository {
	if validator == nil {
		validator = validation.NewURLValidator()
	}
	return &SourceImageRepository{
		http:      http,
		blob:      blob,
		validator: validator,
	}
}

func (r *SourceImageRepository) FetchImage(ctx context.Context, imageURL string) ([]byte, error) {
	if err := r.ValidateImageURL(imageURL); err != nil {
		return nil, err
	}

	fetcher, source := r.fetcherFor(imageURL)
	if fetcher == nil {
		return nil, fmt.Errorf("%w for %s", ErrNoFetcher, imageURL)
	}

	logger.WithField("source", source).Debug("Fetching image")
	return fetcher.FetchImage(ctx, imageURL)
}

func (r *SourceImageRepository) fetcherFor(imageURL string) (storage.ImageFetcher, string) {
	if r.blob != nil && storage.IsBlobURL(imageURL) {
		return r.blob, "azure"
	}
	return r.http, "http"
}

func (r *SourceImageRepository) ValidateImageURL(imageURL string) error {
	return r.validator.ValidateImageURL(imageURL)
}
