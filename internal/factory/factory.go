package factory

import (
	"fmt"

	"go-skin-inspector/internal/analyzer"
	"go-skin-inspector/internal/config"
	"go-skin-inspector/internal/storage"
)

// AnalyzerType represents different analyzer configurations
type AnalyzerType string

const (
	// StandardAnalyzer runs the local texture pass across CPUs
	StandardAnalyzer AnalyzerType = "standard"
	// SequentialAnalyzer keeps every analysis on the calling goroutine
	SequentialAnalyzer AnalyzerType = "sequential"
)

// StorageType represents different image sources
type StorageType string

const (
	// HTTPStorage for HTTP-based image fetching
	HTTPStorage StorageType = "http"
	// AzureStorage for Azure blob storage
	AzureStorage StorageType = "azure"
)

// AnalyzerFactory creates skin analyzers
type AnalyzerFactory interface {
	CreateAnalyzer(analyzerType AnalyzerType) (analyzer.SkinAnalyzer, error)
}

// StorageFactory creates image fetchers
type StorageFactory interface {
	CreateStorage(storageType StorageType) (storage.ImageFetcher, error)
}

type analyzerFactory struct {
	options analyzer.Options
}

// NewAnalyzerFactory creates analyzers derived from base options
func NewAnalyzerFactory(options analyzer.Options) AnalyzerFactory {
	return &analyzerFactory{options: options}
}

func (f *analyzerFactory) CreateAnalyzer(analyzerType AnalyzerType) (analyzer.SkinAnalyzer, error) {
	switch analyzerType {
	case StandardAnalyzer:
		return analyzer.NewSkinAnalyzer(f.options)
	case SequentialAnalyzer:
		return analyzer.NewSkinAnalyzer(f.options.WithoutParallel())
	default:
		return nil, fmt.Errorf("unsupported analyzer type: %s", analyzerType)
	}
}

type storageFactory struct {
	cfg *config.Config
}

// NewStorageFactory creates fetchers configured from cfg
func NewStorageFactory(cfg *config.Config) StorageFactory {
	return &storageFactory{cfg: cfg}
}

func (f *storageFactory) CreateStorage(storageType StorageType) (storage.ImageFetcher, error) {
	switch storageType {
	case HTTPStorage:
		return storage.NewHTTPImageFetcher(f.cfg.ImageFetchTimeout, f.cfg.MaxImageBytes), nil
	case AzureStorage:
		if !f.cfg.AzureEnabled() {
			return nil, fmt.Errorf("azure storage requires AZURE_STORAGE_ACCOUNT and AZURE_STORAGE_KEY")
		}
		fetcher, err := storage.NewAzureBlobFetcher(f.cfg.AzureAccountName, f.cfg.AzureAccountKey, f.cfg.MaxImageBytes)
		if err != nil {
			return nil, err
		}
		return fetcher, nil
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", storageType)
	}
}

// ComponentFactory combines all factories
type ComponentFactory struct {
	AnalyzerFactory AnalyzerFactory
	StorageFactory  StorageFactory
}

// NewComponentFactory creates a new component factory
func NewComponentFactory(cfg *config.Config, options analyzer.Options) *ComponentFactory {
	return &ComponentFactory{
		AnalyzerFactory: NewAnalyzerFactory(options),
		StorageFactory:  NewStorageFactory(cfg),
	}
}
