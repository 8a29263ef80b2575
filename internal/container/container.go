package container

import (
	"fmt"
	"net/http"

	"go-skin-inspector/internal/analyzer"
	"go-skin-inspector/internal/catalog"
	"go-skin-inspector/internal/chat"
	"go-skin-inspector/internal/config"
	"go-skin-inspector/internal/factory"
	"go-skin-inspector/internal/logger"
	"go-skin-inspector/internal/observer"
	"go-skin-inspector/internal/repository"
	"go-skin-inspector/internal/service"
	"go-skin-inspector/internal/storage"
	"go-skin-inspector/internal/transport"
	"go-skin-inspector/pkg/validation"
)

// Container holds all application dependencies
type Container struct {
	config          *config.Config
	skinAnalyzer    analyzer.SkinAnalyzer
	imageRepository repository.ImageRepository
	publisher       *observer.EventPublisher
	metrics         *observer.MetricsObserver
	analysisService service.SkinAnalysisService
	catalog         *catalog.Catalog
	advisor         *chat.Advisor
	handler         http.Handler
}

// NewContainer builds the dependency graph from cfg
func NewContainer(cfg *config.Config) (*Container, error) {
	components := factory.NewComponentFactory(cfg, analyzer.DefaultOptions())

	httpFetcher, err := components.StorageFactory.CreateStorage(factory.HTTPStorage)
	if err != nil {
		return nil, fmt.Errorf("failed to create http storage: %w", err)
	}

	var blobFetcher storage.ImageFetcher
	if cfg.AzureEnabled() {
		blobFetcher, err = components.StorageFactory.CreateStorage(factory.AzureStorage)
		if err != nil {
			return nil, fmt.Errorf("failed to create azure storage: %w", err)
		}
	} else {
		logger.Info("Azure credentials not set, blob URLs are fetched over HTTP")
	}

	skinAnalyzer, err := components.AnalyzerFactory.CreateAnalyzer(factory.StandardAnalyzer)
	if err != nil {
		return nil, fmt.Errorf("failed to create analyzer: %w", err)
	}

	publisher := observer.NewEventPublisher()
	metrics := observer.NewMetricsObserver()
	publisher.Subscribe(observer.NewLoggingObserver(logger.Logger))
	publisher.Subscribe(metrics)

	imageRepository := repository.NewSourceImageRepository(httpFetcher, blobFetcher, validation.NewURLValidator())
	analysisService := service.NewSkinAnalysisService(imageRepository, skinAnalyzer, publisher, cfg.AnalysisTimeout)

	products, err := catalog.Load(cfg.ProductsCSVPath)
	if err != nil {
		skinAnalyzer.Close()
		return nil, err
	}

	c := &Container{
		config:          cfg,
		skinAnalyzer:    skinAnalyzer,
		imageRepository: imageRepository,
		publisher:       publisher,
		metrics:         metrics,
		analysisService: analysisService,
		catalog:         products,
	}

	// transport treats a nil advisor as "chat unavailable"
	var advisor transport.ChatAdvisor
	if cfg.ChatEnabled() {
		c.advisor = chat.NewAdvisor(chat.NewOpenRouterClient(cfg), products)
		advisor = c.advisor
	} else {
		logger.Warn("OPENROUTER_API_KEY not set, chat endpoint disabled")
	}

	c.handler = transport.NewHandler(analysisService, advisor, metrics, cfg)
	return c, nil
}

// Handler returns the HTTP handler
func (c *Container) Handler() http.Handler {
	return c.handler
}

// Config returns the configuration
func (c *Container) Config() *config.Config {
	return c.config
}

// Metrics returns the collected analysis counters
func (c *Container) Metrics() observer.MetricsSnapshot {
	return c.metrics.Snapshot()
}

// Close releases the analyzer worker pool
func (c *Container) Close() error {
	return c.skinAnalyzer.Close()
}
