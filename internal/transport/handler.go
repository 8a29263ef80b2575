package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"go-skin-inspector/internal/chat"
	"go-skin-inspector/internal/config"
	apperrors "go-skin-inspector/internal/errors"
	"go-skin-inspector/internal/logger"
	"go-skin-inspector/internal/observer"
	"go-skin-inspector/internal/service"
	"go-skin-inspector/pkg/models"
)

const version = "1.0.0"

// ChatAdvisor answers chat messages
type ChatAdvisor interface {
	Reply(ctx context.Context, req chat.Request) (*chat.Response, error)
}

// MetricsProvider exposes aggregated analysis counters
type MetricsProvider interface {
	Snapshot() observer.MetricsSnapshot
}

// NewHandler builds the router. advisor and metrics may be nil; /chat then
// answers 503 and /metrics 404.
func NewHandler(svc service.SkinAnalysisService, advisor ChatAdvisor, metrics MetricsProvider, cfg *config.Config) http.Handler {
	r := gin.New()

	// Add middleware
	r.Use(
		gin.Recovery(),
		requestLogger(),
		requestSizeLimiter(cfg.MaxRequestBodySize),
		errorHandler(),
	)

	// Configure routes
	r.GET("/health", healthCheck)
	if metrics != nil {
		r.GET("/metrics", metricsSnapshot(metrics))
	}
	r.POST("/analyze-skin", analyzeUpload(svc, cfg))
	r.POST("/analyze-skin/url", analyzeURL(svc, cfg))
	r.POST("/chat", chatReply(advisor, cfg))

	return r
}

func analyzeUpload(svc service.SkinAnalysisService, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), cfg.RequestTimeout)
		defer cancel()

		fileHeader, err := c.FormFile("file")
		if err != nil {
			respondError(c, uploadStatus(err), "no image uploaded", err)
			return
		}
		data, err := readUpload(fileHeader)
		if err != nil {
			respondError(c, uploadStatus(err), "failed to read upload", err)
			return
		}

		detailed := c.Query("detailed") == "true"
		logger.WithFields(logrus.Fields{
			"filename": fileHeader.Filename,
			"bytes":    len(data),
			"detailed": detailed,
		}).Debug("Analyzing uploaded image")

		var resp *models.SkinAnalysisResponse
		if detailed {
			resp, err = svc.AnalyzeDetailed(ctx, fileHeader.Filename, data)
		} else {
			resp, err = svc.AnalyzeUpload(ctx, fileHeader.Filename, data)
		}
		if err != nil {
			respondError(c, apperrors.GetStatusCode(err), "analysis failed", err)
			return
		}

		logCompleted(resp)
		c.JSON(http.StatusOK, resp)
	}
}

func analyzeURL(svc service.SkinAnalysisService, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), cfg.RequestTimeout)
		defer cancel()

		var req models.AnalyzeURLRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, "invalid request format", err)
			return
		}

		resp, err := svc.AnalyzeURL(ctx, req.URL)
		if err != nil {
			respondError(c, apperrors.GetStatusCode(err), "analysis failed", err)
			return
		}

		logCompleted(resp)
		c.JSON(http.StatusOK, resp)
	}
}

func chatReply(advisor ChatAdvisor, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		if advisor == nil {
			err := apperrors.NewUnavailableError("chat advisor is not configured", nil)
			respondError(c, err.StatusCode, "chat unavailable", err)
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), cfg.RequestTimeout)
		defer cancel()

		var req chat.Request
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, "invalid request format", err)
			return
		}

		resp, err := advisor.Reply(ctx, req)
		if err != nil {
			respondError(c, apperrors.GetStatusCode(err), "chat failed", err)
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}

func metricsSnapshot(metrics MetricsProvider) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, metrics.Snapshot())
	}
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "available",
		"version": version,
		"time":    time.Now().UTC().Format(time.RFC3339),
	})
}

func readUpload(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

func uploadStatus(err error) int {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return http.StatusRequestEntityTooLarge
	}
	return http.StatusBadRequest
}

func logCompleted(resp *models.SkinAnalysisResponse) {
	logger.WithFields(logrus.Fields{
		"analysis_id":         resp.AnalysisID,
		"source":              resp.Source,
		"severity":            resp.Analysis.Acne.Severity,
		"processing_time_sec": resp.ProcessingTimeSec,
	}).Info("Skin analysis completed successfully")
}

// Middleware and helper functions
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.WithFields(logrus.Fields{
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"status_code": c.Writer.Status(),
			"duration_ms": time.Since(start).Milliseconds(),
			"user_agent":  c.Request.UserAgent(),
			"ip":          c.ClientIP(),
		}).Info("Request handled")
	}
}

func requestSizeLimiter(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

func errorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 && !c.Writer.Written() {
			err := c.Errors.Last().Err
			respondError(c, determineStatusCode(err), "request processing failed", err)
		}
	}
}

func determineStatusCode(err error) int {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr.StatusCode
	}

	// Fallback to context-based errors
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, code int, message string, err error) {
	entry := logger.WithError(err).WithFields(logrus.Fields{
		"status_code": code,
		"message":     message,
		"path":        c.Request.URL.Path,
		"method":      c.Request.Method,
		"ip":          c.ClientIP(),
	})
	if code >= http.StatusInternalServerError {
		entry.Error("Request failed")
	} else {
		entry.Warn("Request rejected")
	}

	c.AbortWithStatusJSON(code, models.ErrorResponse{
		Error:   http.StatusText(code),
		Message: fmt.Sprintf("%s: %v", message, err),
	})
}
