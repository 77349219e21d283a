package server

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"bilevel/internal/algorithms/meansplit"
	"bilevel/internal/config"
	"bilevel/internal/logger"
	"bilevel/internal/models"
	"bilevel/internal/pipeline"
)

type ThresholdResponse struct {
	Success    bool    `json:"success"`
	Algorithm  string  `json:"algorithm"`
	Threshold  int     `json:"threshold"`
	Iterations int     `json:"iterations,omitempty"`
	Variance   float64 `json:"variance,omitempty"`
	ElapsedMs  int64   `json:"elapsed_ms"`
	Cached     bool    `json:"cached"`
}

type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

type ThresholdHandler struct {
	cfg         *config.Config
	coordinator *pipeline.Coordinator
	cache       *ResultCache
	logger      logger.Logger
}

func NewThresholdHandler(cfg *config.Config, coordinator *pipeline.Coordinator, cache *ResultCache, log logger.Logger) *ThresholdHandler {
	return &ThresholdHandler{
		cfg:         cfg,
		coordinator: coordinator,
		cache:       cache,
		logger:      log,
	}
}

// Compute handles POST /api/v1/threshold: a multipart image upload plus
// optional algorithm/epsilon form fields. It responds with the computed
// threshold as JSON, or the derived binary image when render=png.
func (h *ThresholdHandler) Compute(c *gin.Context) {
	file, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "an image file upload is required",
			Error:   err.Error(),
		})
		return
	}

	if file.Size > h.cfg.Upload.MaxSize {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "file size exceeds limit",
		})
		return
	}

	contentType := file.Header.Get("Content-Type")
	if contentType != "" && !h.isAllowedType(contentType) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "unsupported content type: " + contentType,
		})
		return
	}

	reader, err := file.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Message: "failed to open upload",
			Error:   err.Error(),
		})
		return
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Message: "failed to read upload",
			Error:   err.Error(),
		})
		return
	}

	algorithm := c.DefaultPostForm("algorithm", h.cfg.Threshold.Algorithm)
	params := map[string]interface{}{}

	epsilon := h.cfg.Threshold.Epsilon
	if raw := c.PostForm("epsilon"); raw != "" {
		epsilon, err = strconv.ParseFloat(raw, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Message: "epsilon must be a number",
				Error:   err.Error(),
			})
			return
		}
	}
	if algorithm == meansplit.Name {
		params["epsilon"] = epsilon
		params["max_iterations"] = h.cfg.Threshold.MaxIterations
	}

	renderPNG := c.Query("render") == "png"

	// Cached results only short-circuit the JSON path; rendering needs
	// the binary image recomputed anyway.
	key := Key(data, algorithm, epsilon)
	if h.cache != nil && !renderPNG {
		if cached, err := h.cache.Get(c.Request.Context(), key); err != nil {
			h.logger.Warning("http", "cache lookup failed", map[string]interface{}{"error": err.Error()})
		} else if cached != nil {
			c.JSON(http.StatusOK, resultResponse(cached, true))
			return
		}
	}

	outcome, err := h.coordinator.ProcessBytes(data, strings.ToLower(filepath.Ext(file.Filename)), algorithm, params)
	if err != nil {
		status := http.StatusInternalServerError
		if isInputError(err) {
			status = http.StatusBadRequest
		}
		c.JSON(status, ErrorResponse{
			Message: "thresholding failed",
			Error:   err.Error(),
		})
		return
	}

	if h.cache != nil {
		if err := h.cache.Set(c.Request.Context(), key, outcome.Result); err != nil {
			h.logger.Warning("http", "cache store failed", map[string]interface{}{"error": err.Error()})
		}
	}

	if renderPNG {
		var buf bytes.Buffer
		if err := h.coordinator.Saver().SaveToWriter(&buf, outcome.Binary, "png"); err != nil {
			c.JSON(http.StatusInternalServerError, ErrorResponse{
				Message: "failed to encode binary image",
				Error:   err.Error(),
			})
			return
		}
		c.Data(http.StatusOK, "image/png", buf.Bytes())
		return
	}

	c.JSON(http.StatusOK, resultResponse(outcome.Result, false))
}

func (h *ThresholdHandler) isAllowedType(contentType string) bool {
	for _, allowed := range h.cfg.Upload.AllowedTypes {
		if contentType == allowed {
			return true
		}
	}
	return false
}

func resultResponse(result *models.ThresholdResult, cached bool) ThresholdResponse {
	return ThresholdResponse{
		Success:    true,
		Algorithm:  result.Algorithm,
		Threshold:  result.Threshold,
		Iterations: result.Iterations,
		Variance:   result.BetweenClassVariance,
		ElapsedMs:  result.ProcessTime.Milliseconds(),
		Cached:     cached,
	}
}

func isInputError(err error) bool {
	return errors.Is(err, models.ErrEmptyGrid) ||
		errors.Is(err, models.ErrRaggedGrid) ||
		errors.Is(err, models.ErrIntensityRange) ||
		errors.Is(err, models.ErrInvalidEpsilon) ||
		errors.Is(err, models.ErrEmptyClass)
}
