package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/voicecart/backend/internal/domain"
	"github.com/voicecart/backend/internal/usecase"
	"go.uber.org/zap"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	parseService *usecase.ParseService
	logger       *zap.Logger
}

// NewHandler creates a new HTTP handler
func NewHandler(parseService *usecase.ParseService, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		parseService: parseService,
		logger:       logger,
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "voicecart-backend",
		"version": domain.Version,
	})
}

// ParseTranscript handles POST /api/v1/transcripts/parse
func (h *Handler) ParseTranscript(c *gin.Context) {
	if !h.ready(c) {
		return
	}

	var req domain.ParseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid_request", "Invalid request body: "+err.Error())
		return
	}

	result, err := h.parseService.ParseTranscript(c.Request.Context(), req.Transcript)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// ParseBatch handles POST /api/v1/transcripts/parse/batch
func (h *Handler) ParseBatch(c *gin.Context) {
	if !h.ready(c) {
		return
	}

	var req domain.BatchParseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid_request", "Invalid request body: "+err.Error())
		return
	}

	items, err := h.parseService.ParseBatch(c.Request.Context(), req.Transcripts)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"results": items})
}

// FormatPrice handles GET /api/v1/prices/format?amount=
func (h *Handler) FormatPrice(c *gin.Context) {
	if !h.ready(c) {
		return
	}

	raw := c.Query("amount")
	amount, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid_request", "amount must be an integer number of Rupiah")
		return
	}

	c.JSON(http.StatusOK, domain.FormattedPrice{
		Amount:    amount,
		Formatted: h.parseService.FormatPrice(amount),
	})
}

func (h *Handler) ready(c *gin.Context) bool {
	if h.parseService == nil {
		respondError(c, http.StatusServiceUnavailable, "internal", "Parse service not configured")
		return false
	}
	return true
}

// handleError maps domain errors to HTTP responses
func (h *Handler) handleError(c *gin.Context, err error) {
	code := domain.ErrorCode(err)
	status := statusForError(err)

	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed",
			zap.String("path", c.FullPath()),
			zap.Error(err))
		respondError(c, status, code, "Internal server error")
		return
	}

	respondError(c, status, code, err.Error())
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrEmptyTranscript),
		errors.Is(err, domain.ErrNoPriceFound),
		errors.Is(err, domain.ErrInvalidSpan):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrRateLimited):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, gin.H{
		"error": message,
		"code":  code,
	})
}
