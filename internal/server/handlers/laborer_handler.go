package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/laborbook/internal/domain/models"
	"github.com/mamadbah2/laborbook/internal/repository"
	"github.com/mamadbah2/laborbook/internal/service/hours"
	"github.com/mamadbah2/laborbook/internal/service/roster"
)

// LaborerHandler serves the roster and hours endpoints.
type LaborerHandler struct {
	roster    *roster.Service
	hours     *hours.Service
	debouncer *hours.Debouncer // nil when edit coalescing is disabled
	logger    *zap.Logger
}

// NewLaborerHandler constructs the HTTP handler adapter. debouncer may be nil.
func NewLaborerHandler(rosterSvc *roster.Service, hoursSvc *hours.Service, debouncer *hours.Debouncer, logger *zap.Logger) *LaborerHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LaborerHandler{roster: rosterSvc, hours: hoursSvc, debouncer: debouncer, logger: logger}
}

// List returns the reconciled roster for a category and date, optionally
// narrowed by a case-insensitive search term.
func (h *LaborerHandler) List(c *gin.Context) {
	category := models.Category(c.Query("category"))
	date := c.Query("date")
	if date == "" {
		date = time.Now().Format(models.DateLayout)
	}

	rows, err := h.hours.Reconcile(c.Request.Context(), category, date)
	if err != nil {
		h.respondError(c, err)
		return
	}

	rows = hours.Filter(rows, c.Query("q"))
	c.JSON(http.StatusOK, gin.H{"laborers": rows, "date": date})
}

// Create registers a laborer after the duplicate-card check.
func (h *LaborerHandler) Create(c *gin.Context) {
	var req models.LaborerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid laborer payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	laborer, err := h.roster.Create(c.Request.Context(), roster.Input{
		Name:       req.Name,
		FatherName: req.FatherName,
		CardNo:     req.CardNo,
		Category:   req.Category,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, laborer)
}

// Update rewrites a laborer's fields; the duplicate check excludes the
// laborer itself.
func (h *LaborerHandler) Update(c *gin.Context) {
	var req models.LaborerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid laborer payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	laborer, err := h.roster.Update(c.Request.Context(), c.Param("id"), roster.Input{
		Name:       req.Name,
		FatherName: req.FatherName,
		CardNo:     req.CardNo,
		Category:   req.Category,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, laborer)
}

// Delete removes a laborer and all of its hours records.
func (h *LaborerHandler) Delete(c *gin.Context) {
	if err := h.roster.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// SetHours writes hours for a laborer on a date. With coalescing enabled
// the write is acknowledged and flushed after the quiet window.
func (h *LaborerHandler) SetHours(c *gin.Context) {
	var req models.HoursUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid hours payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	laborerID := c.Param("id")

	if h.debouncer != nil {
		if err := hours.ValidateInput(laborerID, req.Date, *req.Hours); err != nil {
			h.respondError(c, err)
			return
		}
		h.debouncer.Set(laborerID, req.Date, *req.Hours)
		c.Status(http.StatusAccepted)
		return
	}

	if err := h.hours.SetHours(c.Request.Context(), laborerID, req.Date, *req.Hours); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *LaborerHandler) respondError(c *gin.Context, err error) {
	respondError(c, h.logger, err)
}

// respondError maps domain errors onto HTTP statuses. Store failures are
// never swallowed: they are logged and surfaced as 502 so the client can
// retry the whole operation.
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	switch {
	case errors.Is(err, models.ErrDuplicateCard):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrInvalidCategory),
		errors.Is(err, models.ErrInvalidDate),
		errors.Is(err, models.ErrNegativeHours),
		errors.Is(err, models.ErrMissingField):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, repository.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "laborer not found"})
	default:
		logger.Error("store access failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "record store unavailable"})
	}
}
