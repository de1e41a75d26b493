package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mfbarbosa/padaria/internal/domain/models"
	"github.com/mfbarbosa/padaria/internal/service/production"
)

// ProductionHandler exposes the daily production ledger and quebra reports.
type ProductionHandler struct {
	svc    *production.Service
	logger *zap.Logger
}

// NewProductionHandler constructs the HTTP handler adapter.
func NewProductionHandler(svc *production.Service, logger *zap.Logger) *ProductionHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProductionHandler{svc: svc, logger: logger}
}

type recordRequest struct {
	models.ProductionPatch
	// Empelo marks the produced count as a batch count (30 units per batch).
	Empelo bool `json:"empelo"`
}

// Record merges a counts patch into the (date, product) record.
func (h *ProductionHandler) Record(c *gin.Context) {
	date, err := models.ParseDate(c.Param("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
		return
	}

	var req recordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid production payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if hasNegative(req.ProductionPatch) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "counts must be non-negative"})
		return
	}

	record, err := h.svc.Record(c.Request.Context(), date, c.Param("productId"), req.ProductionPatch, req.Empelo)
	if errors.Is(err, production.ErrProductNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
		return
	}
	if errors.Is(err, production.ErrNotEmpelo) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "product does not support empelo input"})
		return
	}
	if err != nil {
		h.logger.Error("failed recording production", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed recording production"})
		return
	}

	resp := gin.H{
		"date":      record.Date,
		"productId": record.ProductID,
		"produced":  record.Produced,
		"delivered": record.Delivered,
		"sold":      record.Sold,
		"leftovers": record.Leftovers,
	}
	if req.Empelo {
		resp["producedEmpelos"] = production.ProducedInEmpelos(*record)
	}
	c.JSON(http.StatusOK, resp)
}

// DailyBreakage reports the day's quebra per product plus the aggregate.
func (h *ProductionHandler) DailyBreakage(c *gin.Context) {
	date, err := models.ParseDate(c.Param("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
		return
	}

	report, err := h.svc.DailyBreakage(c.Request.Context(), date)
	if err != nil {
		h.logger.Error("failed building quebra report", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed building quebra report"})
		return
	}

	c.JSON(http.StatusOK, report)
}

func hasNegative(patch models.ProductionPatch) bool {
	for _, v := range []*int{patch.Produced, patch.Delivered, patch.Sold, patch.Leftovers} {
		if v != nil && *v < 0 {
			return true
		}
	}
	return false
}
