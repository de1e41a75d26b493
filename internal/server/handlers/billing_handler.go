package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mfbarbosa/padaria/internal/domain/models"
	"github.com/mfbarbosa/padaria/internal/repository/mongodb"
	"github.com/mfbarbosa/padaria/internal/service/billing"
)

// BillingHandler exposes debt calculation and payment bookkeeping over HTTP.
type BillingHandler struct {
	svc    *billing.Service
	logger *zap.Logger
}

// NewBillingHandler constructs the HTTP handler adapter.
func NewBillingHandler(svc *billing.Service, logger *zap.Logger) *BillingHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BillingHandler{svc: svc, logger: logger}
}

// PeriodDebt computes what a client owes between ?from and ?to, inclusive,
// without touching the cached balance.
func (h *BillingHandler) PeriodDebt(c *gin.Context) {
	from, err := models.ParseDate(c.Query("from"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "from must be YYYY-MM-DD"})
		return
	}
	to, err := models.ParseDate(c.Query("to"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "to must be YYYY-MM-DD"})
		return
	}

	debt, err := h.svc.PeriodDebt(c.Request.Context(), c.Param("id"), from, to)
	if err != nil {
		h.respondError(c, err, "failed computing period debt")
		return
	}

	c.JSON(http.StatusOK, debtResponse(debt))
}

// Recalculate recomputes and persists the client's cached balance.
func (h *BillingHandler) Recalculate(c *gin.Context) {
	debt, err := h.svc.RecomputeBalance(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err, "failed recomputing balance")
		return
	}

	c.JSON(http.StatusOK, debtResponse(debt))
}

// Amount carries no required binding: a zero-amount payment is a legitimate
// reconciliation that resets the window without money changing hands.
type paymentRequest struct {
	Amount decimal.Decimal `json:"amount"`
	Method string          `json:"method" binding:"required"`
}

// RegisterPayment reconciles a payment: stamps the payment date and resets
// the cached balance.
func (h *BillingHandler) RegisterPayment(c *gin.Context) {
	var req paymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid payment payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	method, ok := models.ParsePaymentMethod(req.Method)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "method must be cash, pix or transfer"})
		return
	}
	if req.Amount.IsNegative() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "amount must not be negative"})
		return
	}

	client, err := h.svc.RegisterPayment(c.Request.Context(), c.Param("id"), req.Amount, method)
	if err != nil {
		h.respondError(c, err, "failed registering payment")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"clientId":        client.ID,
		"lastPaymentDate": client.LastPaymentDate,
		"currentBalance":  client.CurrentBalance.StringFixed(2),
	})
}

type skippedDateRequest struct {
	Date string `json:"date" binding:"required"`
}

// ToggleSkippedDate flips a confirmed failed-delivery date and returns the
// recomputed balance.
func (h *BillingHandler) ToggleSkippedDate(c *gin.Context) {
	var req skippedDateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid skipped-date payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	date, err := models.ParseDate(req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
		return
	}

	skipped, debt, err := h.svc.ToggleSkippedDate(c.Request.Context(), c.Param("id"), date)
	if err != nil {
		h.respondError(c, err, "failed toggling skipped date")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"date":    date,
		"skipped": skipped,
		"balance": debtResponse(debt),
	})
}

type scheduleItemsRequest struct {
	Items []models.ScheduleItem `json:"items"`
}

// SetWeekdaySchedule replaces one weekday of the client's live schedule.
func (h *BillingHandler) SetWeekdaySchedule(c *gin.Context) {
	day, ok := models.ParseWeekday(c.Param("weekday"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown weekday key"})
		return
	}

	var req scheduleItemsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid schedule payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	for _, item := range req.Items {
		if item.ProductID == "" || item.Quantity <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "items need a productId and a positive quantity"})
			return
		}
	}

	client, err := h.svc.SetWeekdayItems(c.Request.Context(), c.Param("id"), day, req.Items)
	if err != nil {
		h.respondError(c, err, "failed updating schedule")
		return
	}

	c.JSON(http.StatusOK, gin.H{"clientId": client.ID, "schedule": client.Schedule})
}

func (h *BillingHandler) respondError(c *gin.Context, err error, msg string) {
	if errors.Is(err, mongodb.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "client not found"})
		return
	}
	h.logger.Error(msg, zap.String("client_id", c.Param("id")), zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
}

func debtResponse(debt models.PeriodDebt) gin.H {
	return gin.H{
		"total":      debt.Total.StringFixed(2),
		"daysCount":  debt.DaysCount,
		"dailyValue": debt.DailyValue.StringFixed(2),
	}
}
