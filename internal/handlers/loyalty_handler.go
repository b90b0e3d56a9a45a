package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/agendly/salon-api/internal/audit"
	"github.com/agendly/salon-api/internal/httperr"
	"github.com/agendly/salon-api/internal/middleware"
	"github.com/agendly/salon-api/internal/models"
)

type LoyaltyHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher
}

func NewLoyaltyHandler(db *gorm.DB, dispatcher *audit.Dispatcher) *LoyaltyHandler {
	return &LoyaltyHandler{db: db, audit: dispatcher}
}

type LoyaltyAdjustRequest struct {
	Points int    `json:"points" binding:"required"`
	Note   string `json:"note"`
}

// History lista as movimentações de pontos de um cliente.
func (h *LoyaltyHandler) History(c *gin.Context) {
	salonID := c.MustGet(middleware.ContextSalonID).(uint)

	clientID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Identificador inválido.")
		return
	}

	var client models.Client
	if err := h.db.
		Where("id = ? AND salon_id = ?", clientID, salonID).
		First(&client).Error; err != nil {
		httperr.NotFound(c, "client_not_found", "Cliente não encontrado.")
		return
	}

	var history []models.LoyaltyTransaction
	if err := h.db.
		Where("client_id = ? AND salon_id = ?", clientID, salonID).
		Order("created_at DESC").
		Find(&history).Error; err != nil {
		httperr.Internal(c, "failed_to_list_loyalty", "Erro ao listar pontos.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"client":  client,
		"balance": client.LoyaltyPoints,
		"history": history,
	})
}

// Adjust aplica um ajuste manual (positivo ou negativo) de pontos. O saldo
// nunca fica negativo.
func (h *LoyaltyHandler) Adjust(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)
	salonID := c.MustGet(middleware.ContextSalonID).(uint)

	clientID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Identificador inválido.")
		return
	}

	var req LoyaltyAdjustRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	var client models.Client
	err = h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("id = ? AND salon_id = ?", clientID, salonID).
			First(&client).Error; err != nil {
			return httperr.ErrBusiness("client_not_found")
		}

		if client.LoyaltyPoints+req.Points < 0 {
			return httperr.ErrBusiness("insufficient_points")
		}

		client.LoyaltyPoints += req.Points
		if err := tx.Save(&client).Error; err != nil {
			return err
		}

		reason := models.LoyaltyReasonAdjust
		if req.Points < 0 {
			reason = models.LoyaltyReasonRedeem
		}

		return tx.Create(&models.LoyaltyTransaction{
			SalonID:  salonID,
			ClientID: client.ID,
			Points:   req.Points,
			Reason:   reason,
			Note:     req.Note,
		}).Error
	})

	if err != nil {
		if code, ok := httperr.BusinessCode(err); ok {
			if code == "client_not_found" {
				httperr.NotFound(c, code, "Cliente não encontrado.")
				return
			}
			httperr.BadRequest(c, code, "Ajuste de pontos inválido.")
			return
		}
		httperr.Internal(c, "failed_to_adjust_loyalty", "Erro ao ajustar pontos.")
		return
	}

	h.audit.Dispatch(audit.Event{
		SalonID:  salonID,
		UserID:   &userID,
		Action:   "loyalty_adjusted",
		Entity:   "client",
		EntityID: &client.ID,
		Metadata: map[string]any{"points": req.Points},
	})

	c.JSON(http.StatusOK, gin.H{
		"client_id": client.ID,
		"balance":   client.LoyaltyPoints,
	})
}
