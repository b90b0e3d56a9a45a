package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/agendly/salon-api/internal/httperr"
	"github.com/agendly/salon-api/internal/middleware"
	"github.com/agendly/salon-api/internal/models"
	"github.com/agendly/salon-api/internal/timezone"
)

type SalonHandler struct {
	db *gorm.DB
}

func NewSalonHandler(db *gorm.DB) *SalonHandler {
	return &SalonHandler{db: db}
}

type UpdateSalonConfigRequest struct {
	Name    *string `json:"name"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`

	OpenTime  *string `json:"open_time"`
	CloseTime *string `json:"close_time"`
	OpenDays  *[]int  `json:"open_days"`

	Timezone *string `json:"timezone"`

	MinAdvanceMinutes     *int `json:"min_advance_minutes"`
	LoyaltyPointsPerVisit *int `json:"loyalty_points_per_visit"`
}

func (h *SalonHandler) GetMeSalon(c *gin.Context) {
	salonIDVal, _ := c.Get(middleware.ContextSalonID)
	salonID := salonIDVal.(uint)

	var salon models.Salon
	if err := h.db.First(&salon, salonID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			httperr.NotFound(c, "salon_not_found", "Estabelecimento não encontrado.")
			return
		}
		httperr.Internal(c, "failed_to_get_salon", "Erro ao buscar dados do estabelecimento.")
		return
	}

	c.JSON(http.StatusOK, salon)
}

func (h *SalonHandler) UpdateMeSalon(c *gin.Context) {
	salonIDVal, _ := c.Get(middleware.ContextSalonID)
	salonID := salonIDVal.(uint)

	var salon models.Salon
	if err := h.db.First(&salon, salonID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			httperr.NotFound(c, "salon_not_found", "Estabelecimento não encontrado.")
			return
		}
		httperr.Internal(c, "failed_to_get_salon", "Erro ao buscar dados do estabelecimento.")
		return
	}

	var req UpdateSalonConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos na requisição.")
		return
	}

	if req.Name != nil {
		salon.Name = *req.Name
	}
	if req.Phone != nil {
		salon.Phone = *req.Phone
	}
	if req.Address != nil {
		salon.Address = *req.Address
	}

	if req.OpenTime != nil {
		if !isValidHM(*req.OpenTime) {
			httperr.BadRequest(c, "invalid_open_time", "Horário de abertura inválido (use HH:MM).")
			return
		}
		salon.OpenTime = *req.OpenTime
	}
	if req.CloseTime != nil {
		if !isValidHM(*req.CloseTime) {
			httperr.BadRequest(c, "invalid_close_time", "Horário de fechamento inválido (use HH:MM).")
			return
		}
		salon.CloseTime = *req.CloseTime
	}

	if req.OpenDays != nil {
		for _, d := range *req.OpenDays {
			if d < 0 || d > 6 {
				httperr.BadRequest(c, "invalid_open_days", "Dias da semana devem estar entre 0 e 6.")
				return
			}
		}
		salon.OpenDays = models.JoinOpenDays(*req.OpenDays)
	}

	if req.Timezone != nil {
		if !timezone.IsValid(*req.Timezone) {
			httperr.BadRequest(c, "invalid_timezone", "Timezone inválido.")
			return
		}
		salon.Timezone = *req.Timezone
	}

	if req.MinAdvanceMinutes != nil {
		if *req.MinAdvanceMinutes < 0 {
			httperr.BadRequest(c, "invalid_min_advance", "Antecedência mínima deve ser zero ou positiva (em minutos).")
			return
		}
		salon.MinAdvanceMinutes = *req.MinAdvanceMinutes
	}

	if req.LoyaltyPointsPerVisit != nil {
		if *req.LoyaltyPointsPerVisit < 0 {
			httperr.BadRequest(c, "invalid_loyalty_points", "Pontos por visita devem ser zero ou positivos.")
			return
		}
		salon.LoyaltyPointsPerVisit = *req.LoyaltyPointsPerVisit
	}

	if err := h.db.Save(&salon).Error; err != nil {
		httperr.Internal(c, "failed_to_update_salon", "Erro ao salvar as configurações do estabelecimento.")
		return
	}

	c.JSON(http.StatusOK, salon)
}

func isValidHM(hm string) bool {
	_, err := time.Parse("15:04", hm)
	return err == nil
}
