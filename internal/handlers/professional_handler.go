package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/agendly/salon-api/internal/httperr"
	"github.com/agendly/salon-api/internal/middleware"
	"github.com/agendly/salon-api/internal/models"
)

type ProfessionalHandler struct {
	db *gorm.DB
}

func NewProfessionalHandler(db *gorm.DB) *ProfessionalHandler {
	return &ProfessionalHandler{db: db}
}

type ProfessionalRequest struct {
	Name   string `json:"name" binding:"required"`
	Bio    string `json:"bio"`
	Active *bool  `json:"active"`
}

type AvailabilityDayConfig struct {
	Weekday   int    `json:"weekday" binding:"min=0,max=6"`
	Available bool   `json:"available"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

type AvailabilityUpdateRequest struct {
	Days []AvailabilityDayConfig `json:"days" binding:"required"`
}

func (h *ProfessionalHandler) List(c *gin.Context) {
	salonID := c.MustGet(middleware.ContextSalonID).(uint)

	var pros []models.Professional
	if err := h.db.
		Where("salon_id = ?", salonID).
		Order("id ASC").
		Find(&pros).Error; err != nil {
		httperr.Internal(c, "failed_to_list_professionals", "Erro ao listar profissionais.")
		return
	}

	c.JSON(http.StatusOK, pros)
}

func (h *ProfessionalHandler) Create(c *gin.Context) {
	salonID := c.MustGet(middleware.ContextSalonID).(uint)

	var req ProfessionalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	pro := models.Professional{
		SalonID: salonID,
		Name:    req.Name,
		Bio:     req.Bio,
		Active:  true,
	}
	if req.Active != nil {
		pro.Active = *req.Active
	}

	if err := h.db.Create(&pro).Error; err != nil {
		httperr.Internal(c, "failed_to_create_professional", "Erro ao criar profissional.")
		return
	}

	c.JSON(http.StatusCreated, pro)
}

func (h *ProfessionalHandler) Update(c *gin.Context) {
	salonID := c.MustGet(middleware.ContextSalonID).(uint)

	pro, ok := h.findForSalon(c, salonID)
	if !ok {
		return
	}

	var req ProfessionalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	pro.Name = req.Name
	pro.Bio = req.Bio
	if req.Active != nil {
		pro.Active = *req.Active
	}

	if err := h.db.Save(pro).Error; err != nil {
		httperr.Internal(c, "failed_to_update_professional", "Erro ao atualizar profissional.")
		return
	}

	c.JSON(http.StatusOK, pro)
}

// --------------------------------------------------
// Disponibilidade semanal (substituição dos 7 dias)
// --------------------------------------------------

func (h *ProfessionalHandler) GetAvailability(c *gin.Context) {
	salonID := c.MustGet(middleware.ContextSalonID).(uint)

	pro, ok := h.findForSalon(c, salonID)
	if !ok {
		return
	}

	var days []models.ProfessionalAvailability
	if err := h.db.
		Where("professional_id = ?", pro.ID).
		Order("weekday ASC").
		Find(&days).Error; err != nil {
		httperr.Internal(c, "failed_to_get_availability", "Erro ao buscar disponibilidade.")
		return
	}

	c.JSON(http.StatusOK, days)
}

func (h *ProfessionalHandler) UpdateAvailability(c *gin.Context) {
	salonID := c.MustGet(middleware.ContextSalonID).(uint)

	pro, ok := h.findForSalon(c, salonID)
	if !ok {
		return
	}

	var req AvailabilityUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	for _, d := range req.Days {
		if d.Available && (!isValidHM(d.StartTime) || !isValidHM(d.EndTime)) {
			httperr.BadRequest(c, "invalid_time_range", "Horários devem estar no formato HH:MM.")
			return
		}
	}

	if err := h.db.
		Where("professional_id = ?", pro.ID).
		Delete(&models.ProfessionalAvailability{}).Error; err != nil {
		httperr.Internal(c, "failed_to_clear_availability", "Erro ao limpar disponibilidade.")
		return
	}

	var toCreate []models.ProfessionalAvailability
	for _, d := range req.Days {
		toCreate = append(toCreate, models.ProfessionalAvailability{
			ProfessionalID: pro.ID,
			Weekday:        d.Weekday,
			Available:      d.Available,
			StartTime:      d.StartTime,
			EndTime:        d.EndTime,
		})
	}

	if len(toCreate) > 0 {
		if err := h.db.Create(&toCreate).Error; err != nil {
			httperr.Internal(c, "failed_to_save_availability", "Erro ao salvar disponibilidade.")
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *ProfessionalHandler) findForSalon(c *gin.Context, salonID uint) (*models.Professional, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Identificador inválido.")
		return nil, false
	}

	var pro models.Professional
	if err := h.db.
		Where("id = ? AND salon_id = ?", id, salonID).
		First(&pro).Error; err != nil {
		httperr.NotFound(c, "professional_not_found", "Profissional não encontrado.")
		return nil, false
	}

	return &pro, true
}
