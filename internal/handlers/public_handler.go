package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/agendly/salon-api/internal/cache"
	"github.com/agendly/salon-api/internal/httperr"
	"github.com/agendly/salon-api/internal/models"
	ucAppointment "github.com/agendly/salon-api/internal/usecase/appointment"
)

////////////////////////////////////////////////////////
// HANDLER
////////////////////////////////////////////////////////

type PublicHandler struct {
	db    *gorm.DB
	cache *cache.AvailabilityCache

	createUC       *ucAppointment.CreateAppointment
	availabilityUC *ucAppointment.GetAvailability
}

func NewPublicHandler(
	db *gorm.DB,
	availCache *cache.AvailabilityCache,
	createUC *ucAppointment.CreateAppointment,
	availabilityUC *ucAppointment.GetAvailability,
) *PublicHandler {
	return &PublicHandler{
		db:             db,
		cache:          availCache,
		createUC:       createUC,
		availabilityUC: availabilityUC,
	}
}

////////////////////////////////////////////////////////
// DTOs
////////////////////////////////////////////////////////

type PublicCreateAppointmentRequest struct {
	ClientName     string `json:"client_name" binding:"required"`
	ClientPhone    string `json:"client_phone" binding:"required"`
	ClientEmail    string `json:"client_email"`
	ProfessionalID uint   `json:"professional_id" binding:"required"`
	ServiceID      uint   `json:"service_id" binding:"required"`
	Date           string `json:"date" binding:"required"` // YYYY-MM-DD
	Time           string `json:"time" binding:"required"` // HH:mm
	Notes          string `json:"notes"`
}

func (h *PublicHandler) findSalon(c *gin.Context) (*models.Salon, bool) {
	slug := c.Param("slug")

	var salon models.Salon
	if err := h.db.Where("slug = ? AND active = true", slug).First(&salon).Error; err != nil {
		httperr.NotFound(c, "salon_not_found", "Estabelecimento não encontrado.")
		return nil, false
	}

	return &salon, true
}

////////////////////////////////////////////////////////
// PROFILE
////////////////////////////////////////////////////////

func (h *PublicHandler) Profile(c *gin.Context) {
	salon, ok := h.findSalon(c)
	if !ok {
		return
	}

	var pros []models.Professional
	h.db.Where("salon_id = ? AND active = true", salon.ID).Order("id ASC").Find(&pros)

	c.JSON(http.StatusOK, gin.H{
		"salon":         salon,
		"professionals": pros,
	})
}

////////////////////////////////////////////////////////
// SERVICES
////////////////////////////////////////////////////////

func (h *PublicHandler) ListServices(c *gin.Context) {
	salon, ok := h.findSalon(c)
	if !ok {
		return
	}

	category := strings.TrimSpace(strings.ToLower(c.Query("category")))
	query := strings.TrimSpace(strings.ToLower(c.Query("query")))

	q := h.db.Where("salon_id = ? AND active = true", salon.ID)

	if category != "" {
		q = q.Where("LOWER(category) = ?", category)
	}

	if query != "" {
		like := "%" + query + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}

	var services []models.Service
	if err := q.Order("id ASC").Find(&services).Error; err != nil {
		httperr.Internal(c, "failed_to_list_services", "Erro ao listar serviços.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"salon":    salon,
		"services": services,
	})
}

////////////////////////////////////////////////////////
// PROFESSIONALS
////////////////////////////////////////////////////////

func (h *PublicHandler) ListProfessionals(c *gin.Context) {
	salon, ok := h.findSalon(c)
	if !ok {
		return
	}

	var pros []models.Professional
	if err := h.db.
		Where("salon_id = ? AND active = true", salon.ID).
		Order("id ASC").
		Find(&pros).Error; err != nil {
		httperr.Internal(c, "failed_to_list_professionals", "Erro ao listar profissionais.")
		return
	}

	c.JSON(http.StatusOK, pros)
}

////////////////////////////////////////////////////////
// AVAILABILITY
////////////////////////////////////////////////////////

func (h *PublicHandler) Availability(c *gin.Context) {
	salon, ok := h.findSalon(c)
	if !ok {
		return
	}

	dateStr := c.Query("date")
	professionalIDStr := c.Query("professional_id")
	if dateStr == "" || professionalIDStr == "" {
		httperr.BadRequest(c, "missing_params", "Data e profissional obrigatórios.")
		return
	}

	professionalID, err := strconv.ParseUint(professionalIDStr, 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_professional_id", "Profissional inválido.")
		return
	}

	date, err := parseDateInSalon(salon, dateStr)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Data inválida.")
		return
	}

	var cached ucAppointment.AvailabilityOutput
	if h.cache.Get(c.Request.Context(), salon.ID, uint(professionalID), dateStr, &cached) {
		c.JSON(http.StatusOK, cached)
		return
	}

	out, err := h.availabilityUC.Execute(
		c.Request.Context(),
		ucAppointment.AvailabilityInput{
			SalonID:        salon.ID,
			ProfessionalID: uint(professionalID),
			Date:           date,
		},
	)
	if err != nil {
		if httperr.IsBusiness(err, "professional_not_found") {
			httperr.BadRequest(c, "professional_not_found", "Profissional inválido.")
			return
		}
		httperr.Internal(c, "availability_failed", "Erro ao calcular horários.")
		return
	}

	h.cache.Set(c.Request.Context(), salon.ID, uint(professionalID), dateStr, out)

	c.JSON(http.StatusOK, out)
}

////////////////////////////////////////////////////////
// CREATE APPOINTMENT
////////////////////////////////////////////////////////

func (h *PublicHandler) CreateAppointment(c *gin.Context) {
	salon, ok := h.findSalon(c)
	if !ok {
		return
	}

	var req PublicCreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	ap, err := h.createUC.Execute(
		c.Request.Context(),
		ucAppointment.CreateAppointmentInput{
			SalonID:        salon.ID,
			ProfessionalID: req.ProfessionalID,
			ClientName:     req.ClientName,
			ClientPhone:    req.ClientPhone,
			ClientEmail:    req.ClientEmail,
			ServiceID:      req.ServiceID,
			Date:           req.Date,
			Time:           req.Time,
			Notes:          req.Notes,
		},
	)
	if err != nil {
		mapCreateErrors(c, err)
		return
	}

	h.cache.Invalidate(c.Request.Context(), salon.ID, req.ProfessionalID, req.Date)

	c.JSON(http.StatusCreated, ap)
}
