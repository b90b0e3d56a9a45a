package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/agendly/salon-api/internal/cache"
	"github.com/agendly/salon-api/internal/httperr"
	"github.com/agendly/salon-api/internal/middleware"
	"github.com/agendly/salon-api/internal/models"
	ucAppointment "github.com/agendly/salon-api/internal/usecase/appointment"
)

type AppointmentHandler struct {
	db    *gorm.DB
	cache *cache.AvailabilityCache

	createUC       *ucAppointment.CreateAppointment
	completeUC     *ucAppointment.CompleteAppointment
	cancelUC       *ucAppointment.CancelAppointment
	listByDateUC   *ucAppointment.ListAppointmentsByDate
	listByMonthUC  *ucAppointment.ListAppointmentsByMonth
	availabilityUC *ucAppointment.GetAvailability
}

func NewAppointmentHandler(
	db *gorm.DB,
	availCache *cache.AvailabilityCache,
	createUC *ucAppointment.CreateAppointment,
	completeUC *ucAppointment.CompleteAppointment,
	cancelUC *ucAppointment.CancelAppointment,
	listByDateUC *ucAppointment.ListAppointmentsByDate,
	listByMonthUC *ucAppointment.ListAppointmentsByMonth,
	availabilityUC *ucAppointment.GetAvailability,
) *AppointmentHandler {
	return &AppointmentHandler{
		db:             db,
		cache:          availCache,
		createUC:       createUC,
		completeUC:     completeUC,
		cancelUC:       cancelUC,
		listByDateUC:   listByDateUC,
		listByMonthUC:  listByMonthUC,
		availabilityUC: availabilityUC,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateAppointmentRequest struct {
	ClientName     string `json:"client_name" binding:"required"`
	ClientPhone    string `json:"client_phone" binding:"required"`
	ClientEmail    string `json:"client_email"`
	ProfessionalID uint   `json:"professional_id" binding:"required"`
	ServiceID      uint   `json:"service_id" binding:"required"`
	Date           string `json:"date" binding:"required"` // YYYY-MM-DD
	Time           string `json:"time" binding:"required"` // HH:mm
	Notes          string `json:"notes"`
}

// ======================================================
// AVAILABILITY
// ======================================================

func (h *AppointmentHandler) Availability(c *gin.Context) {
	salonID := c.MustGet(middleware.ContextSalonID).(uint)

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

	var salon models.Salon
	if err := h.db.First(&salon, salonID).Error; err != nil {
		httperr.Internal(c, "salon_not_found", "Estabelecimento não encontrado.")
		return
	}

	date, err := parseDateInSalon(&salon, dateStr)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Data inválida.")
		return
	}

	var cached ucAppointment.AvailabilityOutput
	if h.cache.Get(c.Request.Context(), salonID, uint(professionalID), dateStr, &cached) {
		c.JSON(http.StatusOK, cached)
		return
	}

	out, err := h.availabilityUC.Execute(c.Request.Context(), ucAppointment.AvailabilityInput{
		SalonID:        salonID,
		ProfessionalID: uint(professionalID),
		Date:           date,
	})
	if err != nil {
		if httperr.IsBusiness(err, "professional_not_found") {
			httperr.BadRequest(c, "professional_not_found", "Profissional inválido.")
			return
		}
		httperr.Internal(c, "availability_failed", "Erro ao calcular horários.")
		return
	}

	h.cache.Set(c.Request.Context(), salonID, uint(professionalID), dateStr, out)

	c.JSON(http.StatusOK, out)
}

// ======================================================
// CREATE
// ======================================================

func (h *AppointmentHandler) Create(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)
	salonID := c.MustGet(middleware.ContextSalonID).(uint)

	var req CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	ap, err := h.createUC.Execute(c.Request.Context(), ucAppointment.CreateAppointmentInput{
		SalonID:        salonID,
		ProfessionalID: req.ProfessionalID,
		ClientName:     req.ClientName,
		ClientPhone:    req.ClientPhone,
		ClientEmail:    req.ClientEmail,
		ServiceID:      req.ServiceID,
		Date:           req.Date,
		Time:           req.Time,
		Notes:          req.Notes,
		ActorID:        &userID,
	})
	if err != nil {
		mapCreateErrors(c, err)
		return
	}

	h.cache.Invalidate(c.Request.Context(), salonID, req.ProfessionalID, req.Date)

	c.JSON(http.StatusCreated, ap)
}

// ======================================================
// LIST
// ======================================================

func (h *AppointmentHandler) ListByDate(c *gin.Context) {
	salonID := c.MustGet(middleware.ContextSalonID).(uint)

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

	var salon models.Salon
	if err := h.db.First(&salon, salonID).Error; err != nil {
		httperr.Internal(c, "salon_not_found", "Estabelecimento não encontrado.")
		return
	}

	date, err := parseDateInSalon(&salon, dateStr)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Data inválida.")
		return
	}

	list, err := h.listByDateUC.Execute(c.Request.Context(), salonID, uint(professionalID), date)
	if err != nil {
		httperr.Internal(c, "failed_to_list_appointments", "Erro ao listar agendamentos.")
		return
	}

	c.JSON(http.StatusOK, list)
}

func (h *AppointmentHandler) ListByMonth(c *gin.Context) {
	salonID := c.MustGet(middleware.ContextSalonID).(uint)

	year, err1 := strconv.Atoi(c.Query("year"))
	month, err2 := strconv.Atoi(c.Query("month"))
	professionalID, err3 := strconv.ParseUint(c.Query("professional_id"), 10, 64)

	if err1 != nil || err2 != nil || err3 != nil || month < 1 || month > 12 {
		httperr.BadRequest(c, "invalid_params", "Ano, mês e profissional são obrigatórios.")
		return
	}

	list, err := h.listByMonthUC.Execute(c.Request.Context(), salonID, uint(professionalID), year, month)
	if err != nil {
		httperr.Internal(c, "failed_to_list_appointments", "Erro ao listar agendamentos.")
		return
	}

	c.JSON(http.StatusOK, list)
}

// ======================================================
// CANCEL / COMPLETE
// ======================================================

func (h *AppointmentHandler) Cancel(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)
	salonID := c.MustGet(middleware.ContextSalonID).(uint)

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Identificador inválido.")
		return
	}

	ap, err := h.cancelUC.Execute(c.Request.Context(), salonID, userID, uint(id))
	if err != nil {
		mapStateChangeErrors(c, err)
		return
	}

	h.invalidateForAppointment(c, ap)

	c.JSON(http.StatusOK, ap)
}

func (h *AppointmentHandler) Complete(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)
	salonID := c.MustGet(middleware.ContextSalonID).(uint)

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Identificador inválido.")
		return
	}

	ap, err := h.completeUC.Execute(c.Request.Context(), salonID, userID, uint(id))
	if err != nil {
		mapStateChangeErrors(c, err)
		return
	}

	h.invalidateForAppointment(c, ap)

	c.JSON(http.StatusOK, ap)
}

func (h *AppointmentHandler) invalidateForAppointment(c *gin.Context, ap *models.Appointment) {
	var salon models.Salon
	if err := h.db.First(&salon, ap.SalonID).Error; err != nil {
		return
	}

	day := ap.StartTime.In(locationFromSalon(&salon)).Format("2006-01-02")
	h.cache.Invalidate(c.Request.Context(), ap.SalonID, ap.ProfessionalID, day)
}

// ======================================================
// ERROR MAPPING
// ======================================================

func mapCreateErrors(c *gin.Context, err error) {
	code, ok := httperr.BusinessCode(err)
	if !ok {
		httperr.Internal(c, "failed_to_create_appointment", "Erro ao criar agendamento.")
		return
	}

	switch code {
	case "invalid_date_or_time":
		httperr.BadRequest(c, code, "Data ou hora inválida.")
	case "too_soon":
		httperr.BadRequest(c, code, "Horário muito próximo ou no passado.")
	case "service_not_found":
		httperr.BadRequest(c, code, "Serviço não encontrado.")
	case "professional_not_found":
		httperr.BadRequest(c, code, "Profissional não encontrado.")
	case "slot_unavailable":
		httperr.BadRequest(c, code, "Horário indisponível.")
	case "time_conflict":
		httperr.BadRequest(c, code, "Conflito de horário.")
	default:
		httperr.BadRequest(c, code, "Não foi possível criar o agendamento.")
	}
}

func mapStateChangeErrors(c *gin.Context, err error) {
	code, ok := httperr.BusinessCode(err)
	if !ok {
		httperr.Internal(c, "failed_to_update_appointment", "Erro ao atualizar agendamento.")
		return
	}

	switch code {
	case "appointment_not_found":
		httperr.NotFound(c, code, "Agendamento não encontrado.")
	case "invalid_state":
		httperr.BadRequest(c, code, "Agendamento não está mais ativo.")
	default:
		httperr.BadRequest(c, code, "Não foi possível atualizar o agendamento.")
	}
}
