package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/agendly/salon-api/internal/httperr"
	"github.com/agendly/salon-api/internal/httpresp"
	"github.com/agendly/salon-api/internal/models"
)

// Console de administração da plataforma (papel system): gestão dos
// estabelecimentos/tenants.
type SystemHandler struct {
	db *gorm.DB
}

func NewSystemHandler(db *gorm.DB) *SystemHandler {
	return &SystemHandler{db: db}
}

type SystemCreateSalonRequest struct {
	Name     string `json:"name" binding:"required"`
	Slug     string `json:"slug" binding:"required"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	Timezone string `json:"timezone"`
}

func (h *SystemHandler) ListSalons(c *gin.Context) {
	query := strings.ToLower(strings.TrimSpace(c.Query("query")))

	q := h.db.Model(&models.Salon{})
	if query != "" {
		like := "%" + query + "%"
		q = q.Where("LOWER(name) LIKE ? OR slug LIKE ?", like, like)
	}

	var salons []models.Salon
	if err := q.Order("id ASC").Find(&salons).Error; err != nil {
		httperr.Internal(c, "failed_to_list_salons", "Erro ao listar estabelecimentos.")
		return
	}

	httpresp.List(c, salons)
}

func (h *SystemHandler) CreateSalon(c *gin.Context) {
	var req SystemCreateSalonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	slug := strings.ToLower(strings.TrimSpace(req.Slug))

	var count int64
	h.db.Model(&models.Salon{}).Where("slug = ?", slug).Count(&count)
	if count > 0 {
		httperr.BadRequest(c, "slug_already_exists", "Slug já em uso.")
		return
	}

	salon := models.Salon{
		Name:     req.Name,
		Slug:     slug,
		Phone:    req.Phone,
		Address:  req.Address,
		Timezone: req.Timezone,
		Active:   true,
	}

	if err := h.db.Create(&salon).Error; err != nil {
		httperr.Internal(c, "failed_to_create_salon", "Erro ao criar estabelecimento.")
		return
	}

	c.JSON(http.StatusCreated, salon)
}

func (h *SystemHandler) SetSalonActive(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Identificador inválido.")
		return
	}

	var req struct {
		Active *bool `json:"active" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	var salon models.Salon
	if err := h.db.First(&salon, id).Error; err != nil {
		httperr.NotFound(c, "salon_not_found", "Estabelecimento não encontrado.")
		return
	}

	salon.Active = *req.Active
	if err := h.db.Save(&salon).Error; err != nil {
		httperr.Internal(c, "failed_to_update_salon", "Erro ao atualizar estabelecimento.")
		return
	}

	c.JSON(http.StatusOK, salon)
}
