package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/agendly/salon-api/internal/httperr"
	"github.com/agendly/salon-api/internal/middleware"
	"github.com/agendly/salon-api/internal/models"
	"github.com/agendly/salon-api/internal/storage"
)

const maxUploadBytes = 8 << 20 // 8 MiB

// Upload de imagens (logo do estabelecimento, foto de profissional).
type MediaHandler struct {
	db       *gorm.DB
	uploader *storage.Uploader
}

func NewMediaHandler(db *gorm.DB, uploader *storage.Uploader) *MediaHandler {
	return &MediaHandler{db: db, uploader: uploader}
}

func (h *MediaHandler) UploadSalonLogo(c *gin.Context) {
	salonID := c.MustGet(middleware.ContextSalonID).(uint)

	file, err := c.FormFile("file")
	if err != nil || file.Size > maxUploadBytes {
		httperr.BadRequest(c, "invalid_file", "Arquivo inválido ou grande demais.")
		return
	}

	src, err := file.Open()
	if err != nil {
		httperr.Internal(c, "failed_to_read_file", "Erro ao ler o arquivo.")
		return
	}
	defer src.Close()

	key := fmt.Sprintf("salons/%d/logo-%s", salonID, uuid.NewString())

	url, err := h.uploader.UploadImage(c.Request.Context(), key, src)
	if err != nil {
		httperr.Internal(c, "failed_to_upload", "Erro ao enviar a imagem.")
		return
	}

	if err := h.db.Model(&models.Salon{}).
		Where("id = ?", salonID).
		UpdateColumn("logo_url", url).Error; err != nil {
		httperr.Internal(c, "failed_to_save_url", "Erro ao salvar a imagem.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": url})
}

func (h *MediaHandler) UploadProfessionalPhoto(c *gin.Context) {
	salonID := c.MustGet(middleware.ContextSalonID).(uint)

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Identificador inválido.")
		return
	}

	var pro models.Professional
	if err := h.db.
		Where("id = ? AND salon_id = ?", id, salonID).
		First(&pro).Error; err != nil {
		httperr.NotFound(c, "professional_not_found", "Profissional não encontrado.")
		return
	}

	file, err := c.FormFile("file")
	if err != nil || file.Size > maxUploadBytes {
		httperr.BadRequest(c, "invalid_file", "Arquivo inválido ou grande demais.")
		return
	}

	src, err := file.Open()
	if err != nil {
		httperr.Internal(c, "failed_to_read_file", "Erro ao ler o arquivo.")
		return
	}
	defer src.Close()

	key := fmt.Sprintf("salons/%d/professionals/%d-%s", salonID, pro.ID, uuid.NewString())

	url, err := h.uploader.UploadImage(c.Request.Context(), key, src)
	if err != nil {
		httperr.Internal(c, "failed_to_upload", "Erro ao enviar a imagem.")
		return
	}

	pro.PhotoURL = url
	if err := h.db.Save(&pro).Error; err != nil {
		httperr.Internal(c, "failed_to_save_url", "Erro ao salvar a imagem.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": url})
}
