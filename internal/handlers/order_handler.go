package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/agendly/salon-api/internal/audit"
	"github.com/agendly/salon-api/internal/httperr"
	"github.com/agendly/salon-api/internal/middleware"
	"github.com/agendly/salon-api/internal/models"
	"github.com/agendly/salon-api/internal/payments"
)

type OrderHandler struct {
	db      *gorm.DB
	gateway *payments.MercadoPago
	audit   *audit.Dispatcher
}

func NewOrderHandler(db *gorm.DB, gateway *payments.MercadoPago, dispatcher *audit.Dispatcher) *OrderHandler {
	return &OrderHandler{db: db, gateway: gateway, audit: dispatcher}
}

type OrderItemRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required,min=1"`
}

type CreateOrderRequest struct {
	ClientID uint               `json:"client_id" binding:"required"`
	Items    []OrderItemRequest `json:"items" binding:"required,min=1"`
}

func (h *OrderHandler) Create(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)
	salonID := c.MustGet(middleware.ContextSalonID).(uint)

	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	var client models.Client
	if err := h.db.
		Where("id = ? AND salon_id = ?", req.ClientID, salonID).
		First(&client).Error; err != nil {
		httperr.BadRequest(c, "client_not_found", "Cliente não encontrado.")
		return
	}

	order := models.Order{
		Number:   uuid.NewString(),
		SalonID:  salonID,
		ClientID: client.ID,
		Status:   models.OrderStatusOpen,
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		for _, item := range req.Items {
			var product models.Product
			if err := tx.
				Where("id = ? AND salon_id = ? AND active = true", item.ProductID, salonID).
				First(&product).Error; err != nil {
				return httperr.ErrBusiness("product_not_found")
			}

			if product.Stock < item.Quantity {
				return httperr.ErrBusiness("insufficient_stock")
			}

			if err := tx.Model(&product).
				UpdateColumn("stock", gorm.Expr("stock - ?", item.Quantity)).
				Error; err != nil {
				return err
			}

			order.Items = append(order.Items, models.OrderItem{
				ProductID: product.ID,
				Quantity:  item.Quantity,
				UnitPrice: product.Price,
			})
			order.Total += product.Price * float64(item.Quantity)
		}

		return tx.Create(&order).Error
	})

	if err != nil {
		if code, ok := httperr.BusinessCode(err); ok {
			httperr.BadRequest(c, code, "Não foi possível criar a comanda.")
			return
		}
		httperr.Internal(c, "failed_to_create_order", "Erro ao criar comanda.")
		return
	}

	// Gateway configurado → anexa o link de pagamento; falha aqui não
	// desfaz a comanda.
	if h.gateway != nil {
		items := make([]payments.CheckoutItem, 0, len(order.Items))
		for _, it := range order.Items {
			var product models.Product
			if err := h.db.First(&product, it.ProductID).Error; err != nil {
				continue
			}
			items = append(items, payments.CheckoutItem{
				Title:     product.Name,
				Quantity:  it.Quantity,
				UnitPrice: it.UnitPrice,
			})
		}

		if checkout, err := h.gateway.CreateCheckout(c.Request.Context(), order.Number, items); err == nil {
			order.PaymentPreferenceID = checkout.PreferenceID
			order.CheckoutURL = checkout.URL
			h.db.Save(&order)
		}
	}

	h.audit.Dispatch(audit.Event{
		SalonID:  salonID,
		UserID:   &userID,
		Action:   "order_created",
		Entity:   "order",
		EntityID: &order.ID,
	})

	c.JSON(http.StatusCreated, order)
}

func (h *OrderHandler) List(c *gin.Context) {
	salonID := c.MustGet(middleware.ContextSalonID).(uint)

	var orders []models.Order
	if err := h.db.
		Preload("Client").
		Preload("Items").
		Preload("Items.Product").
		Where("salon_id = ?", salonID).
		Order("created_at DESC").
		Find(&orders).Error; err != nil {
		httperr.Internal(c, "failed_to_list_orders", "Erro ao listar comandas.")
		return
	}

	c.JSON(http.StatusOK, orders)
}

func (h *OrderHandler) Get(c *gin.Context) {
	salonID := c.MustGet(middleware.ContextSalonID).(uint)

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Identificador inválido.")
		return
	}

	var order models.Order
	if err := h.db.
		Preload("Client").
		Preload("Items").
		Preload("Items.Product").
		Where("id = ? AND salon_id = ?", id, salonID).
		First(&order).Error; err != nil {
		httperr.NotFound(c, "order_not_found", "Comanda não encontrada.")
		return
	}

	c.JSON(http.StatusOK, order)
}
