package models

import "time"

const (
	OrderStatusOpen      = "open"
	OrderStatusPaid      = "paid"
	OrderStatusCancelled = "cancelled"
)

type Order struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	Number string `gorm:"size:36;uniqueIndex" json:"number"`

	SalonID  uint `json:"salon_id"`
	ClientID uint `json:"client_id"`

	Client Client `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"client"`

	Items []OrderItem `json:"items"`

	Total  float64 `json:"total"`
	Status string  `gorm:"size:20;default:'open'" json:"status"`

	// Checkout do Mercado Pago, quando configurado.
	PaymentPreferenceID string `gorm:"size:100" json:"payment_preference_id"`
	CheckoutURL         string `gorm:"size:255" json:"checkout_url"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type OrderItem struct {
	ID      uint `gorm:"primaryKey" json:"id"`
	OrderID uint `gorm:"index" json:"order_id"`

	ProductID uint    `json:"product_id"`
	Product   Product `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"product"`

	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}
