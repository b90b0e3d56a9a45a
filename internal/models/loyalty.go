package models

import "time"

const (
	LoyaltyReasonVisit  = "visit"
	LoyaltyReasonOrder  = "order"
	LoyaltyReasonAdjust = "adjust"
	LoyaltyReasonRedeem = "redeem"
)

// Movimentação assinada de pontos; o saldo fica em Client.LoyaltyPoints.
type LoyaltyTransaction struct {
	ID       uint `gorm:"primaryKey" json:"id"`
	SalonID  uint `json:"salon_id"`
	ClientID uint `gorm:"index" json:"client_id"`

	Points int    `json:"points"`
	Reason string `gorm:"size:20" json:"reason"`
	Note   string `gorm:"size:255" json:"note"`

	EntityID *uint `json:"entity_id"`

	CreatedAt time.Time `json:"created_at"`
}
