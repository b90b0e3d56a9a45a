package models

import (
	"strconv"
	"strings"
	"time"
)

type Salon struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	Name    string `gorm:"size:100;not null" json:"name"`
	Slug    string `gorm:"size:100;uniqueIndex;not null" json:"slug"`
	Phone   string `gorm:"size:20" json:"phone"`
	Address string `gorm:"size:255" json:"address"`
	LogoURL string `gorm:"size:255" json:"logo_url"`

	Timezone string `gorm:"size:50" json:"timezone"`

	OpenTime  string `gorm:"size:5;default:'08:00'" json:"open_time"`
	CloseTime string `gorm:"size:5;default:'20:00'" json:"close_time"`

	// Dias da semana em que o estabelecimento abre (0=domingo), CSV.
	OpenDays string `gorm:"size:20;default:'1,2,3,4,5,6'" json:"open_days"`

	MinAdvanceMinutes    int  `gorm:"default:120" json:"min_advance_minutes"`
	LoyaltyPointsPerVisit int `gorm:"default:10" json:"loyalty_points_per_visit"`

	Active bool `gorm:"default:true" json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// OpenDayList converte a coluna CSV em dias da semana; entradas inválidas
// são ignoradas.
func (s *Salon) OpenDayList() []int {
	parts := strings.Split(s.OpenDays, ",")
	days := make([]int, 0, len(parts))
	for _, p := range parts {
		d, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || d < 0 || d > 6 {
			continue
		}
		days = append(days, d)
	}
	return days
}

func JoinOpenDays(days []int) string {
	parts := make([]string, 0, len(days))
	for _, d := range days {
		parts = append(parts, strconv.Itoa(d))
	}
	return strings.Join(parts, ",")
}
