package handlers

import (
	"time"

	"github.com/agendly/salon-api/internal/models"
	"github.com/agendly/salon-api/internal/timezone"
)

// Todo horário é interpretado no relógio de parede do estabelecimento.

func locationFromSalon(salon *models.Salon) *time.Location {
	if salon != nil {
		return timezone.Location(salon.Timezone)
	}
	return timezone.Location("")
}

func parseDateInSalon(salon *models.Salon, dateStr string) (time.Time, error) {
	return time.ParseInLocation(
		"2006-01-02",
		dateStr,
		locationFromSalon(salon),
	)
}
