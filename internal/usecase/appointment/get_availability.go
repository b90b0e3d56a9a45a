package appointment

import (
	"context"
	"time"

	domain "github.com/agendly/salon-api/internal/domain/appointment"
	"github.com/agendly/salon-api/internal/domain/schedule"
	"github.com/agendly/salon-api/internal/httperr"
	"github.com/agendly/salon-api/internal/timezone"
)

type AvailabilityInput struct {
	SalonID        uint
	ProfessionalID uint
	Date           time.Time
}

type AvailabilityOutput struct {
	AvailableSlots []string              `json:"available_slots"`
	Date           string                `json:"date"`
	ProfessionalID uint                  `json:"professional_id"`
	SlotDetails    []schedule.SlotDetail `json:"slot_details"`
	Reason         string                `json:"reason,omitempty"`
}

type GetAvailability struct {
	repo domain.Repository
}

func NewGetAvailability(repo domain.Repository) *GetAvailability {
	return &GetAvailability{repo: repo}
}

func (uc *GetAvailability) Execute(
	ctx context.Context,
	in AvailabilityInput,
) (*AvailabilityOutput, error) {

	salon, err := uc.repo.GetSalonByID(ctx, in.SalonID)
	if err != nil {
		return nil, err
	}

	prof, err := uc.repo.GetProfessional(ctx, in.SalonID, in.ProfessionalID)
	if err != nil {
		return nil, httperr.ErrBusiness("professional_not_found")
	}
	if !prof.Active {
		return nil, httperr.ErrBusiness("professional_not_found")
	}

	availability, err := uc.repo.ListAvailability(ctx, in.ProfessionalID)
	if err != nil {
		return nil, err
	}

	loc := in.Date.Location()
	dayStart := time.Date(
		in.Date.Year(), in.Date.Month(), in.Date.Day(),
		0, 0, 0, 0,
		loc,
	)
	dayEnd := dayStart.Add(24 * time.Hour)

	appointments, err := uc.repo.ListAppointmentsForDay(
		ctx,
		in.ProfessionalID,
		dayStart,
		dayEnd,
	)
	if err != nil {
		return nil, err
	}

	visits := make([]schedule.Visit, 0, len(appointments))
	for _, ap := range appointments {
		visits = append(visits, schedule.Visit{
			Start:       ap.StartTime.In(loc),
			DurationMin: ap.Service.DurationMin,
			Status:      ap.Status,
		})
	}

	days := make([]schedule.DayAvailability, 0, len(availability))
	for _, a := range availability {
		days = append(days, schedule.DayAvailability{
			Weekday:   a.Weekday,
			StartTime: a.StartTime,
			EndTime:   a.EndTime,
			Available: a.Available,
		})
	}

	result := schedule.DaySlots(
		in.Date,
		schedule.Settings{
			OpenTime:  salon.OpenTime,
			CloseTime: salon.CloseTime,
			OpenDays:  salon.OpenDayList(),
		},
		days,
		visits,
		timezone.NowIn(salon.Timezone),
	)

	return &AvailabilityOutput{
		AvailableSlots: result.Slots,
		Date:           in.Date.Format("2006-01-02"),
		ProfessionalID: in.ProfessionalID,
		SlotDetails:    result.Details,
		Reason:         string(result.Reason),
	}, nil
}
