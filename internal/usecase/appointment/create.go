package appointment

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/agendly/salon-api/internal/audit"
	domain "github.com/agendly/salon-api/internal/domain/appointment"
	"github.com/agendly/salon-api/internal/httperr"
	"github.com/agendly/salon-api/internal/models"
	"github.com/agendly/salon-api/internal/timezone"
)

type CreateAppointmentInput struct {
	SalonID        uint
	ProfessionalID uint

	ClientName  string
	ClientPhone string
	ClientEmail string

	ServiceID uint

	Date  string // YYYY-MM-DD
	Time  string // HH:mm
	Notes string

	// Quem disparou a criação (nil em agendamento público).
	ActorID *uint
}

type CreateAppointment struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewCreateAppointment(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *CreateAppointment {
	return &CreateAppointment{
		repo:  repo,
		audit: audit,
	}
}

func (uc *CreateAppointment) Execute(
	ctx context.Context,
	in CreateAppointmentInput,
) (*models.Appointment, error) {

	salon, err := uc.repo.GetSalonByID(ctx, in.SalonID)
	if err != nil {
		return nil, err
	}

	start, err := time.ParseInLocation(
		"2006-01-02 15:04",
		in.Date+" "+in.Time,
		timezone.Location(salon.Timezone),
	)
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_date_or_time")
	}

	now := timezone.NowIn(salon.Timezone)
	if start.Before(now.Add(time.Duration(minAdvanceFor(salon)) * time.Minute)) {
		return nil, httperr.ErrBusiness("too_soon")
	}

	service, err := uc.repo.GetService(ctx, in.SalonID, in.ServiceID)
	if err != nil {
		return nil, httperr.ErrBusiness("service_not_found")
	}

	end := start.Add(time.Duration(service.DurationMin) * time.Minute)

	// O horário pedido precisa ser um slot livre do dia: isso cobre dia
	// fechado, profissional indisponível, janela efetiva e ocupação.
	availabilityUC := NewGetAvailability(uc.repo)
	availability, err := availabilityUC.Execute(ctx, AvailabilityInput{
		SalonID:        in.SalonID,
		ProfessionalID: in.ProfessionalID,
		Date:           start,
	})
	if err != nil {
		return nil, err
	}

	// Compara pelo rótulo normalizado: "9:30" na entrada é o slot "09:30".
	if !containsSlot(availability.AvailableSlots, start.Format("15:04")) {
		return nil, httperr.ErrBusiness("slot_unavailable")
	}

	client, err := uc.repo.GetOrCreateClient(
		ctx,
		in.SalonID,
		in.ClientName,
		in.ClientPhone,
		in.ClientEmail,
	)
	if err != nil {
		return nil, err
	}

	// Guarda contra corrida entre a leitura dos slots e a escrita.
	if err := uc.repo.AssertNoTimeConflict(
		ctx,
		in.ProfessionalID,
		start,
		end,
	); err != nil {
		return nil, err
	}

	ap := &models.Appointment{
		Reference:      uuid.NewString(),
		SalonID:        in.SalonID,
		ProfessionalID: in.ProfessionalID,
		ClientID:       client.ID,
		ServiceID:      service.ID,
		StartTime:      start,
		EndTime:        end,
		Status:         string(domain.InitialStatus()),
		Notes:          in.Notes,
	}

	if err := uc.repo.CreateAppointment(ctx, ap); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		SalonID:  in.SalonID,
		UserID:   in.ActorID,
		Action:   "appointment_created",
		Entity:   "appointment",
		EntityID: &ap.ID,
	})

	return ap, nil
}

func containsSlot(slots []string, hm string) bool {
	for _, s := range slots {
		if s == hm {
			return true
		}
	}
	return false
}

// minAdvanceFor devolve a antecedência mínima configurada do
// estabelecimento; zero é válido e desliga a exigência.
func minAdvanceFor(salon *models.Salon) int {
	if salon.MinAdvanceMinutes < 0 {
		return 0
	}
	return salon.MinAdvanceMinutes
}
