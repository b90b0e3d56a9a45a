package appointment

import (
	"context"

	"github.com/agendly/salon-api/internal/audit"
	domain "github.com/agendly/salon-api/internal/domain/appointment"
	"github.com/agendly/salon-api/internal/httperr"
	"github.com/agendly/salon-api/internal/models"
	"github.com/agendly/salon-api/internal/timezone"
)

type CompleteAppointment struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewCompleteAppointment(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *CompleteAppointment {
	return &CompleteAppointment{
		repo:  repo,
		audit: audit,
	}
}

func (uc *CompleteAppointment) Execute(
	ctx context.Context,
	salonID uint,
	userID uint,
	appointmentID uint,
) (*models.Appointment, error) {

	salon, err := uc.repo.GetSalonByID(ctx, salonID)
	if err != nil {
		return nil, err
	}

	ap, err := uc.repo.GetAppointmentForSalon(ctx, appointmentID, salonID)
	if err != nil {
		return nil, httperr.ErrBusiness("appointment_not_found")
	}

	now := timezone.NowIn(salon.Timezone)
	if err := domain.Complete(ap, now); err != nil {
		return nil, err
	}

	// Conclusão e crédito de fidelidade são atômicos: se o crédito falha,
	// o agendamento continua scheduled e a operação pode ser repetida.
	if err := uc.repo.CompleteAndCredit(ctx, ap, salon.LoyaltyPointsPerVisit); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		SalonID:  salonID,
		UserID:   &userID,
		Action:   "appointment_completed",
		Entity:   "appointment",
		EntityID: &ap.ID,
	})

	return ap, nil
}
