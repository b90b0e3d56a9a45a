package appointment

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/agendly/salon-api/internal/audit"
	"github.com/agendly/salon-api/internal/models"
)

// fakeRepo guarda tudo em memória; suficiente para exercitar os use cases
// sem banco.
type fakeRepo struct {
	salon        models.Salon
	professional models.Professional
	services     map[uint]models.Service
	availability []models.ProfessionalAvailability
	appointments []models.Appointment
	clients      []models.Client

	credited  []int
	creditErr error
}

func (f *fakeRepo) GetSalonByID(_ context.Context, id uint) (*models.Salon, error) {
	if id != f.salon.ID {
		return nil, gorm.ErrRecordNotFound
	}
	s := f.salon
	return &s, nil
}

func (f *fakeRepo) GetService(_ context.Context, salonID, serviceID uint) (*models.Service, error) {
	s, ok := f.services[serviceID]
	if !ok || s.SalonID != salonID {
		return nil, gorm.ErrRecordNotFound
	}
	return &s, nil
}

func (f *fakeRepo) GetProfessional(_ context.Context, salonID, professionalID uint) (*models.Professional, error) {
	if professionalID != f.professional.ID || salonID != f.professional.SalonID {
		return nil, gorm.ErrRecordNotFound
	}
	p := f.professional
	return &p, nil
}

func (f *fakeRepo) ListAvailability(_ context.Context, professionalID uint) ([]models.ProfessionalAvailability, error) {
	var out []models.ProfessionalAvailability
	for _, a := range f.availability {
		if a.ProfessionalID == professionalID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeRepo) GetOrCreateClient(_ context.Context, salonID uint, name, phone, email string) (*models.Client, error) {
	for i := range f.clients {
		if f.clients[i].SalonID == salonID && f.clients[i].Phone == phone {
			return &f.clients[i], nil
		}
	}
	c := models.Client{ID: uint(len(f.clients) + 1), SalonID: salonID, Name: name, Phone: phone, Email: email}
	f.clients = append(f.clients, c)
	return &c, nil
}

func (f *fakeRepo) CreateAppointment(_ context.Context, ap *models.Appointment) error {
	ap.ID = uint(len(f.appointments) + 1)
	f.appointments = append(f.appointments, *ap)
	return nil
}

func (f *fakeRepo) AssertNoTimeConflict(_ context.Context, professionalID uint, start, end time.Time) error {
	return nil
}

func (f *fakeRepo) GetAppointmentForSalon(_ context.Context, appointmentID, salonID uint) (*models.Appointment, error) {
	for i := range f.appointments {
		if f.appointments[i].ID == appointmentID && f.appointments[i].SalonID == salonID {
			ap := f.appointments[i]
			return &ap, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepo) UpdateAppointment(_ context.Context, ap *models.Appointment) error {
	for i := range f.appointments {
		if f.appointments[i].ID == ap.ID {
			f.appointments[i] = *ap
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (f *fakeRepo) ListAppointmentsForDay(_ context.Context, professionalID uint, start, end time.Time) ([]models.Appointment, error) {
	var out []models.Appointment
	for _, ap := range f.appointments {
		if ap.ProfessionalID == professionalID && !ap.StartTime.Before(start) && ap.StartTime.Before(end) {
			ap.Service = f.services[ap.ServiceID]
			out = append(out, ap)
		}
	}
	return out, nil
}

func (f *fakeRepo) ListAppointmentsForPeriod(ctx context.Context, professionalID uint, start, end time.Time) ([]models.Appointment, error) {
	return f.ListAppointmentsForDay(ctx, professionalID, start, end)
}

func (f *fakeRepo) CompleteAndCredit(ctx context.Context, ap *models.Appointment, points int) error {
	// Atômico como no repositório real: crédito falhou, nada é gravado.
	if points > 0 && f.creditErr != nil {
		return f.creditErr
	}
	if err := f.UpdateAppointment(ctx, ap); err != nil {
		return err
	}
	if points > 0 {
		f.credited = append(f.credited, points)
	}
	return nil
}

// ------------------------------------------------------

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		salon: models.Salon{
			ID:                    1,
			Timezone:              "UTC",
			OpenTime:              "08:00",
			CloseTime:             "20:00",
			OpenDays:              "1,2,3,4,5,6",
			MinAdvanceMinutes:     120,
			LoyaltyPointsPerVisit: 10,
		},
		professional: models.Professional{ID: 7, SalonID: 1, Name: "Rafa", Active: true},
		services: map[uint]models.Service{
			3: {ID: 3, SalonID: 1, Name: "Corte", DurationMin: 60},
		},
		availability: []models.ProfessionalAvailability{
			{ProfessionalID: 7, Weekday: 1, StartTime: "09:00", EndTime: "18:00", Available: true},
		},
	}
}

// futureMonday devolve uma segunda-feira distante para que nenhum slot
// esteja no passado em relação ao relógio real.
func futureMonday() time.Time {
	d := time.Date(time.Now().Year()+2, 1, 10, 0, 0, 0, 0, time.UTC)
	for d.Weekday() != time.Monday {
		d = d.AddDate(0, 0, 1)
	}
	return d
}

func newDispatcher() *audit.Dispatcher {
	return audit.NewDispatcher(audit.New(nil))
}

func TestGetAvailability_OccupiedAndCancelled(t *testing.T) {
	repo := newFakeRepo()
	day := futureMonday()

	repo.appointments = []models.Appointment{
		{ID: 1, SalonID: 1, ProfessionalID: 7, ServiceID: 3, StartTime: day.Add(10 * time.Hour), Status: "scheduled"},
		{ID: 2, SalonID: 1, ProfessionalID: 7, ServiceID: 3, StartTime: day.Add(14 * time.Hour), Status: "cancelled"},
	}

	out, err := NewGetAvailability(repo).Execute(context.Background(), AvailabilityInput{
		SalonID:        1,
		ProfessionalID: 7,
		Date:           day,
	})

	require.NoError(t, err)
	assert.Equal(t, uint(7), out.ProfessionalID)
	assert.Equal(t, day.Format("2006-01-02"), out.Date)

	// Agendamento de 60 min às 10:00 ocupa dois slots.
	assert.NotContains(t, out.AvailableSlots, "10:00")
	assert.NotContains(t, out.AvailableSlots, "10:30")
	// Cancelado às 14:00 não ocupa nada.
	assert.Contains(t, out.AvailableSlots, "14:00")
	assert.NotEmpty(t, out.SlotDetails)
	assert.Empty(t, out.Reason)
}

func TestGetAvailability_UnknownProfessional(t *testing.T) {
	repo := newFakeRepo()

	_, err := NewGetAvailability(repo).Execute(context.Background(), AvailabilityInput{
		SalonID:        1,
		ProfessionalID: 99,
		Date:           futureMonday(),
	})

	require.Error(t, err)
}

func TestCreateAppointment_RejectsOccupiedSlot(t *testing.T) {
	repo := newFakeRepo()
	day := futureMonday()

	repo.appointments = []models.Appointment{
		{ID: 1, SalonID: 1, ProfessionalID: 7, ServiceID: 3, StartTime: day.Add(10 * time.Hour), Status: "scheduled"},
	}

	uc := NewCreateAppointment(repo, newDispatcher())

	_, err := uc.Execute(context.Background(), CreateAppointmentInput{
		SalonID:        1,
		ProfessionalID: 7,
		ClientName:     "Ana",
		ClientPhone:    "11999990000",
		ServiceID:      3,
		Date:           day.Format("2006-01-02"),
		Time:           "10:30",
	})

	require.Error(t, err)
	assert.Equal(t, "slot_unavailable", err.Error())
}

func TestCreateAppointment_HappyPath(t *testing.T) {
	repo := newFakeRepo()
	day := futureMonday()

	uc := NewCreateAppointment(repo, newDispatcher())

	ap, err := uc.Execute(context.Background(), CreateAppointmentInput{
		SalonID:        1,
		ProfessionalID: 7,
		ClientName:     "Ana",
		ClientPhone:    "11999990000",
		ServiceID:      3,
		Date:           day.Format("2006-01-02"),
		Time:           "09:30",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, ap.Reference)
	assert.Equal(t, "scheduled", ap.Status)
	assert.Equal(t, day.Add(9*time.Hour+30*time.Minute), ap.StartTime.UTC())
	assert.Equal(t, day.Add(10*time.Hour+30*time.Minute), ap.EndTime.UTC())
}

func TestCompleteAppointment_CreditsLoyalty(t *testing.T) {
	repo := newFakeRepo()
	day := futureMonday()

	repo.appointments = []models.Appointment{
		{ID: 5, SalonID: 1, ProfessionalID: 7, ClientID: 2, ServiceID: 3, StartTime: day.Add(10 * time.Hour), Status: "scheduled"},
	}

	uc := NewCompleteAppointment(repo, newDispatcher())

	ap, err := uc.Execute(context.Background(), 1, 42, 5)

	require.NoError(t, err)
	assert.Equal(t, "completed", ap.Status)
	require.NotNil(t, ap.CompletedAt)
	assert.Equal(t, []int{10}, repo.credited)

	// Segunda conclusão é transição inválida.
	_, err = uc.Execute(context.Background(), 1, 42, 5)
	require.Error(t, err)
}

func TestCompleteAppointment_CreditFailureKeepsScheduled(t *testing.T) {
	repo := newFakeRepo()
	day := futureMonday()

	repo.appointments = []models.Appointment{
		{ID: 5, SalonID: 1, ProfessionalID: 7, ClientID: 2, ServiceID: 3, StartTime: day.Add(10 * time.Hour), Status: "scheduled"},
	}
	repo.creditErr = errors.New("credit failed")

	uc := NewCompleteAppointment(repo, newDispatcher())

	_, err := uc.Execute(context.Background(), 1, 42, 5)
	require.Error(t, err)

	// Nada foi gravado: o agendamento segue scheduled e sem pontos.
	assert.Equal(t, "scheduled", repo.appointments[0].Status)
	assert.Empty(t, repo.credited)

	// Com o crédito funcionando de novo, a conclusão pode ser repetida.
	repo.creditErr = nil
	ap, err := uc.Execute(context.Background(), 1, 42, 5)
	require.NoError(t, err)
	assert.Equal(t, "completed", ap.Status)
	assert.Equal(t, []int{10}, repo.credited)
}

func TestCreateAppointment_NormalizesUnpaddedTime(t *testing.T) {
	repo := newFakeRepo()
	day := futureMonday()

	uc := NewCreateAppointment(repo, newDispatcher())

	ap, err := uc.Execute(context.Background(), CreateAppointmentInput{
		SalonID:        1,
		ProfessionalID: 7,
		ClientName:     "Ana",
		ClientPhone:    "11999990000",
		ServiceID:      3,
		Date:           day.Format("2006-01-02"),
		Time:           "9:30",
	})

	require.NoError(t, err)
	assert.Equal(t, day.Add(9*time.Hour+30*time.Minute), ap.StartTime.UTC())
}

func TestMinAdvanceFor(t *testing.T) {
	assert.Equal(t, 0, minAdvanceFor(&models.Salon{MinAdvanceMinutes: 0}))
	assert.Equal(t, 90, minAdvanceFor(&models.Salon{MinAdvanceMinutes: 90}))
	assert.Equal(t, 0, minAdvanceFor(&models.Salon{MinAdvanceMinutes: -30}))
}

func TestCancelAppointment(t *testing.T) {
	repo := newFakeRepo()
	day := futureMonday()

	repo.appointments = []models.Appointment{
		{ID: 9, SalonID: 1, ProfessionalID: 7, ServiceID: 3, StartTime: day.Add(11 * time.Hour), Status: "scheduled"},
	}

	uc := NewCancelAppointment(repo, newDispatcher())

	ap, err := uc.Execute(context.Background(), 1, 42, 9)

	require.NoError(t, err)
	assert.Equal(t, "cancelled", ap.Status)
	require.NotNil(t, ap.CancelledAt)
}
