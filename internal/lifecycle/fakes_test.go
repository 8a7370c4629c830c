package lifecycle

import (
	"context"
	"sync"
	"time"

	"github.com/vhvplatform/go-clinic-lifecycle/internal/domain"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type statusUpdate struct {
	ID        primitive.ObjectID
	Status    domain.AppointmentStatus
	UpdatedBy string
}

type fakeAppointmentStore struct {
	mu           sync.Mutex
	appointments []*domain.Appointment
	updateErrFor map[primitive.ObjectID]error
	scanErr      error
	updates      []statusUpdate
}

func (f *fakeAppointmentStore) FindByStatus(ctx context.Context, status domain.AppointmentStatus) ([]*domain.Appointment, error) {
	if f.scanErr != nil {
		return nil, f.scanErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []*domain.Appointment
	for _, appt := range f.appointments {
		if appt.Status == status {
			out = append(out, appt)
		}
	}
	return out, nil
}

func (f *fakeAppointmentStore) FindByStatusOnDate(ctx context.Context, status domain.AppointmentStatus, date time.Time) ([]*domain.Appointment, error) {
	if f.scanErr != nil {
		return nil, f.scanErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []*domain.Appointment
	for _, appt := range f.appointments {
		if appt.Status == status && domain.SameDay(appt.AppointmentDate, date) {
			out = append(out, appt)
		}
	}
	return out, nil
}

func (f *fakeAppointmentStore) UpdateStatus(ctx context.Context, id primitive.ObjectID, status domain.AppointmentStatus, updatedBy string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.updateErrFor[id]; err != nil {
		return err
	}
	for _, appt := range f.appointments {
		if appt.ID == id {
			appt.Status = status
			appt.UpdatedBy = updatedBy
			appt.UpdatedAt = time.Now()
		}
	}
	f.updates = append(f.updates, statusUpdate{ID: id, Status: status, UpdatedBy: updatedBy})
	return nil
}

type activeFlip struct {
	ID     primitive.ObjectID
	Active bool
}

type fakePromotionStore struct {
	programs   []*domain.DiscountProgram
	flipErrFor map[primitive.ObjectID]error
	scanErr    error
	flips      []activeFlip
}

func (f *fakePromotionStore) FindAll(ctx context.Context) ([]*domain.DiscountProgram, error) {
	if f.scanErr != nil {
		return nil, f.scanErr
	}
	return f.programs, nil
}

func (f *fakePromotionStore) SetActive(ctx context.Context, id primitive.ObjectID, active bool, updatedBy string) error {
	if err := f.flipErrFor[id]; err != nil {
		return err
	}
	for _, p := range f.programs {
		if p.ID == id {
			p.IsDelete = !active
			p.UpdatedBy = updatedBy
		}
	}
	f.flips = append(f.flips, activeFlip{ID: id, Active: active})
	return nil
}

type fakePatientDirectory struct {
	byID   map[primitive.ObjectID]*domain.Patient
	errFor map[primitive.ObjectID]error
}

func (f *fakePatientDirectory) FindByID(ctx context.Context, id primitive.ObjectID) (*domain.Patient, error) {
	if err := f.errFor[id]; err != nil {
		return nil, err
	}
	return f.byID[id], nil
}

type fakeDentistDirectory struct {
	byID   map[primitive.ObjectID]*domain.Dentist
	errFor map[primitive.ObjectID]error
}

func (f *fakeDentistDirectory) FindByID(ctx context.Context, id primitive.ObjectID) (*domain.Dentist, error) {
	if err := f.errFor[id]; err != nil {
		return nil, err
	}
	return f.byID[id], nil
}

type fakeUserDirectory struct {
	byID    map[primitive.ObjectID]*domain.User
	byRole  map[domain.UserRole][]*domain.User
	roleErr error
}

func (f *fakeUserDirectory) FindByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	return f.byID[id], nil
}

func (f *fakeUserDirectory) FindByRole(ctx context.Context, role domain.UserRole) ([]*domain.User, error) {
	if f.roleErr != nil {
		return nil, f.roleErr
	}
	return f.byRole[role], nil
}

// fakeDispatcher records every attempt; sends to recipients listed in
// failFor return an error. Safe for concurrent use by FanOut.
type fakeDispatcher struct {
	mu       sync.Mutex
	attempts []*domain.Notification
	failFor  map[primitive.ObjectID]error
}

func (f *fakeDispatcher) Send(ctx context.Context, n *domain.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.attempts = append(f.attempts, n)
	if err := f.failFor[n.RecipientID]; err != nil {
		return err
	}
	return nil
}

func (f *fakeDispatcher) sentTo(recipient primitive.ObjectID) int {
	f.mu.Lock()
	defer f.mu.Unlock()

	count := 0
	for _, n := range f.attempts {
		if n.RecipientID == recipient {
			count++
		}
	}
	return count
}

type sentEmail struct {
	To      string
	Subject string
	Body    string
}

type fakeEmailSender struct {
	mu       sync.Mutex
	sent     []sentEmail
	attempts int
	failFor  map[string]error
}

func (f *fakeEmailSender) Send(ctx context.Context, to, subject, htmlBody string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.attempts++
	if err := f.failFor[to]; err != nil {
		return err
	}
	f.sent = append(f.sent, sentEmail{To: to, Subject: subject, Body: htmlBody})
	return nil
}
