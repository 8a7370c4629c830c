package lifecycle

import (
	"context"
	"time"

	"github.com/vhvplatform/go-clinic-lifecycle/internal/domain"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// The lifecycle services reach the rest of the system only through these
// narrow gateways. The mongo repositories satisfy them in production; tests
// supply fakes.

// AppointmentStore supplies appointment candidates and persists transitions
type AppointmentStore interface {
	FindByStatus(ctx context.Context, status domain.AppointmentStatus) ([]*domain.Appointment, error)
	FindByStatusOnDate(ctx context.Context, status domain.AppointmentStatus, date time.Time) ([]*domain.Appointment, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status domain.AppointmentStatus, updatedBy string) error
}

// PromotionStore supplies discount programs and persists window flips
type PromotionStore interface {
	FindAll(ctx context.Context) ([]*domain.DiscountProgram, error)
	SetActive(ctx context.Context, id primitive.ObjectID, active bool, updatedBy string) error
}

// PatientDirectory resolves patient profiles
type PatientDirectory interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*domain.Patient, error)
}

// DentistDirectory resolves dentist profiles
type DentistDirectory interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*domain.Dentist, error)
}

// UserDirectory resolves user accounts and role groups
type UserDirectory interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
	FindByRole(ctx context.Context, role domain.UserRole) ([]*domain.User, error)
}

// NotificationSender delivers one in-app notification
type NotificationSender interface {
	Send(ctx context.Context, notification *domain.Notification) error
}

// EmailSender delivers one HTML email
type EmailSender interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}
