package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	AppointmentStatusConfirmed AppointmentStatus = "confirmed"
	AppointmentStatusCompleted AppointmentStatus = "completed"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
	AppointmentStatusAbsented  AppointmentStatus = "absented"
)

// Appointment represents a booked appointment slot
type Appointment struct {
	ID              primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	DentistID       primitive.ObjectID `json:"dentist_id" bson:"dentist_id"`
	PatientID       primitive.ObjectID `json:"patient_id" bson:"patient_id"`
	Status          AppointmentStatus  `json:"status" bson:"status"`
	AppointmentDate time.Time          `json:"appointment_date" bson:"appointment_date"`
	AppointmentTime string             `json:"appointment_time" bson:"appointment_time"` // "15:04"
	Note            string             `json:"note,omitempty" bson:"note,omitempty"`
	CreatedAt       time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at" bson:"updated_at"`
	UpdatedBy       string             `json:"updated_by,omitempty" bson:"updated_by,omitempty"`
}

// DiscountProgram represents a promotion with an activation window.
// IsDelete doubles as the "inactive" flag: true means the discount is not
// currently applied.
type DiscountProgram struct {
	ID         primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Title      string             `json:"title" bson:"title"`
	Percent    float64            `json:"percent" bson:"percent"`
	CreateDate time.Time          `json:"create_date" bson:"create_date"`
	EndDate    time.Time          `json:"end_date" bson:"end_date"`
	IsDelete   bool               `json:"is_delete" bson:"is_delete"`
	CreatedAt  time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt  time.Time          `json:"updated_at" bson:"updated_at"`
	UpdatedBy  string             `json:"updated_by,omitempty" bson:"updated_by,omitempty"`
}

// UserRole represents the role of a clinic user
type UserRole string

const (
	RolePatient      UserRole = "patient"
	RoleDentist      UserRole = "dentist"
	RoleReceptionist UserRole = "receptionist"
	RoleOwner        UserRole = "owner"
)

// User represents a clinic user account
type User struct {
	ID       primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Email    string             `json:"email,omitempty" bson:"email,omitempty"`
	FullName string             `json:"full_name" bson:"full_name"`
	Role     UserRole           `json:"role" bson:"role"`
	Phone    string             `json:"phone,omitempty" bson:"phone,omitempty"`
}

// Patient links a patient profile to its user account
type Patient struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	UserID    primitive.ObjectID `json:"user_id" bson:"user_id"`
	BirthDate *time.Time         `json:"birth_date,omitempty" bson:"birth_date,omitempty"`
}

// Dentist links a dentist profile to its user account
type Dentist struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	UserID    primitive.ObjectID `json:"user_id" bson:"user_id"`
	Specialty string             `json:"specialty,omitempty" bson:"specialty,omitempty"`
}

// NotificationCategory classifies in-app notifications
type NotificationCategory string

const (
	CategoryAppointment NotificationCategory = "appointment"
	CategoryPromotion   NotificationCategory = "promotion"
)

// Notification represents an in-app notification for one recipient
type Notification struct {
	ID          primitive.ObjectID   `json:"id" bson:"_id,omitempty"`
	RecipientID primitive.ObjectID   `json:"recipient_id" bson:"recipient_id"`
	Title       string               `json:"title" bson:"title"`
	Body        string               `json:"body" bson:"body"`
	Category    NotificationCategory `json:"category" bson:"category"`
	RelatedID   primitive.ObjectID   `json:"related_id,omitempty" bson:"related_id,omitempty"`
	Link        string               `json:"link,omitempty" bson:"link,omitempty"`
	IsRead      bool                 `json:"is_read" bson:"is_read"`
	CreatedAt   time.Time            `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at" bson:"updated_at"`
}

// NotificationEvent is the payload published to the message broker when a
// notification is dispatched, for real-time delivery to connected clients.
type NotificationEvent struct {
	EventID     string               `json:"event_id"`
	RecipientID string               `json:"recipient_id"`
	Title       string               `json:"title"`
	Category    NotificationCategory `json:"category"`
	RelatedID   string               `json:"related_id,omitempty"`
	Timestamp   time.Time            `json:"timestamp"`
}

// Day truncates t to its calendar date in UTC. Date-granularity fields
// (appointment dates, promotion windows) are stored and compared in this
// normalized form.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// SameDay reports whether a and b fall on the same calendar date.
func SameDay(a, b time.Time) bool {
	return Day(a).Equal(Day(b))
}
