package repository

import (
	"context"
	"time"

	"github.com/vhvplatform/go-clinic-lifecycle/internal/domain"
	"github.com/vhvplatform/go-clinic-lifecycle/internal/shared/mongodb"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const appointmentsCollection = "appointments"

// AppointmentRepository handles appointment data operations
type AppointmentRepository struct {
	client *mongodb.MongoClient
}

// NewAppointmentRepository creates a new appointment repository
func NewAppointmentRepository(client *mongodb.MongoClient) *AppointmentRepository {
	return &AppointmentRepository{client: client}
}

// FindByStatus finds all appointments in the given status. The status filter
// lives here rather than in the lifecycle rules: an appointment that has
// already left "confirmed" simply never reappears in the candidate set.
func (r *AppointmentRepository) FindByStatus(ctx context.Context, status domain.AppointmentStatus) ([]*domain.Appointment, error) {
	opts := options.Find().SetSort(bson.M{"appointment_date": 1})

	cursor, err := r.client.Collection(appointmentsCollection).Find(ctx, bson.M{"status": status}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var appointments []*domain.Appointment
	if err = cursor.All(ctx, &appointments); err != nil {
		return nil, err
	}

	return appointments, nil
}

// FindByStatusOnDate finds appointments in the given status scheduled on the
// given calendar date
func (r *AppointmentRepository) FindByStatusOnDate(ctx context.Context, status domain.AppointmentStatus, date time.Time) ([]*domain.Appointment, error) {
	filter := bson.M{
		"status":           status,
		"appointment_date": domain.Day(date),
	}

	cursor, err := r.client.Collection(appointmentsCollection).Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var appointments []*domain.Appointment
	if err = cursor.All(ctx, &appointments); err != nil {
		return nil, err
	}

	return appointments, nil
}

// FindByID finds an appointment by ID
func (r *AppointmentRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*domain.Appointment, error) {
	var appointment domain.Appointment
	err := r.client.Collection(appointmentsCollection).FindOne(ctx, bson.M{"_id": id}).Decode(&appointment)
	if err != nil {
		return nil, err
	}

	return &appointment, nil
}

// UpdateStatus transitions an appointment to a new status and stamps the
// audit fields in the same write
func (r *AppointmentRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, status domain.AppointmentStatus, updatedBy string) error {
	filter := bson.M{"_id": id}
	update := bson.M{
		"$set": bson.M{
			"status":     status,
			"updated_at": time.Now(),
			"updated_by": updatedBy,
		},
	}

	_, err := r.client.Collection(appointmentsCollection).UpdateOne(ctx, filter, update)
	return err
}
