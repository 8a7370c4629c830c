package repository

import (
	"context"

	"github.com/vhvplatform/go-clinic-lifecycle/internal/domain"
	"github.com/vhvplatform/go-clinic-lifecycle/internal/shared/mongodb"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const patientsCollection = "patients"

// PatientRepository handles patient profile lookups
type PatientRepository struct {
	client *mongodb.MongoClient
}

// NewPatientRepository creates a new patient repository
func NewPatientRepository(client *mongodb.MongoClient) *PatientRepository {
	return &PatientRepository{client: client}
}

// FindByID finds a patient by ID
func (r *PatientRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*domain.Patient, error) {
	var patient domain.Patient
	err := r.client.Collection(patientsCollection).FindOne(ctx, bson.M{"_id": id}).Decode(&patient)
	if err != nil {
		return nil, err
	}

	return &patient, nil
}
