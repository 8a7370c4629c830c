package repository

import (
	"context"

	"github.com/vhvplatform/go-clinic-lifecycle/internal/domain"
	"github.com/vhvplatform/go-clinic-lifecycle/internal/shared/mongodb"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const dentistsCollection = "dentists"

// DentistRepository handles dentist profile lookups
type DentistRepository struct {
	client *mongodb.MongoClient
}

// NewDentistRepository creates a new dentist repository
func NewDentistRepository(client *mongodb.MongoClient) *DentistRepository {
	return &DentistRepository{client: client}
}

// FindByID finds a dentist by ID
func (r *DentistRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*domain.Dentist, error) {
	var dentist domain.Dentist
	err := r.client.Collection(dentistsCollection).FindOne(ctx, bson.M{"_id": id}).Decode(&dentist)
	if err != nil {
		return nil, err
	}

	return &dentist, nil
}
