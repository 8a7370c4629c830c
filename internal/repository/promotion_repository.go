package repository

import (
	"context"
	"time"

	"github.com/vhvplatform/go-clinic-lifecycle/internal/domain"
	"github.com/vhvplatform/go-clinic-lifecycle/internal/shared/mongodb"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const promotionsCollection = "discount_programs"

// PromotionRepository handles discount program data operations
type PromotionRepository struct {
	client *mongodb.MongoClient
}

// NewPromotionRepository creates a new promotion repository
func NewPromotionRepository(client *mongodb.MongoClient) *PromotionRepository {
	return &PromotionRepository{client: client}
}

// FindAll returns every discount program. The promotion rule evaluates the
// activation window per program, so the scan is unfiltered.
func (r *PromotionRepository) FindAll(ctx context.Context) ([]*domain.DiscountProgram, error) {
	cursor, err := r.client.Collection(promotionsCollection).Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var programs []*domain.DiscountProgram
	if err = cursor.All(ctx, &programs); err != nil {
		return nil, err
	}

	return programs, nil
}

// FindByID finds a discount program by ID
func (r *PromotionRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*domain.DiscountProgram, error) {
	var program domain.DiscountProgram
	err := r.client.Collection(promotionsCollection).FindOne(ctx, bson.M{"_id": id}).Decode(&program)
	if err != nil {
		return nil, err
	}

	return &program, nil
}

// SetActive flips the is_delete flag (true = inactive) and stamps the audit
// fields
func (r *PromotionRepository) SetActive(ctx context.Context, id primitive.ObjectID, active bool, updatedBy string) error {
	filter := bson.M{"_id": id}
	update := bson.M{
		"$set": bson.M{
			"is_delete":  !active,
			"updated_at": time.Now(),
			"updated_by": updatedBy,
		},
	}

	_, err := r.client.Collection(promotionsCollection).UpdateOne(ctx, filter, update)
	return err
}
