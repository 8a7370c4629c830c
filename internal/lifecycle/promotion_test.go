package lifecycle

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/vhvplatform/go-clinic-lifecycle/internal/domain"
	"github.com/vhvplatform/go-clinic-lifecycle/internal/shared/logger"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func promotionFixture(now time.Time, owners []*domain.User, programs ...*domain.DiscountProgram) (*PromotionService, *fakePromotionStore, *fakeDispatcher) {
	store := &fakePromotionStore{programs: programs}
	dispatcher := &fakeDispatcher{}
	users := &fakeUserDirectory{byRole: map[domain.UserRole][]*domain.User{domain.RoleOwner: owners}}

	svc := NewPromotionService(store, users, dispatcher, logger.NewNopLogger())
	svc.now = func() time.Time { return now }
	return svc, store, dispatcher
}

func program(createDate, endDate time.Time, inactive bool) *domain.DiscountProgram {
	return &domain.DiscountProgram{
		ID:         primitive.NewObjectID(),
		Title:      "Spring cleaning",
		Percent:    15,
		CreateDate: createDate,
		EndDate:    endDate,
		IsDelete:   inactive,
	}
}

func TestPromotionTransitionTable(t *testing.T) {
	today := time.Date(2026, 4, 1, 9, 30, 0, 0, time.UTC)

	tests := []struct {
		name string
		p    *domain.DiscountProgram
		want promotionAction
	}{
		{"inactive before start date", program(today.AddDate(0, 0, 1), today.AddDate(0, 0, 10), true), promotionKeep},
		{"inactive on start date", program(today, today.AddDate(0, 0, 10), true), promotionActivate},
		{"inactive with missed start date stays inactive", program(today.AddDate(0, 0, -1), today.AddDate(0, 0, 10), true), promotionKeep},
		{"active inside window", program(today.AddDate(0, 0, -5), today.AddDate(0, 0, 5), false), promotionKeep},
		{"active on last day", program(today.AddDate(0, 0, -5), today, false), promotionKeep},
		{"active past end date", program(today.AddDate(0, 0, -5), today.AddDate(0, 0, -1), false), promotionDeactivate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := promotionTransition(tt.p, today); got != tt.want {
				t.Errorf("promotionTransition() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPromotionTickActivatesAndNotifiesOwners(t *testing.T) {
	today := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	owners := []*domain.User{
		{ID: primitive.NewObjectID(), Role: domain.RoleOwner},
		{ID: primitive.NewObjectID(), Role: domain.RoleOwner},
	}
	due := program(today, today.AddDate(0, 0, 14), true)

	svc, store, dispatcher := promotionFixture(today, owners, due)

	if err := svc.Tick(context.Background()); err != nil {
		t.Fatalf("Tick() error = %v", err)
	}

	if due.IsDelete {
		t.Error("expected program to become active")
	}
	if len(store.flips) != 1 || !store.flips[0].Active {
		t.Fatalf("expected one activation flip, got %+v", store.flips)
	}
	if len(dispatcher.attempts) != len(owners) {
		t.Fatalf("expected %d owner notifications, got %d", len(owners), len(dispatcher.attempts))
	}
	for _, n := range dispatcher.attempts {
		if n.Category != domain.CategoryPromotion {
			t.Errorf("notification category = %s, want %s", n.Category, domain.CategoryPromotion)
		}
		if n.RelatedID != due.ID {
			t.Errorf("notification related id = %s, want %s", n.RelatedID.Hex(), due.ID.Hex())
		}
	}
}

func TestPromotionTickExpiryIsQuiet(t *testing.T) {
	today := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	owners := []*domain.User{{ID: primitive.NewObjectID(), Role: domain.RoleOwner}}
	expired := program(today.AddDate(0, 0, -20), today.AddDate(0, 0, -1), false)

	svc, store, dispatcher := promotionFixture(today, owners, expired)

	if err := svc.Tick(context.Background()); err != nil {
		t.Fatalf("Tick() error = %v", err)
	}

	if !expired.IsDelete {
		t.Error("expected program to become inactive")
	}
	if len(store.flips) != 1 || store.flips[0].Active {
		t.Fatalf("expected one deactivation flip, got %+v", store.flips)
	}
	if len(dispatcher.attempts) != 0 {
		t.Errorf("expiry must not notify anyone, got %d notifications", len(dispatcher.attempts))
	}
}

func TestPromotionTickLeavesFutureProgramsUntouched(t *testing.T) {
	today := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	future := program(today.AddDate(0, 0, 1), today.AddDate(0, 0, 30), true)

	svc, store, dispatcher := promotionFixture(today, nil, future)

	if err := svc.Tick(context.Background()); err != nil {
		t.Fatalf("Tick() error = %v", err)
	}

	if len(store.flips) != 0 {
		t.Errorf("expected no flips, got %+v", store.flips)
	}
	if len(dispatcher.attempts) != 0 {
		t.Errorf("expected no notifications, got %d", len(dispatcher.attempts))
	}
}

func TestPromotionTickIsolatesPersistFailures(t *testing.T) {
	today := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	failing := program(today, today.AddDate(0, 0, 10), true)
	healthy := program(today, today.AddDate(0, 0, 10), true)

	svc, store, dispatcher := promotionFixture(today, nil, failing, healthy)
	store.flipErrFor = map[primitive.ObjectID]error{failing.ID: errors.New("write timeout")}

	if err := svc.Tick(context.Background()); err != nil {
		t.Fatalf("Tick() error = %v", err)
	}

	if failing.IsDelete != true {
		t.Error("failed program must stay inactive")
	}
	if healthy.IsDelete {
		t.Error("healthy program must still be activated")
	}
	for _, n := range dispatcher.attempts {
		if n.RelatedID == failing.ID {
			t.Error("notification sent for program whose persist failed")
		}
	}
}

func TestPromotionActivationPersistsBeforeNotification(t *testing.T) {
	today := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	owners := []*domain.User{{ID: primitive.NewObjectID(), Role: domain.RoleOwner}}
	due := program(today, today.AddDate(0, 0, 10), true)

	svc, store, dispatcher := promotionFixture(today, owners, due)
	dispatcher.failFor = map[primitive.ObjectID]error{owners[0].ID: errors.New("dispatch unavailable")}

	if err := svc.Tick(context.Background()); err != nil {
		t.Fatalf("Tick() error = %v", err)
	}

	if due.IsDelete {
		t.Error("activation must be persisted even when every notification fails")
	}
	if len(store.flips) != 1 {
		t.Errorf("expected one flip, got %d", len(store.flips))
	}
}
