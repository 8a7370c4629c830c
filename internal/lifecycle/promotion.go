package lifecycle

import (
	"context"
	"fmt"
	"time"

	"github.com/vhvplatform/go-clinic-lifecycle/internal/domain"
	"github.com/vhvplatform/go-clinic-lifecycle/internal/metrics"
	"github.com/vhvplatform/go-clinic-lifecycle/internal/service"
	"github.com/vhvplatform/go-clinic-lifecycle/internal/shared/logger"
)

// PromotionService keeps each discount program's inactive flag in line with
// its activation window: the flag flips to active on the start date and back
// to inactive once the end date has passed. The engine is the sole writer of
// that flag.
type PromotionService struct {
	promotions PromotionStore
	users      UserDirectory
	dispatcher NotificationSender
	log        *logger.Logger
	now        func() time.Time
}

// NewPromotionService creates a new promotion window service
func NewPromotionService(
	promotions PromotionStore,
	users UserDirectory,
	dispatcher NotificationSender,
	log *logger.Logger,
) *PromotionService {
	return &PromotionService{
		promotions: promotions,
		users:      users,
		dispatcher: dispatcher,
		log:        log,
		now:        time.Now,
	}
}

type promotionAction int

const (
	promotionKeep promotionAction = iota
	promotionActivate
	promotionDeactivate
)

// promotionTransition evaluates the activation window for one program.
//
// Activation fires only on the exact start date: a program whose start date
// passed while it was inactive never self-activates on a later day. That
// narrow window is intentional and kept as-is; widening it would be a change
// to the equality check below.
func promotionTransition(p *domain.DiscountProgram, today time.Time) promotionAction {
	if p.IsDelete {
		if domain.SameDay(p.CreateDate, today) {
			return promotionActivate
		}
		return promotionKeep
	}

	if domain.Day(p.EndDate).Before(domain.Day(today)) {
		return promotionDeactivate
	}
	return promotionKeep
}

// Tick scans every discount program and applies the window transitions.
// Failures are per-program: a bad program is logged and skipped.
func (s *PromotionService) Tick(ctx context.Context) error {
	today := s.now()

	programs, err := s.promotions.FindAll(ctx)
	if err != nil {
		return fmt.Errorf("scan discount programs: %w", err)
	}

	for _, program := range programs {
		if err := ctx.Err(); err != nil {
			return err
		}

		switch promotionTransition(program, today) {
		case promotionActivate:
			if err := s.promotions.SetActive(ctx, program.ID, true, systemActor); err != nil {
				metrics.TransitionFailures.WithLabelValues("promotion").Inc()
				s.log.Error("Failed to activate discount program", "error", err, "program_id", program.ID.Hex())
				continue
			}

			metrics.Transitions.WithLabelValues("promotion", "activated").Inc()
			s.log.Info("Discount program activated", "program_id", program.ID.Hex(), "title", program.Title)

			// Owners must know a discount went live before quoting prices.
			s.notifyActivation(ctx, program)

		case promotionDeactivate:
			if err := s.promotions.SetActive(ctx, program.ID, false, systemActor); err != nil {
				metrics.TransitionFailures.WithLabelValues("promotion").Inc()
				s.log.Error("Failed to deactivate discount program", "error", err, "program_id", program.ID.Hex())
				continue
			}

			metrics.Transitions.WithLabelValues("promotion", "deactivated").Inc()
			s.log.Info("Discount program expired", "program_id", program.ID.Hex(), "title", program.Title)
			// Expiry is a quiet event, nobody is notified.
		}
	}

	return nil
}

// notifyActivation fans out the activation notification to all owners
func (s *PromotionService) notifyActivation(ctx context.Context, program *domain.DiscountProgram) {
	owners, err := s.users.FindByRole(ctx, domain.RoleOwner)
	if err != nil {
		s.log.Warn("Failed to resolve owners for promotion notification", "error", err, "program_id", program.ID.Hex())
		return
	}

	dispatches := make([]service.Dispatch, 0, len(owners))
	for _, owner := range owners {
		recipientID := owner.ID
		dispatches = append(dispatches, func(ctx context.Context) error {
			return s.dispatcher.Send(ctx, &domain.Notification{
				RecipientID: recipientID,
				Title:       "Discount program is now active",
				Body:        fmt.Sprintf("The discount program %q (%.0f%%) is active from %s through %s.", program.Title, program.Percent, program.CreateDate.Format("2006-01-02"), program.EndDate.Format("2006-01-02")),
				Category:    domain.CategoryPromotion,
				RelatedID:   program.ID,
			})
		})
	}

	service.FanOut(ctx, s.log, dispatches...)
}
