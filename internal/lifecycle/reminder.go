package lifecycle

import (
	"context"
	"fmt"
	"time"

	"github.com/vhvplatform/go-clinic-lifecycle/internal/domain"
	"github.com/vhvplatform/go-clinic-lifecycle/internal/shared/logger"
)

// ReminderService emails patients the day before their confirmed
// appointment. It mutates nothing: a reminder that cannot be delivered is
// logged and lost, there is no retry ledger.
type ReminderService struct {
	appointments AppointmentStore
	patients     PatientDirectory
	users        UserDirectory
	email        EmailSender
	log          *logger.Logger
	now          func() time.Time
}

// NewReminderService creates a new reminder service
func NewReminderService(
	appointments AppointmentStore,
	patients PatientDirectory,
	users UserDirectory,
	email EmailSender,
	log *logger.Logger,
) *ReminderService {
	return &ReminderService{
		appointments: appointments,
		patients:     patients,
		users:        users,
		email:        email,
		log:          log,
		now:          time.Now,
	}
}

// Tick emails a reminder for every confirmed appointment scheduled tomorrow
func (s *ReminderService) Tick(ctx context.Context) error {
	tomorrow := domain.Day(s.now().AddDate(0, 0, 1))

	appointments, err := s.appointments.FindByStatusOnDate(ctx, domain.AppointmentStatusConfirmed, tomorrow)
	if err != nil {
		return fmt.Errorf("scan tomorrow's appointments: %w", err)
	}

	for _, appt := range appointments {
		if err := ctx.Err(); err != nil {
			return err
		}

		if err := s.remind(ctx, appt); err != nil {
			s.log.Warn("Appointment reminder not sent", "error", err, "appointment_id", appt.ID.Hex())
		}
	}

	return nil
}

// remind sends the reminder for one appointment. A patient without a linked
// user or without an email address is silently skipped.
func (s *ReminderService) remind(ctx context.Context, appt *domain.Appointment) error {
	if appt.Status != domain.AppointmentStatusConfirmed || appt.PatientID.IsZero() {
		return nil
	}

	patient, err := s.patients.FindByID(ctx, appt.PatientID)
	if err != nil {
		return fmt.Errorf("resolve patient %s: %w", appt.PatientID.Hex(), err)
	}
	if patient == nil || patient.UserID.IsZero() {
		return nil
	}

	user, err := s.users.FindByID(ctx, patient.UserID)
	if err != nil {
		return fmt.Errorf("resolve user %s: %w", patient.UserID.Hex(), err)
	}
	if user == nil || user.Email == "" {
		return nil
	}

	subject := fmt.Sprintf("Reminder: your appointment on %s", appt.AppointmentDate.Format("2006-01-02"))
	return s.email.Send(ctx, user.Email, subject, buildReminderBody(user, appt))
}

// buildReminderBody assembles the reminder email HTML
func buildReminderBody(user *domain.User, appt *domain.Appointment) string {
	name := user.FullName
	if name == "" {
		name = "there"
	}

	return fmt.Sprintf(
		"<html><body>"+
			"<p>Hello %s,</p>"+
			"<p>This is a friendly reminder that you have an appointment scheduled for <b>%s</b> at <b>%s</b>.</p>"+
			"<p>If you cannot make it, please contact the clinic to reschedule.</p>"+
			"<p>See you soon!</p>"+
			"</body></html>",
		name, appt.AppointmentDate.Format("Monday, January 2, 2006"), appt.AppointmentTime)
}
