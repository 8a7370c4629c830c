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

// DefaultGrace is the buffer after an appointment's scheduled date before it
// counts as a no-show.
const DefaultGrace = 24 * time.Hour

// NoShowService transitions confirmed appointments whose grace window has
// elapsed to absented, and notifies the patient, the dentist and all
// receptionists.
//
// Idempotence comes from the candidate scan: once an appointment is
// absented it no longer matches the confirmed filter, so a later tick never
// sees it again. A tick whose persist attempt failed leaves the appointment
// confirmed, and the next scan surfaces it for retry.
type NoShowService struct {
	appointments AppointmentStore
	patients     PatientDirectory
	dentists     DentistDirectory
	users        UserDirectory
	dispatcher   NotificationSender
	grace        time.Duration
	log          *logger.Logger
	now          func() time.Time
}

// NewNoShowService creates a new no-show service. A non-positive grace falls
// back to DefaultGrace.
func NewNoShowService(
	appointments AppointmentStore,
	patients PatientDirectory,
	dentists DentistDirectory,
	users UserDirectory,
	dispatcher NotificationSender,
	grace time.Duration,
	log *logger.Logger,
) *NoShowService {
	if grace <= 0 {
		grace = DefaultGrace
	}

	return &NoShowService{
		appointments: appointments,
		patients:     patients,
		dentists:     dentists,
		users:        users,
		dispatcher:   dispatcher,
		grace:        grace,
		log:          log,
		now:          time.Now,
	}
}

// Tick scans confirmed appointments and applies the no-show transition to
// every candidate past its grace window. A failure on one appointment is
// logged and does not stop the remaining candidates.
func (s *NoShowService) Tick(ctx context.Context) error {
	now := s.now()

	candidates, err := s.appointments.FindByStatus(ctx, domain.AppointmentStatusConfirmed)
	if err != nil {
		return fmt.Errorf("scan confirmed appointments: %w", err)
	}

	for _, appt := range candidates {
		if err := ctx.Err(); err != nil {
			return err
		}

		if !noShowDue(appt, now, s.grace) {
			continue
		}

		if err := s.appointments.UpdateStatus(ctx, appt.ID, domain.AppointmentStatusAbsented, systemActor); err != nil {
			// Still confirmed, so the next scan retries it.
			metrics.TransitionFailures.WithLabelValues("appointment").Inc()
			s.log.Error("Failed to mark appointment absented", "error", err, "appointment_id", appt.ID.Hex())
			continue
		}

		metrics.Transitions.WithLabelValues("appointment", "absented").Inc()
		s.log.Info("Appointment marked absented", "appointment_id", appt.ID.Hex(), "appointment_date", appt.AppointmentDate.Format("2006-01-02"))

		// Notification only after the transition is committed.
		s.notifyNoShow(ctx, appt)
	}

	return nil
}

// noShowDue reports whether the appointment's grace window has fully
// elapsed. Strictly after: at exactly date+grace the appointment is kept.
func noShowDue(appt *domain.Appointment, now time.Time, grace time.Duration) bool {
	return now.After(appt.AppointmentDate.Add(grace))
}

// notifyNoShow fans out the no-show notifications. Each branch resolves its
// own recipient, so a missing patient or dentist only silences that branch.
func (s *NoShowService) notifyNoShow(ctx context.Context, appt *domain.Appointment) {
	dispatches := []service.Dispatch{
		func(ctx context.Context) error { return s.notifyPatient(ctx, appt) },
		func(ctx context.Context) error { return s.notifyDentist(ctx, appt) },
	}

	receptionists, err := s.users.FindByRole(ctx, domain.RoleReceptionist)
	if err != nil {
		s.log.Warn("Failed to resolve receptionists for no-show notification", "error", err, "appointment_id", appt.ID.Hex())
	}
	for _, receptionist := range receptionists {
		recipientID := receptionist.ID
		dispatches = append(dispatches, func(ctx context.Context) error {
			return s.dispatcher.Send(ctx, &domain.Notification{
				RecipientID: recipientID,
				Title:       "Appointment marked as no-show",
				Body:        fmt.Sprintf("Appointment %s scheduled for %s at %s was not honored and has been marked absented.", appt.ID.Hex(), appt.AppointmentDate.Format("2006-01-02"), appt.AppointmentTime),
				Category:    domain.CategoryAppointment,
				RelatedID:   appt.ID,
			})
		})
	}

	service.FanOut(ctx, s.log, dispatches...)
}

// notifyPatient notifies the appointment's patient, if one resolves
func (s *NoShowService) notifyPatient(ctx context.Context, appt *domain.Appointment) error {
	if appt.PatientID.IsZero() {
		return nil
	}

	patient, err := s.patients.FindByID(ctx, appt.PatientID)
	if err != nil {
		return fmt.Errorf("resolve patient %s: %w", appt.PatientID.Hex(), err)
	}
	if patient == nil || patient.UserID.IsZero() {
		return nil
	}

	return s.dispatcher.Send(ctx, &domain.Notification{
		RecipientID: patient.UserID,
		Title:       "Missed appointment",
		Body:        fmt.Sprintf("Your appointment on %s at %s was marked as missed. Please contact the clinic to reschedule.", appt.AppointmentDate.Format("2006-01-02"), appt.AppointmentTime),
		Category:    domain.CategoryAppointment,
		RelatedID:   appt.ID,
	})
}

// notifyDentist notifies the appointment's dentist, if one resolves
func (s *NoShowService) notifyDentist(ctx context.Context, appt *domain.Appointment) error {
	if appt.DentistID.IsZero() {
		return nil
	}

	dentist, err := s.dentists.FindByID(ctx, appt.DentistID)
	if err != nil {
		return fmt.Errorf("resolve dentist %s: %w", appt.DentistID.Hex(), err)
	}
	if dentist == nil || dentist.UserID.IsZero() {
		return nil
	}

	return s.dispatcher.Send(ctx, &domain.Notification{
		RecipientID: dentist.UserID,
		Title:       "Patient no-show",
		Body:        fmt.Sprintf("The patient did not show up for the appointment on %s at %s.", appt.AppointmentDate.Format("2006-01-02"), appt.AppointmentTime),
		Category:    domain.CategoryAppointment,
		RelatedID:   appt.ID,
	})
}
