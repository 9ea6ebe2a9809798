package lifecycle

import (
	"errors"
	"strings"
	"time"

	"github.com/fairhub-io/fairhub-api/internal/models"
)

var (
	// ErrInvalidStatus indicates a status outside the appointment enum.
	ErrInvalidStatus = errors.New("invalid appointment status")
	// ErrCancelReasonRequired indicates a cancellation without a reason.
	ErrCancelReasonRequired = errors.New("cancellation reason is required")
	// ErrTerminalState indicates an attempt to transition out of CANCELLED or
	// COMPLETED.
	ErrTerminalState = errors.New("appointment is in a terminal state")
)

// AppointmentTransition carries the requested target state and its
// accompanying fields.
type AppointmentTransition struct {
	Status        string
	ConfirmedDate string
	ConfirmedTime string
	Notes         string
	Outcome       string
	CancelReason  string
	// AdminInitiated switches the default completion outcome to a note that
	// the record was closed on behalf of a participant.
	AdminInitiated bool
}

// AppointmentChange describes an applied appointment transition.
type AppointmentChange struct {
	PreviousStatus string
	NewStatus      string
	Updates        map[string]interface{}
}

var appointmentStatuses = map[string]struct{}{
	models.AppointmentStatusPending:   {},
	models.AppointmentStatusConfirmed: {},
	models.AppointmentStatusCancelled: {},
	models.AppointmentStatusCompleted: {},
}

func isTerminal(status string) bool {
	return status == models.AppointmentStatusCancelled || status == models.AppointmentStatusCompleted
}

// Transition validates the requested appointment status change and applies it
// to the in-memory record. CANCELLED and COMPLETED are terminal: once reached
// no further transition is accepted.
func Transition(appt *models.Appointment, req AppointmentTransition, actorID uint, now time.Time) (AppointmentChange, error) {
	target := strings.ToUpper(strings.TrimSpace(req.Status))
	if _, ok := appointmentStatuses[target]; !ok {
		return AppointmentChange{}, ErrInvalidStatus
	}

	if isTerminal(appt.Status) {
		return AppointmentChange{}, ErrTerminalState
	}

	change := AppointmentChange{
		PreviousStatus: appt.Status,
		NewStatus:      target,
		Updates:        map[string]interface{}{"status": target},
	}

	switch target {
	case models.AppointmentStatusConfirmed:
		if date := strings.TrimSpace(req.ConfirmedDate); date != "" {
			appt.ConfirmedDate = &date
			change.Updates["confirmed_date"] = date
		}
		if clock := strings.TrimSpace(req.ConfirmedTime); clock != "" {
			appt.ConfirmedTime = &clock
			change.Updates["confirmed_time"] = clock
		}

	case models.AppointmentStatusCancelled:
		reason := strings.TrimSpace(req.CancelReason)
		if reason == "" {
			return AppointmentChange{}, ErrCancelReasonRequired
		}
		cancelledAt := now.UTC()
		appt.CancelReason = &reason
		appt.CancelledByID = &actorID
		appt.CancelledAt = &cancelledAt
		change.Updates["cancel_reason"] = reason
		change.Updates["cancelled_by_id"] = actorID
		change.Updates["cancelled_at"] = cancelledAt

	case models.AppointmentStatusCompleted:
		outcome := strings.TrimSpace(req.Outcome)
		if outcome == "" {
			if req.AdminInitiated {
				outcome = "Marked completed by platform administration"
			} else {
				outcome = "Meeting completed"
			}
		}
		appt.Outcome = &outcome
		change.Updates["outcome"] = outcome
	}

	if notes := strings.TrimSpace(req.Notes); notes != "" {
		appt.Notes = &notes
		change.Updates["notes"] = notes
	}

	appt.Status = target
	return change, nil
}
