package lifecycle

import (
	"errors"
	"strings"
	"time"

	"github.com/fairhub-io/fairhub-api/internal/models"
)

// Moderation actions accepted by the event machine.
const (
	ModerationApprove = "approve"
	ModerationReject  = "reject"
)

var (
	// ErrUnknownAction indicates a moderation action outside approve/reject.
	ErrUnknownAction = errors.New("unknown moderation action")
	// ErrReasonRequired indicates a rejection without a reason.
	ErrReasonRequired = errors.New("rejection reason is required")
)

// ModerationChange describes an applied event moderation transition. Updates
// holds the column set the repository writes in a single atomic update.
type ModerationChange struct {
	Action         string
	PreviousStatus string
	NewStatus      string
	Updates        map[string]interface{}
}

// Moderate validates the requested moderation action against the event and
// applies it to the in-memory record. Approval publishes the event and clears
// any prior rejection; rejection unpublishes it and stamps reason, time and
// rejecting actor. Both are legal from any current status.
func Moderate(event *models.Event, action, reason string, actorID uint, now time.Time) (ModerationChange, error) {
	change := ModerationChange{
		Action:         strings.ToLower(strings.TrimSpace(action)),
		PreviousStatus: event.Status,
	}

	switch change.Action {
	case ModerationApprove:
		event.Status = models.EventStatusPublished
		event.IsPublic = true
		event.RejectionReason = nil
		event.RejectedAt = nil
		event.RejectedByID = nil

		change.NewStatus = models.EventStatusPublished
		change.Updates = map[string]interface{}{
			"status":           models.EventStatusPublished,
			"is_public":        true,
			"rejection_reason": nil,
			"rejected_at":      nil,
			"rejected_by_id":   nil,
		}
		return change, nil

	case ModerationReject:
		trimmed := strings.TrimSpace(reason)
		if trimmed == "" {
			return ModerationChange{}, ErrReasonRequired
		}

		rejectedAt := now.UTC()
		event.Status = models.EventStatusRejected
		event.IsPublic = false
		event.RejectionReason = &trimmed
		event.RejectedAt = &rejectedAt
		event.RejectedByID = &actorID

		change.NewStatus = models.EventStatusRejected
		change.Updates = map[string]interface{}{
			"status":           models.EventStatusRejected,
			"is_public":        false,
			"rejection_reason": trimmed,
			"rejected_at":      rejectedAt,
			"rejected_by_id":   actorID,
		}
		return change, nil

	default:
		return ModerationChange{}, ErrUnknownAction
	}
}
