package appointment

import "github.com/BruksfildServices01/staff-scheduler/internal/httperr"

// ===============================
// Appointment Status
// ===============================

type Status string

const (
	StatusScheduled   Status = "scheduled"
	StatusConfirmed   Status = "confirmed"
	StatusInProgress  Status = "in_progress"
	StatusCompleted   Status = "completed"
	StatusCancelled   Status = "cancelled"
	StatusNoShow      Status = "no_show"
	StatusRescheduled Status = "rescheduled"
)

// BlockingStatuses occupy calendar time.
var BlockingStatuses = []Status{StatusScheduled, StatusConfirmed, StatusInProgress}

// BlockingStatusValues is BlockingStatuses as plain strings, for queries.
func BlockingStatusValues() []string {
	out := make([]string, len(BlockingStatuses))
	for i, s := range BlockingStatuses {
		out[i] = string(s)
	}
	return out
}

func (s Status) Blocking() bool {
	for _, b := range BlockingStatuses {
		if s == b {
			return true
		}
	}
	return false
}

func (s Status) Valid() bool {
	_, ok := transitions[s]
	return ok
}

var transitions = map[Status][]Status{
	StatusScheduled: {
		StatusConfirmed, StatusInProgress, StatusCompleted,
		StatusCancelled, StatusNoShow, StatusRescheduled,
	},
	StatusConfirmed: {
		StatusInProgress, StatusCompleted,
		StatusCancelled, StatusNoShow, StatusRescheduled,
	},
	StatusInProgress:  {StatusCompleted},
	StatusCompleted:   {},
	StatusCancelled:   {},
	StatusNoShow:      {},
	StatusRescheduled: {},
}

// ===============================
// Validations
// ===============================

// CanTransition reports whether an appointment may move from current to next.
func CanTransition(current, next Status) error {
	for _, s := range transitions[current] {
		if s == next {
			return nil
		}
	}
	return httperr.Validation("invalid_state")
}

func InitialStatus() Status {
	return StatusScheduled
}
