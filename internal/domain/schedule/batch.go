package schedule

import (
	"errors"
	"time"

	"github.com/marchukov/upkeep-api/internal/domain"
	"github.com/marchukov/upkeep-api/internal/domain/tasknum"
)

// dueDateLayout is the date format appended to item descriptions when a
// plan spans multiple occurrences.
const dueDateLayout = "02/01/2006"

// defaultDescription labels items when neither a work description nor a
// part name was supplied.
const defaultDescription = "Maintenance work"

// Batch-specific validation errors
var (
	// ErrNilMachine is returned when an assignment has no machine.
	ErrNilMachine = errors.New("assignment machine cannot be nil")

	// ErrStartSeqNotPositive is returned when a batch is materialized with
	// a non-positive starting sequence number.
	ErrStartSeqNotPositive = errors.New("starting sequence number must be positive")
)

// Assignment is the input to a plan materialization: the machine being
// worked on, the recurrence, and the descriptive fields collected from
// the requester.
type Assignment struct {
	Machine              *domain.Machine
	Title                string
	Priority             domain.Priority
	Frequency            domain.Frequency
	StartDate            time.Time
	WorkDescription      string
	PartName             string
	Assignee             string
	Requester            string
	TemperatureSensitive bool
	ReminderEnabled      bool
	AttachmentRequired   bool
}

// Materialize builds the full plan record and its checklist item batch
// from an assignment and a starting sequence number. It is a pure
// function: it performs no I/O, so the caller is responsible for
// obtaining startSeq from the store (one past the highest persisted
// suffix for the machine's prefix) and for persisting the result
// atomically.
//
// Each of the N occurrence dates yields one pending item numbered
// consecutively from startSeq, with the machine's department copied onto
// the item at this moment and never re-derived. When the plan has more
// than one occurrence, each item's description is suffixed with its own
// due date to disambiguate siblings.
func Materialize(a Assignment, startSeq int) (*domain.MaintenancePlan, []*domain.ChecklistItem, error) {
	if a.Machine == nil {
		return nil, nil, ErrNilMachine
	}
	if startSeq < 1 {
		return nil, nil, ErrStartSeqNotPositive
	}

	start := DateOf(a.StartDate)
	dates := Occurrences(start, a.Frequency)
	end := EndDate(start, a.Frequency)

	plan, err := domain.NewMaintenancePlan(
		a.Machine.ID,
		a.Title,
		a.Priority,
		a.Frequency,
		start,
		end,
	)
	if err != nil {
		return nil, nil, err
	}
	plan.Assignee = a.Assignee
	plan.Requester = a.Requester
	plan.TemperatureSensitive = a.TemperatureSensitive
	plan.ReminderEnabled = a.ReminderEnabled
	plan.AttachmentRequired = a.AttachmentRequired

	prefix := tasknum.Prefix(a.Machine.Name)

	items := make([]*domain.ChecklistItem, 0, len(dates))
	for i, due := range dates {
		item, err := domain.NewChecklistItem(
			plan.ID,
			tasknum.Format(prefix, startSeq+i),
			due,
			itemDescription(a, due, len(dates) > 1),
			a.Machine.Department,
		)
		if err != nil {
			return nil, nil, err
		}
		items = append(items, item)
	}

	return plan, items, nil
}

// itemDescription picks the work description, falling back to the part
// name and then a generic label, and appends the occurrence date when the
// plan spans multiple occurrences.
func itemDescription(a Assignment, due time.Time, multiple bool) string {
	base := a.WorkDescription
	if base == "" {
		base = a.PartName
	}
	if base == "" {
		base = defaultDescription
	}

	if multiple {
		return base + " - " + due.Format(dueDateLayout)
	}
	return base
}
