// Package form holds the draft process description and decides when it may
// be submitted.
package form

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"process-report/internal/model"
)

var (
	// ErrValidationBlocked means a required field is blank. Callers treat it
	// as a silent no-op.
	ErrValidationBlocked = errors.New("process name and description are required")
	ErrFormDisabled      = errors.New("form is disabled while a report is generating")
)

// Field names accepted by Set.
const (
	FieldProcessName        = "processName"
	FieldProcessDescription = "processDescription"
	FieldKPIs               = "kpis"
	FieldChallenges         = "challenges"
	FieldEquipment          = "equipment"
	FieldDataCollection     = "dataCollection"
)

// Valid reports whether in has a non-blank process name and description.
func Valid(in model.ProcessInput) bool {
	return strings.TrimSpace(in.ProcessName) != "" && strings.TrimSpace(in.ProcessDescription) != ""
}

type Controller struct {
	mu    sync.Mutex
	draft model.ProcessInput
	busy  func() bool
}

// NewController returns a controller that is disabled whenever busy reports true.
func NewController(busy func() bool) *Controller {
	if busy == nil {
		busy = func() bool { return false }
	}
	return &Controller{busy: busy}
}

func (c *Controller) Draft() model.ProcessInput {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draft
}

func (c *Controller) Update(draft model.ProcessInput) {
	c.mu.Lock()
	c.draft = draft
	c.mu.Unlock()
}

func (c *Controller) Set(field, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch field {
	case FieldProcessName:
		c.draft.ProcessName = value
	case FieldProcessDescription:
		c.draft.ProcessDescription = value
	case FieldKPIs:
		c.draft.KPIs = value
	case FieldChallenges:
		c.draft.Challenges = value
	case FieldEquipment:
		c.draft.Equipment = value
	case FieldDataCollection:
		c.draft.DataCollection = value
	default:
		return fmt.Errorf("unknown form field %q", field)
	}
	return nil
}

func (c *Controller) Valid() bool { return Valid(c.Draft()) }

func (c *Controller) Disabled() bool { return c.busy() }

// Submit hands a snapshot of the draft to fn. Nothing is called when the draft
// is invalid or the form is disabled. The draft is kept after submission.
func (c *Controller) Submit(ctx context.Context, fn func(context.Context, model.ProcessInput) error) error {
	snapshot := c.Draft()
	if !Valid(snapshot) {
		return ErrValidationBlocked
	}
	if c.Disabled() {
		return ErrFormDisabled
	}
	return fn(ctx, snapshot)
}
