// Package wizard implements the multi-step public booking flow: pick a
// service, pick a date and slot, enter contact details, confirm. The wizard
// is a pure state machine; fetching and persistence live with the caller.
package wizard

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/careops/frontdesk/internal/backend"
)

// Step is the wizard's current position.
type Step string

const (
	StepSelectingService Step = "selecting_service"
	StepSelectingSlot    Step = "selecting_slot"
	StepEnteringContact  Step = "entering_contact"
	StepConfirmed        Step = "confirmed"
)

var (
	ErrNoService      = errors.New("wizard: no service selected")
	ErrUnknownService = errors.New("wizard: service not offered by this workspace")
	ErrNoSlot         = errors.New("wizard: no date and slot selected")
	ErrSlotNotOffered = errors.New("wizard: slot not in the current availability list")
	ErrNotReady       = errors.New("wizard: contact details incomplete")
	ErrFinished       = errors.New("wizard: booking already confirmed")
)

// Contact is the visitor's details entered on the final step.
type Contact struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// Wizard is one visitor's booking draft. It is serialized into the draft
// store between requests and discarded on success or expiry.
type Wizard struct {
	Workspace string            `json:"workspace"`
	Services  []backend.Service `json:"services"`
	Step      Step              `json:"step"`

	ServiceID int    `json:"service_id,omitempty"`
	Date      string `json:"date,omitempty"`
	Slot      string `json:"slot,omitempty"`

	// Slots is the availability set fetched for the current
	// (service, date) pair. SlotsFresh distinguishes "not fetched yet"
	// from "fetched and empty"; SlotsErr marks a failed fetch, which must
	// render distinctly rather than show stale data.
	Slots      []string `json:"slots,omitempty"`
	SlotsFresh bool     `json:"slots_fresh,omitempty"`
	SlotsErr   bool     `json:"slots_err,omitempty"`

	Contact Contact `json:"contact"`

	// SubmitError is the last rejected submit's message, shown inline.
	SubmitError string `json:"submit_error,omitempty"`
	BookingID   int    `json:"booking_id,omitempty"`
}

// New starts a wizard for a workspace with its fetched service list.
func New(workspace string, services []backend.Service) *Wizard {
	return &Wizard{
		Workspace: workspace,
		Services:  services,
		Step:      StepSelectingService,
	}
}

// Service returns the currently selected service, if any.
func (w *Wizard) Service() *backend.Service {
	if w.ServiceID == 0 {
		return nil
	}
	for i := range w.Services {
		if w.Services[i].ID == w.ServiceID {
			return &w.Services[i]
		}
	}
	return nil
}

// Preselect applies a deep-linked service id. An id not present in the
// fetched list leaves the wizard in SelectingService.
func (w *Wizard) Preselect(serviceID int) bool {
	if w.Step != StepSelectingService {
		return false
	}
	if err := w.SelectService(serviceID); err != nil {
		return false
	}
	return true
}

// SelectService chooses a service and advances to slot selection. Changing
// the service invalidates any fetched availability and chosen slot so a
// stale slot can never be submitted against the new service.
func (w *Wizard) SelectService(serviceID int) error {
	if w.Step == StepConfirmed {
		return ErrFinished
	}
	found := false
	for _, s := range w.Services {
		if s.ID == serviceID {
			found = true
			break
		}
	}
	if !found {
		return ErrUnknownService
	}
	if serviceID != w.ServiceID {
		w.invalidateSlots()
		w.Slot = ""
	}
	w.ServiceID = serviceID
	w.Step = StepSelectingSlot
	return nil
}

// SetDate chooses the calendar day. A date change clears the chosen slot and
// the availability set before any new fetch resolves.
func (w *Wizard) SetDate(date string) error {
	if w.Step == StepConfirmed {
		return ErrFinished
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return fmt.Errorf("wizard: invalid date %q: %w", date, err)
	}
	if date != w.Date {
		w.invalidateSlots()
		w.Slot = ""
	}
	w.Date = date
	return nil
}

// ApplySlots records a resolved availability fetch for the current
// (service, date) pair. An errored fetch empties the list and flags the
// distinct error affordance. A previously chosen slot that is no longer
// offered is dropped.
func (w *Wizard) ApplySlots(slots []string, fetchFailed bool) {
	if fetchFailed {
		w.Slots = nil
		w.SlotsFresh = true
		w.SlotsErr = true
		w.Slot = ""
		return
	}
	w.Slots = slots
	w.SlotsFresh = true
	w.SlotsErr = false
	if w.Slot != "" && !contains(slots, w.Slot) {
		w.Slot = ""
	}
}

// SelectSlot chooses a start time from the most recently fetched
// availability set.
func (w *Wizard) SelectSlot(slot string) error {
	if w.Step == StepConfirmed {
		return ErrFinished
	}
	if w.Date == "" || !w.SlotsFresh {
		return ErrNoSlot
	}
	if !contains(w.Slots, slot) {
		return ErrSlotNotOffered
	}
	w.Slot = slot
	return nil
}

// SetContact records the visitor's details. Allowed only once a service and
// slot are held, which is also when the contact step is reachable.
func (w *Wizard) SetContact(c Contact) error {
	if w.Step == StepConfirmed {
		return ErrFinished
	}
	if err := w.requireSelection(); err != nil {
		return err
	}
	w.Contact = Contact{
		Name:  strings.TrimSpace(c.Name),
		Email: strings.TrimSpace(c.Email),
		Phone: strings.TrimSpace(c.Phone),
	}
	w.Step = StepEnteringContact
	return nil
}

// Next advances one step, enforcing the forward guards.
func (w *Wizard) Next() error {
	switch w.Step {
	case StepSelectingService:
		if w.ServiceID == 0 {
			return ErrNoService
		}
		w.Step = StepSelectingSlot
	case StepSelectingSlot:
		if err := w.requireSelection(); err != nil {
			return err
		}
		w.Step = StepEnteringContact
	case StepEnteringContact:
		return ErrNotReady
	case StepConfirmed:
		return ErrFinished
	}
	return nil
}

// Back moves one step backward. Previous selections are retained so the
// visitor can adjust without re-entering everything.
func (w *Wizard) Back() {
	switch w.Step {
	case StepSelectingSlot:
		w.Step = StepSelectingService
	case StepEnteringContact:
		w.Step = StepSelectingSlot
	}
}

// CanSubmit reports whether a create request may be issued: service, date,
// slot, name, and a plausible email all present.
func (w *Wizard) CanSubmit() bool {
	if w.Step != StepEnteringContact {
		return false
	}
	if w.requireSelection() != nil {
		return false
	}
	if w.Contact.Name == "" {
		return false
	}
	return emailPlausible(w.Contact.Email)
}

// StartDateTime combines the chosen date and slot in the given location and
// serializes the absolute instant as RFC3339 with millisecond precision.
// This is the only way a booking start timestamp is ever constructed.
func (w *Wizard) StartDateTime(loc *time.Location) (string, error) {
	if err := w.requireSelection(); err != nil {
		return "", err
	}
	return CombineStart(w.Date, w.Slot, loc)
}

// CombineStart interprets a date and slot in the given location and
// serializes the absolute instant as RFC3339 with millisecond precision.
// Every booking start timestamp sent to the backend goes through here.
func CombineStart(date, slot string, loc *time.Location) (string, error) {
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation("2006-01-02 15:04", date+" "+slot, loc)
	if err != nil {
		return "", fmt.Errorf("wizard: combine %q %q: %w", date, slot, err)
	}
	return t.UTC().Format("2006-01-02T15:04:05.000Z"), nil
}

// Confirm records a successful submit.
func (w *Wizard) Confirm(bookingID int) {
	w.BookingID = bookingID
	w.SubmitError = ""
	w.Step = StepConfirmed
}

// Fail records a rejected submit: the wizard stays on the contact step with
// the server's message, and the availability set is invalidated so the next
// render re-fetches and shows current slots.
func (w *Wizard) Fail(message string) {
	w.SubmitError = message
	w.Step = StepEnteringContact
	w.invalidateSlots()
}

func (w *Wizard) requireSelection() error {
	if w.Service() == nil {
		return ErrNoService
	}
	if w.Date == "" || w.Slot == "" {
		return ErrNoSlot
	}
	return nil
}

func (w *Wizard) invalidateSlots() {
	w.Slots = nil
	w.SlotsFresh = false
	w.SlotsErr = false
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

func emailPlausible(email string) bool {
	if email == "" {
		return false
	}
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}
