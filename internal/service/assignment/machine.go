// Package assignment holds the creation flow of an order: the
// selection-pairing state machine and the submitter that validates the
// draft and posts it to the backend.
package assignment

import (
	"fmt"
	"sync"

	"dispatch-admin/internal/apperr"
)

// State is the pairing machine state.
type State string

// Pairing machine states.
const (
	StateEmpty        State = "empty"
	StateCourierOnly  State = "courier_only"
	StateMerchantOnly State = "merchant_only"
	StateBothSelected State = "both_selected"
	StateSubmitting   State = "submitting"
)

// Status is the submission status surfaced next to the form.
type Status string

// Submission statuses.
const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// Snapshot is a read-only view of the machine for rendering.
type Snapshot struct {
	State          State  `json:"state"`
	CourierID      string `json:"courier_id,omitempty"`
	MerchantID     string `json:"merchant_id,omitempty"`
	CourierLocked  bool   `json:"courier_locked"`
	MerchantLocked bool   `json:"merchant_locked"`
	ModalOpen      bool   `json:"modal_open"`
	ValueDraft     string `json:"value_draft"`
	FeeDraft       string `json:"fee_draft"`
	AddressDraft   string `json:"address_draft"`
	Status         Status `json:"status"`
	Error          string `json:"error,omitempty"`
}

// Machine tracks at most one selected courier and one selected merchant.
// Once an axis holds a selection it is locked: switching directly to a
// different id is rejected until the axis is cleared. When both axes are
// selected the confirmation surface opens automatically.
type Machine struct {
	mu           sync.Mutex
	courierID    string
	merchantID   string
	valueDraft   string
	feeDraft     string
	addressDraft string
	modalOpen    bool
	status       Status
	errMsg       string
}

// NewMachine returns an empty pairing machine.
func NewMachine() *Machine {
	return &Machine{status: StatusIdle}
}

// SelectCourier sets the courier axis. An empty id clears only that axis.
func (m *Machine) SelectCourier(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.selectAxis(&m.courierID, id)
}

// SelectMerchant sets the merchant axis. An empty id clears only that axis.
func (m *Machine) SelectMerchant(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.selectAxis(&m.merchantID, id)
}

func (m *Machine) selectAxis(axis *string, id string) error {
	if m.status == StatusLoading {
		return fmt.Errorf("%w: submission in progress", apperr.ErrConflict)
	}
	if id == "" {
		*axis = ""
		m.modalOpen = false
		return nil
	}
	if *axis != "" && *axis != id {
		return fmt.Errorf("%w: selection is locked, clear it first", apperr.ErrConflict)
	}
	*axis = id
	if m.courierID != "" && m.merchantID != "" {
		m.modalOpen = true
	}
	return nil
}

// SetDrafts stores the raw form fields; they stay unparsed until submit.
func (m *Machine) SetDrafts(value, fee, address string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.valueDraft = value
	m.feeDraft = fee
	m.addressDraft = address
}

// CloseModal hides the confirmation surface without clearing selections.
func (m *Machine) CloseModal() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.modalOpen = false
}

// Reset clears both axes, the drafts and any open surface. Callable from
// any state.
func (m *Machine) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reset()
}

func (m *Machine) reset() {
	m.courierID = ""
	m.merchantID = ""
	m.valueDraft = ""
	m.feeDraft = ""
	m.addressDraft = ""
	m.modalOpen = false
	m.status = StatusIdle
	m.errMsg = ""
}

// Snapshot returns the current machine view.
func (m *Machine) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshot()
}

func (m *Machine) snapshot() Snapshot {
	return Snapshot{
		State:          m.state(),
		CourierID:      m.courierID,
		MerchantID:     m.merchantID,
		CourierLocked:  m.courierID != "",
		MerchantLocked: m.merchantID != "",
		ModalOpen:      m.modalOpen,
		ValueDraft:     m.valueDraft,
		FeeDraft:       m.feeDraft,
		AddressDraft:   m.addressDraft,
		Status:         m.status,
		Error:          m.errMsg,
	}
}

func (m *Machine) state() State {
	switch {
	case m.status == StatusLoading:
		return StateSubmitting
	case m.courierID != "" && m.merchantID != "":
		return StateBothSelected
	case m.courierID != "":
		return StateCourierOnly
	case m.merchantID != "":
		return StateMerchantOnly
	default:
		return StateEmpty
	}
}

// beginSubmit transitions to Submitting, returning the drafts to validate.
// It fails when the pair is incomplete.
func (m *Machine) beginSubmit() (Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.status == StatusLoading {
		return Snapshot{}, fmt.Errorf("%w: submission in progress", apperr.ErrConflict)
	}
	if m.courierID == "" || m.merchantID == "" {
		m.status = StatusError
		m.errMsg = "select exactly one courier and one merchant"
		return Snapshot{}, fmt.Errorf("%w: %s", apperr.ErrInvalid, m.errMsg)
	}
	m.status = StatusLoading
	m.errMsg = ""
	return m.snapshot(), nil
}

// fail records an error, keeping the selections so the operator can retry
// without re-selecting.
func (m *Machine) fail(msg string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.status = StatusError
	m.errMsg = msg
}

// succeed resets the machine back to Empty after a completed submission.
func (m *Machine) succeed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reset()
	m.status = StatusSuccess
}
