package domain

import (
	"fmt"
	"slices"
)

// Action staff workflow action on an appointment
type Action string

const (
	ActionConfirm    Action = "confirm"
	ActionStart      Action = "start"
	ActionComplete   Action = "complete"
	ActionCancel     Action = "cancel"
	ActionMarkNoShow Action = "mark_no_show"
)

// transitions allowed status changes; statuses absent from the map are terminal
var transitions = map[AppointmentStatus][]AppointmentStatus{
	StatusPending:    {StatusConfirmed, StatusCancelled, StatusNoShow},
	StatusConfirmed:  {StatusInProgress, StatusCancelled, StatusNoShow},
	StatusInProgress: {StatusCompleted},
}

var actionTargets = map[Action]AppointmentStatus{
	ActionConfirm:    StatusConfirmed,
	ActionStart:      StatusInProgress,
	ActionComplete:   StatusCompleted,
	ActionCancel:     StatusCancelled,
	ActionMarkNoShow: StatusNoShow,
}

// IsTerminal returns true for completed, cancelled and no_show
func (s AppointmentStatus) IsTerminal() bool {
	_, ok := transitions[s]
	return !ok
}

// CanTransitionTo reports whether s → to is an allowed edge
func (s AppointmentStatus) CanTransitionTo(to AppointmentStatus) bool {
	return slices.Contains(transitions[s], to)
}

// ValidateTransition returns InvalidTransitionError when s → to is not allowed
func (s AppointmentStatus) ValidateTransition(to AppointmentStatus) error {
	if !s.CanTransitionTo(to) {
		return &InvalidTransitionError{From: s, To: to}
	}
	return nil
}

// AllowedTransitions lists the statuses reachable from s in one step
func (s AppointmentStatus) AllowedTransitions() []AppointmentStatus {
	return slices.Clone(transitions[s])
}

// ParseAction validates an action name
func ParseAction(s string) (Action, error) {
	action := Action(s)
	if _, ok := actionTargets[action]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownAction, s)
	}
	return action, nil
}

// Target returns the status the action leads to
func (a Action) Target() AppointmentStatus {
	return actionTargets[a]
}
