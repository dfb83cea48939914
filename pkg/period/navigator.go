package period

import "time"

// Navigator is a cursor over periods of one type, bounded by the period holding the oldest
// known transaction and the period holding now. The cursor never leaves those bounds.
type Navigator struct {
	calculator          *Calculator
	periodType          Type
	current             time.Time
	currentPeriodStart  time.Time
	earliestPeriodStart time.Time
}

// NewNavigator places the cursor on currentPeriodStart. An earliest bound later than the
// current one collapses to the current period.
func NewNavigator(calculator *Calculator, periodType Type, currentPeriodStart, earliestPeriodStart time.Time) *Navigator {
	if earliestPeriodStart.After(currentPeriodStart) {
		earliestPeriodStart = currentPeriodStart
	}
	return &Navigator{
		calculator:          calculator,
		periodType:          periodType,
		current:             currentPeriodStart,
		currentPeriodStart:  currentPeriodStart,
		earliestPeriodStart: earliestPeriodStart,
	}
}

// NavigatorFor derives both bounds. oldest is the date of the oldest transaction, nil when there is none.
func NavigatorFor(calculator *Calculator, periodType Type, now time.Time, oldest *time.Time) *Navigator {
	currentStart := calculator.Start(now, periodType)
	earliestStart := currentStart
	if oldest != nil {
		earliestStart = calculator.Start(oldest.In(now.Location()), periodType)
	}
	return NewNavigator(calculator, periodType, currentStart, earliestStart)
}

func (n *Navigator) Type() Type {
	return n.periodType
}

func (n *Navigator) Current() time.Time {
	return n.current
}

func (n *Navigator) CurrentPeriodStart() time.Time {
	return n.currentPeriodStart
}

func (n *Navigator) EarliestPeriodStart() time.Time {
	return n.earliestPeriodStart
}

func (n *Navigator) Window() Window {
	return n.calculator.Window(n.current, n.periodType)
}

func (n *Navigator) CanStepForward() bool {
	return !n.current.Equal(n.currentPeriodStart)
}

func (n *Navigator) CanStepBackward() bool {
	return !n.current.Equal(n.earliestPeriodStart)
}

// StepForward moves one period towards now. It returns false and leaves the cursor untouched
// when already on the current period.
func (n *Navigator) StepForward() bool {
	if !n.CanStepForward() {
		return false
	}
	n.current = n.clamp(n.calculator.Start(AddPeriods(n.current, n.periodType, 1), n.periodType))
	return true
}

// StepBackward moves one period towards the earliest period.
func (n *Navigator) StepBackward() bool {
	if !n.CanStepBackward() {
		return false
	}
	n.current = n.clamp(n.calculator.Start(AddPeriods(n.current, n.periodType, -1), n.periodType))
	return true
}

// MoveTo places the cursor on the period holding anchor, clamped to the bounds.
func (n *Navigator) MoveTo(anchor time.Time) {
	n.current = n.clamp(n.calculator.Start(anchor.In(n.currentPeriodStart.Location()), n.periodType))
}

// Next returns the start of the following period, or false when the cursor is on the current period.
func (n *Navigator) Next() (time.Time, bool) {
	if !n.CanStepForward() {
		return time.Time{}, false
	}
	return n.clamp(n.calculator.Start(AddPeriods(n.current, n.periodType, 1), n.periodType)), true
}

// Previous returns the start of the preceding period, or false when the cursor is on the earliest period.
func (n *Navigator) Previous() (time.Time, bool) {
	if !n.CanStepBackward() {
		return time.Time{}, false
	}
	return n.clamp(n.calculator.Start(AddPeriods(n.current, n.periodType, -1), n.periodType)), true
}

func (n *Navigator) clamp(start time.Time) time.Time {
	if start.After(n.currentPeriodStart) {
		return n.currentPeriodStart
	}
	if start.Before(n.earliestPeriodStart) {
		return n.earliestPeriodStart
	}
	return start
}
