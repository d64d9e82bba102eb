package model

import "time"

// Event is one importable appointment produced from an input row.
// Values are built once and never mutated afterwards.
type Event struct {
	UID string

	// Created is the wall-clock time of conversion, not of the appointment.
	Created time.Time

	// Start / End are in the calendar's fixed zone. End is always after Start.
	Start time.Time
	End   time.Time

	Summary string
	Status  string // e.g. "CONFIRMED"
	Class   string // e.g. "PUBLIC"

	Alarm Alarm
}

// Alarm is the reminder attached to an Event.
type Alarm struct {
	Action      string // e.g. "DISPLAY"
	Description string

	// Before is how long before the event start the alarm fires.
	Before time.Duration
}
