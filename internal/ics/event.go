package ics

import (
	"strconv"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/google/uuid"

	"csv2ics/internal/model"
)

const (
	// ZoneID is the TZID every instant in the document is qualified with.
	ZoneID = "America/Sao_Paulo"
	// zoneName is the customary abbreviation written into the STANDARD block.
	zoneName = "-03"

	zoneOffset = -3 * 60 * 60

	// instantLayout is YYYYMMDDTHHMMSS, no separators.
	instantLayout = "20060102T150405"

	startHour     = 9
	eventDuration = 30 * time.Minute
	alarmBefore   = 15 * time.Minute

	alarmDescription = "Lembrete gerado via script CSV"
)

// Zone is the fixed UTC-03:00 zone, no daylight saving.
var Zone = time.FixedZone(zoneName, zoneOffset)

// FormatInstant renders t in Zone using the document's instant layout.
func FormatInstant(t time.Time) string {
	return t.In(Zone).Format(instantLayout)
}

// Builder turns a subject and a date into a model.Event. The zero value is
// usable and draws UIDs from uuid and the clock from time.Now.
type Builder struct {
	NewUID func() string
	Now    func() time.Time
}

var defaultBuilder Builder

// BuildEvent builds an event with the default Builder.
func BuildEvent(subject string, date time.Time) model.Event {
	return defaultBuilder.Build(subject, date)
}

// Build produces one event on date's calendar day, 09:00 to 09:30 in Zone,
// with a single display alarm 15 minutes before start. Any time component of
// date is ignored. Every call gets a fresh UID.
func (b Builder) Build(subject string, date time.Time) model.Event {
	newUID := b.NewUID
	if newUID == nil {
		newUID = uuid.NewString
	}
	now := b.Now
	if now == nil {
		now = time.Now
	}

	y, m, d := date.Date()
	start := time.Date(y, m, d, startHour, 0, 0, 0, Zone)

	return model.Event{
		UID:     newUID(),
		Created: now(),
		Start:   start,
		End:     start.Add(eventDuration),
		Summary: subject,
		Status:  string(ical.ObjectStatusConfirmed),
		Class:   string(ical.ClassificationPublic),
		Alarm: model.Alarm{
			Action:      string(ical.ActionDisplay),
			Description: alarmDescription,
			Before:      alarmBefore,
		},
	}
}

// toVEvent renders ev as a VEVENT with its VALARM.
func toVEvent(ev model.Event) *ical.VEvent {
	tzid := &ical.KeyValues{Key: string(ical.ParameterTzid), Value: []string{ZoneID}}

	ve := ical.NewEvent(ev.UID)
	ve.SetDtStampTime(ev.Created)
	ve.SetProperty(ical.ComponentPropertyDtStart, FormatInstant(ev.Start), tzid)
	ve.SetProperty(ical.ComponentPropertyDtEnd, FormatInstant(ev.End), tzid)
	ve.SetSummary(ev.Summary)
	ve.SetStatus(ical.ObjectStatus(ev.Status))
	ve.SetClass(ical.Classification(ev.Class))

	alarm := ve.AddAlarm()
	alarm.SetAction(ical.Action(ev.Alarm.Action))
	alarm.SetTrigger(formatTrigger(ev.Alarm.Before),
		&ical.KeyValues{Key: string(ical.ParameterRelated), Value: []string{"START"}})
	alarm.SetDescription(ev.Alarm.Description)

	return ve
}

// formatTrigger writes a negative whole-minute duration, e.g. -PT15M.
func formatTrigger(before time.Duration) string {
	return "-PT" + strconv.Itoa(int(before/time.Minute)) + "M"
}
