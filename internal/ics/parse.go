package ics

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"

	appLog "csv2ics/internal/log"
	"csv2ics/internal/model"
)

var errPropertyMissing = errors.New("property missing")

// Document is a parsed calendar as produced by Assemble.
type Document struct {
	Name      string
	Method    string
	Timezones []string // TZIDs in document order
	Events    []model.Event
}

// ParseDocument parses an ICS payload back into events. It is the inverse of
// Assemble+Render and is used to verify converter output.
//
//   - Instants qualified with TZID=ZoneID are read in Zone; UTC values
//     (trailing Z) in UTC; anything else as floating time in Zone.
//   - A VEVENT that cannot be read is an error; a converter never writes one.
func ParseDocument(body []byte) (*Document, error) {
	if len(body) == 0 {
		return nil, errors.New("empty ICS body")
	}

	cal, err := ical.ParseCalendar(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse calendar: %w", err)
	}

	doc := &Document{}
	for _, p := range cal.CalendarProperties {
		switch p.IANAToken {
		case string(ical.PropertyXWRCalName):
			doc.Name = p.Value
		case string(ical.PropertyMethod):
			doc.Method = p.Value
		}
	}

	for _, tz := range cal.Timezones() {
		if p := tz.GetProperty(ical.ComponentPropertyTzid); p != nil {
			doc.Timezones = append(doc.Timezones, p.Value)
		}
	}

	for i, ve := range cal.Events() {
		ev, perr := parseVEvent(ve)
		if perr != nil {
			return nil, fmt.Errorf("vevent %d: %w", i+1, perr)
		}
		doc.Events = append(doc.Events, ev)
	}

	appLog.Debug("ics parse completed", "event_count", len(doc.Events), "timezones", len(doc.Timezones))
	return doc, nil
}

func parseVEvent(ve *ical.VEvent) (model.Event, error) {
	var out model.Event

	uidProp := ve.GetProperty(ical.ComponentPropertyUniqueId)
	if uidProp == nil || uidProp.Value == "" {
		return out, errors.New("missing UID")
	}
	out.UID = uidProp.Value

	if p := ve.GetProperty(ical.ComponentPropertySummary); p != nil {
		out.Summary = p.Value
	}
	if p := ve.GetProperty(ical.ComponentPropertyStatus); p != nil {
		out.Status = p.Value
	}
	if p := ve.GetProperty(ical.ComponentPropertyClass); p != nil {
		out.Class = p.Value
	}

	var err error
	if out.Created, err = propTime(ve.GetProperty(ical.ComponentPropertyDtstamp)); err != nil {
		return out, fmt.Errorf("DTSTAMP: %w", err)
	}
	if out.Start, err = propTime(ve.GetProperty(ical.ComponentPropertyDtStart)); err != nil {
		return out, fmt.Errorf("DTSTART: %w", err)
	}
	if out.End, err = propTime(ve.GetProperty(ical.ComponentPropertyDtEnd)); err != nil {
		return out, fmt.Errorf("DTEND: %w", err)
	}
	if !out.End.After(out.Start) {
		return out, errors.New("DTEND is not after DTSTART")
	}

	alarms := ve.Alarms()
	if len(alarms) > 0 {
		a := alarms[0]
		if p := a.GetProperty(ical.ComponentPropertyAction); p != nil {
			out.Alarm.Action = p.Value
		}
		if p := a.GetProperty(ical.ComponentPropertyDescription); p != nil {
			out.Alarm.Description = p.Value
		}
		if p := a.GetProperty(ical.ComponentPropertyTrigger); p != nil {
			before, terr := parseTrigger(p.Value)
			if terr != nil {
				return out, fmt.Errorf("TRIGGER: %w", terr)
			}
			out.Alarm.Before = before
		}
	}

	return out, nil
}

func propTime(p *ical.IANAProperty) (time.Time, error) {
	if p == nil {
		return time.Time{}, errPropertyMissing
	}
	if tzs, ok := p.ICalParameters[string(ical.ParameterTzid)]; ok && len(tzs) > 0 && tzs[0] != ZoneID {
		return time.Time{}, fmt.Errorf("unsupported TZID %q", tzs[0])
	}
	return parseICSTime(p.Value)
}

// parseICSTime parses a basic ICS date-time string. UTC values keep UTC,
// everything else is read in Zone.
func parseICSTime(v string) (time.Time, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}, errors.New("empty time value")
	}

	// UTC form, e.g., 20250101T090000Z
	if strings.HasSuffix(v, "Z") {
		return time.Parse(instantLayout+"Z", v)
	}

	return time.ParseInLocation(instantLayout, v, Zone)
}

// parseTrigger reads a negative start-relative trigger such as -PT15M or
// -PT1H and returns how long before start it fires.
func parseTrigger(v string) (time.Duration, error) {
	rest, ok := strings.CutPrefix(strings.TrimSpace(v), "-PT")
	if !ok || len(rest) < 2 {
		return 0, fmt.Errorf("unsupported trigger %q", v)
	}

	unit := rest[len(rest)-1]
	n, err := strconv.Atoi(rest[:len(rest)-1])
	if err != nil || n < 0 {
		return 0, fmt.Errorf("unsupported trigger %q", v)
	}

	switch unit {
	case 'M':
		return time.Duration(n) * time.Minute, nil
	case 'H':
		return time.Duration(n) * time.Hour, nil
	default:
		return 0, fmt.Errorf("unsupported trigger %q", v)
	}
}
