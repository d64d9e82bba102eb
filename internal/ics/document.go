package ics

import (
	"strings"

	ical "github.com/arran4/golang-ical"

	"csv2ics/internal/model"
)

const (
	productID    = "-//CSV-to-ICS//Github//PT-BR"
	calendarName = "Eventos Importados"

	// CRLF terminates every line of the rendered document (RFC 5545 3.1).
	CRLF = "\r\n"
)

// Assemble wraps events, in the given order, in the calendar envelope and
// returns the document as lines without terminators:
//
//	BEGIN:VCALENDAR, header properties
//	one VTIMEZONE for ZoneID (fixed -0300, no daylight rule)
//	one VEVENT per event
//	END:VCALENDAR
//
// Long properties are folded by the serializer, and each continuation comes
// back as its own entry starting with a space. An event block can therefore
// span more entries than it has properties; count BEGIN:VEVENT lines, not
// entries. Events are not validated here.
func Assemble(events []model.Event) []string {
	cal := &ical.Calendar{}
	cal.SetProductId(productID)
	cal.SetVersion("2.0")
	cal.SetMethod(ical.MethodPublish)
	cal.SetXWRCalName(calendarName)

	tz := cal.AddTimezone(ZoneID)
	std := tz.AddStandard()
	std.AddProperty(ical.ComponentProperty(ical.PropertyDtstart), "16010101T000000")
	std.AddProperty(ical.ComponentProperty(ical.PropertyTzoffsetto), "-0300")
	std.AddProperty(ical.ComponentProperty(ical.PropertyTzoffsetfrom), "-0300")
	std.AddProperty(ical.ComponentProperty(ical.PropertyTzname), zoneName)

	for _, ev := range events {
		cal.AddVEvent(toVEvent(ev))
	}

	return splitLines(cal.Serialize())
}

// Render joins lines with CRLF, terminating the last one as well.
func Render(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, CRLF) + CRLF
}

// splitLines breaks serialized output into lines regardless of whether the
// serializer used LF or CRLF. Folded continuation lines stay separate lines.
func splitLines(s string) []string {
	s = strings.ReplaceAll(s, CRLF, "\n")
	s = strings.TrimSuffix(s, "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}
