// Package dates interprets the free-form date text found in input rows.
package dates

import (
	"strings"
	"time"
)

// layouts are tried in order; the first one that consumes the whole input wins.
// Day and month accept one or two digits, the year exactly four.
var layouts = []string{
	"2/1/2006", // DD/MM/YYYY
	"2006-1-2", // YYYY-MM-DD
}

// Layouts is the human-readable form of the accepted layouts, for messages.
const Layouts = "DD/MM/YYYY or YYYY-MM-DD"

// Interpret converts text into a date at midnight UTC. Surrounding whitespace
// is ignored. The second return value is false when no layout matches.
func Interpret(text string) (time.Time, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return time.Time{}, false
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, text); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
