// Package convert turns delimited event rows into a calendar document.
//
// Convert is the in-memory core: decode, read rows, build events, assemble.
// Run wraps it with file handling: read the whole input, convert, then write
// the output once, atomically. A failed run never leaves a partial output.
package convert

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"csv2ics/internal/config"
	"csv2ics/internal/dates"
	"csv2ics/internal/fsutil"
	"csv2ics/internal/ics"
	appLog "csv2ics/internal/log"
	"csv2ics/internal/model"
)

var (
	// ErrInputNotFound is returned when the input file does not exist.
	ErrInputNotFound = errors.New("input file not found")
	// ErrUndecodable is returned when the input is neither UTF-8 nor Windows-1252.
	ErrUndecodable = errors.New("input is not valid UTF-8 or Windows-1252 text")
	// ErrNoHeader is returned for an input without a header line.
	ErrNoHeader = errors.New("input has no header row")
)

// Reporter receives per-row diagnostics. *log.Logger implements it.
type Reporter interface {
	Record(level appLog.Level, msg string, kv ...any)
}

// Outcome is the terminal state of one input row.
type Outcome int

const (
	Accepted Outcome = iota
	SkippedNoDate
	SkippedInvalidDate
)

func (o Outcome) String() string {
	switch o {
	case Accepted:
		return "ACCEPTED"
	case SkippedNoDate:
		return "SKIPPED_NO_DATE"
	case SkippedInvalidDate:
		return "SKIPPED_INVALID_DATE"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// Options configures one conversion.
type Options struct {
	Input  string
	Output string

	Delimiter      string
	SubjectColumn  string
	DateColumn     string
	DefaultSubject string

	// Builder creates the events; the zero value uses random UIDs and the
	// wall clock.
	Builder ics.Builder
}

// OptionsFromConfig combines an input path with loaded configuration.
func OptionsFromConfig(input string, cfg *config.Config) Options {
	return Options{
		Input:          input,
		Output:         cfg.Output,
		Delimiter:      cfg.Delimiter,
		SubjectColumn:  cfg.SubjectColumn,
		DateColumn:     cfg.DateColumn,
		DefaultSubject: cfg.DefaultSubject,
	}
}

// Summary counts row outcomes of one conversion.
type Summary struct {
	Rows               int
	Accepted           int
	SkippedNoDate      int
	SkippedInvalidDate int
	DefaultedSubject   int

	// Encoding is the detected input encoding.
	Encoding string
}

// Result is the output of Convert.
type Result struct {
	Summary Summary
	Events  []model.Event
	// Lines is the assembled document, one entry per line, no terminators.
	Lines []string
}

// Convert decodes input, processes every row in order and assembles the
// document. Row-level problems are reported to rep and never returned;
// only undecodable or unreadable input is an error.
func Convert(input []byte, opts Options, rep Reporter) (*Result, error) {
	if rep == nil {
		rep = appLog.Default()
	}

	delim, err := config.ParseDelimiter(opts.Delimiter)
	if err != nil {
		return nil, err
	}

	text, enc, err := decodeInput(input)
	if err != nil {
		return nil, err
	}
	if enc != EncodingUTF8 {
		rep.Record(appLog.LevelInfo, "input is not UTF-8, decoded with fallback encoding", "encoding", enc)
	}

	rr, err := newRowReader(text, delim)
	if err != nil {
		return nil, err
	}
	rep.Record(appLog.LevelDebug, "header read", "columns", rr.Header())

	p := rowProcessor{
		subjectKey:     NormalizeKey(opts.SubjectColumn),
		dateKey:        NormalizeKey(opts.DateColumn),
		defaultSubject: opts.DefaultSubject,
		builder:        opts.Builder,
		rep:            rep,
	}

	res := &Result{Summary: Summary{Encoding: enc}}
	for {
		row, err := rr.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		res.Summary.Rows++
		ev, outcome, defaulted := p.process(row)
		if defaulted {
			res.Summary.DefaultedSubject++
		}
		switch outcome {
		case Accepted:
			res.Summary.Accepted++
			res.Events = append(res.Events, ev)
		case SkippedNoDate:
			res.Summary.SkippedNoDate++
		case SkippedInvalidDate:
			res.Summary.SkippedInvalidDate++
		}
	}

	res.Lines = ics.Assemble(res.Events)
	return res, nil
}

type rowProcessor struct {
	subjectKey     string
	dateKey        string
	defaultSubject string
	builder        ics.Builder
	rep            Reporter
}

// process resolves subject and date of one row and builds its event.
// defaulted reports whether the default subject was substituted.
func (p rowProcessor) process(row Row) (ev model.Event, outcome Outcome, defaulted bool) {
	subject, _ := row.Get(p.subjectKey)
	if subject == "" {
		subject = p.defaultSubject
		defaulted = true
		p.rep.Record(appLog.LevelWarn, "empty subject, using default",
			"line", row.Line, "default", p.defaultSubject)
	}

	text, _ := row.Get(p.dateKey)
	if text == "" {
		p.rep.Record(appLog.LevelWarn, "date not found, skipping row",
			"line", row.Line, "row", row.String())
		return ev, SkippedNoDate, defaulted
	}

	date, ok := dates.Interpret(text)
	if !ok {
		p.rep.Record(appLog.LevelError, "invalid date, skipping row",
			"line", row.Line, "date", text, "expected", dates.Layouts)
		return ev, SkippedInvalidDate, defaulted
	}

	return p.builder.Build(subject, date), Accepted, defaulted
}

// Run reads opts.Input, converts it and writes the document to opts.Output
// as UTF-8 with CRLF line endings. Nothing is written unless the whole
// conversion succeeds.
func Run(opts Options, rep Reporter) (Summary, error) {
	if rep == nil {
		rep = appLog.Default()
	}
	if opts.Input == "" {
		return Summary{}, errors.New("input path is empty")
	}
	if opts.Output == "" {
		return Summary{}, errors.New("output path is empty")
	}

	raw, err := readInput(opts.Input)
	if err != nil {
		return Summary{}, err
	}

	res, err := Convert(raw, opts, rep)
	if err != nil {
		return Summary{}, fmt.Errorf("convert %s: %w", opts.Input, err)
	}

	if err := fsutil.WriteFileAtomic(opts.Output, []byte(ics.Render(res.Lines)), 0o644); err != nil {
		return Summary{}, fmt.Errorf("write %s: %w", opts.Output, err)
	}

	rep.Record(appLog.LevelInfo, "calendar written",
		"events", res.Summary.Accepted,
		"rows", res.Summary.Rows,
		"skipped", res.Summary.SkippedNoDate+res.Summary.SkippedInvalidDate,
		"output", opts.Output,
	)
	return res.Summary, nil
}

func readInput(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrInputNotFound, path)
		}
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}
