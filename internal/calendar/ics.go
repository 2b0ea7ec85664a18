package calendar

import (
	"fmt"
	"io"
	"strings"
	"time"
)

const (
	icsProductID = "-//pickup-calendar//bookings//EN"
	icsStamp     = "20060102T150405Z"

	PickUpSummary   = "Pick up of items to clean"
	DeliverySummary = "Delivery of cleaned items"
)

// Appointment is one booked hour exported as a VEVENT.
type Appointment struct {
	UID      string
	Summary  string
	Start    time.Time
	Sequence int
}

// WriteICS writes appointments as an iCalendar document. Every event lasts
// one hour and times are written in UTC.
func WriteICS(w io.Writer, name string, loc *time.Location, stamp time.Time, appointments []Appointment) error {
	ew := &icsWriter{w: w}

	ew.line("BEGIN:VCALENDAR")
	ew.line("VERSION:2.0")
	ew.line("PRODID:" + icsProductID)
	ew.line("CALSCALE:GREGORIAN")
	ew.line("METHOD:PUBLISH")
	ew.line("X-WR-CALNAME:" + escapeText(name))
	if loc != nil {
		ew.line("X-WR-TIMEZONE:" + loc.String())
	}

	for _, a := range appointments {
		ew.line("BEGIN:VEVENT")
		ew.line("UID:" + a.UID)
		ew.line(fmt.Sprintf("SEQUENCE:%d", a.Sequence))
		ew.line("DTSTAMP:" + stamp.UTC().Format(icsStamp))
		ew.line("DTSTART:" + a.Start.UTC().Format(icsStamp))
		ew.line("DTEND:" + a.Start.Add(time.Hour).UTC().Format(icsStamp))
		ew.line("SUMMARY:" + escapeText(a.Summary))
		ew.line("STATUS:CONFIRMED")
		ew.line("CLASS:PUBLIC")
		ew.line("END:VEVENT")
	}

	ew.line("END:VCALENDAR")

	return ew.err
}

// icsWriter keeps the first write error so callers check once.
type icsWriter struct {
	w   io.Writer
	err error
}

func (e *icsWriter) line(s string) {
	if e.err != nil {
		return
	}
	_, e.err = io.WriteString(e.w, s+"\r\n")
}

var textEscaper = strings.NewReplacer(
	`\`, `\\`,
	";", `\;`,
	",", `\,`,
	"\r\n", `\n`,
	"\n", `\n`,
)

func escapeText(s string) string {
	return textEscaper.Replace(s)
}
