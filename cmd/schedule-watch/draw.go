package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"

	"pickup-calendar/internal/models"
	"pickup-calendar/internal/schedule"
)

var weekdays = []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

var (
	pastCell    = color.New(color.FgHiBlack)
	collectCell = color.New(color.FgGreen, color.Bold)
	deliverCell = color.New(color.FgYellow)
)

// draw prints one row per hour with the collections and deliveries booked
// in each day.
func draw(w io.Writer, week schedule.Week, startHour int, now time.Time) error {
	var b strings.Builder

	fmt.Fprintf(&b, "\nupdated %s\n", now.Format("15:04:05"))
	fmt.Fprintf(&b, "%-7s", "")
	for _, d := range weekdays {
		fmt.Fprintf(&b, "%-10s", d)
	}
	b.WriteString("\n")

	for h, row := range week {
		fmt.Fprintf(&b, "%02d:00  ", startHour+h)
		for _, cell := range row {
			b.WriteString(formatCell(cell))
		}
		b.WriteString("\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func formatCell(cell []models.Entry) string {
	const width = 10

	if cell == nil {
		return pastCell.Sprint(pad("-", width))
	}

	var collect, deliver int
	for _, e := range cell {
		if e.Collect {
			collect++
		} else {
			deliver++
		}
	}

	switch {
	case collect == 0 && deliver == 0:
		return pad("", width)
	case deliver == 0:
		return collectCell.Sprint(pad(fmt.Sprintf("C%d", collect), width))
	case collect == 0:
		return deliverCell.Sprint(pad(fmt.Sprintf("D%d", deliver), width))
	}
	return collectCell.Sprint(fmt.Sprintf("C%d", collect)) + " " +
		deliverCell.Sprint(pad(fmt.Sprintf("D%d", deliver), width-len(fmt.Sprintf("C%d ", collect))))
}

func pad(s string, width int) string {
	return fmt.Sprintf("%-*s", width, s)
}
