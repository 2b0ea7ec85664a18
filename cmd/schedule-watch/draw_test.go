package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pickup-calendar/internal/models"
	"pickup-calendar/internal/schedule"
)

func TestDraw(t *testing.T) {
	prev := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = prev })

	week := schedule.Empty(8, 10)
	week[0][0] = nil
	week[0][2] = []models.Entry{{Collect: true}, {Collect: true}}
	week[1][4] = []models.Entry{{Collect: false}}
	week[1][5] = []models.Entry{{Collect: true}, {Collect: false}}

	var buf bytes.Buffer
	require.NoError(t, draw(&buf, week, 8, time.Date(2015, 3, 16, 9, 5, 0, 0, time.UTC)))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "updated 09:05:00", lines[0])
	assert.True(t, strings.HasPrefix(strings.TrimSpace(lines[1]), "Mon"))

	assert.True(t, strings.HasPrefix(lines[2], "08:00  -"))
	assert.Contains(t, lines[2], "C2")
	assert.True(t, strings.HasPrefix(lines[3], "09:00  "))
	assert.Contains(t, lines[3], "D1")
	assert.Contains(t, lines[3], "C1 D1")
}

func TestFormatCellWidth(t *testing.T) {
	prev := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = prev })

	for _, cell := range [][]models.Entry{
		nil,
		{},
		{{Collect: true}},
		{{}},
		{{Collect: true}, {}},
	} {
		assert.Len(t, formatCell(cell), 10)
	}
}
