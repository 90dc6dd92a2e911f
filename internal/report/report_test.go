package report

import (
	"bytes"
	"math"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cryptoPOC/internal/domain"
)

func sampleReport(poc, prev, change float64) *domain.POCReport {
	return &domain.POCReport{
		ID:         7,
		Symbol:     "BTCUSDT",
		Interval:   "1h",
		StartDate:  "2024-01-01",
		EndDate:    "2024-01-31",
		KlineCount: 744,
		POC:        poc,
		PrevPOC:    prev,
		ChangePct:  change,
		CreatedAt:  time.Date(2024, 2, 1, 9, 30, 0, 0, time.UTC),
	}
}

func TestFormatFixed(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{in: 42283.584, want: "42283.58"},
		{in: 42283.585, want: "42283.59"},
		{in: -1.005, want: "-1.01"},
		{in: 0, want: "0.00"},
		{in: 7, want: "7.00"},
		{in: math.Inf(1), want: "inf"},
		{in: math.Inf(-1), want: "-inf"},
		{in: math.NaN(), want: "nan"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatFixed(tt.in))
		})
	}
}

func TestRender_Plain(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf, false)

	require.NoError(t, r.Render(sampleReport(42283.584, 42000, 0.6752)))
	out := buf.String()

	assert.Contains(t, out, "--- Results ---")
	assert.Contains(t, out, "Point of Control (POC) for BTCUSDT from 2024-01-01 to 2024-01-31 (1h): 42283.58")
	assert.Contains(t, out, "Change from previous POC (42000): 0.68%")
	assert.NotContains(t, out, "\033[")
}

func TestRender_ColorBySign(t *testing.T) {
	tests := []struct {
		name   string
		change float64
		color  string
	}{
		{name: "rise", change: 1.5, color: colorGreen},
		{name: "unchanged", change: 0, color: colorGreen},
		{name: "fall", change: -2.25, color: colorRed},
		{name: "infinite", change: math.Inf(1), color: colorGreen},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			r := NewRenderer(&buf, true)

			require.NoError(t, r.Render(sampleReport(100, 0, tt.change)))
			want := tt.color + FormatFixed(tt.change) + "%" + colorReset
			assert.Contains(t, buf.String(), want)
		})
	}
}

func TestRenderHistory(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf, false)

	require.NoError(t, r.RenderHistory([]*domain.POCReport{sampleReport(43000, 42000, 2.380952), sampleReport(42000, 0, math.Inf(1))}))
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "Symbol")
	assert.Contains(t, lines[1], "43000.00")
	assert.Contains(t, lines[1], "2.38")
	assert.Contains(t, lines[2], "inf")
}

func TestRenderHistory_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewRenderer(&buf, false).RenderHistory(nil))
	assert.Equal(t, "No stored reports.\n", buf.String())
}

func TestColorEnabled_NoColor(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	assert.False(t, ColorEnabled(os.Stdout))
}

func TestColorEnabled_RegularFile(t *testing.T) {
	t.Setenv("NO_COLOR", "")
	f, err := os.CreateTemp(t.TempDir(), "out")
	require.NoError(t, err)
	defer f.Close()
	assert.False(t, ColorEnabled(f))
}
