package rental

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNights(t *testing.T) {
	day := func(s string) time.Time {
		d, err := time.Parse("2006-01-02", s)
		if err != nil {
			t.Fatalf("bad date %q: %v", s, err)
		}
		return d
	}

	tests := []struct {
		name     string
		checkIn  time.Time
		checkOut time.Time
		want     int
	}{
		{"three nights", day("2025-01-01"), day("2025-01-04"), 3},
		{"one night", day("2025-01-01"), day("2025-01-02"), 1},
		{"same day", day("2025-01-01"), day("2025-01-01"), 0},
		{"check-out before check-in", day("2025-01-04"), day("2025-01-01"), 0},
		{"partial day rounds up", day("2025-01-01"), day("2025-01-02").Add(6 * time.Hour), 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Nights(tt.checkIn, tt.checkOut))
		})
	}
}

func TestMajorUnits(t *testing.T) {
	assert.Equal(t, 300.0, MajorUnits(30000))
	assert.Equal(t, 0.5, MajorUnits(50))
	assert.Equal(t, 0.0, MajorUnits(0))
	assert.Equal(t, -12.34, MajorUnits(-1234))
}

func TestDayTruncatesToUTCMidnight(t *testing.T) {
	loc := time.FixedZone("BRT", -3*3600)
	ts := time.Date(2025, 1, 1, 22, 15, 0, 0, loc) // 2025-01-02 01:15 UTC

	got := Day(ts)

	assert.Equal(t, time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC), got)
}

func TestGuestDocumentPrefersCPF(t *testing.T) {
	g := &Guest{CPF: "12345678900", Passport: "AB123456"}
	assert.Equal(t, "12345678900", g.Document())

	g.CPF = ""
	assert.Equal(t, "AB123456", g.Document())

	g.Passport = ""
	assert.Empty(t, g.Document())
}
