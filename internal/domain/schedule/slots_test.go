package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var defaultSettings = Settings{
	OpenTime:  "08:00",
	CloseTime: "20:00",
	OpenDays:  []int{1, 2, 3, 4, 5, 6},
}

// 2026-08-31 é uma segunda-feira.
var monday = time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
var sunday = time.Date(2026, 9, 6, 0, 0, 0, 0, time.UTC)

func mondayAvailability(start, end string) []DayAvailability {
	return []DayAvailability{
		{Weekday: 1, StartTime: start, EndTime: end, Available: true},
	}
}

func at(day time.Time, h, m int) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), h, m, 0, 0, day.Location())
}

func TestDaySlots_ClosedDay(t *testing.T) {
	res := DaySlots(sunday, defaultSettings, mondayAvailability("09:00", "18:00"), nil, monday)

	assert.Empty(t, res.Slots)
	assert.Empty(t, res.Details)
	assert.Equal(t, ReasonClosedDay, res.Reason)
}

func TestDaySlots_ProfessionalUnavailable(t *testing.T) {
	tests := []struct {
		name         string
		availability []DayAvailability
	}{
		{"no record", nil},
		{"record for another weekday", []DayAvailability{
			{Weekday: 2, StartTime: "09:00", EndTime: "18:00", Available: true},
		}},
		{"record flagged unavailable", []DayAvailability{
			{Weekday: 1, StartTime: "09:00", EndTime: "18:00", Available: false},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := DaySlots(monday, defaultSettings, tt.availability, nil, monday)
			assert.Empty(t, res.Slots)
			assert.Equal(t, ReasonUnavailable, res.Reason)
		})
	}
}

func TestDaySlots_FullWindow(t *testing.T) {
	res := DaySlots(monday, defaultSettings, mondayAvailability("09:00", "18:00"), nil, monday)

	require.Equal(t, ReasonNone, res.Reason)
	// 09:00 até 18:00 inclusivo, de 30 em 30.
	require.Len(t, res.Slots, 19)
	assert.Equal(t, "09:00", res.Slots[0])
	assert.Equal(t, "09:30", res.Slots[1])
	assert.Equal(t, "18:00", res.Slots[18])
}

func TestDaySlots_OccupiedByAppointments(t *testing.T) {
	avail := mondayAvailability("09:00", "18:00")

	tests := []struct {
		name     string
		visits   []Visit
		excluded []string
		included []string
	}{
		{
			name:     "30-minute appointment removes a single slot",
			visits:   []Visit{{Start: at(monday, 9, 0), DurationMin: 30, Status: "scheduled"}},
			excluded: []string{"09:00"},
			included: []string{"09:30", "10:00"},
		},
		{
			name:     "60-minute appointment removes two slots",
			visits:   []Visit{{Start: at(monday, 9, 0), DurationMin: 60, Status: "scheduled"}},
			excluded: []string{"09:00", "09:30"},
			included: []string{"10:00"},
		},
		{
			name:     "45-minute appointment still blocks the partial slot",
			visits:   []Visit{{Start: at(monday, 9, 0), DurationMin: 45, Status: "scheduled"}},
			excluded: []string{"09:00", "09:30"},
			included: []string{"10:00"},
		},
		{
			name: "overlapping appointments mark the same slot once",
			visits: []Visit{
				{Start: at(monday, 9, 0), DurationMin: 60, Status: "scheduled"},
				{Start: at(monday, 9, 30), DurationMin: 60, Status: "scheduled"},
			},
			excluded: []string{"09:00", "09:30", "10:00"},
			included: []string{"10:30"},
		},
		{
			name:     "cancelled appointment never occupies its slot",
			visits:   []Visit{{Start: at(monday, 10, 0), DurationMin: 30, Status: "cancelled"}},
			included: []string{"10:00"},
		},
		{
			name:     "completed appointment still occupies its slot",
			visits:   []Visit{{Start: at(monday, 10, 0), DurationMin: 30, Status: "completed"}},
			excluded: []string{"10:00"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := DaySlots(monday, defaultSettings, avail, tt.visits, monday)

			require.Equal(t, ReasonNone, res.Reason)
			for _, s := range tt.excluded {
				assert.NotContains(t, res.Slots, s)
			}
			for _, s := range tt.included {
				assert.Contains(t, res.Slots, s)
			}
		})
	}
}

func TestDaySlots_ReferenceScenario(t *testing.T) {
	// Estabelecimento 08:00–20:00 seg–sáb, profissional segunda 09:00–17:00,
	// um agendamento de 45 minutos às 09:00, consulta antes das 09:00.
	visits := []Visit{{Start: at(monday, 9, 0), DurationMin: 45, Status: "scheduled"}}
	now := at(monday, 8, 0)

	res := DaySlots(monday, defaultSettings, mondayAvailability("09:00", "17:00"), visits, now)

	require.Equal(t, ReasonNone, res.Reason)
	assert.NotContains(t, res.Slots, "09:00")
	assert.NotContains(t, res.Slots, "09:30")

	expected := []string{
		"10:00", "10:30", "11:00", "11:30", "12:00", "12:30",
		"13:00", "13:30", "14:00", "14:30", "15:00", "15:30",
		"16:00", "16:30", "17:00",
	}
	assert.Equal(t, expected, res.Slots)
}

func TestDaySlots_PastSlotsExcluded(t *testing.T) {
	now := at(monday, 12, 15)

	res := DaySlots(monday, defaultSettings, mondayAvailability("09:00", "18:00"), nil, now)

	require.Equal(t, ReasonNone, res.Reason)
	assert.NotContains(t, res.Slots, "12:00")
	assert.Equal(t, "12:30", res.Slots[0])

	for _, d := range res.Details {
		if d.Time == "12:00" {
			assert.True(t, d.IsPast)
			assert.False(t, d.Available)
			assert.False(t, d.Conflicts)
		}
		if d.Time == "12:30" {
			assert.False(t, d.IsPast)
			assert.True(t, d.Available)
		}
	}
}

func TestDaySlots_WindowRounding(t *testing.T) {
	tests := []struct {
		name      string
		settings  Settings
		profStart string
		profEnd   string
		first     string
		last      string
	}{
		{
			name:      "start minutes rounded up when opening hours coincide",
			settings:  Settings{OpenTime: "09:00", CloseTime: "20:00", OpenDays: []int{1}},
			profStart: "09:15",
			profEnd:   "18:00",
			first:     "09:30",
			last:      "18:00",
		},
		{
			name:      "start minutes dropped when hours differ",
			settings:  Settings{OpenTime: "08:00", CloseTime: "20:00", OpenDays: []int{1}},
			profStart: "09:15",
			profEnd:   "18:00",
			first:     "09:00",
			last:      "18:00",
		},
		{
			name:      "end minutes floored when closing hours coincide",
			settings:  Settings{OpenTime: "08:00", CloseTime: "17:50", OpenDays: []int{1}},
			profStart: "09:00",
			profEnd:   "17:45",
			first:     "09:00",
			last:      "17:30",
		},
		{
			name:      "end minutes dropped when hours differ",
			settings:  Settings{OpenTime: "08:00", CloseTime: "20:00", OpenDays: []int{1}},
			profStart: "09:00",
			profEnd:   "17:45",
			first:     "09:00",
			last:      "17:00",
		},
		{
			name:      "start past the half hour carries into the next hour",
			settings:  Settings{OpenTime: "09:40", CloseTime: "20:00", OpenDays: []int{1}},
			profStart: "09:00",
			profEnd:   "18:00",
			first:     "10:00",
			last:      "18:00",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			avail := mondayAvailability(tt.profStart, tt.profEnd)
			res := DaySlots(monday, tt.settings, avail, nil, monday)

			require.Equal(t, ReasonNone, res.Reason)
			require.NotEmpty(t, res.Slots)
			assert.Equal(t, tt.first, res.Slots[0])
			assert.Equal(t, tt.last, res.Slots[len(res.Slots)-1])
		})
	}
}

func TestDaySlots_InvalidConfigurationFailsClosed(t *testing.T) {
	tests := []struct {
		name     string
		settings Settings
	}{
		{"closes before opening", Settings{OpenTime: "20:00", CloseTime: "08:00", OpenDays: []int{1}}},
		{"malformed opening time", Settings{OpenTime: "8h", CloseTime: "20:00", OpenDays: []int{1}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := DaySlots(monday, tt.settings, mondayAvailability("09:00", "18:00"), nil, monday)
			assert.Empty(t, res.Slots)
			assert.Equal(t, ReasonClosedDay, res.Reason)
		})
	}
}

func TestDaySlots_Deterministic(t *testing.T) {
	visits := []Visit{{Start: at(monday, 9, 0), DurationMin: 60, Status: "scheduled"}}
	now := at(monday, 10, 15)
	avail := mondayAvailability("09:00", "18:00")

	first := DaySlots(monday, defaultSettings, avail, visits, now)
	second := DaySlots(monday, defaultSettings, avail, visits, now)

	assert.Equal(t, first, second)
}
