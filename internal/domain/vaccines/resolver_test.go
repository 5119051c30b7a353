package vaccines

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

var dtap = Definition{ID: "dtap-1", Name: "DTaP", StartWeek: 6, EndWeek: 10}

func TestResolve_OverdueWithoutSchedule(t *testing.T) {
	rep := Resolve(date(2024, 1, 1), []Definition{dtap}, nil, date(2024, 4, 1))

	require.Len(t, rep.Items, 1)
	assert.Equal(t, StateOverdue, rep.Items[0].State)
	assert.Equal(t, date(2024, 2, 12), rep.Items[0].WindowStart)
	assert.Equal(t, date(2024, 3, 11), rep.Items[0].WindowEnd)
	assert.Equal(t, 1, rep.Counts[StateOverdue])
}

func TestResolve_WindowBoundaries(t *testing.T) {
	birth := date(2024, 1, 1)
	cases := []struct {
		name  string
		today time.Time
		want  State
	}{
		{"day before window", date(2024, 2, 11), StateNotYetDue},
		{"first day", date(2024, 2, 12), StateDueNow},
		{"last day", date(2024, 3, 11), StateDueNow},
		{"last day late evening", time.Date(2024, 3, 11, 23, 59, 0, 0, time.UTC), StateDueNow},
		{"day after window", date(2024, 3, 12), StateOverdue},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rep := Resolve(birth, []Definition{dtap}, nil, tc.today)
			assert.Equal(t, tc.want, rep.Items[0].State)
		})
	}
}

func TestResolve_TodayIsCallerCalendarDay(t *testing.T) {
	// birth llega de storage como fecha UTC; el reloj del server corre en otra zona
	birth := date(2024, 1, 1)
	newYork := time.FixedZone("UTC-5", -5*3600)
	tokyo := time.FixedZone("UTC+9", 9*3600)

	cases := []struct {
		name  string
		today time.Time
		want  State
	}{
		// 2024-03-12 02:00 UTC, pero en el server todavía es 03-11
		{"last day late evening west of UTC", time.Date(2024, 3, 11, 21, 0, 0, 0, newYork), StateDueNow},
		{"day after window west of UTC", time.Date(2024, 3, 12, 0, 30, 0, 0, newYork), StateOverdue},
		// 2024-02-11 20:00 UTC, pero en el server ya es 02-12
		{"first day early morning east of UTC", time.Date(2024, 2, 12, 5, 0, 0, 0, tokyo), StateDueNow},
		{"day before window east of UTC", time.Date(2024, 2, 11, 23, 0, 0, 0, tokyo), StateNotYetDue},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rep := Resolve(birth, []Definition{dtap}, nil, tc.today)
			assert.Equal(t, tc.want, rep.Items[0].State)
			assert.Equal(t, tc.today.Day(), rep.Today.Day())
		})
	}
}

func TestResolve_BirthInLocalZone(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*3600)
	birth := time.Date(2024, 1, 1, 0, 0, 0, 0, loc)

	rep := Resolve(birth, []Definition{dtap}, nil, time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, StateDueNow, rep.Items[0].State)
	assert.Equal(t, time.Date(2024, 3, 11, 0, 0, 0, 0, loc), rep.Items[0].WindowEnd)
}

func TestResolve_Schedules(t *testing.T) {
	birth := date(2024, 1, 1)
	pending := Schedule{ID: "s1", VaccineID: "dtap-1", Date: date(2024, 2, 20)}
	newer := Schedule{ID: "s2", VaccineID: "dtap-1", Date: date(2024, 2, 25)}
	done := Schedule{ID: "s3", VaccineID: "dtap-1", Date: date(2024, 2, 15), IsAdministered: true}

	t.Run("pending inside window is scheduled, latest date wins", func(t *testing.T) {
		rep := Resolve(birth, []Definition{dtap}, []Schedule{pending, newer}, date(2024, 2, 14))
		assert.Equal(t, StateScheduled, rep.Items[0].State)
		require.NotNil(t, rep.Items[0].Schedule)
		assert.Equal(t, "s2", rep.Items[0].Schedule.ID)
	})

	t.Run("pending before window is still scheduled", func(t *testing.T) {
		rep := Resolve(birth, []Definition{dtap}, []Schedule{pending}, date(2024, 1, 20))
		assert.Equal(t, StateScheduled, rep.Items[0].State)
	})

	t.Run("pending past window is overdue", func(t *testing.T) {
		rep := Resolve(birth, []Definition{dtap}, []Schedule{pending}, date(2024, 4, 1))
		assert.Equal(t, StateOverdue, rep.Items[0].State)
		require.NotNil(t, rep.Items[0].Schedule)
		assert.Equal(t, "s1", rep.Items[0].Schedule.ID)
	})

	t.Run("administered wins over pending and time", func(t *testing.T) {
		rep := Resolve(birth, []Definition{dtap}, []Schedule{newer, done, pending}, date(2025, 1, 1))
		assert.Equal(t, StateAdministered, rep.Items[0].State)
		assert.Equal(t, "s3", rep.Items[0].Schedule.ID)
	})

	t.Run("unknown vaccine ignored", func(t *testing.T) {
		ghost := Schedule{ID: "g", VaccineID: "ghost", Date: date(2024, 2, 1), IsAdministered: true}
		rep := Resolve(birth, []Definition{dtap}, []Schedule{ghost}, date(2024, 1, 2))
		require.Len(t, rep.Items, 1)
		assert.Equal(t, StateNotYetDue, rep.Items[0].State)
	})
}

// Toda vacuna sin aplicar cuya ventana terminó antes de hoy queda overdue.
func TestResolve_OverdueInvariant_FullCatalog(t *testing.T) {
	birth := date(2023, 5, 10)
	today := date(2024, 6, 1)

	var schedules []Schedule
	for i, d := range Catalog() {
		if i%3 == 0 {
			schedules = append(schedules, Schedule{ID: d.ID, VaccineID: d.ID, Date: today})
		}
	}

	rep := Resolve(birth, Catalog(), schedules, today)
	total := 0
	for _, it := range rep.Items {
		if today.After(it.WindowEnd) {
			assert.Equal(t, StateOverdue, it.State, it.Vaccine.ID)
		}
	}
	for _, n := range rep.Counts {
		total += n
	}
	assert.Equal(t, len(Catalog()), total)
}

func TestResolve_KeepsCatalogOrder(t *testing.T) {
	defs := []Definition{
		{ID: "c", Name: "C", StartWeek: 10, EndWeek: 12},
		{ID: "b", Name: "B", StartWeek: 0, EndWeek: 4},
		{ID: "a", Name: "A", StartWeek: 0, EndWeek: 4},
		{ID: "d", Name: "D", StartWeek: 0, EndWeek: 1},
	}
	rep := Resolve(date(2024, 1, 1), defs, nil, date(2024, 1, 1))

	got := make([]string, 0, len(rep.Items))
	for _, it := range rep.Items {
		got = append(got, it.Vaccine.ID)
	}
	if diff := cmp.Diff([]string{"d", "a", "b", "c"}, got); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
	// el input no se reordena
	assert.Equal(t, "c", defs[0].ID)
}

func TestCatalog_Sane(t *testing.T) {
	seen := map[string]bool{}
	for _, d := range Catalog() {
		assert.False(t, seen[d.ID], "duplicate id %s", d.ID)
		seen[d.ID] = true
		assert.LessOrEqual(t, d.StartWeek, d.EndWeek, d.ID)
		_, ok := Lookup(d.ID)
		assert.True(t, ok)
	}
	_, ok := Lookup("nope")
	assert.False(t, ok)
}
