package measurements

import (
	"math"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

type point struct {
	Label string
	Value float64
}

func points(bs []Bucket) []point {
	out := make([]point, 0, len(bs))
	for _, b := range bs {
		out = append(out, point{b.Label, b.Value})
	}
	return out
}

func day(y int, m time.Month, d, h int) time.Time {
	return time.Date(y, m, d, h, 0, 0, 0, time.UTC)
}

var nan = math.NaN()

// miércoles
var now = day(2024, 4, 10, 18)

func TestAggregate_Week(t *testing.T) {
	records := []Record{
		{Value: 3.1, Date: day(2024, 4, 4, 8)},
		{Value: 3.2, Date: day(2024, 4, 4, 20)}, // más tarde el mismo día gana
		{Value: 3.4, Date: day(2024, 4, 8, 9)},
		{Value: 9.9, Date: day(2024, 4, 3, 23)}, // fuera del span
		{Value: 9.9, Date: day(2024, 4, 11, 1)}, // futuro
	}

	got := points(Aggregate(records, SpanWeek, now))
	want := []point{
		{"Thu", 3.2}, {"Fri", nan}, {"Sat", nan}, {"Sun", nan},
		{"Mon", 3.4}, {"Tue", nan}, {"Wed", nan},
	}
	if diff := cmp.Diff(want, got, cmpopts.EquateNaNs()); diff != "" {
		t.Fatalf("week buckets mismatch (-want +got):\n%s", diff)
	}
}

func TestAggregate_MonthRollingWeeks(t *testing.T) {
	records := []Record{
		{Value: 50, Date: day(2024, 3, 14, 0)}, // primer día de W1
		{Value: 51, Date: day(2024, 3, 27, 12)},
		{Value: 52, Date: day(2024, 4, 10, 6)},
		{Value: 1, Date: day(2024, 3, 13, 23)}, // un día antes del span
	}

	got := points(Aggregate(records, SpanMonth, now))
	want := []point{{"W1", 50}, {"W2", 51}, {"W3", nan}, {"W4", 52}}
	if diff := cmp.Diff(want, got, cmpopts.EquateNaNs()); diff != "" {
		t.Fatalf("month buckets mismatch (-want +got):\n%s", diff)
	}
}

func TestAggregate_SixMonthsAndYear(t *testing.T) {
	records := []Record{
		{Value: 4.0, Date: day(2023, 11, 2, 0)},
		{Value: 4.5, Date: day(2023, 11, 28, 0)},
		{Value: 6.0, Date: day(2024, 2, 29, 0)},
		{Value: 7.0, Date: day(2024, 4, 1, 0)},
		{Value: 2.0, Date: day(2023, 5, 15, 0)},
	}

	six := points(Aggregate(records, SpanSixMonths, now))
	wantSix := []point{{"Nov", 4.5}, {"Dec", nan}, {"Jan", nan}, {"Feb", 6.0}, {"Mar", nan}, {"Apr", 7.0}}
	if diff := cmp.Diff(wantSix, six, cmpopts.EquateNaNs()); diff != "" {
		t.Fatalf("six_months mismatch (-want +got):\n%s", diff)
	}

	year := points(Aggregate(records, SpanYear, now))
	if len(year) != 12 {
		t.Fatalf("expected 12 buckets, got %d", len(year))
	}
	if year[0].Label != "May" || year[0].Value != 2.0 {
		t.Fatalf("expected May=2.0 first, got %+v", year[0])
	}
	if year[11].Label != "Apr" || year[11].Value != 7.0 {
		t.Fatalf("expected Apr=7.0 last, got %+v", year[11])
	}
}

func TestAggregate_TieBreak(t *testing.T) {
	d := day(2024, 4, 9, 10)
	records := []Record{
		{ID: "a", Value: 1, Date: d, CreatedAt: day(2024, 4, 9, 12)},
		{ID: "b", Value: 2, Date: d, CreatedAt: day(2024, 4, 9, 11)},
		{ID: "c", Value: 3, Date: d, CreatedAt: day(2024, 4, 9, 12)},
	}
	bs := Aggregate(records, SpanWeek, now)
	// a y c empatan en CreatedAt; gana el último del input
	if got := bs[5].Value; got != 3 {
		t.Fatalf("expected 3, got %v", got)
	}
}

// Dentro de un bucket siempre gana el registro de fecha máxima.
func TestAggregate_LatestPerBucketProperty(t *testing.T) {
	var records []Record
	base := day(2023, 5, 1, 0)
	for i := 0; i < 400; i++ {
		records = append(records, Record{Value: float64(i), Date: base.Add(time.Duration(i*23) * time.Hour)})
	}

	for _, span := range []Span{SpanWeek, SpanMonth, SpanSixMonths, SpanYear} {
		for _, b := range Aggregate(records, span, now) {
			var best *Record
			for i := range records {
				r := records[i]
				if r.Date.Before(b.Start) || !r.Date.Before(b.End) {
					continue
				}
				if best == nil || r.Date.After(best.Date) {
					best = &r
				}
			}
			if best == nil {
				if !b.Empty() {
					t.Fatalf("%s/%s: expected empty bucket, got %v", span, b.Label, b.Value)
				}
				continue
			}
			if b.Value != best.Value {
				t.Fatalf("%s/%s: expected %v, got %v", span, b.Label, best.Value, b.Value)
			}
		}
	}
}

func TestParseSpan(t *testing.T) {
	if sp, err := ParseSpan(""); err != nil || sp != SpanWeek {
		t.Fatalf("expected default week, got %q %v", sp, err)
	}
	if _, err := ParseSpan("decade"); err == nil {
		t.Fatalf("expected error")
	}
	if Aggregate(nil, Span("decade"), now) != nil {
		t.Fatalf("unknown span should yield nil")
	}
}

// Fechas date-only llegan como medianoche UTC; el día calendario se respeta
// aunque now esté en otra zona.
func TestAggregate_DateOnlyRecordsWithNowInOtherZone(t *testing.T) {
	newYork := time.FixedZone("UTC-4", -4*3600)
	tokyo := time.FixedZone("UTC+9", 9*3600)

	t.Run("week west of UTC", func(t *testing.T) {
		nyNow := time.Date(2024, 4, 3, 12, 0, 0, 0, newYork) // miércoles
		records := []Record{{Value: 5, Date: day(2024, 4, 1, 0)}}

		got := points(Aggregate(records, SpanWeek, nyNow))
		want := []point{
			{"Thu", nan}, {"Fri", nan}, {"Sat", nan}, {"Sun", nan},
			{"Mon", 5}, {"Tue", nan}, {"Wed", nan},
		}
		if diff := cmp.Diff(want, got, cmpopts.EquateNaNs()); diff != "" {
			t.Fatalf("week buckets mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("first of month west of UTC", func(t *testing.T) {
		nyNow := time.Date(2024, 4, 10, 12, 0, 0, 0, newYork)
		records := []Record{
			{Value: 6, Date: day(2024, 3, 1, 0)},
			{Value: 7, Date: day(2024, 4, 1, 0)},
		}

		got := points(Aggregate(records, SpanSixMonths, nyNow))
		want := []point{{"Nov", nan}, {"Dec", nan}, {"Jan", nan}, {"Feb", nan}, {"Mar", 6}, {"Apr", 7}}
		if diff := cmp.Diff(want, got, cmpopts.EquateNaNs()); diff != "" {
			t.Fatalf("six_months mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("today east of UTC", func(t *testing.T) {
		tokyoNow := time.Date(2024, 4, 2, 8, 0, 0, 0, tokyo)
		records := []Record{{Value: 5.5, Date: day(2024, 4, 2, 0)}}

		bs := Aggregate(records, SpanWeek, tokyoNow)
		if got := bs[6]; got.Label != "Tue" || got.Value != 5.5 {
			t.Fatalf("expected Tue=5.5 in the last bucket, got %+v", got)
		}
	})
}
