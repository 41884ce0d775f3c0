// Package period resolves dashboard period keywords and custom date
// ranges into concrete UTC windows, and derives the comparison window
// used for the vs-previous metrics.
package period

import (
	"fmt"
	"time"
)

// Period is a resolved reporting window. Start and End are UTC instants;
// Kind is the keyword the window was resolved from ("custom" for
// explicit date pairs).
type Period struct {
	Start time.Time `json:"startDate"`
	End   time.Time `json:"endDate"`
	Label string    `json:"label"`
	Kind  string    `json:"type"`
}

// DefaultKeyword is the window used when the caller sends a keyword the
// resolver does not know. Unknown keywords are a silent fallback, not an
// error.
const DefaultKeyword = "august-2025"

// mexicoCity is the store's civil calendar. Mexico abolished DST in
// 2022, so a fixed UTC-6 offset is correct year-round.
var mexicoCity = time.FixedZone("America/Mexico_City", -6*60*60)

var monthAbbrev = [...]string{
	"Ene", "Feb", "Mar", "Abr", "May", "Jun",
	"Jul", "Ago", "Sep", "Oct", "Nov", "Dic",
}

// fixedRange is a calendar-anchored window expressed as date-only bounds.
type fixedRange struct {
	start string // YYYY-MM-DD, inclusive
	end   string // YYYY-MM-DD, inclusive
	label string
}

// fixedPeriods are the store-specific month windows.
var fixedPeriods = map[string]fixedRange{
	"august-2025":           {"2025-08-01", "2025-08-31", "Agosto 2025"},
	"september-2025":        {"2025-09-01", "2025-09-30", "Septiembre 2025"},
	"august-september-2025": {"2025-08-01", "2025-09-30", "Agosto - Septiembre 2025"},
}

// historicalPeriods map the historical-* keywords onto the snapshot
// coverage. The snapshot ends July 2025, where the live store data
// begins.
var historicalPeriods = map[string]fixedRange{
	"historical-2025-h1":   {"2025-01-01", "2025-06-30", "Histórico 2025 (Ene-Jun)"},
	"historical-2024-full": {"2024-01-01", "2024-12-31", "Histórico 2024"},
	"historical-2023-full": {"2023-01-01", "2023-12-31", "Histórico 2023"},
	"historical-2022-full": {"2022-01-01", "2022-12-31", "Histórico 2022"},
	"historical-2021-full": {"2021-01-01", "2021-12-31", "Histórico 2021"},
	"historical-2020-full": {"2020-01-01", "2020-12-31", "Histórico 2020"},
	"historical-all-time":  {"2020-01-01", "2025-07-31", "Histórico Completo"},
}

// comparisonLabels is keyed by the primary period keyword. A keyword
// without an entry gets the generic label; any new period added to the
// selector needs a row here too.
var comparisonLabels = map[string]string{
	"today":          "vs Ayer",
	"yesterday":      "vs Anteayer",
	"last-7-days":    "vs 7 días anteriores",
	"last-30-days":   "vs 30 días anteriores",
	"this-month":     "vs Mes anterior",
	"last-month":     "vs 2 meses atrás",
	"august-2025":    "vs Julio 2025",
	"september-2025": "vs Agosto 2025",
}

const genericComparisonLabel = "vs Período anterior equivalente"

// Resolve maps a period keyword or an explicit start/end date pair
// (YYYY-MM-DD) onto a concrete UTC window. Explicit dates win over the
// keyword. now is injected so callers and tests control the clock.
func Resolve(keyword, startDate, endDate string, now time.Time) Period {
	if startDate != "" && endDate != "" {
		if p, ok := resolveCustom(startDate, endDate); ok {
			return p
		}
	}

	if r, ok := fixedPeriods[keyword]; ok {
		return fixedToPeriod(keyword, r)
	}
	if r, ok := historicalPeriods[keyword]; ok {
		return fixedToPeriod(keyword, r)
	}

	switch keyword {
	case "today":
		return dayWindow(keyword, now, 0)
	case "yesterday":
		return dayWindow(keyword, now, -1)
	case "last-7-days":
		return Period{Start: now.UTC().Add(-7 * 24 * time.Hour), End: now.UTC(), Label: "Últimos 7 días", Kind: keyword}
	case "last-30-days":
		return Period{Start: now.UTC().Add(-30 * 24 * time.Hour), End: now.UTC(), Label: "Últimos 30 días", Kind: keyword}
	case "this-month":
		return monthWindow(keyword, now, 0, "Este mes")
	case "last-month":
		return monthWindow(keyword, now, -1, "Mes anterior")
	}

	// Unknown keyword: documented quirk, fall back to the default window
	// but keep the caller's keyword so the debug block shows what was
	// actually requested.
	p := fixedToPeriod(keyword, fixedPeriods[DefaultKeyword])
	if keyword == "" {
		p.Kind = DefaultKeyword
	}
	return p
}

// Previous derives the comparison window: the immediately preceding
// window of equal length, ending the instant the primary window begins.
func Previous(p Period) Period {
	dur := p.End.Sub(p.Start)
	return Period{
		Start: p.Start.Add(-dur),
		End:   p.Start,
		Label: ComparisonLabel(p.Kind),
		Kind:  p.Kind,
	}
}

// ComparisonLabel returns the display label for comparing against the
// previous window of the given primary keyword.
func ComparisonLabel(keyword string) string {
	if label, ok := comparisonLabels[keyword]; ok {
		return label
	}
	return genericComparisonLabel
}

// IsHistorical reports whether the keyword addresses the pre-migration
// snapshot rather than the live store.
func IsHistorical(keyword string) bool {
	_, ok := historicalPeriods[keyword]
	return ok
}

func resolveCustom(startDate, endDate string) (Period, bool) {
	start, err1 := time.ParseInLocation("2006-01-02", startDate, time.UTC)
	end, err2 := time.ParseInLocation("2006-01-02", endDate, time.UTC)
	if err1 != nil || err2 != nil {
		return Period{}, false
	}
	return Period{
		Start: start,
		End:   end.Add(24*time.Hour - time.Second),
		Label: fmt.Sprintf("%s - %s", shortDate(start), shortDate(end)),
		Kind:  "custom",
	}, true
}

func fixedToPeriod(keyword string, r fixedRange) Period {
	start, _ := time.ParseInLocation("2006-01-02", r.start, time.UTC)
	end, _ := time.ParseInLocation("2006-01-02", r.end, time.UTC)
	return Period{
		Start: start,
		End:   end.Add(24*time.Hour - time.Second),
		Label: r.label,
		Kind:  keyword,
	}
}

// dayWindow spans one civil day in Mexico City, expressed in UTC.
func dayWindow(keyword string, now time.Time, dayOffset int) Period {
	local := now.In(mexicoCity).AddDate(0, 0, dayOffset)
	midnight := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, mexicoCity)
	start := midnight.UTC()
	dateStr := midnight.Format("2006-01-02")
	label := fmt.Sprintf("Hoy (%s)", dateStr)
	if dayOffset < 0 {
		label = fmt.Sprintf("Ayer (%s)", dateStr)
	}
	return Period{
		Start: start,
		End:   start.Add(24*time.Hour - time.Second),
		Label: label,
		Kind:  keyword,
	}
}

// monthWindow spans one civil month in Mexico City, expressed in UTC.
func monthWindow(keyword string, now time.Time, monthOffset int, label string) Period {
	local := now.In(mexicoCity)
	first := time.Date(local.Year(), local.Month(), 1, 0, 0, 0, 0, mexicoCity).AddDate(0, monthOffset, 0)
	next := first.AddDate(0, 1, 0)
	return Period{
		Start: first.UTC(),
		End:   next.Add(-time.Second).UTC(),
		Label: label,
		Kind:  keyword,
	}
}

// shortDate renders 2025-09-01 as "01/Sep/25".
func shortDate(t time.Time) string {
	return fmt.Sprintf("%02d/%s/%02d", t.Day(), monthAbbrev[t.Month()-1], t.Year()%100)
}
