/*
income.go - Income aggregation

PURPOSE:
  Derives daily, monthly, and per-month-breakdown totals from the flat
  income log the engine appends to at checkout.

NOTE ON DELETION:
  Deleting a CHECKOUT booking does not remove its income record. Totals
  derive only from the income log, so previously computed figures never
  change when history is cleaned up.

PRECISION:
  Stored amounts keep full decimal precision. Two-decimal rounding is a
  display concern and lives in the API layer.
*/
package hotel

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// IncomeReport aggregates the income log. Read-only.
type IncomeReport struct {
	state *State
}

func NewIncomeReport(state *State) *IncomeReport {
	return &IncomeReport{state: state}
}

// TotalForDay sums all records on the local calendar day containing t.
func (r *IncomeReport) TotalForDay(t time.Time) decimal.Decimal {
	day := DateKey(t)
	total := decimal.Zero

	s := r.state
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, rec := range s.income {
		if DateKey(rec.At) == day {
			total = total.Add(rec.Amount)
		}
	}
	return total
}

// TotalForMonth sums all records in the local calendar month containing t.
func (r *IncomeReport) TotalForMonth(t time.Time) decimal.Decimal {
	month := MonthKey(t)
	total := decimal.Zero

	s := r.state
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, rec := range s.income {
		if MonthKey(rec.At) == month {
			total = total.Add(rec.Amount)
		}
	}
	return total
}

// MonthTotal is one row of the monthly breakdown.
type MonthTotal struct {
	Month string          `json:"month"` // "2006-01"
	Total decimal.Decimal `json:"total"`
	Count int             `json:"count"`
}

// MonthlyBreakdown groups the log by local calendar month, sorted
// descending by month.
func (r *IncomeReport) MonthlyBreakdown() []MonthTotal {
	s := r.state
	s.mu.RLock()
	byMonth := make(map[string]*MonthTotal)
	for _, rec := range s.income {
		key := MonthKey(rec.At)
		mt, ok := byMonth[key]
		if !ok {
			mt = &MonthTotal{Month: key, Total: decimal.Zero}
			byMonth[key] = mt
		}
		mt.Total = mt.Total.Add(rec.Amount)
		mt.Count++
	}
	s.mu.RUnlock()

	out := make([]MonthTotal, 0, len(byMonth))
	for _, mt := range byMonth {
		out = append(out, *mt)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month > out[j].Month })
	return out
}

// RecordsForDay returns the records on the local calendar day containing t,
// newest first.
func (r *IncomeReport) RecordsForDay(t time.Time) []IncomeRecord {
	day := DateKey(t)

	s := r.state
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []IncomeRecord
	for _, rec := range s.income {
		if DateKey(rec.At) == day {
			out = append(out, rec)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].At.After(out[j].At) })
	return out
}
