// Package payroll folds per-document worker observations into a master
// worker set and a period-by-period payroll history.
package payroll

import (
	"github.com/joseph-ayodele/payslip-extractor/internal/payslip"
)

// Aggregator owns the running worker set (keyed by name) and the history.
// It is not safe for concurrent use; documents are added one at a time in
// filename order.
type Aggregator struct {
	profiles map[string]payslip.Worker
	order    []string
	history  []PeriodEntry
}

func NewAggregator() *Aggregator {
	return &Aggregator{profiles: map[string]payslip.Worker{}}
}

// AddDocument merges the workers of one document and appends its history entry.
//
// A new name is inserted as-is. A known name only has empty fields filled,
// except basic pay, which every non-empty observation overwrites so that the
// profile carries the most recent period's figure.
func (a *Aggregator) AddDocument(period Period, workers []payslip.Worker) PeriodEntry {
	entry := PeriodEntry{Month: period.Month, Year: period.Year, Records: make([]PeriodSnapshot, 0, len(workers))}
	for _, w := range workers {
		a.merge(w)
		entry.Records = append(entry.Records, snapshotFromWorker(w))
	}
	a.history = append(a.history, entry)
	return entry
}

func (a *Aggregator) merge(w payslip.Worker) {
	name := w.Name()
	existing, ok := a.profiles[name]
	if !ok {
		a.profiles[name] = w.Clone()
		a.order = append(a.order, name)
		return
	}
	for k, v := range w {
		if v == "" {
			continue
		}
		if existing[k] == "" || k == payslip.FieldBasicPay {
			existing[k] = v
		}
	}
}

// Len returns the number of distinct workers seen so far.
func (a *Aggregator) Len() int { return len(a.order) }

// Profile returns the merged profile for name.
func (a *Aggregator) Profile(name string) (WorkerProfile, bool) {
	w, ok := a.profiles[name]
	if !ok {
		return WorkerProfile{}, false
	}
	return profileFromWorker(w), true
}

// Profiles returns the merged profiles in first-sighting order.
func (a *Aggregator) Profiles() []WorkerProfile {
	out := make([]WorkerProfile, 0, len(a.order))
	for _, name := range a.order {
		out = append(out, profileFromWorker(a.profiles[name]))
	}
	return out
}

// History returns the period entries in the order documents were added.
func (a *Aggregator) History() []PeriodEntry {
	out := make([]PeriodEntry, len(a.history))
	for i, e := range a.history {
		recs := make([]PeriodSnapshot, len(e.Records))
		copy(recs, e.Records)
		out[i] = PeriodEntry{Month: e.Month, Year: e.Year, Records: recs}
	}
	return out
}

func (a *Aggregator) Result() Result {
	return Result{Workers: a.Profiles(), PayrollHistory: a.History()}
}
