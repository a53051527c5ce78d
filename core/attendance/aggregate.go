package attendance

// DailyStatus returns the status recorded for the given day, or NoRecord if
// none exists. If the history carries more than one entry for the same day
// (a data-quality violation upstream), the last entry in arrival order wins;
// that mirrors the store's upsert semantics for the (student, day) cell.
func DailyStatus(history []Record, day string) Status {
	status := NoRecord
	for _, rec := range history {
		if rec.Date == day {
			status = rec.Status
		}
	}
	return status
}

// MonthlyPresentCounts folds a history into per-month present-day counts.
// The result's key set is exactly the set of distinct month keys observed in
// the history: a month with recorded days but no Present ones appears with
// count 0, and no month is invented or dropped. Entries whose date cannot be
// parsed are skipped rather than failing the whole aggregation.
func MonthlyPresentCounts(history []Record) map[string]int {
	counts := make(map[string]int, len(history))
	for _, rec := range history {
		key, err := MonthKeyFromDay(rec.Date)
		if err != nil {
			continue
		}
		if _, ok := counts[key]; !ok {
			counts[key] = 0
		}
		if rec.Status == Present {
			counts[key]++
		}
	}
	return counts
}
