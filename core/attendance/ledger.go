package attendance

// Ledger maps month keys to fee payment statuses for one student.
type Ledger map[string]FeeStatus

// BuildLedger folds fetched fee entries into a ledger. At most one entry per
// month is expected; on duplicates the last entry wins. Entries with an
// invalid month are skipped.
func BuildLedger(entries []FeeEntry) Ledger {
	ledger := make(Ledger, len(entries))
	for _, e := range entries {
		key, err := MonthKey(e.Month, e.Year)
		if err != nil {
			continue
		}
		ledger[key] = e.Status
	}
	return ledger
}

// Status returns the payment status for the given month, defaulting to
// Unpaid when the month has no entry.
func (l Ledger) Status(monthKey string) FeeStatus {
	if status, ok := l[monthKey]; ok {
		return status
	}
	return Unpaid
}

// Toggle flips Paid <-> Unpaid for the given month and returns the resulting
// ledger and status. The receiver is not mutated. Toggling twice returns to
// the original state. Only a structurally invalid month key fails.
func (l Ledger) Toggle(monthKey string) (Ledger, FeeStatus, error) {
	if !ValidMonthKey(monthKey) {
		return nil, "", ErrInvalidMonth
	}

	next := make(Ledger, len(l)+1)
	for k, v := range l {
		next[k] = v
	}
	status := Paid
	if l.Status(monthKey) == Paid {
		status = Unpaid
	}
	next[monthKey] = status
	return next, status, nil
}
