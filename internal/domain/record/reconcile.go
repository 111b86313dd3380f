package record

// Reconcile merges record versions gathered from independent storage tiers
// into one logical view: one record per indicator id, the one with the
// greatest saved_at. Ties keep the first occurrence, so the result is stable
// and the function is idempotent. Output order follows the first appearance
// of each id in the input.
func Reconcile(records []Record) []Record {
	latest := make(map[string]Record, len(records))
	order := make([]string, 0, len(records))

	for _, r := range records {
		existing, seen := latest[r.IndicatorID]
		if !seen {
			latest[r.IndicatorID] = r
			order = append(order, r.IndicatorID)
			continue
		}
		if r.NewerThan(existing) {
			latest[r.IndicatorID] = r
		}
	}

	out := make([]Record, 0, len(order))
	for _, id := range order {
		out = append(out, latest[id])
	}
	return out
}

// Latest returns the most recent version among the given ones, or nil for an
// empty history.
func Latest(records []Record) *Record {
	var best *Record
	for i := range records {
		if best == nil || records[i].NewerThan(*best) {
			best = &records[i]
		}
	}
	return best
}

// LatestWithStatus returns the most recent version currently in the given
// status, or nil if none is. Recency is the documented tie-break when more
// than one version satisfies the predicate.
func LatestWithStatus(records []Record, status Status) *Record {
	var best *Record
	for i := range records {
		if records[i].Status != status {
			continue
		}
		if best == nil || records[i].NewerThan(*best) {
			best = &records[i]
		}
	}
	return best
}

// FilterDisplayable drops empty shells from a listing. This is a display
// rule only and must run after Reconcile, never before.
func FilterDisplayable(records []Record) []Record {
	out := make([]Record, 0, len(records))
	for _, r := range records {
		if r.Displayable() {
			out = append(out, r)
		}
	}
	return out
}
