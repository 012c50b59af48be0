package core

// PersistFailure records one batch item that failed to persist.
type PersistFailure struct {
	Index  int    `json:"index"`
	Key    string `json:"key"`
	Reason string `json:"reason"`
}

// PersistReport is the outcome of a batch write. One item's failure never
// aborts the rest of the batch; the saved count and the failed subset are
// reported side by side so callers can retry or warn selectively.
type PersistReport struct {
	Saved  int              `json:"saved"`
	Failed []PersistFailure `json:"failed,omitempty"`
}

// AllSaved reports whether every item in the batch persisted.
func (r *PersistReport) AllSaved() bool {
	return len(r.Failed) == 0
}
