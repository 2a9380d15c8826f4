package flow

import "slices"

// ToggleSelection applies one tap on a multi-select option.
//
// A selected value is removed. Otherwise it is appended; when limit > 0 and the
// selection is already full, the oldest value is evicted first. The input
// slice is never modified.
func ToggleSelection(selected []string, value string, limit int) []string {
	if i := slices.Index(selected, value); i >= 0 {
		return slices.Delete(slices.Clone(selected), i, i+1)
	}

	out := slices.Clone(selected)
	if limit > 0 && len(out) >= limit {
		// FIFO: keep the newest limit-1 values.
		out = out[len(out)-limit+1:]
	}
	return append(out, value)
}
