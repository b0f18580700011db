package dbc

import "fmt"

// valueDescriptionKey identifies the signal a VAL_ line's labels
// attach to.
type valueDescriptionKey struct {
	messageID  uint32
	signalName string
}

// ValueDescription is a single raw-value-to-label mapping from a VAL_
// line, e.g. `VAL_ 100 Gear 0 "Neutral" 1 "First" ;`.
type ValueDescription struct {
	Value uint64
	Label string
}

// ValueDescriptions holds every VAL_ entry in a Dbc, keyed by the
// message and signal they annotate. Entries for a given signal are
// kept in file order; spec.md §4.7 requires them serialized sorted by
// raw value, which ToText does at output time rather than at
// construction, so round-tripping an already-sorted file doesn't
// reorder anything incidentally.
type ValueDescriptions struct {
	table map[valueDescriptionKey][]ValueDescription
	count int
}

// NewValueDescriptions validates the MaxValueDescriptions ceiling per
// signal (spec.md §3: "ValueDescriptions (per signal): ... ≤
// MAX_VALUE_DESCRIPTIONS per signal") and constructs an immutable
// ValueDescriptions table. count totals every entry across all
// signals for Len, but the ceiling itself is checked one signal's
// entries at a time, not against that running total.
func NewValueDescriptions(entries map[valueDescriptionKey][]ValueDescription, limits Limits) (ValueDescriptions, error) {
	total := 0
	table := make(map[valueDescriptionKey][]ValueDescription, len(entries))
	for k, v := range entries {
		if len(v) > limits.MaxValueDescriptions {
			return ValueDescriptions{}, errCapacityExceeded(
				fmt.Sprintf("ValueDescriptions[%s]", k.signalName), limits.MaxValueDescriptions)
		}
		total += len(v)
		cp := make([]ValueDescription, len(v))
		copy(cp, v)
		table[k] = cp
	}
	return ValueDescriptions{table: table, count: total}, nil
}

// For returns the VAL_ entries attached to the named signal of the
// message with the given stored ID, in file order.
func (vd ValueDescriptions) For(storedID uint32, signalName string) []ValueDescription {
	v := vd.table[valueDescriptionKey{messageID: storedID, signalName: signalName}]
	out := make([]ValueDescription, len(v))
	copy(out, v)
	return out
}

// Len returns the total number of value-description entries across
// all signals.
func (vd ValueDescriptions) Len() int { return vd.count }

// Keys returns the (messageID, signalName) pairs that have at least
// one value description, in no particular order; ToText sorts them by
// messageID then signalName before emitting VAL_ lines.
func (vd ValueDescriptions) Keys() []valueDescriptionKey {
	out := make([]valueDescriptionKey, 0, len(vd.table))
	for k := range vd.table {
		out = append(out, k)
	}
	return out
}
