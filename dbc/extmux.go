package dbc

// ExtRange is an inclusive switch-value range from an SG_MUL_VAL_
// line, e.g. the `0-3` in `SG_MUL_VAL_ 100 Temp Sel 0-3;`.
type ExtRange struct {
	Lo uint32
	Hi uint32
}

// ExtendedMultiplexing is a single SG_MUL_VAL_ entry: the set of
// switch-signal values for which a multiplexed signal is active,
// extending the plain single-value MultiplexerRole to ranges and to
// multiple, cascaded switch signals (spec.md §4.3, Non-goal-adjacent
// feature carried from original_source since the text grammar must
// still parse it even where the validator treats it leniently).
type ExtendedMultiplexing struct {
	MessageID       uint32
	MultiplexedName string
	SwitchName      string
	Ranges          []ExtRange
}

// Contains reports whether value falls within any of e's ranges.
func (e ExtendedMultiplexing) Contains(value uint32) bool {
	for _, r := range e.Ranges {
		if value >= r.Lo && value <= r.Hi {
			return true
		}
	}
	return false
}

// ExtendedMultiplexingTable holds every SG_MUL_VAL_ entry in a Dbc,
// bounded globally by limits.MaxExtendedMultiplexing.
type ExtendedMultiplexingTable struct {
	entries []ExtendedMultiplexing
}

// NewExtendedMultiplexingTable validates capacity and constructs an
// immutable table.
func NewExtendedMultiplexingTable(entries []ExtendedMultiplexing, limits Limits) (ExtendedMultiplexingTable, error) {
	if len(entries) > limits.MaxExtendedMultiplexing {
		return ExtendedMultiplexingTable{}, errCapacityExceeded("ExtendedMultiplexing", limits.MaxExtendedMultiplexing)
	}
	cp := make([]ExtendedMultiplexing, len(entries))
	copy(cp, entries)
	return ExtendedMultiplexingTable{entries: cp}, nil
}

// Len returns the number of entries.
func (t ExtendedMultiplexingTable) Len() int { return len(t.entries) }

// All returns the entries in file order.
func (t ExtendedMultiplexingTable) All() []ExtendedMultiplexing {
	out := make([]ExtendedMultiplexing, len(t.entries))
	copy(out, t.entries)
	return out
}

// For returns the entry describing multiplexedName's activation
// ranges within messageID, if one was declared.
func (t ExtendedMultiplexingTable) For(messageID uint32, multiplexedName string) (ExtendedMultiplexing, bool) {
	for _, e := range t.entries {
		if e.MessageID == messageID && e.MultiplexedName == multiplexedName {
			return e, true
		}
	}
	return ExtendedMultiplexing{}, false
}
