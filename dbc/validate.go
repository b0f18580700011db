package dbc

import "fmt"

// This file implements the cross-entity invariants from spec.md §3
// and §4.5: checks that need to see more than one entity at a time
// (two messages, a message and the global node list, a signal and its
// message's extended multiplexing entries) and so cannot run inside a
// single constructor. Grounded on
// original_source/src/dbc/validate.rs's validate_common pass, which
// runs these same checks in the same order after a file is fully
// parsed.
func validate(d *Dbc, opts Options) error {
	if err := validateMessageBits(d); err != nil {
		return err
	}
	if err := validateSenders(d, opts); err != nil {
		return err
	}
	if err := validateValueDescriptions(d); err != nil {
		return err
	}
	if err := validateExtendedMultiplexing(d); err != nil {
		return err
	}
	return nil
}

// validateMessageBits checks, for every message, that no two signals'
// occupied bit sets intersect unless both are multiplexed with
// disjoint switch values (spec.md §4.5). Plain-vs-plain, plain-vs-mux,
// and switch-vs-anything overlaps are always rejected; two
// Multiplexed signals are allowed to overlap only when
// disjointMultiplexed finds their effective switch-value sets disjoint,
// since they are then never active in the same decode.
func validateMessageBits(d *Dbc) error {
	for _, m := range d.messages.All() {
		signals := m.Signals()
		primary, hasPrimary := primarySwitchName(signals)
		for i := 0; i < len(signals); i++ {
			for j := i + 1; j < len(signals); j++ {
				a, b := signals[i], signals[j]
				if !a.occupiedBits().intersects(b.occupiedBits()) {
					continue
				}
				if disjointMultiplexed(d, m.StoredID(), primary, hasPrimary, a, b) {
					continue
				}
				return errValidation(fmt.Sprintf(
					"signals %q and %q in message %q have overlapping bit ranges",
					a.Name(), b.Name(), m.Name()))
			}
		}
	}
	return nil
}

// disjointMultiplexed reports whether a and b are both Multiplexed
// signals whose effective switch-value sets can never both be
// satisfied at once, so their overlapping bits never collide in a
// single decode. Each signal's effective set is either its
// SG_MUL_VAL_ entry's ranges or, absent one, the single value from its
// own `m<v>` tag (spec.md §4.5's "effective switch-value sets are
// disjoint"). Two signals gated by different switch signals can be
// active simultaneously, so they are never considered disjoint.
func disjointMultiplexed(d *Dbc, messageID uint32, primary string, hasPrimary bool, a, b Signal) bool {
	ma, mb := a.Multiplex(), b.Multiplex()
	if ma.Kind() != MuxMultiplexed || mb.Kind() != MuxMultiplexed {
		return false
	}
	switchA, okA := switchNameFor(d, messageID, a, primary, hasPrimary)
	switchB, okB := switchNameFor(d, messageID, b, primary, hasPrimary)
	if !okA || !okB || switchA != switchB {
		return false
	}
	return !rangesOverlap(effectiveRanges(d, messageID, a), effectiveRanges(d, messageID, b))
}

// validateSenders checks that every message's sender is either
// Vector__XXX or a declared node, unless the file declares no nodes at
// all (a DBC with an empty BU_: commonly omits senders from tooling
// outside the file) or the caller set AllowUnknownSender.
func validateSenders(d *Dbc, opts Options) error {
	if opts.AllowUnknownSender || d.nodes.IsEmpty() {
		return nil
	}
	for _, m := range d.messages.All() {
		if m.Sender() == VectorXXX {
			continue
		}
		if !d.nodes.Contains(m.Sender()) {
			return errValidation(fmt.Sprintf(
				"message %q sender %q is not a declared node", m.Name(), m.Sender()))
		}
	}
	return nil
}

// validateValueDescriptions checks that every VAL_ entry refers to a
// message and signal that actually exist.
func validateValueDescriptions(d *Dbc) error {
	for _, key := range d.valueDescs.Keys() {
		m, ok := d.messages.Find(key.messageID)
		if !ok {
			return errValidation(fmt.Sprintf(
				"VAL_ references unknown message id %d", key.messageID))
		}
		if _, ok := m.FindSignal(key.signalName); !ok {
			return errValidation(fmt.Sprintf(
				"VAL_ references unknown signal %q in message %q", key.signalName, m.Name()))
		}
	}
	return nil
}

// validateExtendedMultiplexing checks that every SG_MUL_VAL_ entry
// refers to an existing message, and that both the multiplexed and
// switch signal names it names exist on that message.
func validateExtendedMultiplexing(d *Dbc) error {
	for _, e := range d.extMux.All() {
		m, ok := d.messages.Find(e.MessageID)
		if !ok {
			return errValidation(fmt.Sprintf(
				"SG_MUL_VAL_ references unknown message id %d", e.MessageID))
		}
		if _, ok := m.FindSignal(e.MultiplexedName); !ok {
			return errValidation(fmt.Sprintf(
				"SG_MUL_VAL_ references unknown signal %q in message %q", e.MultiplexedName, m.Name()))
		}
		if _, ok := m.FindSignal(e.SwitchName); !ok {
			return errValidation(fmt.Sprintf(
				"SG_MUL_VAL_ references unknown switch signal %q in message %q", e.SwitchName, m.Name()))
		}
	}
	return nil
}
