package dbc

// This file resolves which switch signal gates a Multiplexed signal
// and which raw switch values activate it, folding a signal's own
// basic `m<v>` tag and any SG_MUL_VAL_ entry that names it into one
// answer. Both the codec (decode/encode) and the validator (bit-overlap
// disjointness) need this same resolution, so it lives here once
// rather than twice (spec.md §4.6 step 4's three-way switch/value/range
// rule; see original_source/src/dbc/validate.rs's
// `effective_switch_values` for the analogous cross-reference).

// primarySwitchName returns the name of the first MuxSwitch-kind
// signal among signals, in stored order. The plain multiplexing model
// allows at most one such signal per message.
func primarySwitchName(signals []Signal) (string, bool) {
	for _, sig := range signals {
		if sig.Multiplex().Kind() == MuxSwitch {
			return sig.Name(), true
		}
	}
	return "", false
}

// switchNameFor returns the name of the switch signal that gates sig:
// an SG_MUL_VAL_ entry's switch_signal if one covers sig, otherwise
// the message's primary switch.
func switchNameFor(d *Dbc, messageID uint32, sig Signal, primary string, hasPrimary bool) (string, bool) {
	if ext, ok := d.extMux.For(messageID, sig.Name()); ok {
		return ext.SwitchName, true
	}
	return primary, hasPrimary
}

// effectiveRanges returns the switch-value ranges that activate sig:
// an SG_MUL_VAL_ entry's ranges if one covers it, otherwise the single
// value from its own `m<v>` tag expressed as a one-value range.
func effectiveRanges(d *Dbc, messageID uint32, sig Signal) []ExtRange {
	if ext, ok := d.extMux.For(messageID, sig.Name()); ok {
		return ext.Ranges
	}
	v := sig.Multiplex().Value()
	return []ExtRange{{Lo: v, Hi: v}}
}

// rangesOverlap reports whether any range in a intersects any range
// in b.
func rangesOverlap(a, b []ExtRange) bool {
	for _, ra := range a {
		for _, rb := range b {
			if ra.Lo <= rb.Hi && rb.Lo <= ra.Hi {
				return true
			}
		}
	}
	return false
}

// multiplexActive reports whether switchValue activates sig: range
// membership when an SG_MUL_VAL_ entry covers sig, otherwise equality
// with its own `m<v>` tag.
func multiplexActive(d *Dbc, messageID uint32, sig Signal, switchValue uint32) bool {
	if ext, ok := d.extMux.For(messageID, sig.Name()); ok {
		return ext.Contains(switchValue)
	}
	return sig.Multiplex().Value() == switchValue
}
