package dbc

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// serialize renders d to the canonical DBC text form from spec.md
// §4.7: VERSION, an empty `NS_ :` line, an empty BS_: line (this library carries no bit
// timing model, so it is always emitted empty, matching how the
// teacher's own `parse.go` tolerated but never populated one), BU_:,
// then BO_/SG_ blocks in message order, then VAL_, SIG_VALTYPE_, and
// SG_MUL_VAL_ sections. Doubles use `strconv.FormatFloat(v, 'g', -1,
// 64)`, the standard library's shortest-round-trip formatter.
func serialize(d *Dbc) string {
	var b strings.Builder

	fmt.Fprintf(&b, "VERSION %q\n\n", d.version.Text())
	b.WriteString("NS_ :\n\n")
	b.WriteString("BS_:\n\n")
	fmt.Fprintf(&b, "BU_: %s\n\n", strings.Join(d.nodes.Names(), " "))

	for _, m := range d.messages.All() {
		writeMessage(&b, m)
	}

	writeValueDescriptions(&b, d)
	writeSigValTypes(&b, d)
	writeExtendedMultiplexing(&b, d)

	return b.String()
}

func writeMessage(b *strings.Builder, m Message) {
	id := m.ID()
	if m.IsExtended() {
		id |= ExtendedIDFlag
	}
	fmt.Fprintf(b, "BO_ %d %s: %d %s\n", id, m.Name(), m.DLC(), m.Sender())
	for _, sig := range m.Signals() {
		writeSignal(b, sig)
	}
	b.WriteString("\n")
}

func writeSignal(b *strings.Builder, s Signal) {
	mux := muxTagText(s.Multiplex())
	order := byteOrderCode(s.ByteOrder())
	sign := "-"
	if s.Unsigned() {
		sign = "+"
	}
	fmt.Fprintf(b, " SG_ %s%s : %d|%d@%d%s (%s,%s) [%s|%s] %q %s\n",
		s.Name(), mux,
		s.StartBit(), s.Length(), order, sign,
		formatDouble(s.Factor()), formatDouble(s.Offset()),
		formatDouble(s.Min()), formatDouble(s.Max()),
		s.Unit(),
		receiversText(s.Receivers()),
	)
}

func muxTagText(m MultiplexerRole) string {
	switch m.Kind() {
	case MuxSwitch:
		return " M"
	case MuxMultiplexed:
		return fmt.Sprintf(" m%d", m.Value())
	default:
		return ""
	}
}

func byteOrderCode(o ByteOrder) int {
	if o == LittleEndian {
		return 1
	}
	return 0
}

func receiversText(r Receivers) string {
	switch r.Kind() {
	case ReceiversBroadcast:
		return VectorXXX
	case ReceiversNone:
		return VectorXXX
	default:
		return strings.Join(r.Nodes(), ",")
	}
}

func formatDouble(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func writeValueDescriptions(b *strings.Builder, d *Dbc) {
	keys := d.valueDescs.Keys()
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].messageID != keys[j].messageID {
			return keys[i].messageID < keys[j].messageID
		}
		return keys[i].signalName < keys[j].signalName
	})
	for _, key := range keys {
		entries := d.valueDescs.For(key.messageID, key.signalName)
		sort.Slice(entries, func(i, j int) bool { return entries[i].Value < entries[j].Value })
		fmt.Fprintf(b, "VAL_ %d %s", key.messageID, key.signalName)
		for _, e := range entries {
			fmt.Fprintf(b, " %d %q", e.Value, e.Label)
		}
		b.WriteString(" ;\n")
	}
	if len(keys) > 0 {
		b.WriteString("\n")
	}
}

func writeSigValTypes(b *strings.Builder, d *Dbc) {
	for _, m := range d.messages.All() {
		for _, sig := range m.Signals() {
			code := 0
			switch sig.ValueType() {
			case Float32:
				code = 1
			case Float64:
				code = 2
			default:
				continue
			}
			fmt.Fprintf(b, "SIG_VALTYPE_ %d %s : %d;\n", m.StoredID(), sig.Name(), code)
		}
	}
}

func writeExtendedMultiplexing(b *strings.Builder, d *Dbc) {
	for _, e := range d.extMux.All() {
		fmt.Fprintf(b, "SG_MUL_VAL_ %d %s %s ", e.MessageID, e.MultiplexedName, e.SwitchName)
		for i, r := range e.Ranges {
			if i > 0 {
				b.WriteString(",")
			}
			fmt.Fprintf(b, "%d-%d", r.Lo, r.Hi)
		}
		b.WriteString(";\n")
	}
}
