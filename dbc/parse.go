package dbc

// This file implements the Entity Parsers from spec.md §4.2/§4.3: one
// parser function per DBC construct, dispatched from a single
// section-keyword loop. The dispatch shape (read a section keyword,
// branch on it, tolerate anything unrecognized) generalizes the
// teacher's own `Parser.Parse()` line-classification loop in the
// now-removed `dbc/parse.go`, which branched on a line's upper-cased
// prefix; this version dispatches on the scanner's byte cursor so a
// single BO_ section can span many lines of nested SG_ signals without
// re-joining lines first.

// allBoundaries are the section keywords that end a skipped section:
// the ones this parser fully consumes (VERSION, BU_, BO_, VAL_,
// SIG_VALTYPE_, SG_MUL_VAL_) and the tolerated ones it discards (NS_,
// BS_, CM_, BA_*, EV_, VAL_TABLE_, SGTYPE_, SIG_GROUP_, BO_TX_BU_).
// Anything unrecognized is skipped up to the next empty line or the
// next line that starts with one of these keywords.
var allBoundaries = []string{
	"VERSION", "NS_", "BS_", "BU_", "BO_", "VAL_", "SIG_VALTYPE_",
	"SG_MUL_VAL_", "CM_", "BA_", "EV_", "VAL_TABLE_", "SGTYPE_",
	"SIG_GROUP_", "BO_TX_BU_",
}

type parsedDbc struct {
	version    Version
	nodes      Nodes
	messages   Messages
	valueDescs ValueDescriptions
	extMux     ExtendedMultiplexingTable
}

// parseFile parses a complete DBC document. It does not run
// cross-entity validation (validate.go does that); a successful parse
// only guarantees each entity's own local invariants (spec.md §3
// invariants 2 and 4) are satisfied.
func parseFile(data []byte, limits Limits) (parsedDbc, error) {
	s := newScanner(data)

	version := Version{}
	nodes := Nodes{}
	var messageFields []MessageFields
	valDescEntries := make(map[valueDescriptionKey][]ValueDescription)
	var extMuxEntries []ExtendedMultiplexing
	sigValTypes := make(map[valueDescriptionKey]ValueType)

	for {
		s.skipWhitespaceAndComments()
		if s.eof() {
			break
		}
		switch {
		case s.lookingAt("VERSION"):
			v, err := parseVersion(s, limits)
			if err != nil {
				return parsedDbc{}, err
			}
			version = v
		case s.lookingAt("BU_"):
			n, err := parseNodes(s, limits)
			if err != nil {
				return parsedDbc{}, err
			}
			nodes = n
		case s.lookingAt("BO_") && !s.lookingAt("BO_TX_BU_"):
			mf, err := parseMessage(s, limits)
			if err != nil {
				return parsedDbc{}, err
			}
			messageFields = append(messageFields, mf)
		case s.lookingAt("VAL_") && !s.lookingAt("VAL_TABLE_"):
			key, entries, err := parseValueDescriptions(s, limits)
			if err != nil {
				return parsedDbc{}, err
			}
			valDescEntries[key] = append(valDescEntries[key], entries...)
		case s.lookingAt("SIG_VALTYPE_"):
			key, vt, err := parseSigValType(s)
			if err != nil {
				return parsedDbc{}, err
			}
			sigValTypes[key] = vt
		case s.lookingAt("SG_MUL_VAL_"):
			entry, err := parseExtendedMultiplexing(s)
			if err != nil {
				return parsedDbc{}, err
			}
			extMuxEntries = append(extMuxEntries, entry)
		default:
			before := s.pos
			s.skipToNextBoundary(allBoundaries)
			if s.pos == before && !s.eof() {
				// Not a recognized construct and not a tolerated
				// section boundary either: skip this one line so
				// stray text can never stall the loop.
				advancedPastUnknown(s)
			}
		}
	}

	messageFields = applySigValTypes(messageFields, sigValTypes)

	messages, err := buildMessages(messageFields, limits)
	if err != nil {
		return parsedDbc{}, err
	}

	valueDescs, err := NewValueDescriptions(valDescEntries, limits)
	if err != nil {
		return parsedDbc{}, err
	}

	extMux, err := NewExtendedMultiplexingTable(extMuxEntries, limits)
	if err != nil {
		return parsedDbc{}, err
	}

	return parsedDbc{
		version:    version,
		nodes:      nodes,
		messages:   messages,
		valueDescs: valueDescs,
		extMux:     extMux,
	}, nil
}

// advancedPastUnknown consumes one line so an unrecognized, non-section
// construct (e.g. a bare comment line skipToNextBoundary already
// stopped in front of, or stray text) cannot stall the loop forever.
func advancedPastUnknown(s *scanner) {
	for !s.eof() {
		c, _ := s.advance()
		if c == '\n' {
			return
		}
	}
}

func buildMessages(fields []MessageFields, limits Limits) (Messages, error) {
	msgs := make([]Message, 0, len(fields))
	for _, mf := range fields {
		m, err := NewMessage(mf, limits)
		if err != nil {
			return Messages{}, err
		}
		msgs = append(msgs, m)
	}
	return NewMessages(msgs, limits)
}

// applySigValTypes folds parsed SIG_VALTYPE_ overrides into their
// target signal's ValueType before the message (and its bit-range
// checks) are constructed, since Signal is immutable once built.
func applySigValTypes(fields []MessageFields, overrides map[valueDescriptionKey]ValueType) []MessageFields {
	if len(overrides) == 0 {
		return fields
	}
	for mi, mf := range fields {
		changed := false
		signals := mf.Signals
		for si, sig := range signals {
			key := valueDescriptionKey{messageID: storedIDOf(mf), signalName: sig.Name()}
			if vt, ok := overrides[key]; ok {
				signals[si] = sig.withValueType(vt)
				changed = true
			}
		}
		if changed {
			fields[mi].Signals = signals
		}
	}
	return fields
}

func storedIDOf(mf MessageFields) uint32 {
	id := mf.ID
	if mf.IsExtended {
		id |= ExtendedIDFlag
	}
	return id
}

// parseVersion parses `VERSION "text"`.
func parseVersion(s *scanner, limits Limits) (Version, error) {
	if err := s.expect("VERSION"); err != nil {
		return Version{}, err
	}
	s.skipWhitespaceAndComments()
	text, err := s.takeQuotedString(limits.MaxNameSize)
	if err != nil {
		return Version{}, err
	}
	return NewVersion(text, limits)
}

// parseNodes parses `BU_: node1 node2 ...` up to end of line.
func parseNodes(s *scanner, limits Limits) (Nodes, error) {
	if err := s.expect("BU_"); err != nil {
		return Nodes{}, err
	}
	s.skipWhitespaceAndComments()
	if err := s.expect(":"); err != nil {
		return Nodes{}, err
	}
	var names []string
	for {
		skipLineWhitespace(s)
		if s.eof() {
			break
		}
		c, _ := s.peekByte()
		if c == '\n' || c == '\r' {
			break
		}
		if !isIdentStartByte(c) {
			break
		}
		name, err := s.takeIdentifier(limits.MaxNameSize)
		if err != nil {
			return Nodes{}, err
		}
		names = append(names, name)
	}
	return NewNodes(names, limits)
}

// skipLineWhitespace consumes spaces and tabs only (not newlines),
// used while scanning a space-separated list that must stop at end of
// line.
func skipLineWhitespace(s *scanner) {
	for !s.eof() {
		c, _ := s.peekByte()
		if c == ' ' || c == '\t' {
			s.advance()
			continue
		}
		return
	}
}

// parseMessage parses a `BO_ <id> <name>: <dlc> <sender>` header
// followed by zero or more nested `SG_` lines.
func parseMessage(s *scanner, limits Limits) (MessageFields, error) {
	if err := s.expect("BO_"); err != nil {
		return MessageFields{}, err
	}
	s.skipWhitespaceAndComments()
	rawID, err := s.takeUnsigned()
	if err != nil {
		return MessageFields{}, err
	}
	s.skipWhitespaceAndComments()
	name, err := s.takeIdentifier(limits.MaxNameSize)
	if err != nil {
		return MessageFields{}, err
	}
	s.skipWhitespaceAndComments()
	if err := s.expect(":"); err != nil {
		return MessageFields{}, err
	}
	s.skipWhitespaceAndComments()
	dlc, err := s.takeUnsigned()
	if err != nil {
		return MessageFields{}, err
	}
	s.skipWhitespaceAndComments()
	sender, err := s.takeIdentifier(limits.MaxNameSize)
	if err != nil {
		return MessageFields{}, err
	}

	isExtended := rawID&uint64(ExtendedIDFlag) != 0
	id := uint32(rawID &^ uint64(ExtendedIDFlag))

	var signals []Signal
	for {
		s.skipWhitespaceAndComments()
		if !s.lookingAt("SG_") || s.lookingAt("SG_MUL_VAL_") {
			break
		}
		sig, err := parseSignal(s, limits)
		if err != nil {
			return MessageFields{}, err
		}
		signals = append(signals, sig)
	}

	return MessageFields{
		ID:         id,
		IsExtended: isExtended,
		Name:       name,
		DLC:        uint8(dlc),
		Sender:     sender,
		Signals:    signals,
	}, nil
}

// parseSignal parses one `SG_` line:
//
//	SG_ name[mux] : start|length@order(+|-) (factor,offset) [min|max] "unit" receivers
func parseSignal(s *scanner, limits Limits) (Signal, error) {
	if err := s.expect("SG_"); err != nil {
		return Signal{}, err
	}
	s.skipWhitespaceAndComments()
	name, err := s.takeIdentifier(limits.MaxNameSize)
	if err != nil {
		return Signal{}, err
	}

	skipLineWhitespace(s)
	mux := Plain()
	if c, ok := s.peekByte(); ok && (c == 'M' || c == 'm') {
		mux, err = parseMultiplexerTag(s)
		if err != nil {
			return Signal{}, err
		}
	}

	s.skipWhitespaceAndComments()
	if err := s.expect(":"); err != nil {
		return Signal{}, err
	}
	s.skipWhitespaceAndComments()
	startBit, err := s.takeUnsigned()
	if err != nil {
		return Signal{}, err
	}
	if err := s.expect("|"); err != nil {
		return Signal{}, err
	}
	length, err := s.takeUnsigned()
	if err != nil {
		return Signal{}, err
	}
	if err := s.expect("@"); err != nil {
		return Signal{}, err
	}
	orderByte, ok := s.advance()
	if !ok {
		return Signal{}, errUnexpectedEOF(s.line)
	}
	var order ByteOrder
	switch orderByte {
	case '0':
		order = BigEndian
	case '1':
		order = LittleEndian
	default:
		return Signal{}, errInvalidChar(orderByte, s.line)
	}
	signByte, ok := s.advance()
	if !ok {
		return Signal{}, errUnexpectedEOF(s.line)
	}
	var unsigned bool
	switch signByte {
	case '+':
		unsigned = true
	case '-':
		unsigned = false
	default:
		return Signal{}, errInvalidChar(signByte, s.line)
	}

	s.skipWhitespaceAndComments()
	if err := s.expect("("); err != nil {
		return Signal{}, err
	}
	factor, err := s.takeDouble()
	if err != nil {
		return Signal{}, err
	}
	if err := s.expect(","); err != nil {
		return Signal{}, err
	}
	offset, err := s.takeDouble()
	if err != nil {
		return Signal{}, err
	}
	if err := s.expect(")"); err != nil {
		return Signal{}, err
	}

	s.skipWhitespaceAndComments()
	if err := s.expect("["); err != nil {
		return Signal{}, err
	}
	min, err := s.takeDouble()
	if err != nil {
		return Signal{}, err
	}
	if err := s.expect("|"); err != nil {
		return Signal{}, err
	}
	max, err := s.takeDouble()
	if err != nil {
		return Signal{}, err
	}
	if err := s.expect("]"); err != nil {
		return Signal{}, err
	}

	s.skipWhitespaceAndComments()
	unit, err := s.takeQuotedString(limits.MaxNameSize)
	if err != nil {
		return Signal{}, err
	}

	s.skipWhitespaceAndComments()
	receivers, err := parseReceivers(s, limits)
	if err != nil {
		return Signal{}, err
	}

	return NewSignal(SignalFields{
		Name:      name,
		StartBit:  uint16(startBit),
		Length:    uint16(length),
		ByteOrder: order,
		Unsigned:  unsigned,
		Factor:    factor,
		Offset:    offset,
		Min:       min,
		Max:       max,
		Unit:      unit,
		Receivers: receivers,
		Multiplex: mux,
		ValueType: Integer,
	}, limits)
}

// parseMultiplexerTag parses the optional mux tag that follows a signal
// name after a separating space: `M` (switch), `m<digits>` (multiplexed), or `m<digits>M`
// (a multiplexed signal that is itself also a nested switch — the
// trailing M is accepted for grammar tolerance and otherwise has no
// effect, since nested nested-multiplexer groups are outside this
// library's scope).
func parseMultiplexerTag(s *scanner) (MultiplexerRole, error) {
	c, _ := s.peekByte()
	if c == 'M' {
		s.advance()
		return Switch(), nil
	}
	s.advance() // 'm'
	value, err := s.takeUnsigned()
	if err != nil {
		return MultiplexerRole{}, err
	}
	if c2, ok := s.peekByte(); ok && c2 == 'M' {
		s.advance()
	}
	return Multiplexed(uint32(value)), nil
}

// parseReceivers parses the trailing receiver list of a signal line:
// Vector__XXX, or one or more node identifiers separated by either
// commas or whitespace (both forms are accepted on input per
// DESIGN.md's Open Question #2; ToText always emits comma-separated).
func parseReceivers(s *scanner, limits Limits) (Receivers, error) {
	first, err := s.takeIdentifier(limits.MaxNameSize)
	if err != nil {
		return Receivers{}, err
	}
	if first == VectorXXX {
		return Broadcast(), nil
	}
	names := []string{first}
	for {
		save := s.pos
		saveLine := s.line
		skipLineWhitespace(s)
		if s.lookingAt(",") {
			s.advance()
			skipLineWhitespace(s)
		} else if s.pos != save {
			// whitespace-only separator consumed; only continue if an
			// identifier actually follows
		} else {
			break
		}
		if c, ok := s.peekByte(); !ok || !isIdentStartByte(c) {
			s.pos = save
			s.line = saveLine
			break
		}
		name, err := s.takeIdentifier(limits.MaxNameSize)
		if err != nil {
			return Receivers{}, err
		}
		names = append(names, name)
	}
	return NewReceiverNodes(names, limits)
}

// parseValueDescriptions parses `VAL_ <msgid> <signal> <v> "<label>" ... ;`.
func parseValueDescriptions(s *scanner, limits Limits) (valueDescriptionKey, []ValueDescription, error) {
	if err := s.expect("VAL_"); err != nil {
		return valueDescriptionKey{}, nil, err
	}
	s.skipWhitespaceAndComments()
	rawID, err := s.takeUnsigned()
	if err != nil {
		return valueDescriptionKey{}, nil, err
	}
	s.skipWhitespaceAndComments()
	sigName, err := s.takeIdentifier(limits.MaxNameSize)
	if err != nil {
		return valueDescriptionKey{}, nil, err
	}

	var entries []ValueDescription
	for {
		s.skipWhitespaceAndComments()
		if s.lookingAt(";") {
			s.advance()
			break
		}
		value, err := s.takeUnsigned()
		if err != nil {
			return valueDescriptionKey{}, nil, err
		}
		s.skipWhitespaceAndComments()
		label, err := s.takeQuotedString(limits.MaxNameSize)
		if err != nil {
			return valueDescriptionKey{}, nil, err
		}
		entries = append(entries, ValueDescription{Value: value, Label: label})
	}

	key := valueDescriptionKey{messageID: uint32(rawID), signalName: sigName}
	return key, entries, nil
}

// parseSigValType parses `SIG_VALTYPE_ <msgid> <signal> : <type> ;`.
func parseSigValType(s *scanner) (valueDescriptionKey, ValueType, error) {
	if err := s.expect("SIG_VALTYPE_"); err != nil {
		return valueDescriptionKey{}, 0, err
	}
	s.skipWhitespaceAndComments()
	rawID, err := s.takeUnsigned()
	if err != nil {
		return valueDescriptionKey{}, 0, err
	}
	s.skipWhitespaceAndComments()
	sigName, err := s.takeIdentifier(64)
	if err != nil {
		return valueDescriptionKey{}, 0, err
	}
	s.skipWhitespaceAndComments()
	if err := s.expect(":"); err != nil {
		return valueDescriptionKey{}, 0, err
	}
	s.skipWhitespaceAndComments()
	code, err := s.takeUnsigned()
	if err != nil {
		return valueDescriptionKey{}, 0, err
	}
	s.skipWhitespaceAndComments()
	if err := s.expect(";"); err != nil {
		return valueDescriptionKey{}, 0, err
	}
	var vt ValueType
	switch code {
	case 1:
		vt = Float32
	case 2:
		vt = Float64
	default:
		vt = Integer
	}
	return valueDescriptionKey{messageID: uint32(rawID), signalName: sigName}, vt, nil
}

// parseExtendedMultiplexing parses
// `SG_MUL_VAL_ <msgid> <muxed_signal> <switch_signal> <lo>-<hi>[,<lo>-<hi>...] ;`.
func parseExtendedMultiplexing(s *scanner) (ExtendedMultiplexing, error) {
	if err := s.expect("SG_MUL_VAL_"); err != nil {
		return ExtendedMultiplexing{}, err
	}
	s.skipWhitespaceAndComments()
	rawID, err := s.takeUnsigned()
	if err != nil {
		return ExtendedMultiplexing{}, err
	}
	s.skipWhitespaceAndComments()
	muxed, err := s.takeIdentifier(64)
	if err != nil {
		return ExtendedMultiplexing{}, err
	}
	s.skipWhitespaceAndComments()
	switchName, err := s.takeIdentifier(64)
	if err != nil {
		return ExtendedMultiplexing{}, err
	}

	var ranges []ExtRange
	for {
		s.skipWhitespaceAndComments()
		lo, err := s.takeUnsigned()
		if err != nil {
			return ExtendedMultiplexing{}, err
		}
		if err := s.expect("-"); err != nil {
			return ExtendedMultiplexing{}, err
		}
		hi, err := s.takeUnsigned()
		if err != nil {
			return ExtendedMultiplexing{}, err
		}
		ranges = append(ranges, ExtRange{Lo: uint32(lo), Hi: uint32(hi)})
		s.skipWhitespaceAndComments()
		if s.lookingAt(",") {
			s.advance()
			continue
		}
		break
	}
	s.skipWhitespaceAndComments()
	if err := s.expect(";"); err != nil {
		return ExtendedMultiplexing{}, err
	}

	return ExtendedMultiplexing{
		MessageID:       uint32(rawID),
		MultiplexedName: muxed,
		SwitchName:      switchName,
		Ranges:          ranges,
	}, nil
}
