package dbc

// Message is an immutable CAN frame definition: an ID, name, DLC,
// sender, and an ordered list of signals. Signal names are unique
// within the message (spec.md §3 invariant 3); signal bit ranges must
// lie within [0, 8*dlc) except for the pseudo-message, and must not
// overlap unless both signals are multiplexed with disjoint switch
// value sets (checked by the validator, not at construction, since it
// requires comparing signals pairwise and cross-referencing extended
// multiplexing entries that may not exist yet while the message is
// being built).
type Message struct {
	storedID uint32
	name     string
	dlc      uint8
	sender   string
	signals  []Signal
}

// MessageFields collects the fields needed to construct a Message.
type MessageFields struct {
	// ID is the raw 29-bit ID for extended messages, or the full ID
	// for standard messages. Use IsExtended to request the §6.1
	// 0x80000000 flag be OR-ed in.
	ID         uint32
	IsExtended bool
	Name       string
	DLC        uint8
	Sender     string
	Signals    []Signal
}

// NewMessage validates fields against spec.md §3 invariants 2 and 3
// (name validity/length, DLC range, unique signal names, and
// within-DLC bit ranges for non-pseudo messages) and constructs an
// immutable Message. Bit-overlap and multiplexing cross-checks run at
// the Dbc/Validator level, not here, because they depend on other
// messages' extended multiplexing entries.
func NewMessage(f MessageFields, limits Limits) (Message, error) {
	if err := validateIdentifier(f.Name, limits.MaxNameSize); err != nil {
		return Message{}, err
	}
	if f.DLC > MaxDLC {
		return Message{}, errValidation("message dlc exceeds maximum")
	}
	if len(f.Signals) > limits.MaxSignalsPerMessage {
		return Message{}, errCapacityExceeded("Signals", limits.MaxSignalsPerMessage)
	}

	seen := make(map[string]struct{}, len(f.Signals))
	isPseudo := f.Name == PseudoMessageName && f.DLC == 0
	for _, sig := range f.Signals {
		if _, dup := seen[sig.name]; dup {
			return Message{}, errDuplicateName()
		}
		seen[sig.name] = struct{}{}

		if !isPseudo {
			if maxBitPosition(sig) >= uint32(f.DLC)*8 {
				return Message{}, errValidation("signal bit range exceeds message dlc")
			}
		}
	}

	id := f.ID
	if f.IsExtended {
		id |= ExtendedIDFlag
	}

	signals := make([]Signal, len(f.Signals))
	copy(signals, f.Signals)

	return Message{
		storedID: id,
		name:     f.Name,
		dlc:      f.DLC,
		sender:   f.Sender,
		signals:  signals,
	}, nil
}

// ID returns the raw message ID without the extended flag: the
// standard 11-bit ID, or the 29-bit ID for an extended message.
func (m Message) ID() uint32 { return m.storedID &^ ExtendedIDFlag }

// StoredID returns the ID as stored and matched against in lookups:
// the raw ID with bit 31 OR-ed in when IsExtended is true, per
// spec.md §6.1.
func (m Message) StoredID() uint32 { return m.storedID }

// IsExtended reports whether this message uses a 29-bit extended ID.
func (m Message) IsExtended() bool { return m.storedID&ExtendedIDFlag != 0 }

func (m Message) Name() string { return m.name }
func (m Message) DLC() uint8   { return m.dlc }
func (m Message) Sender() string { return m.sender }

// Signals returns the message's signals in declaration order. The
// returned slice is a defensive copy.
func (m Message) Signals() []Signal {
	out := make([]Signal, len(m.signals))
	copy(out, m.signals)
	return out
}

// FindSignal returns the named signal, if present.
func (m Message) FindSignal(name string) (Signal, bool) {
	for _, s := range m.signals {
		if s.name == name {
			return s, true
		}
	}
	return Signal{}, false
}

// IsPseudoMessage reports whether m is the reserved container for
// orphan signals (spec.md §4.3 edge-case policy).
func (m Message) IsPseudoMessage() bool {
	return m.name == PseudoMessageName && m.dlc == 0
}

// withSignals returns a copy of m with its signal list replaced.
func (m Message) withSignals(signals []Signal) Message {
	m.signals = signals
	return m
}

var reservedKeywords = map[string]struct{}{
	"VERSION": {}, "NS_": {}, "BS_": {}, "BU_": {}, "BO_": {}, "SG_": {},
	"CM_": {}, "VAL_": {}, "VAL_TABLE_": {}, "SIG_VALTYPE_": {},
	"SG_MUL_VAL_": {}, "EV_": {}, "BO_TX_BU_": {}, "SGTYPE_": {},
	"SIG_GROUP_": {},
}

// validateIdentifier enforces spec.md §3 invariant 2: a valid
// C-like identifier (first char letter/underscore, rest
// alphanumeric/underscore), no longer than maxLen, and not a reserved
// DBC keyword.
func validateIdentifier(name string, maxLen int) error {
	if name == "" {
		return errValidation("identifier must not be empty")
	}
	if len(name) > maxLen {
		return errMaxStrLength(maxLen, 0)
	}
	if !isIdentStartByte(name[0]) {
		return errValidation("identifier must start with a letter or underscore")
	}
	for i := 1; i < len(name); i++ {
		if !isIdentByte(name[i]) {
			return errValidation("identifier must contain only letters, digits, and underscores")
		}
	}
	upper := toUpperASCII(name)
	if _, reserved := reservedKeywords[upper]; reserved {
		return errValidation("identifier must not be a reserved DBC keyword")
	}
	return nil
}

func toUpperASCII(s string) string {
	b := make([]byte, len(s))
	for i := 0; i < len(s); i++ {
		b[i] = toUpperByte(s[i])
	}
	return string(b)
}
