package dbc

// ByteOrder is a signal's bit layout convention. Per the Vector 1.0.1
// erratum (spec.md §4.3 edge-case policy), 0 is Motorola/big-endian
// and 1 is Intel/little-endian.
type ByteOrder int

const (
	BigEndian ByteOrder = 0
	LittleEndian ByteOrder = 1
)

func (b ByteOrder) String() string {
	if b == LittleEndian {
		return "LittleEndian"
	}
	return "BigEndian"
}

// ValueType is a signal's raw-value interpretation: a plain integer,
// or a bit-reinterpreted IEEE-754 float, per SIG_VALTYPE_ (spec.md
// §4.3).
type ValueType int

const (
	Integer ValueType = iota
	Float32
	Float64
)

// MuxKind discriminates the MultiplexerRole sum type from spec.md §3:
// {Plain, Switch, Multiplexed(u32)}.
type MuxKind int

const (
	MuxPlain MuxKind = iota
	MuxSwitch
	MuxMultiplexed
)

// MultiplexerRole is a signal's role in its message's multiplexing
// scheme.
type MultiplexerRole struct {
	kind  MuxKind
	value uint32
}

// Plain returns the MultiplexerRole for an ordinary, always-active signal.
func Plain() MultiplexerRole { return MultiplexerRole{kind: MuxPlain} }

// Switch returns the MultiplexerRole for a basic multiplexer switch signal.
func Switch() MultiplexerRole { return MultiplexerRole{kind: MuxSwitch} }

// Multiplexed returns the MultiplexerRole for a signal active only
// when the message's switch signal equals value.
func Multiplexed(value uint32) MultiplexerRole {
	return MultiplexerRole{kind: MuxMultiplexed, value: value}
}

// Kind reports which variant this role holds.
func (m MultiplexerRole) Kind() MuxKind { return m.kind }

// Value returns the switch value for the Multiplexed variant; zero
// for Plain/Switch.
func (m MultiplexerRole) Value() uint32 { return m.value }

// Signal is an immutable signal definition packed inside a Message.
// Construction (via the parser or SignalBuilder) runs the checks in
// spec.md §3 invariant 4: factor != 0, length in [1,64], min <= max.
type Signal struct {
	name      string
	startBit  uint16
	length    uint16
	byteOrder ByteOrder
	unsigned  bool
	factor    float64
	offset    float64
	min       float64
	max       float64
	unit      string
	receivers Receivers
	multiplex MultiplexerRole
	valueType ValueType
}

// SignalFields collects the fields needed to construct a Signal. It
// exists so the parser and SignalBuilder share one validating
// constructor.
type SignalFields struct {
	Name      string
	StartBit  uint16
	Length    uint16
	ByteOrder ByteOrder
	Unsigned  bool
	Factor    float64
	Offset    float64
	Min       float64
	Max       float64
	Unit      string
	Receivers Receivers
	Multiplex MultiplexerRole
	ValueType ValueType
}

// NewSignal validates fields against spec.md §3 invariant 4 and
// limits.MaxNameSize, and constructs an immutable Signal.
func NewSignal(f SignalFields, limits Limits) (Signal, error) {
	if err := checkStringLength(f.Name, limits.MaxNameSize); err != nil {
		return Signal{}, err
	}
	if f.Factor == 0 {
		return Signal{}, errValidation("signal factor must not be zero")
	}
	if f.Length < 1 || f.Length > 64 {
		return Signal{}, errValidation("signal length must be between 1 and 64 bits")
	}
	if f.Min > f.Max {
		return Signal{}, errValidation("signal min must not exceed max")
	}
	return Signal{
		name:      f.Name,
		startBit:  f.StartBit,
		length:    f.Length,
		byteOrder: f.ByteOrder,
		unsigned:  f.Unsigned,
		factor:    f.Factor,
		offset:    f.Offset,
		min:       f.Min,
		max:       f.Max,
		unit:      f.Unit,
		receivers: f.Receivers,
		multiplex: f.Multiplex,
		valueType: f.ValueType,
	}, nil
}

func (s Signal) Name() string               { return s.name }
func (s Signal) StartBit() uint16            { return s.startBit }
func (s Signal) Length() uint16              { return s.length }
func (s Signal) ByteOrder() ByteOrder         { return s.byteOrder }
func (s Signal) Unsigned() bool              { return s.unsigned }
func (s Signal) Factor() float64             { return s.factor }
func (s Signal) Offset() float64             { return s.offset }
func (s Signal) Min() float64                { return s.min }
func (s Signal) Max() float64                { return s.max }
func (s Signal) Unit() string                { return s.unit }
func (s Signal) Receivers() Receivers        { return s.receivers }
func (s Signal) Multiplex() MultiplexerRole  { return s.multiplex }
func (s Signal) ValueType() ValueType        { return s.valueType }

// withValueType returns a copy of s with its ValueType overridden; used
// when applying a SIG_VALTYPE_ entry during Dbc construction.
func (s Signal) withValueType(vt ValueType) Signal {
	s.valueType = vt
	return s
}

// occupiedBits returns the set of absolute bit positions s occupies,
// per the byte-order convention in spec.md §4.6. Used by the
// validator's overlap check, since a big-endian signal's positions
// are not always contiguous.
func (s Signal) occupiedBits() bitSet512 {
	return occupiedBits(s)
}

// maxBitPosition returns the highest absolute bit position s occupies,
// used to check a signal's range lies within a message's DLC.
func (s Signal) maxBitPosition() uint32 {
	return maxBitPosition(s)
}
