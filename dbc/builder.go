package dbc

// This file implements the fluent builder API from spec.md §6.2: the
// only way to construct or modify a Dbc/Message/Signal outside of
// Parse, since every entity type is immutable once built. Each builder
// accumulates fields and defers validation to the same constructor
// the parser uses, so a builder-constructed value and a parsed value
// obey identical invariants.

// SignalBuilder accumulates SignalFields before calling NewSignal.
type SignalBuilder struct {
	fields SignalFields
}

// NewSignalBuilder starts a SignalBuilder with the given name; other
// fields default to their zero value (Plain multiplexing, BigEndian
// order, Integer value type), except Receivers, which defaults to
// Broadcast (Vector__XXX).
func NewSignalBuilder(name string) *SignalBuilder {
	return &SignalBuilder{fields: SignalFields{Name: name, Receivers: Broadcast()}}
}

func (b *SignalBuilder) StartBit(v uint16) *SignalBuilder  { b.fields.StartBit = v; return b }
func (b *SignalBuilder) Length(v uint16) *SignalBuilder     { b.fields.Length = v; return b }
func (b *SignalBuilder) ByteOrder(v ByteOrder) *SignalBuilder { b.fields.ByteOrder = v; return b }
func (b *SignalBuilder) Unsigned(v bool) *SignalBuilder     { b.fields.Unsigned = v; return b }
func (b *SignalBuilder) Factor(v float64) *SignalBuilder    { b.fields.Factor = v; return b }
func (b *SignalBuilder) Offset(v float64) *SignalBuilder    { b.fields.Offset = v; return b }
func (b *SignalBuilder) Range(min, max float64) *SignalBuilder {
	b.fields.Min, b.fields.Max = min, max
	return b
}
func (b *SignalBuilder) Unit(v string) *SignalBuilder       { b.fields.Unit = v; return b }
func (b *SignalBuilder) Receivers(v Receivers) *SignalBuilder { b.fields.Receivers = v; return b }
func (b *SignalBuilder) Multiplex(v MultiplexerRole) *SignalBuilder {
	b.fields.Multiplex = v
	return b
}
func (b *SignalBuilder) ValueType(v ValueType) *SignalBuilder { b.fields.ValueType = v; return b }

// Build validates the accumulated fields and constructs a Signal.
func (b *SignalBuilder) Build(limits Limits) (Signal, error) {
	return NewSignal(b.fields, limits)
}

// MessageBuilder accumulates MessageFields before calling NewMessage.
type MessageBuilder struct {
	fields MessageFields
}

// NewMessageBuilder starts a MessageBuilder for a message with the
// given raw ID and name.
func NewMessageBuilder(id uint32, name string) *MessageBuilder {
	return &MessageBuilder{fields: MessageFields{ID: id, Name: name}}
}

func (b *MessageBuilder) Extended(v bool) *MessageBuilder { b.fields.IsExtended = v; return b }
func (b *MessageBuilder) DLC(v uint8) *MessageBuilder     { b.fields.DLC = v; return b }
func (b *MessageBuilder) Sender(v string) *MessageBuilder { b.fields.Sender = v; return b }

// AddSignal appends a signal to the message under construction.
func (b *MessageBuilder) AddSignal(s Signal) *MessageBuilder {
	b.fields.Signals = append(b.fields.Signals, s)
	return b
}

// Build validates the accumulated fields and constructs a Message.
func (b *MessageBuilder) Build(limits Limits) (Message, error) {
	return NewMessage(b.fields, limits)
}

// DbcBuilder accumulates a whole Dbc's entities before validating the
// result exactly as ParseWithOptions does.
type DbcBuilder struct {
	version    Version
	nodeNames  []string
	messages   []Message
	valueDescs map[valueDescriptionKey][]ValueDescription
	extMux     []ExtendedMultiplexing
	opts       Options
}

// NewDbcBuilder starts an empty DbcBuilder under the given options.
func NewDbcBuilder(opts Options) *DbcBuilder {
	return &DbcBuilder{
		valueDescs: make(map[valueDescriptionKey][]ValueDescription),
		opts:       opts,
	}
}

func (b *DbcBuilder) Version(text string) *DbcBuilder {
	v, err := NewVersion(text, b.limits())
	if err == nil {
		b.version = v
	}
	return b
}

func (b *DbcBuilder) Nodes(names ...string) *DbcBuilder {
	b.nodeNames = append(b.nodeNames, names...)
	return b
}

func (b *DbcBuilder) AddMessage(m Message) *DbcBuilder {
	b.messages = append(b.messages, m)
	return b
}

func (b *DbcBuilder) AddValueDescription(messageID uint32, signalName string, value uint64, label string) *DbcBuilder {
	key := valueDescriptionKey{messageID: messageID, signalName: signalName}
	b.valueDescs[key] = append(b.valueDescs[key], ValueDescription{Value: value, Label: label})
	return b
}

func (b *DbcBuilder) AddExtendedMultiplexing(e ExtendedMultiplexing) *DbcBuilder {
	b.extMux = append(b.extMux, e)
	return b
}

func (b *DbcBuilder) limits() Limits {
	limits := b.opts.Limits
	if (limits == Limits{}) {
		return DefaultLimits()
	}
	return limits
}

// Build validates every accumulated entity and cross-entity invariant,
// returning a fully validated Dbc.
func (b *DbcBuilder) Build() (*Dbc, error) {
	limits := b.limits()

	nodes, err := NewNodes(b.nodeNames, limits)
	if err != nil {
		return nil, err
	}
	messages, err := NewMessages(b.messages, limits)
	if err != nil {
		return nil, err
	}
	valueDescs, err := NewValueDescriptions(b.valueDescs, limits)
	if err != nil {
		return nil, err
	}
	extMux, err := NewExtendedMultiplexingTable(b.extMux, limits)
	if err != nil {
		return nil, err
	}

	d := &Dbc{
		version:    b.version,
		nodes:      nodes,
		messages:   messages,
		valueDescs: valueDescs,
		extMux:     extMux,
		limits:     limits,
	}
	if err := validate(d, b.opts); err != nil {
		return nil, err
	}
	return d, nil
}
