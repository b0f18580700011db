package dbc

// Options configures leniency of cross-entity validation, resolving
// the Open Questions recorded in DESIGN.md: a BO_ sender that is not
// declared in BU_ is tolerated by default (matching how widely-seen
// vendor DBC files reference senders from tooling outside the file),
// and receiver lists may use either comma or space as a separator on
// input.
type Options struct {
	// StrictBoundaries is carried through from configuration but is not
	// consulted by validation: bit-range and overlap checks are the same
	// whichever way it is set. Off by default.
	StrictBoundaries bool

	// AllowUnknownSender accepts a BO_ sender name that is not present
	// in the file's BU_ node list (and is not Vector__XXX). On by
	// default; set false to require every sender be a declared node
	// whenever BU_ declares at least one node.
	AllowUnknownSender bool

	// Limits overrides the resource ceilings applied during parsing.
	// The zero value of Options uses DefaultLimits.
	Limits Limits
}

// DefaultOptions returns the lenient defaults Parse uses.
func DefaultOptions() Options {
	return Options{
		StrictBoundaries:   false,
		AllowUnknownSender: true,
		Limits:             DefaultLimits(),
	}
}

// Dbc is the immutable, validated in-memory model of a parsed or
// built DBC file (spec.md §3). There is no mutation API: changes go
// through a builder (DbcBuilder) that produces a new Dbc.
type Dbc struct {
	version    Version
	nodes      Nodes
	messages   Messages
	valueDescs ValueDescriptions
	extMux     ExtendedMultiplexingTable
	limits     Limits
}

// Parse reads a complete DBC file under the default, lenient options.
func Parse(data []byte) (*Dbc, error) {
	return ParseWithOptions(data, DefaultOptions())
}

// ParseWithOptions reads a complete DBC file, applying opts during
// both parsing (resource limits) and post-parse validation (sender
// strictness, boundary strictness).
func ParseWithOptions(data []byte, opts Options) (*Dbc, error) {
	limits := opts.Limits
	if (limits == Limits{}) {
		limits = DefaultLimits()
	}
	parsed, err := parseFile(data, limits)
	if err != nil {
		return nil, err
	}
	d := &Dbc{
		version:    parsed.version,
		nodes:      parsed.nodes,
		messages:   parsed.messages,
		valueDescs: parsed.valueDescs,
		extMux:     parsed.extMux,
		limits:     limits,
	}
	if err := validate(d, opts); err != nil {
		return nil, err
	}
	return d, nil
}

// Version returns the file's VERSION text.
func (d *Dbc) Version() Version { return d.version }

// Nodes returns the file's declared BU_ node set.
func (d *Dbc) Nodes() Nodes { return d.nodes }

// Messages returns the file's message collection.
func (d *Dbc) Messages() Messages { return d.messages }

// ValueDescriptions returns the file's VAL_ table.
func (d *Dbc) ValueDescriptions() ValueDescriptions { return d.valueDescs }

// ExtendedMultiplexing returns the file's SG_MUL_VAL_ table.
func (d *Dbc) ExtendedMultiplexing() ExtendedMultiplexingTable { return d.extMux }

// Limits returns the resource ceilings this Dbc was built under.
func (d *Dbc) Limits() Limits { return d.limits }

// FindMessage looks up a message by its stored ID (raw ID, OR-ed with
// the extended flag for extended messages).
func (d *Dbc) FindMessage(storedID uint32) (Message, bool) {
	return d.messages.Find(storedID)
}

// ToText renders d back to the canonical DBC text form described in
// spec.md §4.7.
func (d *Dbc) ToText() string {
	return serialize(d)
}
