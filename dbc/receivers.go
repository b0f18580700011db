package dbc

// ReceiversKind discriminates the Receivers sum type from spec.md §3:
// {Broadcast, None, Nodes(list)}.
type ReceiversKind int

const (
	// ReceiversBroadcast denotes the reserved token Vector__XXX as
	// written in a signal line — "no specific receivers".
	ReceiversBroadcast ReceiversKind = iota
	// ReceiversNone denotes an explicitly empty receiver set,
	// constructible only through the builder API (the text grammar
	// always requires at least the Vector__XXX token).
	ReceiversNone
	// ReceiversNodes denotes an explicit, non-empty list of receiver
	// node identifiers.
	ReceiversNodes
)

// Receivers is the per-signal receiver set. The Nodes variant holds at
// most limits.MaxReceiverNodes identifiers; they need not appear in
// the global node list (lenient per spec.md §3). No Options setting
// checks receivers against the node list.
type Receivers struct {
	kind  ReceiversKind
	nodes []string
}

// Broadcast returns the reserved Vector__XXX receiver value.
func Broadcast() Receivers { return Receivers{kind: ReceiversBroadcast} }

// NoReceivers returns an explicitly empty receiver set.
func NoReceivers() Receivers { return Receivers{kind: ReceiversNone} }

// NewReceiverNodes constructs a Nodes-variant Receivers value from an
// ordered, non-empty list of identifiers.
func NewReceiverNodes(nodes []string, limits Limits) (Receivers, error) {
	if len(nodes) == 0 {
		return Receivers{}, errExpected("receiver list must not be empty", 0)
	}
	if len(nodes) > limits.MaxReceiverNodes {
		return Receivers{}, errCapacityExceeded("Receivers", limits.MaxReceiverNodes)
	}
	cp := make([]string, len(nodes))
	copy(cp, nodes)
	return Receivers{kind: ReceiversNodes, nodes: cp}, nil
}

// Kind reports which variant this value holds.
func (r Receivers) Kind() ReceiversKind { return r.kind }

// Nodes returns the receiver node list for the Nodes variant, or nil
// for Broadcast/None.
func (r Receivers) Nodes() []string {
	if r.kind != ReceiversNodes {
		return nil
	}
	out := make([]string, len(r.nodes))
	copy(out, r.nodes)
	return out
}
