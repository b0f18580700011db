package dbc

// Nodes is the ordered set of distinct node identifiers declared by a
// BU_ line. Membership is case-sensitive; size is bounded by
// limits.MaxNodes. An empty Nodes value is valid (spec.md §3).
type Nodes struct {
	names []string
	index map[string]struct{}
}

// NewNodes constructs a Nodes set from an ordered list of identifiers,
// rejecting duplicates (DuplicateName) and lists longer than
// limits.MaxNodes (CapacityExceeded).
func NewNodes(names []string, limits Limits) (Nodes, error) {
	if len(names) > limits.MaxNodes {
		return Nodes{}, errCapacityExceeded("Nodes", limits.MaxNodes)
	}
	index := make(map[string]struct{}, len(names))
	ordered := make([]string, 0, len(names))
	for _, n := range names {
		if err := checkStringLength(n, limits.MaxNameSize); err != nil {
			return Nodes{}, err
		}
		if _, dup := index[n]; dup {
			return Nodes{}, errDuplicateName()
		}
		index[n] = struct{}{}
		ordered = append(ordered, n)
	}
	return Nodes{names: ordered, index: index}, nil
}

// Len returns the number of nodes.
func (n Nodes) Len() int { return len(n.names) }

// IsEmpty reports whether the node set is empty.
func (n Nodes) IsEmpty() bool { return len(n.names) == 0 }

// Contains reports whether name is a declared node, case-sensitively.
func (n Nodes) Contains(name string) bool {
	_, ok := n.index[name]
	return ok
}

// Names returns the nodes in declaration order. The returned slice is
// a defensive copy; mutating it does not affect the Nodes value.
func (n Nodes) Names() []string {
	out := make([]string, len(n.names))
	copy(out, n.names)
	return out
}

// At returns the node at position i in declaration order.
func (n Nodes) At(i int) (string, bool) {
	if i < 0 || i >= len(n.names) {
		return "", false
	}
	return n.names[i], true
}
