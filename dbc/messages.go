package dbc

// Messages is the ordered, bounded collection of a Dbc's message
// definitions. IDs are unique when compared as StoredID (so a
// standard and an extended message sharing the same raw 29-bit value
// are distinct, per spec.md §6.1); names are unique independently.
type Messages struct {
	items []Message
	byID  map[uint32]int
	byName map[string]int
}

// NewMessages validates capacity and uniqueness (DuplicateID,
// DuplicateName) and constructs an immutable Messages collection.
func NewMessages(items []Message, limits Limits) (Messages, error) {
	if len(items) > limits.MaxMessages {
		return Messages{}, errCapacityExceeded("Messages", limits.MaxMessages)
	}
	byID := make(map[uint32]int, len(items))
	byName := make(map[string]int, len(items))
	ordered := make([]Message, len(items))
	for i, m := range items {
		if _, dup := byID[m.StoredID()]; dup {
			return Messages{}, errDuplicateID()
		}
		if _, dup := byName[m.Name()]; dup {
			return Messages{}, errDuplicateName()
		}
		byID[m.StoredID()] = i
		byName[m.Name()] = i
		ordered[i] = m
	}
	return Messages{items: ordered, byID: byID, byName: byName}, nil
}

// Len returns the number of messages.
func (ms Messages) Len() int { return len(ms.items) }

// All returns the messages in declaration order. The returned slice
// is a defensive copy.
func (ms Messages) All() []Message {
	out := make([]Message, len(ms.items))
	copy(out, ms.items)
	return out
}

// At returns the message at position i in declaration order.
func (ms Messages) At(i int) (Message, bool) {
	if i < 0 || i >= len(ms.items) {
		return Message{}, false
	}
	return ms.items[i], true
}

// Find looks up a message by its stored ID (raw ID OR-ed with the
// extended flag when applicable) using the index built at
// construction time.
func (ms Messages) Find(storedID uint32) (Message, bool) {
	i, ok := ms.byID[storedID]
	if !ok {
		return Message{}, false
	}
	return ms.items[i], true
}

// findLinear looks up a message by stored ID with a plain scan,
// bypassing the index. Find does not call it; it is available as a
// fallback path for a Messages value without a populated index (not
// currently possible via NewMessages).
func (ms Messages) findLinear(storedID uint32) (Message, bool) {
	for _, m := range ms.items {
		if m.StoredID() == storedID {
			return m, true
		}
	}
	return Message{}, false
}

// FindByName looks up a message by name.
func (ms Messages) FindByName(name string) (Message, bool) {
	i, ok := ms.byName[name]
	if !ok {
		return Message{}, false
	}
	return ms.items[i], true
}

// withMessage returns a copy of ms with the message at storedID
// replaced. storedID must already be present.
func (ms Messages) withMessage(storedID uint32, updated Message) Messages {
	i := ms.byID[storedID]
	items := make([]Message, len(ms.items))
	copy(items, ms.items)
	items[i] = updated
	return Messages{items: items, byID: ms.byID, byName: ms.byName}
}
