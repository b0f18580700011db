package dbc

import "fmt"

// Kind identifies the category of an Error. Every failure the core can
// raise is one flat sum of kinds, each carrying the minimum useful
// context, per the error handling design: no recovery inside the
// core, no logging, the first error aborts the current operation.
type Kind int

const (
	// KindUnexpectedEOF means the scanner ran out of input mid-token.
	KindUnexpectedEOF Kind = iota
	// KindExpected means the scanner or a parser expected specific
	// syntax that was not present.
	KindExpected
	// KindInvalidChar means an identifier or literal contained a byte
	// that is not allowed at that position.
	KindInvalidChar
	// KindMaxStrLength means a scanned string exceeded MAX_NAME_SIZE
	// or another configured string ceiling.
	KindMaxStrLength
	// KindDuplicateID means two messages share a message ID.
	KindDuplicateID
	// KindDuplicateName means two entities share a name where names
	// must be unique (messages in a Dbc, signals in a Message, nodes
	// in Nodes).
	KindDuplicateName
	// KindCapacityExceeded means a bounded container would exceed its
	// configured capacity.
	KindCapacityExceeded
	// KindValidation means a cross-entity invariant failed after
	// parsing or building.
	KindValidation
	// KindUnknownID means decode/encode was asked for a message ID
	// that is not present in the Dbc.
	KindUnknownID
	// KindUnknownSignal means encode was asked to set a signal name
	// that does not exist on the target message.
	KindUnknownSignal
	// KindShortPayload means the payload is shorter than the
	// message's DLC.
	KindShortPayload
	// KindUnsupportedValueType means a float-typed signal's length is
	// neither 32 nor 64 bits.
	KindUnsupportedValueType
	// KindEncodeRange means a physical value does not fit the
	// signal's raw bit width.
	KindEncodeRange
	// KindMultiplexMismatch means encode was asked to write a signal
	// that is not active under the requested multiplexer context.
	KindMultiplexMismatch
)

func (k Kind) String() string {
	switch k {
	case KindUnexpectedEOF:
		return "UnexpectedEof"
	case KindExpected:
		return "Expected"
	case KindInvalidChar:
		return "InvalidChar"
	case KindMaxStrLength:
		return "MaxStrLength"
	case KindDuplicateID:
		return "DuplicateId"
	case KindDuplicateName:
		return "DuplicateName"
	case KindCapacityExceeded:
		return "CapacityExceeded"
	case KindValidation:
		return "Validation"
	case KindUnknownID:
		return "UnknownId"
	case KindUnknownSignal:
		return "UnknownSignal"
	case KindShortPayload:
		return "ShortPayload"
	case KindUnsupportedValueType:
		return "UnsupportedValueType"
	case KindEncodeRange:
		return "EncodeRange"
	case KindMultiplexMismatch:
		return "MultiplexMismatch"
	default:
		return "Unknown"
	}
}

// Error is the single error type raised anywhere in the core. It
// carries only the context listed for its Kind in spec.md §7: a line
// number for scanner/parser failures, a static reason string, and
// numeric context for length/payload mismatches.
type Error struct {
	Kind Kind

	// Reason is a short static message identifying the failing rule.
	// Populated for KindExpected and KindValidation.
	Reason string

	// Line is the 1-based input line the failure occurred on.
	// Populated for scanner/parser errors; zero for validator/codec
	// errors, which run after parsing and carry no line.
	Line int

	// Char is the offending byte, populated for KindInvalidChar.
	Char byte

	// Limit is the exceeded capacity or length ceiling, populated for
	// KindMaxStrLength and KindCapacityExceeded.
	Limit int

	// Container names which bounded container overflowed, populated
	// for KindCapacityExceeded.
	Container string

	// Expected/Got carry payload-length context for KindShortPayload.
	Expected int
	Got      int
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindUnexpectedEOF:
		return fmt.Sprintf("unexpected end of input at line %d", e.Line)
	case KindExpected:
		if e.Line > 0 {
			return fmt.Sprintf("%s at line %d", e.Reason, e.Line)
		}
		return e.Reason
	case KindInvalidChar:
		return fmt.Sprintf("invalid character %q at line %d", e.Char, e.Line)
	case KindMaxStrLength:
		return fmt.Sprintf("string exceeds maximum length %d at line %d", e.Limit, e.Line)
	case KindDuplicateID:
		return "duplicate message id"
	case KindDuplicateName:
		return "duplicate name"
	case KindCapacityExceeded:
		return fmt.Sprintf("capacity exceeded: %s (limit %d)", e.Container, e.Limit)
	case KindValidation:
		return e.Reason
	case KindUnknownID:
		return "unknown message id"
	case KindUnknownSignal:
		return "unknown signal"
	case KindShortPayload:
		return fmt.Sprintf("payload too short: expected at least %d bytes, got %d", e.Expected, e.Got)
	case KindUnsupportedValueType:
		return "unsupported value type for signal length"
	case KindEncodeRange:
		return "value out of encodable range for signal"
	case KindMultiplexMismatch:
		return "signal is not active under the current multiplexer context"
	default:
		return "unknown dbc error"
	}
}

// Is supports errors.Is(err, target) comparisons by Kind, ignoring
// context fields — two Errors of the same Kind are considered the
// same error class.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

func errExpected(reason string, line int) *Error {
	return &Error{Kind: KindExpected, Reason: reason, Line: line}
}

func errUnexpectedEOF(line int) *Error {
	return &Error{Kind: KindUnexpectedEOF, Line: line}
}

func errInvalidChar(c byte, line int) *Error {
	return &Error{Kind: KindInvalidChar, Char: c, Line: line}
}

func errMaxStrLength(limit, line int) *Error {
	return &Error{Kind: KindMaxStrLength, Limit: limit, Line: line}
}

func errCapacityExceeded(container string, limit int) *Error {
	return &Error{Kind: KindCapacityExceeded, Container: container, Limit: limit}
}

func errValidation(reason string) *Error {
	return &Error{Kind: KindValidation, Reason: reason}
}

func errDuplicateID() *Error {
	return &Error{Kind: KindDuplicateID}
}

func errDuplicateName() *Error {
	return &Error{Kind: KindDuplicateName}
}
