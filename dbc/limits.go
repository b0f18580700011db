package dbc

// Limits collects the build-time resource ceilings from spec.md §6.4.
// In the fixed-capacity configuration these would be array dimensions;
// this module ships the dynamic (heap) configuration, so they are
// validation ceilings enforced by the Storage Abstraction helpers in
// storage.go. A Limits value is immutable once attached to a Dbc or
// builder.
type Limits struct {
	MaxMessages            int
	MaxSignalsPerMessage   int
	MaxNodes               int
	MaxReceiverNodes       int
	MaxValueDescriptions   int
	MaxNameSize            int
	MaxExtendedMultiplexing int
}

// DefaultLimits returns the defaults listed in spec.md §6.4.
func DefaultLimits() Limits {
	return Limits{
		MaxMessages:             8192,
		MaxSignalsPerMessage:    256,
		MaxNodes:                256,
		MaxReceiverNodes:        64,
		MaxValueDescriptions:    64,
		MaxNameSize:             32,
		MaxExtendedMultiplexing: 512,
	}
}

// MaxDLC is the largest Data Length Code this library accepts (CAN FD).
const MaxDLC = 64

// ExtendedIDFlag is OR-ed into a message's stored ID to mark it as a
// 29-bit extended CAN ID per spec.md §6.1.
const ExtendedIDFlag uint32 = 0x80000000

// VectorXXX is the reserved identifier meaning "no node / don't care".
const VectorXXX = "Vector__XXX"

// PseudoMessageName is the reserved container for orphan signals not
// attached to any real message (spec.md §4.3 edge-case policy).
const PseudoMessageName = "VECTOR__INDEPENDENT_SIG_MSG"

// PseudoMessageID is the conventional ID carried by the pseudo-message.
const PseudoMessageID uint32 = 0xC0000000
