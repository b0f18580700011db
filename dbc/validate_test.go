package dbc

import (
	"errors"
	"testing"
)

func TestValidateRejectsOverlappingPlainSignals(t *testing.T) {
	input := `VERSION ""
BS_:
BU_: ECM
BO_ 600 Overlap : 8 ECM
 SG_ A : 0|8@1+ (1,0) [0|255] "" Vector__XXX
 SG_ B : 4|8@1+ (1,0) [0|255] "" Vector__XXX
`
	_, err := Parse([]byte(input))
	if err == nil {
		t.Fatal("expected a Validation error for overlapping signals")
	}
	var derr *Error
	if !errors.As(err, &derr) || derr.Kind != KindValidation {
		t.Fatalf("got %v, want KindValidation", err)
	}
}

func TestValidateAllowsDisjointMultiplexedOverlap(t *testing.T) {
	input := `VERSION ""
BS_:
BU_: ECM
BO_ 601 Mux : 8 ECM
 SG_ Sel M : 0|8@1+ (1,0) [0|1] "" Vector__XXX
 SG_ A m0 : 8|8@1+ (1,0) [0|255] "" Vector__XXX
 SG_ B m1 : 8|8@1+ (1,0) [0|255] "" Vector__XXX
`
	if _, err := Parse([]byte(input)); err != nil {
		t.Fatalf("unexpected error for disjoint multiplexed signals: %v", err)
	}
}

// Two signals tagged with the *same* basic `m0` value are only
// disjoint once their SG_MUL_VAL_ ranges are taken into account; a
// plain comparison of their `m<v>` tags alone would wrongly reject
// this as an overlap.
func TestValidateAllowsDisjointExtendedMultiplexedOverlap(t *testing.T) {
	input := `VERSION ""
BS_:
BU_: ECM
BO_ 602 Ext : 8 ECM
 SG_ Sel M : 0|8@1+ (1,0) [0|15] "" Vector__XXX
 SG_ A m0 : 8|8@1+ (1,0) [0|255] "" Vector__XXX
 SG_ B m0 : 8|8@1+ (1,0) [0|255] "" Vector__XXX
SG_MUL_VAL_ 602 A Sel 0-5 ;
SG_MUL_VAL_ 602 B Sel 10-15 ;
`
	if _, err := Parse([]byte(input)); err != nil {
		t.Fatalf("unexpected error for signals disjoint only via SG_MUL_VAL_ ranges: %v", err)
	}
}

// Two signals tagged with *different* `m<v>` values still collide if
// their SG_MUL_VAL_ ranges overlap; the basic tag alone must not be
// trusted to prove disjointness.
func TestValidateRejectsOverlappingExtendedMultiplexedRanges(t *testing.T) {
	input := `VERSION ""
BS_:
BU_: ECM
BO_ 603 Ext : 8 ECM
 SG_ Sel M : 0|8@1+ (1,0) [0|15] "" Vector__XXX
 SG_ A m0 : 8|8@1+ (1,0) [0|255] "" Vector__XXX
 SG_ B m1 : 8|8@1+ (1,0) [0|255] "" Vector__XXX
SG_MUL_VAL_ 603 A Sel 0-5 ;
SG_MUL_VAL_ 603 B Sel 3-8 ;
`
	_, err := Parse([]byte(input))
	if err == nil {
		t.Fatal("expected a Validation error: ranges 0-5 and 3-8 both admit Sel=3..5")
	}
	var derr *Error
	if !errors.As(err, &derr) || derr.Kind != KindValidation {
		t.Fatalf("got %v, want KindValidation", err)
	}
}

func TestValidateStrictSenderRejectsUnknownNode(t *testing.T) {
	input := `VERSION ""
BS_:
BU_: ECM
BO_ 700 Msg : 8 Unknown
`
	opts := DefaultOptions()
	opts.AllowUnknownSender = false
	_, err := ParseWithOptions([]byte(input), opts)
	if err == nil {
		t.Fatal("expected a Validation error for an unknown sender")
	}
}

func TestValidateLenientSenderAcceptsUnknownNodeByDefault(t *testing.T) {
	input := `VERSION ""
BS_:
BU_: ECM
BO_ 700 Msg : 8 Unknown
`
	if _, err := Parse([]byte(input)); err != nil {
		t.Fatalf("unexpected error under default lenient sender policy: %v", err)
	}
}

func TestValidateIdempotence(t *testing.T) {
	input := `VERSION ""
BS_:
BU_: ECM
BO_ 800 Msg : 8 ECM
 SG_ X : 0|8@1+ (1,0) [0|255] "" Vector__XXX
`
	d, err := Parse([]byte(input))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if err := validate(d, DefaultOptions()); err != nil {
		t.Fatalf("second validation pass should agree with the first: %v", err)
	}
}
