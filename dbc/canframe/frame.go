// Package canframe bridges a decoded CAN frame to the flattened JSON
// shape host-side tooling expects: one object per frame with the
// frame's own id/timestamp fields sitting alongside every decoded
// signal name as a top-level key. Grounded on the teacher's own
// can/canparser.go CanData/JsonData types and their custom
// MarshalJSON, which flattens a decoded-signal map into the frame
// object the same way; this package generalizes that flattening to
// any dbc.Dbc instead of the teacher's single hard-coded DBC.
package canframe

import (
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/candbc/dbc/dbc"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Frame pairs a decoded CAN frame's identity (ID, timestamp) with the
// physical values dbc.Decode produced for it.
type Frame struct {
	ID        uint32
	Extended  bool
	Timestamp time.Time
	Name      string
	Signals   []dbc.DecodedSignal
}

// Decode runs dbc.Decode against payload and wraps the result in a
// Frame, resolving the message name from d so callers don't need a
// second lookup.
func Decode(d *dbc.Dbc, id uint32, isExtended bool, payload []byte, ts time.Time) (Frame, error) {
	storedID := id
	if isExtended {
		storedID |= dbc.ExtendedIDFlag
	}
	m, ok := d.FindMessage(storedID)
	if !ok {
		return Frame{}, &dbc.Error{Kind: dbc.KindUnknownID}
	}
	signals, err := dbc.Decode(d, id, payload, isExtended)
	if err != nil {
		return Frame{}, err
	}
	return Frame{ID: id, Extended: isExtended, Timestamp: ts, Name: m.Name(), Signals: signals}, nil
}

// MarshalJSON flattens f into `{"id":..,"extended":..,"t":..,"name":..,"<signal>":value,...}`,
// one key per decoded signal, matching the shape the teacher's
// JsonData.MarshalJSON produced for a single frame's entry.
func (f Frame) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, 4+len(f.Signals))
	out["id"] = f.ID
	out["extended"] = f.Extended
	out["t"] = f.Timestamp.UnixMilli()
	out["name"] = f.Name
	for _, sig := range f.Signals {
		out[sig.Name] = sig.Value
	}
	return json.Marshal(out)
}

// MarshalFrames flattens a batch of frames into the teacher's
// `{"ts":..,"<frame-name>":{"id":..,"t":..,"<signal>":value,...}}` shape, keyed by frame
// name (the same per-name flattening JsonData.MarshalJSON used, with
// a batch timestamp taken from the first frame).
func MarshalFrames(frames []Frame) ([]byte, error) {
	out := make(map[string]any, 1+len(frames))
	if len(frames) > 0 {
		out["ts"] = frames[0].Timestamp.UnixMilli()
	}
	for _, f := range frames {
		entry := make(map[string]any, 3+len(f.Signals))
		entry["id"] = f.ID
		entry["t"] = f.Timestamp.UnixMilli()
		for _, sig := range f.Signals {
			entry[sig.Name] = sig.Value
		}
		out[f.Name] = entry
	}
	return json.Marshal(out)
}
