// Package xlsx imports and exports a Dbc as a spreadsheet workbook, one
// row per signal, for teams that track their signal list in a shared
// sheet rather than hand-editing DBC text. Grounded on the teacher's
// dbc/parse_excel.go, which read the same shape of sheet (one row per
// signal, columns for message id/name/length and signal
// start-bit/width/name) via excelize but only partially filled in the
// resulting signal (factor, offset, byte order, receivers were left as
// TODO comments); this package completes that column mapping and adds
// the export direction the teacher never had.
package xlsx

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/candbc/dbc/dbc"
)

const sheetName = "DBC"

// Column order matches the teacher's own ExcelMaxColumn layout,
// extended with the fields its partial mapping left as TODOs.
const (
	colMessageID = iota
	colMessageName
	colDLC
	colSender
	colSignalName
	colStartBit
	colLength
	colByteOrder
	colUnsigned
	colFactor
	colOffset
	colMin
	colMax
	colUnit
	colReceivers
	columnCount
)

var header = []string{
	"MessageID", "MessageName", "DLC", "Sender",
	"SignalName", "StartBit", "Length", "ByteOrder", "Unsigned",
	"Factor", "Offset", "Min", "Max", "Unit", "Receivers",
}

// ExportWorkbook renders d as a new workbook with one sheet ("DBC")
// and one row per signal, each row repeating its owning message's
// identity columns.
func ExportWorkbook(d *dbc.Dbc) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, err
	}
	for col, name := range header {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheetName, cell, name); err != nil {
			return nil, err
		}
	}

	row := 2
	for _, m := range d.Messages().All() {
		signals := m.Signals()
		if len(signals) == 0 {
			if err := writeMessageOnlyRow(f, row, m); err != nil {
				return nil, err
			}
			row++
			continue
		}
		for _, sig := range signals {
			if err := writeSignalRow(f, row, m, sig); err != nil {
				return nil, err
			}
			row++
		}
	}
	return f, nil
}

func writeMessageOnlyRow(f *excelize.File, row int, m dbc.Message) error {
	values := map[int]any{
		colMessageID:   m.StoredID(),
		colMessageName: m.Name(),
		colDLC:         m.DLC(),
		colSender:      m.Sender(),
	}
	return writeRow(f, row, values)
}

func writeSignalRow(f *excelize.File, row int, m dbc.Message, sig dbc.Signal) error {
	order := 0
	if sig.ByteOrder() == dbc.LittleEndian {
		order = 1
	}
	values := map[int]any{
		colMessageID:   m.StoredID(),
		colMessageName: m.Name(),
		colDLC:         m.DLC(),
		colSender:      m.Sender(),
		colSignalName:  sig.Name(),
		colStartBit:    sig.StartBit(),
		colLength:      sig.Length(),
		colByteOrder:   order,
		colUnsigned:    sig.Unsigned(),
		colFactor:      sig.Factor(),
		colOffset:      sig.Offset(),
		colMin:         sig.Min(),
		colMax:         sig.Max(),
		colUnit:        sig.Unit(),
		colReceivers:   receiversText(sig.Receivers()),
	}
	return writeRow(f, row, values)
}

func receiversText(r dbc.Receivers) string {
	if r.Kind() == dbc.ReceiversNodes {
		return strings.Join(r.Nodes(), ",")
	}
	return dbc.VectorXXX
}

func writeRow(f *excelize.File, row int, values map[int]any) error {
	for col, v := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheetName, cell, v); err != nil {
			return err
		}
	}
	return nil
}

// ImportWorkbook reads a workbook in the ExportWorkbook layout and
// builds a Dbc from it via dbc.DbcBuilder, grouping rows by
// MessageID.
func ImportWorkbook(f *excelize.File, opts dbc.Options) (*dbc.Dbc, error) {
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, err
	}

	type messageAccum struct {
		name, sender string
		dlc          uint8
		signals      []dbc.Signal
	}
	order := make([]uint32, 0)
	byID := make(map[uint32]*messageAccum)

	limits := opts.Limits
	if (limits == dbc.Limits{}) {
		limits = dbc.DefaultLimits()
	}

	for i, row := range rows {
		if i == 0 {
			continue
		}
		if len(row) < columnCount {
			return nil, fmt.Errorf("xlsx: row %d has %d columns, want %d", i+1, len(row), columnCount)
		}
		rawID, err := strconv.ParseUint(row[colMessageID], 10, 32)
		if err != nil {
			return nil, fmt.Errorf("xlsx: row %d: invalid MessageID: %w", i+1, err)
		}
		id := uint32(rawID)

		acc, ok := byID[id]
		if !ok {
			dlc, _ := strconv.ParseUint(row[colDLC], 10, 8)
			acc = &messageAccum{name: row[colMessageName], sender: row[colSender], dlc: uint8(dlc)}
			byID[id] = acc
			order = append(order, id)
		}

		if row[colSignalName] == "" {
			continue
		}
		sig, err := signalFromRow(row, limits)
		if err != nil {
			return nil, fmt.Errorf("xlsx: row %d: %w", i+1, err)
		}
		acc.signals = append(acc.signals, sig)
	}

	b := dbc.NewDbcBuilder(opts)
	for _, id := range order {
		acc := byID[id]
		isExtended := id&dbc.ExtendedIDFlag != 0
		rawID := id &^ dbc.ExtendedIDFlag
		builder := dbc.NewMessageBuilder(rawID, acc.name).
			Extended(isExtended).
			DLC(acc.dlc).
			Sender(acc.sender)
		for _, sig := range acc.signals {
			builder.AddSignal(sig)
		}
		m, err := builder.Build(limits)
		if err != nil {
			return nil, err
		}
		b.AddMessage(m)
	}
	return b.Build()
}

func signalFromRow(row []string, limits dbc.Limits) (dbc.Signal, error) {
	startBit, _ := strconv.ParseUint(row[colStartBit], 10, 16)
	length, _ := strconv.ParseUint(row[colLength], 10, 16)
	orderCode, _ := strconv.ParseUint(row[colByteOrder], 10, 8)
	unsigned, _ := strconv.ParseBool(row[colUnsigned])
	factor, _ := strconv.ParseFloat(row[colFactor], 64)
	offset, _ := strconv.ParseFloat(row[colOffset], 64)
	min, _ := strconv.ParseFloat(row[colMin], 64)
	max, _ := strconv.ParseFloat(row[colMax], 64)

	order := dbc.BigEndian
	if orderCode == 1 {
		order = dbc.LittleEndian
	}

	receivers := dbc.Broadcast()
	if recvText := row[colReceivers]; recvText != "" && recvText != dbc.VectorXXX {
		nodes := strings.Split(recvText, ",")
		r, err := dbc.NewReceiverNodes(nodes, limits)
		if err != nil {
			return dbc.Signal{}, err
		}
		receivers = r
	}

	return dbc.NewSignalBuilder(row[colSignalName]).
		StartBit(uint16(startBit)).
		Length(uint16(length)).
		ByteOrder(order).
		Unsigned(unsigned).
		Factor(factor).
		Offset(offset).
		Range(min, max).
		Unit(row[colUnit]).
		Receivers(receivers).
		Build(limits)
}
