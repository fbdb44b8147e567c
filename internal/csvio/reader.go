// Package csvio is the external collaborator that turns a fixed-schema
// CSV text stream into engine.Event records, and turns emitted
// engine.Snapshot rows back into the output CSV. Per spec §1 these
// parsing/formatting details are not core logic — only the schemas they
// agree on are contracted — but the reader and writer still need a real
// implementation to make the CLI runnable.
package csvio

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/luxfi/mbp10/internal/book"
	"github.com/luxfi/mbp10/internal/engine"
)

// inputFieldCount is the number of columns in one MBO CSV row:
// ts_event,action,side,price,size,order_id,flags,ts_recv,ts_in_delta,sequence.
const inputFieldCount = 10

// Reader parses the MBO CSV schema into engine.Event values, one line at
// a time, skipping the header.
type Reader struct {
	csv        *csv.Reader
	line       int
	sawHeader  bool
}

// NewReader wraps r as an MBO CSV reader. The header line is consumed
// lazily on the first Next call so that a Fatal "header line absent"
// condition (spec §7) can be detected without reading past EOF on an
// empty file.
func NewReader(r io.Reader) *Reader {
	cr := csv.NewReader(bufio.NewReaderSize(r, 1<<20))
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true
	return &Reader{csv: cr}
}

// Next returns the next event, (zero, nil, io.EOF) at end of stream, or
// (zero, *ParseError, nil) for a line that failed to parse — the caller
// counts the error and continues.
func (r *Reader) Next() (engine.Event, error, error) {
	if !r.sawHeader {
		header, err := r.csv.Read()
		if err == io.EOF {
			return engine.Event{}, nil, fmt.Errorf("csvio: header line absent")
		}
		if err != nil {
			return engine.Event{}, nil, fmt.Errorf("csvio: reading header: %w", err)
		}
		if len(header) == 0 {
			return engine.Event{}, nil, fmt.Errorf("csvio: header line absent")
		}
		r.sawHeader = true
		r.line++
	}

	record, err := r.csv.Read()
	if err == io.EOF {
		return engine.Event{}, nil, io.EOF
	}
	r.line++
	if err != nil {
		return engine.Event{}, &ParseError{Line: r.line, Field: "<record>", Cause: err}, nil
	}

	ev, perr := r.parseRecord(record)
	if perr != nil {
		return engine.Event{}, perr, nil
	}
	return ev, nil, nil
}

func (r *Reader) parseRecord(record []string) (engine.Event, *ParseError) {
	if len(record) < 6 {
		return engine.Event{}, &ParseError{Line: r.line, Field: "<record>", Cause: fmt.Errorf("expected at least 6 fields, got %d", len(record))}
	}

	ts, err := strconv.ParseUint(record[0], 10, 64)
	if err != nil {
		return engine.Event{}, &ParseError{Line: r.line, Field: "ts_event", Cause: err}
	}

	if len(record[1]) != 1 {
		return engine.Event{}, &ParseError{Line: r.line, Field: "action", Cause: fmt.Errorf("expected single character, got %q", record[1])}
	}
	action := engine.Action(record[1][0])

	side, err := parseSide(record[2])
	if err != nil {
		return engine.Event{}, &ParseError{Line: r.line, Field: "side", Cause: err}
	}

	price, err := parsePrice(record[3])
	if err != nil {
		return engine.Event{}, &ParseError{Line: r.line, Field: "price", Cause: err}
	}

	size, err := strconv.ParseUint(record[4], 10, 32)
	if err != nil {
		return engine.Event{}, &ParseError{Line: r.line, Field: "size", Cause: err}
	}

	orderID, err := strconv.ParseUint(record[5], 10, 64)
	if err != nil {
		return engine.Event{}, &ParseError{Line: r.line, Field: "order_id", Cause: err}
	}

	var sequence uint64
	if len(record) >= inputFieldCount && record[9] != "" {
		sequence, err = strconv.ParseUint(record[9], 10, 16)
		if err != nil {
			return engine.Event{}, &ParseError{Line: r.line, Field: "sequence", Cause: err}
		}
	}

	return engine.Event{
		TimestampNS: ts,
		OrderID:     orderID,
		Price:       price,
		Size:        uint32(size),
		Sequence:    uint16(sequence),
		Action:      action,
		Side:        side,
	}, nil
}

func parseSide(s string) (book.Side, error) {
	switch s {
	case "B":
		return book.SideBid, nil
	case "A":
		return book.SideAsk, nil
	case "N":
		return book.SideNone, nil
	default:
		return book.SideNone, fmt.Errorf("unrecognized side %q", s)
	}
}

// parsePrice turns the text decimal price (up to two fractional digits,
// optional leading sign) into a PriceTick via shopspring/decimal, so a
// value like "100.10" is exact rather than float64-approximated. An
// absent fractional part is treated as ×100 per spec §6.
func parsePrice(s string) (book.PriceTick, error) {
	if s == "" {
		return 0, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, err
	}
	ticks := d.Shift(2).Round(0)
	return book.PriceTick(ticks.IntPart()), nil
}
