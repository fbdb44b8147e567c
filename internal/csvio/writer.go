package csvio

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	"github.com/luxfi/mbp10/internal/book"
	"github.com/luxfi/mbp10/internal/engine"
)

// Writer formats engine.Snapshot values as the MBP-10 output CSV: one
// header row, then ts_event plus ten (price, size) pairs per side, best
// level first.
type Writer struct {
	w   *bufio.Writer
	buf []byte
}

// NewWriter wraps w as an MBP-10 CSV writer.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriterSize(w, 1<<20)}
}

// WriteHeader emits the column header row.
func (w *Writer) WriteHeader() error {
	_, err := w.w.WriteString(header())
	return err
}

func header() string {
	s := "ts_event"
	for i := 0; i < 10; i++ {
		s += fmt.Sprintf(",bid_px_%02d,bid_sz_%02d", i, i)
	}
	for i := 0; i < 10; i++ {
		s += fmt.Sprintf(",ask_px_%02d,ask_sz_%02d", i, i)
	}
	return s + "\n"
}

// WriteSnapshot emits one MBP-10 row. An absent level (Price zero, the
// slot the book leaves untouched past the depth it actually holds) is
// rendered as two empty fields rather than as the literal "0" that
// PriceTick.String would otherwise produce for a true zero price.
func (w *Writer) WriteSnapshot(snap engine.Snapshot) error {
	w.buf = w.buf[:0]
	w.buf = strconv.AppendUint(w.buf, snap.TimestampNS, 10)

	for _, lvl := range snap.Book.Bids {
		w.buf = appendLevel(w.buf, lvl)
	}
	for _, lvl := range snap.Book.Asks {
		w.buf = appendLevel(w.buf, lvl)
	}
	w.buf = append(w.buf, '\n')

	_, err := w.w.Write(w.buf)
	return err
}

func appendLevel(buf []byte, lvl book.LevelView) []byte {
	buf = append(buf, ',')
	if lvl.Price == 0 {
		buf = append(buf, ',')
		return buf
	}
	buf = append(buf, lvl.Price.String()...)
	buf = append(buf, ',')
	buf = strconv.AppendUint(buf, lvl.Size, 10)
	return buf
}

// Flush drains any buffered output to the underlying writer.
func (w *Writer) Flush() error {
	return w.w.Flush()
}
