package engine

import "github.com/luxfi/mbp10/internal/book"

// DifferStats reports the snapshot differ's running counters.
type DifferStats struct {
	Generated uint64
	Skipped   uint64
}

// Snapshot is the emitted MBP-10 row: the book's top-10 projection at a
// point in time.
type Snapshot struct {
	TimestampNS uint64
	Book        book.Snapshot
}

// Differ caches the top-10 projection after each snapshot opportunity
// and suppresses any snapshot identical to its predecessor on all forty
// (price, size) slots.
type Differ struct {
	previous    book.Snapshot
	hasPrevious bool
	generated   uint64
	skipped     uint64
}

// NewDiffer creates an empty Differ.
func NewDiffer() *Differ {
	return &Differ{}
}

// Observe takes the book's current top-10 at timestampNS and returns
// (snapshot, true) if it differs from the previous emission, or
// (zero-value, false) if it should be suppressed.
func (d *Differ) Observe(b *book.Book, timestampNS uint64) (Snapshot, bool) {
	current := b.Top10Snapshot()

	if d.hasPrevious && current.Equal(d.previous) {
		d.skipped++
		return Snapshot{}, false
	}

	d.previous = current
	d.hasPrevious = true
	d.generated++
	return Snapshot{TimestampNS: timestampNS, Book: current}, true
}

// Stats reports the differ's running counters.
func (d *Differ) Stats() DifferStats {
	return DifferStats{Generated: d.generated, Skipped: d.skipped}
}
