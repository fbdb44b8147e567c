package book

// Side identifies which side of the book an order or level belongs to.
type Side uint8

const (
	SideNone Side = iota
	SideBid
	SideAsk
)

// Order is a single resident order. It is intrusively linked into the
// FIFO chain of the Level that currently holds it via prev/next — there
// is exactly one such Level at any moment, and exactly one entry for the
// order's ID in the book's id index.
type Order struct {
	ID            uint64
	Price         PriceTick
	Size          uint32
	OriginalSize  uint32
	TimestampNS   uint64
	Side          Side
	prev, next    *Order
	pooled        bool
}

// reset clears an Order back to its zero value before it returns to the
// pool, so a stale pointer never leaks size or chain state into the next
// allocation.
func (o *Order) reset() {
	pooled := o.pooled
	*o = Order{}
	o.pooled = pooled
}

// Level is the FIFO of resident orders at a single price on one side of
// the book, plus its aggregate size and order count.
type Level struct {
	Price      PriceTick
	TotalSize  uint64
	OrderCount int
	head, tail *Order
}

// addOrder appends o to the tail of the level's FIFO chain.
func (l *Level) addOrder(o *Order) {
	o.prev = l.tail
	o.next = nil
	if l.tail != nil {
		l.tail.next = o
	} else {
		l.head = o
	}
	l.tail = o
	l.TotalSize += uint64(o.Size)
	l.OrderCount++
}

// removeOrder splices o out of the level's FIFO chain.
func (l *Level) removeOrder(o *Order) {
	if o.prev != nil {
		o.prev.next = o.next
	} else {
		l.head = o.next
	}
	if o.next != nil {
		o.next.prev = o.prev
	} else {
		l.tail = o.prev
	}
	o.prev = nil
	o.next = nil
	l.TotalSize -= uint64(o.Size)
	l.OrderCount--
}

// resizeOrder adjusts total_size for a size change on an order that stays
// resident at its current chain position (time priority preserved). The
// caller is responsible for writing o.Size = newSize afterward.
func (l *Level) resizeOrder(o *Order, newSize uint32) {
	l.TotalSize += uint64(newSize) - uint64(o.Size)
}

// empty reports whether the level has no resident orders.
func (l *Level) empty() bool {
	return l.OrderCount == 0
}
