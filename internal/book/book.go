// Package book implements the per-order book: a dual-index structure
// supporting price-sorted iteration and constant-expected-time order
// lookup by ID, with FIFO queues at each price level. It is the
// replay-exact model of one side of the MBO feed's order state.
//
// The book is single-threaded by contract — no method here takes a lock,
// and none may be called concurrently from more than one goroutine.
package book

// LevelView is a read-only (price, total size) pair, used for the top-10
// cache and for BestBid/BestAsk.
type LevelView struct {
	Price PriceTick
	Size  uint64
}

// Snapshot is the top-10 projection of both sides, best level first.
type Snapshot struct {
	Bids [10]LevelView
	Asks [10]LevelView
}

// Equal reports whether two snapshots match on all forty (price, size)
// slots. Used by the differ; ignores nothing else since Snapshot here
// carries no timestamp.
func (s Snapshot) Equal(o Snapshot) bool {
	return s.Bids == o.Bids && s.Asks == o.Asks
}

// Stats holds diagnostic counters mirroring the teacher's
// get_active_orders/get_price_levels/get_total_orders accessors.
type Stats struct {
	ActiveOrders         int
	PriceLevels          int
	TotalOrdersProcessed uint64
}

// Book is the dual-index order book: bids and asks sorted by price, an
// id-to-order index for O(1) expected lookup, and a bounded order pool.
type Book struct {
	bids priceSide
	asks priceSide
	byID map[uint64]*Order
	pool *OrderPool

	cacheValid bool
	top10      Snapshot

	totalOrdersProcessed uint64
}

// New creates an empty Book backed by a fresh order pool.
func New() *Book {
	return &Book{
		bids: newPriceSide(true),
		asks: newPriceSide(false),
		byID: make(map[uint64]*Order, 1024),
		pool: NewOrderPool(),
	}
}

func (b *Book) sideFor(side Side) *priceSide {
	if side == SideBid {
		return &b.bids
	}
	return &b.asks
}

// AddOrder installs a new resident order at price/size on side, arriving
// at timestampNS. It fails if id is already present, if side is neither
// SideBid nor SideAsk, or if size is zero (a phantom order is rejected
// rather than silently accepted).
func (b *Book) AddOrder(id uint64, price PriceTick, size uint32, side Side, timestampNS uint64) bool {
	if side != SideBid && side != SideAsk {
		return false
	}
	if size == 0 {
		return false
	}
	if _, exists := b.byID[id]; exists {
		return false
	}

	o := b.pool.Allocate()
	o.ID = id
	o.Price = price
	o.Size = size
	o.OriginalSize = size
	o.TimestampNS = timestampNS
	o.Side = side

	lvl := b.sideFor(side).getOrCreateLevel(price)
	lvl.addOrder(o)

	b.byID[id] = o
	b.cacheValid = false
	b.totalOrdersProcessed++
	return true
}

// ModifyOrder changes an existing order's price and/or size. A same-price
// modify resizes in place, preserving time priority (spec §4.3). A
// price-changing modify removes the order from its old level and
// re-appends it at the tail of the new level, losing time priority — the
// feed convention for a requote. A newSize of zero is accepted and leaves
// a resident zero-sized order; it is not treated as a cancel. Go's memory model means the re-insert
// below cannot fail for lack of memory the way a fixed-capacity C++ pool
// could; the id is never left pointing at a released Order.
func (b *Book) ModifyOrder(id uint64, newPrice PriceTick, newSize uint32) bool {
	o, ok := b.byID[id]
	if !ok {
		return false
	}

	side := b.sideFor(o.Side)
	oldPrice := o.Price

	if newPrice == oldPrice {
		lvl := side.levels[oldPrice]
		lvl.resizeOrder(o, newSize)
		o.Size = newSize
		b.cacheValid = false
		return true
	}

	lvl := side.levels[oldPrice]
	lvl.removeOrder(o)
	side.eraseIfEmpty(oldPrice)

	o.Price = newPrice
	o.Size = newSize

	newLvl := side.getOrCreateLevel(newPrice)
	newLvl.addOrder(o)

	b.cacheValid = false
	return true
}

// CancelOrder removes an order from the book entirely and releases it to
// the pool.
func (b *Book) CancelOrder(id uint64) bool {
	o, ok := b.byID[id]
	if !ok {
		return false
	}

	side := b.sideFor(o.Side)
	lvl := side.levels[o.Price]
	lvl.removeOrder(o)
	side.eraseIfEmpty(o.Price)

	delete(b.byID, id)
	b.pool.Deallocate(o)
	b.cacheValid = false
	return true
}

// ExecuteTrade decrements liquidity on the passive side (opposite of
// aggressorSide) at exactly price, walking the FIFO head-first until
// size has been consumed or the level runs dry. It fails only if no
// level exists at price on the passive side; partial coverage (the level
// ran out before size was fully consumed) is still a successful return,
// observable only via the book's resulting state.
func (b *Book) ExecuteTrade(price PriceTick, size uint32, aggressorSide Side) bool {
	if size == 0 {
		return true
	}

	passiveSide := SideAsk
	if aggressorSide == SideAsk {
		passiveSide = SideBid
	}
	side := b.sideFor(passiveSide)

	lvl, ok := side.levels[price]
	if !ok {
		return false
	}

	remaining := size
	for remaining > 0 && lvl.head != nil {
		head := lvl.head
		if head.Size <= remaining {
			remaining -= head.Size
			lvl.removeOrder(head)
			delete(b.byID, head.ID)
			b.pool.Deallocate(head)
		} else {
			newSize := head.Size - remaining
			lvl.resizeOrder(head, newSize)
			head.Size = newSize
			remaining = 0
		}
	}

	side.eraseIfEmpty(price)
	b.cacheValid = false
	return true
}

// BestBid returns the best bid's (price, total size), or (0, 0) if the
// bid side is empty.
func (b *Book) BestBid() (PriceTick, uint64) {
	return bestOf(&b.bids)
}

// BestAsk returns the best ask's (price, total size), or (0, 0) if the
// ask side is empty.
func (b *Book) BestAsk() (PriceTick, uint64) {
	return bestOf(&b.asks)
}

func bestOf(s *priceSide) (PriceTick, uint64) {
	lvl, ok := s.best()
	if !ok {
		return 0, 0
	}
	return lvl.Price, lvl.TotalSize
}

// Top10Snapshot returns the top ten levels of each side, best first.
// Empty slots are zero-valued. The result is lazily recomputed only when
// a prior mutation invalidated the cache (spec invariant B4).
func (b *Book) Top10Snapshot() Snapshot {
	if !b.cacheValid {
		b.refreshCache()
	}
	return b.top10
}

func (b *Book) refreshCache() {
	var snap Snapshot
	i := 0
	b.bids.topN(10, func(lvl *Level) {
		snap.Bids[i] = LevelView{Price: lvl.Price, Size: lvl.TotalSize}
		i++
	})
	i = 0
	b.asks.topN(10, func(lvl *Level) {
		snap.Asks[i] = LevelView{Price: lvl.Price, Size: lvl.TotalSize}
		i++
	})
	b.top10 = snap
	b.cacheValid = true
}

// Clear releases every resident order to the pool and empties both sides
// and the id index. The Book itself (and its pool) survives.
func (b *Book) Clear() {
	for _, o := range b.byID {
		b.pool.Deallocate(o)
	}
	b.byID = make(map[uint64]*Order, 1024)
	b.bids.reset()
	b.asks.reset()
	b.cacheValid = false
}

// Stats reports diagnostic counters over the book's current and
// historical state.
func (b *Book) Stats() Stats {
	return Stats{
		ActiveOrders:         len(b.byID),
		PriceLevels:          len(b.bids.levels) + len(b.asks.levels),
		TotalOrdersProcessed: b.totalOrdersProcessed,
	}
}
