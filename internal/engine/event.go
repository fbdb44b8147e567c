// Package engine implements the action engine: the state machine that
// interprets MBO action codes, dispatches mutations to an order book,
// and coalesces the feed's Trade→Fill→Cancel triplet into one logical
// trade against the passive side. It also hosts the snapshot differ that
// decides when a book mutation is worth emitting as an MBP-10 row.
package engine

import "github.com/luxfi/mbp10/internal/book"

// Action is one of the six MBO action codes carried by an Event.
type Action byte

const (
	ActionAdd    Action = 'A'
	ActionModify Action = 'M'
	ActionCancel Action = 'C'
	ActionTrade  Action = 'T'
	ActionFill   Action = 'F'
	ActionReset  Action = 'R'
	ActionNone   Action = 'N'
)

// Event is one MBO record. Side reuses book.Side — SideNone represents
// the feed's 'N' side character.
type Event struct {
	TimestampNS uint64
	OrderID     uint64
	Price       book.PriceTick
	Size        uint32
	Sequence    uint16
	Action      Action
	Side        book.Side
}
