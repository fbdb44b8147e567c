package engine

import "github.com/luxfi/mbp10/internal/book"

// state is the action engine's position in the Trade→Fill→Cancel
// aggregation state machine.
type state int

const (
	stateIdle state = iota
	stateTradeReceived
	stateFillReceived
)

// tradeContext buffers the pending aggressor trade while the engine
// waits for its matching Fill and terminating Cancel.
type tradeContext struct {
	tradeTS       uint64
	tradeRefID    uint64
	price         book.PriceTick
	size          uint32
	aggressorSide book.Side
	fillConfirmed bool
}

// Stats reports the action engine's running counters.
type Stats struct {
	ActionsProcessed  uint64
	TradesAggregated  uint64
	ErrorsEncountered uint64
}

// Engine consumes Events, dispatches to a book.Book, and runs the
// Trade→Fill→Cancel coalescing state machine described in spec §4.4. It
// is single-threaded: ProcessEvent must not be called concurrently.
type Engine struct {
	book *book.Book

	state          state
	pending        *tradeContext
	firstResetSeen bool

	actionsProcessed  uint64
	tradesAggregated  uint64
	errorsEncountered uint64
}

// New creates an Engine driving the given book.
func New(b *book.Book) *Engine {
	return &Engine{book: b}
}

// ProcessEvent applies one event to the book (or to the engine's
// internal trade-aggregation state) and reports whether the book may
// have changed as a result — a snapshot opportunity. The final emission
// decision is left to the snapshot differ.
func (e *Engine) ProcessEvent(ev Event) bool {
	e.actionsProcessed++

	switch ev.Action {
	case ActionAdd:
		return e.handleAdd(ev)
	case ActionModify:
		return e.handleModify(ev)
	case ActionCancel:
		return e.handleCancel(ev)
	case ActionTrade:
		return e.handleTrade(ev)
	case ActionFill:
		return e.handleFill(ev)
	case ActionReset:
		return e.handleReset(ev)
	case ActionNone:
		return true
	default:
		e.errorsEncountered++
		return false
	}
}

// handleAdd and handleModify reject a malformed side ('N' is only valid
// for Cancel/Reset/None) without counting it as an error, matching
// action_engine.hpp's handle_add/handle_modify, which return false on
// this path without touching errors_encountered_.
func (e *Engine) handleAdd(ev Event) bool {
	if ev.Side == book.SideNone {
		return false
	}
	ok := e.book.AddOrder(ev.OrderID, ev.Price, ev.Size, ev.Side, ev.TimestampNS)
	if !ok {
		e.errorsEncountered++
	}
	return ok
}

func (e *Engine) handleModify(ev Event) bool {
	if ev.Side == book.SideNone {
		return false
	}
	ok := e.book.ModifyOrder(ev.OrderID, ev.Price, ev.Size)
	if !ok {
		e.errorsEncountered++
	}
	return ok
}

// handleCancel is the one action whose behavior depends on engine state:
// in FILL_RECEIVED it is the terminator of a Trade→Fill→Cancel sequence;
// in every other state it is an ordinary cancel, independent of any
// buffered trade.
func (e *Engine) handleCancel(ev Event) bool {
	if e.state == stateFillReceived {
		return e.completeTradeSequence()
	}
	ok := e.book.CancelOrder(ev.OrderID)
	if !ok {
		e.errorsEncountered++
	}
	return ok
}

// handleTrade buffers (or replaces) the pending aggressor trade and
// always moves to TRADE_RECEIVED, regardless of the state it was called
// from — a second Trade before its Fill simply replaces the first.
func (e *Engine) handleTrade(ev Event) bool {
	e.state = stateTradeReceived
	e.pending = &tradeContext{
		tradeTS:       ev.TimestampNS,
		tradeRefID:    ev.OrderID,
		price:         ev.Price,
		size:          ev.Size,
		aggressorSide: ev.Side,
	}
	return false
}

// handleFill only advances the sequence when it arrives in
// TRADE_RECEIVED and references the buffered trade's id; any other
// arrival (orphan Fill, or a second Fill after one already confirmed)
// is a protocol violation that resets the state machine to IDLE.
func (e *Engine) handleFill(ev Event) bool {
	if e.state != stateTradeReceived {
		e.errorsEncountered++
		e.state = stateIdle
		e.pending = nil
		return false
	}
	if e.pending != nil && ev.OrderID == e.pending.tradeRefID {
		e.state = stateFillReceived
		e.pending.fillConfirmed = true
		return false
	}
	e.state = stateIdle
	e.pending = nil
	e.errorsEncountered++
	return false
}

// handleReset implements the "first Reset is a session-start convention,
// swallowed; every later Reset empties the book" rule, independent of
// the current trade-aggregation state.
func (e *Engine) handleReset(ev Event) bool {
	_ = ev
	if !e.firstResetSeen {
		e.firstResetSeen = true
		return false
	}
	e.book.Clear()
	e.state = stateIdle
	e.pending = nil
	return true
}

// completeTradeSequence applies the buffered trade to the book as the
// Cancel terminating a Trade→Fill→Cancel sequence.
func (e *Engine) completeTradeSequence() bool {
	if e.pending == nil || e.state != stateFillReceived {
		e.errorsEncountered++
		e.state = stateIdle
		e.pending = nil
		return false
	}

	ok := e.book.ExecuteTrade(e.pending.price, e.pending.size, e.pending.aggressorSide)
	if ok {
		e.tradesAggregated++
	} else {
		e.errorsEncountered++
	}

	e.state = stateIdle
	e.pending = nil
	return ok
}

// Stats reports the engine's running counters.
func (e *Engine) Stats() Stats {
	return Stats{
		ActionsProcessed:  e.actionsProcessed,
		TradesAggregated:  e.tradesAggregated,
		ErrorsEncountered: e.errorsEncountered,
	}
}
