package book

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddOrderRejectsDuplicateAndBadInput(t *testing.T) {
	b := New()
	require.True(t, b.AddOrder(1, NewPriceTick(100, 0), 10, SideBid, 1))
	assert.False(t, b.AddOrder(1, NewPriceTick(100, 0), 10, SideBid, 2), "duplicate id must be rejected")
	assert.False(t, b.AddOrder(2, NewPriceTick(100, 0), 0, SideBid, 1), "zero size must be rejected")
	assert.False(t, b.AddOrder(3, NewPriceTick(100, 0), 10, SideNone, 1), "side N must be rejected")
}

func TestBestBidAskAndTop10(t *testing.T) {
	b := New()
	b.AddOrder(1, NewPriceTick(100, 0), 10, SideBid, 1)
	b.AddOrder(2, NewPriceTick(101, 0), 5, SideBid, 2)
	b.AddOrder(3, NewPriceTick(102, 0), 7, SideAsk, 3)
	b.AddOrder(4, NewPriceTick(103, 0), 3, SideAsk, 4)

	price, size := b.BestBid()
	assert.Equal(t, NewPriceTick(101, 0), price)
	assert.Equal(t, uint64(5), size)

	price, size = b.BestAsk()
	assert.Equal(t, NewPriceTick(102, 0), price)
	assert.Equal(t, uint64(7), size)

	snap := b.Top10Snapshot()
	assert.Equal(t, NewPriceTick(101, 0), snap.Bids[0].Price)
	assert.Equal(t, NewPriceTick(100, 0), snap.Bids[1].Price)
	assert.Equal(t, NewPriceTick(102, 0), snap.Asks[0].Price)
	assert.Equal(t, NewPriceTick(103, 0), snap.Asks[1].Price)
}

func TestModifySamePricePreservesPriority(t *testing.T) {
	b := New()
	b.AddOrder(1, NewPriceTick(100, 0), 10, SideBid, 1)
	b.AddOrder(2, NewPriceTick(100, 0), 10, SideBid, 2)

	require.True(t, b.ModifyOrder(1, NewPriceTick(100, 0), 20))

	lvl := b.bids.levels[NewPriceTick(100, 0)]
	require.Equal(t, uint64(1), lvl.head.ID, "same-price resize must keep the order at its original FIFO position")
	assert.Equal(t, uint64(30), lvl.TotalSize)
}

func TestModifyPriceChangeLosesPriority(t *testing.T) {
	b := New()
	b.AddOrder(1, NewPriceTick(100, 0), 10, SideBid, 1)
	require.True(t, b.ModifyOrder(1, NewPriceTick(101, 0), 10))

	_, atOld := b.bids.levels[NewPriceTick(100, 0)]
	assert.False(t, atOld, "old level must be erased once empty")

	lvl := b.bids.levels[NewPriceTick(101, 0)]
	require.NotNil(t, lvl)
	assert.Equal(t, uint64(1), lvl.head.ID)
}

func TestCancelOrderRemovesAndReleases(t *testing.T) {
	b := New()
	b.AddOrder(1, NewPriceTick(100, 0), 10, SideBid, 1)
	require.True(t, b.CancelOrder(1))
	assert.False(t, b.CancelOrder(1), "cancel of unknown id must fail")

	_, ok := b.byID[1]
	assert.False(t, ok)
	assert.Equal(t, 0, b.Stats().ActiveOrders)
}

func TestExecuteTradeWalksFIFOHeadFirst(t *testing.T) {
	b := New()
	b.AddOrder(1, NewPriceTick(100, 0), 10, SideAsk, 1)
	b.AddOrder(2, NewPriceTick(100, 0), 10, SideAsk, 2)

	require.True(t, b.ExecuteTrade(NewPriceTick(100, 0), 15, SideBid))

	_, firstStillThere := b.byID[1]
	assert.False(t, firstStillThere, "the head order must be fully consumed first")

	second, ok := b.byID[2]
	require.True(t, ok)
	assert.Equal(t, uint32(5), second.Size)
}

func TestExecuteTradeFailsWithoutPassiveLevel(t *testing.T) {
	b := New()
	assert.False(t, b.ExecuteTrade(NewPriceTick(100, 0), 10, SideBid))
}

func TestExecuteTradeZeroSizeIsNoop(t *testing.T) {
	b := New()
	b.AddOrder(1, NewPriceTick(100, 0), 10, SideAsk, 1)
	assert.True(t, b.ExecuteTrade(NewPriceTick(100, 0), 0, SideBid))
	assert.Equal(t, uint32(10), b.byID[1].Size)
}

func TestClearEmptiesBook(t *testing.T) {
	b := New()
	b.AddOrder(1, NewPriceTick(100, 0), 10, SideBid, 1)
	b.AddOrder(2, NewPriceTick(101, 0), 10, SideAsk, 2)
	b.Clear()

	stats := b.Stats()
	assert.Equal(t, 0, stats.ActiveOrders)
	assert.Equal(t, 0, stats.PriceLevels)

	snap := b.Top10Snapshot()
	assert.Equal(t, Snapshot{}, snap)
}
