package book

import "fmt"

// PriceTick is a price expressed as a signed integer number of hundredths
// of the display unit. No floating-point price ever enters the book; all
// comparisons and arithmetic operate on this integer domain.
type PriceTick int64

// NewPriceTick builds a PriceTick from a whole-unit part and a two-digit
// fractional part (e.g. whole=100, frac=50 -> 100.50).
func NewPriceTick(whole int64, frac int64) PriceTick {
	if whole < 0 {
		return PriceTick(whole*100 - frac)
	}
	return PriceTick(whole*100 + frac)
}

// Whole returns the integer display-unit part of the price.
func (p PriceTick) Whole() int64 {
	v := int64(p)
	if v < 0 {
		return -(-v / 100)
	}
	return v / 100
}

// Frac returns the two-digit fractional part (0-99) of the price.
func (p PriceTick) Frac() int64 {
	v := int64(p)
	if v < 0 {
		v = -v
	}
	return v % 100
}

// String renders the price as "whole.frac" with exactly two fractional
// digits, or bare "whole" when the fraction is zero. Zero itself renders
// as "0".
func (p PriceTick) String() string {
	if p == 0 {
		return "0"
	}
	whole, frac := p.Whole(), p.Frac()
	if frac == 0 {
		return fmt.Sprintf("%d", whole)
	}
	if p < 0 && whole == 0 {
		return fmt.Sprintf("-0.%02d", frac)
	}
	return fmt.Sprintf("%d.%02d", whole, frac)
}
