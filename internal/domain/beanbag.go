package domain

import (
	"math"
	"time"
)

// PriceUnset marks a bean bag that cannot be sold or reserved yet.
const PriceUnset int64 = -1

// BeanBag holds stock, price, reservations and sales for one product model.
//
// The type does no validation of its own: the store checks quantities, stock and price
// before calling any mutating method.
type BeanBag struct {
	ID           string
	Manufacturer string
	Name         string
	Information  string
	Year         int
	Month        time.Month
	PriceInPence int64
	StockCount   int
	Reservations []*Reservation
	Sales        []Sale
}

func NewBeanBag(id, manufacturer, name, information string, year int, month time.Month, stock int) *BeanBag {
	return &BeanBag{
		ID:           id,
		Manufacturer: manufacturer,
		Name:         name,
		Information:  information,
		Year:         year,
		Month:        month,
		PriceInPence: PriceUnset,
		StockCount:   stock,
	}
}

// Matches reports whether the descriptive fields agree, which is what allows stock under
// the same id to be merged.
func (b *BeanBag) Matches(manufacturer, name, information string) bool {
	return b.Manufacturer == manufacturer &&
		b.Name == name &&
		b.Information == information
}

func (b *BeanBag) AddStock(quantity int) {
	b.StockCount += quantity
}

// CanAddStock reports whether quantity more units keep the stock count, and its value at the
// current price, representable.
func (b *BeanBag) CanAddStock(quantity int) bool {
	if quantity > 0 && b.StockCount > math.MaxInt-quantity {
		return false
	}
	return !b.HasPrice() || valueFits(b.PriceInPence, b.StockCount+quantity)
}

// CanPrice reports whether the whole stock can be valued at priceInPence without overflowing.
// Sales and reservations never exceed stock, so every receipt value stays in range too.
func (b *BeanBag) CanPrice(priceInPence int64) bool {
	return valueFits(priceInPence, b.StockCount)
}

func (b *BeanBag) HasPrice() bool {
	return b.PriceInPence != PriceUnset
}

func (b *BeanBag) ReservedCount() int {
	reserved := 0
	for _, r := range b.Reservations {
		reserved += r.Quantity
	}
	return reserved
}

func (b *BeanBag) Available() int {
	return b.StockCount - b.ReservedCount()
}

func (b *BeanBag) InStock() bool {
	return b.Available() > 0
}

func (b *BeanBag) ReservationValue() int64 {
	var total int64
	for _, r := range b.Reservations {
		total += r.Value()
	}
	return total
}

func (b *BeanBag) SoldCount() int {
	sold := 0
	for _, s := range b.Sales {
		sold += s.Quantity
	}
	return sold
}

func (b *BeanBag) SoldValue() int64 {
	var total int64
	for _, s := range b.Sales {
		total += s.Value()
	}
	return total
}

// SetPrice changes the list price and passes any drop on to open reservations.
func (b *BeanBag) SetPrice(priceInPence int64) {
	b.PriceInPence = priceInPence
	for _, r := range b.Reservations {
		r.ApplyPrice(priceInPence)
	}
}

// Reserve records a reservation at the current price and returns its number.
func (b *BeanBag) Reserve(seq *Sequence, quantity int) int64 {
	r := NewReservation(seq.Next(), b.PriceInPence, quantity)
	b.Reservations = append(b.Reservations, r)
	return r.ID
}

func (b *BeanBag) Reservation(id int64) (*Reservation, bool) {
	i := b.reservationIndex(id)
	if i < 0 {
		return nil, false
	}
	return b.Reservations[i], true
}

func (b *BeanBag) Unreserve(id int64) bool {
	i := b.reservationIndex(id)
	if i < 0 {
		return false
	}
	b.removeReservation(i)
	return true
}

func (b *BeanBag) Sell(quantity int) {
	b.sellAt(b.PriceInPence, quantity)
}

// SellReservation sells the whole reservation at its locked price.
func (b *BeanBag) SellReservation(id int64) bool {
	i := b.reservationIndex(id)
	if i < 0 {
		return false
	}
	r := b.Reservations[i]
	b.removeReservation(i)
	b.sellAt(r.PriceInPence, r.Quantity)
	return true
}

// Reset clears sales tracking; stock and reservations are kept.
func (b *BeanBag) Reset() {
	b.Sales = nil
}

func (b *BeanBag) Empty() {
	b.Reset()
	b.PriceInPence = PriceUnset
	b.StockCount = 0
	b.Reservations = nil
}

// Clone returns a deep copy safe to hand outside the store.
func (b *BeanBag) Clone() *BeanBag {
	c := *b
	c.Reservations = nil
	for _, r := range b.Reservations {
		rc := *r
		c.Reservations = append(c.Reservations, &rc)
	}
	c.Sales = append([]Sale(nil), b.Sales...)
	return &c
}

func (b *BeanBag) sellAt(priceInPence int64, quantity int) {
	b.StockCount -= quantity
	b.Sales = append(b.Sales, Sale{PriceInPence: priceInPence, Quantity: quantity})
}

func (b *BeanBag) reservationIndex(id int64) int {
	for i, r := range b.Reservations {
		if r.ID == id {
			return i
		}
	}
	return -1
}

func (b *BeanBag) removeReservation(i int) {
	b.Reservations = append(b.Reservations[:i], b.Reservations[i+1:]...)
}

func valueFits(priceInPence int64, quantity int) bool {
	if priceInPence <= 0 || quantity <= 0 {
		return true
	}
	return int64(quantity) <= math.MaxInt64/priceInPence
}
