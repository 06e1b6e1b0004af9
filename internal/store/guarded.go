package store

import (
	"context"
	"sync"

	"beanbags/internal/domain"
)

var _ BeanBagStore = (*Guarded)(nil)

// Guarded serialises every call to the wrapped store behind one mutex. Reservation numbers
// and store-wide totals span all models, so the lock covers the whole store rather than
// single entries.
type Guarded struct {
	mu    sync.Mutex
	inner BeanBagStore
}

func NewGuarded(inner BeanBagStore) *Guarded {
	return &Guarded{inner: inner}
}

func (g *Guarded) AddBeanBags(num int, manufacturer, name, id string, year int, month int) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.inner.AddBeanBags(num, manufacturer, name, id, year, month)
}

func (g *Guarded) AddBeanBagsWithInformation(num int, manufacturer, name, id string, year int, month int, information string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.inner.AddBeanBagsWithInformation(num, manufacturer, name, id, year, month, information)
}

func (g *Guarded) SetBeanBagPrice(id string, priceInPence int64) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.inner.SetBeanBagPrice(id, priceInPence)
}

func (g *Guarded) SellBeanBags(num int, id string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.inner.SellBeanBags(num, id)
}

func (g *Guarded) SellReservation(reservationID int64) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.inner.SellReservation(reservationID)
}

func (g *Guarded) ReserveBeanBags(num int, id string) (int64, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.inner.ReserveBeanBags(num, id)
}

func (g *Guarded) UnreserveBeanBags(reservationID int64) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.inner.UnreserveBeanBags(reservationID)
}

func (g *Guarded) BeanBagsInStock() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.inner.BeanBagsInStock()
}

func (g *Guarded) BeanBagsInStockByID(id string) (int, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.inner.BeanBagsInStockByID(id)
}

func (g *Guarded) ReservedBeanBagsInStock() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.inner.ReservedBeanBagsInStock()
}

func (g *Guarded) NumberOfDifferentBeanBagsInStock() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.inner.NumberOfDifferentBeanBagsInStock()
}

func (g *Guarded) NumberOfSoldBeanBags() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.inner.NumberOfSoldBeanBags()
}

func (g *Guarded) NumberOfSoldBeanBagsByID(id string) (int, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.inner.NumberOfSoldBeanBagsByID(id)
}

func (g *Guarded) TotalPriceOfSoldBeanBags() int64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.inner.TotalPriceOfSoldBeanBags()
}

func (g *Guarded) TotalPriceOfSoldBeanBagsByID(id string) (int64, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.inner.TotalPriceOfSoldBeanBagsByID(id)
}

func (g *Guarded) TotalPriceOfReservedBeanBags() int64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.inner.TotalPriceOfReservedBeanBags()
}

func (g *Guarded) BeanBagDetails(id string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.inner.BeanBagDetails(id)
}

func (g *Guarded) Lookup(id string) (*domain.BeanBag, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.inner.Lookup(id)
}

func (g *Guarded) BeanBags() []*domain.BeanBag {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.inner.BeanBags()
}

func (g *Guarded) Replace(oldID, newID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.inner.Replace(oldID, newID)
}

func (g *Guarded) Empty() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.inner.Empty()
}

func (g *Guarded) ResetSaleAndCostTracking() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.inner.ResetSaleAndCostTracking()
}

// SaveStoreContents captures the store under the lock and writes it after releasing it, so
// a slow backend does not stall other callers. Stores that cannot be split keep the lock
// for the whole call.
func (g *Guarded) SaveStoreContents(ctx context.Context, name string) error {
	p, ok := g.inner.(Persister)
	if !ok {
		g.mu.Lock()
		defer g.mu.Unlock()
		return g.inner.SaveStoreContents(ctx, name)
	}

	g.mu.Lock()
	snap := p.CaptureContents()
	g.mu.Unlock()

	return p.WriteContents(ctx, name, snap)
}

// LoadStoreContents reads and validates the snapshot without the lock and only takes it to
// swap the contents in.
func (g *Guarded) LoadStoreContents(ctx context.Context, name string) error {
	p, ok := g.inner.(Persister)
	if !ok {
		g.mu.Lock()
		defer g.mu.Unlock()
		return g.inner.LoadStoreContents(ctx, name)
	}

	c, err := p.ReadContents(ctx, name)
	if err != nil {
		return err
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	p.RestoreContents(name, c)
	return nil
}
