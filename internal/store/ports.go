package store

import (
	"context"

	"beanbags/internal/domain"
	"beanbags/internal/snapshot"
)

// BeanBagStore is the capability every store implementation offers. Identifiers are
// hexadecimal strings and prices are in pence.
type BeanBagStore interface {
	AddBeanBags(num int, manufacturer, name, id string, year int, month int) error
	AddBeanBagsWithInformation(num int, manufacturer, name, id string, year int, month int, information string) error
	SetBeanBagPrice(id string, priceInPence int64) error
	SellBeanBags(num int, id string) error
	SellReservation(reservationID int64) error
	ReserveBeanBags(num int, id string) (int64, error)
	UnreserveBeanBags(reservationID int64) error

	BeanBagsInStock() int
	BeanBagsInStockByID(id string) (int, error)
	ReservedBeanBagsInStock() int
	NumberOfDifferentBeanBagsInStock() int
	NumberOfSoldBeanBags() int
	NumberOfSoldBeanBagsByID(id string) (int, error)
	TotalPriceOfSoldBeanBags() int64
	TotalPriceOfSoldBeanBagsByID(id string) (int64, error)
	TotalPriceOfReservedBeanBags() int64
	BeanBagDetails(id string) (string, error)
	Lookup(id string) (*domain.BeanBag, bool)
	BeanBags() []*domain.BeanBag

	Replace(oldID, newID string) error
	Empty()
	ResetSaleAndCostTracking()

	SaveStoreContents(ctx context.Context, name string) error
	LoadStoreContents(ctx context.Context, name string) error
}

// Snapshotter persists whole-store snapshots under a name.
type Snapshotter interface {
	Save(ctx context.Context, name string, snap *snapshot.Snapshot) error
	Load(ctx context.Context, name string) (*snapshot.Snapshot, error)
}
