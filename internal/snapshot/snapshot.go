package snapshot

import (
	"fmt"
	"time"

	"go.yaml.in/yaml/v3"

	"beanbags/internal/domain"
)

// Version is bumped whenever the record layout changes. Only snapshots written by the same
// version are accepted.
const Version = 1

type Snapshot struct {
	Version           int             `yaml:"version" json:"version"`
	LastReservationID int64           `yaml:"lastReservationId" json:"lastReservationId"`
	BeanBags          []BeanBagRecord `yaml:"beanBags" json:"beanBags"`
}

type BeanBagRecord struct {
	ID           string              `yaml:"id" json:"id"`
	Manufacturer string              `yaml:"manufacturer" json:"manufacturer"`
	Name         string              `yaml:"name" json:"name"`
	Information  string              `yaml:"information" json:"information"`
	Year         int                 `yaml:"year" json:"year"`
	Month        int                 `yaml:"month" json:"month"`
	PriceInPence int64               `yaml:"priceInPence" json:"priceInPence"`
	StockCount   int                 `yaml:"stockCount" json:"stockCount"`
	Reservations []ReservationRecord `yaml:"reservations,omitempty" json:"reservations,omitempty"`
	Sales        []SaleRecord        `yaml:"sales,omitempty" json:"sales,omitempty"`
}

type ReservationRecord struct {
	ID           int64 `yaml:"id" json:"id"`
	PriceInPence int64 `yaml:"priceInPence" json:"priceInPence"`
	Quantity     int   `yaml:"quantity" json:"quantity"`
}

type SaleRecord struct {
	PriceInPence int64 `yaml:"priceInPence" json:"priceInPence"`
	Quantity     int   `yaml:"quantity" json:"quantity"`
}

// FromBeanBags captures the full store state in insertion order.
func FromBeanBags(bags []*domain.BeanBag, lastReservationID int64) *Snapshot {
	snap := &Snapshot{
		Version:           Version,
		LastReservationID: lastReservationID,
		BeanBags:          make([]BeanBagRecord, 0, len(bags)),
	}

	for _, b := range bags {
		rec := BeanBagRecord{
			ID:           b.ID,
			Manufacturer: b.Manufacturer,
			Name:         b.Name,
			Information:  b.Information,
			Year:         b.Year,
			Month:        int(b.Month),
			PriceInPence: b.PriceInPence,
			StockCount:   b.StockCount,
		}
		for _, r := range b.Reservations {
			rec.Reservations = append(rec.Reservations, ReservationRecord{
				ID:           r.ID,
				PriceInPence: r.PriceInPence,
				Quantity:     r.Quantity,
			})
		}
		for _, s := range b.Sales {
			rec.Sales = append(rec.Sales, SaleRecord{
				PriceInPence: s.PriceInPence,
				Quantity:     s.Quantity,
			})
		}
		snap.BeanBags = append(snap.BeanBags, rec)
	}

	return snap
}

// ToBeanBags rebuilds domain state and returns the highest reservation number seen, so the
// caller can move its sequence past it. Nothing is returned unless the whole snapshot is valid.
func (s *Snapshot) ToBeanBags() ([]*domain.BeanBag, int64, error) {
	if s.Version != Version {
		return nil, 0, fmt.Errorf("unsupported snapshot version %d", s.Version)
	}

	lastID := s.LastReservationID
	seenBags := make(map[uint64]struct{}, len(s.BeanBags))
	seenReservations := make(map[int64]struct{})
	bags := make([]*domain.BeanBag, 0, len(s.BeanBags))

	for i, rec := range s.BeanBags {
		key, ok := domain.ParseID(rec.ID)
		if !ok {
			return nil, 0, fmt.Errorf("bean bag %d: illegal id %q", i, rec.ID)
		}
		if _, dup := seenBags[key]; dup {
			return nil, 0, fmt.Errorf("bean bag %d: duplicate id %q", i, rec.ID)
		}
		seenBags[key] = struct{}{}

		if rec.Month < 1 || rec.Month > 12 {
			return nil, 0, fmt.Errorf("bean bag %q: invalid month %d", rec.ID, rec.Month)
		}
		if rec.StockCount < 0 {
			return nil, 0, fmt.Errorf("bean bag %q: negative stock %d", rec.ID, rec.StockCount)
		}
		if rec.PriceInPence < 1 && rec.PriceInPence != domain.PriceUnset {
			return nil, 0, fmt.Errorf("bean bag %q: invalid price %d", rec.ID, rec.PriceInPence)
		}

		b := domain.NewBeanBag(rec.ID, rec.Manufacturer, rec.Name, rec.Information,
			rec.Year, time.Month(rec.Month), rec.StockCount)
		b.PriceInPence = rec.PriceInPence
		if b.HasPrice() && !b.CanPrice(b.PriceInPence) {
			return nil, 0, fmt.Errorf("bean bag %q: price %d overflows stock value", rec.ID, rec.PriceInPence)
		}

		for _, r := range rec.Reservations {
			if r.ID < 1 || r.Quantity < 1 || r.PriceInPence < 1 {
				return nil, 0, fmt.Errorf("bean bag %q: invalid reservation %d", rec.ID, r.ID)
			}
			if _, dup := seenReservations[r.ID]; dup {
				return nil, 0, fmt.Errorf("bean bag %q: duplicate reservation %d", rec.ID, r.ID)
			}
			seenReservations[r.ID] = struct{}{}
			if r.ID > lastID {
				lastID = r.ID
			}
			b.Reservations = append(b.Reservations, domain.NewReservation(r.ID, r.PriceInPence, r.Quantity))
		}
		if b.Available() < 0 {
			return nil, 0, fmt.Errorf("bean bag %q: reserved %d exceeds stock %d", rec.ID, b.ReservedCount(), b.StockCount)
		}

		for _, sale := range rec.Sales {
			if sale.Quantity < 1 || sale.PriceInPence < 1 {
				return nil, 0, fmt.Errorf("bean bag %q: invalid sale of %d at %d", rec.ID, sale.Quantity, sale.PriceInPence)
			}
			b.Sales = append(b.Sales, domain.Sale{PriceInPence: sale.PriceInPence, Quantity: sale.Quantity})
		}

		bags = append(bags, b)
	}

	return bags, lastID, nil
}

func Encode(s *Snapshot) ([]byte, error) {
	data, err := yaml.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encoding snapshot: %w", err)
	}
	return data, nil
}

func Decode(data []byte) (*Snapshot, error) {
	var s Snapshot
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decoding snapshot: %w", err)
	}
	return &s, nil
}
