package store

import (
	"fmt"

	"beanbags/internal/domain"
)

func (s *Store) BeanBagsInStock() int {
	total := 0
	for _, bag := range s.beanBags {
		total += bag.StockCount
	}
	return total
}

func (s *Store) BeanBagsInStockByID(id string) (int, error) {
	bag, err := s.lookupValid(id)
	if err != nil {
		return 0, err
	}
	return bag.StockCount, nil
}

func (s *Store) ReservedBeanBagsInStock() int {
	total := 0
	for _, bag := range s.beanBags {
		total += bag.ReservedCount()
	}
	return total
}

func (s *Store) NumberOfDifferentBeanBagsInStock() int {
	return len(s.beanBags)
}

func (s *Store) NumberOfSoldBeanBags() int {
	total := 0
	for _, bag := range s.beanBags {
		total += bag.SoldCount()
	}
	return total
}

func (s *Store) NumberOfSoldBeanBagsByID(id string) (int, error) {
	bag, err := s.lookupValid(id)
	if err != nil {
		return 0, err
	}
	return bag.SoldCount(), nil
}

func (s *Store) TotalPriceOfSoldBeanBags() int64 {
	var total int64
	for _, bag := range s.beanBags {
		total += bag.SoldValue()
	}
	return total
}

func (s *Store) TotalPriceOfSoldBeanBagsByID(id string) (int64, error) {
	bag, err := s.lookupValid(id)
	if err != nil {
		return 0, err
	}
	return bag.SoldValue(), nil
}

func (s *Store) TotalPriceOfReservedBeanBags() int64 {
	var total int64
	for _, bag := range s.beanBags {
		total += bag.ReservationValue()
	}
	return total
}

func (s *Store) BeanBagDetails(id string) (string, error) {
	bag, err := s.lookupValid(id)
	if err != nil {
		return "", err
	}

	price := "not set"
	if bag.HasPrice() {
		price = fmt.Sprintf("%dp", bag.PriceInPence)
	}

	return fmt.Sprintf(
		"ID: %s, Manufacturer: %s, Name: %s, Information: %q, Manufactured: %04d-%02d, "+
			"Stock: %d, Reserved: %d, Available: %d, Sold: %d, Price: %s",
		bag.ID, bag.Manufacturer, bag.Name, bag.Information, bag.Year, int(bag.Month),
		bag.StockCount, bag.ReservedCount(), bag.Available(), bag.SoldCount(), price,
	), nil
}

// Lookup returns a copy of the model with the given id.
func (s *Store) Lookup(id string) (*domain.BeanBag, bool) {
	bag := s.find(id)
	if bag == nil {
		return nil, false
	}
	return bag.Clone(), true
}

// BeanBags returns copies of every model in insertion order.
func (s *Store) BeanBags() []*domain.BeanBag {
	out := make([]*domain.BeanBag, 0, len(s.beanBags))
	for _, bag := range s.beanBags {
		out = append(out, bag.Clone())
	}
	return out
}

func (s *Store) lookupValid(id string) (*domain.BeanBag, error) {
	if !ValidateID(id) {
		return nil, illegalID(id)
	}
	return s.mustFind(id)
}
