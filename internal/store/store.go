package store

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"beanbags/internal/domain"
	apperrors "beanbags/internal/errors"
)

var _ BeanBagStore = (*Store)(nil)

// Store keeps bean bag models in insertion order. It is not safe for concurrent use; wrap
// it with Guarded when more than one goroutine calls it.
//
// Every operation validates all of its preconditions before touching state, so a failed
// call leaves the store exactly as it was.
type Store struct {
	beanBags  []*domain.BeanBag
	seq       *domain.Sequence
	snapshots Snapshotter
	logger    *zap.Logger
}

// New builds an empty store. A nil snapshotter makes save and load fail with a storage
// error; a nil sequence starts reservation numbers at 1.
func New(snapshots Snapshotter, seq *domain.Sequence, logger *zap.Logger) *Store {
	if seq == nil {
		seq = domain.NewSequence()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		seq:       seq,
		snapshots: snapshots,
		logger:    logger,
	}
}

// ValidateID reports whether id is a non-negative hexadecimal number.
func ValidateID(id string) bool {
	return domain.ValidID(id)
}

func (s *Store) AddBeanBags(num int, manufacturer, name, id string, year int, month int) error {
	return s.AddBeanBagsWithInformation(num, manufacturer, name, id, year, month, "")
}

// AddBeanBagsWithInformation adds stock for a model, creating it on first use. Stock under an
// existing id is merged only when manufacturer, name and information all match.
func (s *Store) AddBeanBagsWithInformation(num int, manufacturer, name, id string, year int, month int, information string) error {
	if num < 1 {
		return apperrors.NewStoreError(apperrors.KindIllegalQuantity,
			fmt.Sprintf("cannot add %d bean bags", num))
	}
	if !ValidateID(id) {
		return illegalID(id)
	}
	if month < 1 || month > 12 {
		return apperrors.NewStoreError(apperrors.KindInvalidMonth,
			fmt.Sprintf("month %d is not between 1 and 12", month))
	}

	existing := s.find(id)
	if existing == nil {
		bag := domain.NewBeanBag(id, manufacturer, name, information, year, time.Month(month), num)
		s.beanBags = append(s.beanBags, bag)
		s.logger.Info("bean bag model added", zap.String("beanBagId", id), zap.Int("quantity", num))
		return nil
	}

	if !existing.Matches(manufacturer, name, information) {
		return apperrors.NewStoreError(apperrors.KindMismatch,
			fmt.Sprintf("id %s already belongs to %s %s", existing.ID, existing.Manufacturer, existing.Name))
	}

	if !existing.CanAddStock(num) {
		return apperrors.NewStoreError(apperrors.KindIllegalQuantity,
			fmt.Sprintf("adding %d to stock %d of bean bag %s would overflow", num, existing.StockCount, existing.ID))
	}

	existing.AddStock(num)
	s.logger.Info("bean bag stock added", zap.String("beanBagId", existing.ID), zap.Int("quantity", num), zap.Int("stockCount", existing.StockCount))
	return nil
}

func (s *Store) SetBeanBagPrice(id string, priceInPence int64) error {
	if !ValidateID(id) {
		return illegalID(id)
	}
	if priceInPence < 1 {
		return apperrors.NewStoreError(apperrors.KindInvalidPrice,
			fmt.Sprintf("price %d is below 1 pence", priceInPence))
	}

	bag, err := s.mustFind(id)
	if err != nil {
		return err
	}

	if !bag.CanPrice(priceInPence) {
		return apperrors.NewStoreError(apperrors.KindInvalidPrice,
			fmt.Sprintf("price %d for %d units of bean bag %s overflows the sales total", priceInPence, bag.StockCount, bag.ID))
	}

	bag.SetPrice(priceInPence)
	s.logger.Info("bean bag price set", zap.String("beanBagId", bag.ID), zap.Int64("priceInPence", priceInPence))
	return nil
}

func (s *Store) SellBeanBags(num int, id string) error {
	if num < 1 {
		return apperrors.NewStoreError(apperrors.KindIllegalQuantity,
			fmt.Sprintf("cannot sell %d bean bags", num))
	}

	bag, err := s.checkSaleable(num, id)
	if err != nil {
		return err
	}

	bag.Sell(num)
	s.logger.Info("bean bags sold", zap.String("beanBagId", bag.ID), zap.Int("quantity", num), zap.Int64("priceInPence", bag.PriceInPence))
	return nil
}

func (s *Store) ReserveBeanBags(num int, id string) (int64, error) {
	if num < 1 {
		return 0, apperrors.NewStoreError(apperrors.KindIllegalReservedQuantity,
			fmt.Sprintf("cannot reserve %d bean bags", num))
	}

	bag, err := s.checkSaleable(num, id)
	if err != nil {
		return 0, err
	}

	reservationID := bag.Reserve(s.seq, num)
	s.logger.Info("bean bags reserved", zap.String("beanBagId", bag.ID), zap.Int64("reservationId", reservationID), zap.Int("quantity", num))
	return reservationID, nil
}

func (s *Store) UnreserveBeanBags(reservationID int64) error {
	for _, bag := range s.beanBags {
		r, ok := bag.Reservation(reservationID)
		if !ok {
			continue
		}
		quantity := r.Quantity
		bag.Unreserve(reservationID)
		s.logger.Info("reservation cancelled", zap.String("beanBagId", bag.ID), zap.Int64("reservationId", reservationID), zap.Int("quantity", quantity))
		return nil
	}
	return reservationNotFound(reservationID)
}

func (s *Store) SellReservation(reservationID int64) error {
	for _, bag := range s.beanBags {
		r, ok := bag.Reservation(reservationID)
		if !ok {
			continue
		}
		quantity, price := r.Quantity, r.PriceInPence
		bag.SellReservation(reservationID)
		s.logger.Info("reservation sold", zap.String("beanBagId", bag.ID), zap.Int64("reservationId", reservationID),
			zap.Int("quantity", quantity), zap.Int64("priceInPence", price))
		return nil
	}
	return reservationNotFound(reservationID)
}

// Replace renames a model. The new id must be legal and not already used by another model.
func (s *Store) Replace(oldID, newID string) error {
	if !ValidateID(oldID) {
		return illegalID(oldID)
	}
	if !ValidateID(newID) {
		return illegalID(newID)
	}

	bag, err := s.mustFind(oldID)
	if err != nil {
		return err
	}

	if other := s.find(newID); other != nil && other != bag {
		return apperrors.NewStoreError(apperrors.KindIllegalIdentifier,
			fmt.Sprintf("id %s is already in use", newID))
	}

	previous := bag.ID
	bag.ID = newID
	s.logger.Info("bean bag id replaced", zap.String("oldId", previous), zap.String("newId", newID))
	return nil
}

// Empty removes every model. Reservation numbers keep counting from where they were.
func (s *Store) Empty() {
	for _, bag := range s.beanBags {
		bag.Empty()
	}
	s.beanBags = nil
	s.logger.Info("store emptied")
}

func (s *Store) ResetSaleAndCostTracking() {
	for _, bag := range s.beanBags {
		bag.Reset()
	}
	s.logger.Info("sales tracking reset", zap.Int("models", len(s.beanBags)))
}

// checkSaleable runs the shared sell/reserve ladder after the quantity check:
// identifier, existence, stock, then price.
func (s *Store) checkSaleable(num int, id string) (*domain.BeanBag, error) {
	if !ValidateID(id) {
		return nil, illegalID(id)
	}

	bag, err := s.mustFind(id)
	if err != nil {
		return nil, err
	}

	if !bag.InStock() {
		return nil, apperrors.NewStoreError(apperrors.KindNotInStock,
			fmt.Sprintf("bean bag %s is out of stock", bag.ID))
	}
	if bag.Available() < num {
		return nil, apperrors.NewStoreError(apperrors.KindInsufficientStock,
			fmt.Sprintf("requested %d of bean bag %s, available %d", num, bag.ID, bag.Available()))
	}
	if !bag.HasPrice() {
		return nil, apperrors.NewStoreError(apperrors.KindPriceNotSet,
			fmt.Sprintf("price of bean bag %s has not been set", bag.ID))
	}

	return bag, nil
}

func (s *Store) find(id string) *domain.BeanBag {
	for _, bag := range s.beanBags {
		if domain.SameID(bag.ID, id) {
			return bag
		}
	}
	return nil
}

func (s *Store) mustFind(id string) (*domain.BeanBag, error) {
	bag := s.find(id)
	if bag == nil {
		return nil, apperrors.NewStoreError(apperrors.KindIdentifierNotFound,
			fmt.Sprintf("bean bag id %s not recognised", id))
	}
	return bag, nil
}

func illegalID(id string) error {
	return apperrors.NewStoreError(apperrors.KindIllegalIdentifier,
		fmt.Sprintf("id %q is not a non-negative hexadecimal number", id))
}

func reservationNotFound(reservationID int64) error {
	return apperrors.NewStoreError(apperrors.KindReservationNotFound,
		fmt.Sprintf("reservation %d not recognised", reservationID))
}
