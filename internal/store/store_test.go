package store

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"beanbags/internal/domain"
	apperrors "beanbags/internal/errors"
)

// Helper to create a Store with test defaults
func newTestStore() *Store {
	return New(nil, domain.NewSequence(), zap.NewNop())
}

// Helper to create a store holding one priced model
func newStockedStore(t *testing.T, id string, stock int, price int64) *Store {
	t.Helper()
	s := newTestStore()
	require.NoError(t, s.AddBeanBags(stock, "Acme", "Lounger", id, 2016, 2))
	if price > 0 {
		require.NoError(t, s.SetBeanBagPrice(id, price))
	}
	return s
}

func TestValidateID(t *testing.T) {
	assert.True(t, ValidateID("0"))
	assert.True(t, ValidateID("AbCdEf12"))
	assert.False(t, ValidateID(""))
	assert.False(t, ValidateID("#nothex"))
}

func TestAddBeanBags_NewModel(t *testing.T) {
	s := newTestStore()

	err := s.AddBeanBags(1, "", "", "0", 2016, 2)
	require.NoError(t, err)

	assert.Equal(t, 1, s.NumberOfDifferentBeanBagsInStock())
	bag, ok := s.Lookup("0")
	require.True(t, ok)
	assert.Equal(t, 1, bag.StockCount)
	assert.False(t, bag.HasPrice())
	assert.Equal(t, "", bag.Information)
}

func TestAddBeanBags_IllegalQuantity(t *testing.T) {
	for _, num := range []int{0, -1, -100} {
		s := newTestStore()

		err := s.AddBeanBags(num, "", "", "", 2016, 2)

		assert.ErrorIs(t, err, apperrors.ErrIllegalQuantity)
		assert.Zero(t, s.NumberOfDifferentBeanBagsInStock())
	}
}

func TestAddBeanBags_IllegalIdentifier(t *testing.T) {
	s := newTestStore()

	err := s.AddBeanBags(1, "", "", "#nothex", 2016, 2)

	assert.ErrorIs(t, err, apperrors.ErrIllegalIdentifier)
	assert.Zero(t, s.NumberOfDifferentBeanBagsInStock())
}

func TestAddBeanBags_InvalidMonth(t *testing.T) {
	for _, month := range []int{0, 13, -1} {
		s := newTestStore()

		err := s.AddBeanBags(1, "Acme", "Lounger", "a", 2016, month)

		assert.ErrorIs(t, err, apperrors.ErrInvalidMonth)
		assert.Zero(t, s.NumberOfDifferentBeanBagsInStock())
	}
}

func TestAddBeanBags_InvalidMonthDoesNotMergeStock(t *testing.T) {
	s := newStockedStore(t, "a", 5, 0)

	err := s.AddBeanBags(3, "Acme", "Lounger", "a", 2016, 14)

	assert.ErrorIs(t, err, apperrors.ErrInvalidMonth)
	assert.Equal(t, 5, s.BeanBagsInStock())
}

func TestAddBeanBags_MergesMatchingModel(t *testing.T) {
	s := newTestStore()
	require.NoError(t, s.AddBeanBagsWithInformation(4, "Acme", "Lounger", "1f", 2016, 2, "blue"))

	err := s.AddBeanBagsWithInformation(6, "Acme", "Lounger", "1F", 2017, 3, "blue")
	require.NoError(t, err)

	assert.Equal(t, 1, s.NumberOfDifferentBeanBagsInStock())
	stock, err := s.BeanBagsInStockByID("1f")
	require.NoError(t, err)
	assert.Equal(t, 10, stock)
}

func TestAddBeanBags_Mismatch(t *testing.T) {
	tests := []struct {
		name         string
		manufacturer string
		beanBagName  string
		information  string
	}{
		{name: "different manufacturer", manufacturer: "Other", beanBagName: "Lounger", information: "blue"},
		{name: "different name", manufacturer: "Acme", beanBagName: "Sofa", information: "blue"},
		{name: "different information", manufacturer: "Acme", beanBagName: "Lounger", information: "red"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestStore()
			require.NoError(t, s.AddBeanBagsWithInformation(4, "Acme", "Lounger", "1f", 2016, 2, "blue"))

			err := s.AddBeanBagsWithInformation(6, tt.manufacturer, tt.beanBagName, "1f", 2016, 2, tt.information)

			assert.ErrorIs(t, err, apperrors.ErrMismatch)
			bag, ok := s.Lookup("1f")
			require.True(t, ok)
			assert.Equal(t, 4, bag.StockCount)
			assert.Equal(t, "Acme", bag.Manufacturer)
			assert.Equal(t, "blue", bag.Information)
		})
	}
}

func TestAddBeanBags_KeepsInsertionOrder(t *testing.T) {
	s := newTestStore()
	for _, id := range []string{"c", "a", "b"} {
		require.NoError(t, s.AddBeanBags(1, "Acme", "Lounger", id, 2016, 2))
	}

	bags := s.BeanBags()
	require.Len(t, bags, 3)
	assert.Equal(t, "c", bags[0].ID)
	assert.Equal(t, "a", bags[1].ID)
	assert.Equal(t, "b", bags[2].ID)
}

func TestSetBeanBagPrice_ValidationOrder(t *testing.T) {
	s := newStockedStore(t, "a", 5, 0)

	assert.ErrorIs(t, s.SetBeanBagPrice("#nothex", 0), apperrors.ErrIllegalIdentifier)
	assert.ErrorIs(t, s.SetBeanBagPrice("a", 0), apperrors.ErrInvalidPrice)
	assert.ErrorIs(t, s.SetBeanBagPrice("b", 0), apperrors.ErrInvalidPrice)
	assert.ErrorIs(t, s.SetBeanBagPrice("b", 100), apperrors.ErrIdentifierNotFound)

	bag, _ := s.Lookup("a")
	assert.False(t, bag.HasPrice())
}

func TestSellBeanBags_Success(t *testing.T) {
	s := newStockedStore(t, "0", 10, 50)

	require.NoError(t, s.SellBeanBags(4, "0"))

	assert.Equal(t, 6, s.BeanBagsInStock())
	assert.Equal(t, 4, s.NumberOfSoldBeanBags())
	assert.Equal(t, int64(200), s.TotalPriceOfSoldBeanBags())
}

func TestSellBeanBags_ValidationOrder(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T) *Store
		num   int
		id    string
		want  error
	}{
		{
			name:  "quantity checked before identifier",
			setup: func(t *testing.T) *Store { return newTestStore() },
			num:   0,
			id:    "#nothex",
			want:  apperrors.ErrIllegalQuantity,
		},
		{
			name:  "identifier checked before existence",
			setup: func(t *testing.T) *Store { return newTestStore() },
			num:   1,
			id:    "#nothex",
			want:  apperrors.ErrIllegalIdentifier,
		},
		{
			name:  "unknown id",
			setup: func(t *testing.T) *Store { return newTestStore() },
			num:   1,
			id:    "ab",
			want:  apperrors.ErrIdentifierNotFound,
		},
		{
			name: "out of stock checked before price",
			setup: func(t *testing.T) *Store {
				s := newStockedStore(t, "a", 2, 100)
				require.NoError(t, s.SellBeanBags(2, "a"))
				return s
			},
			num:  1,
			id:   "a",
			want: apperrors.ErrNotInStock,
		},
		{
			name:  "insufficient stock checked before price",
			setup: func(t *testing.T) *Store { return newStockedStore(t, "a", 2, 0) },
			num:   3,
			id:    "a",
			want:  apperrors.ErrInsufficientStock,
		},
		{
			name:  "price not set",
			setup: func(t *testing.T) *Store { return newStockedStore(t, "a", 2, 0) },
			num:   1,
			id:    "a",
			want:  apperrors.ErrPriceNotSet,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := tt.setup(t)
			stockBefore := s.BeanBagsInStock()
			soldBefore := s.NumberOfSoldBeanBags()

			err := s.SellBeanBags(tt.num, tt.id)

			assert.ErrorIs(t, err, tt.want)
			assert.Equal(t, stockBefore, s.BeanBagsInStock())
			assert.Equal(t, soldBefore, s.NumberOfSoldBeanBags())
		})
	}
}

func TestSellBeanBags_CountsOnlyAvailableStock(t *testing.T) {
	s := newStockedStore(t, "a", 5, 100)
	_, err := s.ReserveBeanBags(4, "a")
	require.NoError(t, err)

	assert.ErrorIs(t, s.SellBeanBags(2, "a"), apperrors.ErrInsufficientStock)
	require.NoError(t, s.SellBeanBags(1, "a"))
	assert.ErrorIs(t, s.SellBeanBags(1, "a"), apperrors.ErrNotInStock)
}

func TestReserveBeanBags_PriceNotSetThenSuccess(t *testing.T) {
	s := newStockedStore(t, "a", 5, 0)

	_, err := s.ReserveBeanBags(2, "a")
	assert.ErrorIs(t, err, apperrors.ErrPriceNotSet)
	assert.Zero(t, s.ReservedBeanBagsInStock())

	require.NoError(t, s.SetBeanBagPrice("a", 300))

	id, err := s.ReserveBeanBags(2, "a")
	require.NoError(t, err)
	assert.Greater(t, id, int64(0))
	assert.Equal(t, 2, s.ReservedBeanBagsInStock())
	assert.Equal(t, 5, s.BeanBagsInStock())
}

func TestReserveBeanBags_ValidationOrder(t *testing.T) {
	s := newStockedStore(t, "a", 3, 100)

	_, err := s.ReserveBeanBags(0, "#nothex")
	assert.ErrorIs(t, err, apperrors.ErrIllegalReservedQuantity)

	_, err = s.ReserveBeanBags(1, "#nothex")
	assert.ErrorIs(t, err, apperrors.ErrIllegalIdentifier)

	_, err = s.ReserveBeanBags(1, "b")
	assert.ErrorIs(t, err, apperrors.ErrIdentifierNotFound)

	_, err = s.ReserveBeanBags(4, "a")
	assert.ErrorIs(t, err, apperrors.ErrInsufficientStock)

	_, err = s.ReserveBeanBags(3, "a")
	require.NoError(t, err)

	_, err = s.ReserveBeanBags(1, "a")
	assert.ErrorIs(t, err, apperrors.ErrNotInStock)
	assert.Equal(t, 3, s.ReservedBeanBagsInStock())
}

func TestReserveBeanBags_IDsIncreaseAcrossModels(t *testing.T) {
	s := newStockedStore(t, "a", 5, 100)
	require.NoError(t, s.AddBeanBags(5, "Comfy", "Giant", "b", 2017, 6))
	require.NoError(t, s.SetBeanBagPrice("b", 200))

	first, err := s.ReserveBeanBags(1, "a")
	require.NoError(t, err)
	second, err := s.ReserveBeanBags(1, "b")
	require.NoError(t, err)
	third, err := s.ReserveBeanBags(1, "a")
	require.NoError(t, err)

	assert.Less(t, first, second)
	assert.Less(t, second, third)
}

func TestReserveUnreserve_RoundTrip(t *testing.T) {
	s := newStockedStore(t, "a", 5, 100)
	before, _ := s.Lookup("a")

	id, err := s.ReserveBeanBags(3, "a")
	require.NoError(t, err)
	during, _ := s.Lookup("a")
	assert.Equal(t, before.Available()-3, during.Available())

	require.NoError(t, s.UnreserveBeanBags(id))
	after, _ := s.Lookup("a")
	assert.Equal(t, before.Available(), after.Available())

	assert.ErrorIs(t, s.UnreserveBeanBags(id), apperrors.ErrReservationNotFound)
}

func TestUnreserveBeanBags_SearchesAllModels(t *testing.T) {
	s := newStockedStore(t, "a", 5, 100)
	require.NoError(t, s.AddBeanBags(5, "Comfy", "Giant", "b", 2017, 6))
	require.NoError(t, s.SetBeanBagPrice("b", 200))
	_, err := s.ReserveBeanBags(1, "a")
	require.NoError(t, err)
	id, err := s.ReserveBeanBags(2, "b")
	require.NoError(t, err)

	require.NoError(t, s.UnreserveBeanBags(id))

	assert.Equal(t, 1, s.ReservedBeanBagsInStock())
	assert.ErrorIs(t, s.UnreserveBeanBags(999), apperrors.ErrReservationNotFound)
}

func TestBestPriceGuarantee(t *testing.T) {
	s := newStockedStore(t, "a", 5, 500)
	_, err := s.ReserveBeanBags(2, "a")
	require.NoError(t, err)

	require.NoError(t, s.SetBeanBagPrice("a", 300))
	assert.Equal(t, int64(600), s.TotalPriceOfReservedBeanBags())

	require.NoError(t, s.SetBeanBagPrice("a", 900))
	assert.Equal(t, int64(600), s.TotalPriceOfReservedBeanBags())
}

func TestSellReservation(t *testing.T) {
	s := newStockedStore(t, "a", 5, 500)
	id, err := s.ReserveBeanBags(2, "a")
	require.NoError(t, err)
	require.NoError(t, s.SetBeanBagPrice("a", 400))
	require.NoError(t, s.SetBeanBagPrice("a", 700))

	require.NoError(t, s.SellReservation(id))

	assert.Equal(t, 2, s.NumberOfSoldBeanBags())
	assert.Equal(t, int64(800), s.TotalPriceOfSoldBeanBags())
	assert.Zero(t, s.ReservedBeanBagsInStock())
	assert.Equal(t, 3, s.BeanBagsInStock())
	assert.ErrorIs(t, s.SellReservation(id), apperrors.ErrReservationNotFound)
}

func TestReplace(t *testing.T) {
	s := newStockedStore(t, "a", 5, 100)

	require.NoError(t, s.Replace("A", "b1"))

	_, ok := s.Lookup("a")
	assert.False(t, ok)
	bag, ok := s.Lookup("B1")
	require.True(t, ok)
	assert.Equal(t, "b1", bag.ID)
	assert.Equal(t, 5, bag.StockCount)
}

func TestReplace_Failures(t *testing.T) {
	s := newStockedStore(t, "a", 5, 100)
	require.NoError(t, s.AddBeanBags(1, "Comfy", "Giant", "b", 2017, 6))

	assert.ErrorIs(t, s.Replace("#nothex", "c"), apperrors.ErrIllegalIdentifier)
	assert.ErrorIs(t, s.Replace("a", "zz"), apperrors.ErrIllegalIdentifier)
	assert.ErrorIs(t, s.Replace("c", "d"), apperrors.ErrIdentifierNotFound)
	assert.ErrorIs(t, s.Replace("a", "0b"), apperrors.ErrIllegalIdentifier)

	_, ok := s.Lookup("a")
	assert.True(t, ok)
	assert.Equal(t, 2, s.NumberOfDifferentBeanBagsInStock())
}

func TestReplace_SameID(t *testing.T) {
	s := newStockedStore(t, "a", 5, 100)

	require.NoError(t, s.Replace("a", "0A"))

	bag, ok := s.Lookup("a")
	require.True(t, ok)
	assert.Equal(t, "0A", bag.ID)
}

func TestEmpty(t *testing.T) {
	s := newStockedStore(t, "a", 5, 100)
	first, err := s.ReserveBeanBags(1, "a")
	require.NoError(t, err)

	s.Empty()

	assert.Zero(t, s.NumberOfDifferentBeanBagsInStock())
	assert.Zero(t, s.BeanBagsInStock())
	assert.Zero(t, s.TotalPriceOfReservedBeanBags())

	require.NoError(t, s.AddBeanBags(5, "Acme", "Lounger", "a", 2016, 2))
	require.NoError(t, s.SetBeanBagPrice("a", 100))
	second, err := s.ReserveBeanBags(1, "a")
	require.NoError(t, err)
	assert.Greater(t, second, first)
}

func TestResetSaleAndCostTracking(t *testing.T) {
	s := newStockedStore(t, "a", 10, 100)
	require.NoError(t, s.SellBeanBags(3, "a"))
	_, err := s.ReserveBeanBags(2, "a")
	require.NoError(t, err)

	s.ResetSaleAndCostTracking()

	assert.Zero(t, s.NumberOfSoldBeanBags())
	assert.Zero(t, s.TotalPriceOfSoldBeanBags())
	assert.Equal(t, 7, s.BeanBagsInStock())
	assert.Equal(t, 2, s.ReservedBeanBagsInStock())
}

func TestLookup_ReturnsCopy(t *testing.T) {
	s := newStockedStore(t, "a", 10, 100)

	bag, ok := s.Lookup("a")
	require.True(t, ok)
	bag.StockCount = 0

	assert.Equal(t, 10, s.BeanBagsInStock())

	_, ok = s.Lookup("123")
	assert.False(t, ok)
}

func TestAddBeanBags_StockOverflowRejected(t *testing.T) {
	s := newTestStore()
	require.NoError(t, s.AddBeanBags(1, "Acme", "Lounger", "1", 2016, 2))

	err := s.AddBeanBags(math.MaxInt, "Acme", "Lounger", "1", 2016, 2)

	assert.ErrorIs(t, err, apperrors.ErrIllegalQuantity)
	stock, err := s.BeanBagsInStockByID("1")
	require.NoError(t, err)
	assert.Equal(t, 1, stock)
}

func TestAddBeanBags_StockValueOverflowRejected(t *testing.T) {
	s := newStockedStore(t, "1", 1, 1<<40)

	err := s.AddBeanBags(1<<30, "Acme", "Lounger", "1", 2016, 2)

	assert.ErrorIs(t, err, apperrors.ErrIllegalQuantity)
	stock, err := s.BeanBagsInStockByID("1")
	require.NoError(t, err)
	assert.Equal(t, 1, stock)
}

func TestSetBeanBagPrice_ValueOverflowRejected(t *testing.T) {
	s := newStockedStore(t, "1", 1<<20, 100)

	err := s.SetBeanBagPrice("1", math.MaxInt64/(1<<20)+1)

	assert.ErrorIs(t, err, apperrors.ErrInvalidPrice)
	bag, ok := s.Lookup("1")
	require.True(t, ok)
	assert.Equal(t, int64(100), bag.PriceInPence)
}
