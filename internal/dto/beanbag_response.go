package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"beanbags/internal/domain"
)

type BeanBagResponse struct {
	ID               string  `json:"id"`
	Manufacturer     string  `json:"manufacturer"`
	Name             string  `json:"name"`
	Information      string  `json:"information"`
	Year             int     `json:"year"`
	Month            int     `json:"month"`
	StockCount       int     `json:"stockCount"`
	Reserved         int     `json:"reserved"`
	Available        int     `json:"available"`
	Sold             int     `json:"sold"`
	PriceInPence     *int64  `json:"priceInPence"`
	Price            *string `json:"price"`
	SoldValueInPence int64   `json:"soldValueInPence"`
	Details          string  `json:"details,omitempty"`
}

type BeanBagListResponse struct {
	TraceID  string            `json:"traceId"`
	BeanBags []BeanBagResponse `json:"beanBags"`
}

type ReservationResponse struct {
	TraceID       string `json:"traceId"`
	ReservationID int64  `json:"reservationId"`
	BeanBagID     string `json:"beanBagId"`
	Quantity      int    `json:"quantity"`
}

type StatsResponse struct {
	TraceID              string `json:"traceId"`
	BeanBagsInStock      int    `json:"beanBagsInStock"`
	ReservedBeanBags     int    `json:"reservedBeanBags"`
	DifferentBeanBags    int    `json:"differentBeanBags"`
	SoldBeanBags         int    `json:"soldBeanBags"`
	SoldValueInPence     int64  `json:"soldValueInPence"`
	SoldValue            string `json:"soldValue"`
	ReservedValueInPence int64  `json:"reservedValueInPence"`
	ReservedValue        string `json:"reservedValue"`
}

type ErrorResponse struct {
	TraceID   string    `json:"traceId"`
	Status    int       `json:"status"`
	Code      string    `json:"code"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// Pounds renders a pence amount as a fixed two-decimal pounds string, e.g. 1999 -> "19.99".
func Pounds(pence int64) string {
	return decimal.New(pence, -2).StringFixed(2)
}

func NewBeanBagResponse(b *domain.BeanBag) BeanBagResponse {
	resp := BeanBagResponse{
		ID:               b.ID,
		Manufacturer:     b.Manufacturer,
		Name:             b.Name,
		Information:      b.Information,
		Year:             b.Year,
		Month:            int(b.Month),
		StockCount:       b.StockCount,
		Reserved:         b.ReservedCount(),
		Available:        b.Available(),
		Sold:             b.SoldCount(),
		SoldValueInPence: b.SoldValue(),
	}

	if b.HasPrice() {
		price := b.PriceInPence
		pounds := Pounds(price)
		resp.PriceInPence = &price
		resp.Price = &pounds
	}

	return resp
}
