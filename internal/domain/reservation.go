package domain

// Reservation is a receipt for reserved stock of one bean bag model.
type Reservation struct {
	ID           int64
	PriceInPence int64
	Quantity     int
}

func NewReservation(id int64, priceInPence int64, quantity int) *Reservation {
	return &Reservation{
		ID:           id,
		PriceInPence: priceInPence,
		Quantity:     quantity,
	}
}

// ApplyPrice honours the lowest-price guarantee: a reservation only follows price drops.
func (r *Reservation) ApplyPrice(priceInPence int64) {
	if priceInPence < r.PriceInPence {
		r.PriceInPence = priceInPence
	}
}

func (r *Reservation) Value() int64 {
	return r.PriceInPence * int64(r.Quantity)
}
