package domain

type Sale struct {
	PriceInPence int64
	Quantity     int
}

func (s Sale) Value() int64 {
	return s.PriceInPence * int64(s.Quantity)
}
