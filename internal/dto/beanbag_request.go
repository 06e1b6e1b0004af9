package dto

type AddBeanBagsRequest struct {
	ID           string  `json:"id"`
	Manufacturer string  `json:"manufacturer"`
	Name         string  `json:"name"`
	Information  *string `json:"information,omitempty"`
	Year         int     `json:"year"`
	Month        int     `json:"month"`
	Quantity     *int    `json:"quantity"`
}

type SetPriceRequest struct {
	PriceInPence *int64 `json:"priceInPence"`
}

// QuantityRequest is the body of sale and reservation requests.
type QuantityRequest struct {
	Quantity *int `json:"quantity"`
}

type ReplaceRequest struct {
	NewID string `json:"newId"`
}
