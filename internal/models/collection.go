package models

// CollectionEntry is one tracked card in a user's collection. The price is
// frozen at add time; there is no live repricing. Entries are scoped by the
// owning user's email and are never visible across users.
type CollectionEntry struct {
	CardID    string   `json:"id"`
	VariantID string   `json:"variantId"`
	Name      string   `json:"name"`
	SetName   string   `json:"setName"`
	Number    string   `json:"number"`
	Game      string   `json:"game"`
	Price     *float64 `json:"price"`
	Condition string   `json:"condition"`
	Printing  string   `json:"printing"`
	ImageURL  string   `json:"imageUrl,omitempty"`
}
