package models

type Game string

const (
	GamePokemon Game = "pokemon"
	GameMTG     Game = "mtg"
)

// Card is a single result from the pricing catalog search. Cards are
// immutable once returned; variants keep the order the API gave them.
type Card struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	SetName  string    `json:"set_name"`
	Number   string    `json:"number"`
	Game     string    `json:"game"`
	Rarity   string    `json:"rarity"`
	Variants []Variant `json:"variants"`
}

// Variant is one purchasable printing/condition of a card. Price is
// absent when the catalog has no market data for it.
type Variant struct {
	ID        string   `json:"id"`
	Condition string   `json:"condition"`
	Printing  string   `json:"printing"`
	Language  string   `json:"language"`
	Price     *float64 `json:"price"`
}

type CardSearchResult struct {
	Cards      []Card `json:"cards"`
	TotalCount int    `json:"total_count"`
	HasMore    bool   `json:"has_more"`
}
