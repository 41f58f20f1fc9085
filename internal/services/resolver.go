package services

import (
	"context"
	"fmt"
	"strings"

	"marketscan/internal/metrics"
	"marketscan/internal/models"
)

// CardSearcher is the search side of the pricing catalog.
type CardSearcher interface {
	SearchCards(ctx context.Context, query, game string) ([]models.Card, error)
}

// Picker is the manual-selection step of the add workflow. Implementations
// block until the user settles the choice (a modal in the browser client, a
// scripted picker in tests) and return ErrSelectionCanceled when the user
// aborts. Cancellation ends the workflow silently; it is not a failure.
type Picker interface {
	// PickCard chooses one card from the full result list.
	PickCard(ctx context.Context, query string, cards []models.Card) (*models.Card, error)

	// PickVariant chooses one of the card's variants. Condition, printing,
	// language and price are display fields only; selection is always
	// manual when more than one variant exists.
	PickVariant(ctx context.Context, card *models.Card) (*models.Variant, error)
}

// PickerFuncs adapts plain functions to the Picker interface.
type PickerFuncs struct {
	Card    func(ctx context.Context, query string, cards []models.Card) (*models.Card, error)
	Variant func(ctx context.Context, card *models.Card) (*models.Variant, error)
}

func (p PickerFuncs) PickCard(ctx context.Context, query string, cards []models.Card) (*models.Card, error) {
	return p.Card(ctx, query, cards)
}

func (p PickerFuncs) PickVariant(ctx context.Context, card *models.Card) (*models.Variant, error) {
	return p.Variant(ctx, card)
}

// CardResolver turns a free-text query into exactly one card and one
// variant, asking the picker only when the result is ambiguous.
type CardResolver struct {
	search CardSearcher
}

func NewCardResolver(search CardSearcher) *CardResolver {
	return &CardResolver{search: search}
}

// Resolve runs the disambiguation policy:
//   - exactly one case-insensitive exact name match auto-selects the card,
//   - zero or several exact matches hand the FULL result list to the picker,
//   - a single variant auto-selects, several variants go to the picker.
//
// Steps are strictly sequential; a cancellation at either pick aborts the
// whole workflow with nothing persisted.
func (r *CardResolver) Resolve(ctx context.Context, query, game string, picker Picker) (*models.Card, *models.Variant, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil, fmt.Errorf("query is required: %w", ErrInvalidInput)
	}

	cards, err := r.search.SearchCards(ctx, query, game)
	if err != nil {
		return nil, nil, fmt.Errorf("search failed: %w", err)
	}
	if len(cards) == 0 {
		metrics.SearchResultsTotal.WithLabelValues("empty").Inc()
		return nil, nil, fmt.Errorf("no cards found for %q: %w", query, ErrNotFound)
	}

	card, err := r.pickCard(ctx, query, cards, picker)
	if err != nil {
		return nil, nil, err
	}

	variant, err := pickVariant(ctx, card, picker)
	if err != nil {
		return nil, nil, err
	}

	return card, variant, nil
}

func (r *CardResolver) pickCard(ctx context.Context, query string, cards []models.Card, picker Picker) (*models.Card, error) {
	normalized := strings.ToLower(query)

	var exact []*models.Card
	for i := range cards {
		if strings.ToLower(cards[i].Name) == normalized {
			exact = append(exact, &cards[i])
		}
	}

	if len(exact) == 1 {
		metrics.SearchResultsTotal.WithLabelValues("auto").Inc()
		return exact[0], nil
	}

	metrics.SearchResultsTotal.WithLabelValues("manual").Inc()
	card, err := picker.PickCard(ctx, query, cards)
	if err != nil {
		return nil, err
	}
	if card == nil {
		return nil, ErrSelectionCanceled
	}
	return card, nil
}

func pickVariant(ctx context.Context, card *models.Card, picker Picker) (*models.Variant, error) {
	switch len(card.Variants) {
	case 0:
		return nil, fmt.Errorf("no variants for card %q: %w", card.Name, ErrNotFound)
	case 1:
		return &card.Variants[0], nil
	}

	variant, err := picker.PickVariant(ctx, card)
	if err != nil {
		return nil, err
	}
	if variant == nil {
		return nil, ErrSelectionCanceled
	}
	return variant, nil
}
