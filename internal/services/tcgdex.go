package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"marketscan/internal/metrics"
)

const tcgdexBaseURL = "https://api.tcgdex.net/v2/en"

// TCGdexService resolves card artwork URLs from the TCGdex catalog.
type TCGdexService struct {
	client  *http.Client
	baseURL string

	imageCache *lru.Cache[string, string] // "setName|number" -> image URL
}

func NewTCGdexService() *TCGdexService {
	imageCache, _ := lru.New[string, string](256)
	return &TCGdexService{
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL:    tcgdexBaseURL,
		imageCache: imageCache,
	}
}

type tcgdexSet struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type tcgdexCard struct {
	ID      string    `json:"id"`
	LocalID string    `json:"localId"`
	Name    string    `json:"name"`
	Image   string    `json:"image"`
	Set     tcgdexSet `json:"set"`
}

// normalizeSetName converts a pricing-catalog set name into the form TCGdex
// knows. Catalog names often carry a set-code prefix ("SWSH03: Darkness
// Ablaze"); everything up to the first colon is dropped. Trailing
// backslashes from sloppy upstream data are stripped first.
func normalizeSetName(setName string) string {
	name := strings.TrimRight(setName, "\\")

	if idx := strings.Index(name, ":"); idx >= 0 {
		name = name[idx+1:]
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return strings.TrimSpace(setName)
	}
	return name
}

// localNumber extracts the card's local identifier from a "136/189" style
// print-run number.
func localNumber(number string) string {
	num, _, _ := strings.Cut(number, "/")
	return strings.TrimSpace(num)
}

// ResolveImage finds the artwork URL for a card given its set name and
// collector number. An empty URL with a nil error means the card exists but
// has no image; that is a normal, displayable state.
func (s *TCGdexService) ResolveImage(ctx context.Context, setName, number string) (string, error) {
	cacheKey := setName + "|" + number
	if cached, ok := s.imageCache.Get(cacheKey); ok {
		metrics.ImageLookupsTotal.WithLabelValues("cached").Inc()
		return cached, nil
	}

	name := normalizeSetName(setName)
	num := localNumber(number)

	set, err := s.findSet(ctx, name)
	if err != nil {
		metrics.ImageLookupsTotal.WithLabelValues("failed").Inc()
		return "", err
	}

	// TCGdex card ids are "<set id>-<local number>"
	cardID := fmt.Sprintf("%s-%s", set.ID, num)
	card, err := s.getCard(ctx, cardID)
	if err != nil {
		metrics.ImageLookupsTotal.WithLabelValues("failed").Inc()
		return "", err
	}

	imageURL := imageURLFor(card)
	if imageURL != "" {
		s.imageCache.Add(cacheKey, imageURL)
	}
	metrics.ImageLookupsTotal.WithLabelValues("ok").Inc()
	return imageURL, nil
}

// findSet looks up candidate sets by fuzzy name match and picks one:
// an exact match on the normalized name wins, otherwise the first candidate
// in upstream order.
func (s *TCGdexService) findSet(ctx context.Context, name string) (*tcgdexSet, error) {
	reqURL := fmt.Sprintf("%s/sets?name=%s", s.baseURL, url.QueryEscape(name))

	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, upstream("tcgdex", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("set %q: %w", name, ErrNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, upstream("tcgdex", fmt.Errorf("status %d", resp.StatusCode))
	}

	var sets []tcgdexSet
	if err := json.NewDecoder(resp.Body).Decode(&sets); err != nil {
		return nil, upstream("tcgdex", fmt.Errorf("failed to decode response: %w", err))
	}
	if len(sets) == 0 {
		return nil, fmt.Errorf("set %q: %w", name, ErrNotFound)
	}

	for i := range sets {
		if strings.EqualFold(sets[i].Name, name) {
			return &sets[i], nil
		}
	}
	return &sets[0], nil
}

func (s *TCGdexService) getCard(ctx context.Context, id string) (*tcgdexCard, error) {
	reqURL := fmt.Sprintf("%s/cards/%s", s.baseURL, id)

	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, upstream("tcgdex", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("card %q: %w", id, ErrNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, upstream("tcgdex", fmt.Errorf("status %d", resp.StatusCode))
	}

	var card tcgdexCard
	if err := json.NewDecoder(resp.Body).Decode(&card); err != nil {
		return nil, upstream("tcgdex", fmt.Errorf("failed to decode response: %w", err))
	}
	return &card, nil
}

// imageURLFor picks a rendering for the card: high-quality PNG when the
// record exposes a base asset URL, otherwise the raw image field as-is.
// No image at all is not an error.
func imageURLFor(card *tcgdexCard) string {
	if card.Image == "" {
		return ""
	}
	// Already a full rendering URL, use it verbatim.
	if strings.HasSuffix(card.Image, ".png") || strings.HasSuffix(card.Image, ".webp") ||
		strings.HasSuffix(card.Image, ".jpg") {
		return card.Image
	}
	return card.Image + "/high.png"
}
