package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"marketscan/internal/metrics"
	"marketscan/internal/models"
)

const (
	justTCGBaseURL        = "https://api.justtcg.com/v1"
	justTCGDefaultTimeout = 10 * time.Second
)

// JustTCGService handles search and set lookups against the JustTCG pricing
// catalog.
type JustTCGService struct {
	client     *http.Client
	apiKey     string
	baseURL    string
	dailyLimit int

	// Rate limiting
	mu             sync.Mutex
	requestsToday  int
	lastRequestDay time.Time
}

type justTCGSearchResponse struct {
	Data  []models.Card   `json:"data"`
	Meta  json.RawMessage `json:"meta,omitempty"`
	Error string          `json:"error,omitempty"`
}

// JustTCGSet is one entry of the catalog's set list.
type JustTCGSet struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Game string `json:"game"`
}

type justTCGSetsResponse struct {
	Data  []JustTCGSet `json:"data"`
	Error string       `json:"error,omitempty"`
}

// NewJustTCGService creates a new JustTCG API client.
func NewJustTCGService(apiKey string, dailyLimit int) *JustTCGService {
	if dailyLimit <= 0 {
		dailyLimit = 100 // Default free tier limit
	}

	return &JustTCGService{
		client: &http.Client{
			Timeout: justTCGDefaultTimeout,
		},
		apiKey:     apiKey,
		baseURL:    justTCGBaseURL,
		dailyLimit: dailyLimit,
	}
}

// checkDailyLimit checks if we can make another request today.
func (s *JustTCGService) checkDailyLimit() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	// Reset counter if new day
	if s.lastRequestDay.Before(today) {
		s.requestsToday = 0
		s.lastRequestDay = today
	}

	if s.requestsToday >= s.dailyLimit {
		return false
	}

	s.requestsToday++
	metrics.JustTCGRequestsTotal.Inc()
	metrics.JustTCGQuotaRemaining.Set(float64(s.dailyLimit - s.requestsToday))
	return true
}

// GetRequestsRemaining returns the number of requests remaining today.
func (s *JustTCGService) GetRequestsRemaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	if s.lastRequestDay.Before(today) {
		return s.dailyLimit
	}

	remaining := s.dailyLimit - s.requestsToday
	if remaining < 0 {
		return 0
	}
	return remaining
}

// SearchCards runs a free-text card search for one game. An empty result is
// returned as an empty slice, not an error.
func (s *JustTCGService) SearchCards(ctx context.Context, query, game string) ([]models.Card, error) {
	if !s.checkDailyLimit() {
		return nil, upstream("justtcg", fmt.Errorf("daily rate limit exceeded"))
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("game", game)

	reqURL := fmt.Sprintf("%s/cards?%s", s.baseURL, params.Encode())

	var searchResp justTCGSearchResponse
	if err := s.getJSON(ctx, reqURL, &searchResp); err != nil {
		return nil, err
	}
	if searchResp.Error != "" {
		return nil, upstream("justtcg", fmt.Errorf("%s", searchResp.Error))
	}

	return searchResp.Data, nil
}

// GetSets fetches the full set list for a game.
func (s *JustTCGService) GetSets(ctx context.Context, game string) ([]JustTCGSet, error) {
	if !s.checkDailyLimit() {
		return nil, upstream("justtcg", fmt.Errorf("daily rate limit exceeded"))
	}

	params := url.Values{}
	params.Set("game", game)

	reqURL := fmt.Sprintf("%s/sets?%s", s.baseURL, params.Encode())

	var setsResp justTCGSetsResponse
	if err := s.getJSON(ctx, reqURL, &setsResp); err != nil {
		return nil, err
	}
	if setsResp.Error != "" {
		return nil, upstream("justtcg", fmt.Errorf("%s", setsResp.Error))
	}

	return setsResp.Data, nil
}

// FindSetID resolves a set name to its catalog id by exact case-insensitive
// name match. ErrNotFound when no set in the game matches.
func (s *JustTCGService) FindSetID(ctx context.Context, setName, game string) (string, error) {
	sets, err := s.GetSets(ctx, game)
	if err != nil {
		return "", err
	}

	want := strings.ToLower(strings.TrimSpace(setName))
	for _, set := range sets {
		if strings.ToLower(set.Name) == want {
			return set.ID, nil
		}
	}

	return "", fmt.Errorf("set %q: %w", setName, ErrNotFound)
}

func (s *JustTCGService) getJSON(ctx context.Context, reqURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if s.apiKey != "" {
		req.Header.Set("x-api-key", s.apiKey)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return upstream("justtcg", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return upstream("justtcg", fmt.Errorf("status %d", resp.StatusCode))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return upstream("justtcg", fmt.Errorf("failed to decode response: %w", err))
	}
	return nil
}
