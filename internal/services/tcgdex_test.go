package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestNormalizeSetName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"SWSH03: Darkness Ablaze", "Darkness Ablaze"},
		{"SV01: Scarlet & Violet", "Scarlet & Violet"},
		{"Jungle", "Jungle"},
		{"Darkness Ablaze\\", "Darkness Ablaze"},
		{"SWSH03: Darkness Ablaze\\\\", "Darkness Ablaze"},
		{"Weird:", "Weird:"}, // empty remainder falls back to the raw name
		{"  Base Set  ", "Base Set"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := normalizeSetName(tt.input); got != tt.expected {
				t.Errorf("normalizeSetName(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestLocalNumber(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"136/189", "136"},
		{"136 / 189", "136"},
		{"42", "42"},
		{"TG12/TG30", "TG12"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := localNumber(tt.input); got != tt.expected {
				t.Errorf("localNumber(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func newTestTCGdex(url string) *TCGdexService {
	svc := NewTCGdexService()
	svc.baseURL = url
	return svc
}

func TestResolveImage(t *testing.T) {
	var requestedCardID string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/sets":
			json.NewEncoder(w).Encode([]map[string]string{
				{"id": "swsh35", "name": "Champion's Path"},
				{"id": "swsh3", "name": "Darkness Ablaze"},
			})
		case r.URL.Path == "/cards/swsh3-136":
			requestedCardID = "swsh3-136"
			json.NewEncoder(w).Encode(map[string]any{
				"id":      "swsh3-136",
				"localId": "136",
				"name":    "Eternatus",
				"image":   "https://assets.tcgdex.net/en/swsh/swsh3/136",
			})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	svc := newTestTCGdex(server.URL)

	imageURL, err := svc.ResolveImage(context.Background(), "SWSH03: Darkness Ablaze", "136/189")
	if err != nil {
		t.Fatalf("ResolveImage returned error: %v", err)
	}
	if requestedCardID != "swsh3-136" {
		t.Error("Expected composite id swsh3-136 to be fetched")
	}
	want := "https://assets.tcgdex.net/en/swsh/swsh3/136/high.png"
	if imageURL != want {
		t.Errorf("Expected %q, got %q", want, imageURL)
	}
}

func TestResolveImagePrefersExactSetMatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/sets":
			// Upstream lists a fuzzy match before the exact one.
			json.NewEncoder(w).Encode([]map[string]string{
				{"id": "sm115", "name": "Hidden Fates Shiny Vault"},
				{"id": "sm115x", "name": "Hidden Fates"},
			})
		case "/cards/sm115x-9":
			json.NewEncoder(w).Encode(map[string]any{
				"id":    "sm115x-9",
				"image": "https://assets.tcgdex.net/en/sm/sm115x/9",
			})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	svc := newTestTCGdex(server.URL)

	imageURL, err := svc.ResolveImage(context.Background(), "Hidden Fates", "9/68")
	if err != nil {
		t.Fatalf("ResolveImage returned error: %v", err)
	}
	if imageURL != "https://assets.tcgdex.net/en/sm/sm115x/9/high.png" {
		t.Errorf("Exact set-name match should win over upstream order, got %q", imageURL)
	}
}

func TestResolveImageNotFound(t *testing.T) {
	t.Run("no candidate sets", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode([]map[string]string{})
		}))
		defer server.Close()

		svc := newTestTCGdex(server.URL)
		_, err := svc.ResolveImage(context.Background(), "No Such Set", "1/1")
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})

	t.Run("card absent", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/sets" {
				json.NewEncoder(w).Encode([]map[string]string{{"id": "swsh3", "name": "Darkness Ablaze"}})
				return
			}
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		svc := newTestTCGdex(server.URL)
		_, err := svc.ResolveImage(context.Background(), "Darkness Ablaze", "999/189")
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})
}

func TestResolveImageNoImageIsNotAnError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/sets" {
			json.NewEncoder(w).Encode([]map[string]string{{"id": "swsh3", "name": "Darkness Ablaze"}})
			return
		}
		json.NewEncoder(w).Encode(map[string]any{"id": "swsh3-136"})
	}))
	defer server.Close()

	svc := newTestTCGdex(server.URL)
	imageURL, err := svc.ResolveImage(context.Background(), "Darkness Ablaze", "136/189")
	if err != nil {
		t.Fatalf("A card without artwork should not error, got %v", err)
	}
	if imageURL != "" {
		t.Errorf("Expected empty image URL, got %q", imageURL)
	}
}

func TestResolveImageUpstreamFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	svc := newTestTCGdex(server.URL)
	_, err := svc.ResolveImage(context.Background(), "Darkness Ablaze", "136/189")
	if !IsUpstream(err) {
		t.Errorf("Expected an upstream error, got %v", err)
	}
}

func TestResolveImageCachesResults(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		if r.URL.Path == "/sets" {
			json.NewEncoder(w).Encode([]map[string]string{{"id": "swsh3", "name": "Darkness Ablaze"}})
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"id":    "swsh3-136",
			"image": "https://assets.tcgdex.net/en/swsh/swsh3/136",
		})
	}))
	defer server.Close()

	svc := newTestTCGdex(server.URL)

	for i := 0; i < 2; i++ {
		if _, err := svc.ResolveImage(context.Background(), "Darkness Ablaze", "136/189"); err != nil {
			t.Fatalf("ResolveImage returned error: %v", err)
		}
	}

	if requests != 2 { // one /sets + one /cards call, second lookup served from cache
		t.Errorf("Expected 2 upstream requests total, got %d", requests)
	}
}
