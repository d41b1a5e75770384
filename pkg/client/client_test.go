package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bdfinst/interactive-cd/pkg/httputil"
	"github.com/bdfinst/interactive-cd/pkg/practice"
)

func respond(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"success": true, "data": data})
}

func TestCardsView(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/practice-cards" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("root"); got != "continuous-delivery" {
			t.Errorf("root = %q, want continuous-delivery", got)
		}
		respond(w, []*practice.Node{
			{ID: "continuous-delivery", Name: "Continuous delivery"},
			{ID: "continuous-integration", Name: "Continuous integration", Level: 1},
		})
	}))
	defer server.Close()

	c := New(server.URL, nil)
	cards, err := c.CardsView(context.Background(), "continuous-delivery")
	if err != nil {
		t.Fatalf("CardsView() error: %v", err)
	}
	if len(cards) != 2 {
		t.Fatalf("CardsView() returned %d cards, want 2", len(cards))
	}
	if cards[0].ID != "continuous-delivery" {
		t.Errorf("cards[0].ID = %q", cards[0].ID)
	}
	if cards[1].Level != 1 {
		t.Errorf("cards[1].Level = %d, want 1", cards[1].Level)
	}
}

func TestTreeView(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/practice-tree" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		respond(w, &practice.Node{
			ID:   "continuous-delivery",
			Name: "Continuous delivery",
			Dependencies: []*practice.Node{
				{ID: "continuous-integration", Name: "Continuous integration"},
			},
		})
	}))
	defer server.Close()

	c := New(server.URL, nil)
	root, err := c.TreeView(context.Background(), "")
	if err != nil {
		t.Fatalf("TreeView() error: %v", err)
	}
	if root.ID != "continuous-delivery" {
		t.Errorf("root.ID = %q", root.ID)
	}
	if len(root.Dependencies) != 1 {
		t.Fatalf("root has %d dependencies, want 1", len(root.Dependencies))
	}
}

func TestTreeViewCaching(t *testing.T) {
	var hits atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		respond(w, &practice.Node{ID: "ci", Name: "CI"})
	}))
	defer server.Close()

	cache, err := httputil.NewCache(t.TempDir(), time.Hour)
	if err != nil {
		t.Fatalf("NewCache() error: %v", err)
	}
	c := New(server.URL, cache)

	ctx := context.Background()
	if _, err := c.TreeView(ctx, "ci"); err != nil {
		t.Fatalf("first TreeView() error: %v", err)
	}
	if _, err := c.TreeView(ctx, "ci"); err != nil {
		t.Fatalf("second TreeView() error: %v", err)
	}
	if hits.Load() != 1 {
		t.Errorf("server hit %d times, want 1 (second call should be cached)", hits.Load())
	}
}

func TestNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	c := New(server.URL, nil)
	_, err := c.TreeView(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("TreeView() error = %v, want ErrNotFound", err)
	}
}

func TestAPIFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"success": false, "error": "boom"})
	}))
	defer server.Close()

	c := New(server.URL, nil)
	_, err := c.CardsView(context.Background(), "")
	if !errors.Is(err, ErrAPIFailure) {
		t.Errorf("CardsView() error = %v, want ErrAPIFailure", err)
	}
}

func TestServerErrorRetries(t *testing.T) {
	var hits atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		respond(w, []*practice.Node{{ID: "ci"}})
	}))
	defer server.Close()

	c := New(server.URL, nil)
	cards, err := c.CardsView(context.Background(), "")
	if err != nil {
		t.Fatalf("CardsView() should succeed after retry: %v", err)
	}
	if len(cards) != 1 {
		t.Errorf("CardsView() returned %d cards, want 1", len(cards))
	}
	if hits.Load() != 2 {
		t.Errorf("server hit %d times, want 2", hits.Load())
	}
}

func TestHealth(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/health" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		respond(w, map[string]string{"status": "ok"})
	}))
	defer server.Close()

	c := New(server.URL, nil)
	if err := c.Health(context.Background()); err != nil {
		t.Errorf("Health() error: %v", err)
	}
}
