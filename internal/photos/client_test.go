package photos

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

// TestClientSave verifies Save sends the API key and query parameters and
// decodes the returned record ID.
func TestClientSave(t *testing.T) {
	want := uuid.New()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if got := r.Header.Get("X-API-Key"); got != "secret" {
			t.Errorf("X-API-Key = %q, want %q", got, "secret")
		}
		if got := r.URL.Query().Get("owner"); got != "me" {
			t.Errorf("owner = %q, want %q", got, "me")
		}
		if got := r.URL.Query().Get("day"); got != "3" {
			t.Errorf("day = %q, want %q", got, "3")
		}
		body, _ := io.ReadAll(r.Body)
		if string(body) != "jpeg-bytes" {
			t.Errorf("body = %q, want jpeg payload", body)
		}
		json.NewEncoder(w).Encode(map[string]uuid.UUID{"id": want})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret")
	got, err := c.Save(context.Background(), Photo{
		Owner: "me", Day: 3, JPEG: []byte("jpeg-bytes"),
	})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if got != want {
		t.Errorf("Save = %s, want %s", got, want)
	}
}

// TestClientSaveRetries verifies Save retries after a server error and
// succeeds on a later attempt.
func TestClientSaveRetries(t *testing.T) {
	want := uuid.New()
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			http.Error(w, "transient", http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(map[string]uuid.UUID{"id": want})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret")
	got, err := c.Save(context.Background(), Photo{Owner: "me", JPEG: []byte("x")})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if got != want {
		t.Errorf("Save = %s, want %s", got, want)
	}
	if calls != 2 {
		t.Errorf("server calls = %d, want 2", calls)
	}
}

// TestClientSaveGivesUp verifies Save reports the last error after
// exhausting its attempts.
func TestClientSaveGivesUp(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret")
	_, err := c.Save(context.Background(), Photo{Owner: "me", JPEG: []byte("x")})
	if err == nil {
		t.Fatal("Save: want error after persistent failures")
	}
	if !strings.Contains(err.Error(), "after 3 attempts") {
		t.Errorf("error = %v, want retry exhaustion", err)
	}
	if calls != 3 {
		t.Errorf("server calls = %d, want 3", calls)
	}
}

// TestClientSaveCancelled verifies a cancelled context stops the retry
// loop instead of sleeping through the backoff.
func TestClientSaveCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	c := NewClient(srv.URL, "secret")
	start := time.Now()
	_, err := c.Save(ctx, Photo{Owner: "me", JPEG: []byte("x")})
	if err == nil {
		t.Fatal("Save: want error on cancelled context")
	}
	if time.Since(start) > 2*time.Second {
		t.Error("Save slept through backoff despite cancellation")
	}
}

// TestClientFetch verifies Fetch returns the image bytes and surfaces a
// 404 as an error.
func TestClientFetch(t *testing.T) {
	id := uuid.New()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/photos/"+id.String() {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "image/jpeg")
		w.Write([]byte("jpeg-bytes"))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret")
	p, err := c.Fetch(context.Background(), id)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if string(p.JPEG) != "jpeg-bytes" {
		t.Errorf("JPEG = %q, want image payload", p.JPEG)
	}

	if _, err := c.Fetch(context.Background(), uuid.New()); err == nil {
		t.Error("Fetch unknown id: want error")
	}
}

// TestClientByDay verifies the day listing decodes metadata in order.
func TestClientByDay(t *testing.T) {
	taken := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	metas := []Photo{
		{ID: uuid.New(), Owner: "me", Day: 3, TakenAt: taken},
		{ID: uuid.New(), Owner: "me", Day: 3, TakenAt: taken.Add(time.Hour)},
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("day"); got != "3" {
			t.Errorf("day = %q, want %q", got, "3")
		}
		json.NewEncoder(w).Encode(metas)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret")
	got, err := c.ByDay(context.Background(), "me", 3)
	if err != nil {
		t.Fatalf("ByDay: %v", err)
	}
	if len(got) != 2 || got[0].ID != metas[0].ID || !got[1].TakenAt.Equal(metas[1].TakenAt) {
		t.Errorf("ByDay = %+v, want %+v", got, metas)
	}
}

// TestClientInitial verifies the ok=false path when the owner has no
// initial photo.
func TestClientInitial(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("initial"); got != "true" {
			t.Errorf("initial = %q, want %q", got, "true")
		}
		json.NewEncoder(w).Encode([]Photo{})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret")
	_, ok, err := c.Initial(context.Background(), "me")
	if err != nil {
		t.Fatalf("Initial: %v", err)
	}
	if ok {
		t.Error("Initial = ok for empty listing, want ok=false")
	}
}
