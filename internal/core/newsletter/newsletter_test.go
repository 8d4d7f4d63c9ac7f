package newsletter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"recipe-suggester/internal/infrastructure/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(baseURL string) *config.NewsletterConfig {
	return &config.NewsletterConfig{
		Enabled:   true,
		BaseURL:   baseURL,
		APIKey:    "test-key",
		From:      "recipes@example.com",
		Workers:   2,
		QueueSize: 10,
		SiteURL:   "http://localhost:8080",
	}
}

func TestMailClientSend(t *testing.T) {
	var got Message
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	client := NewMailClient(testConfig(srv.URL))
	err := client.Send(context.Background(), &Message{
		To:      "cook@example.com",
		Subject: "hello",
		HTML:    "<p>hi</p>",
	})
	require.NoError(t, err)

	assert.Equal(t, "Bearer test-key", gotAuth)
	assert.Equal(t, "cook@example.com", got.To)
	// From defaults to the configured sender.
	assert.Equal(t, "recipes@example.com", got.From)
}

func TestMailClientSendProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad key", http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := NewMailClient(testConfig(srv.URL))
	err := client.Send(context.Background(), &Message{To: "cook@example.com"})
	assert.Error(t, err)
}

func TestQueueDeliversThroughWorkers(t *testing.T) {
	var mu sync.Mutex
	received := make([]string, 0)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var msg Message
		_ = json.NewDecoder(r.Body).Decode(&msg)
		mu.Lock()
		received = append(received, msg.To)
		mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	q := NewQueue(cfg, NewMailClient(cfg))
	q.Start()

	ctx := context.Background()
	require.NoError(t, q.Enqueue(ctx, &Message{To: "a@example.com"}))
	require.NoError(t, q.Enqueue(ctx, &Message{To: "b@example.com"}))
	q.Close()

	mu.Lock()
	defer mu.Unlock()
	assert.ElementsMatch(t, []string{"a@example.com", "b@example.com"}, received)
	assert.Equal(t, 2, q.Status().ProcessedCount)
}

func TestEnqueueAfterCloseReturnsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	q := NewQueue(cfg, NewMailClient(cfg))
	q.Start()
	q.Close()

	err := q.Enqueue(context.Background(), &Message{To: "a@example.com"})
	assert.Error(t, err)
}

func TestQueueFullReturnsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.QueueSize = 1
	// No workers started, so the first message stays queued.
	q := NewQueue(cfg, NewMailClient(cfg))

	ctx := context.Background()
	require.NoError(t, q.Enqueue(ctx, &Message{To: "a@example.com"}))
	assert.Error(t, q.Enqueue(ctx, &Message{To: "b@example.com"}))
}

func TestServiceSendWeeklyComposesLinks(t *testing.T) {
	bodies := make(chan string, 2)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var msg Message
		_ = json.NewDecoder(r.Body).Decode(&msg)
		bodies <- msg.HTML
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	svc := NewService(testConfig(srv.URL))
	require.NotNil(t, svc)

	err := svc.SendWeekly(context.Background(),
		[]Subscriber{{Email: "cook@example.com"}},
		[]FeaturedRecipe{{ID: 7, Title: "Stew"}},
	)
	require.NoError(t, err)
	svc.Close()

	select {
	case body := <-bodies:
		assert.Contains(t, body, "http://localhost:8080/recipes/7")
		assert.Contains(t, body, "Stew")
		assert.Contains(t, body, "Unsubscribe")
	case <-time.After(2 * time.Second):
		t.Fatal("newsletter was not delivered")
	}
}

func TestServiceDisabledReturnsNil(t *testing.T) {
	cfg := testConfig("http://unused")
	cfg.Enabled = false
	assert.Nil(t, NewService(cfg))
}

func TestSendWeeklyRequiresRecipes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	svc := NewService(testConfig(srv.URL))
	require.NotNil(t, svc)
	defer svc.Close()

	err := svc.SendWeekly(context.Background(), []Subscriber{{Email: "a@example.com"}}, nil)
	assert.Error(t, err)
}
