package publishers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestWebhookPublisherPostsEvent(t *testing.T) {
	var received Event
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			t.Errorf("expected PUT, got %s", r.Method)
		}
		if got := r.Header.Get("X-Catalog"); got != "pokeapi" {
			t.Errorf("missing header, got %q", got)
		}
		if got := r.Header.Get("Content-Type"); !strings.HasPrefix(got, "application/json") {
			t.Errorf("content type = %q", got)
		}
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	pub, err := newWebhookPublisher(context.Background(), SinkConfig{
		ID:   "hook",
		Type: TypeHTTP,
		HTTP: &WebhookConfig{
			URL:            srv.URL,
			Method:         http.MethodPut,
			Headers:        map[string]string{"X-Catalog": "pokeapi"},
			TimeoutSeconds: 2,
		},
	}, nil)
	if err != nil {
		t.Fatalf("newWebhookPublisher: %v", err)
	}

	evt := Event{Source: "https://pokeapi.co/api/v2/pokemon", Count: 2, Names: []string{"bulbasaur", "ivysaur"}}
	if err := pub.Publish(context.Background(), evt); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if received.Count != 2 || received.Names[1] != "ivysaur" || received.Source != evt.Source {
		t.Fatalf("server received %#v", received)
	}
}

func TestWebhookPublisherReportsStatusAndBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "catalog hook disabled", http.StatusBadRequest)
	}))
	defer srv.Close()

	pub, err := newWebhookPublisher(context.Background(), SinkConfig{
		ID:   "hook",
		Type: TypeHTTP,
		HTTP: &WebhookConfig{URL: srv.URL, Method: http.MethodPost},
	}, nil)
	if err != nil {
		t.Fatalf("newWebhookPublisher: %v", err)
	}

	err = pub.Publish(context.Background(), Event{})
	if err == nil {
		t.Fatalf("expected error on non-2xx response")
	}
	if !strings.Contains(err.Error(), "400") || !strings.Contains(err.Error(), "catalog hook disabled") {
		t.Fatalf("error lacks status or body: %v", err)
	}
}

func TestWebhookConfigTimeoutDefault(t *testing.T) {
	if got := (WebhookConfig{}).Timeout(); got != defaultWebhookTimeout {
		t.Fatalf("Timeout() = %v, want %v", got, defaultWebhookTimeout)
	}
	if got := (WebhookConfig{TimeoutSeconds: 3}).Timeout().Seconds(); got != 3 {
		t.Fatalf("Timeout() = %vs, want 3s", got)
	}
}
