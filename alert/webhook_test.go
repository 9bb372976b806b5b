package alert

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSendPostsJSON(t *testing.T) {
	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("Content-Type = %q", r.Header.Get("Content-Type"))
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode: %v", err)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	msg := `deadlock "recovered" on P1`
	if err := Send(context.Background(), srv.URL, msg); err != nil {
		t.Fatal(err)
	}
	if got["content"] != msg {
		t.Errorf("content = %q, want %q", got["content"], msg)
	}
}

func TestSendRejectsErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	if err := Send(context.Background(), srv.URL, "x"); err == nil {
		t.Error("429 treated as success")
	}
}

func TestSendDisabled(t *testing.T) {
	if err := Send(context.Background(), "", "x"); err != nil {
		t.Errorf("empty URL: %v", err)
	}
}
