package loki

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestPushEvent(t *testing.T) {
	var got PushRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/loki/api/v1/push" {
			t.Errorf("path = %q", r.URL.Path)
		}
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &got); err != nil {
			t.Errorf("unmarshal push body: %v", err)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	ts := time.Now().UTC()
	err := PushEvent(context.Background(), srv.URL, ts, "alert line", map[string]string{
		"event_type": "renewal_reuse_detected",
		"weird":      "has spaces!",
	})
	if err != nil {
		t.Fatalf("PushEvent: %v", err)
	}
	if len(got.Streams) != 1 {
		t.Fatalf("streams = %d, want 1", len(got.Streams))
	}
	stream := got.Streams[0]
	if stream.Stream["job"] != "auth-control-plane" {
		t.Errorf("job label = %q", stream.Stream["job"])
	}
	if stream.Stream["event_type"] != "renewal_reuse_detected" {
		t.Errorf("event_type label = %q", stream.Stream["event_type"])
	}
	if strings.Contains(stream.Stream["weird"], " ") {
		t.Errorf("label value not sanitized: %q", stream.Stream["weird"])
	}
	if len(stream.Values) != 1 || stream.Values[0][1] != "alert line" {
		t.Errorf("values = %v", stream.Values)
	}
}

func TestPushEvent_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer srv.Close()

	if err := PushEvent(context.Background(), srv.URL, time.Now(), "line", nil); err == nil {
		t.Error("non-2xx response should return error")
	}
	if err := PushEvent(context.Background(), "", time.Now(), "line", nil); err == nil {
		t.Error("empty base URL should return error")
	}
}

func TestPushEventJSON_ExtractsLabels(t *testing.T) {
	var got PushRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &got)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	raw := []byte(`{"identityId":"id-1","eventType":"audit_write_failure","source":"audit","createdAt":"2026-08-30T12:00:00Z","detail":"insert failed"}`)
	if err := PushEventJSON(context.Background(), srv.URL, raw); err != nil {
		t.Fatalf("PushEventJSON: %v", err)
	}
	stream := got.Streams[0]
	if stream.Stream["identity_id"] != "id-1" || stream.Stream["event_type"] != "audit_write_failure" {
		t.Errorf("labels = %v", stream.Stream)
	}
	if stream.Values[0][1] != string(raw) {
		t.Errorf("line = %q", stream.Values[0][1])
	}
}
