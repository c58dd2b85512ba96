package leadmarket

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestPingSendsRequestEnvelope(t *testing.T) {
	var got map[string]map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("expected json content type, got %q", ct)
		}
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		_, _ = w.Write([]byte(`{"response":{"status":"Matched","lead_id":"L-1","bids":[{"bid_id":"B-1","price":10},{"bid_id":"B-2","price":35.5}]}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, srv.Client())
	res, err := c.Ping(context.Background(), PingRequest{Request: PingFields{Mode: ModePing, Zip: "90210"}})
	if err != nil {
		t.Fatalf("ping: %v", err)
	}
	if res.LeadID != "L-1" {
		t.Fatalf("expected lead id L-1, got %q", res.LeadID)
	}
	bid, ok := res.BestBid()
	if !ok || bid.BidID != "B-2" {
		t.Fatalf("expected best bid B-2, got %+v (ok=%v)", bid, ok)
	}
	if got["Request"]["Mode"] != "ping" || got["Request"]["Zip"] != "90210" {
		t.Fatalf("unexpected request body: %v", got)
	}
}

func TestPostFlattensPingFields(t *testing.T) {
	var got map[string]map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&got)
		_, _ = w.Write([]byte(`{"response":{"status":"Success","lead_id":"L-1"}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, srv.Client())
	req := PostRequest{Request: PostFields{
		PingFields:     PingFields{Mode: ModePost, State: "CA"},
		LeadID:         "L-1",
		MatchWithBidID: "B-2",
	}}
	if _, err := c.Post(context.Background(), req); err != nil {
		t.Fatalf("post: %v", err)
	}
	fields := got["Request"]
	if fields["Mode"] != "post" || fields["State"] != "CA" || fields["Lead_ID"] != "L-1" || fields["Match_With_Bid_ID"] != "B-2" {
		t.Fatalf("unexpected post body: %v", fields)
	}
	if _, nested := fields["PingFields"]; nested {
		t.Fatal("expected ping fields to be flattened into the request")
	}
}

func TestPingRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"response":{"status":"Unmatched","errors":["no buyers"]}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, srv.Client())
	res, err := c.Ping(context.Background(), PingRequest{})
	if !errors.Is(err, ErrRejected) {
		t.Fatalf("expected ErrRejected, got %v", err)
	}
	if !strings.Contains(err.Error(), "no buyers") {
		t.Fatalf("expected rejection reason in error, got %v", err)
	}
	if res == nil || res.Status != "Unmatched" {
		t.Fatalf("expected decoded result alongside rejection, got %+v", res)
	}
}

func TestPingHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad key", http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, srv.Client())
	_, err := c.Ping(context.Background(), PingRequest{})
	if err == nil || errors.Is(err, ErrRejected) {
		t.Fatalf("expected transport error, got %v", err)
	}
	if !strings.Contains(err.Error(), "status 401") {
		t.Fatalf("expected status in error, got %v", err)
	}
}

func TestPingMalformedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, srv.Client())
	if _, err := c.Ping(context.Background(), PingRequest{}); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestBestBidSkipsEmptyIDs(t *testing.T) {
	r := Result{Bids: []Bid{{BidID: "", Price: 99}, {BidID: "B-1", Price: 1}}}
	bid, ok := r.BestBid()
	if !ok || bid.BidID != "B-1" {
		t.Fatalf("expected B-1, got %+v", bid)
	}
	if _, ok := (Result{}).BestBid(); ok {
		t.Fatal("expected no bid for empty result")
	}
}
