package discovery

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/peterldowns/testy/assert"
	"github.com/peterldowns/testy/check"

	"github.com/unisg-scs-asse/pitas-hs25-auction-bidder/internal/clients"
	"github.com/unisg-scs-asse/pitas-hs25-auction-bidder/internal/model"
)

func drain(out <-chan model.Auction) []model.Auction {
	var got []model.Auction
	for {
		select {
		case a := <-out:
			got = append(got, a)
		default:
			return got
		}
	}
}

func TestPollOnceEmitsOpenAuctions(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[
			{"auctionId":"a1","jobType":"testJob","status":"OPEN"},
			{"auctionId":"a2","jobType":"testJob","status":"CLOSED"},
			{"auctionId":"","jobType":"testJob","status":"OPEN"}
		]`))
	}))
	defer srv.Close()

	out := make(chan model.Auction, 8)
	house := clients.NewAuctionHouse("bidder-1", "http://bidder.example.com", false)
	poller := NewPoller(house, srv.URL, time.Second, false, false, out)

	poller.pollOnce(context.Background())

	got := drain(out)
	assert.Equal(t, 1, len(got))
	check.Equal(t, "a1", got[0].AuctionID)
	// Listing omitted the house URI; the poller fills in its source.
	check.Equal(t, srv.URL, got[0].AuctionHouseURI)
}

func TestPollOnceSurvivesHouseFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusInternalServerError)
	}))
	defer srv.Close()

	out := make(chan model.Auction, 8)
	house := clients.NewAuctionHouse("bidder-1", "http://bidder.example.com", false)
	poller := NewPoller(house, srv.URL, time.Second, false, false, out)

	poller.pollOnce(context.Background())

	check.Equal(t, 0, len(drain(out)))
}

func TestPollOnceVerifyUsesDetail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auctions":
			_, _ = w.Write([]byte(`[{"auctionId":"a1","jobType":"testJob","status":"OPEN"}]`))
		case "/auctions/a1":
			_, _ = w.Write([]byte(`{"version":1,"data":{"auctionId":"a1","jobType":"testJob","status":"OPEN","deadline":"2025-12-01T00:00:00Z"}}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	out := make(chan model.Auction, 8)
	house := clients.NewAuctionHouse("bidder-1", "http://bidder.example.com", false)
	poller := NewPoller(house, srv.URL, time.Second, false, true, out)

	poller.pollOnce(context.Background())

	got := drain(out)
	assert.Equal(t, 1, len(got))
	check.Equal(t, "2025-12-01T00:00:00Z", got[0].Deadline)
}

func TestPollOnceRegistryFanOut(t *testing.T) {
	other := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"auctionId":"b1","jobType":"testJob","status":"OPEN"}]`))
	}))
	defer other.Close()

	registry := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auctions":
			_, _ = w.Write([]byte(`[{"auctionId":"a1","jobType":"testJob","status":"OPEN"}]`))
		case "/discovery":
			_, _ = w.Write([]byte(`{"version":1,"data":{"type":"EVEN","hosts":[{"auctionHouseUri":"` + other.URL + `"}]}}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer registry.Close()

	out := make(chan model.Auction, 8)
	house := clients.NewAuctionHouse("bidder-1", "http://bidder.example.com", false)
	poller := NewPoller(house, registry.URL, time.Second, true, false, out)

	poller.pollOnce(context.Background())

	got := drain(out)
	assert.Equal(t, 2, len(got))
	check.Equal(t, "a1", got[0].AuctionID)
	check.Equal(t, "b1", got[1].AuctionID)
}

func TestRunStopsOnCancel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	out := make(chan model.Auction, 1)
	house := clients.NewAuctionHouse("bidder-1", "http://bidder.example.com", false)
	poller := NewPoller(house, srv.URL, 10*time.Millisecond, false, false, out)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		poller.Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("poller did not stop on cancellation")
	}
}
