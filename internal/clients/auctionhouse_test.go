package clients

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/peterldowns/testy/assert"
	"github.com/peterldowns/testy/check"

	"github.com/unisg-scs-asse/pitas-hs25-auction-bidder/internal/model"
)

func TestEnsureTrailingSlash(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"http://h", "http://h/"},
		{"http://h/", "http://h/"},
		{"http://h//", "http://h/"},
	}
	for _, tt := range tests {
		check.Equal(t, tt.want, ensureTrailingSlash(tt.in))
	}
}

func TestPlaceBid(t *testing.T) {
	var gotPath, gotVersion string
	var gotBid model.Bid
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotVersion = r.Header.Get("X-API-Version")
		_ = json.NewDecoder(r.Body).Decode(&gotBid)
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	client := NewAuctionHouse("bidder-1", "http://bidder.example.com", false)
	err := client.PlaceBid(context.Background(), srv.URL, "a1")
	assert.NoError(t, err)

	check.Equal(t, "/auctions/a1/bid", gotPath)
	check.Equal(t, "1", gotVersion)
	check.Equal(t, "a1", gotBid.AuctionID)
	check.Equal(t, "bidder-1", gotBid.BidderName)
	check.Equal(t, "http://bidder.example.com/", gotBid.BidderAuctionHouseURI)
}

func TestPlaceBidEnveloped(t *testing.T) {
	var got struct {
		Version int       `json:"version"`
		Data    model.Bid `json:"data"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	client := NewAuctionHouse("bidder-1", "http://bidder.example.com", true)
	err := client.PlaceBid(context.Background(), srv.URL, "a1")
	assert.NoError(t, err)

	check.Equal(t, 1, got.Version)
	check.Equal(t, "a1", got.Data.AuctionID)
	check.Equal(t, "bidder-1", got.Data.BidderName)
}

func TestPlaceBidNon201IsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// 200 is not acceptance; the contract is exactly 201.
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := NewAuctionHouse("bidder-1", "http://bidder.example.com", false)
	err := client.PlaceBid(context.Background(), srv.URL, "a1")
	check.Error(t, err)
}

func TestListAuctionsBareArray(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		check.Equal(t, "/auctions", r.URL.Path)
		_, _ = w.Write([]byte(`[
			{"auctionId":"a1","jobType":"testJob","status":"OPEN"},
			{"auctionId":"a2","jobType":"testJob","status":"CLOSED"}
		]`))
	}))
	defer srv.Close()

	client := NewAuctionHouse("bidder-1", "http://bidder.example.com", false)
	auctions, err := client.ListAuctions(context.Background(), srv.URL)
	assert.NoError(t, err)

	assert.Equal(t, 2, len(auctions))
	check.Equal(t, "a1", auctions[0].AuctionID)
	check.Equal(t, model.StatusClosed, auctions[1].Status)
}

func TestListAuctionsEnveloped(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{
			"version": 1,
			"data": {"auctions": [
				{"auctionId":"a1","jobType":"testJob","status":"OPEN","deadline":"2025-12-01T00:00:00Z"}
			]}
		}`))
	}))
	defer srv.Close()

	client := NewAuctionHouse("bidder-1", "http://bidder.example.com", false)
	auctions, err := client.ListAuctions(context.Background(), srv.URL)
	assert.NoError(t, err)

	assert.Equal(t, 1, len(auctions))
	check.Equal(t, "a1", auctions[0].AuctionID)
	check.Equal(t, "2025-12-01T00:00:00Z", auctions[0].Deadline)
}

func TestListAuctionsMalformed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json at all`))
	}))
	defer srv.Close()

	client := NewAuctionHouse("bidder-1", "http://bidder.example.com", false)
	_, err := client.ListAuctions(context.Background(), srv.URL)
	check.Error(t, err)
}

func TestGetAuction(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		check.Equal(t, "/auctions/a1", r.URL.Path)
		_, _ = w.Write([]byte(`{
			"version": 1,
			"data": {"status":"OPEN","auctionHouseUri":"http://house/","jobType":"testJob","deadline":"soon"}
		}`))
	}))
	defer srv.Close()

	client := NewAuctionHouse("bidder-1", "http://bidder.example.com", false)
	auction, err := client.GetAuction(context.Background(), srv.URL, "a1")
	assert.NoError(t, err)

	// The detail payload omits the id; the client fills it in.
	check.Equal(t, "a1", auction.AuctionID)
	check.Equal(t, model.StatusOpen, auction.Status)
	check.Equal(t, "testJob", auction.JobType)
}

func TestSubmitJobResult(t *testing.T) {
	var gotPath string
	var gotResult model.JobResult
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&gotResult)
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	client := NewAuctionHouse("bidder-1", "http://bidder.example.com", false)
	result := model.JobResult{
		AuctionID:  "a1",
		JobType:    "testJob",
		Status:     model.StatusExecuted,
		InputData:  "x",
		OutputData: "y",
	}
	err := client.SubmitJobResult(context.Background(), srv.URL, result)
	assert.NoError(t, err)

	check.Equal(t, "/auctions/a1/job", gotPath)
	check.Equal(t, model.StatusExecuted, gotResult.Status)
	check.Equal(t, "y", gotResult.OutputData)
}

func TestSubmitJobResultFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewAuctionHouse("bidder-1", "http://bidder.example.com", false)
	err := client.SubmitJobResult(context.Background(), srv.URL, model.JobResult{AuctionID: "a1"})
	check.Error(t, err)
}

func TestDiscoveryHosts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		check.Equal(t, "/discovery", r.URL.Path)
		_, _ = w.Write([]byte(`{
			"version": 1,
			"data": {"type":"EVEN","hosts":[{"auctionHouseUri":"http://house-a/"},{"auctionHouseUri":"http://house-b/"}]}
		}`))
	}))
	defer srv.Close()

	client := NewAuctionHouse("bidder-1", "http://bidder.example.com", false)
	hosts, err := client.DiscoveryHosts(context.Background(), srv.URL)
	assert.NoError(t, err)

	assert.Equal(t, 2, len(hosts))
	check.Equal(t, "http://house-a/", hosts[0].AuctionHouseURI)
}
