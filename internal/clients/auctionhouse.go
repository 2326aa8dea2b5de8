package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/unisg-scs-asse/pitas-hs25-auction-bidder/internal/httpclient"
	"github.com/unisg-scs-asse/pitas-hs25-auction-bidder/internal/model"
)

const (
	apiVersionHeader = "X-API-Version"
	apiVersion       = "1"

	bidTimeout    = 5 * time.Second
	resultTimeout = 10 * time.Second
)

// AuctionHouse is the outbound client for the auction-house API. It holds no
// mutable state and is safe for concurrent use. No call is retried: a failed
// bid is abandoned and a failed result submission is reported to the caller.
type AuctionHouse struct {
	bidderName string
	bidderURI  string // this service's advertised base URL, with trailing slash
	envelope   bool   // wrap bid/result bodies in {version:1, data:{...}}

	http    *httpclient.DecoratedClient // bids, polls, lookups
	results *httpclient.DecoratedClient // result submissions carry larger payloads
}

func NewAuctionHouse(bidderName, bidderBaseURL string, envelope bool) *AuctionHouse {
	version := httpclient.StaticHeader{Header: apiVersionHeader, Value: apiVersion}
	return &AuctionHouse{
		bidderName: bidderName,
		bidderURI:  ensureTrailingSlash(bidderBaseURL),
		envelope:   envelope,
		http: httpclient.NewDecoratedClient(
			httpclient.NewClientWithRetry("auction-house", bidTimeout, httpclient.NoRetry()), version),
		results: httpclient.NewDecoratedClient(
			httpclient.NewClientWithRetry("auction-house", resultTimeout, httpclient.NoRetry()), version),
	}
}

// PlaceBid posts a bid for auctionID to the given auction house. Success is
// exactly HTTP 201; anything else is returned as an error.
func (c *AuctionHouse) PlaceBid(ctx context.Context, houseURI, auctionID string) error {
	bid := model.Bid{
		AuctionID:             auctionID,
		BidderName:            c.bidderName,
		BidderAuctionHouseURI: c.bidderURI,
	}

	resp, err := httpclient.NewRequest(http.MethodPost, ensureTrailingSlash(houseURI)).
		Path("auctions/" + auctionID + "/bid").
		JSON(c.wrap(bid)).
		Context(ctx).
		Execute(c.http)
	if err != nil {
		return fmt.Errorf("place bid: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("place bid: %w", &httpclient.HTTPError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       body,
		})
	}
	return nil
}

// SubmitJobResult posts an executed job's result to the given auction house.
// Success is exactly HTTP 201.
func (c *AuctionHouse) SubmitJobResult(ctx context.Context, houseURI string, result model.JobResult) error {
	resp, err := httpclient.NewRequest(http.MethodPost, ensureTrailingSlash(houseURI)).
		Path("auctions/" + result.AuctionID + "/job").
		JSON(c.wrap(result)).
		Context(ctx).
		Execute(c.results)
	if err != nil {
		return fmt.Errorf("submit job result: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("submit job result: %w", &httpclient.HTTPError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       body,
		})
	}
	return nil
}

// ListAuctions fetches the auction list from the given house. Deployments
// answer with either a bare JSON array or a {version, data:{auctions:[...]}}
// envelope; both are accepted.
func (c *AuctionHouse) ListAuctions(ctx context.Context, houseURI string) ([]model.Auction, error) {
	resp, err := httpclient.NewRequest(http.MethodGet, ensureTrailingSlash(houseURI)).
		Path("auctions").
		Context(ctx).
		Execute(c.http)
	if err != nil {
		return nil, fmt.Errorf("list auctions: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("list auctions: %w", &httpclient.HTTPError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       body,
		})
	}

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("list auctions: read body: %w", err)
	}
	return parseAuctionList(payload)
}

// GetAuction fetches a single auction's detail record.
func (c *AuctionHouse) GetAuction(ctx context.Context, houseURI, auctionID string) (model.Auction, error) {
	var out model.AuctionEnvelope
	err := httpclient.NewRequest(http.MethodGet, ensureTrailingSlash(houseURI)).
		Path("auctions/" + auctionID).
		Context(ctx).
		ExecuteJSON(c.http, &out)
	if err != nil {
		return model.Auction{}, fmt.Errorf("get auction %s: %w", auctionID, err)
	}
	if out.Data.AuctionID == "" {
		out.Data.AuctionID = auctionID
	}
	return out.Data, nil
}

// DiscoveryHosts fetches the auction houses known to a discovery registry.
func (c *AuctionHouse) DiscoveryHosts(ctx context.Context, registryURI string) ([]model.DiscoveryHost, error) {
	var out model.DiscoveryHostsEnvelope
	err := httpclient.NewRequest(http.MethodGet, ensureTrailingSlash(registryURI)).
		Path("discovery").
		Context(ctx).
		ExecuteJSON(c.http, &out)
	if err != nil {
		return nil, fmt.Errorf("discovery hosts: %w", err)
	}
	return out.Data.Hosts, nil
}

func (c *AuctionHouse) wrap(v any) any {
	if c.envelope {
		return model.Envelope{Version: 1, Data: v}
	}
	return v
}

// parseAuctionList sniffs the top-level shape of an auction list response.
// This is a compatibility shim for the two observed deployments, not part
// of the protocol proper.
func parseAuctionList(payload []byte) ([]model.Auction, error) {
	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var auctions []model.Auction
		if err := json.Unmarshal(trimmed, &auctions); err != nil {
			return nil, fmt.Errorf("parse auction array: %w", err)
		}
		return auctions, nil
	}

	var envelope model.AuctionListEnvelope
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return nil, fmt.Errorf("parse auction envelope: %w", err)
	}
	return envelope.Data.Auctions, nil
}

// ensureTrailingSlash normalizes a base URI to exactly one trailing slash so
// path segments can be appended without doubling separators.
func ensureTrailingSlash(uri string) string {
	return strings.TrimRight(uri, "/") + "/"
}
