package model

import "time"

// Auction statuses as used on the wire.
const (
	StatusOpen     = "OPEN"
	StatusClosed   = "CLOSED"
	StatusExecuted = "EXECUTED"
)

// Auction is the descriptor every discovery source normalizes into. It is
// ephemeral: once the bid decision is made only the auction id is retained.
type Auction struct {
	AuctionID       string `json:"auctionId"`
	AuctionHouseURI string `json:"auctionHouseUri,omitempty"`
	JobType         string `json:"jobType,omitempty"`
	Status          string `json:"status,omitempty"`
	Deadline        string `json:"deadline,omitempty"`
}

// Bid is the body posted to {house}auctions/{id}/bid.
type Bid struct {
	AuctionID             string `json:"auctionId"`
	BidderName            string `json:"bidderName"`
	BidderAuctionHouseURI string `json:"bidderAuctionHouseUri"`
}

// Job is an accepted assignment, held until its result has been delivered.
type Job struct {
	AuctionID       string    `json:"auctionId"`
	JobType         string    `json:"jobType"`
	InputData       string    `json:"inputData,omitempty"`
	AuctionHouseURI string    `json:"auctionHouseUri"`
	ReceivedAt      time.Time `json:"receivedAt"`
}

// JobAssignment is the inbound body of POST /bidders/{auctionId}/job.
type JobAssignment struct {
	JobType         string `json:"jobType"`
	InputData       string `json:"inputData,omitempty"`
	AuctionHouseURI string `json:"auctionHouseUri,omitempty"`
}

// JobResult is the body posted to {house}auctions/{id}/job and echoed to the
// caller of the assignment endpoint.
type JobResult struct {
	AuctionID       string `json:"auctionId"`
	AuctionHouseURI string `json:"auctionHouseUri"`
	JobType         string `json:"jobType"`
	Status          string `json:"status"`
	InputData       string `json:"inputData,omitempty"`
	OutputData      string `json:"outputData"`
}

// Envelope wraps a payload as {version:1, data:{...}} for auction-house
// deployments that version their request and response bodies.
type Envelope struct {
	Version int `json:"version"`
	Data    any `json:"data"`
}

// AuctionEnvelope is the response of GET {house}auctions/{id}.
type AuctionEnvelope struct {
	Version int     `json:"version"`
	Data    Auction `json:"data"`
}

// AuctionListEnvelope is the enveloped variant of GET {house}auctions.
// Other deployments return a bare array instead.
type AuctionListEnvelope struct {
	Version int `json:"version"`
	Data    struct {
		Auctions []Auction `json:"auctions"`
	} `json:"data"`
}

// BusMessage is the JSON payload published on the auction event topic.
type BusMessage struct {
	Data struct {
		Auction *Auction `json:"auction"`
	} `json:"data"`
}

// DiscoveryHost is one auction house known to a discovery registry.
type DiscoveryHost struct {
	AuctionHouseURI string `json:"auctionHouseUri"`
}

// DiscoveryHostsEnvelope is the response of GET {registry}discovery.
type DiscoveryHostsEnvelope struct {
	Version int `json:"version"`
	Data    struct {
		Type  string          `json:"type"`
		Hosts []DiscoveryHost `json:"hosts"`
	} `json:"data"`
}

// StatusReport is the GET /status body.
type StatusReport struct {
	Name            string   `json:"name"`
	BaseURL         string   `json:"baseUrl"`
	AuctionHouseURL string   `json:"auctionHouseUrl"`
	ActiveJobs      int      `json:"activeJobs"`
	Jobs            []string `json:"jobs"`
	AuctionsBidOn   int      `json:"auctionsBidOn"`
}
