package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/unisg-scs-asse/pitas-hs25-auction-bidder/internal/clients"
	"github.com/unisg-scs-asse/pitas-hs25-auction-bidder/internal/config"
	"github.com/unisg-scs-asse/pitas-hs25-auction-bidder/internal/model"
	"github.com/unisg-scs-asse/pitas-hs25-auction-bidder/internal/store"
)

var (
	ErrMissingAuctionID = errors.New("auction id is required")
	ErrAlreadyBid       = errors.New("already bid on auction")
	ErrNotEligible      = errors.New("job type not supported")
	ErrNotOpen          = errors.New("auction is not open")
)

// intakeBuffer bounds the discovery intake channel. Producers block once
// the coordinator falls this far behind.
const intakeBuffer = 64

// Service is the bid coordinator and job executor. It owns the only shared
// mutable state of the process (bid ledger, active jobs) and is safe for
// concurrent use from the discovery loops and the HTTP handlers.
type Service struct {
	name      string
	baseURL   string
	houseURL  string
	supported map[string]struct{}
	runner    JobRunner

	ledger *store.BidLedger
	jobs   *store.ActiveJobs
	house  *clients.AuctionHouse
	intake chan model.Auction
}

func New(cfg config.Config, ledger *store.BidLedger, jobs *store.ActiveJobs, house *clients.AuctionHouse) *Service {
	return &Service{
		name:      cfg.Name,
		baseURL:   cfg.BaseURL,
		houseURL:  cfg.AuctionHouseURL,
		supported: cfg.SupportedJobTypes,
		runner:    RunnerFor(cfg.JobOutputMode),
		ledger:    ledger,
		jobs:      jobs,
		house:     house,
		intake:    make(chan model.Auction, intakeBuffer),
	}
}

// Intake is the channel the asynchronous discovery sources emit into.
func (s *Service) Intake() chan<- model.Auction {
	return s.intake
}

// Run drains the intake channel until ctx is cancelled. It is the single
// consumer of asynchronously discovered auctions; the push endpoint calls
// Process directly, with the ledger arbitrating between the two paths.
func (s *Service) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case auction := <-s.intake:
			if err := s.Process(ctx, auction); err != nil {
				slog.Debug("auction_skipped", "auction_id", auction.AuctionID, "reason", err)
			}
		}
	}
}

// Process decides whether to bid on a discovered auction and, if so, places
// the bid. At most one bid is ever issued per auction id: the ledger's
// TryMark is the atomic arbiter across all discovery sources. The mark
// records intent and stands even when the bid call fails.
func (s *Service) Process(ctx context.Context, auction model.Auction) error {
	if auction.AuctionID == "" {
		return ErrMissingAuctionID
	}
	if s.ledger.Has(auction.AuctionID) {
		return ErrAlreadyBid
	}
	if auction.Status != model.StatusOpen {
		return fmt.Errorf("%w: status %s", ErrNotOpen, auction.Status)
	}
	if !s.eligible(auction.JobType) {
		return fmt.Errorf("%w: %q", ErrNotEligible, auction.JobType)
	}
	if !s.ledger.TryMark(auction.AuctionID) {
		return ErrAlreadyBid
	}

	houseURI := auction.AuctionHouseURI
	if houseURI == "" {
		houseURI = s.houseURL
	}

	slog.Info("bid_placing", "auction_id", auction.AuctionID, "job_type", auction.JobType, "house", houseURI)
	if err := s.house.PlaceBid(ctx, houseURI, auction.AuctionID); err != nil {
		slog.Warn("bid_failed", "auction_id", auction.AuctionID, "error", err)
		return nil
	}
	slog.Info("bid_placed", "auction_id", auction.AuctionID)
	return nil
}

// ExecuteJob runs an assigned job and submits its result. The job record is
// deleted only after the auction house has accepted the result; on failure
// it is retained and the error is returned to the caller.
func (s *Service) ExecuteJob(ctx context.Context, auctionID string, assignment model.JobAssignment) (model.JobResult, error) {
	houseURI := assignment.AuctionHouseURI
	if houseURI == "" {
		houseURI = s.houseURL
	}

	job := model.Job{
		AuctionID:       auctionID,
		JobType:         assignment.JobType,
		InputData:       assignment.InputData,
		AuctionHouseURI: houseURI,
		ReceivedAt:      time.Now().UTC(),
	}
	s.jobs.Put(job)
	slog.Info("job_received", "auction_id", auctionID, "job_type", job.JobType)

	result := model.JobResult{
		AuctionID:       auctionID,
		AuctionHouseURI: houseURI,
		JobType:         job.JobType,
		Status:          model.StatusExecuted,
		InputData:       job.InputData,
		OutputData:      s.runner(job.JobType, job.InputData),
	}

	if err := s.house.SubmitJobResult(ctx, houseURI, result); err != nil {
		slog.Error("job_result_rejected", "auction_id", auctionID, "error", err)
		return model.JobResult{}, err
	}

	s.jobs.Delete(auctionID)
	slog.Info("job_result_delivered", "auction_id", auctionID)
	return result, nil
}

// Status reports the observable state of the bidder.
func (s *Service) Status() model.StatusReport {
	return model.StatusReport{
		Name:            s.name,
		BaseURL:         s.baseURL,
		AuctionHouseURL: s.houseURL,
		ActiveJobs:      s.jobs.Len(),
		Jobs:            s.jobs.IDs(),
		AuctionsBidOn:   s.ledger.Size(),
	}
}

// eligible reports whether an auction with the given job type may be bid
// on. An empty supported set means every job type is supported; a missing
// job type is never eligible.
func (s *Service) eligible(jobType string) bool {
	if jobType == "" {
		return false
	}
	if len(s.supported) == 0 {
		return true
	}
	_, ok := s.supported[jobType]
	return ok
}
