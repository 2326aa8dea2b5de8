package discovery

import (
	"context"
	"log/slog"
	"time"

	"github.com/unisg-scs-asse/pitas-hs25-auction-bidder/internal/clients"
	"github.com/unisg-scs-asse/pitas-hs25-auction-bidder/internal/model"
)

// Poller periodically lists auctions from the configured auction house and
// emits every OPEN descriptor into the intake channel. With registry
// fan-out enabled, every house known to the discovery registry is polled
// as well. The loop runs until ctx is cancelled.
type Poller struct {
	house    *clients.AuctionHouse
	houseURL string
	interval time.Duration
	registry bool // fan out over discovery registry hosts
	verify   bool // re-fetch each auction's detail before emitting
	out      chan<- model.Auction
}

func NewPoller(house *clients.AuctionHouse, houseURL string, interval time.Duration, registry, verify bool, out chan<- model.Auction) *Poller {
	return &Poller{
		house:    house,
		houseURL: houseURL,
		interval: interval,
		registry: registry,
		verify:   verify,
		out:      out,
	}
}

func (p *Poller) Run(ctx context.Context) {
	slog.Info("poller_started", "house", p.houseURL, "interval", p.interval, "registry", p.registry)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		p.pollOnce(ctx)
		select {
		case <-ctx.Done():
			slog.Info("poller_stopped")
			return
		case <-ticker.C:
		}
	}
}

func (p *Poller) pollOnce(ctx context.Context) {
	for _, house := range p.houses(ctx) {
		auctions, err := p.house.ListAuctions(ctx, house)
		if err != nil {
			slog.Warn("auction_poll_failed", "house", house, "error", err)
			continue
		}
		slog.Debug("auction_poll", "house", house, "count", len(auctions))

		for _, auction := range auctions {
			if auction.Status != model.StatusOpen || auction.AuctionID == "" {
				continue
			}
			if auction.AuctionHouseURI == "" {
				auction.AuctionHouseURI = house
			}
			if p.verify {
				detail, err := p.house.GetAuction(ctx, house, auction.AuctionID)
				if err != nil {
					slog.Warn("auction_detail_failed", "auction_id", auction.AuctionID, "error", err)
				} else {
					if detail.AuctionHouseURI == "" {
						detail.AuctionHouseURI = house
					}
					auction = detail
				}
			}
			p.emit(ctx, auction)
		}
	}
}

// houses returns the set of auction houses to poll this cycle. Registry
// failures degrade to polling the configured house alone.
func (p *Poller) houses(ctx context.Context) []string {
	houses := []string{p.houseURL}
	if !p.registry {
		return houses
	}

	hosts, err := p.house.DiscoveryHosts(ctx, p.houseURL)
	if err != nil {
		slog.Warn("discovery_hosts_failed", "registry", p.houseURL, "error", err)
		return houses
	}

	seen := map[string]struct{}{p.houseURL: {}}
	for _, host := range hosts {
		if host.AuctionHouseURI == "" {
			continue
		}
		if _, ok := seen[host.AuctionHouseURI]; ok {
			continue
		}
		seen[host.AuctionHouseURI] = struct{}{}
		houses = append(houses, host.AuctionHouseURI)
	}
	return houses
}

func (p *Poller) emit(ctx context.Context, auction model.Auction) {
	select {
	case p.out <- auction:
	case <-ctx.Done():
	}
}
