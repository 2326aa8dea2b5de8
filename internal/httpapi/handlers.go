package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/unisg-scs-asse/pitas-hs25-auction-bidder/internal/model"
	"github.com/unisg-scs-asse/pitas-hs25-auction-bidder/internal/service"
)

type Handlers struct {
	svc      *service.Service
	envelope bool
}

func NewHandlers(svc *service.Service, envelope bool) *Handlers {
	return &Handlers{svc: svc, envelope: envelope}
}

func (h *Handlers) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (h *Handlers) Status(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Status())
}

// AuctionStarted handles the auction house's push notification. The pushed
// descriptor is trusted as-is; the bid decision is made before answering,
// so a 201 means the notification has been fully processed. Replaying a
// notification for an already-bid auction is a no-op and still answers 201.
func (h *Handlers) AuctionStarted(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var auction model.Auction
	if err := decodeBody(r, &auction); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if auction.Status == "" {
		auction.Status = model.StatusOpen
	}

	slog.InfoContext(ctx, "auction_notification",
		"auction_id", auction.AuctionID,
		"job_type", auction.JobType,
	)

	if err := h.svc.Process(ctx, auction); err != nil {
		if errors.Is(err, service.ErrMissingAuctionID) {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		// Already bid, not eligible, not open: the notification itself
		// was handled, so the contract is still a 201 echo.
		slog.DebugContext(ctx, "auction_notification_skipped",
			"auction_id", auction.AuctionID, "reason", err)
	}

	writeJSON(w, http.StatusCreated, auction)
}

// JobAssignment handles the award callback. Execution and result delivery
// happen synchronously; the caller only sees a 201 once the auction house
// has accepted the result.
func (h *Handlers) JobAssignment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	auctionID := chi.URLParam(r, "auctionID")

	var assignment model.JobAssignment
	if err := decodeBody(r, &assignment); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	result, err := h.svc.ExecuteJob(ctx, auctionID, assignment)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	if h.envelope {
		writeJSON(w, http.StatusCreated, model.Envelope{Version: 1, Data: result})
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

func decodeBody(r *http.Request, v any) error {
	defer r.Body.Close()
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		return err
	}
	return json.Unmarshal(body, v)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
