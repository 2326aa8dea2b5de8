package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/unisg-scs-asse/pitas-hs25-auction-bidder/internal/service"
)

func NewRouter(svc *service.Service, envelope bool) http.Handler {
	h := NewHandlers(svc, envelope)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health", h.Health)
	r.Get("/status", h.Status)
	r.Post("/bidders", h.AuctionStarted)
	r.Post("/bidders/{auctionID}/job", h.JobAssignment)

	return r
}
