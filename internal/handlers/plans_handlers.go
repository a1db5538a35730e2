package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/memberhub/memberhub/internal/upstream"
	"github.com/sirupsen/logrus"
)

type PlansLister interface {
	List(ctx context.Context) (json.RawMessage, error)
}

type PlansHandlers struct {
	plans  PlansLister
	logger *logrus.Logger
}

func NewPlansHandlers(plans PlansLister, logger *logrus.Logger) *PlansHandlers {
	return &PlansHandlers{
		plans:  plans,
		logger: logger,
	}
}

// ListPlans passes the member API's plan listing through unchanged.
func (h *PlansHandlers) ListPlans(w http.ResponseWriter, r *http.Request) {
	plans, err := h.plans.List(r.Context())
	if errors.Is(err, upstream.ErrNoToken) {
		respondWithError(w, http.StatusUnauthorized, "UNAUTHORIZED", "A bearer token is required")
		return
	}
	if err != nil {
		var statusErr *upstream.StatusError
		if errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusUnauthorized {
			respondWithError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Token rejected by member API")
			return
		}
		respondWithError(w, http.StatusBadGateway, "PLANS_UNAVAILABLE", "Failed to fetch club plans")
		return
	}

	if len(plans) == 0 {
		plans = json.RawMessage("null")
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(plans)
}
