package handlers

import (
	"net/http"

	"newsAggregator/internal/database"
	"newsAggregator/internal/repository"
	"newsAggregator/internal/service"
)

type TablesResponse struct {
	Users int                           `json:"users"`
	Feeds map[string]service.FeedCounts `json:"feeds"`
}

// TablesHandler reports row counts for the user table and every feed.
func (h *Handlers) TablesHandler(w http.ResponseWriter, r *http.Request) {
	resp := TablesResponse{Feeds: make(map[string]service.FeedCounts, len(repository.Feeds))}

	ok := true
	h.withSession(w, r, database.Users, func(db repository.Executor) error {
		count, err := h.Services.Tables(db).UserCount(r.Context())
		if err != nil {
			ok = false
			return err
		}
		resp.Users = count
		return nil
	})
	if !ok {
		return
	}

	for _, feed := range repository.Feeds {
		counted := false
		h.withSession(w, r, feed.Domain, func(db repository.Executor) error {
			counts, err := h.Services.Tables(db).FeedCounts(r.Context(), feed)
			if err != nil {
				return err
			}
			resp.Feeds[feed.Name] = counts
			counted = true
			return nil
		})
		if !counted {
			return
		}
	}

	writeSuccess(w, resp, http.StatusOK)
}

type HealthResponse struct {
	Status string            `json:"status"`
	Stores map[string]string `json:"stores"`
}

// Health pings every store. Any failing store turns the status code into 503.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{Status: "ok", Stores: map[string]string{}}
	status := http.StatusOK

	for domain, err := range h.Stores.HealthCheck(r.Context()) {
		if err != nil {
			resp.Status = "degraded"
			resp.Stores[string(domain)] = err.Error()
			status = http.StatusServiceUnavailable
			continue
		}
		resp.Stores[string(domain)] = "ok"
	}

	writeSuccess(w, resp, status)
}

func (h *Handlers) Home(w http.ResponseWriter, r *http.Request) {
	writeMessage(w, "News aggregator API", http.StatusOK)
}
