package handlers

import (
	"context"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"newsAggregator/internal/database"
	"newsAggregator/internal/repository"
	"newsAggregator/internal/service"
	"newsAggregator/internal/validation"
)

// maxBodyBytes bounds request bodies read by write endpoints.
const maxBodyBytes = 1 << 20

// Stores hands out per-request sessions. *database.Router implements it.
type Stores interface {
	Acquire(ctx context.Context, domain database.Domain) (*database.Session, error)
	Release(s *database.Session)
	HealthCheck(ctx context.Context) map[database.Domain]error
}

type Handlers struct {
	Stores   Stores
	Services service.Factory
}

func NewHandlers(stores Stores, services service.Factory) *Handlers {
	return &Handlers{
		Stores:   stores,
		Services: services,
	}
}

// withSession runs fn over a session on domain and releases it afterwards.
// fn writes its own success response; a returned error is mapped by fail.
func (h *Handlers) withSession(w http.ResponseWriter, r *http.Request, domain database.Domain, fn func(db repository.Executor) error) {
	session, err := h.Stores.Acquire(r.Context(), domain)
	if err != nil {
		fail(w, r, err)
		return
	}
	defer h.Stores.Release(session)

	if err := fn(session); err != nil {
		fail(w, r, err)
	}
}

// decodeBody validates the JSON body against schema into dst.
func decodeBody(r *http.Request, schema *validation.Schema, dst any) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return err
	}
	return schema.Decode(body, dst)
}

// pageNumber reads the pagenumber query parameter. An absent parameter is null.
func pageNumber(r *http.Request) (int, error) {
	values := map[string]any{"pagenumber": nil}
	if raw, ok := r.URL.Query()["pagenumber"]; ok && len(raw) > 0 {
		values["pagenumber"] = raw[0]
	}

	cleaned, err := validation.PageNumber.Validate(values)
	if err != nil {
		return 0, err
	}
	return int(cleaned["pagenumber"].(int64)), nil
}

// pathID reads a numeric path variable. The router only matches digits, so a
// parse failure means the id overflows and can name no row.
func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(mux.Vars(r)[name], 10, 64)
	if err != nil {
		return 0, &service.NotFoundError{Message: notFoundFor(name)}
	}
	return id, nil
}

func notFoundFor(name string) string {
	if name == "comment_id" {
		return service.MsgCommentNotFound
	}
	return service.MsgStoryNotFound
}
