package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"newsAggregator/internal/repository"
)

const (
	storyPath   = "/{story_id:[0-9]+}"
	commentPath = storyPath + "/comments"
	commentItem = commentPath + "/{comment_id:[0-9]+}"
)

// collection registers fn on path with and without the trailing slash.
func collection(r *mux.Router, path string, fn http.HandlerFunc, methods ...string) {
	r.HandleFunc(path, fn).Methods(methods...)
	r.HandleFunc(path+"/", fn).Methods(methods...)
}

// Routes builds the routing table of the whole API. Every route sits on the
// root router so a method mismatch is answered with 405 rather than 404.
func (h *Handlers) Routes() *mux.Router {
	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, "Not found", http.StatusNotFound)
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, "Method not allowed", http.StatusMethodNotAllowed)
	})

	r.HandleFunc("/", h.Home).Methods(http.MethodGet)
	r.HandleFunc("/health", h.Health).Methods(http.MethodGet)
	r.HandleFunc("/tables", h.TablesHandler).Methods(http.MethodGet)

	blog := "/api/blognews"
	collection(r, blog, h.ListStories(repository.BlogNews), http.MethodGet)
	collection(r, blog, h.CreateStory(repository.BlogNews), http.MethodPost)
	r.HandleFunc(blog+storyPath, h.GetStory(repository.BlogNews)).Methods(http.MethodGet)
	r.HandleFunc(blog+storyPath, h.UpdateStory(repository.BlogNews)).Methods(http.MethodPatch)
	r.HandleFunc(blog+storyPath, h.DeleteStory(repository.BlogNews)).Methods(http.MethodDelete)
	h.commentRoutes(r, blog, repository.BlogNews)

	// mirrored feeds are read only at the story level
	for _, feed := range []repository.Feed{repository.TopStories, repository.NewStories} {
		prefix := "/api/hackernews/" + feed.Name
		collection(r, prefix, h.ListStories(feed), http.MethodGet)
		r.HandleFunc(prefix+storyPath, h.GetStory(feed)).Methods(http.MethodGet)
		h.commentRoutes(r, prefix, feed)
	}

	users := "/api/users"
	collection(r, users, h.ListUsers, http.MethodGet)
	collection(r, users, h.Register, http.MethodPost)
	r.HandleFunc(users+"/register", h.Register).Methods(http.MethodPost)
	r.HandleFunc(users+"/signin", h.SignIn).Methods(http.MethodPost)
	collection(r, users+"/{username}/stories", h.ListUserStories, http.MethodGet)
	r.HandleFunc(users+"/{username}/stories"+storyPath, h.GetUserStory).Methods(http.MethodGet)
	r.HandleFunc(users+"/{user_uuid}", h.GetUser).Methods(http.MethodGet)
	r.HandleFunc(users+"/{user_uuid}", h.UpdateUser).Methods(http.MethodPatch)
	r.HandleFunc(users+"/{user_uuid}", h.DeleteUser).Methods(http.MethodDelete)

	return r
}

func (h *Handlers) commentRoutes(r *mux.Router, prefix string, feed repository.Feed) {
	collection(r, prefix+commentPath, h.ListComments(feed), http.MethodGet)
	collection(r, prefix+commentPath, h.AddComment(feed), http.MethodPost)
	r.HandleFunc(prefix+commentItem, h.GetComment(feed)).Methods(http.MethodGet)
	r.HandleFunc(prefix+commentItem, h.UpdateComment(feed)).Methods(http.MethodPatch)
	r.HandleFunc(prefix+commentItem, h.DeleteComment(feed)).Methods(http.MethodDelete)
}
