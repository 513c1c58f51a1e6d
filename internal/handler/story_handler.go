package handlers

import (
	"net/http"

	"newsAggregator/internal/models"
	"newsAggregator/internal/repository"
	"newsAggregator/internal/validation"
)

func (h *Handlers) ListStories(feed repository.Feed) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := pageNumber(r)
		if err != nil {
			fail(w, r, err)
			return
		}
		if page <= 0 {
			WriteError(w, MsgPageNotPositive, http.StatusBadRequest)
			return
		}

		h.withSession(w, r, feed.Domain, func(db repository.Executor) error {
			result, err := h.Services.Content(db, feed).ListStories(r.Context(), page)
			if err != nil {
				return err
			}
			writeSuccess(w, result, http.StatusOK)
			return nil
		})
	}
}

func (h *Handlers) CreateStory(feed repository.Feed) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.CreateStoryRequest
		if err := decodeBody(r, validation.CreateStory, &req); err != nil {
			fail(w, r, err)
			return
		}

		h.withSession(w, r, feed.Domain, func(db repository.Executor) error {
			if _, err := h.Services.Content(db, feed).CreateStory(r.Context(), req); err != nil {
				return err
			}
			writeMessage(w, "Story added", http.StatusCreated)
			return nil
		})
	}
}

func (h *Handlers) GetStory(feed repository.Feed) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		storyID, err := pathID(r, "story_id")
		if err != nil {
			fail(w, r, err)
			return
		}

		h.withSession(w, r, feed.Domain, func(db repository.Executor) error {
			story, err := h.Services.Content(db, feed).GetStory(r.Context(), storyID)
			if err != nil {
				return err
			}
			writeSuccess(w, story, http.StatusOK)
			return nil
		})
	}
}

func (h *Handlers) UpdateStory(feed repository.Feed) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		storyID, err := pathID(r, "story_id")
		if err != nil {
			fail(w, r, err)
			return
		}

		var req models.UpdateStoryRequest
		if err := decodeBody(r, validation.UpdateStory, &req); err != nil {
			fail(w, r, err)
			return
		}

		h.withSession(w, r, feed.Domain, func(db repository.Executor) error {
			if err := h.Services.Content(db, feed).UpdateStory(r.Context(), storyID, req); err != nil {
				return err
			}
			writeMessage(w, "Story succesfully updated", http.StatusOK)
			return nil
		})
	}
}

func (h *Handlers) DeleteStory(feed repository.Feed) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		storyID, err := pathID(r, "story_id")
		if err != nil {
			fail(w, r, err)
			return
		}

		h.withSession(w, r, feed.Domain, func(db repository.Executor) error {
			if err := h.Services.Content(db, feed).DeleteStory(r.Context(), storyID); err != nil {
				return err
			}
			writeMessage(w, "Story deleted", http.StatusOK)
			return nil
		})
	}
}
