package handlers

import (
	"net/http"

	"newsAggregator/internal/models"
	"newsAggregator/internal/repository"
	"newsAggregator/internal/validation"
)

// commentIDs reads the story id and, when withComment is set, the comment id.
func commentIDs(r *http.Request, withComment bool) (storyID, commentID int64, err error) {
	storyID, err = pathID(r, "story_id")
	if err != nil || !withComment {
		return storyID, 0, err
	}
	commentID, err = pathID(r, "comment_id")
	return storyID, commentID, err
}

func (h *Handlers) ListComments(feed repository.Feed) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		storyID, _, err := commentIDs(r, false)
		if err != nil {
			fail(w, r, err)
			return
		}

		h.withSession(w, r, feed.Domain, func(db repository.Executor) error {
			comments, err := h.Services.Content(db, feed).ListComments(r.Context(), storyID)
			if err != nil {
				return err
			}
			writeSuccess(w, comments, http.StatusOK)
			return nil
		})
	}
}

func (h *Handlers) AddComment(feed repository.Feed) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		storyID, _, err := commentIDs(r, false)
		if err != nil {
			fail(w, r, err)
			return
		}

		var req models.CreateCommentRequest
		if err := decodeBody(r, validation.CreateComment, &req); err != nil {
			fail(w, r, err)
			return
		}

		h.withSession(w, r, feed.Domain, func(db repository.Executor) error {
			if _, err := h.Services.Content(db, feed).AddComment(r.Context(), storyID, req); err != nil {
				return err
			}
			writeMessage(w, "Comment added", http.StatusCreated)
			return nil
		})
	}
}

func (h *Handlers) GetComment(feed repository.Feed) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		storyID, commentID, err := commentIDs(r, true)
		if err != nil {
			fail(w, r, err)
			return
		}

		h.withSession(w, r, feed.Domain, func(db repository.Executor) error {
			comment, err := h.Services.Content(db, feed).GetComment(r.Context(), storyID, commentID)
			if err != nil {
				return err
			}
			writeSuccess(w, comment, http.StatusOK)
			return nil
		})
	}
}

func (h *Handlers) UpdateComment(feed repository.Feed) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		storyID, commentID, err := commentIDs(r, true)
		if err != nil {
			fail(w, r, err)
			return
		}

		var req models.UpdateCommentRequest
		if err := decodeBody(r, validation.UpdateComment, &req); err != nil {
			fail(w, r, err)
			return
		}

		h.withSession(w, r, feed.Domain, func(db repository.Executor) error {
			if err := h.Services.Content(db, feed).UpdateComment(r.Context(), storyID, commentID, req); err != nil {
				return err
			}
			writeMessage(w, "Comment updated", http.StatusOK)
			return nil
		})
	}
}

func (h *Handlers) DeleteComment(feed repository.Feed) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		storyID, commentID, err := commentIDs(r, true)
		if err != nil {
			fail(w, r, err)
			return
		}

		h.withSession(w, r, feed.Domain, func(db repository.Executor) error {
			if err := h.Services.Content(db, feed).DeleteComment(r.Context(), storyID, commentID); err != nil {
				return err
			}
			writeMessage(w, "Comment deleted", http.StatusOK)
			return nil
		})
	}
}
