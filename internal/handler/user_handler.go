package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"newsAggregator/internal/database"
	"newsAggregator/internal/models"
	"newsAggregator/internal/repository"
	"newsAggregator/internal/validation"
)

type RegisterResponse struct {
	Message  string `json:"message"`
	Username string `json:"username"`
	UserUUID string `json:"user_uuid"`
	Origin   string `json:"origin"`
}

type SignInResponse struct {
	Message  string `json:"message"`
	UserUUID string `json:"user_uuid"`
	Username string `json:"username"`
	Origin   string `json:"origin"`
}

func (h *Handlers) ListUsers(w http.ResponseWriter, r *http.Request) {
	h.withSession(w, r, database.Users, func(db repository.Executor) error {
		users, err := h.Services.Users(db).List(r.Context())
		if err != nil {
			return err
		}
		writeSuccess(w, users, http.StatusOK)
		return nil
	})
}

func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := decodeBody(r, validation.Register, &req); err != nil {
		fail(w, r, err)
		return
	}

	h.withSession(w, r, database.Users, func(db repository.Executor) error {
		user, err := h.Services.Users(db).Register(r.Context(), req)
		if err != nil {
			return err
		}

		writeSuccess(w, RegisterResponse{
			Message:  "Registration succesfull " + user.Username,
			Username: user.Username,
			UserUUID: user.UserUUID,
			Origin:   user.Origin,
		}, http.StatusCreated)
		return nil
	})
}

func (h *Handlers) SignIn(w http.ResponseWriter, r *http.Request) {
	var req models.SignInRequest
	if err := decodeBody(r, validation.SignIn, &req); err != nil {
		fail(w, r, err)
		return
	}

	h.withSession(w, r, database.Users, func(db repository.Executor) error {
		user, err := h.Services.Users(db).SignIn(r.Context(), req)
		if err != nil {
			return err
		}

		// the username match wins, so any other match came from the email
		matched := user.Username
		if user.Username != req.Username {
			matched = user.EmailAddress
		}

		writeSuccess(w, SignInResponse{
			Message:  "Login succesfull " + matched,
			UserUUID: user.UserUUID,
			Username: user.Username,
			Origin:   user.Origin,
		}, http.StatusOK)
		return nil
	})
}

func (h *Handlers) GetUser(w http.ResponseWriter, r *http.Request) {
	userUUID := mux.Vars(r)["user_uuid"]

	h.withSession(w, r, database.Users, func(db repository.Executor) error {
		user, err := h.Services.Users(db).Get(r.Context(), userUUID)
		if err != nil {
			return err
		}
		writeSuccess(w, user, http.StatusOK)
		return nil
	})
}

func (h *Handlers) UpdateUser(w http.ResponseWriter, r *http.Request) {
	userUUID := mux.Vars(r)["user_uuid"]

	var req models.UpdatePasswordRequest
	if err := decodeBody(r, validation.UpdatePassword, &req); err != nil {
		fail(w, r, err)
		return
	}

	h.withSession(w, r, database.Users, func(db repository.Executor) error {
		if err := h.Services.Users(db).UpdatePassword(r.Context(), userUUID, req.Password); err != nil {
			return err
		}
		writeMessage(w, "User credentials succesfully updated", http.StatusOK)
		return nil
	})
}

func (h *Handlers) DeleteUser(w http.ResponseWriter, r *http.Request) {
	userUUID := mux.Vars(r)["user_uuid"]

	h.withSession(w, r, database.Users, func(db repository.Executor) error {
		if err := h.Services.Users(db).Delete(r.Context(), userUUID); err != nil {
			return err
		}
		writeMessage(w, "User deleted", http.StatusOK)
		return nil
	})
}

// username validates the {username} path variable.
func username(r *http.Request) (string, error) {
	name := mux.Vars(r)["username"]
	if _, err := validation.Username.Validate(map[string]any{"username": name}); err != nil {
		return "", err
	}
	return name, nil
}

// ListUserStories pages over the blog stories written by {username}.
func (h *Handlers) ListUserStories(w http.ResponseWriter, r *http.Request) {
	page, err := pageNumber(r)
	if err != nil {
		fail(w, r, err)
		return
	}
	if page <= 0 {
		WriteError(w, MsgPageNotPositive, http.StatusBadRequest)
		return
	}

	author, err := username(r)
	if err != nil {
		fail(w, r, err)
		return
	}

	h.withSession(w, r, repository.BlogNews.Domain, func(db repository.Executor) error {
		result, err := h.Services.Content(db, repository.BlogNews).ListStoriesBy(r.Context(), author, page)
		if err != nil {
			return err
		}
		writeSuccess(w, result, http.StatusOK)
		return nil
	})
}

func (h *Handlers) GetUserStory(w http.ResponseWriter, r *http.Request) {
	author, err := username(r)
	if err != nil {
		fail(w, r, err)
		return
	}

	storyID, err := pathID(r, "story_id")
	if err != nil {
		fail(w, r, err)
		return
	}

	h.withSession(w, r, repository.BlogNews.Domain, func(db repository.Executor) error {
		story, err := h.Services.Content(db, repository.BlogNews).GetStoryBy(r.Context(), author, storyID)
		if err != nil {
			return err
		}
		writeSuccess(w, story, http.StatusOK)
		return nil
	})
}
