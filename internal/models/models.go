package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

const (
	TypeStory   = "story"
	TypeComment = "comment"
)

// Item holds the columns shared by stories and comments in every feed.
type Item struct {
	ID          int64   `json:"id,string" db:"id"`
	Deleted     *bool   `json:"deleted" db:"deleted"`
	Type        *string `json:"type" db:"type"`
	By          *string `json:"by" db:"by"`
	Time        int64   `json:"time" db:"time"`
	Text        *string `json:"text" db:"text"`
	Dead        *bool   `json:"dead" db:"dead"`
	Parent      *int64  `json:"parent" db:"parent"`
	Poll        *int64  `json:"poll" db:"poll"`
	Kids        IntList `json:"kids" db:"kids"`
	URL         *string `json:"url" db:"url"`
	Score       *int64  `json:"score" db:"score"`
	Title       *string `json:"title" db:"title"`
	Parts       IntList `json:"parts" db:"parts"`
	Descendants *int64  `json:"descendants" db:"descendants"`
	Origin      *string `json:"origin" db:"origin"`
}

type Story struct {
	Item
	Comments []Comment `json:"comments" db:"-"`
}

type Comment struct {
	Item
}

type User struct {
	ID           int64  `json:"id,string" db:"id"`
	Username     string `json:"username" db:"username"`
	PasswordHash string `json:"-" db:"password"`
	UserUUID     string `json:"user_uuid" db:"user_uuid"`
	EmailAddress string `json:"email_address" db:"email_address"`
	IsActivated  bool   `json:"is_activated" db:"is_activated"`
	Origin       string `json:"origin" db:"origin"`
}

type CreateStoryRequest struct {
	By    string `json:"by"`
	Text  string `json:"text"`
	URL   string `json:"url"`
	Title string `json:"title"`
}

type UpdateStoryRequest struct {
	Text  string `json:"text"`
	URL   string `json:"url"`
	Title string `json:"title"`
}

type CreateCommentRequest struct {
	By   string `json:"by"`
	Text string `json:"text"`
}

type UpdateCommentRequest struct {
	By   string `json:"by"`
	Text string `json:"text"`
}

type RegisterRequest struct {
	Username     string `json:"username"`
	Password     string `json:"password"`
	EmailAddress string `json:"email_address"`
}

type SignInRequest struct {
	Username     string `json:"username"`
	Password     string `json:"password"`
	EmailAddress string `json:"email_address"`
}

type UpdatePasswordRequest struct {
	Password string `json:"password"`
}

// IntList is a list of item ids stored as JSON text. A nil list is NULL.
type IntList []int64

func (l IntList) Value() (driver.Value, error) {
	if l == nil {
		return nil, nil
	}
	b, err := json.Marshal([]int64(l))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (l *IntList) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*l = nil
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("IntList: unsupported type %T", src)
	}

	var ids []int64
	if err := json.Unmarshal(raw, &ids); err != nil {
		return fmt.Errorf("IntList: %w", err)
	}
	if ids == nil {
		ids = []int64{}
	}
	*l = ids
	return nil
}

func Ptr[T any](v T) *T {
	return &v
}
