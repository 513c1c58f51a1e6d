package service

import "fmt"

// NotFoundError is a missing story, comment, user or page. Rendered as 404.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string {
	return e.Message
}

// ConflictError is a username or email that is already taken.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

// CredentialsError is a failed sign-in.
type CredentialsError struct {
	Message string
}

func (e *CredentialsError) Error() string {
	return e.Message
}

// RetryExhaustedError means every generated user_uuid collided.
type RetryExhaustedError struct {
	Attempts int
}

func (e *RetryExhaustedError) Error() string {
	return fmt.Sprintf("user_uuid still colliding after %d attempts", e.Attempts)
}

const (
	MsgStoryNotFound       = "Story not found"
	MsgCommentNotFound     = "Comment not found"
	MsgPageNotFound        = "Pagination page not found"
	MsgAuthorStoriesEmpty  = "stories not found"
	MsgAuthorStoryNotFound = "story not found"
	MsgUsersNotFound       = "users not found"
	MsgUserNotFound        = "user not found"

	MsgUsernameTaken = "User with this username already exist"
	MsgEmailTaken    = "User with this email already exist"

	MsgWrongUsernamePassword = "Username or password Incorect!"
	MsgWrongEmailPassword    = "Email address or password Incorect!"
	MsgUnknownCredentials    = "Username or Email address not found."
)

// emptyFeedMessages is the 404 message of an empty collection, by feed name.
var emptyFeedMessages = map[string]string{
	"blognews":   "No blog stories found",
	"topstories": "No hackernews topstories found",
	"newstories": "No hackernews newstories found",
}
