package domain

import "errors"

// MaxReplyLength is the character limit the backend enforces on mumble text.
const MaxReplyLength = 240

var (
	// ErrUnauthorized indicates missing or invalid credentials.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrNotFound indicates the requested mumble or user does not exist.
	ErrNotFound = errors.New("not found")

	// ErrNoSession indicates an action that needs a signed-in user was attempted without one.
	ErrNoSession = errors.New("no session")

	// ErrEmptyPost indicates the user submitted an empty post.
	ErrEmptyPost = errors.New("post cannot be empty")

	// ErrEmptyReply indicates the user submitted an empty reply.
	ErrEmptyReply = errors.New("reply cannot be empty")

	// ErrReplyTooLong indicates the reply exceeds the character limit.
	ErrReplyTooLong = errors.New("reply exceeds character limit")

	// ErrUnknownKind indicates a mumble kind outside post and reply.
	ErrUnknownKind = errors.New("unknown mumble kind")
)
