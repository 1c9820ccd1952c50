package constants

import "time"

const (
	// ContextKeyUserID holds the authenticated user's ID in the gin context.
	ContextKeyUserID = "user_id"
	// ContextKeyUserEmail holds the authenticated user's email.
	ContextKeyUserEmail = "user_email"
	// ContextKeyAccessToken holds the bearer token the request was authenticated with.
	ContextKeyAccessToken = "access_token"

	// SessionCookieName is the cookie carrying the server-side session.
	SessionCookieName = "note_session"
	// SessionKeyAccessToken stores the access token inside the session.
	SessionKeyAccessToken = "access_token"
)

const (
	MinPasswordLength = 6

	MinTitleLength = 3
	MaxTitleLength = 500

	MaxLabelNameLength = 50

	DefaultProfileName = "User"
)

const (
	DefaultTokenTTL = 7 * 24 * time.Hour
	SessionMaxAge   = 86400 * 7
)
