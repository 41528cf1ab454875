package constants

const (
	// MaxProjectsPerUser caps how many projects a single owner may hold.
	MaxProjectsPerUser = 4

	ContextKeyUserID = "user_id"
	ContextKeyUser   = "user"
	ContextKeyClaims = "token_claims"

	BearerPrefix = "Bearer "
)
