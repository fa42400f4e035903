package common

// AuthorizationHeader carries "Bearer <jwt>" on every /api request.
const (
	AuthorizationHeader = "Authorization"
	BearerPrefix        = "Bearer "
)
