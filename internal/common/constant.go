// Package common contains shared constants and sentinel errors used across
// letterpress components.
package common

const (
	// AuthorizationHeaderName carries the bearer token on outbound requests.
	AuthorizationHeaderName = "Authorization"

	// RequestIDHeaderName correlates client log lines with server requests.
	RequestIDHeaderName = "X-Request-ID"

	// BlankVersionID is the reserved version identifier meaning
	// "start a new, empty document". It never touches cache or network.
	BlankVersionID = "0"

	// CacheKeyPrefix prefixes every cached "latest version of a project" entry.
	// The full key is CacheKeyPrefix + projectID.
	CacheKeyPrefix = "project_latest_"

	// DefaultProjectName is used when a record or a save carries no name.
	DefaultProjectName = "Untitled Newsletter"
)

// CacheKey returns the cache key for the latest version of projectID.
func CacheKey(projectID string) string {
	return CacheKeyPrefix + projectID
}
