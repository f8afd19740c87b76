package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// KeyPrefix namespaces every cache key in Redis.
const KeyPrefix = "rmp:gql"

// CacheKey identifies a cached GraphQL response.
type CacheKey struct {
	// Operation is the GraphQL operation name (e.g. "AutocompleteSearchQuery").
	Operation string

	// Body is the encoded request body: query document plus variables.
	Body []byte
}

// String generates a deterministic cache key string.
// Format: rmp:gql:<operation>:<sha256(body)>
//
// Example:
//
//	rmp:gql:AutocompleteSearchQuery:3f1c...e09a
func (k CacheKey) String() string {
	sum := sha256.Sum256(k.Body)

	operation := strings.TrimSpace(k.Operation)
	if operation == "" {
		operation = "anonymous"
	}

	return strings.Join([]string{KeyPrefix, operation, hex.EncodeToString(sum[:])}, ":")
}
