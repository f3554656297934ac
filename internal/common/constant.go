package common

// CacheKeyPrefix namespaces cache rows so they cannot collide with other
// key/value data stored in the same database.
const CacheKeyPrefix = "cache_"

// TokenMetadataKey is the metadata key under which the bearer access token
// is persisted between runs.
const TokenMetadataKey = "access_token"

// UsernameMetadataKey is the metadata key holding the last logged-in user.
const UsernameMetadataKey = "username"
