// Package repositories implements SQLite persistence for the client's durable state.
//
// The client keeps very little on disk: a single key/value table holds the session token
// and nothing else survives a restart. Drafts, cached users, and dashboard data are memory-only.
//
// Key Implementations:
//   - [KVRepository] : string values by key over the kv_store table
//   - [TokenStore] : the durable session token, stored under [TokenKey]
package repositories
