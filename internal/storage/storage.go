// Package storage persists the small key/value state the client keeps between
// runs: the access token, the remembered email, the last wallet snapshot and
// the wallet requests still awaiting reconciliation.
package storage

import (
	"context"
	"errors"
)

// ErrNotFound indicates that no value is stored under the key.
var ErrNotFound = errors.New("key not found")

// Keys used by the client.
const (
	KeyAccessToken     = "accessToken"
	KeyRememberedEmail = "rememberedEmail"
	KeyWalletSnapshot  = "walletSnapshot"
	KeyWalletRequests  = "walletRequests"
)

// Store is persistent key/value storage.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Close() error
}
