package contract

import "context"

type ISettingRepository interface {
	// Get returns the value and whether the key exists.
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	// SetMany writes all pairs in a single transaction.
	SetMany(ctx context.Context, values map[string]string) error
	// Delete removes all given keys in a single transaction. Missing keys are
	// not an error.
	Delete(ctx context.Context, keys ...string) error
}
