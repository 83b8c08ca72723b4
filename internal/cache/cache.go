// Package cache stores encoded simulation results keyed by the configuration
// that produced them.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/iwvelando/mortgage-sim/pkg/constants"
)

// Repository is a byte store with per-entry expiry.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Key derives a cache key from any JSON-encodable input and a variant name
// such as "baseline" or "compare".
func Key(input interface{}, variant string) (string, error) {
	data, err := json.Marshal(input)
	if err != nil {
		return "", fmt.Errorf("failed to encode cache key input: %w", err)
	}
	h := xxhash.New()
	_, _ = h.Write(data)
	_, _ = h.WriteString("|" + variant)
	return fmt.Sprintf("%s%016x", constants.CacheKeyPrefix, h.Sum64()), nil
}
