// Package flagstore records review flags for content that matched a
// warn-severity policy rule. Warn matches never block publication; they are
// retained here, keyed by content hash, for human review.
package flagstore

import (
	"context"
)

type FlagStore interface {
	Get(ctx context.Context, contentHash string) ([]string, error)
	Add(ctx context.Context, contentHash string, flags []string) error
	Remove(ctx context.Context, contentHash string, flags []string) error
}
