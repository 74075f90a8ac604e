// Package history keeps a log of tag page generations.
package history

import (
	"context"
	"time"
)

// Generation is one run of the tag page generator.
type Generation struct {
	ID        int64
	BuildID   string
	Pass      int
	Phase     string // Hook that produced the page
	Records   int
	Groups    int
	Hash      string
	Changed   bool // Content differed from the previous page
	Timestamp time.Time
}

// Store persists generations.
type Store interface {
	Append(ctx context.Context, g *Generation) error
	List(ctx context.Context, limit int) ([]*Generation, error)
	ListByBuild(ctx context.Context, buildID string) ([]*Generation, error)
	Close() error
}
