// Package workgroup runs related workers under a shared context.
package workgroup

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Group collects worker functions and runs them to completion, surfacing
// the first error encountered.
type Group struct {
	ctx   context.Context
	group errgroup.Group
}

// WithContext creates a Group whose workers receive the provided context.
func WithContext(ctx context.Context) *Group {
	return &Group{ctx: ctx}
}

// Work schedules fn to run with the group's context.
func (g *Group) Work(fn func(context.Context) error) {
	g.group.Go(func() error {
		return fn(g.ctx)
	})
}

// Wait blocks until all scheduled workers have returned.
func (g *Group) Wait() error {
	return g.group.Wait()
}
