package store

import (
	"context"

	"golang.org/x/sync/errgroup"

	"contesthub/pkg/domain"
)

// LoadSnapshot reads the five profile slots, each with an empty fallback.
// The reads are independent and run concurrently.
func LoadSnapshot(ctx context.Context, b Backend) domain.Snapshot {
	var snap domain.Snapshot
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		snap.Users = Load(gctx, b, KeyUsers, []domain.User{})
		return nil
	})
	g.Go(func() error {
		snap.Events = Load(gctx, b, KeyEvents, []domain.Event{})
		return nil
	})
	g.Go(func() error {
		snap.Groups = Load(gctx, b, KeyGroups, []domain.Group{})
		return nil
	})
	g.Go(func() error {
		snap.Applications = Load(gctx, b, KeyApplications, []domain.Application{})
		return nil
	})
	g.Go(func() error {
		snap.CurrentUserEmail = Load[*string](gctx, b, KeyCurrentUserEmail, nil)
		return nil
	})
	_ = g.Wait()
	return snap
}

// SaveSnapshot writes every slot of snap.
func SaveSnapshot(ctx context.Context, b Backend, snap domain.Snapshot) {
	Save(ctx, b, KeyUsers, snap.Users)
	Save(ctx, b, KeyEvents, snap.Events)
	Save(ctx, b, KeyGroups, snap.Groups)
	Save(ctx, b, KeyApplications, snap.Applications)
	Save(ctx, b, KeyCurrentUserEmail, snap.CurrentUserEmail)
}
