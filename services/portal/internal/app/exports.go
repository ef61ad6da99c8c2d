package app

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"contesthub/internal/util"
	"contesthub/pkg/csvexport"
	"contesthub/pkg/matching"
)

func (a *App) ExportUsers() (csvexport.File, error) {
	return csvexport.Users(a.snap.Users)
}

func (a *App) ExportEvents() (csvexport.File, error) {
	return csvexport.Events(a.snap.Events)
}

func (a *App) ExportApplications() (csvexport.File, error) {
	return csvexport.Applications(a.snap.Applications)
}

// ExportMyDetails exports the session user's own record.
func (a *App) ExportMyDetails(s Session) (csvexport.File, error) {
	return csvexport.MyDetails(a.CurrentUser(s))
}

// ExportFiltered exports the events currently visible under v.
func (a *App) ExportFiltered(v matching.View) (csvexport.File, error) {
	return csvexport.FilteredEvents(a.Discover(v))
}

// Deliver hands an export to the configured sink and returns where it can be
// fetched: a file path for local exports, a presigned URL for object storage.
func (a *App) Deliver(ctx context.Context, f csvexport.File) (string, error) {
	if a.exports == nil {
		return "", errors.New("export sink not configured")
	}
	if err := a.exports.Put(ctx, f.Name, bytes.NewReader(f.Content), int64(len(f.Content)), csvexport.ContentType); err != nil {
		return "", fmt.Errorf("deliver %s: %w", f.Name, err)
	}
	loc, err := a.exports.Locate(ctx, f.Name, a.linkExpiry)
	if err != nil {
		return "", fmt.Errorf("locate %s: %w", f.Name, err)
	}
	util.LoggerFromContext(ctx).Info("export delivered", "file", f.Name, "bytes", len(f.Content))
	return loc, nil
}
