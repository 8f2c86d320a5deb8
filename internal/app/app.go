package app

import (
	"context"

	"github.com/five82/linelist/internal/linelist"
	"github.com/five82/linelist/internal/ui"
)

const notificationBuffer = 32

// Run boots the linelist TUI until the user quits or the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	notes := linelist.NewNotificationQueue(notificationBuffer)
	session, err := Open(ctx, opts, notes)
	if err != nil {
		return err
	}
	defer session.Close()

	if err := session.Process.Dispatch(ctx, linelist.Started{}); err != nil {
		return err
	}
	if every := session.Config.RefreshEvery; every > 0 {
		StartRefresher(ctx, session.Process, session.Store, every)
	}

	err = ui.Run(ui.Options{
		Context:       ctx,
		Dispatcher:    session.Process,
		Store:         session.Store,
		Projects:      session.Client,
		Notifications: notes.C(),
		LogPath:       session.Config.LogPath(),
		ThemeName:     session.Prefs.Theme,
		Prefs:         session.Prefs,
		PrefsPath:     session.PrefsPath,
	})

	cancel()
	session.Process.Wait()
	session.Logger.Info("linelist session closed")
	return err
}
