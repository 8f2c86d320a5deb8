package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/five82/linelist/internal/app"
	"github.com/five82/linelist/internal/linelist"
)

type globalFlags struct {
	configPath string
	prefsPath  string
	apiURL     string
	projectID  string
}

type commandContext struct {
	flags          *globalFlags
	refreshSeconds int
}

func newCommandContext(flags *globalFlags) *commandContext {
	return &commandContext{flags: flags}
}

func (c *commandContext) options() app.Options {
	opts := app.Options{
		ConfigPath: strings.TrimSpace(c.flags.configPath),
		PrefsPath:  strings.TrimSpace(c.flags.prefsPath),
		APIURL:     c.flags.apiURL,
		ProjectID:  c.flags.projectID,
	}
	if c.refreshSeconds > 0 {
		opts.RefreshEvery = time.Duration(c.refreshSeconds) * time.Second
	}
	return opts
}

func (c *commandContext) runTUI(cmd *cobra.Command) error {
	return app.Run(cmd.Context(), c.options())
}

// withSession opens a session whose notifications are printed to the
// command's output, runs fn, then shuts the process down. fn's error wins;
// otherwise any error notification fails the command.
func (c *commandContext) withSession(cmd *cobra.Command, fn func(context.Context, *app.Session) error) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	printer := newNoticePrinter(cmd.OutOrStdout(), cmd.ErrOrStderr())
	session, err := app.Open(ctx, c.options(), printer)
	if err != nil {
		return err
	}
	defer session.Close()

	runErr := fn(ctx, session)

	cancel()
	session.Process.Wait()

	if runErr != nil {
		return runErr
	}
	if n := printer.errorCount(); n > 0 {
		return fmt.Errorf("%d operation(s) failed", n)
	}
	return nil
}

// noticePrinter writes process notifications as status lines.
type noticePrinter struct {
	mu       sync.Mutex
	out      io.Writer
	errOut   io.Writer
	colorOut bool
	colorErr bool
	errors   int
}

func newNoticePrinter(out, errOut io.Writer) *noticePrinter {
	return &noticePrinter{
		out:      out,
		errOut:   errOut,
		colorOut: shouldColorize(out),
		colorErr: shouldColorize(errOut),
	}
}

func (p *noticePrinter) Notify(n linelist.Notification) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if n.Level == linelist.LevelError {
		p.errors++
		fmt.Fprintln(p.errOut, renderNotice(n, p.colorErr))
		return
	}
	fmt.Fprintln(p.out, renderNotice(n, p.colorOut))
}

func (p *noticePrinter) errorCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.errors
}
