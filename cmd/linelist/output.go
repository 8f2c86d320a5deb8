package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/five82/linelist/internal/linelist"
)

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiBlue   = "\x1b[34m"
	ansiYellow = "\x1b[33m"
)

func renderNotice(n linelist.Notification, colorize bool) string {
	line := fmt.Sprintf("[%s] %s", noticeLabel(n.Level), n.Text)
	if colorize {
		return noticeColor(n.Level) + line + ansiReset
	}
	return line
}

func noticeLabel(level linelist.Level) string {
	switch level {
	case linelist.LevelSuccess:
		return "OK"
	case linelist.LevelError:
		return "ERROR"
	default:
		return "INFO"
	}
}

func noticeColor(level linelist.Level) string {
	switch level {
	case linelist.LevelSuccess:
		return ansiGreen
	case linelist.LevelError:
		return ansiRed
	default:
		return ansiBlue
	}
}

func warn(w io.Writer, msg string) {
	if shouldColorize(w) {
		fmt.Fprintln(w, ansiYellow+"[WARN] "+msg+ansiReset)
		return
	}
	fmt.Fprintln(w, "[WARN] "+msg)
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// writeJSON encodes v as indented JSON to the command's stdout.
func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
