package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

type statusKind int

const (
	statusInfo statusKind = iota
	statusOK
	statusWarn
	statusError
)

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiCyan   = "\x1b[36m"
)

const (
	labelWidth = 16
	indent     = "  "
)

var statusLabels = map[statusKind]string{
	statusInfo:  "INFO",
	statusOK:    "OK",
	statusWarn:  "WARN",
	statusError: "ERROR",
}

var statusColors = map[statusKind]string{
	statusInfo:  ansiCyan,
	statusOK:    ansiGreen,
	statusWarn:  ansiYellow,
	statusError: ansiRed,
}

func renderStatusLine(label string, kind statusKind, message string, colorize bool) string {
	badge := "[" + statusLabels[kind] + "]"
	if colorize {
		badge = statusColors[kind] + badge + ansiReset
	}
	if message != "" {
		badge += " " + message
	}
	return renderField(label, badge)
}

// renderField prints an aligned "label: value" line.
func renderField(label, value string) string {
	return fmt.Sprintf("%s%-*s %s", indent, labelWidth, label+":", value)
}

func renderSectionHeader(title string, colorize bool) []string {
	line := strings.TrimSpace(title)
	rule := strings.Repeat("─", len([]rune(line)))
	if colorize {
		line = ansiCyan + line + ansiReset
	}
	return []string{line, rule}
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
