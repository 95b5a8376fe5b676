package errors

import (
	"strings"

	"github.com/fatih/color"
)

// DiagnosticPrefix distinguishes failure output from normal output.
const DiagnosticPrefix = "Template init failed"

var (
	// Color functions with auto-detection for terminal support.
	// These fall back gracefully when colors are unavailable.
	errorLabel  = color.New(color.FgRed, color.Bold).SprintFunc()
	errorMsg    = color.New(color.FgRed).SprintFunc()
	categoryFmt = color.New(color.FgYellow).SprintFunc()
)

// FormatError formats a CLIError as a single diagnostic line.
// It uses colors when available and falls back to plain text otherwise.
func FormatError(err *CLIError) string {
	if err == nil {
		return ""
	}
	return formatError(err, !color.NoColor)
}

// FormatErrorPlain formats a CLIError without colors.
func FormatErrorPlain(err *CLIError) string {
	if err == nil {
		return ""
	}
	return formatError(err, false)
}

func formatError(err *CLIError, useColors bool) string {
	var sb strings.Builder

	// Messages may wrap multi-line causes; the diagnostic stays on one line.
	message := strings.Join(strings.Fields(err.Message), " ")

	if useColors {
		sb.WriteString(errorLabel(DiagnosticPrefix))
		sb.WriteString(" [")
		sb.WriteString(categoryFmt(err.Category.String()))
		sb.WriteString("]: ")
		sb.WriteString(errorMsg(message))
	} else {
		sb.WriteString(DiagnosticPrefix)
		sb.WriteString(" [")
		sb.WriteString(err.Category.String())
		sb.WriteString("]: ")
		sb.WriteString(message)
	}
	sb.WriteString("\n")

	return sb.String()
}
