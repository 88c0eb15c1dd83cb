// Package ui provides the colored output of the wcdb command line tools.
//
// Colors follow the NO_COLOR environment variable and are disabled when
// the output is not a terminal. InitColors turns them off explicitly.
package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// Color instances shared by the commands.
var (
	// Red is used for errors.
	Red = color.New(color.FgRed)
	// Yellow is used for warnings.
	Yellow = color.New(color.FgYellow)
	// Green is used for completed operations.
	Green = color.New(color.FgGreen)
	// Cyan is used for counts and neutral information.
	Cyan = color.New(color.FgCyan)
	// Bold is used for headers and labels.
	Bold = color.New(color.Bold)
	// Dim is used for paths and SQL.
	Dim = color.New(color.Faint)
)

// InitColors disables colored output when noColor is set.
func InitColors(noColor bool) {
	if noColor {
		color.NoColor = true
	}
}

// Successf prints a green message prefixed with a check mark.
func Successf(w io.Writer, format string, args ...any) {
	_, _ = Green.Fprintf(w, "✓ "+format+"\n", args...)
}

// Warningf prints a yellow message prefixed with a warning sign.
func Warningf(w io.Writer, format string, args ...any) {
	_, _ = Yellow.Fprintf(w, "⚠ "+format+"\n", args...)
}

// Errorf prints a red message prefixed with a cross.
func Errorf(w io.Writer, format string, args ...any) {
	_, _ = Red.Fprintf(w, "✗ "+format+"\n", args...)
}

// Infof prints a cyan informational message.
func Infof(w io.Writer, format string, args ...any) {
	_, _ = Cyan.Fprintf(w, "ℹ "+format+"\n", args...)
}

// Header prints a bold header underlined with '='.
func Header(w io.Writer, text string) {
	_, _ = Bold.Fprintln(w, text)
	_, _ = fmt.Fprintln(w, strings.Repeat("=", len(text)))
}

// Label returns text in bold.
func Label(text string) string {
	return Bold.Sprint(text)
}

// DimText returns text dimmed.
func DimText(text string) string {
	return Dim.Sprint(text)
}

// CountText returns a count in cyan.
func CountText(count int) string {
	return Cyan.Sprint(count)
}
