package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

// SetOutput redirects OK/Panel and Fail, mostly for tests.
func SetOutput(out, errOut io.Writer) {
	stdout, stderr = out, errOut
}

func OK(msg string) {
	t := Current()
	fmt.Fprintln(stdout, t.Success.Render(t.SymOK+" "+msg))
}

func Fail(msg string) {
	t := Current()
	fmt.Fprintln(stderr, t.Error.Render(t.SymFail+" "+msg))
}

// Hint prints a muted line to stderr.
func Hint(msg string) {
	fmt.Fprintln(stderr, Current().Muted.Render(msg))
}

// Box frames content with the current theme's border.
func Box(content string) string {
	t := Current()
	return lipgloss.NewStyle().
		Border(t.Border).
		BorderForeground(t.Frame).
		Padding(0, 1).
		Render(content)
}

// Panel prints lines in a framed box.
func Panel(lines []string) {
	fmt.Fprintln(stdout, Box(strings.Join(lines, "\n")))
}

// PageBar renders "page/total" as a bar, e.g. "███░░░░░ 3/8".
func PageBar(page, total, width int) string {
	if total <= 0 {
		total = 1
	}
	if page < 0 {
		page = 0
	}
	if width < 5 {
		width = 5
	}
	filled := int(float64(page) / float64(total) * float64(width))
	if filled > width {
		filled = width
	}
	t := Current()
	bar := strings.Repeat(t.SymBarFilled, filled) + strings.Repeat(t.SymBarEmpty, width-filled)
	return fmt.Sprintf("%s %d/%d", bar, page, total)
}
