package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// Level classifies a panel.
type Level int

const (
	LevelNotice Level = iota
	LevelWarning
	LevelSuccess
	LevelError
)

// Panels writes boxed messages for the operator.
type Panels struct {
	out    io.Writer
	styled bool
}

// NewPanels writes to out, styling only when out is a terminal.
func NewPanels(out io.Writer) *Panels {
	return &Panels{out: out, styled: IsTerminal(out)}
}

// NewPlainPanels never styles its output.
func NewPlainPanels(out io.Writer) *Panels {
	return &Panels{out: out}
}

// IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Notice shows informational text, such as an elevation reminder.
func (p *Panels) Notice(msg string) { p.Panel(LevelNotice, msg) }

// Warning shows a condition that does not stop the run.
func (p *Panels) Warning(msg string) { p.Panel(LevelWarning, msg) }

// Success shows a completed outcome.
func (p *Panels) Success(msg string) { p.Panel(LevelSuccess, msg) }

// Error shows a failure and the suggested next command, if any.
func (p *Panels) Error(msg string) { p.Panel(LevelError, msg) }

// Panel writes msg in a box colored by level. The first line is the title.
func (p *Panels) Panel(level Level, msg string) {
	msg = strings.TrimRight(msg, "\n")
	if !p.styled {
		_, _ = fmt.Fprintf(p.out, "%s %s\n", plainPrefix(level), msg)
		return
	}

	title, body, _ := strings.Cut(msg, "\n")
	content := levelStyle(level).Bold(true).Render(title)
	if body != "" {
		content += "\n" + body
	}
	_, _ = fmt.Fprintln(p.out, panelStyle.BorderForeground(levelColor(level)).Render(content))
}

// Section writes a heading.
func (p *Panels) Section(title string) {
	if !p.styled {
		_, _ = fmt.Fprintf(p.out, "\n== %s ==\n", title)
		return
	}
	_, _ = fmt.Fprintln(p.out, sectionStyle.Render(title))
}

// Line writes plain text.
func (p *Panels) Line(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(p.out, format+"\n", args...)
}

// Check is one row of a checklist.
type Check struct {
	Name   string
	OK     bool
	Warn   bool
	Detail string
}

// Checklist writes one marked row per check.
func (p *Panels) Checklist(checks []Check) {
	for _, c := range checks {
		mark, style := checkMark, readyStyle
		switch {
		case !c.OK && c.Warn:
			mark, style = warnMark, warningStyle
		case !c.OK:
			mark, style = crossMark, failedStyle
		}
		if p.styled {
			mark = style.Render(mark)
		}

		line := fmt.Sprintf("%s %s", mark, c.Name)
		if c.Detail != "" {
			detail := c.Detail
			if p.styled {
				detail = dimStyle.Render(detail)
			}
			line += "  " + detail
		}
		_, _ = fmt.Fprintln(p.out, line)
	}
}

// Title writes a bold title line.
func (p *Panels) Title(title string) {
	if p.styled {
		title = titleStyle.Render(title)
	}
	_, _ = fmt.Fprintln(p.out, title)
}

func levelColor(level Level) lipgloss.Color {
	switch level {
	case LevelWarning:
		return colorYellow
	case LevelSuccess:
		return colorGreen
	case LevelError:
		return colorRed
	default:
		return colorBlue
	}
}

func levelStyle(level Level) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(levelColor(level))
}

func plainPrefix(level Level) string {
	switch level {
	case LevelWarning:
		return "WARNING:"
	case LevelSuccess:
		return "OK:"
	case LevelError:
		return "ERROR:"
	default:
		return "NOTE:"
	}
}
