package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/vaultpass/passgen-go/internal/model"
)

// Placeholder is shown instead of a password when no class is enabled.
const Placeholder = "Select at least one character type"

type toastKind int

const (
	toastInfo toastKind = iota
	toastSuccess
	toastError
)

type palette struct {
	password *color.Color
	success  *color.Color
	failure  *color.Color
	info     *color.Color
	muted    *color.Color
}

func newPalette(theme string) palette {
	if theme == model.ThemeDark {
		return palette{
			password: color.New(color.FgHiCyan, color.Bold),
			success:  color.New(color.FgHiGreen),
			failure:  color.New(color.FgHiRed),
			info:     color.New(color.FgHiMagenta),
			muted:    color.New(color.FgHiBlack),
		}
	}
	return palette{
		password: color.New(color.FgBlue, color.Bold),
		success:  color.New(color.FgGreen),
		failure:  color.New(color.FgRed),
		info:     color.New(color.FgBlue),
		muted:    color.New(color.FgBlack),
	}
}

// Printer writes passwords and toasts in the colors of the current theme.
type Printer struct {
	out     io.Writer
	colored bool
	theme   string
	colors  palette
}

// NewPrinter creates a Printer. Color is used only when out is a terminal
// and NO_COLOR is unset.
func NewPrinter(out io.Writer, theme string) *Printer {
	colored := false
	if f, ok := out.(*os.File); ok && !color.NoColor {
		colored = term.IsTerminal(int(f.Fd()))
	}

	p := &Printer{out: out, colored: colored}
	p.SetTheme(theme)
	return p
}

// SetTheme switches the palette.
func (p *Printer) SetTheme(theme string) {
	p.theme = theme
	p.colors = newPalette(theme)
	if !p.colored {
		for _, c := range []*color.Color{p.colors.password, p.colors.success, p.colors.failure, p.colors.info, p.colors.muted} {
			c.DisableColor()
		}
	}
}

// Theme returns the active theme.
func (p *Printer) Theme() string {
	return p.theme
}

// Password prints a password, masked when hidden. An empty password prints
// the placeholder.
func (p *Printer) Password(password string, visible bool) {
	if password == "" {
		p.colors.muted.Fprintln(p.out, Placeholder)
		return
	}
	p.colors.password.Fprintln(p.out, mask(password, visible))
}

func (p *Printer) toast(kind toastKind, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	switch kind {
	case toastSuccess:
		p.colors.success.Fprintln(p.out, "✓ "+msg)
	case toastError:
		p.colors.failure.Fprintln(p.out, "✗ "+msg)
	default:
		p.colors.info.Fprintln(p.out, "• "+msg)
	}
}

// Success prints a success toast.
func (p *Printer) Success(format string, args ...any) { p.toast(toastSuccess, format, args...) }

// Error prints an error toast.
func (p *Printer) Error(format string, args ...any) { p.toast(toastError, format, args...) }

// Info prints an informational toast.
func (p *Printer) Info(format string, args ...any) { p.toast(toastInfo, format, args...) }

// Muted prints secondary text such as status lines and help.
func (p *Printer) Muted(format string, args ...any) {
	p.colors.muted.Fprintf(p.out, format+"\n", args...)
}

func mask(password string, visible bool) string {
	if visible {
		return password
	}
	return strings.Repeat("•", len(password))
}
