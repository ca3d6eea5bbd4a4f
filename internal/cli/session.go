package cli

import (
	"bufio"
	"context"
	"errors"
	"io"
	"strings"

	"github.com/vaultpass/passgen-go/internal/config"
	"github.com/vaultpass/passgen-go/internal/crypto"
	"github.com/vaultpass/passgen-go/internal/model"
	"github.com/vaultpass/passgen-go/internal/service"
)

// LocalOwner is the preference owner used by the terminal client.
const LocalOwner = "local"

const sessionHelp = `enter/space regenerate · c copy · v show/hide · t theme
+/- length · u l n s toggle classes · h help · q quit`

// Session is the state of an interactive generator: the current options,
// the last password, and whether it is shown.
type Session struct {
	gen     *service.GeneratorService
	themes  *service.ThemeService
	clip    Clipboard
	ui      *Printer
	limits  config.GeneratorConfig
	opts    crypto.GeneratorOptions
	current string
	visible bool
}

// NewSession creates a session starting from opts.
func NewSession(gen *service.GeneratorService, themes *service.ThemeService, clip Clipboard, ui *Printer, limits config.GeneratorConfig, opts crypto.GeneratorOptions) *Session {
	return &Session{
		gen:     gen,
		themes:  themes,
		clip:    clip,
		ui:      ui,
		limits:  limits,
		opts:    opts,
		visible: true,
	}
}

// Password returns the current password, or "" while the placeholder is shown.
func (s *Session) Password() string {
	return s.current
}

// Options returns the current generation options.
func (s *Session) Options() crypto.GeneratorOptions {
	return s.opts
}

// Visible reports whether the password is shown in clear text.
func (s *Session) Visible() bool {
	return s.visible
}

// Regenerate replaces the current password using the current options.
func (s *Session) Regenerate() {
	resp, err := s.gen.Generate(model.GenerateRequest{
		Length:    s.opts.Length,
		Uppercase: &s.opts.Uppercase,
		Lowercase: &s.opts.Lowercase,
		Numbers:   &s.opts.Numbers,
		Symbols:   &s.opts.Symbols,
	})
	if err != nil {
		s.current = ""
		if !errors.Is(err, crypto.ErrEmptyPool) {
			s.ui.Error("%v", err)
		}
		return
	}
	s.current = resp.Password
}

// Copy puts the current password on the clipboard. The placeholder is never copied.
func (s *Session) Copy() {
	if s.current == "" {
		s.ui.Error("Generate a password first!")
		return
	}
	if err := s.clip.WriteAll(s.current); err != nil {
		s.ui.Error("Failed to copy password: %v", err)
		return
	}
	s.ui.Success("Password copied to clipboard!")
}

// ToggleVisibility shows or masks the password.
func (s *Session) ToggleVisibility() {
	s.visible = !s.visible
	if s.visible {
		s.ui.Info("Password visible")
	} else {
		s.ui.Info("Password hidden")
	}
}

// ToggleTheme flips and persists the theme, then repaints with it.
func (s *Session) ToggleTheme(ctx context.Context) {
	theme, err := s.themes.ToggleTheme(ctx, LocalOwner)
	if err != nil {
		s.ui.Error("Failed to save theme: %v", err)
		return
	}
	s.ui.SetTheme(theme)
	s.ui.Info("Theme: %s", theme)
}

// AdjustLength moves the length by delta within the configured range and
// regenerates.
func (s *Session) AdjustLength(delta int) {
	length := min(max(s.opts.Length+delta, s.limits.MinLength), s.limits.MaxLength)
	if length == s.opts.Length {
		s.ui.Info("Length stays at %d (range %d-%d)", length, s.limits.MinLength, s.limits.MaxLength)
		return
	}
	s.opts.Length = length
	s.Regenerate()
}

// ToggleClass enables or disables one character class and regenerates.
func (s *Session) ToggleClass(c crypto.CharacterClass) {
	switch c {
	case crypto.Uppercase:
		s.opts.Uppercase = !s.opts.Uppercase
	case crypto.Lowercase:
		s.opts.Lowercase = !s.opts.Lowercase
	case crypto.Numbers:
		s.opts.Numbers = !s.opts.Numbers
	case crypto.Symbols:
		s.opts.Symbols = !s.opts.Symbols
	}
	s.Regenerate()
}

// Handle applies one input line. It reports false when the session should end.
func (s *Session) Handle(ctx context.Context, line string) bool {
	cmd := strings.TrimSpace(line)

	switch strings.ToLower(cmd) {
	case "", "g":
		s.Regenerate()
		if s.current != "" {
			s.ui.Info("New password generated!")
		}
	case "c":
		s.Copy()
		return true
	case "v":
		s.ToggleVisibility()
	case "t":
		s.ToggleTheme(ctx)
	case "+":
		s.AdjustLength(1)
	case "-":
		s.AdjustLength(-1)
	case "u":
		s.ToggleClass(crypto.Uppercase)
	case "l":
		s.ToggleClass(crypto.Lowercase)
	case "n":
		s.ToggleClass(crypto.Numbers)
	case "s":
		s.ToggleClass(crypto.Symbols)
	case "h", "?":
		s.ui.Muted(sessionHelp)
		return true
	case "q", "quit", "exit":
		return false
	default:
		s.ui.Error("Unknown command %q (h for help)", cmd)
		return true
	}

	s.Render()
	return true
}

// Render prints the status line and the current password.
func (s *Session) Render() {
	s.ui.Muted("%s  length %d", classFlags(s.opts), s.opts.Length)
	s.ui.Password(s.current, s.visible)
}

// Run reads commands from in until it is exhausted, q is entered, or ctx is
// done. Cancellation is noticed while waiting for input; the reader goroutine
// stays blocked on in until its next line or EOF.
func (s *Session) Run(ctx context.Context, in io.Reader) error {
	s.Regenerate()
	s.ui.Muted(sessionHelp)
	s.Render()

	readCtx, stop := context.WithCancel(ctx)
	defer stop()

	lines := make(chan string)
	done := make(chan error, 1)
	go func() {
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-readCtx.Done():
				return
			}
		}
		done <- scanner.Err()
	}()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-done:
			return err
		case line := <-lines:
			if !s.Handle(ctx, line) {
				return nil
			}
		}
	}
}

func classFlags(opts crypto.GeneratorOptions) string {
	flag := func(on bool, label string) string {
		if on {
			return "[" + label + "]"
		}
		return "[ ]"
	}
	return strings.Join([]string{
		flag(opts.Uppercase, "A-Z"),
		flag(opts.Lowercase, "a-z"),
		flag(opts.Numbers, "0-9"),
		flag(opts.Symbols, "!@#"),
	}, " ")
}
