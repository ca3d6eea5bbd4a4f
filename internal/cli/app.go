// Package cli implements the passgen terminal client.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v2"

	"github.com/vaultpass/passgen-go/internal/config"
	"github.com/vaultpass/passgen-go/internal/crypto"
	"github.com/vaultpass/passgen-go/internal/model"
	"github.com/vaultpass/passgen-go/internal/repository"
	"github.com/vaultpass/passgen-go/internal/service"
)

var errEmptyPool = errors.New(Placeholder)

// Options wires the app to its environment.
type Options struct {
	In        io.Reader
	Out       io.Writer
	ErrOut    io.Writer
	Clipboard Clipboard
	Generator *crypto.Generator
	Limits    config.GeneratorConfig
}

// DefaultLimits mirrors the length range of the API.
func DefaultLimits() config.GeneratorConfig {
	return config.GeneratorConfig{MinLength: 4, MaxLength: 32, DefaultLength: 16, RandomSource: config.SourceCrypto}
}

// DefaultStorePath is where the theme is kept unless --store says otherwise.
func DefaultStorePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "passgen", "preferences.db")
}

type app struct {
	opts   Options
	store  *repository.BoltPreferenceStore
	themes *service.ThemeService
	gen    *service.GeneratorService
	ui     *Printer
}

// NewApp builds the passgen command tree.
func NewApp(opts Options) *cli.App {
	if opts.Clipboard == nil {
		opts.Clipboard = SystemClipboard()
	}
	if opts.Limits == (config.GeneratorConfig{}) {
		opts.Limits = DefaultLimits()
	}

	a := &app{opts: opts}

	return &cli.App{
		Name:      "passgen",
		Usage:     "generate random passwords from selectable character classes",
		Reader:    opts.In,
		Writer:    opts.Out,
		ErrWriter: opts.ErrOut,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "store",
				Usage:   "preference file holding the theme",
				EnvVars: []string{"PASSGEN_STORE"},
				Value:   DefaultStorePath(),
			},
		},
		Before: a.before,
		After:  a.after,
		Commands: []*cli.Command{
			{
				Name:    "generate",
				Aliases: []string{"gen"},
				Usage:   "print one or more passwords",
				Flags: append(generatorFlags(opts.Limits),
					&cli.IntFlag{Name: "count", Aliases: []string{"c"}, Value: 1, Usage: "number of passwords"},
					&cli.BoolFlag{Name: "copy", Usage: "copy the (last) password to the clipboard"},
					&cli.BoolFlag{Name: "hide", Usage: "mask the password on screen"},
				),
				Action: a.generate,
			},
			{
				Name:   "theme",
				Usage:  "show or change the light/dark theme",
				Action: a.themeShow,
				Subcommands: []*cli.Command{
					{Name: "show", Usage: "print the current theme", Action: a.themeShow},
					{Name: "set", Usage: "set the theme", ArgsUsage: "light|dark", Action: a.themeSet},
					{Name: "toggle", Usage: "switch between light and dark", Action: a.themeToggle},
				},
			},
			{
				Name:    "interactive",
				Aliases: []string{"i"},
				Usage:   "generate passwords from the keyboard",
				Flags:   generatorFlags(opts.Limits),
				Action:  a.interactive,
			},
		},
	}
}

func generatorFlags(limits config.GeneratorConfig) []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:    "length",
			Aliases: []string{"l"},
			Value:   limits.DefaultLength,
			Usage:   fmt.Sprintf("password length (%d-%d)", limits.MinLength, limits.MaxLength),
		},
		&cli.BoolFlag{Name: "uppercase", Value: true, Usage: "include A-Z"},
		&cli.BoolFlag{Name: "lowercase", Value: true, Usage: "include a-z"},
		&cli.BoolFlag{Name: "numbers", Value: true, Usage: "include 0-9"},
		&cli.BoolFlag{Name: "symbols", Value: true, Usage: "include " + crypto.Symbols.Charset()},
	}
}

func optionsFromFlags(c *cli.Context) crypto.GeneratorOptions {
	return crypto.GeneratorOptions{
		Length:    c.Int("length"),
		Uppercase: c.Bool("uppercase"),
		Lowercase: c.Bool("lowercase"),
		Numbers:   c.Bool("numbers"),
		Symbols:   c.Bool("symbols"),
	}
}

func (a *app) before(c *cli.Context) error {
	store, err := repository.OpenBoltPreferenceStore(c.String("store"))
	if err != nil {
		return err
	}
	a.store = store
	a.themes = service.NewThemeService(store, nil)
	a.gen = service.NewGeneratorService(a.opts.Generator, a.opts.Limits, nil)

	theme, err := a.themes.LoadTheme(c.Context, LocalOwner)
	if err != nil {
		return err
	}
	a.ui = NewPrinter(c.App.Writer, theme)
	return nil
}

func (a *app) after(*cli.Context) error {
	if a.store == nil {
		return nil
	}
	return a.store.Close()
}

func (a *app) generate(c *cli.Context) error {
	opts := optionsFromFlags(c)
	count := max(c.Int("count"), 1)

	var last string
	for i := 0; i < count; i++ {
		resp, err := a.gen.Generate(model.GenerateRequest{
			Length:    opts.Length,
			Uppercase: &opts.Uppercase,
			Lowercase: &opts.Lowercase,
			Numbers:   &opts.Numbers,
			Symbols:   &opts.Symbols,
		})
		if err != nil {
			if errors.Is(err, crypto.ErrEmptyPool) {
				a.ui.Error(Placeholder)
				return errEmptyPool
			}
			a.ui.Error("%v", err)
			return err
		}
		last = resp.Password
		a.ui.Password(last, !c.Bool("hide"))
	}

	if c.Bool("copy") {
		if err := a.opts.Clipboard.WriteAll(last); err != nil {
			a.ui.Error("Failed to copy password: %v", err)
			return err
		}
		a.ui.Success("Password copied to clipboard!")
	}
	return nil
}

func (a *app) themeShow(c *cli.Context) error {
	theme, err := a.themes.LoadTheme(c.Context, LocalOwner)
	if err != nil {
		return err
	}
	fmt.Fprintln(c.App.Writer, theme)
	return nil
}

func (a *app) themeSet(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("expected exactly one theme argument, got %d", c.NArg())
	}
	theme := c.Args().First()
	if err := a.themes.SaveTheme(c.Context, LocalOwner, theme); err != nil {
		return err
	}
	a.ui.SetTheme(theme)
	a.ui.Success("Theme set to %s", theme)
	return nil
}

func (a *app) themeToggle(c *cli.Context) error {
	theme, err := a.themes.ToggleTheme(c.Context, LocalOwner)
	if err != nil {
		return err
	}
	a.ui.SetTheme(theme)
	a.ui.Success("Theme set to %s", theme)
	return nil
}

func (a *app) interactive(c *cli.Context) error {
	opts := optionsFromFlags(c)
	opts.Length = min(max(opts.Length, a.opts.Limits.MinLength), a.opts.Limits.MaxLength)

	session := NewSession(a.gen, a.themes, a.opts.Clipboard, a.ui, a.opts.Limits, opts)
	return session.Run(c.Context, c.App.Reader)
}
