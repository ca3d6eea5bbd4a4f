package crypto

import (
	"errors"
	"strings"
	"sync"
	"testing"
)

func TestGenerate(t *testing.T) {
	tests := []struct {
		name       string
		opts       GeneratorOptions
		wantLength int
		wantErr    error
	}{
		{
			name:       "default options",
			opts:       DefaultOptions(),
			wantLength: 16,
		},
		{
			name: "all options enabled",
			opts: GeneratorOptions{
				Length: 32, Uppercase: true, Lowercase: true, Numbers: true, Symbols: true,
			},
			wantLength: 32,
		},
		{
			name:       "uppercase only",
			opts:       GeneratorOptions{Length: 16, Uppercase: true},
			wantLength: 16,
		},
		{
			name:       "lowercase only",
			opts:       GeneratorOptions{Length: 16, Lowercase: true},
			wantLength: 16,
		},
		{
			name:       "numbers only",
			opts:       GeneratorOptions{Length: 16, Numbers: true},
			wantLength: 16,
		},
		{
			name:       "symbols only",
			opts:       GeneratorOptions{Length: 16, Symbols: true},
			wantLength: 16,
		},
		{
			name:       "single character",
			opts:       GeneratorOptions{Length: 1, Numbers: true},
			wantLength: 1,
		},
		{
			name: "length equals class count",
			opts: GeneratorOptions{
				Length: 4, Uppercase: true, Lowercase: true, Numbers: true, Symbols: true,
			},
			wantLength: 4,
		},
		{
			name: "length below class count is raised",
			opts: GeneratorOptions{
				Length: 2, Uppercase: true, Lowercase: true, Numbers: true, Symbols: true,
			},
			wantLength: 4,
		},
		{
			name:       "zero length is raised",
			opts:       GeneratorOptions{Uppercase: true, Numbers: true},
			wantLength: 2,
		},
		{
			name:    "no character types selected",
			opts:    GeneratorOptions{Length: 8},
			wantErr: ErrEmptyPool,
		},
		{
			name:    "no character types with zero length",
			opts:    GeneratorOptions{},
			wantErr: ErrEmptyPool,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Generate(tt.opts)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Generate() error = %v, want %v", err, tt.wantErr)
				}
				if result != "" {
					t.Error("Generate() should return empty string on error")
				}
				return
			}

			if err != nil {
				t.Fatalf("Generate() unexpected error: %v", err)
			}
			if len(result) != tt.wantLength {
				t.Errorf("Generate() length = %d, want %d", len(result), tt.wantLength)
			}
		})
	}
}

func TestGenerateContainsRequiredTypes(t *testing.T) {
	gen := NewGenerator(NewSeededSource(1, 2))

	for _, length := range []int{4, 5, 12, 32} {
		opts := GeneratorOptions{
			Length:    length,
			Uppercase: true,
			Lowercase: true,
			Numbers:   true,
			Symbols:   true,
		}

		for i := 0; i < 200; i++ {
			password, err := gen.Generate(opts)
			if err != nil {
				t.Fatalf("Generate() unexpected error: %v", err)
			}

			for _, c := range AllClasses() {
				if !strings.ContainsAny(password, c.Charset()) {
					t.Errorf("password %q missing %s character", password, c)
				}
			}
		}
	}
}

func TestGenerateWithoutSymbols(t *testing.T) {
	gen := NewGenerator(NewSeededSource(7, 7))
	opts := GeneratorOptions{Length: 12, Uppercase: true, Lowercase: true, Numbers: true}

	for i := 0; i < 100; i++ {
		password, err := gen.Generate(opts)
		if err != nil {
			t.Fatalf("Generate() unexpected error: %v", err)
		}
		if len(password) != 12 {
			t.Fatalf("Generate() length = %d, want 12", len(password))
		}
		if !strings.ContainsAny(password, uppercaseChars) {
			t.Errorf("password %q missing uppercase character", password)
		}
		if !strings.ContainsAny(password, lowercaseChars) {
			t.Errorf("password %q missing lowercase character", password)
		}
		if !strings.ContainsAny(password, numberChars) {
			t.Errorf("password %q missing number character", password)
		}
		if strings.ContainsAny(password, symbolChars) {
			t.Errorf("password %q contains a symbol", password)
		}
	}
}

func TestGenerateSingleTypeContainsOnlyThatType(t *testing.T) {
	tests := []struct {
		name    string
		opts    GeneratorOptions
		charset string
	}{
		{
			name:    "uppercase only",
			opts:    GeneratorOptions{Length: 32, Uppercase: true},
			charset: uppercaseChars,
		},
		{
			name:    "lowercase only",
			opts:    GeneratorOptions{Length: 32, Lowercase: true},
			charset: lowercaseChars,
		},
		{
			name:    "numbers only",
			opts:    GeneratorOptions{Length: 32, Numbers: true},
			charset: numberChars,
		},
		{
			name:    "symbols only",
			opts:    GeneratorOptions{Length: 32, Symbols: true},
			charset: symbolChars,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			password, err := Generate(tt.opts)
			if err != nil {
				t.Fatalf("Generate() unexpected error: %v", err)
			}
			for _, ch := range password {
				if !strings.ContainsRune(tt.charset, ch) {
					t.Errorf("password contains unexpected character %q (not in %q)", string(ch), tt.charset)
				}
			}
		})
	}
}

func TestCharsetsAreFixed(t *testing.T) {
	want := map[CharacterClass]string{
		Uppercase: "ABCDEFGHIJKLMNOPQRSTUVWXYZ",
		Lowercase: "abcdefghijklmnopqrstuvwxyz",
		Numbers:   "0123456789",
		Symbols:   "!@#$%^&*()_+-=[]{}|;:,.<>?",
	}

	for i := 0; i < 3; i++ {
		for c, charset := range want {
			if got := c.Charset(); got != charset {
				t.Errorf("%s.Charset() = %q, want %q", c, got, charset)
			}
		}
		if _, err := Generate(DefaultOptions()); err != nil {
			t.Fatalf("Generate() unexpected error: %v", err)
		}
	}
}

func TestClassesOrder(t *testing.T) {
	opts := GeneratorOptions{Symbols: true, Uppercase: true, Numbers: true}
	got := opts.Classes()
	want := []CharacterClass{Uppercase, Numbers, Symbols}

	if len(got) != len(want) {
		t.Fatalf("Classes() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Classes()[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestGeneratePositionDiversity(t *testing.T) {
	const (
		runs   = 1000
		length = 12
	)

	seen := make([]map[byte]bool, length)
	for i := range seen {
		seen[i] = make(map[byte]bool)
	}

	for i := 0; i < runs; i++ {
		password, err := Generate(GeneratorOptions{
			Length: length, Uppercase: true, Lowercase: true, Numbers: true, Symbols: true,
		})
		if err != nil {
			t.Fatalf("Generate() unexpected error: %v", err)
		}
		for pos := 0; pos < length; pos++ {
			seen[pos][password[pos]] = true
		}
	}

	// 88 characters in the pool; 1000 draws per position leave every
	// position far above this bound for any working source.
	for pos, chars := range seen {
		if len(chars) < 40 {
			t.Errorf("position %d saw only %d distinct characters", pos, len(chars))
		}
	}
}

func TestGenerateIsDeterministicForSeededSource(t *testing.T) {
	opts := DefaultOptions()

	a, err := NewGenerator(NewSeededSource(42, 99)).Generate(opts)
	if err != nil {
		t.Fatalf("Generate() unexpected error: %v", err)
	}
	b, err := NewGenerator(NewSeededSource(42, 99)).Generate(opts)
	if err != nil {
		t.Fatalf("Generate() unexpected error: %v", err)
	}
	if a != b {
		t.Errorf("same seed produced %q and %q", a, b)
	}
}

func TestGenerateProducesUniquePasswords(t *testing.T) {
	opts := DefaultOptions()
	seen := make(map[string]bool)

	for i := 0; i < 100; i++ {
		password, err := Generate(opts)
		if err != nil {
			t.Fatalf("Generate() unexpected error: %v", err)
		}
		if seen[password] {
			t.Errorf("duplicate password generated: %q", password)
		}
		seen[password] = true
	}
}

func TestGenerateConcurrentWithLockedSource(t *testing.T) {
	gen := NewGenerator(LockedSource(NewSeededSource(3, 4)))

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				if _, err := gen.Generate(DefaultOptions()); err != nil {
					errs <- err
					return
				}
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("Generate() unexpected error: %v", err)
	}
}
