package crypto

import (
	"errors"
	"math/rand/v2"
)

const (
	uppercaseChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	lowercaseChars = "abcdefghijklmnopqrstuvwxyz"
	numberChars    = "0123456789"
	symbolChars    = "!@#$%^&*()_+-=[]{}|;:,.<>?"
)

// ErrEmptyPool is returned when no character class is enabled.
var ErrEmptyPool = errors.New("select at least one character type")

// CharacterClass identifies one of the four fixed character sets.
// The declaration order is the order in which seed characters are drawn.
type CharacterClass int

const (
	Uppercase CharacterClass = iota
	Lowercase
	Numbers
	Symbols
)

// AllClasses returns every character class in enumeration order.
func AllClasses() []CharacterClass {
	return []CharacterClass{Uppercase, Lowercase, Numbers, Symbols}
}

// Charset returns the ordered characters belonging to the class.
func (c CharacterClass) Charset() string {
	switch c {
	case Uppercase:
		return uppercaseChars
	case Lowercase:
		return lowercaseChars
	case Numbers:
		return numberChars
	case Symbols:
		return symbolChars
	}
	return ""
}

func (c CharacterClass) String() string {
	switch c {
	case Uppercase:
		return "uppercase"
	case Lowercase:
		return "lowercase"
	case Numbers:
		return "numbers"
	case Symbols:
		return "symbols"
	}
	return "unknown"
}

// GeneratorOptions configures the password generator.
type GeneratorOptions struct {
	Length    int
	Uppercase bool
	Lowercase bool
	Numbers   bool
	Symbols   bool
}

// DefaultOptions returns sensible defaults: 16 characters with all types enabled.
func DefaultOptions() GeneratorOptions {
	return GeneratorOptions{
		Length:    16,
		Uppercase: true,
		Lowercase: true,
		Numbers:   true,
		Symbols:   true,
	}
}

// Classes returns the enabled classes in enumeration order.
func (o GeneratorOptions) Classes() []CharacterClass {
	var classes []CharacterClass
	if o.Uppercase {
		classes = append(classes, Uppercase)
	}
	if o.Lowercase {
		classes = append(classes, Lowercase)
	}
	if o.Numbers {
		classes = append(classes, Numbers)
	}
	if o.Symbols {
		classes = append(classes, Symbols)
	}
	return classes
}

// EffectiveLength is the length Generate produces for these options.
// Requests shorter than the number of enabled classes are raised to that
// number so every class still gets its seed character.
func (o GeneratorOptions) EffectiveLength() int {
	return max(o.Length, len(o.Classes()))
}

// Generator produces passwords from an injected uniform random source.
// It is safe for concurrent use when its source is.
type Generator struct {
	rng *rand.Rand
}

// NewGenerator returns a Generator drawing from src. A nil src selects the
// crypto/rand backed source.
func NewGenerator(src rand.Source) *Generator {
	if src == nil {
		src = NewCryptoSource()
	}
	return &Generator{rng: rand.New(src)}
}

var defaultGenerator = NewGenerator(nil)

// Generate creates a password with the crypto/rand backed generator.
func Generate(opts GeneratorOptions) (string, error) {
	return defaultGenerator.Generate(opts)
}

// Generate creates a random password based on the given options.
func (g *Generator) Generate(opts GeneratorOptions) (string, error) {
	classes := opts.Classes()
	if len(classes) == 0 {
		return "", ErrEmptyPool
	}

	var pool string
	for _, c := range classes {
		pool += c.Charset()
	}

	result := make([]byte, opts.EffectiveLength())

	// Guarantee at least one character from each selected type.
	for i, c := range classes {
		result[i] = g.randChar(c.Charset())
	}

	// Fill the remaining positions from the full pool.
	for i := len(classes); i < len(result); i++ {
		result[i] = g.randChar(pool)
	}

	g.shuffle(result)

	return string(result), nil
}

func (g *Generator) randChar(charset string) byte {
	return charset[g.rng.IntN(len(charset))]
}

// shuffle performs a Fisher-Yates shuffle.
func (g *Generator) shuffle(data []byte) {
	for i := len(data) - 1; i > 0; i-- {
		j := g.rng.IntN(i + 1)
		data[i], data[j] = data[j], data[i]
	}
}
