package service

import (
	"errors"
	"fmt"

	"github.com/vaultpass/passgen-go/internal/config"
	"github.com/vaultpass/passgen-go/internal/crypto"
	"github.com/vaultpass/passgen-go/internal/metrics"
	"github.com/vaultpass/passgen-go/internal/model"
)

// ErrLengthOutOfRange is returned for lengths outside the configured range.
var ErrLengthOutOfRange = errors.New("password length out of range")

// GeneratorService handles password generation business logic.
type GeneratorService struct {
	gen     *crypto.Generator
	limits  config.GeneratorConfig
	metrics *metrics.Metrics
}

// NewGeneratorService creates a new GeneratorService. A nil gen uses the
// crypto/rand backed generator; a nil m records nothing.
func NewGeneratorService(gen *crypto.Generator, limits config.GeneratorConfig, m *metrics.Metrics) *GeneratorService {
	if gen == nil {
		gen = crypto.NewGenerator(nil)
	}
	return &GeneratorService{gen: gen, limits: limits, metrics: m}
}

// Generate produces a password based on the given request.
func (s *GeneratorService) Generate(req model.GenerateRequest) (model.GenerateResponse, error) {
	opts := crypto.GeneratorOptions{
		Length:    req.Length,
		Uppercase: boolOrDefault(req.Uppercase, true),
		Lowercase: boolOrDefault(req.Lowercase, true),
		Numbers:   boolOrDefault(req.Numbers, true),
		Symbols:   boolOrDefault(req.Symbols, true),
	}

	if opts.Length == 0 {
		opts.Length = s.limits.DefaultLength
	}
	if opts.Length < s.limits.MinLength || opts.Length > s.limits.MaxLength {
		s.metrics.ObserveGeneration(metrics.ResultOutOfRange, 0)
		return model.GenerateResponse{}, fmt.Errorf("%w: must be between %d and %d",
			ErrLengthOutOfRange, s.limits.MinLength, s.limits.MaxLength)
	}

	password, err := s.gen.Generate(opts)
	if err != nil {
		if errors.Is(err, crypto.ErrEmptyPool) {
			s.metrics.ObserveGeneration(metrics.ResultEmptyPool, 0)
		} else {
			s.metrics.ObserveGeneration(metrics.ResultError, 0)
		}
		return model.GenerateResponse{}, err
	}

	s.metrics.ObserveGeneration(metrics.ResultOK, len(password))

	classes := make([]string, 0, 4)
	for _, c := range opts.Classes() {
		classes = append(classes, c.String())
	}

	return model.GenerateResponse{
		Password: password,
		Length:   len(password),
		Classes:  classes,
	}, nil
}

// Classes describes the fixed character classes and the accepted lengths.
func (s *GeneratorService) Classes() model.ClassesResponse {
	resp := model.ClassesResponse{
		Limits: model.GeneratorLimits{
			MinLength:     s.limits.MinLength,
			MaxLength:     s.limits.MaxLength,
			DefaultLength: s.limits.DefaultLength,
		},
	}
	for _, c := range crypto.AllClasses() {
		resp.Classes = append(resp.Classes, model.CharacterClassResponse{
			Name:    c.String(),
			Charset: c.Charset(),
			Size:    len(c.Charset()),
		})
	}
	return resp
}

// boolOrDefault returns the dereferenced pointer value, or the fallback if nil.
func boolOrDefault(p *bool, fallback bool) bool {
	if p == nil {
		return fallback
	}
	return *p
}
