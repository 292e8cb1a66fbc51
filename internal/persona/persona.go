// Package persona is C1: resolving a closed-set persona ID into the
// reference assets and style hints the rest of the pipeline needs.
package persona

import (
	"fmt"

	"github.com/normanking/personagen/internal/errs"
)

// Persona is one resolvable identity.
type Persona struct {
	ID                 string
	Name               string
	ReferenceAudioPath string
	ReferenceImagePath string
	LLMStyleHint       string
	DefaultStyle       string // style preset name
}

// Registry resolves persona IDs from a closed set loaded at startup.
type Registry struct {
	personas map[string]Persona
}

// NewRegistry builds a Registry from a slice of personas.
func NewRegistry(personas []Persona) *Registry {
	r := &Registry{personas: make(map[string]Persona, len(personas))}
	for _, p := range personas {
		r.personas[p.ID] = p
	}
	return r
}

// DefaultRegistry returns the two personas named in the spec as stand-ins
// for the original's MKBHD/iJustine personas.
func DefaultRegistry() *Registry {
	return NewRegistry([]Persona{
		{
			ID:           "mkbhd",
			Name:         "MKBHD",
			LLMStyleHint: "Speak like a calm, measured tech reviewer. Favor short declarative sentences with occasional emphasis on product names and numbers.",
			DefaultStyle: "calm_tech",
		},
		{
			ID:           "ijustine",
			Name:         "iJustine",
			LLMStyleHint: "Speak with energetic, enthusiastic pacing. Favor exclamations and frequent emphasis.",
			DefaultStyle: "energetic",
		},
	})
}

// Resolve looks up a persona by ID.
func (r *Registry) Resolve(id string) (Persona, error) {
	p, ok := r.personas[id]
	if !ok {
		return Persona{}, fmt.Errorf("%w: unknown persona %q", errs.ErrInvalidInput, id)
	}
	return p, nil
}
