// Package transformer defines the stage contract of the accident pipeline.
//
// A Transformer consumes a table and returns a new one; it never mutates its
// input. Stages are composed with Chain, which runs them in order and stops
// at the first failure, returning that stage's error exactly as produced so
// callers can match it with errors.As.
package transformer

import "github.com/valdasjurk/Airplane-accidents-analysis/internal/frame"

// Transformer is one named table-to-table stage.
type Transformer interface {
	Name() string
	Apply(*frame.Frame) (*frame.Frame, error)
}

// Func adapts a plain function to Transformer.
type Func struct {
	StageName string
	Fn        func(*frame.Frame) (*frame.Frame, error)
}

func (f Func) Name() string { return f.StageName }

func (f Func) Apply(in *frame.Frame) (*frame.Frame, error) { return f.Fn(in) }

// Chain is an ordered list of transformers.
type Chain []Transformer

// Apply threads in through every stage. The first error aborts the chain
// and is returned unwrapped.
func (c Chain) Apply(in *frame.Frame) (*frame.Frame, error) {
	out := in
	for _, t := range c {
		next, err := t.Apply(out)
		if err != nil {
			return nil, err
		}
		out = next
	}
	return out, nil
}

// Names lists the stage names in order.
func (c Chain) Names() []string {
	out := make([]string, len(c))
	for i, t := range c {
		out[i] = t.Name()
	}
	return out
}
