// Package scenario describes scripted program runs and executes them
// through a [futility.Terminate] controller. Each step of a run can
// succeed, fail with an error, or panic, and can be wrapped in a try
// region that recovers locally.
//
// Scenarios are YAML documents:
//
//	name: flaky-start
//	on_error: at the top of main
//	install:
//	  - name: open-config
//	main:
//	  - name: fetch
//	    fail: connection refused
//	    recover: cached
//	  - name: write
//	    fail: disk full
package scenario

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Scenario is a scripted program run.
type Scenario struct {
	Name string `yaml:"name"`

	// OnError, when set, wraps every phase error as "OnError: err".
	OnError string `yaml:"on_error"`

	// Install steps run in the install phase. With no install steps the
	// controller has no install routine.
	Install []Step `yaml:"install"`

	Main []Step `yaml:"main"`
}

// Step is a single operation of a phase.
type Step struct {
	Name string `yaml:"name"`

	// Fail makes the step return an error with this message.
	Fail string `yaml:"fail,omitempty"`

	// Panic makes the step panic with this message.
	Panic string `yaml:"panic,omitempty"`

	// Recover runs the step inside a try region whose catch region
	// yields this value.
	Recover string `yaml:"recover,omitempty"`
}

var (
	// ErrInvalid is wrapped by every validation error.
	ErrInvalid = errors.New("invalid scenario")
)

// Parse decodes a scenario from YAML and validates it. Unknown fields
// are rejected.
func Parse(data []byte) (*Scenario, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var s Scenario
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("decode scenario: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Load reads and parses the scenario file at path.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Validate checks that the scenario is well formed.
func (s *Scenario) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("%w: missing name", ErrInvalid)
	}
	if len(s.Main) == 0 {
		return fmt.Errorf("%w: no main steps", ErrInvalid)
	}

	seen := make(map[string]bool)
	check := func(phase string, steps []Step) error {
		for i, st := range steps {
			if st.Name == "" {
				return fmt.Errorf("%w: %s step %d has no name", ErrInvalid, phase, i)
			}
			if seen[st.Name] {
				return fmt.Errorf("%w: duplicate step %q", ErrInvalid, st.Name)
			}
			seen[st.Name] = true
			if st.Fail != "" && st.Panic != "" {
				return fmt.Errorf("%w: step %q sets both fail and panic", ErrInvalid, st.Name)
			}
		}
		return nil
	}

	if err := check("install", s.Install); err != nil {
		return err
	}
	return check("main", s.Main)
}
