// Package loader reads rule files and owns the policy for unusable ones.
package loader

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/nstehr/gambit/rules"
	"github.com/nstehr/gambit/token"
)

// ErrUnsupportedFormat is returned for files that are neither YAML nor JSON.
var ErrUnsupportedFormat = errors.New("unsupported rule file format")

// File is one decoded rule file.
type File struct {
	Name     string          `json:"name" yaml:"name"`
	Doctrine *rules.Doctrine `json:"doctrine,omitempty" yaml:"doctrine,omitempty"`
	Rules    []token.Rule    `json:"rules" yaml:"rules"`

	// Set by the loader.
	Path     string `json:"-" yaml:"-"`
	Revision string `json:"-" yaml:"-"`
	Fallback bool   `json:"-" yaml:"-"`
}

// doctrine returns the file's doctrine, or the default one.
func (f *File) doctrine() rules.Doctrine {
	if f.Doctrine != nil {
		return *f.Doctrine
	}
	return rules.DefaultDoctrine()
}

// RuleSet returns the rules to compile. A file without rules gets the set
// generated from its doctrine; otherwise `when` gates are applied.
func (f *File) RuleSet() (token.RuleSet, error) {
	d := f.doctrine()
	if len(f.Rules) == 0 {
		return rules.CompileDoctrine(d), nil
	}
	return rules.Gate(token.RuleSet{Name: f.Name, Rules: f.Rules}, d)
}

// Validate checks that the file yields a rule set that compiles.
func (f *File) Validate() error {
	set, err := f.RuleSet()
	if err != nil {
		return err
	}
	_, err = rules.NewCompiler().Compile(set)
	return err
}

// Default is the built-in rule file used when fallback is enabled. It has no
// Path; Policy.Load sets one when it falls back for a configured file.
func Default() *File {
	d := rules.DefaultDoctrine()
	return &File{
		Name:     d.Name,
		Doctrine: &d,
		Revision: uuid.NewString(),
		Fallback: true,
	}
}

// Load reads and decodes a .yaml, .yml or .json rule file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rule file: %w", err)
	}

	f := &File{}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		err = dec.Decode(f)
	case ".json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		err = dec.Decode(f)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode %s: empty rule file", path)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	f.Path = path
	f.Revision = uuid.NewString()
	return f, nil
}

// Policy decides what happens when a rule file cannot be used.
type Policy struct {
	// Fallback replaces an unreadable, undecodable or uncompilable file
	// with Default instead of failing.
	Fallback bool
}

// Load loads and validates path under the policy.
func (p Policy) Load(path string) (*File, error) {
	f, err := Load(path)
	if err == nil {
		err = f.Validate()
	}
	if err == nil {
		slog.Info("rule file loaded", "path", path, "name", f.Name, "rules", len(f.Rules), "revision", f.Revision)
		return f, nil
	}
	if !p.Fallback {
		return nil, err
	}
	slog.Warn("rule file unusable, falling back to default doctrine", "path", path, "error", err)
	// Keep the path so a fixed file can be picked up by a later reload.
	d := Default()
	d.Path = path
	return d, nil
}
