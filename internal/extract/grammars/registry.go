package grammars

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// ErrUnsupportedLanguage indicates that no grammar is registered for a
// language tag or file extension. Callers treat it as a per-file skip.
var ErrUnsupportedLanguage = errors.New("unsupported language")

// Spec describes how to extract code units from one language.
// It is pure data: node-kind sets plus accessor hints. Adding a language
// is a registration, not a new traversal implementation.
type Spec struct {
	// Name is the canonical language tag (e.g. "python").
	Name string

	// Language is the compiled tree-sitter grammar.
	Language *sitter.Language

	// Extensions maps file extensions (with leading dot) to this language.
	Extensions []string

	// FunctionKinds are node kinds that define a named function.
	// A function nested inside a MethodContainer is emitted as a method.
	FunctionKinds map[string]bool

	// MethodKinds are node kinds that always define a method.
	MethodKinds map[string]bool

	// ClassKinds are node kinds that define a class-like unit.
	ClassKinds map[string]bool

	// LambdaKinds are anonymous function kinds (closures, lambdas).
	// Units of these kinds carry the anonymous placeholder name.
	LambdaKinds map[string]bool

	// MethodContainers are node kinds whose enclosed functions are methods.
	MethodContainers map[string]bool

	// NameField is the tree-sitter field name holding the unit's name node.
	NameField string

	// BodyField is the tree-sitter field name holding the unit's body node.
	BodyField string

	// CommentKinds are node kinds of comments (for leading doc comments).
	CommentKinds map[string]bool

	// Identifier validates that a unit name is a legal identifier.
	Identifier *regexp.Regexp

	// Dedent indicates indentation-significant bodies (Python style) that
	// must be re-dedented before hashing so formatting variants collide.
	Dedent bool

	// DocstringInBody indicates languages where documentation is the first
	// string expression of the body rather than a leading comment.
	DocstringInBody bool
}

// Registry maps language tags and file extensions to grammar specs.
type Registry struct {
	mu    sync.RWMutex
	specs map[string]*Spec
	exts  map[string]*Spec
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		specs: make(map[string]*Spec),
		exts:  make(map[string]*Spec),
	}
}

// DefaultRegistry returns a registry with all built-in languages registered.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	for _, spec := range builtinSpecs() {
		r.Register(spec)
	}
	return r
}

// Register adds a language spec. Registration is additive: a later spec
// for the same tag replaces the earlier one.
func (r *Registry) Register(spec *Spec) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.specs[spec.Name] = spec
	for _, ext := range spec.Extensions {
		r.exts[strings.ToLower(ext)] = spec
	}
}

// Resolve returns the spec for a language tag.
func (r *Registry) Resolve(languageTag string) (*Spec, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	spec, ok := r.specs[strings.ToLower(languageTag)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedLanguage, languageTag)
	}
	return spec, nil
}

// ResolveExt returns the spec for a file path based on its extension.
func (r *Registry) ResolveExt(path string) (*Spec, error) {
	ext := strings.ToLower(filepath.Ext(path))

	r.mu.RLock()
	defer r.mu.RUnlock()

	spec, ok := r.exts[ext]
	if !ok {
		return nil, fmt.Errorf("%w: extension %q", ErrUnsupportedLanguage, ext)
	}
	return spec, nil
}

// Languages returns the sorted list of registered language tags.
func (r *Registry) Languages() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tags := make([]string, 0, len(r.specs))
	for tag := range r.specs {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

// Supports reports whether the registry has a grammar for the language tag.
func (r *Registry) Supports(languageTag string) bool {
	_, err := r.Resolve(languageTag)
	return err == nil
}
