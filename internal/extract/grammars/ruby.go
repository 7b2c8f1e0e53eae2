package grammars

import (
	"regexp"

	sitter "github.com/tree-sitter/go-tree-sitter"
	ruby "github.com/tree-sitter/tree-sitter-ruby/bindings/go"
)

// Ruby method names may end in ?, ! or = (predicates, mutators, setters).
var rubyIdentifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*[?!=]?$`)

// NewRubySpec creates the grammar spec for Ruby.
func NewRubySpec() *Spec {
	return &Spec{
		Name:       "ruby",
		Language:   sitter.NewLanguage(ruby.Language()),
		Extensions: []string{".rb", ".rake"},
		FunctionKinds: map[string]bool{
			"method": true,
		},
		MethodKinds: map[string]bool{
			"singleton_method": true,
		},
		ClassKinds: map[string]bool{
			"class":  true,
			"module": true,
		},
		LambdaKinds: map[string]bool{
			"lambda": true,
		},
		MethodContainers: map[string]bool{
			"class":  true,
			"module": true,
		},
		NameField:    "name",
		BodyField:    "body",
		CommentKinds: map[string]bool{"comment": true},
		Identifier:   rubyIdentifier,
	}
}
