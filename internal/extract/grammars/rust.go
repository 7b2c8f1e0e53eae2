package grammars

import (
	"regexp"

	sitter "github.com/tree-sitter/go-tree-sitter"
	rust "github.com/tree-sitter/tree-sitter-rust/bindings/go"
)

var rustIdentifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// NewRustSpec creates the grammar spec for Rust.
func NewRustSpec() *Spec {
	return &Spec{
		Name:       "rust",
		Language:   sitter.NewLanguage(rust.Language()),
		Extensions: []string{".rs"},
		FunctionKinds: map[string]bool{
			"function_item": true,
		},
		LambdaKinds: map[string]bool{
			"closure_expression": true,
		},
		// Functions inside impl blocks are methods.
		MethodContainers: map[string]bool{
			"impl_item": true,
		},
		NameField:    "name",
		BodyField:    "body",
		CommentKinds: map[string]bool{"line_comment": true, "block_comment": true},
		Identifier:   rustIdentifier,
	}
}
