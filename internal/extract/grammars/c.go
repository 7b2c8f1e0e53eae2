package grammars

import (
	"regexp"

	sitter "github.com/tree-sitter/go-tree-sitter"
	c "github.com/tree-sitter/tree-sitter-c/bindings/go"
)

var cIdentifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// NewCSpec creates the grammar spec for C.
func NewCSpec() *Spec {
	return &Spec{
		Name:       "c",
		Language:   sitter.NewLanguage(c.Language()),
		Extensions: []string{".c", ".h"},
		FunctionKinds: map[string]bool{
			"function_definition": true,
		},
		// C function names live under the declarator field; the parser
		// descends to the first identifier below it.
		NameField:    "declarator",
		BodyField:    "body",
		CommentKinds: map[string]bool{"comment": true},
		Identifier:   cIdentifier,
	}
}

// NewCppSpec creates the grammar spec for C++ sources. The C grammar
// handles the function-level subset this pipeline extracts.
func NewCppSpec() *Spec {
	spec := NewCSpec()
	spec.Name = "cpp"
	spec.Extensions = []string{".cpp", ".cc", ".hpp", ".cxx"}
	return spec
}
