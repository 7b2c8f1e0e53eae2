package grammars

import (
	"regexp"

	sitter "github.com/tree-sitter/go-tree-sitter"
	python "github.com/tree-sitter/tree-sitter-python/bindings/go"
)

var pythonIdentifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// NewPythonSpec creates the grammar spec for Python.
func NewPythonSpec() *Spec {
	return &Spec{
		Name:       "python",
		Language:   sitter.NewLanguage(python.Language()),
		Extensions: []string{".py", ".pyi"},
		FunctionKinds: map[string]bool{
			"function_definition": true,
		},
		ClassKinds: map[string]bool{
			"class_definition": true,
		},
		LambdaKinds: map[string]bool{
			"lambda": true,
		},
		MethodContainers: map[string]bool{
			"class_definition": true,
		},
		NameField:       "name",
		BodyField:       "body",
		CommentKinds:    map[string]bool{"comment": true},
		Identifier:      pythonIdentifier,
		Dedent:          true,
		DocstringInBody: true,
	}
}
