package grammars

import (
	"regexp"

	sitter "github.com/tree-sitter/go-tree-sitter"
	java "github.com/tree-sitter/tree-sitter-java/bindings/go"
)

var javaIdentifier = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)

// NewJavaSpec creates the grammar spec for Java.
func NewJavaSpec() *Spec {
	return &Spec{
		Name:       "java",
		Language:   sitter.NewLanguage(java.Language()),
		Extensions: []string{".java"},
		MethodKinds: map[string]bool{
			"method_declaration":      true,
			"constructor_declaration": true,
		},
		ClassKinds: map[string]bool{
			"class_declaration":     true,
			"interface_declaration": true,
			"enum_declaration":      true,
		},
		LambdaKinds: map[string]bool{
			"lambda_expression": true,
		},
		MethodContainers: map[string]bool{
			"class_declaration": true,
			"class_body":        true,
			"enum_declaration":  true,
		},
		NameField:    "name",
		BodyField:    "body",
		CommentKinds: map[string]bool{"line_comment": true, "block_comment": true},
		Identifier:   javaIdentifier,
	}
}
