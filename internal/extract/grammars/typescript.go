package grammars

import (
	"regexp"

	sitter "github.com/tree-sitter/go-tree-sitter"
	typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"
)

var tsIdentifier = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)

// NewTypeScriptSpec creates the grammar spec for TypeScript.
func NewTypeScriptSpec() *Spec {
	return &Spec{
		Name:       "typescript",
		Language:   sitter.NewLanguage(typescript.LanguageTypescript()),
		Extensions: []string{".ts", ".tsx"},
		FunctionKinds: map[string]bool{
			"function_declaration":           true,
			"generator_function_declaration": true,
		},
		MethodKinds: map[string]bool{
			"method_definition": true,
		},
		ClassKinds: map[string]bool{
			"class_declaration": true,
		},
		LambdaKinds: map[string]bool{
			"arrow_function":      true,
			"function_expression": true,
		},
		MethodContainers: map[string]bool{
			"class_declaration": true,
			"class_body":        true,
		},
		NameField:    "name",
		BodyField:    "body",
		CommentKinds: map[string]bool{"comment": true},
		Identifier:   tsIdentifier,
	}
}

// NewJavaScriptSpec creates the grammar spec for JavaScript. The
// TypeScript grammar is a superset, so it parses plain JavaScript too.
func NewJavaScriptSpec() *Spec {
	spec := NewTypeScriptSpec()
	spec.Name = "javascript"
	spec.Extensions = []string{".js", ".jsx", ".mjs"}
	return spec
}
