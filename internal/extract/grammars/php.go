package grammars

import (
	"regexp"

	sitter "github.com/tree-sitter/go-tree-sitter"
	php "github.com/tree-sitter/tree-sitter-php/bindings/go"
)

var phpIdentifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// NewPhpSpec creates the grammar spec for PHP.
func NewPhpSpec() *Spec {
	return &Spec{
		Name:       "php",
		Language:   sitter.NewLanguage(php.LanguagePHP()),
		Extensions: []string{".php"},
		FunctionKinds: map[string]bool{
			"function_definition": true,
		},
		MethodKinds: map[string]bool{
			"method_declaration": true,
		},
		ClassKinds: map[string]bool{
			"class_declaration": true,
			"trait_declaration": true,
		},
		LambdaKinds: map[string]bool{
			"anonymous_function_creation_expression": true,
			"arrow_function":                         true,
		},
		MethodContainers: map[string]bool{
			"class_declaration": true,
			"declaration_list":  true,
		},
		NameField:    "name",
		BodyField:    "body",
		CommentKinds: map[string]bool{"comment": true},
		Identifier:   phpIdentifier,
	}
}
