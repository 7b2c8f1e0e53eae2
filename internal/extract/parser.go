package extract

import (
	"context"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/mvp-joe/codecorpus/internal/extract/grammars"
)

// Parser turns raw source text into CodeUnits using the grammar registry.
// Extract is a pure function of its inputs: no side effects, deterministic,
// safe to call concurrently.
type Parser struct {
	registry *grammars.Registry
}

// NewParser creates a parser backed by the given grammar registry.
func NewParser(registry *grammars.Registry) *Parser {
	return &Parser{registry: registry}
}

// Extract parses source text and emits one CodeUnit per function, method,
// and class definition. Nested definitions are emitted independently.
// Syntax errors degrade to a partial extraction from the clean subtrees
// and set Extraction.Degraded; they are never returned as an error.
// Unsupported languages return grammars.ErrUnsupportedLanguage.
func (p *Parser) Extract(ctx context.Context, path, languageTag string, source []byte) (*Extraction, error) {
	spec, err := p.registry.Resolve(languageTag)
	if err != nil {
		return nil, err
	}

	extraction := &Extraction{
		Language:   spec.Name,
		SourcePath: path,
		Units:      []CodeUnit{},
	}

	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(spec.Language)

	tree := parser.Parse(source, nil)
	if tree == nil {
		extraction.Degraded = true
		return extraction, nil
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		extraction.Degraded = true
	}

	walkTree(root, func(node *sitter.Node) bool {
		if err := ctx.Err(); err != nil {
			return false
		}

		kind, anonymous, ok := classifyNode(node, spec)
		if !ok {
			return true
		}
		// Units whose own subtree failed to parse are skipped, but clean
		// nested definitions below them are still extracted.
		if node.HasError() {
			return true
		}

		extraction.Units = append(extraction.Units, buildUnit(node, source, path, spec, kind, anonymous))
		return true
	})

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return extraction, nil
}

// classifyNode decides whether a node denotes a unit and of which kind.
func classifyNode(node *sitter.Node, spec *grammars.Spec) (kind Kind, anonymous bool, ok bool) {
	nodeKind := node.Kind()

	switch {
	case spec.ClassKinds[nodeKind]:
		return KindClass, false, true
	case spec.MethodKinds[nodeKind]:
		return KindMethod, false, true
	case spec.FunctionKinds[nodeKind]:
		if insideMethodContainer(node, spec) {
			return KindMethod, false, true
		}
		return KindFunction, false, true
	case spec.LambdaKinds[nodeKind]:
		return KindFunction, true, true
	}
	return "", false, false
}

// insideMethodContainer reports whether the nearest enclosing definition
// is a method container (class body, impl block). Crossing another
// function first means the node is a closure, not a method.
func insideMethodContainer(node *sitter.Node, spec *grammars.Spec) bool {
	for parent := node.Parent(); parent != nil; parent = parent.Parent() {
		kind := parent.Kind()
		if spec.MethodContainers[kind] {
			return true
		}
		if spec.FunctionKinds[kind] || spec.MethodKinds[kind] || spec.LambdaKinds[kind] {
			return false
		}
	}
	return false
}

// buildUnit slices the unit out of the source and computes both hashes.
func buildUnit(node *sitter.Node, source []byte, path string, spec *grammars.Spec, kind Kind, anonymous bool) CodeUnit {
	body := string(source[node.StartByte():node.EndByte()])
	if spec.Dedent {
		body = Dedent(body)
	}

	unit := CodeUnit{
		Language:              spec.Name,
		Kind:                  kind,
		Name:                  unitName(node, source, spec, anonymous),
		Signature:             unitSignature(node, source, spec),
		Body:                  body,
		Docstring:             unitDocstring(node, source, spec),
		SourcePath:            path,
		StartLine:             int(node.StartPosition().Row) + 1,
		EndLine:               int(node.EndPosition().Row) + 1,
		ContentHash:           contentHash(body),
		StructuralFingerprint: structuralFingerprint(node, spec),
		Anonymous:             anonymous,
	}
	return unit
}

// unitName extracts the unit's name via the language's name field,
// falling back to the anonymous placeholder. Extraction of the enclosing
// file never aborts on a missing name.
func unitName(node *sitter.Node, source []byte, spec *grammars.Spec, anonymous bool) string {
	if anonymous {
		return AnonymousName
	}

	nameNode := node.ChildByFieldName(spec.NameField)
	if nameNode == nil {
		return AnonymousName
	}
	if isIdentifierKind(nameNode.Kind()) {
		return nodeText(nameNode, source)
	}

	// Some grammars nest the name (C's declarator chains); descend to the
	// first identifier leaf.
	if id := findIdentifier(nameNode); id != nil {
		return nodeText(id, source)
	}
	return AnonymousName
}

// unitSignature slices the declaration text from the node start up to the
// body-open marker. Units without a body field keep their first line.
func unitSignature(node *sitter.Node, source []byte, spec *grammars.Spec) string {
	bodyNode := node.ChildByFieldName(spec.BodyField)
	if bodyNode != nil && bodyNode.StartByte() > node.StartByte() {
		sig := string(source[node.StartByte():bodyNode.StartByte()])
		return strings.TrimSpace(sig)
	}

	text := nodeText(node, source)
	if idx := strings.IndexByte(text, '\n'); idx >= 0 {
		text = text[:idx]
	}
	return strings.TrimSpace(text)
}

// unitDocstring extracts leading documentation: the first string
// expression of the body for docstring languages (Python), otherwise the
// contiguous comment block immediately above the unit.
func unitDocstring(node *sitter.Node, source []byte, spec *grammars.Spec) string {
	if spec.DocstringInBody {
		return bodyDocstring(node, source, spec)
	}
	return leadingComments(node, source, spec)
}

// bodyDocstring returns the Python-style docstring: the body's first
// statement when it is a bare string expression.
func bodyDocstring(node *sitter.Node, source []byte, spec *grammars.Spec) string {
	bodyNode := node.ChildByFieldName(spec.BodyField)
	if bodyNode == nil || bodyNode.NamedChildCount() == 0 {
		return ""
	}

	first := bodyNode.NamedChild(0)
	if first == nil || first.Kind() != "expression_statement" || first.NamedChildCount() == 0 {
		return ""
	}
	expr := first.NamedChild(0)
	if expr == nil || expr.Kind() != "string" {
		return ""
	}
	return trimStringQuotes(nodeText(expr, source))
}

// leadingComments collects the contiguous comment block ending on the
// line directly above the unit.
func leadingComments(node *sitter.Node, source []byte, spec *grammars.Spec) string {
	var parts []string
	expectedRow := int(node.StartPosition().Row)

	for sibling := node.PrevNamedSibling(); sibling != nil; sibling = sibling.PrevNamedSibling() {
		if !spec.CommentKinds[sibling.Kind()] {
			break
		}
		endRow := int(sibling.EndPosition().Row)
		if endRow < expectedRow-1 {
			break
		}
		parts = append(parts, nodeText(sibling, source))
		expectedRow = int(sibling.StartPosition().Row)
	}

	if len(parts) == 0 {
		return ""
	}
	// Collected bottom-up; restore source order.
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, "\n")
}

// trimStringQuotes strips matching quote delimiters from a string literal.
func trimStringQuotes(s string) string {
	for _, q := range []string{`"""`, `'''`, `"`, `'`} {
		if len(s) >= 2*len(q) && strings.HasPrefix(s, q) && strings.HasSuffix(s, q) {
			return strings.TrimSpace(s[len(q) : len(s)-len(q)])
		}
	}
	return strings.TrimSpace(s)
}

// nodeText extracts the text content of a tree-sitter node.
func nodeText(node *sitter.Node, source []byte) string {
	if node == nil {
		return ""
	}
	return string(source[node.StartByte():node.EndByte()])
}

// findIdentifier finds the first identifier leaf under a node.
func findIdentifier(node *sitter.Node) *sitter.Node {
	if node == nil {
		return nil
	}
	if isIdentifierKind(node.Kind()) {
		return node
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		if found := findIdentifier(node.Child(i)); found != nil {
			return found
		}
	}
	return nil
}

// walkTree recursively walks a tree-sitter tree and calls the visitor for
// each node. Returning false from the visitor stops descent.
func walkTree(node *sitter.Node, visitor func(*sitter.Node) bool) {
	if node == nil {
		return
	}
	if !visitor(node) {
		return
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		walkTree(node.Child(i), visitor)
	}
}
