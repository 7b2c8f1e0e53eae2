package extract

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
	"github.com/zeebo/xxh3"

	"github.com/mvp-joe/codecorpus/internal/extract/grammars"
)

// contentHash computes the exact-duplicate key: SHA-256 over the
// whitespace-normalized body.
func contentHash(body string) string {
	sum := sha256.Sum256([]byte(NormalizeBody(body)))
	return hex.EncodeToString(sum[:])
}

// structuralFingerprint computes the near-duplicate key: a hash over the
// syntax tree's node kinds and arities. Identifier leaves contribute a
// fixed token and comments contribute nothing, so renaming variables or
// reformatting does not change the fingerprint while any structural
// change does.
func structuralFingerprint(node *sitter.Node, spec *grammars.Spec) string {
	h := xxh3.New()
	hashShape(h, node, spec)
	return hex.EncodeToString(h.Sum(nil))
}

func hashShape(h io.Writer, node *sitter.Node, spec *grammars.Spec) {
	kind := node.Kind()
	if spec.CommentKinds[kind] {
		return
	}
	if isIdentifierKind(kind) {
		io.WriteString(h, "id;")
		return
	}

	fmt.Fprintf(h, "%s/%d;", kind, node.NamedChildCount())
	for i := uint(0); i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		if child == nil || !child.IsNamed() {
			continue
		}
		hashShape(h, child, spec)
	}
}

// isIdentifierKind matches the identifier-bearing leaf kinds across the
// registered grammars (identifier, field_identifier, property_identifier,
// type_identifier, constant, ...).
func isIdentifierKind(kind string) bool {
	return strings.Contains(kind, "identifier") || kind == "constant" || kind == "variable_name"
}
