package extract

// Kind classifies an extracted code unit.
type Kind string

const (
	KindFunction Kind = "function"
	KindMethod   Kind = "method"
	KindClass    Kind = "class"
)

// AnonymousName is the placeholder name for lambdas and closures, which
// have no name node. The quality filter accepts it only for those kinds.
const AnonymousName = "anonymous"

// CodeUnit is the atomic extracted artifact: one function, method, or
// class body with provenance and both dedup hashes. Units are immutable
// after extraction; the hashes are computed exactly once.
type CodeUnit struct {
	Language  string
	Kind      Kind
	Name      string
	Signature string
	Body      string
	Docstring string

	SourcePath string
	StartLine  int
	EndLine    int

	// ContentHash is a SHA-256 over the whitespace-normalized body.
	ContentHash string

	// StructuralFingerprint hashes the syntax-tree shape with identifiers
	// erased, so renamed or reformatted copies collide.
	StructuralFingerprint string

	// Anonymous marks lambda/closure units carrying the placeholder name.
	Anonymous bool
}

// Extraction is the result of parsing one source file.
type Extraction struct {
	Language   string
	SourcePath string
	Units      []CodeUnit

	// Degraded is set when the grammar reported syntax errors and the
	// units are a best-effort extraction from the clean subtrees.
	Degraded bool
}
