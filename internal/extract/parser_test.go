package extract

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvp-joe/codecorpus/internal/extract/grammars"
)

// Test Plan for Extraction:
// - Extract() emits one unit per function, method and class
// - Methods inside classes are classified as methods
// - Nested functions are emitted independently as functions
// - Lambdas become anonymous function units
// - Python docstrings are captured from the body's first string
// - Comment-style docs are captured from the contiguous block above
// - Extract() is deterministic (same input, same units)
// - Content hashes ignore formatting differences
// - Structural fingerprints survive identifier renames
// - Structural fingerprints change when control flow changes
// - Syntax errors degrade extraction instead of failing it
// - Unsupported language tags return ErrUnsupportedLanguage
// - Cancelled contexts abort extraction
// - C function names are found under the declarator chain

func newTestParser(t *testing.T) *Parser {
	t.Helper()
	return NewParser(grammars.DefaultRegistry())
}

func TestExtract_PythonFunctionsClassesAndMethods(t *testing.T) {
	t.Parallel()
	parser := newTestParser(t)

	source := []byte(`def top(a, b):
    """Add or subtract depending on order."""
    if a > b:
        return a + b
    return a - b


class Greeter:
    def greet(self, name):
        return "hi " + name
`)

	extraction, err := parser.Extract(context.Background(), "pkg/example.py", "python", source)
	require.NoError(t, err)
	assert.False(t, extraction.Degraded)
	require.Len(t, extraction.Units, 3)

	top := extraction.Units[0]
	assert.Equal(t, KindFunction, top.Kind)
	assert.Equal(t, "top", top.Name)
	assert.Equal(t, "def top(a, b):", top.Signature)
	assert.Equal(t, "Add or subtract depending on order.", top.Docstring)
	assert.Equal(t, "python", top.Language)
	assert.Equal(t, "pkg/example.py", top.SourcePath)
	assert.Equal(t, 1, top.StartLine)
	assert.NotEmpty(t, top.ContentHash)
	assert.NotEmpty(t, top.StructuralFingerprint)

	class := extraction.Units[1]
	assert.Equal(t, KindClass, class.Kind)
	assert.Equal(t, "Greeter", class.Name)

	method := extraction.Units[2]
	assert.Equal(t, KindMethod, method.Kind)
	assert.Equal(t, "greet", method.Name)
}

func TestExtract_NestedFunctionsEmittedIndependently(t *testing.T) {
	t.Parallel()
	parser := newTestParser(t)

	source := []byte(`def outer(items):
    def inner(x):
        return x * 2
    return [inner(i) for i in items]
`)

	extraction, err := parser.Extract(context.Background(), "nested.py", "python", source)
	require.NoError(t, err)
	require.Len(t, extraction.Units, 2)

	assert.Equal(t, "outer", extraction.Units[0].Name)
	assert.Equal(t, "inner", extraction.Units[1].Name)
	// A function nested in a function is a closure, not a method.
	assert.Equal(t, KindFunction, extraction.Units[1].Kind)
}

func TestExtract_LambdasAreAnonymousFunctions(t *testing.T) {
	t.Parallel()
	parser := newTestParser(t)

	source := []byte("double = lambda x: x * 2\n")

	extraction, err := parser.Extract(context.Background(), "lambda.py", "python", source)
	require.NoError(t, err)
	require.Len(t, extraction.Units, 1)

	unit := extraction.Units[0]
	assert.Equal(t, KindFunction, unit.Kind)
	assert.Equal(t, AnonymousName, unit.Name)
	assert.True(t, unit.Anonymous)
}

func TestExtract_CommentDocsCapturedAboveUnit(t *testing.T) {
	t.Parallel()
	parser := newTestParser(t)

	source := []byte(`// Fetches a user by id.
// Returns null when missing.
function fetchUser(id) {
  if (!id) {
    return null;
  }
  return registry.get(id);
}
`)

	extraction, err := parser.Extract(context.Background(), "fetch.ts", "typescript", source)
	require.NoError(t, err)
	require.Len(t, extraction.Units, 1)

	unit := extraction.Units[0]
	assert.Equal(t, "fetchUser", unit.Name)
	assert.Equal(t, "// Fetches a user by id.\n// Returns null when missing.", unit.Docstring)
}

func TestExtract_IsDeterministic(t *testing.T) {
	t.Parallel()
	parser := newTestParser(t)

	source := []byte(`def stable(a):
    if a > 0:
        return a
    return -a
`)

	first, err := parser.Extract(context.Background(), "stable.py", "python", source)
	require.NoError(t, err)
	second, err := parser.Extract(context.Background(), "stable.py", "python", source)
	require.NoError(t, err)

	assert.Equal(t, first.Units, second.Units)
}

func TestExtract_ContentHashIgnoresFormatting(t *testing.T) {
	t.Parallel()
	parser := newTestParser(t)

	compact := []byte("def f(a):\n    return a + 1\n")
	spread := []byte("def f(a):\n        return  a  +  1\n")

	a, err := parser.Extract(context.Background(), "a.py", "python", compact)
	require.NoError(t, err)
	b, err := parser.Extract(context.Background(), "b.py", "python", spread)
	require.NoError(t, err)

	require.Len(t, a.Units, 1)
	require.Len(t, b.Units, 1)
	assert.Equal(t, a.Units[0].ContentHash, b.Units[0].ContentHash)
	assert.Equal(t, a.Units[0].StructuralFingerprint, b.Units[0].StructuralFingerprint)
}

func TestExtract_FingerprintSurvivesRenames(t *testing.T) {
	t.Parallel()
	parser := newTestParser(t)

	original := []byte(`def alpha(first, second):
    total = first + second
    return total
`)
	renamed := []byte(`def beta(x, y):
    acc = x + y
    return acc
`)

	a, err := parser.Extract(context.Background(), "a.py", "python", original)
	require.NoError(t, err)
	b, err := parser.Extract(context.Background(), "b.py", "python", renamed)
	require.NoError(t, err)

	require.Len(t, a.Units, 1)
	require.Len(t, b.Units, 1)
	assert.NotEqual(t, a.Units[0].ContentHash, b.Units[0].ContentHash)
	assert.Equal(t, a.Units[0].StructuralFingerprint, b.Units[0].StructuralFingerprint)
}

func TestExtract_FingerprintChangesWithStructure(t *testing.T) {
	t.Parallel()
	parser := newTestParser(t)

	straight := []byte(`def f(a, b):
    total = a + b
    return total
`)
	branching := []byte(`def f(a, b):
    if a > b:
        return a
    return b
`)

	a, err := parser.Extract(context.Background(), "a.py", "python", straight)
	require.NoError(t, err)
	b, err := parser.Extract(context.Background(), "b.py", "python", branching)
	require.NoError(t, err)

	require.Len(t, a.Units, 1)
	require.Len(t, b.Units, 1)
	assert.NotEqual(t, a.Units[0].StructuralFingerprint, b.Units[0].StructuralFingerprint)
}

func TestExtract_SyntaxErrorsDegradeInsteadOfFailing(t *testing.T) {
	t.Parallel()
	parser := newTestParser(t)

	source := []byte(`def good(a):
    if a > 0:
        return a
    return 0

def broken(:
`)

	extraction, err := parser.Extract(context.Background(), "broken.py", "python", source)
	require.NoError(t, err)
	assert.True(t, extraction.Degraded)

	names := make([]string, 0, len(extraction.Units))
	for _, unit := range extraction.Units {
		names = append(names, unit.Name)
	}
	assert.Contains(t, names, "good")
	assert.NotContains(t, names, "broken")
}

func TestExtract_UnsupportedLanguageReturnsSentinel(t *testing.T) {
	t.Parallel()
	parser := newTestParser(t)

	_, err := parser.Extract(context.Background(), "main.f90", "fortran", []byte("program hello"))
	assert.ErrorIs(t, err, grammars.ErrUnsupportedLanguage)
}

func TestExtract_CancelledContextAborts(t *testing.T) {
	t.Parallel()
	parser := newTestParser(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := parser.Extract(ctx, "x.py", "python", []byte("def f():\n    return 1\n"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestExtract_CFunctionNameUnderDeclarator(t *testing.T) {
	t.Parallel()
	parser := newTestParser(t)

	source := []byte(`int add(int a, int b) {
    int total = a + b;
    return total;
}
`)

	extraction, err := parser.Extract(context.Background(), "math.c", "c", source)
	require.NoError(t, err)
	require.Len(t, extraction.Units, 1)

	unit := extraction.Units[0]
	assert.Equal(t, "add", unit.Name)
	assert.Equal(t, KindFunction, unit.Kind)
	assert.Equal(t, "int add(int a, int b)", unit.Signature)
}

func TestExtract_RustImplFunctionsAreMethods(t *testing.T) {
	t.Parallel()
	parser := newTestParser(t)

	source := []byte(`struct Counter {
    value: i64,
}

impl Counter {
    fn increment(&mut self, by: i64) {
        self.value += by;
    }
}

fn standalone(n: i64) -> i64 {
    n * 2
}
`)

	extraction, err := parser.Extract(context.Background(), "counter.rs", "rust", source)
	require.NoError(t, err)
	require.Len(t, extraction.Units, 2)

	assert.Equal(t, "increment", extraction.Units[0].Name)
	assert.Equal(t, KindMethod, extraction.Units[0].Kind)
	assert.Equal(t, "standalone", extraction.Units[1].Name)
	assert.Equal(t, KindFunction, extraction.Units[1].Kind)
}
