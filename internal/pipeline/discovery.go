package pipeline

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"

	"github.com/mvp-joe/codecorpus/internal/extract/grammars"
)

// SourceFile is the external enumerator's input tuple: a path, a language
// tag, and the raw source text. Content may be nil, in which case the
// coordinator reads the file lazily.
type SourceFile struct {
	Path     string
	Language string
	Content  []byte
}

// compiledPattern holds both the pattern string and compiled glob.
type compiledPattern struct {
	pattern string
	glob    glob.Glob
}

// Discovery enumerates source files under a repository root using the
// grammar registry for language detection and glob patterns for ignores.
type Discovery struct {
	rootDir        string
	registry       *grammars.Registry
	ignorePatterns []compiledPattern
}

// NewDiscovery compiles the ignore patterns up front so a bad pattern
// fails at construction, not mid-walk.
func NewDiscovery(rootDir string, registry *grammars.Registry, ignorePatterns []string) (*Discovery, error) {
	d := &Discovery{
		rootDir:  rootDir,
		registry: registry,
	}

	for _, pattern := range ignorePatterns {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, err
		}
		d.ignorePatterns = append(d.ignorePatterns, compiledPattern{pattern: pattern, glob: g})
	}

	return d, nil
}

// DefaultIgnorePatterns skip dependency and build trees. Each tree is
// listed twice because the glob separator makes "dir/**" anchor at the
// root while "**/dir/**" only matches nested occurrences.
func DefaultIgnorePatterns() []string {
	patterns := []string{}
	for _, dir := range []string{
		"node_modules", "vendor", ".git", "dist", "build", "target", "__pycache__",
	} {
		patterns = append(patterns, dir+"/**", "**/"+dir+"/**")
	}
	return patterns
}

// Discover walks the tree and returns one SourceFile per file whose
// extension resolves to a registered grammar. Content is left nil.
func (d *Discovery) Discover() ([]SourceFile, error) {
	files := []SourceFile{}

	err := filepath.Walk(d.rootDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}

		relPath, err := filepath.Rel(d.rootDir, path)
		if err != nil {
			return err
		}
		relPath = strings.ReplaceAll(relPath, string(filepath.Separator), "/")

		if d.ignored(relPath) {
			return nil
		}

		spec, err := d.registry.ResolveExt(relPath)
		if err != nil {
			// Not a language we extract; skip silently.
			return nil
		}

		files = append(files, SourceFile{
			Path:     path,
			Language: spec.Name,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	return files, nil
}

func (d *Discovery) ignored(relPath string) bool {
	for _, p := range d.ignorePatterns {
		if p.glob.Match(relPath) {
			return true
		}
	}
	return false
}
