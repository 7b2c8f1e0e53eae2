// Package filter scores extracted code units against training-data
// quality heuristics. Scoring is deterministic and stateless: the same
// unit always produces the same verdict.
package filter

import (
	"regexp"
	"strings"

	"github.com/mvp-joe/codecorpus/internal/extract"
	"github.com/mvp-joe/codecorpus/internal/extract/grammars"
)

// Verdict is the per-unit quality decision.
type Verdict struct {
	// Score is the weighted composite, 0-100.
	Score float64

	// Accepted is true when the score clears the threshold and no
	// hard-fail rule triggered.
	Accepted bool

	// Reasons lists rejection causes in rule order; Reasons[0] is the
	// first failing rule.
	Reasons []string
}

// Config tunes the filter. Zero values fall back to defaults.
type Config struct {
	// Threshold is the minimum composite score for acceptance.
	Threshold float64 `yaml:"threshold" mapstructure:"threshold"`

	// MinUniqueTokens is the complexity floor on distinct tokens.
	MinUniqueTokens int `yaml:"min_unique_tokens" mapstructure:"min_unique_tokens"`

	// Limits overrides per-language size bounds.
	Limits map[string]Limits `yaml:"limits" mapstructure:"limits"`
}

// DefaultConfig returns the default filter tuning.
func DefaultConfig() Config {
	return Config{
		Threshold:       60,
		MinUniqueTokens: 8,
	}
}

// Filter applies the quality heuristics. Identifier validity is checked
// against the unit language's grammar spec.
type Filter struct {
	cfg      Config
	registry *grammars.Registry
}

// New creates a filter. A nil registry disables language-specific
// identifier validation (a bare non-empty check remains).
func New(cfg Config, registry *grammars.Registry) *Filter {
	if cfg.Threshold == 0 {
		cfg.Threshold = DefaultConfig().Threshold
	}
	if cfg.MinUniqueTokens == 0 {
		cfg.MinUniqueTokens = DefaultConfig().MinUniqueTokens
	}
	return &Filter{cfg: cfg, registry: registry}
}

// Rule weights. Length and identifier validity are hard-fail gates;
// boilerplate and complexity only shape the score.
const (
	weightLength     = 30.0
	weightBoiler     = 15.0
	weightComplexity = 25.0
	weightIdentifier = 15.0
	weightMarkers    = 15.0
)

var (
	tokenPattern = regexp.MustCompile(`[A-Za-z_][A-Za-z0-9_]*|\d+`)

	// maintenanceMarkers signal incomplete code unsuitable as a positive
	// training example.
	maintenanceMarkers = regexp.MustCompile(`\b(TODO|FIXME|XXX|HACK|WIP)\b`)

	controlKeywords = map[string]bool{
		"if": true, "else": true, "elif": true, "for": true, "while": true,
		"switch": true, "case": true, "match": true, "try": true,
		"catch": true, "except": true, "finally": true, "return": true,
		"yield": true, "break": true, "continue": true, "loop": true,
		"unless": true, "rescue": true, "when": true, "foreach": true,
	}

	// boilerplatePatterns match near-empty stub bodies on the
	// whitespace-normalized rendering.
	boilerplatePatterns = []*regexp.Regexp{
		regexp.MustCompile(`:\s*pass$`),
		regexp.MustCompile(`:\s*\.\.\.$`),
		regexp.MustCompile(`\{\s*\}$`),
		regexp.MustCompile(`\{\s*return\s+[A-Za-z0-9_.\->]+\s*;?\s*\}$`),
		regexp.MustCompile(`\{\s*(this|self)\.[A-Za-z0-9_]+\s*=\s*[A-Za-z0-9_]+\s*;?\s*\}$`),
		regexp.MustCompile(`raise\s+NotImplementedError`),
		regexp.MustCompile(`throw\s+new\s+(UnsupportedOperationException|NotImplementedException)`),
	}
)

// getterSetterFloor is the normalized-body length below which a one-liner
// counts as a trivial accessor.
const getterSetterFloor = 60

// Score evaluates all rules in fixed order. The first failing rule is
// Reasons[0]; the remaining rules are still evaluated so callers see the
// complete rejection picture.
func (f *Filter) Score(unit extract.CodeUnit) Verdict {
	var (
		score    float64
		reasons  []string
		hardFail bool
	)

	normalized := extract.NormalizeBody(unit.Body)
	lines := countLines(unit.Body)

	// Rule 1: length bounds (hard).
	limits := f.limitsFor(unit.Language)
	if reason := checkLength(normalized, lines, limits); reason != "" {
		reasons = append(reasons, reason)
		hardFail = true
	} else {
		score += weightLength
	}

	// Rule 2: boilerplate (soft; a docstring redeems a stub).
	if isBoilerplate(normalized) && unit.Docstring == "" {
		reasons = append(reasons, "boilerplate body")
	} else {
		score += weightBoiler
	}

	// Rule 3: complexity floor (soft).
	unique, control := tokenStats(unit.Body)
	if unique < f.cfg.MinUniqueTokens {
		reasons = append(reasons, "below complexity floor")
	} else {
		score += weightComplexity * complexityScale(unique, control, f.cfg.MinUniqueTokens)
	}

	// Rule 4: identifier validity (hard; anonymous only for lambdas).
	if reason := f.checkIdentifier(unit); reason != "" {
		reasons = append(reasons, reason)
		hardFail = true
	} else {
		score += weightIdentifier
	}

	// Rule 5: maintenance markers (hard).
	if maintenanceMarkers.MatchString(unit.Body) {
		reasons = append(reasons, "maintenance marker in body")
		hardFail = true
	} else {
		score += weightMarkers
	}

	return Verdict{
		Score:    score,
		Accepted: score >= f.cfg.Threshold && !hardFail,
		Reasons:  reasons,
	}
}

// checkLength validates the size bounds against the normalized body and
// raw line count.
func checkLength(normalized string, lines int, limits Limits) string {
	switch {
	case len(normalized) < limits.MinChars:
		return "too short"
	case len(normalized) > limits.MaxChars:
		return "too long"
	case lines < limits.MinLines:
		return "too few lines"
	case lines > limits.MaxLines:
		return "too many lines"
	}
	return ""
}

// checkIdentifier validates the unit name against the language's
// identifier syntax.
func (f *Filter) checkIdentifier(unit extract.CodeUnit) string {
	if unit.Anonymous {
		// Synthetic names are fine for closures/lambdas.
		return ""
	}
	if unit.Name == "" || unit.Name == extract.AnonymousName {
		return "missing name"
	}

	if f.registry == nil {
		return ""
	}
	spec, err := f.registry.Resolve(unit.Language)
	if err != nil || spec.Identifier == nil {
		return ""
	}
	if !spec.Identifier.MatchString(unit.Name) {
		return "invalid identifier"
	}
	return ""
}

// isBoilerplate reports whether the normalized body matches a near-empty
// stub pattern or is a trivial accessor one-liner.
func isBoilerplate(normalized string) bool {
	for _, pattern := range boilerplatePatterns {
		if pattern.MatchString(normalized) && len(normalized) < 2*getterSetterFloor {
			return true
		}
	}
	return false
}

// tokenStats counts distinct tokens and control-structure keywords.
func tokenStats(body string) (unique, control int) {
	seen := make(map[string]bool)
	for _, token := range tokenPattern.FindAllString(body, -1) {
		if !seen[token] {
			seen[token] = true
			unique++
		}
		if controlKeywords[strings.ToLower(token)] {
			control++
		}
	}
	return unique, control
}

// complexityScale maps token/control counts to a 0-1 multiplier. Units at
// the floor earn half the complexity weight; richer units earn the rest
// through control-flow density.
func complexityScale(unique, control, floor int) float64 {
	scale := 0.5
	if unique >= 2*floor {
		scale += 0.25
	}
	if control >= 2 {
		scale += 0.25
	}
	return scale
}

func countLines(body string) int {
	if body == "" {
		return 0
	}
	return strings.Count(body, "\n") + 1
}
