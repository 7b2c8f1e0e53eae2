package filter

// Limits bound the size of an acceptable unit body.
type Limits struct {
	MinChars int `yaml:"min_chars" mapstructure:"min_chars"`
	MaxChars int `yaml:"max_chars" mapstructure:"max_chars"`
	MinLines int `yaml:"min_lines" mapstructure:"min_lines"`
	MaxLines int `yaml:"max_lines" mapstructure:"max_lines"`
}

// defaultLimits apply to languages without an override.
var defaultLimits = Limits{
	MinChars: 80,
	MaxChars: 8000,
	MinLines: 3,
	MaxLines: 200,
}

// languageLimits carry per-language defaults. Denser languages tolerate
// shorter minimums.
var languageLimits = map[string]Limits{
	"c":    {MinChars: 50, MaxChars: 8000, MinLines: 2, MaxLines: 200},
	"cpp":  {MinChars: 50, MaxChars: 8000, MinLines: 2, MaxLines: 200},
	"rust": {MinChars: 50, MaxChars: 8000, MinLines: 2, MaxLines: 200},
	"ruby": {MinChars: 60, MaxChars: 8000, MinLines: 3, MaxLines: 200},
}

// limitsFor resolves the effective limits for a language: configured
// override first, then language default, then the global default.
func (f *Filter) limitsFor(language string) Limits {
	if l, ok := f.cfg.Limits[language]; ok {
		return l
	}
	if l, ok := languageLimits[language]; ok {
		return l
	}
	return defaultLimits
}
