package grammars

// builtinSpecs returns the specs bundled with the binary. Each language
// lives in its own file; new languages are added by appending here.
func builtinSpecs() []*Spec {
	return []*Spec{
		NewPythonSpec(),
		NewTypeScriptSpec(),
		NewJavaScriptSpec(),
		NewJavaSpec(),
		NewCSpec(),
		NewCppSpec(),
		NewRubySpec(),
		NewRustSpec(),
		NewPhpSpec(),
	}
}
