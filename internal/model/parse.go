package model

// Symbol is a named program entity extracted from a source file.
type Symbol struct {
	Name          string     `json:"name"`
	QualifiedName string     `json:"qualified_name"`
	Kind          SymbolKind `json:"kind"`
	Visibility    Visibility `json:"visibility,omitempty"`
	IsAbstract    bool       `json:"is_abstract,omitempty"`
	IsStatic      bool       `json:"is_static,omitempty"`
	Extends       string     `json:"extends,omitempty"`
	Implements    []string   `json:"implements,omitempty"`
	LineStart     int        `json:"line_start,omitempty"`
	LineEnd       int        `json:"line_end,omitempty"`
}

// Dependency is a reference from one file to another compilation unit:
// a Delphi uses-clause entry, a PHP use import, a Blade @extends target.
// Target is the raw string as written in the source.
type Dependency struct {
	Target string `json:"target"`
	Alias  string `json:"alias,omitempty"`
	Line   int    `json:"line,omitempty"`

	// IsInterface / IsImplementation record which Delphi section the
	// uses-clause entry appeared in. Both false for other languages.
	IsInterface      bool `json:"is_interface,omitempty"`
	IsImplementation bool `json:"is_implementation,omitempty"`
}

// ParsedFile is the complete extraction result for one source file.
// Metadata carries parser-specific facts (route tables, model relationships,
// Blade sections) keyed by well-known strings; consumers that do not know a
// key ignore it.
type ParsedFile struct {
	Source       SourceFile     `json:"source"`
	Symbols      []Symbol       `json:"symbols"`
	Dependencies []Dependency   `json:"dependencies"`
	Metadata     map[string]any `json:"metadata,omitempty"`
	Warnings     []string       `json:"warnings,omitempty"`
}

// Meta returns the named metadata value, or nil.
func (p *ParsedFile) Meta(key string) any {
	if p.Metadata == nil {
		return nil
	}
	return p.Metadata[key]
}

// MetaString returns the named metadata value as a string, or "".
func (p *ParsedFile) MetaString(key string) string {
	s, _ := p.Meta(key).(string)
	return s
}

// SetMeta records a metadata value, allocating the map on first use.
func (p *ParsedFile) SetMeta(key string, value any) {
	if p.Metadata == nil {
		p.Metadata = make(map[string]any)
	}
	p.Metadata[key] = value
}

// ParseResult aggregates the outcome of parsing a whole project. A file
// ends up either in Files or in Errors, never both; TotalProcessed counts
// both outcomes so progress and completeness checks line up.
type ParseResult struct {
	Files          []ParsedFile      `json:"files"`
	Errors         map[string]string `json:"errors,omitempty"`
	TotalProcessed int               `json:"total_processed"`
}

// NewParseResult returns an empty result ready for accumulation.
func NewParseResult() *ParseResult {
	return &ParseResult{Errors: make(map[string]string)}
}

// AddFile records a successful parse.
func (r *ParseResult) AddFile(f ParsedFile) {
	r.Files = append(r.Files, f)
	r.TotalProcessed++
}

// AddError records a failed parse for the given relative path.
func (r *ParseResult) AddError(path, message string) {
	if r.Errors == nil {
		r.Errors = make(map[string]string)
	}
	r.Errors[path] = message
	r.TotalProcessed++
}

// HasErrors reports whether any file failed to parse.
func (r *ParseResult) HasErrors() bool { return len(r.Errors) > 0 }

// SuccessCount is the number of files that parsed cleanly.
func (r *ParseResult) SuccessCount() int { return len(r.Files) }
