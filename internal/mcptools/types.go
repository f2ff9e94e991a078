package mcptools

// --- MCP tool types for the analysis server mode (codeatlas mcp) ---
// These tools let an MCP client call structured analysis operations
// instead of shelling out to the CLI.

// DetectInput is the input for the detect_project_type MCP tool.
type DetectInput struct {
	Path string `json:"path" jsonschema:"path to the project root"`
}

// DetectOutput is the result of the detect_project_type MCP tool.
type DetectOutput struct {
	ProjectType   string           `json:"projectType"`
	Confidence    float64          `json:"confidence"`
	ParserID      string           `json:"parserId"`
	MultiLanguage bool             `json:"multiLanguage"`
	Markers       []string         `json:"markers,omitempty"`
	Secondary     []SecondaryScore `json:"secondary,omitempty"`
}

// SecondaryScore is a non-primary technology detected alongside the main one.
type SecondaryScore struct {
	ProjectType string  `json:"projectType"`
	Confidence  float64 `json:"confidence"`
}

// ListParsersInput is the input for the list_parsers MCP tool.
type ListParsersInput struct{}

// ListParsersOutput is the result of the list_parsers MCP tool.
type ListParsersOutput struct {
	Parsers []ParserSummary `json:"parsers"`
}

// ParserSummary is a brief overview of one registered parser.
type ParserSummary struct {
	ID             string   `json:"id"`
	DisplayName    string   `json:"displayName"`
	Version        string   `json:"version"`
	FileExtensions []string `json:"fileExtensions"`
	Available      bool     `json:"available"`
}

// ScanInput is the input for the scan_project MCP tool.
type ScanInput struct {
	Path   string `json:"path" jsonschema:"path to the project root"`
	Parser string `json:"parser,omitempty" jsonschema:"parser id to use (default: auto-detect)"`
}

// ScanOutput is the result of the scan_project MCP tool.
type ScanOutput struct {
	TotalFiles int           `json:"totalFiles"`
	Files      []FileSummary `json:"files"`
}

// FileSummary describes one scanned source file.
type FileSummary struct {
	Path      string `json:"path"`
	Extension string `json:"extension"`
	SizeBytes int64  `json:"sizeBytes"`
}

// AnalyzeInput is the input for the analyze_project MCP tool.
type AnalyzeInput struct {
	Path    string `json:"path" jsonschema:"path to the project root"`
	Parser  string `json:"parser,omitempty" jsonschema:"parser id to use (default: auto-detect)"`
	Workers int    `json:"workers,omitempty" jsonschema:"parallel parse workers (default: serial)"`
	Format  string `json:"format,omitempty" jsonschema:"graph output format: json or mermaid (default: json)"`
}

// AnalyzeOutput is the result of the analyze_project MCP tool.
type AnalyzeOutput struct {
	ProjectName string `json:"projectName"`
	Language    string `json:"language"`
	NodeCount   int    `json:"nodeCount"`
	EdgeCount   int    `json:"edgeCount"`
	FilesParsed int    `json:"filesParsed"`
	ParseErrors int    `json:"parseErrors"`
	Graph       string `json:"graph"`
}
