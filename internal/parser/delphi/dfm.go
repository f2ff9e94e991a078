package delphi

import (
	"regexp"
	"strings"

	"github.com/devpware/codeatlas/internal/model"
)

var reDfmObject = regexp.MustCompile(`(?i)^\s*(?:object|inherited)\s+(\w+)\s*:\s*(\w+)`)

// parseDfm reads a form definition (.dfm/.fmx) line by line, tracking
// nesting depth so component hierarchy survives into the symbol list.
// Every component becomes a property symbol whose Extends records the
// component class ("Button1: TButton").
func parseDfm(src model.SourceFile, content string) model.ParsedFile {
	parsed := model.ParsedFile{Source: src}

	depth := 0
	for i, line := range strings.Split(content, "\n") {
		if m := reDfmObject.FindStringSubmatch(line); m != nil {
			name, typ := m[1], m[2]
			parsed.Symbols = append(parsed.Symbols, model.Symbol{
				Name:          name,
				QualifiedName: name + ": " + typ,
				Kind:          model.SymProperty,
				Extends:       typ,
				LineStart:     i + 1,
			})
			depth++
			continue
		}
		trimmed := strings.ToLower(strings.TrimSpace(line))
		if trimmed == "end" || trimmed == "end;" {
			if depth > 0 {
				depth--
			}
		}
	}
	if depth != 0 {
		parsed.Warnings = append(parsed.Warnings,
			"unbalanced object/end nesting in form definition")
	}
	return parsed
}
