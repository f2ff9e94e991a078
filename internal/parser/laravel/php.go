package laravel

import (
	"regexp"
	"strings"

	"github.com/devpware/codeatlas/internal/model"
)

// Base PHP extraction shared by every specialized extractor: namespace,
// imports, type declarations, members. Pure pattern searches over the raw
// source; a half-written class simply yields fewer symbols.
var (
	rePhpNamespace = regexp.MustCompile(`(?m)^\s*namespace\s+([\w\\]+)\s*;`)
	// Top-level imports are unindented; indented `use` lines inside class
	// bodies are trait usage and handled separately.
	rePhpUse = regexp.MustCompile(`(?m)^use\s+([\w\\]+)(?:\s+as\s+(\w+))?\s*;`)
	rePhpClass     = regexp.MustCompile(`(?m)^\s*(?:(abstract|final)\s+)?class\s+(\w+)(?:\s+extends\s+([\w\\]+))?(?:\s+implements\s+([\w\\,\s]+))?`)
	rePhpInterface = regexp.MustCompile(`(?m)^\s*interface\s+(\w+)(?:\s+extends\s+([\w\\,\s]+))?`)
	rePhpTrait     = regexp.MustCompile(`(?m)^\s*trait\s+(\w+)`)
	rePhpTraitUse  = regexp.MustCompile(`(?m)^\s+use\s+([\w\\]+(?:\s*,\s*[\w\\]+)*)\s*;`)
	rePhpFunction  = regexp.MustCompile(`(?m)^\s*function\s+(\w+)\s*\(`)
	rePhpMethod    = regexp.MustCompile(`(?m)^\s*(public|protected|private)\s+(?:(static)\s+)?function\s+(\w+)\s*\(`)
	rePhpProperty  = regexp.MustCompile(`(?m)^\s*(public|protected|private)\s+(?:(static)\s+)?(?:(\??[\w\\]+)\s+)?\$(\w+)`)
	rePhpConst     = regexp.MustCompile(`(?m)^\s*(?:(?:public|protected|private)\s+)?const\s+(\w+)`)
)

// parsePHP extracts namespace, use imports and declared symbols from a PHP
// source file.
func parsePHP(src model.SourceFile, content string) model.ParsedFile {
	parsed := model.ParsedFile{Source: src}

	ns := ""
	if m := rePhpNamespace.FindStringSubmatch(content); m != nil {
		ns = m[1]
		parsed.SetMeta("namespace", ns)
	}

	for _, loc := range rePhpUse.FindAllStringSubmatchIndex(content, -1) {
		target := content[loc[2]:loc[3]]
		dep := model.Dependency{
			Target: target,
			Line:   phpLineOf(content, loc[0]),
		}
		if loc[4] >= 0 {
			dep.Alias = content[loc[4]:loc[5]]
		}
		parsed.Dependencies = append(parsed.Dependencies, dep)
	}

	qualify := func(name string) string {
		if ns == "" {
			return name
		}
		return ns + `\` + name
	}

	for _, loc := range rePhpClass.FindAllStringSubmatchIndex(content, -1) {
		modifier := ""
		if loc[2] >= 0 {
			modifier = content[loc[2]:loc[3]]
		}
		name := content[loc[4]:loc[5]]
		sym := model.Symbol{
			Name:          name,
			QualifiedName: qualify(name),
			Kind:          model.SymClass,
			IsAbstract:    modifier == "abstract",
			LineStart:     phpLineOf(content, loc[0]),
		}
		if loc[6] >= 0 {
			sym.Extends = content[loc[6]:loc[7]]
		}
		if loc[8] >= 0 {
			for _, raw := range strings.Split(content[loc[8]:loc[9]], ",") {
				if v := strings.TrimSpace(raw); v != "" {
					sym.Implements = append(sym.Implements, v)
				}
			}
		}
		parsed.Symbols = append(parsed.Symbols, sym)
	}

	for _, loc := range rePhpInterface.FindAllStringSubmatchIndex(content, -1) {
		name := content[loc[2]:loc[3]]
		sym := model.Symbol{
			Name:          name,
			QualifiedName: qualify(name),
			Kind:          model.SymInterface,
			LineStart:     phpLineOf(content, loc[0]),
		}
		if loc[4] >= 0 {
			for _, raw := range strings.Split(content[loc[4]:loc[5]], ",") {
				if v := strings.TrimSpace(raw); v != "" {
					sym.Implements = append(sym.Implements, v)
				}
			}
		}
		parsed.Symbols = append(parsed.Symbols, sym)
	}

	for _, loc := range rePhpTrait.FindAllStringSubmatchIndex(content, -1) {
		name := content[loc[2]:loc[3]]
		parsed.Symbols = append(parsed.Symbols, model.Symbol{
			Name:          name,
			QualifiedName: qualify(name),
			Kind:          model.SymTrait,
			LineStart:     phpLineOf(content, loc[0]),
		})
	}

	for _, loc := range rePhpMethod.FindAllStringSubmatchIndex(content, -1) {
		name := content[loc[6]:loc[7]]
		parsed.Symbols = append(parsed.Symbols, model.Symbol{
			Name:          name,
			QualifiedName: qualify(name),
			Kind:          model.SymMethod,
			Visibility:    model.Visibility(content[loc[2]:loc[3]]),
			IsStatic:      loc[4] >= 0,
			LineStart:     phpLineOf(content, loc[0]),
		})
	}

	// Free functions only: anything with a visibility modifier is matched
	// by the method pattern instead, and magic methods add noise without
	// signal.
	for _, loc := range rePhpFunction.FindAllStringSubmatchIndex(content, -1) {
		name := content[loc[2]:loc[3]]
		if strings.HasPrefix(name, "__") {
			continue
		}
		parsed.Symbols = append(parsed.Symbols, model.Symbol{
			Name:          name,
			QualifiedName: qualify(name),
			Kind:          model.SymFunction,
			LineStart:     phpLineOf(content, loc[0]),
		})
	}

	for _, loc := range rePhpProperty.FindAllStringSubmatchIndex(content, -1) {
		name := content[loc[8]:loc[9]]
		parsed.Symbols = append(parsed.Symbols, model.Symbol{
			Name:          name,
			QualifiedName: qualify(name),
			Kind:          model.SymProperty,
			Visibility:    model.Visibility(content[loc[2]:loc[3]]),
			IsStatic:      loc[4] >= 0,
			LineStart:     phpLineOf(content, loc[0]),
		})
	}

	for _, loc := range rePhpConst.FindAllStringSubmatchIndex(content, -1) {
		name := content[loc[2]:loc[3]]
		parsed.Symbols = append(parsed.Symbols, model.Symbol{
			Name:          name,
			QualifiedName: qualify(name),
			Kind:          model.SymConstant,
			LineStart:     phpLineOf(content, loc[0]),
		})
	}

	return parsed
}

// traitsUsed finds `use SomeTrait;` statements inside class bodies,
// distinguished from top-level imports by indentation.
func traitsUsed(content string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, m := range rePhpTraitUse.FindAllStringSubmatch(content, -1) {
		for _, raw := range strings.Split(m[1], ",") {
			name := strings.TrimSpace(raw)
			if name == "" || seen[name] {
				continue
			}
			seen[name] = true
			out = append(out, name)
		}
	}
	return out
}

func phpLineOf(content string, offset int) int {
	if offset < 0 || offset > len(content) {
		return 0
	}
	return strings.Count(content[:offset], "\n") + 1
}
