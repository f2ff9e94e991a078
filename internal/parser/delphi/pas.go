package delphi

import (
	"regexp"
	"strings"

	"github.com/devpware/codeatlas/internal/model"
)

// The .pas extractor is a battery of independent regex searches over the
// raw source. Each pattern contributes what it finds; none of them depend
// on the file being well-formed Pascal, so truncated or broken units just
// yield fewer symbols.
var (
	reUnit      = regexp.MustCompile(`(?im)^\s*unit\s+([A-Za-z_][A-Za-z0-9_.]*)\s*;`)
	reUses      = regexp.MustCompile(`(?is)\buses\b\s+(.*?);`)
	reClass     = regexp.MustCompile(`(?i)(\w+)\s*=\s*class\s*(?:\((\w+)\))?`)
	reInterface = regexp.MustCompile(`(?i)(\w+)\s*=\s*interface\s*(?:\(\s*(\w+)\s*\))?`)
	reProcedure = regexp.MustCompile(`(?im)^\s*(?:(class)\s+)?procedure\s+(\w+)(?:\.(\w+))?\s*[(;]`)
	reFunction  = regexp.MustCompile(`(?im)^\s*(?:(class)\s+)?function\s+(\w+)(?:\.(\w+))?\s*[(:]`)
	reUnitName  = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_.]*$`)
)

// parsePas extracts unit name, uses-clause dependencies and declared
// symbols from Pascal source (.pas, .dpr, .dpk all share the grammar
// subset we care about).
func parsePas(src model.SourceFile, content string) model.ParsedFile {
	parsed := model.ParsedFile{Source: src}

	if m := reUnit.FindStringSubmatch(content); m != nil {
		parsed.Symbols = append(parsed.Symbols, model.Symbol{
			Name:          m[1],
			QualifiedName: m[1],
			Kind:          model.SymUnit,
			LineStart:     lineOf(content, reUnit.FindStringIndex(content)[0]),
		})
	}

	parsed.Dependencies = parseUses(content)
	parsed.Symbols = append(parsed.Symbols, parseClasses(content)...)
	parsed.Symbols = append(parsed.Symbols, parseInterfaces(content)...)
	parsed.Symbols = append(parsed.Symbols, parseRoutines(content)...)
	return parsed
}

// parseUses finds every uses clause and classifies its entries by which
// section of the unit they appear in. The section boundaries are located
// textually: the first occurrence of "interface" and "implementation".
func parseUses(content string) []model.Dependency {
	lower := strings.ToLower(content)
	ifaceAt := strings.Index(lower, "interface")
	implAt := strings.Index(lower, "implementation")

	var deps []model.Dependency
	for _, loc := range reUses.FindAllStringSubmatchIndex(content, -1) {
		clause := content[loc[2]:loc[3]]
		inIface := ifaceAt >= 0 && loc[0] > ifaceAt && (implAt < 0 || loc[0] < implAt)
		inImpl := implAt >= 0 && loc[0] > implAt

		for _, raw := range strings.Split(clause, ",") {
			name := strings.TrimSpace(raw)
			// Project files list units as `Unit1 in 'Unit1.pas'`; only the
			// identifier matters for the dependency.
			if i := strings.Index(strings.ToLower(name), " in "); i > 0 {
				name = strings.TrimSpace(name[:i])
			}
			name = strings.Trim(name, "{}")
			name = strings.TrimSpace(name)
			if !reUnitName.MatchString(name) {
				continue
			}
			deps = append(deps, model.Dependency{
				Target:           name,
				Line:             lineOf(content, loc[0]),
				IsInterface:      inIface,
				IsImplementation: inImpl,
			})
		}
	}
	return deps
}

// parseClasses keeps only identifiers following the T-prefix convention;
// anything else matching `X = class` is almost always a false positive
// (helper types, metaclass references).
func parseClasses(content string) []model.Symbol {
	var syms []model.Symbol
	for _, loc := range reClass.FindAllStringSubmatchIndex(content, -1) {
		name := content[loc[2]:loc[3]]
		if !strings.HasPrefix(name, "T") {
			continue
		}
		sym := model.Symbol{
			Name:          name,
			QualifiedName: name,
			Kind:          model.SymClass,
			LineStart:     lineOf(content, loc[0]),
		}
		if loc[4] >= 0 {
			sym.Extends = content[loc[4]:loc[5]]
		}
		syms = append(syms, sym)
	}
	return syms
}

func parseInterfaces(content string) []model.Symbol {
	var syms []model.Symbol
	for _, loc := range reInterface.FindAllStringSubmatchIndex(content, -1) {
		name := content[loc[2]:loc[3]]
		if !strings.HasPrefix(name, "I") {
			continue
		}
		sym := model.Symbol{
			Name:          name,
			QualifiedName: name,
			Kind:          model.SymInterface,
			LineStart:     lineOf(content, loc[0]),
		}
		if loc[4] >= 0 {
			sym.Extends = content[loc[4]:loc[5]]
		}
		syms = append(syms, sym)
	}
	return syms
}

// parseRoutines extracts procedure and function declarations. A dotted name
// (TForm1.ButtonClick) is a method implementation; the owner becomes part
// of the qualified name. A `class` prefix marks a static routine.
func parseRoutines(content string) []model.Symbol {
	var syms []model.Symbol
	collect := func(re *regexp.Regexp) {
		for _, loc := range re.FindAllStringSubmatchIndex(content, -1) {
			isClass := loc[2] >= 0
			first := content[loc[4]:loc[5]]
			name := first
			qualified := first
			kind := model.SymFunction
			if loc[6] >= 0 {
				name = content[loc[6]:loc[7]]
				qualified = first + "." + name
				kind = model.SymMethod
			}
			syms = append(syms, model.Symbol{
				Name:          name,
				QualifiedName: qualified,
				Kind:          kind,
				IsStatic:      isClass,
				LineStart:     lineOf(content, loc[0]),
			})
		}
	}
	collect(reProcedure)
	collect(reFunction)
	return syms
}

func lineOf(content string, offset int) int {
	if offset < 0 || offset > len(content) {
		return 0
	}
	return strings.Count(content[:offset], "\n") + 1
}
