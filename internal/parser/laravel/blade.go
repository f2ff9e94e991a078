package laravel

import (
	"regexp"
	"strings"

	"github.com/devpware/codeatlas/internal/model"
)

var (
	reBladeExtends   = regexp.MustCompile(`@extends\s*\(\s*['"]([^'"]+)['"]`)
	reBladeSection   = regexp.MustCompile(`@section\s*\(\s*['"]([^'"]+)['"]`)
	reBladeYield     = regexp.MustCompile(`@yield\s*\(\s*['"]([^'"]+)['"]`)
	reBladeInclude   = regexp.MustCompile(`@include(?:If|When|First)?\s*\(\s*['"]([^'"]+)['"]`)
	reBladeEach      = regexp.MustCompile(`@each\s*\(\s*['"]([^'"]+)['"]`)
	reBladeComponent = regexp.MustCompile(`@component\s*\(\s*['"]([^'"]+)['"]`)
	reBladeTag       = regexp.MustCompile(`<x-([\w.-]+)`)
	reBladeSlot      = regexp.MustCompile(`@slot\s*\(\s*['"]([^'"]+)['"]|<x-slot\s+name\s*=\s*['"]([^'"]+)['"]`)
	reBladeStack     = regexp.MustCompile(`@stack\s*\(\s*['"]([^'"]+)['"]`)
	reBladePush      = regexp.MustCompile(`@(?:push|prepend)\s*\(\s*['"]([^'"]+)['"]`)
	reBladeProps     = regexp.MustCompile(`@props\s*\(\s*\[([^\]]*)\]`)
	reBladeLivewire  = regexp.MustCompile(`@livewire\s*\(\s*['"]([^'"]+)['"]|<livewire:([\w.-]+)`)
	reBladeCan       = regexp.MustCompile(`@can(?:not)?\s*\(\s*['"]([^'"]+)['"]`)
	reBladeError     = regexp.MustCompile(`@error\s*\(\s*['"]([^'"]+)['"]`)
	reBladeEcho      = regexp.MustCompile(`\{\{.*?\}\}`)
	reBladeRawEcho   = regexp.MustCompile(`\{!!.*?!!\}`)
)

// Word boundaries keep @for from matching @foreach.
var bladeDirectives = func() map[string]*regexp.Regexp {
	out := make(map[string]*regexp.Regexp)
	for _, d := range []string{"if", "foreach", "for", "while", "forelse", "switch", "auth", "guest", "php", "csrf"} {
		out[d] = regexp.MustCompile(`@` + d + `\b`)
	}
	return out
}()

// BladeViewName derives the dotted view name from a template path:
// resources/views/users/show.blade.php -> users.show.
func BladeViewName(path string) string {
	name := stripPathPrefixFold(path, "resources/views/")
	name = strings.TrimSuffix(name, ".blade.php")
	return strings.ReplaceAll(name, "/", ".")
}

// stripPathPrefixFold drops everything up to and including the first
// case-insensitive occurrence of prefix. Paths are classified without
// regard to case, so names derived from them must fold the same way.
func stripPathPrefixFold(path, prefix string) string {
	if i := strings.Index(strings.ToLower(path), strings.ToLower(prefix)); i >= 0 {
		return path[i+len(prefix):]
	}
	return path
}

// parseBlade extracts template structure: the layout chain, sections and
// yields, included partials, components, stacks and directive usage.
// @extends and includes become dependencies on "view:{name}" targets so
// edge generation can link templates together.
func parseBlade(src model.SourceFile, content string) model.ParsedFile {
	parsed := model.ParsedFile{Source: src}
	viewName := BladeViewName(src.Path)

	parsed.SetMeta("view_name", viewName)
	parsed.SetMeta("is_layout", reBladeYield.MatchString(content))
	parsed.SetMeta("is_component",
		strings.Contains(src.Path, "/components/") || strings.Contains(content, "@props"))

	if m := reBladeExtends.FindStringSubmatch(content); m != nil {
		parsed.SetMeta("extends", m[1])
		parsed.Dependencies = append(parsed.Dependencies, model.Dependency{Target: "view:" + m[1]})
	}

	collect := func(re *regexp.Regexp) []string {
		var out []string
		for _, m := range re.FindAllStringSubmatch(content, -1) {
			out = append(out, m[1])
		}
		return out
	}

	if sections := collect(reBladeSection); len(sections) > 0 {
		parsed.SetMeta("sections", dedupe(sections))
	}
	if yields := collect(reBladeYield); len(yields) > 0 {
		parsed.SetMeta("yields", dedupe(yields))
	}

	includes := append(collect(reBladeInclude), collect(reBladeEach)...)
	if len(includes) > 0 {
		parsed.SetMeta("includes", dedupe(includes))
		for _, inc := range dedupe(includes) {
			parsed.Dependencies = append(parsed.Dependencies, model.Dependency{Target: "view:" + inc})
		}
	}

	components := collect(reBladeComponent)
	for _, m := range reBladeTag.FindAllStringSubmatch(content, -1) {
		if m[1] == "slot" || strings.HasPrefix(m[1], "slot ") {
			continue
		}
		if m[1] == "dynamic-component" {
			parsed.SetMeta("has_dynamic_components", true)
			continue
		}
		// Anonymous components use dashes in markup but dots as view names.
		components = append(components, strings.ReplaceAll(m[1], "-", "."))
	}
	if len(components) > 0 {
		parsed.SetMeta("components", dedupe(components))
	}

	var slots []string
	for _, m := range reBladeSlot.FindAllStringSubmatch(content, -1) {
		if m[1] != "" {
			slots = append(slots, m[1])
		} else {
			slots = append(slots, m[2])
		}
	}
	if len(slots) > 0 {
		parsed.SetMeta("slots", dedupe(slots))
	}

	if stacks := append(collect(reBladeStack), collect(reBladePush)...); len(stacks) > 0 {
		parsed.SetMeta("stacks", dedupe(stacks))
	}
	if m := reBladeProps.FindStringSubmatch(content); m != nil {
		parsed.SetMeta("props", bladePropNames(m[1]))
	}

	var livewire []string
	for _, m := range reBladeLivewire.FindAllStringSubmatch(content, -1) {
		if m[1] != "" {
			livewire = append(livewire, m[1])
		} else {
			livewire = append(livewire, m[2])
		}
	}
	if len(livewire) > 0 {
		parsed.SetMeta("livewire_components", dedupe(livewire))
	}

	if perms := collect(reBladeCan); len(perms) > 0 {
		parsed.SetMeta("permissions_checked", dedupe(perms))
	}
	if fields := collect(reBladeError); len(fields) > 0 {
		parsed.SetMeta("error_fields", dedupe(fields))
	}

	counts := make(map[string]int)
	for name, re := range bladeDirectives {
		if n := len(re.FindAllString(content, -1)); n > 0 {
			counts[name] = n
		}
	}
	if n := len(reBladeEcho.FindAllString(content, -1)); n > 0 {
		counts["echo"] = n
	}
	if n := len(reBladeRawEcho.FindAllString(content, -1)); n > 0 {
		counts["raw_echo"] = n
	}
	if len(counts) > 0 {
		parsed.SetMeta("directive_counts", counts)
	}

	parsed.Symbols = append(parsed.Symbols, model.Symbol{
		Name:          viewName,
		QualifiedName: "view:" + viewName,
		Kind:          model.SymUnit,
	})
	return parsed
}

// bladePropNames extracts prop names from a @props array, ignoring default
// values: ['type' => 'info', 'message'] yields type and message.
func bladePropNames(inner string) []string {
	var out []string
	for _, part := range strings.Split(inner, ",") {
		if i := strings.Index(part, "=>"); i >= 0 {
			part = part[:i]
		}
		if m := reQuoted.FindStringSubmatch(part); m != nil {
			out = append(out, m[1])
		}
	}
	return out
}
