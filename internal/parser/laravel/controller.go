package laravel

import (
	"regexp"
	"sort"

	"github.com/devpware/codeatlas/internal/model"
)

var (
	reMiddlewareCall  = regexp.MustCompile(`\$this\s*->\s*middleware\s*\(\s*['"]([^'"]+)['"]`)
	reMiddlewareArray = regexp.MustCompile(`\$this\s*->\s*middleware\s*\(\s*\[([^\]]+)\]`)
	reViewCall        = regexp.MustCompile(`(?:\bview|View::make)\s*\(\s*['"]([^'"]+)['"]`)
	reStaticModelCall = regexp.MustCompile(`([A-Z][a-zA-Z]+)::(?:find|findOrFail|where|all|create|firstOrCreate|updateOrCreate|query|with)\s*\(`)
	reTypeHint        = regexp.MustCompile(`\(\s*(?:[\w\\]+\s+\$\w+\s*,\s*)?([A-Z]\w+)\s+\$\w+`)
	reInertiaRender   = regexp.MustCompile(`(?:Inertia::render|\binertia)\s*\(\s*['"]([^'"]+)['"]`)
	reQuoted          = regexp.MustCompile(`['"]([^'"]+)['"]`)
)

// Facades and framework types that look like model references but never are.
var facadeExclusions = map[string]bool{
	"DB": true, "Auth": true, "Cache": true, "Log": true, "Route": true,
	"View": true, "Request": true, "Response": true, "Session": true,
	"Config": true, "App": true, "Event": true,
}

var typeHintExclusions = map[string]bool{
	"Request": true, "Response": true, "Collection": true, "Builder": true,
	"Carbon": true, "Closure": true, "Exception": true,
}

var resourceActions = []string{"index", "create", "store", "show", "edit", "update", "destroy"}

// parseController runs base PHP extraction then layers on the HTTP facts:
// middleware, rendered views, referenced models, Inertia pages.
func parseController(src model.SourceFile, content string) model.ParsedFile {
	parsed := parsePHP(src, content)

	var middlewares []string
	for _, m := range reMiddlewareCall.FindAllStringSubmatch(content, -1) {
		middlewares = append(middlewares, m[1])
	}
	for _, m := range reMiddlewareArray.FindAllStringSubmatch(content, -1) {
		for _, q := range reQuoted.FindAllStringSubmatch(m[1], -1) {
			middlewares = append(middlewares, q[1])
		}
	}
	if len(middlewares) > 0 {
		parsed.SetMeta("middlewares", dedupe(middlewares))
	}

	methods := make(map[string]bool)
	for _, s := range parsed.Symbols {
		if s.Kind == model.SymMethod {
			methods[s.Name] = true
		}
	}
	restful := 0
	for _, a := range resourceActions {
		if methods[a] {
			restful++
		}
	}
	parsed.SetMeta("is_resource_controller", restful >= 4)

	var views []string
	for _, m := range reViewCall.FindAllStringSubmatch(content, -1) {
		views = append(views, m[1])
	}
	if len(views) > 0 {
		parsed.SetMeta("views_referenced", dedupe(views))
	}

	var models []string
	for _, m := range reStaticModelCall.FindAllStringSubmatch(content, -1) {
		if !facadeExclusions[m[1]] {
			models = append(models, m[1])
		}
	}
	for _, m := range reTypeHint.FindAllStringSubmatch(content, -1) {
		if !typeHintExclusions[m[1]] && !facadeExclusions[m[1]] {
			models = append(models, m[1])
		}
	}
	if len(models) > 0 {
		parsed.SetMeta("models_referenced", dedupe(models))
	}

	var pages []string
	for _, m := range reInertiaRender.FindAllStringSubmatch(content, -1) {
		pages = append(pages, m[1])
	}
	if len(pages) > 0 {
		parsed.SetMeta("inertia_pages", dedupe(pages))
		parsed.SetMeta("uses_inertia", true)
	}

	return parsed
}

// dedupe drops repeats and returns a sorted list so metadata compares
// stably across runs.
func dedupe(in []string) []string {
	seen := make(map[string]bool, len(in))
	var out []string
	for _, v := range in {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	sort.Strings(out)
	return out
}

// metaStrings reads a []string metadata value regardless of how it was
// stored (directly or round-tripped through JSON as []any).
func metaStrings(p *model.ParsedFile, key string) []string {
	switch v := p.Meta(key).(type) {
	case []string:
		return v
	case []any:
		var out []string
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

func metaBool(p *model.ParsedFile, key string) bool {
	b, _ := p.Meta(key).(bool)
	return b
}
