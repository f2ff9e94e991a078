package laravel

import (
	"regexp"
	"strings"

	"github.com/devpware/codeatlas/internal/model"
)

// Relationship is one Eloquent relationship extracted from a model.
type Relationship struct {
	Method       string `json:"method"`
	Type         string `json:"type"`
	RelatedModel string `json:"related_model,omitempty"`
	RawArgs      string `json:"raw_args,omitempty"`
}

var (
	reArrayProp = regexp.MustCompile(`\$(fillable|guarded|hidden|visible|appends|with|dates)\s*=\s*\[([^\]]*)\]`)
	reBoolProp  = regexp.MustCompile(`\$(timestamps|incrementing)\s*=\s*(true|false)`)
	reTableProp = regexp.MustCompile(`\$table\s*=\s*['"](\w+)['"]`)
	rePrimary   = regexp.MustCompile(`\$primaryKey\s*=\s*['"](\w+)['"]`)

	// The body match stops at the first closing brace. Relationship
	// returns never contain one, and stopping early keeps the match
	// indentation-agnostic (tabs and spaces alike).
	reMethodBody = regexp.MustCompile(`public\s+function\s+(\w+)\s*\([^)]*\)\s*(?::\s*[\w\\?]+)?\s*\{([^}]*)\}`)
	reRelation   = regexp.MustCompile(`\$this\s*->\s*(hasOne|hasMany|belongsTo|belongsToMany|hasManyThrough|hasOneThrough|morphOne|morphMany|morphTo|morphToMany|morphedByMany)\s*\(([^)]*)\)`)
	reRelArg     = regexp.MustCompile(`([A-Z]\w*)::class|['"]([^'"]+)['"]`)

	reScope       = regexp.MustCompile(`function\s+scope([A-Z]\w*)`)
	reAccessor    = regexp.MustCompile(`function\s+get([A-Z]\w*)Attribute`)
	reMutator     = regexp.MustCompile(`function\s+set([A-Z]\w*)Attribute`)
	reNewAccessor = regexp.MustCompile(`protected\s+function\s+(\w+)\s*\(\s*\)\s*:\s*Attribute`)
	reCastsProp   = regexp.MustCompile(`\$casts\s*=\s*\[([^\]]*)\]`)
	reCastsMethod = regexp.MustCompile(`(?s)function\s+casts\s*\(\s*\)\s*(?::\s*array)?\s*\{.*?return\s*\[([^\]]*)\]`)
	reCastEntry   = regexp.MustCompile(`['"](\w+)['"]\s*=>\s*['"]?([\w\\:,]+)['"]?`)
)

// parseModel extracts Eloquent-specific facts on top of base PHP parsing:
// mass-assignment configuration, relationships, query scopes, accessors,
// mutators, casts and table mapping.
func parseModel(src model.SourceFile, content string) model.ParsedFile {
	parsed := parsePHP(src, content)

	props := make(map[string][]string)
	for _, m := range reArrayProp.FindAllStringSubmatch(content, -1) {
		props[m[1]] = quotedList(m[2])
	}
	if len(props) > 0 {
		parsed.SetMeta("model_properties", props)
	}
	for _, m := range reBoolProp.FindAllStringSubmatch(content, -1) {
		parsed.SetMeta("has_"+m[1], m[2] == "true")
	}

	var rels []Relationship
	for _, body := range reMethodBody.FindAllStringSubmatch(content, -1) {
		method, code := body[1], body[2]
		rm := reRelation.FindStringSubmatch(code)
		if rm == nil {
			continue
		}
		rel := Relationship{Method: method, Type: camelToSnake(rm[1]), RawArgs: strings.TrimSpace(rm[2])}
		if arg := reRelArg.FindStringSubmatch(rm[2]); arg != nil {
			if arg[1] != "" {
				rel.RelatedModel = arg[1]
			} else {
				rel.RelatedModel = arg[2]
			}
		}
		rels = append(rels, rel)
	}
	if len(rels) > 0 {
		parsed.SetMeta("relationships", rels)
	}

	var scopes []string
	for _, m := range reScope.FindAllStringSubmatch(content, -1) {
		scopes = append(scopes, camelToSnake(m[1]))
	}
	if len(scopes) > 0 {
		parsed.SetMeta("scopes", dedupe(scopes))
	}

	var accessors []string
	for _, m := range reAccessor.FindAllStringSubmatch(content, -1) {
		accessors = append(accessors, camelToSnake(m[1]))
	}
	for _, m := range reNewAccessor.FindAllStringSubmatch(content, -1) {
		accessors = append(accessors, camelToSnake(m[1]))
	}
	if len(accessors) > 0 {
		parsed.SetMeta("accessors", dedupe(accessors))
	}

	var mutators []string
	for _, m := range reMutator.FindAllStringSubmatch(content, -1) {
		mutators = append(mutators, camelToSnake(m[1]))
	}
	if len(mutators) > 0 {
		parsed.SetMeta("mutators", dedupe(mutators))
	}

	casts := make(map[string]string)
	for _, src := range []*regexp.Regexp{reCastsProp, reCastsMethod} {
		if m := src.FindStringSubmatch(content); m != nil {
			for _, e := range reCastEntry.FindAllStringSubmatch(m[1], -1) {
				casts[e[1]] = e[2]
			}
		}
	}
	if len(casts) > 0 {
		parsed.SetMeta("casts", casts)
	}

	if traits := traitsUsed(content); len(traits) > 0 {
		parsed.SetMeta("traits_used", traits)
	}
	if m := reTableProp.FindStringSubmatch(content); m != nil {
		parsed.SetMeta("table", m[1])
	}
	if m := rePrimary.FindStringSubmatch(content); m != nil {
		parsed.SetMeta("primary_key", m[1])
	}

	return parsed
}

func quotedList(raw string) []string {
	var out []string
	for _, m := range reQuoted.FindAllStringSubmatch(raw, -1) {
		out = append(out, m[1])
	}
	return out
}

// camelToSnake converts CamelCase or camelCase to snake_case.
func camelToSnake(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r - 'A' + 'a')
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}
