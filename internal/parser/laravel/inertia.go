package laravel

import (
	"regexp"
	"strings"

	"github.com/devpware/codeatlas/internal/model"
)

var (
	reVueImport    = regexp.MustCompile(`import\s+(\w+)\s+from\s+['"]([^'"]+\.vue)['"]`)
	reES6Import    = regexp.MustCompile(`import\s+(?:\{([^}]*)\}|(\w+))\s+from\s+['"]([^'"]+)['"]`)
	reChildTag     = regexp.MustCompile(`<([A-Z]\w+)`)
	reInertiaLink  = regexp.MustCompile(`<Link\s[^>]*href\s*=\s*["']([^"']+)["']`)
	reRouterCall   = regexp.MustCompile(`router\.(visit|get|post|put|patch|delete)\s*\(`)
	reDefineProps  = regexp.MustCompile(`(?s)defineProps(?:<[^>]*>)?\s*\(\s*\{([^}]*)\}`)
	reDefineEmits  = regexp.MustCompile(`(?s)defineEmits\s*\(\s*\[([^\]]*)\]`)
	rePropName     = regexp.MustCompile(`(?m)^\s*(\w+)\s*:`)
	reTSDecl       = regexp.MustCompile(`(?m)^\s*(?:export\s+)?(?:interface|type)\s+(\w+)`)
	reVueComponent = regexp.MustCompile(`(?s)<template>|<script\s+setup`)
	reReactHints   = regexp.MustCompile(`import\s+React|from\s+['"]react['"]`)
)

// Framework-provided components that appear capitalized in markup but are
// not project files.
var builtinComponents = map[string]bool{
	"Head": true, "Link": true, "InertiaLink": true, "Teleport": true,
	"Transition": true, "TransitionGroup": true, "KeepAlive": true,
	"Suspense": true, "Fragment": true,
}

// InertiaPageName derives the page identifier from a path under
// resources/js/Pages, with the extension removed.
func InertiaPageName(path string) string {
	name := stripPathPrefixFold(path, "resources/js/Pages/")
	if i := strings.LastIndexByte(name, '.'); i > 0 {
		name = name[:i]
	}
	return name
}

// parseInertia extracts frontend structure from an Inertia page component:
// the UI framework, imports, child components, navigation targets.
func parseInertia(src model.SourceFile, content string) model.ParsedFile {
	parsed := model.ParsedFile{Source: src}
	pageName := InertiaPageName(src.Path)

	parsed.SetMeta("page_name", pageName)
	parsed.SetMeta("framework", inertiaFramework(src.Extension, content))

	var imports []string
	for _, m := range reES6Import.FindAllStringSubmatch(content, -1) {
		if m[1] != "" {
			for _, named := range strings.Split(m[1], ",") {
				if v := strings.TrimSpace(named); v != "" {
					imports = append(imports, v)
				}
			}
		} else {
			imports = append(imports, m[2])
		}
		parsed.Dependencies = append(parsed.Dependencies, model.Dependency{Target: m[3]})
	}
	if len(imports) > 0 {
		parsed.SetMeta("imports", dedupe(imports))
	}

	var children []string
	for _, m := range reVueImport.FindAllStringSubmatch(content, -1) {
		children = append(children, m[1])
	}
	for _, m := range reChildTag.FindAllStringSubmatch(content, -1) {
		if !builtinComponents[m[1]] {
			children = append(children, m[1])
		}
	}
	if len(children) > 0 {
		parsed.SetMeta("child_components", dedupe(children))
	}

	var links []string
	for _, m := range reInertiaLink.FindAllStringSubmatch(content, -1) {
		links = append(links, m[1])
	}
	if len(links) > 0 {
		parsed.SetMeta("links", dedupe(links))
	}

	var routerCalls []string
	for _, m := range reRouterCall.FindAllStringSubmatch(content, -1) {
		routerCalls = append(routerCalls, m[1])
	}
	if len(routerCalls) > 0 {
		parsed.SetMeta("router_calls", dedupe(routerCalls))
	}

	parsed.SetMeta("uses_page_props", strings.Contains(content, "usePage"))
	parsed.SetMeta("uses_form_helper", strings.Contains(content, "useForm"))

	if m := reDefineProps.FindStringSubmatch(content); m != nil {
		var props []string
		for _, p := range rePropName.FindAllStringSubmatch(m[1], -1) {
			props = append(props, p[1])
		}
		if len(props) > 0 {
			parsed.SetMeta("props", dedupe(props))
		}
	}
	if m := reDefineEmits.FindStringSubmatch(content); m != nil {
		if emits := quotedList(m[1]); len(emits) > 0 {
			parsed.SetMeta("emits", emits)
		}
	}
	if types := reTSDecl.FindAllStringSubmatch(content, -1); len(types) > 0 {
		var names []string
		for _, m := range types {
			names = append(names, m[1])
		}
		parsed.SetMeta("type_declarations", dedupe(names))
	}

	parsed.Symbols = append(parsed.Symbols, model.Symbol{
		Name:          pageName,
		QualifiedName: "inertia:" + pageName,
		Kind:          model.SymUnit,
	})
	return parsed
}

func inertiaFramework(ext, content string) string {
	switch ext {
	case "vue":
		return "vue"
	case "jsx", "tsx":
		return "react"
	case "svelte":
		return "svelte"
	}
	if reVueComponent.MatchString(content) {
		return "vue"
	}
	if reReactHints.MatchString(content) {
		return "react"
	}
	return "unknown"
}
