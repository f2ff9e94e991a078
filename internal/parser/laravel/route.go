package laravel

import (
	"regexp"
	"strings"

	"github.com/devpware/codeatlas/internal/model"
)

// RouteAction describes what a route dispatches to.
type RouteAction struct {
	Type       string `json:"type"` // controller | closure | view | redirect | unknown
	Controller string `json:"controller,omitempty"`
	Method     string `json:"method,omitempty"`
	Target     string `json:"target,omitempty"`
}

// RouteDef is one registered route.
type RouteDef struct {
	Verb       string      `json:"verb"`
	URI        string      `json:"uri"`
	Action     RouteAction `json:"action"`
	Name       string      `json:"name,omitempty"`
	Middleware []string    `json:"middleware,omitempty"`
	Prefix     string      `json:"prefix,omitempty"`
}

// RouteGroup captures the options of a Route::group block.
type RouteGroup struct {
	Prefix     string   `json:"prefix,omitempty"`
	Middleware []string `json:"middleware,omitempty"`
	Namespace  string   `json:"namespace,omitempty"`
	As         string   `json:"as,omitempty"`
}

var (
	reRouteVerb     = regexp.MustCompile(`Route::(get|post|put|patch|delete|options|any|match)\s*\(\s*(?:\[[^\]]*\]\s*,\s*)?['"]([^'"]+)['"]`)
	reRouteView     = regexp.MustCompile(`Route::view\s*\(\s*['"]([^'"]+)['"]\s*,\s*['"]([^'"]+)['"]`)
	reRouteRedirect = regexp.MustCompile(`Route::redirect\s*\(\s*['"]([^'"]+)['"]\s*,\s*['"]([^'"]+)['"]`)
	reRouteResource = regexp.MustCompile(`Route::(apiResource|resource)\s*\(\s*['"]([^'"]+)['"]\s*,\s*([\w\\]+)::class`)
	// Non-greedy up to the `], function` that starts the group body, so a
	// nested middleware array doesn't truncate the options capture.
	reRouteGroup = regexp.MustCompile(`(?s)Route::group\s*\(\s*\[(.*?)\]\s*,\s*(?:function|fn)`)

	reActionTuple  = regexp.MustCompile(`\[\s*([\w\\]+)::class\s*,\s*['"](\w+)['"]\s*\]`)
	reActionLegacy = regexp.MustCompile(`['"]([\w\\]+)@(\w+)['"]`)
	reActionSingle = regexp.MustCompile(`,\s*([\w\\]+)::class`)

	reChainName       = regexp.MustCompile(`->\s*name\s*\(\s*['"]([^'"]+)['"]`)
	reChainPrefix     = regexp.MustCompile(`->\s*prefix\s*\(\s*['"]([^'"]+)['"]`)
	reChainMiddleware = regexp.MustCompile(`->\s*middleware\s*\(\s*(\[[^\]]*\]|['"][^'"]+['"])`)

	reGroupOption = regexp.MustCompile(`['"](prefix|namespace|as)['"]\s*=>\s*['"]([^'"]+)['"]`)
	reGroupMw     = regexp.MustCompile(`['"]middleware['"]\s*=>\s*(\[[^\]]*\]|['"][^'"]+['"])`)
)

var resourceRouteActions = map[string][]string{
	"resource":    {"index", "create", "store", "show", "edit", "update", "destroy"},
	"apiResource": {"index", "store", "show", "update", "destroy"},
}

// parseRoute extracts the route table from a routes file. Each Route::
// registration is analyzed in a bounded context window running to the next
// semicolon, which covers chained calls without needing to parse PHP.
func parseRoute(src model.SourceFile, content string) model.ParsedFile {
	parsed := model.ParsedFile{Source: src}

	var routes []RouteDef
	for _, loc := range reRouteVerb.FindAllStringSubmatchIndex(content, -1) {
		verb := strings.ToUpper(content[loc[2]:loc[3]])
		uri := content[loc[4]:loc[5]]
		window := contextWindow(content, loc[0])

		r := RouteDef{Verb: verb, URI: uri, Action: parseAction(window)}
		if m := reChainName.FindStringSubmatch(window); m != nil {
			r.Name = m[1]
		}
		if m := reChainPrefix.FindStringSubmatch(window); m != nil {
			r.Prefix = m[1]
		}
		if m := reChainMiddleware.FindStringSubmatch(window); m != nil {
			r.Middleware = quotedList(m[1])
		}
		routes = append(routes, r)
	}

	for _, m := range reRouteView.FindAllStringSubmatch(content, -1) {
		routes = append(routes, RouteDef{
			Verb:   "GET",
			URI:    m[1],
			Action: RouteAction{Type: "view", Target: m[2]},
		})
	}
	for _, m := range reRouteRedirect.FindAllStringSubmatch(content, -1) {
		routes = append(routes, RouteDef{
			Verb:   "GET",
			URI:    m[1],
			Action: RouteAction{Type: "redirect", Target: m[2]},
		})
	}
	for _, m := range reRouteResource.FindAllStringSubmatch(content, -1) {
		controller := shortClassName(m[3])
		for _, action := range resourceRouteActions[m[1]] {
			routes = append(routes, RouteDef{
				Verb:   "ANY",
				URI:    m[2],
				Action: RouteAction{Type: "controller", Controller: controller, Method: action},
			})
		}
	}

	var groups []RouteGroup
	for _, m := range reRouteGroup.FindAllStringSubmatch(content, -1) {
		var g RouteGroup
		for _, opt := range reGroupOption.FindAllStringSubmatch(m[1], -1) {
			switch opt[1] {
			case "prefix":
				g.Prefix = opt[2]
			case "namespace":
				g.Namespace = opt[2]
			case "as":
				g.As = opt[2]
			}
		}
		if mw := reGroupMw.FindStringSubmatch(m[1]); mw != nil {
			g.Middleware = quotedList(mw[1])
		}
		groups = append(groups, g)
	}

	var controllers, middlewares []string
	for _, r := range routes {
		if r.Action.Type == "controller" && r.Action.Controller != "" {
			controllers = append(controllers, r.Action.Controller)
		}
		middlewares = append(middlewares, r.Middleware...)
	}
	for _, g := range groups {
		middlewares = append(middlewares, g.Middleware...)
	}

	parsed.SetMeta("routes", routes)
	if len(groups) > 0 {
		parsed.SetMeta("route_groups", groups)
	}
	if len(controllers) > 0 {
		parsed.SetMeta("controllers_referenced", dedupe(controllers))
	}
	if len(middlewares) > 0 {
		parsed.SetMeta("middlewares_used", dedupe(middlewares))
	}
	parsed.SetMeta("route_type", routeFileType(src.Name))

	name := "routes/" + strings.TrimSuffix(src.Name, ".php")
	parsed.Symbols = append(parsed.Symbols, model.Symbol{
		Name:          strings.TrimSuffix(src.Name, ".php"),
		QualifiedName: name,
		Kind:          model.SymUnit,
	})
	return parsed
}

// contextWindow returns the source from the start of a route registration
// to the terminating semicolon, capped so a missing semicolon cannot drag
// in the rest of the file.
func contextWindow(content string, start int) string {
	const maxWindow = 500
	rest := content[start:]
	if i := strings.IndexByte(rest, ';'); i >= 0 && i < maxWindow {
		return rest[:i]
	}
	if len(rest) > maxWindow {
		return rest[:maxWindow]
	}
	return rest
}

func parseAction(window string) RouteAction {
	if m := reActionTuple.FindStringSubmatch(window); m != nil {
		return RouteAction{Type: "controller", Controller: shortClassName(m[1]), Method: m[2]}
	}
	if m := reActionLegacy.FindStringSubmatch(window); m != nil {
		return RouteAction{Type: "controller", Controller: shortClassName(m[1]), Method: m[2]}
	}
	if strings.Contains(window, "function") && strings.Contains(window, "{") {
		return RouteAction{Type: "closure"}
	}
	// Single-action controllers: Route::get('/x', XController::class).
	if m := reActionSingle.FindStringSubmatch(window); m != nil {
		return RouteAction{Type: "controller", Controller: shortClassName(m[1]), Method: "__invoke"}
	}
	return RouteAction{Type: "unknown"}
}

func routeFileType(name string) string {
	switch strings.TrimSuffix(name, ".php") {
	case "web", "api", "channels", "console":
		return strings.TrimSuffix(name, ".php")
	default:
		return "custom"
	}
}

// shortClassName takes the segment after the last backslash.
func shortClassName(fqcn string) string {
	if i := strings.LastIndexByte(fqcn, '\\'); i >= 0 {
		return fqcn[i+1:]
	}
	return fqcn
}
