// Package laravel analyzes Laravel applications: PHP classes, Eloquent
// models, HTTP controllers, route files, migrations, Blade templates and
// Inertia page components. Files are first classified by path, then (for
// plain PHP files only) refined by what the source declares.
package laravel

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/devpware/codeatlas/internal/detect"
	"github.com/devpware/codeatlas/internal/ident"
	"github.com/devpware/codeatlas/internal/model"
	"github.com/devpware/codeatlas/internal/parser"
	"github.com/devpware/codeatlas/internal/scan"
)

// Version is reported in graph metadata.
const Version = "1.0.0"

var (
	defaultExtensions  = []string{"php", "vue", "jsx", "tsx", "svelte"}
	defaultExcludeDirs = []string{"vendor", "node_modules", "storage", ".git", "bootstrap"}
)

// Parser is the Laravel analysis strategy.
type Parser struct{}

var _ parser.Parser = (*Parser)(nil)

// New returns a Laravel parser.
func New() *Parser { return &Parser{} }

func (p *Parser) ID() string { return "laravel" }

func (p *Parser) Capabilities() parser.Capabilities {
	return parser.Capabilities{
		NodeTypes: []model.NodeType{
			model.NodeController, model.NodeModel, model.NodeBladeView,
			model.NodeRoute, model.NodeMigration, model.NodeInertiaPage,
			model.NodeMiddleware, model.NodeProvider, model.NodeJob,
			model.NodeEvent, model.NodeListener, model.NodePolicy,
			model.NodeService, model.NodeRepository, model.NodePHPFile,
			model.NodeClass, model.NodeInterface, model.NodeTrait,
		},
		EdgeTypes: []model.EdgeType{
			model.EdgeImports, model.EdgeExtends, model.EdgeCustom,
		},
		SupportsCancellation: true,
		AvailableMetrics:     []string{"file_count", "route_count", "model_count", "view_count"},
	}
}

// DetectConfidence self-checks a root against the Laravel markers.
func (p *Parser) DetectConfidence(root string) float64 {
	return detect.NewDetector().Score(root, detect.TypeLaravel).Confidence
}

// CanHandleFile reports whether the extension has an extractor.
func (p *Parser) CanHandleFile(path string) bool {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	for _, e := range defaultExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

// pathRule binds a path fragment to a node type. Order is priority: the
// first matching rule wins, so more specific locations come first.
type pathRule struct {
	fragment string
	alt      string
	typ      model.NodeType
}

var pathRules = []pathRule{
	{fragment: "/middleware/", typ: model.NodeMiddleware},
	{fragment: "/requests/", typ: model.NodeRequest},
	{fragment: "/http/resources/", typ: model.NodeResource},
	{fragment: "/providers/", typ: model.NodeProvider},
	{fragment: "/events/", typ: model.NodeEvent},
	{fragment: "/listeners/", typ: model.NodeListener},
	{fragment: "/jobs/", typ: model.NodeJob},
	{fragment: "/policies/", typ: model.NodePolicy},
	{fragment: "/commands/", alt: "/console/", typ: model.NodeCommand},
	{fragment: "/config/", typ: model.NodeConfig},
	{fragment: "/seeders/", typ: model.NodeSeeder},
	{fragment: "/factories/", typ: model.NodeFactory},
	{fragment: "/tests/", typ: model.NodeTest},
	{fragment: "/services/", typ: model.NodeService},
	{fragment: "/repositories/", typ: model.NodeRepository},
	{fragment: "/actions/", typ: model.NodeAction},
	{fragment: "/dto/", alt: "/dtos/", typ: model.NodeDTO},
	{fragment: "/notifications/", typ: model.NodeNotification},
	{fragment: "/mail/", typ: model.NodeMailable},
	{fragment: "/observers/", typ: model.NodeObserver},
	{fragment: "/scopes/", typ: model.NodeScope},
	{fragment: "/rules/", typ: model.NodeRule},
	{fragment: "/casts/", typ: model.NodeCast},
	{fragment: "/contracts/", alt: "/interfaces/", typ: model.NodeContract},
	{fragment: "/exceptions/", typ: model.NodeException},
	{fragment: "/enums/", typ: model.NodeEnum},
	{fragment: "/traits/", alt: "/concerns/", typ: model.NodeTrait},
	{fragment: "/models/", typ: model.NodeModel},
}

var inertiaExtensions = map[string]bool{"vue": true, "jsx": true, "tsx": true, "svelte": true}

// Classify determines the file type from its path alone. The high-signal
// locations are checked before the generic rule table so an
// app/Http/Controllers/Auth/LoginController.php never falls through to a
// weaker rule.
func Classify(src model.SourceFile) model.NodeType {
	p := "/" + strings.ToLower(src.Path)

	switch {
	case strings.Contains(p, "/resources/js/pages/") && inertiaExtensions[src.Extension]:
		return model.NodeInertiaPage
	case src.IsBlade():
		return model.NodeBladeView
	case strings.Contains(p, "/routes/"):
		return model.NodeRoute
	case strings.Contains(p, "/migrations/"):
		return model.NodeMigration
	case strings.Contains(p, "/controllers/") || strings.HasSuffix(src.Name, "Controller.php"):
		return model.NodeController
	}

	if src.Extension == "php" {
		for _, rule := range pathRules {
			if rule.fragment == "/http/resources/" {
				if strings.Contains(p, rule.fragment) ||
					(strings.Contains(p, "/resources/") && !strings.Contains(p, "/views/") && !strings.Contains(p, "/js/")) {
					return rule.typ
				}
				continue
			}
			if strings.Contains(p, rule.fragment) || (rule.alt != "" && strings.Contains(p, rule.alt)) {
				return rule.typ
			}
		}
		return model.NodePHPFile
	}
	return model.NodeFile
}

// Refinement tables: what a plain PHP file's base class or interface says
// about its role. Applied only when path classification found nothing.
var extendsTable = map[string]model.NodeType{
	"Controller":         model.NodeController,
	"BaseController":     model.NodeController,
	"Model":              model.NodeModel,
	"Authenticatable":    model.NodeModel,
	"Pivot":              model.NodeModel,
	"Migration":          model.NodeMigration,
	"Seeder":             model.NodeSeeder,
	"Factory":            model.NodeFactory,
	"Command":            model.NodeCommand,
	"FormRequest":        model.NodeRequest,
	"ServiceProvider":    model.NodeProvider,
	"Mailable":           model.NodeMailable,
	"Notification":       model.NodeNotification,
	"TestCase":           model.NodeTest,
	"Exception":          model.NodeException,
	"JsonResource":       model.NodeResource,
	"ResourceCollection": model.NodeResource,
}

var implementsTable = map[string]model.NodeType{
	"ShouldQueue":     model.NodeJob,
	"ShouldBroadcast": model.NodeEvent,
	"CastsAttributes": model.NodeCast,
	"ValidationRule":  model.NodeRule,
	"Rule":            model.NodeRule,
	"Scope":           model.NodeScope,
}

var suffixTable = []struct {
	suffix string
	typ    model.NodeType
}{
	{"Controller", model.NodeController},
	{"Service", model.NodeService},
	{"Repository", model.NodeRepository},
	{"Seeder", model.NodeSeeder},
	{"Factory", model.NodeFactory},
	{"Provider", model.NodeProvider},
	{"Middleware", model.NodeMiddleware},
	{"Policy", model.NodePolicy},
	{"Observer", model.NodeObserver},
	{"Job", model.NodeJob},
	{"Event", model.NodeEvent},
	{"Listener", model.NodeListener},
	{"Action", model.NodeAction},
	{"Exception", model.NodeException},
	{"Request", model.NodeRequest},
	{"Test", model.NodeTest},
}

// Refine upgrades a generic php_file classification using what the parsed
// source declares: base class first, then interfaces, then naming
// conventions, then declaration kind.
func Refine(typ model.NodeType, parsed *model.ParsedFile) model.NodeType {
	if typ != model.NodePHPFile {
		return typ
	}
	var class *model.Symbol
	for i := range parsed.Symbols {
		if parsed.Symbols[i].Kind == model.SymClass {
			class = &parsed.Symbols[i]
			break
		}
	}

	if class != nil {
		if t, ok := extendsTable[shortClassName(class.Extends)]; ok {
			return t
		}
		for _, impl := range class.Implements {
			if t, ok := implementsTable[shortClassName(impl)]; ok {
				return t
			}
		}
		for _, s := range suffixTable {
			if strings.HasSuffix(class.Name, s.suffix) && class.Name != s.suffix {
				return s.typ
			}
		}
	}
	for _, sym := range parsed.Symbols {
		if sym.Kind == model.SymInterface {
			return model.NodeContract
		}
	}
	for _, sym := range parsed.Symbols {
		if sym.Kind == model.SymTrait {
			return model.NodeTrait
		}
	}
	return model.NodePHPFile
}

func (p *Parser) ScanFiles(ctx context.Context, root string, cfg parser.Config) ([]model.SourceFile, error) {
	exts := cfg.IncludeExtensions
	if len(exts) == 0 {
		exts = defaultExtensions
	}
	excl := cfg.ExcludeDirs
	if len(excl) == 0 {
		excl = defaultExcludeDirs
	}
	return scan.Walk(ctx, root, scan.Options{
		IncludeExtensions: exts,
		ExcludeDirs:       excl,
		ExcludePatterns:   cfg.ExcludePatterns,
		MaxDepth:          cfg.MaxDepth,
		UseGitignore:      cfg.UseGitignore,
		HashContents:      cfg.HashContents,
	})
}

func (p *Parser) ParseFile(ctx context.Context, src model.SourceFile, cfg parser.Config) (model.ParsedFile, error) {
	if err := ctx.Err(); err != nil {
		return model.ParsedFile{}, &parser.Error{Kind: parser.KindCancelled, File: src.Path, Err: err}
	}
	data, err := os.ReadFile(src.AbsPath)
	if err != nil {
		return model.ParsedFile{}, parser.IOError(src.Path, err)
	}
	content := string(data)

	typ := Classify(src)
	var parsed model.ParsedFile
	switch typ {
	case model.NodeController:
		parsed = parseController(src, content)
	case model.NodeModel:
		parsed = parseModel(src, content)
	case model.NodeBladeView:
		parsed = parseBlade(src, content)
	case model.NodeRoute:
		parsed = parseRoute(src, content)
	case model.NodeMigration:
		parsed = parseMigration(src, content)
	case model.NodeInertiaPage:
		parsed = parseInertia(src, content)
	default:
		if src.Extension != "php" {
			return model.ParsedFile{}, parser.Unsupported(src.Path)
		}
		parsed = parsePHP(src, content)
		typ = Refine(typ, &parsed)
	}
	parsed.SetMeta("laravel_type", string(typ))
	return parsed, nil
}

func (p *Parser) ParseProject(ctx context.Context, root string, cfg parser.Config, onProgress parser.ProgressFunc) (*model.ParseResult, error) {
	return parser.RunProject(ctx, p, root, cfg, onProgress)
}

// typeSizes weights file nodes by architectural importance rather than
// byte count: a 40-line controller matters more than a 400-line config.
var typeSizes = map[model.NodeType]int{
	model.NodeController:  8,
	model.NodeModel:       7,
	model.NodeService:     7,
	model.NodeRepository:  7,
	model.NodeRoute:       6,
	model.NodeInertiaPage: 6,
	model.NodeMiddleware:  6,
	model.NodeProvider:    6,
	model.NodeAction:      6,
	model.NodeMigration:   5,
	model.NodeBladeView:   5,
	model.NodeJob:         5,
	model.NodeEvent:       5,
	model.NodeListener:    5,
	model.NodePolicy:      5,
}

func nodeSize(typ model.NodeType) int {
	if s, ok := typeSizes[typ]; ok {
		return s
	}
	return model.DefaultNodeSize
}

// GenerateNodes emits one node per file plus nodes for declared classes,
// interfaces, traits, methods and functions. Class nodes inherit the
// file's role (a class in a controller file is a controller node).
func (p *Parser) GenerateNodes(result *model.ParseResult) []model.Node {
	var nodes []model.Node
	for i := range result.Files {
		f := &result.Files[i]
		typ := model.NodeType(f.MetaString("laravel_type"))
		if typ == "" {
			typ = Classify(f.Source)
		}

		node := model.NewNode(ident.NodeID(f.Source.Path), f.Source.Name, typ).
			WithSize(nodeSize(typ))
		node.Metadata = model.NodeMetadata{
			Path:      f.Source.Path,
			Language:  "php",
			SizeBytes: f.Source.SizeBytes,
		}
		switch typ {
		case model.NodeBladeView:
			node.Metadata.QualifiedName = "view:" + f.MetaString("view_name")
			node.Metadata.Language = "blade"
		case model.NodeInertiaPage:
			node.Metadata.QualifiedName = "inertia:" + f.MetaString("page_name")
			node.Metadata.Language = f.MetaString("framework")
		default:
			if ns := f.MetaString("namespace"); ns != "" {
				node.Metadata.QualifiedName = ns
			}
		}
		// Everything the extractors mined (routes, relationships, casts,
		// columns, directive counts) rides along on the file node.
		node.Metadata.Extra = f.Metadata
		nodes = append(nodes, node)

		for _, sym := range f.Symbols {
			var symType model.NodeType
			switch sym.Kind {
			case model.SymClass:
				symType = model.NodeClass
				if typ == model.NodeController || typ == model.NodeModel {
					symType = typ
				}
			case model.SymInterface:
				symType = model.NodeInterface
			case model.SymTrait:
				symType = model.NodeTrait
			case model.SymMethod:
				symType = model.NodeMethod
			case model.SymFunction:
				symType = model.NodeFunction
			default:
				continue
			}
			symNode := model.NewNode(ident.SymbolID(f.Source.Path, sym.Name), sym.Name, symType)
			symNode.Metadata = model.NodeMetadata{
				Path:          f.Source.Path,
				QualifiedName: sym.QualifiedName,
				SymbolKind:    sym.Kind,
				Language:      "php",
				Visibility:    sym.Visibility,
				IsAbstract:    sym.IsAbstract,
				IsStatic:      sym.IsStatic,
				ParentClass:   sym.Extends,
				Implements:    sym.Implements,
				LineStart:     sym.LineStart,
				LineEnd:       sym.LineEnd,
			}
			nodes = append(nodes, symNode)
		}
	}
	return nodes
}

// GenerateEdges resolves relationships against two indexes over the node
// list: short name (label) and qualified name. Unresolvable targets are
// dropped; a Laravel tree references the framework constantly and edges
// into vendor code would drown the graph.
func (p *Parser) GenerateEdges(result *model.ParseResult, nodes []model.Node) []model.Edge {
	byLabel := make(map[string]string, len(nodes))
	byQualified := make(map[string]string, len(nodes))
	for _, n := range nodes {
		if _, exists := byLabel[n.Label]; !exists {
			byLabel[n.Label] = n.ID
		}
		if q := n.Metadata.QualifiedName; q != "" {
			if _, exists := byQualified[q]; !exists {
				byQualified[q] = n.ID
			}
		}
	}
	resolve := func(name string) (string, bool) {
		if id, ok := byQualified[name]; ok {
			return id, true
		}
		if id, ok := byLabel[shortClassName(name)]; ok {
			return id, true
		}
		return "", false
	}

	// Migration nodes indexed by the tables their up() creates, for
	// foreign-key reference edges.
	tableOwners := make(map[string]string)
	for i := range result.Files {
		f := &result.Files[i]
		if f.MetaString("laravel_type") != string(model.NodeMigration) {
			continue
		}
		for _, table := range metaStrings(f, "tables_created") {
			if _, exists := tableOwners[table]; !exists {
				tableOwners[table] = ident.NodeID(f.Source.Path)
			}
		}
	}

	var edges []model.Edge
	addCustom := func(sourceID, target, label string) {
		targetID, ok := resolve(target)
		if !ok {
			return
		}
		e := model.NewCustomEdge(sourceID, targetID, label)
		edges = append(edges, e)
	}

	for i := range result.Files {
		f := &result.Files[i]
		sourceID := ident.NodeID(f.Source.Path)
		typ := model.NodeType(f.MetaString("laravel_type"))

		for _, dep := range f.Dependencies {
			if strings.HasPrefix(dep.Target, "view:") {
				if targetID, ok := byQualified[dep.Target]; ok {
					label := "includes"
					if f.MetaString("extends") == strings.TrimPrefix(dep.Target, "view:") {
						e := model.NewEdge(sourceID, targetID, model.EdgeExtends)
						e.Label = strings.TrimPrefix(dep.Target, "view:")
						edges = append(edges, e)
						continue
					}
					e := model.NewCustomEdge(sourceID, targetID, label)
					edges = append(edges, e)
				}
				continue
			}
			if targetID, ok := resolve(dep.Target); ok && targetID != sourceID {
				e := model.NewEdge(sourceID, targetID, model.EdgeImports)
				e.Label = shortClassName(dep.Target)
				edges = append(edges, e)
			}
		}

		if rels, ok := f.Meta("relationships").([]Relationship); ok {
			for _, rel := range rels {
				if rel.RelatedModel == "" {
					continue
				}
				addCustom(sourceID, rel.RelatedModel, rel.Type)
			}
		}

		for _, view := range metaStrings(f, "views_referenced") {
			addCustom(sourceID, "view:"+view, "renders")
		}
		for _, page := range metaStrings(f, "inertia_pages") {
			addCustom(sourceID, "inertia:"+page, "renders")
		}

		if typ == model.NodeRoute {
			for _, controller := range metaStrings(f, "controllers_referenced") {
				addCustom(sourceID, controller, "routes_to")
			}
		}

		if fks, ok := f.Meta("foreign_keys").([]ForeignKeyDef); ok {
			for _, fk := range fks {
				ownerID, ok := tableOwners[fk.OnTable]
				if !ok || ownerID == sourceID {
					continue
				}
				e := model.NewCustomEdge(sourceID, ownerID, "references")
				e.Metadata = map[string]any{"column": fk.Column, "on_table": fk.OnTable}
				edges = append(edges, e)
			}
		}
	}
	return edges
}

// DetectFilePairs is a no-op: Laravel has no companion-file convention.
func (p *Parser) DetectFilePairs(result *model.ParseResult) []model.Edge { return nil }
