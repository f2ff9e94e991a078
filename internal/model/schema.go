// Package model defines the shared data types exchanged between the
// detector, the language parsers and the graph assembly: source files,
// extracted symbols and dependencies, per-project parse results, and the
// unified property graph they are assembled into.
package model

// NodeType classifies a node in the unified graph. The set is the union of
// the kinds every supported language produces; each parser only emits the
// subset it knows about.
type NodeType string

const (
	// Delphi node types.
	NodeModule     NodeType = "module"
	NodeForm       NodeType = "form"
	NodeSourceFile NodeType = "source_file"
	NodePackage    NodeType = "package"

	// Symbol-level node types shared across languages.
	NodeClass     NodeType = "class"
	NodeInterface NodeType = "interface"
	NodeTrait     NodeType = "trait"
	NodeMethod    NodeType = "method"
	NodeFunction  NodeType = "function"

	// Laravel node types.
	NodeController   NodeType = "controller"
	NodeModel        NodeType = "model"
	NodeBladeView    NodeType = "blade_view"
	NodeRoute        NodeType = "route"
	NodeMigration    NodeType = "migration"
	NodeInertiaPage  NodeType = "inertia_page"
	NodeMiddleware   NodeType = "middleware"
	NodeRequest      NodeType = "request"
	NodeResource     NodeType = "resource"
	NodeProvider     NodeType = "provider"
	NodeEvent        NodeType = "event"
	NodeListener     NodeType = "listener"
	NodeJob          NodeType = "job"
	NodePolicy       NodeType = "policy"
	NodeCommand      NodeType = "command"
	NodeConfig       NodeType = "config"
	NodeSeeder       NodeType = "seeder"
	NodeFactory      NodeType = "factory"
	NodeTest         NodeType = "test"
	NodeService      NodeType = "service"
	NodeRepository   NodeType = "repository"
	NodeAction       NodeType = "action"
	NodeDTO          NodeType = "dto"
	NodeNotification NodeType = "notification"
	NodeMailable     NodeType = "mailable"
	NodeObserver     NodeType = "observer"
	NodeScope        NodeType = "scope"
	NodeCast         NodeType = "cast"
	NodeRule         NodeType = "rule"
	NodeContract     NodeType = "contract"
	NodeException    NodeType = "exception"
	NodeEnum         NodeType = "enum"
	NodePHPFile      NodeType = "php_file"

	// NodeFile is the fallback for files no parser claims.
	NodeFile NodeType = "file"
)

// EdgeType classifies an edge in the unified graph. Language-specific
// relationships that do not warrant their own variant use EdgeCustom with a
// Label describing the relationship ("has_many", "renders", "routes_to", ...).
type EdgeType string

const (
	EdgeUses           EdgeType = "uses"
	EdgeImplementsUses EdgeType = "implements_uses"
	EdgeExtends        EdgeType = "extends"
	EdgeImplements     EdgeType = "implements"
	EdgeImports        EdgeType = "imports"
	EdgeFilePair       EdgeType = "file_pair"
	EdgeContains       EdgeType = "contains"
	EdgeCustom         EdgeType = "custom"
)

// SymbolKind classifies an extracted symbol.
type SymbolKind string

const (
	SymClass     SymbolKind = "class"
	SymInterface SymbolKind = "interface"
	SymTrait     SymbolKind = "trait"
	SymEnum      SymbolKind = "enum"
	SymFunction  SymbolKind = "function"
	SymMethod    SymbolKind = "method"
	SymVariable  SymbolKind = "variable"
	SymConstant  SymbolKind = "constant"
	SymProperty  SymbolKind = "property"
	SymRecord    SymbolKind = "record"
	SymUnit      SymbolKind = "unit"
)

// Visibility is the declared access level of a symbol, where the language
// has one. Empty means unknown or not applicable.
type Visibility string

const (
	VisPublic    Visibility = "public"
	VisProtected Visibility = "protected"
	VisPrivate   Visibility = "private"
)
