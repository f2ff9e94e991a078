package laravel

import (
	"regexp"
	"strings"

	"github.com/devpware/codeatlas/internal/model"
)

// ColumnDef is one column definition found inside a Schema block.
type ColumnDef struct {
	Name      string   `json:"name"`
	Type      string   `json:"type"`
	Modifiers []string `json:"modifiers,omitempty"`
	Default   string   `json:"default,omitempty"`
}

// ForeignKeyDef records a foreign key constraint.
type ForeignKeyDef struct {
	Column     string `json:"column"`
	References string `json:"references,omitempty"`
	OnTable    string `json:"on_table"`
	OnDelete   string `json:"on_delete,omitempty"`
	OnUpdate   string `json:"on_update,omitempty"`
}

// IndexDef records an index declaration.
type IndexDef struct {
	Type    string   `json:"type"` // primary | unique | index
	Columns []string `json:"columns"`
}

var (
	reMigrationClass     = regexp.MustCompile(`class\s+(\w+)\s+extends\s+Migration`)
	reMigrationTimestamp = regexp.MustCompile(`^(\d{4}_\d{2}_\d{2}_\d{6})`)

	reMigrationUp   = regexp.MustCompile(`(?s)public\s+function\s+up\s*\(\s*\)(?:\s*:\s*void)?\s*\{(.*?)\n\s{4}\}`)
	reMigrationDown = regexp.MustCompile(`(?s)public\s+function\s+down\s*\(\s*\)(?:\s*:\s*void)?\s*\{(.*?)\n\s{4}\}`)

	reSchemaCreate = regexp.MustCompile(`Schema::create\s*\(\s*['"](\w+)['"]`)
	reSchemaTable  = regexp.MustCompile(`Schema::table\s*\(\s*['"](\w+)['"]`)
	reSchemaDrop   = regexp.MustCompile(`Schema::(?:dropIfExists|drop)\s*\(\s*['"](\w+)['"]`)
	reSchemaRename = regexp.MustCompile(`Schema::rename\s*\(\s*['"](\w+)['"]\s*,\s*['"](\w+)['"]`)

	reColumn      = regexp.MustCompile(`\$table\s*->\s*(\w+)\s*\(\s*['"](\w+)['"]`)
	reColModifier = regexp.MustCompile(`->\s*(nullable|unique|primary|unsigned|autoIncrement|index|useCurrent|useCurrentOnUpdate|comment|after|first|change)\s*\(`)
	reColDefault  = regexp.MustCompile(`->\s*default\s*\(\s*([^)]*)\)`)

	reForeignExplicit = regexp.MustCompile(`\$table\s*->\s*foreign\s*\(\s*['"](\w+)['"]\s*\)\s*->\s*references\s*\(\s*['"](\w+)['"]\s*\)\s*->\s*on\s*\(\s*['"](\w+)['"]\s*\)([^;]*)`)
	reForeignID       = regexp.MustCompile(`\$table\s*->\s*foreignId\s*\(\s*['"](\w+)['"]\s*\)\s*->\s*constrained\s*\(\s*(?:['"](\w+)['"])?\s*\)`)
	reOnDelete        = regexp.MustCompile(`->\s*onDelete\s*\(\s*['"](\w+)['"]`)
	reOnUpdate        = regexp.MustCompile(`->\s*onUpdate\s*\(\s*['"](\w+)['"]`)

	reIndexDecl = regexp.MustCompile(`\$table\s*->\s*(primary|unique|index)\s*\(\s*(\[[^\]]*\]|['"]\w+['"])`)
	reSchemaOp  = regexp.MustCompile(`Schema::(\w+)\s*\(\s*['"](\w+)['"]`)
)

// columnTypes is the Schema builder vocabulary; $table-> calls with other
// names (timestamps, foreign, index) are not column definitions.
var columnTypes = map[string]bool{
	"id": true, "bigIncrements": true, "bigInteger": true, "binary": true,
	"boolean": true, "char": true, "date": true, "dateTime": true,
	"dateTimeTz": true, "decimal": true, "double": true, "enum": true,
	"float": true, "foreignId": true, "foreignUuid": true, "geometry": true,
	"increments": true, "integer": true, "ipAddress": true, "json": true,
	"jsonb": true, "longText": true, "macAddress": true, "mediumIncrements": true,
	"mediumInteger": true, "mediumText": true, "morphs": true, "nullableMorphs": true,
	"smallIncrements": true, "smallInteger": true, "string": true, "text": true,
	"time": true, "timeTz": true, "timestamp": true, "timestampTz": true,
	"tinyIncrements": true, "tinyInteger": true, "tinyText": true, "unsignedBigInteger": true,
	"unsignedInteger": true, "unsignedMediumInteger": true, "unsignedSmallInteger": true,
	"unsignedTinyInteger": true, "uuid": true, "ulid": true, "year": true,
}

// parseMigration extracts schema operations from a migration file: tables
// created, modified and dropped, column definitions, foreign keys, indexes.
func parseMigration(src model.SourceFile, content string) model.ParsedFile {
	parsed := parsePHP(src, content)

	if m := reMigrationClass.FindStringSubmatch(content); m != nil {
		parsed.SetMeta("migration_class", m[1])
	}
	if m := reMigrationTimestamp.FindStringSubmatch(src.Name); m != nil {
		parsed.SetMeta("migration_timestamp", m[1])
	}

	up := ""
	if m := reMigrationUp.FindStringSubmatch(content); m != nil {
		up = m[1]
		parsed.SetMeta("up_operations", schemaOps(up))
	}
	if m := reMigrationDown.FindStringSubmatch(content); m != nil {
		parsed.SetMeta("down_operations", schemaOps(m[1]))
	}
	// Fall back to the whole file when the up() body isn't delimited the
	// way we expect; fewer facts beat none.
	if up == "" {
		up = content
	}

	var created, modified, dropped []string
	for _, m := range reSchemaCreate.FindAllStringSubmatch(up, -1) {
		created = append(created, m[1])
	}
	for _, m := range reSchemaTable.FindAllStringSubmatch(up, -1) {
		modified = append(modified, m[1])
	}
	for _, m := range reSchemaDrop.FindAllStringSubmatch(up, -1) {
		dropped = append(dropped, m[1])
	}
	for _, m := range reSchemaRename.FindAllStringSubmatch(up, -1) {
		modified = append(modified, m[1], m[2])
	}
	if len(created) > 0 {
		parsed.SetMeta("tables_created", dedupe(created))
	}
	if len(modified) > 0 {
		parsed.SetMeta("tables_modified", dedupe(modified))
	}
	if len(dropped) > 0 {
		parsed.SetMeta("tables_dropped", dedupe(dropped))
	}

	var columns []ColumnDef
	for _, loc := range reColumn.FindAllStringSubmatchIndex(up, -1) {
		typ := up[loc[2]:loc[3]]
		if !columnTypes[typ] {
			continue
		}
		col := ColumnDef{Name: up[loc[4]:loc[5]], Type: typ}
		line := lineWindow(up, loc[0])
		for _, mod := range reColModifier.FindAllStringSubmatch(line, -1) {
			col.Modifiers = append(col.Modifiers, mod[1])
		}
		if d := reColDefault.FindStringSubmatch(line); d != nil {
			col.Default = strings.Trim(strings.TrimSpace(d[1]), `'"`)
		}
		columns = append(columns, col)
	}
	if len(columns) > 0 {
		parsed.SetMeta("columns", columns)
	}

	var fks []ForeignKeyDef
	for _, m := range reForeignExplicit.FindAllStringSubmatch(up, -1) {
		fk := ForeignKeyDef{Column: m[1], References: m[2], OnTable: m[3]}
		if d := reOnDelete.FindStringSubmatch(m[4]); d != nil {
			fk.OnDelete = d[1]
		}
		if u := reOnUpdate.FindStringSubmatch(m[4]); u != nil {
			fk.OnUpdate = u[1]
		}
		fks = append(fks, fk)
	}
	for _, m := range reForeignID.FindAllStringSubmatch(up, -1) {
		fk := ForeignKeyDef{Column: m[1], References: "id", OnTable: m[2]}
		if fk.OnTable == "" {
			fk.OnTable = inferTableName(m[1])
		}
		fks = append(fks, fk)
	}
	if len(fks) > 0 {
		parsed.SetMeta("foreign_keys", fks)
	}

	var indexes []IndexDef
	for _, m := range reIndexDecl.FindAllStringSubmatch(up, -1) {
		indexes = append(indexes, IndexDef{Type: m[1], Columns: quotedList(m[2])})
	}
	if len(indexes) > 0 {
		parsed.SetMeta("indexes", indexes)
	}

	parsed.SetMeta("has_timestamps", strings.Contains(up, ")->timestamps(") || strings.Contains(up, "table->timestamps("))
	parsed.SetMeta("has_soft_deletes", strings.Contains(up, "softDeletes("))
	parsed.SetMeta("has_remember_token", strings.Contains(up, "rememberToken("))

	return parsed
}

func schemaOps(body string) []string {
	var ops []string
	for _, m := range reSchemaOp.FindAllStringSubmatch(body, -1) {
		ops = append(ops, m[1]+":"+m[2])
	}
	return ops
}

// inferTableName derives the conventional table for foreignId('user_id'):
// strip the _id suffix and pluralize naively.
func inferTableName(column string) string {
	base := strings.TrimSuffix(column, "_id")
	if base == column {
		return column
	}
	return base + "s"
}

// lineWindow returns the source line containing offset plus any directly
// chained continuation, enough to catch modifiers on the same statement.
func lineWindow(content string, offset int) string {
	end := strings.IndexByte(content[offset:], ';')
	if end < 0 {
		end = len(content) - offset
	}
	return content[offset : offset+end]
}
