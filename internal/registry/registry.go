// Package registry holds the catalog of known parsers. A Registry is an
// explicit value owned by its caller rather than package-level state, so
// tests and embedders can build their own catalogs without cross-talk.
package registry

import (
	"fmt"
	"sort"

	"github.com/devpware/codeatlas/internal/detect"
)

// ParserInfo describes one parser in the catalog: what it is called, what
// it handles, and whether an implementation is actually wired in.
type ParserInfo struct {
	ID             string             `json:"id"`
	DisplayName    string             `json:"display_name"`
	Description    string             `json:"description"`
	Version        string             `json:"version"`
	FileExtensions []string           `json:"file_extensions"`
	MarkerFiles    []string           `json:"marker_files"`
	MarkerDirs     []string           `json:"marker_dirs"`
	ProjectType    detect.ProjectType `json:"project_type"`
	PrimaryColor   string             `json:"primary_color"`

	// Available distinguishes implemented parsers from ones that are only
	// declared so detection can still name them.
	Available bool `json:"is_available"`
}

// Registry is the parser catalog.
type Registry struct {
	byID map[string]ParserInfo
}

// NewRegistry returns a catalog seeded with the built-in parsers.
func NewRegistry() *Registry {
	r := &Registry{byID: make(map[string]ParserInfo)}
	r.Register(ParserInfo{
		ID:             "delphi",
		DisplayName:    "Delphi / Object Pascal",
		Description:    "Units, forms, projects and packages with uses-clause dependencies",
		Version:        "1.0.0",
		FileExtensions: []string{"pas", "dfm", "fmx", "dpr", "dpk"},
		MarkerFiles:    []string{"*.dpr", "*.dproj", "*.groupproj"},
		MarkerDirs:     nil,
		ProjectType:    detect.TypeDelphi,
		PrimaryColor:   detect.TypeDelphi.Color(),
		Available:      true,
	})
	r.Register(ParserInfo{
		ID:             "laravel",
		DisplayName:    "Laravel / PHP",
		Description:    "Controllers, models, routes, migrations, Blade views and Inertia pages",
		Version:        "1.0.0",
		FileExtensions: []string{"php", "blade.php", "vue", "jsx", "tsx", "svelte"},
		MarkerFiles:    []string{"artisan", "composer.json"},
		MarkerDirs:     []string{"app/Http/Controllers", "resources/views", "routes"},
		ProjectType:    detect.TypeLaravel,
		PrimaryColor:   detect.TypeLaravel.Color(),
		Available:      true,
	})
	r.Register(ParserInfo{
		ID:             "nodejs",
		DisplayName:    "Node.js / TypeScript",
		Description:    "JavaScript and TypeScript projects",
		Version:        "0.1.0",
		FileExtensions: []string{"js", "jsx", "ts", "tsx"},
		MarkerFiles:    []string{"package.json"},
		ProjectType:    detect.TypeNodeJS,
		PrimaryColor:   detect.TypeNodeJS.Color(),
		Available:      false,
	})
	return r
}

// Register adds or replaces a catalog entry.
func (r *Registry) Register(info ParserInfo) {
	r.byID[info.ID] = info
}

// Get returns the entry for id.
func (r *Registry) Get(id string) (ParserInfo, error) {
	info, ok := r.byID[id]
	if !ok {
		return ParserInfo{}, fmt.Errorf("unknown parser: %q", id)
	}
	return info, nil
}

// List returns all entries sorted by id, so output is stable run to run.
func (r *Registry) List() []ParserInfo {
	out := make([]ParserInfo, 0, len(r.byID))
	for _, info := range r.byID {
		out = append(out, info)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
