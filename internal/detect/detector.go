package detect

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// secondaryThreshold is the score a non-primary type must exceed to be
// reported as a secondary technology. The primary has no floor: any
// evidence at all beats unknown.
const secondaryThreshold = 0.3

// Scored pairs a project type with its accumulated evidence.
type Scored struct {
	Type       ProjectType `json:"type"`
	Confidence float64     `json:"confidence"`
	Markers    []string    `json:"markers,omitempty"`
}

// Detection is the ranked outcome of a detection pass.
type Detection struct {
	Primary       ProjectType `json:"primary"`
	Confidence    float64     `json:"confidence"`
	Secondary     []Scored    `json:"secondary,omitempty"`
	MultiLanguage bool        `json:"is_multi_language"`
	Markers       []string    `json:"markers,omitempty"`
	ParserID      string      `json:"parser_id"`
}

// Detector scores a directory against the known technologies. The zero
// value is ready to use.
type Detector struct{}

// NewDetector returns a Detector.
func NewDetector() *Detector { return &Detector{} }

// Detect scores root against every known technology and returns the ranked
// result. It fails only on filesystem-level problems with root itself;
// unreadable files inside the tree simply contribute no evidence.
func (d *Detector) Detect(root string) (Detection, error) {
	info, err := os.Stat(root)
	if err != nil {
		return Detection{}, fmt.Errorf("detect project type: %w", err)
	}
	if !info.IsDir() {
		return Detection{}, fmt.Errorf("detect project type: %s is not a directory", root)
	}

	fs := newFsProbe(root)

	scores := []Scored{
		d.scoreDelphi(fs),
		d.scoreLaravel(fs),
		d.scoreNodeJS(fs),
		d.scorePHP(fs),
	}

	// Laravel implies PHP; once Laravel evidence is strong the generic PHP
	// score would only produce a redundant secondary entry.
	laravelScore := 0.0
	for _, s := range scores {
		if s.Type == TypeLaravel {
			laravelScore = s.Confidence
		}
	}
	if laravelScore >= 0.5 {
		for i := range scores {
			if scores[i].Type == TypePHP {
				scores[i].Confidence = 0
				scores[i].Markers = nil
			}
		}
	}

	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].Confidence > scores[j].Confidence
	})

	best := scores[0]
	if best.Confidence == 0 {
		return Detection{
			Primary:  TypeUnknown,
			ParserID: TypeUnknown.ParserID(),
		}, nil
	}

	det := Detection{
		Primary:    best.Type,
		Confidence: best.Confidence,
		Markers:    best.Markers,
		ParserID:   best.Type.ParserID(),
	}
	for _, s := range scores[1:] {
		if s.Confidence > secondaryThreshold {
			det.Secondary = append(det.Secondary, s)
		}
	}
	det.MultiLanguage = len(det.Secondary) > 0
	return det, nil
}

// Score computes the confidence for a single technology without ranking
// the alternatives. Parsers use it to self-check a root; a root that
// cannot be probed contributes no evidence.
func (d *Detector) Score(root string, t ProjectType) Scored {
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return Scored{Type: t}
	}
	fs := newFsProbe(root)
	switch t {
	case TypeDelphi:
		return d.scoreDelphi(fs)
	case TypeLaravel:
		return d.scoreLaravel(fs)
	case TypeNodeJS:
		return d.scoreNodeJS(fs)
	case TypePHP:
		return d.scorePHP(fs)
	default:
		return Scored{Type: t}
	}
}

func (d *Detector) scoreDelphi(fs *fsProbe) Scored {
	s := Scored{Type: TypeDelphi}
	for _, ext := range []string{"dpr", "dproj", "groupproj"} {
		if fs.hasAnyExtension(ext) {
			s.add(0.4, "*."+ext+" project files")
		}
	}
	if fs.hasAnyExtension("pas") {
		s.add(0.3, "*.pas source files")
	}
	if fs.hasAnyExtension("dfm", "fmx") {
		s.add(0.2, "*.dfm/*.fmx form files")
	}
	return s
}

func (d *Detector) scoreLaravel(fs *fsProbe) Scored {
	s := Scored{Type: TypeLaravel}
	if fs.fileContains("composer.json", "laravel/framework") {
		s.add(0.6, "composer.json requires laravel/framework")
	}
	if fs.hasFile("artisan") {
		s.add(0.2, "artisan")
	}
	for _, dir := range []string{"app/Http/Controllers", "resources/views", "routes", "database/migrations"} {
		if fs.hasDir(dir) {
			s.add(0.05, dir+"/")
		}
	}
	return s
}

func (d *Detector) scoreNodeJS(fs *fsProbe) Scored {
	s := Scored{Type: TypeNodeJS}
	if fs.hasFile("package.json") {
		s.add(0.4, "package.json")
	}
	if fs.hasFile("tsconfig.json") {
		s.add(0.2, "tsconfig.json")
	}
	if fs.hasAnyExtension("ts", "tsx") {
		s.add(0.2, "*.ts/*.tsx source files")
	}
	if fs.hasAnyExtension("js", "jsx") {
		s.add(0.1, "*.js/*.jsx source files")
	}
	return s
}

func (d *Detector) scorePHP(fs *fsProbe) Scored {
	s := Scored{Type: TypePHP}
	if fs.hasFile("composer.json") {
		s.add(0.3, "composer.json")
	}
	if fs.hasAnyExtension("php") {
		s.add(0.4, "*.php source files")
	}
	return s
}

func (s *Scored) add(weight float64, marker string) {
	s.Confidence += weight
	if s.Confidence > 1.0 {
		s.Confidence = 1.0
	}
	s.Markers = append(s.Markers, marker)
}

// fsProbe answers marker questions about a project root. Extension checks
// look at the root and one subdirectory level, which is enough evidence for
// scoring without walking a whole monorepo.
type fsProbe struct {
	root    string
	entries []os.DirEntry
}

func newFsProbe(root string) *fsProbe {
	entries, _ := os.ReadDir(root)
	return &fsProbe{root: root, entries: entries}
}

func (f *fsProbe) hasFile(name string) bool {
	info, err := os.Stat(filepath.Join(f.root, filepath.FromSlash(name)))
	return err == nil && info.Mode().IsRegular()
}

func (f *fsProbe) hasDir(name string) bool {
	info, err := os.Stat(filepath.Join(f.root, filepath.FromSlash(name)))
	return err == nil && info.IsDir()
}

func (f *fsProbe) fileContains(name, needle string) bool {
	data, err := os.ReadFile(filepath.Join(f.root, name))
	return err == nil && strings.Contains(string(data), needle)
}

func (f *fsProbe) hasAnyExtension(exts ...string) bool {
	match := func(entries []os.DirEntry) bool {
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(e.Name())), ".")
			for _, want := range exts {
				if ext == want {
					return true
				}
			}
		}
		return false
	}
	if match(f.entries) {
		return true
	}
	for _, e := range f.entries {
		if !e.IsDir() {
			continue
		}
		sub, err := os.ReadDir(filepath.Join(f.root, e.Name()))
		if err != nil {
			continue
		}
		if match(sub) {
			return true
		}
	}
	return false
}
