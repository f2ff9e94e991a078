package model

import (
	"strings"
	"time"
)

// SourceFile describes a single file discovered during a scan. Path is
// always relative to the project root and uses forward slashes regardless of
// platform, so identities derived from it are stable across machines.
type SourceFile struct {
	// Name is the base file name, including extension.
	Name string `json:"name"`

	// Path is the root-relative path with forward slashes.
	Path string `json:"path"`

	// AbsPath is the absolute path on the machine that scanned the tree.
	AbsPath string `json:"absolute_path"`

	// Extension is lowercase and has no leading dot ("pas", "php", "vue").
	Extension string `json:"extension"`

	// SizeBytes is the file size as reported by the filesystem.
	SizeBytes int64 `json:"size_bytes"`

	// Hash is an optional content hash; empty when hashing was disabled.
	Hash string `json:"hash,omitempty"`

	// ModifiedAt is the filesystem mtime, if available.
	ModifiedAt time.Time `json:"modified_at,omitzero"`
}

// IsDelphiUnit reports whether the file is a Pascal unit.
func (s SourceFile) IsDelphiUnit() bool { return s.Extension == "pas" }

// IsDelphiForm reports whether the file is a VCL or FMX form definition.
func (s SourceFile) IsDelphiForm() bool { return s.Extension == "dfm" || s.Extension == "fmx" }

// IsPHP reports whether the file is a PHP source file, Blade included.
func (s SourceFile) IsPHP() bool { return s.Extension == "php" }

// IsBlade reports whether the file is a Blade template.
func (s SourceFile) IsBlade() bool { return strings.HasSuffix(s.Name, ".blade.php") }

// Stem returns the file name without its final extension.
func (s SourceFile) Stem() string {
	if i := strings.LastIndex(s.Name, "."); i > 0 {
		return s.Name[:i]
	}
	return s.Name
}
