// Package scan walks a project tree and produces the SourceFile records the
// parsers work from. Exclusion happens at three levels: directory names
// prune whole subtrees, glob patterns drop individual paths, and .gitignore
// rules apply when enabled.
package scan

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gobwas/glob"
	gitignore "github.com/sabhiram/go-gitignore"

	"github.com/devpware/codeatlas/internal/ident"
	"github.com/devpware/codeatlas/internal/model"
	"github.com/devpware/codeatlas/internal/parser"
)

// Options control one walk.
type Options struct {
	// IncludeExtensions is the allow-list (lowercase, no dot). Empty
	// matches nothing; callers always know what they are looking for.
	IncludeExtensions []string

	// ExcludeDirs prunes subtrees by directory base name.
	ExcludeDirs []string

	// ExcludePatterns are glob patterns matched against the relative path.
	ExcludePatterns []string

	// MaxDepth caps recursion depth below the root; 0 means unlimited.
	MaxDepth int

	// UseGitignore applies a root-level .gitignore, if present.
	UseGitignore bool

	// HashContents reads each file and records a content hash.
	HashContents bool
}

// Walk scans root and returns matching files sorted by relative path, so
// downstream output is independent of filesystem iteration order.
func Walk(ctx context.Context, root string, opts Options) ([]model.SourceFile, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve root: %w", err)
	}
	info, err := os.Stat(absRoot)
	if err != nil {
		return nil, fmt.Errorf("scan root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("scan root: %s is not a directory", root)
	}

	exts := make(map[string]bool, len(opts.IncludeExtensions))
	for _, e := range opts.IncludeExtensions {
		exts[strings.ToLower(strings.TrimPrefix(e, "."))] = true
	}
	excludeDirs := make(map[string]bool, len(opts.ExcludeDirs))
	for _, d := range opts.ExcludeDirs {
		excludeDirs[d] = true
	}
	globs := make([]glob.Glob, 0, len(opts.ExcludePatterns))
	for _, p := range opts.ExcludePatterns {
		g, err := glob.Compile(p, '/')
		if err != nil {
			return nil, fmt.Errorf("bad exclude pattern %q: %w", p, err)
		}
		globs = append(globs, g)
	}

	var ignore *gitignore.GitIgnore
	if opts.UseGitignore {
		if gi, err := gitignore.CompileIgnoreFile(filepath.Join(absRoot, ".gitignore")); err == nil {
			ignore = gi
		}
	}

	var files []model.SourceFile
	err = filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable entries contribute no files; the walk goes on.
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		rel, err := filepath.Rel(absRoot, path)
		if err != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if rel == "." {
				return nil
			}
			if excludeDirs[d.Name()] {
				return filepath.SkipDir
			}
			if opts.MaxDepth > 0 && strings.Count(rel, "/")+1 >= opts.MaxDepth {
				return filepath.SkipDir
			}
			if ignore != nil && ignore.MatchesPath(rel+"/") {
				return filepath.SkipDir
			}
			return nil
		}

		ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(d.Name())), ".")
		if !exts[ext] {
			return nil
		}
		for _, g := range globs {
			if g.Match(rel) {
				return nil
			}
		}
		if ignore != nil && ignore.MatchesPath(rel) {
			return nil
		}

		fi, err := d.Info()
		if err != nil {
			return nil
		}
		src := model.SourceFile{
			Name:       d.Name(),
			Path:       rel,
			AbsPath:    path,
			Extension:  ext,
			SizeBytes:  fi.Size(),
			ModifiedAt: fi.ModTime(),
		}
		if opts.HashContents {
			if data, err := os.ReadFile(path); err == nil {
				src.Hash = ident.FileHash(data)
			}
		}
		files = append(files, src)
		return nil
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, &parser.Error{Kind: parser.KindCancelled, Err: ctxErr}
		}
		return nil, err
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, nil
}
