package scan

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devpware/codeatlas/internal/parser"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	p := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
}

func TestWalk_ExtensionFilter(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "src/Main.pas", "unit Main;")
	writeFile(t, root, "src/Main.dfm", "object Form1: TForm1\nend")
	writeFile(t, root, "readme.md", "# hi")

	files, err := Walk(context.Background(), root, Options{
		IncludeExtensions: []string{"pas", "dfm"},
	})
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "src/Main.dfm", files[0].Path)
	assert.Equal(t, "src/Main.pas", files[1].Path)
	assert.Equal(t, "pas", files[1].Extension)
	assert.Equal(t, int64(10), files[1].SizeBytes)
}

func TestWalk_CaseInsensitiveExtensions(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "MAIN.PAS", "unit Main;")

	files, err := Walk(context.Background(), root, Options{
		IncludeExtensions: []string{"pas"},
	})
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "pas", files[0].Extension)
}

func TestWalk_ExcludeDirsPruneSubtrees(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "src/Main.pas", "unit Main;")
	writeFile(t, root, "__history/Main.pas", "unit Old;")
	writeFile(t, root, "Debug/nested/Gen.pas", "unit Gen;")

	files, err := Walk(context.Background(), root, Options{
		IncludeExtensions: []string{"pas"},
		ExcludeDirs:       []string{"__history", "Debug"},
	})
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "src/Main.pas", files[0].Path)
}

func TestWalk_ExcludePatterns(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "app/Models/User.php", "<?php")
	writeFile(t, root, "app/Models/User.generated.php", "<?php")

	files, err := Walk(context.Background(), root, Options{
		IncludeExtensions: []string{"php"},
		ExcludePatterns:   []string{"**.generated.php"},
	})
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "app/Models/User.php", files[0].Path)
}

func TestWalk_Gitignore(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, ".gitignore", "build/\nsecret.php\n")
	writeFile(t, root, "app/Index.php", "<?php")
	writeFile(t, root, "secret.php", "<?php")
	writeFile(t, root, "build/out.php", "<?php")

	files, err := Walk(context.Background(), root, Options{
		IncludeExtensions: []string{"php"},
		UseGitignore:      true,
	})
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "app/Index.php", files[0].Path)
}

func TestWalk_HashContents(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.pas", "unit A;")
	writeFile(t, root, "b.pas", "unit A;")

	files, err := Walk(context.Background(), root, Options{
		IncludeExtensions: []string{"pas"},
		HashContents:      true,
	})
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.NotEmpty(t, files[0].Hash)
	// Identical content, identical hash; the path plays no part.
	assert.Equal(t, files[0].Hash, files[1].Hash)
}

func TestWalk_SortedOutput(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "z.pas", "unit Z;")
	writeFile(t, root, "a.pas", "unit A;")
	writeFile(t, root, "m/m.pas", "unit M;")

	files, err := Walk(context.Background(), root, Options{IncludeExtensions: []string{"pas"}})
	require.NoError(t, err)
	var got []string
	for _, f := range files {
		got = append(got, f.Path)
	}
	assert.Equal(t, []string{"a.pas", "m/m.pas", "z.pas"}, got)
}

func TestWalk_Cancelled(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "src/Main.pas", "unit Main;")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Walk(ctx, root, Options{IncludeExtensions: []string{"pas"}})
	require.Error(t, err)
	assert.True(t, parser.IsKind(err, parser.KindCancelled))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestWalk_MissingRoot(t *testing.T) {
	_, err := Walk(context.Background(), filepath.Join(t.TempDir(), "gone"), Options{})
	assert.Error(t, err)
}
