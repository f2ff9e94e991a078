package laravel

import (
	"strings"
	"testing"

	"github.com/devpware/codeatlas/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleClass = `<?php

namespace App\Services;

use App\Models\User;
use Illuminate\Support\Collection as BaseCollection;

abstract class UserService extends BaseService implements Countable, JsonSerializable
{
    use Searchable, Cachable;

    public const MAX_RESULTS = 100;

    private static ?User $instance = null;
    protected string $connection;

    public function find(int $id): ?User
    {
        return null;
    }

    protected static function boot(): void
    {
    }

    public function __construct()
    {
    }
}

interface UserFinder extends Finder
{
}

trait Searchable
{
}

function helper_format(string $v): string
{
    return $v;
}
`

func phpFile(path string) model.SourceFile {
	name := path
	if i := strings.LastIndexByte(path, '/'); i >= 0 {
		name = path[i+1:]
	}
	ext := "php"
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		ext = name[i+1:]
	}
	return model.SourceFile{Name: name, Path: path, Extension: ext}
}

func symbolsByKind(p model.ParsedFile, kind model.SymbolKind) []model.Symbol {
	var out []model.Symbol
	for _, s := range p.Symbols {
		if s.Kind == kind {
			out = append(out, s)
		}
	}
	return out
}

func TestParsePHP_NamespaceAndImports(t *testing.T) {
	parsed := parsePHP(phpFile("app/Services/UserService.php"), sampleClass)

	assert.Equal(t, `App\Services`, parsed.MetaString("namespace"))

	require.Len(t, parsed.Dependencies, 2)
	assert.Equal(t, `App\Models\User`, parsed.Dependencies[0].Target)
	assert.Empty(t, parsed.Dependencies[0].Alias)
	assert.Equal(t, `Illuminate\Support\Collection`, parsed.Dependencies[1].Target)
	assert.Equal(t, "BaseCollection", parsed.Dependencies[1].Alias)
}

func TestParsePHP_ClassDeclaration(t *testing.T) {
	parsed := parsePHP(phpFile("app/Services/UserService.php"), sampleClass)

	classes := symbolsByKind(parsed, model.SymClass)
	require.Len(t, classes, 1)
	c := classes[0]
	assert.Equal(t, "UserService", c.Name)
	assert.Equal(t, `App\Services\UserService`, c.QualifiedName)
	assert.True(t, c.IsAbstract)
	assert.Equal(t, "BaseService", c.Extends)
	assert.Equal(t, []string{"Countable", "JsonSerializable"}, c.Implements)
}

func TestParsePHP_InterfaceAndTrait(t *testing.T) {
	parsed := parsePHP(phpFile("app/Services/UserService.php"), sampleClass)

	ifaces := symbolsByKind(parsed, model.SymInterface)
	require.Len(t, ifaces, 1)
	assert.Equal(t, "UserFinder", ifaces[0].Name)
	assert.Equal(t, []string{"Finder"}, ifaces[0].Implements)

	traits := symbolsByKind(parsed, model.SymTrait)
	require.Len(t, traits, 1)
	assert.Equal(t, "Searchable", traits[0].Name)
}

func TestParsePHP_Methods(t *testing.T) {
	parsed := parsePHP(phpFile("app/Services/UserService.php"), sampleClass)

	methods := symbolsByKind(parsed, model.SymMethod)
	byName := map[string]model.Symbol{}
	for _, m := range methods {
		byName[m.Name] = m
	}

	require.Contains(t, byName, "find")
	assert.Equal(t, model.VisPublic, byName["find"].Visibility)
	assert.False(t, byName["find"].IsStatic)

	require.Contains(t, byName, "boot")
	assert.Equal(t, model.VisProtected, byName["boot"].Visibility)
	assert.True(t, byName["boot"].IsStatic)
}

func TestParsePHP_FreeFunctionsSkipMagic(t *testing.T) {
	parsed := parsePHP(phpFile("app/helpers.php"), sampleClass)

	fns := symbolsByKind(parsed, model.SymFunction)
	require.Len(t, fns, 1)
	assert.Equal(t, "helper_format", fns[0].Name)
}

func TestParsePHP_PropertiesAndConstants(t *testing.T) {
	parsed := parsePHP(phpFile("app/Services/UserService.php"), sampleClass)

	props := symbolsByKind(parsed, model.SymProperty)
	byName := map[string]model.Symbol{}
	for _, p := range props {
		byName[p.Name] = p
	}
	require.Contains(t, byName, "instance")
	assert.True(t, byName["instance"].IsStatic)
	assert.Equal(t, model.VisPrivate, byName["instance"].Visibility)
	require.Contains(t, byName, "connection")

	consts := symbolsByKind(parsed, model.SymConstant)
	require.Len(t, consts, 1)
	assert.Equal(t, "MAX_RESULTS", consts[0].Name)
}

func TestParsePHP_MalformedInput(t *testing.T) {
	for _, content := range []string{"", "<?php", "<?php class {", "not php at all"} {
		parsed := parsePHP(phpFile("x.php"), content)
		// No panics, no errors; malformed input just yields fewer facts.
		assert.Empty(t, parsed.Warnings)
		assert.Empty(t, parsed.Dependencies)
	}
}

func TestTraitsUsed(t *testing.T) {
	assert.Equal(t, []string{"Searchable", "Cachable"}, traitsUsed(sampleClass))
}
