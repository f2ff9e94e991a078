package laravel

import (
	"testing"

	"github.com/devpware/codeatlas/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleRoutes = `<?php

use App\Http\Controllers\PostController;
use App\Http\Controllers\HomeController;

Route::get('/', [HomeController::class, 'index'])->name('home');

Route::post('/posts', [PostController::class, 'store'])
    ->middleware(['auth', 'verified'])
    ->name('posts.store');

Route::get('/legacy', 'LegacyController@handle');

Route::get('/now', function () {
    return now();
});

Route::view('/about', 'pages.about');
Route::redirect('/old', '/new');

Route::resource('photos', App\Http\Controllers\PhotoController::class);

Route::group(['prefix' => 'admin', 'middleware' => ['auth', 'admin'], 'as' => 'admin.'], function () {
    Route::get('/dashboard', [HomeController::class, 'dashboard']);
});
`

func routesFor(t *testing.T, content, name string) model.ParsedFile {
	t.Helper()
	src := model.SourceFile{Name: name, Path: "routes/" + name, Extension: "php"}
	return parseRoute(src, content)
}

func TestParseRoute_Verbs(t *testing.T) {
	parsed := routesFor(t, sampleRoutes, "web.php")

	routes, ok := parsed.Meta("routes").([]RouteDef)
	require.True(t, ok)

	var byURI = map[string]RouteDef{}
	for _, r := range routes {
		if r.Action.Type != "controller" || r.Verb != "ANY" {
			byURI[r.Verb+" "+r.URI] = r
		}
	}

	home := byURI["GET /"]
	assert.Equal(t, "controller", home.Action.Type)
	assert.Equal(t, "HomeController", home.Action.Controller)
	assert.Equal(t, "index", home.Action.Method)
	assert.Equal(t, "home", home.Name)

	store := byURI["POST /posts"]
	assert.Equal(t, "PostController", store.Action.Controller)
	assert.Equal(t, []string{"auth", "verified"}, store.Middleware)
	assert.Equal(t, "posts.store", store.Name)
}

func TestParseRoute_LegacyAndClosure(t *testing.T) {
	parsed := routesFor(t, sampleRoutes, "web.php")
	routes := parsed.Meta("routes").([]RouteDef)

	var legacy, closure *RouteDef
	for i := range routes {
		switch routes[i].URI {
		case "/legacy":
			legacy = &routes[i]
		case "/now":
			closure = &routes[i]
		}
	}
	require.NotNil(t, legacy)
	assert.Equal(t, "LegacyController", legacy.Action.Controller)
	assert.Equal(t, "handle", legacy.Action.Method)

	require.NotNil(t, closure)
	assert.Equal(t, "closure", closure.Action.Type)
}

func TestParseRoute_ViewAndRedirect(t *testing.T) {
	parsed := routesFor(t, sampleRoutes, "web.php")
	routes := parsed.Meta("routes").([]RouteDef)

	var view, redirect *RouteDef
	for i := range routes {
		switch routes[i].Action.Type {
		case "view":
			view = &routes[i]
		case "redirect":
			redirect = &routes[i]
		}
	}
	require.NotNil(t, view)
	assert.Equal(t, "/about", view.URI)
	assert.Equal(t, "pages.about", view.Action.Target)

	require.NotNil(t, redirect)
	assert.Equal(t, "/new", redirect.Action.Target)
}

func TestParseRoute_ResourceExpansion(t *testing.T) {
	parsed := routesFor(t, sampleRoutes, "web.php")
	routes := parsed.Meta("routes").([]RouteDef)

	var photoActions []string
	for _, r := range routes {
		if r.URI == "photos" {
			assert.Equal(t, "PhotoController", r.Action.Controller)
			photoActions = append(photoActions, r.Action.Method)
		}
	}
	assert.Equal(t, []string{"index", "create", "store", "show", "edit", "update", "destroy"}, photoActions)
}

func TestParseRoute_ApiResourceExpansion(t *testing.T) {
	parsed := routesFor(t, `<?php
Route::apiResource('orders', OrderController::class);
`, "api.php")
	routes := parsed.Meta("routes").([]RouteDef)
	require.Len(t, routes, 5)
	assert.Equal(t, "api", parsed.MetaString("route_type"))
}

func TestParseRoute_Groups(t *testing.T) {
	parsed := routesFor(t, sampleRoutes, "web.php")

	groups, ok := parsed.Meta("route_groups").([]RouteGroup)
	require.True(t, ok)
	require.Len(t, groups, 1)
	assert.Equal(t, "admin", groups[0].Prefix)
	assert.Equal(t, []string{"auth", "admin"}, groups[0].Middleware)
	assert.Equal(t, "admin.", groups[0].As)
}

func TestParseRoute_Aggregates(t *testing.T) {
	parsed := routesFor(t, sampleRoutes, "web.php")

	controllers := metaStrings(&parsed, "controllers_referenced")
	assert.Contains(t, controllers, "HomeController")
	assert.Contains(t, controllers, "PostController")
	assert.Contains(t, controllers, "PhotoController")
	assert.Contains(t, controllers, "LegacyController")

	middlewares := metaStrings(&parsed, "middlewares_used")
	assert.Contains(t, middlewares, "auth")
	assert.Contains(t, middlewares, "admin")

	assert.Equal(t, "web", parsed.MetaString("route_type"))

	require.Len(t, parsed.Symbols, 1)
	assert.Equal(t, "routes/web", parsed.Symbols[0].QualifiedName)
	assert.Equal(t, model.SymUnit, parsed.Symbols[0].Kind)
}
