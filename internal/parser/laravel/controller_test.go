package laravel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleController = `<?php

namespace App\Http\Controllers;

use App\Models\Post;
use Illuminate\Http\Request;
use Inertia\Inertia;

class PostController extends Controller
{
    public function __construct()
    {
        $this->middleware('auth');
        $this->middleware(['verified', 'throttle:60,1']);
    }

    public function index()
    {
        $posts = Post::with('author')->get();
        return view('posts.index', compact('posts'));
    }

    public function show(Post $post)
    {
        return Inertia::render('Posts/Show', ['post' => $post]);
    }

    public function store(Request $request)
    {
        Post::create($request->validated());
        return redirect()->route('posts.index');
    }

    public function edit(Post $post) {}
    public function update(Request $request, Post $post) {}
    public function destroy(Post $post) {}
}
`

func TestParseController_Middleware(t *testing.T) {
	parsed := parseController(phpFile("app/Http/Controllers/PostController.php"), sampleController)
	assert.Equal(t, []string{"auth", "throttle:60,1", "verified"}, metaStrings(&parsed, "middlewares"))
}

func TestParseController_ResourceDetection(t *testing.T) {
	parsed := parseController(phpFile("app/Http/Controllers/PostController.php"), sampleController)
	assert.True(t, metaBool(&parsed, "is_resource_controller"))

	minimal := `<?php
class PingController extends Controller
{
    public function index() {}
}
`
	parsed = parseController(phpFile("app/Http/Controllers/PingController.php"), minimal)
	assert.False(t, metaBool(&parsed, "is_resource_controller"),
		"fewer than four REST actions is not a resource controller")
}

func TestParseController_ViewsAndModels(t *testing.T) {
	parsed := parseController(phpFile("app/Http/Controllers/PostController.php"), sampleController)

	assert.Equal(t, []string{"posts.index"}, metaStrings(&parsed, "views_referenced"))

	models := metaStrings(&parsed, "models_referenced")
	assert.Contains(t, models, "Post")
	assert.NotContains(t, models, "Request", "framework types are excluded")
	assert.NotContains(t, models, "Inertia")
}

func TestParseController_InertiaPages(t *testing.T) {
	parsed := parseController(phpFile("app/Http/Controllers/PostController.php"), sampleController)
	assert.Equal(t, []string{"Posts/Show"}, metaStrings(&parsed, "inertia_pages"))
	assert.True(t, metaBool(&parsed, "uses_inertia"))
}

func TestParseController_FacadesNotModels(t *testing.T) {
	content := `<?php
class StatsController extends Controller
{
    public function index()
    {
        DB::where('x', 1);
        Cache::all();
        Metric::where('day', today())->get();
    }
}
`
	parsed := parseController(phpFile("app/Http/Controllers/StatsController.php"), content)
	models := metaStrings(&parsed, "models_referenced")
	require.Equal(t, []string{"Metric"}, models)
}
