package laravel

import (
	"testing"

	"github.com/devpware/codeatlas/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleVuePage = `<script setup>
import AppLayout from '../Layouts/AppLayout.vue'
import PostCard from './PostCard.vue'
import { Head, Link, router } from '@inertiajs/vue3'
import { computed } from 'vue'

const props = defineProps({
    posts: Array,
    filters: Object,
})

const emit = defineEmits(['refresh', 'select'])

function open(id) {
    router.visit('/posts/' + id)
}
</script>

<template>
    <Head title="Posts" />
    <AppLayout>
        <Link href="/posts/create">New post</Link>
        <PostCard v-for="post in posts" :key="post.id" :post="post" />
    </AppLayout>
</template>
`

const sampleReactPage = `import React from 'react'
import { useForm, usePage } from '@inertiajs/react'
import Layout from '../Layouts/Layout'

interface PostForm {
    title: string
}

export default function Create() {
    const form = useForm({ title: '' })
    return <Layout><form /></Layout>
}
`

func TestInertiaPageName(t *testing.T) {
	assert.Equal(t, "Posts/Index", InertiaPageName("resources/js/Pages/Posts/Index.vue"))
	assert.Equal(t, "Dashboard", InertiaPageName("resources/js/Pages/Dashboard.tsx"))
	// Classification is case-insensitive, so name derivation folds too.
	assert.Equal(t, "Dashboard", InertiaPageName("resources/js/pages/Dashboard.vue"))
}

func TestParseInertia_VuePage(t *testing.T) {
	src := model.SourceFile{Name: "Index.vue", Path: "resources/js/Pages/Posts/Index.vue", Extension: "vue"}
	parsed := parseInertia(src, sampleVuePage)

	assert.Equal(t, "Posts/Index", parsed.MetaString("page_name"))
	assert.Equal(t, "vue", parsed.MetaString("framework"))

	children := metaStrings(&parsed, "child_components")
	assert.Contains(t, children, "AppLayout")
	assert.Contains(t, children, "PostCard")
	assert.NotContains(t, children, "Head", "framework built-ins are excluded")
	assert.NotContains(t, children, "Link")

	assert.Equal(t, []string{"/posts/create"}, metaStrings(&parsed, "links"))
	assert.Equal(t, []string{"visit"}, metaStrings(&parsed, "router_calls"))

	assert.Equal(t, []string{"filters", "posts"}, metaStrings(&parsed, "props"))
	assert.Equal(t, []string{"refresh", "select"}, metaStrings(&parsed, "emits"))

	require.Len(t, parsed.Symbols, 1)
	assert.Equal(t, "inertia:Posts/Index", parsed.Symbols[0].QualifiedName)
	assert.Equal(t, model.SymUnit, parsed.Symbols[0].Kind)
}

func TestParseInertia_ImportsBecomeDependencies(t *testing.T) {
	src := model.SourceFile{Name: "Index.vue", Path: "resources/js/Pages/Posts/Index.vue", Extension: "vue"}
	parsed := parseInertia(src, sampleVuePage)

	var targets []string
	for _, d := range parsed.Dependencies {
		targets = append(targets, d.Target)
	}
	assert.Contains(t, targets, "../Layouts/AppLayout.vue")
	assert.Contains(t, targets, "./PostCard.vue")
	assert.Contains(t, targets, "@inertiajs/vue3")
}

func TestParseInertia_ReactPage(t *testing.T) {
	src := model.SourceFile{Name: "Create.jsx", Path: "resources/js/Pages/Posts/Create.jsx", Extension: "jsx"}
	parsed := parseInertia(src, sampleReactPage)

	assert.Equal(t, "react", parsed.MetaString("framework"))
	assert.True(t, parsed.Meta("uses_form_helper").(bool))
	assert.True(t, parsed.Meta("uses_page_props").(bool))
	assert.Equal(t, []string{"PostForm"}, metaStrings(&parsed, "type_declarations"))
}

func TestInertiaFramework_ContentSniff(t *testing.T) {
	assert.Equal(t, "vue", inertiaFramework("js", "<template><div/></template>"))
	assert.Equal(t, "react", inertiaFramework("js", "import React from 'react'"))
	assert.Equal(t, "unknown", inertiaFramework("js", "console.log('hi')"))
}
