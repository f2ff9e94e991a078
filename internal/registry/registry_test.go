package registry

import (
	"testing"

	"github.com/devpware/codeatlas/internal/detect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRegistry_Defaults(t *testing.T) {
	r := NewRegistry()

	delphi, err := r.Get("delphi")
	require.NoError(t, err)
	assert.True(t, delphi.Available)
	assert.Equal(t, "1.0.0", delphi.Version)
	assert.Equal(t, detect.TypeDelphi, delphi.ProjectType)

	laravel, err := r.Get("laravel")
	require.NoError(t, err)
	assert.True(t, laravel.Available)

	node, err := r.Get("nodejs")
	require.NoError(t, err)
	assert.False(t, node.Available)
	assert.Equal(t, "0.1.0", node.Version)
}

func TestGet_Unknown(t *testing.T) {
	_, err := NewRegistry().Get("cobol")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown parser: "cobol"`)
}

func TestList_StableOrder(t *testing.T) {
	r := NewRegistry()
	first := r.List()
	second := r.List()
	require.Equal(t, first, second)

	ids := make([]string, len(first))
	for i, info := range first {
		ids[i] = info.ID
	}
	assert.Equal(t, []string{"delphi", "laravel", "nodejs"}, ids)
}

func TestRegister_IsolatedValues(t *testing.T) {
	a := NewRegistry()
	b := NewRegistry()
	a.Register(ParserInfo{ID: "custom", Available: true})

	_, err := a.Get("custom")
	assert.NoError(t, err)
	_, err = b.Get("custom")
	assert.Error(t, err)
}
