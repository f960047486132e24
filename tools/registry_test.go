package tools

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubLister struct {
	descriptors []Descriptor
	err         error
	calls       int
}

func (s *stubLister) ListTools(context.Context) ([]Descriptor, error) {
	s.calls++
	return s.descriptors, s.err
}

func TestLoadRegistry(t *testing.T) {
	lister := &stubLister{descriptors: []Descriptor{
		{Name: "zeta", Description: "last"},
		{
			Name:        "createPost",
			Description: "Publish a post",
			Parameters: Schema{
				Type:       "object",
				Properties: map[string]any{"status": map[string]any{"type": "string"}},
				Required:   []string{"status"},
			},
		},
	}}

	r, err := LoadRegistry(context.Background(), lister)
	require.NoError(t, err)
	assert.Equal(t, 1, lister.calls)
	assert.Equal(t, 2, r.Len())

	d, ok := r.Get("createPost")
	require.True(t, ok)
	assert.Equal(t, "Publish a post", d.Description)

	_, ok = r.Get("missing")
	assert.False(t, ok)

	all := r.All()
	require.Len(t, all, 2)
	assert.Equal(t, "createPost", all[0].Name)
	assert.Equal(t, "zeta", all[1].Name)
}

func TestLoadRegistryFailure(t *testing.T) {
	_, err := LoadRegistry(context.Background(), &stubLister{err: errors.New("connection reset")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")

	_, err = LoadRegistry(context.Background(), &stubLister{descriptors: []Descriptor{{Description: "anonymous"}}})
	require.Error(t, err)
}

func TestToGeminiFormat(t *testing.T) {
	r := NewRegistry()
	r.Register(Descriptor{
		Name:        "createPost",
		Description: "Publish a post",
		Parameters: Schema{
			Type:       "object",
			Properties: map[string]any{"status": map[string]any{"type": "string"}},
			Required:   []string{"status"},
		},
	})
	r.Register(Descriptor{Name: "ping", Description: "Health check"})

	decls := r.ToGeminiFormat()
	require.Len(t, decls, 2)

	assert.Equal(t, "createPost", decls[0].Name)
	assert.Equal(t, "Publish a post", decls[0].Description)
	assert.Equal(t, map[string]any{
		"type":       "object",
		"properties": map[string]any{"status": map[string]any{"type": "string"}},
		"required":   []string{"status"},
	}, decls[0].ParametersJsonSchema)

	assert.Equal(t, "ping", decls[1].Name)
	assert.Equal(t, map[string]any{
		"type":       "object",
		"properties": map[string]any{},
	}, decls[1].ParametersJsonSchema)
}
