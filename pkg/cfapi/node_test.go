package cfapi_test

import (
	"context"
	"testing"

	"github.com/ivanehh/go-cfapi/pkg/cfapi"
	"github.com/ivanehh/go-cfapi/pkg/cferr"
	"github.com/ivanehh/go-cfapi/pkg/endpoints"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fivePartTree(t *testing.T) *cfapi.Node {
	t.Helper()
	root, err := cfapi.Build([]endpoints.Spec{
		endpoints.New(endpoints.Authenticated, "a"),
		endpoints.New(endpoints.Authenticated, "a", "b"),
		endpoints.New(endpoints.Authenticated, "a", "b", "c"),
		endpoints.New(endpoints.Authenticated, "a", "b", "c", "d"),
		endpoints.New(endpoints.Authenticated, "a", "b", "c", "d", "e"),
	}, nil)
	require.NoError(t, err)
	return root
}

func TestURLPath(t *testing.T) {
	root := fivePartTree(t)

	tests := []struct {
		name string
		node []string
		ids  []string
		want string
	}{
		{name: "collection", node: []string{"a"}, want: "a"},
		{name: "item", node: []string{"a"}, ids: []string{"x"}, want: "a/x"},
		{name: "nested collection", node: []string{"a", "b"}, ids: []string{"1"}, want: "a/1/b"},
		{name: "nested item", node: []string{"a", "b"}, ids: []string{"1", "2"}, want: "a/1/b/2"},
		{name: "second identifier optional before third part", node: []string{"a", "b", "c"}, ids: []string{"1"}, want: "a/1/b/c"},
		{name: "three identifiers", node: []string{"a", "b", "c"}, ids: []string{"1", "2", "3"}, want: "a/1/b/2/c/3"},
		{name: "four parts", node: []string{"a", "b", "c", "d"}, ids: []string{"1", "", "3"}, want: "a/1/b/c/3/d"},
		{name: "five parts", node: []string{"a", "b", "c", "d", "e"}, ids: []string{"1", "2", "3", "4"}, want: "a/1/b/2/c/3/d/4/e"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := root.MustWalk(tt.node...).URLPath(tt.ids...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestURLPathMissingIdentifier(t *testing.T) {
	root := fivePartTree(t)

	tests := []struct {
		node []string
		ids  []string
		pos  int
	}{
		{node: []string{"a", "b"}, pos: 1},
		{node: []string{"a", "b", "c", "d"}, ids: []string{"1", "2"}, pos: 3},
		{node: []string{"a", "b", "c", "d", "e"}, ids: []string{"", "2", "3"}, pos: 1},
	}
	for _, tt := range tests {
		_, err := root.MustWalk(tt.node...).URLPath(tt.ids...)
		var missing *cferr.MissingIdentifierError
		require.ErrorAs(t, err, &missing)
		assert.Equal(t, tt.pos, missing.Position)
	}
}

func TestURLPathTooManyIdentifiers(t *testing.T) {
	root := fivePartTree(t)
	_, err := root.MustWalk("a").URLPath("1", "2", "3", "4", "5")
	assert.ErrorIs(t, err, cfapi.ErrTooManyIdentifiers)
}

func TestURLPathKeepsSlashedParts(t *testing.T) {
	root, err := cfapi.Build(endpoints.V4(), nil)
	require.NoError(t, err)

	got, err := root.MustWalk("accounts", "pages", "projects", "deployments", "history", "logs").URLPath("acc", "proj", "dep")
	require.NoError(t, err)
	assert.Equal(t, "accounts/acc/pages/projects/proj/deployments/dep/history/logs", got)
}

func TestParseMethod(t *testing.T) {
	m, err := cfapi.ParseMethod("patch")
	require.NoError(t, err)
	assert.Equal(t, "PATCH", m)

	_, err = cfapi.ParseMethod("HEAD")
	assert.Error(t, err)
}

func TestCallWithoutClient(t *testing.T) {
	root := fivePartTree(t)

	_, err := root.MustWalk("a", "b").Get(context.Background(), cfapi.WithIdentifiers("1"))
	assert.ErrorIs(t, err, cfapi.ErrNoClient)
}
