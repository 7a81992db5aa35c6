package local

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_SaveListDelete(t *testing.T) {
	dir := t.TempDir()
	client, err := NewClient(dir, "/uploads/")
	require.NoError(t, err)

	ctx := context.Background()

	require.NoError(t, client.Save(ctx, "a.jpg", strings.NewReader("first")))
	require.NoError(t, client.Save(ctx, "courses/u1/b.jpg", strings.NewReader("second")))

	keys, err := client.List(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a.jpg", "courses/u1/b.jpg"}, keys)

	content, err := os.ReadFile(filepath.Join(dir, "courses", "u1", "b.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "second", string(content))

	require.NoError(t, client.Delete(ctx, "a.jpg"))
	keys, err = client.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"courses/u1/b.jpg"}, keys)

	// Deleting a missing key is not an error
	assert.NoError(t, client.Delete(ctx, "a.jpg"))
}

func TestClient_Save_Overwrites(t *testing.T) {
	dir := t.TempDir()
	client, err := NewClient(dir, "/uploads")
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, client.Save(ctx, "a.jpg", strings.NewReader("old")))
	require.NoError(t, client.Save(ctx, "a.jpg", strings.NewReader("new")))

	content, err := os.ReadFile(filepath.Join(dir, "a.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "new", string(content))
}

func TestClient_RejectsPathEscapes(t *testing.T) {
	dir := t.TempDir()
	client, err := NewClient(dir, "/uploads")
	require.NoError(t, err)

	ctx := context.Background()
	escapes := []string{
		"",
		"../escape.jpg",
		"sub/../../escape.jpg",
		"/abs.jpg",
		".hidden",
		"sub/.hidden",
		"sub//double.jpg",
	}
	for _, key := range escapes {
		assert.Error(t, client.Save(ctx, key, strings.NewReader("x")), key)
	}
}

func TestClient_URL(t *testing.T) {
	client, err := NewClient(t.TempDir(), "/uploads/")
	require.NoError(t, err)
	assert.Equal(t, "/uploads/a.jpg", client.URL("a.jpg"))
	assert.Equal(t, "/uploads/courses/u1/a.jpg", client.URL("courses/u1/a.jpg"))
}
