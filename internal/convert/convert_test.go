package convert

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rendis/cwlviz/pkg/cwl"
)

// writeScript creates an executable stub standing in for cwltool.
func writeScript(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cwltool-stub")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755))
	return path
}

func writeDoc(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "wf.cwl")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestCwltoolConverterCapturesStdout(t *testing.T) {
	bin := writeScript(t, `echo "@prefix cwl: <https://w3id.org/cwl/cwl#> ."`)
	conv := NewCwltoolConverter(bin, nil)

	out, err := conv.Convert(context.Background(), writeDoc(t, "cwlVersion: v1.2"))
	require.NoError(t, err)
	assert.Contains(t, string(out), "@prefix cwl:")
}

func TestCwltoolConverterSurfacesStderr(t *testing.T) {
	bin := writeScript(t, `echo "tool error: not a workflow" >&2; exit 1`)
	conv := NewCwltoolConverter(bin, nil)

	_, err := conv.Convert(context.Background(), writeDoc(t, "nope"))
	require.Error(t, err)
	assert.True(t, cwl.HasCode(err, cwl.ErrCodeConversion))
	assert.Contains(t, err.Error(), "tool error: not a workflow")
}

func TestCwltoolConverterMissingBinary(t *testing.T) {
	conv := NewCwltoolConverter(filepath.Join(t.TempDir(), "no-such-bin"), nil)
	_, err := conv.Convert(context.Background(), writeDoc(t, "x"))
	require.Error(t, err)
	assert.True(t, cwl.HasCode(err, cwl.ErrCodeConversion))
}

func TestCacheStoreRoundTrip(t *testing.T) {
	store, err := OpenCacheStore("file:" + filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()

	missing, err := store.Get(ctx, "deadbeef")
	require.NoError(t, err)
	assert.Nil(t, missing)

	require.NoError(t, store.Put(ctx, "deadbeef", []byte("triples")))
	got, err := store.Get(ctx, "deadbeef")
	require.NoError(t, err)
	assert.Equal(t, []byte("triples"), got)

	// Overwrite.
	require.NoError(t, store.Put(ctx, "deadbeef", []byte("newer")))
	got, err = store.Get(ctx, "deadbeef")
	require.NoError(t, err)
	assert.Equal(t, []byte("newer"), got)
}

type countingConverter struct {
	calls int
	data  []byte
}

func (c *countingConverter) Convert(context.Context, string) ([]byte, error) {
	c.calls++
	return c.data, nil
}

func TestCachedConverterSkipsRepeatConversion(t *testing.T) {
	store, err := OpenCacheStore("file:" + filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	defer store.Close()

	inner := &countingConverter{data: []byte("serialized facts")}
	conv := NewCachedConverter(inner, store, nil)

	doc := writeDoc(t, "cwlVersion: v1.2")
	ctx := context.Background()

	first, err := conv.Convert(ctx, doc)
	require.NoError(t, err)
	second, err := conv.Convert(ctx, doc)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, inner.calls)

	// Changing the document bytes invalidates the cache key.
	require.NoError(t, os.WriteFile(doc, []byte("cwlVersion: v1.2 # changed"), 0o644))
	_, err = conv.Convert(ctx, doc)
	require.NoError(t, err)
	assert.Equal(t, 2, inner.calls)
}
