package cas_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ai-kana/kb/internal/adapters/cas"
	"github.com/ai-kana/kb/internal/core/domain"
	"github.com/ai-kana/kb/internal/core/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ ports.BuildInfoStore = (*cas.Store)(nil)

func TestStore_PutList(t *testing.T) {
	root := t.TempDir()
	store, err := cas.NewStore()
	require.NoError(t, err)

	record := domain.BuildRecord{
		Artifact:  "obj/main.o",
		Dir:       root,
		Sources:   []string{"main.c"},
		Command:   "cc -Wall -c -o obj/main.o main.c",
		Kind:      domain.KindCompilationPass,
		RunID:     "run-1",
		Timestamp: time.Now().Truncate(time.Second),
	}
	require.NoError(t, store.Put(root, record))

	records, err := store.List(root)
	require.NoError(t, err)
	require.Len(t, records, 1)

	got := records[0]
	assert.Equal(t, record.Artifact, got.Artifact)
	assert.Equal(t, record.Dir, got.Dir)
	assert.Equal(t, record.Sources, got.Sources)
	assert.Equal(t, record.Command, got.Command)
	assert.Equal(t, record.Kind, got.Kind)
	assert.True(t, record.Timestamp.Equal(got.Timestamp))

	info, err := os.Stat(domain.DefaultStorePath(root))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(domain.DirPerm), info.Mode().Perm())
}

func TestStore_ListCorrupt(t *testing.T) {
	root := t.TempDir()
	store, err := cas.NewStore()
	require.NoError(t, err)

	require.NoError(t, store.Put(root, domain.BuildRecord{Artifact: "out"}))

	dir := domain.DefaultStorePath(root)
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	require.NoError(t, os.WriteFile(filepath.Join(dir, entries[0].Name()), []byte("{ invalid json"), 0o600))

	_, err = store.List(root)
	assert.ErrorContains(t, err, domain.ErrStoreUnmarshalFailed.Error())
}

func TestStore_ListAndClear(t *testing.T) {
	root := t.TempDir()
	store, err := cas.NewStore()
	require.NoError(t, err)

	records, err := store.List(root)
	require.NoError(t, err)
	assert.Empty(t, records)

	require.NoError(t, store.Put(root, domain.BuildRecord{Artifact: "obj/b.o"}))
	require.NoError(t, store.Put(root, domain.BuildRecord{Artifact: "obj/a.o"}))
	require.NoError(t, store.Put(root, domain.BuildRecord{Artifact: "obj/a.o", Command: "again"}))

	records, err = store.List(root)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "obj/a.o", records[0].Artifact)
	assert.Equal(t, "again", records[0].Command)
	assert.Equal(t, "obj/b.o", records[1].Artifact)

	require.NoError(t, store.Clear(root))
	assert.NoDirExists(t, domain.DefaultStorePath(root))

	records, err = store.List(root)
	require.NoError(t, err)
	assert.Empty(t, records)
}
