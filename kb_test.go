package kb_test

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ai-kana/kb"
	"github.com/ai-kana/kb/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmit_RunsCommands(t *testing.T) {
	t.Chdir(t.TempDir())
	require.NoError(t, os.WriteFile("main.c", nil, domain.FilePerm))

	buf := kb.NewBuffer()
	buf.AddCompilationPass(kb.CompilationPass{
		Files:    kb.FileSet{"main.c"},
		Flags:    "-Wall",
		Compiler: "touch obj/main.o; true",
		BuildDir: "obj",
	})

	var stdout bytes.Buffer
	err := kb.Submit(t.Context(), buf, kb.WithOutput(&stdout, io.Discard), kb.WithStrict())
	require.NoError(t, err)

	assert.Equal(t, "touch obj/main.o; true -Wall -c -o obj/main.o main.c\n", stdout.String())
	assert.FileExists(t, "obj/main.o")
}

func TestSubmit_SkipsUpToDateObjects(t *testing.T) {
	t.Chdir(t.TempDir())
	require.NoError(t, os.MkdirAll("obj", domain.DirPerm))
	require.NoError(t, os.WriteFile("main.c", nil, domain.FilePerm))
	require.NoError(t, os.WriteFile("obj/main.o", nil, domain.FilePerm))

	base := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes("main.c", base, base))
	require.NoError(t, os.Chtimes("obj/main.o", base.Add(time.Second), base.Add(time.Second)))

	buf := kb.NewBuffer()
	buf.AddCompilationPass(kb.CompilationPass{
		Files:    kb.FileSet{"main.c"},
		Compiler: "false",
		BuildDir: "obj",
	})

	var stdout bytes.Buffer
	require.NoError(t, kb.Submit(t.Context(), buf, kb.WithOutput(&stdout, io.Discard), kb.WithStrict()))
	assert.Empty(t, stdout.String())
}

func TestSubmit_StrictFailure(t *testing.T) {
	t.Chdir(t.TempDir())

	buf := kb.NewBuffer()
	buf.AddLinkPass(kb.LinkPass{Linker: "false", BuildDir: ".", OutputName: "app"})

	var logs bytes.Buffer
	err := kb.Submit(t.Context(), buf,
		kb.WithOutput(io.Discard, io.Discard),
		kb.WithLogOutput(&logs),
		kb.WithStrict(),
	)
	require.ErrorContains(t, err, kb.ErrBuildExecutionFailed.Error())
	assert.Contains(t, logs.String(), "command failed")
}

func TestSubmit_FailureIgnoredByDefault(t *testing.T) {
	t.Chdir(t.TempDir())

	buf := kb.NewBuffer()
	buf.AddLinkPass(kb.LinkPass{Linker: "false", BuildDir: ".", OutputName: "app"})

	err := kb.Submit(t.Context(), buf, kb.WithOutput(io.Discard, io.Discard), kb.WithLogOutput(io.Discard))
	require.NoError(t, err)
}

func TestSubmit_DryRunOrder(t *testing.T) {
	t.Chdir(t.TempDir())

	link := func(name string) kb.LinkPass {
		return kb.LinkPass{Linker: "cc", BuildDir: "out", OutputName: name}
	}

	y := kb.NewBuffer()
	y.AddLinkPass(link("E"))
	y.AddLinkPass(link("F"))

	x := kb.NewBuffer()
	x.AddLinkPass(link("A"))
	x.AddLinkPass(link("B"))
	x.AddSecondary(y)
	x.AddLinkPass(link("D"))

	var stdout bytes.Buffer
	require.NoError(t, kb.Submit(t.Context(), x, kb.WithOutput(&stdout, io.Discard), kb.WithDryRun()))

	assert.Equal(t,
		"cc  -o out/A \ncc  -o out/B \ncc  -o out/E \ncc  -o out/F \ncc  -o out/D \n",
		stdout.String(),
	)
	assert.NoDirExists(t, "out")
}

func TestSubmit_BuildRecords(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	buf := kb.NewBuffer()
	buf.AddLinkPass(kb.LinkPass{Linker: "true", BuildDir: ".", OutputName: "app"})

	require.NoError(t, kb.Submit(t.Context(), buf, kb.WithOutput(io.Discard, io.Discard), kb.WithBuildRecords()))

	entries, err := os.ReadDir(domain.DefaultStorePath(dir))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestSubmit_InheritsFileOutput(t *testing.T) {
	t.Chdir(t.TempDir())

	out, err := os.Create("out.log")
	require.NoError(t, err)
	t.Cleanup(func() { _ = out.Close() })

	buf := kb.NewBuffer()
	buf.AddLinkPass(kb.LinkPass{
		Linker:     "sh -c 'if [ -f /dev/stdout ]; then echo inherited; else echo piped; fi' sh",
		BuildDir:   ".",
		OutputName: "app",
	})

	require.NoError(t, kb.Submit(t.Context(), buf, kb.WithOutput(out, out), kb.WithStrict()))

	data, err := os.ReadFile("out.log")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(string(data), "\ninherited\n"), string(data))
}

func TestSubmit_Journal(t *testing.T) {
	t.Chdir(t.TempDir())

	buf := kb.NewBuffer()
	buf.AddLinkPass(kb.LinkPass{Linker: "echo linked; true", BuildDir: ".", OutputName: "app"})

	var stdout bytes.Buffer
	require.NoError(t, kb.Submit(t.Context(), buf,
		kb.WithOutput(&stdout, io.Discard),
		kb.WithJournal("kb.jsonl"),
		kb.WithStrict(),
	))
	assert.Equal(t, "echo linked; true  -o ./app \nlinked\n", stdout.String())

	data, err := os.ReadFile("kb.jsonl")
	require.NoError(t, err)
	assert.Contains(t, string(data), `"name":"echo linked; true  -o ./app "`)
}

func TestSubmit_Errors(t *testing.T) {
	destroyed := kb.NewBuffer()
	destroyed.Destroy()

	err := kb.Submit(t.Context(), destroyed)
	require.ErrorContains(t, err, kb.ErrBufferDestroyed.Error())

	cyclic := kb.NewBuffer()
	cyclic.AddSecondary(cyclic)

	err = kb.Submit(t.Context(), cyclic)
	require.ErrorContains(t, err, kb.ErrCycleDetected.Error())

	err = kb.Submit(t.Context(), nil)
	require.ErrorContains(t, err, kb.ErrNilBuffer.Error())
}

func TestSubmit_Cancelled(t *testing.T) {
	t.Chdir(t.TempDir())

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	buf := kb.NewBuffer()
	buf.AddLinkPass(kb.LinkPass{Linker: "true", BuildDir: ".", OutputName: "app"})

	var stdout bytes.Buffer
	err := kb.Submit(ctx, buf, kb.WithOutput(&stdout, io.Discard))
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, stdout.String())
}

func TestRebuildSelf_Fresh(t *testing.T) {
	t.Chdir(t.TempDir())

	base := time.Now().Add(-time.Hour)
	require.NoError(t, os.WriteFile("build.c", nil, domain.FilePerm))
	require.NoError(t, os.WriteFile("build", nil, domain.FilePerm))
	require.NoError(t, os.Chtimes("build.c", base, base))
	require.NoError(t, os.Chtimes("build", base.Add(time.Second), base.Add(time.Second)))

	var stdout, logs bytes.Buffer
	kb.RebuildSelf(t.Context(), "cc",
		kb.WithSelf("build.c", "build"),
		kb.WithOutput(&stdout, io.Discard),
		kb.WithLogOutput(&logs),
	)

	assert.Empty(t, stdout.String())
	assert.Contains(t, logs.String(), "recompile not needed")
}

func TestIsStale(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "a.c")
	object := filepath.Join(dir, "a.o")

	assert.False(t, kb.IsStale(source, object))

	require.NoError(t, os.WriteFile(source, nil, domain.FilePerm))
	assert.True(t, kb.IsStale(source, object))
}

func TestListFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.c", "a.c", "kbuild.c", ".c", "util.h"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, domain.FilePerm))
	}

	files, err := kb.ListFiles(dir, ".c")
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "a.c"), filepath.Join(dir, "b.c")}, files)
}
