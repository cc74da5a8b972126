package build

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/mdhtml/internal/config"
	"git.home.luguber.info/inful/mdhtml/internal/markup"
	"git.home.luguber.info/inful/mdhtml/internal/render"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Output.Directory = filepath.Join(t.TempDir(), "site")
	return cfg
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestRun_SingleFile(t *testing.T) {
	cfg := testConfig(t)
	src := filepath.Join(t.TempDir(), "doc.md")
	writeFile(t, src, "# Hello")

	b, err := New(cfg)
	require.NoError(t, err)
	stats, err := b.Run(context.Background(), src)
	require.NoError(t, err)
	require.Equal(t, 1, stats.Pages)

	out, err := os.ReadFile(filepath.Join(cfg.Output.Directory, "doc.html"))
	require.NoError(t, err)
	require.Equal(t, "<h1>Hello</h1>", string(out))
}

func TestRun_DirectoryTreeMirrored(t *testing.T) {
	cfg := testConfig(t)
	srcDir := t.TempDir()
	writeFile(t, filepath.Join(srcDir, "a.md"), "# A")
	writeFile(t, filepath.Join(srcDir, "sub", "b.markdown"), "# B")
	writeFile(t, filepath.Join(srcDir, "notes.txt"), "skipped")

	b, err := New(cfg)
	require.NoError(t, err)
	stats, err := b.Run(context.Background(), srcDir)
	require.NoError(t, err)
	require.Equal(t, 2, stats.Pages)

	require.FileExists(t, filepath.Join(cfg.Output.Directory, "a.html"))
	require.FileExists(t, filepath.Join(cfg.Output.Directory, "sub", "b.html"))
	require.NoFileExists(t, filepath.Join(cfg.Output.Directory, "notes.html"))
}

func TestRun_CleanRemovesStaleOutput(t *testing.T) {
	cfg := testConfig(t)
	cfg.Output.Clean = true
	stale := filepath.Join(cfg.Output.Directory, "stale.html")
	writeFile(t, stale, "old")

	srcDir := t.TempDir()
	writeFile(t, filepath.Join(srcDir, "a.md"), "# A")

	b, err := New(cfg)
	require.NoError(t, err)
	_, err = b.Run(context.Background(), srcDir)
	require.NoError(t, err)

	require.NoFileExists(t, stale)
	require.FileExists(t, filepath.Join(cfg.Output.Directory, "a.html"))
}

func TestRun_MissingInput(t *testing.T) {
	b, err := New(testConfig(t))
	require.NoError(t, err)
	_, err = b.Run(context.Background(), filepath.Join(t.TempDir(), "absent"))
	require.Error(t, err)
}

func TestRun_RespectsSanitizeMode(t *testing.T) {
	cfg := testConfig(t)
	src := filepath.Join(t.TempDir(), "doc.md")
	writeFile(t, src, `<div onclick="x" class="y">hi</div>`)

	b, err := New(cfg)
	require.NoError(t, err)
	_, err = b.Run(context.Background(), src)
	require.NoError(t, err)

	out, err := os.ReadFile(filepath.Join(cfg.Output.Directory, "doc.html"))
	require.NoError(t, err)
	require.Contains(t, string(out), `<div class="y">hi</div>`)
	require.NotContains(t, string(out), "onclick")
}

func TestNewWithRenderers_OverridesApply(t *testing.T) {
	cfg := testConfig(t)
	src := filepath.Join(t.TempDir(), "doc.md")
	writeFile(t, src, "# Hello")

	rs := render.DefaultRenderers()
	rs.Heading = func(level int, children []*markup.Node) *markup.Node {
		return markup.Element("h1", []markup.Attr{{Name: "class", Value: "title"}}, children...)
	}
	b, err := NewWithRenderers(cfg, rs)
	require.NoError(t, err)
	_, err = b.Run(context.Background(), src)
	require.NoError(t, err)

	out, err := os.ReadFile(filepath.Join(cfg.Output.Directory, "doc.html"))
	require.NoError(t, err)
	require.Equal(t, `<h1 class="title">Hello</h1>`, string(out))
}

func TestNewWithRenderers_RejectsIncompleteSet(t *testing.T) {
	rs := render.DefaultRenderers()
	rs.List = nil
	_, err := NewWithRenderers(testConfig(t), rs)
	require.Error(t, err)
}

func TestIsMarkdown(t *testing.T) {
	require.True(t, IsMarkdown("a.md"))
	require.True(t, IsMarkdown("a.MD"))
	require.True(t, IsMarkdown("a.markdown"))
	require.False(t, IsMarkdown("a.txt"))
	require.False(t, IsMarkdown("md"))
}
