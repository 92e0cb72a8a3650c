package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderCommand(t *testing.T) {
	out := t.TempDir()
	t.Setenv("LOG_LEVEL", "error")

	var stdout bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetArgs([]string{"render", "--xml", "../../data/cv-data.xml", "--out", out, "--base-href", "/Resume/"})
	require.NoError(t, rootCmd.ExecuteContext(context.Background()))

	path := filepath.Join(out, "index.html")
	assert.Contains(t, stdout.String(), path)

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	html := string(b)
	assert.True(t, strings.HasPrefix(html, "<!DOCTYPE html>"))
	assert.Contains(t, html, `<base href="/Resume/">`)
	assert.Contains(t, html, ".skill-level-expert")
	assert.NotContains(t, html, `rel="stylesheet"`)
	assert.Contains(t, html, "Alex Morgan")
	assert.Contains(t, html, `name="description"`)
}

func TestRenderCommand_BadXML(t *testing.T) {
	bad := filepath.Join(t.TempDir(), "bad.xml")
	require.NoError(t, os.WriteFile(bad, []byte("<cv><personalInfo></cv>"), 0o644))
	t.Setenv("LOG_LEVEL", "error")

	rootCmd.SetOut(&bytes.Buffer{})
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs([]string{"render", "--xml", bad, "--out", t.TempDir()})
	assert.Error(t, rootCmd.ExecuteContext(context.Background()))
}
