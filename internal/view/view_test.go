package view

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"cv-site/internal/model"
	"cv-site/internal/parser"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadSample(t *testing.T) *model.CV {
	t.Helper()
	data, err := os.ReadFile("../../data/cv-data.xml")
	require.NoError(t, err)
	cv, err := parser.Parse(data)
	require.NoError(t, err)
	return cv
}

func TestRenderCV(t *testing.T) {
	r, err := New()
	require.NoError(t, err)

	out, err := r.RenderCV(loadSample(t))
	require.NoError(t, err)
	html := string(out)

	assert.True(t, strings.HasPrefix(html, "<!DOCTYPE html>"))
	assert.Contains(t, html, `<base href="/">`)
	assert.Contains(t, html, `href="static/style.css"`)
	assert.Contains(t, html, `<h1 class="name">Alex Morgan</h1>`)
	assert.Contains(t, html, "Mar 2021 - Present")
	assert.Contains(t, html, "Jul 2016 - Feb 2021")
	assert.Contains(t, html, "Distributed Systems, Databases, Compilers")
	assert.Contains(t, html, "skill-level-expert")
	assert.Contains(t, html, "LinkedIn Profile")
	assert.Contains(t, html, "GitHub Profile")
	assert.Contains(t, html, ">alexmorgan.dev</a>")
	assert.Contains(t, html, `href="mailto:alex.morgan@example.com"`)
	assert.Contains(t, html, "Skills &amp; Technologies")
	assert.NotContains(t, html, "Failed to load CV data")
	assert.NotContains(t, html, "ZgotmplZ")
	assert.Contains(t, html, `<main class="cv" id="cv" data-loaded="true">`)
	assert.NotContains(t, html, ErrorMarker)

	order := []string{`id="personalInfo"`, `id="experience"`, `id="education"`, `id="skills"`, `id="certifications"`, `id="projects"`}
	last := -1
	for _, id := range order {
		i := strings.Index(html, id)
		require.NotEqual(t, -1, i, id)
		assert.Greater(t, i, last, id)
		last = i
	}
}

func TestRender_OmitsEmptySections(t *testing.T) {
	r, err := New()
	require.NoError(t, err)
	cv := loadSample(t)
	cv.Certifications.Certifications = []model.Certification{}
	cv.Projects.Projects = []model.Project{}

	out, err := r.RenderCV(cv)
	require.NoError(t, err)
	assert.NotContains(t, string(out), `id="certifications"`)
	assert.NotContains(t, string(out), `id="projects"`)
	assert.Contains(t, string(out), `id="skills"`)
}

func TestRender_ErrorState(t *testing.T) {
	r, err := New()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, Page{Error: "boom", Stylesheet: "/static/style.css"}))
	html := buf.String()
	assert.Contains(t, html, "Failed to load CV data")
	assert.Contains(t, html, `action="reload"`)
	assert.Contains(t, html, ErrorMarker)
	assert.NotContains(t, html, "data-loaded")
	assert.NotContains(t, html, "boom")
	assert.Contains(t, html, `href="/static/style.css"`)
}

func TestSafeURL(t *testing.T) {
	assert.EqualValues(t, "https://x.io", safeURL("https://x.io"))
	assert.EqualValues(t, "https://x.io", safeURL("x.io"))
	assert.EqualValues(t, "#", safeURL("javascript:alert(1)"))
}
