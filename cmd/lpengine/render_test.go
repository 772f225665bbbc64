package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetRenderFlags(t *testing.T) {
	t.Helper()
	reset := func() {
		renderCompanyFile = ""
		renderJobsFile = ""
		renderLPFile = ""
		renderRecruitFile = ""
		renderLayoutStyle = ""
		renderOutput = ""
		renderBodyOnly = false
	}
	reset()
	t.Cleanup(reset)
}

func writeFixture(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRenderRequiresSettingsFile(t *testing.T) {
	resetRenderFlags(t)
	err := runRender(nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--lp-settings or --recruit-settings")
}

func TestRenderLPOnly(t *testing.T) {
	resetRenderFlags(t)
	dir := t.TempDir()

	renderLPFile = writeFixture(t, dir, "lp.json",
		`{"companyDomain":"example","jobId":"job1","heroTitle":"一緒に働こう"}`)
	renderOutput = filepath.Join(dir, "out.html")
	require.NoError(t, runRender(nil, nil))

	raw, err := os.ReadFile(renderOutput)
	require.NoError(t, err)
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(raw)))
	require.NoError(t, err)

	assert.Equal(t, "一緒に働こう", doc.Find(".hero-title").Text())
	cls, _ := doc.Find("body").Attr("class")
	assert.Contains(t, cls, "layout-modern", "no recruit settings, the system default applies")
}

func TestRenderLPInheritsRecruitSettings(t *testing.T) {
	resetRenderFlags(t)
	dir := t.TempDir()

	renderCompanyFile = writeFixture(t, dir, "company.json",
		`{"domain":"example","company":"テスト株式会社"}`)
	renderLPFile = writeFixture(t, dir, "lp.json",
		`{"companyDomain":"example","jobId":"job1","heroTitle":"一緒に働こう"}`)
	renderRecruitFile = writeFixture(t, dir, "recruit.json",
		`{"companyDomain":"example","layoutStyle":"trust"}`)
	renderOutput = filepath.Join(dir, "out.html")
	require.NoError(t, runRender(nil, nil))

	raw, err := os.ReadFile(renderOutput)
	require.NoError(t, err)
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(raw)))
	require.NoError(t, err)

	assert.Equal(t, "一緒に働こう", doc.Find(".hero-title").Text())
	cls, _ := doc.Find("body").Attr("class")
	assert.Contains(t, cls, "layout-trust", "unset LP layout style inherits the company's")
}

func TestRenderRecruitOnly(t *testing.T) {
	resetRenderFlags(t)
	dir := t.TempDir()

	renderCompanyFile = writeFixture(t, dir, "company.json",
		`{"domain":"example","company":"テスト株式会社"}`)
	renderRecruitFile = writeFixture(t, dir, "recruit.json",
		`{"companyDomain":"example","siteTitle":"テスト採用"}`)
	renderOutput = filepath.Join(dir, "out.html")
	require.NoError(t, runRender(nil, nil))

	raw, err := os.ReadFile(renderOutput)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "テスト採用")
}
