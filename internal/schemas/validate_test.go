package schemas

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readSchema(t *testing.T, relPath string) string {
	t.Helper()
	path := ResolveSchemaPath(relPath)
	require.NotEmpty(t, path, "schema %s not found", relPath)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestValidateLPSettings(t *testing.T) {
	schema := readSchema(t, LPSettingsSchema)

	t.Run("Valid record", func(t *testing.T) {
		doc := `{
			"companyDomain": "example",
			"jobId": "job1",
			"heroTitle": "一緒に働きませんか",
			"layoutStyle": "trust",
			"layoutStyleState": "explicit",
			"sectionOrder": "hero,points,apply",
			"sectionVisibility": "{\"faq\":false}",
			"colors": {"primaryColor": "#2563eb"}
		}`
		assert.NoError(t, ValidateJSONString(schema, doc))
	})

	t.Run("Missing required keys", func(t *testing.T) {
		err := ValidateJSONString(schema, `{"heroTitle": "x"}`)
		require.Error(t, err)
		var valErr *ValidationError
		require.ErrorAs(t, err, &valErr)
		assert.NotEmpty(t, valErr.Errors)
	})

	t.Run("Unknown layout style", func(t *testing.T) {
		doc := `{"companyDomain": "example", "jobId": "job1", "layoutStyle": "neon"}`
		assert.Error(t, ValidateJSONString(schema, doc))
	})

	t.Run("Bad hex color", func(t *testing.T) {
		doc := `{"companyDomain": "example", "jobId": "job1", "colors": {"primaryColor": "blue"}}`
		assert.Error(t, ValidateJSONString(schema, doc))
	})

	t.Run("Unknown property rejected", func(t *testing.T) {
		doc := `{"companyDomain": "example", "jobId": "job1", "bogus": 1}`
		assert.Error(t, ValidateJSONString(schema, doc))
	})
}

func TestValidateRecruitSettings(t *testing.T) {
	schema := readSchema(t, RecruitSettingsSchema)

	t.Run("Valid record with custom sections", func(t *testing.T) {
		doc := `{
			"companyDomain": "example",
			"siteTitle": "テスト採用",
			"customSections": [
				{"id": "custom-abc", "type": "gallery", "variant": "grid", "images": ["https://example.com/1.jpg"]}
			]
		}`
		assert.NoError(t, ValidateJSONString(schema, doc))
	})

	t.Run("Unknown custom section type", func(t *testing.T) {
		doc := `{"companyDomain": "example", "customSections": [{"type": "widget"}]}`
		assert.Error(t, ValidateJSONString(schema, doc))
	})
}

func TestValidateJob(t *testing.T) {
	schema := readSchema(t, JobSchema)

	t.Run("Valid record", func(t *testing.T) {
		doc := `{"id": "job1", "companyDomain": "example", "title": "ホールスタッフ", "visible": true}`
		assert.NoError(t, ValidateJSONString(schema, doc))
	})

	t.Run("Missing title", func(t *testing.T) {
		doc := `{"id": "job1", "companyDomain": "example"}`
		assert.Error(t, ValidateJSONString(schema, doc))
	})
}

func TestValidateJSONStringBadSchema(t *testing.T) {
	err := ValidateJSONString(`{"type": `, `{}`)
	require.Error(t, err)
	var loadErr *SchemaLoadError
	assert.ErrorAs(t, err, &loadErr)
}

func TestResolveSchemaPath(t *testing.T) {
	assert.NotEmpty(t, ResolveSchemaPath(LPSettingsSchema))
	assert.Empty(t, ResolveSchemaPath(filepath.Join("schemas", "nope.schema.json")))
}
