package report

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/ethnia/internal/assemble"
	"github.com/ppiankov/ethnia/internal/model"
)

func TestWriteJSON_ParsedFile(t *testing.T) {
	res := assemble.LanguageFamily("Identifiant : FLG_BANTU\nNom : Langues bantoues\n")

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, res, false))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, true, decoded["success"])
	data, ok := decoded["data"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "FLG_BANTU", data["id"])
	assert.NotContains(t, buf.String(), "\n  ", "compact output")
}

func TestWriteJSON_KeepsAngleBrackets(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, map[string]string{"name": "<Royaume>"}, true))
	assert.Contains(t, buf.String(), "<Royaume>")
}

func TestRenderJSON_CreatesDirectories(t *testing.T) {
	dir := t.TempDir()
	path := EntityPath(dir, model.KindPeople, "PPL_SHONA")

	require.NoError(t, RenderJSON(map[string]string{"id": "PPL_SHONA"}, path))

	assert.Equal(t, filepath.Join(dir, "people", "PPL_SHONA.json"), path)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"PPL_SHONA"}`, string(data))
}

func TestEntityPath_Sanitized(t *testing.T) {
	assert.Equal(t, filepath.Join("out", "country", "a_b-c.json"), EntityPath("out", model.KindCountry, "a/b c"))
	assert.Equal(t, filepath.Join("out", "country", "_.json"), EntityPath("out", model.KindCountry, ".."))
}

func TestRenderSummary(t *testing.T) {
	s := Summary{
		Root: "./data",
		Kinds: []KindCount{
			{Kind: model.KindLanguageFamily, Entities: 2},
			{Kind: model.KindPeople, Entities: 5, Warnings: 3, Failures: 1},
		},
		Issues:     map[string]int{"critical": 1, "warning": 4},
		MeanIndex:  72,
		DurationMS: 12,
	}

	var buf bytes.Buffer
	RenderSummary(&buf, s)
	out := buf.String()

	assert.Contains(t, out, "Entities:  7")
	assert.Contains(t, out, "Failures:  1")
	assert.Contains(t, out, "1 critical, 4 warning, 0 info")
	assert.Contains(t, out, "72/100")
	assert.NotContains(t, out, "Output:")
}
