package pipeline

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"

	"github.com/ppiankov/ethnia/internal/model"
	"github.com/ppiankov/ethnia/internal/validate"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var corpus = map[string]string{
	"pays/ZWE.txt": `Identifiant pays : ZWE
Nom officiel : Zimbabwe

## Peuples majeurs
### Peuple #1 : Shona
- Identifiant : PPL_SHONA
### Peuple #2 : Tonga
- Identifiant : PPL_TONGA
`,
	"peuples/PPL_SHONA.txt": `Identifiant : PPL_SHONA
Nom : Shona
Famille linguistique : FLG_BANTU
Pays actuels : ZWE, MOZ
`,
	"peuples/PPL_BROKEN.txt":               "Identifiant : PPL_BROKEN\nNom : sans famille\n",
	"familles_linguistiques/FLG_BANTU.txt": "Identifiant : FLG_BANTU\nNom : Langues bantoues\n",
}

func setup(t *testing.T) *model.Config {
	t.Helper()
	root := t.TempDir()
	for rel, content := range corpus {
		path := filepath.Join(root, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	cfg := model.DefaultConfig()
	cfg.Corpus.Root = root
	cfg.Concurrency.Workers = 2
	return cfg
}

func TestPipeline_Run(t *testing.T) {
	p := NewPipeline(setup(t), zaptest.NewLogger(t))

	res, err := p.Run(context.Background())

	require.NoError(t, err)
	assert.Len(t, res.Snapshot.Entities(), 3)
	assert.Len(t, res.Scores, 3)

	var targets []string
	for _, issue := range res.Report.Issues {
		if issue.Target != "" {
			targets = append(targets, issue.Target)
		}
	}
	assert.ElementsMatch(t, []string{"MOZ", "PPL_TONGA"}, targets)
	assert.Equal(t, 1, res.Report.Count(validate.SeverityCritical), "PPL_TONGA")
}

func TestPipeline_RenderReport(t *testing.T) {
	p := NewPipeline(setup(t), nil)
	res, err := p.Run(context.Background())
	require.NoError(t, err)

	out := t.TempDir()
	var buf bytes.Buffer
	require.NoError(t, p.RenderReport(res, out, &buf))

	for _, rel := range []string{
		"country/ZWE.json",
		"people/PPL_SHONA.json",
		"languageFamily/FLG_BANTU.json",
		"validation.json",
		"scores.json",
		"failures.json",
	} {
		assert.FileExists(t, filepath.Join(out, rel))
	}
	assert.NoFileExists(t, filepath.Join(out, "people", "PPL_BROKEN.json"))
	assert.Contains(t, buf.String(), "Entities:  3")
	assert.Contains(t, buf.String(), "Failures:  1")
}

func TestPipeline_Summarize(t *testing.T) {
	p := NewPipeline(setup(t), nil)
	res, err := p.Run(context.Background())
	require.NoError(t, err)

	s := p.Summarize(res, "")

	require.Len(t, s.Kinds, 3)
	assert.Equal(t, model.KindPeople, s.Kinds[1].Kind)
	assert.Equal(t, 1, s.Kinds[1].Entities)
	assert.Equal(t, 1, s.Kinds[1].Failures)
	assert.Equal(t, 1, s.Issues["critical"])
}

func TestPipeline_RunCancelled(t *testing.T) {
	p := NewPipeline(setup(t), nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
