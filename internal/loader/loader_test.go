package loader

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"

	"github.com/ppiankov/ethnia/internal/assemble"
	"github.com/ppiankov/ethnia/internal/model"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const (
	zweDoc   = "Identifiant pays (ISO 3166-1 alpha-3) : ZWE\nNom officiel : Zimbabwe\n"
	shonaDoc = "Identifiant : PPL_SHONA\nNom : Shona\nFamille linguistique : FLG_BANTU\nPays actuels : ZWE\n"
	ndebDoc  = "Identifiant : PPL_NDEBELE\nNom : Ndebele\n" // no language family
	bantuDoc = "Identifiant : FLG_BANTU\nNom : Bantu\n"
)

// writeCorpus lays out a corpus root with the default directory names
func writeCorpus(t *testing.T, files map[string]string) *model.Config {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(root, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	cfg := model.DefaultConfig()
	cfg.Corpus.Root = root
	cfg.Concurrency.Workers = 2
	for _, kind := range model.Kinds() {
		require.NoError(t, os.MkdirAll(filepath.Join(root, cfg.Corpus.DirFor(kind)), 0o755))
	}
	return cfg
}

func TestLoadOne(t *testing.T) {
	cfg := writeCorpus(t, map[string]string{"peuples/PPL_SHONA.txt": shonaDoc})
	l := New[model.People](model.KindPeople, cfg, assemble.People, WithLogger(zaptest.NewLogger(t)))

	res, err := l.LoadOne(context.Background(), "PPL_SHONA")

	require.NoError(t, err)
	require.True(t, res.Success)
	assert.Equal(t, "Shona", res.Data.Name)
}

func TestLoadOne_CachedUntilInvalidated(t *testing.T) {
	cfg := writeCorpus(t, map[string]string{"peuples/PPL_SHONA.txt": shonaDoc})
	l := New[model.People](model.KindPeople, cfg, assemble.People)
	ctx := context.Background()

	_, err := l.LoadOne(ctx, "PPL_SHONA")
	require.NoError(t, err)

	path := filepath.Join(l.Dir(), "PPL_SHONA.txt")
	require.NoError(t, os.WriteFile(path, []byte("Identifiant : PPL_SHONA\nNom : VaShona\nFamille linguistique : FLG_BANTU\n"), 0o644))

	res, err := l.LoadOne(ctx, "PPL_SHONA")
	require.NoError(t, err)
	assert.Equal(t, "Shona", res.Data.Name, "served from cache")

	l.Invalidate("PPL_SHONA")

	res, err = l.LoadOne(ctx, "PPL_SHONA")
	require.NoError(t, err)
	assert.Equal(t, "VaShona", res.Data.Name)
}

func TestLoadOne_CacheDisabled(t *testing.T) {
	cfg := writeCorpus(t, map[string]string{"peuples/PPL_SHONA.txt": shonaDoc})
	cfg.Cache.Enabled = false
	l := New[model.People](model.KindPeople, cfg, assemble.People)
	ctx := context.Background()

	_, err := l.LoadOne(ctx, "PPL_SHONA")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(l.Dir(), "PPL_SHONA.txt"), []byte("Identifiant : PPL_SHONA\nNom : VaShona\nFamille linguistique : FLG_BANTU\n"), 0o644))

	res, err := l.LoadOne(ctx, "PPL_SHONA")
	require.NoError(t, err)
	assert.Equal(t, "VaShona", res.Data.Name)
}

func TestLoadOne_NotFound(t *testing.T) {
	cfg := writeCorpus(t, nil)
	l := New[model.People](model.KindPeople, cfg, assemble.People)

	_, err := l.LoadOne(context.Background(), "PPL_ABSENT")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = l.LoadOne(context.Background(), "../etc/passwd")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLoadOne_FailureIsAResult(t *testing.T) {
	cfg := writeCorpus(t, map[string]string{"peuples/PPL_NDEBELE.txt": ndebDoc})
	l := New[model.People](model.KindPeople, cfg, assemble.People)

	res, err := l.LoadOne(context.Background(), "PPL_NDEBELE")

	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.True(t, res.HasError(model.ErrorMissingSection))
}

func TestLoadAll(t *testing.T) {
	cfg := writeCorpus(t, map[string]string{
		"peuples/PPL_SHONA.txt":    shonaDoc,
		"peuples/PPL_NDEBELE.txt":  ndebDoc,
		"peuples/notes.md":         "ignored: wrong extension",
		"peuples/sub/PPL_ZULU.txt": "Identifiant : PPL_ZULU\nFamille linguistique : FLG_BANTU\n",
	})
	l := New[model.People](model.KindPeople, cfg, assemble.People, WithLogger(zaptest.NewLogger(t)))

	res, err := l.LoadAll(context.Background())

	require.NoError(t, err)
	ids := make([]string, len(res.Entities))
	for i, p := range res.Entities {
		ids[i] = p.ID
	}
	assert.Equal(t, []string{"PPL_SHONA", "PPL_ZULU"}, ids)

	require.Len(t, res.Failures, 1)
	assert.Equal(t, filepath.Join(l.Dir(), "PPL_NDEBELE.txt"), res.Failures[0].Path)
	assert.Equal(t, model.ErrorMissingSection, res.Failures[0].Errors[0].Type)

	assert.Contains(t, res.Warnings, "PPL_ZULU", "missing name and sections are warnings")
}

func TestLoadAll_UsesCache(t *testing.T) {
	cfg := writeCorpus(t, map[string]string{"peuples/PPL_SHONA.txt": shonaDoc})
	l := New[model.People](model.KindPeople, cfg, assemble.People)
	ctx := context.Background()

	_, err := l.LoadAll(ctx)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(l.Dir(), "PPL_SHONA.txt"), []byte("garbage"), 0o644))

	res, err := l.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, res.Entities, 1)
	assert.Empty(t, res.Failures)

	l.Invalidate("PPL_SHONA")
	res, err = l.LoadAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, res.Entities)
	assert.Len(t, res.Failures, 1)
}

func TestLoadAll_MissingDirectory(t *testing.T) {
	cfg := model.DefaultConfig()
	cfg.Corpus.Root = filepath.Join(t.TempDir(), "absent")
	l := New[model.Country](model.KindCountry, cfg, assemble.Country)

	_, err := l.LoadAll(context.Background())
	assert.Error(t, err)
}

func TestCorpus_Load(t *testing.T) {
	cfg := writeCorpus(t, map[string]string{
		"pays/ZWE.txt":                         zweDoc,
		"peuples/PPL_SHONA.txt":                shonaDoc,
		"peuples/PPL_NDEBELE.txt":              ndebDoc,
		"familles_linguistiques/FLG_BANTU.txt": bantuDoc,
	})

	snap, err := NewCorpus(cfg).Load(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"ZWE"}, snap.IDs(model.KindCountry))
	assert.Equal(t, []string{"PPL_SHONA"}, snap.IDs(model.KindPeople))
	assert.Equal(t, []string{"FLG_BANTU"}, snap.IDs(model.KindLanguageFamily))
	assert.Len(t, snap.Entities(), 3)
	assert.Len(t, snap.Failures()[model.KindPeople], 1)
}

func TestWatch_InvalidatesChangedDocument(t *testing.T) {
	cfg := writeCorpus(t, map[string]string{"peuples/PPL_SHONA.txt": shonaDoc})
	changed := make(chan string, 8)
	l := New[model.People](model.KindPeople, cfg, assemble.People,
		WithChangeHook(func(_ model.Kind, id string) {
			select {
			case changed <- id:
			default:
			}
		}))

	res, err := l.LoadOne(context.Background(), "PPL_SHONA")
	require.NoError(t, err)
	require.Equal(t, "Shona", res.Data.Name)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- l.Watch(ctx) }()
	defer func() {
		cancel()
		require.NoError(t, <-done)
	}()

	// give the watcher time to register the directory
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(l.Dir(), "PPL_SHONA.txt"),
		[]byte("Identifiant : PPL_SHONA\nNom : VaShona\nFamille linguistique : FLG_BANTU\n"), 0o644))

	select {
	case id := <-changed:
		assert.Equal(t, "PPL_SHONA", id)
	case <-time.After(5 * time.Second):
		t.Fatal("no change event")
	}

	res, err = l.LoadOne(context.Background(), "PPL_SHONA")
	require.NoError(t, err)
	assert.Equal(t, "VaShona", res.Data.Name)
}

func TestWatch_NestedDirectories(t *testing.T) {
	cfg := writeCorpus(t, map[string]string{"peuples/australe/PPL_SHONA.txt": shonaDoc})
	changed := make(chan string, 8)
	l := New[model.People](model.KindPeople, cfg, assemble.People,
		WithChangeHook(func(_ model.Kind, id string) {
			select {
			case changed <- id:
			default:
			}
		}))

	res, err := l.LoadAll(context.Background())
	require.NoError(t, err)
	require.Len(t, res.Entities, 1)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- l.Watch(ctx) }()
	defer func() {
		cancel()
		require.NoError(t, <-done)
	}()

	// earlier writes may still report; skip them
	wait := func(want string) {
		t.Helper()
		timeout := time.After(5 * time.Second)
		for {
			select {
			case id := <-changed:
				if id == want {
					return
				}
			case <-timeout:
				t.Fatalf("no change event for %s", want)
			}
		}
	}

	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(l.Dir(), "australe", "PPL_SHONA.txt"),
		[]byte("Identifiant : PPL_SHONA\nNom : VaShona\nFamille linguistique : FLG_BANTU\n"), 0o644))
	wait("PPL_SHONA")

	res, err = l.LoadAll(context.Background())
	require.NoError(t, err)
	require.Len(t, res.Entities, 1)
	assert.Equal(t, "VaShona", res.Entities[0].Name)

	fresh := filepath.Join(l.Dir(), "orientale")
	require.NoError(t, os.Mkdir(fresh, 0o755))
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(fresh, "PPL_ZULU.txt"),
		[]byte("Identifiant : PPL_ZULU\nNom : Zulu\n"), 0o644))
	wait("PPL_ZULU")
}
