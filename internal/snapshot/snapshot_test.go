// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package snapshot

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/mesh-extract/internal/inp"
)

const sampleDeck = `** Job name: bracket-demo
*Heading
 Bracket assembly
*NODE
1, 0.0, 0.0, 0.0
2, 1.0, 0.0, 0.0
3, 0.0, 1.0, 0.0
4, 0.0, 0.0, 1.0
*Element, Type=C3D4, Elset=BODY
10, 1, 2, 3, 4
*Nset, Nset=FIX
1, 2
*Elset, Elset=BODY
10
*Solid Section, Elset=BODY, Material=STEEL
1.0
*Material, Name=STEEL
*Connector Behavior, Name=DAMP
0.1
*Coupling, Ref Node=3, Surface=TOP
BODY, 1, 3
`

// writeDeck writes content to a fresh temp file and backdates it an hour,
// so a snapshot stored during the test is strictly newer than the source.
func writeDeck(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bracket.inp")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	past := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(path, past, past))
	return path
}

func parseDeck(t *testing.T, path string) *inp.Document {
	t.Helper()
	doc, err := inp.ParseFile(path)
	require.NoError(t, err)
	return doc
}

// --- SQLiteCache ---

func TestSQLiteCachePath(t *testing.T) {
	assert.Equal(t, "model.inp.cache.db", NewSQLiteCache("").Path("model.inp"))
	assert.Equal(t, "model.inp.snap", NewSQLiteCache(".snap").Path("model.inp"))
}

func TestSQLiteCacheRoundTrip(t *testing.T) {
	source := writeDeck(t, sampleDeck)
	doc := parseDeck(t, source)

	cache := NewSQLiteCache("")
	require.NoError(t, cache.Store(source, doc))

	loaded, ok := cache.TryLoad(source)
	require.True(t, ok, "fresh snapshot should load")

	// Spot checks first so a mismatch reports something readable.
	assert.Equal(t, "1, 0.0, 0.0, 0.0", loaded.Nodes[1])
	assert.Equal(t, []string{"body"}, loaded.Elements.Keys())
	assert.Equal(t, []string{"fix"}, loaded.Nsets.Keys())
	assert.Equal(t, []string{"steel"}, loaded.Materials.Keys())
	assert.Equal(t, []string{"body"}, loaded.Sections.Keys())
	assert.Equal(t, []string{"damp"}, loaded.Behaviors.Keys())
	require.Len(t, loaded.Constraints, 1)
	assert.Equal(t, "coupling", loaded.Constraints[0].Keyword)
	require.Len(t, loaded.Others, 1)
	assert.Equal(t, "heading", loaded.Others[0].Keyword)

	elem, ok := loaded.Elements.Get("body")
	require.True(t, ok)
	assert.Contains(t, elem.NodeIDs, 4, "element node ids are rebuilt on load")

	assert.Equal(t, doc, loaded)
}

func TestSQLiteCacheMtimeGate(t *testing.T) {
	tests := []struct {
		name    string
		offset  time.Duration
		wantHit bool
	}{
		{"artifact older than source", -time.Minute, false},
		{"artifact same age as source", 0, false},
		{"artifact newer than source", time.Minute, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			source := writeDeck(t, sampleDeck)
			cache := NewSQLiteCache("")
			require.NoError(t, cache.Store(source, parseDeck(t, source)))

			srcInfo, err := os.Stat(source)
			require.NoError(t, err)
			stamp := srcInfo.ModTime().Add(tt.offset)
			require.NoError(t, os.Chtimes(cache.Path(source), stamp, stamp))

			_, ok := cache.TryLoad(source)
			assert.Equal(t, tt.wantHit, ok)
		})
	}
}

func TestSQLiteCacheMissWhenArtifactMissing(t *testing.T) {
	source := writeDeck(t, sampleDeck)

	_, ok := NewSQLiteCache("").TryLoad(source)
	assert.False(t, ok)
}

func TestSQLiteCacheMissWhenSourceMissing(t *testing.T) {
	_, ok := NewSQLiteCache("").TryLoad(filepath.Join(t.TempDir(), "gone.inp"))
	assert.False(t, ok)
}

func TestSQLiteCacheMissOnCorruptArtifact(t *testing.T) {
	source := writeDeck(t, sampleDeck)
	cache := NewSQLiteCache("")

	require.NoError(t, os.WriteFile(cache.Path(source), []byte("not a database"), 0o644))

	_, ok := cache.TryLoad(source)
	assert.False(t, ok)
}

func TestSQLiteCacheMissOnSchemaVersionMismatch(t *testing.T) {
	source := writeDeck(t, sampleDeck)
	cache := NewSQLiteCache("")
	require.NoError(t, cache.Store(source, parseDeck(t, source)))

	db, err := sql.Open("sqlite3", cache.Path(source))
	require.NoError(t, err)
	_, err = db.Exec(`UPDATE meta SET value = '999' WHERE key = 'schema_version'`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	_, ok := cache.TryLoad(source)
	assert.False(t, ok)
}

func TestSQLiteCacheStoreOverwrites(t *testing.T) {
	source := writeDeck(t, sampleDeck)
	cache := NewSQLiteCache("")
	require.NoError(t, cache.Store(source, parseDeck(t, source)))

	// Second store captures a deck with one extra node.
	grown := sampleDeck + "*NODE\n5, 2.0, 2.0, 2.0\n"
	require.NoError(t, os.WriteFile(source, []byte(grown), 0o644))
	past := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(source, past, past))
	require.NoError(t, cache.Store(source, parseDeck(t, source)))

	loaded, ok := cache.TryLoad(source)
	require.True(t, ok)
	assert.Len(t, loaded.Nodes, 5)
	assert.Equal(t, "5, 2.0, 2.0, 2.0", loaded.Nodes[5])
}

// --- LoadOrParse ---

type stubCache struct {
	doc      *inp.Document
	hit      bool
	stored   *inp.Document
	storeErr error
	stores   int
}

func (s *stubCache) TryLoad(string) (*inp.Document, bool) {
	if s.hit {
		return s.doc, true
	}
	return nil, false
}

func (s *stubCache) Store(_ string, doc *inp.Document) error {
	s.stores++
	s.stored = doc
	return s.storeErr
}

func TestLoadOrParseCacheHitSkipsFile(t *testing.T) {
	cached := inp.NewDocument()
	cached.Nodes[7] = "7, 0., 0., 0."
	stub := &stubCache{doc: cached, hit: true}

	// The source path does not exist, so a hit is the only way this succeeds.
	doc, err := LoadOrParse(filepath.Join(t.TempDir(), "gone.inp"), stub)
	require.NoError(t, err)
	assert.Same(t, cached, doc)
	assert.Zero(t, stub.stores)
}

func TestLoadOrParseMissParsesAndStores(t *testing.T) {
	source := writeDeck(t, sampleDeck)
	stub := &stubCache{}

	doc, err := LoadOrParse(source, stub)
	require.NoError(t, err)
	assert.Len(t, doc.Nodes, 4)
	assert.Equal(t, 1, stub.stores)
	assert.Same(t, doc, stub.stored)
}

func TestLoadOrParseIgnoresStoreFailure(t *testing.T) {
	source := writeDeck(t, sampleDeck)
	stub := &stubCache{storeErr: assert.AnError}

	doc, err := LoadOrParse(source, stub)
	require.NoError(t, err)
	assert.Len(t, doc.Nodes, 4)
}

func TestLoadOrParseNilCache(t *testing.T) {
	source := writeDeck(t, sampleDeck)

	doc, err := LoadOrParse(source, nil)
	require.NoError(t, err)
	assert.Len(t, doc.Nodes, 4)
}

func TestLoadOrParseMissingSource(t *testing.T) {
	_, err := LoadOrParse(filepath.Join(t.TempDir(), "gone.inp"), nil)
	require.Error(t, err)
}

func TestLoadOrParseRefreshAfterSourceEdit(t *testing.T) {
	source := writeDeck(t, sampleDeck)
	cache := NewSQLiteCache("")

	doc, err := LoadOrParse(source, cache)
	require.NoError(t, err)
	assert.Len(t, doc.Nodes, 4)

	_, ok := cache.TryLoad(source)
	require.True(t, ok, "first run should leave a usable snapshot")

	// Edit the source. Its mtime now postdates the snapshot, so the next
	// load must re-parse and capture the new node.
	grown := sampleDeck + "*NODE\n5, 2.0, 2.0, 2.0\n"
	require.NoError(t, os.WriteFile(source, []byte(grown), 0o644))
	future := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(source, future, future))

	doc, err = LoadOrParse(source, cache)
	require.NoError(t, err)
	assert.Len(t, doc.Nodes, 5)
}
