// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package snapshot

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/mesh-extract/internal/inp"
)

// DefaultSuffix is appended to the source path to name the snapshot
// artifact, keeping it next to the deck it mirrors.
const DefaultSuffix = ".cache.db"

const schemaVersion = "1"

// Collection tags stored with each block row.
const (
	collectionElements    = "elements"
	collectionNsets       = "nsets"
	collectionElsets      = "elsets"
	collectionMaterials   = "materials"
	collectionSections    = "sections"
	collectionBehaviors   = "behaviors"
	collectionConstraints = "constraints"
	collectionOthers      = "others"
)

// SQLiteCache stores one snapshot per source document in a SQLite file
// beside it. The artifact is trusted only while its modification time is
// strictly newer than the source's.
type SQLiteCache struct {
	suffix string
}

// NewSQLiteCache returns a cache writing <source><suffix> artifacts.
// An empty suffix selects DefaultSuffix.
func NewSQLiteCache(suffix string) *SQLiteCache {
	if suffix == "" {
		suffix = DefaultSuffix
	}
	return &SQLiteCache{suffix: suffix}
}

// Path returns the artifact path for source.
func (c *SQLiteCache) Path(source string) string {
	return source + c.suffix
}

// TryLoad rebuilds the document from the snapshot. Any failure, from a
// missing artifact to a malformed row, is a miss.
func (c *SQLiteCache) TryLoad(source string) (*inp.Document, bool) {
	srcInfo, err := os.Stat(source)
	if err != nil {
		return nil, false
	}
	cacheInfo, err := os.Stat(c.Path(source))
	if err != nil || !cacheInfo.ModTime().After(srcInfo.ModTime()) {
		return nil, false
	}

	db, err := sql.Open("sqlite3", c.Path(source))
	if err != nil {
		return nil, false
	}
	defer db.Close()

	doc, err := readDocument(db)
	if err != nil {
		return nil, false
	}
	return doc, true
}

// Store rewrites the snapshot from scratch so the artifact's modification
// time postdates the parse it captures.
func (c *SQLiteCache) Store(source string, doc *inp.Document) error {
	path := c.Path(source)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing stale snapshot: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL")
	if err != nil {
		return fmt.Errorf("opening snapshot: %w", err)
	}
	defer db.Close()

	if err := createSchema(db); err != nil {
		return err
	}
	return writeDocument(db, source, doc)
}

func createSchema(db *sql.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS nodes (
			id INTEGER PRIMARY KEY,
			line TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS blocks (
			seq INTEGER PRIMARY KEY,
			collection TEXT NOT NULL,
			key TEXT NOT NULL,
			keyword TEXT NOT NULL,
			options TEXT NOT NULL,
			lines TEXT NOT NULL
		)`,
	}
	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

func writeDocument(db *sql.DB, source string, doc *inp.Document) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		`INSERT INTO meta (key, value) VALUES ('schema_version', ?), ('source', ?)`,
		schemaVersion, source,
	); err != nil {
		return fmt.Errorf("writing metadata: %w", err)
	}

	nodeStmt, err := tx.Prepare(`INSERT INTO nodes (id, line) VALUES (?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing node insert: %w", err)
	}
	defer nodeStmt.Close()
	for id, line := range doc.Nodes {
		if _, err := nodeStmt.Exec(id, line); err != nil {
			return fmt.Errorf("writing node %d: %w", id, err)
		}
	}

	blockStmt, err := tx.Prepare(
		`INSERT INTO blocks (seq, collection, key, keyword, options, lines)
		 VALUES (?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return fmt.Errorf("preparing block insert: %w", err)
	}
	defer blockStmt.Close()

	seq := 0
	insert := func(collection, key string, b *inp.Block) error {
		optionsJSON, err := json.Marshal(b.Options)
		if err != nil {
			return fmt.Errorf("encoding options: %w", err)
		}
		linesJSON, err := json.Marshal(b.Lines)
		if err != nil {
			return fmt.Errorf("encoding lines: %w", err)
		}
		seq++
		if _, err := blockStmt.Exec(seq, collection, key, b.Keyword,
			string(optionsJSON), string(linesJSON)); err != nil {
			return fmt.Errorf("writing %s block %q: %w", collection, key, err)
		}
		return nil
	}

	indexed := []struct {
		collection string
		ix         *inp.BlockIndex
	}{
		{collectionElements, doc.Elements},
		{collectionNsets, doc.Nsets},
		{collectionElsets, doc.Elsets},
		{collectionMaterials, doc.Materials},
		{collectionSections, doc.Sections},
		{collectionBehaviors, doc.Behaviors},
	}
	for _, col := range indexed {
		for _, key := range col.ix.Keys() {
			b, _ := col.ix.Get(key)
			if err := insert(col.collection, key, b); err != nil {
				return err
			}
		}
	}
	for _, b := range doc.Constraints {
		if err := insert(collectionConstraints, "", b); err != nil {
			return err
		}
	}
	for _, b := range doc.Others {
		if err := insert(collectionOthers, "", b); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing snapshot: %w", err)
	}
	return nil
}

func readDocument(db *sql.DB) (*inp.Document, error) {
	var version string
	if err := db.QueryRow(
		`SELECT value FROM meta WHERE key = 'schema_version'`,
	).Scan(&version); err != nil {
		return nil, fmt.Errorf("reading schema version: %w", err)
	}
	if version != schemaVersion {
		return nil, fmt.Errorf("snapshot schema version %q unsupported", version)
	}

	doc := inp.NewDocument()

	nodeRows, err := db.Query(`SELECT id, line FROM nodes`)
	if err != nil {
		return nil, fmt.Errorf("reading nodes: %w", err)
	}
	defer nodeRows.Close()
	for nodeRows.Next() {
		var id int
		var line string
		if err := nodeRows.Scan(&id, &line); err != nil {
			return nil, fmt.Errorf("scanning node row: %w", err)
		}
		doc.Nodes[id] = line
	}
	if err := nodeRows.Err(); err != nil {
		return nil, fmt.Errorf("reading nodes: %w", err)
	}

	blockRows, err := db.Query(
		`SELECT collection, key, keyword, options, lines FROM blocks ORDER BY seq`,
	)
	if err != nil {
		return nil, fmt.Errorf("reading blocks: %w", err)
	}
	defer blockRows.Close()
	for blockRows.Next() {
		var collection, key, keyword, optionsJSON, linesJSON string
		if err := blockRows.Scan(&collection, &key, &keyword, &optionsJSON, &linesJSON); err != nil {
			return nil, fmt.Errorf("scanning block row: %w", err)
		}

		var options map[string]string
		if err := json.Unmarshal([]byte(optionsJSON), &options); err != nil {
			return nil, fmt.Errorf("decoding options: %w", err)
		}
		var lines []string
		if err := json.Unmarshal([]byte(linesJSON), &lines); err != nil {
			return nil, fmt.Errorf("decoding lines: %w", err)
		}
		b := inp.NewBlock(keyword, options, lines)

		switch collection {
		case collectionElements:
			doc.Elements.Put(key, b)
		case collectionNsets:
			doc.Nsets.Put(key, b)
		case collectionElsets:
			doc.Elsets.Put(key, b)
		case collectionMaterials:
			doc.Materials.Put(key, b)
		case collectionSections:
			doc.Sections.Put(key, b)
		case collectionBehaviors:
			doc.Behaviors.Put(key, b)
		case collectionConstraints:
			doc.Constraints = append(doc.Constraints, b)
		case collectionOthers:
			doc.Others = append(doc.Others, b)
		default:
			return nil, fmt.Errorf("unknown collection %q", collection)
		}
	}
	if err := blockRows.Err(); err != nil {
		return nil, fmt.Errorf("reading blocks: %w", err)
	}

	return doc, nil
}
