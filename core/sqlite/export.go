package sqlite

import (
	"database/sql"
	"fmt"

	"github.com/FocuswithJustin/CedarQuran/core/corpus"
	"github.com/FocuswithJustin/CedarQuran/core/errors"
	"github.com/FocuswithJustin/CedarQuran/core/metrics"
)

const schema = `
CREATE TABLE IF NOT EXISTS meta (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS chapters (
	number      INTEGER PRIMARY KEY,
	name        TEXT NOT NULL,
	verse_count INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS verses (
	chapter INTEGER NOT NULL,
	number  INTEGER NOT NULL,
	text    TEXT NOT NULL,
	words   INTEGER NOT NULL,
	letters INTEGER NOT NULL,
	PRIMARY KEY (chapter, number)
);
`

// Export writes the corpus to a SQLite database at path. Each verse
// row carries its raw text plus word and letter counts computed under
// the default options. An existing database at path is overwritten
// table by table.
func Export(path string, c *corpus.Corpus) error {
	db, err := Open(path)
	if err != nil {
		return errors.NewIO("open", path, err)
	}
	defer db.Close()

	if _, err := db.Exec(schema); err != nil {
		return errors.Wrap(err, "creating schema")
	}

	tx, err := db.Begin()
	if err != nil {
		return errors.Wrap(err, "starting transaction")
	}
	defer tx.Rollback()

	for _, stmt := range []string{"DELETE FROM meta", "DELETE FROM chapters", "DELETE FROM verses"} {
		if _, err := tx.Exec(stmt); err != nil {
			return errors.Wrap(err, "clearing tables")
		}
	}

	if err := insertMeta(tx, c); err != nil {
		return err
	}
	if err := insertChapters(tx, c); err != nil {
		return err
	}
	return tx.Commit()
}

func insertMeta(tx *sql.Tx, c *corpus.Corpus) error {
	stmt, err := tx.Prepare("INSERT INTO meta (key, value) VALUES (?, ?)")
	if err != nil {
		return errors.Wrap(err, "preparing meta insert")
	}
	defer stmt.Close()

	for _, kv := range [][2]string{
		{"script", string(c.Script())},
		{"source_hash", c.SourceHash()},
	} {
		if _, err := stmt.Exec(kv[0], kv[1]); err != nil {
			return errors.Wrapf(err, "inserting meta %s", kv[0])
		}
	}
	return nil
}

func insertChapters(tx *sql.Tx, c *corpus.Corpus) error {
	chapterStmt, err := tx.Prepare("INSERT INTO chapters (number, name, verse_count) VALUES (?, ?, ?)")
	if err != nil {
		return errors.Wrap(err, "preparing chapter insert")
	}
	defer chapterStmt.Close()

	verseStmt, err := tx.Prepare("INSERT INTO verses (chapter, number, text, words, letters) VALUES (?, ?, ?, ?, ?)")
	if err != nil {
		return errors.Wrap(err, "preparing verse insert")
	}
	defer verseStmt.Close()

	opts := metrics.DefaultOptions()
	for _, ch := range c.Chapters() {
		if _, err := chapterStmt.Exec(ch.Number, ch.Name, ch.VerseCount()); err != nil {
			return errors.Wrapf(err, "inserting chapter %d", ch.Number)
		}
		for _, v := range ch.Verses {
			counts, err := metrics.Count(v.Text, opts)
			if err != nil {
				return errors.Wrapf(err, "computing metrics for %s", v.Ref())
			}
			if _, err := verseStmt.Exec(v.Chapter, v.Number, v.Text, counts.Words, counts.Letters); err != nil {
				return errors.Wrapf(err, "inserting verse %s", v.Ref())
			}
		}
	}
	return nil
}

// ChapterStats holds aggregate counts queried from an exported database.
type ChapterStats struct {
	Number  int    `json:"number"`
	Name    string `json:"name"`
	Verses  int    `json:"verses"`
	Words   int    `json:"words"`
	Letters int    `json:"letters"`
}

// QueryChapterStats returns the stored aggregates for one chapter.
func QueryChapterStats(db *sql.DB, chapter int) (ChapterStats, error) {
	var stats ChapterStats
	row := db.QueryRow(`
		SELECT c.number, c.name, c.verse_count,
		       COALESCE(SUM(v.words), 0), COALESCE(SUM(v.letters), 0)
		FROM chapters c
		LEFT JOIN verses v ON v.chapter = c.number
		WHERE c.number = ?
		GROUP BY c.number`, chapter)
	err := row.Scan(&stats.Number, &stats.Name, &stats.Verses, &stats.Words, &stats.Letters)
	if err == sql.ErrNoRows {
		return ChapterStats{}, errors.NewNotFound("chapter", fmt.Sprintf("%d", chapter))
	}
	if err != nil {
		return ChapterStats{}, errors.Wrap(err, "querying chapter stats")
	}
	return stats, nil
}

// QueryMeta returns a meta table value.
func QueryMeta(db *sql.DB, key string) (string, error) {
	var value string
	err := db.QueryRow("SELECT value FROM meta WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", errors.NewNotFound("meta key", key)
	}
	if err != nil {
		return "", errors.Wrap(err, "querying meta")
	}
	return value, nil
}
