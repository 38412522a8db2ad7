// Package tanzil loads the corpus from Tanzil-format XML data files.
//
// The format is a single <quran> element holding 114 <sura> elements,
// each with index and name attributes and a sequence of <aya> elements
// carrying index and text attributes. The first aya of a sura may also
// carry a bismillah attribute, which is prepended to the verse text.
//
// Files compressed with xz (a ".xz" suffix) are decompressed
// transparently.
package tanzil

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/antchfx/xmlquery"
	"github.com/ulikunitz/xz"
	"github.com/zeebo/blake3"

	"github.com/FocuswithJustin/CedarQuran/core/corpus"
	"github.com/FocuswithJustin/CedarQuran/core/errors"
)

// FileName returns the conventional data file name for a script.
func FileName(script corpus.Script) string {
	return fmt.Sprintf("quran-%s.xml", script)
}

// Load reads and parses the data file at path.
func Load(path string, script corpus.Script) (*corpus.Corpus, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.NewIO("open", path, err)
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".xz") {
		xzr, err := xz.NewReader(f)
		if err != nil {
			return nil, errors.NewIO("decompress", path, err)
		}
		r = xzr
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.NewIO("read", path, err)
	}
	return parse(data, script, path)
}

// LoadDir loads the conventional file for script from dir, preferring
// the plain XML file and falling back to its xz-compressed form.
func LoadDir(dir string, script corpus.Script) (*corpus.Corpus, error) {
	plain := filepath.Join(dir, FileName(script))
	if _, err := os.Stat(plain); err == nil {
		return Load(plain, script)
	}
	compressed := plain + ".xz"
	if _, err := os.Stat(compressed); err == nil {
		return Load(compressed, script)
	}
	return nil, errors.NewNotFound("data file", plain)
}

// LoadReader parses a data stream. The caller is responsible for any
// decompression.
func LoadReader(r io.Reader, script corpus.Script) (*corpus.Corpus, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.NewIO("read", "", err)
	}
	return parse(data, script, "")
}

func parse(data []byte, script corpus.Script, path string) (*corpus.Corpus, error) {
	sum := blake3.Sum256(data)
	sourceHash := hex.EncodeToString(sum[:])

	doc, err := xmlquery.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, &errors.ParseError{Format: "Tanzil XML", Path: path, Message: "malformed XML", Err: err}
	}

	suraNodes := xmlquery.Find(doc, "//quran/sura")
	if len(suraNodes) == 0 {
		return nil, errors.NewParse("Tanzil XML", path, "no sura elements found")
	}

	chapters := make([]corpus.Chapter, 0, len(suraNodes))
	for _, sura := range suraNodes {
		number, err := intAttr(sura, "index")
		if err != nil {
			return nil, errors.NewParse("Tanzil XML", path, err.Error())
		}

		ayaNodes := xmlquery.Find(sura, "aya")
		verses := make([]corpus.Verse, 0, len(ayaNodes))
		for i, aya := range ayaNodes {
			vn, err := intAttr(aya, "index")
			if err != nil {
				return nil, errors.NewParse("Tanzil XML", path, fmt.Sprintf("sura %d: %v", number, err))
			}
			text := aya.SelectAttr("text")
			if i == 0 {
				// The opening bismillah is carried as an attribute and
				// belongs to the verse text.
				if b := aya.SelectAttr("bismillah"); b != "" {
					text = b + " " + text
				}
			}
			verses = append(verses, corpus.Verse{Chapter: number, Number: vn, Text: text})
		}

		chapters = append(chapters, corpus.Chapter{
			Number: number,
			Name:   sura.SelectAttr("name"),
			Verses: verses,
		})
	}

	c, err := corpus.New(script, chapters, sourceHash)
	if err != nil {
		return nil, &errors.ParseError{Format: "Tanzil XML", Path: path, Message: "inconsistent corpus", Err: err}
	}
	return c, nil
}

func intAttr(node *xmlquery.Node, name string) (int, error) {
	raw := node.SelectAttr(name)
	if raw == "" {
		return 0, fmt.Errorf("missing %s attribute on <%s>", name, node.Data)
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("bad %s attribute %q on <%s>", name, raw, node.Data)
	}
	return n, nil
}
