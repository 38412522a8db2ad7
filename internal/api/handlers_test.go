package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/FocuswithJustin/CedarQuran/core/corpus"
)

func testAnalyzer(t *testing.T) *corpus.Analyzer {
	t.Helper()
	chapters := make([]corpus.Chapter, corpus.ChapterCount)
	for i := range chapters {
		n := i + 1
		chapters[i] = corpus.Chapter{
			Number: n,
			Name:   fmt.Sprintf("sura-%d", n),
			Verses: []corpus.Verse{{Chapter: n, Number: 1, Text: "قُلْ هُوَ ٱللَّهُ أَحَدٌ"}},
		}
	}
	chapters[0] = corpus.Chapter{
		Number: 1,
		Name:   "الفاتحة",
		Verses: []corpus.Verse{
			{Chapter: 1, Number: 1, Text: "بِسْمِ ٱللَّهِ ٱلرَّحْمَٰنِ ٱلرَّحِيمِ"},
			{Chapter: 1, Number: 2, Text: "ٱلْحَمْدُ لِلَّهِ رَبِّ ٱلْعَٰلَمِينَ"},
		},
	}
	c, err := corpus.New(corpus.ScriptUthmani, chapters, "feedface")
	if err != nil {
		t.Fatal(err)
	}
	return corpus.NewAnalyzer(c)
}

func doRequest(t *testing.T, server *Server, method, path, body string) (*httptest.ResponseRecorder, APIResponse) {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	server.Routes().ServeHTTP(rec, req)

	var resp APIResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("response is not JSON: %v\n%s", err, rec.Body.String())
	}
	return rec, resp
}

func TestHandleHealth(t *testing.T) {
	server := NewServer(testAnalyzer(t))
	rec, resp := doRequest(t, server, "GET", "/api/v1/health", "")

	if rec.Code != http.StatusOK || !resp.Success {
		t.Fatalf("status = %d, success = %v", rec.Code, resp.Success)
	}
	data, _ := json.Marshal(resp.Data)
	var health map[string]interface{}
	if err := json.Unmarshal(data, &health); err != nil {
		t.Fatal(err)
	}
	if health["status"] != "ok" || health["chapters"] != float64(corpus.ChapterCount) {
		t.Errorf("health = %+v", health)
	}
}

func TestHandleChapters(t *testing.T) {
	server := NewServer(testAnalyzer(t))
	rec, resp := doRequest(t, server, "GET", "/api/v1/chapters", "")

	if rec.Code != http.StatusOK || !resp.Success {
		t.Fatalf("status = %d, success = %v", rec.Code, resp.Success)
	}
	if resp.Meta == nil || resp.Meta.Total != corpus.ChapterCount {
		t.Errorf("meta total = %+v, want %d", resp.Meta, corpus.ChapterCount)
	}
}

func TestHandleChapter(t *testing.T) {
	server := NewServer(testAnalyzer(t))
	rec, resp := doRequest(t, server, "GET", "/api/v1/chapters/1", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	data, _ := json.Marshal(resp.Data)
	var detail ChapterDetail
	if err := json.Unmarshal(data, &detail); err != nil {
		t.Fatal(err)
	}
	if detail.Name != "الفاتحة" || detail.Verses != 2 {
		t.Errorf("detail = %+v", detail.ChapterInfo)
	}
	if detail.Counts.Words == 0 || detail.Counts.Letters == 0 {
		t.Errorf("counts should be non-zero: %+v", detail.Counts)
	}
}

func TestHandleChapter_Errors(t *testing.T) {
	server := NewServer(testAnalyzer(t))

	rec, resp := doRequest(t, server, "GET", "/api/v1/chapters/115", "")
	if rec.Code != http.StatusNotFound || resp.Error == nil || resp.Error.Code != "not_found" {
		t.Errorf("status = %d, error = %+v", rec.Code, resp.Error)
	}

	rec, resp = doRequest(t, server, "GET", "/api/v1/chapters/abc", "")
	if rec.Code != http.StatusBadRequest || resp.Error == nil || resp.Error.Code != "invalid_input" {
		t.Errorf("status = %d, error = %+v", rec.Code, resp.Error)
	}
}

func TestHandleVerses_SingleVerse(t *testing.T) {
	server := NewServer(testAnalyzer(t))
	rec, resp := doRequest(t, server, "GET", "/api/v1/verses/1:1", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %+v", rec.Code, resp.Error)
	}
	data, _ := json.Marshal(resp.Data)
	var details []VerseDetail
	if err := json.Unmarshal(data, &details); err != nil {
		t.Fatal(err)
	}
	if len(details) != 1 {
		t.Fatalf("got %d verses, want 1", len(details))
	}
	v := details[0]
	if v.Ref != "1:1" {
		t.Errorf("ref = %q", v.Ref)
	}
	if v.Normalized != "بسم الله الرحمن الرحيم" {
		t.Errorf("normalized = %q", v.Normalized)
	}
	if v.Counts.Words != 4 {
		t.Errorf("words = %d, want 4", v.Counts.Words)
	}
}

func TestHandleVerses_Range(t *testing.T) {
	server := NewServer(testAnalyzer(t))
	rec, resp := doRequest(t, server, "GET", "/api/v1/verses/1:1-2", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if resp.Meta.Total != 2 {
		t.Errorf("total = %d, want 2", resp.Meta.Total)
	}
}

func TestHandleVerses_QueryOptions(t *testing.T) {
	server := NewServer(testAnalyzer(t))
	// Keep diacritics: normalized text must equal folded raw text.
	rec, resp := doRequest(t, server, "GET", "/api/v1/verses/1:1?strip_diacritics=false", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	data, _ := json.Marshal(resp.Data)
	var details []VerseDetail
	if err := json.Unmarshal(data, &details); err != nil {
		t.Fatal(err)
	}
	if details[0].Normalized == details[0].Raw {
		t.Error("folding should still change the text")
	}
	if !strings.ContainsRune(details[0].Normalized, 0x0651) {
		t.Error("shadda should survive with strip_diacritics=false")
	}
}

func TestHandleVerses_Errors(t *testing.T) {
	server := NewServer(testAnalyzer(t))

	rec, _ := doRequest(t, server, "GET", "/api/v1/verses/1:99", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}

	rec, _ = doRequest(t, server, "GET", "/api/v1/verses/garbage", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestHandleAnalyze(t *testing.T) {
	server := NewServer(testAnalyzer(t))
	body := `{"text": "وَٱلْعَصْرِ", "split_leading_conjunctions": ["و"]}`
	rec, resp := doRequest(t, server, "POST", "/api/v1/analyze", body)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %+v", rec.Code, resp.Error)
	}
	data, _ := json.Marshal(resp.Data)
	var result AnalyzeResult
	if err := json.Unmarshal(data, &result); err != nil {
		t.Fatal(err)
	}
	if result.Normalized != "والعصر" {
		t.Errorf("normalized = %q", result.Normalized)
	}
	if len(result.Words) != 2 || result.Words[0] != "و" || result.Words[1] != "العصر" {
		t.Errorf("words = %v", result.Words)
	}
	if result.Counts.Words != 2 {
		t.Errorf("word count = %d, want 2", result.Counts.Words)
	}
}

func TestHandleAnalyze_Errors(t *testing.T) {
	server := NewServer(testAnalyzer(t))

	rec, _ := doRequest(t, server, "POST", "/api/v1/analyze", "{not json")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}

	rec, _ = doRequest(t, server, "POST", "/api/v1/analyze", `{"text":"x","split_leading_conjunctions":["وف"]}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("multi-letter conjunction entry: status = %d, want 400", rec.Code)
	}
}
