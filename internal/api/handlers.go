// Package api provides the CedarQuran REST API server.
package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/FocuswithJustin/CedarQuran/core/corpus"
	"github.com/FocuswithJustin/CedarQuran/core/errors"
	"github.com/FocuswithJustin/CedarQuran/core/metrics"
	"github.com/FocuswithJustin/CedarQuran/core/normalize"
	"github.com/FocuswithJustin/CedarQuran/core/tokenize"
)

// APIResponse is the standard API response wrapper.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
	Meta    *APIMeta    `json:"meta,omitempty"`
}

// APIError represents an API error.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// APIMeta contains response metadata.
type APIMeta struct {
	Total     int    `json:"total,omitempty"`
	Timestamp string `json:"timestamp"`
}

// ChapterInfo describes a chapter without its verse texts.
type ChapterInfo struct {
	Number int    `json:"number"`
	Name   string `json:"name"`
	Verses int    `json:"verses"`
}

// ChapterDetail is a chapter with verses and aggregate counts.
type ChapterDetail struct {
	ChapterInfo
	Counts metrics.Counts `json:"counts"`
	Texts  []corpus.Verse `json:"texts"`
}

// VerseDetail is one resolved verse with its derived analysis.
type VerseDetail struct {
	Ref        string         `json:"ref"`
	Raw        string         `json:"raw"`
	Normalized string         `json:"normalized"`
	Words      []string       `json:"words"`
	Counts     metrics.Counts `json:"counts"`
}

// AnalyzeRequest is the body of POST /api/v1/analyze.
type AnalyzeRequest struct {
	Text                     string   `json:"text"`
	StripDiacritics          *bool    `json:"strip_diacritics,omitempty"`
	FoldVariants             *bool    `json:"fold_variants,omitempty"`
	SplitLeadingConjunctions []string `json:"split_leading_conjunctions,omitempty"`
}

// AnalyzeResult is the response of POST /api/v1/analyze.
type AnalyzeResult struct {
	Normalized string         `json:"normalized"`
	Words      []string       `json:"words"`
	Counts     metrics.Counts `json:"counts"`
}

// Server serves the REST API over one loaded corpus.
type Server struct {
	analyzer *corpus.Analyzer
	jobs     *JobStore
	hub      *Hub
	security SecurityConfig
}

// NewServer creates a Server over the given analyzer with default
// security settings.
func NewServer(a *corpus.Analyzer) *Server {
	return &Server{
		analyzer: a,
		jobs:     NewJobStore(),
		hub:      NewHub(),
		security: DefaultSecurityConfig(),
	}
}

// Routes returns the API route multiplexer.
func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/health", s.handleHealth)
	mux.HandleFunc("GET /api/v1/chapters", s.handleChapters)
	mux.HandleFunc("GET /api/v1/chapters/{number}", s.handleChapter)
	mux.HandleFunc("GET /api/v1/verses/{ref}", s.handleVerses)
	mux.HandleFunc("POST /api/v1/analyze", s.handleAnalyze)
	mux.HandleFunc("POST /api/v1/jobs/corpus-stats", s.handleCreateStatsJob)
	mux.HandleFunc("GET /api/v1/jobs/{id}", s.handleGetJob)
	mux.HandleFunc("GET /api/v1/ws", s.handleWebSocket)
	return mux
}

func writeJSON(w http.ResponseWriter, status int, data interface{}, total int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	resp := APIResponse{
		Success: true,
		Data:    data,
		Meta: &APIMeta{
			Total:     total,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		},
	}
	_ = json.NewEncoder(w).Encode(resp)
}

func writeError(w http.ResponseWriter, err error) {
	code := "internal"
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, errors.ErrNotFound):
		code, status = "not_found", http.StatusNotFound
	case errors.Is(err, errors.ErrInvalidInput):
		code, status = "invalid_input", http.StatusBadRequest
	case errors.Is(err, errors.ErrUnsupported):
		code, status = "unsupported", http.StatusBadRequest
	}
	respondError(w, status, code, err.Error())
}

// respondError writes an error envelope with an explicit status and
// code. Middleware uses it directly; handler errors go through
// writeError, which maps the error taxonomy first.
func respondError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(APIResponse{
		Success: false,
		Error:   &APIError{Code: code, Message: message},
	})
}

// optionsFromQuery builds metrics options from common query parameters.
// Defaults apply when a parameter is absent.
func optionsFromQuery(r *http.Request) metrics.Options {
	opts := metrics.DefaultOptions()
	q := r.URL.Query()
	if v := q.Get("strip_diacritics"); v != "" {
		opts.Normalize.StripDiacritics = v == "true" || v == "1"
	}
	if v := q.Get("fold_variants"); v != "" {
		opts.Normalize.FoldVariants = v == "true" || v == "1"
	}
	if v := q.Get("split_conjunctions"); v != "" {
		opts.Tokenize.SplitLeadingConjunctions = []rune(v)
	}
	return opts
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":   "ok",
		"script":   string(s.analyzer.Corpus().Script()),
		"chapters": len(s.analyzer.Corpus().Chapters()),
		"verses":   s.analyzer.Corpus().VerseCount(),
	}, 0)
}

func (s *Server) handleChapters(w http.ResponseWriter, r *http.Request) {
	chapters := s.analyzer.Corpus().Chapters()
	infos := make([]ChapterInfo, len(chapters))
	for i := range chapters {
		infos[i] = ChapterInfo{
			Number: chapters[i].Number,
			Name:   chapters[i].Name,
			Verses: chapters[i].VerseCount(),
		}
	}
	writeJSON(w, http.StatusOK, infos, len(infos))
}

func (s *Server) handleChapter(w http.ResponseWriter, r *http.Request) {
	number, err := strconv.Atoi(r.PathValue("number"))
	if err != nil {
		writeError(w, errors.NewValidation("number", "chapter number must be an integer"))
		return
	}
	ch, err := s.analyzer.Corpus().GetChapter(number)
	if err != nil {
		writeError(w, err)
		return
	}

	opts := optionsFromQuery(r)
	counts, err := s.analyzer.ChapterCounts(number, opts)
	if err != nil {
		writeError(w, err)
		return
	}

	detail := ChapterDetail{
		ChapterInfo: ChapterInfo{Number: ch.Number, Name: ch.Name, Verses: ch.VerseCount()},
		Counts:      counts,
		Texts:       ch.Verses,
	}
	writeJSON(w, http.StatusOK, detail, ch.VerseCount())
}

func (s *Server) handleVerses(w http.ResponseWriter, r *http.Request) {
	ref, err := corpus.ParseRef(r.PathValue("ref"))
	if err != nil {
		writeError(w, err)
		return
	}
	verses, err := ref.Resolve(s.analyzer.Corpus())
	if err != nil {
		writeError(w, err)
		return
	}

	opts := optionsFromQuery(r)
	details := make([]VerseDetail, 0, len(verses))
	for _, v := range verses {
		words, err := tokenize.Words(normalize.Normalize(v.Text, opts.Normalize), opts.Tokenize)
		if err != nil {
			writeError(w, err)
			return
		}
		counts, err := s.analyzer.VerseCounts(v.Chapter, v.Number, opts)
		if err != nil {
			writeError(w, err)
			return
		}
		details = append(details, VerseDetail{
			Ref:        v.Ref(),
			Raw:        v.Text,
			Normalized: normalize.Normalize(v.Text, opts.Normalize),
			Words:      words,
			Counts:     counts,
		})
	}
	writeJSON(w, http.StatusOK, details, len(details))
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.NewParse("JSON", "", err.Error()))
		return
	}

	opts := metrics.DefaultOptions()
	if req.StripDiacritics != nil {
		opts.Normalize.StripDiacritics = *req.StripDiacritics
	}
	if req.FoldVariants != nil {
		opts.Normalize.FoldVariants = *req.FoldVariants
	}
	for _, entry := range req.SplitLeadingConjunctions {
		runes := []rune(entry)
		if len(runes) != 1 {
			writeError(w, errors.NewValidation("split_leading_conjunctions",
				"each entry must be a single letter"))
			return
		}
		opts.Tokenize.SplitLeadingConjunctions = append(opts.Tokenize.SplitLeadingConjunctions, runes[0])
	}

	normalized := normalize.Normalize(req.Text, opts.Normalize)
	words, err := tokenize.Words(normalized, opts.Tokenize)
	if err != nil {
		writeError(w, err)
		return
	}
	counts, err := metrics.Count(req.Text, opts)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, AnalyzeResult{
		Normalized: normalized,
		Words:      words,
		Counts:     counts,
	}, len(words))
}
