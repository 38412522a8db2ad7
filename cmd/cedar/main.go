// Command cedar is the CLI tool for CedarQuran.
// It provides commands for looking up verses, running the
// normalization/tokenization pipeline, computing word and letter
// counts, exporting to SQLite, and serving the REST API.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"github.com/FocuswithJustin/CedarQuran/core/corpus"
	"github.com/FocuswithJustin/CedarQuran/core/metrics"
	"github.com/FocuswithJustin/CedarQuran/core/normalize"
	"github.com/FocuswithJustin/CedarQuran/core/sqlite"
	"github.com/FocuswithJustin/CedarQuran/core/tanzil"
	"github.com/FocuswithJustin/CedarQuran/core/tokenize"
	"github.com/FocuswithJustin/CedarQuran/internal/api"
	"github.com/FocuswithJustin/CedarQuran/internal/logging"
)

const version = "0.1.0"

// CLI defines the command-line interface for cedar.
var CLI struct {
	// Global flags
	Data      string `name:"data" short:"d" help:"Tanzil XML data file or directory" type:"path" env:"CEDAR_DATA"`
	Script    string `name:"script" short:"s" help:"Script variant" enum:"uthmani,simple" default:"uthmani"`
	LogLevel  string `name:"log-level" help:"Log level (debug, info, warn, error)" default:"info"`
	LogFormat string `name:"log-format" help:"Log format (json, text)" default:"text"`

	Show      ShowCmd      `cmd:"" help:"Print verse text for a reference"`
	Words     WordsCmd     `cmd:"" help:"List word tokens for a reference"`
	Normalize NormalizeCmd `cmd:"" help:"Normalize a piece of text"`
	Count     CountCmd     `cmd:"" help:"Word and letter counts for a reference"`
	Stats     StatsCmd     `cmd:"" help:"Aggregate counts per chapter or for the whole corpus"`
	Export    ExportGroup  `cmd:"" help:"Export the corpus"`
	API       APICmd       `cmd:"" help:"Start REST API server"`
	Version   VersionCmd   `cmd:"" help:"Print version information"`
}

// pipelineFlags are the shared engine options.
type pipelineFlags struct {
	KeepDiacritics    bool   `name:"keep-diacritics" help:"Keep diacritic marks in the output"`
	KeepVariants      bool   `name:"keep-variants" help:"Keep letter variants unfolded"`
	SplitConjunctions string `name:"split-conjunctions" help:"Letters to split off word starts (e.g. وف)"`
}

func (f pipelineFlags) options() metrics.Options {
	opts := metrics.DefaultOptions()
	opts.Normalize.StripDiacritics = !f.KeepDiacritics
	opts.Normalize.FoldVariants = !f.KeepVariants
	if f.SplitConjunctions != "" {
		opts.Tokenize.SplitLeadingConjunctions = []rune(f.SplitConjunctions)
	}
	return opts
}

// loadCorpus loads the configured data file or directory.
func loadCorpus() (*corpus.Corpus, error) {
	script, err := corpus.ParseScript(CLI.Script)
	if err != nil {
		return nil, err
	}
	if CLI.Data == "" {
		return nil, fmt.Errorf("no data file: pass --data or set CEDAR_DATA")
	}

	info, err := os.Stat(CLI.Data)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", CLI.Data, err)
	}

	var c *corpus.Corpus
	if info.IsDir() {
		c, err = tanzil.LoadDir(CLI.Data, script)
	} else {
		c, err = tanzil.Load(CLI.Data, script)
	}
	if err != nil {
		return nil, err
	}

	logging.CorpusLoaded(string(c.Script()), len(c.Chapters()), c.VerseCount(), c.SourceHash())
	return c, nil
}

// resolveVerses loads the corpus and resolves a reference argument.
func resolveVerses(refArg string) ([]corpus.Verse, error) {
	c, err := loadCorpus()
	if err != nil {
		return nil, err
	}
	ref, err := corpus.ParseRef(refArg)
	if err != nil {
		return nil, err
	}
	return ref.Resolve(c)
}

// ShowCmd prints raw or normalized verse text.
type ShowCmd struct {
	Ref string `arg:"" help:"Reference (e.g. 1, 1:5, 1:1-7)"`
	pipelineFlags
	Raw bool `name:"raw" help:"Print the raw source text"`
}

func (c *ShowCmd) Run(ctx *kong.Context) error {
	verses, err := resolveVerses(c.Ref)
	if err != nil {
		return err
	}
	opts := c.options()
	for _, v := range verses {
		text := v.Text
		if !c.Raw {
			text = normalize.Normalize(text, opts.Normalize)
		}
		fmt.Printf("%s\t%s\n", v.Ref(), text)
	}
	return nil
}

// WordsCmd lists the word tokens of each referenced verse.
type WordsCmd struct {
	Ref string `arg:"" help:"Reference (e.g. 1:5)"`
	pipelineFlags
}

func (c *WordsCmd) Run(ctx *kong.Context) error {
	verses, err := resolveVerses(c.Ref)
	if err != nil {
		return err
	}
	opts := c.options()
	for _, v := range verses {
		words, err := tokenize.Words(normalize.Normalize(v.Text, opts.Normalize), opts.Tokenize)
		if err != nil {
			return err
		}
		for i, w := range words {
			fmt.Printf("%s\t%d\t%s\n", v.Ref(), i+1, w)
		}
	}
	return nil
}

// NormalizeCmd normalizes text given on the command line. It needs no
// data file.
type NormalizeCmd struct {
	Text string `arg:"" help:"Text to normalize"`
	pipelineFlags
}

func (c *NormalizeCmd) Run(ctx *kong.Context) error {
	fmt.Println(normalize.Normalize(c.Text, c.options().Normalize))
	return nil
}

// CountCmd prints word and letter counts for each referenced verse.
type CountCmd struct {
	Ref string `arg:"" help:"Reference (e.g. 2:255)"`
	pipelineFlags
}

func (c *CountCmd) Run(ctx *kong.Context) error {
	verses, err := resolveVerses(c.Ref)
	if err != nil {
		return err
	}
	opts := c.options()
	var total metrics.Counts
	for _, v := range verses {
		counts, err := metrics.Count(v.Text, opts)
		if err != nil {
			return err
		}
		fmt.Printf("%s\twords=%d\tletters=%d\n", v.Ref(), counts.Words, counts.Letters)
		total.Words += counts.Words
		total.Letters += counts.Letters
	}
	if len(verses) > 1 {
		fmt.Printf("total\twords=%d\tletters=%d\n", total.Words, total.Letters)
	}
	return nil
}

// StatsCmd prints aggregate counts for one chapter or the whole corpus.
type StatsCmd struct {
	Chapter int `arg:"" optional:"" help:"Chapter number (omit for whole corpus)"`
	pipelineFlags
	JSON bool `name:"json" help:"Emit JSON"`
}

func (c *StatsCmd) Run(ctx *kong.Context) error {
	corp, err := loadCorpus()
	if err != nil {
		return err
	}
	analyzer := corpus.NewAnalyzer(corp)
	opts := c.options()

	if c.Chapter != 0 {
		ch, err := corp.GetChapter(c.Chapter)
		if err != nil {
			return err
		}
		counts, err := analyzer.ChapterCounts(c.Chapter, opts)
		if err != nil {
			return err
		}
		if c.JSON {
			return json.NewEncoder(os.Stdout).Encode(map[string]interface{}{
				"chapter": ch.Number,
				"name":    ch.Name,
				"verses":  ch.VerseCount(),
				"counts":  counts,
			})
		}
		fmt.Printf("%d %s\tverses=%d\twords=%d\tletters=%d\n",
			ch.Number, ch.Name, ch.VerseCount(), counts.Words, counts.Letters)
		return nil
	}

	counts, err := analyzer.CorpusCounts(opts)
	if err != nil {
		return err
	}
	if c.JSON {
		return json.NewEncoder(os.Stdout).Encode(map[string]interface{}{
			"chapters": len(corp.Chapters()),
			"verses":   corp.VerseCount(),
			"counts":   counts,
		})
	}
	fmt.Printf("corpus\tchapters=%d\tverses=%d\twords=%d\tletters=%d\n",
		len(corp.Chapters()), corp.VerseCount(), counts.Words, counts.Letters)
	return nil
}

// ExportGroup contains export operations.
type ExportGroup struct {
	SQLite ExportSQLiteCmd `cmd:"" help:"Export corpus and default metrics to a SQLite database"`
}

// ExportSQLiteCmd exports the corpus to SQLite.
type ExportSQLiteCmd struct {
	Out string `name:"out" short:"o" help:"Output database path" required:"" type:"path"`
}

func (c *ExportSQLiteCmd) Run(ctx *kong.Context) error {
	corp, err := loadCorpus()
	if err != nil {
		return err
	}
	if err := sqlite.Export(c.Out, corp); err != nil {
		return err
	}
	logging.Info("corpus exported",
		"path", c.Out,
		"driver", sqlite.DriverType(),
		"verses", corp.VerseCount())
	fmt.Printf("exported %d verses to %s\n", corp.VerseCount(), c.Out)
	return nil
}

// APICmd starts the REST API server.
type APICmd struct {
	Port           int      `name:"port" short:"p" help:"Port to listen on" default:"8490"`
	Host           string   `name:"host" help:"Bind address" default:"127.0.0.1"`
	APIKey         string   `name:"api-key" help:"Require this API key via the X-API-Key header" env:"CEDAR_API_KEY"`
	RateLimit      int      `name:"rate-limit" help:"Max requests per minute per client (0 disables)"`
	RateLimitBurst int      `name:"rate-limit-burst" help:"Burst size for rate limiting" default:"10"`
	AllowedOrigins []string `name:"allowed-origins" help:"Allowed WebSocket origins (default: any)"`
}

func (c *APICmd) Run(ctx *kong.Context) error {
	corp, err := loadCorpus()
	if err != nil {
		return err
	}
	cfg := api.Config{
		Port: c.Port,
		Host: c.Host,
		Auth: api.AuthConfig{
			Enabled: c.APIKey != "",
			APIKey:  c.APIKey,
		},
		RateLimit: api.RateLimiterConfig{
			RequestsPerMinute: c.RateLimit,
			BurstSize:         c.RateLimitBurst,
		},
		Security: api.SecurityConfig{
			AllowedOrigins: c.AllowedOrigins,
		},
	}
	return api.Start(cfg, corpus.NewAnalyzer(corp))
}

// VersionCmd prints version information.
type VersionCmd struct{}

func (c *VersionCmd) Run(ctx *kong.Context) error {
	fmt.Printf("cedar version %s (sqlite driver: %s)\n", version, sqlite.DriverType())
	return nil
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("cedar"),
		kong.Description("CedarQuran - Quranic text access and analysis"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	)
	logging.InitLogger(logging.ParseLevel(CLI.LogLevel), logging.ParseFormat(CLI.LogFormat))
	err := ctx.Run(ctx)
	ctx.FatalIfErrorf(err)
}
