package pipeline

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/dgallion1/groupdata/internal/catalog"
	"github.com/dgallion1/groupdata/internal/parser"
	"github.com/dgallion1/groupdata/internal/source"
	"github.com/dgallion1/groupdata/internal/webidl"
)

// Stage names where a source can fail.
const (
	StageFetch   = "fetch"
	StageExtract = "extract"
	StageParse   = "parse"
)

// Inline is IDL text supplied directly rather than through a source.
type Inline struct {
	Name string
	IDL  string
}

// Request describes one catalog run.
type Request struct {
	APIName string
	Policy  catalog.CallbackPolicy
	Sources []string // file paths or http(s) URLs
	Inline  []Inline
}

// SourceFailure records a source whose contribution was dropped.
type SourceFailure struct {
	Source string
	Stage  string
	Err    error
}

// Result is the outcome of a run. A run always produces output; failures only
// shrink it.
type Result struct {
	Output      string
	Buckets     catalog.Buckets
	Diagnostics []catalog.Diagnostic
	Failures    []SourceFailure

	// Contributed counts the sources, repeats included, whose IDL reached
	// the classifier. A source with a bad block still counts when another of
	// its blocks parsed.
	Contributed int
}

// Generator runs the fetch, extract, parse, classify and render phases.
type Generator struct {
	fetcher *source.Fetcher
	log     *slog.Logger
}

func NewGenerator(fetcher *source.Fetcher, log *slog.Logger) *Generator {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Generator{fetcher: fetcher, log: log}
}

// Generate builds the catalog for req.
func (g *Generator) Generate(ctx context.Context, req Request) *Result {
	start := time.Now()
	log := g.log.With("api_name", req.APIName, "callback_mode", req.Policy.String())
	res := &Result{}

	// Phase 1: Fetch
	var docs []*source.Document
	if len(req.Sources) > 0 {
		var failed []*source.FetchError
		docs, failed = g.fetcher.FetchAll(ctx, req.Sources)
		for _, fe := range failed {
			res.Failures = append(res.Failures, SourceFailure{Source: fe.Source, Stage: StageFetch, Err: fe.Err})
		}
	}

	classifier := catalog.NewClassifier(req.Policy, log)

	// Phase 2: Extract and parse, in input order so the first declaration of
	// a name wins.
	for _, doc := range docs {
		p := parser.ForContentType(doc.ContentType, doc.Source)
		if !doc.Remote {
			p = parser.ForFile(doc.Source)
		}
		extracted, err := p.Parse(bytes.NewReader(doc.Data), doc.Source)
		if err != nil {
			if errors.Is(err, parser.ErrNoIDL) {
				log.Warn("no IDL found", "source", doc.Source)
			} else {
				log.Error("extract failed", "source", doc.Source, "error", err)
			}
			res.Failures = append(res.Failures, SourceFailure{Source: doc.Source, Stage: StageExtract, Err: err})
			continue
		}
		log.Debug("extracted IDL", "source", doc.Source, "title", extracted.Title, "blocks", len(extracted.Blocks))
		if g.addBlocks(classifier, res, doc.Source, extracted.Blocks, log) {
			res.Contributed++
		}
	}
	for _, in := range req.Inline {
		if g.addBlocks(classifier, res, in.Name, []string{in.IDL}, log) {
			res.Contributed++
		}
	}

	// Phase 3: Classify and render
	res.Buckets = classifier.Result()
	res.Diagnostics = classifier.Diagnostics()
	res.Output = catalog.Render(req.APIName, res.Buckets, req.Policy)

	log.Info("catalog generated",
		"interfaces", res.Buckets.Interfaces.Len(),
		"dictionaries", res.Buckets.Dictionaries.Len(),
		"types", res.Buckets.Types.Len(),
		"callbacks", res.Buckets.Callbacks.Len(),
		"skipped", len(res.Diagnostics),
		"contributed", res.Contributed,
		"failures", len(res.Failures),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return res
}

// addBlocks parses and classifies each block of one source. It reports
// whether the source was usable: no blocks at all, or at least one that parsed.
func (g *Generator) addBlocks(c *catalog.Classifier, res *Result, src string, blocks []string, log *slog.Logger) bool {
	parsed := 0
	for i, block := range blocks {
		decls, err := webidl.Parse(block)
		if err != nil {
			log.Error("parse failed", "source", src, "block", i, "error", err)
			res.Failures = append(res.Failures, SourceFailure{Source: src, Stage: StageParse, Err: err})
			continue
		}
		c.Add(src, decls)
		parsed++
	}
	return len(blocks) == 0 || parsed > 0
}
