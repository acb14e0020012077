package scan

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/notransitive/pkg/core"
	"github.com/leapstack-labs/notransitive/pkg/lint"
	"github.com/leapstack-labs/notransitive/pkg/php"
)

// Options configures a scan.
type Options struct {
	Root    string   // project root; paths and diagnostics are relative to it
	Paths   []string // files or directories to scan; defaults to the root
	Exclude []string // doublestar patterns matched against root-relative paths
	Workers int      // parallel parsers; defaults to GOMAXPROCS
}

func (o Options) withDefaults() Options {
	if o.Root == "" {
		o.Root = "."
	}
	if len(o.Paths) == 0 {
		o.Paths = []string{"."}
	}
	if o.Workers <= 0 {
		o.Workers = runtime.GOMAXPROCS(0)
	}
	return o
}

// FileResult holds the diagnostics for one file.
type FileResult struct {
	Path        string
	Diagnostics []lint.Diagnostic
	HasErrors   bool // the parser recovered from syntax errors
}

// FileError represents a non-fatal error for one file.
type FileError struct {
	Path    string
	Message string
}

// Result contains the outcome of a scan.
type Result struct {
	Files    []FileResult
	Errors   []FileError
	Duration time.Duration
}

// Diagnostics returns all diagnostics in file order.
func (r *Result) Diagnostics() []lint.Diagnostic {
	var out []lint.Diagnostic
	for _, f := range r.Files {
		out = append(out, f.Diagnostics...)
	}
	return out
}

// Count returns the number of diagnostics per severity.
func (r *Result) Count() map[core.Severity]int {
	counts := make(map[core.Severity]int)
	for _, f := range r.Files {
		for _, d := range f.Diagnostics {
			counts[d.Severity]++
		}
	}
	return counts
}

// Summary returns a human-readable summary.
func (r *Result) Summary() string {
	return fmt.Sprintf("Files: %d scanned, %d diagnostics, %d errors | Duration: %s",
		len(r.Files), len(r.Diagnostics()), len(r.Errors), r.Duration.Round(time.Millisecond))
}

// Scanner parses files and runs the analyzer over them.
type Scanner struct {
	analyzer   *lint.Analyzer
	reflection lint.ReflectionProvider
	membership lint.MembershipClassifier
	logger     *slog.Logger
	parsers    sync.Pool
}

// New creates a scanner. reflection and membership are shared by all
// workers and must be safe for concurrent use.
func New(analyzer *lint.Analyzer, reflection lint.ReflectionProvider, membership lint.MembershipClassifier, logger *slog.Logger) *Scanner {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Scanner{
		analyzer:   analyzer,
		reflection: reflection,
		membership: membership,
		logger:     logger,
		parsers:    sync.Pool{New: func() any { return php.NewParser() }},
	}
}

// Scan discovers files per opts and analyzes them.
func (s *Scanner) Scan(ctx context.Context, opts Options) (*Result, error) {
	opts = opts.withDefaults()
	files, err := Discover(opts)
	if err != nil {
		return nil, err
	}
	return s.ScanFiles(ctx, opts, files)
}

// ScanFiles analyzes the given root-relative files. Unreadable files are
// recorded in Result.Errors; cancellation and a parser without CGO support
// abort the scan.
func (s *Scanner) ScanFiles(ctx context.Context, opts Options, files []string) (*Result, error) {
	opts = opts.withDefaults()
	start := time.Now()

	s.logger.Info("starting scan", "files", len(files), "workers", opts.Workers)

	results := make([]FileResult, len(files))
	fileErrs := make([]error, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)

	for i, rel := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := s.scanFile(gctx, opts.Root, rel)
			if errors.Is(err, php.ErrNoCGO) {
				return err
			}
			if err != nil {
				if ctxErr := gctx.Err(); ctxErr != nil {
					return ctxErr
				}
				fileErrs[i] = err
				return nil
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := &Result{}
	for i, rel := range files {
		if fileErrs[i] != nil {
			s.logger.Warn("skipping file", "path", rel, "error", fileErrs[i])
			result.Errors = append(result.Errors, FileError{Path: rel, Message: fileErrs[i].Error()})
			continue
		}
		result.Files = append(result.Files, results[i])
	}
	result.Duration = time.Since(start)

	s.logger.Info("scan completed",
		"files", len(result.Files),
		"diagnostics", len(result.Diagnostics()),
		"errors", len(result.Errors),
		"duration_ms", result.Duration.Milliseconds())

	return result, nil
}

func (s *Scanner) scanFile(ctx context.Context, root, rel string) (FileResult, error) {
	parser := s.parsers.Get().(*php.Parser)
	defer s.parsers.Put(parser)

	file, err := parser.ParseFile(ctx, filepath.Join(root, filepath.FromSlash(rel)))
	if err != nil {
		return FileResult{}, err
	}
	return s.analyze(file, rel), nil
}

// AnalyzeSource analyzes an in-memory document, such as an unsaved editor
// buffer. rel is used as the diagnostic file path.
func (s *Scanner) AnalyzeSource(ctx context.Context, rel string, source []byte) (FileResult, error) {
	parser := s.parsers.Get().(*php.Parser)
	defer s.parsers.Put(parser)

	file, err := parser.ParseSource(ctx, rel, source)
	if err != nil {
		return FileResult{}, err
	}
	return s.analyze(file, rel), nil
}

func (s *Scanner) analyze(file *php.File, rel string) FileResult {
	if file.HasErrors {
		s.logger.Debug("syntax errors recovered", "path", rel)
	}
	file.Path = rel

	scope := lint.Scope{
		File:       rel,
		Reflection: s.reflection,
		Membership: s.membership,
	}
	return FileResult{
		Path:        rel,
		Diagnostics: s.analyzer.AnalyzeFile(file, scope),
		HasErrors:   file.HasErrors,
	}
}
