package lsp

import (
	"context"
	"errors"
	"path/filepath"
	"strings"

	"github.com/leapstack-labs/notransitive/pkg/core"
	"github.com/leapstack-labs/notransitive/pkg/lint"
	"github.com/leapstack-labs/notransitive/pkg/manifest"
	"github.com/leapstack-labs/notransitive/pkg/php"
	"github.com/leapstack-labs/notransitive/pkg/token"
)

// diagnosticSource is reported as the source of every published diagnostic.
const diagnosticSource = "notransitive"

// publishDiagnostics analyzes an open document and publishes the result.
// Non-PHP documents and files under a vendor directory get an empty list.
func (s *Server) publishDiagnostics(ctx context.Context, uri string) {
	doc := s.documents.Get(uri)
	if doc == nil {
		return
	}

	diagnostics := []Diagnostic{}
	rel := s.relativePath(URIToPath(uri))

	if isPHPDocument(uri) && !inVendor(rel) && s.scanner != nil {
		res, err := s.scanner.AnalyzeSource(ctx, rel, []byte(doc.Content))
		switch {
		case errors.Is(err, php.ErrNoCGO):
			if !s.warnedCGO {
				s.warnedCGO = true
				s.sendNotification("window/showMessage", &ShowMessageParams{
					Type:    MessageTypeError,
					Message: "notransitive was built without CGO; PHP files cannot be parsed.",
				})
			}
		case err != nil:
			s.logger.Warn("analysis failed", "uri", uri, "error", err)
		default:
			diagnostics = toLSPDiagnostics(doc, res.Diagnostics)
		}
	}

	version := doc.Version
	s.sendNotification("textDocument/publishDiagnostics", &PublishDiagnosticsParams{
		URI:         uri,
		Version:     &version,
		Diagnostics: diagnostics,
	})
}

// toLSPDiagnostics converts lint diagnostics to LSP diagnostics.
func toLSPDiagnostics(doc *Document, diags []lint.Diagnostic) []Diagnostic {
	result := make([]Diagnostic, 0, len(diags))
	for _, d := range diags {
		start := toLSPPosition(doc, d.Pos)
		end := start
		if d.EndPos.IsValid() {
			end = toLSPPosition(doc, d.EndPos)
		}
		result = append(result, Diagnostic{
			Range:    Range{Start: start, End: end},
			Severity: toLSPSeverity(d.Severity),
			Code:     d.RuleID,
			Source:   diagnosticSource,
			Message:  d.Message,
		})
	}
	return result
}

// toLSPPosition converts a 1-based byte position to a 0-based UTF-16 one.
// Positions without a byte offset fall back to line and column.
func toLSPPosition(doc *Document, pos token.Position) Position {
	if pos.Offset > 0 {
		return doc.OffsetToPosition(pos.Offset)
	}
	return Position{
		Line:      uint32(max(0, pos.Line-1)),   //nolint:gosec // G115: clamped non-negative
		Character: uint32(max(0, pos.Column-1)), //nolint:gosec // G115: clamped non-negative
	}
}

// toLSPSeverity maps lint severities onto LSP severities.
func toLSPSeverity(sev core.Severity) DiagnosticSeverity {
	switch sev {
	case core.SeverityError:
		return DiagnosticSeverityError
	case core.SeverityWarning:
		return DiagnosticSeverityWarning
	case core.SeverityInfo:
		return DiagnosticSeverityInformation
	default:
		return DiagnosticSeverityHint
	}
}

// relativePath returns path relative to the project root with forward
// slashes, or path unchanged when it lies outside the root.
func (s *Server) relativePath(path string) string {
	rel, err := filepath.Rel(s.projectRoot, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

func isPHPDocument(uri string) bool {
	return strings.EqualFold(filepath.Ext(uri), ".php")
}

func inVendor(rel string) bool {
	for _, part := range strings.Split(rel, "/") {
		if part == "vendor" {
			return true
		}
	}
	return false
}

// isComposerMetadata reports whether path is a file whose change alters
// dependency classification.
func isComposerMetadata(path string) bool {
	switch filepath.Base(path) {
	case manifest.FileName, "installed.json", "composer.lock":
		return true
	}
	return false
}
