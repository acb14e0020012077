//go:build cgo

package lsp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/notransitive/internal/testutil"
	"github.com/leapstack-labs/notransitive/pkg/core"
	"github.com/leapstack-labs/notransitive/pkg/lint"
	_ "github.com/leapstack-labs/notransitive/pkg/lint/rules"
	"github.com/leapstack-labs/notransitive/pkg/lint/rules/transitive"
)

const handlerSource = `<?php
namespace App;

use Foo\Bar\ClassA;
use Other\Package\ClassB;

class Handler {}
`

func openParams(uri, text string, version int) map[string]any {
	return map[string]any{"textDocument": map[string]any{
		"uri": uri, "languageId": "php", "version": version, "text": text,
	}}
}

func TestServer_PublishesTransitiveDiagnostics(t *testing.T) {
	p := testutil.StandardFixture(t)
	uri := PathToURI(p.Root + "/src/App/Handler.php")

	msgs := newSession(t).initialize(p.Root).
		notify("textDocument/didOpen", openParams(uri, handlerSource, 1)).
		run()

	pubs := published(t, msgs)
	require.Len(t, pubs, 1)
	assert.Equal(t, uri, pubs[0].URI)
	require.Len(t, pubs[0].Diagnostics, 1)

	d := pubs[0].Diagnostics[0]
	assert.Equal(t, transitive.RuleID, d.Code)
	assert.Equal(t, DiagnosticSeverityError, d.Severity)
	assert.Equal(t, diagnosticSource, d.Source)
	assert.Contains(t, d.Message, `Using class Other\Package\ClassB (defined in `)
	assert.Equal(t, Position{Line: 4, Character: 4}, d.Range.Start)
}

func TestServer_DidChangeRepublishes(t *testing.T) {
	p := testutil.StandardFixture(t)
	uri := PathToURI(p.Root + "/src/App/Handler.php")

	msgs := newSession(t).initialize(p.Root).
		notify("textDocument/didOpen", openParams(uri, handlerSource, 1)).
		notify("textDocument/didChange", map[string]any{
			"textDocument":   map[string]any{"uri": uri, "version": 2},
			"contentChanges": []map[string]any{{"text": "<?php\nnamespace App;\n\nuse Foo\\Bar\\ClassA;\n"}},
		}).
		run()

	pubs := published(t, msgs)
	require.Len(t, pubs, 2)
	assert.Len(t, pubs[0].Diagnostics, 1)
	assert.Empty(t, pubs[1].Diagnostics)
	require.NotNil(t, pubs[1].Version)
	assert.Equal(t, 2, *pubs[1].Version)
}

func TestServer_ManifestSaveReloads(t *testing.T) {
	p := testutil.StandardFixture(t)
	uri := PathToURI(p.Root + "/src/App/Handler.php")

	s := newSession(t).initialize(p.Root).
		notify("textDocument/didOpen", openParams(uri, handlerSource, 1))

	// Declare other/package directly once the first diagnostics are out,
	// then tell the server.
	s.then(func() {
		p.Composer(`{"require": {"foo/bar": "^1.0", "other/package": "^2.0"}}`)
	})
	s.notify("textDocument/didSave", map[string]any{
		"textDocument": map[string]any{"uri": PathToURI(p.Root + "/composer.json")},
	})

	pubs := published(t, s.run())
	require.Len(t, pubs, 2)
	assert.Len(t, pubs[0].Diagnostics, 1)
	assert.Equal(t, uri, pubs[1].URI)
	assert.Empty(t, pubs[1].Diagnostics)
}

func TestServer_LintConfigApplies(t *testing.T) {
	p := testutil.StandardFixture(t)
	uri := PathToURI(p.Root + "/src/App/Handler.php")

	t.Run("severity override", func(t *testing.T) {
		cfg := lint.NewConfig().SetSeverity(transitive.RuleID, core.SeverityHint)
		pubs := published(t, newSession(t).initialize(p.Root).
			notify("textDocument/didOpen", openParams(uri, handlerSource, 1)).
			run(WithLintConfig(cfg)))

		require.Len(t, pubs, 1)
		require.Len(t, pubs[0].Diagnostics, 1)
		assert.Equal(t, DiagnosticSeverityHint, pubs[0].Diagnostics[0].Severity)
	})

	t.Run("disabled", func(t *testing.T) {
		cfg := lint.NewConfig().Disable(transitive.RuleID)
		pubs := published(t, newSession(t).initialize(p.Root).
			notify("textDocument/didOpen", openParams(uri, handlerSource, 1)).
			run(WithLintConfig(cfg)))

		require.Len(t, pubs, 1)
		assert.Empty(t, pubs[0].Diagnostics)
	})
}
