//go:build !cgo

package php

import "context"

// Parser is a stub for non-CGO builds.
type Parser struct{}

// NewParser creates a stub parser.
func NewParser() *Parser {
	return &Parser{}
}

// ParseFile always returns ErrNoCGO.
func (p *Parser) ParseFile(_ context.Context, _ string) (*File, error) {
	return nil, ErrNoCGO
}

// ParseSource always returns ErrNoCGO.
func (p *Parser) ParseSource(_ context.Context, _ string, _ []byte) (*File, error) {
	return nil, ErrNoCGO
}
