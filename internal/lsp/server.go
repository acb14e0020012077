package lsp

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"sync"

	json "github.com/goccy/go-json"

	"github.com/leapstack-labs/notransitive/internal/scan"
	"github.com/leapstack-labs/notransitive/pkg/autoload"
	"github.com/leapstack-labs/notransitive/pkg/classify"
	"github.com/leapstack-labs/notransitive/pkg/lint"
	"github.com/leapstack-labs/notransitive/pkg/manifest"
)

// errExit ends the main loop after an exit notification.
var errExit = errors.New("exit requested")

// Server implements the Language Server Protocol for notransitive.
type Server struct {
	documents *DocumentStore

	// Project context
	defaultRoot string
	projectRoot string
	version     string
	lintConfig  *lint.Config
	scanner     *scan.Scanner
	initialized bool
	warnedCGO   bool

	// I/O
	reader  *bufio.Reader
	writer  io.Writer
	writeMu sync.Mutex

	logger *slog.Logger

	// Shutdown state
	shutdown   bool
	shutdownMu sync.RWMutex
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the server logger. Logs must not go to the protocol
// stream.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// WithLintConfig sets the rule configuration used for every document.
func WithLintConfig(cfg *lint.Config) Option {
	return func(s *Server) { s.lintConfig = cfg }
}

// WithRoot sets the project root used when the client sends none.
func WithRoot(root string) Option {
	return func(s *Server) { s.defaultRoot = root }
}

// WithVersion sets the version reported in serverInfo.
func WithVersion(version string) Option {
	return func(s *Server) { s.version = version }
}

// NewServer creates a new LSP server instance.
func NewServer(reader io.Reader, writer io.Writer, opts ...Option) *Server {
	s := &Server{
		documents: NewDocumentStore(),
		reader:    bufio.NewReader(reader),
		writer:    writer,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.New(slog.DiscardHandler)
	}
	if s.lintConfig == nil {
		s.lintConfig = lint.NewConfig()
	}
	return s
}

// Run processes JSON-RPC messages until the client disconnects, sends
// exit, or ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	s.logger.Info("notransitive LSP server starting")

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		msg, err := s.readMessage()
		if err != nil {
			if errors.Is(err, io.EOF) {
				s.logger.Info("client disconnected")
				return nil
			}
			s.logger.Error("error reading message", "error", err)
			continue
		}

		if err := s.handleMessage(ctx, msg); err != nil {
			if errors.Is(err, errExit) {
				return nil
			}
			s.logger.Error("error handling message", "method", msg.Method, "error", err)
		}
	}
}

// JSONRPCMessage represents a JSON-RPC 2.0 message.
type JSONRPCMessage struct {
	JSONRPC string           `json:"jsonrpc"`
	ID      *json.RawMessage `json:"id,omitempty"`
	Method  string           `json:"method,omitempty"`
	Params  json.RawMessage  `json:"params,omitempty"`
	Result  json.RawMessage  `json:"result,omitempty"`
	Error   *JSONRPCError    `json:"error,omitempty"`
}

// JSONRPCError represents a JSON-RPC error.
type JSONRPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// JSON-RPC error codes.
const (
	codeInvalidParams        = -32602
	codeMethodNotFound       = -32601
	codeServerNotInitialized = -32002
	codeInvalidRequest       = -32600
)

// readMessage reads a Content-Length framed message from the input stream.
func (s *Server) readMessage() (*JSONRPCMessage, error) {
	var contentLength int
	for {
		line, err := s.reader.ReadString('\n')
		if err != nil {
			return nil, err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			break
		}

		if name, value, ok := strings.Cut(line, ":"); ok && strings.EqualFold(name, "Content-Length") {
			contentLength, err = strconv.Atoi(strings.TrimSpace(value))
			if err != nil {
				return nil, fmt.Errorf("invalid Content-Length: %w", err)
			}
		}
	}

	if contentLength <= 0 {
		return nil, errors.New("missing Content-Length header")
	}

	body := make([]byte, contentLength)
	if _, err := io.ReadFull(s.reader, body); err != nil {
		return nil, fmt.Errorf("error reading body: %w", err)
	}

	var msg JSONRPCMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		return nil, fmt.Errorf("error parsing message: %w", err)
	}

	return &msg, nil
}

// sendResponse sends a JSON-RPC response.
func (s *Server) sendResponse(id *json.RawMessage, result any, rpcErr *JSONRPCError) {
	msg := JSONRPCMessage{
		JSONRPC: "2.0",
		ID:      id,
	}

	if rpcErr != nil {
		msg.Error = rpcErr
	} else {
		resultBytes, err := json.Marshal(result)
		if err != nil {
			s.logger.Error("error marshaling result", "error", err)
			return
		}
		msg.Result = resultBytes
	}

	s.writeMessage(&msg)
}

// sendNotification sends a JSON-RPC notification (no ID).
func (s *Server) sendNotification(method string, params any) {
	msg := JSONRPCMessage{
		JSONRPC: "2.0",
		Method:  method,
	}

	if params != nil {
		paramsBytes, err := json.Marshal(params)
		if err != nil {
			s.logger.Error("error marshaling params", "method", method, "error", err)
			return
		}
		msg.Params = paramsBytes
	}

	s.writeMessage(&msg)
}

// writeMessage writes a JSON-RPC message to the output stream.
func (s *Server) writeMessage(msg *JSONRPCMessage) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	body, err := json.Marshal(msg)
	if err != nil {
		s.logger.Error("error marshaling message", "error", err)
		return
	}

	if _, err := fmt.Fprintf(s.writer, "Content-Length: %d\r\n\r\n", len(body)); err != nil {
		s.logger.Error("error writing header", "error", err)
		return
	}
	if _, err := s.writer.Write(body); err != nil {
		s.logger.Error("error writing body", "error", err)
	}
}

// handleMessage dispatches a message to the appropriate handler.
func (s *Server) handleMessage(ctx context.Context, msg *JSONRPCMessage) error {
	s.logger.Debug("received", "method", msg.Method)

	if s.isShutdown() && msg.Method != "exit" {
		if msg.ID != nil {
			s.sendResponse(msg.ID, nil, &JSONRPCError{Code: codeInvalidRequest, Message: "server is shutting down"})
		}
		return nil
	}

	if s.scanner == nil && msg.Method != "initialize" && msg.Method != "exit" {
		if msg.ID != nil {
			s.sendResponse(msg.ID, nil, &JSONRPCError{Code: codeServerNotInitialized, Message: "server not initialized"})
		}
		return nil
	}

	switch msg.Method {
	case "initialize":
		return s.handleInitialize(msg)
	case "initialized":
		return s.handleInitialized(msg)
	case "shutdown":
		return s.handleShutdown(msg)
	case "exit":
		return s.handleExit(msg)
	case "textDocument/didOpen":
		return s.handleDidOpen(ctx, msg)
	case "textDocument/didClose":
		return s.handleDidClose(msg)
	case "textDocument/didChange":
		return s.handleDidChange(ctx, msg)
	case "textDocument/didSave":
		return s.handleDidSave(ctx, msg)
	default:
		if msg.ID != nil {
			s.sendResponse(msg.ID, nil, &JSONRPCError{
				Code:    codeMethodNotFound,
				Message: "Method not found: " + msg.Method,
			})
		}
		return nil
	}
}

func (s *Server) isShutdown() bool {
	s.shutdownMu.RLock()
	defer s.shutdownMu.RUnlock()
	return s.shutdown
}

// --- Lifecycle handlers ---

func (s *Server) handleInitialize(msg *JSONRPCMessage) error {
	var params InitializeParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		s.sendResponse(msg.ID, nil, &JSONRPCError{Code: codeInvalidParams, Message: err.Error()})
		return err
	}

	s.projectRoot = s.resolveRoot(params)
	s.logger.Info("project root", "path", s.projectRoot)
	s.loadProject()

	result := InitializeResult{
		Capabilities: ServerCapabilities{
			TextDocumentSync: &TextDocumentSyncOptions{
				OpenClose: true,
				Change:    TextDocumentSyncKindFull,
				Save: &SaveOptions{
					IncludeText: true,
				},
			},
		},
		ServerInfo: &ServerInfo{Name: "notransitive", Version: s.version},
	}

	s.sendResponse(msg.ID, result, nil)
	return nil
}

// resolveRoot picks the client's root URI, then its first workspace folder,
// then the configured default, then the working directory.
func (s *Server) resolveRoot(params InitializeParams) string {
	switch {
	case params.RootURI != "":
		return URIToPath(params.RootURI)
	case len(params.WorkspaceFolders) > 0:
		return URIToPath(params.WorkspaceFolders[0].URI)
	case s.defaultRoot != "":
		return s.defaultRoot
	}
	if cwd, err := os.Getwd(); err == nil {
		return cwd
	}
	return "."
}

// loadProject builds the scanner from the Composer metadata under the
// project root. It is called again when that metadata is saved.
func (s *Server) loadProject() {
	classifier := classify.New(manifest.PathIn(s.projectRoot), classify.WithLogger(s.logger))
	index := autoload.Load(s.projectRoot, autoload.WithLogger(s.logger))
	s.scanner = scan.New(lint.NewAnalyzer(s.lintConfig), index, classifier, s.logger)
}

func (s *Server) handleInitialized(_ *JSONRPCMessage) error {
	s.initialized = true
	s.logger.Info("server initialized")

	if _, err := os.Stat(manifest.PathIn(s.projectRoot)); err != nil {
		s.sendNotification("window/showMessage", &ShowMessageParams{
			Type:    MessageTypeWarning,
			Message: "composer.json not found in " + s.projectRoot + "; no transitive dependencies will be reported.",
		})
	}
	return nil
}

func (s *Server) handleShutdown(msg *JSONRPCMessage) error {
	s.shutdownMu.Lock()
	s.shutdown = true
	s.shutdownMu.Unlock()

	s.sendResponse(msg.ID, nil, nil)
	s.logger.Info("server shutdown")
	return nil
}

func (s *Server) handleExit(_ *JSONRPCMessage) error {
	s.logger.Info("server exit")
	return errExit
}

// --- Document handlers ---

func (s *Server) handleDidOpen(ctx context.Context, msg *JSONRPCMessage) error {
	var params DidOpenTextDocumentParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return err
	}

	s.documents.Open(params.TextDocument.URI, params.TextDocument.Text, params.TextDocument.Version)
	s.logger.Debug("opened", "uri", params.TextDocument.URI)

	s.publishDiagnostics(ctx, params.TextDocument.URI)
	return nil
}

func (s *Server) handleDidClose(msg *JSONRPCMessage) error {
	var params DidCloseTextDocumentParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return err
	}

	s.documents.Close(params.TextDocument.URI)
	s.logger.Debug("closed", "uri", params.TextDocument.URI)

	s.sendNotification("textDocument/publishDiagnostics", &PublishDiagnosticsParams{
		URI:         params.TextDocument.URI,
		Diagnostics: []Diagnostic{},
	})
	return nil
}

func (s *Server) handleDidChange(ctx context.Context, msg *JSONRPCMessage) error {
	var params DidChangeTextDocumentParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return err
	}

	// Full sync: the last change carries the whole document.
	if len(params.ContentChanges) > 0 {
		lastChange := params.ContentChanges[len(params.ContentChanges)-1]
		s.documents.Update(params.TextDocument.URI, lastChange.Text, params.TextDocument.Version)
	}

	s.publishDiagnostics(ctx, params.TextDocument.URI)
	return nil
}

func (s *Server) handleDidSave(ctx context.Context, msg *JSONRPCMessage) error {
	var params DidSaveTextDocumentParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return err
	}

	uri := params.TextDocument.URI
	path := URIToPath(uri)
	s.logger.Debug("saved", "path", path)

	if isComposerMetadata(path) {
		s.logger.Info("composer metadata changed, reloading", "path", path)
		s.loadProject()
		for _, open := range s.documents.List() {
			s.publishDiagnostics(ctx, open)
		}
		return nil
	}

	if doc := s.documents.Get(uri); doc != nil && params.Text != "" {
		s.documents.Update(uri, params.Text, doc.Version)
	}
	s.publishDiagnostics(ctx, uri)
	return nil
}
