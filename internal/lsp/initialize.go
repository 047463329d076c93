package lsp

import (
	"encoding/json"

	"go.uber.org/zap"

	"github.com/mehmetkoksal-w/velo-assist/internal/config"
)

// ServerName is reported in serverInfo and used as the diagnostic provider id.
const ServerName = "velo-lsp"

// handleInitialize handles the initialize request.
func (s *Server) handleInitialize(req Request) *Response {
	var params InitializeParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, ErrCodeInvalidParams, "Invalid params", err.Error())
	}

	s.logger.Info("initialize",
		zap.String("rootUri", params.RootURI),
		zap.Int("processId", params.ProcessID))

	s.rootURI = params.RootURI
	if s.rootURI == "" && len(params.WorkspaceFolders) > 0 {
		s.rootURI = params.WorkspaceFolders[0].URI
	}
	if root := s.rootPath(); root != "" {
		cfg, err := config.Load(s.fs, root)
		if err != nil {
			s.logger.Warn("config ignored", zap.String("root", root), zap.Error(err))
		} else {
			s.SetConfig(cfg)
		}
	}

	result := InitializeResult{
		Capabilities: ServerCapabilities{
			TextDocumentSync: &TextDocumentSyncOptions{
				OpenClose: true,
				Change:    TextDocumentSyncKindFull,
				Save: &SaveOptions{
					IncludeText: false,
				},
			},
			HoverProvider: true,
			CodeActionProvider: &CodeActionOptions{
				CodeActionKinds: []CodeActionKind{
					CodeActionKindRefactor,
					CodeActionKindQuickFix,
				},
			},
			DocumentSymbolProvider: true,
			DiagnosticProvider: &DiagnosticOptions{
				Identifier:            DiagnosticSource,
				InterFileDependencies: false,
				WorkspaceDiagnostics:  false,
			},
			ExecuteCommandProvider: &ExecuteCommandOptions{
				Commands: Commands(),
			},
		},
		ServerInfo: &ServerInfo{
			Name:    ServerName,
			Version: s.version,
		},
	}

	return s.successResponse(req.ID, result)
}

// rootPath returns the workspace root as a file path, or "" when unknown.
func (s *Server) rootPath() string {
	if s.rootURI == "" {
		return ""
	}
	return uriToPath(s.rootURI)
}

// handleInitialized handles the initialized notification.
func (s *Server) handleInitialized(req Request) *Response {
	s.initialized = true
	s.logger.Info("server initialized")
	return nil
}

// handleShutdown handles the shutdown request.
func (s *Server) handleShutdown(req Request) *Response {
	s.logger.Info("shutdown requested")
	s.shutdown = true
	return s.successResponse(req.ID, nil)
}

// handleExit handles the exit notification.
func (s *Server) handleExit(req Request) *Response {
	s.logger.Info("exit requested")
	s.shutdown = true
	return nil
}
