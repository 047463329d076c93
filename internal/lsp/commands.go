package lsp

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/mehmetkoksal-w/velo-assist/internal/naming"
	"github.com/mehmetkoksal-w/velo-assist/internal/prompt"
	"github.com/mehmetkoksal-w/velo-assist/internal/scaffold"
)

// Scaffolding commands accepted by workspace/executeCommand.
const (
	CommandNewNotifier          = "velo.newNotifier"
	CommandNewState             = "velo.newState"
	CommandNewNotifierWithState = "velo.newNotifierWithState"
	CommandNewTest              = "velo.newTest"
)

// Commands lists the commands advertised in the initialize result.
func Commands() []string {
	return []string{CommandNewNotifier, CommandNewState, CommandNewNotifierWithState, CommandNewTest}
}

// CommandArgs is the single argument object of a scaffolding command.
type CommandArgs struct {
	Directory  string   `json:"directory,omitempty"`
	ActiveFile string   `json:"activeFile,omitempty"`
	Name       string   `json:"name"`
	Properties []string `json:"properties,omitempty"`
	Overwrite  bool     `json:"overwrite,omitempty"`
}

// CommandResult is returned by scaffolding commands. OpenURI addresses the
// file the client should show.
type CommandResult struct {
	scaffold.Result
	OpenURI string `json:"openUri,omitempty"`
}

type scaffoldFunc func(*scaffold.Scaffolder, context.Context, scaffold.Target) (*scaffold.Result, error)

var scaffoldCommands = map[string]scaffoldFunc{
	CommandNewNotifier:          (*scaffold.Scaffolder).NewNotifier,
	CommandNewState:             (*scaffold.Scaffolder).NewState,
	CommandNewNotifierWithState: (*scaffold.Scaffolder).NewNotifierWithState,
	CommandNewTest:              (*scaffold.Scaffolder).NewTest,
}

// handleExecuteCommand handles workspace/executeCommand request.
func (s *Server) handleExecuteCommand(req Request) *Response {
	var params ExecuteCommandParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, ErrCodeInvalidParams, "Invalid params", err.Error())
	}

	run, ok := scaffoldCommands[params.Command]
	if !ok {
		return s.errorResponse(req.ID, ErrCodeInvalidParams, "Unknown command", params.Command)
	}

	var args CommandArgs
	if len(params.Arguments) > 0 {
		if err := json.Unmarshal(params.Arguments[0], &args); err != nil {
			return s.errorResponse(req.ID, ErrCodeInvalidParams, "Invalid arguments", err.Error())
		}
	}

	answers := &prompt.Answers{Name: args.Name, Properties: args.Properties, Overwrite: args.Overwrite}
	sc := scaffold.New(s.fs, answers, s.cfg, s.logger)
	target := scaffold.Target{
		Directory:     documentPath(args.Directory),
		ActiveFile:    documentPath(args.ActiveFile),
		WorkspaceRoot: s.rootPath(),
	}

	res, err := run(sc, context.Background(), target)
	if err != nil {
		s.logger.Info("command failed", zap.String("command", params.Command), zap.Error(err))
		return s.commandError(req.ID, err)
	}
	s.logger.Info("command completed", zap.String("command", params.Command), zap.Strings("files", res.Files))
	result := &CommandResult{Result: *res}
	if res.Open != "" {
		result.OpenURI = pathToURI(res.Open)
	}
	return s.successResponse(req.ID, result)
}

func (s *Server) commandError(id any, err error) *Response {
	var verr *prompt.ValidationError
	switch {
	case errors.As(err, &verr):
		return s.errorResponse(id, ErrCodeInvalidParams, verr.Error(), verr.Field)
	case errors.Is(err, naming.ErrNoTargetDirectory):
		return s.errorResponse(id, ErrCodeInvalidParams, err.Error(), nil)
	case errors.Is(err, scaffold.ErrCancelled):
		return s.errorResponse(id, ErrCodeRequestCancelled, "Cancelled", nil)
	}
	return s.errorResponse(id, ErrCodeInternalError, err.Error(), nil)
}

// documentPath accepts either a file URI or a plain path.
func documentPath(s string) string {
	if !strings.HasPrefix(s, "file://") {
		return s
	}
	return uriToPath(s)
}
