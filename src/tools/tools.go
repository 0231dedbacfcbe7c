// Package tools registers every built-in tool on a surface. Each tool
// lives in its own package with a Definition and a Handler constructor;
// this file is the single place the full set is assembled.
package tools

import (
	"github.com/CheYu0410/Bailu-Cli/src/bailucore"
	"github.com/CheYu0410/Bailu-Cli/src/fs"
	"github.com/CheYu0410/Bailu-Cli/src/shell"
	tool_applydiff "github.com/CheYu0410/Bailu-Cli/src/tools/tool_applydiff"
	tool_copyfile "github.com/CheYu0410/Bailu-Cli/src/tools/tool_copyfile"
	tool_createdir "github.com/CheYu0410/Bailu-Cli/src/tools/tool_createdir"
	tool_deletefile "github.com/CheYu0410/Bailu-Cli/src/tools/tool_deletefile"
	tool_getfileinfo "github.com/CheYu0410/Bailu-Cli/src/tools/tool_getfileinfo"
	tool_grepfiles "github.com/CheYu0410/Bailu-Cli/src/tools/tool_grepfiles"
	tool_listdir "github.com/CheYu0410/Bailu-Cli/src/tools/tool_listdir"
	tool_movefile "github.com/CheYu0410/Bailu-Cli/src/tools/tool_movefile"
	tool_readfile "github.com/CheYu0410/Bailu-Cli/src/tools/tool_readfile"
	tool_runcommand "github.com/CheYu0410/Bailu-Cli/src/tools/tool_runcommand"
	tool_searchfiles "github.com/CheYu0410/Bailu-Cli/src/tools/tool_searchfiles"
	tool_webfetch "github.com/CheYu0410/Bailu-Cli/src/tools/tool_webfetch"
	tool_writefile "github.com/CheYu0410/Bailu-Cli/src/tools/tool_writefile"
	"github.com/CheYu0410/Bailu-Cli/src/toolsurface"
)

// Tool name constants, re-exported from the individual packages.
const (
	ReadFileName        = tool_readfile.Name
	ListDirectoryName   = tool_listdir.Name
	WriteFileName       = tool_writefile.Name
	ApplyDiffName       = tool_applydiff.Name
	RunCommandName      = tool_runcommand.Name
	DeleteFileName      = tool_deletefile.Name
	CopyFileName        = tool_copyfile.Name
	MoveFileName        = tool_movefile.Name
	CreateDirectoryName = tool_createdir.Name
	GetFileInfoName     = tool_getfileinfo.Name
	SearchFilesName     = tool_searchfiles.Name
	GrepFilesName       = tool_grepfiles.Name
	WebFetchName        = tool_webfetch.Name
)

// Options selects which optional tool groups get registered.
type Options struct {
	// EnableWebFetch registers the network-facing web_fetch tool.
	EnableWebFetch bool
	// Disabled drops individual tools by name.
	Disabled []string
}

// RegisterAll wires every built-in tool onto the surface, bound to the
// given workspace and command runner.
func RegisterAll(s *toolsurface.Surface, ws *fs.Workspace, runner *shell.Runner, opts Options) error {
	entries := []struct {
		def     bailucore.ToolDefinition
		handler toolsurface.Handler
	}{
		{tool_readfile.Definition(), tool_readfile.Handler(ws)},
		{tool_listdir.Definition(), tool_listdir.Handler(ws)},
		{tool_writefile.Definition(), tool_writefile.Handler(ws)},
		{tool_applydiff.Definition(), tool_applydiff.Handler(ws)},
		{tool_runcommand.Definition(), tool_runcommand.Handler(ws, runner)},
		{tool_deletefile.Definition(), tool_deletefile.Handler(ws)},
		{tool_copyfile.Definition(), tool_copyfile.Handler(ws)},
		{tool_movefile.Definition(), tool_movefile.Handler(ws)},
		{tool_createdir.Definition(), tool_createdir.Handler(ws)},
		{tool_getfileinfo.Definition(), tool_getfileinfo.Handler(ws)},
		{tool_searchfiles.Definition(), tool_searchfiles.Handler(ws)},
		{tool_grepfiles.Definition(), tool_grepfiles.Handler(ws)},
	}
	if opts.EnableWebFetch {
		entries = append(entries, struct {
			def     bailucore.ToolDefinition
			handler toolsurface.Handler
		}{tool_webfetch.Definition(), tool_webfetch.Handler()})
	}

	disabled := make(map[string]bool, len(opts.Disabled))
	for _, name := range opts.Disabled {
		disabled[name] = true
	}

	for _, e := range entries {
		if disabled[e.def.Name] {
			continue
		}
		if err := s.Register(e.def, e.handler); err != nil {
			return err
		}
	}
	return nil
}
