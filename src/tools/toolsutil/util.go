// Package toolsutil carries the small shared pieces every tool handler
// needs: a swappable package logger, parameter decoding, and text/size
// helpers. It is the one place a package-level mutable (the logger) is
// tolerated, so tool packages can log without threading a *slog.Logger
// through every constructor.
package toolsutil

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/CheYu0410/Bailu-Cli/src/bailucore"
)

var logger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
	Level: slog.LevelError,
}))

// SetLogger swaps the package logger all tools share.
func SetLogger(l *slog.Logger) {
	if l != nil {
		logger = l
	}
}

// GetLogger returns the current package logger.
func GetLogger() *slog.Logger {
	return logger
}

// MaxFileSize bounds what read_file/write_file will move in one call.
const MaxFileSize = 10 << 20

// DecodeParams maps an already-validated parameter map onto a typed
// input struct via a JSON round-trip, so each tool declares its inputs
// once as a struct with json tags.
func DecodeParams(params map[string]any, out any) error {
	data, err := json.Marshal(params)
	if err != nil {
		return fmt.Errorf("failed to encode parameters: %w", err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode parameters: %w", err)
	}
	return nil
}

// ClassifyFSError folds an OS error into the stable error taxonomy,
// passing through errors that already carry a code (path violations).
func ClassifyFSError(path string, err error) error {
	var ce *bailucore.CoreError
	if errors.As(err, &ce) {
		return err
	}
	switch {
	case os.IsNotExist(err):
		return bailucore.WrapError(bailucore.CodeNotFound, path, err)
	case os.IsPermission(err):
		return bailucore.WrapError(bailucore.CodePermissionDenied, path, err)
	default:
		return bailucore.WrapError(bailucore.CodeFSFault, path, err)
	}
}

// ValidateFileSize rejects payloads over MaxFileSize.
func ValidateFileSize(size int64) error {
	if size > MaxFileSize {
		return fmt.Errorf("file too large: %d bytes (limit %d)", size, MaxFileSize)
	}
	return nil
}

// IsTextContent reports whether data looks like text: valid UTF-8 with
// no NUL byte in the first 8KB.
func IsTextContent(data []byte) bool {
	probe := data
	if len(probe) > 8192 {
		// Cut on a rune boundary so a character split by the probe
		// limit does not read as invalid UTF-8.
		cut := 8192
		for cut > 0 && !utf8.RuneStart(data[cut]) {
			cut--
		}
		probe = probe[:cut]
	}
	for _, b := range probe {
		if b == 0 {
			return false
		}
	}
	return utf8.Valid(probe)
}

// CountLines counts newline-terminated lines the way an editor gutter
// would: a trailing partial line still counts.
func CountLines(data []byte) int {
	if len(data) == 0 {
		return 0
	}
	n := 0
	for _, b := range data {
		if b == '\n' {
			n++
		}
	}
	if data[len(data)-1] != '\n' {
		n++
	}
	return n
}

// FormatSize renders a byte count for humans.
func FormatSize(size int64) string {
	switch {
	case size >= 1<<30:
		return fmt.Sprintf("%.1f GB", float64(size)/(1<<30))
	case size >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(size)/(1<<20))
	case size >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(size)/(1<<10))
	default:
		return fmt.Sprintf("%d B", size)
	}
}

// DetectLanguage guesses a language name from the file extension, for
// terminal highlighting hints only.
func DetectLanguage(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".go":
		return "go"
	case ".js", ".mjs":
		return "javascript"
	case ".ts", ".tsx":
		return "typescript"
	case ".py":
		return "python"
	case ".rs":
		return "rust"
	case ".c", ".h":
		return "c"
	case ".cpp", ".cc", ".hpp":
		return "cpp"
	case ".java":
		return "java"
	case ".rb":
		return "ruby"
	case ".sh", ".bash":
		return "bash"
	case ".sql":
		return "sql"
	case ".json":
		return "json"
	case ".yaml", ".yml":
		return "yaml"
	case ".toml":
		return "toml"
	case ".md":
		return "markdown"
	case ".html", ".htm":
		return "html"
	case ".css":
		return "css"
	case ".xml":
		return "xml"
	default:
		return ""
	}
}

// Truncate cuts s to at most max bytes on a rune boundary, appending a
// notice when something was dropped.
func Truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + fmt.Sprintf("\n... (truncated, %d bytes omitted)", len(s)-cut)
}
