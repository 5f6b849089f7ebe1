package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"cuelang.org/go/cue/token"

	"github.com/roach88/allfiledmap/internal/compiler"
	"github.com/roach88/allfiledmap/internal/dictionary"
	"github.com/roach88/allfiledmap/internal/store"
)

// Error code constants - unified across all CLI commands.
// Definition validation codes (E2xx) come from the compiler package.
const (
	ErrCodeGeneric           = "E001" // Generic/unknown error
	ErrCodeNotFound          = "E005" // Path not found
	ErrCodeBuildFailed       = "E006" // Definition failed to compile or build
	ErrCodeWriteFailed       = "E007" // Snapshot write error
	ErrCodeStore             = "E008" // Snapshot database error
	ErrCodeInvalidIdentifier = "E009" // Malformed XDI identifier
	ErrCodeInvalidArgument   = "E010" // Identifier has the wrong shape for the operation
	ErrCodeLocked            = "E011" // Another writer holds the database lock
	ErrCodeNoMapping         = "E012" // Dictionary holds no mapping
	ErrCodeUsage             = "E013" // Missing or conflicting flags
)

// SnapshotLatest selects the most recent snapshot with --snapshot.
const SnapshotLatest = "latest"

// LoadError represents an error that occurred while loading a definition.
type LoadError struct {
	Code    string
	Message string
	Pos     token.Pos // CUE position if available
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IndexSource describes where a loaded index came from.
type IndexSource struct {
	Kind       string `json:"kind"` // "bundled" | "definition" | "snapshot"
	Path       string `json:"path,omitempty"`
	SnapshotID string `json:"snapshot_id,omitempty"`
	Version    string `json:"version"`
}

// LoadDefinition reads and compiles a CUE definition file.
func LoadDefinition(path string) (*compiler.Definition, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("definition not found: %s", path)}
	}

	def, err := compiler.LoadFile(path)
	if err != nil {
		return nil, convertCompileError(err)
	}
	return def, nil
}

// LoadIndex resolves the index selected by opts:
// --snapshot (with --db) first, then --definition, then the bundled one.
func LoadIndex(ctx context.Context, opts *RootOptions) (*dictionary.Index, IndexSource, error) {
	switch {
	case opts.Snapshot != "":
		return loadSnapshotIndex(ctx, opts.DB, opts.Snapshot)

	case opts.Definition != "":
		def, err := LoadDefinition(opts.Definition)
		if err != nil {
			return nil, IndexSource{}, err
		}
		ix, err := buildIndex(def)
		if err != nil {
			return nil, IndexSource{}, err
		}
		return ix, IndexSource{Kind: "definition", Path: opts.Definition, Version: ix.Version()}, nil

	default:
		ix, err := dictionary.Default()
		if err != nil {
			return nil, IndexSource{}, &LoadError{Code: ErrCodeBuildFailed, Message: err.Error()}
		}
		return ix, IndexSource{Kind: "bundled", Version: ix.Version()}, nil
	}
}

func loadSnapshotIndex(ctx context.Context, dbPath, id string) (*dictionary.Index, IndexSource, error) {
	if dbPath == "" {
		return nil, IndexSource{}, &LoadError{Code: ErrCodeUsage, Message: "--snapshot requires --db"}
	}

	st, err := openExistingStore(dbPath)
	if err != nil {
		return nil, IndexSource{}, err
	}
	defer st.Close()

	var snap store.Snapshot
	if id == SnapshotLatest {
		snap, err = st.LatestSnapshot(ctx)
	} else {
		snap, err = st.ReadSnapshot(ctx, id)
	}
	if errors.Is(err, store.ErrNotFound) {
		return nil, IndexSource{}, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("snapshot %s not found in %s", id, dbPath)}
	}
	if err != nil {
		return nil, IndexSource{}, &LoadError{Code: ErrCodeStore, Message: err.Error()}
	}

	def, err := snap.Definition()
	if err != nil {
		return nil, IndexSource{}, &LoadError{Code: ErrCodeStore, Message: err.Error()}
	}
	ix, err := buildIndex(def)
	if err != nil {
		return nil, IndexSource{}, err
	}
	return ix, IndexSource{Kind: "snapshot", Path: dbPath, SnapshotID: snap.ID, Version: snap.Version}, nil
}

// openExistingStore opens dbPath without creating it.
func openExistingStore(dbPath string) (*store.Store, error) {
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("database not found: %s", dbPath)}
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeStore, Message: err.Error()}
	}
	return st, nil
}

func buildIndex(def *compiler.Definition) (*dictionary.Index, error) {
	ix, err := dictionary.Build(def)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeBuildFailed, Message: err.Error()}
	}
	return ix, nil
}

// convertCompileError converts a compiler error to a LoadError with position info.
func convertCompileError(err error) *LoadError {
	var compileErr *compiler.CompileError
	if errors.As(err, &compileErr) {
		return &LoadError{
			Code:    ErrCodeBuildFailed,
			Message: fmt.Sprintf("%s: %s", compileErr.Field, compileErr.Message),
			Pos:     compileErr.Pos,
		}
	}
	return &LoadError{Code: ErrCodeGeneric, Message: err.Error()}
}

// reportLoadError outputs a load error and returns a command-level ExitError.
func reportLoadError(f *OutputFormatter, err error) error {
	var loadErr *LoadError
	if errors.As(err, &loadErr) {
		msg := loadErr.Message
		if loadErr.Pos.IsValid() {
			msg = fmt.Sprintf("%s:%d:%d: %s", loadErr.Pos.Filename(), loadErr.Pos.Line(), loadErr.Pos.Column(), msg)
		}
		return f.Fail(ExitCommandError, loadErr.Code, msg)
	}
	return f.Fail(ExitCommandError, ErrCodeGeneric, err.Error())
}
