package output

import (
	"fmt"
	"os"
	"p6export/table"
	"path/filepath"

	"github.com/moby/sys/atomicwriter"
)

// ExportWriteError reports that an artifact could not be written. Any artifact
// previously at Path is left as it was.
type ExportWriteError struct {
	Table string
	Path  string
	Err   error
}

func (e *ExportWriteError) Error() string {
	return fmt.Sprintf("write %s to %s: %v", e.Table, e.Path, e.Err)
}

func (e *ExportWriteError) Unwrap() error {
	return e.Err
}

// ArtifactPath is dir/<table name><writer extension>.
func ArtifactPath(w Writer, dir string, name string) string {
	return filepath.Join(dir, name+w.Extension())
}

// WriteTable renders t into a scratch file and then replaces the artifact in
// dir atomically. Writers get a real path because SQLite and excelize both
// work on files.
func WriteTable(w Writer, dir string, t table.Table) (string, error) {
	path := ArtifactPath(w, dir, t.Name)
	fail := func(err error) (string, error) {
		return path, &ExportWriteError{Table: t.Name, Path: path, Err: err}
	}

	if _, err := os.Stat(dir); err != nil {
		return fail(err)
	}

	scratchDir, err := os.MkdirTemp("", "p6export-")
	if err != nil {
		return fail(fmt.Errorf("create scratch directory: %w", err))
	}
	defer os.RemoveAll(scratchDir)

	scratch := filepath.Join(scratchDir, filepath.Base(path))
	if err := w.Write(scratch, t); err != nil {
		return fail(err)
	}
	content, err := os.ReadFile(scratch)
	if err != nil {
		return fail(fmt.Errorf("read rendered %s: %w", t.Name, err))
	}
	if err := atomicwriter.WriteFile(path, content, 0o644); err != nil {
		return fail(err)
	}
	return path, nil
}
