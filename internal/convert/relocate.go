package convert

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// relocate moves the single artifact produced in tempDir to dest and removes
// tempDir. JSON sidecars never count as candidates. With more than one
// candidate the move is skipped and tempDir is deliberately left on disk so
// the ambiguous outputs stay inspectable; that case is a warning, not an
// error. Zero candidates means the conversion produced nothing usable and is
// reported as an ExecutionError.
func (c *Converter) relocate(tempDir, dest string) error {
	entries, err := os.ReadDir(tempDir)
	if err != nil {
		return fmt.Errorf("list temp output folder: %w", err)
	}
	candidates := make([]string, 0, len(entries))
	for _, e := range entries {
		if filepath.Ext(e.Name()) == ".json" {
			continue
		}
		candidates = append(candidates, filepath.Join(tempDir, e.Name()))
	}
	switch len(candidates) {
	case 0:
		_ = os.RemoveAll(tempDir)
		return &ExecutionError{Reason: "conversion produced no output file"}
	case 1:
		if err := moveFile(candidates[0], dest); err != nil {
			return fmt.Errorf("move output file: %w", err)
		}
		return os.RemoveAll(tempDir)
	default:
		c.Log.Warnf(
			"More than one output file found. Output file not written. The temporary directory %q will not be deleted",
			tempDir,
		)
		return nil
	}
}

// moveFile renames src to dest, falling back to copy+remove when the rename
// crosses filesystems.
func moveFile(src, dest string) error {
	if err := os.Rename(src, dest); err == nil {
		return nil
	}
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	return os.Remove(src)
}
