package corpus

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hazyhaar/pagecorpus/docpipe"
)

// ErrPersistence is returned when the corpus file cannot be written.
var ErrPersistence = errors.New("corpus: cannot persist corpus")

// WriteJSON writes records as one JSON array, overwriting path. Non-ASCII
// text is written as is, except U+2028 and U+2029 which encoding/json always
// writes as \u2028 and \u2029 (they decode back to the same runes). The
// file is replaced atomically through a rename in the same directory:
// readers see the old corpus or the new one, and an existing read-only
// target is replaced as long as the directory is writable.
func WriteJSON(path string, records []docpipe.PageRecord) error {
	if records == nil {
		records = []docpipe.PageRecord{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("%w: encode: %v", ErrPersistence, err)
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	w := bufio.NewWriter(tmp)
	if _, err := buf.WriteTo(w); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: write %s: %v", ErrPersistence, path, err)
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: write %s: %v", ErrPersistence, path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: close %s: %v", ErrPersistence, path, err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		return fmt.Errorf("%w: chmod %s: %v", ErrPersistence, path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("%w: rename to %s: %v", ErrPersistence, path, err)
	}
	return nil
}

// ReadJSON loads a corpus written by WriteJSON.
func ReadJSON(path string) ([]docpipe.PageRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("corpus: read %s: %w", path, err)
	}
	var records []docpipe.PageRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("corpus: parse %s: %w", path, err)
	}
	return records, nil
}
