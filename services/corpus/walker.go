package corpus

import (
	"iter"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// SessionRange is the inclusive range of parliamentary sessions a
// sweep covers. It is an explicit value handed to the Walker rather
// than a package-level constant so tests can use synthetic ranges.
type SessionRange struct {
	First int `json:"first"`
	Last  int `json:"last"`
}

// The sessions of the 2021 electoral term this corpus was built from.
var DefaultSessionRange = SessionRange{First: 126, Last: 146}

// Walker enumerates speech files under a root directory laid out as
// one numeric subdirectory per session.
type Walker struct {
	Root  string
	Range SessionRange
}

// Files yields speech file paths, sessions in ascending numeric order
// regardless of directory listing order, filenames sorted within a
// session. Sessions without a local directory are skipped, not every
// session is present on disk.
func (w Walker) Files() iter.Seq[string] {
	return func(yield func(string) bool) {
		for session := w.Range.First; session <= w.Range.Last; session++ {
			dir := filepath.Join(w.Root, strconv.Itoa(session))
			entries, err := os.ReadDir(dir)
			if os.IsNotExist(err) {
				continue
			}
			if err != nil {
				slog.Warn("skipping unreadable session directory", "dir", dir, "err", err)
				continue
			}

			// os.ReadDir returns entries sorted by filename, which is
			// chronological order for sNNNPPP-style names
			for _, entry := range entries {
				if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".txt") {
					continue
				}
				if !yield(filepath.Join(dir, entry.Name())) {
					return
				}
			}
		}
	}
}
