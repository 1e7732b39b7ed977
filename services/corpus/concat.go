package corpus

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

type ConcatOptions struct {
	// glob matched against filenames, "*" when empty
	Pattern string
	// prepend a "FILE: <name>" header and a separator between files
	IncludeFilenames bool
	// separator emitted between files, defaults to a ruled line
	Separator string
}

var defaultSeparator = "\n" + strings.Repeat("=", 50) + "\n"

// Concatenate merges the speech files of one directory into a single
// output, dropping the File:/Anchor: bookkeeping fields but keeping
// Date: and Speaker: so the result stays usable as model input.
// Returns the number of files written.
func Concatenate(dir string, out io.Writer, opts ConcatOptions) (int, error) {
	pattern := opts.Pattern
	if pattern == "" {
		pattern = "*"
	}
	separator := opts.Separator
	if separator == "" {
		separator = defaultSeparator
	}

	info, err := os.Stat(dir)
	if err != nil {
		return 0, err
	}
	if !info.IsDir() {
		return 0, fmt.Errorf("%s is not a directory", dir)
	}

	paths, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		return 0, err
	}

	w := bufio.NewWriter(out)
	written := 0
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil || info.IsDir() {
			continue
		}
		content, err := os.ReadFile(path)
		if err != nil {
			slog.Warn("skipping unreadable file", "path", path, "err", err)
			continue
		}

		if opts.IncludeFilenames {
			if written > 0 {
				w.WriteString(separator)
			}
			fmt.Fprintf(w, "FILE: %s\n\n", filepath.Base(path))
		}

		filtered := filterMetadata(string(content))
		w.WriteString(filtered)
		if !strings.HasSuffix(filtered, "\n") {
			w.WriteString("\n")
		}
		written++
	}

	return written, w.Flush()
}

// drops File:/Anchor: lines and the Speech: separator from a record
// header, keeps Date: and Speaker:, and leaves the body untouched
func filterMetadata(content string) string {
	lines := strings.Split(content, "\n")
	var kept []string
	inMetadata := true

	for _, line := range lines {
		if !inMetadata {
			kept = append(kept, line)
			continue
		}
		switch {
		case strings.HasPrefix(line, "File: ") || strings.HasPrefix(line, "Anchor: "):
		case strings.HasPrefix(line, "Date: ") || strings.HasPrefix(line, "Speaker: "):
			kept = append(kept, line)
		case strings.TrimSpace(line) == "":
		case strings.HasPrefix(line, "Speech:"):
			inMetadata = false
			kept = append(kept, "")
		default:
			inMetadata = false
			kept = append(kept, line)
		}
	}

	return strings.Join(kept, "\n")
}
