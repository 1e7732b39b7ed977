package configutil

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"dario.cat/mergo"
	"github.com/titanous/json5"
)

// ReadConfig reads a json5 configuration file. `name` should come with
// a file extension. A `<name>.local.<ext>` file sitting next to it is
// merged on top of the base file, local values winning.
func ReadConfig[T any](name string) (T, error) {
	var out T

	base, err := os.ReadFile(name)
	if err != nil && !os.IsNotExist(err) {
		return out, err
	}
	found := false
	if len(base) > 0 {
		if err := json5.Unmarshal(base, &out); err != nil {
			return out, fmt.Errorf("parse %s: %w", name, err)
		}
		found = true
	}

	localPath := localName(name)
	local, err := os.ReadFile(localPath)
	if err != nil && !os.IsNotExist(err) {
		return out, err
	}
	if len(local) > 0 {
		var override T
		if err := json5.Unmarshal(local, &override); err != nil {
			return out, fmt.Errorf("parse %s: %w", localPath, err)
		}
		if err := mergo.Merge(&out, override, mergo.WithOverride); err != nil {
			return out, err
		}
		slog.Info("merging config with local overrides", "local", localPath)
		found = true
	}

	if !found {
		return out, os.ErrNotExist
	}
	return out, nil
}

// "config.json5" -> "config.local.json5"
func localName(name string) string {
	base := filepath.Base(name)
	ext := filepath.Ext(base)
	prefix := strings.TrimSuffix(base, ext)
	return filepath.Join(filepath.Dir(name), prefix+".local"+ext)
}

// ReadRecursively behaves like ReadConfig but walks up the filesystem
// from the working directory until a matching configuration file is
// found or the root is reached.
func ReadRecursively[T any](name string) (T, error) {
	var out T

	root, err := filepath.Abs("/")
	if err != nil {
		return out, err
	}
	current, err := os.Getwd()
	if err != nil {
		return out, err
	}

	for current != root {
		config, err := ReadConfig[T](filepath.Join(current, name))
		if os.IsNotExist(err) {
			current = filepath.Join(current, "..")
			continue
		}
		if err != nil {
			return out, err
		}
		return config, nil
	}

	return out, os.ErrNotExist
}
