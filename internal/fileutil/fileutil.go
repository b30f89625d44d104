package fileutil

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileExists checks if a file exists at the given path
func FileExists(filePath string) bool {
	info, err := os.Stat(filePath)
	if os.IsNotExist(err) {
		return false
	}
	return err == nil && !info.IsDir()
}

// WriteFileWithOverwrite writes data to a file, respecting the overwrite flag
// Returns true if the file was written, false if it was skipped
func WriteFileWithOverwrite(filePath string, data []byte, perm os.FileMode, overwrite bool) (bool, error) {
	if FileExists(filePath) && !overwrite {
		return false, nil
	}

	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return false, err
	}

	if err := os.WriteFile(filePath, data, perm); err != nil {
		return false, err
	}

	return true, nil
}

// WriteJSONFile writes data as indented JSON to a file, respecting the overwrite flag
// Returns true if the file was written, false if it was skipped
func WriteJSONFile(data any, filePath string, overwrite bool) (bool, error) {
	return writeEncoded("JSON", data, filePath, overwrite, func(v any) ([]byte, error) {
		return json.MarshalIndent(v, "", "  ")
	})
}

// WriteYAMLFile writes data as YAML to a file, respecting the overwrite flag
// Returns true if the file was written, false if it was skipped
func WriteYAMLFile(data any, filePath string, overwrite bool) (bool, error) {
	return writeEncoded("YAML", data, filePath, overwrite, yaml.Marshal)
}

func writeEncoded(format string, data any, filePath string, overwrite bool, marshal func(any) ([]byte, error)) (bool, error) {
	if FileExists(filePath) && !overwrite {
		slog.Info(format+" file already exists, skipping", "filename", filePath, "overwrite", overwrite)
		return false, nil
	}

	encoded, err := marshal(data)
	if err != nil {
		return false, fmt.Errorf("failed to marshal %s: %w", format, err)
	}

	slog.Info("Writing "+format+" file", "filename", filePath, "overwrite", overwrite)
	if _, err := WriteFileWithOverwrite(filePath, encoded, 0644, true); err != nil {
		return false, fmt.Errorf("failed to write %s file: %w", format, err)
	}

	return true, nil
}
