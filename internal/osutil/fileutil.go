package osutil

import "os"

// FileExists checks if a file exists at the given path.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// DiskStorage reads and writes files on the local filesystem.
// It implements the engine's Storage interface.
type DiskStorage struct{}

// ReadFile returns the contents of the file at path.
func (DiskStorage) ReadFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// WriteFile replaces the contents of the file at path.
func (DiskStorage) WriteFile(path, text string) error {
	return os.WriteFile(path, []byte(text), 0600)
}
