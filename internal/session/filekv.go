// ABOUTME: File-backed KV that stores the session document in the XDG config directory
// ABOUTME: Writes through a temp file and rename so partial documents never land on disk

package session

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
)

// FileName is the session document name inside the config directory
const FileName = "session.json"

// FileKV persists keys as a flat JSON object
type FileKV struct {
	configDir string

	mu     sync.Mutex
	values map[string]string
}

// NewFileKV creates a store rooted at configDir. The file is read lazily.
func NewFileKV(configDir string) *FileKV {
	return &FileKV{configDir: configDir}
}

func (f *FileKV) path() string {
	return filepath.Join(f.configDir, FileName)
}

// load reads the document once; a missing or corrupt file starts empty
func (f *FileKV) load() {
	if f.values != nil {
		return
	}
	f.values = make(map[string]string)

	data, err := os.ReadFile(f.path())
	if err != nil {
		return
	}
	var stored map[string]string
	if err := json.Unmarshal(data, &stored); err != nil {
		return
	}
	for k, v := range stored {
		f.values[k] = v
	}
}

// Get implements KV
func (f *FileKV) Get(key string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.load()
	v, ok := f.values[key]
	return v, ok
}

// Apply implements KV
func (f *FileKV) Apply(puts map[string]string, deletes []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.load()

	next := make(map[string]string, len(f.values)+len(puts))
	for k, v := range f.values {
		next[k] = v
	}
	for _, k := range deletes {
		delete(next, k)
	}
	for k, v := range puts {
		next[k] = v
	}

	if err := f.write(next); err != nil {
		return err
	}
	f.values = next
	return nil
}

func (f *FileKV) write(values map[string]string) error {
	if err := os.MkdirAll(f.configDir, 0700); err != nil {
		return err
	}

	if len(values) == 0 {
		err := os.Remove(f.path())
		if err != nil && !os.IsNotExist(err) {
			return err
		}
		return nil
	}

	data, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(f.configDir, ".session-*.json")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Chmod(0600); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), f.path())
}
