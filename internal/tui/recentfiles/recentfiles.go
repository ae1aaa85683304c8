// ABOUTME: Remembers the proof images most recently attached to pieces
// ABOUTME: Stored as JSON in the application config directory; only existing images survive a load

package recentfiles

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// MaxRecentFiles is the maximum number of recent proofs to keep
const MaxRecentFiles = 5

// FileName is the file holding the list inside the config directory
const FileName = "recent_proofs.json"

// ImageExtensions are the extensions accepted as proof images
var ImageExtensions = []string{".png", ".jpg", ".jpeg", ".gif", ".webp", ".bmp"}

// IsImage reports whether path has a proof image extension
func IsImage(path string) bool {
	return slices.Contains(ImageExtensions, strings.ToLower(filepath.Ext(path)))
}

// RecentFiles manages the list of recently attached proofs
type RecentFiles struct {
	configDir string
	proofs    []string
}

type recentData struct {
	Proofs []string `json:"proofs"`
}

// New creates a RecentFiles manager rooted at configDir
func New(configDir string) *RecentFiles {
	return &RecentFiles{configDir: configDir}
}

func (rf *RecentFiles) path() string {
	return filepath.Join(rf.configDir, FileName)
}

// Load reads the list from disk. Entries that are not images, no longer
// exist, or repeat an earlier entry are dropped.
func (rf *RecentFiles) Load() ([]string, error) {
	data, err := os.ReadFile(rf.path())
	if os.IsNotExist(err) {
		rf.proofs = []string{}
		return rf.proofs, nil
	}
	if err != nil {
		return nil, err
	}

	var stored recentData
	if err := json.Unmarshal(data, &stored); err != nil {
		rf.proofs = []string{}
		return rf.proofs, nil
	}

	rf.proofs = make([]string, 0, len(stored.Proofs))
	for _, p := range stored.Proofs {
		if !IsImage(p) || slices.Contains(rf.proofs, p) {
			continue
		}
		if info, err := os.Stat(p); err == nil && info.Mode().IsRegular() {
			rf.proofs = append(rf.proofs, p)
		}
	}
	return rf.proofs, nil
}

// Save writes proofs to disk, keeping at most MaxRecentFiles entries
func (rf *RecentFiles) Save(proofs []string) error {
	if err := os.MkdirAll(rf.configDir, 0700); err != nil {
		return err
	}
	if len(proofs) > MaxRecentFiles {
		proofs = proofs[:MaxRecentFiles]
	}
	rf.proofs = proofs

	data, err := json.MarshalIndent(recentData{Proofs: proofs}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(rf.path(), data, 0600)
}

// Add records an attached proof at the front of the list. Relative paths
// are stored as absolute ones; non-image paths are rejected.
func (rf *RecentFiles) Add(path string) error {
	if !IsImage(path) {
		return fmt.Errorf("not a proof image: %s", filepath.Base(path))
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if rf.proofs == nil {
		if _, err := rf.Load(); err != nil {
			rf.proofs = []string{}
		}
	}

	next := make([]string, 0, len(rf.proofs)+1)
	next = append(next, abs)
	for _, p := range rf.proofs {
		if p != abs {
			next = append(next, p)
		}
	}
	return rf.Save(next)
}

// List returns the current list, loading it on first use
func (rf *RecentFiles) List() []string {
	if rf.proofs == nil {
		rf.Load()
	}
	return rf.proofs
}
