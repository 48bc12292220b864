// Package widget is the out-of-process companion to the TUI: a flat shared
// preferences file holding the active pair, and a one-shot bridge that fires
// transport actions against the room-scoped REST endpoint.
package widget

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/naveenspark/stageremote/internal/fsutil"
	"github.com/naveenspark/stageremote/pkg/domain"
)

// ErrNotConfigured is returned when the shared prefs hold no complete pair.
var ErrNotConfigured = errors.New("widget: no room configured")

type prefsFile struct {
	RoomID string `toml:"roomId"`
	APIKey string `toml:"apiKey"`
}

// Prefs is the shared preferences file. It implements credstore.Mirror.
type Prefs struct {
	path string
}

// NewPrefs returns the prefs file at path. Nothing is read until Read.
func NewPrefs(path string) *Prefs {
	return &Prefs{path: path}
}

// Path returns the backing file.
func (p *Prefs) Path() string { return p.path }

// Read returns the mirrored pair, or ErrNotConfigured when the file is
// missing or incomplete.
func (p *Prefs) Read() (domain.Credentials, error) {
	var f prefsFile
	_, err := toml.DecodeFile(p.path, &f)
	if errors.Is(err, fs.ErrNotExist) {
		return domain.Credentials{}, ErrNotConfigured
	}
	if err != nil {
		return domain.Credentials{}, fmt.Errorf("widget.Read: %w", err)
	}
	c := domain.Credentials{RoomID: f.RoomID, APIKey: f.APIKey}
	if !c.Complete() {
		return c, ErrNotConfigured
	}
	return c, nil
}

// Write replaces the mirrored pair.
func (p *Prefs) Write(c domain.Credentials) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(prefsFile{RoomID: c.RoomID, APIKey: c.APIKey}); err != nil {
		return fmt.Errorf("widget.Write: %w", err)
	}
	if err := fsutil.WriteFileAtomic(p.path, buf.Bytes(), 0o600); err != nil {
		return fmt.Errorf("widget.Write: %w", err)
	}
	return nil
}

// Clear removes the prefs file. A missing file is not an error.
func (p *Prefs) Clear() error {
	if err := os.Remove(p.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("widget.Clear: %w", err)
	}
	return nil
}
