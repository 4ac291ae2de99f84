// Package memory keeps the last finished WorkflowState on disk so it can be
// inspected after a run.
package memory

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/Etheal9/SEO-Auditor-AI-Agents/internal/model"
)

// DefaultPath is where the snapshot lives unless configured otherwise.
const DefaultPath = "memory/state.json"

// Save writes state as indented JSON to path, creating parent directories.
// The write goes through a temp file so a reader never sees a partial file.
func Save(path string, state model.WorkflowState) error {
	if path == "" {
		path = DefaultPath
	}
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return eris.Wrap(err, "memory: marshal state")
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return eris.Wrapf(err, "memory: create dir %s", dir)
	}

	tmp, err := os.CreateTemp(dir, ".state-*.json")
	if err != nil {
		return eris.Wrap(err, "memory: create temp file")
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return eris.Wrap(err, "memory: write state")
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return eris.Wrap(err, "memory: close temp file")
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return eris.Wrapf(err, "memory: rename to %s", path)
	}
	return nil
}

// Load reads the snapshot at path. A missing or unreadable file yields an
// empty state; the problem is logged, not returned.
func Load(path string) model.WorkflowState {
	if path == "" {
		path = DefaultPath
	}
	log := zap.L().With(zap.String("path", path))

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Debug("memory: no saved state")
		} else {
			log.Warn("memory: read state", zap.Error(err))
		}
		return *model.NewWorkflowState("")
	}

	state := model.NewWorkflowState("")
	if err := json.Unmarshal(data, state); err != nil {
		log.Warn("memory: corrupt state file", zap.Error(err))
		return *model.NewWorkflowState("")
	}
	if state.Errors == nil {
		state.Errors = []string{}
	}
	return *state
}
