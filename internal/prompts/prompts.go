// Package prompts loads the stage instructions for the audit pipeline.
package prompts

import (
	"embed"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Stage prompt names. Each maps to <name>.txt in a prompts directory.
const (
	PageAuditor         = "page_auditor"
	SerpAnalyst         = "serp_analyst"
	OptimizationAdvisor = "optimization_advisor"
)

// Names lists the stage prompts in pipeline order.
var Names = []string{PageAuditor, SerpAnalyst, OptimizationAdvisor}

//go:embed defaults/*.txt
var defaultFS embed.FS

// Set holds one instruction per stage.
type Set struct {
	PageAuditor         string `yaml:"page_auditor"`
	SerpAnalyst         string `yaml:"serp_analyst"`
	OptimizationAdvisor string `yaml:"optimization_advisor"`
}

// Get returns the instruction for name, or "" for an unknown name.
func (s Set) Get(name string) string {
	switch name {
	case PageAuditor:
		return s.PageAuditor
	case SerpAnalyst:
		return s.SerpAnalyst
	case OptimizationAdvisor:
		return s.OptimizationAdvisor
	}
	return ""
}

func (s *Set) set(name, text string) {
	switch name {
	case PageAuditor:
		s.PageAuditor = text
	case SerpAnalyst:
		s.SerpAnalyst = text
	case OptimizationAdvisor:
		s.OptimizationAdvisor = text
	}
}

// Defaults returns the embedded instructions.
func Defaults() Set {
	var s Set
	for _, name := range Names {
		data, err := defaultFS.ReadFile("defaults/" + name + ".txt")
		if err != nil {
			// Embedded at build time; a miss is a packaging bug.
			panic(eris.Wrapf(err, "prompts: embedded %s missing", name))
		}
		s.set(name, strings.TrimSpace(string(data)))
	}
	return s
}

// Load resolves each stage instruction. A non-empty entry in the YAML bundle
// wins, then <dir>/<name>.txt, then the embedded default. Missing or empty
// files are logged and skipped. Only an unreadable bundle is an error.
func Load(dir, bundle string) (Set, error) {
	s := Defaults()

	if dir != "" {
		for _, name := range Names {
			path := filepath.Join(dir, name+".txt")
			data, err := os.ReadFile(path)
			switch {
			case errors.Is(err, fs.ErrNotExist):
				zap.L().Debug("prompts: file not found, using default", zap.String("path", path))
				continue
			case err != nil:
				zap.L().Warn("prompts: read failed, using default", zap.String("path", path), zap.Error(err))
				continue
			}
			if text := strings.TrimSpace(string(data)); text != "" {
				s.set(name, text)
			} else {
				zap.L().Warn("prompts: empty file, using default", zap.String("path", path))
			}
		}
	}

	if bundle == "" {
		return s, nil
	}
	data, err := os.ReadFile(bundle)
	if err != nil {
		return Set{}, eris.Wrapf(err, "prompts: read bundle %s", bundle)
	}
	var overrides Set
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return Set{}, eris.Wrapf(err, "prompts: parse bundle %s", bundle)
	}
	for _, name := range Names {
		if text := strings.TrimSpace(overrides.Get(name)); text != "" {
			s.set(name, text)
		}
	}
	return s, nil
}
