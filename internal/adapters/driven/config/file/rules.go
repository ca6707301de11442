package file

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/custodia-labs/verbum/internal/core/domain"
	"github.com/custodia-labs/verbum/internal/logger"
)

// RulesFile is the name of the matcher rule overrides in the config directory.
const RulesFile = "rules.toml"

// RuleStore reads fallback matcher rules from rules.toml.
//
// Every top-level key present in the file replaces the corresponding
// default wholesale; absent keys keep their defaults. For example:
//
//	subject_keywords = ["focus", "subject", "about", "topic"]
//
//	[[subject]]
//	name = "covers"
//	pattern = 'this book covers ([\w\s-]+)'
//	confidence = 0.8
//	origin = "generic"
type RuleStore struct {
	path string
}

// NewRuleStore creates a rule store for configDir. If configDir is empty,
// defaults to ~/.verbum/rules.toml.
func NewRuleStore(configDir string) (*RuleStore, error) {
	if configDir == "" {
		dir, err := DefaultDir()
		if err != nil {
			return nil, err
		}
		configDir = dir
	}
	return &RuleStore{path: filepath.Join(configDir, RulesFile)}, nil
}

// Path returns the rules file path.
func (s *RuleStore) Path() string {
	return s.path
}

// Load overlays the rules file on defaults. A missing file returns the
// defaults unchanged; a malformed one fails with domain.ErrConfig.
func (s *RuleStore) Load(defaults domain.MatcherRules) (domain.MatcherRules, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return defaults, nil
	}
	if err != nil {
		return defaults, fmt.Errorf("read rules: %w", err)
	}

	rules := cloneRules(defaults)
	decoder := toml.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&rules); err != nil {
		return defaults, fmt.Errorf("%w: parse %s: %w", domain.ErrConfig, s.path, err)
	}

	for i := range rules.Subject {
		if rules.Subject[i].Origin == "" {
			rules.Subject[i].Origin = domain.RuleOriginGeneric
		}
	}
	for i := range rules.Author {
		if rules.Author[i].Origin == "" {
			rules.Author[i].Origin = domain.RuleOriginGeneric
		}
	}

	logger.Debug("loaded %d subject and %d author rules from %s", len(rules.Subject), len(rules.Author), s.path)
	return rules, nil
}

// Save writes rules to the rules file, replacing it.
func (s *RuleStore) Save(rules domain.MatcherRules) error {
	data, err := toml.Marshal(rules)
	if err != nil {
		return fmt.Errorf("encode rules: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("write rules: %w", err)
	}
	return nil
}

// cloneRules copies the slices of r so decoding cannot write through to
// the caller's backing arrays.
func cloneRules(r domain.MatcherRules) domain.MatcherRules {
	r.Subject = append(domain.RuleSet(nil), r.Subject...)
	r.Author = append(domain.RuleSet(nil), r.Author...)
	r.SubjectKeywords = append([]string(nil), r.SubjectKeywords...)
	r.AuthorKeywords = append([]string(nil), r.AuthorKeywords...)
	r.RelevanceKeywords = append([]string(nil), r.RelevanceKeywords...)
	return r
}
