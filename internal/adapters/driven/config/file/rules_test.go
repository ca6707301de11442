package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/verbum/internal/core/domain"
)

func testDefaults() domain.MatcherRules {
	return domain.MatcherRules{
		Subject: domain.RuleSet{
			{Name: "book-is-about", Pattern: `book is about ([\w\s-]+)`, Confidence: 0.7, Origin: domain.RuleOriginGeneric},
		},
		Author: domain.RuleSet{
			{Name: "by-line", Pattern: `by ([A-Z][a-z]+)`, Confidence: 0.9, Origin: domain.RuleOriginGeneric},
		},
		Title:             domain.PatternRule{Name: "title-line", Pattern: `Title: (.+)`, Confidence: 0.8},
		SubjectKeywords:   []string{"focus", "about"},
		AuthorKeywords:    []string{"author", "who"},
		RelevanceKeywords: []string{"startup"},
	}
}

func writeRules(t *testing.T, content string) *RuleStore {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, RulesFile), []byte(content), 0600))
	store, err := NewRuleStore(dir)
	require.NoError(t, err)
	return store
}

func TestRuleStore_MissingFile(t *testing.T) {
	store, err := NewRuleStore(t.TempDir())
	require.NoError(t, err)

	rules, err := store.Load(testDefaults())
	require.NoError(t, err)
	assert.Equal(t, testDefaults(), rules)
}

func TestRuleStore_Overrides(t *testing.T) {
	store := writeRules(t, `
subject_keywords = ["focus", "topic"]
relevance_keywords = ["startup", "science"]

[[subject]]
name = "covers"
pattern = 'this book covers ([\w\s-]+)'
confidence = 0.8

[[subject]]
name = "literal"
pattern = 'Field Guide to (Birds)'
confidence = 0.95
origin = "document"
`)

	rules, err := store.Load(testDefaults())
	require.NoError(t, err)

	require.Len(t, rules.Subject, 2, "subject rules are replaced, not merged")
	assert.Equal(t, "covers", rules.Subject[0].Name)
	assert.Equal(t, `this book covers ([\w\s-]+)`, rules.Subject[0].Pattern)
	assert.Equal(t, domain.RuleOriginGeneric, rules.Subject[0].Origin, "origin defaults to generic")
	assert.Equal(t, domain.RuleOriginDocument, rules.Subject[1].Origin)
	assert.InDelta(t, 0.95, rules.Subject[1].Confidence, 1e-9)

	assert.Equal(t, []string{"focus", "topic"}, rules.SubjectKeywords)
	assert.Equal(t, []string{"startup", "science"}, rules.RelevanceKeywords)

	defaults := testDefaults()
	assert.Equal(t, defaults.Author, rules.Author, "absent keys keep defaults")
	assert.Equal(t, defaults.Title, rules.Title)
	assert.Equal(t, defaults.AuthorKeywords, rules.AuthorKeywords)
}

func TestRuleStore_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"syntax error", `subject = [`},
		{"unknown key", `subjects = []`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rules, err := writeRules(t, tt.content).Load(testDefaults())
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrConfig)
			assert.Equal(t, testDefaults(), rules)
		})
	}
}

func TestRuleStore_SaveRoundTrip(t *testing.T) {
	store, err := NewRuleStore(filepath.Join(t.TempDir(), "cfg"))
	require.NoError(t, err)

	require.NoError(t, store.Save(testDefaults()))
	assert.FileExists(t, store.Path())

	rules, err := store.Load(domain.MatcherRules{})
	require.NoError(t, err)
	assert.Equal(t, testDefaults().Subject, rules.Subject)
	assert.Equal(t, testDefaults().SubjectKeywords, rules.SubjectKeywords)
}
