package services

import (
	"fmt"
	"regexp"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/custodia-labs/verbum/internal/core/domain"
	"github.com/custodia-labs/verbum/internal/logger"
)

// Fallback matcher limits.
const (
	subjectChunkLimit  = 3
	authorChunkLimit   = 2
	minSubjectAnswer   = 10
	authorConfidence   = 0.9
	sessionTitleScore  = 0.98
	sessionTitleRuleID = "document-title"
)

// DefaultMatcherRules returns the built-in rules. Generic rules describe
// common phrasings; document rules are literals tuned for a known title.
func DefaultMatcherRules() domain.MatcherRules {
	return domain.MatcherRules{
		Subject: domain.RuleSet{
			{Name: "fifty-tips-high-tech", Pattern: `Fifty Best Tips for (High-Tech Startups)`,
				Confidence: 0.95, Origin: domain.RuleOriginDocument},
			{Name: "build-something-great", Pattern: `Build Something Great!\s+(?:Fifty Best Tips for\s+)?([\w\s-]+Startups)`,
				Confidence: 0.9, Origin: domain.RuleOriginDocument},
			{Name: "book-provides", Pattern: `book provides ((?:guidance|tips|advice) (?:for|to|about) [\w\s-]+)`,
				Confidence: 0.85, Origin: domain.RuleOriginGeneric},
			{Name: "guide-for-successful", Pattern: `guide (?:for|to) (successful [\w\s-]+)`,
				Confidence: 0.8, Origin: domain.RuleOriginGeneric},
			{Name: "focuses-on", Pattern: `focuses on ([\w\s-]+(?:startup|business|company|enterprise)[\w\s-]*)`,
				Confidence: 0.75, Origin: domain.RuleOriginGeneric},
			{Name: "main-focus-is", Pattern: `main focus is ([\w\s-]+)`,
				Confidence: 0.7, Origin: domain.RuleOriginGeneric},
			{Name: "book-is-about", Pattern: `book is about ([\w\s-]+)`,
				Confidence: 0.7, Origin: domain.RuleOriginGeneric},
			{Name: "fifty-tips", Pattern: `Fifty Best Tips for ([\w\s-]+)`,
				Confidence: 0.6, Origin: domain.RuleOriginDocument},
			{Name: "guide-to", Pattern: `guide to ([\w\s-]+)`,
				Confidence: 0.5, Origin: domain.RuleOriginGeneric},
		},
		Author: domain.RuleSet{
			{Name: "by-line", Pattern: `(?:by|authors?:?)\s+([A-Z][a-z]+\s+[A-Z][a-z]+(?:\s+and\s+[A-Z][a-z]+\s+[A-Z][a-z]+)?)`,
				Confidence: authorConfidence, Origin: domain.RuleOriginGeneric},
			{Name: "name-pair", Pattern: `([A-Z][a-z]+\s+[A-Z][a-z]+)(?:\s+and\s+([A-Z][a-z]+\s+[A-Z][a-z]+))?`,
				Confidence: authorConfidence, Origin: domain.RuleOriginGeneric},
		},
		Title: domain.PatternRule{
			Name: "title-line", Pattern: `Build Something Great!\s+Fifty Best Tips for ([\w\s-]+)`,
			Confidence: 0.8, Origin: domain.RuleOriginDocument,
		},
		SubjectKeywords:   []string{"focus", "subject", "about"},
		AuthorKeywords:    []string{"author", "who"},
		RelevanceKeywords: []string{"startup", "business", "company", "tips", "guide"},
	}
}

// Matcher extracts answers with regex rules when the neural model cannot.
// "No match" is a normal negative result, never an error.
type Matcher struct {
	cfg domain.MatcherRules

	// compiled caches regexes by their final source, including session rules.
	compiled sync.Map
}

// NewMatcher compiles the configured rules. Invalid patterns fail with domain.ErrConfig.
func NewMatcher(cfg domain.MatcherRules) (*Matcher, error) {
	m := &Matcher{cfg: cfg}

	for _, r := range cfg.Subject {
		if _, err := m.regex(r.Pattern, true); err != nil {
			return nil, err
		}
	}
	for _, r := range cfg.Author {
		if _, err := m.regex(r.Pattern, false); err != nil {
			return nil, err
		}
	}
	if cfg.Title.Pattern != "" {
		if _, err := m.regex(cfg.Title.Pattern, false); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Intent classifies the question. Subject keywords take precedence.
// "main" alone is not a subject marker: "who is the main author" asks
// for the author.
func (m *Matcher) Intent(question string) domain.Intent {
	q := strings.ToLower(question)
	switch {
	case containsAny(q, m.cfg.SubjectKeywords):
		return domain.IntentSubject
	case containsAny(q, m.cfg.AuthorKeywords):
		return domain.IntentAuthor
	default:
		return domain.IntentNone
	}
}

// Match runs the rule set selected by the question intent over chunks.
// sessionRules take precedence over the configured subject rules.
func (m *Matcher) Match(question string, chunks []string, sessionRules domain.RuleSet) (domain.Match, bool) {
	switch m.Intent(question) {
	case domain.IntentSubject:
		return m.matchSubject(chunks, sessionRules)
	case domain.IntentAuthor:
		return m.matchAuthor(chunks)
	default:
		return domain.Match{}, false
	}
}

func (m *Matcher) matchSubject(chunks []string, sessionRules domain.RuleSet) (domain.Match, bool) {
	rules := make(domain.RuleSet, 0, len(sessionRules)+len(m.cfg.Subject))
	rules = append(rules, sessionRules...)
	rules = append(rules, m.cfg.Subject...)

	for _, chunk := range chunks[:min(subjectChunkLimit, len(chunks))] {
		clean := CleanText(chunk)
		for _, rule := range rules {
			re, err := m.regex(rule.Pattern, true)
			if err != nil {
				logger.Warn("skipping rule %s: %v", rule.Name, err)
				continue
			}

			answer, ok := firstGroup(re, clean)
			if !ok {
				continue
			}
			answer, ok = m.acceptSubject(answer)
			if !ok {
				continue
			}

			logger.Debug("fallback rule %s (%s) matched", rule.Name, rule.Origin)
			return domain.Match{Answer: answer, Confidence: rule.Confidence, Rule: rule.Name}, true
		}
	}

	if len(chunks) == 0 || m.cfg.Title.Pattern == "" {
		return domain.Match{}, false
	}

	re, err := m.regex(m.cfg.Title.Pattern, false)
	if err != nil {
		return domain.Match{}, false
	}
	if answer, ok := firstGroup(re, chunks[0]); ok {
		logger.Debug("fallback title rule %s matched", m.cfg.Title.Name)
		return domain.Match{
			Answer:     strings.TrimSpace(answer),
			Confidence: m.cfg.Title.Confidence,
			Rule:       m.cfg.Title.Name,
		}, true
	}
	return domain.Match{}, false
}

// acceptSubject applies the length and relevance guards and normalises the answer.
func (m *Matcher) acceptSubject(answer string) (string, bool) {
	answer = strings.TrimSpace(answer)
	if utf8.RuneCountInString(answer) < minSubjectAnswer {
		return "", false
	}

	answer = strings.ReplaceAll(answer, "  ", " ")
	first, size := utf8.DecodeRuneInString(answer)
	answer = string(unicode.ToUpper(first)) + answer[size:]

	if !containsAny(strings.ToLower(answer), m.cfg.RelevanceKeywords) {
		return "", false
	}
	return answer, true
}

func (m *Matcher) matchAuthor(chunks []string) (domain.Match, bool) {
	for _, chunk := range chunks[:min(authorChunkLimit, len(chunks))] {
		for _, rule := range m.cfg.Author {
			re, err := m.regex(rule.Pattern, false)
			if err != nil {
				continue
			}

			groups := re.FindStringSubmatch(chunk)
			if groups == nil {
				continue
			}

			authors := []string{groups[min(1, len(groups)-1)]}
			if len(groups) > 2 && groups[2] != "" {
				authors = append(authors, groups[2])
			}

			logger.Debug("fallback author rule %s matched", rule.Name)
			return domain.Match{
				Answer:     strings.Join(authors, " and "),
				Confidence: rule.Confidence,
				Rule:       rule.Name,
			}, true
		}
	}
	return domain.Match{}, false
}

// regex compiles pattern once, optionally case-insensitive.
func (m *Matcher) regex(pattern string, fold bool) (*regexp.Regexp, error) {
	source := pattern
	if fold {
		source = "(?i)" + pattern
	}
	if re, ok := m.compiled.Load(source); ok {
		return re.(*regexp.Regexp), nil
	}

	re, err := regexp.Compile(source)
	if err != nil {
		return nil, fmt.Errorf("%w: rule pattern %q: %w", domain.ErrConfig, pattern, err)
	}
	m.compiled.Store(source, re)
	return re, nil
}

// firstGroup returns capture group 1, or the whole match when the
// pattern has no groups.
func firstGroup(re *regexp.Regexp, s string) (string, bool) {
	groups := re.FindStringSubmatch(s)
	if groups == nil {
		return "", false
	}
	if len(groups) > 1 {
		return groups[1], true
	}
	return groups[0], true
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if w != "" && strings.Contains(s, w) {
			return true
		}
	}
	return false
}

var titleLine = regexp.MustCompile(`^([^.!?\n]+)`)

// AnalyzeDocument learns a literal title rule from the first chunk and
// prepends it to the session rules. It runs at most once per session and
// reports whether a rule was learned.
func AnalyzeDocument(session *domain.DocumentSession, firstChunk string) bool {
	if session.Analyzed {
		return false
	}
	session.Analyzed = true

	groups := titleLine.FindStringSubmatch(firstChunk)
	if groups == nil {
		return false
	}
	title := strings.TrimSpace(groups[1])
	if title == "" {
		return false
	}

	session.Rules = session.Rules.Prepend(domain.PatternRule{
		Name:       sessionTitleRuleID,
		Pattern:    "(?:" + regexp.QuoteMeta(title) + ")",
		Confidence: sessionTitleScore,
		Origin:     domain.RuleOriginSession,
	})
	logger.Debug("learned title rule for document %s: %q", session.DocumentID, title)
	return true
}
