package domain

// Intent is a coarse classification of a question.
type Intent string

// Question intents recognised by the fallback matcher.
const (
	IntentNone    Intent = ""
	IntentSubject Intent = "subject"
	IntentAuthor  Intent = "author"
)

// RuleOrigin tags where a pattern rule came from.
type RuleOrigin string

// Rule origins.
const (
	// RuleOriginGeneric is a phrasing pattern that applies to any document.
	RuleOriginGeneric RuleOrigin = "generic"

	// RuleOriginDocument is a literal pattern tuned for a known document.
	RuleOriginDocument RuleOrigin = "document"

	// RuleOriginSession is a pattern learned from the current document
	// by analysing its first chunk.
	RuleOriginSession RuleOrigin = "session"
)

// PatternRule is a regex with a static confidence. When the pattern has
// a capture group, group 1 is the answer; otherwise the whole match is.
type PatternRule struct {
	Name       string     `toml:"name"`
	Pattern    string     `toml:"pattern"`
	Confidence float64    `toml:"confidence"`
	Origin     RuleOrigin `toml:"origin"`
}

// RuleSet is an ordered list of rules; the first successful match wins.
type RuleSet []PatternRule

// Prepend returns a new rule set with r at the highest precedence.
func (rs RuleSet) Prepend(r PatternRule) RuleSet {
	out := make(RuleSet, 0, len(rs)+1)
	out = append(out, r)
	return append(out, rs...)
}

// MatcherRules holds the rule data for the fallback matcher.
type MatcherRules struct {
	// Subject rules, in precedence order. Matched case-insensitively
	// against cleaned chunk text.
	Subject RuleSet `toml:"subject"`

	// Author rules, in precedence order. Matched case-sensitively
	// against raw chunk text.
	Author RuleSet `toml:"author"`

	// Title is the last-resort subject rule, matched case-sensitively
	// against the raw first chunk without any guard.
	Title PatternRule `toml:"title"`

	// SubjectKeywords select the subject intent.
	SubjectKeywords []string `toml:"subject_keywords"`

	// AuthorKeywords select the author intent.
	AuthorKeywords []string `toml:"author_keywords"`

	// RelevanceKeywords guard subject answers: one must appear in the answer.
	RelevanceKeywords []string `toml:"relevance_keywords"`
}

// DocumentSession holds per-document state that persists across questions
// about the same document.
type DocumentSession struct {
	// ID identifies the session.
	ID string

	// DocumentID is the document the session belongs to.
	DocumentID string

	// Analyzed is set once the first chunk has been analysed.
	Analyzed bool

	// Rules are session-learned subject rules, highest precedence first.
	Rules RuleSet
}
