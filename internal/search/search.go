// Package search filters, highlights and sorts transaction lists for the
// table view. User patterns are ECMAScript regular expressions; a pattern
// that does not compile, or that times out while matching, leaves the data
// unfiltered and unhighlighted.
package search

import (
	"html"
	"strconv"
	"strings"
	"time"

	"github.com/dlclark/regexp2"

	"finboard/internal/cache"
	"finboard/internal/logger"
	"finboard/internal/models"
)

// Highlight markers.
const (
	MarkOpen  = "<mark>"
	MarkClose = "</mark>"
)

// Matcher compiles user patterns and caches the compiled form.
type Matcher struct {
	patterns *cache.LRU[string, *regexp2.Regexp]
	timeout  time.Duration
}

// NewMatcher returns a matcher caching up to cacheSize compiled patterns for
// ttl. timeout bounds every single match.
func NewMatcher(cacheSize int, ttl, timeout time.Duration) *Matcher {
	return &Matcher{
		patterns: cache.NewLRU[string, *regexp2.Regexp](cacheSize, ttl),
		timeout:  timeout,
	}
}

// Compile returns the compiled form of pattern.
func (m *Matcher) Compile(pattern string, caseInsensitive bool) (*regexp2.Regexp, error) {
	key := strconv.FormatBool(caseInsensitive) + ":" + pattern
	return m.patterns.GetOrCreate(key, func() (*regexp2.Regexp, error) {
		opts := regexp2.RegexOptions(regexp2.ECMAScript)
		if caseInsensitive {
			opts |= regexp2.IgnoreCase
		}
		re, err := regexp2.Compile(pattern, opts)
		if err != nil {
			return nil, err
		}
		if m.timeout > 0 {
			re.MatchTimeout = m.timeout
		}
		return re, nil
	})
}

// Prune drops compiled patterns whose TTL has passed and reports how many
// were dropped.
func (m *Matcher) Prune() int {
	return m.patterns.CleanExpired()
}

// Filter keeps the records whose description or category matches pattern.
// An empty or invalid pattern returns txs unchanged.
func (m *Matcher) Filter(txs []models.Transaction, pattern string, caseInsensitive bool) []models.Transaction {
	if pattern == "" {
		return txs
	}
	re, err := m.Compile(pattern, caseInsensitive)
	if err != nil {
		logger.Get().Debugw("Ignoring invalid search pattern", "pattern", pattern, "error", err)
		return txs
	}

	out := make([]models.Transaction, 0, len(txs))
	for _, t := range txs {
		ok, err := matchEither(re, t.Description, t.Category)
		if err != nil {
			logger.Get().Debugw("Search pattern failed to match", "pattern", pattern, "error", err)
			return txs
		}
		if ok {
			out = append(out, t)
		}
	}
	return out
}

func matchEither(re *regexp2.Regexp, a, b string) (bool, error) {
	ok, err := re.MatchString(a)
	if err != nil || ok {
		return ok, err
	}
	return re.MatchString(b)
}

// Highlight returns the display-safe form of text: it is HTML-escaped, and
// every non-empty match of pattern is wrapped in MarkOpen/MarkClose. An empty
// or invalid pattern yields the escaped text without marks, never the raw
// text, so the result can always be inserted into markup as is.
func (m *Matcher) Highlight(text, pattern string, caseInsensitive bool) string {
	if pattern == "" {
		return html.EscapeString(text)
	}
	re, err := m.Compile(pattern, caseInsensitive)
	if err != nil {
		return html.EscapeString(text)
	}

	runes := []rune(text)
	var sb strings.Builder
	last := 0

	match, err := re.FindRunesMatch(runes)
	for err == nil && match != nil {
		if match.Length > 0 {
			sb.WriteString(html.EscapeString(string(runes[last:match.Index])))
			sb.WriteString(MarkOpen)
			sb.WriteString(html.EscapeString(match.String()))
			sb.WriteString(MarkClose)
			last = match.Index + match.Length
		}
		match, err = re.FindNextMatch(match)
	}
	if err != nil {
		logger.Get().Debugw("Search pattern failed to match", "pattern", pattern, "error", err)
		return html.EscapeString(text)
	}

	sb.WriteString(html.EscapeString(string(runes[last:])))
	return sb.String()
}
