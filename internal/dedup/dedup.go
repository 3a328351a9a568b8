// Package dedup suppresses near-duplicate thought fragments so streamed
// reasoning does not spam the transcript. It is a quality-of-life filter:
// false suppressions are logged, never fatal.
package dedup

import (
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/quillhq/quill/internal/log"
)

// Suppression reasons reported to the log and the telemetry hook.
const (
	ReasonSimilar  = "similar"
	ReasonDenylist = "denylist"
	ReasonShort    = "short"
)

// DefaultDenyPhrases are low-information filler phrases matched as
// case-insensitive substrings.
var DefaultDenyPhrases = []string{
	"i'll proceed",
	"let me check",
	"let me see",
	"one moment",
	"working on it",
	"looking into this",
}

// Options configures a Filter. Zero values take the documented defaults:
// threshold 0.7, window 15s, minimum 4 words and 30 characters.
type Options struct {
	Threshold   float64
	Window      time.Duration
	MinWords    int
	MinChars    int
	DenyPhrases []string

	// OnSuppress is an optional telemetry hook invoked for every
	// suppressed fragment with the matched reason.
	OnSuppress func(fragment, reason string)
}

type entry struct {
	words map[string]struct{}
	at    time.Time
}

// Filter holds the rolling buffer of recently shown fragments. It is owned
// by the renderer's worker goroutine and is not safe for concurrent use.
type Filter struct {
	threshold  float64
	window     time.Duration
	minWords   int
	minChars   int
	deny       []string
	onSuppress func(fragment, reason string)
	logger     *log.Entry

	buffer []entry
}

// New builds a Filter from options, applying defaults for zero values.
func New(opts Options) *Filter {
	if opts.Threshold <= 0 || opts.Threshold > 1 {
		opts.Threshold = 0.7
	}
	if opts.Window <= 0 {
		opts.Window = 15 * time.Second
	}
	if opts.MinWords <= 0 {
		opts.MinWords = 4
	}
	if opts.MinChars <= 0 {
		opts.MinChars = 30
	}
	if opts.DenyPhrases == nil {
		opts.DenyPhrases = DefaultDenyPhrases
	}
	deny := make([]string, 0, len(opts.DenyPhrases))
	for _, phrase := range opts.DenyPhrases {
		if p := strings.ToLower(strings.TrimSpace(phrase)); p != "" {
			deny = append(deny, p)
		}
	}

	return &Filter{
		threshold:  opts.Threshold,
		window:     opts.Window,
		minWords:   opts.MinWords,
		minChars:   opts.MinChars,
		deny:       deny,
		onSuppress: opts.OnSuppress,
		logger:     log.Named("dedup"),
	}
}

// ShouldRender decides whether a thought fragment is worth showing. Three
// independent filters apply: a minimum-content gate, the denylist, and
// word-set similarity against fragments shown within the time window.
// Suppressed fragments are not buffered, so they never anchor future
// suppressions.
func (f *Filter) ShouldRender(fragment string, at time.Time) bool {
	f.prune(at)

	trimmed := strings.TrimSpace(fragment)
	words := tokenize(trimmed)

	if len(words) < f.minWords || utf8.RuneCountInString(trimmed) < f.minChars {
		f.suppress(trimmed, ReasonShort)
		return false
	}

	lower := strings.ToLower(trimmed)
	for _, phrase := range f.deny {
		if strings.Contains(lower, phrase) {
			f.suppress(trimmed, ReasonDenylist)
			return false
		}
	}

	for _, e := range f.buffer {
		if sim := similarity(words, e.words); sim >= f.threshold {
			f.logger.WithFields(log.Fields{"similarity": sim}).Debug("fragment near-duplicate of recent thought")
			f.suppress(trimmed, ReasonSimilar)
			return false
		}
	}

	f.buffer = append(f.buffer, entry{words: words, at: at})
	return true
}

// Reset drops the rolling buffer, typically between sessions.
func (f *Filter) Reset() {
	f.buffer = nil
}

func (f *Filter) prune(now time.Time) {
	keep := f.buffer[:0]
	for _, e := range f.buffer {
		if now.Sub(e.at) <= f.window {
			keep = append(keep, e)
		}
	}
	f.buffer = keep
}

func (f *Filter) suppress(fragment, reason string) {
	f.logger.WithFields(log.Fields{"reason": reason}).Debugf("suppressed: %.60s", fragment)
	if f.onSuppress != nil {
		f.onSuppress(fragment, reason)
	}
}

// tokenize splits text into a set of lowercase words, treating any
// non-alphanumeric rune as a separator.
func tokenize(s string) map[string]struct{} {
	fields := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
	words := make(map[string]struct{}, len(fields))
	for _, w := range fields {
		words[w] = struct{}{}
	}
	return words
}

// similarity is |intersection| / max(|a|, |b|). Empty sets never match.
func similarity(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	small, large := a, b
	if len(small) > len(large) {
		small, large = large, small
	}
	shared := 0
	for w := range small {
		if _, ok := large[w]; ok {
			shared++
		}
	}
	max := len(a)
	if len(b) > max {
		max = len(b)
	}
	return float64(shared) / float64(max)
}
