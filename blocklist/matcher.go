// Package blocklist implements the phrase blocklist gate: entries sourced
// from a relational table (or a config-supplied JSON fallback), cached as a
// TTL snapshot, and matched against every normalized variant of the content.
package blocklist

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/aditya1583/community-pulse-sub002/normalize"
)

const (
	CategoryBlocklist   = "blocklist"
	CategoryDogWhistle  = "dog_whistle"
	CategorySexualEmoji = "sexual_emoji"

	// minimum phrase length for partial-token and collapsed/reversed
	// matching, bounding false positives on short words
	minPartialLen = 4
)

// Result is the outcome of one blocklist check. Warned lists warn-severity
// phrases that matched; these never affect Allowed.
type Result struct {
	Allowed  bool
	Category string
	// Matched is the triggering phrase, for logs only. Never shown to users.
	Matched string
	Warned  []string
}

type snapshot struct {
	entries   []Entry
	fetchedAt time.Time
}

type phraseForms struct {
	text      string
	collapsed string
	multiWord bool
}

// Matcher resolves the current entry list and checks content against it.
// Snapshot overwrites are last-writer-wins; concurrent refreshes compute
// equivalent values so no coordination is needed beyond the atomic pointer.
type Matcher struct {
	Logger *slog.Logger
	// Primary is the remote table source; may be nil.
	Primary Store
	// Fallback is consulted when Primary is unset, fails, or is empty.
	Fallback Store
	// TTL bounds snapshot age. Zero means DefaultTTL.
	TTL time.Duration

	snap    atomic.Pointer[snapshot]
	phrases *expirable.LRU[string, phraseForms]
}

const DefaultTTL = 60 * time.Second

func NewMatcher(logger *slog.Logger, primary, fallback Store) *Matcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Matcher{
		Logger:   logger,
		Primary:  primary,
		Fallback: fallback,
		phrases:  expirable.NewLRU[string, phraseForms](2048, nil, 15*time.Minute),
	}
}

func (m *Matcher) ttl() time.Duration {
	if m.TTL > 0 {
		return m.TTL
	}
	return DefaultTTL
}

// Add inserts a new entry into the primary store and invalidates the
// snapshot so the entry takes effect immediately.
func (m *Matcher) Add(ctx context.Context, e Entry) error {
	store := m.Primary
	if store == nil {
		store = m.Fallback
	}
	if store == nil {
		return fmt.Errorf("no blocklist store configured")
	}
	if err := store.Add(ctx, e); err != nil {
		return err
	}
	m.Invalidate()
	return nil
}

func (m *Matcher) Invalidate() {
	m.snap.Store(nil)
}

// Entries returns the current entry list, refreshing the snapshot when the
// TTL has lapsed. A remote-source failure is recovered locally: fall back to
// the env-configured list, then to a stale snapshot, never to an error that
// would block legitimate content.
func (m *Matcher) Entries(ctx context.Context) []Entry {
	if s := m.snap.Load(); s != nil && time.Since(s.fetchedAt) < m.ttl() {
		return s.entries
	}

	var ents []Entry
	if m.Primary != nil {
		var err error
		ents, err = m.Primary.List(ctx)
		if err != nil {
			m.Logger.Warn("blocklist remote fetch failed, using fallback", "err", err)
			ents = nil
		}
	}
	if len(ents) == 0 && m.Fallback != nil {
		fb, err := m.Fallback.List(ctx)
		if err != nil {
			m.Logger.Warn("blocklist fallback source failed", "err", err)
		} else {
			ents = fb
		}
	}
	if ents == nil {
		if s := m.snap.Load(); s != nil {
			return s.entries
		}
		ents = []Entry{}
	}
	m.snap.Store(&snapshot{entries: ents, fetchedAt: time.Now()})
	return ents
}

func (m *Matcher) phraseFormsFor(phrase string) phraseForms {
	if pf, ok := m.phrases.Get(phrase); ok {
		return pf
	}
	n := normalize.Normalize(phrase)
	pf := phraseForms{
		text:      n.Text,
		collapsed: n.Collapsed,
		multiWord: strings.Contains(n.Text, " "),
	}
	m.phrases.Add(phrase, pf)
	return pf
}

// Check matches the content against every blocklist entry plus the fixed
// dog-whistle and sexual-emoji sub-detectors. Multi-word phrases match as
// substrings of the normalized text; single words match whole tokens, or as
// a token prefix/suffix for phrases of at least four characters. Phrases of
// at least four characters are additionally matched against the collapsed
// and reversed variants.
func (m *Matcher) Check(ctx context.Context, n normalize.Normalized) Result {
	tokens := strings.Fields(n.Text)
	var warned []string

	for _, e := range m.Entries(ctx) {
		pf := m.phraseFormsFor(e.Phrase)
		if pf.text == "" {
			continue
		}
		if !m.matchForms(pf, n, tokens) {
			continue
		}
		if e.Severity == SeverityWarn {
			warned = append(warned, e.Phrase)
			continue
		}
		return Result{Allowed: false, Category: CategoryBlocklist, Matched: e.Phrase, Warned: warned}
	}

	if hit := matchDogWhistle(n.Raw); hit != "" {
		return Result{Allowed: false, Category: CategoryDogWhistle, Matched: hit, Warned: warned}
	}
	if matchSexualEmojiContext(n.Raw) {
		return Result{Allowed: false, Category: CategorySexualEmoji, Matched: "emoji-context", Warned: warned}
	}

	return Result{Allowed: true, Warned: warned}
}

func (m *Matcher) matchForms(pf phraseForms, n normalize.Normalized, tokens []string) bool {
	if pf.multiWord {
		if strings.Contains(n.Text, pf.text) {
			return true
		}
	} else {
		for _, tok := range tokens {
			if tok == pf.text {
				return true
			}
			if len(pf.text) >= minPartialLen &&
				(strings.HasPrefix(tok, pf.text) || strings.HasSuffix(tok, pf.text)) {
				return true
			}
		}
	}
	if len(pf.collapsed) >= minPartialLen {
		if strings.Contains(n.Collapsed, pf.collapsed) || strings.Contains(n.Reversed, pf.collapsed) {
			return true
		}
	}
	return false
}
