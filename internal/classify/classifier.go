// Package classify decides which supplier issued a document from its text.
package classify

import (
	"log/slog"
	"strings"

	"github.com/cloudflare/ahocorasick"

	"github.com/joseph-ayodele/invoice-extractor/constants"
	"github.com/joseph-ayodele/invoice-extractor/internal/strategy"
)

// Classifier evaluates an ordered rule list over the tokens found in a
// single Aho-Corasick pass. It is safe for concurrent use.
type Classifier struct {
	rules    []Rule
	tokens   []string
	matcher  *ahocorasick.Matcher
	registry *strategy.Registry
	logger   *slog.Logger
}

type Option func(*Classifier)

// WithRules replaces the default rule list.
func WithRules(rules []Rule) Option {
	return func(c *Classifier) { c.rules = rules }
}

func New(registry *strategy.Registry, logger *slog.Logger, opts ...Option) *Classifier {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Classifier{
		rules:    DefaultRules(),
		registry: registry,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(c)
	}

	seen := make(map[string]struct{})
	for _, r := range c.rules {
		for _, t := range r.When.tokens {
			if _, ok := seen[t]; ok {
				continue
			}
			seen[t] = struct{}{}
			c.tokens = append(c.tokens, t)
		}
	}
	c.matcher = ahocorasick.NewStringMatcher(c.tokens)
	return c
}

// Identify returns the supplier of the first matching rule, or Unknown.
func (c *Classifier) Identify(text string) constants.Supplier {
	found := c.scan(text)
	for _, r := range c.rules {
		if r.When.eval(found) {
			return r.Supplier
		}
	}
	return constants.SupplierUnknown
}

// Classify identifies the supplier and resolves its strategy.
func (c *Classifier) Classify(text string) (constants.Supplier, strategy.Strategy) {
	id := c.Identify(text)
	c.logger.Debug("supplier classified", "supplier", id)
	if c.registry == nil {
		return id, strategy.Default()
	}
	return id, c.registry.Lookup(id)
}

func (c *Classifier) scan(text string) tokenSet {
	found := make(tokenSet)
	if len(c.tokens) == 0 {
		return found
	}
	for _, idx := range c.matcher.MatchThreadSafe([]byte(strings.ToUpper(text))) {
		found[c.tokens[idx]] = struct{}{}
	}
	return found
}
