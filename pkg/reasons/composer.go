package reasons

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"shopmate/internal/models"

	log "github.com/sirupsen/logrus"
)

// DefaultTimeout bounds a single model call.
const DefaultTimeout = 5 * time.Second

// Completer is the minimal text-completion capability the composer needs.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Strategy selects how reasons are requested from the model.
type Strategy string

const (
	// StrategyBatch sends one prompt for all sites and expects a JSON object.
	StrategyBatch Strategy = "batch"
	// StrategyPerSite sends one prompt per site and expects a sentence.
	StrategyPerSite Strategy = "per_site"
)

// ParseStrategy returns the strategy for a config or flag value. Empty means StrategyBatch.
func ParseStrategy(s string) (Strategy, bool) {
	switch Strategy(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_")) {
	case "", StrategyBatch:
		return StrategyBatch, true
	case StrategyPerSite:
		return StrategyPerSite, true
	}
	return "", false
}

// Options configures a Composer. Zero values select the defaults.
type Options struct {
	Strategy    Strategy
	Timeout     time.Duration
	BatchPrompt string
	SitePrompt  string
}

// Reason is a justification together with where it came from.
type Reason struct {
	Text   string              `json:"text"`
	Source models.ReasonSource `json:"source"`
}

// Result carries the reasons for one query. ModelErr is the failure that
// forced a fallback, nil when every reason is model-backed or no model is
// configured.
type Result struct {
	Reasons  map[string]Reason
	ModelErr error
}

// Texts returns the plain site name to reason mapping.
func (r Result) Texts() map[string]string {
	out := make(map[string]string, len(r.Reasons))
	for name, reason := range r.Reasons {
		out[name] = reason.Text
	}
	return out
}

// Composer produces one justification per site, preferring the model and
// falling back to DeterministicReason.
type Composer struct {
	completer   Completer
	strategy    Strategy
	timeout     time.Duration
	batchPrompt string
	sitePrompt  string
	sentences   *sentenceSplitter
}

// NewComposer creates a composer. A nil completer means fallback reasons only.
func NewComposer(completer Completer, opts Options) (*Composer, error) {
	strategy, ok := ParseStrategy(string(opts.Strategy))
	if !ok {
		return nil, fmt.Errorf("unknown reason strategy %q", opts.Strategy)
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if strings.TrimSpace(opts.BatchPrompt) == "" {
		opts.BatchPrompt = DefaultBatchPrompt
	}
	if strings.TrimSpace(opts.SitePrompt) == "" {
		opts.SitePrompt = DefaultSitePrompt
	}
	splitter, err := newSentenceSplitter()
	if err != nil {
		return nil, fmt.Errorf("init sentence tokenizer: %w", err)
	}
	return &Composer{
		completer:   completer,
		strategy:    strategy,
		timeout:     opts.Timeout,
		batchPrompt: opts.BatchPrompt,
		sitePrompt:  opts.SitePrompt,
		sentences:   splitter,
	}, nil
}

// ModelAvailable reports whether a completer is configured.
func (c *Composer) ModelAvailable() bool { return c.completer != nil }

// Strategy reports the configured strategy.
func (c *Composer) Strategy() Strategy { return c.strategy }

// WithoutModel returns a copy of the composer that never calls the model.
func (c *Composer) WithoutModel() *Composer {
	cp := *c
	cp.completer = nil
	return &cp
}

// WithStrategy returns a copy of the composer using another strategy.
func (c *Composer) WithStrategy(s Strategy) *Composer {
	cp := *c
	cp.strategy = s
	return &cp
}

// Compose returns a reason for every site. Model failures never surface as
// errors; they are reported through Result.ModelErr.
func (c *Composer) Compose(ctx context.Context, sites []models.Site, category, query string) Result {
	if len(sites) == 0 {
		return Result{Reasons: map[string]Reason{}}
	}
	if c.completer == nil {
		return fallbackResult(sites, category, query, nil)
	}
	if c.strategy == StrategyPerSite {
		return c.composePerSite(ctx, sites, category, query)
	}
	return c.composeBatch(ctx, sites, category, query)
}

func (c *Composer) composeBatch(ctx context.Context, sites []models.Site, category, query string) Result {
	prompt := renderBatchPrompt(c.batchPrompt, query, category, sites)
	raw, err := c.call(models.WithOperation(ctx, models.OperationReasonsBatch), prompt)
	if err != nil {
		log.WithError(err).WithField("category", category).Warn("Batch reason generation failed, using fallback reasons")
		return fallbackResult(sites, category, query, err)
	}
	texts, err := parseBatch(raw, sites, c.sentences)
	if err != nil {
		log.WithError(err).WithField("category", category).Warn("Discarding malformed batch reasons, using fallback reasons")
		return fallbackResult(sites, category, query, err)
	}
	out := make(map[string]Reason, len(sites))
	for _, s := range sites {
		out[s.Name] = Reason{Text: texts[s.Name], Source: models.ReasonSourceModel}
	}
	return Result{Reasons: out}
}

func (c *Composer) composePerSite(ctx context.Context, sites []models.Site, category, query string) Result {
	out := make(map[string]Reason, len(sites))
	var errs []error
	for _, s := range sites {
		text, err := c.siteReason(ctx, s, category, query)
		if err != nil {
			log.WithError(err).WithField("site", s.Name).Warn("Site reason generation failed, using fallback reason")
			errs = append(errs, fmt.Errorf("%s: %w", s.Name, err))
			out[s.Name] = Reason{Text: DeterministicReason(s, category, query), Source: models.ReasonSourceFallback}
			continue
		}
		out[s.Name] = Reason{Text: text, Source: models.ReasonSourceModel}
	}
	return Result{Reasons: out, ModelErr: errors.Join(errs...)}
}

func (c *Composer) siteReason(ctx context.Context, site models.Site, category, query string) (string, error) {
	raw, err := c.call(models.WithOperation(ctx, models.OperationReasonSite), renderSitePrompt(c.sitePrompt, query, category, site))
	if err != nil {
		return "", err
	}
	text := c.sentences.First(raw)
	if text == "" {
		return "", fmt.Errorf("%w: empty response", models.ErrMalformedModelOutput)
	}
	return text, nil
}

type completion struct {
	text string
	err  error
}

// call runs one completion bounded by the composer timeout. A call that
// ignores cancellation is abandoned when the deadline passes.
func (c *Composer) call(ctx context.Context, prompt string) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	done := make(chan completion, 1)
	go func() {
		text, err := c.completer.Complete(callCtx, prompt)
		done <- completion{text: text, err: err}
	}()

	select {
	case res := <-done:
		if res.err != nil {
			return "", fmt.Errorf("%w: %w", models.ErrModelUnavailable, res.err)
		}
		return res.text, nil
	case <-callCtx.Done():
		return "", fmt.Errorf("%w: %w", models.ErrModelUnavailable, callCtx.Err())
	}
}

func fallbackResult(sites []models.Site, category, query string, cause error) Result {
	out := make(map[string]Reason, len(sites))
	for name, text := range Fallback(sites, category, query) {
		out[name] = Reason{Text: text, Source: models.ReasonSourceFallback}
	}
	return Result{Reasons: out, ModelErr: cause}
}
