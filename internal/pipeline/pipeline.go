// Package pipeline runs the collection pipeline: search, dedupe,
// profile filter, sentiment scoring.
package pipeline

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/dialectlab/tweetsift/internal/filter"
	"github.com/dialectlab/tweetsift/internal/model"
	"github.com/dialectlab/tweetsift/internal/sentiment"
	"github.com/dialectlab/tweetsift/pkg/twitter"
)

// Pipeline wires the collector, filter, and scorer together. All stages
// run sequentially in a single pass; the only blocking points are the
// client's network calls.
type Pipeline struct {
	Client twitter.Client
	Terms  *filter.TermSet
	Scorer sentiment.Scorer
}

// Params controls one pipeline run.
type Params struct {
	Queries     []string
	MaxPerQuery int
}

// Result holds the outcome of one pipeline run.
type Result struct {
	Collected int
	Deduped   int
	Kept      int
	Tweets    []model.ScoredTweet
}

// Run executes the pipeline for the given queries. Results across all
// queries are unioned; exact duplicates collapse to their first
// occurrence, and output order is first-seen order, so identical inputs
// produce identical output.
func (p *Pipeline) Run(ctx context.Context, params Params) (*Result, error) {
	if p.Client == nil {
		return nil, eris.New("pipeline: client is nil")
	}
	if p.Scorer == nil {
		return nil, eris.New("pipeline: scorer is nil")
	}
	terms := p.Terms
	if terms == nil {
		terms = filter.NewTermSet(nil)
	}

	collected, deduped, err := p.collect(ctx, params)
	if err != nil {
		return nil, err
	}

	scored := filterAndScore(terms, p.Scorer, deduped)

	res := &Result{
		Collected: collected,
		Deduped:   len(deduped),
		Kept:      len(scored),
		Tweets:    scored,
	}
	zap.L().Info("pipeline complete",
		zap.Int("collected", res.Collected),
		zap.Int("deduped", res.Deduped),
		zap.Int("kept", res.Kept),
	)
	return res, nil
}

// collect runs every query and unions the extracted tweets, keeping
// first-seen order.
func (p *Pipeline) collect(ctx context.Context, params Params) (int, []model.Tweet, error) {
	seen := make(map[model.Tweet]struct{})
	var ordered []model.Tweet
	collected := 0

	for _, query := range params.Queries {
		statuses, err := p.Client.SearchAll(ctx, query, params.MaxPerQuery)
		if err != nil {
			return 0, nil, eris.Wrapf(err, "pipeline: search %q", query)
		}
		zap.L().Info("query collected",
			zap.String("query", query),
			zap.Int("statuses", len(statuses)),
		)

		collected += len(statuses)
		for _, s := range statuses {
			t := extract(s)
			if _, dup := seen[t]; dup {
				continue
			}
			seen[t] = struct{}{}
			ordered = append(ordered, t)
		}
	}

	return collected, ordered, nil
}

// extract maps an API status onto the six extracted fields.
func extract(s twitter.Status) model.Tweet {
	return model.Tweet{
		CreatedAt:   s.CreatedAt,
		Name:        s.User.Name,
		ScreenName:  s.User.ScreenName,
		Location:    s.User.Location,
		Description: s.User.Description,
		Text:        s.FullText,
	}
}

// filterAndScore keeps tweets whose profile matches the term set and
// attaches sentiment scores to each survivor.
func filterAndScore(terms *filter.TermSet, scorer sentiment.Scorer, tweets []model.Tweet) []model.ScoredTweet {
	var kept []model.ScoredTweet
	for _, t := range tweets {
		if !terms.Match(t) {
			continue
		}
		score := scorer.Score(t.Text)
		kept = append(kept, model.ScoredTweet{
			Tweet:        t,
			Polarity:     score.Polarity,
			Subjectivity: score.Subjectivity,
		})
	}
	return kept
}
