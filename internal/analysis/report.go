package analysis

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/kldn/tennis-scorer/internal/scoring"
)

// Input is one match to analyze.
type Input struct {
	ID     string
	Config scoring.Config
	Events []scoring.PointEvent
}

// Report bundles every analysis of one match.
type Report struct {
	ID       string         `json:"id,omitempty"`
	Contexts []PointContext `json:"contexts"`
	Stats    MatchStats     `json:"stats"`
	Momentum MomentumSeries `json:"momentum"`
	Pace     PaceStats      `json:"pace"`
	Digest   string         `json:"digest"`
}

// Build replays in and runs every analysis over the result.
func Build(in Input) (Report, error) {
	contexts := Replay(in.Config, in.Events)
	digest, err := Digest(contexts)
	if err != nil {
		return Report{}, fmt.Errorf("digest match %s: %w", in.ID, err)
	}
	return Report{
		ID:       in.ID,
		Contexts: contexts,
		Stats:    Analyze(contexts),
		Momentum: Momentum(contexts),
		Pace:     Pace(contexts),
		Digest:   digest,
	}, nil
}

// BuildAll builds reports for independent matches concurrently, with at most
// limit in flight (no limit when limit <= 0). Reports are returned in input
// order. The first error, or cancellation of ctx, stops the remaining work.
func BuildAll(ctx context.Context, inputs []Input, limit int) ([]Report, error) {
	reports := make([]Report, len(inputs))

	g, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, in := range inputs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			report, err := Build(in)
			if err != nil {
				return err
			}
			reports[i] = report
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return reports, nil
}
