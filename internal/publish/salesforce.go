package publish

import (
	"context"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/neerchitra/neerchitra-cli/internal/model"
	"github.com/neerchitra/neerchitra-cli/pkg/salesforce"
)

// SalesforcePublisher opens restoration Cases for lakes at or above a
// severity cutoff.
type SalesforcePublisher struct {
	client salesforce.Client
	cutoff model.Status
}

// NewSalesforcePublisher builds a publisher with the given severity
// cutoff; lakes below it are not published.
func NewSalesforcePublisher(client salesforce.Client, cutoff model.Status) (*SalesforcePublisher, error) {
	if cutoff.Severity() < 0 {
		return nil, eris.Errorf("publish: unknown severity cutoff %q", cutoff)
	}
	return &SalesforcePublisher{client: client, cutoff: cutoff}, nil
}

// Publish inserts one Case per qualifying lake via a single collection
// insert. Partial per-record failures fail the whole publish; the caller
// re-runs once the cause is fixed.
func (p *SalesforcePublisher) Publish(ctx context.Context, ranked []model.ScoredLake) (int, error) {
	var records []map[string]any
	for i, l := range ranked {
		if !l.Status.AtLeast(p.cutoff) {
			continue
		}
		records = append(records, caseRecord(i+1, l))
	}
	if len(records) == 0 {
		zap.L().Info("no lakes at or above severity cutoff, nothing to publish",
			zap.String("cutoff", string(p.cutoff)))
		return 0, nil
	}

	results, err := p.client.InsertCollection(ctx, "Case", records)
	if err != nil {
		return 0, eris.Wrap(err, "publish: salesforce cases")
	}

	var failed []string
	for i, r := range results {
		if !r.Success {
			failed = append(failed, fmt.Sprintf("record %d: %s", i, strings.Join(r.Errors, ", ")))
		}
	}
	if len(failed) > 0 {
		return len(records) - len(failed), eris.Errorf("publish: %d of %d cases failed: %s",
			len(failed), len(records), strings.Join(failed, "; "))
	}

	zap.L().Info("published restoration cases to salesforce",
		zap.Int("cases", len(records)),
		zap.String("cutoff", string(p.cutoff)),
	)
	return len(records), nil
}

// caseRecord maps one ranked lake to a Salesforce Case. Critical and High
// lakes open high-priority cases; anything below maps down a step.
func caseRecord(rank int, l model.ScoredLake) map[string]any {
	priority := "Low"
	switch l.Status {
	case model.StatusCritical, model.StatusHigh:
		priority = "High"
	case model.StatusModerate:
		priority = "Medium"
	}

	return map[string]any{
		"Subject":  fmt.Sprintf("Lake restoration: %s", l.Name),
		"Priority": priority,
		"Origin":   "Web",
		"Description": fmt.Sprintf(
			"Restoration queue rank %d. Priority score %.2f (%s). Degradation %.1f%%, population impact %.0f, flood risk %d/10.",
			rank, l.PriorityScore, l.Status, l.DegradationPct, l.PopulationImpact, l.FloodRisk,
		),
	}
}
