// Package advisor renders the "Water Body Intelligence" restoration brief
// for a ranked queue. With an API key it asks the Anthropic messages API
// for a short narrative; without one, or when the call fails, it falls
// back to a deterministic template over the same inputs, flagged offline.
// The scoring engine never depends on this package.
package advisor

import (
	"context"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/neerchitra/neerchitra-cli/internal/config"
	"github.com/neerchitra/neerchitra-cli/internal/engine"
	"github.com/neerchitra/neerchitra-cli/internal/model"
)

// Messenger is the single model call the advisor needs.
type Messenger interface {
	CreateMessage(ctx context.Context, req MessageRequest) (*MessageResponse, error)
}

// MessageRequest carries one advisory prompt.
type MessageRequest struct {
	Model       string
	MaxTokens   int64
	System      string
	Prompt      string
	Temperature float64
}

// MessageResponse is the text of the model reply plus token accounting.
type MessageResponse struct {
	Text         string
	InputTokens  int64
	OutputTokens int64
}

// Brief is the finished advisory narrative.
type Brief struct {
	Text    string `json:"text"`
	Offline bool   `json:"offline"`
	Model   string `json:"model,omitempty"`
}

// Advisor produces restoration briefs. A nil messenger means offline-only.
type Advisor struct {
	messenger Messenger
	cfg       config.AdvisorConfig
}

// New builds an Advisor from config. Without an API key the advisor runs
// offline-only.
func New(cfg config.AdvisorConfig) *Advisor {
	var m Messenger
	if cfg.APIKey != "" {
		m = NewMessenger(cfg.APIKey)
	}
	return &Advisor{messenger: m, cfg: cfg}
}

// NewWithMessenger builds an Advisor around an explicit messenger.
func NewWithMessenger(m Messenger, cfg config.AdvisorConfig) *Advisor {
	return &Advisor{messenger: m, cfg: cfg}
}

const systemPrompt = `You are a water-resources restoration advisor for the
lakes of Tamil Nadu. Given a ranked degradation queue and its aggregates,
write a short actionable brief: which lakes need intervention first, why,
and what a restoration program should prioritize. Stay under 300 words.
Do not invent data beyond the figures provided.`

// Brief renders the advisory for one scoring pass. Single attempt; a
// failed model call degrades to the offline template rather than failing
// the caller (the brief is a presentation nicety, never load-bearing).
func (a *Advisor) Brief(ctx context.Context, ranked []model.ScoredLake, summary engine.Summary) (Brief, error) {
	if len(ranked) == 0 {
		return Brief{}, eris.New("advisor: nothing to brief on, ranked queue is empty")
	}

	if a.messenger == nil {
		return Brief{Text: offlineBrief(ranked, summary), Offline: true}, nil
	}

	resp, err := a.messenger.CreateMessage(ctx, MessageRequest{
		Model:       a.cfg.Model,
		MaxTokens:   int64(a.cfg.MaxTokens),
		System:      systemPrompt,
		Prompt:      buildPrompt(ranked, summary),
		Temperature: 0,
	})
	if err != nil {
		zap.L().Warn("advisor: model call failed, serving offline brief", zap.Error(err))
		return Brief{Text: offlineBrief(ranked, summary), Offline: true}, nil
	}

	zap.L().Debug("advisor: brief generated",
		zap.String("model", a.cfg.Model),
		zap.Int64("input_tokens", resp.InputTokens),
		zap.Int64("output_tokens", resp.OutputTokens),
	)
	return Brief{Text: resp.Text, Model: a.cfg.Model}, nil
}

// buildPrompt serializes the queue and aggregates for the model. Plain
// text rows keep the prompt cheap and the figures unambiguous.
func buildPrompt(ranked []model.ScoredLake, summary engine.Summary) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Restoration priority queue (%d lakes, preset %s):\n", summary.LakeCount, summary.Preset)
	for i, l := range ranked {
		fmt.Fprintf(&b, "%d. %s: score %.2f, status %s, degradation %.1f%%, population impact %.0f, flood risk %d/10\n",
			i+1, l.Name, l.PriorityScore, l.Status, l.DegradationPct, l.PopulationImpact, l.FloodRisk)
	}

	fmt.Fprintf(&b, "\nAggregates: average degradation %.1f%%, total area lost %.1f ha.\n",
		summary.AverageDegradation, summary.TotalAreaLost)
	fmt.Fprintf(&b, "Status counts: %d Critical, %d High, %d Moderate, %d Low.\n",
		summary.StatusCounts[model.StatusCritical],
		summary.StatusCounts[model.StatusHigh],
		summary.StatusCounts[model.StatusModerate],
		summary.StatusCounts[model.StatusLow],
	)

	return b.String()
}

// offlineBrief is the deterministic fallback narrative: same inputs, same
// text, no model involved.
func offlineBrief(ranked []model.ScoredLake, summary engine.Summary) string {
	var b strings.Builder

	b.WriteString("Water Body Intelligence Brief (offline)\n\n")
	fmt.Fprintf(&b, "%d lakes assessed under the %q preset. Average degradation is %.1f%%; net area lost %.1f ha.\n\n",
		summary.LakeCount, summary.Preset, summary.AverageDegradation, summary.TotalAreaLost)

	critical := summary.StatusCounts[model.StatusCritical]
	if critical > 0 {
		fmt.Fprintf(&b, "%d lake(s) are Critical and need immediate intervention:\n", critical)
		for i, l := range ranked {
			if l.Status != model.StatusCritical {
				continue
			}
			fmt.Fprintf(&b, "  %d. %s (score %.2f, degradation %.1f%%, %0.f people affected)\n",
				i+1, l.Name, l.PriorityScore, l.DegradationPct, l.PopulationImpact)
		}
		b.WriteString("\n")
	} else {
		b.WriteString("No lakes are currently Critical.\n\n")
	}

	top := ranked[0]
	fmt.Fprintf(&b, "Top of the restoration queue is %s at %.2f. ", top.Name, top.PriorityScore)
	b.WriteString("Recommended focus: desilting and inflow restoration for the highest-degradation lakes, encroachment review where flood risk is 7/10 or above, and a follow-up survey for every lake scoring above 50.\n")

	return b.String()
}
