// Package publish pushes a single run's ranked queue to collaboration
// tools. Each publish is a point-in-time snapshot: one attempt per batch,
// no retries, and the first failure stops the run.
package publish

import (
	"context"
	"fmt"

	"github.com/jomei/notionapi"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/neerchitra/neerchitra-cli/internal/model"
	"github.com/neerchitra/neerchitra-cli/pkg/notion"
)

// NotionPublisher creates one page per ranked lake in a Notion database.
type NotionPublisher struct {
	client     notion.Client
	databaseID string
}

// NewNotionPublisher builds a publisher for the given target database.
func NewNotionPublisher(client notion.Client, databaseID string) *NotionPublisher {
	return &NotionPublisher{client: client, databaseID: databaseID}
}

// Publish creates a page for every lake in queue order and returns how
// many pages were created before any failure.
func (p *NotionPublisher) Publish(ctx context.Context, ranked []model.ScoredLake) (int, error) {
	for i, l := range ranked {
		if _, err := p.client.CreatePage(ctx, p.pageRequest(i+1, l)); err != nil {
			return i, eris.Wrapf(err, "publish: notion page for %q (rank %d)", l.Name, i+1)
		}
	}

	zap.L().Info("published ranked queue to notion",
		zap.Int("pages", len(ranked)),
		zap.String("database_id", p.databaseID),
	)
	return len(ranked), nil
}

func (p *NotionPublisher) pageRequest(rank int, l model.ScoredLake) *notionapi.PageCreateRequest {
	return &notionapi.PageCreateRequest{
		Parent: notionapi.Parent{
			Type:       notionapi.ParentTypeDatabaseID,
			DatabaseID: notionapi.DatabaseID(p.databaseID),
		},
		Properties: notionapi.Properties{
			"Name": notionapi.TitleProperty{
				Title: []notionapi.RichText{
					{Text: &notionapi.Text{Content: l.Name}},
				},
			},
			"Rank": notionapi.NumberProperty{
				Number: float64(rank),
			},
			"Score": notionapi.NumberProperty{
				Number: l.PriorityScore,
			},
			"Status": notionapi.SelectProperty{
				Select: notionapi.Option{Name: string(l.Status)},
			},
			"District": notionapi.RichTextProperty{
				RichText: []notionapi.RichText{
					{Text: &notionapi.Text{Content: l.District}},
				},
			},
			"Degradation": notionapi.RichTextProperty{
				RichText: []notionapi.RichText{
					{Text: &notionapi.Text{Content: fmt.Sprintf("%.1f%%", l.DegradationPct)}},
				},
			},
		},
	}
}
