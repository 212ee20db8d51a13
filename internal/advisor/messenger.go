package advisor

import (
	"context"
	"strings"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/rotisserie/eris"
)

// sdkMessenger implements Messenger using the official anthropic-sdk-go.
type sdkMessenger struct {
	client sdk.Client
}

// NewMessenger creates a Messenger backed by the SDK.
func NewMessenger(apiKey string) Messenger {
	return &sdkMessenger{
		client: sdk.NewClient(
			option.WithAPIKey(apiKey),
		),
	}
}

func (m *sdkMessenger) CreateMessage(ctx context.Context, req MessageRequest) (*MessageResponse, error) {
	params := sdk.MessageNewParams{
		Model:     sdk.Model(req.Model),
		MaxTokens: req.MaxTokens,
		Messages: []sdk.MessageParam{
			sdk.NewUserMessage(sdk.NewTextBlock(req.Prompt)),
		},
		Temperature: sdk.Float(req.Temperature),
	}
	if req.System != "" {
		params.System = []sdk.TextBlockParam{{Text: req.System}}
	}

	msg, err := m.client.Messages.New(ctx, params)
	if err != nil {
		return nil, eris.Wrap(err, "advisor: create message")
	}

	var text strings.Builder
	for _, b := range msg.Content {
		text.WriteString(b.Text)
	}

	return &MessageResponse{
		Text:         text.String(),
		InputTokens:  msg.Usage.InputTokens,
		OutputTokens: msg.Usage.OutputTokens,
	}, nil
}
