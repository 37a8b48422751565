package openai

import (
	"context"
	"fmt"
	"strings"

	oa "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

type Commentator struct {
	cli oa.Client
}

func NewCommentator(apiKey string) *Commentator {
	client := oa.NewClient(option.WithAPIKey(apiKey))
	return &Commentator{cli: client}
}

// Describe asks the model for a short plain-language read of a finished search.
// report is the text summary the bot already shows the user.
func (c *Commentator) Describe(ctx context.Context, report string) (string, error) {
	systemPrompt := `You are a portfolio analyst. You receive the output of a brute-force search over
long-only weight allocations (steps of 10%) that maximized the Sharpe ratio over a historical window.

Reply in at most 6 short bullet points:
- what the chosen mix concentrates on
- how it compared to the benchmark
- why an in-sample Sharpe ratio overstates future performance
Do not give personalised investment advice.`

	resp, err := c.cli.Chat.Completions.New(ctx, oa.ChatCompletionNewParams{
		Model: "gpt-4",
		Messages: []oa.ChatCompletionMessageParamUnion{
			oa.SystemMessage(systemPrompt),
			oa.UserMessage(report),
		},
		MaxTokens: oa.Int(400),
	})
	if err != nil {
		return "", fmt.Errorf("OpenAI API error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from OpenAI")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
