package genai

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

type Client struct {
	client *genai.Client
	model  string
}

type Config struct {
	APIKey string
	Model  string
}

func NewClient(cfg Config) (*Client, error) {
	ctx := context.Background()
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: cfg.APIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	model := cfg.Model
	if model == "" {
		model = "gemini-2.5-flash-lite"
	}

	return &Client{
		client: client,
		model:  model,
	}, nil
}

// GenerateJSONFromBytes sends a document payload with a system instruction and
// asks the model for an application/json response. The caller owns reading the
// upload into memory so this client stays free of transport types.
func (c *Client) GenerateJSONFromBytes(ctx context.Context, systemPrompt, userPrompt string, data []byte, mimeType string) (string, error) {
	contents := []*genai.Content{
		{
			Parts: []*genai.Part{
				{Text: userPrompt},
				{
					InlineData: &genai.Blob{
						MIMEType: mimeType,
						Data:     data,
					},
				},
			},
		},
	}

	config := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{
				{Text: systemPrompt},
			},
		},
	}

	result, err := c.client.Models.GenerateContent(
		ctx,
		c.model,
		contents,
		config,
	)
	if err != nil {
		return "", fmt.Errorf("failed to generate json content from document: %w", err)
	}
	return result.Text(), nil
}
