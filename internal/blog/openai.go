package blog

import (
	"context"
	"errors"

	openai "github.com/sashabaranov/go-openai"
)

const summaryPrompt = `Você escreve resumos para o blog da Krenke, fabricante de playgrounds.
Responda com um único parágrafo em português, com no máximo 160 caracteres, sem aspas.`

// maxInput limita o texto enviado ao modelo.
const maxInput = 6000

type OpenAISummarizer struct {
	Client *openai.Client
	Model  string
}

func NewOpenAISummarizer(apiKey string) *OpenAISummarizer {
	return &OpenAISummarizer{
		Client: openai.NewClient(apiKey),
		Model:  openai.GPT4oMini,
	}
}

func (o *OpenAISummarizer) Summarize(ctx context.Context, title, text string) (string, error) {
	if r := []rune(text); len(r) > maxInput {
		text = string(r[:maxInput])
	}
	resp, err := o.Client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: summaryPrompt},
			{Role: openai.ChatMessageRoleUser, Content: "TÍTULO: " + title + "\n\n" + text},
		},
		Temperature: 0.3,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("openai: resposta sem escolhas")
	}
	return resp.Choices[0].Message.Content, nil
}
