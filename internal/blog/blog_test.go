package blog

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type stubSummarizer struct {
	out string
	err error
}

func (s stubSummarizer) Summarize(context.Context, string, string) (string, error) {
	return s.out, s.err
}

func TestPlainText(t *testing.T) {
	got := PlainText("<h2>Segurança</h2>\n<p>Brinquedos   certificados <b>pelo Inmetro</b>.</p>")
	assert.Equal(t, "Segurança Brinquedos certificados pelo Inmetro.", got)
}

func TestExcerptFallback(t *testing.T) {
	long := "<p>" + strings.Repeat("playground seguro ", 20) + "</p>"
	got := Excerpt(context.Background(), nil, nil, "t", long)

	assert.True(t, strings.HasSuffix(got, "…"))
	assert.LessOrEqual(t, utf8.RuneCountInString(got), ExcerptLength+1)
	assert.False(t, strings.HasSuffix(strings.TrimSuffix(got, "…"), " "))
}

func TestExcerptShortText(t *testing.T) {
	assert.Equal(t, "Texto curto.", Excerpt(context.Background(), nil, nil, "t", "<p>Texto curto.</p>"))
}

func TestExcerptUsesSummarizer(t *testing.T) {
	got := Excerpt(context.Background(), stubSummarizer{out: "  Resumo gerado. "}, zap.NewNop(), "t", "<p>conteúdo</p>")
	assert.Equal(t, "Resumo gerado.", got)
}

func TestExcerptSummarizerError(t *testing.T) {
	got := Excerpt(context.Background(), stubSummarizer{err: errors.New("quota")}, zap.NewNop(), "t", "<p>conteúdo do post</p>")
	assert.Equal(t, "conteúdo do post", got)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", Truncate("abc", 5))
	assert.Equal(t, "uma…", Truncate("uma frase longa", 6))
	assert.Equal(t, "abcdef…", Truncate("abcdefgh", 6))
}

func TestSlugFromTitle(t *testing.T) {
	cases := map[string]string{
		"Como escolher um Playground":       "como-escolher-um-playground",
		"Segurança & Manutenção: 5 dicas!":  "seguranca-manutencao-5-dicas",
		"  Pisos de Borracha — Guia 2025  ": "pisos-de-borracha-guia-2025",
		"Ação":                              "acao",
	}
	for in, want := range cases {
		assert.Equal(t, want, SlugFromTitle(in), in)
	}
}
