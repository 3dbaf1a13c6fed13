package blog

import (
	"context"
	"regexp"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const ExcerptLength = 160

// Summarizer gera um resumo curto do conteúdo de um post.
type Summarizer interface {
	Summarize(ctx context.Context, title, text string) (string, error)
}

// PlainText extrai o texto visível do HTML do post.
func PlainText(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return strings.Join(strings.Fields(html), " ")
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}

// Excerpt usa o summarizer quando houver e cai para o início do texto.
func Excerpt(ctx context.Context, s Summarizer, log *zap.Logger, title, html string) string {
	text := PlainText(html)
	if s != nil && text != "" {
		summary, err := s.Summarize(ctx, title, text)
		if err == nil && strings.TrimSpace(summary) != "" {
			return strings.TrimSpace(summary)
		}
		if log != nil {
			log.Warn("falha ao gerar resumo, usando trecho do texto", zap.String("title", title), zap.Error(err))
		}
	}
	return Truncate(text, ExcerptLength)
}

// Truncate corta em até max runas, no último espaço, e acrescenta reticências.
func Truncate(text string, max int) string {
	r := []rune(text)
	if len(r) <= max {
		return text
	}
	cut := string(r[:max])
	if i := strings.LastIndex(cut, " "); i > 0 {
		cut = cut[:i]
	}
	return strings.TrimRight(cut, " ,.;:") + "…"
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

func SlugFromTitle(title string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	s, _, err := transform.String(t, title)
	if err != nil {
		s = title
	}
	s = nonSlug.ReplaceAllString(strings.ToLower(s), "-")
	return strings.Trim(s, "-")
}
