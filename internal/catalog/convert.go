// Package catalog converte a planilha exportada do site antigo no catálogo de produtos
// e mantém as rotinas auxiliares do catálogo (imagens, importação em lote).
package catalog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	"krenke/internal/model"
)

var (
	reProductNext  = regexp.MustCompile(`(?s)<div class="product-next">(.*?)</div>`)
	reShortDetails = regexp.MustCompile(`(?s)<div class="description woocommerce-product-details__short-description">(.*?)</div>`)
	reTags         = regexp.MustCompile(`<[^>]+>`)
)

// ConvertCSV lê a exportação da planilha de produtos.
// Colunas: título, descrição em HTML, categoria. A primeira linha é o cabeçalho.
func ConvertCSV(r io.Reader) ([]model.Product, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	if _, err := reader.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("csv is empty")
		}
		return nil, fmt.Errorf("read header: %w", err)
	}

	products := []model.Product{}
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		if len(row) < 3 {
			continue
		}
		p, ok := productFromRow(row)
		if !ok {
			continue
		}
		products = append(products, p)
	}
	return products, nil
}

func productFromRow(row []string) (model.Product, bool) {
	title := strings.TrimSpace(row[0])
	if title == "" {
		return model.Product{}, false
	}
	descriptionHTML := row[1]
	category := strings.TrimSpace(row[2])
	if category == "" {
		category = model.DefaultCategory
	}

	shortDesc := ShortDescription(descriptionHTML)
	if shortDesc == "" {
		shortDesc = "Produto da categoria " + category
	}

	return model.Product{
		ID:          Slug(title),
		Name:        title,
		Category:    category,
		Description: shortDesc,
		Specs:       NormalizeSpecs(descriptionHTML),
		Image:       "",
		Images:      []string{},
	}, true
}

// ShortDescription extrai o texto de marketing do HTML do produto.
func ShortDescription(html string) string {
	if m := reProductNext.FindStringSubmatch(html); m != nil {
		return strings.TrimSpace(stripTags(m[1]))
	}
	if m := reShortDetails.FindStringSubmatch(html); m != nil {
		content, _, _ := strings.Cut(m[1], "<table")
		return strings.TrimSpace(stripTags(content))
	}
	return ""
}

// Slug gera o identificador do produto a partir do título.
func Slug(title string) string {
	id := strings.ToLower(title)
	id = strings.ReplaceAll(id, " ", "-")
	return strings.ReplaceAll(id, "/", "-")
}

// NormalizeSpecs troca as sequências literais "\n" da exportação por quebras de linha.
func NormalizeSpecs(html string) string {
	return strings.ReplaceAll(html, `\n`, "\n")
}

func stripTags(s string) string {
	return reTags.ReplaceAllString(s, "")
}
