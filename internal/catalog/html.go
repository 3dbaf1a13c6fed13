package catalog

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// PastedProduct é o que dá para aproveitar do HTML colado no cadastro de produto.
type PastedProduct struct {
	Title       string
	Description string
}

// ParseProductHTML lê o HTML de uma página de produto do site antigo e devolve
// título e descrição curta, quando existirem.
func ParseProductHTML(html string) (PastedProduct, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return PastedProduct{}, err
	}

	var out PastedProduct
	out.Title = strings.TrimSpace(doc.Find(".product_title").First().Text())
	out.Description = strings.TrimSpace(doc.Find(".product-next").First().Text())
	if out.Description == "" {
		out.Description = strings.TrimSpace(doc.Find(".woocommerce-product-details__short-description").First().Text())
	}
	return out, nil
}
