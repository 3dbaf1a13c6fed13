package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"regexp"
	"strings"

	"krenke/internal/model"
)

// LiteralDeclaration abre o bloco de dados gerado para a página de produtos.
const LiteralDeclaration = "const INITIAL_PRODUCTS: Product[] = "

var (
	reImports        = regexp.MustCompile(`(?m)^\s*import[^;]*;`)
	reDeclaration    = regexp.MustCompile(`(?:export\s+)?const\s+INITIAL_PRODUCTS\s*:\s*Product\[\]\s*=`)
	reTrailingCommas = regexp.MustCompile(`,(\s*[\]}])`)
)

// WriteDataLiteral escreve os produtos como um literal pronto para colar no componente.
func WriteDataLiteral(w io.Writer, products []model.Product) error {
	body, err := marshalProducts(products)
	if err != nil {
		return err
	}
	if _, err := io.WriteString(w, LiteralDeclaration); err != nil {
		return err
	}
	if _, err := w.Write(body); err != nil {
		return err
	}
	_, err = io.WriteString(w, ";")
	return err
}

// WriteJSON escreve o catálogo como products.json.
func WriteJSON(w io.Writer, products []model.Product) error {
	body, err := marshalProducts(products)
	if err != nil {
		return err
	}
	if _, err := w.Write(body); err != nil {
		return err
	}
	_, err = io.WriteString(w, "\n")
	return err
}

func marshalProducts(products []model.Product) ([]byte, error) {
	normalized := make([]model.Product, len(products))
	for i, p := range products {
		if p.Images == nil {
			p.Images = []string{}
		}
		normalized[i] = p
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(normalized); err != nil {
		return nil, fmt.Errorf("encode products: %w", err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// ParseDataLiteral lê de volta um arquivo de dados gerado (imports, declaração,
// ponto e vírgula final e vírgulas sobrando são tolerados).
func ParseDataLiteral(src string) ([]model.Product, error) {
	content := reImports.ReplaceAllString(src, "")
	content = reDeclaration.ReplaceAllString(content, "")
	content = strings.TrimSpace(content)
	content = strings.TrimSuffix(content, ";")
	content = strings.TrimSpace(content)
	content = reTrailingCommas.ReplaceAllString(content, "$1")

	if !strings.HasPrefix(content, "[") {
		return nil, fmt.Errorf("data literal does not contain a product array")
	}

	var products []model.Product
	if err := json.Unmarshal([]byte(content), &products); err != nil {
		return nil, fmt.Errorf("parse products: %w", err)
	}
	for i := range products {
		if products[i].Images == nil {
			products[i].Images = []string{}
		}
	}
	return products, nil
}

// ReadJSON lê um products.json.
func ReadJSON(r io.Reader) ([]model.Product, error) {
	var products []model.Product
	if err := json.NewDecoder(r).Decode(&products); err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}
	return products, nil
}
