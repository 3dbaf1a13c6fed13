package reseller

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"krenke/internal/model"
)

const PlaceholderImage = "https://via.placeholder.com/400?text=Sem+Imagem"

const (
	colCode      = "Código"
	colCategory  = "CATEGORIA"
	colName      = "Nome do Produto"
	colImage     = "Imagem"
	colQty       = "Qtd"
	colFocco     = "Focco"
	colComponent = "Componentes"
	colWeight    = "Peso + Qtd"
	colPrice     = "R$ + Complexidade"
)

// Parse lê a planilha de revenda e agrupa as linhas de componentes por
// código e nome do produto, na ordem em que aparecem.
func Parse(r io.Reader) ([]model.ResellerProduct, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return []model.ResellerProduct{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	index := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		index[h] = i
	}
	field := func(row []string, name string) string {
		i, ok := index[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	products := []model.ResellerProduct{}
	byKey := map[string]int{}
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		if blank(row) {
			continue
		}

		code, name := field(row, colCode), field(row, colName)
		key := code + "-" + name
		pos, ok := byKey[key]
		if !ok {
			image := field(row, colImage)
			if image == "" {
				image = PlaceholderImage
			}
			products = append(products, model.ResellerProduct{
				ID:         key,
				Code:       code,
				Name:       name,
				Category:   field(row, colCategory),
				Image:      image,
				Components: []model.ResellerComponent{},
			})
			pos = len(products) - 1
			byKey[key] = pos
		}

		price := ParseCurrency(field(row, colPrice))
		weight := ParseWeight(field(row, colWeight))
		p := &products[pos]
		p.TotalPrice += price
		p.TotalWeight += weight
		p.Components = append(p.Components, model.ResellerComponent{
			Focco:  field(row, colFocco),
			Name:   field(row, colComponent),
			Qty:    leadingInt(field(row, colQty)),
			Price:  price,
			Weight: weight,
		})
	}
	return products, nil
}

func blank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

var (
	nonNumeric   = regexp.MustCompile(`[^\d.]`)
	leadingFloat = regexp.MustCompile(`^\d*\.?\d*`)
	leadingDigit = regexp.MustCompile(`^\s*-?\d+`)
)

// ParseCurrency interpreta valores como "R$ 1.234,56". Valores inválidos viram 0.
func ParseCurrency(v string) float64 {
	v = strings.ReplaceAll(v, "R$", "")
	v = strings.ReplaceAll(v, ".", "")
	v = strings.ReplaceAll(v, ",", ".")
	return parseNumber(nonNumeric.ReplaceAllString(v, ""))
}

// ParseWeight interpreta pesos com vírgula decimal, como "12,5 kg".
func ParseWeight(v string) float64 {
	v = strings.ReplaceAll(v, ",", ".")
	return parseNumber(nonNumeric.ReplaceAllString(v, ""))
}

func parseNumber(v string) float64 {
	f, err := strconv.ParseFloat(leadingFloat.FindString(v), 64)
	if err != nil {
		return 0
	}
	return f
}

func leadingInt(v string) int {
	n, err := strconv.Atoi(strings.TrimSpace(leadingDigit.FindString(v)))
	if err != nil {
		return 0
	}
	return n
}
