package catalog

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"krenke/internal/model"
)

var sampleProducts = []model.Product{
	{
		ID:          "kmp-0101",
		Name:        "KMP 0101",
		Category:    "Playgrounds Completos",
		Description: "Recomendado para crianças de 03 a 12 anos.",
		Specs:       "<h2 class=\"product_title\">KMP 0101</h2>\n<table><tr><th>Peso</th><td>241,28 KG</td></tr></table>",
		Image:       "",
		Images:      []string{},
	},
	{
		ID:          "gangorra",
		Name:        "Gangorra",
		Category:    "Outros",
		Description: "Produto da categoria Outros",
		Specs:       "",
		Image:       "/assets/gangorra.png",
		Images:      []string{"/assets/gangorra.png"},
	},
}

func TestWriteDataLiteral(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteDataLiteral(&buf, sampleProducts))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "const INITIAL_PRODUCTS: Product[] = [\n  {\n    \"id\": \"kmp-0101\",\n    \"name\": \"KMP 0101\","))
	assert.True(t, strings.HasSuffix(out, "\n];"))
	assert.Contains(t, out, `<h2 class=\"product_title\">`)
	assert.Contains(t, out, `"images": []`)
	assert.Less(t, strings.Index(out, `"description"`), strings.Index(out, `"specs"`))
	assert.Less(t, strings.Index(out, `"specs"`), strings.Index(out, `"image"`))
}

func TestWriteDataLiteralNilImages(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteDataLiteral(&buf, []model.Product{{ID: "a", Name: "A"}}))
	assert.Contains(t, buf.String(), `"images": []`)
	assert.NotContains(t, buf.String(), "null")
}

func TestParseDataLiteralRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteDataLiteral(&buf, sampleProducts))

	src := "import { Product } from './types';\n\nexport " + buf.String() + "\n"
	products, err := ParseDataLiteral(src)
	require.NoError(t, err)
	if diff := cmp.Diff(sampleProducts, products); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestParseDataLiteralTrailingCommas(t *testing.T) {
	src := `export const INITIAL_PRODUCTS: Product[] = [
  { "id": "a", "name": "A", "category": "Outros", "images": ["x.png",], },
];`
	products, err := ParseDataLiteral(src)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, []string{"x.png"}, products[0].Images)
}

func TestParseDataLiteralRejectsGarbage(t *testing.T) {
	_, err := ParseDataLiteral("const x = 1;")
	assert.Error(t, err)
}

func TestJSONRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, sampleProducts))
	products, err := ReadJSON(&buf)
	require.NoError(t, err)
	assert.Equal(t, sampleProducts, products)
}
