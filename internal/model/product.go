package model

// Product é o registro do catálogo. A ordem dos campos define a ordem
// das chaves no JSON gerado para o site.
type Product struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Category    string   `json:"category"`
	Description string   `json:"description"`
	Specs       string   `json:"specs"`
	Image       string   `json:"image"`
	Images      []string `json:"images"`
}

// DefaultCategory é usada quando a planilha não informa categoria.
const DefaultCategory = "Outros"

// Categories lista as categorias exibidas no filtro do catálogo.
var Categories = []string{
	"Playgrounds Completos",
	"Little Play",
	"Brinquedos Avulsos",
	"Linha Pet",
	"Mobiliário Urbano e Jardim",
	"Pisos de Borracha",
	"Terceirização",
	"Rotomoldagem",
}

func IsCategory(c string) bool {
	for _, v := range Categories {
		if v == c {
			return true
		}
	}
	return false
}
