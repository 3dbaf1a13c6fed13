package model

type ResellerComponent struct {
	Focco  string
	Name   string
	Qty    int
	Price  float64
	Weight float64
}

// ResellerProduct agrupa as linhas da planilha de revenda por código e nome.
type ResellerProduct struct {
	ID          string
	Code        string
	Name        string
	Category    string
	Image       string
	TotalPrice  float64
	TotalWeight float64
	Components  []ResellerComponent
}
