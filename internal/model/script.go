package model

import "time"

const (
	PlacementHead = "head"
	PlacementBody = "body"
)

// Script é um trecho de terceiros (pixel, tag manager, chat) injetado nas páginas públicas.
type Script struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Content   string    `json:"content"`
	Placement string    `json:"placement"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

func ValidPlacement(p string) bool {
	return p == PlacementHead || p == PlacementBody
}
