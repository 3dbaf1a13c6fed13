package model

import "time"

// Lead é o contato capturado pelo formulário de orçamento.
// Products guarda os nomes dos produtos escolhidos, não os IDs.
type Lead struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Message   string    `json:"message"`
	Products  []string  `json:"products"`
	CreatedAt time.Time `json:"created_at"`
}
