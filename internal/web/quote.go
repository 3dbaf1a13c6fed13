package web

import (
	"net/http"
	"net/mail"
	"strings"
	"unicode"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"krenke/internal/model"
	"krenke/internal/observability"
)

const QuoteSuccessMessage = "Orçamento enviado com sucesso!"

type quoteForm struct {
	Name     string
	Phone    string
	Email    string
	Message  string
	Selected []string
}

type quoteData struct {
	Products []model.Product
	Form     quoteForm
	Errors   map[string]string
	Success  string
}

// validate devolve os erros por campo, com as mensagens exibidas no formulário.
func (f quoteForm) validate() map[string]string {
	errs := map[string]string{}
	if strings.TrimSpace(f.Name) == "" {
		errs["name"] = "Informe seu nome."
	}

	digits := 0
	for _, r := range f.Phone {
		if unicode.IsDigit(r) {
			digits++
		}
	}
	switch {
	case strings.TrimSpace(f.Phone) == "":
		errs["phone"] = "Informe seu WhatsApp."
	case digits < 10 || digits > 13:
		errs["phone"] = "Telefone inválido. Informe DDD e número."
	}

	email := strings.TrimSpace(f.Email)
	if email == "" {
		errs["email"] = "Informe seu e-mail."
	} else if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email || !strings.Contains(email[strings.LastIndex(email, "@"):], ".") {
		errs["email"] = "E-mail inválido."
	}
	return errs
}

func (s *Server) handleQuoteForm(w http.ResponseWriter, r *http.Request) {
	products, err := s.Products.List(r.Context())
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	s.render(w, r, http.StatusOK, "site/quote", "Solicitar Orçamento", quoteData{
		Products: products,
		Form:     quoteForm{Selected: r.URL.Query()["produto"]},
	})
}

func (s *Server) handleQuoteSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "formulário inválido", http.StatusBadRequest)
		return
	}
	products, err := s.Products.List(r.Context())
	if err != nil {
		s.serverError(w, r, err)
		return
	}

	form := quoteForm{
		Name:     strings.TrimSpace(r.PostForm.Get("name")),
		Phone:    strings.TrimSpace(r.PostForm.Get("phone")),
		Email:    strings.TrimSpace(r.PostForm.Get("email")),
		Message:  strings.TrimSpace(r.PostForm.Get("message")),
		Selected: r.PostForm["products"],
	}
	data := quoteData{Products: products, Form: form}

	if errs := form.validate(); len(errs) > 0 {
		data.Errors = errs
		s.render(w, r, http.StatusUnprocessableEntity, "site/quote", "Solicitar Orçamento", data)
		return
	}

	if s.Limiter != nil {
		ok, err := s.Limiter.Allow(r.Context(), "quote:"+s.clientIP(r))
		if err != nil {
			s.Log.Warn("falha no limitador de orçamentos", zap.Error(err))
		} else if !ok {
			data.Errors = map[string]string{"form": "Muitas solicitações. Tente novamente em alguns minutos."}
			s.render(w, r, http.StatusTooManyRequests, "site/quote", "Solicitar Orçamento", data)
			return
		}
	}

	// Os produtos são gravados pelo nome, na ordem do catálogo.
	names := []string{}
	for _, p := range products {
		for _, id := range form.Selected {
			if p.ID == id {
				names = append(names, p.Name)
				break
			}
		}
	}

	lead := model.Lead{
		ID:        uuid.NewString(),
		Name:      form.Name,
		Email:     form.Email,
		Phone:     form.Phone,
		Message:   form.Message,
		Products:  names,
		CreatedAt: s.Now(),
	}
	if err := s.Leads.Create(r.Context(), lead); err != nil {
		s.serverError(w, r, err)
		return
	}
	observability.LeadsTotal.Inc()
	s.Log.Info("orçamento recebido", zap.String("lead", lead.ID), zap.Int("produtos", len(names)))

	s.render(w, r, http.StatusOK, "site/quote", "Solicitar Orçamento", quoteData{
		Products: products,
		Success:  QuoteSuccessMessage,
	})
}
