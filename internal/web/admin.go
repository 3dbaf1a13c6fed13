package web

import (
	"net/http"

	"krenke/internal/model"
)

const dashboardLeads = 5

var flashMessages = map[string]string{
	"salvo":     "Alterações salvas.",
	"criado":    "Registro criado com sucesso.",
	"excluido":  "Registro excluído.",
	"publicado": "Status de publicação atualizado.",
}

func flash(r *http.Request) string {
	return flashMessages[r.URL.Query().Get("ok")]
}

type dashboardData struct {
	Products int
	Posts    int
	Leads    int
	Latest   []model.Lead
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var data dashboardData
	var err error
	if data.Products, err = s.Products.Count(ctx); err != nil {
		s.serverError(w, r, err)
		return
	}
	if data.Posts, err = s.Posts.Count(ctx); err != nil {
		s.serverError(w, r, err)
		return
	}
	leads, err := s.Leads.List(ctx)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	data.Leads = len(leads)
	if len(leads) > dashboardLeads {
		leads = leads[:dashboardLeads]
	}
	data.Latest = leads
	s.render(w, r, http.StatusOK, "admin/dashboard", "Dashboard", data)
}
