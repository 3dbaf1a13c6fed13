package web

import (
	"encoding/csv"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"krenke/internal/model"
	"krenke/internal/repository"
)

type adminLeadsData struct {
	Leads []model.Lead
	Flash string
}

func (s *Server) handleAdminLeads(w http.ResponseWriter, r *http.Request) {
	leads, err := s.Leads.List(r.Context())
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	s.render(w, r, http.StatusOK, "admin/leads", "Orçamentos", adminLeadsData{Leads: leads, Flash: flash(r)})
}

func (s *Server) handleAdminLeadDelete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	err := s.Leads.Delete(r.Context(), id)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		s.serverError(w, r, err)
		return
	}
	s.Log.Info("orçamento excluído", zap.String("lead", id))
	redirect(w, r, "/pgadmin/orcamentos?ok=excluido")
}

var leadCSVHeader = []string{"Data", "Nome", "E-mail", "Telefone", "Produtos", "Mensagem"}

func (s *Server) handleAdminLeadsCSV(w http.ResponseWriter, r *http.Request) {
	leads, err := s.Leads.List(r.Context())
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="orcamentos.csv"`)

	cw := csv.NewWriter(w)
	_ = cw.Write(leadCSVHeader)
	for _, l := range leads {
		_ = cw.Write([]string{
			l.CreatedAt.Format("02/01/2006 15:04"),
			l.Name,
			l.Email,
			l.Phone,
			strings.Join(l.Products, "; "),
			l.Message,
		})
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		s.Log.Error("falha ao exportar orçamentos", zap.Error(err))
	}
}
