package web

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"krenke/internal/catalog"
	"krenke/internal/model"
	"krenke/internal/repository"
)

type adminProductsData struct {
	Products []model.Product
	Query    string
	Flash    string
}

type productFormData struct {
	Product    model.Product
	OriginalID string
	IsNew      bool
	Error      string
}

func (s *Server) handleAdminProducts(w http.ResponseWriter, r *http.Request) {
	products, err := s.Products.List(r.Context())
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	query := r.URL.Query().Get("q")
	msg := flash(r)
	if n, err := strconv.Atoi(r.URL.Query().Get("atualizados")); err == nil {
		msg = fmt.Sprintf("%d produtos com imagens atualizadas.", n)
	}
	s.render(w, r, http.StatusOK, "admin/products", "Produtos", adminProductsData{
		Products: filterProducts(products, "", query),
		Query:    query,
		Flash:    msg,
	})
}

func (s *Server) handleAdminProductNew(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "admin/product_form", "Novo Produto", productFormData{
		Product: model.Product{Category: model.DefaultCategory},
		IsNew:   true,
	})
}

// handleAdminProductPaste preenche o formulário a partir do HTML de uma página de produto.
func (s *Server) handleAdminProductPaste(w http.ResponseWriter, r *http.Request) {
	data := productFormData{Product: model.Product{Category: model.DefaultCategory}, IsNew: true}
	pasted, err := catalog.ParseProductHTML(r.FormValue("html"))
	if err != nil || (pasted.Title == "" && pasted.Description == "") {
		data.Error = "Não foi possível ler o HTML colado."
		s.render(w, r, http.StatusUnprocessableEntity, "admin/product_form", "Novo Produto", data)
		return
	}
	data.Product.Name = pasted.Title
	data.Product.ID = catalog.Slug(pasted.Title)
	data.Product.Description = pasted.Description
	s.render(w, r, http.StatusOK, "admin/product_form", "Novo Produto", data)
}

func productFromForm(r *http.Request) model.Product {
	p := model.Product{
		ID:          strings.TrimSpace(r.FormValue("id")),
		Name:        strings.TrimSpace(r.FormValue("name")),
		Category:    strings.TrimSpace(r.FormValue("category")),
		Description: strings.TrimSpace(r.FormValue("description")),
		Specs:       r.FormValue("specs"),
		Image:       strings.TrimSpace(r.FormValue("image")),
		Images:      []string{},
	}
	for _, l := range strings.Split(r.FormValue("images"), "\n") {
		if l = strings.TrimSpace(l); l != "" {
			p.Images = append(p.Images, l)
		}
	}
	if p.ID == "" {
		p.ID = catalog.Slug(p.Name)
	}
	if p.Category == "" {
		p.Category = model.DefaultCategory
	}
	return p
}

func validateProduct(p model.Product) string {
	if p.Name == "" {
		return "Informe o nome do produto."
	}
	if p.ID == "" {
		return "Informe o ID do produto."
	}
	return ""
}

func (s *Server) handleAdminProductCreate(w http.ResponseWriter, r *http.Request) {
	p := productFromForm(r)
	data := productFormData{Product: p, IsNew: true}
	if msg := validateProduct(p); msg != "" {
		data.Error = msg
		s.render(w, r, http.StatusUnprocessableEntity, "admin/product_form", "Novo Produto", data)
		return
	}
	err := s.Products.Create(r.Context(), p)
	if errors.Is(err, repository.ErrConflict) {
		data.Error = "Já existe um produto com este ID."
		s.render(w, r, http.StatusConflict, "admin/product_form", "Novo Produto", data)
		return
	}
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	s.Log.Info("produto criado", zap.String("id", p.ID))
	redirect(w, r, "/pgadmin/produtos?ok=criado")
}

func (s *Server) handleAdminProductEdit(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	p, err := s.Products.Get(r.Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		s.handleNotFound(w, r)
		return
	}
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	s.render(w, r, http.StatusOK, "admin/product_form", "Editar Produto", productFormData{Product: p, OriginalID: id})
}

func (s *Server) handleAdminProductUpdate(w http.ResponseWriter, r *http.Request) {
	original := r.PathValue("id")
	p := productFromForm(r)
	data := productFormData{Product: p, OriginalID: original}
	if msg := validateProduct(p); msg != "" {
		data.Error = msg
		s.render(w, r, http.StatusUnprocessableEntity, "admin/product_form", "Editar Produto", data)
		return
	}

	err := s.Products.Update(r.Context(), original, p)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		s.handleNotFound(w, r)
		return
	case errors.Is(err, repository.ErrConflict):
		data.Error = "Já existe um produto com este ID."
		s.render(w, r, http.StatusConflict, "admin/product_form", "Editar Produto", data)
		return
	case err != nil:
		s.serverError(w, r, err)
		return
	}
	s.Log.Info("produto atualizado", zap.String("original", original), zap.String("id", p.ID))
	redirect(w, r, "/pgadmin/produtos?ok=salvo")
}

func (s *Server) handleAdminProductDelete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	err := s.Products.Delete(r.Context(), id)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		s.serverError(w, r, err)
		return
	}
	s.Log.Info("produto excluído", zap.String("id", id))
	redirect(w, r, "/pgadmin/produtos?ok=excluido")
}

// handleAdminProductImages refaz o vínculo de imagens de todos os produtos
// com a pasta de assets. Produtos sem correspondência ficam como estão.
func (s *Server) handleAdminProductImages(w http.ResponseWriter, r *http.Request) {
	if s.AssetsFS == nil {
		s.serverError(w, r, errors.New("assets dir not configured"))
		return
	}
	index, err := catalog.NewAssetIndex(s.AssetsFS, "/assets")
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	products, err := s.Products.List(r.Context())
	if err != nil {
		s.serverError(w, r, err)
		return
	}

	changed := catalog.LinkImages(products, index)
	for _, p := range changed {
		if err := s.Products.Update(r.Context(), p.ID, p); err != nil {
			s.serverError(w, r, err)
			return
		}
	}
	updated := len(changed)
	s.Log.Info("imagens atualizadas", zap.Int("arquivos", index.Len()), zap.Int("produtos", updated))
	redirect(w, r, "/pgadmin/produtos?"+url.Values{"atualizados": {strconv.Itoa(updated)}}.Encode())
}
