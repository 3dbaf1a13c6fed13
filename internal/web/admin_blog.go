package web

import (
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"krenke/internal/blog"
	"krenke/internal/model"
	"krenke/internal/repository"
)

type adminPostsData struct {
	Posts []model.Post
	Flash string
}

type postFormData struct {
	Post  model.Post
	IsNew bool
	Error string
}

func (s *Server) handleAdminPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := s.Posts.List(r.Context())
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	s.render(w, r, http.StatusOK, "admin/posts", "Blog", adminPostsData{Posts: posts, Flash: flash(r)})
}

func (s *Server) handleAdminPostNew(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "admin/post_form", "Novo Post", postFormData{IsNew: true})
}

// postFromForm completa slug e resumo quando vierem vazios.
func (s *Server) postFromForm(r *http.Request) model.Post {
	p := model.Post{
		Title:      strings.TrimSpace(r.FormValue("title")),
		Slug:       strings.TrimSpace(r.FormValue("slug")),
		Content:    r.FormValue("content"),
		Excerpt:    strings.TrimSpace(r.FormValue("excerpt")),
		CoverImage: strings.TrimSpace(r.FormValue("cover_image")),
		Author:     strings.TrimSpace(r.FormValue("author")),
		Published:  r.FormValue("published") != "",
	}
	if p.Slug == "" {
		p.Slug = blog.SlugFromTitle(p.Title)
	} else {
		p.Slug = blog.SlugFromTitle(p.Slug)
	}
	if p.Author == "" {
		if id, ok := identityFrom(r.Context()); ok {
			p.Author = id.Email
		}
	}
	if p.Excerpt == "" && p.Title != "" {
		p.Excerpt = blog.Excerpt(r.Context(), s.Summarizer, s.Log, p.Title, p.Content)
	}
	return p
}

func validatePost(p model.Post) string {
	if p.Title == "" {
		return "Informe o título do post."
	}
	if p.Slug == "" {
		return "Não foi possível gerar o endereço do post."
	}
	return ""
}

func (s *Server) handleAdminPostCreate(w http.ResponseWriter, r *http.Request) {
	p := s.postFromForm(r)
	p.ID = uuid.NewString()
	p.CreatedAt = s.Now()
	data := postFormData{Post: p, IsNew: true}
	if msg := validatePost(p); msg != "" {
		data.Error = msg
		s.render(w, r, http.StatusUnprocessableEntity, "admin/post_form", "Novo Post", data)
		return
	}
	err := s.Posts.Create(r.Context(), p)
	if errors.Is(err, repository.ErrConflict) {
		data.Error = "Já existe um post com este endereço."
		s.render(w, r, http.StatusConflict, "admin/post_form", "Novo Post", data)
		return
	}
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	s.Log.Info("post criado", zap.String("slug", p.Slug), zap.Bool("publicado", p.Published))
	redirect(w, r, "/pgadmin/blog?ok=criado")
}

func (s *Server) loadPost(w http.ResponseWriter, r *http.Request) (model.Post, bool) {
	p, err := s.Posts.Get(r.Context(), r.PathValue("id"))
	if errors.Is(err, repository.ErrNotFound) {
		s.handleNotFound(w, r)
		return p, false
	}
	if err != nil {
		s.serverError(w, r, err)
		return p, false
	}
	return p, true
}

func (s *Server) handleAdminPostEdit(w http.ResponseWriter, r *http.Request) {
	p, ok := s.loadPost(w, r)
	if !ok {
		return
	}
	s.render(w, r, http.StatusOK, "admin/post_form", "Editar Post", postFormData{Post: p})
}

func (s *Server) handleAdminPostUpdate(w http.ResponseWriter, r *http.Request) {
	current, ok := s.loadPost(w, r)
	if !ok {
		return
	}
	p := s.postFromForm(r)
	p.ID = current.ID
	p.CreatedAt = current.CreatedAt
	data := postFormData{Post: p}
	if msg := validatePost(p); msg != "" {
		data.Error = msg
		s.render(w, r, http.StatusUnprocessableEntity, "admin/post_form", "Editar Post", data)
		return
	}
	err := s.Posts.Update(r.Context(), p)
	if errors.Is(err, repository.ErrConflict) {
		data.Error = "Já existe um post com este endereço."
		s.render(w, r, http.StatusConflict, "admin/post_form", "Editar Post", data)
		return
	}
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	redirect(w, r, "/pgadmin/blog?ok=salvo")
}

func (s *Server) handleAdminPostToggle(w http.ResponseWriter, r *http.Request) {
	p, ok := s.loadPost(w, r)
	if !ok {
		return
	}
	p.Published = !p.Published
	if err := s.Posts.Update(r.Context(), p); err != nil {
		s.serverError(w, r, err)
		return
	}
	s.Log.Info("publicação alterada", zap.String("slug", p.Slug), zap.Bool("publicado", p.Published))
	redirect(w, r, "/pgadmin/blog?ok=publicado")
}

func (s *Server) handleAdminPostDelete(w http.ResponseWriter, r *http.Request) {
	err := s.Posts.Delete(r.Context(), r.PathValue("id"))
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		s.serverError(w, r, err)
		return
	}
	redirect(w, r, "/pgadmin/blog?ok=excluido")
}
