package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"krenke/internal/model"
	"krenke/internal/repository"
)

const maxUploadSize = 10 << 20

var uploadExts = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".webp": true, ".gif": true,
}

func (s *Server) handleAPIProducts(w http.ResponseWriter, r *http.Request) {
	products, err := s.Products.List(r.Context())
	if err != nil {
		s.Log.Error("falha ao listar produtos", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to read products"})
		return
	}
	writeJSON(w, http.StatusOK, products)
}

// productPatch traz apenas os campos enviados; os ausentes mantêm o valor atual.
type productPatch struct {
	OriginalID  string    `json:"originalId"`
	ID          *string   `json:"id"`
	Name        *string   `json:"name"`
	Category    *string   `json:"category"`
	Description *string   `json:"description"`
	Specs       *string   `json:"specs"`
	Image       *string   `json:"image"`
	Images      *[]string `json:"images"`
}

func (pp productPatch) apply(p model.Product) model.Product {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&p.ID, pp.ID)
	set(&p.Name, pp.Name)
	set(&p.Category, pp.Category)
	set(&p.Description, pp.Description)
	set(&p.Specs, pp.Specs)
	set(&p.Image, pp.Image)
	if pp.Images != nil {
		p.Images = *pp.Images
	}
	if p.Images == nil {
		p.Images = []string{}
	}
	return p
}

func (s *Server) handleAPIUpdateProduct(w http.ResponseWriter, r *http.Request) {
	var patch productPatch
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&patch); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid JSON body"})
		return
	}

	current, err := s.Products.Get(r.Context(), patch.OriginalID)
	if errors.Is(err, repository.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Product not found"})
		return
	}
	if err != nil {
		s.Log.Error("falha ao carregar produto", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to update product"})
		return
	}

	updated := patch.apply(current)
	if updated.ID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Product ID is required"})
		return
	}
	err = s.Products.Update(r.Context(), patch.OriginalID, updated)
	switch {
	case errors.Is(err, repository.ErrConflict):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "New ID already exists"})
		return
	case errors.Is(err, repository.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Product not found"})
		return
	case err != nil:
		s.Log.Error("falha ao atualizar produto", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to update product"})
		return
	}
	s.Log.Info("produto atualizado pela API", zap.String("original", patch.OriginalID), zap.String("id", updated.ID))
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "product": updated})
}

type uploadResponse struct {
	Success  bool   `json:"success"`
	Filename string `json:"filename"`
	Path     string `json:"path"`
}

// handleAPIUpload grava a imagem com o nome original na pasta de uploads.
func (s *Server) handleAPIUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	file, header, err := r.FormFile("image")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "No file uploaded"})
		return
	}
	defer file.Close()

	name := filepath.Base(filepath.Clean("/" + header.Filename))
	if name == "/" || name == "." || strings.HasPrefix(name, ".") {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid file name"})
		return
	}
	if !uploadExts[strings.ToLower(filepath.Ext(name))] {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Unsupported file type"})
		return
	}

	if err := s.saveUpload(name, file); err != nil {
		s.Log.Error("falha ao gravar upload", zap.String("arquivo", name), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to save file"})
		return
	}
	s.Log.Info("imagem enviada", zap.String("arquivo", name))
	writeJSON(w, http.StatusOK, uploadResponse{Success: true, Filename: name, Path: "/assets/" + name})
}

func (s *Server) saveUpload(name string, src io.Reader) error {
	if s.UploadDir == "" {
		return fmt.Errorf("upload dir not configured")
	}
	if err := os.MkdirAll(s.UploadDir, 0o755); err != nil {
		return err
	}
	dst, err := os.Create(filepath.Join(s.UploadDir, name))
	if err != nil {
		return err
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return err
	}
	return dst.Close()
}
