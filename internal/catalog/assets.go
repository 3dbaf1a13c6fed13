package catalog

import (
	"io/fs"
	"path"
	"path/filepath"
	"slices"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"krenke/internal/model"
)

var imageExts = []string{".jpg", ".png", ".webp"}

// AssetIndex associa produtos às imagens da pasta de assets pelo nome do arquivo.
type AssetIndex struct {
	urlPrefix string
	paths     []string
}

// NewAssetIndex indexa os arquivos de fsys. As URLs devolvidas usam urlPrefix
// seguido do caminho relativo do arquivo.
func NewAssetIndex(fsys fs.FS, urlPrefix string) (*AssetIndex, error) {
	idx := &AssetIndex{urlPrefix: strings.TrimRight(urlPrefix, "/")}
	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		idx.paths = append(idx.paths, p)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(idx.paths)
	return idx, nil
}

// Len devolve a quantidade de arquivos indexados.
func (a *AssetIndex) Len() int {
	if a == nil {
		return 0
	}
	return len(a.paths)
}

// Match devolve a imagem principal e a galeria do produto.
func (a *AssetIndex) Match(productName string) (string, []string) {
	gallery := []string{}
	if a == nil || utf8.RuneCountInString(productName) < 3 {
		return "", gallery
	}

	name := normalizeAssetName(productName)
	var main string
	for _, p := range a.paths {
		normalizedPath := normalizeAssetName(p)
		matched := strings.Contains(normalizedPath, name)
		if name == "linhatematica" && strings.Contains(normalizedPath, "tematica2025") {
			matched = true
		}
		if !matched {
			continue
		}
		url := a.urlPrefix + "/" + filepath.ToSlash(p)
		if main == "" && isMainImage(path.Base(p), name) {
			main = url
			continue
		}
		gallery = append(gallery, url)
	}

	if main != "" {
		gallery = append([]string{main}, gallery...)
	}
	if len(gallery) > 0 {
		main = gallery[0]
	}
	return main, gallery
}

// LinkImages devolve só os produtos cujas imagens mudam segundo o índice.
// Produtos sem arquivo correspondente mantêm o que já têm.
func LinkImages(products []model.Product, index *AssetIndex) []model.Product {
	var changed []model.Product
	for _, p := range products {
		main, gallery := index.Match(p.Name)
		if main == "" || (main == p.Image && slices.Equal(gallery, p.Images)) {
			continue
		}
		p.Image, p.Images = main, gallery
		changed = append(changed, p)
	}
	return changed
}

func isMainImage(base, name string) bool {
	base = normalizeAssetName(base)
	for _, ext := range imageExts {
		if base == name+ext {
			return true
		}
	}
	return false
}

func normalizeAssetName(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, strings.ToLower(s))
	if err != nil {
		out = strings.ToLower(s)
	}
	return strings.Join(strings.Fields(out), "")
}
