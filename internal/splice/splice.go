// Package splice substitui o bloco de dados de produtos dentro do código-fonte de uma página.
package splice

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

var (
	ErrStartMarker = errors.New("could not find start marker")
	ErrNextMarker  = errors.New("could not find next component marker")
	ErrEndMarker   = errors.New("could not find end marker")
)

// Markers delimitam o trecho a substituir: Start abre o bloco, Next é o primeiro
// texto conhecido depois dele e End é o último fechamento antes de Next.
type Markers struct {
	Start string
	Next  string
	End   string
}

func DefaultMarkers() Markers {
	return Markers{
		Start: "const INITIAL_PRODUCTS: Product[] = [",
		Next:  "const ProductModal",
		End:   "];",
	}
}

// Splice troca o bloco delimitado por m em content por replacement.
func Splice(content, replacement string, m Markers) (string, error) {
	start := strings.Index(content, m.Start)
	if start == -1 {
		return "", fmt.Errorf("%w %q", ErrStartMarker, m.Start)
	}

	next := strings.Index(content[start:], m.Next)
	if next == -1 {
		return "", fmt.Errorf("%w %q", ErrNextMarker, m.Next)
	}
	next += start

	end := strings.LastIndex(content[start:next], m.End)
	if end == -1 {
		return "", fmt.Errorf("%w %q", ErrEndMarker, m.End)
	}
	end += start

	return content[:start] + replacement + content[end+len(m.End):], nil
}

// SpliceFile lê o arquivo de dados gerado e o encaixa no arquivo alvo.
func SpliceFile(targetPath, dataPath string, m Markers) error {
	content, err := os.ReadFile(targetPath)
	if err != nil {
		return fmt.Errorf("read target: %w", err)
	}
	data, err := os.ReadFile(dataPath)
	if err != nil {
		return fmt.Errorf("read data: %w", err)
	}

	updated, err := Splice(string(content), string(data), m)
	if err != nil {
		return err
	}

	info, err := os.Stat(targetPath)
	if err != nil {
		return fmt.Errorf("stat target: %w", err)
	}
	if err := os.WriteFile(targetPath, []byte(updated), info.Mode().Perm()); err != nil {
		return fmt.Errorf("write target: %w", err)
	}
	return nil
}
