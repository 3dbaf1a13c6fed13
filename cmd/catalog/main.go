package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// go run ./cmd/catalog convert --csv "Produto Krenke - Página1.csv" --out products_data.ts
// go run ./cmd/catalog splice --target pages/Products.tsx --data products_data.ts
// go run ./cmd/catalog import --json products.json --workers 8
func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "catalog",
		Short: "Ferramentas do catálogo de produtos Krenke",
		Long: `Converte a planilha de produtos, encaixa os dados gerados no código
das páginas e sincroniza o catálogo com o Postgres.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		convertCmd(),
		spliceCmd(),
		exportJSONCmd(),
		importCmd(),
		dumpCmd(),
		linkImagesCmd(),
		migrateCmd(),
	)

	return rootCmd
}
