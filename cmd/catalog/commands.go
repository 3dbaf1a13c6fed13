package main

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"krenke/internal/catalog"
	"krenke/internal/config"
	"krenke/internal/db"
	"krenke/internal/logging"
	"krenke/internal/repository"
	"krenke/internal/splice"
)

const (
	defaultCSV    = "Produto Krenke - Página1.csv"
	defaultData   = "products_data.ts"
	defaultJSON   = "products.json"
	defaultTarget = "pages/Products.tsx"
)

func convertCmd() *cobra.Command {
	var csvPath, outPath string
	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Converte a planilha exportada em CSV no bloco INITIAL_PRODUCTS",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(csvPath)
			if err != nil {
				return err
			}
			defer f.Close()

			products, err := catalog.ConvertCSV(f)
			if err != nil {
				return err
			}
			if err := writeFile(outPath, func(buf *bytes.Buffer) error { return catalog.WriteDataLiteral(buf, products) }); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Successfully wrote %d products to %s\n", len(products), outPath)
			return nil
		},
	}
	cmd.Flags().StringVar(&csvPath, "csv", defaultCSV, "Planilha exportada em CSV")
	cmd.Flags().StringVar(&outPath, "out", defaultData, "Arquivo de dados gerado")
	return cmd
}

func spliceCmd() *cobra.Command {
	var target, data string
	m := splice.DefaultMarkers()
	cmd := &cobra.Command{
		Use:   "splice",
		Short: "Substitui o bloco de produtos dentro do código da página",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := splice.SpliceFile(target, data, m); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Successfully updated %s\n", target)
			return nil
		},
	}
	cmd.Flags().StringVar(&target, "target", defaultTarget, "Arquivo que recebe os dados")
	cmd.Flags().StringVar(&data, "data", defaultData, "Arquivo de dados gerado pelo convert")
	cmd.Flags().StringVar(&m.Start, "start", m.Start, "Marcador de início do bloco")
	cmd.Flags().StringVar(&m.Next, "next", m.Next, "Primeiro texto conhecido depois do bloco")
	cmd.Flags().StringVar(&m.End, "end", m.End, "Fechamento do bloco")
	return cmd
}

func exportJSONCmd() *cobra.Command {
	var dataPath, outPath string
	cmd := &cobra.Command{
		Use:   "export-json",
		Short: "Converte o arquivo de dados gerado em products.json",
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := os.ReadFile(dataPath)
			if err != nil {
				return err
			}
			products, err := catalog.ParseDataLiteral(string(src))
			if err != nil {
				return err
			}
			if err := writeFile(outPath, func(buf *bytes.Buffer) error { return catalog.WriteJSON(buf, products) }); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Successfully converted %s to %s (%d products)\n", dataPath, outPath, len(products))
			return nil
		},
	}
	cmd.Flags().StringVar(&dataPath, "data", defaultData, "Arquivo de dados gerado pelo convert")
	cmd.Flags().StringVar(&outPath, "out", defaultJSON, "Arquivo JSON de saída")
	return cmd
}

func importCmd() *cobra.Command {
	var jsonPath string
	var workers int
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Grava os produtos do JSON no Postgres (cria ou atualiza pelo ID)",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(jsonPath)
			if err != nil {
				return err
			}
			defer f.Close()
			products, err := catalog.ReadJSON(f)
			if err != nil {
				return err
			}

			env, err := openEnv(cmd.Context())
			if err != nil {
				return err
			}
			defer env.close()

			if workers <= 0 {
				workers = env.cfg.WorkerCount
			}
			res := catalog.Seed(cmd.Context(), products, &repository.ProductRepository{DB: env.pool}, workers, env.log)
			env.log.Info("importação concluída", zap.Int("importados", res.Imported), zap.Int("falhas", res.Failed))
			fmt.Fprintf(cmd.OutOrStdout(), "Successfully imported %d products (%d failed)\n", res.Imported, res.Failed)
			if res.Failed > 0 {
				return fmt.Errorf("%d products could not be imported", res.Failed)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&jsonPath, "json", defaultJSON, "Arquivo JSON com os produtos")
	cmd.Flags().IntVar(&workers, "workers", 0, "Workers em paralelo (padrão WORKER_COUNT)")
	return cmd
}

func dumpCmd() *cobra.Command {
	var outPath string
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Escreve o catálogo do banco como bloco INITIAL_PRODUCTS (ou JSON)",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := openEnv(cmd.Context())
			if err != nil {
				return err
			}
			defer env.close()

			products, err := (&repository.ProductRepository{DB: env.pool}).List(cmd.Context())
			if err != nil {
				return err
			}
			write := func(buf *bytes.Buffer) error { return catalog.WriteDataLiteral(buf, products) }
			if asJSON {
				write = func(buf *bytes.Buffer) error { return catalog.WriteJSON(buf, products) }
			}
			if err := writeFile(outPath, write); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Successfully wrote %d products to %s\n", len(products), outPath)
			return nil
		},
	}
	cmd.Flags().StringVar(&outPath, "out", defaultData, "Arquivo de saída")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Escreve JSON em vez do bloco TypeScript")
	return cmd
}

func linkImagesCmd() *cobra.Command {
	var assetsDir, prefix string
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "link-images",
		Short: "Liga os produtos às imagens da pasta de assets pelo nome",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := openEnv(cmd.Context())
			if err != nil {
				return err
			}
			defer env.close()

			if assetsDir == "" {
				assetsDir = env.cfg.AssetsDir
			}
			index, err := catalog.NewAssetIndex(os.DirFS(assetsDir), prefix)
			if err != nil {
				return fmt.Errorf("index assets: %w", err)
			}

			repo := &repository.ProductRepository{DB: env.pool}
			products, err := repo.List(cmd.Context())
			if err != nil {
				return err
			}
			changed := catalog.LinkImages(products, index)
			for _, p := range changed {
				env.log.Info("imagem ligada", zap.String("id", p.ID), zap.String("imagem", p.Image), zap.Int("galeria", len(p.Images)))
				if dryRun {
					continue
				}
				if err := repo.Update(cmd.Context(), p.ID, p); err != nil {
					return fmt.Errorf("update %s: %w", p.ID, err)
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Successfully linked images for %d of %d products (%d files)\n", len(changed), len(products), index.Len())
			return nil
		},
	}
	cmd.Flags().StringVar(&assetsDir, "assets", "", "Pasta de imagens (padrão ASSETS_DIR)")
	cmd.Flags().StringVar(&prefix, "prefix", "/assets", "Prefixo das URLs gravadas")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Só mostra o que mudaria")
	return cmd
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Aplica as migrações do banco",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			conn, err := openSQL(cfg)
			if err != nil {
				return err
			}
			defer conn.Close()

			applied, err := db.Migrate(cmd.Context(), conn)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Successfully applied %d migrations\n", len(applied))
			for _, name := range applied {
				fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", name)
			}
			return nil
		},
	}
}

func writeFile(path string, fill func(*bytes.Buffer) error) error {
	var buf bytes.Buffer
	if err := fill(&buf); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

// cmdEnv junta o que os comandos ligados ao banco usam.
type cmdEnv struct {
	cfg  *config.Config
	log  *zap.Logger
	pool *pgxpool.Pool
}

func openEnv(ctx context.Context) (*cmdEnv, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	return &cmdEnv{cfg: cfg, log: logger, pool: pool}, nil
}

func (e *cmdEnv) close() {
	e.pool.Close()
	_ = e.log.Sync()
}

func openSQL(cfg *config.Config) (*sql.DB, error) {
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	return db.New(cfg.DatabaseURL)
}
