package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"krenke/internal/config"
	"krenke/internal/e2e"
	"krenke/internal/logging"
)

// go run ./cmd/e2e
// go run ./cmd/e2e -run 'quote|cookie' -config e2e.yaml
func main() {
	configPath := flag.String("config", "e2e.yaml", "Arquivo YAML da suíte")
	run := flag.String("run", "", "Expressão regular com os cenários a executar")
	list := flag.Bool("list", false, "Lista os cenários e sai")
	flag.Parse()

	if *list {
		for _, sc := range e2e.Scenarios() {
			fmt.Printf("%-26s %s\n", sc.Name, sc.Description)
		}
		return
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Erro ao carregar configuração: %v", err)
	}
	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Erro ao iniciar logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	suite, err := e2e.LoadConfig(*configPath)
	if err != nil {
		logger.Fatal("configuração da suíte inválida", zap.Error(err))
	}
	scenarios, err := e2e.Select(e2e.Scenarios(), *run)
	if err != nil {
		logger.Fatal("filtro inválido", zap.Error(err))
	}
	if len(scenarios) == 0 {
		logger.Fatal("nenhum cenário casa com o filtro", zap.String("run", *run))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner := e2e.NewRunner(suite, logger)
	if err := runner.Start(ctx); err != nil {
		logger.Fatal("não foi possível abrir o navegador", zap.Error(err))
	}
	results := runner.Run(ctx, scenarios)
	if err := runner.Close(); err != nil {
		logger.Warn("erro ao fechar o navegador", zap.Error(err))
	}

	failed := e2e.Failed(results)
	for _, r := range results {
		status := "ok"
		if !r.Passed() {
			status = "FALHOU"
		}
		fmt.Printf("%-7s %-26s %s\n", status, r.Scenario, r.Duration.Round(time.Millisecond))
	}
	fmt.Printf("%d/%d cenários passaram\n", len(results)-failed, len(results))
	if failed > 0 {
		_ = logger.Sync()
		os.Exit(1)
	}
}
