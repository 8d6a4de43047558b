// Command freesearch runs one web search through the free fallback retriever
// and prints the sources it found.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/iddy-ani/gpt-researcher/internal/adapter/retriever"
	"github.com/iddy-ani/gpt-researcher/internal/domain"
	"github.com/iddy-ani/gpt-researcher/internal/infra/config"
	"github.com/iddy-ani/gpt-researcher/internal/infra/logger"
	"github.com/iddy-ani/gpt-researcher/internal/infra/tracer"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configPath = flag.String("config", "freesearch.yaml", "path to the config file")
		query      = flag.String("query", "", "search query (required)")
		maxResults = flag.Int("max", domain.DefaultMaxResults, "maximum number of results")
		name       = flag.String("retriever", "", "retriever to use (default: RETRIEVER env var, then \"free\")")
		asJSON     = flag.Bool("json", false, "print sources as JSON")
	)
	flag.Parse()

	if *query == "" {
		flag.Usage()
		return fmt.Errorf("-query is required")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}

	log, closeLog, err := logger.New(cfg.Logger)
	if err != nil {
		return err
	}
	defer closeLog()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracer, err := tracer.Setup(ctx, cfg.Tracer)
	if err != nil {
		return err
	}
	defer shutdownTracer(context.Background())

	reg, err := retriever.NewRegistry(cfg, log)
	if err != nil {
		return err
	}

	var ret domain.Retriever
	if *name != "" {
		ret, err = reg.New(*name, *query, nil)
	} else {
		ret, err = reg.FromEnv(*query, nil)
	}
	if err != nil {
		return err
	}

	sources := ret.Search(ctx, *maxResults)

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(sources)
	}

	if len(sources) == 0 {
		fmt.Println("No sources found.")
		return nil
	}
	fmt.Printf("Found %d sources:\n\n", len(sources))
	for i, s := range sources {
		fmt.Printf("%d. %s\n%s\n\n", i+1, s.Href, s.Body)
	}
	return nil
}
