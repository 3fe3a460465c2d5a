// Command chat is an interactive terminal client for reviewdex: type a
// question about hotel experiences and get the most relevant reviews.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/roamstay/reviewdex/internal/config"
	dbRedis "github.com/roamstay/reviewdex/internal/db/redis"
	"github.com/roamstay/reviewdex/internal/domain"
	"github.com/roamstay/reviewdex/internal/domain/search/result"
	logpkg "github.com/roamstay/reviewdex/internal/logger"
	"github.com/roamstay/reviewdex/internal/metrics"
	"github.com/roamstay/reviewdex/internal/repository/embcache"
	reviewrepo "github.com/roamstay/reviewdex/internal/repository/review"
	searchrepo "github.com/roamstay/reviewdex/internal/repository/search"
	openaiEmb "github.com/roamstay/reviewdex/internal/transport/openai"
	"github.com/roamstay/reviewdex/internal/usecase/retrieval"
)

const topK = 5

func main() {
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to load config:", err)
		os.Exit(1)
	}

	// Keep the console clean; the session log level can still be raised via config.
	level := cfg.Logging.Level
	if level == "" {
		level = "error"
	}
	logger, err := logpkg.NewLogger(env, level)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to create logger:", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	fmt.Printf("Connecting to review store at %s...\n", strings.Join(cfg.Database.Addrs, ", "))
	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Username: cfg.Database.Username,
		Password: cfg.Database.Password,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to create review store:", err)
		os.Exit(1)
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		fmt.Fprintln(os.Stderr, "review store not reachable:", err)
		os.Exit(1)
	}
	fmt.Println("Connected.")

	metrics.RegisterRetrievalMetrics()
	metrics.RegisterEmbeddingMetrics()

	var embedder domain.Embedder = openaiEmb.NewEmbedder(&openaiEmb.Config{
		APIKey:     cfg.Embedding.APIKey,
		BaseURL:    cfg.Embedding.BaseURL,
		Model:      cfg.Embedding.Model,
		Dimensions: cfg.Embedding.Dimensions,
		Logger:     logger,
	})
	if cfg.Embedding.Cache {
		embedder = embcache.New(embedder, store, cfg.Search.KeyPrefix, metrics.EmbeddingCacheTotal, logger)
	}

	searchRepo := searchrepo.New(store, cfg.Search.KeyPrefix)
	reviewRepo := reviewrepo.New(store, cfg.Search.KeyPrefix, cfg.Search.IndexName, cfg.Search.IDField)

	resolver, err := retrieval.New(searchRepo, reviewRepo, embedder, retrieval.Config{
		IndexName:          cfg.Search.IndexName,
		VectorField:        cfg.Search.VectorField,
		ProjectedFields:    cfg.Search.ProjectedFields,
		CandidatePoolFloor: cfg.Search.CandidatePoolFloor,
		AttemptTimeout:     time.Duration(cfg.Search.AttemptTimeoutSec) * time.Second,
		RowWorkers:         cfg.Search.RowWorkers,
	}, logger)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to create retrieval service:", err)
		os.Exit(1)
	}
	defer resolver.Close()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-quit
		fmt.Println("\nSession terminated. Goodbye!")
		os.Exit(0)
	}()

	fmt.Println()
	fmt.Println("Welcome to the Hotel Review Chatbot!")
	fmt.Println("Ask questions about hotel experiences, and I'll find the most relevant reviews.")
	fmt.Println("Type 'exit' or 'quit' to end the session.")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("\nYour question: ")
		if !scanner.Scan() {
			fmt.Println("\nGoodbye!")
			return
		}

		input := strings.TrimSpace(scanner.Text())
		switch strings.ToLower(input) {
		case "exit", "quit", "q":
			fmt.Println("Thank you for using the Hotel Review Chatbot. Goodbye!")
			return
		case "":
			fmt.Println("Please enter a question or topic about hotel experiences.")
			continue
		}

		fmt.Println("Searching for relevant reviews...")
		results, err := resolver.Search(ctx, input, topK)
		if err != nil {
			fmt.Println("Error:", err)
			continue
		}

		displayResults(results)
	}
}

func displayResults(results []result.ScoredResult) {
	if len(results) == 0 {
		fmt.Println("No relevant reviews found.")
		return
	}

	fmt.Println("\n" + strings.Repeat("=", 80))
	fmt.Printf("Found %d relevant reviews:\n\n", len(results))

	for i := range results {
		fields := results[i].Fields()
		fmt.Printf("Result %d (Similarity: %.2f)\n", i+1, results[i].Score())
		fmt.Printf("Hotel: %s\n", fields["hotel_name"])
		fmt.Printf("Review: %s\n", fields["review_content"])
		fmt.Printf("Author: %s - Date: %s\n", fields["review_author"], fields["review_date"])
		printRatings(fields["review_ratings"])
		fmt.Println(strings.Repeat("-", 80))
	}
}

// printRatings renders the flattened ratings object, one category per line.
// Anything that does not parse as an object is printed raw.
func printRatings(raw string) {
	if raw == "" || raw == result.NotAvailable {
		return
	}

	var ratings map[string]any
	if err := json.Unmarshal([]byte(raw), &ratings); err != nil || len(ratings) == 0 {
		fmt.Printf("Ratings: %s\n", raw)
		return
	}

	categories := make([]string, 0, len(ratings))
	for c := range ratings {
		categories = append(categories, c)
	}
	sort.Strings(categories)

	fmt.Println("Ratings:")
	for _, c := range categories {
		fmt.Printf("- %s: %v\n", c, ratings[c])
	}
}
