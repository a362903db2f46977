// Package main provides a CLI tool that prints the best recorded scores.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"text/tabwriter"
	"time"

	"github.com/cory-johannsen/yahtzee/internal/config"
	"github.com/cory-johannsen/yahtzee/internal/storage/postgres"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	limit := flag.Int("limit", 10, "number of scores to show")
	flag.Parse()

	if *limit < 1 {
		flag.Usage()
		os.Exit(1)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("connecting to database: %v", err)
	}
	defer pool.Close()

	scores, err := postgres.NewResultRepository(pool.DB()).TopScores(ctx, *limit)
	if err != nil {
		log.Fatalf("loading top scores: %v", err)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "#\tNAME\tSCORE\tTABLE\tFINISHED")
	for i, s := range scores {
		fmt.Fprintf(w, "%d\t%s\t%d\t%s\t%s\n", i+1, s.Name, s.Score, s.TableID, s.FinishedAt.Format(time.RFC3339))
	}
	_ = w.Flush()
	fmt.Fprintf(os.Stdout, "%d scores [%s]\n", len(scores), time.Since(start))
}
