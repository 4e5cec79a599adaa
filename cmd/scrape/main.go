// Command scrape rebuilds the catalog cache file from the wiki and prints
// scrape statistics, including the items that fill the most log slots.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"time"

	"github.com/meur/logroll/internal/cache"
	"github.com/meur/logroll/internal/config"
	"github.com/meur/logroll/internal/wiki"
)

func main() {
	configPath := flag.String("config", "logroll.yaml", "Config file path")
	out := flag.String("out", "", "Cache file path (overrides config)")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if *out != "" {
		cfg.Wiki.CachePath = *out
	}

	store := cache.New(cfg.Wiki.CachePath, logger)
	scraper := wiki.New(cfg.Wiki.URL, cfg.Wiki.UserAgent, logger)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	catalog, err := cache.Refresh(ctx, store, scraper)
	if err != nil {
		logger.Error("scrape failed", "error", err)
		os.Exit(1)
	}

	fmt.Printf("Scraped %d unique items across %d collection log slots\n",
		catalog.Len(), catalog.TotalSlots)
	fmt.Printf("Cache written to %s\n", store.Path())

	type dup struct {
		name  string
		count int
	}
	var dups []dup
	for _, item := range catalog.Items {
		if len(item.Sources) > 1 {
			dups = append(dups, dup{item.Name, len(item.Sources)})
		}
	}
	sort.Slice(dups, func(i, j int) bool { return dups[i].count > dups[j].count })

	if len(dups) > 0 {
		fmt.Println("\nItems appearing in the most places:")
		for i, d := range dups {
			if i == 10 {
				break
			}
			fmt.Printf("- %s: %d occurrences\n", d.name, d.count)
		}
	}
}
