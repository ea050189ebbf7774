// ABOUTME: Advanced example showing custom configuration of the HostGenie library
// ABOUTME: Uses SQLite persistence, autosaved drafts, AI generation and the property panel

package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"hostgenie-api/core/generate"
	"hostgenie-api/core/workers"
	hostgenie "hostgenie-api/hostgenie-lib"
)

func main() {
	fmt.Println("=== Custom Configuration ===")

	opts := []hostgenie.Option{
		hostgenie.WithCacheOption(hostgenie.CacheOption{
			Type:     hostgenie.CacheTypeSQLite,
			FilePath: "./drafts.db",
		}),
		hostgenie.WithSQLiteSites("./sites.db"),
		hostgenie.WithFooter("https://sites.example.com", "Questions? hello@example.com"),
		hostgenie.WithHistoryLimit(100),
		hostgenie.WithAutosave(500*time.Millisecond, 24*time.Hour),
		hostgenie.WithSessionTTL(30 * time.Minute),
	}
	if keys := os.Getenv("AI_API_KEYS"); keys != "" {
		opts = append(opts,
			hostgenie.WithAI(generate.Config{
				BaseURL: os.Getenv("AI_BASE_URL"),
				APIKeys: strings.Split(keys, ","),
				Model:   os.Getenv("AI_MODEL"),
			}),
			hostgenie.WithWorkerConfig(workers.WorkerConfig{MaxWorkers: 2, QueueSize: 8}),
		)
	}

	client, err := hostgenie.NewClient(opts...)
	if err != nil {
		log.Fatal("Failed to create client:", err)
	}
	defer client.Close()

	ctx := context.Background()
	ed, err := client.OpenEditor(ctx, hostgenie.SessionOptions{
		OwnerID:    "user-42",
		AuthorName: "Grace",
		Autosave:   true,
	})
	if err != nil {
		log.Fatal("Failed to open editor:", err)
	}

	fmt.Println("\n=== AI Generation ===")
	if done, err := ed.Generate("A landing page for a neighbourhood bakery", ""); err != nil {
		fmt.Printf("Generation unavailable: %v\n", err)
	} else {
		<-done
		fmt.Printf("Notice: %q\n", ed.State().Notice)
	}

	fmt.Println("\n=== Property Panel ===")
	if _, err := ed.Select(hostgenie.Selection{Selector: "body > div > h1", TagName: "H1"}); err != nil {
		fmt.Printf("Select failed: %v\n", err)
	} else {
		view := ed.Panel()
		values := *view.Values
		values.Color = "#2c3e50"
		values.Bold = true
		if _, err := ed.ApplyPanel(values); err != nil {
			fmt.Printf("Panel apply failed: %v\n", err)
		}
	}

	fmt.Println("\n=== Public Sites ===")
	if _, err := ed.Save(ctx); err != nil {
		log.Fatal("Failed to save:", err)
	}
	sites, err := client.ListSites(ctx, 10)
	if err != nil {
		log.Fatal("Failed to list sites:", err)
	}
	for _, s := range sites {
		fmt.Printf("- %s (%d views) %s\n", s.Title, s.Views, client.SiteURL(s.ID))
	}
}
