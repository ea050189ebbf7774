// ABOUTME: Basic example showing document editing with the HostGenie library
// ABOUTME: Applies a few mutations, walks history and publishes the result

package main

import (
	"context"
	"fmt"
	"log"

	hostgenie "hostgenie-api/hostgenie-lib"
)

const page = `<!DOCTYPE html>
<html><head><title>Bakery</title></head>
<body><h1>Fresh Bread</h1><p>Open daily from 7am.</p></body></html>`

func main() {
	client, err := hostgenie.NewClient(hostgenie.WithQuietMode())
	if err != nil {
		log.Fatal("Failed to create client:", err)
	}
	defer client.Close()

	ctx := context.Background()

	fmt.Println("=== Stateless Mutations ===")
	doc, err := client.Apply(page,
		hostgenie.TextMutation{Selector: "body > h1", Text: "Warm Bread"},
		hostgenie.StyleMutation{Selector: "body > h1", Properties: map[string]string{"color": "#c0392b"}},
	)
	if err != nil {
		log.Fatal("Failed to apply mutations:", err)
	}
	fmt.Println(doc)

	fmt.Println("\n=== Editor Session ===")
	ed, err := client.OpenEditor(ctx, hostgenie.SessionOptions{
		OwnerID:    "user-1",
		AuthorName: "Ada",
		Document:   page,
	})
	if err != nil {
		log.Fatal("Failed to open editor:", err)
	}

	if _, err := ed.Apply(hostgenie.TextMutation{Selector: "body > p", Text: "Closed on Sundays."}); err != nil {
		log.Fatal("Failed to edit:", err)
	}
	state, _ := ed.Undo()
	fmt.Printf("After undo: canUndo=%v canRedo=%v\n", state.CanUndo, state.CanRedo)
	state, _ = ed.Redo()
	fmt.Printf("After redo: history %d/%d\n", state.HistoryIndex+1, state.HistoryLength)

	if _, err := ed.Apply(hostgenie.TextMutation{Selector: "body > h2", Text: "missing"}); err != nil {
		fmt.Printf("Rejected mutation (%s): %v\n", hostgenie.TypeOf(err), err)
	}

	fmt.Println("\n=== Publishing ===")
	saved, err := ed.Save(ctx)
	if err != nil {
		log.Fatal("Failed to save:", err)
	}
	fmt.Printf("Saved %q at %s\n", saved.Title, client.SiteURL(saved.ID))
}
