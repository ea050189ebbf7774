// ABOUTME: Service interfaces for collaborators outside the editor core
// ABOUTME: Defines the AI generation contract consumed by editor sessions

package interfaces

import "context"

// Generator turns a natural-language prompt into a complete HTML document.
// An empty model selects the provider default.
type Generator interface {
	Generate(ctx context.Context, prompt, model string) (string, error)
}
