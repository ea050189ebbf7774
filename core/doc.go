// Package core contains the business logic of the HostGenie editor.
// It is framework-agnostic and can be used without the HTTP layer.
//
// The core package is organized into several sub-packages:
//
//   - domain: pure models (Selection, Mutation variants, bridge Messages, Draft, Site)
//   - selector: element path resolution and lookup
//   - patch: the document patch engine and the hosted font catalog
//   - preview: authoritative document vs rendered snapshot, preview instrumentation
//   - bridge: decoding and dispatch of messages from the preview frame
//   - history: bounded undo/redo snapshots
//   - panel: property panel view and diffing of pending values
//   - draft: draft persistence and the debounced autosaver
//   - editor: the per-user session tying the above together, and its registry
//   - site, footer, upload, generate, workers: saving, serving, uploads and AI generation
//   - errors: typed errors shared by every layer
//   - interfaces: contracts for external dependencies (cache, storage, HTTP, logger)
//
// # Design Principles
//
//   - No web framework dependencies
//   - External dependencies are injected via interfaces.Dependencies
//   - Business logic is testable in isolation
//   - A document is only ever changed through a domain.Mutation
//
// # Usage Example
//
//	import (
//	    "hostgenie-api/core/editor"
//	    "hostgenie-api/core/patch"
//	)
//
//	s, err := editor.Open(ctx, editor.Deps{
//	    Engine: patch.NewEngine(patch.DefaultFontCatalog(), logger),
//	}, editor.Options{OwnerID: "user-1"})
//	if err != nil {
//	    return err
//	}
//	state, err := s.Apply(domain.TextMutation{Selector: "body > h1", Text: "Hello"})
package core
