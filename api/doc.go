// Package api provides the HTTP layer of the HostGenie editor service.
// It uses the Huma framework on a chi router for automatic OpenAPI
// documentation and request validation.
//
// # Architecture
//
//   - server.go: Huma API configuration, CORS and middleware
//   - handlers/: session, site, preview and bridge websocket handlers
//   - dto/: request and response bodies and their mappers
//   - middleware/: request ids and logging, rate limiting, caller identity
//
// JSON endpoints are registered through Huma. The sandboxed preview, the
// bridge websocket and the hosted documents under /s/{id} write raw bytes and
// are mounted on the chi router directly.
//
// # Usage Example
//
//	humaAPI, router := api.NewAPIWithMiddleware(api.APIConfig{
//	    Logger:     logger,
//	    RateLimit:  100,
//	    RateWindow: time.Minute,
//	})
//
//	sessions := handlers.NewSessionHandler(store, editorDeps, flags, appURL)
//	sessions.RegisterRoutes(humaAPI)
//	handlers.NewPreviewHandler(store, flags, logger).RegisterRoutes(router)
//
//	http.ListenAndServe(":8000", router)
//
// # Identity
//
// Authentication happens in front of this service. The caller's user id
// arrives in the X-User-ID header (or the user query parameter for the
// preview frame and websocket, which cannot set headers).
//
// # Error Handling
//
// Errors use the RFC 7807 problem format. Domain errors map to status codes:
// not found 404, validation 400, forbidden 403, failed mutation 422, closed
// session 410, concurrent generation 409, upstream AI failures 503.
package api
