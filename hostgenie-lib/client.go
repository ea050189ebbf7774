// ABOUTME: Main client for the HostGenie library providing document editing and site hosting
// ABOUTME: Offers the editor core without the HTTP layer for embedding in other programs

package hostgenie

import (
	"context"
	"io"
	"sync"
	"time"

	"go.uber.org/multierr"

	"hostgenie-api/core/draft"
	"hostgenie-api/core/editor"
	"hostgenie-api/core/footer"
	"hostgenie-api/core/generate"
	"hostgenie-api/core/interfaces"
	"hostgenie-api/core/patch"
	"hostgenie-api/core/preview"
	"hostgenie-api/core/site"
	"hostgenie-api/core/workers"
)

// Client is the main entry point for the HostGenie library
type Client struct {
	engine *patch.Engine
	sites  *site.Service
	drafts *draft.Service
	store  *editor.Store

	generator interfaces.Generator
	pool      *workers.GenerationWorker

	deps   interfaces.Dependencies
	config Config

	mu     sync.RWMutex
	closed bool
}

// Config holds the configuration for the client
type Config struct {
	Cache       interfaces.Cache
	HTTPClient  interfaces.HTTPClient
	Logger      interfaces.Logger
	SiteStorage interfaces.SiteStorage

	// Generator wins over AI when both are set
	Generator    interfaces.Generator
	AI           *generate.Config
	WorkerConfig workers.WorkerConfig

	AppURL      string
	SupportLine string

	HistoryLimit  int
	AutosaveDelay time.Duration
	DraftTTL      time.Duration
	SessionTTL    time.Duration

	closers []io.Closer
}

// NewClient creates a new HostGenie client with the given options
func NewClient(options ...Option) (*Client, error) {
	config := defaultConfig()

	for _, opt := range options {
		if err := opt(&config); err != nil {
			closeAll(config.closers)
			return nil, err
		}
	}

	if err := validateConfig(&config); err != nil {
		closeAll(config.closers)
		return nil, err
	}

	deps := interfaces.Dependencies{
		Cache:      config.Cache,
		HTTPClient: config.HTTPClient,
		Logger:     config.Logger,
		Sites:      config.SiteStorage,
	}

	client := &Client{
		engine: patch.NewEngine(patch.DefaultFontCatalog(), config.Logger),
		sites:  site.NewService(deps, footer.New(config.AppURL, "", config.SupportLine)),
		drafts: draft.NewService(deps, config.DraftTTL),
		store:  editor.NewStore(config.SessionTTL, config.Logger),
		deps:   deps,
		config: config,
	}

	gen := config.Generator
	if gen == nil && config.AI != nil {
		gen = generate.NewClient(*config.AI, deps)
	}
	if gen != nil {
		client.pool = workers.NewGenerationWorker(gen, config.Logger, config.WorkerConfig)
		if err := client.pool.Start(); err != nil {
			client.store.Close()
			closeAll(config.closers)
			return nil, NewError(ErrorTypeInternal, "failed to start generation workers").WithCause(err)
		}
		client.generator = client.pool
	}

	return client, nil
}

// validateConfig fills in the dependencies no option provided
func validateConfig(config *Config) error {
	if config.Logger == nil {
		config.Logger = DefaultLogger()
	}
	if config.Cache == nil {
		config.Cache = DefaultMemoryCache()
	}
	if config.SiteStorage == nil {
		config.SiteStorage = DefaultSiteStorage()
	}
	if config.HTTPClient == nil {
		config.HTTPClient = DefaultHTTPClient()
	}
	if config.AppURL == "" {
		return NewError(ErrorTypeConfiguration, "app URL is required")
	}
	return nil
}

// Close closes every open editor, stops generation and releases storage
func (c *Client) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.mu.Unlock()

	c.store.Close()
	var err error
	if c.pool != nil {
		err = multierr.Append(err, c.pool.Stop())
	}
	return multierr.Append(err, closeAll(c.config.closers))
}

func closeAll(closers []io.Closer) error {
	var err error
	for _, cl := range closers {
		err = multierr.Append(err, cl.Close())
	}
	return err
}

func (c *Client) checkOpen() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return ErrClientClosed
	}
	return nil
}

func (c *Client) editorDeps() editor.Deps {
	return editor.Deps{
		Engine:        c.engine,
		Sites:         c.sites,
		Drafts:        c.drafts,
		Generator:     c.generator,
		Logger:        c.config.Logger,
		HistoryLimit:  c.config.HistoryLimit,
		AutosaveDelay: c.config.AutosaveDelay,
	}
}

// OpenEditor starts an editor for a new document or a saved site
func (c *Client) OpenEditor(ctx context.Context, opts SessionOptions) (*Editor, error) {
	if err := c.checkOpen(); err != nil {
		return nil, err
	}
	s, err := editor.Open(ctx, c.editorDeps(), editor.Options{
		OwnerID:    opts.OwnerID,
		AuthorName: opts.AuthorName,
		SiteID:     opts.SiteID,
		Document:   opts.Document,
		Autosave:   opts.Autosave,
	})
	if err != nil {
		return nil, err
	}
	c.store.Add(s)
	return s, nil
}

// Editor returns an open editor owned by owner
func (c *Client) Editor(id, owner string) (*Editor, error) {
	if err := c.checkOpen(); err != nil {
		return nil, err
	}
	return c.store.GetOwned(id, owner)
}

// CloseEditor closes an open editor owned by owner
func (c *Client) CloseEditor(id, owner string) error {
	if _, err := c.Editor(id, owner); err != nil {
		return err
	}
	c.store.Delete(id)
	return nil
}

// OpenEditors returns how many editors are open
func (c *Client) OpenEditors() int {
	return c.store.Len()
}

// Apply runs mutations against doc in order without an editor.
// Nothing is returned on the first failure.
func (c *Client) Apply(doc string, mutations ...Mutation) (string, error) {
	if err := c.checkOpen(); err != nil {
		return "", err
	}
	for _, m := range mutations {
		next, err := c.engine.Apply(doc, m)
		if err != nil {
			return "", err
		}
		doc = next
	}
	return doc, nil
}

// Instrument adds the visual-editing script to doc
func (c *Client) Instrument(doc string) string {
	return preview.Instrument(doc)
}

// Fonts lists the preset font groups offered by the property panel
func (c *Client) Fonts() []patch.FontGroup {
	return c.engine.Fonts().Presets()
}

// Publish saves html as a new site owned by owner.
// A nil meta publishes with DefaultSiteMeta.
func (c *Client) Publish(ctx context.Context, owner, author string, meta *SiteMeta, html string) (*Site, error) {
	if err := c.checkOpen(); err != nil {
		return nil, err
	}
	m := DefaultSiteMeta()
	if meta != nil {
		m = *meta
	}
	return c.sites.Save(ctx, site.SaveRequest{
		OwnerID:    owner,
		AuthorName: author,
		Meta:       m,
		HTML:       html,
	})
}

// Site returns a saved site without counting a view
func (c *Client) Site(ctx context.Context, id string) (*Site, error) {
	if err := c.checkOpen(); err != nil {
		return nil, err
	}
	return c.sites.Get(ctx, id)
}

// Serve returns a saved site and counts the view
func (c *Client) Serve(ctx context.Context, id string) (*Site, error) {
	if err := c.checkOpen(); err != nil {
		return nil, err
	}
	return c.sites.Serve(ctx, id)
}

// Source returns a site's download filename and document
func (c *Client) Source(ctx context.Context, id string) (filename, content string, err error) {
	if err := c.checkOpen(); err != nil {
		return "", "", err
	}
	return c.sites.Source(ctx, id)
}

// ListSites returns the newest public sites
func (c *Client) ListSites(ctx context.Context, limit int) ([]*Site, error) {
	if err := c.checkOpen(); err != nil {
		return nil, err
	}
	return c.sites.ListPublic(ctx, limit)
}

// DeleteSite removes a site owned by owner
func (c *Client) DeleteSite(ctx context.Context, id, owner string) error {
	if err := c.checkOpen(); err != nil {
		return err
	}
	return c.sites.Delete(ctx, id, owner)
}

// AppURL is the base address share links are built on
func (c *Client) AppURL() string {
	return c.config.AppURL
}

// SiteURL is the share link of a site
func (c *Client) SiteURL(id string) string {
	return c.config.AppURL + "/s/" + id
}

// Generate produces a complete document from prompt
func (c *Client) Generate(ctx context.Context, prompt, model string) (string, error) {
	if err := c.checkOpen(); err != nil {
		return "", err
	}
	if c.generator == nil {
		return "", ErrNoGenerator
	}
	return c.generator.Generate(ctx, prompt, model)
}
