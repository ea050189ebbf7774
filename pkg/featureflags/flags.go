// ABOUTME: Feature flags gating the editor's optional surfaces
// ABOUTME: Flags come from the environment or a static map and may be limited to listed users

package featureflags

import (
	"context"
	"os"
	"strings"
	"sync"
)

// FeatureFlag represents a single feature flag
type FeatureFlag string

// Defined feature flags
const (
	// VisualEditEnabled allows the instrumented preview and bridge messages
	VisualEditEnabled FeatureFlag = "visual_edit_enabled"

	// AIGenerationEnabled allows document generation through the AI provider
	AIGenerationEnabled FeatureFlag = "ai_generation_enabled"

	// DraftAutosaveEnabled enables debounced drafts for unsaved sites
	DraftAutosaveEnabled FeatureFlag = "draft_autosave_enabled"

	// RateLimitEnabled enables rate limiting
	RateLimitEnabled FeatureFlag = "rate_limit_enabled"

	// SourceDownloadEnabled serves /s/{id}/source when the author allows it
	SourceDownloadEnabled FeatureFlag = "source_download_enabled"
)

// Defaults is the state of each flag when its environment variable is unset
func Defaults() map[FeatureFlag]bool {
	return map[FeatureFlag]bool{
		VisualEditEnabled:     true,
		AIGenerationEnabled:   true,
		DraftAutosaveEnabled:  true,
		RateLimitEnabled:      true,
		SourceDownloadEnabled: true,
	}
}

// Manager defines the interface for feature flag management
type Manager interface {
	// IsEnabled checks if a feature flag is enabled
	IsEnabled(ctx context.Context, flag FeatureFlag) bool

	// IsEnabledForUser also applies the flag's user list, when it has one
	IsEnabledForUser(ctx context.Context, flag FeatureFlag, userID string) bool

	// SetEnabled sets a feature flag's state (for testing)
	SetEnabled(flag FeatureFlag, enabled bool)

	// GetAllFlags returns the state of all flags
	GetAllFlags() map[FeatureFlag]bool
}

// EnvManager reads <prefix><FLAG> for the state of a flag and
// <prefix><FLAG>_USERS for an optional comma-separated list of the only users
// it is on for.
type EnvManager struct {
	mu        sync.RWMutex
	overrides map[FeatureFlag]bool
	defaults  map[FeatureFlag]bool
	prefix    string
}

// NewEnvManager creates a new environment-based feature flag manager
func NewEnvManager(prefix string) *EnvManager {
	if prefix == "" {
		prefix = "FEATURE_"
	}
	return &EnvManager{
		overrides: make(map[FeatureFlag]bool),
		defaults:  Defaults(),
		prefix:    prefix,
	}
}

// IsEnabled checks if a feature flag is enabled
func (m *EnvManager) IsEnabled(ctx context.Context, flag FeatureFlag) bool {
	m.mu.RLock()
	if enabled, ok := m.overrides[flag]; ok {
		m.mu.RUnlock()
		return enabled
	}
	m.mu.RUnlock()

	value, ok := os.LookupEnv(m.envKey(flag))
	if !ok || value == "" {
		return m.defaults[flag]
	}

	value = strings.ToLower(value)
	return value == "true" || value == "1" || value == "enabled"
}

// IsEnabledForUser checks the flag and then its user list
func (m *EnvManager) IsEnabledForUser(ctx context.Context, flag FeatureFlag, userID string) bool {
	if !m.IsEnabled(ctx, flag) {
		return false
	}
	raw, ok := os.LookupEnv(m.envKey(flag) + "_USERS")
	if !ok {
		return true
	}
	return inList(parseUsers(raw), userID)
}

func (m *EnvManager) envKey(flag FeatureFlag) string {
	return m.prefix + strings.ToUpper(string(flag))
}

// SetEnabled sets a feature flag's state (mainly for testing)
func (m *EnvManager) SetEnabled(flag FeatureFlag, enabled bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.overrides[flag] = enabled
}

// GetAllFlags returns the state of all defined flags
func (m *EnvManager) GetAllFlags() map[FeatureFlag]bool {
	ctx := context.Background()
	flags := make(map[FeatureFlag]bool, len(m.defaults))
	for flag := range m.defaults {
		flags[flag] = m.IsEnabled(ctx, flag)
	}
	return flags
}

// StaticManager implements Manager with in-memory state, for tests and embedding
type StaticManager struct {
	flags map[FeatureFlag]bool
	users map[FeatureFlag]map[string]bool
	mu    sync.RWMutex
}

// NewStaticManager creates a manager with predefined flag states
func NewStaticManager(flags map[FeatureFlag]bool) *StaticManager {
	if flags == nil {
		flags = make(map[FeatureFlag]bool)
	}
	return &StaticManager{
		flags: flags,
		users: make(map[FeatureFlag]map[string]bool),
	}
}

// IsEnabled checks if a feature flag is enabled
func (m *StaticManager) IsEnabled(ctx context.Context, flag FeatureFlag) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.flags[flag]
}

// IsEnabledForUser checks the flag and then its user list
func (m *StaticManager) IsEnabledForUser(ctx context.Context, flag FeatureFlag, userID string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.flags[flag] {
		return false
	}
	users, ok := m.users[flag]
	return !ok || users[userID]
}

// LimitToUsers turns flag on only for the given users. No users removes the limit.
func (m *StaticManager) LimitToUsers(flag FeatureFlag, users ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(users) == 0 {
		delete(m.users, flag)
		return
	}
	set := make(map[string]bool, len(users))
	for _, u := range users {
		set[u] = true
	}
	m.users[flag] = set
}

// SetEnabled sets a feature flag's state
func (m *StaticManager) SetEnabled(flag FeatureFlag, enabled bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.flags[flag] = enabled
}

// GetAllFlags returns all flag states
func (m *StaticManager) GetAllFlags() map[FeatureFlag]bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make(map[FeatureFlag]bool)
	for k, v := range m.flags {
		result[k] = v
	}
	return result
}

func parseUsers(raw string) []string {
	var users []string
	for _, u := range strings.Split(raw, ",") {
		if u = strings.TrimSpace(u); u != "" {
			users = append(users, u)
		}
	}
	return users
}

func inList(users []string, userID string) bool {
	if userID == "" {
		return false
	}
	for _, u := range users {
		if u == userID {
			return true
		}
	}
	return false
}
