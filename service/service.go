// Package service implements the chat turn orchestration: context assembly,
// model calls, tool dispatch and history persistence.
package service

import (
	"github.com/cantorix/aide/config"
	"github.com/cantorix/aide/domain"
	"github.com/cantorix/aide/llm"
	"github.com/cantorix/aide/policy"
	"github.com/cantorix/aide/session"
	"github.com/cantorix/aide/store"
	"github.com/cantorix/aide/tools"
)

type Service struct {
	store        store.Store
	llmClient    *llm.Client
	registry     *tools.Registry
	policyEngine *policy.Engine
	cache        *session.Cache
	locks        *session.KeyedMutex
	config       *config.Config
}

func New(st store.Store, llmClient *llm.Client, registry *tools.Registry, policyEngine *policy.Engine, cache *session.Cache, cfg *config.Config) *Service {
	return &Service{
		store:        st,
		llmClient:    llmClient,
		registry:     registry,
		policyEngine: policyEngine,
		cache:        cache,
		locks:        session.NewKeyedMutex(),
		config:       cfg,
	}
}

// ToolCount returns the number of registered tools.
func (s *Service) ToolCount() int {
	return s.registry.Count()
}

// CachedSessions returns the number of sessions currently cached.
func (s *Service) CachedSessions() int {
	return s.cache.Len()
}

// ListTools returns the public tool catalog.
func (s *Service) ListTools() []domain.ToolInfo {
	return s.registry.List()
}
