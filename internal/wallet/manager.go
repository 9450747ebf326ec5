// Package wallet manages the active signing account and the wallet providers that can supply it.
package wallet

import (
	"errors"
	"fmt"
	"sync"

	"github.com/samber/lo"
)

var (
	// ErrNotConnected means no wallet provider is active.
	ErrNotConnected = errors.New("wallet not connected")
	// ErrUnknownProvider means the provider id is not registered.
	ErrUnknownProvider = errors.New("unknown wallet provider")
)

// Provider is a configured source of a Signer.
type Provider struct {
	ID     string
	Name   string
	Signer Signer
}

// ProviderInfo is the public view of a provider.
type ProviderInfo struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address"`
	Active  bool   `json:"active"`
}

// Manager tracks which provider is connected. Safe for concurrent use.
type Manager struct {
	mu        sync.RWMutex
	providers []Provider
	active    string
}

// NewManager creates a Manager with the given providers, none connected.
func NewManager(providers ...Provider) *Manager {
	return &Manager{providers: providers}
}

// Providers lists the registered providers in registration order.
func (m *Manager) Providers() []ProviderInfo {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return lo.Map(m.providers, func(p Provider, _ int) ProviderInfo {
		return ProviderInfo{ID: p.ID, Name: p.Name, Address: p.Signer.Address(), Active: p.ID == m.active}
	})
}

// Connect makes the provider with id active and returns its address.
func (m *Manager) Connect(id string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := lo.Find(m.providers, func(p Provider) bool { return p.ID == id })
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownProvider, id)
	}
	m.active = p.ID
	return p.Signer.Address(), nil
}

// Disconnect clears the active provider.
func (m *Manager) Disconnect() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.active == "" {
		return ErrNotConnected
	}
	m.active = ""
	return nil
}

// ActiveAddress returns the connected account's address, if any.
func (m *Manager) ActiveAddress() (string, bool) {
	s, err := m.Signer()
	if err != nil {
		return "", false
	}
	return s.Address(), true
}

// Signer returns the connected provider's signer.
func (m *Manager) Signer() (Signer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.active == "" {
		return nil, ErrNotConnected
	}
	p, ok := lo.Find(m.providers, func(p Provider) bool { return p.ID == m.active })
	if !ok {
		return nil, ErrNotConnected
	}
	return p.Signer, nil
}
