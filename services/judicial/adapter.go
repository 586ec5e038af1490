package judicial

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"
)

var (
	// ErrUnsupportedCourt means the number names a court the provider cannot query
	ErrUnsupportedCourt = errors.New("court not supported by judicial provider")
	// ErrProviderUnavailable means no provider is configured for the country
	ErrProviderUnavailable = errors.New("judicial provider not configured")
)

// Provider defines the interface for all country-specific judicial implementations
type Provider interface {
	// LookupProcess searches a process by its unified number (digits only).
	// It returns nil, nil when the court has no such process.
	LookupProcess(ctx context.Context, number string) (*GenericProcessSummary, error)
}

// GenericProcessSummary normalizes a court's process record
type GenericProcessSummary struct {
	Number    string          `json:"number"`
	Court     string          `json:"court"`
	Degree    string          `json:"degree,omitempty"`
	Class     string          `json:"class,omitempty"`
	Office    string          `json:"office,omitempty"`
	Subjects  []string        `json:"subjects"`
	IsPrivate bool            `json:"is_private"`
	FiledAt   *time.Time      `json:"filed_at,omitempty"`
	UpdatedAt *time.Time      `json:"updated_at,omitempty"`
	Actions   []GenericAction `json:"actions"`
}

// GenericAction normalizes events across different systems
type GenericAction struct {
	ExternalID string    `json:"external_id"`
	Type       string    `json:"type"`       // The action name
	Annotation string    `json:"annotation"` // Free-text complements
	ActionDate time.Time `json:"action_date"`
}

// BaseService provides common functionality like HTTP client
type BaseService struct {
	client *http.Client
}

// NewBaseService creates a configured base service
func NewBaseService(timeout time.Duration) BaseService {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return BaseService{
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

var (
	providersMu sync.RWMutex
	providers   = map[string]Provider{}
)

// RegisterProvider installs p for a country code; a nil p removes it
func RegisterProvider(countryCode string, p Provider) {
	providersMu.Lock()
	defer providersMu.Unlock()
	if p == nil {
		delete(providers, countryCode)
		return
	}
	providers[countryCode] = p
}

// GetProvider returns the registered implementation for a country code
func GetProvider(countryCode string) (Provider, error) {
	providersMu.RLock()
	defer providersMu.RUnlock()
	if p, ok := providers[countryCode]; ok {
		return p, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrProviderUnavailable, countryCode)
}
