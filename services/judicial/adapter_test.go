package judicial

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockAdapterProvider struct {
	mock.Mock
}

func (m *MockAdapterProvider) LookupProcess(ctx context.Context, number string) (*GenericProcessSummary, error) {
	args := m.Called(ctx, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*GenericProcessSummary), args.Error(1)
}

func TestGetProvider(t *testing.T) {
	t.Run("Unregistered country", func(t *testing.T) {
		p, err := GetProvider("US")
		assert.Error(t, err)
		assert.Nil(t, p)
		assert.True(t, errors.Is(err, ErrProviderUnavailable))
	})

	t.Run("Registered mock provider", func(t *testing.T) {
		mockP := new(MockAdapterProvider)
		RegisterProvider("MOCK", mockP)
		defer RegisterProvider("MOCK", nil)

		p, err := GetProvider("MOCK")
		assert.NoError(t, err)
		assert.Equal(t, mockP, p)
	})
}

func TestRegisterProvider(t *testing.T) {
	mockP := new(MockAdapterProvider)
	RegisterProvider("TEST", mockP)

	_, ok := providers["TEST"]
	assert.True(t, ok)

	RegisterProvider("TEST", nil)
	_, ok = providers["TEST"]
	assert.False(t, ok)
}

func TestNewBaseService(t *testing.T) {
	svc := NewBaseService(0)
	assert.NotNil(t, svc.client)
	assert.Equal(t, 30*time.Second, svc.client.Timeout)

	svc = NewBaseService(5 * time.Second)
	assert.Equal(t, 5*time.Second, svc.client.Timeout)
}
