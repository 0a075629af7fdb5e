package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tiply/tiply/internal/config"
	"github.com/tiply/tiply/internal/paygine"
	"github.com/tiply/tiply/internal/repo"
	"github.com/tiply/tiply/pkg/clients"
	"github.com/tiply/tiply/pkg/lock"
)

func TestNew(t *testing.T) {
	cfg := &config.Config{
		PayoutMinAmount: 10_000,
		PayoutMaxAmount: 10_000_000,
	}
	repos := repo.New(nil, nil)
	gateway := paygine.New(cfg, clients.NewHTTPClient())
	locker := lock.NewManager(nil)

	services := New(cfg, repos, gateway, locker, nil)

	assert.NotNil(t, services.AuthService)
	assert.NotNil(t, services.LedgerService)
	assert.NotNil(t, services.LimitService)
	assert.NotNil(t, services.PayoutService)
	assert.NotNil(t, services.TipService)
}
