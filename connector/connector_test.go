package connector

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ceyewan/anchor/xerrors"
)

func TestEtcdConfigDefaults(t *testing.T) {
	cfg := &EtcdConfig{Endpoints: []string{"127.0.0.1:2379"}}
	require.NoError(t, cfg.validate())

	assert.Equal(t, "default", cfg.Name)
	assert.Equal(t, 3, cfg.MaxRetries)
	assert.Equal(t, time.Second, cfg.RetryInterval)
	assert.Equal(t, 5*time.Second, cfg.DialTimeout)
	assert.Equal(t, 10*time.Second, cfg.KeepAliveTime)
	assert.Equal(t, 3*time.Second, cfg.KeepAliveTimeout)
}

func TestEtcdConfigRejectsEmptyEndpoints(t *testing.T) {
	cfg := &EtcdConfig{}
	err := cfg.validate()
	require.Error(t, err)
	assert.True(t, xerrors.Is(err, ErrConfig))
}

func TestNewEtcdRejectsInvalidConfig(t *testing.T) {
	_, err := NewEtcd(&EtcdConfig{})
	require.Error(t, err)
	assert.True(t, xerrors.Is(err, ErrConfig))
}
