package http

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOptions(t *testing.T) {
	o := NewOptions()
	assert.Equal(t, ":8000", o.Addr)
	assert.Equal(t, 30*time.Second, o.ReadTimeout)
	assert.Equal(t, time.Duration(0), o.WriteTimeout)
	assert.Equal(t, 60*time.Second, o.IdleTimeout)
	assert.Equal(t, []string{"*"}, o.AllowedOrigins)
}

func TestValidate(t *testing.T) {
	o := NewOptions()
	assert.Empty(t, o.Validate())

	o.Addr = ""
	assert.Len(t, o.Validate(), 1)

	o = NewOptions()
	o.WriteTimeout = -1 * time.Second
	assert.Len(t, o.Validate(), 1)

	o = NewOptions()
	o.WriteTimeout = 0
	assert.Empty(t, o.Validate())
}

func TestComplete(t *testing.T) {
	o := NewOptions()
	o.AllowedOrigins = nil
	require.NoError(t, o.Complete())
	assert.Equal(t, []string{"*"}, o.AllowedOrigins)
}
