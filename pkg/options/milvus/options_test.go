package milvusopts

import (
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOptions(t *testing.T) {
	o := NewOptions()
	assert.Equal(t, "localhost:19530", o.Address)
	assert.Equal(t, "default", o.Database)
	assert.Equal(t, 30*time.Second, o.Timeout)
}

func TestValidate(t *testing.T) {
	o := NewOptions()
	assert.Empty(t, o.Validate())

	o.Address = ""
	o.Timeout = 0
	assert.Len(t, o.Validate(), 2)
}

func TestAddFlags(t *testing.T) {
	o := NewOptions()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	o.AddFlags(fs)

	require.NoError(t, fs.Parse([]string{"--milvus.address=milvus:19530", "--milvus.timeout=5s"}))
	assert.Equal(t, "milvus:19530", o.Address)
	assert.Equal(t, 5*time.Second, o.Timeout)
}
