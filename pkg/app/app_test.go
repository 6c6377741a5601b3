package app

import (
	"testing"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testOptions struct {
	Addr string
	ran  bool
}

func (o *testOptions) Flags() (fss NamedFlagSets) {
	fss.FlagSet("server").StringVar(&o.Addr, "addr", o.Addr, "Bind address.")
	return fss
}

func (o *testOptions) Complete() error { return nil }
func (o *testOptions) Validate() error { return nil }

func TestNamedFlagSets_PreservesOrder(t *testing.T) {
	var fss NamedFlagSets
	fss.FlagSet("http")
	fss.FlagSet("log")
	fss.FlagSet("milvus")
	fss.FlagSet("http")

	assert.Equal(t, []string{"http", "log", "milvus"}, fss.Order)
	assert.Same(t, fss.FlagSets["http"], fss.FlagSet("http"))
}

func TestApp_FlagsReachCommand(t *testing.T) {
	opts := &testOptions{Addr: ":8000"}
	a := NewApp(
		WithName("testapp"),
		WithOptions(opts),
		WithNoConfig(),
		WithNoVersion(),
		WithRunFunc(func() error {
			opts.ran = true
			return nil
		}),
	)

	cmd := a.Command()
	require.NotNil(t, cmd.Flags().Lookup("addr"))

	cmd.SetArgs([]string{"--addr", ":9000"})
	require.NoError(t, cmd.Execute())
	assert.Equal(t, ":9000", opts.Addr)
	assert.True(t, opts.ran)
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("TEST_EXPAND_HOST", "milvus.internal")

	viper.Reset()
	defer viper.Reset()
	viper.Set("milvus.address", "${TEST_EXPAND_HOST}:19530")
	viper.Set("llm.api-key", "$TEST_EXPAND_MISSING")

	expandEnvVars()

	assert.Equal(t, "milvus.internal:19530", viper.Get("milvus.address"))
	assert.Equal(t, "$TEST_EXPAND_MISSING", viper.Get("llm.api-key"))
}

func TestFlagSet_DefaultErrorHandling(t *testing.T) {
	var fss NamedFlagSets
	fs := fss.FlagSet("misc")
	assert.Equal(t, pflag.ExitOnError, fs.ErrorHandling())
}
