package echo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drblury/dispatchbench/internal/runtime/benchpb"
	"github.com/drblury/dispatchbench/internal/runtime/handlers"
	"github.com/drblury/dispatchbench/internal/runtime/invoke"
)

func TestHelloWorldEchoesName(t *testing.T) {
	svc := &Service{}
	for _, name := range []string{"Benchmark", "Exec", ""} {
		got := svc.HelloWorld(&benchpb.Hello{Name: name}, handlers.NewTestCallContext())
		require.NotNil(t, got)
		assert.Equal(t, name, got.Result.GetName())
	}
}

func TestHelloWorldToleratesNilRequest(t *testing.T) {
	got := (&Service{}).HelloWorld(nil, nil)
	require.NotNil(t, got)
	assert.Empty(t, got.Result.GetName())
}

func TestHelloWorldHasTypedThunk(t *testing.T) {
	d, err := handlers.Resolve(&Service{}, HandlerName)
	require.NoError(t, err)
	assert.True(t, d.TypedThunk())
	assert.True(t, d.TypedDecoder())

	for _, s := range invoke.Strategies() {
		raw, err := d.Invoke(s, &benchpb.Hello{Name: "Exec"}, handlers.NewTestCallContext())
		require.NoError(t, err)
		msg, err := handlers.UnwrapResult(raw)
		require.NoError(t, err)
		assert.Equal(t, "Exec", msg.(*benchpb.Response).GetName(), s.String())
	}
}
