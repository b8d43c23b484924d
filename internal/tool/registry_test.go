package tool

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zero-day-ai/conductor/internal/schema"
	"github.com/zero-day-ai/conductor/internal/types"
)

func echoTool(name string) *Func {
	return NewFunc(name, "Echoes its arguments",
		schema.NewObjectSchema(map[string]schema.SchemaField{
			"value": schema.NewStringField("Value to echo"),
		}, []string{"value"}),
		func(ctx context.Context, args map[string]any) (any, error) {
			return args["value"], nil
		},
	)
}

func TestRegistry_RegisterAndGet(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(echoTool("echo")))

	got, err := r.Get("echo")
	require.NoError(t, err)
	assert.Equal(t, "echo", got.Name())
	assert.Equal(t, 1, r.Len())
}

func TestRegistry_Register_Duplicate(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(echoTool("echo")))

	err := r.Register(echoTool("echo"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already registered")
}

func TestRegistry_Register_Invalid(t *testing.T) {
	r := NewRegistry()
	assert.Error(t, r.Register(nil))
	assert.Error(t, r.Register(echoTool("")))
}

func TestRegistry_Get_NotFound(t *testing.T) {
	r := NewRegistry()

	_, err := r.Get("missing")
	require.Error(t, err)
	assert.Equal(t, types.EXECUTION_TOOL_NOT_FOUND, types.CodeOf(err))
	assert.True(t, types.IsExecutionError(err))
}

func TestRegistry_Call(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(echoTool("echo")))

	out, err := r.Call(context.Background(), "echo", map[string]any{"value": "ping"})
	require.NoError(t, err)
	assert.Equal(t, "ping", out)

	_, err = r.Call(context.Background(), "missing", nil)
	assert.Equal(t, types.EXECUTION_TOOL_NOT_FOUND, types.CodeOf(err))
}

func TestRegistry_NamesAndDefs_Sorted(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(echoTool("zeta")))
	require.NoError(t, r.Register(echoTool("alpha")))

	assert.Equal(t, []string{"alpha", "zeta"}, r.Names())

	defs := r.Defs()
	require.Len(t, defs, 2)
	assert.Equal(t, "alpha", defs[0].Name)
	assert.Equal(t, "zeta", defs[1].Name)
	assert.Equal(t, "Echoes its arguments", defs[0].Description)
	assert.Equal(t, "object", defs[0].Parameters.Type)

	for _, def := range defs {
		assert.NoError(t, def.Validate())
	}
}
