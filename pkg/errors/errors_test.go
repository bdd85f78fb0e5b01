package errors

import (
	stderrors "errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrap_PreservesCauseAndStack(t *testing.T) {
	inner := New(ErrorTypeConnection, "dial failed")
	outer := Wrap(inner, ErrorTypeConfig, "failed to create pipe")

	require.NotNil(t, outer)
	assert.Equal(t, inner.Stack, outer.Stack)
	assert.True(t, stderrors.Is(outer, inner))
	assert.Equal(t, "config: failed to create pipe: connection: dial failed", outer.Error())
}

func TestWrap_Nil(t *testing.T) {
	assert.Nil(t, Wrap(nil, ErrorTypeData, "nothing"))
}

func TestWrap_ForeignError(t *testing.T) {
	err := Wrap(io.EOF, ErrorTypeData, "short body")
	assert.True(t, stderrors.Is(err, io.EOF))
	assert.NotEmpty(t, err.Stack)
}

func TestIsType(t *testing.T) {
	tests := []struct {
		name string
		err  error
		typ  ErrorType
		want bool
	}{
		{"matching", New(ErrorTypeNotFound, "x"), ErrorTypeNotFound, true},
		{"different", New(ErrorTypeNotFound, "x"), ErrorTypeConfig, false},
		{"outermost wins", Wrap(New(ErrorTypeNotFound, "x"), ErrorTypeConfig, "y"), ErrorTypeConfig, true},
		{"plain error", io.EOF, ErrorTypeData, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsType(tt.err, tt.typ))
		})
	}
}

func TestNewf(t *testing.T) {
	err := Newf(ErrorTypeNotFound, "adapter %q not registered", "bogus")
	assert.Equal(t, `not_found: adapter "bogus" not registered`, err.Error())
}

func TestNew_StackStartsAtCaller(t *testing.T) {
	err := New(ErrorTypeData, "bad record")
	require.NotEmpty(t, err.Stack)
	assert.Contains(t, err.Stack[0].Function, "TestNew_StackStartsAtCaller")
}
