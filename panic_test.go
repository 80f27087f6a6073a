package futility

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPanicError_Error(t *testing.T) {
	pe := &PanicError{Value: "oh no", Stack: "goroutine 1 [running]:"}

	assert.Equal(t, "oh no", pe.Error())
	assert.Equal(t, "oh no", fmt.Sprintf("%v", pe))
	assert.Equal(t, `"oh no"`, fmt.Sprintf("%q", pe))
	assert.Equal(t, "index out of range", (&PanicError{Value: errors.New("index out of range")}).Error())
}

func TestPanicError_VerboseIncludesStack(t *testing.T) {
	pe := newPanicError("oh no")

	out := fmt.Sprintf("%+v", pe)
	assert.True(t, strings.HasPrefix(out, "panic: oh no\n\n"))
	assert.Contains(t, out, "goroutine")
}

func TestPanicError_Unwrap(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  error
	}{
		{name: "error value", value: io.EOF, want: io.EOF},
		{name: "string value", value: "text", want: nil},
		{name: "nil value", value: nil, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pe := &PanicError{Value: tt.value}
			assert.Equal(t, tt.want, pe.Unwrap())
		})
	}
}

func TestPanicError_ErrorsIs(t *testing.T) {
	var err error = &PanicError{Value: fmt.Errorf("wrapped: %w", io.ErrUnexpectedEOF)}
	assert.True(t, errors.Is(err, io.ErrUnexpectedEOF))
}
