package svgtrace

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrors_Kinds(t *testing.T) {
	testCases := []struct {
		kind     ErrorKind
		sentinel error
		name     string
	}{
		{InvalidImage, ErrInvalidImage, "InvalidImage"},
		{InvalidParameter, ErrInvalidParameter, "InvalidParameter"},
		{TracingFailure, ErrTracingFailure, "TracingFailure"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			err := newError(tc.kind, "op", "value %d", 42)
			assert.Equal(tc.name, tc.kind.String())
			assert.ErrorIs(err, tc.sentinel)
			assert.Equal(fmt.Sprintf("svgtrace: op: %v: value 42", tc.sentinel), err.Error())

			// Wrapping keeps the error kind.
			wrapped := fmt.Errorf("context: %w", err)
			assert.ErrorIs(wrapped, tc.sentinel)

			var terr *Error
			if assert.ErrorAs(wrapped, &terr) {
				assert.Equal(tc.kind, terr.Kind)
				assert.Equal("value 42", errors.Unwrap(terr).Error())
			}

			for _, other := range []error{ErrInvalidImage, ErrInvalidParameter, ErrTracingFailure} {
				if other != tc.sentinel {
					assert.False(errors.Is(err, other))
				}
			}
		})
	}
}

func TestErrors_WithoutCause(t *testing.T) {
	err := &Error{Kind: InvalidImage, Op: "bitmap"}
	assert.Equal(t, "svgtrace: bitmap: invalid image", err.Error())
	assert.ErrorIs(t, err, ErrInvalidImage)
	assert.Equal(t, "Unknown", ErrorKind(0).String())
}
