package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseKernel(t *testing.T) {
	tests := []struct {
		in   string
		want Kernel
		ok   bool
	}{
		{"narrow", Narrow, true},
		{"WIDE", Wide, true},
		{" wide ", Wide, true},
		{"avx9000", Narrow, false},
		{"", Narrow, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseKernel(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestActiveKernel(t *testing.T) {
	k := ActiveKernel()
	assert.Contains(t, []Kernel{Narrow, Wide}, k)
	assert.NotEqual(t, "unknown", k.String())

	if !IsOverridden() && (HasAVX2() || HasASIMD()) {
		assert.Equal(t, Wide, k)
	}
}
