package linkedit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanConnect(t *testing.T) {
	tests := []struct {
		out, in string
		want    bool
	}{
		{"IMAGE", "IMAGE", true},
		{"IMAGE", "*", true},
		{"*", "LATENT", true},
		{"*", "*", true},
		{"IMAGE", "LATENT", false},
		{"image", "IMAGE", false},
		{"", "IMAGE", false},
		{"", "", true},
	}
	for _, tt := range tests {
		assert.Equalf(t, tt.want, CanConnect(tt.out, tt.in), "CanConnect(%q, %q)", tt.out, tt.in)
	}
}
