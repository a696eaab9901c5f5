package resolver_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aturoa13699-lab/turf-engine/internal/resolver"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Randwick", "RANDWICK"},
		{"  royal   randwick ", "ROYAL RANDWICK"},
		{"Flemington!", "FLEMINGTON"},
		{"Müller Park", "MULLER PARK"},
		{"côte-d'azur", "COTE D AZUR"},
		{"", ""},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, resolver.Normalize(c.in), "input %q", c.in)
	}
}
