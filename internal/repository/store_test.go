package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClampLimit(t *testing.T) {
	cases := []struct {
		name  string
		limit int
		want  int
	}{
		{"zero uses default", 0, DefaultSearchLimit},
		{"negative uses default", -5, DefaultSearchLimit},
		{"in range kept", 7, 7},
		{"capped at max", MaxListingLimit + 1, MaxListingLimit},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ClampLimit(tc.limit, DefaultSearchLimit, MaxListingLimit))
		})
	}
}
