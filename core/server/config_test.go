package server_test

import (
	"testing"

	"page-store/core/server"

	"github.com/stretchr/testify/assert"
)

func TestConfig_BodyLimit(t *testing.T) {
	tests := []struct {
		name  string
		limit int
		want  int
	}{
		{"Configured", 8, 8 << 20},
		{"Zero", 0, 32 << 20},
		{"Negative", -1, 32 << 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := server.Config{BodyLimitMB: tt.limit}
			assert.Equal(t, tt.want, c.BodyLimit())
		})
	}
}

func TestConfig_Addr(t *testing.T) {
	assert.Equal(t, ":9000", server.Config{Port: "9000"}.Addr())
	assert.Equal(t, ":8080", server.Config{}.Addr())
}
