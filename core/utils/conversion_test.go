package utils_test

import (
	"encoding/json"
	"testing"

	"stock-sync/core/utils"

	"github.com/stretchr/testify/assert"
)

func TestToInt(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want int
	}{
		{"Nil", nil, 0},
		{"Int", 7, 7},
		{"Int64", int64(9), 9},
		{"Float", 3.6, 4},
		{"JSONNumber", json.Number("12"), 12},
		{"JSONNumberFloat", json.Number("2.4"), 2},
		{"String", " 15 ", 15},
		{"Bytes", []byte("3"), 3},
		{"Garbage", "abc", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, utils.ToInt(tt.in))
		})
	}
}

func TestToString(t *testing.T) {
	assert.Equal(t, "", utils.ToString(nil))
	assert.Equal(t, "Acme", utils.ToString("Acme"))
	assert.Equal(t, "12.5", utils.ToString(12.5))
	assert.Equal(t, "3", utils.ToString(float64(3)))
	assert.Equal(t, "true", utils.ToString(true))
	assert.Equal(t, `{"name":"Acme"}`, utils.ToString(map[string]any{"name": "Acme"}))
	assert.Equal(t, `["a","b"]`, utils.ToString([]any{"a", "b"}))
}
