package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsLuna(t *testing.T) {
	tests := []struct {
		name     string
		number   string
		expected bool
	}{
		{"Valid number", "2404815702", true},
		{"Invalid checksum", "2404815703", false},
		{"Not a number", "abc", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsLuna(tt.number))
		})
	}
}

func TestIsCardNumber(t *testing.T) {
	tests := []struct {
		name     string
		number   string
		expected bool
	}{
		{"Valid card", "4561261212345467", true},
		{"Valid card with spaces", "4561 2612 1234 5467", true},
		{"Bad checksum", "4561261212345468", false},
		{"Too short", "456126121234", false},
		{"Too long", "45612612123454674561261212345467", false},
		{"Letters", "4561261212345abc", false},
		{"Empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsCardNumber(tt.number))
		})
	}
}

func TestIsPhoneNumber(t *testing.T) {
	tests := []struct {
		name     string
		number   string
		expected bool
	}{
		{"International format", "+79160000000", true},
		{"Without plus", "79160000000", true},
		{"Too short", "+12345", false},
		{"Too long", "+1234567890123456", false},
		{"Letters", "+7916000000a", false},
		{"Empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsPhoneNumber(tt.number))
		})
	}
}
