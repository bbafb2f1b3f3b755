package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoundMoney(t *testing.T) {
	assert.Equal(t, 33.33, RoundMoney(33.333333))
	assert.Equal(t, 33.34, RoundMoney(33.336))
	assert.Equal(t, 100.0, RoundMoney(33.34+33.33+33.33))
	assert.Equal(t, 0.0, RoundMoney(0.001))
	assert.Equal(t, -5.13, RoundMoney(-5.126))
}
