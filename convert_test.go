package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTrimAll(t *testing.T) {
	assert.Equal(t, []string{"a", "b c"}, trimAll([]string{" a", "", "b c ", "  "}))
	assert.Nil(t, trimAll(nil))
}
