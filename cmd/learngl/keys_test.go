package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyPressFiresOncePerPress(t *testing.T) {
	var k keyPress
	polled := []bool{false, true, true, true, false, true, false}
	want := []bool{false, true, false, false, false, true, false}

	for i, down := range polled {
		assert.Equal(t, want[i], k.update(down), "frame %d", i)
	}
}
