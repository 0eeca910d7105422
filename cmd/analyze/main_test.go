package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTaskIDs(t *testing.T) {
	ids := taskIDs([]string{
		"samples/a.png",
		"samples/a.tif",
		"other/a.png",
		"samples/.png",
		"samples/alloy.v2.jpg",
		"a_png_2",
	})

	assert.Equal(t, []string{"a_png", "a_tif", "a_png_2", "_png", "alloy_v2_jpg", "a_png_2_2"}, ids)
}
