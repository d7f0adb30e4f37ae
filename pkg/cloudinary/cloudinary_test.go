package cloudinary

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildOptimizedImageURL(t *testing.T) {
	url := BuildOptimizedImageURL("demo", "agriconnect/farms/1/farm_abc", ThumbWidth)
	assert.Equal(t,
		"https://res.cloudinary.com/demo/image/upload/q_auto,f_auto,w_200,c_fill/agriconnect/farms/1/farm_abc",
		url)
}

func TestBuildOptimizedImageURLDefaultsWidth(t *testing.T) {
	assert.Contains(t, BuildOptimizedImageURL("demo", "x", 0), "w_800")
	assert.Contains(t, BuildOptimizedImageURL("demo", "x", -5), "w_800")
}
