package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeys(t *testing.T) {
	assert.Equal(t, "product:p-1", ProductKey("p-1"))
	assert.Equal(t, "products:all", AllProductsKey)
	assert.Equal(t, "products:category:Electronics", CategoryKey("Electronics"))
	assert.Equal(t, "products:merchant:m-9", MerchantKey("m-9"))
	assert.Equal(t, "search:wireless headset", SearchKey("wireless headset"))
}

func TestTagsKey_OrderIndependent(t *testing.T) {
	a := TagsKey([]string{"usb", "audio", "wireless"})
	b := TagsKey([]string{"wireless", "usb", "audio"})

	assert.Equal(t, "products:tags:audio,usb,wireless", a)
	assert.Equal(t, a, b)
}

func TestTagsKey_DoesNotMutateInput(t *testing.T) {
	tags := []string{"b", "a"}
	TagsKey(tags)
	assert.Equal(t, []string{"b", "a"}, tags)
}
