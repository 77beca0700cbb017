package assets

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	assert.Equal(t, Fiat, Classify("usd"))
	assert.Equal(t, Fiat, Classify("EUR"))
	assert.Equal(t, Fiat, Classify("  gbp "))
	assert.Equal(t, Crypto, Classify("bitcoin"))
	assert.Equal(t, Crypto, Classify("Ethereum"))
	assert.Equal(t, Unknown, Classify("doesnotexist"))
	assert.Equal(t, Unknown, Classify(""))
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "usd", Normalize(" USD "))
	assert.Equal(t, "bitcoin", Normalize("Bitcoin"))
}
