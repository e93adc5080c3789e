package hashutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSum(t *testing.T) {
	// sha256 of the empty input is a well-known constant
	assert.Equal(t, "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855", Sum(nil))
	assert.Equal(t, "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855", Sum([]byte{}))

	assert.Equal(t, "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824", Sum([]byte("hello")))
}

func TestSumProperties(t *testing.T) {
	a := Sum([]byte("<testsuite name=\"a\"/>"))
	b := Sum([]byte("<testsuite name=\"b\"/>"))

	assert.Len(t, a, 64)
	assert.NotEqual(t, a, b)
	// stable across calls
	assert.Equal(t, a, Sum([]byte("<testsuite name=\"a\"/>")))
}
