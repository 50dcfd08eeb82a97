package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCoalesceStr(t *testing.T) {
	assert.Equal(t, "b", CoalesceStr("", "b", "c"))
	assert.Equal(t, "", CoalesceStr("", ""))
}

func TestStrPtrRoundTrip(t *testing.T) {
	assert.Nil(t, StrPtr(""))
	assert.Equal(t, "x", StrFromPtr(StrPtr("x")))
	assert.Equal(t, "", StrFromPtr(nil))
}
