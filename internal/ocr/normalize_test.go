package ocr

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeLayout(t *testing.T) {
	in := "Name: Jane Mwangi   \r\nBasic Pay          45,000.00\t\rNET PAY      38,200.50"
	want := "Name: Jane Mwangi\nBasic Pay          45,000.00\nNET PAY      38,200.50"
	assert.Equal(t, want, NormalizeLayout(in))
	assert.Equal(t, "", NormalizeLayout(""))
}
