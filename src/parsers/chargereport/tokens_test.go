package chargereport

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsTicketRef(t *testing.T) {
	assert.True(t, isTicketRef("12345678"))
	assert.False(t, isTicketRef("1234567"), "7 digits is not a ticket")
	assert.False(t, isTicketRef("123456789"), "9 digits is not a ticket")
	assert.False(t, isTicketRef("1234567a"))
	assert.False(t, isTicketRef(""))
}

func TestIsNoteCode(t *testing.T) {
	for _, code := range []string{"S", "B", "M", "D", "Z"} {
		assert.True(t, isNoteCode(code), code)
	}
	assert.False(t, isNoteCode("A"), "A is outside the note alphabet")
	assert.False(t, isNoteCode("s"), "note codes are uppercase")
	assert.False(t, isNoteCode("SB"))
}

func TestIsServiceCode(t *testing.T) {
	assert.True(t, isServiceCode("An"))
	assert.True(t, isServiceCode("Me"))
	assert.True(t, isServiceCode("Mo"))
	assert.False(t, isServiceCode("AN"))
	assert.False(t, isServiceCode("Xx"))
}

func TestIsTimeToken(t *testing.T) {
	assert.True(t, isTimeToken("7:30"))
	assert.True(t, isTimeToken("12:05"))
	assert.False(t, isTimeToken("7:3"))
	assert.False(t, isTimeToken("730"))
	assert.False(t, isTimeToken("7:30:00"))
}

func TestIsDateToken(t *testing.T) {
	assert.True(t, isDateToken("5/12/25"))
	assert.True(t, isDateToken("12/1/25"))
	assert.False(t, isDateToken("5/12/2025"), "report dates use 2-digit years")
	assert.False(t, isDateToken("2025-05-12"))
}

func TestIsOBPosToken(t *testing.T) {
	for _, pos := range []string{"L", "R", "S", "P"} {
		assert.True(t, isOBPosToken(pos), pos)
	}
	assert.False(t, isOBPosToken("LR"))
	assert.False(t, isOBPosToken("5/12/25"))
	assert.False(t, isOBPosToken(""))
}

func TestIsNumericToken(t *testing.T) {
	assert.True(t, isNumericToken("135"))
	assert.True(t, isNumericToken("8.00"))
	assert.True(t, isNumericToken("1,240.00"))
	assert.True(t, isNumericToken("-3.5"))
	assert.False(t, isNumericToken("5/12/25"))
	assert.False(t, isNumericToken("7:30"))
	assert.False(t, isNumericToken("A4"))
}

func TestIsDecimalToken(t *testing.T) {
	assert.True(t, isDecimalToken("97.06"))
	assert.True(t, isDecimalToken("1,240.00"))
	assert.False(t, isDecimalToken("135"), "bare integers carry no decimal point")
	assert.False(t, isDecimalToken("97.x"))
}

func TestNormalizeNumber(t *testing.T) {
	assert.Equal(t, "1240.00", normalizeNumber("1,240.00"))
	assert.Equal(t, "135", normalizeNumber("135"))
}
