package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateClientContentType(t *testing.T) {
	assert.NoError(t, ValidateClientContentType("text/plain"))
	assert.NoError(t, ValidateClientContentType("text/csv"))
	assert.NoError(t, ValidateClientContentType("Text/Plain; charset=utf-8"))

	assert.Error(t, ValidateClientContentType("application/pdf"))
	assert.Error(t, ValidateClientContentType("application/octet-stream"))
	assert.Error(t, ValidateClientContentType("image/png"))
	assert.Error(t, ValidateClientContentType(""))
}

func TestValidateFileContentByMagicBytesAcceptsText(t *testing.T) {
	content := strings.NewReader("12345678 S UF An 00840 A4 5/12/25 135\n")

	detected, err := ValidateFileContentByMagicBytes(content)
	require.NoError(t, err)
	assert.Equal(t, "text/plain", detected)

	// The reader must be rewound for the parser.
	buf := make([]byte, 8)
	n, _ := content.Read(buf)
	assert.Equal(t, "12345678", string(buf[:n]))
}

func TestValidateFileContentByMagicBytesRejectsBinary(t *testing.T) {
	content := strings.NewReader("PK\x03\x04\x00\x00binary payload")

	_, err := ValidateFileContentByMagicBytes(content)
	assert.Error(t, err)
}

func TestValidateFileContentByMagicBytesRejectsEmpty(t *testing.T) {
	_, err := ValidateFileContentByMagicBytes(strings.NewReader(""))
	assert.Error(t, err)
}

func TestSanitizeText(t *testing.T) {
	assert.Equal(t, "hello", SanitizeText("<script>alert(1)</script>hello"))
	assert.Equal(t, "plain description", SanitizeText("plain description"))
	assert.Equal(t, "bold", SanitizeText("<b>bold</b>"))
}

func TestStripUnprintable(t *testing.T) {
	assert.Equal(t, "abc def", StripUnprintable("abc\x00 d\x07ef"))
	assert.Equal(t, "keeps\ttabs\nand newlines", StripUnprintable("keeps\ttabs\nand newlines"))
}

func TestValidateDateString(t *testing.T) {
	d, err := ValidateDateString("2025-05-12", "effective_date")
	require.NoError(t, err)
	assert.Equal(t, "2025-05-12", d.Format("2006-01-02"))

	_, err = ValidateDateString("05/12/2025", "effective_date")
	assert.ErrorIs(t, err, ErrValidationFailed)

	_, err = ValidateDateString("", "effective_date")
	assert.ErrorIs(t, err, ErrValidationFailed)
}

func TestValidateStringNotEmpty(t *testing.T) {
	assert.NoError(t, ValidateStringNotEmpty("chargereport", "source"))
	assert.ErrorIs(t, ValidateStringNotEmpty("", "source"), ErrValidationFailed)
	assert.ErrorIs(t, ValidateStringNotEmpty("   ", "source"), ErrValidationFailed)
}

func TestValidateFloatRange(t *testing.T) {
	assert.NoError(t, ValidateFloatRange(0.5, "m", 0, 100))
	assert.ErrorIs(t, ValidateFloatRange(-1, "m", 0, 100), ErrValidationFailed)
	assert.ErrorIs(t, ValidateFloatRange(101, "m", 0, 100), ErrValidationFailed)
}

func TestValidateStringMaxLength(t *testing.T) {
	assert.NoError(t, ValidateStringMaxLength("short", 10, "field"))
	assert.ErrorIs(t, ValidateStringMaxLength("too long for this", 5, "field"), ErrValidationFailed)
}
