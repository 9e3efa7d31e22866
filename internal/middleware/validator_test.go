package middleware

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateUserID(t *testing.T) {
	assert.NoError(t, ValidateUserID("user-1"))
	assert.NoError(t, ValidateUserID("a1_b2-C3"))

	assert.Error(t, ValidateUserID(""))
	assert.Error(t, ValidateUserID("user one"))
	assert.Error(t, ValidateUserID("user@example.com"))
}

func TestValidateAnalysisID(t *testing.T) {
	assert.NoError(t, ValidateAnalysisID("7e6f2f4e-1df1-4f5c-9e84-64a0a3a3c001"))
	assert.NoError(t, ValidateAnalysisID("7E6F2F4E-1DF1-4F5C-9E84-64A0A3A3C001"))

	assert.Error(t, ValidateAnalysisID(""))
	assert.Error(t, ValidateAnalysisID("not-a-uuid"))
	assert.Error(t, ValidateAnalysisID("7e6f2f4e1df14f5c9e8464a0a3a3c001"))
}

func TestValidateDate(t *testing.T) {
	assert.NoError(t, ValidateDate("2026-08-31"))

	assert.Error(t, ValidateDate(""))
	assert.Error(t, ValidateDate("08/31/2026"))
	assert.Error(t, ValidateDate("2026-13-01"))
}

func TestValidateTestType(t *testing.T) {
	assert.NoError(t, ValidateTestType("Glucose"))
	assert.NoError(t, ValidateTestType("Vitamin D, 25-OH"))

	assert.Error(t, ValidateTestType(""))
	assert.Error(t, ValidateTestType("glucose; drop table labs"))
	assert.Error(t, ValidateTestType("a$(b)"))
}

func TestSanitizeString(t *testing.T) {
	assert.Equal(t, "hello", SanitizeString("  hello\x00 "))
	assert.Equal(t, "ab", SanitizeString("a\x01b"))
}

func TestLimitClamps(t *testing.T) {
	assert.Equal(t, 20, ValidateLimit(0))
	assert.Equal(t, 20, ValidateLimit(-5))
	assert.Equal(t, 42, ValidateLimit(42))
	assert.Equal(t, 100, ValidateLimit(9000))

	assert.Equal(t, 20, ValidatePageSize(0))
	assert.Equal(t, 100, ValidatePageSize(500))
}
