package resolve

import (
	"strings"
	"testing"

	"newsdesk/internal/config"
)

func testValidatorConfig() config.Validator {
	return config.Validator{
		MinChars:           50,
		MinScriptChars:     10,
		MinNormalizedChars: 30,
		BoilerplateMarkers: []string{"공유하기", "로그인", "회원가입"},
	}
}

func TestValidatorLengthBoundary(t *testing.T) {
	v := NewValidator(testValidatorConfig())

	exact := strings.Repeat("가", 50)
	if !v.Valid(exact) {
		t.Error("text exactly at the minimum length must be accepted")
	}
	if v.Valid(strings.Repeat("가", 49)) {
		t.Error("text one character short of the minimum must be rejected")
	}
}

func TestValidatorBoilerplateMarkers(t *testing.T) {
	v := NewValidator(testValidatorConfig())
	body := strings.Repeat("기", 60)

	if v.Valid(body + " 공유하기 로그인") {
		t.Error("two distinct boilerplate markers must reject")
	}
	if !v.Valid(body + " 공유하기") {
		t.Error("a single marker alone must not reject")
	}
}

func TestValidatorScriptGlyphMinimum(t *testing.T) {
	v := NewValidator(testValidatorConfig())

	if v.Valid(strings.Repeat("a", 100)) {
		t.Error("text without source-script glyphs must be rejected")
	}
	if !v.Valid(strings.Repeat("漢", 60)) {
		t.Error("CJK ideographs count as script glyphs")
	}
}

func TestValidatorNormalizedFloor(t *testing.T) {
	v := NewValidator(testValidatorConfig())

	// 55 runes after trimming, but only 28 once whitespace is removed.
	sparse := strings.TrimSpace(strings.Repeat("가 ", 28))
	if v.Valid(sparse) {
		t.Error("whitespace-padded text under the normalized floor must be rejected")
	}
}
