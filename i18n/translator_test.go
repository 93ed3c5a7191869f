package i18n

import "testing"

func TestTranslator_DefaultAndJapanese(t *testing.T) {
	// default is en
	if msg := T("schema-type-unknown-type", nil); msg == "schema-type-unknown-type" || msg == "" {
		t.Fatalf("expected a human message, got %q", msg)
	}

	SetLanguage("ja-JP")
	defer SetLanguage("en")
	if msg := T("schema-type-unknown-type", nil); msg != "未知の型を参照しています" {
		t.Fatalf("expected japanese message, got %q", msg)
	}
	if msg := T("summary", map[string]string{"errors": "2", "warnings": "1"}); msg != "エラー 2 件、警告 1 件" {
		t.Fatalf("summary = %q", msg)
	}
}

func TestTranslator_Fallbacks(t *testing.T) {
	if msg := T("no-such-id", nil); msg != "no-such-id" {
		t.Errorf("unknown code = %q", msg)
	}
	if msg := T("summary", map[string]string{"errors": "0", "warnings": "3"}); msg != "0 errors, 3 warnings" {
		t.Errorf("summary = %q", msg)
	}
	for in, want := range map[string]string{"ja": "ja", "en_US": "en", "fr": "en", "": "en"} {
		if got := Match(in); got != want {
			t.Errorf("Match(%q) = %q, want %q", in, got, want)
		}
	}
}
