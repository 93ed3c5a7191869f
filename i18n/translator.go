// Package i18n provides localized summaries for problem help IDs and the
// labels the CLI prints around them.
package i18n

import (
	"strings"

	"golang.org/x/text/language"
)

// Translator retrieves localized messages for help IDs and labels.
// data provides optional values substituted for {name} placeholders.
type Translator interface {
	Message(code string, data map[string]string) string
}

var messages = map[string]map[string]string{
	"en": {
		"schema-type-invalid":                           "the type declaration is not valid",
		"schema-type-is-esm-module":                     "a module namespace was given instead of a type",
		"schema-type-name-reserved":                     "the type name is reserved",
		"schema-type-missing-name-or-type":              "the type is missing a name or a type",
		"schema-type-title-is-recommended":              "the title should be a string",
		"schema-type-unknown-type":                      "the type refers to an unknown type",
		"schema-object-fields-invalid":                  "the fields of the object are not valid",
		"schema-field-type-is-document":                 "a field cannot be of a document type",
		"schema-predefined-choices-invalid":             "the predefined choices are not valid",
		"schema-array-of-array":                         "arrays cannot contain arrays directly",
		"schema-array-of-invalid":                       "the array members are not valid",
		"schema-array-of-type-global-type-conflict":     "an array member name shadows a global type",
		"schema-array-of-type-builtin-type-conflict":    "an array member name shadows a built-in type",
		"schema-array-of-duplicate-primitive-json-type": "several array members share a primitive JSON type",
		"schema-reference-to-invalid":                   "the reference targets are not valid",
		"schema-reference-invalid-options":              "the reference options are not valid",
		"schema-reference-options-nesting":              "reference options are set in the wrong place",
		"schema-reference-filter-params-combination":    "filter parameters require a string filter",
		"slug-slugifyfn-renamed":                        "slugifyFn was renamed to slugify",
		"asset-metadata-field-invalid":                  "the asset metadata option is not valid",
		"cross-dataset-reference-invalid":               "the cross dataset reference is not valid",
		"global-document-reference-invalid":             "the global document reference is not valid",
		"schema-deprecated-blockeditor-key":             "the blockeditor key is deprecated",
		"schema-standalone-block-type":                  "block types must be used inside an array",
		"schema-deprecated-property":                    "the property is deprecated",

		"error":   "error",
		"warning": "warning",
		"info":    "info",
		"summary": "{errors} errors, {warnings} warnings",
		"valid":   "schema is valid",
		"see":     "see",
	},
	"ja": {
		"schema-type-invalid":                           "型宣言が不正です",
		"schema-type-is-esm-module":                     "型ではなくモジュール名前空間が渡されました",
		"schema-type-name-reserved":                     "型名は予約されています",
		"schema-type-missing-name-or-type":              "型に name または type がありません",
		"schema-type-title-is-recommended":              "title は文字列である必要があります",
		"schema-type-unknown-type":                      "未知の型を参照しています",
		"schema-object-fields-invalid":                  "オブジェクトのフィールドが不正です",
		"schema-field-type-is-document":                 "フィールドにドキュメント型は使えません",
		"schema-predefined-choices-invalid":             "選択肢の定義が不正です",
		"schema-array-of-array":                         "配列の要素に配列は直接使えません",
		"schema-array-of-invalid":                       "配列の要素定義が不正です",
		"schema-array-of-type-global-type-conflict":     "配列要素の名前がグローバル型と衝突しています",
		"schema-array-of-type-builtin-type-conflict":    "配列要素の名前が組み込み型と衝突しています",
		"schema-array-of-duplicate-primitive-json-type": "複数の配列要素が同じプリミティブ JSON 型を持っています",
		"schema-reference-to-invalid":                   "参照先の定義が不正です",
		"schema-reference-invalid-options":              "参照のオプションが不正です",
		"schema-reference-options-nesting":              "参照のオプションの位置が誤っています",
		"schema-reference-filter-params-combination":    "filterParams には文字列の filter が必要です",
		"slug-slugifyfn-renamed":                        "slugifyFn は slugify に名前が変わりました",
		"asset-metadata-field-invalid":                  "アセットの metadata オプションが不正です",
		"cross-dataset-reference-invalid":               "データセット間参照が不正です",
		"global-document-reference-invalid":             "グローバルドキュメント参照が不正です",
		"schema-deprecated-blockeditor-key":             "blockeditor キーは非推奨です",
		"schema-standalone-block-type":                  "block 型は配列の中で使う必要があります",
		"schema-deprecated-property":                    "このプロパティは非推奨です",

		"error":   "エラー",
		"warning": "警告",
		"info":    "情報",
		"summary": "エラー {errors} 件、警告 {warnings} 件",
		"valid":   "スキーマは有効です",
		"see":     "参照",
	},
}

var matcher = language.NewMatcher([]language.Tag{language.English, language.Japanese})

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

func (t dictTranslator) Message(code string, data map[string]string) string {
	msg, ok := messages[t.lang][code]
	if !ok {
		if msg, ok = messages["en"][code]; !ok {
			return code
		}
	}
	for k, v := range data {
		msg = strings.ReplaceAll(msg, "{"+k+"}", v)
	}
	return msg
}

// Match resolves a language tag such as "ja-JP" or "en_US" to a supported
// language ("en" or "ja").
func Match(lang string) string {
	tag, err := language.Parse(strings.ReplaceAll(lang, "_", "-"))
	if err != nil {
		return "en"
	}
	_, idx, _ := matcher.Match(tag)
	if idx == 1 {
		return "ja"
	}
	return "en"
}

var currentTranslator Translator = dictTranslator{lang: "en"}

// SetLanguage switches the built-in Translator language.
func SetLanguage(lang string) {
	currentTranslator = dictTranslator{lang: Match(lang)}
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version).
func SetTranslator(tr Translator) {
	if tr == nil {
		currentTranslator = dictTranslator{lang: "en"}
		return
	}
	currentTranslator = tr
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string { return currentTranslator.Message(code, data) }
