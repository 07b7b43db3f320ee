// Package i18n holds the message catalogue for failure codes.
package i18n

import (
	"strings"
	"sync"
)

// Translator retrieves localized messages for failure codes.
// data provides optional values to embed in the message (for example
// "field" or "index").
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

var catalogue = map[string]map[string]string{
	"en": {
		"transport_error":   "resource could not be read",
		"decode_error":      "body is not valid JSON",
		"malformed_payload": "payload is not an object",
		"missing_field":     "required field {field} is missing",
		"not_a_collection":  "field {field} is not an array",
		"element_invalid":   "element {index} does not match the expected shape",
		"bind_error":        "validated record could not be bound",
	},
	"ja": {
		"transport_error":   "リソースを取得できませんでした",
		"decode_error":      "本文が正しい JSON ではありません",
		"malformed_payload": "ペイロードがオブジェクトではありません",
		"missing_field":     "必須フィールド {field} がありません",
		"not_a_collection":  "フィールド {field} が配列ではありません",
		"element_invalid":   "要素 {index} が期待する形と一致しません",
		"bind_error":        "検証済みレコードを変換できませんでした",
	},
}

func (t dictTranslator) Message(code string, data map[string]string) string {
	msg, ok := catalogue[t.lang][code]
	if !ok {
		return code
	}
	for k, v := range data {
		msg = strings.ReplaceAll(msg, "{"+k+"}", v)
	}
	return msg
}

var (
	mu                sync.RWMutex
	currentTranslator Translator = dictTranslator{lang: "en"}
)

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	if lang != "ja" {
		lang = "en"
	}
	SetTranslator(dictTranslator{lang: lang})
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version). nil restores the English dictionary.
func SetTranslator(tr Translator) {
	if tr == nil {
		tr = dictTranslator{lang: "en"}
	}
	mu.Lock()
	currentTranslator = tr
	mu.Unlock()
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string {
	mu.RLock()
	tr := currentTranslator
	mu.RUnlock()
	return tr.Message(code, data)
}
