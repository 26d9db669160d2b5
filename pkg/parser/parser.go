// Package parser は AI モデルの応答テキストを厳密な内部スキーマに
// 矯正（coercion）します。JSON の抽出、既定値の推論、構造検証までを
// 担い、修復できない応答は SchemaError として報告します。
// ここでの失敗は再試行対象ではありません。再試行の判断は上流呼び出しを
// 包む pkg/retry の責務です。
package parser

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

var jsonBlockRegex = regexp.MustCompile("(?s)```(?:json)?\\s*(.*\\S)\\s*```")

// SchemaError は矯正後もスキーマに適合しなかった応答を表します。
// Field は最初に検出した欠落・不正フィールドの名前です。
type SchemaError struct {
	Field  string
	Reason string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("スキーマ不適合 (field: %s): %s", e.Field, e.Reason)
}

// ExtractJSON は AI 応答からJSON本体を取り出します。
// コードフェンス（```json ... ```）を優先し、無ければ最外の波括弧
// または角括弧の範囲、それも無ければ応答全体を JSON とみなします。
// 先に開く方の括弧を採用するため、裸の配列応答も配列のまま残ります。
func ExtractJSON(raw string) string {
	raw = strings.TrimSpace(raw)

	if matches := jsonBlockRegex.FindStringSubmatch(raw); len(matches) > 1 {
		return matches[1]
	}

	firstObj := strings.Index(raw, "{")
	firstArr := strings.Index(raw, "[")

	// 角括弧は文章中の脚注などにも現れるため、範囲がJSONとして成立する
	// 場合だけ配列として採用する
	if firstArr != -1 && (firstObj == -1 || firstArr < firstObj) {
		if last := strings.LastIndex(raw, "]"); last > firstArr {
			if candidate := raw[firstArr : last+1]; json.Valid([]byte(candidate)) {
				return candidate
			}
		}
	}
	if firstObj != -1 {
		if last := strings.LastIndex(raw, "}"); last > firstObj {
			return raw[firstObj : last+1]
		}
	}

	return raw
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
