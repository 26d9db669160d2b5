package director

import (
	"strings"

	"github.com/shouni/go-webtoon-kit/pkg/domain"
)

// 位置の同義語テーブル。軸が確定するトークンだけを載せ、
// 両軸を指しうる "center"/"middle" は NormalizePosition 側で扱います。
// 未知のトークンは無視されます。
var horizontalSynonyms = map[string]string{
	"left":  "left",
	"right": "right",
}

var verticalSynonyms = map[string]string{
	"top":    "top",
	"upper":  "top",
	"bottom": "bottom",
	"lower":  "bottom",
}

// NormalizePosition は自由記述の位置指定を9分割グリッド
// {top,center,bottom}×{left,center,right} の「縦-横」表記に射影します。
// `-` と `_` で分割した各トークンを縦横の同義語テーブルに照合し、
// どちらの軸にも一致しなかった場合の既定値は "top-left" です。
// 冪等であり、正準9値の再正規化は恒等写像になります。
func NormalizePosition(position string) string {
	vert := ""
	horiz := ""
	ambiguous := 0

	normalized := strings.ReplaceAll(strings.ToLower(position), "_", "-")
	for _, token := range strings.Split(normalized, "-") {
		token = strings.TrimSpace(token)
		// "center" と "middle" は縦横どちらの軸も指しうるため、
		// 確定トークンの割り当てが済むまで保留する
		if token == "center" || token == "middle" {
			ambiguous++
			continue
		}
		if v, ok := verticalSynonyms[token]; ok {
			vert = v
		} else if h, ok := horizontalSynonyms[token]; ok {
			horiz = h
		}
	}

	// 保留したトークンは空いている軸に割り当てる。両軸とも空きなら
	// 横を先に埋める("middle" 単体は横方向の中央指定と解釈する)
	for ; ambiguous > 0; ambiguous-- {
		if horiz == "" {
			horiz = "center"
		} else if vert == "" {
			vert = "center"
		}
	}

	if vert == "" {
		vert = "top"
	}
	if horiz == "" {
		horiz = "left"
	}
	return vert + "-" + horiz
}

// 尻尾方向の同義語テーブル。完全一致のみ採用します。
var tailSynonyms = map[string]string{
	"up":        domain.TailTop,
	"upward":    domain.TailTop,
	"upwards":   domain.TailTop,
	"top":       domain.TailTop,
	"down":      domain.TailBottom,
	"downward":  domain.TailBottom,
	"downwards": domain.TailBottom,
	"bottom":    domain.TailBottom,
	"left":      domain.TailLeft,
	"leftward":  domain.TailLeft,
	"right":     domain.TailRight,
	"rightward": domain.TailRight,
	"none":      domain.TailNone,
}

// NormalizeTail は尻尾方向の表記を正準値に畳み込みます。
// "pointing to Hero" のような句は話者の方向を指す意図として bottom に、
// 認識できない値も bottom になります。
func NormalizeTail(tail string) string {
	lowered := strings.ToLower(strings.TrimSpace(tail))
	if canonical, ok := tailSynonyms[lowered]; ok {
		return canonical
	}
	if strings.Contains(lowered, "pointing") {
		return domain.TailBottom
	}
	return domain.TailBottom
}

// FallbackPosition はレイアウト生成が失敗した際の決定的な代替配置です。
// 偶数行は左上、奇数行は右下と対角に交互配置します。
func FallbackPosition(index int) string {
	if index%2 == 0 {
		return "top-left"
	}
	return "bottom-right"
}
