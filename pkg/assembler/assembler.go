// Package assembler は物語アウトラインと生のパネル記述から、
// 不変条件を満たす Panel 列を組み立てます。構造的に不正なモデル出力が
// 正当な Panel に変換されることを保証する唯一の場所であり、
// ここを通過した後の消費者に防御的な分岐は不要です。
package assembler

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/shouni/go-webtoon-kit/pkg/director"
	"github.com/shouni/go-webtoon-kit/pkg/domain"
	"github.com/shouni/go-webtoon-kit/pkg/fallback"
	"github.com/shouni/go-webtoon-kit/pkg/retry"
)

// BubbleLayouter は吹き出しの配置・スタイル提案を行う上流コラボレーター
// の契約です。1回の呼び出しが対象にするのは1パネル分の記述とセリフです。
type BubbleLayouter interface {
	Layout(ctx context.Context, description string, dialogue []domain.DialogueLine) ([]domain.RawSpeechBubble, error)
}

// Assembler はパネル組み立ての実体です。
type Assembler struct {
	layouter BubbleLayouter
	policy   retry.Policy
}

// New は Assembler を初期化します。layouter は必須です。
func New(layouter BubbleLayouter) (*Assembler, error) {
	if layouter == nil {
		return nil, fmt.Errorf("layouter は必須です")
	}
	return &Assembler{
		layouter: layouter,
		policy:   retry.DefaultPolicy(),
	}, nil
}

// Assemble は記述子列を上流モデルが返した順のまま Panel 列に変換します。
// 並べ替えも重複排除も行いません。1枚のパネルの組み立ては
// 全か無かであり、途中状態の Panel が結果に混ざることはありません。
func (a *Assembler) Assemble(ctx context.Context, story *domain.StoryOutline, descriptors []domain.PanelDescriptor) ([]domain.Panel, error) {
	panels := make([]domain.Panel, 0, len(descriptors))
	for i, desc := range descriptors {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		panel, err := a.assembleOne(ctx, desc)
		if err != nil {
			return nil, fmt.Errorf("パネル %d の組み立てに失敗しました: %w", i+1, err)
		}
		panels = append(panels, panel)

		slog.Debug("パネルを組み立てました",
			"index", i+1,
			"panel_id", panel.PanelID,
			"bubbles", len(panel.SpeechBubbles),
		)
	}

	slog.Info("全パネルの組み立てが完了したのだ", "count", len(panels), "title", story.TitleOrDefault())
	return panels, nil
}

func (a *Assembler) assembleOne(ctx context.Context, desc domain.PanelDescriptor) (domain.Panel, error) {
	dialogue := director.NormalizeDialogue(desc.Dialogue)

	characters := desc.Characters
	if len(characters) == 0 {
		characters = director.SpeakersOf(dialogue)
	}
	if len(characters) == 0 {
		characters = []string{director.DefaultCharacterName}
	}

	bubbles, err := a.layoutBubbles(ctx, desc.VisualDescription, dialogue)
	if err != nil {
		return domain.Panel{}, err
	}

	panel := domain.Panel{
		PanelID:       uuid.NewString(),
		Description:   desc.VisualDescription,
		Characters:    characters,
		Dialogue:      dialogue,
		SpeechBubbles: bubbles,
		Size:          director.NormalizeSize(desc.PanelSize),
		Caption:       desc.Caption,
		Effects:       director.NormalizeEffects(desc.SpecialEffects),
	}
	if err := panel.Validate(); err != nil {
		// 正準化が全域である以上ここには到達しないはず。到達したら
		// canonicalizer の欠陥として表面化させる。
		return domain.Panel{}, retry.Upstream(retry.KindValidation, err)
	}
	return panel, nil
}

// layoutBubbles はレイアウト呼び出しを有界再試行付きで実行し、
// 使い切った場合は決定的なプレースホルダ配置に局所フォールバックします。
// どちらの経路の吹き出しも必ず正準化してから構築するため、
// 戻り値は常に正当です。
func (a *Assembler) layoutBubbles(ctx context.Context, description string, dialogue []domain.DialogueLine) ([]domain.SpeechBubble, error) {
	if len(dialogue) == 0 {
		return nil, nil
	}

	raws, err := retry.Invoke(ctx, a.policy, func(ctx context.Context) ([]domain.RawSpeechBubble, error) {
		return a.layouter.Layout(ctx, description, dialogue)
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, err
		}
		slog.Warn("吹き出しレイアウトの取得に失敗したため、代替配置を使うのだ",
			"error", err, "lines", len(dialogue))
		raws = fallback.PlaceholderBubbles(dialogue)
	}

	// 不変条件 len(bubbles) == len(dialogue) をここで確定させる。
	// 過剰分は切り詰め、不足分はプレースホルダで補う。
	if len(raws) > len(dialogue) {
		raws = raws[:len(dialogue)]
	}
	for i := len(raws); i < len(dialogue); i++ {
		raws = append(raws, domain.RawSpeechBubble{
			Text:          dialogue[i].Text,
			Character:     dialogue[i].Character,
			Position:      director.FallbackPosition(i),
			Style:         domain.StyleNormal,
			TailDirection: domain.TailBottom,
		})
	}

	bubbles := make([]domain.SpeechBubble, 0, len(dialogue))
	for i, raw := range raws {
		canon := director.CanonicalizeBubble(raw)
		if canon.Text == "" {
			canon.Text = dialogue[i].Text
		}
		if canon.Character == "" {
			canon.Character = dialogue[i].Character
		}

		bubble, err := domain.NewSpeechBubble(canon.Text, canon.Character, canon.Position, canon.Style, canon.TailDirection)
		if err != nil {
			return nil, retry.Upstream(retry.KindValidation, err)
		}
		bubbles = append(bubbles, bubble)
	}
	return bubbles, nil
}
