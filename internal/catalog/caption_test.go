package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCaptionFullPost(t *testing.T) {
	caption := "Худи Inko Classic\nПлотный футер, унисекс.\nЦена 3500 ₽\n#худи #новинка"

	draft := ParseCaption(caption)

	assert.Equal(t, "Худи Inko Classic", draft.Title)
	assert.Equal(t, "Плотный футер, унисекс.\nЦена 3500 ₽\n#худи #новинка", draft.Description)
	assert.Equal(t, 350000, draft.PriceCents)
	assert.Equal(t, "худи", draft.Category)
	assert.False(t, draft.IsPreorder)
}

func TestParseCaptionPreorderTagIsNotACategory(t *testing.T) {
	draft := ParseCaption("Футболка\n1200р\n#предзаказ #футболки")

	assert.True(t, draft.IsPreorder)
	assert.Equal(t, "футболки", draft.Category)
}

func TestParseCaptionDefaults(t *testing.T) {
	draft := ParseCaption("")

	assert.Equal(t, "Без названия", draft.Title)
	assert.Equal(t, "Разное", draft.Category)
	assert.Zero(t, draft.PriceCents)
	assert.False(t, draft.IsPreorder)
}

func TestParseCaptionFirstHashtagWins(t *testing.T) {
	draft := ParseCaption("Лонгслив\n#лонгсливы #распродажа")

	assert.Equal(t, "лонгсливы", draft.Category)
}

func TestParseCaptionLatinPriceMarker(t *testing.T) {
	draft := ParseCaption("Кепка\n900p")

	assert.Equal(t, 90000, draft.PriceCents)
}
