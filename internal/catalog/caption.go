package catalog

import (
	"regexp"
	"strconv"
	"strings"
)

const (
	defaultTitle    = "Без названия"
	defaultCategory = "Разное"
	preorderTag     = "предзаказ"
)

var (
	priceRe   = regexp.MustCompile(`(\d+)\s*[₽рp]`)
	hashtagRe = regexp.MustCompile(`#([\wА-Яа-я0-9_]+)`)
)

// ProductDraft is a catalog entry parsed out of a channel post caption.
type ProductDraft struct {
	Title        string `validate:"required"`
	Description  string
	Category     string `validate:"required"`
	PriceCents   int    `validate:"gt=0"`
	IsPreorder   bool
	PhotoFileIDs []string
}

// ParseCaption turns a forwarded post caption into a product draft. The first
// non-empty line is the title, the rest the description. The price is the first
// number followed by a ruble marker. The category comes from the first hashtag
// that is not the preorder tag.
func ParseCaption(caption string) ProductDraft {
	var lines []string
	for _, l := range strings.Split(caption, "\n") {
		if trimmed := strings.TrimSpace(l); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}

	draft := ProductDraft{Title: defaultTitle, Category: defaultCategory}
	if len(lines) > 0 {
		draft.Title = lines[0]
	}
	if len(lines) > 1 {
		draft.Description = strings.Join(lines[1:], "\n")
	}

	if m := priceRe.FindStringSubmatch(caption); m != nil {
		if rubles, err := strconv.Atoi(m[1]); err == nil {
			draft.PriceCents = rubles * 100
		}
	}

	categorySet := false
	for _, m := range hashtagRe.FindAllStringSubmatch(caption, -1) {
		tag := m[1]
		if strings.EqualFold(tag, preorderTag) {
			draft.IsPreorder = true
			continue
		}
		if !categorySet {
			draft.Category = tag
			categorySet = true
		}
	}
	return draft
}
