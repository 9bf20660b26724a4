package catalog

import (
	"fmt"
	"sync"

	"github.com/SAP-F-2025/spirit-profile-service/internal/models"
)

// CatalogVersion identifies the trait ordering below. Profile codes embed
// catalog positions, so reordering or inserting traits requires a new version.
const CatalogVersion = 1

const traitCodeLength = 3

var defaultTraits = []models.Trait{
	{Code: "ATH", Name: "雅典娜", Title: "Athena", CoreEnergy: "理性智慧", ExtremeExpression: "純粹邏輯、透徹分析", DeficiencySymptoms: "冷漠、過度理性", Color: "#4A90E2", Description: "智慧與戰略之神，以理性洞察引領前路"},
	{Code: "APH", Name: "阿芙蘿黛蒂", Title: "Aphrodite", CoreEnergy: "感性之愛", ExtremeExpression: "深度共感、情感流動", DeficiencySymptoms: "情緒化、邊界模糊", Color: "#E91E63", Description: "愛與美之神，以情感共鳴連結萬物"},
	{Code: "HER", Name: "赫爾墨斯", Title: "Hermes", CoreEnergy: "行動敏捷", ExtremeExpression: "即刻執行、靈活應變", DeficiencySymptoms: "衝動、缺乏深思", Color: "#FF9800", Description: "信使之神，以迅速行動創造可能"},
	{Code: "ODI", Name: "奧丁", Title: "Odin", CoreEnergy: "深度思索", ExtremeExpression: "洞察本質、智慧沉澱", DeficiencySymptoms: "過度思考、行動癱瘓", Color: "#607D8B", Description: "智慧之父，以深思熟慮窺見真理"},
	{Code: "PRO", Name: "普羅米修斯", Title: "Prometheus", CoreEnergy: "創造火種", ExtremeExpression: "突破創新、靈感湧現", DeficiencySymptoms: "躁動不安、破壞秩序", Color: "#F44336", Description: "創新之神，以創造之火點燃新世界"},
	{Code: "ZEU", Name: "宙斯", Title: "Zeus", CoreEnergy: "秩序統治", ExtremeExpression: "建立架構、維持穩定", DeficiencySymptoms: "僵化控制、失去彈性", Color: "#3F51B5", Description: "眾神之王，以秩序力量統馭萬象"},
	{Code: "HOR", Name: "荷魯斯", Title: "Horus", CoreEnergy: "領導權威", ExtremeExpression: "承擔責任、號召引領", DeficiencySymptoms: "獨斷專行、忽視他人", Color: "#795548", Description: "天空之神，以領導威嚴指引方向"},
	{Code: "LOK", Name: "洛基", Title: "Loki", CoreEnergy: "自由不羈", ExtremeExpression: "獨立自主、不受束縛", DeficiencySymptoms: "逃避責任、缺乏歸屬", Color: "#9C27B0", Description: "變化之神，以自由意志打破框架"},
	{Code: "ISI", Name: "伊西斯", Title: "Isis", CoreEnergy: "夢想願景", ExtremeExpression: "遠見理想、靈性追求", DeficiencySymptoms: "不切實際、逃避現實", Color: "#00BCD4", Description: "魔法女神，以夢想願力創造奇蹟"},
	{Code: "HEP", Name: "赫菲斯托斯", Title: "Hephaestus", CoreEnergy: "實踐工匠", ExtremeExpression: "落地執行、精工細作", DeficiencySymptoms: "短視近利、缺乏願景", Color: "#8BC34A", Description: "工匠之神，以實作技藝築造現實"},
	{Code: "AMA", Name: "阿瑪特拉斯", Title: "Amaterasu", CoreEnergy: "挑戰突破", ExtremeExpression: "勇於冒險、打破限制", DeficiencySymptoms: "魯莽衝撞、忽視風險", Color: "#FFC107", Description: "太陽女神，以挑戰精神照亮未知"},
	{Code: "FRE", Name: "芙蕾雅", Title: "Freya", CoreEnergy: "療癒修復", ExtremeExpression: "撫慰傷痛、重建連結", DeficiencySymptoms: "逃避衝突、過度退讓", Color: "#4CAF50", Description: "愛與戰爭女神，以療癒之愛修復破碎"},
}

// TraitCatalog is an ordered, read-only set of traits. The order is the
// tie-break order for ranking and the index space of profile codes.
type TraitCatalog struct {
	traits []models.Trait
	index  map[string]int
}

func NewTraitCatalog(traits []models.Trait) (*TraitCatalog, error) {
	if len(traits) == 0 {
		return nil, fmt.Errorf("%w: no traits", ErrInvalidCatalog)
	}

	c := &TraitCatalog{
		traits: make([]models.Trait, len(traits)),
		index:  make(map[string]int, len(traits)),
	}
	copy(c.traits, traits)

	for i, t := range c.traits {
		if len(t.Code) != traitCodeLength {
			return nil, fmt.Errorf("%w: code %q must be %d characters", ErrInvalidCatalog, t.Code, traitCodeLength)
		}
		if _, dup := c.index[t.Code]; dup {
			return nil, fmt.Errorf("%w: duplicate code %q", ErrInvalidCatalog, t.Code)
		}
		c.index[t.Code] = i
	}
	return c, nil
}

var (
	defaultCatalogOnce sync.Once
	defaultCatalog     *TraitCatalog
)

// DefaultTraitCatalog returns the twelve built-in traits.
func DefaultTraitCatalog() *TraitCatalog {
	defaultCatalogOnce.Do(func() {
		c, err := NewTraitCatalog(defaultTraits)
		if err != nil {
			panic(fmt.Sprintf("catalog: built-in traits are invalid: %v", err))
		}
		defaultCatalog = c
	})
	return defaultCatalog
}

// AllTraitCodes returns the trait codes in catalog order.
func (c *TraitCatalog) AllTraitCodes() []string {
	codes := make([]string, len(c.traits))
	for i, t := range c.traits {
		codes[i] = t.Code
	}
	return codes
}

func (c *TraitCatalog) GetTrait(code string) (models.Trait, error) {
	i, ok := c.index[code]
	if !ok {
		return models.Trait{}, fmt.Errorf("%w: %q", ErrTraitNotFound, code)
	}
	return c.traits[i], nil
}

// IndexOf reports the catalog position of code.
func (c *TraitCatalog) IndexOf(code string) (int, bool) {
	i, ok := c.index[code]
	return i, ok
}

// CodeAt returns the trait code at catalog position i.
func (c *TraitCatalog) CodeAt(i int) (string, bool) {
	if i < 0 || i >= len(c.traits) {
		return "", false
	}
	return c.traits[i].Code, true
}

func (c *TraitCatalog) Contains(code string) bool {
	_, ok := c.index[code]
	return ok
}

// Traits returns a copy of the catalog in order.
func (c *TraitCatalog) Traits() []models.Trait {
	out := make([]models.Trait, len(c.traits))
	copy(out, c.traits)
	return out
}

func (c *TraitCatalog) Len() int {
	return len(c.traits)
}

// AllTraitCodes returns the built-in trait codes in catalog order.
func AllTraitCodes() []string {
	return DefaultTraitCatalog().AllTraitCodes()
}

// GetTrait looks up a built-in trait by code.
func GetTrait(code string) (models.Trait, error) {
	return DefaultTraitCatalog().GetTrait(code)
}
