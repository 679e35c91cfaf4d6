// Package radar はホーム画面のレーダーチャート（カテゴリ別の関係温度）を集計する。
package radar

import (
	"math"

	"github.com/anbu-app/anbu/internal/model"
)

const (
	// EmptyCategoryScore はペルソナのいないカテゴリのスコア。
	EmptyCategoryScore = 50.0
	// NoCategoryOverallScore はカテゴリが1件もない場合の総合スコア。
	NoCategoryOverallScore = 63.0
)

// Palette はカテゴリの表示色。カテゴリの並び順に循環して割り当てる。
var Palette = []string{
	"#9B7BCC", "#5BA8C9", "#5BA89A", "#C97B9A", "#C9A86B",
	"#8B7BAB", "#7BA8B9", "#7BA89A", "#B97B8A", "#B9A87B",
}

// PersonaItem はレーダーのカテゴリに表示するペルソナ。
type PersonaItem struct {
	Name string
}

// CategoryItem はカテゴリ1件分の集計結果。
type CategoryItem struct {
	ID           string
	Name         string
	Score        float64
	PersonaCount int
	Personas     []PersonaItem
	Color        string
}

// Result はレーダーチャート全体の集計結果。
type Result struct {
	Categories   []CategoryItem
	OverallScore float64
}

// Compute はカテゴリごとの平均関係温度と総合スコアを算出する。
// categoriesは作成日時の古い順に並んでいる前提で、その順序のまま結果に反映する。
//
// ペルソナのいないカテゴリはスコア50.0、重み1として総合スコアに含める。
// 総合スコアはペルソナ数で重み付けした平均で、カテゴリがない場合は63.0とする。
// スコアは小数第1位に丸める。
func Compute(categories []model.CategoryWithPersonas) Result {
	items := make([]CategoryItem, 0, len(categories))
	var totalSum float64
	var totalCount int

	for i, c := range categories {
		names := make([]PersonaItem, 0, len(c.Personas))
		score := EmptyCategoryScore

		if n := len(c.Personas); n > 0 {
			var sum float64
			for _, p := range c.Personas {
				sum += p.RelationshipTemp
				names = append(names, PersonaItem{Name: p.Name})
			}
			score = sum / float64(n)
			totalSum += score * float64(n)
			totalCount += n
		} else {
			totalSum += score
			totalCount++
		}

		items = append(items, CategoryItem{
			ID:           c.Category.ID,
			Name:         c.Category.Name,
			Score:        round1(score),
			PersonaCount: len(c.Personas),
			Personas:     names,
			Color:        Palette[i%len(Palette)],
		})
	}

	overall := NoCategoryOverallScore
	if totalCount > 0 {
		overall = round1(totalSum / float64(totalCount))
	}

	return Result{Categories: items, OverallScore: overall}
}

// round1 は小数第1位に丸める（0.5は0から遠い方へ）。
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
