// Package access はリソースの所有者チェックを提供する。
//
// カテゴリとペルソナは所有者以外から見えないものとして扱い、404を返す。
// ペルソナ配下のリソース（やり取り記録、メモ、プロフィール）は、
// 親ペルソナが存在しない場合は404、他ユーザーのものであれば403を返す。
package access

import (
	"context"
	"fmt"

	"github.com/anbu-app/anbu/internal/model"
)

// CategoryFinder はカテゴリをIDで取得する。
type CategoryFinder interface {
	FindByID(ctx context.Context, id string) (*model.Category, error)
}

// PersonaFinder はペルソナをIDで取得する。
type PersonaFinder interface {
	FindByID(ctx context.Context, id string) (*model.Persona, error)
}

// Checker は所有者チェックを行う。
type Checker struct {
	categories CategoryFinder
	personas   PersonaFinder
}

// NewChecker はCheckerを生成する。
func NewChecker(categories CategoryFinder, personas PersonaFinder) *Checker {
	return &Checker{
		categories: categories,
		personas:   personas,
	}
}

// OwnedCategory はユーザーが所有するカテゴリを返す。
// 存在しない場合と他ユーザーのカテゴリの場合はCATEGORY_NOT_FOUNDを返す。
func (c *Checker) OwnedCategory(ctx context.Context, userID, categoryID string) (*model.Category, error) {
	category, err := c.categories.FindByID(ctx, categoryID)
	if err != nil {
		return nil, fmt.Errorf("カテゴリの取得に失敗しました: %w", err)
	}
	if category == nil || category.UserID != userID {
		return nil, model.NewCategoryNotFoundError(categoryID)
	}
	return category, nil
}

// OwnedPersona はユーザーが所有するペルソナを返す。
// 存在しない場合と他ユーザーのペルソナの場合はPERSONA_NOT_FOUNDを返す。
func (c *Checker) OwnedPersona(ctx context.Context, userID, personaID string) (*model.Persona, error) {
	persona, err := c.findPersona(ctx, personaID)
	if err != nil {
		return nil, err
	}
	if persona == nil || persona.UserID != userID {
		return nil, model.NewPersonaNotFoundError(personaID)
	}
	return persona, nil
}

// AuthorizePersona はペルソナ配下のリソースを操作できるかを確認する。
// ペルソナが存在しない場合はPERSONA_NOT_FOUND、他ユーザーのペルソナの場合はFORBIDDENを返す。
func (c *Checker) AuthorizePersona(ctx context.Context, userID, personaID string) (*model.Persona, error) {
	persona, err := c.findPersona(ctx, personaID)
	if err != nil {
		return nil, err
	}
	if persona == nil {
		return nil, model.NewPersonaNotFoundError(personaID)
	}
	if persona.UserID != userID {
		return nil, model.NewForbiddenError()
	}
	return persona, nil
}

func (c *Checker) findPersona(ctx context.Context, personaID string) (*model.Persona, error) {
	persona, err := c.personas.FindByID(ctx, personaID)
	if err != nil {
		return nil, fmt.Errorf("ペルソナの取得に失敗しました: %w", err)
	}
	return persona, nil
}
