package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/anbu-app/anbu/internal/auth"
	"github.com/anbu-app/anbu/internal/model"
	"github.com/anbu-app/anbu/internal/persona"
)

// デモアカウントの認証情報
const (
	DemoEmail    = "demo@anbu.app"
	DemoPassword = "anbu2025"
)

// demoPersona はデモ用ペルソナの名前と関係温度。
type demoPersona struct {
	name string
	temp float64
}

// demoCategories はデモアカウントに作成するカテゴリとペルソナ。
var demoCategories = []struct {
	name     string
	personas []demoPersona
}{
	{"가족", []demoPersona{{"엄마", 76}, {"아빠", 72}}},
	{"직장", []demoPersona{{"팀장님", 58}, {"동료 지훈", 58}}},
	{"친구", []demoPersona{{"민수", 62}, {"수진", 60}}},
	{"연인", []demoPersona{{"지은", 44}, {"준호", 40}}},
	{"멘토", []demoPersona{{"박교수님", 56}, {"김선배", 54}}},
}

var (
	demoBirthDate       = time.Date(1990, 6, 15, 0, 0, 0, 0, time.UTC)
	demoAnniversaryDate = time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	demoPhoneNumber     = "010-0000-0000"
)

// UserFinder はメールアドレスでユーザーを検索する。
type UserFinder interface {
	FindByEmail(ctx context.Context, email string) (*model.User, error)
}

// Registrar はユーザーを登録する。auth.Serviceが実装する。
type Registrar interface {
	Register(ctx context.Context, email, password, timezone string) (*auth.Result, error)
}

// CategoryCreator はカテゴリを作成する。category.Serviceが実装する。
type CategoryCreator interface {
	Create(ctx context.Context, userID, name string) (*model.Category, error)
}

// PersonaCreator はペルソナを作成する。persona.Serviceが実装する。
type PersonaCreator interface {
	Create(ctx context.Context, userID string, in persona.CreateInput) (*model.Persona, error)
}

// Seeder はデモアカウントを作成する。
type Seeder struct {
	users      UserFinder
	registrar  Registrar
	categories CategoryCreator
	personas   PersonaCreator
}

// NewSeeder はSeederを生成する。
func NewSeeder(users UserFinder, registrar Registrar, categories CategoryCreator, personas PersonaCreator) *Seeder {
	return &Seeder{
		users:      users,
		registrar:  registrar,
		categories: categories,
		personas:   personas,
	}
}

// SeedDemoUser はデモユーザーと5つのカテゴリ、各カテゴリ2人のペルソナを作成する。
// デモユーザーが既に存在する場合は何もせずfalseを返す。
func (s *Seeder) SeedDemoUser(ctx context.Context) (bool, error) {
	existing, err := s.users.FindByEmail(ctx, DemoEmail)
	if err != nil {
		return false, fmt.Errorf("failed to look up demo user: %w", err)
	}
	if existing != nil {
		slog.Info("demo user already exists, skipping seed", slog.String("email", DemoEmail))
		return false, nil
	}

	result, err := s.registrar.Register(ctx, DemoEmail, DemoPassword, model.DefaultTimezone)
	if err != nil {
		return false, fmt.Errorf("failed to create demo user: %w", err)
	}
	userID := result.User.ID

	for _, dc := range demoCategories {
		category, err := s.categories.Create(ctx, userID, dc.name)
		if err != nil {
			return false, fmt.Errorf("failed to create demo category %q: %w", dc.name, err)
		}

		for _, dp := range dc.personas {
			weight := model.DefaultImportanceWeight
			temp := dp.temp
			birth := demoBirthDate
			anniversary := demoAnniversaryDate
			phone := demoPhoneNumber

			if _, err := s.personas.Create(ctx, userID, persona.CreateInput{
				CategoryID:       category.ID,
				Name:             dp.name,
				PhoneNumber:      &phone,
				BirthDate:        &birth,
				AnniversaryDate:  &anniversary,
				ImportanceWeight: &weight,
				RelationshipTemp: &temp,
			}); err != nil {
				return false, fmt.Errorf("failed to create demo persona %q: %w", dp.name, err)
			}
		}
	}

	slog.Info("demo user created",
		slog.String("email", DemoEmail),
		slog.String("user_id", userID),
		slog.Int("categories", len(demoCategories)),
	)
	return true, nil
}
