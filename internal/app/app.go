package app

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/anbu-app/anbu/internal/access"
	"github.com/anbu-app/anbu/internal/auth"
	"github.com/anbu-app/anbu/internal/category"
	"github.com/anbu-app/anbu/internal/config"
	"github.com/anbu-app/anbu/internal/database"
	"github.com/anbu-app/anbu/internal/handler"
	"github.com/anbu-app/anbu/internal/interaction"
	"github.com/anbu-app/anbu/internal/logger"
	"github.com/anbu-app/anbu/internal/metrics"
	"github.com/anbu-app/anbu/internal/middleware"
	"github.com/anbu-app/anbu/internal/note"
	"github.com/anbu-app/anbu/internal/persona"
	"github.com/anbu-app/anbu/internal/radar"
	"github.com/anbu-app/anbu/internal/repository"
	"github.com/anbu-app/anbu/internal/security"
	"github.com/anbu-app/anbu/internal/user"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// dbConnectTimeout は起動時のDB疎通確認のタイムアウト。
const dbConnectTimeout = 10 * time.Second

// Init はアプリケーションの初期化を行う。
// 環境変数からConfigを読み込み、JSON構造化ログをセットアップする。
// writerが指定された場合はログ出力先としてそのwriterを使用する。
func Init(w io.Writer) (*config.Config, error) {
	// 1. ログの初期化（設定読み込み前にログを使えるようにする）
	logger.SetupDefault(w)

	// 2. 環境変数から設定を読み込む
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return cfg, nil
}

// Run はアプリケーションのメインエントリーポイント。
// コマンドライン引数からサブコマンドを解析し、対応するモードで起動する。
// argsにはos.Args[1:]を渡す。
func Run(w io.Writer, args []string) error {
	cmd := ParseCommand(args)

	// healthcheck は軽量サブコマンドのため、フル初期化をスキップする
	if cmd == CommandHealthcheck {
		port := os.Getenv("SERVER_PORT")
		if port == "" {
			port = "8080"
		}
		return runHealthcheck(port)
	}

	cfg, err := Init(w)
	if err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}

	slog.Info("starting application",
		slog.String("command", string(cmd)),
		slog.String("port", cfg.ServerPort),
	)

	switch cmd {
	case CommandMigrate:
		if isMigrateDown(args) {
			return runMigrateDown(cfg)
		}
		return runMigrate(cfg)
	case CommandSeed:
		return runSeed(cfg)
	default:
		return runServe(cfg)
	}
}

// services はHTTPハンドラーとシードが共有するドメインサービス群。
type services struct {
	userRepo    *repository.PostgresUserRepo
	auth        *auth.Service
	user        *user.Service
	category    *category.Service
	persona     *persona.Service
	interaction *interaction.Service
	note        *note.Service
	radar       *radar.Service
}

// newServices はリポジトリとドメインサービスをワイヤリングする。
// collectorがnilの場合はメトリクスを記録しない。
func newServices(db *sql.DB, cfg *config.Config, collector *metrics.Collector) *services {
	// 1. リポジトリの初期化
	userRepo := repository.NewPostgresUserRepo(db)
	categoryRepo := repository.NewPostgresCategoryRepo(db)
	personaRepo := repository.NewPostgresPersonaRepo(db)
	profileRepo := repository.NewPostgresPersonaProfileRepo(db)
	interactionRepo := repository.NewPostgresInteractionLogRepo(db)
	noteRepo := repository.NewPostgresPersonaNoteRepo(db)

	// 2. 共通コンポーネント
	checker := access.NewChecker(categoryRepo, personaRepo)
	sanitizer := security.NewTextSanitizer()

	var (
		authEvents auth.EventRecorder
		radarRec   radar.Recorder
	)
	if collector != nil {
		authEvents = collector
		radarRec = collector
	}

	// 3. ドメインサービスの初期化
	return &services{
		userRepo: userRepo,
		auth: auth.NewService(
			userRepo,
			auth.NewPasswordHasher(cfg.BcryptCost),
			auth.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL),
			authEvents,
			auth.ServiceConfig{DefaultTimezone: cfg.DefaultTimezone},
		),
		user:        user.NewService(userRepo, categoryRepo),
		category:    category.NewService(categoryRepo, checker),
		persona:     persona.NewService(personaRepo, profileRepo, interactionRepo, noteRepo, checker, sanitizer),
		interaction: interaction.NewService(interactionRepo, checker, sanitizer),
		note:        note.NewService(noteRepo, checker, sanitizer),
		radar:       radar.NewService(categoryRepo, radarRec),
	}
}

// openDatabase はDB接続を開き、疎通を確認する。
func openDatabase(cfg *config.Config) (*sql.DB, error) {
	db, err := database.Connect(context.Background(), cfg.DatabaseURL, database.PoolConfig{
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: cfg.DBConnMaxLifetime,
	}, dbConnectTimeout)
	if err != nil {
		return nil, err
	}

	slog.Info("database connection established")
	return db, nil
}

// newRateLimiterConfig はreq/min単位の設定値からレート制限設定を生成する。
// 0以下の値はデフォルト値を使う。
func newRateLimiterConfig(cfg *config.Config) middleware.RateLimiterConfig {
	def := middleware.DefaultRateLimiterConfig()
	general, authLimit := cfg.RateLimitGeneral, cfg.RateLimitAuth
	if general <= 0 {
		general = def.GeneralBurst
	}
	if authLimit <= 0 {
		authLimit = def.AuthBurst
	}
	return middleware.NewRateLimiterConfig(general, authLimit)
}

// runServe はAPIサーバーモードで起動する。
// DB接続を開き、全依存関係をワイヤリングし、HTTPサーバーを起動する。
// SIGINTまたはSIGTERMシグナルを受信するとグレースフルシャットダウンを行う。
func runServe(cfg *config.Config) error {
	// 1. DB接続
	db, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	// 2. メトリクスの初期化
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	collector := metrics.NewCollector(registry)

	// 3. サービスの初期化
	svc := newServices(db, cfg, collector)

	// 4. ルーターの構築
	rateLimiter := middleware.NewRateLimiter(newRateLimiterConfig(cfg))
	defer rateLimiter.Stop()

	router := handler.NewRouter(&handler.RouterDeps{
		Authenticator:     svc.auth,
		CORSAllowedOrigin: cfg.CORSAllowedOrigin,
		RateLimiter:       rateLimiter,
		Logger:            slog.Default(),

		HealthChecker:   db,
		Metrics:         collector,
		MetricsGatherer: registry,

		AuthService:        svc.auth,
		UserService:        svc.user,
		CategoryService:    svc.category,
		PersonaService:     svc.persona,
		InteractionService: svc.interaction,
		NoteService:        svc.note,
		RadarService:       svc.radar,
	})

	// 5. HTTPサーバーの起動
	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// グレースフルシャットダウンのためのシグナルハンドリング
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("API server starting",
			slog.String("addr", server.Addr),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	select {
	case <-stop:
	case err := <-serverErr:
		return fmt.Errorf("server listen error: %w", err)
	}
	slog.Info("shutting down API server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	slog.Info("API server stopped gracefully")
	return nil
}

// runMigrate はデータベースマイグレーションを実行する。
// すべての未適用マイグレーションを順番に適用する。
func runMigrate(cfg *config.Config) error {
	slog.Info("running database migrations",
		slog.String("database_url", maskDatabaseURL(cfg.DatabaseURL)),
	)

	if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	slog.Info("database migrations completed successfully")
	return nil
}

// runMigrateDown は直前のマイグレーションを1つロールバックする。
func runMigrateDown(cfg *config.Config) error {
	slog.Info("rolling back last database migration",
		slog.String("database_url", maskDatabaseURL(cfg.DatabaseURL)),
	)

	if err := database.RollbackMigrations(cfg.DatabaseURL, 1); err != nil {
		return fmt.Errorf("migration rollback failed: %w", err)
	}

	slog.Info("database migration rolled back successfully")
	return nil
}

// runSeed はデモアカウントを作成する。既に存在する場合は何もしない。
func runSeed(cfg *config.Config) error {
	db, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	svc := newServices(db, cfg, nil)
	seeder := NewSeeder(svc.userRepo, svc.auth, svc.category, svc.persona)

	if _, err := seeder.SeedDemoUser(context.Background()); err != nil {
		return fmt.Errorf("seed failed: %w", err)
	}
	return nil
}

// runHealthcheck はヘルスチェックを実行する。
// distroless環境でのDockerヘルスチェック用サブコマンド。
// /health エンドポイントにHTTPリクエストを送り、結果を返す。
func runHealthcheck(port string) error {
	url := fmt.Sprintf("http://localhost:%s/health", port)
	client := &http.Client{Timeout: 5 * time.Second}

	resp, err := client.Get(url)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned status %d", resp.StatusCode)
	}

	return nil
}

// maskDatabaseURL はデータベースURLの認証情報をマスクする。
func maskDatabaseURL(url string) string {
	if len(url) > 20 {
		return url[:12] + "***@..."
	}
	return "***"
}
