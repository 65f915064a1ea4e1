package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/golang/glog"
	"github.com/gorilla/mux"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"k8s.io/utils/clock"

	quizservice "github.com/hobbyfarm/quizfarm/internal/quizsvc"
	"github.com/hobbyfarm/quizfarm/internal/quizsvc/attempt"
	"github.com/hobbyfarm/quizfarm/internal/quizsvc/question"
	"github.com/hobbyfarm/quizfarm/internal/quizsvc/quizresult"
	userservice "github.com/hobbyfarm/quizfarm/internal/usersvc"
	"github.com/hobbyfarm/quizfarm/pkg/auth"
	"github.com/hobbyfarm/quizfarm/pkg/config"
	"github.com/hobbyfarm/quizfarm/pkg/database"
	"github.com/hobbyfarm/quizfarm/pkg/server"
	"github.com/hobbyfarm/quizfarm/pkg/session"
)

var envFile string

func init() {
	rootCmd.Flags().StringVar(&envFile, "env-file", ".env", "path to a .env file loaded before reading configuration")
	rootCmd.Flags().String(config.SecretKey, config.DefaultSecretKey, "key signing session cookies and login tokens")
	rootCmd.Flags().String(config.DatabaseURL, "sqlite://quizfarm.db", "database url, sqlite://, postgres:// or mysql://")
	rootCmd.Flags().String(config.QuizTimeLimit, "1200", "time allowed per quiz, seconds or a duration like 20m")
	rootCmd.Flags().Int(config.QuizQuestionCount, 20, "questions sampled per quiz")
	rootCmd.Flags().String(config.SessionStore, config.SessionStoreFilesystem, "session storage, filesystem or cookie")
	rootCmd.Flags().String(config.SessionDir, "", "directory for filesystem sessions")
	rootCmd.Flags().Int(config.Port, 80, "http listen port")
	rootCmd.Flags().String(config.CatalogCacheTTL, "30s", "how long the question id catalog is cached")
	rootCmd.Flags().String(config.SeedFile, "", "json file of questions to install at startup")
	rootCmd.Flags().Bool(config.SecureCookies, false, "mark session and csrf cookies secure, for https deployments")
	rootCmd.Flags().AddGoFlagSet(flag.CommandLine)

	if err := viper.BindPFlags(rootCmd.Flags()); err != nil {
		glog.Fatal(err)
	}
}

var rootCmd = &cobra.Command{
	Use:   "quizfarm",
	Short: "run the quizfarm web app",
	RunE:  app,
}

func app(cmd *cobra.Command, args []string) error {
	// glog reads its settings from the go flag set
	flag.CommandLine.Parse([]string{})
	defer glog.Flush()

	if err := config.LoadDotEnv(envFile); err != nil {
		return err
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	glog.V(2).Infof("Starting")

	db, err := database.Open(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	if err := database.Migrate(db); err != nil {
		return err
	}

	var sessions *session.Manager
	switch cfg.SessionStore {
	case config.SessionStoreFilesystem:
		sessions = session.NewFilesystemManager(cfg.SessionDir, cfg.SecretKey)
	default:
		sessions = session.NewCookieManager(cfg.SecretKey)
	}
	sessions.SetSecure(cfg.SecureCookies)

	users := userservice.NewGormUserServer(db)
	questions := question.NewGormQuestionServer(db, cfg.CatalogCacheTTL)
	results := quizresult.NewGormQuizResultServer(db)
	if err := question.Preinstall(cmd.Context(), questions, cfg.SeedFile); err != nil {
		return err
	}
	authenticator := auth.NewAuthenticator(users, sessions, cfg.SecretKey)
	controller := attempt.NewController(questions, results, attempt.NewSampler(nil), clock.RealClock{}, cfg.QuizTimeLimit, cfg.QuizQuestionCount)

	r := mux.NewRouter()
	userservice.NewUserServer(users, authenticator, sessions, results).SetupRoutes(r)
	quizservice.NewQuizServer(authenticator, sessions, questions, results, controller).SetupRoutes(r)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return server.Run(ctx, cfg.Port, server.CSRF(cfg.SecretKey, cfg.SecureCookies)(r))
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		glog.Fatal(err)
	}
}
