// Command setpremium flips a user's subscription flag by email.
//
//	setpremium --email monte@gmail.com [--revoke]
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/pflag"

	"fitai-backend/internal/audit"
	userRepo "fitai-backend/internal/user/repository"
	userUsecase "fitai-backend/internal/user/usecase"
	"fitai-backend/pkg/config"
	"fitai-backend/pkg/database"
	"fitai-backend/pkg/firebase"
	"fitai-backend/pkg/logging"
)

const actor = "setpremium-cli"

func main() {
	cfg := config.Load()
	closeLog, err := logging.Init(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer closeLog()
	log := logging.Component("setpremium")

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if cfg.FirebaseProjectID == "" {
		log.Error().Msg("FIREBASE_PROJECT_ID is required")
		os.Exit(1)
	}
	app, err := firebase.NewApp(ctx, cfg.FirebaseProjectID, cfg.FirebaseCredentials)
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize firebase")
		os.Exit(1)
	}
	fsClient, err := app.Firestore(ctx)
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize firestore")
		os.Exit(1)
	}
	defer fsClient.Close()

	recorder := audit.NewLogRecorder()
	if cfg.DatabaseURL != "" {
		if db, err := database.NewPostgresConnection(cfg.DatabaseURL); err != nil {
			log.Warn().Err(err).Msg("audit database unavailable, auditing to log")
		} else if r, err := audit.NewGormRecorder(db); err == nil {
			recorder = r
		}
	}

	uc := userUsecase.NewUserUsecase(userRepo.NewFirestoreUserRepository(fsClient), recorder)
	os.Exit(run(ctx, os.Args[1:], uc, os.Stderr))
}

// run parses flags and applies the change, returning the process exit code
func run(ctx context.Context, args []string, uc userUsecase.UserUsecase, stderr io.Writer) int {
	log := logging.Component("setpremium")

	fs := pflag.NewFlagSet("setpremium", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	email := fs.String("email", "", "email of the user to update")
	revoke := fs.Bool("revoke", false, "revoke premium instead of granting it")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		return 2
	}
	if *email == "" {
		fmt.Fprintln(stderr, "--email is required")
		fs.PrintDefaults()
		return 2
	}

	apply := uc.SetPremiumByEmail
	if *revoke {
		apply = uc.RevokePremiumByEmail
	}
	updated, err := apply(ctx, *email, actor)
	if err != nil {
		log.Error().Err(err).Str("email", *email).Msg("update failed")
		return 1
	}
	if !updated {
		log.Info().Str("email", *email).Msg("no user with this email, nothing to do")
		return 0
	}
	log.Info().Str("email", *email).Bool("premium", !*revoke).Msg("subscription updated")
	return 0
}
