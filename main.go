package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"cloud.google.com/go/firestore"

	api "fitai-backend/cmd/api"
	"fitai-backend/internal/audit"
	authUsecase "fitai-backend/internal/auth/usecase"
	billingDelivery "fitai-backend/internal/billing/delivery"
	billingUsecase "fitai-backend/internal/billing/usecase"
	coachDelivery "fitai-backend/internal/coach/delivery"
	coachRepo "fitai-backend/internal/coach/repository"
	coachUsecase "fitai-backend/internal/coach/usecase"
	"fitai-backend/internal/exercise"
	exerciseDelivery "fitai-backend/internal/exercise/delivery"
	notificationDelivery "fitai-backend/internal/notification/delivery"
	"fitai-backend/internal/notification/realtime"
	notificationRepo "fitai-backend/internal/notification/repository"
	"fitai-backend/internal/notification/scheduler"
	"fitai-backend/internal/notification/subscriber"
	notificationUsecase "fitai-backend/internal/notification/usecase"
	privacyDelivery "fitai-backend/internal/privacy/delivery"
	privacyUsecase "fitai-backend/internal/privacy/usecase"
	userDelivery "fitai-backend/internal/user/delivery"
	userRepo "fitai-backend/internal/user/repository"
	userUsecase "fitai-backend/internal/user/usecase"
	voiceDelivery "fitai-backend/internal/voice/delivery"
	voiceUsecase "fitai-backend/internal/voice/usecase"
	"fitai-backend/pkg/ai"
	"fitai-backend/pkg/config"
	"fitai-backend/pkg/database"
	"fitai-backend/pkg/fcm"
	"fitai-backend/pkg/firebase"
	"fitai-backend/pkg/gemini"
	"fitai-backend/pkg/logging"
	"fitai-backend/pkg/mailer"
)

func main() {
	// Load configuration
	cfg := config.Load()

	closeLog, err := logging.Init(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		logging.Log.Fatal().Err(err).Msg("failed to initialize logger")
	}
	defer closeLog()
	log := logging.Component("main")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Firebase backs storage, auth and push. Without a project the API runs on
	// in-memory repositories with local JWT auth.
	var (
		fsClient    *firestore.Client
		authService authUsecase.AuthUsecase
		pushSender  notificationUsecase.PushSender
		authDeleter privacyUsecase.AuthUserDeleter
		users       userRepo.UserRepository
		tokens      notificationRepo.PushTokenRepository
		coachLinks  coachRepo.CoachRepository
	)

	if cfg.FirebaseProjectID != "" {
		app, err := firebase.NewApp(ctx, cfg.FirebaseProjectID, cfg.FirebaseCredentials)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize firebase")
		}
		fsClient, err = app.Firestore(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize firestore")
		}
		defer fsClient.Close()

		authClient, err := app.Auth(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize firebase auth")
		}
		authDeleter = privacyUsecase.NewFirebaseAuthDeleter(authClient)
		if cfg.AuthMode == "firebase" {
			authService = authUsecase.NewFirebaseAuthUsecase(authClient)
		}

		// Push is optional, the API works without it
		if messagingClient, err := app.Messaging(ctx); err != nil {
			log.Warn().Err(err).Msg("failed to initialize FCM client, push notifications disabled")
		} else {
			pushSender = fcm.NewClient(messagingClient)
		}

		users = userRepo.NewFirestoreUserRepository(fsClient)
		tokens = notificationRepo.NewFirestoreTokenRepository(fsClient)
		coachLinks = coachRepo.NewFirestoreCoachRepository(fsClient)
	} else {
		log.Warn().Msg("FIREBASE_PROJECT_ID not configured, using in-memory storage")
		users = userRepo.NewMemoryUserRepository()
		tokens = notificationRepo.NewMemoryTokenRepository(users)
		coachLinks = coachRepo.NewMemoryCoachRepository(users)
	}

	if authService == nil {
		log.Info().Msg("using local JWT auth")
		authService = authUsecase.NewJWTAuthUsecase(cfg.JWTSecret, cfg.JWTAccessExpiry)
	}

	// Audit log goes to Postgres when configured, otherwise to the structured log
	recorder := audit.NewLogRecorder()
	if cfg.DatabaseURL != "" {
		db, err := database.NewPostgresConnection(cfg.DatabaseURL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to database")
		}
		if recorder, err = audit.NewGormRecorder(db); err != nil {
			log.Fatal().Err(err).Msg("failed to migrate audit table")
		}
	}

	// Notifications
	hub := realtime.NewHub(cfg.AllowedOrigins)
	defer hub.Close()
	notifications := notificationUsecase.NewNotificationUsecase(tokens, pushSender, hub)

	reminders := scheduler.NewWorkoutReminderScheduler(users, notifications, cfg.ReminderInterval)
	reminders.Start()
	defer reminders.Stop()

	if cfg.PushRequestsSubscription != "" && cfg.FirebaseProjectID != "" {
		sub, err := subscriber.NewService(ctx, cfg.FirebaseProjectID, cfg.PushRequestsSubscription, cfg.FirebaseCredentials, notifications)
		if err != nil {
			log.Error().Err(err).Msg("failed to initialize push request subscriber")
		} else {
			defer sub.Close()
			go sub.Start(ctx)
		}
	} else {
		log.Info().Msg("PUSH_REQUESTS_SUBSCRIPTION not configured, pub/sub push requests disabled")
	}

	mail := mailer.NewResendMailer(cfg.ResendAPIKey, cfg.EmailFrom)

	// Accounts, coaching and privacy
	userService := userUsecase.NewUserUsecase(users, recorder)
	coachService := coachUsecase.NewCoachUsecase(coachLinks, users, recorder, notifications)
	privacyService := privacyUsecase.NewPrivacyUsecase(users, tokens, coachLinks, authDeleter, recorder, mail)

	var customers billingUsecase.CustomerEmailLookup
	if cfg.StripeSecretKey != "" {
		customers = billingUsecase.NewStripeCustomerLookup(cfg.StripeSecretKey)
	}
	billingService := billingUsecase.NewBillingUsecase(userService, customers)

	// Exercise matching and voice coaching
	matcher, err := exercise.NewDefaultMatcher()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load exercise catalog")
	}

	api.InitRuntimeConfig(ai.ProviderType(cfg.AIProvider), cfg.OpenRouterModel)
	textAI, err := ai.NewTextProviderWithDynamicConfig(ai.DynamicConfig{
		GeminiAPIKey:       cfg.GeminiAPIKey,
		GeminiTextModel:    cfg.GeminiTextModel,
		OpenRouterAPIKey:   cfg.OpenRouterAPIKey,
		GetProvider:        api.GetRuntimeProvider,
		GetOpenRouterModel: api.GetRuntimeOpenRouterModel,
	})
	var coach ai.CoachService
	if err != nil {
		log.Warn().Err(err).Msg("AI provider not configured, voice cues use templates")
	} else {
		coach = ai.NewCoachService(textAI)
		log.Info().Str("provider", cfg.AIProvider).Msg("AI service initialized (dynamic config enabled)")
	}

	var tts voiceUsecase.Synthesizer
	if cfg.GeminiAPIKey != "" {
		tts = gemini.NewGeminiService(cfg.GeminiAPIKey, cfg.GeminiTextModel, cfg.GeminiTTSModel)
	} else {
		log.Warn().Msg("GEMINI_API_KEY not set, voice cues unavailable")
	}
	voiceService := voiceUsecase.NewVoiceUsecase(users, coach, tts, matcher, cfg.GeminiVoice)

	handler := api.NewHandler(authService, api.Handlers{
		User:         userDelivery.NewUserHandler(userService),
		Notification: notificationDelivery.NewNotificationHandler(notifications, hub),
		Coach:        coachDelivery.NewCoachHandler(coachService),
		Privacy:      privacyDelivery.NewPrivacyHandler(privacyService),
		Exercise:     exerciseDelivery.NewExerciseHandler(matcher),
		Voice:        voiceDelivery.NewVoiceHandler(voiceService),
		Billing:      billingDelivery.NewBillingHandler(billingService, cfg.StripeWebhookSecret),
	}, textAI, cfg)

	if err := handler.Start(ctx, ":"+cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
	log.Info().Msg("server exited")
}
