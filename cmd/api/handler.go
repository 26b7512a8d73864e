package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	authUsecase "fitai-backend/internal/auth/usecase"
	billingDelivery "fitai-backend/internal/billing/delivery"
	coachDelivery "fitai-backend/internal/coach/delivery"
	exerciseDelivery "fitai-backend/internal/exercise/delivery"
	notificationDelivery "fitai-backend/internal/notification/delivery"
	privacyDelivery "fitai-backend/internal/privacy/delivery"
	userDelivery "fitai-backend/internal/user/delivery"
	voiceDelivery "fitai-backend/internal/voice/delivery"
	"fitai-backend/pkg/ai"
	"fitai-backend/pkg/config"
	"fitai-backend/pkg/logging"
)

// Handlers groups the per-module HTTP handlers. Nil entries leave their routes unregistered.
type Handlers struct {
	User         *userDelivery.UserHandler
	Notification *notificationDelivery.NotificationHandler
	Coach        *coachDelivery.CoachHandler
	Privacy      *privacyDelivery.PrivacyHandler
	Exercise     *exerciseDelivery.ExerciseHandler
	Voice        *voiceDelivery.VoiceHandler
	Billing      *billingDelivery.BillingHandler
}

type Handler struct {
	authUsecase authUsecase.AuthUsecase
	handlers    Handlers
	textAI      ai.TextProvider
	config      *config.Config
}

func NewHandler(authUc authUsecase.AuthUsecase, handlers Handlers, textAI ai.TextProvider, cfg *config.Config) *Handler {
	return &Handler{
		authUsecase: authUc,
		handlers:    handlers,
		textAI:      textAI,
		config:      cfg,
	}
}

// Router builds the gin engine with middleware and every route
func (h *Handler) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), logging.GinMiddleware(), corsMiddleware(h.config.AllowedOrigins))

	SetupRoutes(r, h)
	return r
}

// Start serves until ctx is cancelled, then drains in-flight requests
func (h *Handler) Start(ctx context.Context, addr string) error {
	log := logging.Component("http")
	srv := &http.Server{
		Addr:              addr,
		Handler:           h.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("server starting")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func corsMiddleware(allowed []string) gin.HandlerFunc {
	allowedSet := make(map[string]bool, len(allowed))
	for _, o := range allowed {
		allowedSet[o] = true
	}

	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		switch {
		case origin == "":
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		case len(allowedSet) == 0 || allowedSet[origin]:
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
			c.Writer.Header().Add("Vary", "Origin")
		default:
			if c.Request.Method == http.MethodOptions {
				c.AbortWithStatus(http.StatusForbidden)
				return
			}
		}

		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With, X-API-Key")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "X-Cue-Text, X-Cue-Duration-Ms, Content-Disposition")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
