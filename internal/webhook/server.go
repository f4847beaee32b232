package webhook

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	"github.com/scidept/sentinel/internal/setup/config"
	"github.com/uptrace/bunrouter"
	"go.uber.org/zap"
)

// Session statuses accepted from the place server.
const (
	statusJoined = "joined"
	statusLeft   = "left"
)

// sessions is the slice of the activity layer the receiver drives.
type sessions interface {
	OpenSession(ctx context.Context, robloxID uint64, start time.Time) error
	CloseSession(ctx context.Context, robloxID uint64) (uint64, time.Duration, error)
	TimeSpentSeconds(ctx context.Context, memberID uint64) (int, error)
}

// links resolves Roblox accounts to members.
type links interface {
	MemberID(ctx context.Context, robloxID uint64) (uint64, error)
}

// notifier posts session embeds.
type notifier interface {
	ActivityEmbed(title, description string, color int)
}

// event is the wire shape sent by the place server.
type event struct {
	RobloxID uint64 `json:"robloxId"`
	Status   string `json:"status"`
}

// Server receives session events from the Roblox place server.
type Server struct {
	sessions sessions
	links    links
	notifier notifier
	cfg      *config.Webhook
	reqs     *config.Requirements
	logger   *zap.Logger
	srv      *http.Server
}

// NewServer creates the webhook receiver.
func NewServer(
	sessions sessions,
	links links,
	notifier notifier,
	cfg *config.Webhook,
	reqs *config.Requirements,
	logger *zap.Logger,
) *Server {
	return &Server{
		sessions: sessions,
		links:    links,
		notifier: notifier,
		cfg:      cfg,
		reqs:     reqs,
		logger:   logger.Named("webhook"),
	}
}

// Handler builds the HTTP handler.
func (s *Server) Handler() http.Handler {
	router := bunrouter.New()

	router.GET("/health", func(w http.ResponseWriter, _ bunrouter.Request) error {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))

		return nil
	})

	router.POST("/roblox", s.handleSessionEvent)

	return router
}

// Start runs the HTTP server until Shutdown is called.
func (s *Server) Start() error {
	s.srv = &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.logger.Info("Webhook server listening", zap.String("addr", s.cfg.Addr))

	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

// Shutdown stops the HTTP server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.srv == nil {
		return nil
	}

	return s.srv.Shutdown(ctx)
}

// handleSessionEvent authenticates and applies one session event. An event
// for a Roblox account with no linked member is acknowledged and ignored.
func (s *Server) handleSessionEvent(w http.ResponseWriter, req bunrouter.Request) error {
	if req.Header.Get("X-Secret-Key") != s.cfg.Secret {
		s.logger.Warn("Rejected session event with bad secret")
		w.WriteHeader(http.StatusUnauthorized)

		return nil
	}

	body, err := io.ReadAll(req.Body)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return nil
	}

	var evt event
	if err := sonic.Unmarshal(body, &evt); err != nil || evt.RobloxID == 0 {
		s.logger.Warn("Rejected malformed session event", zap.ByteString("body", body))
		w.WriteHeader(http.StatusBadRequest)

		return nil
	}

	ctx := req.Context()

	memberID, err := s.links.MemberID(ctx, evt.RobloxID)
	if err != nil {
		s.logger.Error("Failed to resolve session event link", zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)

		return nil
	}

	if memberID == 0 {
		// Unlinked accounts are a silent no-op, not an error.
		w.WriteHeader(http.StatusOK)
		return nil
	}

	switch evt.Status {
	case statusJoined:
		s.handleJoin(ctx, evt.RobloxID, memberID, w)
	case statusLeft:
		s.handleLeave(ctx, evt.RobloxID, memberID, w)
	default:
		s.logger.Warn("Rejected session event with unknown status", zap.String("status", evt.Status))
		w.WriteHeader(http.StatusBadRequest)
	}

	return nil
}

func (s *Server) handleJoin(ctx context.Context, robloxID, memberID uint64, w http.ResponseWriter) {
	if err := s.sessions.OpenSession(ctx, robloxID, time.Now().UTC()); err != nil {
		s.logger.Error("Failed to open session",
			zap.Uint64("robloxID", robloxID),
			zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)

		return
	}

	s.notifier.ActivityEmbed("🟢 Joined Site",
		formatJoin(memberID), 0x2ECC71)
	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleLeave(ctx context.Context, robloxID, memberID uint64, w http.ResponseWriter) {
	_, elapsed, err := s.sessions.CloseSession(ctx, robloxID)
	if err != nil {
		s.logger.Error("Failed to close session",
			zap.Uint64("robloxID", robloxID),
			zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)

		return
	}

	weeklySeconds, err := s.sessions.TimeSpentSeconds(ctx, memberID)
	if err != nil {
		s.logger.Error("Failed to read weekly time",
			zap.Uint64("memberID", memberID),
			zap.Error(err))
	}

	s.notifier.ActivityEmbed("🔴 Left Site",
		formatLeave(memberID, elapsed, weeklySeconds/60, s.reqs.WeeklyMinutes), 0xE74C3C)
	w.WriteHeader(http.StatusOK)
}
