package dashboard

import (
	"context"

	"garden-gateway-api/db"
	"garden-gateway-api/feed"
	"garden-gateway-api/mission"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// Session is the single actor behind one dashboard: it owns the feed
// subscription, the view state and the mission machine, and is the only
// goroutine that touches them. Cross-component signals (the water button)
// arrive over the session's own action channel instead of any ambient
// dispatch.
type Session struct {
	logger    *zap.Logger
	view      *ViewState
	mission   *mission.Mission
	actions   chan string
	onConfirm func(Confirmation)
}

// NewSession builds a fresh session starting a new mission at the sense
// step. onBadge and onConfirm may be nil.
func NewSession(logger *zap.Logger, missionCfg mission.Config, onBadge func(badge string), onConfirm func(Confirmation)) *Session {
	return &Session{
		logger:    logger,
		view:      NewViewState(),
		mission:   mission.New(missionCfg, onBadge),
		actions:   make(chan string, 8),
		onConfirm: onConfirm,
	}
}

func (s *Session) View() *ViewState {
	return s.view
}

func (s *Session) Mission() *mission.Mission {
	return s.mission
}

// NotifyAction reports that the user invoked an actuation command. It never
// blocks; a flooded channel just drops the signal, matching the fire-and-
// observe semantics of the button it replaces.
func (s *Session) NotifyAction(action string) {
	select {
	case s.actions <- action:
	default:
	}
}

// Run subscribes to the change feed and processes events until ctx is
// cancelled or the feed closes. The subscription is released on the way
// out, so no events are delivered to a dead session.
func (s *Session) Run(ctx context.Context, client *redis.Client) error {
	sub, err := feed.Subscribe(ctx, client, s.logger)
	if err != nil {
		return err
	}
	defer sub.Close()
	defer s.mission.Stop()

	s.logger.Info("dashboard session started")

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("dashboard session closed")
			return nil

		case action := <-s.actions:
			if action == db.ActionWater {
				s.mission.ActionPerformed()
			}

		case event, ok := <-sub.Events():
			if !ok {
				s.logger.Warn("change feed disconnected")
				return nil
			}
			s.handleEvent(event)
		}
	}
}

func (s *Session) handleEvent(event feed.Event) {
	update, err := s.view.Apply(event)
	if err != nil {
		s.logger.Warn("ignoring bad change event", zap.Error(err))
		return
	}

	if update.Reading != nil {
		s.mission.OnReading(update.Reading.Metric, update.Reading.Value)
	}

	if update.Confirmation != nil {
		s.logger.Info("command confirmed",
			zap.String("command_id", update.Confirmation.CommandID),
			zap.String("action", update.Confirmation.Action))
		if s.onConfirm != nil {
			s.onConfirm(*update.Confirmation)
		}
	}
}
