package scheduler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gotradier/go_src/configuration"
	"gotradier/go_src/database"
	"gotradier/go_src/message_helper"
	"gotradier/go_src/notify"
	"gotradier/go_src/tradier_api"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
)

const (
	msgTypeBalanceSnapshot = "balance_snapshot"
	marketStateOpen        = "open"
	publishTimeout         = 5 * time.Second
	telegramTimeout        = 10 * time.Second
	defaultJobAPITimeout   = 10 * time.Second
)

var (
	// Allow overriding for tests
	connectToRabbitMQFunc = connectToRabbitMQ
	publishMessageFunc    = publishMessage
	sendTextFunc          = sendText
	sendTelegramFunc      = notify.SendTelegramMessage
)

// BalanceSource builds fresh resource wrappers. *tradier_api.Tradier
// satisfies it.
type BalanceSource interface {
	Balance(ctx context.Context) (*tradier_api.Balance, error)
	Clock(ctx context.Context) (*tradier_api.Clock, error)
}

// SnapshotSaver persists snapshots. *database.SnapshotStore satisfies it.
type SnapshotSaver interface {
	Save(snap *database.BalanceSnapshot) error
}

// Deps groups what JobSnapshotBalance needs.
type Deps struct {
	Config *configuration.Config
	Source BalanceSource
	Store  SnapshotSaver
}

// connectToRabbitMQ establishes a new connection and channel.
// It's the responsibility of the caller to close them.
func connectToRabbitMQ(cfg *configuration.Config) (*amqp.Connection, *amqp.Channel, error) {
	if cfg == nil {
		return nil, nil, fmt.Errorf("configuration is nil")
	}
	conn, err := amqp.Dial(cfg.RabbitMQ.URL())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, nil, fmt.Errorf("failed to open a RabbitMQ channel: %w", err)
	}
	return conn, ch, nil
}

// publishMessage publishes body to queueName on ch.
func publishMessage(ctx context.Context, ch *amqp.Channel, queueName string, body []byte) error {
	return notify.Publish(ctx, ch, queueName, body)
}

func sendText(ctx context.Context, ch *amqp.Channel, queueName, text string) error {
	return notify.SendText(ctx, ch, queueName, text)
}

// withChannel connects to the broker, runs fn and closes what was opened.
func withChannel(cfg *configuration.Config, fn func(ch *amqp.Channel) error) error {
	conn, ch, err := connectToRabbitMQFunc(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if ch != nil {
			ch.Close()
		}
		if conn != nil {
			conn.Close()
		}
	}()
	return fn(ch)
}

// snapshotMessage is the JSON event published for every stored snapshot.
type snapshotMessage struct {
	MessageType string                    `json:"message_type"`
	Timestamp   string                    `json:"timestamp"`
	Snapshot    *database.BalanceSnapshot `json:"snapshot"`
}

func encodeSnapshotMessage(snap *database.BalanceSnapshot) ([]byte, error) {
	body, err := json.Marshal(snapshotMessage{
		MessageType: msgTypeBalanceSnapshot,
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
		Snapshot:    snap,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal snapshot message to JSON: %w", err)
	}
	return body, nil
}

func publishSnapshotLogic(ctx context.Context, cfg *configuration.Config, snap *database.BalanceSnapshot) error {
	body, err := encodeSnapshotMessage(snap)
	if err != nil {
		return err
	}
	queue := cfg.Watcher.QueueName()
	return withChannel(cfg, func(ch *amqp.Channel) error {
		logrus.Debugf("Publishing snapshot %s to queue '%s'", snap.ID, queue)
		return publishMessageFunc(ctx, ch, queue, body)
	})
}

// PublishSnapshot is a package-level variable for easy mocking in tests.
var PublishSnapshot = publishSnapshotLogic

// notifySnapshotLogic sends the text summary of snap to every configured
// notify target. Each target is tried even when another fails.
func notifySnapshotLogic(ctx context.Context, cfg *configuration.Config, snap *database.BalanceSnapshot) error {
	loc := message_helper.NewSummaryComposer(cfg.Watcher.Timezone).Location()
	text := message_helper.FormatBalanceSnapshot(snap, loc)

	var errs []error
	if cfg.Notify.QueueEnabled() {
		err := withChannel(cfg, func(ch *amqp.Channel) error {
			return sendTextFunc(ctx, ch, cfg.Notify.Queue, text)
		})
		if err != nil {
			errs = append(errs, err)
		}
	}
	if cfg.Notify.TelegramEnabled() {
		if err := sendTelegramFunc(ctx, nil, cfg.Notify.TelegramBotToken, cfg.Notify.TelegramChatID, text); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// NotifySnapshot is a package-level variable for easy mocking in tests.
var NotifySnapshot = notifySnapshotLogic

// TakeSnapshot fetches the balance once and reads every field from that
// single response.
func TakeSnapshot(ctx context.Context, source BalanceSource, accountID string) (*database.BalanceSnapshot, error) {
	balance, err := source.Balance(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch balance: %w", err)
	}
	cached := tradier_api.WithoutUpdate()
	snap := &database.BalanceSnapshot{AccountID: accountID, TakenAt: time.Now().UTC()}

	if snap.AccountType, err = balance.AccountType(ctx, cached); err != nil {
		return nil, err
	}
	if snap.TotalEquity, err = balance.TotalEquity(ctx, cached); err != nil {
		return nil, err
	}
	if snap.TotalCash, err = balance.TotalCash(ctx, cached); err != nil {
		return nil, err
	}
	if snap.CashAvailable, err = balance.CashAvailable(ctx, cached); err != nil {
		return nil, err
	}
	if snap.MarketValue, err = balance.MarketValue(ctx, cached); err != nil {
		return nil, err
	}
	if snap.OpenPL, err = balance.OpenPL(ctx, cached); err != nil {
		return nil, err
	}
	if snap.ClosePL, err = balance.ClosePL(ctx, cached); err != nil {
		return nil, err
	}
	if snap.PendingOrdersCount, err = balance.PendingOrdersCount(ctx, cached); err != nil {
		return nil, err
	}
	return snap, nil
}

// marketOpen reads the market clock state.
func marketOpen(ctx context.Context, source BalanceSource) (bool, error) {
	clock, err := source.Clock(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to fetch market clock: %w", err)
	}
	state, err := clock.State(ctx, tradier_api.WithoutUpdate())
	if err != nil {
		return false, err
	}
	return state == marketStateOpen, nil
}

// RunSnapshotBalance takes one snapshot, stores it and publishes it when a
// broker is configured. It returns nil without a snapshot when
// watcher.market_hours_only is set and the market is not open.
func RunSnapshotBalance(ctx context.Context, deps Deps) (*database.BalanceSnapshot, error) {
	if deps.Config == nil || deps.Source == nil || deps.Store == nil {
		return nil, fmt.Errorf("snapshot job dependencies are incomplete")
	}

	if deps.Config.Watcher.MarketHoursOnly {
		open, err := marketOpen(ctx, deps.Source)
		if err != nil {
			return nil, err
		}
		if !open {
			logrus.Debug("Market is not open, skipping balance snapshot")
			return nil, nil
		}
	}

	snap, err := TakeSnapshot(ctx, deps.Source, deps.Config.Tradier.AccountID)
	if err != nil {
		return nil, err
	}
	if err := deps.Store.Save(snap); err != nil {
		return nil, err
	}

	// The snapshot is stored from here on; later failures only lose messages.
	var errs []error
	if deps.Config.RabbitMQ.Enabled() {
		if err := PublishSnapshot(ctx, deps.Config, snap); err != nil {
			errs = append(errs, fmt.Errorf("snapshot %s stored but not published: %w", snap.ID, err))
		}
	}
	if deps.Config.Notify.QueueEnabled() || deps.Config.Notify.TelegramEnabled() {
		if err := NotifySnapshot(ctx, deps.Config, snap); err != nil {
			errs = append(errs, fmt.Errorf("snapshot %s stored but notification failed: %w", snap.ID, err))
		}
	}
	return snap, errors.Join(errs...)
}

// JobSnapshotBalance is the scheduled task form of RunSnapshotBalance.
func JobSnapshotBalance(deps Deps) {
	logrus.Info("Scheduler: Running JobSnapshotBalance")
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout(deps.Config))
	defer cancel()

	snap, err := RunSnapshotBalance(ctx, deps)
	switch {
	case err != nil:
		logrus.Errorf("JobSnapshotBalance: %v", err)
	case snap == nil:
		logrus.Info("JobSnapshotBalance: skipped, market closed.")
	default:
		logrus.Infof("JobSnapshotBalance: snapshot %s stored (total equity %s).", snap.ID, snap.TotalEquity.StringFixed(2))
	}
}

// jobTimeout bounds one run: two API calls, a publish and the notifications.
func jobTimeout(cfg *configuration.Config) time.Duration {
	timeout := defaultJobAPITimeout
	if cfg != nil && cfg.Tradier.Timeout() > 0 {
		timeout = cfg.Tradier.Timeout()
	}
	total := 2*timeout + publishTimeout
	if cfg != nil && cfg.Notify.QueueEnabled() {
		total += publishTimeout
	}
	if cfg != nil && cfg.Notify.TelegramEnabled() {
		total += telegramTimeout
	}
	return total
}
