package task

import (
	"context"
	"fmt"
	"io"
	"iter"
	"time"

	"github.com/google/uuid"

	"github.com/agenticaihome/agenticaihome-v2/pkg/boxes"
	"github.com/agenticaihome/agenticaihome-v2/pkg/crypto"
	"github.com/agenticaihome/agenticaihome-v2/pkg/explorer"
	"github.com/agenticaihome/agenticaihome-v2/pkg/logtrace"
	"github.com/agenticaihome/agenticaihome-v2/pkg/storage/saltstore"
	"github.com/agenticaihome/agenticaihome-v2/pkg/wallet"
	"github.com/agenticaihome/agenticaihome-v2/sdk/config"
	"github.com/agenticaihome/agenticaihome-v2/sdk/event"
	"github.com/agenticaihome/agenticaihome-v2/sdk/log"
)

const MAX_EVENT_WORKERS = 100

// Manager drives tasks through their ledger lifecycle: posting, fulfilment
// lookup, refund and the two-phase rating. Every operation reads ledger state
// fresh; nothing is cached between calls.
type Manager interface {
	PostTask(ctx context.Context, params PostTaskParams) (*TaskRef, error)
	FindReceipt(ctx context.Context, taskID string) (*boxes.Receipt, error)
	AwaitReceipt(ctx context.Context, taskID string, maxAttempts int, interval time.Duration) (*boxes.Receipt, error)
	ClaimRefund(ctx context.Context, taskID string) (*TxRef, error)
	TaskStatus(ctx context.Context, taskID string) (Status, error)

	SubmitRatingCommit(ctx context.Context, params RatingCommitParams) (*RatingCommitRef, error)
	SubmitRatingReveal(ctx context.Context, ratingBoxID string, rating int, salt []byte) (*TxRef, error)
	SubmitRatingRevealStored(ctx context.Context, ratingBoxID string) (*TxRef, error)

	DiscoverTasks(ctx context.Context, serviceHash []byte) iter.Seq2[boxes.Task, error]
	DiscoverTokenTasks(ctx context.Context, tokenID string, serviceHash []byte) iter.Seq2[boxes.Task, error]
	FindBonds(ctx context.Context, nodeKey []byte) ([]boxes.Bond, error)
	CheckNodeReputation(ctx context.Context, nodeKey []byte, minReputation int32) (bool, error)
	FindBounties(ctx context.Context, taskID string) ([]boxes.VerificationBounty, error)
	ResolveBoxID(ctx context.Context, txID string, outputIndex int) (string, error)

	SubscribeToEvents(ctx context.Context, eventType event.EventType, handler event.Handler)
	SubscribeToAllEvents(ctx context.Context, handler event.Handler)
	Close(ctx context.Context) error
}

// SaltVault remembers the salts of submitted commitments.
type SaltVault interface {
	Put(ctx context.Context, e saltstore.Entry) error
	Get(ctx context.Context, commitment string) (*saltstore.Entry, error)
}

var _ Manager = (*ManagerImpl)(nil)

type ManagerImpl struct {
	gateway   explorer.Gateway
	wallet    wallet.Wallet
	config    config.Config
	contracts contracts
	scheme    *crypto.Scheme
	salts     SaltVault
	eventBus  *event.Bus
	logger    log.Logger
	closers   []io.Closer
}

// Option customises a ManagerImpl.
type Option func(*ManagerImpl)

// WithSaltVault stores commitment salts in v.
func WithSaltVault(v SaltVault) Option {
	return func(m *ManagerImpl) { m.salts = v }
}

// WithScheme replaces the commitment scheme selected by cfg.CommitmentHasher.
func WithScheme(s *crypto.Scheme) Option {
	return func(m *ManagerImpl) { m.scheme = s }
}

// NewManager creates a manager backed by the Explorer configured in cfg. When
// cfg.SaltStorePath is set and no vault is supplied, a sqlite salt store is
// opened there.
func NewManager(ctx context.Context, cfg config.Config, w wallet.Wallet, logger log.Logger, opts ...Option) (Manager, error) {
	if logger == nil {
		logger = log.NewNoopLogger()
	}

	logger.Info(ctx, "Initializing task manager", "explorer", cfg.ExplorerEndpoint(), "network", cfg.Network)

	client, err := explorer.NewClient(ctx,
		explorer.WithBaseURL(cfg.ExplorerEndpoint()),
		explorer.WithTimeout(cfg.HTTPTimeout),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create explorer client: %w", err)
	}

	m, err := newManager(ctx, cfg, logger, client, w, opts...)
	if err != nil {
		_ = client.Close()
		return nil, err
	}
	m.closers = append(m.closers, client)

	if m.salts == nil && cfg.SaltStorePath != "" {
		store, err := saltstore.NewStore(ctx, cfg.SaltStorePath)
		if err != nil {
			_ = m.Close(ctx)
			return nil, fmt.Errorf("failed to open salt store: %w", err)
		}
		m.salts = store
		m.closers = append(m.closers, store)
	}

	return m, nil
}

// NewManagerWithClients creates a manager over caller supplied gateways.
func NewManagerWithClients(ctx context.Context, cfg config.Config, logger log.Logger, gateway explorer.Gateway, w wallet.Wallet, opts ...Option) (Manager, error) {
	if logger == nil {
		logger = log.NewNoopLogger()
	}

	logger.Info(ctx, "Initializing task manager with provided gateways")
	return newManager(ctx, cfg, logger, gateway, w, opts...)
}

func newManager(ctx context.Context, cfg config.Config, logger log.Logger, gateway explorer.Gateway, w wallet.Wallet, opts ...Option) (*ManagerImpl, error) {
	if gateway == nil || w == nil {
		return nil, fmt.Errorf("task manager requires a ledger gateway and a wallet")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	resolved, err := resolveContracts(cfg.Contracts)
	if err != nil {
		logger.Error(ctx, "Failed to resolve contract addresses", "error", err)
		return nil, err
	}

	m := &ManagerImpl{
		gateway:   gateway,
		wallet:    w,
		config:    cfg,
		contracts: resolved,
		scheme:    cfg.Scheme(),
		eventBus:  event.NewBus(ctx, logger, MAX_EVENT_WORKERS),
		logger:    logger,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// SubscribeToEvents registers a handler for specific event types
func (m *ManagerImpl) SubscribeToEvents(ctx context.Context, eventType event.EventType, handler event.Handler) {
	m.logger.Debug(ctx, "Subscribing to events", "eventType", eventType)
	m.eventBus.Subscribe(ctx, eventType, handler)
}

// SubscribeToAllEvents registers a handler for all events
func (m *ManagerImpl) SubscribeToAllEvents(ctx context.Context, handler event.Handler) {
	m.logger.Debug(ctx, "Subscribing to all events")
	m.eventBus.SubscribeAll(ctx, handler)
}

// Close waits for in-flight event handlers and releases owned resources.
func (m *ManagerImpl) Close(ctx context.Context) error {
	m.logger.Info(ctx, "Closing task manager")

	m.eventBus.Close(ctx)

	var firstErr error
	for i := len(m.closers) - 1; i >= 0; i-- {
		if err := m.closers[i].Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	m.closers = nil
	return firstErr
}

// begin tags ctx with a correlation id unless the caller already did.
func (m *ManagerImpl) begin(ctx context.Context, operation string, keysAndValues ...interface{}) context.Context {
	if logtrace.CorrelationID(ctx) == "" {
		ctx = logtrace.CtxWithCorrelationID(ctx, uuid.NewString())
	}
	m.logger.Debug(ctx, "Starting "+operation, keysAndValues...)
	return ctx
}

func (m *ManagerImpl) emit(ctx context.Context, eventType event.EventType, taskID, txID string, data event.EventData) {
	m.eventBus.Emit(ctx, eventType, taskID, txID, data)
}
