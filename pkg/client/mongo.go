package client

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/sync/singleflight"

	"dentalave/pkg/config"
	apperrors "dentalave/pkg/errors"
	"dentalave/pkg/logger"
)

type State int32

const (
	StateDisconnected State = iota
	StateConnecting
	StateConnected
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	default:
		return "disconnected"
	}
}

type connectFunc func(ctx context.Context, uri string, serverSelectionTimeout, connTimeout time.Duration) (*mongo.Client, error)

// Manager owns the process-wide MongoDB handle. The connection is not
// established at construction time: the first Ensure call dials, and
// concurrent first callers share a single attempt. Once connected, Ensure
// is a read-lock fast path that performs no I/O.
type Manager struct {
	uri                    string
	databaseName           string
	serverSelectionTimeout time.Duration
	connTimeout            time.Duration
	serverless             bool
	log                    *logger.Logger

	connect connectFunc
	group   singleflight.Group

	mu     sync.RWMutex
	state  State
	client *mongo.Client
}

func NewManager(cfg *config.Config) *Manager {
	return &Manager{
		uri:                    cfg.MongoURI,
		databaseName:           cfg.MongoDatabaseName,
		serverSelectionTimeout: cfg.MongoServerSelectionTimeout,
		connTimeout:            cfg.MongoConnTimeout,
		serverless:             cfg.Serverless,
		log:                    cfg.Log,
		connect:                dial,
	}
}

// Ensure returns an active client, establishing the connection on first
// use. A failed attempt leaves the manager disconnected so a later request
// can retry; no automatic retries are performed here.
func (m *Manager) Ensure(ctx context.Context) (*mongo.Client, error) {
	m.mu.RLock()
	if m.state == StateConnected {
		c := m.client
		m.mu.RUnlock()
		return c, nil
	}
	m.mu.RUnlock()

	if err := m.validateURI(); err != nil {
		return nil, err
	}

	v, err, _ := m.group.Do("connect", func() (any, error) {
		m.mu.RLock()
		if m.state == StateConnected {
			c := m.client
			m.mu.RUnlock()
			return c, nil
		}
		m.mu.RUnlock()

		m.setState(StateConnecting)

		// The attempt is shared by every coalesced caller, so it must not
		// inherit any single request's cancellation.
		dialCtx, cancel := context.WithTimeout(context.Background(), m.connTimeout)
		defer cancel()

		client, dialErr := m.connect(dialCtx, m.uri, m.serverSelectionTimeout, m.connTimeout)
		if dialErr != nil {
			m.setState(StateDisconnected)
			m.log.Error("MongoDB connection failed", "error", dialErr)
			return nil, apperrors.Unavailable("database", dialErr)
		}

		m.mu.Lock()
		m.client = client
		m.state = StateConnected
		m.mu.Unlock()

		m.log.Info("MongoDB connected")
		return client, nil
	})
	if err != nil {
		return nil, err
	}

	select {
	case <-ctx.Done():
		return nil, apperrors.Unavailable("database", ctx.Err())
	default:
	}

	return v.(*mongo.Client), nil
}

// EnsureReady is Ensure without the handle, for callers that only need the
// connection established.
func (m *Manager) EnsureReady(ctx context.Context) error {
	_, err := m.Ensure(ctx)
	return err
}

// Database resolves the configured database through Ensure.
func (m *Manager) Database(ctx context.Context) (*mongo.Database, error) {
	client, err := m.Ensure(ctx)
	if err != nil {
		return nil, err
	}
	return client.Database(m.databaseName), nil
}

func (m *Manager) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

func (m *Manager) Disconnect(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != StateConnected {
		return nil
	}

	err := m.client.Disconnect(ctx)
	m.client = nil
	m.state = StateDisconnected
	return err
}

func (m *Manager) setState(s State) {
	m.mu.Lock()
	m.state = s
	m.mu.Unlock()
}

// validateURI rejects configuration that can never connect, before any
// network attempt is made.
func (m *Manager) validateURI() *apperrors.AppError {
	if m.uri == "" {
		return apperrors.Config("MONGO_URI environment variable is not set", nil)
	}
	if strings.Contains(m.uri, "<password>") {
		return apperrors.Config("MONGO_URI still contains the <password> placeholder; replace it with the real password", nil)
	}
	if m.serverless && (strings.Contains(m.uri, "127.0.0.1") || strings.Contains(m.uri, "localhost")) {
		return apperrors.Config("MONGO_URI cannot target localhost in a serverless deployment; use a remote cluster URI", nil)
	}
	return nil
}

func dial(ctx context.Context, uri string, serverSelectionTimeout, connTimeout time.Duration) (*mongo.Client, error) {
	opts := options.Client().
		ApplyURI(uri).
		SetServerSelectionTimeout(serverSelectionTimeout).
		SetConnectTimeout(connTimeout)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, err
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	return client, nil
}
