package db

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/x/mongo/driver/connstring"

	"simple-microservice/internal/db/migrations"
	"simple-microservice/internal/repository"
)

const (
	connectTimeout  = 5 * time.Second
	defaultDatabase = "simple-microservice"
)

// Backend agrupa los repositorios de un almacenamiento conectado.
type Backend interface {
	Users() repository.UserRepository
	Tokens() repository.TokenRepository
	Close(ctx context.Context) error
}

// Open conecta al almacenamiento indicado por el esquema de la URL
// (mongodb, mongodb+srv, postgres, postgresql) y verifica la conexion.
func Open(ctx context.Context, storeURL string) (Backend, error) {
	switch {
	case strings.HasPrefix(storeURL, "mongodb://"), strings.HasPrefix(storeURL, "mongodb+srv://"):
		return openMongo(ctx, storeURL)
	case strings.HasPrefix(storeURL, "postgres://"), strings.HasPrefix(storeURL, "postgresql://"):
		return openPostgres(ctx, storeURL)
	default:
		return nil, fmt.Errorf("unsupported store url scheme: %q", schemeOf(storeURL))
	}
}

func schemeOf(storeURL string) string {
	scheme, _, found := strings.Cut(storeURL, "://")
	if !found {
		return ""
	}
	return scheme
}

type mongoBackend struct {
	client *mongo.Client
	users  *repository.MongoUserRepository
	tokens *repository.MongoTokenRepository
}

func openMongo(ctx context.Context, storeURL string) (Backend, error) {
	cs, err := connstring.ParseAndValidate(storeURL)
	if err != nil {
		return nil, fmt.Errorf("parse mongo url: %w", err)
	}
	dbName := cs.Database
	if dbName == "" {
		dbName = defaultDatabase
	}

	opts := options.Client().
		ApplyURI(storeURL).
		SetConnectTimeout(connectTimeout).
		SetServerSelectionTimeout(connectTimeout)
	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	database := client.Database(dbName)
	b := &mongoBackend{
		client: client,
		users:  repository.NewMongoUserRepository(database),
		tokens: repository.NewMongoTokenRepository(database),
	}
	if err := b.users.EnsureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("users indexes: %w", err)
	}
	if err := b.tokens.EnsureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("tokens indexes: %w", err)
	}
	return b, nil
}

func (b *mongoBackend) Users() repository.UserRepository   { return b.users }
func (b *mongoBackend) Tokens() repository.TokenRepository { return b.tokens }

func (b *mongoBackend) Close(ctx context.Context) error {
	return b.client.Disconnect(ctx)
}

type postgresBackend struct {
	pool   *pgxpool.Pool
	users  *repository.PgUserRepository
	tokens *repository.PgTokenRepository
}

func openPostgres(ctx context.Context, storeURL string) (Backend, error) {
	poolCfg, err := pgxpool.ParseConfig(storeURL)
	if err != nil {
		return nil, fmt.Errorf("parse postgres url: %w", err)
	}

	poolCfg.MaxConns = 10
	poolCfg.MinConns = 1
	poolCfg.MaxConnLifetime = 30 * time.Minute
	poolCfg.MaxConnIdleTime = 5 * time.Minute
	poolCfg.HealthCheckPeriod = 30 * time.Second
	poolCfg.ConnConfig.ConnectTimeout = connectTimeout

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("postgres pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres ping: %w", err)
	}
	if err := runMigrations(ctx, pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("migration error: %w", err)
	}

	return &postgresBackend{
		pool:   pool,
		users:  repository.NewPgUserRepository(pool),
		tokens: repository.NewPgTokenRepository(pool),
	}, nil
}

func runMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	sqlDB := stdlib.OpenDBFromPool(pool)
	defer sqlDB.Close()

	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	return goose.UpContext(ctx, sqlDB, ".")
}

func (b *postgresBackend) Users() repository.UserRepository   { return b.users }
func (b *postgresBackend) Tokens() repository.TokenRepository { return b.tokens }

func (b *postgresBackend) Close(_ context.Context) error {
	b.pool.Close()
	return nil
}
