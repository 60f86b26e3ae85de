package postgres

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/smolder-dev/smolder/internal/domain"
	"github.com/smolder-dev/smolder/internal/domain/config"
	"github.com/smolder-dev/smolder/internal/domain/models"
)

//go:embed schema.sql
var schema string

const uniqueViolation = "23505"

// PostgresRepository implements the registry on PostgreSQL through a bounded pool
type PostgresRepository struct {
	pool *pgxpool.Pool
	log  *slog.Logger
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(ctx context.Context, databaseURL string, maxConns int32, log *slog.Logger) (*PostgresRepository, error) {
	poolCfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, domain.WrapError(domain.KindConfig, err, "invalid database url")
	}
	if maxConns > 0 {
		poolCfg.MaxConns = maxConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, domain.StorageError(err, "failed to create connection pool")
	}

	// Test the connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, domain.StorageError(err, "failed to ping database")
	}

	return &PostgresRepository{
		pool: pool,
		log:  log.With("component", "PostgresRepository"),
	}, nil
}

// NewPostgresRepositoryFromConfig connects using the configured database url and pool size
func NewPostgresRepositoryFromConfig(ctx context.Context, cfg *config.RuntimeConfig, log *slog.Logger) (*PostgresRepository, error) {
	if cfg.DatabaseURL == "" {
		return nil, domain.NewError(domain.KindConfig, "store is postgres but no database_url is configured")
	}
	return NewPostgresRepository(ctx, cfg.DatabaseURL, cfg.PoolMaxConns, log)
}

// Init applies the schema
func (r *PostgresRepository) Init(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, schema); err != nil {
		return domain.StorageError(err, "failed to apply schema")
	}
	r.log.Debug("schema applied")
	return nil
}

func (r *PostgresRepository) Close() error {
	r.pool.Close()
	return nil
}

// storageErr maps driver errors onto the storage kind
func storageErr(err error, format string, args ...any) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return domain.StorageError(err, "%s: duplicate %s", fmt.Sprintf(format, args...), pgErr.ConstraintName)
	}
	return domain.StorageError(err, format, args...)
}

// Networks

const networkColumns = `id, name, chain_id, rpc_url, COALESCE(explorer_url, ''), created_at`

func scanNetwork(row pgx.Row) (*models.Network, error) {
	var n models.Network
	var chainID int64
	if err := row.Scan(&n.ID, &n.Name, &chainID, &n.RPCURL, &n.ExplorerURL, &n.CreatedAt); err != nil {
		return nil, err
	}
	n.ChainID = models.ChainID(chainID)
	return &n, nil
}

func (r *PostgresRepository) ListNetworks(ctx context.Context) ([]*models.Network, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+networkColumns+` FROM networks ORDER BY name`)
	if err != nil {
		return nil, storageErr(err, "failed to list networks")
	}
	defer rows.Close()

	var networks []*models.Network
	for rows.Next() {
		n, err := scanNetwork(rows)
		if err != nil {
			return nil, storageErr(err, "failed to scan network")
		}
		networks = append(networks, n)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr(err, "failed to list networks")
	}
	return networks, nil
}

func (r *PostgresRepository) getNetwork(ctx context.Context, where string, arg any) (*models.Network, error) {
	n, err := scanNetwork(r.pool.QueryRow(ctx, `SELECT `+networkColumns+` FROM networks WHERE `+where+` ORDER BY id LIMIT 1`, arg))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, storageErr(err, "failed to get network")
	}
	return n, nil
}

func (r *PostgresRepository) GetNetworkByName(ctx context.Context, name string) (*models.Network, error) {
	return r.getNetwork(ctx, "name = $1", name)
}

func (r *PostgresRepository) GetNetworkByID(ctx context.Context, id models.NetworkID) (*models.Network, error) {
	return r.getNetwork(ctx, "id = $1", int64(id))
}

func (r *PostgresRepository) GetNetworkByChainID(ctx context.Context, chainID models.ChainID) (*models.Network, error) {
	return r.getNetwork(ctx, "chain_id = $1", int64(chainID))
}

func (r *PostgresRepository) UpsertNetwork(ctx context.Context, network models.NewNetwork) (*models.Network, error) {
	query := `
		INSERT INTO networks (name, chain_id, rpc_url, explorer_url)
		VALUES ($1, $2, $3, NULLIF($4, ''))
		ON CONFLICT (name) DO UPDATE SET
			chain_id = EXCLUDED.chain_id,
			rpc_url = EXCLUDED.rpc_url,
			explorer_url = EXCLUDED.explorer_url
		RETURNING ` + networkColumns

	n, err := scanNetwork(r.pool.QueryRow(ctx, query,
		network.Name, int64(network.ChainID), network.RPCURL, network.ExplorerURL))
	if err != nil {
		return nil, storageErr(err, "failed to upsert network %s", network.Name)
	}
	return n, nil
}

// Contracts

const contractColumns = `id, name, source_path, abi, bytecode_hash, created_at`

func scanContract(row pgx.Row) (*models.Contract, error) {
	var c models.Contract
	if err := row.Scan(&c.ID, &c.Name, &c.SourcePath, &c.ABI, &c.BytecodeHash, &c.CreatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *PostgresRepository) ListContracts(ctx context.Context) ([]*models.Contract, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+contractColumns+` FROM contracts ORDER BY name, id`)
	if err != nil {
		return nil, storageErr(err, "failed to list contracts")
	}
	defer rows.Close()

	var contracts []*models.Contract
	for rows.Next() {
		c, err := scanContract(rows)
		if err != nil {
			return nil, storageErr(err, "failed to scan contract")
		}
		contracts = append(contracts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr(err, "failed to list contracts")
	}
	return contracts, nil
}

func (r *PostgresRepository) GetContractByName(ctx context.Context, name string) (*models.Contract, error) {
	c, err := scanContract(r.pool.QueryRow(ctx,
		`SELECT `+contractColumns+` FROM contracts WHERE name = $1 ORDER BY id DESC LIMIT 1`, name))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, storageErr(err, "failed to get contract %s", name)
	}
	return c, nil
}

func (r *PostgresRepository) GetContractByID(ctx context.Context, id models.ContractID) (*models.Contract, error) {
	c, err := scanContract(r.pool.QueryRow(ctx, `SELECT `+contractColumns+` FROM contracts WHERE id = $1`, int64(id)))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, storageErr(err, "failed to get contract %d", id)
	}
	return c, nil
}

func (r *PostgresRepository) UpsertContract(ctx context.Context, contract models.NewContract) (*models.Contract, error) {
	query := `
		INSERT INTO contracts (name, source_path, abi, bytecode_hash)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (name, bytecode_hash) DO UPDATE SET
			source_path = EXCLUDED.source_path,
			abi = EXCLUDED.abi
		RETURNING ` + contractColumns

	c, err := scanContract(r.pool.QueryRow(ctx, query,
		contract.Name, contract.SourcePath, contract.ABI, contract.BytecodeHash))
	if err != nil {
		return nil, storageErr(err, "failed to upsert contract %s", contract.Name)
	}
	return c, nil
}

func toUint64Ptr(v *int64) *uint64 {
	if v == nil {
		return nil
	}
	u := uint64(*v)
	return &u
}

func toInt64Ptr(v *uint64) *int64 {
	if v == nil {
		return nil
	}
	i := int64(*v)
	return &i
}
