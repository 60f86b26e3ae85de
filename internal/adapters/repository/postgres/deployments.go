package postgres

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/smolder-dev/smolder/internal/domain"
	"github.com/smolder-dev/smolder/internal/domain/models"
)

const deploymentColumns = `id, contract_id, network_id, address, deployer, tx_hash,
	block_number, constructor_args, version, is_current, deployed_at`

func scanDeployment(row pgx.Row) (*models.Deployment, error) {
	var d models.Deployment
	var block *int64
	if err := row.Scan(&d.ID, &d.ContractID, &d.NetworkID, &d.Address, &d.Deployer, &d.TxHash,
		&block, &d.ConstructorArgs, &d.Version, &d.IsCurrent, &d.DeployedAt); err != nil {
		return nil, err
	}
	d.BlockNumber = toUint64Ptr(block)
	return &d, nil
}

// pairLockKey derives one bigint advisory-lock key from the full (contract, network) ids
const pairLockKey = `hashtextextended($1::bigint || ':' || $2::bigint, 0)`

// CreateDeployment demotes the pair's current deployment and inserts the new one in a single
// transaction. The advisory lock serializes writers for the pair; the partial unique index
// idx_deployments_one_current rejects any second current row regardless.
func (r *PostgresRepository) CreateDeployment(ctx context.Context, deployment models.NewDeployment) (*models.Deployment, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, storageErr(err, "failed to begin transaction")
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	contractID := int64(deployment.ContractID)
	networkID := int64(deployment.NetworkID)

	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(`+pairLockKey+`)`, contractID, networkID); err != nil {
		return nil, storageErr(err, "failed to lock deployment pair")
	}

	if _, err := tx.Exec(ctx,
		`UPDATE deployments SET is_current = FALSE WHERE contract_id = $1 AND network_id = $2 AND is_current`,
		contractID, networkID); err != nil {
		return nil, storageErr(err, "failed to demote current deployment")
	}

	var version int
	if err := tx.QueryRow(ctx,
		`SELECT COALESCE(MAX(version), 0) + 1 FROM deployments WHERE contract_id = $1 AND network_id = $2`,
		contractID, networkID).Scan(&version); err != nil {
		return nil, storageErr(err, "failed to compute deployment version")
	}

	query := `
		INSERT INTO deployments (
			contract_id, network_id, address, deployer, tx_hash,
			block_number, constructor_args, version, is_current
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, TRUE)
		RETURNING ` + deploymentColumns

	created, err := scanDeployment(tx.QueryRow(ctx, query,
		contractID,
		networkID,
		deployment.Address,
		deployment.Deployer,
		deployment.TxHash,
		toInt64Ptr(deployment.BlockNumber),
		deployment.ConstructorArgs,
		version,
	))
	if err != nil {
		return nil, storageErr(err, "failed to insert deployment %s", deployment.TxHash)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, storageErr(err, "failed to commit deployment")
	}

	r.log.Debug("deployment created",
		"id", created.ID, "contract", created.ContractID, "network", created.NetworkID, "version", created.Version)
	return created, nil
}

func (r *PostgresRepository) GetCurrentDeployment(ctx context.Context, contractName, networkName string) (*models.Deployment, error) {
	query := `
		SELECT d.id, d.contract_id, d.network_id, d.address, d.deployer, d.tx_hash,
			d.block_number, d.constructor_args, d.version, d.is_current, d.deployed_at
		FROM deployments d
		JOIN contracts c ON c.id = d.contract_id
		JOIN networks n ON n.id = d.network_id
		WHERE c.name = $1 AND n.name = $2 AND d.is_current
		ORDER BY d.id DESC
		LIMIT 1`

	d, err := scanDeployment(r.pool.QueryRow(ctx, query, contractName, networkName))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, storageErr(err, "failed to get current deployment of %s on %s", contractName, networkName)
	}
	return d, nil
}

func (r *PostgresRepository) GetDeploymentByID(ctx context.Context, id models.DeploymentID) (*models.Deployment, error) {
	d, err := scanDeployment(r.pool.QueryRow(ctx, `SELECT `+deploymentColumns+` FROM deployments WHERE id = $1`, int64(id)))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, storageErr(err, "failed to get deployment %d", id)
	}
	return d, nil
}

const viewSelect = `
	SELECT d.id, c.name, n.name, n.chain_id, d.address, d.deployer, d.tx_hash,
		d.block_number, d.version, d.is_current, d.deployed_at, %s
	FROM deployments d
	JOIN contracts c ON c.id = d.contract_id
	JOIN networks n ON n.id = d.network_id`

const viewOrder = ` ORDER BY n.name, c.name, d.version DESC, d.id DESC`

func viewQuery(withABI bool) string {
	abiColumn := "''"
	if withABI {
		abiColumn = "c.abi"
	}
	return strings.Replace(viewSelect, "%s", abiColumn, 1)
}

func scanView(row pgx.Row) (*models.DeploymentView, error) {
	var v models.DeploymentView
	var chainID int64
	var block *int64
	if err := row.Scan(&v.ID, &v.ContractName, &v.NetworkName, &chainID, &v.Address, &v.Deployer, &v.TxHash,
		&block, &v.Version, &v.IsCurrent, &v.DeployedAt, &v.ABI); err != nil {
		return nil, err
	}
	v.ChainID = models.ChainID(chainID)
	v.BlockNumber = toUint64Ptr(block)
	return &v, nil
}

func (r *PostgresRepository) GetDeploymentViewByID(ctx context.Context, id models.DeploymentID) (*models.DeploymentView, error) {
	v, err := scanView(r.pool.QueryRow(ctx, viewQuery(true)+` WHERE d.id = $1`, int64(id)))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, storageErr(err, "failed to get deployment %d", id)
	}
	return v, nil
}

// ListDeployments lists deployments ordered by network then contract name, newest version first
func (r *PostgresRepository) ListDeployments(ctx context.Context, filter domain.DeploymentFilter) ([]*models.DeploymentView, error) {
	query := viewQuery(false) + `
		WHERE ($1 = '' OR n.name = $1)
		  AND ($2 = '' OR c.name = $2)
		  AND (NOT $3 OR d.is_current)` + viewOrder

	return r.listViews(ctx, query, filter.Network, filter.Contract, filter.CurrentOnly)
}

func (r *PostgresRepository) ListDeploymentsForExport(ctx context.Context, network string) ([]*models.DeploymentView, error) {
	query := viewQuery(true) + `
		WHERE d.is_current AND ($1 = '' OR n.name = $1)` + viewOrder

	return r.listViews(ctx, query, network)
}

func (r *PostgresRepository) listViews(ctx context.Context, query string, args ...any) ([]*models.DeploymentView, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, storageErr(err, "failed to list deployments")
	}
	defer rows.Close()

	var views []*models.DeploymentView
	for rows.Next() {
		v, err := scanView(rows)
		if err != nil {
			return nil, storageErr(err, "failed to scan deployment")
		}
		views = append(views, v)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr(err, "failed to list deployments")
	}
	return views, nil
}

func (r *PostgresRepository) ExistsByTxHash(ctx context.Context, txHash string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM deployments WHERE lower(tx_hash) = lower($1))`, txHash).Scan(&exists)
	if err != nil {
		return false, storageErr(err, "failed to check tx hash %s", txHash)
	}
	return exists, nil
}
