package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/smolder-dev/smolder/internal/domain"
	"github.com/smolder-dev/smolder/internal/domain/models"
)

const walletColumns = `id, name, address, encrypted_key, created_at`

func scanWallet(row pgx.Row) (*models.Wallet, error) {
	var w models.Wallet
	if err := row.Scan(&w.ID, &w.Name, &w.Address, &w.EncryptedKey, &w.CreatedAt); err != nil {
		return nil, err
	}
	return &w, nil
}

// ListWallets never returns the encrypted keys
func (r *PostgresRepository) ListWallets(ctx context.Context) ([]*models.Wallet, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, address, NULL::bytea, created_at FROM wallets ORDER BY name`)
	if err != nil {
		return nil, storageErr(err, "failed to list wallets")
	}
	defer rows.Close()

	var wallets []*models.Wallet
	for rows.Next() {
		w, err := scanWallet(rows)
		if err != nil {
			return nil, storageErr(err, "failed to scan wallet")
		}
		wallets = append(wallets, w)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr(err, "failed to list wallets")
	}
	return wallets, nil
}

func (r *PostgresRepository) getWallet(ctx context.Context, where string, arg any) (*models.Wallet, error) {
	w, err := scanWallet(r.pool.QueryRow(ctx, `SELECT `+walletColumns+` FROM wallets WHERE `+where, arg))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, storageErr(err, "failed to get wallet")
	}
	return w, nil
}

func (r *PostgresRepository) GetWalletByName(ctx context.Context, name string) (*models.Wallet, error) {
	return r.getWallet(ctx, "name = $1", name)
}

func (r *PostgresRepository) GetWalletByID(ctx context.Context, id models.WalletID) (*models.Wallet, error) {
	return r.getWallet(ctx, "id = $1", int64(id))
}

func (r *PostgresRepository) GetWalletByAddress(ctx context.Context, address string) (*models.Wallet, error) {
	return r.getWallet(ctx, "lower(address) = lower($1)", address)
}

func (r *PostgresRepository) CreateWallet(ctx context.Context, wallet models.NewWallet) (*models.Wallet, error) {
	w, err := scanWallet(r.pool.QueryRow(ctx,
		`INSERT INTO wallets (name, address, encrypted_key) VALUES ($1, $2, $3) RETURNING `+walletColumns,
		wallet.Name, wallet.Address, wallet.EncryptedKey))
	if err != nil {
		return nil, storageErr(err, "failed to create wallet %s", wallet.Name)
	}
	return w, nil
}

func (r *PostgresRepository) DeleteWallet(ctx context.Context, name string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM wallets WHERE name = $1`, name)
	if err != nil {
		return false, storageErr(err, "failed to delete wallet %s", name)
	}
	return tag.RowsAffected() > 0, nil
}

// Call history

const callColumns = `id, deployment_id, wallet_id, function_name, function_signature, input_params,
	call_type, result, tx_hash, block_number, gas_used, gas_price, status, error_message,
	created_at, confirmed_at`

func scanCall(row pgx.Row) (*models.CallRecord, error) {
	var c models.CallRecord
	var walletID, block, gas *int64
	if err := row.Scan(&c.ID, &c.DeploymentID, &walletID, &c.FunctionName, &c.FunctionSignature, &c.InputParams,
		&c.CallType, &c.Result, &c.TxHash, &block, &gas, &c.GasPrice, &c.Status, &c.ErrorMessage,
		&c.CreatedAt, &c.ConfirmedAt); err != nil {
		return nil, err
	}
	if walletID != nil {
		id := models.WalletID(*walletID)
		c.WalletID = &id
	}
	c.BlockNumber = toUint64Ptr(block)
	c.GasUsed = toUint64Ptr(gas)
	return &c, nil
}

// ListCalls lists a deployment's calls newest first
func (r *PostgresRepository) ListCalls(ctx context.Context, filter domain.CallHistoryFilter) ([]*models.CallRecord, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = domain.DefaultHistoryLimit
	}

	rows, err := r.pool.Query(ctx, `SELECT `+callColumns+` FROM call_history
		WHERE ($1 = 0 OR deployment_id = $1)
		ORDER BY id DESC
		LIMIT $2`, int64(filter.DeploymentID), limit)
	if err != nil {
		return nil, storageErr(err, "failed to list calls")
	}
	defer rows.Close()

	var calls []*models.CallRecord
	for rows.Next() {
		c, err := scanCall(rows)
		if err != nil {
			return nil, storageErr(err, "failed to scan call")
		}
		calls = append(calls, c)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr(err, "failed to list calls")
	}
	return calls, nil
}

func (r *PostgresRepository) GetCall(ctx context.Context, id models.CallID) (*models.CallRecord, error) {
	c, err := scanCall(r.pool.QueryRow(ctx, `SELECT `+callColumns+` FROM call_history WHERE id = $1`, int64(id)))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, storageErr(err, "failed to get call %d", id)
	}
	return c, nil
}

func (r *PostgresRepository) CreateCall(ctx context.Context, call models.NewCallRecord) (*models.CallRecord, error) {
	var walletID *int64
	if call.WalletID != nil {
		id := int64(*call.WalletID)
		walletID = &id
	}

	query := `
		INSERT INTO call_history (
			deployment_id, wallet_id, function_name, function_signature, input_params,
			call_type, result, tx_hash, status, error_message
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + callColumns

	c, err := scanCall(r.pool.QueryRow(ctx, query,
		int64(call.DeploymentID),
		walletID,
		call.FunctionName,
		call.FunctionSignature,
		call.InputParams,
		string(call.CallType),
		call.Result,
		call.TxHash,
		string(call.Status),
		call.ErrorMessage,
	))
	if err != nil {
		return nil, storageErr(err, "failed to record call %s", call.FunctionSignature)
	}
	return c, nil
}

// UpdateCall fills in the outcome of a call; settled statuses stamp confirmed_at
func (r *PostgresRepository) UpdateCall(ctx context.Context, id models.CallID, update models.CallUpdate) error {
	query := `
		UPDATE call_history SET
			result = COALESCE($2, result),
			tx_hash = COALESCE($3, tx_hash),
			block_number = COALESCE($4, block_number),
			gas_used = COALESCE($5, gas_used),
			gas_price = COALESCE($6, gas_price),
			error_message = COALESCE($7, error_message),
			status = COALESCE(NULLIF($8, ''), status),
			confirmed_at = CASE WHEN $8 NOT IN ('', 'pending') THEN now() ELSE confirmed_at END
		WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query,
		int64(id),
		update.Result,
		update.TxHash,
		toInt64Ptr(update.BlockNumber),
		toInt64Ptr(update.GasUsed),
		update.GasPrice,
		update.ErrorMessage,
		string(update.Status),
	)
	if err != nil {
		return storageErr(err, "failed to update call %d", id)
	}
	if tag.RowsAffected() == 0 {
		return domain.NewError(domain.KindStorage, "call %d does not exist", id)
	}
	return nil
}
