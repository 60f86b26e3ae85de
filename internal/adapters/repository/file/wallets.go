package file

import (
	"cmp"
	"context"
	"slices"
	"strings"

	"github.com/smolder-dev/smolder/internal/domain"
	"github.com/smolder-dev/smolder/internal/domain/models"
)

// Wallets

func (m *FileRepository) ListWallets(ctx context.Context) ([]*models.Wallet, error) {
	unlock, err := m.acquire(ctx, false)
	if err != nil {
		return nil, err
	}
	defer unlock()

	result := make([]*models.Wallet, 0, len(m.wallets))
	for _, w := range m.wallets {
		wallet := w.toModel()
		wallet.EncryptedKey = nil
		result = append(result, wallet)
	}
	sortBy(result, func(w *models.Wallet) string { return w.Name })
	return result, nil
}

func (m *FileRepository) GetWalletByName(ctx context.Context, name string) (*models.Wallet, error) {
	unlock, err := m.acquire(ctx, false)
	if err != nil {
		return nil, err
	}
	defer unlock()

	for _, w := range m.wallets {
		if w.Name == name {
			return w.toModel(), nil
		}
	}
	return nil, nil
}

func (m *FileRepository) GetWalletByID(ctx context.Context, id models.WalletID) (*models.Wallet, error) {
	unlock, err := m.acquire(ctx, false)
	if err != nil {
		return nil, err
	}
	defer unlock()

	if w, ok := m.wallets[id]; ok {
		return w.toModel(), nil
	}
	return nil, nil
}

func (m *FileRepository) GetWalletByAddress(ctx context.Context, address string) (*models.Wallet, error) {
	unlock, err := m.acquire(ctx, false)
	if err != nil {
		return nil, err
	}
	defer unlock()

	for _, w := range m.wallets {
		if strings.EqualFold(w.Address, address) {
			return w.toModel(), nil
		}
	}
	return nil, nil
}

// CreateWallet stores a wallet; names and addresses are unique
func (m *FileRepository) CreateWallet(ctx context.Context, wallet models.NewWallet) (*models.Wallet, error) {
	unlock, err := m.acquire(ctx, true)
	if err != nil {
		return nil, err
	}
	defer unlock()

	for _, w := range m.wallets {
		if w.Name == wallet.Name {
			return nil, domain.NewError(domain.KindStorage, "wallet '%s' already exists", wallet.Name)
		}
		if strings.EqualFold(w.Address, wallet.Address) {
			return nil, domain.NewError(domain.KindStorage, "wallet for %s already exists as '%s'", wallet.Address, w.Name)
		}
	}

	record := &walletRecord{
		ID:           nextID(m.wallets),
		Name:         wallet.Name,
		Address:      wallet.Address,
		EncryptedKey: wallet.EncryptedKey,
		CreatedAt:    m.now(),
	}
	m.wallets[record.ID] = record

	if err := m.persist(WalletsFile, m.wallets); err != nil {
		delete(m.wallets, record.ID)
		return nil, err
	}
	return record.toModel(), nil
}

// DeleteWallet removes a wallet by name and reports whether it existed
func (m *FileRepository) DeleteWallet(ctx context.Context, name string) (bool, error) {
	unlock, err := m.acquire(ctx, true)
	if err != nil {
		return false, err
	}
	defer unlock()

	for id, w := range m.wallets {
		if w.Name != name {
			continue
		}
		delete(m.wallets, id)
		if err := m.persist(WalletsFile, m.wallets); err != nil {
			m.wallets[id] = w
			return false, err
		}
		return true, nil
	}
	return false, nil
}

func (w *walletRecord) toModel() *models.Wallet {
	return &models.Wallet{
		ID:           w.ID,
		Name:         w.Name,
		Address:      w.Address,
		EncryptedKey: slices.Clone(w.EncryptedKey),
		CreatedAt:    w.CreatedAt,
	}
}

// Call history

// ListCalls lists a deployment's calls newest first
func (m *FileRepository) ListCalls(ctx context.Context, filter domain.CallHistoryFilter) ([]*models.CallRecord, error) {
	unlock, err := m.acquire(ctx, false)
	if err != nil {
		return nil, err
	}
	defer unlock()

	var result []*models.CallRecord
	for _, c := range m.calls {
		if filter.DeploymentID != 0 && c.DeploymentID != filter.DeploymentID {
			continue
		}
		clone := *c
		result = append(result, &clone)
	}
	slices.SortFunc(result, func(a, b *models.CallRecord) int { return cmp.Compare(b.ID, a.ID) })

	limit := filter.Limit
	if limit <= 0 {
		limit = domain.DefaultHistoryLimit
	}
	if len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (m *FileRepository) GetCall(ctx context.Context, id models.CallID) (*models.CallRecord, error) {
	unlock, err := m.acquire(ctx, false)
	if err != nil {
		return nil, err
	}
	defer unlock()

	if c, ok := m.calls[id]; ok {
		clone := *c
		return &clone, nil
	}
	return nil, nil
}

func (m *FileRepository) CreateCall(ctx context.Context, call models.NewCallRecord) (*models.CallRecord, error) {
	unlock, err := m.acquire(ctx, true)
	if err != nil {
		return nil, err
	}
	defer unlock()

	if _, ok := m.deployments[call.DeploymentID]; !ok {
		return nil, domain.NewError(domain.KindStorage, "deployment %d does not exist", call.DeploymentID)
	}

	record := &models.CallRecord{
		ID:                nextID(m.calls),
		DeploymentID:      call.DeploymentID,
		WalletID:          call.WalletID,
		FunctionName:      call.FunctionName,
		FunctionSignature: call.FunctionSignature,
		InputParams:       call.InputParams,
		CallType:          call.CallType,
		Result:            call.Result,
		TxHash:            call.TxHash,
		Status:            call.Status,
		ErrorMessage:      call.ErrorMessage,
		CreatedAt:         m.now(),
	}
	m.calls[record.ID] = record

	if err := m.persist(CallsFile, m.calls); err != nil {
		delete(m.calls, record.ID)
		return nil, err
	}
	clone := *record
	return &clone, nil
}

// UpdateCall fills in the outcome of a call; settled statuses stamp ConfirmedAt
func (m *FileRepository) UpdateCall(ctx context.Context, id models.CallID, update models.CallUpdate) error {
	unlock, err := m.acquire(ctx, true)
	if err != nil {
		return err
	}
	defer unlock()

	c, ok := m.calls[id]
	if !ok {
		return domain.NewError(domain.KindStorage, "call %d does not exist", id)
	}
	previous := *c

	if update.Result != nil {
		c.Result = update.Result
	}
	if update.TxHash != nil {
		c.TxHash = update.TxHash
	}
	if update.BlockNumber != nil {
		c.BlockNumber = update.BlockNumber
	}
	if update.GasUsed != nil {
		c.GasUsed = update.GasUsed
	}
	if update.GasPrice != nil {
		c.GasPrice = update.GasPrice
	}
	if update.ErrorMessage != nil {
		c.ErrorMessage = update.ErrorMessage
	}
	if update.Status != "" {
		c.Status = update.Status
		if update.Status != models.CallStatusPending {
			now := m.now()
			c.ConfirmedAt = &now
		}
	}

	if err := m.persist(CallsFile, m.calls); err != nil {
		*c = previous
		return err
	}
	return nil
}
