package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/smolder-dev/smolder/internal/domain"
	"github.com/smolder-dev/smolder/internal/domain/abi"
	"github.com/smolder-dev/smolder/internal/domain/models"
)

// InteractContract reads from and writes to deployed contracts by registry id
type InteractContract struct {
	deployments DeploymentRepository
	networks    NetworkRepository
	wallets     WalletRepository
	calls       CallHistoryRepository
	vault       KeyVault
	chain       ChainClient
	progress    ProgressSink
	log         *slog.Logger
}

// NewInteractContract creates a new InteractContract use case
func NewInteractContract(
	deployments DeploymentRepository,
	networks NetworkRepository,
	wallets WalletRepository,
	calls CallHistoryRepository,
	vault KeyVault,
	chain ChainClient,
	progress ProgressSink,
	log *slog.Logger,
) *InteractContract {
	return &InteractContract{
		deployments: deployments,
		networks:    networks,
		wallets:     wallets,
		calls:       calls,
		vault:       vault,
		chain:       chain,
		progress:    progress,
		log:         log.With("component", "InteractContract"),
	}
}

// FunctionsResult lists a deployment's functions partitioned by mutability
type FunctionsResult struct {
	Deployment *models.DeploymentView `json:"deployment"`
	Functions  models.ParsedFunctions `json:"functions"`
}

// CallParams identifies a read-only invocation
type CallParams struct {
	DeploymentID models.DeploymentID
	// Function is a bare name or a canonical signature such as "balanceOf(address)"
	Function string
	Args     []any
}

// CallResult is the decoded return value of a read-only call
type CallResult struct {
	Function models.FunctionInfo `json:"function"`
	Result   any                 `json:"result"`
}

// SendParams identifies a state-changing invocation
type SendParams struct {
	DeploymentID models.DeploymentID
	Function     string
	Args         []any
	Wallet       string
	// Value is the wei attached to the transaction, as a decimal string
	Value string
}

// SendResult is the mined outcome of a state-changing invocation
type SendResult struct {
	CallID      models.CallID       `json:"callId"`
	Function    models.FunctionInfo `json:"function"`
	TxHash      string              `json:"txHash"`
	BlockNumber uint64              `json:"blockNumber"`
	GasUsed     uint64              `json:"gasUsed"`
	Status      models.CallStatus   `json:"status"`
}

// Functions lists the functions of a deployment's ABI
func (uc *InteractContract) Functions(ctx context.Context, id models.DeploymentID) (*FunctionsResult, error) {
	view, parsed, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return &FunctionsResult{Deployment: view, Functions: parsed.Functions()}, nil
}

// Call invokes a pure or view function with eth_call and decodes the result
func (uc *InteractContract) Call(ctx context.Context, params CallParams) (*CallResult, error) {
	view, parsed, err := uc.load(ctx, params.DeploymentID)
	if err != nil {
		return nil, err
	}
	fn, err := uc.resolve(view, parsed, params.Function)
	if err != nil {
		return nil, err
	}
	if !fn.Info.IsReadOnly() {
		return nil, domain.Validation("function '%s' modifies state, use send instead of call", fn.Info.Name)
	}

	data, err := parsed.Encode(fn, params.Args)
	if err != nil {
		return nil, err
	}
	rpcURL, err := uc.rpcURL(ctx, view)
	if err != nil {
		return nil, err
	}

	raw, err := uc.chain.Call(ctx, rpcURL, view.Address, data)
	if err != nil {
		uc.recordRead(ctx, view, fn, params.Args, nil, err)
		return nil, err
	}
	result, err := parsed.Decode(fn, raw)
	if err != nil {
		uc.recordRead(ctx, view, fn, params.Args, nil, err)
		return nil, err
	}
	uc.recordRead(ctx, view, fn, params.Args, result, nil)

	return &CallResult{Function: fn.Info, Result: result}, nil
}

// Send signs and sends a transaction calling a nonpayable or payable function.
// The call is recorded as pending before sending and settled once mined.
func (uc *InteractContract) Send(ctx context.Context, params SendParams) (*SendResult, error) {
	view, parsed, err := uc.load(ctx, params.DeploymentID)
	if err != nil {
		return nil, err
	}
	fn, err := uc.resolve(view, parsed, params.Function)
	if err != nil {
		return nil, err
	}
	if fn.Info.IsReadOnly() {
		return nil, domain.Validation("function '%s' is read-only, use call instead of send", fn.Info.Name)
	}

	value, err := parseWei(params.Value)
	if err != nil {
		return nil, err
	}
	if value.Sign() > 0 && fn.Info.Mutability != models.MutabilityPayable {
		return nil, domain.Validation("function '%s' is not payable", fn.Info.Name)
	}

	data, err := parsed.Encode(fn, params.Args)
	if err != nil {
		return nil, err
	}

	wallet, err := uc.wallets.GetWalletByName(ctx, params.Wallet)
	if err != nil {
		return nil, err
	}
	if wallet == nil {
		return nil, domain.WalletNotFound(params.Wallet)
	}
	key, err := uc.vault.Decrypt(wallet.EncryptedKey)
	if err != nil {
		return nil, err
	}
	rpcURL, err := uc.rpcURL(ctx, view)
	if err != nil {
		return nil, err
	}

	walletID := wallet.ID
	record, err := uc.calls.CreateCall(ctx, models.NewCallRecord{
		DeploymentID:      view.ID,
		WalletID:          &walletID,
		FunctionName:      fn.Info.Name,
		FunctionSignature: fn.Info.Signature,
		InputParams:       encodeInputs(params.Args),
		CallType:          models.CallTypeWrite,
		Status:            models.CallStatusPending,
	})
	if err != nil {
		return nil, err
	}

	uc.progress.OnProgress(ctx, ProgressEvent{
		Stage:   string(StageSending),
		Message: fn.Info.Signature,
		Spinner: true,
	})
	defer uc.progress.OnProgress(ctx, ProgressEvent{Stage: string(StageCompleted)})

	to := view.Address
	tx, sendErr := uc.chain.SendTransaction(ctx, rpcURL, key, &to, data, value)
	if sendErr != nil {
		message := sendErr.Error()
		uc.settle(ctx, record.ID, models.CallUpdate{Status: models.CallStatusFailed, ErrorMessage: &message})
		return nil, sendErr
	}

	txHash := tx.TxHash
	blockNumber := tx.BlockNumber
	gasUsed := tx.GasUsed
	update := models.CallUpdate{
		TxHash:      &txHash,
		BlockNumber: &blockNumber,
		GasUsed:     &gasUsed,
		Status:      models.CallStatusSuccess,
	}
	if tx.GasPrice != nil {
		gasPrice := tx.GasPrice.String()
		update.GasPrice = &gasPrice
	}
	if !tx.Success {
		update.Status = models.CallStatusReverted
		message := "execution reverted"
		update.ErrorMessage = &message
	}
	uc.settle(ctx, record.ID, update)

	result := &SendResult{
		CallID:      record.ID,
		Function:    fn.Info,
		TxHash:      tx.TxHash,
		BlockNumber: tx.BlockNumber,
		GasUsed:     tx.GasUsed,
		Status:      update.Status,
	}
	if !tx.Success {
		return result, domain.TransactionReverted(tx.TxHash, "execution reverted")
	}
	return result, nil
}

// History lists the recorded calls of a deployment, newest first.
// A non-positive limit selects the default.
func (uc *InteractContract) History(ctx context.Context, id models.DeploymentID, limit int) ([]*models.CallRecord, error) {
	if _, err := requireDeploymentView(ctx, uc.deployments, id); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = domain.DefaultHistoryLimit
	}
	calls, err := uc.calls.ListCalls(ctx, domain.CallHistoryFilter{DeploymentID: id, Limit: limit})
	if err != nil {
		return nil, err
	}
	if calls == nil {
		calls = []*models.CallRecord{}
	}
	return calls, nil
}

func (uc *InteractContract) load(ctx context.Context, id models.DeploymentID) (*models.DeploymentView, *abi.ABI, error) {
	view, err := requireDeploymentView(ctx, uc.deployments, id)
	if err != nil {
		return nil, nil, err
	}
	parsed, err := abi.Parse(view.ABI)
	if err != nil {
		return nil, nil, err
	}
	return view, parsed, nil
}

// resolve finds the function and, when it is missing, suggests the closest declared name
func (uc *InteractContract) resolve(view *models.DeploymentView, parsed *abi.ABI, ref string) (*abi.Function, error) {
	fn, err := parsed.ResolveFunction(ref)
	if err == nil {
		return fn, nil
	}
	if kind, ok := domain.KindOf(err); !ok || kind != domain.KindFunctionNotFound {
		return nil, err
	}

	notFound := domain.FunctionNotFound(view.ContractName, ref)
	name, _, _ := strings.Cut(ref, "(")
	if matches := fuzzy.Find(name, parsed.FunctionNames()); len(matches) > 0 {
		notFound.Message += ", did you mean '" + matches[0].Str + "'?"
	}
	return nil, notFound
}

func (uc *InteractContract) rpcURL(ctx context.Context, view *models.DeploymentView) (string, error) {
	network, err := uc.networks.GetNetworkByName(ctx, view.NetworkName)
	if err != nil {
		return "", err
	}
	if network == nil {
		return "", domain.NetworkNotFound(view.NetworkName)
	}
	return network.RPCURL, nil
}

// recordRead stores a settled read call. History is best effort for reads.
func (uc *InteractContract) recordRead(ctx context.Context, view *models.DeploymentView, fn *abi.Function, args []any, result any, callErr error) {
	call := models.NewCallRecord{
		DeploymentID:      view.ID,
		FunctionName:      fn.Info.Name,
		FunctionSignature: fn.Info.Signature,
		InputParams:       encodeInputs(args),
		CallType:          models.CallTypeRead,
		Status:            models.CallStatusSuccess,
	}
	if callErr != nil {
		message := callErr.Error()
		call.Status = models.CallStatusFailed
		call.ErrorMessage = &message
	} else if encoded, err := json.Marshal(result); err == nil {
		s := string(encoded)
		call.Result = &s
	}

	if _, err := uc.calls.CreateCall(ctx, call); err != nil {
		uc.log.Warn("failed to record call", "deployment", view.ID, "function", fn.Info.Signature, "error", err)
	}
}

func (uc *InteractContract) settle(ctx context.Context, id models.CallID, update models.CallUpdate) {
	if err := uc.calls.UpdateCall(ctx, id, update); err != nil && !errors.Is(err, context.Canceled) {
		uc.log.Warn("failed to update call record", "call", id, "error", err)
	}
}

func encodeInputs(args []any) string {
	if args == nil {
		args = []any{}
	}
	encoded, err := json.Marshal(args)
	if err != nil {
		return "[]"
	}
	return string(encoded)
}
