package blockchain

import (
	"context"
	"crypto/ecdsa"
	"log/slog"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/smolder-dev/smolder/internal/domain"
	"github.com/smolder-dev/smolder/internal/usecase"
)

// ClientAdapter implements the ChainClient port using ethclient. Connections are dialed
// lazily and reused per RPC URL.
type ClientAdapter struct {
	log *slog.Logger

	mu      sync.Mutex
	clients map[string]*ethclient.Client
}

// NewClientAdapter creates a new chain client adapter
func NewClientAdapter(log *slog.Logger) *ClientAdapter {
	return &ClientAdapter{
		log:     log.With("component", "ClientAdapter"),
		clients: make(map[string]*ethclient.Client),
	}
}

func (c *ClientAdapter) dial(ctx context.Context, rpcURL string) (*ethclient.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if client, ok := c.clients[rpcURL]; ok {
		return client, nil
	}
	client, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, domain.RPCError(err, "failed to connect to RPC %s", rpcURL)
	}
	c.clients[rpcURL] = client
	return client, nil
}

// ChainID asks the node for its chain id
func (c *ClientAdapter) ChainID(ctx context.Context, rpcURL string) (uint64, error) {
	client, err := c.dial(ctx, rpcURL)
	if err != nil {
		return 0, err
	}
	id, err := client.ChainID(ctx)
	if err != nil {
		return 0, domain.RPCError(err, "failed to get chain ID from %s", rpcURL)
	}
	return id.Uint64(), nil
}

// Call executes a read-only eth_call against the latest block
func (c *ClientAdapter) Call(ctx context.Context, rpcURL, to string, data []byte) ([]byte, error) {
	if !common.IsHexAddress(to) {
		return nil, domain.InvalidParameter("to", "invalid address "+to)
	}
	client, err := c.dial(ctx, rpcURL)
	if err != nil {
		return nil, err
	}

	addr := common.HexToAddress(to)
	out, err := client.CallContract(ctx, ethereum.CallMsg{To: &addr, Data: data}, nil)
	if err != nil {
		return nil, domain.RPCError(err, "eth_call to %s failed", to)
	}
	return out, nil
}

// SendTransaction signs a legacy transaction with the key, sends it and waits until it is mined
func (c *ClientAdapter) SendTransaction(ctx context.Context, rpcURL string, key *ecdsa.PrivateKey, to *string, data []byte, value *big.Int) (*usecase.TxResult, error) {
	client, err := c.dial(ctx, rpcURL)
	if err != nil {
		return nil, err
	}
	if value == nil {
		value = new(big.Int)
	}

	from := crypto.PubkeyToAddress(key.PublicKey)

	var toAddr *common.Address
	if to != nil {
		if !common.IsHexAddress(*to) {
			return nil, domain.InvalidParameter("to", "invalid address "+*to)
		}
		addr := common.HexToAddress(*to)
		toAddr = &addr
	}

	chainID, err := client.ChainID(ctx)
	if err != nil {
		return nil, domain.RPCError(err, "failed to get chain ID")
	}
	nonce, err := client.PendingNonceAt(ctx, from)
	if err != nil {
		return nil, domain.RPCError(err, "failed to get nonce for %s", from.Hex())
	}
	gasPrice, err := client.SuggestGasPrice(ctx)
	if err != nil {
		return nil, domain.RPCError(err, "failed to get gas price")
	}
	gasLimit, err := client.EstimateGas(ctx, ethereum.CallMsg{From: from, To: toAddr, Value: value, Data: data})
	if err != nil {
		return nil, domain.WrapError(domain.KindTransactionFailed, err, "gas estimation failed")
	}

	tx := types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		To:       toAddr,
		Value:    value,
		Gas:      gasLimit,
		GasPrice: gasPrice,
		Data:     data,
	})
	signedTx, err := types.SignTx(tx, types.LatestSignerForChainID(chainID), key)
	if err != nil {
		return nil, domain.WrapError(domain.KindKeyring, err, "failed to sign transaction")
	}

	c.log.Debug("sending transaction", "from", from.Hex(), "nonce", nonce, "gas", gasLimit, "hash", signedTx.Hash().Hex())
	if err := client.SendTransaction(ctx, signedTx); err != nil {
		return nil, domain.WrapError(domain.KindTransactionFailed, err, "failed to send transaction")
	}

	receipt, err := bind.WaitMined(ctx, client, signedTx)
	if err != nil {
		return nil, domain.RPCError(err, "failed waiting for transaction %s", signedTx.Hash().Hex())
	}

	result := &usecase.TxResult{
		TxHash:      signedTx.Hash().Hex(),
		BlockNumber: receipt.BlockNumber.Uint64(),
		GasUsed:     receipt.GasUsed,
		GasPrice:    gasPrice,
		Success:     receipt.Status == types.ReceiptStatusSuccessful,
	}
	if to == nil {
		result.ContractAddress = receipt.ContractAddress.Hex()
	}
	return result, nil
}

// Close closes every cached connection
func (c *ClientAdapter) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for url, client := range c.clients {
		client.Close()
		delete(c.clients, url)
	}
}
