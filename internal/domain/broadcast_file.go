package domain

import "strings"

// TransactionTypeCreate marks a broadcast transaction that created a contract
const TransactionTypeCreate = "CREATE"

// BroadcastOutput represents a Foundry broadcast file (run-latest.json)
type BroadcastOutput struct {
	Chain        uint64                 `json:"chain"`
	Transactions []BroadcastTransaction `json:"transactions"`
	Receipts     []BroadcastReceipt     `json:"receipts"`
	Timestamp    uint64                 `json:"timestamp"`
	Commit       string                 `json:"commit,omitempty"`
}

// BroadcastTransaction represents a transaction in a broadcast file
type BroadcastTransaction struct {
	Hash            string           `json:"hash"`
	TransactionType string           `json:"transactionType"`
	ContractName    string           `json:"contractName,omitempty"`
	ContractAddress string           `json:"contractAddress,omitempty"`
	Function        string           `json:"function,omitempty"`
	Arguments       []any            `json:"arguments,omitempty"`
	Transaction     BroadcastTxInner `json:"transaction"`
}

// BroadcastTxInner is the raw transaction request recorded by forge
type BroadcastTxInner struct {
	From  string `json:"from"`
	To    string `json:"to,omitempty"`
	Data  string `json:"data,omitempty"`
	Input string `json:"input,omitempty"`
	Value string `json:"value,omitempty"`
}

// IsCreate reports whether the transaction deployed a contract
func (t BroadcastTransaction) IsCreate() bool {
	return t.TransactionType == TransactionTypeCreate
}

// BroadcastReceipt represents a receipt in a broadcast file
type BroadcastReceipt struct {
	TransactionHash string `json:"transactionHash"`
	BlockNumber     string `json:"blockNumber"`
	GasUsed         string `json:"gasUsed,omitempty"`
	Status          string `json:"status,omitempty"`
	ContractAddress string `json:"contractAddress,omitempty"`
}

// ReceiptFor returns the receipt matching a transaction hash
func (o *BroadcastOutput) ReceiptFor(txHash string) (*BroadcastReceipt, bool) {
	for i := range o.Receipts {
		if strings.EqualFold(o.Receipts[i].TransactionHash, txHash) {
			return &o.Receipts[i], true
		}
	}
	return nil, false
}
