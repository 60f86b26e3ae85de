package models

import "time"

type CallType string

const (
	CallTypeRead  CallType = "read"
	CallTypeWrite CallType = "write"
)

type CallStatus string

const (
	CallStatusPending  CallStatus = "pending"
	CallStatusSuccess  CallStatus = "success"
	CallStatusFailed   CallStatus = "failed"
	CallStatusReverted CallStatus = "reverted"
)

// CallRecord is one entry of a deployment's interaction history
type CallRecord struct {
	ID                CallID       `json:"id"`
	DeploymentID      DeploymentID `json:"deploymentId"`
	WalletID          *WalletID    `json:"walletId,omitempty"`
	FunctionName      string       `json:"functionName"`
	FunctionSignature string       `json:"functionSignature"`
	InputParams       string       `json:"inputParams"`
	CallType          CallType     `json:"callType"`
	Result            *string      `json:"result,omitempty"`
	TxHash            *string      `json:"txHash,omitempty"`
	BlockNumber       *uint64      `json:"blockNumber,omitempty"`
	GasUsed           *uint64      `json:"gasUsed,omitempty"`
	GasPrice          *string      `json:"gasPrice,omitempty"`
	Status            CallStatus   `json:"status"`
	ErrorMessage      *string      `json:"errorMessage,omitempty"`
	CreatedAt         time.Time    `json:"createdAt"`
	ConfirmedAt       *time.Time   `json:"confirmedAt,omitempty"`
}

type NewCallRecord struct {
	DeploymentID      DeploymentID
	WalletID          *WalletID
	FunctionName      string
	FunctionSignature string
	InputParams       string
	CallType          CallType
	Result            *string
	TxHash            *string
	Status            CallStatus
	ErrorMessage      *string
}

// CallUpdate carries the fields filled in once a call settles
type CallUpdate struct {
	Result       *string
	TxHash       *string
	BlockNumber  *uint64
	GasUsed      *uint64
	GasPrice     *string
	Status       CallStatus
	ErrorMessage *string
}
