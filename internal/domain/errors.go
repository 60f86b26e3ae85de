package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for domain operations
var (
	// ErrNotFound is returned when a requested resource doesn't exist
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists is returned when trying to create a resource that already exists
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidAddress is returned when an Ethereum address is invalid
	ErrInvalidAddress = errors.New("invalid address")
)

// ErrorKind is the closed set of failure categories surfaced by smolder.
type ErrorKind int

const (
	KindStorage ErrorKind = iota
	KindSerialization
	KindHexDecode
	KindNetworkNotFound
	KindContractNotFound
	KindDeploymentNotFound
	KindWalletNotFound
	KindFunctionNotFound
	KindArtifactNotFound
	KindAbiParse
	KindAbiEncode
	KindAbiDecode
	KindRPC
	KindTransactionFailed
	KindTransactionReverted
	KindInvalidParameter
	KindValidation
	KindKeyring
	KindFileNotFound
	KindIO
	KindConfig
	KindEnvVarNotSet
)

var kindCodes = map[ErrorKind]string{
	KindStorage:             "DATABASE_ERROR",
	KindSerialization:       "SERIALIZATION_ERROR",
	KindHexDecode:           "HEX_DECODE_ERROR",
	KindNetworkNotFound:     "NETWORK_NOT_FOUND",
	KindContractNotFound:    "CONTRACT_NOT_FOUND",
	KindDeploymentNotFound:  "DEPLOYMENT_NOT_FOUND",
	KindWalletNotFound:      "WALLET_NOT_FOUND",
	KindFunctionNotFound:    "FUNCTION_NOT_FOUND",
	KindArtifactNotFound:    "ARTIFACT_NOT_FOUND",
	KindAbiParse:            "ABI_PARSE_ERROR",
	KindAbiEncode:           "ABI_ENCODE_ERROR",
	KindAbiDecode:           "ABI_DECODE_ERROR",
	KindRPC:                 "RPC_ERROR",
	KindTransactionFailed:   "TRANSACTION_FAILED",
	KindTransactionReverted: "TRANSACTION_REVERTED",
	KindInvalidParameter:    "INVALID_PARAMETER",
	KindValidation:          "VALIDATION_ERROR",
	KindKeyring:             "KEYRING_ERROR",
	KindFileNotFound:        "FILE_NOT_FOUND",
	KindIO:                  "IO_ERROR",
	KindConfig:              "CONFIG_ERROR",
	KindEnvVarNotSet:        "ENV_VAR_NOT_SET",
}

// Code returns the stable machine-readable code for the kind.
func (k ErrorKind) Code() string {
	if code, ok := kindCodes[k]; ok {
		return code
	}
	return "INTERNAL_ERROR"
}

func (k ErrorKind) String() string {
	return k.Code()
}

// IsNotFound reports whether the kind names a missing entity.
func (k ErrorKind) IsNotFound() bool {
	switch k {
	case KindNetworkNotFound, KindContractNotFound, KindDeploymentNotFound,
		KindWalletNotFound, KindFunctionNotFound, KindArtifactNotFound, KindFileNotFound:
		return true
	}
	return false
}

// Error is the typed error carried across smolder's layers.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil && e.Message == "" {
		return e.Err.Error()
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Code returns the stable code of the error's kind.
func (e *Error) Code() string {
	return e.Kind.Code()
}

// Is lets errors.Is(err, ErrNotFound) match every not-found kind.
func (e *Error) Is(target error) bool {
	return target == ErrNotFound && e.Kind.IsNotFound()
}

// NewError creates an error of the given kind.
func NewError(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// WrapError attaches a kind and message to an underlying error.
func WrapError(kind ErrorKind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

func NetworkNotFound(name string) *Error {
	return NewError(KindNetworkNotFound, "network not found: %s", name)
}

func ContractNotFound(name string) *Error {
	return NewError(KindContractNotFound, "contract not found: %s", name)
}

func DeploymentNotFound(contract, network string) *Error {
	return NewError(KindDeploymentNotFound, "deployment not found: %s on %s", contract, network)
}

func DeploymentNotFoundByID(id int64) *Error {
	return NewError(KindDeploymentNotFound, "deployment not found: id %d", id)
}

func WalletNotFound(name string) *Error {
	return NewError(KindWalletNotFound, "wallet not found: %s", name)
}

func FunctionNotFound(contract, function string) *Error {
	return NewError(KindFunctionNotFound, "function '%s' not found in contract '%s'", function, contract)
}

func ArtifactNotFound(name string) *Error {
	return NewError(KindArtifactNotFound, "artifact not found: %s", name)
}

func InvalidParameter(name, reason string) *Error {
	return NewError(KindInvalidParameter, "invalid parameter '%s': %s", name, reason)
}

func Validation(format string, args ...any) *Error {
	return NewError(KindValidation, format, args...)
}

func StorageError(err error, format string, args ...any) *Error {
	return WrapError(KindStorage, err, format, args...)
}

func RPCError(err error, format string, args ...any) *Error {
	return WrapError(KindRPC, err, format, args...)
}

func TransactionReverted(txHash, reason string) *Error {
	return NewError(KindTransactionReverted, "transaction %s reverted: %s", txHash, reason)
}

// KindOf returns the kind of err, or false when err carries none.
func KindOf(err error) (ErrorKind, bool) {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind, true
	}
	return 0, false
}

// IsNotFound reports whether err is any of the not-found kinds.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsStorage reports whether err originated in the registry storage.
func IsStorage(err error) bool {
	k, ok := KindOf(err)
	return ok && k == KindStorage
}

// IsValidation reports whether err is a validation or parameter error.
func IsValidation(err error) bool {
	k, ok := KindOf(err)
	return ok && (k == KindValidation || k == KindInvalidParameter)
}
