package domain

import (
	"encoding/hex"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/crypto"
)

// DecodeBytecode decodes hex bytecode with or without a 0x prefix. Empty input yields no bytes.
func DecodeBytecode(s string) ([]byte, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "0x")
	if s == "" {
		return []byte{}, nil
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, WrapError(KindHexDecode, err, "invalid bytecode hex")
	}
	return b, nil
}

// BytecodeHash is the keccak256 of the init bytecode as lowercase hex without prefix
func BytecodeHash(bytecode []byte) string {
	return hex.EncodeToString(crypto.Keccak256(bytecode))
}

// ComputeBytecodeHash decodes hex bytecode and hashes it
func ComputeBytecodeHash(hexBytecode string) (string, error) {
	b, err := DecodeBytecode(hexBytecode)
	if err != nil {
		return "", err
	}
	return BytecodeHash(b), nil
}

// IsValidBytecode rejects the empty placeholders forge emits for interfaces and abstract contracts
func IsValidBytecode(s string) bool {
	s = strings.TrimSpace(s)
	return s != "" && s != "0x"
}

// ParseHexBlockNumber parses "0x1a4" or "1a4" into 420
func ParseHexBlockNumber(s string) (uint64, error) {
	trimmed := strings.TrimPrefix(strings.TrimSpace(s), "0x")
	n, err := strconv.ParseUint(trimmed, 16, 64)
	if err != nil {
		return 0, Validation("invalid block number %q", s)
	}
	return n, nil
}
