package models

import "time"

// Contract is a compiled contract identified by (Name, BytecodeHash)
type Contract struct {
	ID           ContractID `json:"id"`
	Name         string     `json:"name"`
	SourcePath   string     `json:"sourcePath"`
	ABI          string     `json:"abi"`
	BytecodeHash string     `json:"bytecodeHash"`
	CreatedAt    time.Time  `json:"createdAt"`
}

// NewContract is the upsert payload for a contract
type NewContract struct {
	Name         string
	SourcePath   string
	ABI          string
	BytecodeHash string
}
