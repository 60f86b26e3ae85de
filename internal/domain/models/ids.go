package models

import "strconv"

// Identifiers are distinct per entity so one entity's id cannot be passed where another's is expected.
type (
	NetworkID    int64
	ContractID   int64
	DeploymentID int64
	WalletID     int64
	CallID       int64
)

// ChainID is an EVM chain identifier
type ChainID uint64

func (id NetworkID) String() string    { return strconv.FormatInt(int64(id), 10) }
func (id ContractID) String() string   { return strconv.FormatInt(int64(id), 10) }
func (id DeploymentID) String() string { return strconv.FormatInt(int64(id), 10) }
func (id WalletID) String() string     { return strconv.FormatInt(int64(id), 10) }
func (id CallID) String() string       { return strconv.FormatInt(int64(id), 10) }
func (id ChainID) String() string      { return strconv.FormatUint(uint64(id), 10) }

// ParseDeploymentID parses a deployment id from user input
func ParseDeploymentID(s string) (DeploymentID, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n <= 0 {
		return 0, strconv.ErrSyntax
	}
	return DeploymentID(n), nil
}
