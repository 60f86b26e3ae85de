package render

import (
	"bytes"
	"os"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smolder-dev/smolder/internal/domain/models"
	"github.com/smolder-dev/smolder/internal/usecase"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

func TestRenderDeploymentList(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, NewDeploymentsRenderer(&out).RenderDeploymentList(&usecase.DeploymentListResult{}))
		assert.Equal(t, "No deployments found\n", out.String())
	})

	t.Run("grouped by network", func(t *testing.T) {
		deployedAt := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
		result := &usecase.DeploymentListResult{
			Deployments: []*models.DeploymentView{
				{ID: 3, ContractName: "Counter", NetworkName: "sepolia", ChainID: 11155111, Address: "0x3333333333333333333333333333333333333333", Version: 1, IsCurrent: true, DeployedAt: deployedAt},
				{ID: 2, ContractName: "Counter", NetworkName: "anvil", ChainID: 31337, Address: "0x2222222222222222222222222222222222222222", Version: 2, IsCurrent: true, DeployedAt: deployedAt},
				{ID: 1, ContractName: "Counter", NetworkName: "anvil", ChainID: 31337, Address: "0x1111111111111111111111111111111111111111", Version: 1, DeployedAt: deployedAt},
			},
			Summary: usecase.DeploymentSummary{Total: 3, ByNetwork: map[string]int{"anvil": 2, "sepolia": 1}},
		}

		var out bytes.Buffer
		require.NoError(t, NewDeploymentsRenderer(&out).RenderDeploymentList(result))
		s := out.String()

		assert.Less(t, bytes.Index(out.Bytes(), []byte("anvil")), bytes.Index(out.Bytes(), []byte("sepolia")))
		assert.Contains(t, s, "chain 31337")
		assert.Contains(t, s, "v1 (superseded)")
		assert.Less(t, bytes.Index(out.Bytes(), []byte("0x2222")), bytes.Index(out.Bytes(), []byte("0x1111")))
		assert.Contains(t, s, "Total: 3 deployment(s) across 2 network(s)")
	})
}

func TestRenderFunctions(t *testing.T) {
	result := &usecase.FunctionsResult{
		Deployment: &models.DeploymentView{ContractName: "Token", Address: "0xabc", NetworkName: "anvil"},
		Functions: models.ParsedFunctions{
			Read: []models.FunctionInfo{{
				Name:       "balanceOf",
				Signature:  "balanceOf(address)",
				Outputs:    []models.ParamInfo{{Type: "uint256"}},
				Mutability: models.MutabilityView,
			}},
			Write: []models.FunctionInfo{{Name: "deposit", Signature: "deposit()", Mutability: models.MutabilityPayable}},
		},
	}

	var out bytes.Buffer
	require.NoError(t, NewInteractionRenderer(&out).RenderFunctions(result))
	s := out.String()
	assert.Contains(t, s, "Read functions (1):")
	assert.Contains(t, s, "balanceOf(address) → (uint256)")
	assert.Contains(t, s, "deposit() payable")
}

func TestRenderCallResult(t *testing.T) {
	var out bytes.Buffer
	r := NewInteractionRenderer(&out)

	require.NoError(t, r.RenderCallResult(&usecase.CallResult{
		Function: models.FunctionInfo{Signature: "totalSupply()"},
		Result:   "1000",
	}))
	require.NoError(t, r.RenderCallResult(&usecase.CallResult{
		Function: models.FunctionInfo{Signature: "pair()"},
		Result:   []any{"1", true},
	}))
	require.NoError(t, r.RenderCallResult(&usecase.CallResult{
		Function: models.FunctionInfo{Signature: "ping()"},
	}))

	assert.Equal(t, "totalSupply() → 1000\npair() → [\"1\",true]\nping() → ()\n", out.String())
}

func TestRenderHistory(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, NewInteractionRenderer(&out).RenderHistory(nil))
	assert.Equal(t, "No calls recorded\n", out.String())

	out.Reset()
	result := "1000"
	txHash := "0x" + "ab" + "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcd"
	records := []*models.CallRecord{
		{ID: 2, FunctionSignature: "transfer(address,uint256)", CallType: models.CallTypeWrite, TxHash: &txHash, Status: models.CallStatusSuccess},
		{ID: 1, FunctionSignature: "totalSupply()", CallType: models.CallTypeRead, Result: &result, Status: models.CallStatusSuccess},
	}
	require.NoError(t, NewInteractionRenderer(&out).RenderHistory(records))
	s := out.String()
	assert.Contains(t, s, "transfer(address,uint256)")
	assert.Contains(t, s, shortHash(txHash))
	assert.Contains(t, s, "1000")
}

func TestHelpers(t *testing.T) {
	assert.Equal(t, "0xabc", shortHash("0xabc"))
	assert.Equal(t, "0x12345678...abcdef", shortHash("0x12345678900000000000abcdef"))
	assert.Equal(t, "-", formatTime(time.Time{}))
	assert.Equal(t, "❌ Boom", FormatError("boom"))

	var out bytes.Buffer
	require.NoError(t, JSON(&out, map[string]int{"a": 1}))
	assert.Equal(t, "{\n  \"a\": 1\n}\n", out.String())
}
