package abi

import (
	"math/big"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smolder-dev/smolder/internal/domain"
	"github.com/smolder-dev/smolder/internal/domain/models"
)

const tokenABI = `[
	{"type":"constructor","inputs":[{"name":"name","type":"string"},{"name":"symbol","type":"string"}],"stateMutability":"payable"},
	{"type":"function","name":"balanceOf","inputs":[{"name":"account","type":"address"}],"outputs":[{"name":"","type":"uint256"}],"stateMutability":"view"},
	{"type":"function","name":"transfer","inputs":[{"name":"to","type":"address"},{"name":"amount","type":"uint256"}],"outputs":[{"name":"","type":"bool"}],"stateMutability":"nonpayable"},
	{"type":"function","name":"name","inputs":[],"outputs":[{"name":"","type":"string"}],"stateMutability":"pure"},
	{"type":"function","name":"mint","inputs":[{"name":"to","type":"address"},{"name":"amount","type":"uint256"}],"outputs":[],"stateMutability":"payable"},
	{"type":"function","name":"reserves","inputs":[],"outputs":[{"name":"a","type":"uint112"},{"name":"b","type":"uint112"}],"stateMutability":"view"},
	{"type":"event","name":"Transfer","inputs":[{"name":"from","type":"address","indexed":true},{"name":"to","type":"address","indexed":true},{"name":"value","type":"uint256","indexed":false}],"anonymous":false}
]`

func mustParse(t *testing.T, abiJSON string) *ABI {
	t.Helper()
	parsed, err := Parse(abiJSON)
	require.NoError(t, err)
	return parsed
}

func TestParse(t *testing.T) {
	t.Run("constructor", func(t *testing.T) {
		parsed := mustParse(t, tokenABI)
		ctor := parsed.Constructor()
		require.NotNil(t, ctor)
		assert.True(t, parsed.HasConstructorWithArgs())
		assert.True(t, ctor.IsPayable())
		require.Len(t, ctor.Inputs, 2)
		assert.Equal(t, "name", ctor.Inputs[0].Name)
		assert.Equal(t, "string", ctor.Inputs[1].Type)
	})

	t.Run("no constructor", func(t *testing.T) {
		parsed := mustParse(t, `[{"type":"function","name":"ping","inputs":[],"outputs":[],"stateMutability":"view"}]`)
		assert.Nil(t, parsed.Constructor())
		assert.False(t, parsed.HasConstructorWithArgs())
	})

	t.Run("tuple constructor exposes components", func(t *testing.T) {
		parsed := mustParse(t, `[{"type":"constructor","inputs":[{"name":"cfg","type":"tuple","internalType":"struct Config","components":[{"name":"owner","type":"address"},{"name":"fee","type":"uint256"}]}],"stateMutability":"nonpayable"}]`)
		ctor := parsed.Constructor()
		require.NotNil(t, ctor)
		require.Len(t, ctor.Inputs, 1)
		assert.Equal(t, "tuple", ctor.Inputs[0].Type)
		require.Len(t, ctor.Inputs[0].Components, 2)
		assert.Equal(t, "owner", ctor.Inputs[0].Components[0].Name)
		assert.False(t, ctor.IsPayable())
	})

	t.Run("malformed json", func(t *testing.T) {
		_, err := Parse("not json")
		kind, ok := domain.KindOf(err)
		require.True(t, ok)
		assert.Equal(t, domain.KindAbiParse, kind)
	})

	t.Run("object instead of array", func(t *testing.T) {
		_, err := Parse(`{"type":"function"}`)
		kind, _ := domain.KindOf(err)
		assert.Equal(t, domain.KindAbiParse, kind)
	})

	t.Run("unknown type", func(t *testing.T) {
		_, err := Parse(`[{"type":"function","name":"f","inputs":[{"name":"x","type":"foo"}],"outputs":[]}]`)
		kind, _ := domain.KindOf(err)
		assert.Equal(t, domain.KindAbiParse, kind)
	})
}

func TestParse_UnnamedTupleComponents(t *testing.T) {
	parsed := mustParse(t, `[
		{"type":"function","name":"pair","inputs":[],"outputs":[{"name":"","type":"tuple","components":[{"name":"","type":"uint256"},{"name":"_","type":"bool"}]}],"stateMutability":"view"},
		{"type":"function","name":"setPair","inputs":[{"name":"p","type":"tuple","components":[{"name":"","type":"uint256"},{"name":"","type":"bool"}]}],"outputs":[],"stateMutability":"nonpayable"},
		{"type":"function","name":"balanceOf","inputs":[{"name":"account","type":"address"}],"outputs":[{"name":"","type":"uint256"}],"stateMutability":"view"}
	]`)

	assert.ElementsMatch(t, []string{"pair", "setPair", "balanceOf"}, parsed.FunctionNames())

	pair, ok := parsed.Function("pair")
	require.True(t, ok)
	assert.Equal(t, "", pair.Info.Outputs[0].Components[0].Name)

	data := append(common.LeftPadBytes(big.NewInt(5).Bytes(), 32), common.LeftPadBytes([]byte{1}, 32)...)
	out, err := parsed.Decode(pair, data)
	require.NoError(t, err)
	assert.Equal(t, []any{"5", true}, out)

	setPair, ok := parsed.FunctionBySignature("setPair((uint256,bool))")
	require.True(t, ok)
	encoded, err := parsed.Encode(setPair, []any{[]any{"5", true}})
	require.NoError(t, err)
	assert.Equal(t, data, encoded[4:])
}

func TestFunctions(t *testing.T) {
	parsed := mustParse(t, tokenABI)
	fns := parsed.Functions()

	names := func(infos []models.FunctionInfo) []string {
		out := make([]string, 0, len(infos))
		for _, f := range infos {
			out = append(out, f.Name)
		}
		return out
	}

	assert.Equal(t, []string{"balanceOf", "name", "reserves"}, names(fns.Read))
	assert.Equal(t, []string{"mint", "transfer"}, names(fns.Write))

	for _, f := range fns.Read {
		assert.True(t, f.Mutability == models.MutabilityPure || f.Mutability == models.MutabilityView, f.Name)
	}
	for _, f := range fns.Write {
		assert.True(t, f.Mutability == models.MutabilityNonPayable || f.Mutability == models.MutabilityPayable, f.Name)
	}

	transfer, ok := parsed.Function("transfer")
	require.True(t, ok)
	assert.Equal(t, "transfer(address,uint256)", transfer.Info.Signature)
	assert.Equal(t, "0xa9059cbb", transfer.Info.Selector)
}

func TestLegacyMutability(t *testing.T) {
	parsed := mustParse(t, `[
		{"type":"function","name":"get","constant":true,"inputs":[],"outputs":[{"name":"","type":"uint256"}]},
		{"type":"function","name":"deposit","payable":true,"inputs":[],"outputs":[]},
		{"type":"function","name":"set","inputs":[{"name":"v","type":"uint256"}],"outputs":[]}
	]`)
	get, _ := parsed.Function("get")
	deposit, _ := parsed.Function("deposit")
	set, _ := parsed.Function("set")
	assert.Equal(t, models.MutabilityView, get.Info.Mutability)
	assert.Equal(t, models.MutabilityPayable, deposit.Info.Mutability)
	assert.Equal(t, models.MutabilityNonPayable, set.Info.Mutability)
}

func TestOverloads(t *testing.T) {
	parsed := mustParse(t, `[
		{"type":"function","name":"safeMint","inputs":[{"name":"to","type":"address"}],"outputs":[],"stateMutability":"nonpayable"},
		{"type":"function","name":"safeMint","inputs":[{"name":"to","type":"address"},{"name":"data","type":"bytes"}],"outputs":[],"stateMutability":"nonpayable"}
	]`)

	first, ok := parsed.Function("safeMint")
	require.True(t, ok)
	assert.Equal(t, "safeMint(address)", first.Info.Signature)

	assert.Len(t, parsed.Functions().Write, 2)
	assert.Len(t, parsed.Overloads("safeMint"), 2)

	_, err := parsed.ResolveFunction("safeMint")
	require.Error(t, err)
	assert.True(t, domain.IsValidation(err))
	assert.Contains(t, err.Error(), "safeMint(address,bytes)")

	second, err := parsed.ResolveFunction("safeMint(address, bytes)")
	require.NoError(t, err)
	assert.Equal(t, "safeMint(address,bytes)", second.Info.Signature)

	_, err = parsed.ResolveFunction("burn")
	assert.True(t, domain.IsNotFound(err))
}

func TestEncode(t *testing.T) {
	parsed := mustParse(t, tokenABI)
	transfer, _ := parsed.Function("transfer")

	t.Run("packs selector and arguments", func(t *testing.T) {
		data, err := parsed.Encode(transfer, []any{"0x000000000000000000000000000000000000dEaD", "1000"})
		require.NoError(t, err)
		require.Len(t, data, 4+64)
		assert.Equal(t, []byte{0xa9, 0x05, 0x9c, 0xbb}, data[:4])
		assert.Equal(t, common.HexToAddress("0xdead").Bytes(), data[4+12:4+32])
		assert.Equal(t, big.NewInt(1000), new(big.Int).SetBytes(data[36:68]))
	})

	t.Run("native number and decimal string agree", func(t *testing.T) {
		a, err := parsed.Encode(transfer, []any{"0x000000000000000000000000000000000000dEaD", float64(1000)})
		require.NoError(t, err)
		b, err := parsed.Encode(transfer, []any{"0x000000000000000000000000000000000000dEaD", "1000"})
		require.NoError(t, err)
		assert.Equal(t, a, b)
	})

	tests := []struct {
		name string
		args []any
		kind domain.ErrorKind
	}{
		{"too few arguments", []any{"0x000000000000000000000000000000000000dEaD"}, domain.KindValidation},
		{"too many arguments", []any{"0x000000000000000000000000000000000000dEaD", "1", "2"}, domain.KindValidation},
		{"invalid address", []any{"0x1234", "1"}, domain.KindAbiEncode},
		{"negative unsigned", []any{"0x000000000000000000000000000000000000dEaD", "-1"}, domain.KindAbiEncode},
		{"fractional number", []any{"0x000000000000000000000000000000000000dEaD", 1.5}, domain.KindAbiEncode},
		{"boolean for integer", []any{"0x000000000000000000000000000000000000dEaD", true}, domain.KindAbiEncode},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parsed.Encode(transfer, tt.args)
			require.Error(t, err)
			kind, ok := domain.KindOf(err)
			require.True(t, ok)
			assert.Equal(t, tt.kind, kind)
		})
	}

	t.Run("count mismatch names both counts", func(t *testing.T) {
		_, err := parsed.Encode(transfer, nil)
		assert.EqualError(t, err, "expected 2 parameters, got 0")
	})
}

func TestEncodeConstructor(t *testing.T) {
	parsed := mustParse(t, tokenABI)
	data, err := parsed.EncodeConstructor([]any{"Token", "TKN"})
	require.NoError(t, err)
	assert.Equal(t, 0, len(data)%32)
	assert.NotEmpty(t, data)

	noCtor := mustParse(t, `[]`)
	data, err = noCtor.EncodeConstructor(nil)
	require.NoError(t, err)
	assert.Empty(t, data)

	_, err = noCtor.EncodeConstructor([]any{"x"})
	assert.True(t, domain.IsValidation(err))
}

func TestDecode(t *testing.T) {
	parsed := mustParse(t, tokenABI)

	t.Run("single output is unwrapped", func(t *testing.T) {
		fn, _ := parsed.Function("balanceOf")
		out, err := parsed.Decode(fn, common.LeftPadBytes(big.NewInt(1000).Bytes(), 32))
		require.NoError(t, err)
		assert.Equal(t, "1000", out)
	})

	t.Run("multiple outputs become a list", func(t *testing.T) {
		fn, _ := parsed.Function("reserves")
		data := append(common.LeftPadBytes(big.NewInt(7).Bytes(), 32), common.LeftPadBytes(big.NewInt(9).Bytes(), 32)...)
		out, err := parsed.Decode(fn, data)
		require.NoError(t, err)
		assert.Equal(t, []any{"7", "9"}, out)
	})

	t.Run("no outputs is nil", func(t *testing.T) {
		fn, _ := parsed.Function("mint")
		out, err := parsed.Decode(fn, nil)
		require.NoError(t, err)
		assert.Nil(t, out)
	})

	t.Run("truncated data", func(t *testing.T) {
		fn, _ := parsed.Function("balanceOf")
		_, err := parsed.Decode(fn, []byte{0x01})
		kind, ok := domain.KindOf(err)
		require.True(t, ok)
		assert.Equal(t, domain.KindAbiDecode, kind)
	})
}

const echoABI = `[{"type":"function","name":"echo","stateMutability":"pure",
	"inputs":[
		{"name":"a","type":"address"},{"name":"b","type":"bool"},{"name":"c","type":"uint8"},
		{"name":"d","type":"uint256"},{"name":"e","type":"int64"},{"name":"f","type":"int256"},
		{"name":"g","type":"bytes"},{"name":"h","type":"bytes4"},{"name":"i","type":"string"},
		{"name":"j","type":"uint256[]"},{"name":"k","type":"address[]"},{"name":"l","type":"bytes32[]"},
		{"name":"m","type":"uint16[2]"},{"name":"n","type":"int24"},
		{"name":"o","type":"tuple","components":[{"name":"amount","type":"uint256"},{"name":"enabled","type":"bool"}]}
	],
	"outputs":[
		{"name":"a","type":"address"},{"name":"b","type":"bool"},{"name":"c","type":"uint8"},
		{"name":"d","type":"uint256"},{"name":"e","type":"int64"},{"name":"f","type":"int256"},
		{"name":"g","type":"bytes"},{"name":"h","type":"bytes4"},{"name":"i","type":"string"},
		{"name":"j","type":"uint256[]"},{"name":"k","type":"address[]"},{"name":"l","type":"bytes32[]"},
		{"name":"m","type":"uint16[2]"},{"name":"n","type":"int24"},
		{"name":"o","type":"tuple","components":[{"name":"amount","type":"uint256"},{"name":"enabled","type":"bool"}]}
	]}]`

func TestEncodeDecodeRoundTrip(t *testing.T) {
	parsed := mustParse(t, echoABI)
	fn, ok := parsed.Function("echo")
	require.True(t, ok)
	assert.Equal(t, "echo(address,bool,uint8,uint256,int64,int256,bytes,bytes4,string,uint256[],address[],bytes32[],uint16[2],int24,(uint256,bool))", fn.Info.Signature)

	maxUint256 := "115792089237316195423570985008687907853269984665640564039457584007913129639935"
	minInt256 := "-57896044618658097711785492504343953926634992332820282019728792003956564819968"
	word := "0x" + strings.Repeat("ab", 32)

	args := []any{
		"0x000000000000000000000000000000000000dead",
		true,
		"255",
		maxUint256,
		"-42",
		minInt256,
		"0xdeadbeef",
		"0x01020304",
		"hello smolder",
		[]any{"1", float64(2), "3"},
		[]any{"0x0000000000000000000000000000000000000001", "0x0000000000000000000000000000000000000002"},
		[]any{word},
		[]any{"65535", "0"},
		"-8388608",
		map[string]any{"amount": "5", "enabled": true},
	}

	data, err := parsed.Encode(fn, args)
	require.NoError(t, err)

	decoded, err := parsed.Decode(fn, data[4:])
	require.NoError(t, err)
	values, ok := decoded.([]any)
	require.True(t, ok)
	require.Len(t, values, len(args))

	assert.True(t, strings.EqualFold(args[0].(string), values[0].(string)))
	assert.Equal(t, true, values[1])
	assert.Equal(t, "255", values[2])
	assert.Equal(t, maxUint256, values[3])
	assert.Equal(t, "-42", values[4])
	assert.Equal(t, minInt256, values[5])
	assert.Equal(t, "0xdeadbeef", values[6])
	assert.Equal(t, "0x01020304", values[7])
	assert.Equal(t, "hello smolder", values[8])
	assert.Equal(t, []any{"1", "2", "3"}, values[9])
	assert.Equal(t, []any{
		"0x0000000000000000000000000000000000000001",
		"0x0000000000000000000000000000000000000002",
	}, values[10])
	assert.Equal(t, []any{word}, values[11])
	assert.Equal(t, []any{"65535", "0"}, values[12])
	assert.Equal(t, "-8388608", values[13])
	assert.Equal(t, []any{"5", true}, values[14])
}

func TestEncodeRangeChecks(t *testing.T) {
	parsed := mustParse(t, echoABI)
	fn, _ := parsed.Function("echo")

	base := func() []any {
		return []any{
			"0x000000000000000000000000000000000000dead", true, "1", "1", "1", "1",
			"0x", "0x01020304", "", []any{}, []any{}, []any{}, []any{"1", "2"}, "1",
			[]any{"1", false},
		}
	}

	tests := []struct {
		name  string
		index int
		value any
	}{
		{"uint8 overflow", 2, "256"},
		{"int64 overflow", 4, "9223372036854775808"},
		{"int24 underflow", 13, "-8388609"},
		{"bytes4 wrong length", 7, "0x010203"},
		{"bytes bad hex", 6, "0xzz"},
		{"fixed array wrong length", 12, []any{"1"}},
		{"array element type", 9, []any{"1", "x"}},
		{"tuple missing component", 14, map[string]any{"amount": "1"}},
		{"bool from string", 1, "true"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := base()
			args[tt.index] = tt.value
			_, err := parsed.Encode(fn, args)
			require.Error(t, err)
			kind, _ := domain.KindOf(err)
			assert.Equal(t, domain.KindAbiEncode, kind)
		})
	}

	t.Run("base arguments encode", func(t *testing.T) {
		_, err := parsed.Encode(fn, base())
		require.NoError(t, err)
	})
}
