// Package chain reads unlock state from the PayPerInsight contract. The
// contract is the source of truth for who has unlocked what and for the
// settled revenue-split balances; this package only reads, it never derives.
package chain

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
)

// readerABI covers the contract's view functions consumed by the backend.
const readerABI = `[
  {"type":"function","name":"hasUnlocked","stateMutability":"view","inputs":[{"name":"contentId","type":"uint256"},{"name":"user","type":"address"}],"outputs":[{"name":"","type":"bool"}]},
  {"type":"function","name":"getPrice","stateMutability":"view","inputs":[{"name":"contentId","type":"uint256"}],"outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","name":"getBalance","stateMutability":"view","inputs":[{"name":"user","type":"address"}],"outputs":[{"name":"creatorEarnings","type":"uint256"},{"name":"referrerEarnings","type":"uint256"},{"name":"total","type":"uint256"}]}
]`

// Balance is the settled revenue-split state for one wallet, as reported by
// the contract. Splits are computed on-chain; these are recorded facts.
type Balance struct {
	CreatorEarnings  *big.Int
	ReferrerEarnings *big.Int
	Total            *big.Int
}

// caller is the subset of ethclient used by Reader.
type caller interface {
	CallContract(ctx context.Context, call ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
}

// Reader is a read-only client for the PayPerInsight contract.
type Reader struct {
	client   caller
	contract common.Address
	abi      abi.ABI
}

// Dial connects to the RPC endpoint and binds the contract address.
func Dial(rpcURL, contractAddress string) (*Reader, error) {
	if !common.IsHexAddress(contractAddress) {
		return nil, fmt.Errorf("invalid contract address: %s", contractAddress)
	}
	client, err := ethclient.Dial(rpcURL)
	if err != nil {
		return nil, fmt.Errorf("failed to dial rpc %s: %w", rpcURL, err)
	}
	return newReader(client, common.HexToAddress(contractAddress))
}

func newReader(client caller, contract common.Address) (*Reader, error) {
	parsed, err := abi.JSON(strings.NewReader(readerABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse contract abi: %w", err)
	}
	return &Reader{
		client:   client,
		contract: contract,
		abi:      parsed,
	}, nil
}

// HasUnlocked reports whether user already paid for contentID on-chain.
func (r *Reader) HasUnlocked(ctx context.Context, contentID int64, user string) (bool, error) {
	if !common.IsHexAddress(user) {
		return false, fmt.Errorf("invalid wallet address: %s", user)
	}

	out, err := r.call(ctx, "hasUnlocked", big.NewInt(contentID), common.HexToAddress(user))
	if err != nil {
		return false, err
	}
	unlocked, ok := out[0].(bool)
	if !ok {
		return false, fmt.Errorf("unexpected hasUnlocked output %T", out[0])
	}
	return unlocked, nil
}

// GetPrice returns the contract's current price for contentID.
func (r *Reader) GetPrice(ctx context.Context, contentID int64) (*big.Int, error) {
	out, err := r.call(ctx, "getPrice", big.NewInt(contentID))
	if err != nil {
		return nil, err
	}
	price, ok := out[0].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("unexpected getPrice output %T", out[0])
	}
	return price, nil
}

// GetBalance returns the settled earnings balances for user.
func (r *Reader) GetBalance(ctx context.Context, user string) (*Balance, error) {
	if !common.IsHexAddress(user) {
		return nil, fmt.Errorf("invalid wallet address: %s", user)
	}

	out, err := r.call(ctx, "getBalance", common.HexToAddress(user))
	if err != nil {
		return nil, err
	}
	if len(out) != 3 {
		return nil, fmt.Errorf("unexpected getBalance output arity %d", len(out))
	}

	balance := &Balance{}
	var ok bool
	if balance.CreatorEarnings, ok = out[0].(*big.Int); !ok {
		return nil, fmt.Errorf("unexpected creatorEarnings output %T", out[0])
	}
	if balance.ReferrerEarnings, ok = out[1].(*big.Int); !ok {
		return nil, fmt.Errorf("unexpected referrerEarnings output %T", out[1])
	}
	if balance.Total, ok = out[2].(*big.Int); !ok {
		return nil, fmt.Errorf("unexpected total output %T", out[2])
	}
	return balance, nil
}

func (r *Reader) call(ctx context.Context, method string, args ...interface{}) ([]interface{}, error) {
	data, err := r.abi.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to pack %s call: %w", method, err)
	}

	raw, err := r.client.CallContract(ctx, ethereum.CallMsg{
		To:   &r.contract,
		Data: data,
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("%s call failed: %w", method, err)
	}

	out, err := r.abi.Unpack(method, raw)
	if err != nil {
		return nil, fmt.Errorf("failed to unpack %s result: %w", method, err)
	}
	return out, nil
}
