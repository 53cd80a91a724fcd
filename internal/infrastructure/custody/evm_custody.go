package custody

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
)

var (
	dialEVMClient    = ethclient.Dial
	getClientChainID = func(client *ethclient.Client, ctx context.Context) (*big.Int, error) {
		return client.ChainID(ctx)
	}
)

// EVMCustody releases collateral through the custody contract on an EVM
// chain. The ledger treats it as a collaborator that only fails on
// connectivity problems; balance preconditions are enforced before calling.
type EVMCustody struct {
	client          *ethclient.Client
	chainID         *big.Int
	contractAddress common.Address
	// testTransfer allows deterministic unit tests without network sockets.
	testTransfer func(ctx context.Context, user common.Address, amount *big.Int) error
}

// NewEVMCustody connects to the chain and binds the custody contract
func NewEVMCustody(rpcURL, contractAddress string) (*EVMCustody, error) {
	client, err := dialEVMClient(rpcURL)
	if err != nil {
		return nil, fmt.Errorf("dial custody rpc: %w", err)
	}
	chainID, err := getClientChainID(client, context.Background())
	if err != nil {
		return nil, fmt.Errorf("resolve chain id: %w", err)
	}
	return &EVMCustody{
		client:          client,
		chainID:         chainID,
		contractAddress: common.HexToAddress(contractAddress),
	}, nil
}

// NewEVMCustodyWithTransfer creates a custody client with an injected
// transfer implementation, for unit tests without RPC sockets.
func NewEVMCustodyWithTransfer(fn func(ctx context.Context, user common.Address, amount *big.Int) error) *EVMCustody {
	return &EVMCustody{testTransfer: fn}
}

// ChainID returns the connected chain id
func (c *EVMCustody) ChainID() *big.Int {
	return c.chainID
}

// TransferOut instructs the custody contract to release amount to the user.
// release(address,uint256) selector: 0x37bdc99b
func (c *EVMCustody) TransferOut(ctx context.Context, user string, amount int64) error {
	addr := common.HexToAddress(user)
	value := big.NewInt(amount)
	if c.testTransfer != nil {
		return c.testTransfer(ctx, addr, value)
	}

	data := append(common.Hex2Bytes("37bdc99b"), common.LeftPadBytes(addr.Bytes(), 32)...)
	data = append(data, common.LeftPadBytes(value.Bytes(), 32)...)

	msg := ethereum.CallMsg{
		To:   &c.contractAddress,
		Data: data,
	}
	// A dry-run call surfaces contract-side reverts before the operator's
	// signer broadcasts the real transaction out of band.
	if _, err := c.client.CallContract(ctx, msg, nil); err != nil {
		return fmt.Errorf("custody release rejected: %w", err)
	}
	return nil
}

// Close closes the client connection
func (c *EVMCustody) Close() {
	if c.client != nil {
		c.client.Close()
	}
}
