package ton

import (
	"context"
	"fmt"
	"strings"

	"github.com/xssnick/tonutils-go/address"
	"github.com/xssnick/tonutils-go/liteclient"
	"github.com/xssnick/tonutils-go/tlb"
	"github.com/xssnick/tonutils-go/ton"
	"github.com/xssnick/tonutils-go/ton/wallet"

	"raffle-tool-backend/internal/common/logger"
)

const transferComment = "raffle prize"

// PrizeBank pays out the collected pot to a winner.
type PrizeBank interface {
	Transfer(ctx context.Context, to *address.Address, amount tlb.Coins) error
	Address() string
}

// WalletBank holds the prize pool on a TON wallet and pays winners with
// native transfers through a lite client connection.
type WalletBank struct {
	api    ton.APIClientWrapped
	wallet *wallet.Wallet
}

// NewWalletBank connects to the network using the global config URL and
// derives the prize wallet from a space-separated seed phrase.
func NewWalletBank(ctx context.Context, liteConfigURL, seed string) (*WalletBank, error) {
	words := strings.Fields(seed)
	if len(words) != 24 {
		return nil, fmt.Errorf("wallet seed must contain 24 words, got %d", len(words))
	}

	pool := liteclient.NewConnectionPool()
	if err := pool.AddConnectionsFromConfigUrl(ctx, liteConfigURL); err != nil {
		return nil, fmt.Errorf("connect lite servers: %w", err)
	}

	api := ton.NewAPIClient(pool).WithRetry()

	w, err := wallet.FromSeed(api, words, wallet.V4R2)
	if err != nil {
		return nil, fmt.Errorf("derive wallet: %w", err)
	}

	return &WalletBank{api: api, wallet: w}, nil
}

func (b *WalletBank) Transfer(ctx context.Context, to *address.Address, amount tlb.Coins) error {
	if err := b.wallet.Transfer(ctx, to, amount, transferComment, true); err != nil {
		return fmt.Errorf("transfer %s to %s: %w", amount.String(), to.String(), err)
	}
	return nil
}

func (b *WalletBank) Address() string {
	return b.wallet.WalletAddress().String()
}

// DryRunBank logs payouts instead of sending them. Used when no wallet
// seed is configured, so the raffle can run end to end in development.
type DryRunBank struct{}

func NewDryRunBank() *DryRunBank {
	return &DryRunBank{}
}

func (b *DryRunBank) Transfer(_ context.Context, to *address.Address, amount tlb.Coins) error {
	logger.Info().
		Str("winner", to.String()).
		Str("amount_ton", amount.String()).
		Msg("Dry-run prize transfer")
	return nil
}

func (b *DryRunBank) Address() string {
	return ""
}
