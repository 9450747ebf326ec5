package main

import (
	"fmt"

	"github.com/mtlprog/remit/internal/account"
	"github.com/mtlprog/remit/internal/algorand"
	"github.com/mtlprog/remit/internal/config"
	"github.com/mtlprog/remit/internal/domain"
	"github.com/mtlprog/remit/internal/retry"
	"github.com/mtlprog/remit/internal/simulate"
	"github.com/mtlprog/remit/internal/transfer"
	"github.com/mtlprog/remit/internal/wallet"
)

// localWalletID is the provider id of the mnemonic-backed wallet.
const localWalletID = "kmd"

func newRetrier(cfg config.Config) *retry.Retrier {
	return retry.New(cfg.RetryMaxAttempts, cfg.RetryInitialDelay, cfg.RetryMaxDelay)
}

func newChainClient(cfg config.Config) (*algorand.Client, error) {
	return algorand.NewClient(
		algorand.Endpoint{Server: cfg.AlgodServer, Port: cfg.AlgodPort, Token: cfg.AlgodToken},
		algorand.Endpoint{Server: cfg.IndexerServer, Port: cfg.IndexerPort, Token: cfg.IndexerToken},
		uint64(max(cfg.ConfirmationRounds, 0)),
		algorand.WithRequestLimit(float64(cfg.ChainRequestsPerSecond), cfg.ChainRequestsPerSecond),
	)
}

func explorer(cfg config.Config) domain.Explorer {
	return domain.Explorer{BaseURL: cfg.ExplorerURL}
}

func newAccountService(cfg config.Config, client *algorand.Client) *account.Service {
	return account.NewService(client, client, newRetrier(cfg), account.Options{
		TransactionLimit: cfg.TransactionLimit,
		Explorer:         explorer(cfg),
	})
}

func newTransferService(cfg config.Config, client *algorand.Client) *transfer.Service {
	return transfer.NewService(client, explorer(cfg))
}

// newWalletManager registers the mnemonic wallet when WALLET_MNEMONIC is set. Without it the
// manager has no providers and every submission reports that no wallet is connected.
func newWalletManager(cfg config.Config) (*wallet.Manager, error) {
	if cfg.WalletMnemonic == "" {
		return wallet.NewManager(), nil
	}
	signer, err := wallet.NewMnemonicSigner(cfg.WalletMnemonic)
	if err != nil {
		return nil, fmt.Errorf("loading wallet: %w", err)
	}
	return wallet.NewManager(wallet.Provider{ID: localWalletID, Name: "LocalNet Wallet", Signer: signer}), nil
}

// mnemonicSigner is the signer for one-shot CLI submissions.
func mnemonicSigner(cfg config.Config) (wallet.Signer, error) {
	if cfg.WalletMnemonic == "" {
		return nil, wallet.ErrNotConnected
	}
	return wallet.NewMnemonicSigner(cfg.WalletMnemonic)
}

func simulationConfig(cfg config.Config) simulate.Config {
	sc := simulate.DefaultConfig()
	sc.InitiateDelay = cfg.SimInitiateDelay
	sc.SendDelay = cfg.SimSendDelay
	sc.ConvertDelay = cfg.SimConvertDelay
	return sc
}
