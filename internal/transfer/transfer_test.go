package transfer

import (
	"context"
	"crypto/sha512"
	"errors"
	"testing"

	"github.com/algorand/go-algorand-sdk/v2/crypto"
	"github.com/algorand/go-algorand-sdk/v2/types"
	"github.com/shopspring/decimal"

	"github.com/mtlprog/remit/internal/domain"
	"github.com/mtlprog/remit/internal/wallet"
)

type stubSigner struct{ addr string }

func (s stubSigner) Address() string { return s.addr }
func (s stubSigner) SignTransaction(types.Transaction) (string, []byte, error) {
	return "TX", []byte("signed"), nil
}

type mockChain struct {
	receiver string
	micro    uint64
	note     []byte
	asset    domain.AssetCreateParams
	calls    int
	err      error
}

func (m *mockChain) SubmitPayment(_ context.Context, _ wallet.Signer, receiver string, micro uint64, note []byte) ([]string, error) {
	m.calls++
	m.receiver, m.micro, m.note = receiver, micro, note
	if m.err != nil {
		return nil, m.err
	}
	return []string{"PAYTX"}, nil
}

func (m *mockChain) SubmitAssetCreate(_ context.Context, _ wallet.Signer, p domain.AssetCreateParams) ([]string, error) {
	m.calls++
	m.asset = p
	if m.err != nil {
		return nil, m.err
	}
	return []string{"ACFGTX"}, nil
}

func newTestService(chain Chain) *Service {
	return NewService(chain, domain.Explorer{BaseURL: "https://testnet.algoexplorer.io"})
}

func testAddress() string {
	return crypto.GenerateAccount().Address.String()
}

func TestSendPayment(t *testing.T) {
	chain := &mockChain{}
	svc := newTestService(chain)
	receiver := testAddress()

	res, err := svc.SendPayment(context.Background(), stubSigner{addr: testAddress()}, PaymentRequest{
		Receiver: receiver,
		Amount:   decimal.RequireFromString("1.25"),
		Note:     "rent",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if chain.micro != 1_250_000 {
		t.Errorf("micro = %d, want 1250000", chain.micro)
	}
	if chain.receiver != receiver {
		t.Errorf("receiver = %q, want %q", chain.receiver, receiver)
	}
	if string(chain.note) != "rent" {
		t.Errorf("note = %q, want rent", chain.note)
	}
	if len(res.TxIDs) != 1 || res.TxIDs[0] != "PAYTX" {
		t.Errorf("TxIDs = %v", res.TxIDs)
	}
	if res.ExplorerURL != "https://testnet.algoexplorer.io/tx/PAYTX" {
		t.Errorf("ExplorerURL = %q", res.ExplorerURL)
	}
}

func TestSendPaymentValidation(t *testing.T) {
	valid := testAddress()
	tests := []struct {
		name string
		req  PaymentRequest
	}{
		{"bad receiver", PaymentRequest{Receiver: "not-an-address", Amount: decimal.NewFromInt(1)}},
		{"empty receiver", PaymentRequest{Receiver: "", Amount: decimal.NewFromInt(1)}},
		{"zero amount", PaymentRequest{Receiver: valid, Amount: decimal.Zero}},
		{"negative amount", PaymentRequest{Receiver: valid, Amount: decimal.NewFromInt(-1)}},
		{"dust amount", PaymentRequest{Receiver: valid, Amount: decimal.RequireFromString("0.0000001")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chain := &mockChain{}
			_, err := newTestService(chain).SendPayment(context.Background(), stubSigner{addr: valid}, tt.req)
			if !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("err = %v, want ErrInvalidInput", err)
			}
			if chain.calls != 0 {
				t.Error("chain must not be called on invalid input")
			}
		})
	}
}

func TestSubmissionsRequireSigner(t *testing.T) {
	svc := newTestService(&mockChain{})
	ctx := context.Background()

	if _, err := svc.SendPayment(ctx, nil, PaymentRequest{}); !errors.Is(err, wallet.ErrNotConnected) {
		t.Errorf("SendPayment err = %v, want ErrNotConnected", err)
	}
	if _, err := svc.MintToken(ctx, nil, DefaultTokenRequest()); !errors.Is(err, wallet.ErrNotConnected) {
		t.Errorf("MintToken err = %v, want ErrNotConnected", err)
	}
	if _, err := svc.MintNFT(ctx, nil, NFTRequest{MetadataURL: "ipfs://x"}); !errors.Is(err, wallet.ErrNotConnected) {
		t.Errorf("MintNFT err = %v, want ErrNotConnected", err)
	}
}

func TestMintTokenDefaults(t *testing.T) {
	chain := &mockChain{}
	res, err := newTestService(chain).MintToken(context.Background(), stubSigner{addr: testAddress()}, DefaultTokenRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := domain.AssetCreateParams{AssetName: "RemitPKR", UnitName: "RPKR", Total: 1_000_000, Decimals: 2}
	got := chain.asset
	if got.AssetName != want.AssetName || got.UnitName != want.UnitName || got.Total != want.Total || got.Decimals != want.Decimals {
		t.Errorf("params = %+v, want %+v", got, want)
	}
	if res.TxIDs[0] != "ACFGTX" {
		t.Errorf("TxIDs = %v", res.TxIDs)
	}
}

func TestMintTokenValidation(t *testing.T) {
	tests := []struct {
		name string
		req  TokenRequest
	}{
		{"blank name", TokenRequest{AssetName: "  ", UnitName: "RPKR", Total: 1}},
		{"blank unit", TokenRequest{AssetName: "RemitPKR", UnitName: "", Total: 1}},
		{"zero total", TokenRequest{AssetName: "RemitPKR", UnitName: "RPKR", Total: 0}},
		{"negative decimals", TokenRequest{AssetName: "RemitPKR", UnitName: "RPKR", Total: 1, Decimals: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newTestService(&mockChain{}).MintToken(context.Background(), stubSigner{addr: "A"}, tt.req)
			if !errors.Is(err, ErrInvalidInput) {
				t.Errorf("err = %v, want ErrInvalidInput", err)
			}
		})
	}
}

func TestMintNFT(t *testing.T) {
	chain := &mockChain{}
	url := "ipfs://bafybeigdyrzt5sfp7udm7hu76uh7y26nf3efuylqabf3oclgtqy55fbzdi"

	if _, err := newTestService(chain).MintNFT(context.Background(), stubSigner{addr: "A"}, NFTRequest{MetadataURL: url}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := chain.asset
	if got.Total != 1 || got.Decimals != 0 {
		t.Errorf("total/decimals = %d/%d, want 1/0", got.Total, got.Decimals)
	}
	if got.AssetName != "MasterPass Ticket" || got.UnitName != "MTK" {
		t.Errorf("names = %q/%q", got.AssetName, got.UnitName)
	}
	if got.URL != url {
		t.Errorf("URL = %q", got.URL)
	}
	want := sha512.Sum512_256([]byte(url))
	if string(got.MetadataHash) != string(want[:]) {
		t.Error("metadata hash mismatch")
	}
	if len(got.MetadataHash) != 32 {
		t.Errorf("metadata hash length = %d, want 32", len(got.MetadataHash))
	}
}

func TestMintNFTRejectsScheme(t *testing.T) {
	for _, url := range []string{"", "http://example.com/meta.json", "ftp://x", "example.com"} {
		chain := &mockChain{}
		_, err := newTestService(chain).MintNFT(context.Background(), stubSigner{addr: "A"}, NFTRequest{MetadataURL: url})
		if !errors.Is(err, ErrInvalidInput) {
			t.Errorf("MintNFT(%q) err = %v, want ErrInvalidInput", url, err)
		}
		if chain.calls != 0 {
			t.Errorf("MintNFT(%q) reached the chain", url)
		}
	}
}

func TestChainErrorIsWrapped(t *testing.T) {
	boom := errors.New("boom")
	_, err := newTestService(&mockChain{err: boom}).SendPayment(context.Background(), stubSigner{addr: "A"}, PaymentRequest{
		Receiver: testAddress(),
		Amount:   decimal.NewFromInt(1),
	})
	if !errors.Is(err, boom) {
		t.Errorf("err = %v, want wrapped boom", err)
	}
}
