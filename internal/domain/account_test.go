package domain

import "testing"

func TestPlaceholderAssetMetadata(t *testing.T) {
	m := PlaceholderAssetMetadata(31566704)
	if m.DisplayName != "Asset 31566704" {
		t.Errorf("DisplayName = %q, want Asset 31566704", m.DisplayName)
	}
	if m.UnitSymbol != "" {
		t.Errorf("UnitSymbol = %q, want empty", m.UnitSymbol)
	}
}

func TestNewAssetViewScalesByDecimals(t *testing.T) {
	v := NewAssetView(
		AssetHolding{AssetID: 7, Amount: 12345, Decimals: 2},
		AssetMetadata{AssetID: 7, DisplayName: "RemitPKR", UnitSymbol: "RPKR"},
	)
	if v.Normalized != "123.45" {
		t.Errorf("Normalized = %q, want 123.45", v.Normalized)
	}
	if v.Name != "RemitPKR" || v.UnitName != "RPKR" {
		t.Errorf("metadata not copied: %+v", v)
	}
}

func TestExplorerLinks(t *testing.T) {
	e := Explorer{BaseURL: "https://testnet.algoexplorer.io/"}
	if got := e.TransactionURL("TX1"); got != "https://testnet.algoexplorer.io/tx/TX1" {
		t.Errorf("TransactionURL = %q", got)
	}
	if got := e.AddressURL("ADDR"); got != "https://testnet.algoexplorer.io/address/ADDR" {
		t.Errorf("AddressURL = %q", got)
	}
	if got := (Explorer{}).TransactionURL("TX1"); got != "" {
		t.Errorf("TransactionURL without base = %q, want empty", got)
	}
}

func TestNetworkDisplayName(t *testing.T) {
	tests := map[string]string{
		"":        "LocalNet",
		"testnet": "Testnet",
		"MAINNET": "Mainnet",
	}
	for in, want := range tests {
		if got := NetworkDisplayName(in); got != want {
			t.Errorf("NetworkDisplayName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNewAssetViewFallsBackToMetadataDecimals(t *testing.T) {
	v := NewAssetView(
		AssetHolding{AssetID: 10, Amount: 2_500_000},
		AssetMetadata{AssetID: 10, DisplayName: "USDC", Decimals: 6},
	)
	if v.Decimals != 6 || v.Normalized != "2.5" {
		t.Errorf("view = %+v, want 6 decimals and 2.5", v)
	}
}
