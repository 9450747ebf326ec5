package domain

import (
	"fmt"
	"strings"
)

// Explorer builds links to a block explorer for a network.
type Explorer struct {
	BaseURL string
}

// TransactionURL returns the explorer page of a transaction, or "" when no explorer is configured.
func (e Explorer) TransactionURL(txID string) string {
	if e.BaseURL == "" || txID == "" {
		return ""
	}
	return fmt.Sprintf("%s/tx/%s", strings.TrimRight(e.BaseURL, "/"), txID)
}

// AddressURL returns the explorer page of an account, or "" when no explorer is configured.
func (e Explorer) AddressURL(address string) string {
	if e.BaseURL == "" || address == "" {
		return ""
	}
	return fmt.Sprintf("%s/address/%s", strings.TrimRight(e.BaseURL, "/"), address)
}

// NetworkDisplayName renders an algod network name for humans. An empty network is LocalNet.
func NetworkDisplayName(network string) string {
	if network == "" {
		return "LocalNet"
	}
	return strings.ToUpper(network[:1]) + strings.ToLower(network[1:])
}
