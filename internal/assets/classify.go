// Package assets classifies pair symbols as fiat currencies or crypto assets.
// The classification decides which source family and resolution path a pair
// takes, so it lives behind a single function rather than being spread over
// the evaluation code.
package assets

import "strings"

// Kind is the asset classification of a symbol.
type Kind string

const (
	Fiat    Kind = "fiat"
	Crypto  Kind = "crypto"
	Unknown Kind = "unknown"
)

// ISO 4217 codes the fiat sources can quote.
var fiatCodes = map[string]struct{}{
	"usd": {}, "eur": {}, "gbp": {}, "jpy": {}, "chf": {}, "cad": {},
	"aud": {}, "nzd": {}, "cny": {}, "hkd": {}, "sgd": {}, "sek": {},
	"nok": {}, "dkk": {}, "pln": {}, "czk": {}, "huf": {}, "ron": {},
	"bgn": {}, "try": {}, "rub": {}, "uah": {}, "ils": {}, "aed": {},
	"sar": {}, "inr": {}, "idr": {}, "myr": {}, "php": {}, "thb": {},
	"krw": {}, "twd": {}, "vnd": {}, "brl": {}, "ars": {}, "clp": {},
	"cop": {}, "mxn": {}, "pen": {}, "zar": {}, "ngn": {}, "egp": {},
	"kes": {}, "mad": {}, "isk": {}, "gel": {}, "kzt": {}, "azn": {},
}

// Asset ids the crypto price source understands, keyed the way it expects
// them (coingecko-style lowercase ids).
var cryptoIDs = map[string]struct{}{
	"bitcoin": {}, "ethereum": {}, "tether": {}, "binancecoin": {},
	"solana": {}, "ripple": {}, "usd-coin": {}, "cardano": {},
	"dogecoin": {}, "tron": {}, "avalanche-2": {}, "chainlink": {},
	"polkadot": {}, "matic-network": {}, "litecoin": {}, "uniswap": {},
	"stellar": {}, "monero": {}, "cosmos": {}, "near": {},
	"aptos": {}, "arbitrum": {}, "optimism": {}, "filecoin": {},
	"bitcoin-cash": {}, "ethereum-classic": {}, "algorand": {},
	"vechain": {}, "the-graph": {}, "aave": {}, "maker": {}, "tezos": {},
}

// Normalize lower-cases and trims a symbol to its canonical stored form.
func Normalize(symbol string) string {
	return strings.ToLower(strings.TrimSpace(symbol))
}

// Classify returns the asset kind of a normalized symbol.
func Classify(symbol string) Kind {
	s := Normalize(symbol)
	if _, ok := fiatCodes[s]; ok {
		return Fiat
	}
	if _, ok := cryptoIDs[s]; ok {
		return Crypto
	}
	return Unknown
}
