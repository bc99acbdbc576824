package utils

import (
	"github.com/cometbft/cometbft/crypto/secp256k1"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

// Address is a test account in raw and bech32 form.
type Address struct {
	Bytes  []byte
	Bech32 string
}

// TestAddress returns a fresh secp256k1-derived address under the configured account prefix.
func TestAddress() Address {
	raw := secp256k1.GenPrivKey().PubKey().Address().Bytes()
	encoded, err := sdk.Bech32ifyAddressBytes(sdk.GetConfig().GetBech32AccountAddrPrefix(), raw)
	if err != nil {
		panic(err)
	}
	return Address{Bytes: raw, Bech32: encoded}
}

// TestAccAddress returns a fresh account address.
func TestAccAddress() sdk.AccAddress {
	return sdk.AccAddress(TestAddress().Bytes)
}
