package types

import (
	"cosmossdk.io/errors"

	"github.com/provlabs/sundial/utils"
)

// OracleSnapshot is a price read from an external feed. The price is Price * 10^Expo
// quote units per whole token.
type OracleSnapshot struct {
	OracleID    string `json:"oracle_id"`
	Price       int64  `json:"price"`
	Expo        int32  `json:"expo"`
	Conf        uint64 `json:"conf"`
	AsOfSlot    int64  `json:"as_of_slot"`
	PublishTime int64  `json:"publish_time"`
}

// Wad converts the snapshot price into the common fixed-point unit.
func (o OracleSnapshot) Wad() (utils.Wad, error) {
	if o.Price < 0 {
		return utils.Wad{}, errors.Wrapf(ErrInvalidOraclePrice, "oracle %s reports negative price %d", o.OracleID, o.Price)
	}
	if o.Expo < -utils.WadDecimals || o.Expo > utils.WadDecimals {
		return utils.Wad{}, errors.Wrapf(ErrInvalidOraclePrice, "oracle %s exponent %d out of range", o.OracleID, o.Expo)
	}
	w, err := utils.NewWadFromMantissa(uint64(o.Price), o.Expo)
	if err != nil {
		return utils.Wad{}, OverflowErr("oracle price", err)
	}
	return w, nil
}

// IsFresh reports whether the snapshot lags currentSlot by at most maxLag slots.
func (o OracleSnapshot) IsFresh(currentSlot int64, maxLag uint64) bool {
	if o.AsOfSlot > currentSlot {
		return false
	}
	return uint64(currentSlot-o.AsOfSlot) <= maxLag
}
