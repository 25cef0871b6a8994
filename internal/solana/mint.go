package solana

import (
	"encoding/binary"
	"fmt"

	"github.com/mr-tron/base58"
)

// mintAccountSize is the serialized size of an SPL Token mint account.
const mintAccountSize = 82

// MintInfo holds the authority fields of an SPL mint account. A nil authority
// means the option flag was unset, i.e. the authority has been revoked.
type MintInfo struct {
	MintAuthority   *string
	FreezeAuthority *string
	Supply          uint64
	Decimals        uint8
	Initialized     bool
}

// ParseMintAccount decodes the raw account data of an SPL Token mint.
//
// Layout: [0:4] mint authority COption flag, [4:36] mint authority,
// [36:44] supply (u64 LE), [44] decimals, [45] initialized flag,
// [46:50] freeze authority COption flag, [50:82] freeze authority.
func ParseMintAccount(data []byte) (*MintInfo, error) {
	if len(data) < mintAccountSize {
		return nil, fmt.Errorf("mint account data is %d bytes, want at least %d", len(data), mintAccountSize)
	}

	info := &MintInfo{
		Supply:      binary.LittleEndian.Uint64(data[36:44]),
		Decimals:    data[44],
		Initialized: data[45] != 0,
	}

	if binary.LittleEndian.Uint32(data[0:4]) != 0 {
		addr := base58.Encode(data[4:36])
		info.MintAuthority = &addr
	}
	if binary.LittleEndian.Uint32(data[46:50]) != 0 {
		addr := base58.Encode(data[50:82])
		info.FreezeAuthority = &addr
	}

	return info, nil
}
