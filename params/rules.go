// Copyright 2022-2026 The CoreEVM Authors
// This file is part of the CoreEVM library.
//
// The CoreEVM library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The CoreEVM library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the CoreEVM library. If not, see <http://www.gnu.org/licenses/>.

package params

import "math/big"

// Rules is a snapshot of which protocol upgrades are active at a particular
// (block number, time) pair. The interpreter, gas tables and jump-table
// cache all key off Rules rather than walking ChainConfig directly, so a
// single struct copy captures everything a frame needs to know about which
// fork it runs under.
type Rules struct {
	ChainID *big.Int

	IsHomestead        bool
	IsTangerineWhistle bool // EIP-150
	IsSpuriousDragon   bool // EIP-158/161
	IsByzantium        bool
	IsConstantinople   bool
	IsPetersburg       bool
	IsIstanbul         bool
	IsBerlin           bool
	IsLondon           bool
	IsMerge            bool
	IsShanghai         bool
	IsCancun           bool
	IsPectra           bool // Prague + Electra
	IsOsaka            bool
}

// Rules derives the fork-activation snapshot for the given block number and
// timestamp according to the chain configuration.
func (c *ChainConfig) Rules(blockNumber *big.Int, timestamp uint64) *Rules {
	chainID := c.ChainID
	if chainID == nil {
		chainID = new(big.Int)
	}
	return &Rules{
		ChainID:            new(big.Int).Set(chainID),
		IsHomestead:        c.IsHomestead(blockNumber),
		IsTangerineWhistle: c.IsTangerineWhistle(blockNumber),
		IsSpuriousDragon:   c.IsSpuriousDragon(blockNumber),
		IsByzantium:        c.IsByzantium(blockNumber),
		IsConstantinople:   c.IsConstantinople(blockNumber),
		IsPetersburg:       c.IsPetersburg(blockNumber),
		IsIstanbul:         c.IsIstanbul(blockNumber),
		IsBerlin:           c.IsBerlin(blockNumber),
		IsLondon:           c.IsLondon(blockNumber),
		IsMerge:            c.IsMerge(blockNumber),
		IsShanghai:         c.IsShanghai(timestamp),
		IsCancun:           c.IsCancun(timestamp),
		IsPectra:           c.IsPectra(timestamp),
		IsOsaka:            c.IsOsaka(timestamp),
	}
}
