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

// Package params collects the chain configuration and protocol-level
// numeric constants the execution core is parameterised by: fork
// activation points, gas schedule constants and size limits.
package params

import "math/big"

// ChainConfig describes a chain's fork schedule. Block-keyed forks activate
// at or after a block number; the post-Merge forks activate at or after a
// unix timestamp, matching how mainnet itself switched from block-based to
// time-based fork scheduling at the Paris upgrade.
type ChainConfig struct {
	ChainID *big.Int

	HomesteadBlock      *big.Int
	EIP150Block         *big.Int
	EIP155Block         *big.Int
	EIP158Block         *big.Int
	ByzantiumBlock      *big.Int
	ConstantinopleBlock *big.Int
	PetersburgBlock     *big.Int
	IstanbulBlock       *big.Int
	BerlinBlock         *big.Int
	LondonBlock         *big.Int
	MergeNetsplitBlock  *big.Int

	ShanghaiTime *uint64
	CancunTime   *uint64
	PragueTime   *uint64
	OsakaTime    *uint64
}

func isBlockForked(fork, head *big.Int) bool {
	if fork == nil || head == nil {
		return false
	}
	return fork.Cmp(head) <= 0
}

func isTimeForked(fork *uint64, time uint64) bool {
	if fork == nil {
		return false
	}
	return *fork <= time
}

func (c *ChainConfig) IsHomestead(n *big.Int) bool        { return isBlockForked(c.HomesteadBlock, n) }
func (c *ChainConfig) IsTangerineWhistle(n *big.Int) bool { return isBlockForked(c.EIP150Block, n) }
func (c *ChainConfig) IsSpuriousDragon(n *big.Int) bool   { return isBlockForked(c.EIP158Block, n) }
func (c *ChainConfig) IsByzantium(n *big.Int) bool        { return isBlockForked(c.ByzantiumBlock, n) }
func (c *ChainConfig) IsConstantinople(n *big.Int) bool   { return isBlockForked(c.ConstantinopleBlock, n) }
func (c *ChainConfig) IsPetersburg(n *big.Int) bool       { return isBlockForked(c.PetersburgBlock, n) }
func (c *ChainConfig) IsIstanbul(n *big.Int) bool         { return isBlockForked(c.IstanbulBlock, n) }
func (c *ChainConfig) IsBerlin(n *big.Int) bool           { return isBlockForked(c.BerlinBlock, n) }
func (c *ChainConfig) IsLondon(n *big.Int) bool           { return isBlockForked(c.LondonBlock, n) }
func (c *ChainConfig) IsMerge(n *big.Int) bool            { return isBlockForked(c.MergeNetsplitBlock, n) }
func (c *ChainConfig) IsShanghai(t uint64) bool           { return isTimeForked(c.ShanghaiTime, t) }
func (c *ChainConfig) IsCancun(t uint64) bool             { return isTimeForked(c.CancunTime, t) }
func (c *ChainConfig) IsPectra(t uint64) bool             { return isTimeForked(c.PragueTime, t) }
func (c *ChainConfig) IsOsaka(t uint64) bool              { return isTimeForked(c.OsakaTime, t) }

// MainnetChainConfig is a fully-activated, all-forks-from-genesis
// configuration useful for tests and standalone execution where the caller
// does not want to track real mainnet fork block numbers.
func MainnetChainConfig() *ChainConfig {
	zero := big.NewInt(0)
	t0 := uint64(0)
	return &ChainConfig{
		ChainID:             big.NewInt(1),
		HomesteadBlock:      zero,
		EIP150Block:         zero,
		EIP155Block:         zero,
		EIP158Block:         zero,
		ByzantiumBlock:      zero,
		ConstantinopleBlock: zero,
		PetersburgBlock:     zero,
		IstanbulBlock:       zero,
		BerlinBlock:         zero,
		LondonBlock:         zero,
		MergeNetsplitBlock:  zero,
		ShanghaiTime:        &t0,
		CancunTime:          &t0,
		PragueTime:          &t0,
		OsakaTime:           nil,
	}
}
