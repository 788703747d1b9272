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

package state

import (
	"github.com/holiman/uint256"

	"github.com/coreevm/engine/common/types"
)

// Storage is the per-account slot map shared by dirty and committed storage
// views, and by transient storage.
type Storage map[types.Hash]uint256.Int

// Copy returns a value-independent copy of the storage map.
func (s Storage) Copy() Storage {
	cp := make(Storage, len(s))
	for k, v := range s {
		cp[k] = v
	}
	return cp
}
