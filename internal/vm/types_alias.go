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

package vm

import "github.com/coreevm/engine/internal/vm/stack"

// Stack and ReturnStack are aliased into this package so opcode handlers
// can refer to them without a stack. qualifier on every signature.
type (
	Stack       = stack.Stack
	ReturnStack = stack.ReturnStack
)

var (
	newStack          = stack.New
	returnStack       = stack.ReturnNormalStack
	newReturnStack    = stack.NewReturnStack
	releaseReturnStack = stack.ReturnRStack
)
