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

import "github.com/prometheus/client_golang/prometheus"

// Interpreter-level instrumentation, registered against the default
// Prometheus registry so an embedder's existing /metrics endpoint picks it
// up without extra wiring.
var (
	framesExecuted = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "coreevm_frames_executed_total",
		Help: "Number of call/create frames run by the interpreter.",
	})
	opcodesExecuted = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "coreevm_opcodes_executed_total",
		Help: "Number of opcodes dispatched by the interpreter loop.",
	})
	gasConsumed = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "coreevm_gas_consumed_total",
		Help: "Gas charged across every opcode dispatched by the interpreter loop.",
	})
)

func init() {
	prometheus.MustRegister(framesExecuted, opcodesExecuted, gasConsumed)
}
