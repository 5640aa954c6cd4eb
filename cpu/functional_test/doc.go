// This file is part of c64core.
//
// c64core is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// c64core is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with c64core.  If not, see <https://www.gnu.org/licenses/>.

// Package functional_test runs a small hand-assembled 6502 program that
// self-checks a cross-section of documented opcode behaviour (decimal
// ADC, binary SBC, a flag-setting logical op, an RMW write-back, JSR/RTS
// stack discipline) end to end through both CPU execution modes. It is a
// scaled-down stand-in for the full Klaus Dormann functional test suite:
// enough to catch a regression in the shared opcode table without vendoring
// the upstream test binary.
package functional_test
