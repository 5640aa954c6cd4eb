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

// Package diagnostics is a small opt-in HTTP server exposing the
// scheduler's speed-meter integer, frame time, and per-chip cycle
// counters, spec §6's "speed-meter integer" host-visible event given
// a real observable surface. Grounded on Gopher2600's go.mod dependency
// choice of github.com/go-echarts/statsview for a live runtime
// dashboard (no teacher file imports it directly — Gopher2600 carries
// it in go.mod for a debug build the retrieved tree doesn't include —
// so the wiring here is this package's own, built the way statsview's
// own documented entry points (New/Start) are used: a background
// goroutine serving runtime charts at an HTTP address, left running
// for the process's lifetime).
package diagnostics

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"
)

// Snapshot is the domain-specific counters this package exposes
// alongside statsview's own Go-runtime charts (goroutines, heap,
// GC pause): the scheduler speed percentage and one cycle count per
// stepped chip.
type Snapshot struct {
	SpeedPercent float64          `json:"speed_percent"`
	Cycles       map[string]int64 `json:"cycles"`
}

// Server wires a statsview.Viewer for the built-in runtime dashboard
// and a small sibling JSON endpoint for the domain counters statsview
// has no panel type for.
type Server struct {
	addr   string
	viewer *statsview.Viewer
	server *http.Server

	speed  atomic.Value // float64

	mu     sync.Mutex
	cycles map[string]int64
}

// New constructs a diagnostics server bound to addr (e.g.
// "127.0.0.1:18066"); it does not start listening until Start is
// called.
func New(addr string) *Server {
	s := &Server{
		addr:   addr,
		viewer: statsview.New(viewer.WithAddr(addr)),
		cycles: make(map[string]int64),
	}
	s.speed.Store(float64(100))
	return s
}

// SetSpeed records the scheduler's current speed as a percentage of
// real time (100 = exact PAL speed), matching display.Collaborator's
// SetSpeed so a System can report to both at once.
func (s *Server) SetSpeed(percent float64) {
	s.speed.Store(percent)
}

// SetCycleCount records chip's cumulative cycle counter (e.g. "CPU",
// "VIC", "Drive") for the domain-counters endpoint.
func (s *Server) SetCycleCount(chip string, count int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cycles[chip] = count
}

func (s *Server) snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	cycles := make(map[string]int64, len(s.cycles))
	for k, v := range s.cycles {
		cycles[k] = v
	}
	speed, _ := s.speed.Load().(float64)
	return Snapshot{SpeedPercent: speed, Cycles: cycles}
}

// Start launches statsview's runtime dashboard and the domain-counters
// endpoint on background goroutines and returns at once, without
// waiting for either to be listening. Listen errors are discarded,
// never fatal: the core never depends on this collaborator being
// reachable.
func (s *Server) Start() {
	go s.viewer.Start()

	mux := http.NewServeMux()
	mux.HandleFunc("/debug/c64core/stats", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(s.snapshot())
	})
	s.server = &http.Server{Addr: statsPort(s.addr), Handler: mux}
	go s.server.ListenAndServe()
}

// Stop shuts down both the statsview dashboard and the domain-counters
// endpoint.
func (s *Server) Stop() error {
	s.viewer.Stop()
	if s.server != nil {
		return s.server.Close()
	}
	return nil
}

// statsPort derives a sibling port one above addr's, so the domain
// counters endpoint never collides with statsview's own listener.
func statsPort(addr string) string {
	var host string
	var port int
	if _, err := fmt.Sscanf(addr, "%[^:]:%d", &host, &port); err != nil {
		return addr
	}
	return fmt.Sprintf("%s:%d", host, port+1)
}
