/*
 * metrics.go, part of gomd.
 *
 *
 * Copyright 2024 Raul Mera <rmera{at}chemDOThelsinkiDOTfi>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 *
 * goChem and gomd are currently developed at the Universidad de Santiago de Chile
 * (USACH)
 *
 */

package md

import (
	"fmt"
	"strings"
	"time"
)

//Stage is a part of the force pipeline whose duration is measured.
type Stage int

const (
	StageNeigh Stage = iota
	StagePair
	StageBond
	StageComm
	StageOther
	numStages
)

var stageNames = [numStages]string{"neigh", "pair", "bond", "comm", "other"}

func (s Stage) String() string {
	if s < 0 || s >= numStages {
		return "unknown"
	}
	return stageNames[s]
}

//Metrics collects timings and counters for one rank. It is owned by the caller, which
//passes it to the computations and reads it afterwards. A nil *Metrics is valid
//and records nothing.
type Metrics struct {
	Durations       [numStages]time.Duration
	Calls           [numStages]int64
	Builds          int64 //neighbor list builds
	DangerousBuilds int64 //builds triggered at the first step they were allowed
	Steps           int64
}

//Start begins timing stage s and returns the function that stops it.
func (M *Metrics) Start(s Stage) func() {
	if M == nil {
		return func() {}
	}
	t := time.Now()
	return func() {
		M.Add(s, time.Since(t))
	}
}

//Add adds d to the time spent in stage s.
func (M *Metrics) Add(s Stage, d time.Duration) {
	if M == nil {
		return
	}
	M.Durations[s] += d
	M.Calls[s]++
}

//Merge adds the values of o to the receiver.
func (M *Metrics) Merge(o *Metrics) {
	if M == nil || o == nil {
		return
	}
	for i := range M.Durations {
		M.Durations[i] += o.Durations[i]
		M.Calls[i] += o.Calls[i]
	}
	M.Builds += o.Builds
	M.DangerousBuilds += o.DangerousBuilds
	M.Steps += o.Steps
}

//Total returns the time spent in all stages.
func (M *Metrics) Total() time.Duration {
	var t time.Duration
	for _, d := range M.Durations {
		t += d
	}
	return t
}

func (M *Metrics) String() string {
	if M == nil {
		return "no metrics"
	}
	total := M.Total()
	parts := make([]string, 0, numStages+1)
	for s := Stage(0); s < numStages; s++ {
		pct := 0.0
		if total > 0 {
			pct = 100 * float64(M.Durations[s]) / float64(total)
		}
		parts = append(parts, fmt.Sprintf("%s %v (%4.1f%%)", s, M.Durations[s], pct))
	}
	parts = append(parts, fmt.Sprintf("builds %d dangerous %d steps %d", M.Builds, M.DangerousBuilds, M.Steps))
	return strings.Join(parts, " | ")
}
