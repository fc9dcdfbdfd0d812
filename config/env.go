// Package config holds the batch environment (SLURM) and the parameter sweep of the benchmark tools.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/rs/zerolog/log"
)

// Env is what a SLURM allocation tells us. Outside of one, both Has flags are false.
type Env struct {
	JobID   int
	ProcID  int
	HasJob  bool
	HasProc bool
}

func FromEnv() Env {
	return FromLookup(os.LookupEnv)
}

// FromLookup reads SLURM_JOB_ID and SLURM_PROCID through lookup. Unparseable values are ignored with a warning.
func FromLookup(lookup func(string) (string, bool)) Env {
	var e Env
	e.JobID, e.HasJob = lookupInt(lookup, "SLURM_JOB_ID")
	e.ProcID, e.HasProc = lookupInt(lookup, "SLURM_PROCID")
	if e.HasProc && !e.HasJob {
		log.Warn().Msg("SLURM_PROCID set without SLURM_JOB_ID; ignoring it")
		e.HasProc = false
	}
	return e
}

func lookupInt(lookup func(string) (string, bool), key string) (int, bool) {
	s, ok := lookup(key)
	if !ok {
		return 0, false
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		log.Warn().Msg("Ignoring " + key + "=" + s + ": not an integer")
		return 0, false
	}
	return v, true
}

// TempBase is the node-local scratch directory of the job, or "" for the system default.
func (e Env) TempBase() string {
	if !e.HasJob {
		return ""
	}
	return fmt.Sprintf("/local/%d/", e.JobID)
}

// ApplyOMP pins the thread count of native tools spawned inside a job.
func (e Env) ApplyOMP(threads int) error {
	if !e.HasJob {
		return nil
	}
	log.Info().Msg("Using SLURM-aware temp. directory: " + e.TempBase())
	return os.Setenv("OMP_NUM_THREADS", strconv.Itoa(threads))
}

// NetworkDir is where a job process keeps its networks and logs: <scratch>/networks_<job>/proc<proc>/.
// Outside of a job it is the working directory.
func (e Env) NetworkDir(scratch string) string {
	if !e.HasProc {
		return "./"
	}
	return filepath.Join(scratch, fmt.Sprintf("networks_%d", e.JobID), fmt.Sprintf("proc%d", e.ProcID)) + string(filepath.Separator)
}

// LogName appends the job and process ids to def (before its extension) inside a job.
func (e Env) LogName(def string) string {
	if !e.HasProc {
		return def
	}
	ext := filepath.Ext(def)
	return fmt.Sprintf("%s_%d_%d%s", def[:len(def)-len(ext)], e.JobID, e.ProcID, ext)
}

// OverlapFactor spreads memberships per overlapping node over the processes of a job: 1 + proc % 5.
// It is 1 outside of a job, and when the only generator cannot produce overlap.
func (e Env) OverlapFactor(gens []string) int {
	if !e.HasProc {
		return 1
	}
	if len(gens) == 1 && gens[0] == "Native" {
		return 1
	}
	return 1 + e.ProcID%5
}
