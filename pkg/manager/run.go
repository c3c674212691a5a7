package manager

import "github.com/kasuboski/vodsync/pkg/machine"

// RunState is one phase of a crawl run.
type RunState string

const (
	StateIdle             RunState = "Idle"
	StateResolvingURLs    RunState = "ResolvingURLs"
	StateScrapingMetadata RunState = "ScrapingMetadata"
	StateComputingTargets RunState = "ComputingTargets"
	StateDownloading      RunState = "Downloading"
	StatePersistingLog    RunState = "PersistingLog"
	StateAborted          RunState = "Aborted"
)

// newRunMachine declares the legal phase order of a run. Aborted is reachable
// only from the phases that do external work, and never leads to
// PersistingLog, so an aborted run cannot record partial progress.
func newRunMachine() *machine.StateMachine[RunState] {
	return machine.New(StateIdle,
		machine.From(StateIdle).To(StateResolvingURLs),
		machine.From(StateResolvingURLs).To(StateScrapingMetadata, StateAborted),
		machine.From(StateScrapingMetadata).To(StateComputingTargets, StateAborted),
		// dry-run returns to idle without downloading
		machine.From(StateComputingTargets).To(StateDownloading, StateIdle),
		machine.From(StateDownloading).To(StatePersistingLog, StateAborted),
		machine.From(StatePersistingLog).To(StateIdle),
	)
}
