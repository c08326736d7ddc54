package resultservice

import (
	"github.com/Black-And-White-Club/moto-pickem/app/shared/results"
	sharedtypes "github.com/Black-And-White-Club/moto-pickem/app/shared/types"
)

// ResultEntry is one rider's finishing position as typed by an admin or
// read from an import.
type ResultEntry struct {
	Rider    string `json:"rider"`
	Position int    `json:"position"`
}

// EnterResultsRequest is a batch for one round and class.
type EnterResultsRequest struct {
	Round   sharedtypes.RoundNumber `json:"round"`
	Class   sharedtypes.PickClass   `json:"class"`
	Entries []ResultEntry           `json:"entries"`
	// Replace drops stored rows for riders absent from Entries.
	Replace bool   `json:"replace"`
	Source  string `json:"source,omitempty"`
}

// ResultView is a stored result with its points under the active table.
type ResultView struct {
	Rider    string `json:"rider"`
	Position int    `json:"position"`
	Points   int    `json:"points"`
}

// EnterResultsSummary describes a committed batch.
type EnterResultsSummary struct {
	Round   sharedtypes.RoundNumber `json:"round"`
	Class   sharedtypes.PickClass   `json:"class"`
	Written int                     `json:"written"`
	Removed int                     `json:"removed"`
	Results []ResultView            `json:"results"`
}

// ImportSummary describes an import attempt that reached the database.
type ImportSummary struct {
	EnterResultsSummary
	BatchID        string   `json:"batch_id"`
	UnknownRiders  []string `json:"unknown_riders,omitempty"`
	FetchedEntries int      `json:"fetched_entries"`
}

type (
	EnterResultsResult = results.OperationResult[EnterResultsSummary, error]
	ImportResult       = results.OperationResult[ImportSummary, error]
)
