package orchestrate

import (
	"encoding/json"
	"io"
	"strconv"

	"github.com/flarebyte/baldrick-gitvault/internal/strategy"
	"github.com/olekukonko/tablewriter"
)

// Mode distinguishes the two orchestrator directions in reports and logs.
type Mode string

const (
	ModeSave    Mode = "save"
	ModeRestore Mode = "restore"
)

// EntityReport is one entity's line in the run report.
type EntityReport struct {
	Name   string               `json:"name"`
	State  string               `json:"state"`
	Result strategy.WriteResult `json:"result"`
}

// Report summarizes one orchestrator run: which entities ran, in what state,
// and what each committed. On a mid-run failure it holds the entities that
// completed before the abort.
type Report struct {
	Mode      Mode           `json:"mode"`
	ArchiveID string         `json:"archive_id"`
	DryRun    bool           `json:"dry_run,omitempty"`
	Entities  []EntityReport `json:"entities"`
	Warnings  []string       `json:"warnings,omitempty"`
}

// TotalCount sums the records processed across all entities.
func (r *Report) TotalCount() int {
	n := 0
	for _, e := range r.Entities {
		n += e.Result.Count
	}
	return n
}

// RenderJSON writes the report as indented JSON.
func (r *Report) RenderJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// RenderTable writes the report as a table.
func (r *Report) RenderTable(w io.Writer) {
	tw := tablewriter.NewWriter(w)
	tw.SetHeader([]string{"ENTITY", "STATE", "COUNT", "CREATED", "UPDATED", "DELETED", "SKIPPED"})
	for _, e := range r.Entities {
		tw.Append([]string{
			e.Name,
			e.State,
			strconv.Itoa(e.Result.Count),
			strconv.Itoa(e.Result.Created),
			strconv.Itoa(e.Result.Updated),
			strconv.Itoa(e.Result.Deleted),
			strconv.Itoa(e.Result.Skipped),
		})
	}
	tw.Render()
}
