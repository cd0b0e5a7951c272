package strategy

import "github.com/flarebyte/baldrick-gitvault/internal/model"

// RunContext is the single mutable context shared by all strategies of one
// orchestrator run. Earlier entities record their results here; later,
// dependent entities consult them (a comment looks up the issue number its
// original issue was recreated under). The orchestrator owns it; runs are
// sequential, so no locking.
type RunContext struct {
	numbers map[string]map[int]int
	ids     map[string]map[int64]int64
	records map[string][]model.Record
}

func NewRunContext() *RunContext {
	return &RunContext{
		numbers: map[string]map[int]int{},
		ids:     map[string]map[int64]int64{},
		records: map[string][]model.Record{},
	}
}

// MapNumber records that the entity's record old was recreated as new.
func (rc *RunContext) MapNumber(entity string, old, new int) {
	m, ok := rc.numbers[entity]
	if !ok {
		m = map[int]int{}
		rc.numbers[entity] = m
	}
	m[old] = new
}

// Number returns the remapped number for old, if one was recorded.
func (rc *RunContext) Number(entity string, old int) (int, bool) {
	n, ok := rc.numbers[entity][old]
	return n, ok
}

// MapID records an id remapping for kinds addressed by opaque id.
func (rc *RunContext) MapID(entity string, old, new int64) {
	m, ok := rc.ids[entity]
	if !ok {
		m = map[int64]int64{}
		rc.ids[entity] = m
	}
	m[old] = new
}

// ID returns the remapped id for old, if one was recorded.
func (rc *RunContext) ID(entity string, old int64) (int64, bool) {
	n, ok := rc.ids[entity][old]
	return n, ok
}

// SetRecords stores the records an entity's pipeline processed, for
// dependent entities to enumerate (reviews iterate the pulls that were
// actually saved).
func (rc *RunContext) SetRecords(entity string, recs []model.Record) {
	rc.records[entity] = recs
}

// Records returns the records a prior entity processed, or nil.
func (rc *RunContext) Records(entity string) []model.Record {
	return rc.records[entity]
}
