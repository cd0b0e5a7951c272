// Package conflict implements the restore-time conflict resolution policies
// applied when incoming records collide with records already present in the
// target repository.
package conflict

import (
	"errors"
	"fmt"
	"sort"

	"github.com/flarebyte/baldrick-gitvault/internal/model"
)

// ErrConflict is raised by the fail-if-existing and fail-if-conflict policies
// when their precondition is violated. It is always raised before any write.
var ErrConflict = errors.New("conflict: existing records in target")

// Policy selects how colliding natural keys are resolved.
// One policy governs an entire restore run.
type Policy string

const (
	// FailIfExisting aborts when any record of the kind already exists,
	// colliding or not. Default; needs no collision detection.
	FailIfExisting Policy = "fail-if-existing"
	// FailIfConflict aborts only when existing and incoming natural keys
	// intersect.
	FailIfConflict Policy = "fail-if-conflict"
	// Overwrite updates colliding records and creates the rest.
	Overwrite Policy = "overwrite"
	// Skip leaves colliding records untouched and creates the rest.
	Skip Policy = "skip"
	// DeleteAll removes every existing record first, then creates everything.
	DeleteAll Policy = "delete-all"
)

// ParsePolicy validates a policy name from configuration.
func ParsePolicy(v string) (Policy, error) {
	switch Policy(v) {
	case FailIfExisting, FailIfConflict, Overwrite, Skip, DeleteAll:
		return Policy(v), nil
	case "":
		return FailIfExisting, nil
	}
	return "", fmt.Errorf("unknown conflict policy %q (want fail-if-existing, fail-if-conflict, overwrite, skip or delete-all)", v)
}

// Plan is the resolved write-set for one entity kind.
type Plan struct {
	// Create holds incoming records with no colliding key (or all incoming
	// records under delete-all).
	Create []model.Record
	// Update pairs colliding incoming records with the existing record's ID
	// (overwrite policy only).
	Update []Update
	// Delete holds existing records to remove first (delete-all only).
	Delete []model.Record
	// Skipped lists natural keys left untouched (skip policy only).
	Skipped []string
}

// Update carries an incoming record plus the colliding existing record.
type Update struct {
	Incoming model.Record
	Existing model.Record
}

// Resolve applies the policy to the existing and incoming record sets and
// returns the plan, or ErrConflict for the failing policies. Collision
// detection is a single key-set intersection, O(len(existing)+len(incoming)).
func Resolve(p Policy, existing, incoming []model.Record) (Plan, error) {
	switch p {
	case FailIfExisting:
		if len(existing) > 0 {
			return Plan{}, fmt.Errorf("%w: %d record(s) present and policy is %s", ErrConflict, len(existing), p)
		}
		return Plan{Create: incoming}, nil

	case FailIfConflict:
		byKey := keyIndex(existing)
		var clash []string
		for _, rec := range incoming {
			if _, ok := byKey[rec.NaturalKey()]; ok {
				clash = append(clash, rec.NaturalKey())
			}
		}
		if len(clash) > 0 {
			sort.Strings(clash)
			return Plan{}, fmt.Errorf("%w: colliding keys %v", ErrConflict, clash)
		}
		return Plan{Create: incoming}, nil

	case Overwrite:
		byKey := keyIndex(existing)
		var plan Plan
		for _, rec := range incoming {
			if ex, ok := byKey[rec.NaturalKey()]; ok {
				plan.Update = append(plan.Update, Update{Incoming: rec, Existing: ex})
			} else {
				plan.Create = append(plan.Create, rec)
			}
		}
		return plan, nil

	case Skip:
		byKey := keyIndex(existing)
		var plan Plan
		for _, rec := range incoming {
			if _, ok := byKey[rec.NaturalKey()]; ok {
				plan.Skipped = append(plan.Skipped, rec.NaturalKey())
			} else {
				plan.Create = append(plan.Create, rec)
			}
		}
		return plan, nil

	case DeleteAll:
		return Plan{Delete: existing, Create: incoming}, nil
	}
	return Plan{}, fmt.Errorf("unknown conflict policy %q", p)
}

// keyIndex indexes records by natural key. Keyless records (comments,
// reviews) are left out: without a key they can never collide, so the keyed
// policies route them straight to creation.
func keyIndex(recs []model.Record) map[string]model.Record {
	m := make(map[string]model.Record, len(recs))
	for _, r := range recs {
		if k := r.NaturalKey(); k != "" {
			m[k] = r
		}
	}
	return m
}
