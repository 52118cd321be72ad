package model

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrMalformedInput is the cause of any dataset construction failure: a task
// without exactly one chosen alternative, inconsistent feature
// dimensionality, or an empty dataset. Use errors.Cause to test for it.
var ErrMalformedInput = errors.New("malformed choice data")

// Record is a single alternative within a choice task: the task it belongs
// to, its covariates, and whether the respondent picked it.
type Record struct {
	Task     string
	Features []float64
	Chosen   bool
}

// ChoiceDataset is an immutable, grouped view of choice records. Tasks keep
// their first-encounter order. Alternatives are stored in one flat row-major
// arena with a per-task offset table so the likelihood hot loop can reduce
// over contiguous blocks instead of chasing a lookup table.
type ChoiceDataset struct {
	names   []string
	tasks   []string  // task ids in encounter order
	feats   []float64 // arena: all alternative rows, row-major
	offsets []int     // len NumTasks+1; alternative row offsets per task
	chosen  []int     // per task: index of the chosen alternative within the task
	nCoef   int
}

// NewChoiceDataset groups and validates choice records. Task order follows
// the first record seen for each task id; alternative order within a task
// follows record order. names may be nil, in which case x0..xK-1 are used;
// otherwise its length must match the feature count.
func NewChoiceDataset(recs []Record, names []string) (*ChoiceDataset, error) {
	if len(recs) == 0 {
		return nil, errors.Wrap(ErrMalformedInput, "no records")
	}

	nCoef := len(recs[0].Features)
	if nCoef < 1 {
		return nil, errors.Wrapf(ErrMalformedInput, "record for task %s has no features", recs[0].Task)
	}

	// Group record indices by task, preserving encounter order
	taskIdx := make(map[string]int)
	var taskIDs []string
	var taskRecs [][]int

	for i, r := range recs {
		if len(r.Features) != nCoef {
			return nil, errors.Wrapf(ErrMalformedInput,
				"task %s has a %d-feature alternative but the dataset is %d-dimensional",
				r.Task, len(r.Features), nCoef)
		}

		ti, ok := taskIdx[r.Task]
		if !ok {
			ti = len(taskIDs)
			taskIdx[r.Task] = ti
			taskIDs = append(taskIDs, r.Task)
			taskRecs = append(taskRecs, nil)
		}
		taskRecs[ti] = append(taskRecs[ti], i)
	}

	if names == nil {
		names = make([]string, nCoef)
		for i := range names {
			names[i] = fmt.Sprintf("x%d", i)
		}
	} else if len(names) != nCoef {
		return nil, errors.Wrapf(ErrMalformedInput,
			"%d coefficient names for %d features", len(names), nCoef)
	}

	ds := &ChoiceDataset{
		names:   append([]string(nil), names...),
		tasks:   taskIDs,
		feats:   make([]float64, 0, len(recs)*nCoef),
		offsets: make([]int, 1, len(taskIDs)+1),
		chosen:  make([]int, len(taskIDs)),
		nCoef:   nCoef,
	}

	for ti, idxs := range taskRecs {
		chosenAt := -1
		for j, ri := range idxs {
			r := recs[ri]
			if r.Chosen {
				if chosenAt >= 0 {
					return nil, errors.Wrapf(ErrMalformedInput,
						"task %s has more than one chosen alternative", r.Task)
				}
				chosenAt = j
			}
			ds.feats = append(ds.feats, r.Features...)
		}
		if chosenAt < 0 {
			return nil, errors.Wrapf(ErrMalformedInput,
				"task %s has no chosen alternative", taskIDs[ti])
		}
		ds.chosen[ti] = chosenAt
		ds.offsets = append(ds.offsets, ds.offsets[ti]+len(idxs))
	}

	return ds, nil
}

// NumTasks returns the number of choice tasks in the dataset.
func (ds *ChoiceDataset) NumTasks() int {
	return len(ds.tasks)
}

// NumCoef returns the feature dimensionality (the length of any compatible
// parameter vector).
func (ds *ChoiceDataset) NumCoef() int {
	return ds.nCoef
}

// NumAlts returns the number of alternatives in task t. Task sizes may be
// ragged.
func (ds *ChoiceDataset) NumAlts(t int) int {
	return ds.offsets[t+1] - ds.offsets[t]
}

// Names returns a copy of the coefficient names.
func (ds *ChoiceDataset) Names() []string {
	return append([]string(nil), ds.names...)
}

// TaskID returns the identifier of task t.
func (ds *ChoiceDataset) TaskID(t int) string {
	return ds.tasks[t]
}

// Task returns task t's feature block (row-major, NumAlts(t) x NumCoef) and
// the within-task index of the chosen alternative. The block is a view into
// the dataset arena and must not be modified.
func (ds *ChoiceDataset) Task(t int) ([]float64, int) {
	lo := ds.offsets[t] * ds.nCoef
	hi := ds.offsets[t+1] * ds.nCoef
	return ds.feats[lo:hi], ds.chosen[t]
}
