package cache

import (
	"sort"

	"github.com/nurpe/contratos-service/internal/model"
)

// Event is a confirmed remote outcome applied to the local mirror. Local
// state only ever changes through Reduce, after the server has answered.
type Event interface{ isEvent() }

type FetchSucceeded struct{ Records []model.Contract }

type CreateSucceeded struct{ Record model.Contract }

type UpdateSucceeded struct{ Record model.Contract }

type DeleteSucceeded struct{ CUI string }

func (FetchSucceeded) isEvent()  {}
func (CreateSucceeded) isEvent() {}
func (UpdateSucceeded) isEvent() {}
func (DeleteSucceeded) isEvent() {}

// Reduce returns the next record set for an event. The input slice is never
// mutated. Fetch sorts descending by id with plain string comparison, so
// numeric keys of uneven length order textually. Create prepends without
// re-sorting; update replaces in place preserving order; delete filters out.
func Reduce(records []model.Contract, ev Event) []model.Contract {
	switch e := ev.(type) {
	case FetchSucceeded:
		next := make([]model.Contract, len(e.Records))
		copy(next, e.Records)
		sort.SliceStable(next, func(i, j int) bool { return next[i].ID > next[j].ID })
		return next

	case CreateSucceeded:
		next := make([]model.Contract, 0, len(records)+1)
		next = append(next, e.Record)
		return append(next, records...)

	case UpdateSucceeded:
		next := make([]model.Contract, len(records))
		copy(next, records)
		for i := range next {
			if next[i].ID == e.Record.ID {
				next[i] = e.Record
			}
		}
		return next

	case DeleteSucceeded:
		next := make([]model.Contract, 0, len(records))
		for _, r := range records {
			if r.CUI != e.CUI {
				next = append(next, r)
			}
		}
		return next

	default:
		return records
	}
}
