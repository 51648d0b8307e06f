package filter

import "github.com/ALT-F4-LLC/salvage/internal/model"

// ToStringSet converts a slice of strings to a set for O(1) membership checks.
func ToStringSet(ss []string) map[string]struct{} {
	if len(ss) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(ss))
	for _, s := range ss {
		set[s] = struct{}{}
	}
	return set
}

// Options selects decoded records for display. Empty sets match everything.
type Options struct {
	Types          []string // match any
	Labels         []string // match any; records carry at most one label
	IncludeTrashed bool
}

// Validate rejects unknown type names.
func (o Options) Validate() error {
	for _, t := range o.Types {
		if err := model.ValidateKind(model.Kind(t)); err != nil {
			return err
		}
	}
	return nil
}

// Records returns the records matching opts, preserving order.
func Records(records []*model.Record, opts Options) []*model.Record {
	types := ToStringSet(opts.Types)
	labels := ToStringSet(opts.Labels)

	var out []*model.Record
	for _, r := range records {
		if r.Trashed && !opts.IncludeTrashed {
			continue
		}
		if types != nil {
			if _, ok := types[string(r.Type)]; !ok {
				continue
			}
		}
		if labels != nil {
			if _, ok := labels[r.LabelOrEmpty()]; !ok {
				continue
			}
		}
		out = append(out, r)
	}
	return out
}

// FindByName returns the records whose name equals name.
func FindByName(records []*model.Record, name string) []*model.Record {
	var out []*model.Record
	for _, r := range records {
		if r.Name == name {
			out = append(out, r)
		}
	}
	return out
}
