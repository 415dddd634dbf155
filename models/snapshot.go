package models

// ListSnapshot is a read-only view of a list together with its items
// (ordered by order index) and cycles (newest first).
type ListSnapshot struct {
	List   StudyList    `json:"list"`
	Items  []StudyItem  `json:"items"`
	Cycles []StudyCycle `json:"cycles"`
}

// Clone returns a copy whose slices do not alias the receiver's.
func (s ListSnapshot) Clone() ListSnapshot {
	out := ListSnapshot{
		List:   s.List,
		Items:  make([]StudyItem, len(s.Items)),
		Cycles: make([]StudyCycle, len(s.Cycles)),
	}
	copy(out.Items, s.Items)
	copy(out.Cycles, s.Cycles)
	return out
}
