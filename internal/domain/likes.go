package domain

import (
	"encoding/json"
	"sort"
)

// UserSet is a set of user ids. The zero value is ready to use for reads;
// use NewUserSet before writing.
type UserSet map[int64]struct{}

func NewUserSet(ids ...int64) UserSet {
	s := make(UserSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

func (s UserSet) Has(id int64) bool {
	_, ok := s[id]
	return ok
}

// Add returns true when id was not yet a member.
func (s UserSet) Add(id int64) bool {
	if s.Has(id) {
		return false
	}
	s[id] = struct{}{}
	return true
}

// Remove returns true when id was a member.
func (s UserSet) Remove(id int64) bool {
	if !s.Has(id) {
		return false
	}
	delete(s, id)
	return true
}

// Toggle flips membership and returns the new state.
func (s UserSet) Toggle(id int64) bool {
	if s.Remove(id) {
		return false
	}
	s.Add(id)
	return true
}

func (s UserSet) Len() int { return len(s) }

// IDs returns the members in ascending order.
func (s UserSet) IDs() []int64 {
	out := make([]int64, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (s UserSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.IDs())
}

func (s *UserSet) UnmarshalJSON(data []byte) error {
	var ids []int64
	if err := json.Unmarshal(data, &ids); err != nil {
		return err
	}
	*s = NewUserSet(ids...)
	return nil
}
