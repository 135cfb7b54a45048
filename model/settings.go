package model

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"

	"github.com/google/uuid"
)

// StaffMember is one entry of the staff roster. The ID is a stable surrogate
// key so that edits and deletions never depend on list position.
type StaffMember struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// UnmarshalJSON accepts either a bare name or an {"id","name"} object.
// Entries without an id get a freshly minted one.
func (m *StaffMember) UnmarshalJSON(b []byte) error {
	var name string
	if err := json.Unmarshal(b, &name); err == nil {
		*m = StaffMember{ID: uuid.NewString(), Name: name}
		return nil
	}
	var obj struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	if err := json.Unmarshal(b, &obj); err != nil {
		return fmt.Errorf("staff entry must be a string or an object: %w", err)
	}
	if obj.ID == "" {
		obj.ID = uuid.NewString()
	}
	*m = StaffMember{ID: obj.ID, Name: obj.Name}
	return nil
}

// Settings holds the budget categories with their ceilings, the proposers
// with their quotas, and the staff roster. It is loaded and saved wholesale.
type Settings struct {
	Categories map[string]int64 `json:"categories"`
	Suggesters map[string]int64 `json:"suggesters"`
	Staff      []StaffMember    `json:"staff"`
}

// NewSettings returns an empty registry.
func NewSettings() *Settings {
	return &Settings{
		Categories: map[string]int64{},
		Suggesters: map[string]int64{},
		Staff:      []StaffMember{},
	}
}

// Clone returns a deep copy.
func (s *Settings) Clone() *Settings {
	c := &Settings{
		Categories: maps.Clone(s.Categories),
		Suggesters: maps.Clone(s.Suggesters),
		Staff:      slices.Clone(s.Staff),
	}
	if c.Categories == nil {
		c.Categories = map[string]int64{}
	}
	if c.Suggesters == nil {
		c.Suggesters = map[string]int64{}
	}
	if c.Staff == nil {
		c.Staff = []StaffMember{}
	}
	return c
}

// Validate checks names, ceilings and staff ids.
func (s *Settings) Validate() error {
	for name, budget := range s.Categories {
		if name == "" {
			return NewValidationError("category name is required")
		}
		if budget < 0 {
			return NewValidationError(fmt.Sprintf("budget of category %q must not be negative", name))
		}
	}
	for name, quota := range s.Suggesters {
		if name == "" {
			return NewValidationError("suggester name is required")
		}
		if quota < 0 {
			return NewValidationError(fmt.Sprintf("quota of suggester %q must not be negative", name))
		}
	}
	seen := make(map[string]bool, len(s.Staff))
	for _, m := range s.Staff {
		if m.ID == "" {
			return NewValidationError("staff id is required")
		}
		if seen[m.ID] {
			return NewValidationError(fmt.Sprintf("duplicate staff id %q", m.ID))
		}
		seen[m.ID] = true
	}
	return nil
}

// HasCategory reports whether name is a configured budget category.
func (s *Settings) HasCategory(name string) bool {
	_, ok := s.Categories[name]
	return ok
}

// CategoryNames returns the category keys in lexical order.
func (s *Settings) CategoryNames() []string {
	return slices.Sorted(maps.Keys(s.Categories))
}

// SuggesterNames returns the suggester keys in lexical order.
func (s *Settings) SuggesterNames() []string {
	return slices.Sorted(maps.Keys(s.Suggesters))
}

// AddStaff appends a staff member. Duplicate names are kept.
func (s *Settings) AddStaff(name string) StaffMember {
	m := StaffMember{ID: uuid.NewString(), Name: name}
	s.Staff = append(s.Staff, m)
	return m
}

// RenameStaff changes the name of the staff member with the given id.
func (s *Settings) RenameStaff(id, name string) error {
	i := s.staffIndex(id)
	if i < 0 {
		return fmt.Errorf("staff %q: %w", id, ErrSettingNotFound)
	}
	s.Staff[i].Name = name
	return nil
}

// RemoveStaff deletes the staff member with the given id.
func (s *Settings) RemoveStaff(id string) error {
	i := s.staffIndex(id)
	if i < 0 {
		return fmt.Errorf("staff %q: %w", id, ErrSettingNotFound)
	}
	s.Staff = slices.Delete(s.Staff, i, i+1)
	return nil
}

func (s *Settings) staffIndex(id string) int {
	return slices.IndexFunc(s.Staff, func(m StaffMember) bool { return m.ID == id })
}

// SetCategory adds a category or changes its ceiling.
func (s *Settings) SetCategory(name string, budget int64) error {
	return setEntry(s.Categories, "category", name, budget)
}

// RenameCategory moves the ceiling of old to a new key.
func (s *Settings) RenameCategory(old, name string) error {
	return renameEntry(s.Categories, "category", old, name)
}

// DeleteCategory removes a category. Existing project lines keep it.
func (s *Settings) DeleteCategory(name string) error {
	return deleteEntry(s.Categories, "category", name)
}

// SetSuggester adds a proposer or changes the quota.
func (s *Settings) SetSuggester(name string, quota int64) error {
	return setEntry(s.Suggesters, "suggester", name, quota)
}

// RenameSuggester moves the quota of old to a new key.
func (s *Settings) RenameSuggester(old, name string) error {
	return renameEntry(s.Suggesters, "suggester", old, name)
}

// DeleteSuggester removes a proposer.
func (s *Settings) DeleteSuggester(name string) error {
	return deleteEntry(s.Suggesters, "suggester", name)
}

func setEntry(m map[string]int64, kind, name string, v int64) error {
	if name == "" {
		return NewValidationError(kind + " name is required")
	}
	if v < 0 {
		return NewValidationError(fmt.Sprintf("%s %q: value must not be negative", kind, name))
	}
	m[name] = v
	return nil
}

func renameEntry(m map[string]int64, kind, old, name string) error {
	v, ok := m[old]
	if !ok {
		return fmt.Errorf("%s %q: %w", kind, old, ErrSettingNotFound)
	}
	if name == "" {
		return NewValidationError(kind + " name is required")
	}
	if name == old {
		return nil
	}
	if _, exists := m[name]; exists {
		return fmt.Errorf("%s %q: %w", kind, name, ErrConflict)
	}
	delete(m, old)
	m[name] = v
	return nil
}

func deleteEntry(m map[string]int64, kind, name string) error {
	if _, ok := m[name]; !ok {
		return fmt.Errorf("%s %q: %w", kind, name, ErrSettingNotFound)
	}
	delete(m, name)
	return nil
}
