package models

// Employee is one entry in the crew roster. The roster is configuration
// data, not application state: it is loaded once and passed to the
// scheduling screens as a read-only lookup.
type Employee struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// Roster is a read-only crew list.
type Roster []Employee

// DefaultRoster is the fabrication crew. Replace via config when the
// business hires.
var DefaultRoster = Roster{
	{ID: 1, Name: "Ahmed"},
	{ID: 2, Name: "Mostafa"},
	{ID: 3, Name: "Hassan"},
	{ID: 4, Name: "Ibrahim"},
	{ID: 5, Name: "Youssef"},
	{ID: 6, Name: "Karim"},
}

// ByName returns the roster entry with the given name, or nil if the name
// is not on the crew.
func (r Roster) ByName(name string) *Employee {
	for i := range r {
		if r[i].Name == name {
			return &r[i]
		}
	}
	return nil
}

// Names returns the roster names in roster order.
func (r Roster) Names() []string {
	names := make([]string, 0, len(r))
	for _, e := range r {
		names = append(names, e.Name)
	}
	return names
}
