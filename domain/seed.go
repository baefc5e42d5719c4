package domain

// Fixed sample data used on first run and restored by a reset.

// SeedBoard returns the first-run board: three columns and a handful of
// starter cards so the app is not empty on a fresh device.
func SeedBoard() Board {
	return Board{
		Cards: map[string]Card{
			"c1": {ID: "c1", Title: "Buy groceries for the week", Assignee: AssigneePartner},
			"c2": {ID: "c2", Title: "Book vet appointment", Assignee: AssigneeMe},
			"c3": {ID: "c3", Title: "Plan Saturday date night"},
			"c4": {ID: "c4", Title: "Water the plants", Assignee: AssigneeMe},
		},
		Columns: map[string]Column{
			"todo":  {ID: "todo", Title: "To Do", CardIDs: []string{"c1", "c2", "c3"}},
			"doing": {ID: "doing", Title: "Doing", CardIDs: []string{"c4"}},
			"done":  {ID: "done", Title: "Done", CardIDs: []string{}},
		},
		ColumnOrder: []string{"todo", "doing", "done"},
	}
}

// SeedInfo returns the first-run important-info list.
func SeedInfo() []InfoItem {
	return []InfoItem{
		{ID: "i1", Label: "Wi-Fi password", Detail: "ask me before resetting the router"},
		{ID: "i2", Label: "Landlord", Detail: "+1 555 0134, email for anything non-urgent"},
		{ID: "i3", Label: "Vet clinic hours", Detail: "Mon-Fri 8:00-18:00, Sat 9:00-13:00"},
	}
}
