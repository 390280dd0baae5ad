package entities

import "errors"

// MenuItem is read-only collaborator data from the menu catalog. The core only
// snapshots name and price from it; the catalog owns everything else.
type MenuItem struct {
	ID        string
	Name      string
	Category  string
	Price     int
	Available bool
	Veg       bool
}

var ErrItemNotFound = errors.New("menu item not found")
