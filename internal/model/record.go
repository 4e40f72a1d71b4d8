package model

// Record is one todo entry: the item name (unique key) and its completion flag.
type Record struct {
	Name string
	Done bool
}
