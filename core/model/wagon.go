package model

// WagonClass is a catalog entry: a class name and the seats one wagon offers.
type WagonClass struct {
	Name     string `json:"name" yaml:"name"`
	Capacity int    `json:"capacity" yaml:"capacity"`
}

// Validate checks the capacity invariant.
func (c WagonClass) Validate() error {
	if c.Capacity < 1 {
		return &InvalidCapacityError{Class: c.Name, Capacity: c.Capacity}
	}
	return nil
}

// Wagon is a single composed wagon. Capacity is copied from the class at
// composition time.
type Wagon struct {
	Class    string `json:"class"`
	Capacity int    `json:"capacity"`
}
