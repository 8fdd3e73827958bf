package model

// ClassSales is the number of tickets sold for one wagon class.
type ClassSales struct {
	Class string `json:"class" yaml:"class"`
	Sold  int    `json:"sold" yaml:"sold"`
}

// TicketSales is an ordered table of tickets sold per class. Order drives
// the layout of the composed train.
type TicketSales struct {
	entries []ClassSales
	index   map[string]int
}

// NewTicketSales builds a table from entries in the given order. A repeated
// class keeps its first position and takes the last count.
func NewTicketSales(entries ...ClassSales) TicketSales {
	s := TicketSales{index: make(map[string]int, len(entries))}
	for _, e := range entries {
		if i, ok := s.index[e.Class]; ok {
			s.entries[i].Sold = e.Sold
			continue
		}
		s.index[e.Class] = len(s.entries)
		s.entries = append(s.entries, e)
	}
	return s
}

// Entries returns a copy of the table in insertion order.
func (s TicketSales) Entries() []ClassSales {
	out := make([]ClassSales, len(s.entries))
	copy(out, s.entries)
	return out
}

// Sold returns the count for class and whether the class is present.
func (s TicketSales) Sold(class string) (int, bool) {
	i, ok := s.index[class]
	if !ok {
		return 0, false
	}
	return s.entries[i].Sold, true
}

// Classes lists class names in insertion order.
func (s TicketSales) Classes() []string {
	out := make([]string, len(s.entries))
	for i, e := range s.entries {
		out[i] = e.Class
	}
	return out
}

// Total sums all tickets sold.
func (s TicketSales) Total() int {
	n := 0
	for _, e := range s.entries {
		n += e.Sold
	}
	return n
}

func (s TicketSales) Len() int { return len(s.entries) }
