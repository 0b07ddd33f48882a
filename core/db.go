package core

type DBOrdering struct {
	Field     string
	Ascending bool
}

func (ord DBOrdering) String() string {
	direction := "DESC"
	if ord.Ascending {
		direction = "ASC"
	}
	return ord.Field + " " + direction
}

// Paging limits the number of records returned by a query. A zero Limit means no limit.
type Paging struct {
	Limit  int `query:"limit"`
	Offset int `query:"offset"`
}

// Clean clamps Limit into [0, max] and Offset to >= 0.
func (p *Paging) Clean(max int) {
	if p.Limit < 0 || p.Limit > max {
		p.Limit = max
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
}
