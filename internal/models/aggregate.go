package models

// Aggregate is the whole persisted document. It is always written and read as
// a unit.
type Aggregate struct {
	Campaigns    []Campaign   `json:"campaigns"`
	Characters   []Character  `json:"characters"`
	DiaryEntries []DiaryEntry `json:"diaryEntries"`
}

// EmptyAggregate returns an aggregate whose collections are empty but non-nil.
func EmptyAggregate() Aggregate {
	return Aggregate{
		Campaigns:    []Campaign{},
		Characters:   []Character{},
		DiaryEntries: []DiaryEntry{},
	}
}

// Normalize replaces nil collections with empty ones. A nil collection and an
// empty one are equivalent once persisted.
func (a Aggregate) Normalize() Aggregate {
	if a.Campaigns == nil {
		a.Campaigns = []Campaign{}
	}
	if a.Characters == nil {
		a.Characters = []Character{}
	}
	if a.DiaryEntries == nil {
		a.DiaryEntries = []DiaryEntry{}
	}
	return a
}

// IsEmpty reports whether every collection is empty.
func (a Aggregate) IsEmpty() bool {
	return len(a.Campaigns) == 0 && len(a.Characters) == 0 && len(a.DiaryEntries) == 0
}

// Counts summarizes the aggregate for status lines.
type Counts struct {
	Campaigns    int
	Characters   int
	DiaryEntries int
}

func (a Aggregate) Counts() Counts {
	return Counts{
		Campaigns:    len(a.Campaigns),
		Characters:   len(a.Characters),
		DiaryEntries: len(a.DiaryEntries),
	}
}
