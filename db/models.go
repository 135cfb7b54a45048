package db

type Case struct {
	ID               int64
	Name             string
	ProposedBudget   int64
	AwardedTotal     int64
	Status           string
	Vendor           string
	HasBreakdown     int64
	ConstructionCost int64
	PollutionCost    int64
	ManagementCost   int64
	MiscCost         int64
}

type Payment struct {
	Seq      int64
	ID       string
	CaseName string
	Stage    string
	Amount   int64
	PaidOn   string
	Invoice  string
}

type Photo struct {
	ID       string
	MimeType string
	Data     []byte
}

type ProjectLine struct {
	ID            int64
	Name          string
	Category      string
	Content       string
	Location      string
	ProposedBy    string
	AssignedStaff string
	Amount        int64
	CaseLink      string
	PhotoUrls     string
}

type Revision struct {
	ID    int64
	Value int64
}

type SettingCategory struct {
	Name     string
	Budget   int64
	Position int64
}

type SettingStaff struct {
	ID       string
	Name     string
	Position int64
}

type SettingSuggester struct {
	Name     string
	Quota    int64
	Position int64
}
