package domain

// FacetBundle is the fixed dashboard payload. Every facet is always present;
// series are dense where their window is fixed.
type FacetBundle struct {
	Overview               Overview               `json:"overview"`
	MonthlyRevenue         []MonthlyRevenue       `json:"monthlyRevenue"`
	PlatformShare          []PlatformValue        `json:"platformShare"`
	RevenueByMonthPlatform []MonthPlatformRevenue `json:"revenueByMonthPlatform"`
	TerritoryRevenue       []TerritoryValue       `json:"territoryRevenue"`
	YearlyStreams          YearlyStreams          `json:"yearlyStreams"`
	WeeklyStreams          []WeekdayStreams       `json:"weeklyStreams"`
	MusicStreamComparison  StreamComparison       `json:"musicStreamComparison"`
	StreamingTrends        StreamingTrends        `json:"streamingTrends"`
}

type Overview struct {
	TotalRevenue string `json:"totalRevenue"` // 2 decimals
	TotalStreams int64  `json:"totalStreams"` // event count
	TotalPlays   int64  `json:"totalPlays"`   // sum of play counts
	TopRelease   string `json:"topRelease"`
	TopTrack     string `json:"topTrack"`
	TopArtist    string `json:"topArtist"`
}

type MonthlyRevenue struct {
	Month   string  `json:"month"`
	Revenue float64 `json:"revenue"`
}

type PlatformValue struct {
	Platform string  `json:"platform"`
	Value    float64 `json:"value"`
}

type TerritoryValue struct {
	Territory string  `json:"territory"`
	Value     float64 `json:"value"`
}

type MonthPlatformRevenue struct {
	Month     string          `json:"month"`
	Label     string          `json:"label"`
	Platforms []PlatformValue `json:"platforms"`
}

type YearlyStreams struct {
	Data    []YearStreams `json:"data"`
	Summary YearOverYear  `json:"summary"`
}

type YearStreams struct {
	Year    int     `json:"year"`
	Streams int64   `json:"streams"`
	Revenue float64 `json:"revenue"`
}

type YearOverYear struct {
	CurrentYear      int     `json:"currentYear"`
	PreviousYear     int     `json:"previousYear"`
	CurrentStreams   int64   `json:"currentStreams"`
	PreviousStreams  int64   `json:"previousStreams"`
	PercentageChange float64 `json:"percentageChange"`
}

type WeekdayStreams struct {
	Day     string `json:"day"`
	Date    string `json:"date"`
	Streams int64  `json:"streams"`
}

type StreamComparison struct {
	Months       []string   `json:"months"`
	PreviousYear YearSeries `json:"previousYear"`
	CurrentYear  YearSeries `json:"currentYear"`
}

// YearSeries holds twelve monthly values, January first.
type YearSeries struct {
	Year    int       `json:"year"`
	Streams []int64   `json:"streams"`
	Revenue []float64 `json:"revenue"`
}

type StreamingTrends struct {
	Platforms []string     `json:"platforms"`
	Data      []TrendMonth `json:"data"`
	Period    string       `json:"period"`
}

type TrendMonth struct {
	Month     string            `json:"month"`
	Label     string            `json:"label"`
	Streams   int64             `json:"streams"`
	Platforms []PlatformStreams `json:"platforms"`
}

type PlatformStreams struct {
	Platform string `json:"platform"`
	Streams  int64  `json:"streams"`
}
