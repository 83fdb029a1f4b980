package models

import "time"

const (
	DirectionIncrease = "increase"
	DirectionDecrease = "decrease"
)

type Point struct {
	Date  time.Time `json:"date"`
	Sales float64   `json:"sales"`
}

type Series struct {
	Region string  `json:"region"`
	Name   string  `json:"name"`
	Mode   string  `json:"mode"`
	Points []Point `json:"points"`
}

type Marker struct {
	Date  time.Time `json:"date"`
	Label string    `json:"label"`
	Dash  string    `json:"dash"`
	Color string    `json:"color"`
}

type Chart struct {
	Title  string   `json:"title"`
	XTitle string   `json:"x_title"`
	YTitle string   `json:"y_title"`
	Series []Series `json:"series"`
	Marker Marker   `json:"marker"`
}

type Summary struct {
	BeforeTotal   float64 `json:"before_total"`
	BeforeAverage float64 `json:"before_average"`
	BeforeCount   int     `json:"before_count"`
	AfterTotal    float64 `json:"after_total"`
	AfterAverage  float64 `json:"after_average"`
	AfterCount    int     `json:"after_count"`
	ChangePercent float64 `json:"change_percent"`
	Direction     string  `json:"direction"`
}

type View struct {
	Region  string    `json:"region"`
	Cutover time.Time `json:"cutover"`
	Chart   Chart     `json:"chart"`
	Summary Summary   `json:"summary"`
}

type RegionOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

type DatasetStats struct {
	RecordCount int       `json:"record_count"`
	Regions     []string  `json:"regions"`
	FirstDate   time.Time `json:"first_date"`
	LastDate    time.Time `json:"last_date"`
	LoadedAt    time.Time `json:"loaded_at"`
	Source      string    `json:"source"`
}
