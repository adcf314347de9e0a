package types

// Summary counts gold labels over a set of documents. Tokens whose tag is not
// on the allow-list are counted as Other (reported as X).
type Summary struct {
	Documents int            `json:"documents"`
	Tokens    int            `json:"tokens"`
	Spans     int            `json:"spans"`
	Labels    map[string]int `json:"labels"`
	Other     int            `json:"other"`
}

type TaggingResponse struct {
	Tid       string     `json:"tid"`
	Config    string     `json:"config"`
	Split     string     `json:"split"`
	Documents []Document `json:"documents"`
	Summary   Summary    `json:"summary"`
}
