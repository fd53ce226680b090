package teamstats

// TeamStats is the canonical per-team, per-season view model. Nil pointers
// mark values no source or derivation could provide. JSON keys are the
// canonical field names so a serialised record normalises back to itself.
type TeamStats struct {
	Team            string         `json:"team"`
	Season          string         `json:"season,omitempty"`
	Points          *float64       `json:"points,omitempty"`
	MatchesPlayed   *int           `json:"matchesPlayed,omitempty"`
	Wins            *int           `json:"wins,omitempty"`
	Draws           *int           `json:"draws,omitempty"`
	Losses          *int           `json:"losses,omitempty"`
	GoalsScored     *int           `json:"goalsScored,omitempty"`
	GoalsConceded   *int           `json:"goalsConceded,omitempty"`
	CleanSheets     *int           `json:"cleanSheets,omitempty"`
	PossessionPct   *float64       `json:"possessionPct,omitempty"`
	WinRate         *float64       `json:"winRate,omitempty"`
	PredictedRank   *int           `json:"predictedRank,omitempty"`
	ManagerRating   *float64       `json:"managerRating,omitempty"`
	TierScore       *float64       `json:"tierScore,omitempty"`
	AvgPoints3Yr    *float64       `json:"avgPoints3Yr,omitempty"`
	RelegationRisk  RelegationRisk `json:"relegationRisk,omitempty"`
	RelegationScore *float64       `json:"relegationScore,omitempty"`
	TopScorer       *TopScorer     `json:"topScorer,omitempty"`
	KeyPlayers      []KeyPlayer    `json:"keyPlayers,omitempty"`
	TransfersIn     []Transfer     `json:"transfersIn,omitempty"`
	TransfersOut    []Transfer     `json:"transfersOut,omitempty"`
}

type TopScorer struct {
	Name  string `json:"name"`
	Goals int    `json:"goals"`
}

type KeyPlayer struct {
	Name     string `json:"name"`
	Position string `json:"position"`
}

// Transfer is one incoming or outgoing move. Counterpart is the selling club
// for arrivals and the buying club for departures.
type Transfer struct {
	Name        string `json:"name"`
	Counterpart string `json:"counterpart"`
	Fee         string `json:"fee"`
}

// Complete reports whether every scalar field is known. Synthetic records
// are always complete.
func (s TeamStats) Complete() bool {
	return s.Team != "" &&
		s.Points != nil &&
		s.MatchesPlayed != nil &&
		s.Wins != nil &&
		s.Draws != nil &&
		s.Losses != nil &&
		s.GoalsScored != nil &&
		s.GoalsConceded != nil &&
		s.CleanSheets != nil &&
		s.PossessionPct != nil &&
		s.WinRate != nil &&
		s.PredictedRank != nil &&
		s.ManagerRating != nil &&
		s.TierScore != nil &&
		s.AvgPoints3Yr != nil &&
		s.RelegationRisk != RiskUnknown &&
		s.TopScorer != nil
}

// CleanSheetsFromConceded estimates clean sheets over a 38-game season.
func CleanSheetsFromConceded(conceded int) int {
	v := int(roundHalfUp(38 - float64(conceded)/2))
	if v < 1 {
		return 1
	}
	return v
}

func Float(v float64) *float64 { return &v }
func Int(v int) *int           { return &v }
