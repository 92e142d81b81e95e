package stats

// Achievement keys. Every key listed here must have an entry in the bonus
// table; the engine refuses to award points for keys it does not know.
const (
	AchWarrior          = "warrior"
	AchCenturion        = "centurion"
	AchCenturionSupreme = "centurionSupreme"
	AchGladiator        = "gladiator"
	AchPerfectWeek      = "perfectWeek"
	AchNoMercy          = "noMercy"
	AchMarathonRunner   = "marathonRunner"
	AchVeteran          = "veteran"
	AchGoldRush         = "goldRush"
	AchPlatinumRush     = "platinumRush"
	AchMMRMillionaire   = "mmrMillionaire"
	AchEliteWarrior     = "eliteWarrior"
	AchWinStreak3       = "winStreak3"
	AchWinStreak5       = "winStreak5"
	AchWinStreak10      = "winStreak10"
	AchWinStreak15      = "winStreak15"
	AchLoseStreak3      = "loseStreak3"
	AchLoseStreak10     = "loseStreak10"
	AchGiantSlayer      = "giantSlayer"
	AchTitanSlayer      = "titanSlayer"
	AchDavidVsGoliath   = "davidVsGoliath"
	AchComeback         = "comeback"
	AchPersistent       = "persistent"
	AchBnlRobber        = "bnlRobber"
	AchBnlVictim        = "bnlVictim"
	AchBnlRivalry       = "bnlRivalry"
	AchBnlDominator     = "bnlDominator"
)

// streakWindow is the number of recent matches the evaluator looks at for
// streak, challenge and recent-form achievements. The engine already caps
// persisted histories at 20 entries, but the evaluator re-derives the
// window itself because the scheduler can hand it unbounded history.
const streakWindow = 20

// DefaultBonuses returns the production point bonus per achievement key.
func DefaultBonuses() BonusTable {
	return BonusTable{
		AchWarrior:          50,
		AchCenturion:        100,
		AchCenturionSupreme: 200,
		AchGladiator:        40,
		AchPerfectWeek:      80,
		AchNoMercy:          60,
		AchMarathonRunner:   50,
		AchVeteran:          150,
		AchGoldRush:         100,
		AchPlatinumRush:     200,
		AchMMRMillionaire:   100,
		AchEliteWarrior:     200,
		AchWinStreak3:       30,
		AchWinStreak5:       50,
		AchWinStreak10:      100,
		AchWinStreak15:      150,
		AchLoseStreak3:      10,
		AchLoseStreak10:     25,
		AchGiantSlayer:      30,
		AchTitanSlayer:      60,
		AchDavidVsGoliath:   120,
		AchComeback:         40,
		AchPersistent:       50,
		AchBnlRobber:        25,
		AchBnlVictim:        5,
		AchBnlRivalry:       30,
		AchBnlDominator:     75,
	}
}

// EvaluateAchievements reports every achievement key that qualifies right
// now from the given counters and history. It is stateless: merging the
// result with previously earned achievements is the caller's job.
func EvaluateAchievements(in EvalInput) []string {
	wins := clampNonNegative(in.Wins)
	totalGames := clampNonNegative(in.TotalGames)
	mmr := clampNonNegative(in.MMR)
	points := in.Points // points may legitimately be negative

	var keys []string
	add := func(key string) { keys = append(keys, key) }

	// Milestone tiers: highest wins within a tier.
	switch {
	case wins >= 200:
		add(AchCenturionSupreme)
	case wins >= 100:
		add(AchCenturion)
	case wins >= 50:
		add(AchWarrior)
	}
	if wins >= 50 {
		add(AchNoMercy)
	}
	if totalGames >= 500 {
		add(AchVeteran)
	}
	if totalGames >= 100 {
		add(AchMarathonRunner)
	}
	switch {
	case points >= 2000:
		add(AchPlatinumRush)
	case points >= 1000:
		add(AchGoldRush)
	}
	switch {
	case mmr >= 2200:
		add(AchEliteWarrior)
	case mmr >= 2000:
		add(AchMMRMillionaire)
	}

	window := in.History
	if len(window) > streakWindow {
		window = window[len(window)-streakWindow:]
	}

	recentWins := 0
	for _, entry := range window {
		if entry.Result == OutcomeWin {
			recentWins++
		}
	}
	switch {
	case recentWins >= 20:
		add(AchPerfectWeek)
	case recentWins >= 10:
		add(AchGladiator)
	}

	maxWinRun, maxLossRun := longestRuns(window)
	switch {
	case maxWinRun >= 15:
		add(AchWinStreak15)
	case maxWinRun >= 10:
		add(AchWinStreak10)
	case maxWinRun >= 5:
		add(AchWinStreak5)
	case maxWinRun >= 3:
		add(AchWinStreak3)
	}
	switch {
	case maxLossRun >= 10:
		add(AchLoseStreak10)
	case maxLossRun >= 3:
		add(AchLoseStreak3)
	}

	// Upset wins are evaluated independently: a single huge upset unlocks
	// all three thresholds it clears.
	var giant, titan, goliath bool
	for _, entry := range window {
		if entry.Result != OutcomeWin {
			continue
		}
		if entry.MMRDiff >= 50 {
			giant = true
		}
		if entry.MMRDiff >= 100 {
			titan = true
		}
		if entry.MMRDiff >= 200 {
			goliath = true
		}
	}
	if giant {
		add(AchGiantSlayer)
	}
	if titan {
		add(AchTitanSlayer)
	}
	if goliath {
		add(AchDavidVsGoliath)
	}

	if hasComebackPattern(window) {
		add(AchComeback)
	}
	if hasPersistentPattern(window) {
		add(AchPersistent)
	}

	// Rivalry counters run over the full supplied history, not the window.
	bnlWins, bnlLosses := 0, 0
	for _, entry := range in.History {
		if !entry.IsBnlMatch {
			continue
		}
		if entry.Result == OutcomeWin {
			bnlWins++
		} else {
			bnlLosses++
		}
	}
	if bnlWins > 0 {
		add(AchBnlRobber)
	}
	if bnlLosses > 0 {
		add(AchBnlVictim)
	}
	if bnlWins+bnlLosses >= 5 {
		add(AchBnlRivalry)
	}
	if bnlWins >= 10 {
		add(AchBnlDominator)
	}

	return keys
}

func clampNonNegative(n int) int {
	if n < 0 {
		return 0
	}
	return n
}

// longestRuns returns the longest consecutive win run and loss run in the
// given window.
func longestRuns(window []HistoryEntry) (maxWinRun, maxLossRun int) {
	winRun, lossRun := 0, 0
	for _, entry := range window {
		if entry.Result == OutcomeWin {
			winRun++
			lossRun = 0
		} else {
			lossRun++
			winRun = 0
		}
		if winRun > maxWinRun {
			maxWinRun = winRun
		}
		if lossRun > maxLossRun {
			maxLossRun = lossRun
		}
	}
	return maxWinRun, maxLossRun
}

// hasComebackPattern reports whether the window contains a consecutive
// win, loss, loss, loss sequence in chronological order.
func hasComebackPattern(window []HistoryEntry) bool {
	for i := 0; i+3 < len(window); i++ {
		if window[i].Result == OutcomeWin &&
			window[i+1].Result == OutcomeLoss &&
			window[i+2].Result == OutcomeLoss &&
			window[i+3].Result == OutcomeLoss {
			return true
		}
	}
	return false
}

// hasPersistentPattern reports whether the window contains ten consecutive
// matches where the first five are wins and the next five are losses.
func hasPersistentPattern(window []HistoryEntry) bool {
	for i := 0; i+9 < len(window); i++ {
		match := true
		for j := 0; j < 5 && match; j++ {
			if window[i+j].Result != OutcomeWin {
				match = false
			}
		}
		for j := 5; j < 10 && match; j++ {
			if window[i+j].Result != OutcomeLoss {
				match = false
			}
		}
		if match {
			return true
		}
	}
	return false
}
