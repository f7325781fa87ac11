package confidence

import (
	"testing"

	"github.com/scoresplit/staves/config"
	"github.com/scoresplit/staves/geom"
	"github.com/stretchr/testify/assert"
)

func sys(n int) geom.System {
	staves := make([]geom.Stave, n)
	for i := range staves {
		staves[i] = geom.Stave{i * 100, i*100 + 10, i*100 + 20, i*100 + 30, i*100 + 40}
	}
	return geom.System{Staves: staves}
}

func confirmed() geom.BarlineInfo {
	x, top, bot := 10, 0, 100
	return geom.BarlineInfo{X: &x, Top: &top, Bot: &bot}
}

func TestScoreNoSystemsIsZero(t *testing.T) {
	r := Score(nil, nil, nil, 0, config.Default())
	assert.Equal(t, 0.0, r.Total)
	assert.Contains(t, r.Gap.Reasons[0], "No staves detected")
}

func TestScoreEqualSizesAllConfirmedHighConfidence(t *testing.T) {
	systemsList := []geom.System{sys(4), sys(4), sys(4), sys(4)}
	infos := []geom.BarlineInfo{confirmed(), confirmed(), confirmed(), confirmed()}
	r := Score(systemsList, infos, nil, 16, config.Default())
	assert.GreaterOrEqual(t, r.Total, 0.9)
	assert.Equal(t, 1.0, r.Barlines.Score)
}

func TestScoreUnequalSizesLowersGapButBarlineCompensates(t *testing.T) {
	systemsList := []geom.System{sys(5), sys(5), sys(9)}
	infos := []geom.BarlineInfo{confirmed(), confirmed(), confirmed()}
	r := Score(systemsList, infos, nil, 19, config.Default())
	assert.Less(t, r.Gap.Score, 1.0)
	assert.Equal(t, 1.0, r.Barlines.Score)
}

func TestScoreNoBarlinesFound(t *testing.T) {
	systemsList := []geom.System{sys(5)}
	infos := []geom.BarlineInfo{{}}
	r := Score(systemsList, infos, nil, 5, config.Default())
	assert.Equal(t, 0.0, r.Barlines.Score)
}

func TestScoreOrphansLowerStaveQuality(t *testing.T) {
	systemsList := []geom.System{sys(5)}
	infos := []geom.BarlineInfo{confirmed()}
	r := Score(systemsList, infos, []int{1, 2, 3}, 28, config.Default())
	assert.Less(t, r.Staves.Score, 1.0)
}
