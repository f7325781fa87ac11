package rescue

import (
	"testing"

	"github.com/scoresplit/staves/config"
	"github.com/scoresplit/staves/geom"
	"github.com/stretchr/testify/assert"
)

func TestRescueNoOrphansIsNoOp(t *testing.T) {
	cfg := config.Default()
	existing := []geom.Stave{{100, 110, 120, 130, 140}}
	sts, orphans := Rescue(make([]float64, 500), existing, nil, cfg)
	assert.Equal(t, existing, sts)
	assert.Empty(t, orphans)
}

func TestRescueNoExistingStavesIsNoOp(t *testing.T) {
	cfg := config.Default()
	sts, orphans := Rescue(make([]float64, 500), nil, []int{10, 20}, cfg)
	assert.Empty(t, sts)
	assert.Equal(t, []int{10, 20}, orphans)
}
