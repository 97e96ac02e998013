package bump_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/versync-project/versync/internal/bump"
	"github.com/versync-project/versync/pkg/model"
)

func commitOf(typ string, breaking bool) *model.Commit {
	return &model.Commit{Type: typ, Subject: "s", Breaking: breaking}
}

func TestForCommit(t *testing.T) {
	assert.Equal(t, model.BumpMajor, bump.ForCommit(commitOf("fix", true)))
	assert.Equal(t, model.BumpMajor, bump.ForCommit(commitOf("chore", true)))
	assert.Equal(t, model.BumpMinor, bump.ForCommit(commitOf("feat", false)))
	assert.Equal(t, model.BumpPatch, bump.ForCommit(commitOf("fix", false)))
	assert.Equal(t, model.BumpNone, bump.ForCommit(commitOf("chore", false)))
	assert.Equal(t, model.BumpNone, bump.ForCommit(commitOf("docs", false)))
}

func TestResolve_EmptyBatch(t *testing.T) {
	assert.Equal(t, model.BumpNone, bump.Resolve(nil))
}

func TestResolve_MaxWins(t *testing.T) {
	batch := []*model.Commit{
		commitOf("chore", false),
		commitOf("fix", false),
		commitOf("feat", false),
	}
	assert.Equal(t, model.BumpMinor, bump.Resolve(batch))
}

func TestResolve_BreakingDominates(t *testing.T) {
	// A single breaking commit forces major regardless of batch order or size.
	breaking := commitOf("fix", true)
	noise := []*model.Commit{
		commitOf("chore", false), commitOf("docs", false),
		commitOf("fix", false), commitOf("feat", false),
	}

	for i := 0; i <= len(noise); i++ {
		batch := append([]*model.Commit{}, noise[:i]...)
		batch = append(batch, breaking)
		batch = append(batch, noise[i:]...)
		assert.Equal(t, model.BumpMajor, bump.Resolve(batch))
	}
}

func TestResolve_Monotonic(t *testing.T) {
	pool := []*model.Commit{
		commitOf("chore", false), commitOf("fix", false),
		commitOf("feat", false), commitOf("refactor", true),
	}

	rng := rand.New(rand.NewSource(1))
	for trial := 0; trial < 50; trial++ {
		n := 1 + rng.Intn(6)
		batch := make([]*model.Commit, n)
		for i := range batch {
			batch[i] = pool[rng.Intn(len(pool))]
		}
		resolved := bump.Resolve(batch)
		for _, c := range batch {
			assert.GreaterOrEqual(t, resolved, bump.Resolve([]*model.Commit{c}))
		}
	}
}
