package options

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type testConfig struct {
	budget int
	label  string
}

var errNegativeBudget = errors.New("budget cannot be negative")

func withBudget(n int) Option[*testConfig] {
	return New(func(c *testConfig) error {
		if n < 0 {
			return errNegativeBudget
		}
		c.budget = n

		return nil
	})
}

func withLabel(s string) Option[*testConfig] {
	return New(func(c *testConfig) error {
		c.label = s

		return nil
	})
}

func TestApplyRunsOptionsInOrder(t *testing.T) {
	cfg := &testConfig{}

	err := Apply(cfg, withBudget(10), withLabel("a"), withLabel("b"))
	require.NoError(t, err)
	require.Equal(t, 10, cfg.budget)
	require.Equal(t, "b", cfg.label)
}

func TestApplyStopsAtFirstError(t *testing.T) {
	cfg := &testConfig{}

	err := Apply(cfg, withBudget(5), withBudget(-1), withLabel("unreached"))
	require.ErrorIs(t, err, errNegativeBudget)
	require.Equal(t, 5, cfg.budget)
	require.Equal(t, "", cfg.label)
}

func TestApplyEmpty(t *testing.T) {
	cfg := &testConfig{}
	require.NoError(t, Apply(cfg))
	require.Equal(t, testConfig{}, *cfg)
}

func TestOptionOverOtherTargetTypes(t *testing.T) {
	var n int
	opt := New(func(p *int) error {
		*p = 42

		return nil
	})

	require.NoError(t, Apply(&n, opt))
	require.Equal(t, 42, n)
}
