package main

import (
	"testing"

	"github.com/DjordjeVuckovic/semtab-eval/internal/annotation"
	"github.com/DjordjeVuckovic/semtab-eval/internal/scorer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearScoringEnv(t *testing.T) {
	for _, k := range []string{"CEA_K", "CTA_MODE", "CTA_DECAY", "CTA_MAX_DEPTH", "CTA_DECAY_BASE", "CPA_IGNORE_SUB_PROPERTIES", "ID_KEEP_CASE"} {
		t.Setenv(k, "")
	}
}

func TestLoadScoring(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		clearScoringEnv(t)
		cfg, err := loadScoring()
		require.NoError(t, err)
		assert.Equal(t, 1, cfg.CEAK)
		assert.False(t, cfg.IgnoreSubProperties)
		assert.Equal(t, scorer.ExactOnly, cfg.AncestorPolicy.Mode)
		assert.Equal(t, scorer.DefaultMaxDepth, cfg.AncestorPolicy.MaxDepth)
		assert.Equal(t, annotation.DefaultPrefixes, cfg.Normalizer.Prefixes)
	})

	t.Run("from env", func(t *testing.T) {
		clearScoringEnv(t)
		t.Setenv("CEA_K", "3")
		t.Setenv("CTA_MODE", "max_ancestor_depth")
		t.Setenv("CTA_DECAY", "linear")
		t.Setenv("CTA_MAX_DEPTH", "2")
		t.Setenv("CTA_DECAY_BASE", "0.5")
		t.Setenv("CPA_IGNORE_SUB_PROPERTIES", "true")
		t.Setenv("ID_PREFIXES", "http://dbpedia.org/resource/")

		cfg, err := loadScoring()
		require.NoError(t, err)
		assert.Equal(t, 3, cfg.CEAK)
		assert.True(t, cfg.IgnoreSubProperties)
		assert.Equal(t, scorer.AncestorPolicy{
			Mode:      scorer.MaxAncestorDepth,
			MaxDepth:  2,
			Decay:     scorer.LinearDecay,
			Base:      0.5,
			Precision: scorer.DefaultPrecision,
		}, cfg.AncestorPolicy)
		assert.Equal(t, []string{"http://dbpedia.org/resource/"}, cfg.Normalizer.Prefixes)
	})

	t.Run("invalid values", func(t *testing.T) {
		for key, val := range map[string]string{
			"CEA_K":          "zero",
			"CTA_MAX_DEPTH":  "-1",
			"CTA_DECAY_BASE": "abc",
			"CTA_MODE":       "fuzzy",
		} {
			t.Run(key, func(t *testing.T) {
				clearScoringEnv(t)
				t.Setenv(key, val)
				_, err := loadScoring()
				assert.Error(t, err)
			})
		}
	})
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, splitList(" a, ,b "))
	assert.Empty(t, splitList(""))
}
