package main

import (
	"VideoForge/internal/model"
	"VideoForge/internal/testutil"
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedKeepsContributorPairs(t *testing.T) {
	db := testutil.NewDB(t)
	res, err := seed(context.Background(), db, seedOptions{
		Users: 3, Makers: 4, Editors: 3, Videos: 40, Ratings: 10, RandSeed: 7,
	})
	require.NoError(t, err)
	assert.Equal(t, 40, res.Videos)
	assert.Equal(t, 10, res.Ratings)

	var videos []model.VideoRequest
	require.NoError(t, db.Find(&videos).Error)
	require.Len(t, videos, 40)
	for _, v := range videos {
		assert.Equal(t, v.Editor == nil, v.EditedAssetRef == nil, "video %d", v.ID)
		assert.Equal(t, v.ThumbnailMaker == nil, v.ThumbnailAssetRef == nil, "video %d", v.ID)
		if v.Status == model.StatusSubmitted {
			assert.Nil(t, v.Editor)
		}
		if v.Status == model.StatusThumbnailAdded || v.Status == model.StatusPublished {
			assert.NotNil(t, v.ThumbnailMaker)
			assert.NotNil(t, v.Editor)
		}
	}

	// 同一对(editor, rater)只有一行
	var ratings int64
	require.NoError(t, db.Model(&model.EditorRating{}).Count(&ratings).Error)
	assert.LessOrEqual(t, ratings, int64(10))
}

func TestSeedReset(t *testing.T) {
	db := testutil.NewDB(t)
	_, err := seed(context.Background(), db, seedOptions{Makers: 1, Editors: 1, Videos: 5, RandSeed: 1})
	require.NoError(t, err)
	_, err = seed(context.Background(), db, seedOptions{Makers: 1, Editors: 1, Videos: 2, Reset: true, RandSeed: 2})
	require.NoError(t, err)

	var n int64
	require.NoError(t, db.Model(&model.VideoRequest{}).Count(&n).Error)
	assert.Equal(t, int64(2), n)
}

func TestSeedRejectsEmptyPools(t *testing.T) {
	_, err := seed(context.Background(), testutil.NewDB(t), seedOptions{Makers: 0, Editors: 1})
	assert.Error(t, err)
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DATABASE_DSN", filepath.Join(dir, "cli.db"))
	t.Setenv("LOG_FILE", filepath.Join(dir, "cli.log"))

	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append(args, "--env-file", filepath.Join(dir, "missing.env")))
	err := cmd.Execute()
	return out.String(), err
}

func TestConfigShowRedactsSecrets(t *testing.T) {
	t.Setenv("GITHUB_TOKEN", "ghp_supersecret")
	out, err := runCLI(t, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "[REDACTED]")
	assert.NotContains(t, out, "ghp_supersecret")
	assert.Contains(t, out, "Automation disabled, missing:")
}

func TestLeaderboardOnEmptyDatabase(t *testing.T) {
	out, err := runCLI(t, "leaderboard", "-n", "5")
	require.NoError(t, err)
	assert.Contains(t, out, "MAKER")
}

func TestVideoDeleteRejectsBadID(t *testing.T) {
	_, err := runCLI(t, "video", "delete", "abc")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid video id")
}

func TestRenderTablePadsShortRows(t *testing.T) {
	out := renderTable([]string{"A", "B"}, [][]string{{"1"}}, []columnAlignment{alignRight})
	assert.True(t, strings.Contains(out, "A") && strings.Contains(out, "B"))
	assert.Empty(t, renderTable(nil, nil, nil))
}
