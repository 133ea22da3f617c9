package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusNextIsLinear(t *testing.T) {
	s := StatusSubmitted
	var seen []Status
	for {
		next, ok := s.Next()
		if !ok {
			break
		}
		seen = append(seen, next)
		s = next
	}
	assert.Equal(t, []Status{StatusEdited, StatusThumbnailAdded, StatusPublished}, seen)

	_, ok := StatusEditFailed.Next()
	assert.False(t, ok)
}

func TestStatusDisplay(t *testing.T) {
	assert.Equal(t, "Submitted", StatusSubmitted.Display())
	assert.Equal(t, "Thumbnail Added", StatusThumbnailAdded.Display())
}

func TestTransitionFor(t *testing.T) {
	tr, err := TransitionFor(AssetEdited)
	require.NoError(t, err)
	assert.Equal(t, StatusSubmitted, tr.From)
	assert.Equal(t, StatusEdited, tr.To)
	assert.Equal(t, StatusEditFailed, tr.Failed)

	tr, err = TransitionFor(AssetThumbnail)
	require.NoError(t, err)
	assert.Equal(t, StatusEdited, tr.From)
	assert.Equal(t, StatusThumbnailAdded, tr.To)

	_, err = TransitionFor("poster")
	assert.Error(t, err)
}

func TestPublishable(t *testing.T) {
	ref := "1/edited/a.mp4"
	thumb := "1/thumbnail/a.png"
	v := &VideoRequest{Status: StatusThumbnailAdded, EditedAssetRef: &ref}
	assert.False(t, v.Publishable())
	v.ThumbnailAssetRef = &thumb
	assert.True(t, v.Publishable())
	v.Status = StatusEdited
	assert.False(t, v.Publishable())
}
