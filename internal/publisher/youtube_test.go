package publisher

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
)

func TestFullDescriptionAppendsCredits(t *testing.T) {
	up := Upload{
		Description: "A trip to the coast",
		Credits:     Credits{Maker: "maya", Editor: "ed", ThumbnailMaker: ""},
	}
	desc := up.FullDescription()
	assert.True(t, strings.HasPrefix(desc, "A trip to the coast\n\nCredits:\n"))
	assert.Contains(t, desc, "Created by: maya")
	assert.Contains(t, desc, "Edited by: ed")
	assert.Contains(t, desc, "Thumbnail by: unknown")
}

func TestTokenSourceRequiresRefreshToken(t *testing.T) {
	_, err := TokenSource(context.Background(), []byte(`{"client_id":"a","client_secret":"b"}`))
	assert.Error(t, err)

	_, err = TokenSource(context.Background(), []byte(`not json`))
	assert.Error(t, err)

	ts, err := TokenSource(context.Background(), []byte(`{"token":"t","refresh_token":"r","client_id":"a","client_secret":"b"}`))
	require.NoError(t, err)
	assert.NotNil(t, ts)
}

func TestPublishNeedsVideo(t *testing.T) {
	y, err := New(context.Background(), nil, "", option.WithoutAuthentication(), option.WithEndpoint("http://127.0.0.1:1/"))
	require.NoError(t, err)
	assert.Equal(t, "private", y.privacy)

	_, err = y.Publish(context.Background(), Upload{Title: "x"})
	assert.Error(t, err)
}
