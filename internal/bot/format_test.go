package bot

import (
	"VideoForge/internal/model"
	"VideoForge/internal/repository"
	"VideoForge/internal/service"
	"strings"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateCustomIDRoundTrip(t *testing.T) {
	id, ok := parseRateCustomID(rateCustomID("12345"))
	require.True(t, ok)
	assert.Equal(t, "12345", id)

	_, ok = parseRateCustomID("rate_editor:")
	assert.False(t, ok)
	_, ok = parseRateCustomID("something_else:1")
	assert.False(t, ok)
}

func TestModalValues(t *testing.T) {
	data := discordgo.ModalSubmitInteractionData{
		CustomID: modalSubmitVideo,
		Components: []discordgo.MessageComponent{
			&discordgo.ActionsRow{Components: []discordgo.MessageComponent{
				&discordgo.TextInput{CustomID: fieldTitle, Value: "My Video"},
			}},
			&discordgo.ActionsRow{Components: []discordgo.MessageComponent{
				&discordgo.TextInput{CustomID: fieldDescription, Value: "desc"},
			}},
			&discordgo.ActionsRow{Components: []discordgo.MessageComponent{
				&discordgo.TextInput{CustomID: fieldLink, Value: "https://drive.example.com/x"},
			}},
		},
	}
	in := submitInputFrom(modalValues(data), &discordgo.User{ID: "42", Username: "maker"})
	assert.Equal(t, service.SubmitInput{
		Title:         "My Video",
		Description:   "desc",
		StorageLink:   "https://drive.example.com/x",
		SubmitterID:   "42",
		SubmitterName: "maker",
	}, in)
}

func TestBarChartScalesToPeak(t *testing.T) {
	chart := BarChart([]service.MonthCount{
		{Month: "2024-01", Total: 10},
		{Month: "2024-02", Total: 5},
		{Month: "2024-03", Total: 1},
	}, 10)
	lines := strings.Split(chart, "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, 10, strings.Count(lines[0], "█"))
	assert.Equal(t, 5, strings.Count(lines[1], "█"))
	// 非零的月份至少画一格
	assert.Equal(t, 1, strings.Count(lines[2], "█"))
	assert.True(t, strings.HasSuffix(lines[0], " 10"))
}

func TestBarChartEmpty(t *testing.T) {
	assert.Equal(t, "No data", BarChart(nil, 10))
}

func TestHasRole(t *testing.T) {
	m := &discordgo.Member{Roles: []string{"1", "2"}}
	assert.True(t, hasRole(m, "2"))
	assert.False(t, hasRole(m, "3"))
	assert.False(t, hasRole(m, ""))
	assert.False(t, hasRole(nil, "1"))
}

func TestCommandsAreUniqueAndDescribed(t *testing.T) {
	seen := map[string]bool{}
	b := &Bot{}
	handlers := b.commandHandlers()
	for _, c := range Commands() {
		assert.False(t, seen[c.Name], c.Name)
		seen[c.Name] = true
		assert.NotEmpty(t, c.Description, c.Name)
		assert.Contains(t, handlers, c.Name)
	}
	assert.Len(t, handlers, len(seen))
}

func TestLeaderboardEmbeds(t *testing.T) {
	embed := leaderboardEmbed([]repository.MakerCount{{Maker: "1", VideoCount: 3}, {Maker: "2", VideoCount: 1}})
	assert.Equal(t, "1. <@1>: 3 videos\n2. <@2>: 1 videos", embed.Description)

	embed = editorLeaderboardEmbed([]repository.EditorScore{{EditorID: "9", AvgRating: 4.5, TotalRatings: 2}})
	assert.Equal(t, "1. <@9>: 4.50 ⭐ (2 ratings)", embed.Description)

	assert.Equal(t, "No videos submitted yet.", leaderboardEmbed(nil).Description)
}

func TestVideoEmbedUnassigned(t *testing.T) {
	v := &model.VideoRequest{Title: "t", Description: "d", StorageLink: "https://x", Maker: "7", Status: model.StatusThumbnailFailed}
	embed := videoEmbed(v)
	assert.Equal(t, "Not assigned", embed.Fields[2].Value)
	assert.Equal(t, "Thumbnail Failed", embed.Fields[0].Value)
}

func TestConfigEmbedFooter(t *testing.T) {
	embed := configEmbed(map[string]string{"a": "", "b": "x"}, []string{"github_token"})
	require.Len(t, embed.Fields, 2)
	assert.Equal(t, "Not set", embed.Fields[0].Value)
	assert.Contains(t, embed.Footer.Text, "github_token")

	embed = configEmbed(map[string]string{}, nil)
	assert.Equal(t, "Automation: enabled", embed.Footer.Text)
}

func TestThreadName(t *testing.T) {
	assert.Equal(t, "bob: upload broken", threadName("bob", "  upload broken "))
	assert.Equal(t, "bob: help", threadName("bob", ""))
	assert.Len(t, []rune(threadName("u", strings.Repeat("x", 200))), 100)
}
