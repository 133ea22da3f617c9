package bot

import (
	"VideoForge/internal/model"
	"VideoForge/internal/notify"
	"VideoForge/internal/repository"
	"VideoForge/internal/service"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"
)

const (
	rateCustomIDPrefix = "rate_editor:"
	chartWidth         = 20
)

func itoa(n int) string { return strconv.Itoa(n) }

func stars(n int) string {
	if n < 0 {
		n = 0
	}
	return strings.Repeat("⭐", n)
}

func rateCustomID(editorID string) string {
	return rateCustomIDPrefix + editorID
}

func parseRateCustomID(customID string) (string, bool) {
	editorID, ok := strings.CutPrefix(customID, rateCustomIDPrefix)
	if !ok || editorID == "" {
		return "", false
	}
	return editorID, true
}

// modalValues 把表单提交里嵌套的ActionsRow/TextInput摊平成 customID → value
func modalValues(data discordgo.ModalSubmitInteractionData) map[string]string {
	values := make(map[string]string)
	for _, c := range data.Components {
		row, ok := c.(*discordgo.ActionsRow)
		if !ok {
			continue
		}
		for _, inner := range row.Components {
			if ti, ok := inner.(*discordgo.TextInput); ok {
				values[ti.CustomID] = ti.Value
			}
		}
	}
	return values
}

func submitInputFrom(values map[string]string, user *discordgo.User) service.SubmitInput {
	in := service.SubmitInput{
		Title:       values[fieldTitle],
		Description: values[fieldDescription],
		StorageLink: values[fieldLink],
	}
	if user != nil {
		in.SubmitterID = user.ID
		in.SubmitterName = user.Username
	}
	return in
}

// BarChart 把月度统计画成等宽文本柱状图，最长的一根占满width
func BarChart(rows []service.MonthCount, width int) string {
	if len(rows) == 0 {
		return "No data"
	}
	if width <= 0 {
		width = chartWidth
	}
	var peak int64
	for _, r := range rows {
		if r.Total > peak {
			peak = r.Total
		}
	}
	var sb strings.Builder
	for _, r := range rows {
		n := 0
		if peak > 0 {
			n = int(r.Total * int64(width) / peak)
		}
		if n == 0 && r.Total > 0 {
			n = 1
		}
		fmt.Fprintf(&sb, "%s | %-*s %d\n", r.Month, width, strings.Repeat("█", n), r.Total)
	}
	return strings.TrimRight(sb.String(), "\n")
}

func helpEmbed() *discordgo.MessageEmbed {
	descriptions := map[string]string{}
	var names []string
	for _, c := range Commands() {
		descriptions[c.Name] = c.Description
		names = append(names, c.Name)
	}
	fields := make([]*discordgo.MessageEmbedField, 0, len(names))
	for _, n := range names {
		fields = append(fields, &discordgo.MessageEmbedField{Name: "/" + n, Value: descriptions[n]})
	}
	return &discordgo.MessageEmbed{
		Title:       "VideoForge Commands",
		Description: "Attachments posted in the editor and thumbnail channels advance the oldest waiting video.",
		Color:       notify.ColorBlue,
		Fields:      fields,
	}
}

func statusEmbed(videos []model.VideoRequest) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{Title: "Your Recent Videos", Color: notify.ColorBlue}
	if len(videos) == 0 {
		embed.Description = "You haven't submitted any videos yet."
		return embed
	}
	for _, v := range videos {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  fmt.Sprintf("#%d %s", v.ID, notify.Truncate(v.Title, 200)),
			Value: v.Status.Display(),
		})
	}
	return embed
}

func leaderboardEmbed(rows []repository.MakerCount) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{Title: "🏆 Top Video Makers", Color: notify.ColorGold}
	if len(rows) == 0 {
		embed.Description = "No videos submitted yet."
		return embed
	}
	lines := make([]string, 0, len(rows))
	for i, r := range rows {
		lines = append(lines, fmt.Sprintf("%d. %s: %d videos", i+1, mention(r.Maker), r.VideoCount))
	}
	embed.Description = strings.Join(lines, "\n")
	return embed
}

func editorLeaderboardEmbed(rows []repository.EditorScore) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{Title: "🎬 Top Rated Editors", Color: notify.ColorGold}
	if len(rows) == 0 {
		embed.Description = "No editors have been rated yet."
		return embed
	}
	lines := make([]string, 0, len(rows))
	for i, r := range rows {
		lines = append(lines, fmt.Sprintf("%d. %s: %.2f ⭐ (%d ratings)", i+1, mention(r.EditorID), r.AvgRating, r.TotalRatings))
	}
	embed.Description = strings.Join(lines, "\n")
	return embed
}

func videoEmbed(v *model.VideoRequest) *discordgo.MessageEmbed {
	orNone := func(p *string) string {
		if p == nil || *p == "" {
			return "Not assigned"
		}
		return mention(*p)
	}
	color := notify.ColorBlue
	switch v.Status {
	case model.StatusPublished:
		color = notify.ColorGreen
	case model.StatusEditFailed, model.StatusThumbnailFailed:
		color = notify.ColorRed
	}
	return &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("Video #%d: %s", v.ID, notify.Truncate(v.Title, 200)),
		Description: notify.Truncate(v.Description, 1024),
		Color:       color,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Status", Value: v.Status.Display(), Inline: true},
			{Name: "Maker", Value: mention(v.Maker), Inline: true},
			{Name: "Editor", Value: orNone(v.Editor), Inline: true},
			{Name: "Thumbnail Maker", Value: orNone(v.ThumbnailMaker), Inline: true},
			{Name: "Drive Link", Value: notify.Truncate(v.StorageLink, 1024)},
			{Name: "Submitted", Value: v.CreatedAt.Format("2006-01-02 15:04")},
		},
	}
}

func analyticsEmbed(rows []service.MonthCount) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "📊 Monthly Submissions",
		Color:       notify.ColorBlue,
		Description: "```\n" + BarChart(rows, chartWidth) + "\n```",
	}
}

func configEmbed(shown map[string]string, missing []string) *discordgo.MessageEmbed {
	keys := make([]string, 0, len(shown))
	for k := range shown {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	embed := &discordgo.MessageEmbed{Title: "Bot Configuration", Color: notify.ColorOrange}
	for _, k := range keys {
		v := shown[k]
		if v == "" {
			v = "Not set"
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: k, Value: v, Inline: true})
	}
	if len(missing) == 0 {
		embed.Footer = &discordgo.MessageEmbedFooter{Text: "Automation: enabled"}
	} else {
		embed.Footer = &discordgo.MessageEmbedFooter{Text: "Automation disabled, missing: " + strings.Join(missing, ", ")}
	}
	return embed
}

func claimReply(v *model.VideoRequest) string {
	return fmt.Sprintf("Linked to video #%d **%s**, now %s.", v.ID, notify.Truncate(v.Title, 100), v.Status.Display())
}

// Discord子区名最长100个字符
func threadName(username, topic string) string {
	name := strings.TrimSpace(topic)
	if name == "" {
		name = "help"
	}
	if username != "" {
		name = username + ": " + name
	}
	r := []rune(name)
	if len(r) > 100 {
		r = r[:100]
	}
	return string(r)
}
