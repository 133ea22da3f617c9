package notify

import (
	"context"
	"errors"
	"fmt"

	"github.com/bwmarrin/discordgo"
)

const (
	ColorGreen  = 0x2ecc71
	ColorOrange = 0xe67e22
	ColorBlue   = 0x3498db
	ColorRed    = 0xe74c3c
	ColorGold   = 0xf1c40f

	// Discord对embed字段值的长度限制
	maxFieldLen = 1024
)

// EmbedSender 是discordgo.Session的一个子集，只用到REST发消息，不需要网关连接
type EmbedSender interface {
	ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

type DiscordNotifier struct {
	sender          EmbedSender
	editorChannelID string
	issuesChannelID string
}

func NewDiscordNotifier(sender EmbedSender, editorChannelID, issuesChannelID string) *DiscordNotifier {
	return &DiscordNotifier{
		sender:          sender,
		editorChannelID: editorChannelID,
		issuesChannelID: issuesChannelID,
	}
}

func (n *DiscordNotifier) VideoSubmitted(ctx context.Context, ev VideoSubmittedEvent) error {
	if n.editorChannelID == "" {
		return errors.New("editor channel not configured")
	}
	_, err := n.sender.ChannelMessageSendEmbed(n.editorChannelID, SubmittedEmbed(ev), discordgo.WithContext(ctx))
	return err
}

func (n *DiscordNotifier) IssueOpened(ctx context.Context, ev IssueEvent) error {
	if n.issuesChannelID == "" {
		return errors.New("issues channel not configured")
	}
	_, err := n.sender.ChannelMessageSendEmbed(n.issuesChannelID, IssueEmbed(ev), discordgo.WithContext(ctx))
	return err
}

func SubmittedEmbed(ev VideoSubmittedEvent) *discordgo.MessageEmbed {
	submitter := ev.SubmitterName
	if submitter == "" {
		submitter = ev.SubmitterID
	}
	return &discordgo.MessageEmbed{
		Title: "New Video Submitted",
		Color: ColorGreen,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "ID", Value: fmt.Sprintf("%d", ev.VideoID), Inline: true},
			{Name: "Title", Value: Truncate(ev.Title, maxFieldLen)},
			{Name: "Description", Value: Truncate(ev.Description, maxFieldLen)},
			{Name: "Drive Link", Value: Truncate(ev.StorageLink, maxFieldLen)},
		},
		Footer: &discordgo.MessageEmbedFooter{Text: "Submitted by " + submitter},
	}
}

func IssueEmbed(ev IssueEvent) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title: "New Issue in " + ev.Repo,
		Color: ColorOrange,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Title", Value: Truncate(ev.Title, maxFieldLen)},
			{Name: "Link", Value: ev.URL},
		},
		Footer: &discordgo.MessageEmbedFooter{Text: "Created at " + ev.CreatedAt.UTC().Format("2006-01-02 15:04:05")},
	}
}

// Truncate 按rune截断，空字符串用"-"占位（Discord不接受空字段值）
func Truncate(s string, max int) string {
	if s == "" {
		return "-"
	}
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}
