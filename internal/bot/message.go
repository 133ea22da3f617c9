package bot

import (
	"VideoForge/internal/service"
	"VideoForge/pkg/logger"

	"github.com/bwmarrin/discordgo"
)

// 监听频道里的消息：忽略机器人，每条消息只拿第一个附件去认领记录
func (b *Bot) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot {
		return
	}
	if !b.videos.Watches(m.ChannelID) || len(m.Attachments) == 0 {
		return
	}

	ctx, cancel := b.timeoutCtx()
	defer cancel()

	att := m.Attachments[0]
	video, err := b.videos.HandleAttachment(ctx, service.Attachment{
		ChannelID: m.ChannelID,
		PosterID:  m.Author.ID,
		FileName:  att.Filename,
		URL:       att.URL,
	})
	if video == nil {
		// 没有可匹配的记录，或认领前就失败了，服务层已经记过日志
		return
	}

	logCtx := logger.Log.WithField("video_id", video.ID).WithField("message_id", m.ID)
	if err != nil {
		logCtx.WithError(err).Warn("附件已认领但下载未能排队")
	} else if rerr := s.MessageReactionAdd(m.ChannelID, m.ID, "✅"); rerr != nil {
		logCtx.WithError(rerr).Warn("添加回应失败")
	}
	if _, rerr := s.ChannelMessageSendReply(m.ChannelID, claimReply(video), m.Reference()); rerr != nil {
		logCtx.WithError(rerr).Warn("认领回复发送失败")
	}
}
