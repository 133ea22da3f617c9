package bot

import (
	"VideoForge/internal/service"
	"VideoForge/pkg/logger"
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/bwmarrin/discordgo"
)

func (b *Bot) handleHelp(s *discordgo.Session, i *discordgo.InteractionCreate) {
	respondEmbed(s, i, helpEmbed(), true)
}

// 投稿入口：自动化配置不完整时不弹表单
func (b *Bot) handleSubmitVideo(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if missing := b.cfg.Automation.Missing(); len(missing) > 0 {
		respondText(s, i, fmt.Sprintf("Video submission is disabled until the bot is fully configured (missing: %v).", missing), true)
		return
	}
	if err := s.InteractionRespond(i.Interaction, submitModal()); err != nil {
		logger.Log.WithError(err).Error("投稿表单弹出失败")
	}
}

// 表单提交：1、摊平表单值 2、调用投稿服务 3、校验失败原样告诉用户
func (b *Bot) handleSubmitModal(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx, cancel := b.timeoutCtx()
	defer cancel()

	user := interactionUser(i)
	in := submitInputFrom(modalValues(i.ModalSubmitData()), user)
	video, err := b.videos.Submit(ctx, in)
	if err != nil {
		var ve *service.ValidationError
		if errors.As(err, &ve) {
			respondText(s, i, "Invalid submission: "+ve.Error(), true)
			return
		}
		logger.Log.WithError(err).Error("表单投稿失败")
		respondText(s, i, "Failed to submit the video, please try again later.", true)
		return
	}
	respondText(s, i, fmt.Sprintf("✅ Video submitted! ID: %d", video.ID), true)
}

func (b *Bot) handleVideoStatus(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx, cancel := b.timeoutCtx()
	defer cancel()

	user := interactionUser(i)
	videos, err := b.reports.RecentByMaker(ctx, user.ID, 5)
	if err != nil {
		logger.Log.WithError(err).Error("查询投稿状态失败")
		respondText(s, i, "Failed to load your videos.", true)
		return
	}
	respondEmbed(s, i, statusEmbed(videos), true)
}

func (b *Bot) handleLeaderboard(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx, cancel := b.timeoutCtx()
	defer cancel()

	rows, err := b.reports.Leaderboard(ctx, 10)
	if err != nil {
		logger.Log.WithError(err).Error("查询排行榜失败")
		respondText(s, i, "Failed to load the leaderboard.", true)
		return
	}
	respondEmbed(s, i, leaderboardEmbed(rows), false)
}

// 评分分两步：命令只回一个下拉框，真正写库在handleRateSelect
func (b *Bot) handleRateEditor(s *discordgo.Session, i *discordgo.InteractionCreate) {
	opts := i.ApplicationCommandData().Options
	if len(opts) == 0 {
		respondText(s, i, "Please pick an editor.", true)
		return
	}
	editor := opts[0].UserValue(s)
	if editor == nil || editor.Bot {
		respondText(s, i, "Please pick a valid editor.", true)
		return
	}
	respond(s, i, &discordgo.InteractionResponseData{
		Content:    fmt.Sprintf("How would you rate %s?", mention(editor.ID)),
		Components: rateSelect(editor.ID),
		Flags:      discordgo.MessageFlagsEphemeral,
	})
}

func (b *Bot) handleRateSelect(s *discordgo.Session, i *discordgo.InteractionCreate, editorID string) {
	ctx, cancel := b.timeoutCtx()
	defer cancel()

	values := i.MessageComponentData().Values
	if len(values) == 0 {
		return
	}
	rating, err := strconv.Atoi(values[0])
	if err != nil {
		return
	}
	rater := interactionUser(i)
	content := fmt.Sprintf("You rated %s %s (%d/5).", mention(editorID), stars(rating), rating)
	if err := b.ratings.Rate(ctx, editorID, rater.ID, rating); err != nil {
		logger.Log.WithError(err).WithField("editor_id", editorID).Error("评分失败")
		content = "Failed to save your rating."
		if service.IsValidation(err) {
			content = "Invalid rating: " + err.Error()
		}
	}
	// 用评分结果替换掉下拉框
	err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{
			Content:    content,
			Components: []discordgo.MessageComponent{},
		},
	})
	if err != nil {
		logger.Log.WithError(err).Error("交互响应失败")
	}
}

func (b *Bot) handleEditorLeaderboard(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx, cancel := b.timeoutCtx()
	defer cancel()

	rows, err := b.reports.EditorLeaderboard(ctx, 10)
	if err != nil {
		logger.Log.WithError(err).Error("查询剪辑师排行榜失败")
		respondText(s, i, "Failed to load the editor leaderboard.", true)
		return
	}
	respondEmbed(s, i, editorLeaderboardEmbed(rows), false)
}

func (b *Bot) handleVideoInfo(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx, cancel := b.timeoutCtx()
	defer cancel()

	id, ok := videoIDOption(i)
	if !ok {
		respondText(s, i, "Please provide a valid video ID.", true)
		return
	}
	video, err := b.videos.Get(ctx, id)
	if errors.Is(err, service.ErrVideoNotFound) {
		respondText(s, i, fmt.Sprintf("Video #%d not found.", id), true)
		return
	}
	if err != nil {
		logger.Log.WithError(err).WithField("video_id", id).Error("查询视频失败")
		respondText(s, i, "Failed to load the video.", true)
		return
	}
	respondEmbed(s, i, videoEmbed(video), false)
}

func (b *Bot) handleVideoAnalytics(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx, cancel := b.timeoutCtx()
	defer cancel()

	rows, err := b.reports.MonthlySubmissions(ctx)
	if err != nil {
		logger.Log.WithError(err).Error("查询月度统计失败")
		respondText(s, i, "Failed to load analytics.", true)
		return
	}
	respondEmbed(s, i, analyticsEmbed(rows), false)
}

func (b *Bot) handleShowConfig(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !isAdministrator(i.Member) {
		respondText(s, i, "Only administrators can view the configuration.", true)
		return
	}
	respondEmbed(s, i, configEmbed(b.cfg.Redacted(), b.cfg.Automation.Missing()), true)
}

// 发布：1、校验可信角色 2、先deferred响应，上传可能很久 3、上传完成后编辑原响应
func (b *Bot) handlePublish(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !hasRole(i.Member, b.cfg.Automation.TrustedRoleID) {
		respondText(s, i, "You don't have permission to publish videos.", true)
		return
	}
	id, ok := videoIDOption(i)
	if !ok {
		respondText(s, i, "Please provide a valid video ID.", true)
		return
	}
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	})
	if err != nil {
		logger.Log.WithError(err).Error("交互响应失败")
		return
	}

	ctx, cancel := context.WithTimeout(b.ctx, publishTimeout)
	defer cancel()
	logCtx := logger.Log.WithField("video_id", id)

	var content string
	_, youtubeID, err := b.videos.Publish(ctx, id)
	switch {
	case err == nil:
		content = fmt.Sprintf("🎉 Video #%d published: https://youtu.be/%s", id, youtubeID)
		logCtx.WithField("youtube_id", youtubeID).Info("机器人发布成功")
	case errors.Is(err, service.ErrVideoNotFound):
		content = fmt.Sprintf("Video #%d not found.", id)
	case errors.Is(err, service.ErrNotPublishable):
		content = fmt.Sprintf("Video #%d is not ready to publish yet.", id)
	case errors.Is(err, service.ErrPublishDisabled):
		content = "Publishing is not configured."
	default:
		logCtx.WithError(err).Error("机器人发布失败")
		content = fmt.Sprintf("Failed to publish video #%d.", id)
	}
	if _, err := s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{Content: &content}); err != nil {
		logCtx.WithError(err).Error("发布结果回写失败")
	}
}

// 在支持频道下开一个公开子区，并把发起人拉进去
func (b *Bot) handleSupport(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if b.cfg.SupportChannelID == "" {
		respondText(s, i, "Support channel is not configured.", true)
		return
	}
	opts := i.ApplicationCommandData().Options
	if len(opts) == 0 {
		respondText(s, i, "Please describe your topic.", true)
		return
	}
	user := interactionUser(i)
	name := threadName(user.Username, opts[0].StringValue())

	thread, err := s.ThreadStart(b.cfg.SupportChannelID, name, discordgo.ChannelTypeGuildPublicThread, 1440)
	if err != nil {
		logger.Log.WithError(err).Error("创建支持子区失败")
		respondText(s, i, "Failed to open a support thread.", true)
		return
	}
	if _, err := s.ChannelMessageSend(thread.ID, fmt.Sprintf("%s opened this thread. A team member will be with you shortly.", mention(user.ID))); err != nil {
		logger.Log.WithError(err).Warn("支持子区欢迎消息发送失败")
	}
	respondText(s, i, fmt.Sprintf("Support thread created: <#%s>", thread.ID), true)
}

func videoIDOption(i *discordgo.InteractionCreate) (uint64, bool) {
	for _, o := range i.ApplicationCommandData().Options {
		if o.Name == "video_id" {
			v := o.IntValue()
			if v <= 0 {
				return 0, false
			}
			return uint64(v), true
		}
	}
	return 0, false
}
