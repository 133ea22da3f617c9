// Package bot 是Discord网关进程：斜杠命令、投稿表单、附件监听
package bot

import (
	"VideoForge/internal/config"
	"VideoForge/internal/service"
	"VideoForge/pkg/logger"
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
)

// 单个交互的处理时限；发布命令走deferred响应，不受Discord三秒限制
const (
	handlerTimeout = 30 * time.Second
	publishTimeout = 30 * time.Minute
)

type Bot struct {
	session *discordgo.Session
	cfg     *config.Config
	videos  service.VideoService
	ratings service.RatingService
	reports service.ReportService

	ctx        context.Context
	registered []*discordgo.ApplicationCommand
}

func New(session *discordgo.Session, cfg *config.Config, videos service.VideoService,
	ratings service.RatingService, reports service.ReportService) *Bot {
	return &Bot{
		session: session,
		cfg:     cfg,
		videos:  videos,
		ratings: ratings,
		reports: reports,
		ctx:     context.Background(),
	}
}

// Start 注册事件处理器、连上网关并覆盖注册全部斜杠命令；ctx取消后正在处理的交互会尽快结束
func (b *Bot) Start(ctx context.Context) error {
	b.ctx = ctx
	b.session.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsMessageContent
	b.session.AddHandler(b.onReady)
	b.session.AddHandler(b.onInteraction)
	b.session.AddHandler(b.onMessageCreate)

	if err := b.session.Open(); err != nil {
		return err
	}
	cmds, err := b.session.ApplicationCommandBulkOverwrite(b.session.State.User.ID, "", Commands())
	if err != nil {
		_ = b.session.Close()
		return err
	}
	b.registered = cmds
	logger.Log.WithField("commands", len(cmds)).Info("斜杠命令已注册")
	return nil
}

func (b *Bot) Close() error {
	return b.session.Close()
}

func (b *Bot) onReady(s *discordgo.Session, r *discordgo.Ready) {
	logger.Log.WithField("user", r.User.String()).WithField("guilds", len(r.Guilds)).Info("机器人已上线")
}

// 按交互类型分发：斜杠命令、表单提交、组件（评分下拉框）
func (b *Bot) onInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	defer func() {
		if r := recover(); r != nil {
			logger.Log.WithField("panic", r).Error("交互处理panic")
		}
	}()

	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		name := i.ApplicationCommandData().Name
		h, ok := b.commandHandlers()[name]
		if !ok {
			logger.Log.WithField("command", name).Warn("未知命令")
			return
		}
		h(s, i)
	case discordgo.InteractionModalSubmit:
		if i.ModalSubmitData().CustomID == modalSubmitVideo {
			b.handleSubmitModal(s, i)
		}
	case discordgo.InteractionMessageComponent:
		if editorID, ok := parseRateCustomID(i.MessageComponentData().CustomID); ok {
			b.handleRateSelect(s, i, editorID)
		}
	}
}

type commandHandler func(s *discordgo.Session, i *discordgo.InteractionCreate)

func (b *Bot) commandHandlers() map[string]commandHandler {
	return map[string]commandHandler{
		cmdHelp:              b.handleHelp,
		cmdSubmitVideo:       b.handleSubmitVideo,
		cmdVideoStatus:       b.handleVideoStatus,
		cmdLeaderboard:       b.handleLeaderboard,
		cmdRateEditor:        b.handleRateEditor,
		cmdEditorLeaderboard: b.handleEditorLeaderboard,
		cmdVideoInfo:         b.handleVideoInfo,
		cmdVideoAnalytics:    b.handleVideoAnalytics,
		cmdShowConfig:        b.handleShowConfig,
		cmdPublish:           b.handlePublish,
		cmdSupport:           b.handleSupport,
	}
}

func (b *Bot) timeoutCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(b.ctx, handlerTimeout)
}

// 服务器里是Member.User，私信里是User
func interactionUser(i *discordgo.InteractionCreate) *discordgo.User {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User
	}
	return i.User
}

func respond(s *discordgo.Session, i *discordgo.InteractionCreate, data *discordgo.InteractionResponseData) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: data,
	})
	if err != nil {
		logger.Log.WithError(err).Error("交互响应失败")
	}
}

func respondEmbed(s *discordgo.Session, i *discordgo.InteractionCreate, embed *discordgo.MessageEmbed, ephemeral bool) {
	data := &discordgo.InteractionResponseData{Embeds: []*discordgo.MessageEmbed{embed}}
	if ephemeral {
		data.Flags = discordgo.MessageFlagsEphemeral
	}
	respond(s, i, data)
}

func respondText(s *discordgo.Session, i *discordgo.InteractionCreate, content string, ephemeral bool) {
	data := &discordgo.InteractionResponseData{Content: content}
	if ephemeral {
		data.Flags = discordgo.MessageFlagsEphemeral
	}
	respond(s, i, data)
}

func hasRole(member *discordgo.Member, roleID string) bool {
	if member == nil || roleID == "" {
		return false
	}
	for _, r := range member.Roles {
		if r == roleID {
			return true
		}
	}
	return false
}

func isAdministrator(member *discordgo.Member) bool {
	return member != nil && member.Permissions&discordgo.PermissionAdministrator != 0
}

func mention(id string) string {
	if id == "" || strings.ContainsAny(id, " @") {
		return id
	}
	return "<@" + id + ">"
}
