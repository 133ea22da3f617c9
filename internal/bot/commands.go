package bot

import "github.com/bwmarrin/discordgo"

const (
	cmdHelp              = "help"
	cmdSubmitVideo       = "submit_video"
	cmdVideoStatus       = "video_status"
	cmdLeaderboard       = "leaderboard"
	cmdRateEditor        = "rate_editor"
	cmdEditorLeaderboard = "editor_leaderboard"
	cmdVideoInfo         = "video_info"
	cmdVideoAnalytics    = "video_analytics"
	cmdShowConfig        = "show_config"
	cmdPublish           = "publish"
	cmdSupport           = "support"

	modalSubmitVideo = "submit_video_modal"
	fieldTitle       = "video_title"
	fieldDescription = "video_description"
	fieldLink        = "video_link"
)

var adminPermission int64 = discordgo.PermissionAdministrator

// Commands 返回要注册的全部斜杠命令，顺序即help里的展示顺序
func Commands() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		{Name: cmdHelp, Description: "Show all available commands"},
		{Name: cmdSubmitVideo, Description: "Submit a new video for editing"},
		{Name: cmdVideoStatus, Description: "Show the status of your recent submissions"},
		{Name: cmdLeaderboard, Description: "Show the top video makers"},
		{
			Name:        cmdRateEditor,
			Description: "Rate an editor's work",
			Options: []*discordgo.ApplicationCommandOption{{
				Type:        discordgo.ApplicationCommandOptionUser,
				Name:        "editor",
				Description: "The editor to rate",
				Required:    true,
			}},
		},
		{Name: cmdEditorLeaderboard, Description: "Show the highest rated editors"},
		{
			Name:        cmdVideoInfo,
			Description: "Show details of a video",
			Options: []*discordgo.ApplicationCommandOption{{
				Type:        discordgo.ApplicationCommandOptionInteger,
				Name:        "video_id",
				Description: "ID of the video",
				Required:    true,
			}},
		},
		{Name: cmdVideoAnalytics, Description: "Show monthly submission counts"},
		{
			Name:                     cmdShowConfig,
			Description:              "Show the current bot configuration",
			DefaultMemberPermissions: &adminPermission,
		},
		{
			Name:        cmdPublish,
			Description: "Upload a finished video to YouTube",
			Options: []*discordgo.ApplicationCommandOption{{
				Type:        discordgo.ApplicationCommandOptionInteger,
				Name:        "video_id",
				Description: "ID of the video to publish",
				Required:    true,
			}},
		},
		{
			Name:        cmdSupport,
			Description: "Open a support thread",
			Options: []*discordgo.ApplicationCommandOption{{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "topic",
				Description: "What do you need help with?",
				Required:    true,
				MaxLength:   90,
			}},
		},
	}
}

func submitModal() *discordgo.InteractionResponse {
	return &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseModal,
		Data: &discordgo.InteractionResponseData{
			CustomID: modalSubmitVideo,
			Title:    "Submit Video",
			Components: []discordgo.MessageComponent{
				discordgo.ActionsRow{Components: []discordgo.MessageComponent{
					discordgo.TextInput{
						CustomID:  fieldTitle,
						Label:     "Video Title",
						Style:     discordgo.TextInputShort,
						Required:  true,
						MaxLength: 100,
					},
				}},
				discordgo.ActionsRow{Components: []discordgo.MessageComponent{
					discordgo.TextInput{
						CustomID:  fieldDescription,
						Label:     "Video Description",
						Style:     discordgo.TextInputParagraph,
						Required:  true,
						MaxLength: 4000,
					},
				}},
				discordgo.ActionsRow{Components: []discordgo.MessageComponent{
					discordgo.TextInput{
						CustomID:    fieldLink,
						Label:       "Google Drive Link",
						Style:       discordgo.TextInputShort,
						Placeholder: "https://drive.google.com/...",
						Required:    true,
						MaxLength:   200,
					},
				}},
			},
		},
	}
}

func rateSelect(editorID string) []discordgo.MessageComponent {
	minValues := 1
	options := make([]discordgo.SelectMenuOption, 0, 5)
	for r := 1; r <= 5; r++ {
		options = append(options, discordgo.SelectMenuOption{
			Label: stars(r),
			Value: itoa(r),
		})
	}
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{Components: []discordgo.MessageComponent{
			discordgo.SelectMenu{
				CustomID:    rateCustomID(editorID),
				Placeholder: "Choose a rating",
				MinValues:   &minValues,
				MaxValues:   1,
				Options:     options,
			},
		}},
	}
}
