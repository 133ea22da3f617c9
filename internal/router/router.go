package router

import (
	"VideoForge/internal/handler"
	"VideoForge/internal/middleware"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Handlers 路由需要的全部处理器
type Handlers struct {
	User    handler.UserHandler
	Video   handler.VideoHandler
	Comment handler.CommentHandler
	Rating  handler.RatingHandler
	Report  handler.ReportHandler
	Admin   handler.AdminHandler
}

func SetupRouter(jwtSecret string, h Handlers) *gin.Engine {
	r := gin.Default()
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pang",
		})
	})
	apiV1 := r.Group("/api/v1")
	{
		apiV1.GET("/videos", h.Video.ListVideos)
		apiV1.GET("/videos/:video_id", h.Video.GetVideoByID)
		apiV1.GET("/videos/:video_id/comments", h.Comment.GetComments)
		apiV1.GET("/leaderboard", h.Report.Leaderboard)
		apiV1.GET("/editors/leaderboard", h.Report.EditorLeaderboard)

		userGroup := apiV1.Group("/users")
		{
			userGroup.POST("/register", h.User.Register)
			userGroup.POST("/login", h.User.Login)
		}

		authorized := apiV1.Group("/")
		authorized.Use(middleware.AuthMiddleware(jwtSecret))
		{
			authorized.GET("/profile", h.User.GetProfile)
			authorized.POST("/videos", h.Video.CreateVideo)
			authorized.POST("/videos/:video_id/comments", h.Comment.CreateCommentForVideo)

			authorized.PUT("/editors/:editor_id/rating", h.Rating.RateEditor)
			authorized.GET("/editors/:editor_id/rating", h.Rating.GetMyRating)

			// 分析页需要登录
			authorized.GET("/analytics/monthly", h.Report.MonthlySubmissions)
			authorized.GET("/analytics/status", h.Report.StatusDistribution)

			admin := authorized.Group("/")
			admin.Use(middleware.AdminOnly())
			{
				admin.DELETE("/videos/:video_id", h.Video.DeleteVideo)
				admin.POST("/videos/:video_id/publish", h.Video.PublishVideo)
				admin.GET("/config", h.Admin.ShowConfig)
			}
		}
	}

	return r
}
