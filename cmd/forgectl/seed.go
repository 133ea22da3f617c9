package main

import (
	"VideoForge/internal/assets"
	"VideoForge/internal/model"
	"context"
	"fmt"
	"math/rand"
	"strconv"
	"time"

	"github.com/go-faker/faker/v4"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type seedOptions struct {
	Users    int
	Makers   int
	Editors  int
	Videos   int
	Ratings  int
	Reset    bool
	RandSeed int64
}

type seedResult struct {
	Users   int
	Videos  int
	Ratings int
}

func newSeedCommand(ctx *commandContext) *cobra.Command {
	opts := seedOptions{}
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Fill the database with fake data for local development",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := ctx.ensureApp(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "🚀 开始填充测试数据...")
			res, err := seed(cmd.Context(), a.DB, opts)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "✅ 用户 %d 个，视频 %d 条，评分 %d 条\n", res.Users, res.Videos, res.Ratings)
			return nil
		},
	}
	cmd.Flags().IntVar(&opts.Users, "users", 20, "Number of web users")
	cmd.Flags().IntVar(&opts.Makers, "makers", 10, "Number of distinct video makers")
	cmd.Flags().IntVar(&opts.Editors, "editors", 5, "Number of distinct editors")
	cmd.Flags().IntVar(&opts.Videos, "videos", 100, "Number of video requests")
	cmd.Flags().IntVar(&opts.Ratings, "ratings", 30, "Number of editor ratings")
	cmd.Flags().BoolVar(&opts.Reset, "reset", false, "Drop and recreate all tables first (deletes all data!)")
	cmd.Flags().Int64Var(&opts.RandSeed, "rand-seed", 0, "Random seed (0 = current time)")
	return cmd
}

// 造数据：1、可选地清表重建 2、创建网页用户 3、按流水线随机推进视频状态，贡献者和素材引用成对写入 4、随机评分
func seed(ctx context.Context, db *gorm.DB, opts seedOptions) (seedResult, error) {
	var res seedResult
	if opts.Makers <= 0 || opts.Editors <= 0 {
		return res, fmt.Errorf("makers and editors must be positive")
	}
	if opts.RandSeed == 0 {
		opts.RandSeed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(opts.RandSeed))
	db = db.WithContext(ctx)

	if opts.Reset {
		if err := db.Migrator().DropTable(model.All()...); err != nil {
			return res, fmt.Errorf("drop tables: %w", err)
		}
		if err := db.AutoMigrate(model.All()...); err != nil {
			return res, fmt.Errorf("migrate: %w", err)
		}
	}

	// 为所有用户设置一个简单的默认密码 "password"，只算一次哈希
	hashed, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
	if err != nil {
		return res, fmt.Errorf("密码加密失败: %w", err)
	}
	for i := 0; i < opts.Users; i++ {
		user := model.User{Username: fmt.Sprintf("%s_%d", faker.Username(), rng.Intn(1_000_000)), Password: string(hashed)}
		// 重名就跳过
		tx := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&user)
		if tx.Error != nil {
			return res, tx.Error
		}
		res.Users += int(tx.RowsAffected)
	}

	makers := fakeSnowflakes(rng, opts.Makers)
	editors := fakeSnowflakes(rng, opts.Editors)
	statuses := []model.Status{
		model.StatusSubmitted, model.StatusEdited, model.StatusThumbnailAdded,
		model.StatusPublished, model.StatusEditFailed, model.StatusThumbnailFailed,
	}
	for i := 0; i < opts.Videos; i++ {
		video := model.VideoRequest{
			Title:       truncateRunes(faker.Sentence(), 100),
			Description: faker.Paragraph(),
			StorageLink: "https://drive.google.com/file/d/" + faker.UUIDDigit(),
			Maker:       makers[rng.Intn(len(makers))],
			Status:      model.StatusSubmitted,
		}
		if err := db.Create(&video).Error; err != nil {
			return res, err
		}
		target := statuses[rng.Intn(len(statuses))]
		if err := db.Model(&video).Updates(seedProgress(video.ID, target, editors, rng)).Error; err != nil {
			return res, err
		}
		res.Videos++
	}

	for i := 0; i < opts.Ratings; i++ {
		rating := model.EditorRating{
			EditorID: editors[rng.Intn(len(editors))],
			RaterID:  makers[rng.Intn(len(makers))],
			Rating:   model.MinRating + rng.Intn(model.MaxRating-model.MinRating+1),
		}
		tx := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "editor_id"}, {Name: "rater_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"rating", "updated_at"}),
		}).Create(&rating)
		if tx.Error != nil {
			return res, tx.Error
		}
		res.Ratings++
	}
	return res, nil
}

// seedProgress 返回把一条submitted记录推进到target需要写入的列
func seedProgress(videoID uint64, target model.Status, editors []string, rng *rand.Rand) map[string]interface{} {
	cols := map[string]interface{}{"status": target}
	pick := func() string { return editors[rng.Intn(len(editors))] }
	switch target {
	case model.StatusEdited, model.StatusThumbnailAdded, model.StatusPublished, model.StatusThumbnailFailed:
		cols["editor"] = pick()
		cols["edited_asset_ref"] = assets.NewRef(videoID, string(model.AssetEdited), "edit.mp4")
	case model.StatusEditFailed:
		cols["editor"] = pick()
		cols["edited_asset_ref"] = assets.NewRef(videoID, string(model.AssetEdited), "edit.mp4")
		return cols
	}
	switch target {
	case model.StatusThumbnailAdded, model.StatusPublished, model.StatusThumbnailFailed:
		cols["thumbnail_maker"] = pick()
		cols["thumbnail_asset_ref"] = assets.NewRef(videoID, string(model.AssetThumbnail), "thumb.png")
	}
	return cols
}

func fakeSnowflakes(rng *rand.Rand, n int) []string {
	ids := make([]string, n)
	for i := range ids {
		// Discord雪花ID是18~19位数字
		ids[i] = strconv.FormatInt(100_000_000_000_000_000+rng.Int63n(900_000_000_000_000_000), 10)
	}
	return ids
}

func truncateRunes(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}
