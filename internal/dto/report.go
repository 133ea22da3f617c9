package dto

import (
	"VideoForge/internal/repository"
	"math"
)

type MakerRank struct {
	Rank       int    `json:"rank"`
	Maker      string `json:"maker"`
	VideoCount int64  `json:"video_count"`
}

type EditorRank struct {
	Rank         int     `json:"rank"`
	EditorID     string  `json:"editor_id"`
	AvgRating    float64 `json:"avg_rating"`
	TotalRatings int64   `json:"total_ratings"`
}

func ToMakerRanks(rows []repository.MakerCount) []MakerRank {
	out := make([]MakerRank, 0, len(rows))
	for i, r := range rows {
		out = append(out, MakerRank{Rank: i + 1, Maker: r.Maker, VideoCount: r.VideoCount})
	}
	return out
}

// 平均分保留两位小数
func ToEditorRanks(rows []repository.EditorScore) []EditorRank {
	out := make([]EditorRank, 0, len(rows))
	for i, r := range rows {
		out = append(out, EditorRank{
			Rank:         i + 1,
			EditorID:     r.EditorID,
			AvgRating:    math.Round(r.AvgRating*100) / 100,
			TotalRatings: r.TotalRatings,
		})
	}
	return out
}
