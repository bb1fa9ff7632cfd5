package entities

import "time"

// SeedInspirations returns the example records written to empty storage.
// They are dated now, one day ago and two days ago.
func SeedInspirations(now time.Time) []Inspiration {
	day := 24 * time.Hour
	return []Inspiration{
		{
			ID:        "1",
			Title:     "早晨的灵感",
			Content:   "清晨阳光透过窗帘的感觉让我想到了新的设计灵感",
			Type:      TypeText,
			Tags:      []string{"设计", "生活"},
			CreatedAt: now,
			UpdatedAt: now,
		},
		{
			ID:        "2",
			Title:     "项目构思",
			Content:   "一个帮助人们记录和整理灵感的应用",
			Type:      TypeText,
			Tags:      []string{"工作", "项目"},
			CreatedAt: now.Add(-day),
			UpdatedAt: now.Add(-day),
		},
		{
			ID:        "3",
			Title:     "灵感快拍 - 创意笔记",
			Content:   "https://cdn.pixabay.com/photo/2015/01/09/11/08/startup-594090_1280.jpg",
			Type:      TypeImage,
			Tags:      []string{"灵感快拍", "创意"},
			CreatedAt: now.Add(-2 * day),
			UpdatedAt: now.Add(-2 * day),
		},
	}
}
