package posts

// SeedPosts returns the built-in example list used when no persisted list exists
func SeedPosts() []Post {
	return []Post{
		{
			ID:      1,
			Image:   "https://images.unsplash.com/photo-1516205651411-aef33a44f7c2?w=800",
			Content: "时光静好，愿你安好。无论经历什么，记住保持微笑。",
			Likes:   128,
			Comments: []Comment{
				{ID: 1, Content: "写得真好！", Author: "快乐的小松鼠", Timestamp: "2024-03-20T10:00:00.000Z"},
				{ID: 2, Content: "感同身受", Author: "阳光灿烂", Timestamp: "2024-03-20T11:30:00.000Z"},
			},
			Liked:     false,
			Timestamp: "2024-03-20T09:00:00.000Z",
		},
	}
}
