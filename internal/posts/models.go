package posts

// Post is a single feed entry. JSON field names match the persisted array shape.
type Post struct {
	ID        int64     `json:"id"`
	Content   string    `json:"content"`
	Image     string    `json:"image,omitempty"` // empty means text-only
	Likes     int       `json:"likes"`
	Liked     bool      `json:"liked"`
	Comments  []Comment `json:"comments"`
	Timestamp string    `json:"timestamp"` // ISO-8601, immutable after creation
}

// Comment is a reply attached to exactly one post
type Comment struct {
	ID        int64  `json:"id"`
	Content   string `json:"content"`
	Author    string `json:"author"`
	Timestamp string `json:"timestamp"`
}

// CreatePostRequest represents the request body for creating a new post.
// Either field may be empty, but not both.
type CreatePostRequest struct {
	Content string `json:"content" binding:"max=1000"`
	Image   string `json:"image"` // file URL returned by the upload endpoint, or any image URL
}

func clonePost(p Post) Post {
	if p.Comments != nil {
		comments := make([]Comment, len(p.Comments))
		copy(comments, p.Comments)
		p.Comments = comments
	}
	return p
}
