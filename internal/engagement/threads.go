package engagement

import (
	"errors"
	"strings"
	"sync"
	"time"

	"moments/internal/posts"
)

// AnonymousAuthor is the author of every locally submitted comment
const AnonymousAuthor = "匿名用户"

// ErrEmptyComment rejects a comment that is blank after trimming
var ErrEmptyComment = errors.New("engagement: comment content is required")

// Threads keeps comments submitted in this process, newest first per post
type Threads struct {
	tracker *Tracker
	ids     *posts.IDGenerator
	now     func() time.Time

	mu     sync.RWMutex
	byPost map[int64][]posts.Comment
}

// NewThreads creates comment threads that report each submission to tracker
func NewThreads(tracker *Tracker, ids *posts.IDGenerator) *Threads {
	return &Threads{
		tracker: tracker,
		ids:     ids,
		now:     time.Now,
		byPost:  make(map[int64][]posts.Comment),
	}
}

// Submit adds a comment to the post's local thread
func (th *Threads) Submit(postID int64, content string) (posts.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return posts.Comment{}, ErrEmptyComment
	}

	now := th.now()
	c := posts.Comment{
		ID:        th.ids.Next(now),
		Content:   content,
		Author:    AnonymousAuthor,
		Timestamp: posts.FormatTimestamp(now),
	}

	th.mu.Lock()
	th.byPost[postID] = append([]posts.Comment{c}, th.byPost[postID]...)
	th.mu.Unlock()

	th.tracker.RecordComment(postID)
	return c, nil
}

// List returns local comments followed by the post's stored comments
func (th *Threads) List(post posts.Post) []posts.Comment {
	th.mu.RLock()
	local := th.byPost[post.ID]
	out := make([]posts.Comment, 0, len(local)+len(post.Comments))
	out = append(out, local...)
	th.mu.RUnlock()

	return append(out, post.Comments...)
}
