package engagement

import (
	"sync"

	"moments/internal/posts"
)

// Recorder observes local mutations
type Recorder interface {
	LikeToggled(liked bool)
	CommentRecorded()
}

type nopRecorder struct{}

func (nopRecorder) LikeToggled(bool) {}
func (nopRecorder) CommentRecorded() {}

type overlay struct {
	like     *LikeState
	comments int
}

// Tracker holds local like state and comment counters keyed by post id.
// It never reads or writes the Post Store.
type Tracker struct {
	mu       sync.Mutex
	byPost   map[int64]*overlay
	recorder Recorder
}

// NewTracker creates an empty tracker. A nil recorder is allowed.
func NewTracker(recorder Recorder) *Tracker {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	return &Tracker{
		byPost:   make(map[int64]*overlay),
		recorder: recorder,
	}
}

func (t *Tracker) entry(id int64) *overlay {
	o, ok := t.byPost[id]
	if !ok {
		o = &overlay{}
		t.byPost[id] = o
	}
	return o
}

// Toggle applies ToggleLike to the post's current local state, starting from
// the stored values the first time a post is touched.
func (t *Tracker) Toggle(post posts.Post) LikeState {
	t.mu.Lock()
	o := t.entry(post.ID)
	current := LikeState{Liked: post.Liked, Likes: post.Likes}
	if o.like != nil {
		current = *o.like
	}
	next := ToggleLike(current)
	o.like = &next
	t.mu.Unlock()

	t.recorder.LikeToggled(next.Liked)
	return next
}

// RecordComment bumps the local comment counter and returns its new value
func (t *Tracker) RecordComment(postID int64) int {
	t.mu.Lock()
	o := t.entry(postID)
	o.comments++
	n := o.comments
	t.mu.Unlock()

	t.recorder.CommentRecorded()
	return n
}

// Like returns the local like state, or the stored one if the post was never toggled
func (t *Tracker) Like(post posts.Post) LikeState {
	t.mu.Lock()
	defer t.mu.Unlock()

	if o, ok := t.byPost[post.ID]; ok && o.like != nil {
		return *o.like
	}
	return LikeState{Liked: post.Liked, Likes: post.Likes}
}

// CommentCount is the stored comment count plus locally recorded comments
func (t *Tracker) CommentCount(post posts.Post) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	n := len(post.Comments)
	if o, ok := t.byPost[post.ID]; ok {
		n += o.comments
	}
	return n
}

// Overlay returns post with local like state applied
func (t *Tracker) Overlay(post posts.Post) posts.Post {
	s := t.Like(post)
	post.Liked = s.Liked
	post.Likes = s.Likes
	return post
}

// OverlayAll applies Overlay to every post
func (t *Tracker) OverlayAll(list []posts.Post) []posts.Post {
	out := make([]posts.Post, len(list))
	for i, p := range list {
		out[i] = t.Overlay(p)
	}
	return out
}
