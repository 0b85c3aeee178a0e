// Package engagement keeps per-post like and comment adjustments that are
// rendered immediately without waiting on the Post Store.
package engagement

// LikeState is the (liked, likes) projection of a post
type LikeState struct {
	Liked bool `json:"liked"`
	Likes int  `json:"likes"`
}

// ToggleLike flips Liked and moves Likes by one in the matching direction.
// Likes never drops below zero.
func ToggleLike(s LikeState) LikeState {
	if s.Liked {
		s.Liked = false
		if s.Likes > 0 {
			s.Likes--
		}
		return s
	}
	s.Liked = true
	s.Likes++
	return s
}
