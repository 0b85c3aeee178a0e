// Package profile holds the viewer's profile: editable name, bio, mood and
// tags, social counters, and avatar and background images.
package profile

import "slices"

// StorageKey is the key holding the serialized profile
const StorageKey = "profile"

const (
	MaxNameLength = 20
	MaxBioLength  = 100
	DefaultMood   = "开心"
)

// Moods is the fixed set of selectable moods
var Moods = []string{"开心", "放松", "充实", "期待", "思考"}

// TagOptions is the fixed catalogue of profile tags
var TagOptions = []string{"美食", "旅行", "运动", "音乐", "电影", "摄影", "阅读", "艺术", "科技"}

// UserProfile is the viewer's profile
type UserProfile struct {
	Name           string   `json:"name"`
	Bio            string   `json:"bio"`
	Tags           []string `json:"tags"`
	Mood           string   `json:"mood"`
	PostsCount     int      `json:"posts_count"`
	FollowersCount int      `json:"followers_count"`
	FollowingCount int      `json:"following_count"`
	AvatarURL      string   `json:"avatar_url,omitempty"`
	BackgroundURL  string   `json:"background_url,omitempty"`
}

// UpdateRequest edits the profile. Nil fields are left unchanged.
type UpdateRequest struct {
	Name *string  `json:"name"`
	Bio  *string  `json:"bio"`
	Tags []string `json:"tags"`
	Mood *string  `json:"mood"`
}

// Default returns the profile used before anything was saved
func Default() UserProfile {
	return UserProfile{
		Name:           "阳光灿烂",
		Bio:            "热爱生活，享受当下",
		PostsCount:     12,
		FollowersCount: 256,
		FollowingCount: 128,
		Tags:           []string{"摄影", "旅行", "美食"},
		Mood:           DefaultMood,
	}
}

func (p UserProfile) clone() UserProfile {
	p.Tags = slices.Clone(p.Tags)
	return p
}

func isMood(m string) bool { return slices.Contains(Moods, m) }

func isTag(t string) bool { return slices.Contains(TagOptions, t) }
