package profile

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"strings"
	"testing"

	"moments/internal/events"
	"moments/internal/kvstore"
	"moments/internal/logger"
)

// Mock image store for testing
type mockImages struct {
	putFunc func(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error)
	keys    []string
	bodies  [][]byte
}

func (m *mockImages) PutObject(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error) {
	data, _ := io.ReadAll(body)
	m.keys = append(m.keys, key)
	m.bodies = append(m.bodies, data)
	if m.putFunc != nil {
		return m.putFunc(ctx, key, contentType, bytes.NewReader(data), size)
	}
	return "http://cdn.test/" + key, nil
}

func ptr(s string) *string { return &s }

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode png: %v", err)
	}
	return buf.Bytes()
}

func TestNewService_Default(t *testing.T) {
	s := NewService(context.Background(), kvstore.NewMemory(), nil, logger.Discard())

	got := s.Get()
	if got.Name != "阳光灿烂" || got.Mood != DefaultMood || got.PostsCount != 12 || len(got.Tags) != 3 {
		t.Errorf("Unexpected default profile %+v", got)
	}
}

func TestNewService_MalformedFallsBackToDefault(t *testing.T) {
	ctx := context.Background()
	kv := kvstore.NewMemory()
	kv.Set(ctx, StorageKey, "{broken")

	if got := NewService(ctx, kv, nil, logger.Discard()).Get(); got.Name != Default().Name {
		t.Errorf("Expected default profile, got %+v", got)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		req  UpdateRequest
		want error
	}{
		{"empty request", UpdateRequest{}, nil},
		{"valid", UpdateRequest{Name: ptr("小明"), Bio: ptr("hi"), Mood: ptr("思考"), Tags: []string{"音乐"}}, nil},
		{"blank name", UpdateRequest{Name: ptr("  ")}, ErrEmptyName},
		{"long name", UpdateRequest{Name: ptr(strings.Repeat("名", MaxNameLength+1))}, ErrNameTooLong},
		{"bio at limit", UpdateRequest{Bio: ptr(strings.Repeat("字", MaxBioLength))}, nil},
		{"bio too long", UpdateRequest{Bio: ptr(strings.Repeat("字", MaxBioLength+1))}, ErrBioTooLong},
		{"unknown mood", UpdateRequest{Mood: ptr("生气")}, ErrInvalidMood},
		{"unknown tag", UpdateRequest{Tags: []string{"美食", "编程"}}, ErrInvalidTag},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Validate(tt.req); !errors.Is(err, tt.want) {
				t.Errorf("Validate() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestService_UpdatePersists(t *testing.T) {
	ctx := context.Background()
	kv := kvstore.NewMemory()
	s := NewService(ctx, kv, nil, logger.Discard())

	got, err := s.Update(ctx, UpdateRequest{Name: ptr(" 小明 "), Mood: ptr("放松"), Tags: []string{"音乐", "电影", "音乐"}})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if got.Name != "小明" || got.Mood != "放松" || got.Bio != Default().Bio {
		t.Errorf("Unexpected profile %+v", got)
	}
	if len(got.Tags) != 2 || got.Tags[0] != "音乐" || got.Tags[1] != "电影" {
		t.Errorf("Expected deduplicated tags in order, got %v", got.Tags)
	}

	raw, err := kv.Get(ctx, StorageKey)
	if err != nil {
		t.Fatalf("Expected persisted profile, got %v", err)
	}
	var persisted UserProfile
	json.Unmarshal([]byte(raw), &persisted)
	if persisted.Name != "小明" {
		t.Errorf("Expected persisted name, got %+v", persisted)
	}

	if reloaded := NewService(ctx, kv, nil, logger.Discard()).Get(); reloaded.Mood != "放松" {
		t.Errorf("Expected reload to keep mood, got %+v", reloaded)
	}
}

func TestService_UpdateInvalidLeavesProfile(t *testing.T) {
	s := NewService(context.Background(), nil, nil, logger.Discard())

	if _, err := s.Update(context.Background(), UpdateRequest{Name: ptr("新名字"), Mood: ptr("??")}); !errors.Is(err, ErrInvalidMood) {
		t.Fatalf("Expected ErrInvalidMood, got %v", err)
	}
	if s.Get().Name != Default().Name {
		t.Error("Expected rejected update not to apply any field")
	}
}

func TestService_ToggleTag(t *testing.T) {
	ctx := context.Background()
	s := NewService(ctx, nil, nil, logger.Discard())

	got, _ := s.ToggleTag(ctx, "旅行")
	if len(got.Tags) != 2 || got.Tags[0] != "摄影" || got.Tags[1] != "美食" {
		t.Errorf("Expected 旅行 removed, got %v", got.Tags)
	}
	got, _ = s.ToggleTag(ctx, "旅行")
	if len(got.Tags) != 3 || got.Tags[2] != "旅行" {
		t.Errorf("Expected 旅行 appended, got %v", got.Tags)
	}
	if _, err := s.ToggleTag(ctx, "编程"); !errors.Is(err, ErrInvalidTag) {
		t.Errorf("Expected ErrInvalidTag, got %v", err)
	}
}

func TestService_GetReturnsCopy(t *testing.T) {
	s := NewService(context.Background(), nil, nil, logger.Discard())

	p := s.Get()
	p.Tags[0] = "mutated"
	if s.Get().Tags[0] == "mutated" {
		t.Error("Expected Get to return an independent copy")
	}
}

func TestService_IncrementPosts(t *testing.T) {
	ctx := context.Background()
	s := NewService(ctx, nil, nil, logger.Discard())
	emitter := events.NewEmitter()
	emitter.Subscribe(events.PostCreated, s.IncrementPosts)

	emitter.Emit(ctx, events.Event{Type: events.PostCreated, PostID: 1})
	emitter.Emit(ctx, events.Event{Type: events.CommentSubmitted, PostID: 1})

	if got := s.Get().PostsCount; got != 13 {
		t.Errorf("Expected posts count 13, got %d", got)
	}
}

func TestService_SetImage(t *testing.T) {
	ctx := context.Background()
	images := &mockImages{}
	s := NewService(ctx, nil, images, logger.Discard())

	got, err := s.SetImage(ctx, KindAvatar, bytes.NewReader(pngBytes(t, 640, 480)))
	if err != nil {
		t.Fatalf("SetImage() error = %v", err)
	}

	if len(images.keys) != 1 || !strings.HasPrefix(images.keys[0], "profile/avatar/") || !strings.HasSuffix(images.keys[0], ".jpg") {
		t.Fatalf("Unexpected stored keys %v", images.keys)
	}
	if got.AvatarURL != "http://cdn.test/"+images.keys[0] {
		t.Errorf("Unexpected avatar URL %q", got.AvatarURL)
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(images.bodies[0]))
	if err != nil {
		t.Fatalf("stored image does not decode: %v", err)
	}
	if format != "jpeg" || cfg.Width != 256 || cfg.Height != 256 {
		t.Errorf("Expected 256x256 jpeg, got %dx%d %s", cfg.Width, cfg.Height, format)
	}
}

func TestService_SetBackgroundImage(t *testing.T) {
	ctx := context.Background()
	images := &mockImages{}
	s := NewService(ctx, nil, images, logger.Discard())

	got, err := s.SetImage(ctx, KindBackground, bytes.NewReader(pngBytes(t, 300, 300)))
	if err != nil {
		t.Fatalf("SetImage() error = %v", err)
	}
	if got.BackgroundURL == "" || got.AvatarURL != "" {
		t.Errorf("Expected only background to change, got %+v", got)
	}

	cfg, _, _ := image.DecodeConfig(bytes.NewReader(images.bodies[0]))
	if cfg.Width != 1500 || cfg.Height != 500 {
		t.Errorf("Expected 1500x500, got %dx%d", cfg.Width, cfg.Height)
	}
}

func TestService_SetImageRejectsNonImage(t *testing.T) {
	images := &mockImages{}
	s := NewService(context.Background(), nil, images, logger.Discard())

	if _, err := s.SetImage(context.Background(), KindAvatar, strings.NewReader("plain text")); !errors.Is(err, ErrNotAnImage) {
		t.Errorf("Expected ErrNotAnImage, got %v", err)
	}
	if len(images.keys) != 0 {
		t.Error("Expected nothing stored")
	}
}

func TestService_SetImageStoreFailure(t *testing.T) {
	images := &mockImages{putFunc: func(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error) {
		return "", errors.New("bucket missing")
	}}
	s := NewService(context.Background(), nil, images, logger.Discard())

	if _, err := s.SetImage(context.Background(), KindAvatar, bytes.NewReader(pngBytes(t, 10, 10))); err == nil {
		t.Error("Expected error when storage fails")
	}
	if s.Get().AvatarURL != "" {
		t.Error("Expected avatar unchanged on failure")
	}
}

func TestService_SetImageWithoutStore(t *testing.T) {
	s := NewService(context.Background(), nil, nil, logger.Discard())

	if _, err := s.SetImage(context.Background(), KindAvatar, bytes.NewReader(nil)); !errors.Is(err, ErrNoImageStore) {
		t.Errorf("Expected ErrNoImageStore, got %v", err)
	}
}

func TestParseKind(t *testing.T) {
	if k, err := ParseKind("avatar"); err != nil || k != KindAvatar {
		t.Errorf("ParseKind(avatar) = %q, %v", k, err)
	}
	if _, err := ParseKind("banner"); !errors.Is(err, ErrUnknownKind) {
		t.Errorf("Expected ErrUnknownKind, got %v", err)
	}
}
