package feed

import (
	"context"
	"errors"
	"testing"
	"time"

	"moments/internal/posts"
)

type staticLister []posts.Post

func (l staticLister) GetAll() []posts.Post { return l }

func TestMockSource_FirstPageIsStoreContents(t *testing.T) {
	store := staticLister{{ID: 3, Content: "c"}, {ID: 2, Content: "b"}}
	src := NewMockSource(store, posts.NewIDGenerator(), WithLatency(0))

	got, err := src.FetchPage(context.Background(), 1)
	if err != nil {
		t.Fatalf("FetchPage() error = %v", err)
	}
	if len(got) != 2 || got[0].ID != 3 || got[1].ID != 2 {
		t.Errorf("Expected store contents in order, got %+v", got)
	}
}

func TestMockSource_LaterPagesAreSinglePost(t *testing.T) {
	src := NewMockSource(staticLister{}, posts.NewIDGenerator(), WithLatency(0), WithSeed(42))

	for page := 2; page <= 4; page++ {
		got, err := src.FetchPage(context.Background(), page)
		if err != nil {
			t.Fatalf("page %d: error = %v", page, err)
		}
		if len(got) != 1 {
			t.Fatalf("page %d: expected one post, got %d", page, len(got))
		}
		p := got[0]
		if p.Content != NextPageContent || p.Image != NextPageImage {
			t.Errorf("page %d: unexpected content %+v", page, p)
		}
		if p.Likes < 0 || p.Likes > 999 || p.Liked || p.Comments == nil {
			t.Errorf("page %d: unexpected engagement %+v", page, p)
		}
	}
}

func TestMockSource_GeneratedIDsIncrease(t *testing.T) {
	src := NewMockSource(staticLister{}, posts.NewIDGenerator(), WithLatency(0))
	ctx := context.Background()

	a, _ := src.FetchPage(ctx, 2)
	b, _ := src.FetchPage(ctx, 3)
	if b[0].ID <= a[0].ID {
		t.Errorf("Expected increasing ids, got %d then %d", a[0].ID, b[0].ID)
	}
}

func TestMockSource_InvalidPage(t *testing.T) {
	src := NewMockSource(staticLister{}, posts.NewIDGenerator(), WithLatency(0))

	for _, page := range []int{0, -1} {
		if _, err := src.FetchPage(context.Background(), page); !errors.Is(err, ErrInvalidPage) {
			t.Errorf("page %d: expected ErrInvalidPage, got %v", page, err)
		}
	}
}

func TestMockSource_HonorsCancellation(t *testing.T) {
	src := NewMockSource(staticLister{}, posts.NewIDGenerator(), WithLatency(time.Hour))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := src.FetchPage(ctx, 1); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestMockSource_InjectedFailure(t *testing.T) {
	boom := errors.New("boom")
	src := NewMockSource(staticLister{}, posts.NewIDGenerator(), WithLatency(0), WithFailures(func(page int) error {
		if page == 2 {
			return boom
		}
		return nil
	}))

	if _, err := src.FetchPage(context.Background(), 1); err != nil {
		t.Errorf("page 1: unexpected error %v", err)
	}
	if _, err := src.FetchPage(context.Background(), 2); !errors.Is(err, boom) {
		t.Errorf("page 2: expected injected failure, got %v", err)
	}
}

func TestMockSource_DrivesPagerToExhaustion(t *testing.T) {
	store := staticLister{{ID: 1, Content: "seed"}}
	p := newTestPager(NewMockSource(store, posts.NewIDGenerator(), WithLatency(time.Millisecond)))
	ctx := context.Background()

	for {
		_, err := p.LoadNext(ctx)
		if errors.Is(err, ErrExhausted) {
			break
		}
		if err != nil {
			t.Fatalf("unexpected error %v", err)
		}
	}

	snap := p.Snapshot()
	if snap.Page != DefaultMaxPages || len(snap.Posts) != 1+DefaultMaxPages-1 {
		t.Errorf("Expected seed plus one post per later page, got page %d with %d posts", snap.Page, len(snap.Posts))
	}
}

func TestSourceFunc(t *testing.T) {
	var got int
	src := SourceFunc(func(ctx context.Context, page int) ([]posts.Post, error) {
		got = page
		return nil, nil
	})
	src.FetchPage(context.Background(), 7)
	if got != 7 {
		t.Errorf("Expected page 7, got %d", got)
	}
}
