package assets

import (
	"testing"
	"testing/fstest"
)

func TestThumbnailPath(t *testing.T) {
	cases := map[string]string{
		"":                 DefaultThumbnail,
		"goa":              "/assets/tour-thumbnail/Goa.jpg",
		"north goa":        "/assets/tour-thumbnail/NorthGoa.jpg",
		"HIMACHAL PRADESH": "/assets/tour-thumbnail/HimachalPradesh.jpg",
	}
	for in, want := range cases {
		if got := ThumbnailPath(in); got != want {
			t.Errorf("ThumbnailPath(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestResolverFallsBackOnce(t *testing.T) {
	r := NewResolver(fstest.MapFS{
		"tour-thumbnail/Goa.jpg":     {Data: []byte("jpg")},
		"tour-thumbnail/default.jpg": {Data: []byte("jpg")},
	})
	if got := r.Resolve("goa"); got != "/assets/tour-thumbnail/Goa.jpg" {
		t.Fatalf("existing image: got %q", got)
	}
	if got := r.Resolve("Kerala"); got != DefaultThumbnail {
		t.Fatalf("missing image: got %q", got)
	}
	if got := r.Resolve(""); got != DefaultThumbnail {
		t.Fatalf("unknown destination: got %q", got)
	}
}

func TestResolverWithoutFS(t *testing.T) {
	if got := NewResolver(nil).Resolve("Kerala"); got != "/assets/tour-thumbnail/Kerala.jpg" {
		t.Fatalf("got %q", got)
	}
}
