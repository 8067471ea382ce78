package view

import (
	"testing"

	"github.com/cyberblog/internal/content"
)

func TestReduce_NavigateClearsSelectionAndResetsPage(t *testing.T) {
	s := Reduce(Initial(), Navigate{Tab: TabPosts})
	s = Reduce(s, ItemsLoaded{Total: 12})
	s = Reduce(s, ChangePage{Page: 3})
	s = Reduce(s, Select{Category: content.CategoryPost, ID: "p1"})

	if s.Pager.Current != 3 || !s.HasSelection() {
		t.Fatalf("unexpected setup state %+v", s)
	}

	next := Reduce(s, Navigate{Tab: TabProjects})
	if next.HasSelection() {
		t.Fatal("expected navigation to clear the selection")
	}
	if next.Pager.Current != 1 {
		t.Fatalf("expected page reset to 1, got %d", next.Pager.Current)
	}
	if next.Tab != TabProjects {
		t.Fatalf("expected projects tab, got %s", next.Tab)
	}

	if !s.HasSelection() || s.Pager.Current != 3 {
		t.Fatal("expected the previous state value to remain unchanged")
	}
}

func TestReduce_NavigateNormalizesAliasesAndIgnoresUnknown(t *testing.T) {
	s := Reduce(Initial(), Navigate{Tab: "blog"})
	if s.Tab != TabPosts {
		t.Fatalf("expected blog alias to map to posts, got %s", s.Tab)
	}
	if got := Reduce(s, Navigate{Tab: "nowhere"}); got != s {
		t.Fatalf("expected unknown tab to be ignored, got %+v", got)
	}
}

func TestReduce_BackUsesRecordedCategory(t *testing.T) {
	s := Reduce(Initial(), Navigate{Tab: TabPosts})
	s = Reduce(s, Select{Category: content.CategoryProject, ID: "x"})

	back := Reduce(s, Back{})
	if back.HasSelection() {
		t.Fatal("expected selection cleared")
	}
	if back.Tab != TabProjects {
		t.Fatalf("expected return to projects list, got %s", back.Tab)
	}
	if route := back.Route(false); route.Kind != RouteList || route.Category != content.CategoryProject {
		t.Fatalf("unexpected route %+v", route)
	}

	if Reduce(back, Back{}) != back {
		t.Fatal("expected back without selection to be a no-op")
	}
}

func TestReduce_PagingEvents(t *testing.T) {
	s := Reduce(Initial(), Navigate{Tab: TabPosts})
	s = Reduce(s, ItemsLoaded{Total: 7})

	if s.Pager.TotalPages() != 2 {
		t.Fatalf("expected 2 pages, got %d", s.Pager.TotalPages())
	}

	s = Reduce(s, ChangePage{Page: 2})
	if s.Pager.Current != 2 {
		t.Fatalf("expected page 2, got %d", s.Pager.Current)
	}
	if Reduce(s, ChangePage{Page: 3}).Pager.Current != 2 {
		t.Fatal("expected out of range page to be ignored")
	}

	s = Reduce(s, ChangePageSize{Size: 10})
	if s.Pager.Current != 1 || s.Pager.TotalPages() != 1 {
		t.Fatalf("expected clamp to single page, got %+v", s.Pager)
	}
	if Reduce(s, ChangePageSize{Size: 7}).Pager.Size != 10 {
		t.Fatal("expected unsupported page size to be ignored")
	}
}

func TestRoute(t *testing.T) {
	tests := []struct {
		name    string
		state   State
		isAdmin bool
		want    RouteKind
	}{
		{name: "initial", state: Initial(), want: RouteHome},
		{name: "toolbox", state: Reduce(Initial(), Navigate{Tab: TabToolbox}), want: RouteToolbox},
		{name: "settings guest", state: Reduce(Initial(), Navigate{Tab: TabSettings}), want: RouteAdminSettings},
		{name: "settings admin", state: Reduce(Initial(), Navigate{Tab: TabSettings}), isAdmin: true, want: RouteAdminDashboard},
		{name: "detail", state: Reduce(Initial(), Select{Category: content.CategoryPost, ID: "1"}), want: RouteDetail},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.state.Route(tt.isAdmin).Kind; got != tt.want {
				t.Fatalf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestReduce_LoginLogoutPublished(t *testing.T) {
	s := Reduce(Initial(), LoggedIn{})
	if s.Route(true).Kind != RouteAdminDashboard {
		t.Fatalf("expected dashboard after login, got %s", s.Route(true).Kind)
	}

	s = Reduce(s, LoggedOut{})
	if s.Route(false).Kind != RouteHome {
		t.Fatalf("expected home after logout, got %s", s.Route(false).Kind)
	}

	s = Reduce(s, Navigate{Tab: TabPosts})
	s = Reduce(s, ItemsLoaded{Total: 20})
	s = Reduce(s, ChangePage{Page: 2})
	s = Reduce(s, Published{Category: content.CategoryProject})
	route := s.Route(true)
	if route.Kind != RouteList || route.Category != content.CategoryProject {
		t.Fatalf("expected projects list after publish, got %+v", route)
	}
	if s.Pager.Current != 1 {
		t.Fatalf("expected page 1 after publish, got %d", s.Pager.Current)
	}
}

func TestEncodeDecode(t *testing.T) {
	s := Reduce(Initial(), Navigate{Tab: TabProjects})
	s = Reduce(s, ChangePageSize{Size: 3})
	s = Reduce(s, ItemsLoaded{Total: 9})
	s = Reduce(s, ChangePage{Page: 2})
	s = Reduce(s, Select{Category: content.CategoryProject, ID: "abc"})

	raw, err := s.Encode()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if got := Decode(raw); got != s {
		t.Fatalf("expected %+v, got %+v", s, got)
	}
}

func TestDecode_FallsBackOnGarbage(t *testing.T) {
	if got := Decode("{not json"); got != Initial() {
		t.Fatalf("expected initial state, got %+v", got)
	}

	got := Decode(`{"tab":"bogus","selected":{"category":"nope","id":"1"},"pager":{"pageSize":7,"currentPage":9,"totalItems":4}}`)
	if got.Tab != TabHome || got.HasSelection() {
		t.Fatalf("expected sanitized tab and selection, got %+v", got)
	}
	if got.Pager.Size != content.DefaultPageSize || got.Pager.Current != 1 || got.Pager.Total != 4 {
		t.Fatalf("unexpected pager %+v", got.Pager)
	}
}

func TestStaticViews(t *testing.T) {
	if len(Tools()) == 0 {
		t.Fatal("expected toolbox links")
	}
	profile := Intro()
	profile.Taglines[0] = "changed"
	if Intro().Taglines[0] == "changed" {
		t.Fatal("expected Intro to return a copy")
	}
	for _, contact := range profile.Contacts {
		if Icon(contact.Icon) == Icon("default") && contact.Icon != "default" {
			t.Fatalf("missing icon for %s", contact.Icon)
		}
	}
	if Icon("unknown") != Icon("default") {
		t.Fatal("expected fallback icon")
	}
}
