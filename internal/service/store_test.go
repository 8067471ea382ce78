package service

import (
	"context"
	"errors"
	"testing"

	"github.com/cyberblog/internal/content"
)

func TestDocumentStore_ListOrdersByDateDesc(t *testing.T) {
	gdb := setupServiceTestDB(t)
	store := NewDocumentStore(gdb)
	seeded := seedItems(t, store, content.CategoryPost, 4)

	items, err := store.List(context.Background(), content.CategoryPost)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 4 {
		t.Fatalf("expected 4 items, got %d", len(items))
	}
	for i := range items {
		if items[i].ID != seeded[i].ID {
			t.Fatalf("position %d: expected %s, got %s", i, seeded[i].Title, items[i].Title)
		}
		if items[i].Category != content.CategoryPost {
			t.Fatalf("expected category post, got %s", items[i].Category)
		}
	}
}

func TestDocumentStore_CollectionsAreDisjoint(t *testing.T) {
	gdb := setupServiceTestDB(t)
	store := NewDocumentStore(gdb)
	seedItems(t, store, content.CategoryPost, 2)
	seedItems(t, store, content.CategoryProject, 3)

	posts, err := store.Count(context.Background(), content.CategoryPost)
	if err != nil {
		t.Fatalf("count posts: %v", err)
	}
	projects, err := store.Count(context.Background(), content.CategoryProject)
	if err != nil {
		t.Fatalf("count projects: %v", err)
	}
	if posts != 2 || projects != 3 {
		t.Fatalf("expected 2 posts and 3 projects, got %d and %d", posts, projects)
	}
}

func TestDocumentStore_CreateAssignsIDAndZeroViews(t *testing.T) {
	gdb := setupServiceTestDB(t)
	store := NewDocumentStore(gdb)

	item, err := store.Create(context.Background(), content.CategoryProject, NewItem{Title: "t", Content: "c"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if item.ID == "" {
		t.Fatal("expected store assigned id")
	}
	if item.Views != 0 {
		t.Fatalf("expected views 0, got %d", item.Views)
	}
	if item.Date.IsZero() {
		t.Fatal("expected date to default to now")
	}
}

func TestDocumentStore_UpdateDeleteAndViews(t *testing.T) {
	gdb := setupServiceTestDB(t)
	store := NewDocumentStore(gdb)
	ctx := context.Background()
	item := seedItems(t, store, content.CategoryPost, 1)[0]

	title := "新的标题"
	updated, err := store.Update(ctx, content.CategoryPost, item.ID, ItemPatch{Title: &title})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Title != title || updated.Content != item.Content {
		t.Fatalf("unexpected updated item: %+v", updated)
	}

	if err := store.IncrementViews(ctx, content.CategoryPost, item.ID); err != nil {
		t.Fatalf("increment views: %v", err)
	}
	if err := store.IncrementViews(ctx, content.CategoryPost, item.ID); err != nil {
		t.Fatalf("increment views: %v", err)
	}
	viewed, err := store.Get(ctx, content.CategoryPost, item.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if viewed.Views != 2 {
		t.Fatalf("expected 2 views, got %d", viewed.Views)
	}

	if err := store.Delete(ctx, content.CategoryPost, item.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.Get(ctx, content.CategoryPost, item.ID); !errors.Is(err, ErrItemNotFound) {
		t.Fatalf("expected ErrItemNotFound after delete, got %v", err)
	}
	if err := store.Delete(ctx, content.CategoryPost, item.ID); !errors.Is(err, ErrItemNotFound) {
		t.Fatalf("expected ErrItemNotFound deleting twice, got %v", err)
	}
	if _, err := store.Update(ctx, content.CategoryProject, item.ID, ItemPatch{Title: &title}); !errors.Is(err, ErrItemNotFound) {
		t.Fatalf("expected ErrItemNotFound updating other collection, got %v", err)
	}
}

func TestDocumentStore_Ping(t *testing.T) {
	gdb := setupServiceTestDB(t)
	if err := NewDocumentStore(gdb).Ping(context.Background()); err != nil {
		t.Fatalf("ping: %v", err)
	}
}
