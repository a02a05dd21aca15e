package noteservice_test

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/starford/notebook/internal/apperr"
	"github.com/starford/notebook/internal/noteservice"
	"github.com/starford/notebook/internal/testutil"
)

func TestAddAndGet(t *testing.T) {
	rec := &testutil.Recorder{}
	svc := testutil.TestService(t, rec)
	ctx := context.Background()

	if _, err := svc.AddNote(ctx, "Remember my cheese", "I want both Gouda and Cheddar"); err != nil {
		t.Fatalf("AddNote: %v", err)
	}
	n, err := svc.GetNote(ctx, "Remember my cheese")
	if err != nil {
		t.Fatalf("GetNote: %v", err)
	}
	if n.Contents != "I want both Gouda and Cheddar" {
		t.Errorf("contents = %q", n.Contents)
	}
	want := []testutil.Event{{Kind: noteservice.KindAdded, Name: "Remember my cheese"}}
	if got := rec.Events(); !reflect.DeepEqual(got, want) {
		t.Errorf("events = %+v, want %+v", got, want)
	}
}

func TestGetMissing(t *testing.T) {
	svc := testutil.TestService(t, nil)
	if _, err := svc.GetNote(context.Background(), "nope"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestAddRejectsEmpty(t *testing.T) {
	rec := &testutil.Recorder{}
	svc := testutil.TestService(t, rec)
	ctx := context.Background()

	for _, tc := range []struct{ name, contents string }{
		{"", "text"},
		{"name", ""},
		{"", ""},
	} {
		if _, err := svc.AddNote(ctx, tc.name, tc.contents); !errors.Is(err, apperr.ErrInvalidNote) {
			t.Errorf("AddNote(%q, %q) err = %v, want ErrInvalidNote", tc.name, tc.contents, err)
		}
	}
	if len(svc.ListNotes(ctx)) != 0 {
		t.Error("invalid note was stored")
	}
	if len(rec.Events()) != 0 {
		t.Error("invalid add published an event")
	}
}

func TestUpdateMissing(t *testing.T) {
	rec := &testutil.Recorder{}
	svc := testutil.TestService(t, rec)
	if _, err := svc.UpdateNote(context.Background(), "ghost", "x"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
	if len(rec.Events()) != 0 {
		t.Error("failed update published an event")
	}
}

func TestUpdateFindClear(t *testing.T) {
	rec := &testutil.Recorder{}
	svc := testutil.TestService(t, rec)
	ctx := context.Background()

	_, _ = svc.AddNote(ctx, "1", "Today is Friday.")
	if _, err := svc.UpdateNote(ctx, "1", "Today is Saturday."); err != nil {
		t.Fatalf("UpdateNote: %v", err)
	}
	if got := svc.Find(ctx, "saturday"); !reflect.DeepEqual(got, []string{"1"}) {
		t.Errorf("Find = %v", got)
	}
	if err := svc.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if got := svc.ListNotes(ctx); len(got) != 0 {
		t.Errorf("ListNotes after Clear = %v", got)
	}

	want := []testutil.Event{
		{Kind: noteservice.KindAdded, Name: "1"},
		{Kind: noteservice.KindUpdated, Name: "1"},
		{Kind: noteservice.KindCleared},
	}
	if got := rec.Events(); !reflect.DeepEqual(got, want) {
		t.Errorf("events = %+v, want %+v", got, want)
	}
}

func TestReloadPublishes(t *testing.T) {
	rec := &testutil.Recorder{}
	svc := testutil.TestService(t, rec)
	if err := svc.Reload(context.Background()); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	want := []testutil.Event{{Kind: noteservice.KindReloaded}}
	if got := rec.Events(); !reflect.DeepEqual(got, want) {
		t.Errorf("events = %+v, want %+v", got, want)
	}
}
