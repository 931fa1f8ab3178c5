// Package repotest is a conformance suite run against every
// domain.Provider implementation.
package repotest

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/msomdec/linkvote/internal/domain"
)

// OpenFunc returns a freshly migrated, empty provider. It should register
// its own cleanup with t.
type OpenFunc func(t *testing.T) domain.Provider

// Run executes the whole suite against the providers returned by open.
func Run(t *testing.T, open OpenFunc) {
	tests := []struct {
		name string
		fn   func(t *testing.T, p domain.Provider)
	}{
		{"UserCreateAndGet", testUserCreateAndGet},
		{"UserDuplicateUsername", testUserDuplicateUsername},
		{"UserDuplicateEmail", testUserDuplicateEmail},
		{"UserWithoutEmail", testUserWithoutEmail},
		{"UserGetByUsername", testUserGetByUsername},
		{"UserNotFound", testUserNotFound},
		{"ContentCreateForOwner", testContentCreateForOwner},
		{"ContentMissingOwner", testContentMissingOwner},
		{"ContentListByOwner", testContentListByOwner},
		{"VoteCastAndGet", testVoteCastAndGet},
		{"VoteDuplicateFirstWriteStands", testVoteDuplicate},
		{"VoteMissingReferences", testVoteMissingReferences},
		{"VoteConcurrentDuplicates", testVoteConcurrent},
		{"VoteTally", testVoteTally},
		{"DeleteUserCascades", testDeleteUserCascades},
		{"DeleteContentCascades", testDeleteContentCascades},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tc.fn(t, open(t))
		})
	}
}

// MustUser creates a user with a unique username derived from name.
func MustUser(t *testing.T, p domain.Provider, name string) *domain.User {
	t.Helper()
	u := &domain.User{
		Username:     name,
		Email:        name + "@example.com",
		PasswordHash: "hash-" + name,
	}
	if err := p.Users().Create(context.Background(), u); err != nil {
		t.Fatalf("create user %s: %v", name, err)
	}
	return u
}

// MustContent creates a content item owned by ownerID.
func MustContent(t *testing.T, p domain.Provider, ownerID int64, title string) *domain.Content {
	t.Helper()
	c := &domain.Content{URL: "http://example.com/" + title, Title: title}
	if err := p.Contents().CreateForOwner(context.Background(), ownerID, c); err != nil {
		t.Fatalf("create content %s: %v", title, err)
	}
	return c
}

func testUserCreateAndGet(t *testing.T, p domain.Provider) {
	ctx := context.Background()
	u := MustUser(t, p, "alice")

	if u.ID == 0 {
		t.Fatal("expected user ID to be set after create")
	}
	if u.CreatedAt.IsZero() || u.UpdatedAt.IsZero() {
		t.Fatal("expected CreatedAt and UpdatedAt to be set")
	}

	found, err := p.Users().GetByID(ctx, u.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if found.ID != u.ID || found.Username != u.Username || found.Email != u.Email || found.PasswordHash != u.PasswordHash {
		t.Fatalf("expected %+v, got %+v", u, found)
	}
	if !found.CreatedAt.Equal(u.CreatedAt) || !found.UpdatedAt.Equal(u.UpdatedAt) {
		t.Fatalf("timestamps differ: created %v vs %v, updated %v vs %v",
			u.CreatedAt, found.CreatedAt, u.UpdatedAt, found.UpdatedAt)
	}
}

func testUserDuplicateUsername(t *testing.T, p domain.Provider) {
	MustUser(t, p, "dup")

	again := &domain.User{Username: "dup", Email: "other@example.com", PasswordHash: "x"}
	err := p.Users().Create(context.Background(), again)
	if !errors.Is(err, domain.ErrConstraintViolation) {
		t.Fatalf("expected ErrConstraintViolation, got %v", err)
	}
	if errors.Is(err, domain.ErrDuplicateVote) {
		t.Fatalf("duplicate user must not be reported as a duplicate vote: %v", err)
	}
	if !strings.Contains(err.Error(), "username") || strings.Contains(err.Error(), "email") {
		t.Fatalf("expected error to name the username, got %v", err)
	}
}

func testUserDuplicateEmail(t *testing.T, p domain.Provider) {
	MustUser(t, p, "first")

	again := &domain.User{Username: "second", Email: "first@example.com", PasswordHash: "x"}
	err := p.Users().Create(context.Background(), again)
	if !errors.Is(err, domain.ErrConstraintViolation) {
		t.Fatalf("expected ErrConstraintViolation, got %v", err)
	}
	if !strings.Contains(err.Error(), "email") || strings.Contains(err.Error(), "username") {
		t.Fatalf("expected error to name the email, got %v", err)
	}
}

func testUserWithoutEmail(t *testing.T, p domain.Provider) {
	ctx := context.Background()

	for _, name := range []string{"noemail1", "noemail2"} {
		u := &domain.User{Username: name, PasswordHash: "hash-" + name}
		if err := p.Users().Create(ctx, u); err != nil {
			t.Fatalf("create %s without email: %v", name, err)
		}

		found, err := p.Users().GetByID(ctx, u.ID)
		if err != nil {
			t.Fatalf("GetByID: %v", err)
		}
		if found.Email != "" {
			t.Fatalf("expected empty email, got %q", found.Email)
		}
	}
}

func testUserGetByUsername(t *testing.T, p domain.Provider) {
	u := MustUser(t, p, "byname")

	found, err := p.Users().GetByUsername(context.Background(), "byname")
	if err != nil {
		t.Fatalf("GetByUsername: %v", err)
	}
	if found.ID != u.ID {
		t.Fatalf("expected id %d, got %d", u.ID, found.ID)
	}
}

func testUserNotFound(t *testing.T, p domain.Provider) {
	ctx := context.Background()
	if _, err := p.Users().GetByID(ctx, 99999); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound from GetByID, got %v", err)
	}
	if _, err := p.Users().GetByUsername(ctx, "nobody"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound from GetByUsername, got %v", err)
	}
	if err := p.Users().Delete(ctx, 99999); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound from Delete, got %v", err)
	}
}

func testContentCreateForOwner(t *testing.T, p domain.Provider) {
	u := MustUser(t, p, "owner")
	c := MustContent(t, p, u.ID, "X")

	if c.ID == 0 {
		t.Fatal("expected content ID to be set")
	}
	if c.OwnerID != u.ID {
		t.Fatalf("expected owner %d, got %d", u.ID, c.OwnerID)
	}

	found, err := p.Contents().GetByID(context.Background(), c.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if found.OwnerID != u.ID || found.URL != c.URL || found.Title != c.Title {
		t.Fatalf("expected %+v, got %+v", c, found)
	}
}

func testContentMissingOwner(t *testing.T, p domain.Provider) {
	ctx := context.Background()
	c := &domain.Content{URL: "http://x.com", Title: "X"}

	err := p.Contents().CreateForOwner(ctx, 424242, c)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if c.ID != 0 {
		t.Fatalf("expected no ID assigned on failure, got %d", c.ID)
	}

	list, err := p.Contents().ListByOwner(ctx, 424242)
	if err != nil {
		t.Fatalf("ListByOwner: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("expected no content rows, got %d", len(list))
	}
}

func testContentListByOwner(t *testing.T, p domain.Provider) {
	a := MustUser(t, p, "lister")
	b := MustUser(t, p, "other")
	MustContent(t, p, a.ID, "one")
	MustContent(t, p, a.ID, "two")
	MustContent(t, p, b.ID, "three")

	list, err := p.Contents().ListByOwner(context.Background(), a.ID)
	if err != nil {
		t.Fatalf("ListByOwner: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 items, got %d", len(list))
	}
	for _, c := range list {
		if c.OwnerID != a.ID {
			t.Fatalf("expected owner %d, got %d", a.ID, c.OwnerID)
		}
	}
}

func testVoteCastAndGet(t *testing.T, p domain.Provider) {
	ctx := context.Background()
	u := MustUser(t, p, "voter")
	c := MustContent(t, p, u.ID, "voted")

	v := &domain.Vote{UserID: u.ID, ContentID: c.ID, UpVote: true}
	if err := p.Votes().Cast(ctx, v); err != nil {
		t.Fatalf("Cast: %v", err)
	}
	if v.CreatedAt.IsZero() {
		t.Fatal("expected CreatedAt to be set")
	}

	found, err := p.Votes().Get(ctx, u.ID, c.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !found.UpVote || found.UserID != u.ID || found.ContentID != c.ID {
		t.Fatalf("unexpected vote %+v", found)
	}
}

func testVoteDuplicate(t *testing.T, p domain.Provider) {
	ctx := context.Background()
	u := MustUser(t, p, "twice")
	c := MustContent(t, p, u.ID, "target")

	if err := p.Votes().Cast(ctx, &domain.Vote{UserID: u.ID, ContentID: c.ID, UpVote: true}); err != nil {
		t.Fatalf("first Cast: %v", err)
	}

	err := p.Votes().Cast(ctx, &domain.Vote{UserID: u.ID, ContentID: c.ID, UpVote: false})
	if !errors.Is(err, domain.ErrDuplicateVote) {
		t.Fatalf("expected ErrDuplicateVote, got %v", err)
	}

	stored, err := p.Votes().Get(ctx, u.ID, c.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !stored.UpVote {
		t.Fatal("expected the first vote (up) to stand")
	}
}

func testVoteMissingReferences(t *testing.T, p domain.Provider) {
	ctx := context.Background()
	u := MustUser(t, p, "lonely")
	c := MustContent(t, p, u.ID, "orphanable")

	err := p.Votes().Cast(ctx, &domain.Vote{UserID: 99999, ContentID: c.ID, UpVote: true})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing user, got %v", err)
	}

	err = p.Votes().Cast(ctx, &domain.Vote{UserID: u.ID, ContentID: 99999, UpVote: true})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing content, got %v", err)
	}

	tally, err := p.Votes().Tally(ctx, c.ID)
	if err != nil {
		t.Fatalf("Tally: %v", err)
	}
	if tally.Up+tally.Down != 0 {
		t.Fatalf("expected no stored votes, got %+v", tally)
	}
}

func testVoteConcurrent(t *testing.T, p domain.Provider) {
	ctx := context.Background()
	u := MustUser(t, p, "racer")
	c := MustContent(t, p, u.ID, "contested")

	const workers = 8
	var (
		wg         sync.WaitGroup
		successes  atomic.Int32
		duplicates atomic.Int32
		unexpected = make(chan error, workers)
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(up bool) {
			defer wg.Done()
			err := p.Votes().Cast(ctx, &domain.Vote{UserID: u.ID, ContentID: c.ID, UpVote: up})
			switch {
			case err == nil:
				successes.Add(1)
			case errors.Is(err, domain.ErrDuplicateVote):
				duplicates.Add(1)
			default:
				unexpected <- err
			}
		}(i%2 == 0)
	}
	wg.Wait()
	close(unexpected)

	for err := range unexpected {
		t.Errorf("unexpected error: %v", err)
	}
	if successes.Load() != 1 {
		t.Fatalf("expected exactly 1 successful vote, got %d", successes.Load())
	}
	if duplicates.Load() != workers-1 {
		t.Fatalf("expected %d duplicate votes, got %d", workers-1, duplicates.Load())
	}

	tally, err := p.Votes().Tally(ctx, c.ID)
	if err != nil {
		t.Fatalf("Tally: %v", err)
	}
	if tally.Up+tally.Down != 1 {
		t.Fatalf("expected exactly one stored vote, got %+v", tally)
	}
}

func testVoteTally(t *testing.T, p domain.Provider) {
	ctx := context.Background()
	owner := MustUser(t, p, "poster")
	c := MustContent(t, p, owner.ID, "popular")

	for i, up := range []bool{true, true, false, true} {
		u := MustUser(t, p, fmt.Sprintf("fan%d", i))
		if err := p.Votes().Cast(ctx, &domain.Vote{UserID: u.ID, ContentID: c.ID, UpVote: up}); err != nil {
			t.Fatalf("Cast %d: %v", i, err)
		}
	}

	tally, err := p.Votes().Tally(ctx, c.ID)
	if err != nil {
		t.Fatalf("Tally: %v", err)
	}
	if tally.Up != 3 || tally.Down != 1 || tally.Score() != 2 {
		t.Fatalf("unexpected tally %+v", tally)
	}

	if _, err := p.Votes().Tally(ctx, 99999); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing content, got %v", err)
	}
}

func testDeleteUserCascades(t *testing.T, p domain.Provider) {
	ctx := context.Background()
	doomed := MustUser(t, p, "doomed")
	survivor := MustUser(t, p, "survivor")

	owned := MustContent(t, p, doomed.ID, "owned")
	theirs := MustContent(t, p, survivor.ID, "theirs")

	// survivor votes on doomed's content, doomed votes on survivor's content.
	if err := p.Votes().Cast(ctx, &domain.Vote{UserID: survivor.ID, ContentID: owned.ID, UpVote: true}); err != nil {
		t.Fatalf("Cast: %v", err)
	}
	if err := p.Votes().Cast(ctx, &domain.Vote{UserID: doomed.ID, ContentID: theirs.ID, UpVote: false}); err != nil {
		t.Fatalf("Cast: %v", err)
	}

	if err := p.Users().Delete(ctx, doomed.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	if _, err := p.Contents().GetByID(ctx, owned.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected owned content to be deleted, got %v", err)
	}
	if _, err := p.Votes().Get(ctx, survivor.ID, owned.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected vote on owned content to be deleted, got %v", err)
	}
	if _, err := p.Votes().Get(ctx, doomed.ID, theirs.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected vote cast by deleted user to be deleted, got %v", err)
	}
	if _, err := p.Contents().GetByID(ctx, theirs.ID); err != nil {
		t.Fatalf("expected survivor content to remain, got %v", err)
	}
}

func testDeleteContentCascades(t *testing.T, p domain.Provider) {
	ctx := context.Background()
	u := MustUser(t, p, "editor")
	c := MustContent(t, p, u.ID, "retracted")

	if err := p.Votes().Cast(ctx, &domain.Vote{UserID: u.ID, ContentID: c.ID, UpVote: true}); err != nil {
		t.Fatalf("Cast: %v", err)
	}
	if err := p.Contents().Delete(ctx, c.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := p.Votes().Get(ctx, u.ID, c.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected vote to be deleted, got %v", err)
	}
	if _, err := p.Users().GetByID(ctx, u.ID); err != nil {
		t.Fatalf("expected user to remain, got %v", err)
	}
	if err := p.Contents().Delete(ctx, c.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}
