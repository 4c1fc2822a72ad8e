// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package timeline

import (
	"context"
	"database/sql"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/dailyq/errs"
	"github.com/danielhkuo/dailyq/models"
	"github.com/danielhkuo/dailyq/store"
	"github.com/danielhkuo/dailyq/testutil"
)

var published = time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

func setup(t *testing.T) (*Assembler, *sql.DB, string) {
	t.Helper()
	conn := testutil.SetupTestDB(t)
	qid := testutil.CreateTestQuestion(t, conn, "What made you smile?", "2024-05-01")
	testutil.CreateTestDailyQuestion(t, conn, "2024-05-01", qid, "10:00", &published)

	a := NewAssembler(store.New(conn, 5*time.Second, 2), testutil.GetTestConfig())
	a.now = func() time.Time { return published.Add(2 * time.Hour) }
	return a, conn, qid
}

func answerAt(t *testing.T, conn *sql.DB, qid, userID string, offset time.Duration) string {
	t.Helper()
	createdAt := published.Add(offset)
	onTime := offset <= 30*time.Minute
	late := 0
	if !onTime {
		late = int((offset - 30*time.Minute) / time.Minute)
	}
	return testutil.CreateTestAnswer(t, conn, testutil.TestAnswer{
		UserID: userID, QuestionID: qid, Date: "2024-05-01",
		IsOnTime: onTime, LateMinutes: late, CreatedAt: createdAt,
	})
}

func ids(items []models.TimelineItem) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.AnswerID
	}
	return out
}

func TestBuild_Visibility(t *testing.T) {
	a, conn, qid := setup(t)
	ctx := context.Background()

	own := answerAt(t, conn, qid, "viewer", 5*time.Minute)
	followed := answerAt(t, conn, qid, "friend", 10*time.Minute)
	answerAt(t, conn, qid, "stranger", 1*time.Minute)
	answerAt(t, conn, qid, "blocker", 2*time.Minute)
	answerAt(t, conn, qid, "blocked", 3*time.Minute)
	testutil.CreateTestAnswer(t, conn, testutil.TestAnswer{
		UserID: "gone", QuestionID: qid, Date: "2024-05-01", IsOnTime: true, IsDeleted: true, CreatedAt: published,
	})

	for _, id := range []string{"friend", "blocker", "blocked", "gone"} {
		testutil.CreateTestFollow(t, conn, "viewer", id)
	}
	testutil.CreateTestBlock(t, conn, "blocker", "viewer")
	testutil.CreateTestBlock(t, conn, "viewer", "blocked")

	feed, err := a.Build(ctx, "viewer", "2024-05-01", 0)
	require.NoError(t, err)
	assert.Equal(t, []string{own, followed}, ids(feed.Items))
	require.NotNil(t, feed.Question)
	assert.Equal(t, "What made you smile?", feed.Question.Text)
	assert.True(t, feed.Items[0].IsOwn)
	assert.False(t, feed.Items[1].IsOwn)
}

func TestBuild_BlockIsSymmetric(t *testing.T) {
	a, conn, qid := setup(t)
	ctx := context.Background()
	answerAt(t, conn, qid, "alice", time.Minute)
	answerAt(t, conn, qid, "bob", 2*time.Minute)
	testutil.CreateTestFollow(t, conn, "alice", "bob")
	testutil.CreateTestFollow(t, conn, "bob", "alice")
	testutil.CreateTestBlock(t, conn, "alice", "bob")

	for _, pair := range [][2]string{{"alice", "bob"}, {"bob", "alice"}} {
		feed, err := a.Build(ctx, pair[0], "2024-05-01", 0)
		require.NoError(t, err)
		for _, item := range feed.Items {
			assert.NotEqual(t, pair[1], item.Author.UserID, "%s must not see %s", pair[0], pair[1])
		}
		assert.Len(t, feed.Items, 1)
	}
}

func TestBuild_OrderingAndTruncation(t *testing.T) {
	a, conn, qid := setup(t)
	ctx := context.Background()

	late1 := answerAt(t, conn, qid, "a", 45*time.Minute)
	onTime2 := answerAt(t, conn, qid, "b", 20*time.Minute)
	late2 := answerAt(t, conn, qid, "c", 90*time.Minute)
	onTime1 := answerAt(t, conn, qid, "d", 1*time.Minute)
	for _, id := range []string{"a", "b", "c", "d"} {
		testutil.CreateTestFollow(t, conn, "viewer", id)
	}

	feed, err := a.Build(ctx, "viewer", "2024-05-01", 0)
	require.NoError(t, err)
	assert.Equal(t, []string{onTime1, onTime2, late1, late2}, ids(feed.Items))

	// The earliest late answer would survive a truncate-before-sort by insertion
	// order; truncating after sorting keeps only on-time answers.
	feed, err = a.Build(ctx, "viewer", "2024-05-01", 2)
	require.NoError(t, err)
	assert.Equal(t, []string{onTime1, onTime2}, ids(feed.Items))

	full, err := a.Build(ctx, "viewer", "2024-05-01", 10)
	require.NoError(t, err)
	assert.Empty(t, full.Items[0].LateLabel, "on-time items carry no label")
	assert.Equal(t, "15 minutes late", full.Items[2].LateLabel)
	assert.Equal(t, "1 hour late", full.Items[3].LateLabel)
}

func TestBuild_ReactionsAndAuthors(t *testing.T) {
	a, conn, qid := setup(t)
	ctx := context.Background()
	testutil.CreateTestUser(t, conn, "friend", "Friendly")
	id := answerAt(t, conn, qid, "friend", time.Minute)
	testutil.CreateTestFollow(t, conn, "viewer", "friend")

	feed, err := a.Build(ctx, "viewer", "", 0)
	require.NoError(t, err)
	require.Len(t, feed.Items, 1)
	assert.Equal(t, "2024-05-01", feed.Date)
	assert.False(t, feed.Items[0].HasReacted)
	assert.Equal(t, "Friendly", feed.Items[0].Author.DisplayName)

	s := store.New(conn, time.Second, 1)
	_, err = s.AddReaction(ctx, id, "viewer", time.Now())
	require.NoError(t, err)

	feed, err = a.Build(ctx, "viewer", "", 0)
	require.NoError(t, err)
	assert.True(t, feed.Items[0].HasReacted)
	assert.Equal(t, 1, feed.Items[0].ReactionCount)
}

func TestBuild_EmptyDay(t *testing.T) {
	a, conn, _ := setup(t)

	feed, err := a.Build(context.Background(), "viewer", "2024-06-01", 0)
	require.NoError(t, err)
	assert.Empty(t, feed.Items)
	assert.Nil(t, feed.Question)

	// Scheduled but not yet published.
	qid := testutil.CreateTestQuestion(t, conn, "Later", "2024-06-02")
	testutil.CreateTestDailyQuestion(t, conn, "2024-06-02", qid, "20:00", nil)
	feed, err = a.Build(context.Background(), "viewer", "2024-06-02", 0)
	require.NoError(t, err)
	assert.Empty(t, feed.Items)
	assert.Nil(t, feed.Question)
}

func TestBuild_InvalidDate(t *testing.T) {
	a, _, _ := setup(t)
	_, err := a.Build(context.Background(), "viewer", "May 1", 0)
	assert.ErrorIs(t, err, errs.ErrValidation)
}

func TestSort_Property(t *testing.T) {
	rng := rand.New(rand.NewPCG(42, 42))
	for round := 0; round < 50; round++ {
		list := make([]models.Answer, 30)
		for i := range list {
			list[i] = models.Answer{
				ID:        string(rune('a' + rng.IntN(26))),
				IsOnTime:  rng.IntN(2) == 0,
				CreatedAt: published.Add(time.Duration(rng.IntN(10)) * time.Minute),
			}
		}
		Sort(list)
		for i := 1; i < len(list); i++ {
			prev, cur := list[i-1], list[i]
			assert.False(t, !prev.IsOnTime && cur.IsOnTime, "on-time after late at %d", i)
			if prev.IsOnTime == cur.IsOnTime {
				assert.False(t, cur.CreatedAt.Before(prev.CreatedAt), "createdAt decreased at %d", i)
			}
		}
	}
}

func TestClampLimit(t *testing.T) {
	assert.Equal(t, models.DefaultTimelineLimit, clampLimit(0))
	assert.Equal(t, models.DefaultTimelineLimit, clampLimit(-3))
	assert.Equal(t, 7, clampLimit(7))
	assert.Equal(t, models.MaxTimelineLimit, clampLimit(1000))
}
