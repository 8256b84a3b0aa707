package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YoshitsuguKoike/kindred/internal/domain/model/record"
	"github.com/YoshitsuguKoike/kindred/internal/domain/model/reflection"
)

func TestReflection_Share(t *testing.T) {
	ws, deps, _ := newTestWorkspace(t)
	s := ws.Reflection

	msgs := s.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, reflection.SpeakerCoach, msgs[0].Speaker)
	assert.Equal(t, deps.Catalog.CoachGreeting, msgs[0].Text)

	_, err := s.Share("   ")
	assert.True(t, IsValidation(err))
	assert.Len(t, s.Messages(), 1)

	reply, err := s.Share("I keep apologising for things that aren't my fault")
	require.NoError(t, err)
	assert.Equal(t, deps.Catalog.CoachResponses[0], reply.Text)

	msgs = s.Messages()
	require.Len(t, msgs, 3)
	assert.Equal(t, reflection.SpeakerUser, msgs[1].Speaker)
	assert.Equal(t, reflection.SpeakerCoach, msgs[2].Speaker)
	assert.Equal(t, 1, s.SharedCount())
	assert.Len(t, s.Prompts(), 5)
	assert.NotEmpty(t, s.Reminder())
}

func TestTracker_AddAndFilter(t *testing.T) {
	ws, _, _ := newTestWorkspace(t)
	s := ws.Tracker
	ctx := context.Background()

	forms := []InteractionForm{
		{Person: "Sarah", Type: TypeTheyReached, Description: "Called to check in after my presentation", Energy: "high"},
		{Person: "Mom", Type: TypeReachedOut, Description: "Sent flowers for her birthday", Energy: "high"},
		{Person: "Sam", Type: "quality-time", Description: "Long walk"},
	}
	for _, f := range forms {
		_, err := s.Add(ctx, f)
		require.NoError(t, err)
	}

	_, err := s.Add(ctx, InteractionForm{Person: "Sam", Type: TypeReachedOut, Description: "  "})
	assert.True(t, IsValidation(err))

	st, err := s.State(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, "all", st.Category)
	assert.Equal(t, 3, st.Total)
	var people []string
	for _, r := range st.Interactions {
		people = append(people, r.Subject)
	}
	if diff := cmp.Diff([]string{"Sam", "Mom", "Sarah"}, people); diff != "" {
		t.Errorf("interaction order mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, record.EnergyMedium, st.Interactions[0].Energy, "energy defaults to medium")

	st, err = s.State(ctx, TypeReachedOut)
	require.NoError(t, err)
	require.Len(t, st.Interactions, 1)
	assert.Equal(t, "Mom", st.Interactions[0].Subject)

	st, err = s.State(ctx, "conflict")
	require.NoError(t, err)
	assert.Empty(t, st.Interactions)

	assert.Equal(t, "You reached out", s.Label(TypeReachedOut))
}

func TestTracker_WeeklyPatterns(t *testing.T) {
	ws, deps, clk := newTestWorkspace(t)
	s := ws.Tracker
	ctx := context.Background()

	clk.Set(fixedNow.Add(-10 * 24 * time.Hour))
	_, err := s.Add(ctx, InteractionForm{Person: "Old", Type: TypeReachedOut, Description: "ancient"})
	require.NoError(t, err)

	clk.Set(fixedNow)
	for _, typ := range []string{TypeReachedOut, TypeReachedOut, TypeTheyReached, "support"} {
		_, err := s.Add(ctx, InteractionForm{Person: "Sam", Type: typ, Description: "x"})
		require.NoError(t, err)
	}

	p, err := s.Patterns(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, p.YouReachedOut)
	assert.Equal(t, 1, p.TheyReachedOut)
	assert.Equal(t, deps.Catalog.TrackerInsights[0], p.Insight)
}

func TestMirror_Walk(t *testing.T) {
	ws, _, _ := newTestWorkspace(t)
	s := ws.Mirror
	ctx := context.Background()

	assert.True(t, IsValidation(s.Select("astrology")))

	_, err := s.Save(ctx, "something")
	assert.True(t, IsValidation(err), "save without category")

	require.NoError(t, s.Select("communication"))
	st, err := s.State(ctx)
	require.NoError(t, err)
	require.True(t, st.Active)
	assert.Equal(t, 1, st.Number)
	assert.Equal(t, 4, st.Count)
	first := st.Prompt

	_, err = s.Save(ctx, "   ")
	assert.True(t, IsValidation(err))
	st, _ = s.State(ctx)
	assert.Equal(t, 1, st.Number, "empty answer keeps the prompt")

	rec, err := s.Save(ctx, "I go quiet when I'm hurt")
	require.NoError(t, err)
	assert.Equal(t, "communication", rec.Category)
	assert.Equal(t, first, rec.Subject)
	assert.Equal(t, record.Energy(""), rec.Energy)

	s.Skip()
	_, err = s.Save(ctx, "third answer")
	require.NoError(t, err)
	_, err = s.Save(ctx, "fourth answer")
	require.NoError(t, err)

	st, err = s.State(ctx)
	require.NoError(t, err)
	assert.False(t, st.Active, "after the last prompt the mirror returns to selection")
	assert.Equal(t, 3, st.Total)
	require.Len(t, st.Recent, 3)
	assert.Equal(t, "fourth answer", st.Recent[0].Text)

	require.NoError(t, s.Select("intimacy"))
	s.Leave()
	st, _ = s.State(ctx)
	assert.False(t, st.Active)
}

func TestScripts_CustomizeAndFilter(t *testing.T) {
	ws, deps, _ := newTestWorkspace(t)
	s := ws.Scripts
	ctx := context.Background()

	before, err := s.Entries(ctx)
	require.NoError(t, err)
	require.Len(t, before, 8)

	require.NoError(t, s.Customize(ctx, "unknown", "x"))
	after, err := s.Entries(ctx)
	require.NoError(t, err)
	if diff := cmp.Diff(before, after); diff != "" {
		t.Errorf("unknown customize changed entries (-before +after):\n%s", diff)
	}

	require.NoError(t, s.Customize(ctx, "1", "new text"))
	st, err := s.State(ctx, "all")
	require.NoError(t, err)
	assert.Equal(t, "new text", st.Entries[0].Text())
	assert.Equal(t, deps.Catalog.Scripts[0].Template, st.Entries[0].Template.Template)
	assert.Len(t, st.Guidance, 5)

	n, err := s.CustomizedCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	require.NoError(t, s.Reset(ctx, "1"))
	st, err = s.State(ctx, "boundaries")
	require.NoError(t, err)
	require.NotEmpty(t, st.Entries)
	for _, e := range st.Entries {
		assert.Equal(t, "boundaries", e.Category)
		assert.False(t, e.IsCustomized())
	}
}

func TestDashboard_State(t *testing.T) {
	ws, deps, _ := newTestWorkspace(t)
	ctx := context.Background()

	st, err := ws.Dashboard.State(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, DefaultDisplayName, st.Name)
	assert.Equal(t, "Monday", st.Weekday)
	assert.Equal(t, deps.Catalog.DailyAffirmation(fixedNow), st.Affirmation)
	assert.Len(t, st.Features, 4)
	assert.Nil(t, st.Plan)
	assert.Equal(t, DashboardStats{}, st.Stats)

	_, err = ws.Reflection.Share("hello")
	require.NoError(t, err)
	_, err = ws.Tracker.Add(ctx, InteractionForm{Person: "Mom", Type: TypeReachedOut, Description: "Called"})
	require.NoError(t, err)
	require.NoError(t, ws.Scripts.Customize(ctx, "2", "mine"))

	st, err = ws.Dashboard.State(ctx, "annual")
	require.NoError(t, err)
	require.NotNil(t, st.Plan)
	assert.Equal(t, "annual", st.Plan.ID)
	assert.Equal(t, DashboardStats{ReflectionsShared: 1, InteractionsLogged: 1, ScriptsCustomized: 1}, st.Stats)

	st, err = ws.Dashboard.State(ctx, "platinum")
	require.NoError(t, err)
	assert.Nil(t, st.Plan)
}

func TestWorkspaces_AreIsolated(t *testing.T) {
	deps, _ := newTestDeps(t, nil)
	ctx := context.Background()
	a := NewWorkspace(deps, "owner-a")
	b := NewWorkspace(deps, "owner-b")

	_, err := a.Tracker.Add(ctx, InteractionForm{Person: "Mom", Type: TypeReachedOut, Description: "Called"})
	require.NoError(t, err)
	require.NoError(t, a.Scripts.Customize(ctx, "1", "mine"))

	n, err := b.Tracker.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
	n, err = b.Scripts.CustomizedCount(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}
