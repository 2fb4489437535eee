package fetch

import (
	"errors"
	"testing"
)

func TestStaleCompletionIsDropped(t *testing.T) {
	c := NewCoordinator()

	e1 := c.Begin("browse")
	e2 := c.Begin("browse")

	// The newer request finishes first.
	if !c.Complete("browse", e2, nil) {
		t.Fatal("current completion should be accepted")
	}
	// The older one straggles in afterwards.
	if c.Complete("browse", e1, nil) {
		t.Fatal("stale completion should be dropped")
	}

	st := c.Status("browse")
	if st.Loading || st.Err != nil || !st.Loaded {
		t.Fatalf("unexpected status after out-of-order completions: %+v", st)
	}
}

func TestStaleErrorDoesNotTouchStatus(t *testing.T) {
	c := NewCoordinator()

	e1 := c.Begin("search")
	e2 := c.Begin("search")

	if !c.Complete("search", e2, nil) {
		t.Fatal("current completion should be accepted")
	}
	if c.Complete("search", e1, errors.New("boom")) {
		t.Fatal("stale failure should be dropped")
	}
	if err := c.Err("search"); err != nil {
		t.Fatalf("stale failure leaked into status: %v", err)
	}
}

func TestBeginClearsPreviousError(t *testing.T) {
	c := NewCoordinator()

	e := c.Begin("home.recs")
	c.Complete("home.recs", e, errors.New("backend down"))
	if c.Err("home.recs") == nil {
		t.Fatal("expected recorded error")
	}

	c.Begin("home.recs")
	st := c.Status("home.recs")
	if st.Err != nil {
		t.Fatal("Begin should clear the previous error")
	}
	if !st.Loading {
		t.Fatal("Begin should mark the section loading")
	}
}

func TestSectionsAreIndependent(t *testing.T) {
	c := NewCoordinator()

	eTop := c.Begin("home.top")
	eRecs := c.Begin("home.recs")

	c.Complete("home.recs", eRecs, errors.New("401"))

	if c.Err("home.top") != nil {
		t.Fatal("failure in one section leaked into another")
	}
	if !c.Loading("home.top") {
		t.Fatal("sibling section lost its loading state")
	}

	c.Complete("home.top", eTop, nil)
	if !c.Status("home.top").Loaded {
		t.Fatal("top section should be loaded")
	}
	if c.Err("home.recs") == nil {
		t.Fatal("recs failure should still be recorded")
	}
}

func TestResetForgetsStatusButNotEpochs(t *testing.T) {
	c := NewCoordinator()

	e1 := c.Begin("detail.rating")
	c.Reset("detail.rating")

	if st := c.Status("detail.rating"); st.Loading || st.Loaded || st.Err != nil {
		t.Fatalf("reset section should read as zero status: %+v", st)
	}

	// A fetch issued before the reset can still not clobber a later one.
	e2 := c.Begin("detail.rating")
	if e2 <= e1 {
		t.Fatalf("epochs must never rewind: %d then %d", e1, e2)
	}
	if c.Complete("detail.rating", e1, nil) {
		t.Fatal("pre-reset completion should be stale")
	}
}

func TestResetMakesInFlightFetchStale(t *testing.T) {
	c := NewCoordinator()

	// A fetch is in flight when the section is cleared; no new fetch
	// follows. The straggling response must not repopulate the section.
	e := c.Begin("search")
	c.Reset("search")

	if c.Complete("search", e, nil) {
		t.Fatal("completion issued before the reset should be stale")
	}
	if st := c.Status("search"); st.Loading || st.Loaded || st.Err != nil {
		t.Fatalf("stale completion touched a reset section: %+v", st)
	}
}

func TestAnyLoading(t *testing.T) {
	c := NewCoordinator()
	if c.AnyLoading() {
		t.Fatal("fresh coordinator should not be loading")
	}

	e := c.Begin("browse")
	if !c.AnyLoading() {
		t.Fatal("expected global loading")
	}
	if !c.AnyLoading("browse", "search") {
		t.Fatal("expected loading among named sections")
	}
	if c.AnyLoading("search") {
		t.Fatal("unrelated section should not read as loading")
	}

	c.Complete("browse", e, nil)
	if c.AnyLoading() {
		t.Fatal("nothing should be loading after completion")
	}
}
