package session

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jask/casedesk/internal/model"
	"github.com/jask/casedesk/internal/preview"
	"github.com/jask/casedesk/internal/testdata"
)

func TestSetCaseAdvancesEpochAndClearsSelection(t *testing.T) {
	t.Parallel()

	s := New(nil)
	t1 := s.SetCase("A")
	require.Equal(t, LoadTicket{CaseID: "A", Epoch: 1}, t1)
	require.True(t, s.CommitAssets(t1, testdata.Catalog("A")))
	require.NoError(t, s.Select("contract.pdf"))

	t2 := s.SetCase("A")
	require.Equal(t, uint64(2), t2.Epoch)
	require.Equal(t, "A", s.CaseID())
	_, ok := s.Selected()
	require.False(t, ok, "selection must be cleared on case change")

	t3 := s.SetCase("")
	require.Equal(t, "", s.CaseID())
	require.Equal(t, uint64(3), t3.Epoch)
}

func TestStaleAssetLoadRejected(t *testing.T) {
	t.Parallel()

	s := New(nil)
	old := s.SetCase("A")
	fresh := s.SetCase("B")

	require.True(t, s.CommitAssets(fresh, testdata.Catalog("B")))
	require.False(t, s.CommitAssets(old, testdata.Catalog("A")))
	require.Equal(t, testdata.Catalog("B"), s.Assets())

	require.False(t, s.FailAssets(old, errors.New("boom")))
	require.NoError(t, s.AssetsErr())
}

func TestStaleAssetLoadWhileNewerPending(t *testing.T) {
	t.Parallel()

	s := New(nil)
	old := s.SetCase("A")
	_ = s.SetCase("B")

	require.False(t, s.CommitAssets(old, testdata.Catalog("A")))
	require.Empty(t, s.Assets())
	require.True(t, s.Snapshot().AssetsLoading)
}

func TestSetCaseDropsPreviousCatalog(t *testing.T) {
	t.Parallel()

	s := New(nil)
	onlyA := []model.Asset{{Name: "a_only.pdf", URL: "http://a/a_only.pdf"}}
	require.True(t, s.CommitAssets(s.SetCase("A"), onlyA))
	require.NoError(t, s.Select("a_only.pdf"))

	failed := s.SetCase("C")
	require.True(t, s.FailAssets(failed, errors.New("boom")))
	require.Error(t, s.AssetsErr())

	_ = s.SetCase("B")
	require.Empty(t, s.Assets())
	require.NoError(t, s.AssetsErr())
	require.ErrorIs(t, s.Select("a_only.pdf"), ErrNotInCatalog)
	_, ok := s.Selected()
	require.False(t, ok)
	require.Nil(t, s.Snapshot().Selected)
}

func TestSameEpochLoadsLastCommitWins(t *testing.T) {
	t.Parallel()

	s := New(nil)
	first := s.SetCase("A")
	second := s.Refresh()
	require.Equal(t, first, second)

	v1 := []model.Asset{{Name: "a.pdf", URL: "u1"}}
	v2 := []model.Asset{{Name: "a.pdf", URL: "u2"}}
	require.True(t, s.CommitAssets(second, v2))
	require.True(t, s.CommitAssets(first, v1))
	require.Equal(t, v1, s.Assets())
}

func TestFailedLoadEmptiesCatalogWithError(t *testing.T) {
	t.Parallel()

	s := New(nil)
	tk := s.SetCase("A")
	require.True(t, s.CommitAssets(tk, testdata.Catalog("A")))
	require.NoError(t, s.Select("deposition.mp4"))

	boom := errors.New("connection refused")
	require.True(t, s.FailAssets(s.Refresh(), boom))
	require.Empty(t, s.Assets())
	require.ErrorIs(t, s.AssetsErr(), boom)
	_, ok := s.Selected()
	require.False(t, ok)

	require.True(t, s.CommitAssets(s.Refresh(), testdata.Catalog("A")))
	require.NoError(t, s.AssetsErr())
}

func TestAskSetsPendingSynchronously(t *testing.T) {
	t.Parallel()

	s := New(nil)
	s.SetCase("A")
	tk := s.Ask("who signed?")

	require.Equal(t, AskTicket{CaseID: "A", Question: "who signed?", Seq: 1}, tk)
	require.Equal(t, AnswerPending, s.Answer().State)
	require.Equal(t, "who signed?", s.Question())
}

func TestAnswerForPreviousCaseDiscarded(t *testing.T) {
	t.Parallel()

	s := New(nil)
	s.SetCase("A")
	tk := s.Ask("q")
	s.SetCase("B")

	require.False(t, s.CommitAnswer(tk, "answer for A", testdata.Citations("A", 2, 1)))
	require.Equal(t, AnswerPending, s.Answer().State)
	require.Empty(t, s.Citations())

	require.False(t, s.FailAnswer(tk, errors.New("late")))
	require.Equal(t, AnswerPending, s.Answer().State)
}

func TestOlderQuestionResolvingLastIsDiscarded(t *testing.T) {
	t.Parallel()

	s := New(nil)
	s.SetCase("A")
	q1 := s.Ask("q1")
	q2 := s.Ask("q2")

	c2 := []model.Chunk{{ChunkID: "c2", Asset: "b.pdf", Page: 2}}
	require.True(t, s.CommitAnswer(q2, "a2", c2))
	require.False(t, s.CommitAnswer(q1, "a1", []model.Chunk{{ChunkID: "c1", Asset: "a.pdf", Page: 1}}))

	ans := s.Answer()
	require.Equal(t, AnswerReady, ans.State)
	require.Equal(t, "a2", ans.Text)
	require.Equal(t, "q2", ans.Question)
	require.Equal(t, c2, s.Citations())
}

func TestFailAnswerWithoutCause(t *testing.T) {
	t.Parallel()

	s := New(nil)
	s.SetCase("A")
	require.True(t, s.FailAnswer(s.Ask("q"), nil))

	ans := s.Answer()
	require.Equal(t, AnswerFailed, ans.State)
	require.ErrorIs(t, ans.Err, ErrAnswerFailed)
}

func TestFailAnswerSetsErrorAndEmptiesCitations(t *testing.T) {
	t.Parallel()

	s := New(nil)
	s.SetCase("A")
	require.True(t, s.CommitAnswer(s.Ask("q1"), "a1", testdata.Citations("A", 3, 7)))

	boom := errors.New("status 502")
	require.True(t, s.FailAnswer(s.Ask("q2"), boom))
	ans := s.Answer()
	require.Equal(t, AnswerFailed, ans.State)
	require.ErrorIs(t, ans.Err, boom)
	require.NotEqual(t, AnswerPending, ans.State)
	require.Empty(t, s.Citations())
}

func TestCitationsKeepBackendOrder(t *testing.T) {
	t.Parallel()

	s := New(nil)
	s.SetCase("A")
	cites := testdata.Citations("A", 5, 42)
	require.True(t, s.CommitAnswer(s.Ask("q"), "a", cites))
	require.Equal(t, cites, s.Citations())
	require.Len(t, s.Snapshot().CitationRows, 5)
}

func TestSelectNonMemberIsReportedAndIgnored(t *testing.T) {
	t.Parallel()

	s := New(nil)
	require.True(t, s.CommitAssets(s.SetCase("A"), testdata.Catalog("A")))
	require.NoError(t, s.Select("contract.pdf"))

	err := s.Select("contrat.pdf")
	require.ErrorIs(t, err, ErrNotInCatalog)
	require.Contains(t, err.Error(), `closest "contract.pdf"`)

	err = s.Select("zzzzzzzzzzzzzzzz")
	require.ErrorIs(t, err, ErrNotInCatalog)
	require.NotContains(t, err.Error(), "closest")

	got, ok := s.Selected()
	require.True(t, ok)
	require.Equal(t, "contract.pdf", got.Name)
}

func TestReloadWithoutSelectedAssetClearsSelection(t *testing.T) {
	t.Parallel()

	s := New(nil)
	require.True(t, s.CommitAssets(s.SetCase("A"), testdata.Catalog("A")))
	require.NoError(t, s.Select("deposition.mp4"))

	require.True(t, s.CommitAssets(s.Refresh(), []model.Asset{{Name: "contract.pdf", URL: "x"}}))
	_, ok := s.Selected()
	require.False(t, ok)
	require.Nil(t, s.Snapshot().Selected)
}

func TestReloadWithSameNameFollowsNewURL(t *testing.T) {
	t.Parallel()

	s := New(nil)
	require.True(t, s.CommitAssets(s.SetCase("A"), []model.Asset{{Name: "deposition.mp4", URL: "http://old"}}))
	require.NoError(t, s.Select("deposition.mp4"))

	require.True(t, s.CommitAssets(s.Refresh(), []model.Asset{
		{Name: "intro.pdf", URL: "http://intro"},
		{Name: "deposition.mp4", URL: "http://new"},
	}))
	got, ok := s.Selected()
	require.True(t, ok)
	require.Equal(t, "http://new", got.URL)
}

func TestClear(t *testing.T) {
	t.Parallel()

	s := New(nil)
	require.True(t, s.CommitAssets(s.SetCase("A"), testdata.Catalog("A")))
	require.NoError(t, s.Select("voicemail.m4a"))
	s.Clear()
	_, ok := s.Selected()
	require.False(t, ok)
}

func TestSnapshotCarriesModality(t *testing.T) {
	t.Parallel()

	s := New(nil)
	require.True(t, s.CommitAssets(s.SetCase(testdata.SampleCase), testdata.Catalog(testdata.SampleCase)))
	require.NoError(t, s.Select("hearing_audio.wav"))

	snap := s.Snapshot()
	require.NotNil(t, snap.Selected)
	require.Equal(t, preview.Audio, snap.Modality)
	require.False(t, snap.AssetsLoading)

	snap.Assets[0].URL = "mutated"
	require.NotEqual(t, "mutated", s.Assets()[0].URL)
}
