package view

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocument_MutationsBumpVersions(t *testing.T) {
	doc := NewDocument(RootID, NoticeID)
	root, ok := doc.Lookup(RootID)
	require.True(t, ok)
	notice, _ := doc.Lookup(NoticeID)

	root.SetClass("dark", true)
	notice.SetText("a < b")

	snap := doc.Snapshot()
	assert.Equal(t, uint64(2), snap.Version)
	assert.Equal(t, []string{"dark"}, snap.Element(RootID).Classes)
	assert.Equal(t, uint64(1), snap.Element(RootID).Version)
	assert.Equal(t, "a &lt; b", string(snap.Element(NoticeID).HTML))
	assert.Equal(t, uint64(2), snap.Element(NoticeID).Version)

	root.SetClass("dark", false)
	assert.False(t, root.HasClass("dark"))
	assert.Empty(t, doc.Snapshot().Element(RootID).Classes)
}

func TestDocument_SnapshotIsACopy(t *testing.T) {
	doc := NewDocument(NoticeID)
	notice, _ := doc.Lookup(NoticeID)
	notice.SetText("before")

	snap := doc.Snapshot()
	notice.SetText("after")

	assert.Equal(t, "before", string(snap.Element(NoticeID).HTML))
}

func TestDocument_SubscribersCoalesce(t *testing.T) {
	doc := NewDocument(NoticeID)
	notice, _ := doc.Lookup(NoticeID)
	ch, cancel := doc.Subscribe()

	notice.Hide()
	notice.Show()
	notice.SetText("x")

	select {
	case <-ch:
	default:
		t.Fatal("expected a change notification")
	}
	select {
	case <-ch:
		t.Fatal("burst should coalesce into one notification")
	default:
	}

	cancel()
	notice.Hide()
	select {
	case <-ch:
		t.Fatal("cancelled subscription received a notification")
	default:
	}
}
