package dedup

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvp-joe/codecorpus/internal/extract"
)

// Test Plan for Duplicate Detector:
// - Check() reports New for unseen units without recording them
// - Commit() admits a unit exactly once; later commits report duplicate
// - A committed content hash makes later units ExactDuplicate
// - A committed fingerprint makes renamed copies NearDuplicate
// - Exact matching takes precedence over structural matching
// - Duplicate verdicts are monotone: once duplicate, always duplicate
// - Concurrent commits of the same unit elect exactly one winner
// - Status values render stable labels

func unitWith(exact, structural string) extract.CodeUnit {
	return extract.CodeUnit{
		Language:              "python",
		Kind:                  extract.KindFunction,
		Name:                  "f",
		Body:                  "def f():\n    return 1",
		SourcePath:            "a.py",
		ContentHash:           exact,
		StructuralFingerprint: structural,
	}
}

func newTestDetector(t *testing.T) *Detector {
	t.Helper()
	detector, err := NewDetector(NewMemStore())
	require.NoError(t, err)
	t.Cleanup(func() { detector.Close() })
	return detector
}

func TestCheck_UnseenUnitIsNewAndUnrecorded(t *testing.T) {
	t.Parallel()
	detector := newTestDetector(t)
	unit := unitWith("hash-a", "shape-a")

	status, err := detector.Check(unit)
	require.NoError(t, err)
	assert.Equal(t, New, status)

	// Check records nothing: a second check is still New.
	status, err = detector.Check(unit)
	require.NoError(t, err)
	assert.Equal(t, New, status)
}

func TestCommit_AdmitsUnitExactlyOnce(t *testing.T) {
	t.Parallel()
	detector := newTestDetector(t)
	unit := unitWith("hash-a", "shape-a")

	status, err := detector.Commit(unit)
	require.NoError(t, err)
	assert.Equal(t, New, status)

	status, err = detector.Commit(unit)
	require.NoError(t, err)
	assert.Equal(t, ExactDuplicate, status)
}

func TestCheck_ExactDuplicateAfterCommit(t *testing.T) {
	t.Parallel()
	detector := newTestDetector(t)

	_, err := detector.Commit(unitWith("hash-a", "shape-a"))
	require.NoError(t, err)

	// Same content from another file.
	copied := unitWith("hash-a", "shape-a")
	copied.SourcePath = "b.py"

	status, err := detector.Check(copied)
	require.NoError(t, err)
	assert.Equal(t, ExactDuplicate, status)
}

func TestCheck_RenamedCopyIsNearDuplicate(t *testing.T) {
	t.Parallel()
	detector := newTestDetector(t)

	_, err := detector.Commit(unitWith("hash-a", "shape-a"))
	require.NoError(t, err)

	// Same shape, different content (a rename).
	renamed := unitWith("hash-b", "shape-a")

	status, err := detector.Check(renamed)
	require.NoError(t, err)
	assert.Equal(t, NearDuplicate, status)

	status, err = detector.Commit(renamed)
	require.NoError(t, err)
	assert.Equal(t, NearDuplicate, status)
}

func TestCheck_ExactMatchWinsOverStructural(t *testing.T) {
	t.Parallel()
	detector := newTestDetector(t)

	_, err := detector.Commit(unitWith("hash-a", "shape-a"))
	require.NoError(t, err)

	both := unitWith("hash-a", "shape-a")
	status, err := detector.Check(both)
	require.NoError(t, err)
	assert.Equal(t, ExactDuplicate, status)
}

func TestCheck_DuplicateVerdictIsMonotone(t *testing.T) {
	t.Parallel()
	detector := newTestDetector(t)
	unit := unitWith("hash-a", "shape-a")

	_, err := detector.Commit(unit)
	require.NoError(t, err)

	for range 5 {
		status, err := detector.Check(unit)
		require.NoError(t, err)
		assert.Equal(t, ExactDuplicate, status)
	}
}

func TestCommit_ConcurrentCommitsElectOneWinner(t *testing.T) {
	t.Parallel()
	detector := newTestDetector(t)
	unit := unitWith("hash-a", "shape-a")

	const workers = 16
	statuses := make([]Status, workers)
	var wg sync.WaitGroup
	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			status, err := detector.Commit(unit)
			assert.NoError(t, err)
			statuses[i] = status
		}()
	}
	wg.Wait()

	winners := 0
	for _, status := range statuses {
		if status == New {
			winners++
		}
	}
	assert.Equal(t, 1, winners, "exactly one commit must win the race")
}

func TestStatus_StringLabels(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "new", New.String())
	assert.Equal(t, "exact_duplicate", ExactDuplicate.String())
	assert.Equal(t, "near_duplicate", NearDuplicate.String())
	assert.Equal(t, "unknown", Status(42).String())
}

func TestDetector_DistinctUnitsStayIndependent(t *testing.T) {
	t.Parallel()
	detector := newTestDetector(t)

	for i := range 10 {
		unit := unitWith(fmt.Sprintf("hash-%d", i), fmt.Sprintf("shape-%d", i))
		status, err := detector.Commit(unit)
		require.NoError(t, err)
		assert.Equal(t, New, status)
	}
}
