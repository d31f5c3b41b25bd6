package snapshot

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xela07ax/truverse-dashboard/internal/domain"
)

func TestApplyOverride_RejectsNonObjects(t *testing.T) {
	base := Default()
	for _, blob := range []string{`not json`, `[1,2]`, `"str"`, `null`, `42`} {
		got, err := ApplyOverride(base, []byte(blob))
		assert.ErrorIs(t, err, ErrNotObject, blob)
		assert.Equal(t, base, got)
	}
}

func TestApplyOverride_Counters(t *testing.T) {
	got, err := ApplyOverride(Default(), []byte(`{
		"scanned": 500,
		"verified": "450",
		"flagged": 12.9,
		"blocked": null,
		"reported": -4
	}`))
	require.NoError(t, err)

	assert.Equal(t, int64(500), got.Scanned)
	assert.Equal(t, int64(450), got.Verified)
	assert.Equal(t, int64(12), got.Flagged)
	assert.Equal(t, int64(0), got.Blocked)
	assert.Equal(t, int64(0), got.Reported)
	assert.Equal(t, domain.OriginOverride, got.Origin)
}

func TestApplyOverride_InvalidTypesKeepPrior(t *testing.T) {
	base := Default()
	got, err := ApplyOverride(base, []byte(`{"scanned": true, "flagged": "many", "range": "1y"}`))
	require.NoError(t, err)

	assert.Equal(t, base.Scanned, got.Scanned)
	assert.Equal(t, base.Flagged, got.Flagged)
	assert.Equal(t, domain.Range24h, got.Range)
	// Ни одно поле не применилось
	assert.Equal(t, domain.OriginDefault, got.Origin)
}

func TestApplyOverride_BreakdownMergesPerField(t *testing.T) {
	got, err := ApplyOverride(Default(), []byte(`{"breakdown": {"deepfakes": 7}}`))
	require.NoError(t, err)

	assert.Equal(t, domain.Breakdown{FakeNews: 520, Deepfakes: 7, Manipulated: 354}, got.Breakdown)
}

func TestApplyOverride_SeriesAndEvents(t *testing.T) {
	base := Default()

	kept, err := ApplyOverride(base, []byte(`{"series": [], "events": "nope"}`))
	require.NoError(t, err)
	assert.Equal(t, base.Series, kept.Series)
	assert.Equal(t, base.Events, kept.Events)

	got, err := ApplyOverride(base, []byte(`{
		"range": "7d",
		"series": [{"label": "a", "value": 3}, {"label": "b", "value": "x"}],
		"events": [{"type": "blocked", "label": "Blocked post"}, {"confidence": 140}]
	}`))
	require.NoError(t, err)

	assert.Equal(t, domain.Range7d, got.Range)
	assert.Equal(t, []domain.SeriesPoint{{Label: "a", Value: 3}, {Label: "b", Value: 0}}, got.Series)
	assert.Equal(t, []domain.TrustEvent{
		{Type: domain.EventBlocked, Label: "Blocked post", Confidence: 90, Time: "Just now"},
		{Type: domain.EventFlagged, Label: "Trust event", Confidence: 100, Time: "Just now"},
	}, got.Events)
}

func TestApplyOverride_DoesNotAliasBase(t *testing.T) {
	base := Default()
	got, err := ApplyOverride(base, []byte(`{"scanned": 1}`))
	require.NoError(t, err)

	got.Series[0].Value = -1
	assert.Equal(t, 120.0, base.Series[0].Value)
}

func TestApplyOverride_WrapsDecodeError(t *testing.T) {
	_, err := ApplyOverride(Default(), []byte(`{`))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotObject))
}

func TestApplyOverride_StripsMarkupFromLabels(t *testing.T) {
	got, err := ApplyOverride(Default(), []byte(`{
		"series": [{"label": "<b>Mon</b>", "value": 1}],
		"events": [{"type": "reported", "label": "Reported <script>alert(1)</script>post & share"}]
	}`))
	require.NoError(t, err)

	assert.Equal(t, "Mon", got.Series[0].Label)
	assert.Equal(t, "Reported post & share", got.Events[0].Label)
}

func TestApplyOverride_ConfidenceClampedBeforeConversion(t *testing.T) {
	got, err := ApplyOverride(Default(), []byte(`{
		"events": [{"confidence": 1e300}, {"confidence": -1e300}, {"confidence": "250"}, {"confidence": 87.6}]
	}`))
	require.NoError(t, err)

	require.Len(t, got.Events, 4)
	assert.Equal(t, 100, got.Events[0].Confidence)
	assert.Equal(t, 0, got.Events[1].Confidence)
	assert.Equal(t, 100, got.Events[2].Confidence)
	assert.Equal(t, 88, got.Events[3].Confidence)
}
