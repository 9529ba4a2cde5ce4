package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordModelLoad_CountsErrors(t *testing.T) {
	before := testutil.ToFloat64(modelErrors.WithLabelValues(StageLoad))

	RecordModelLoad("file", 5*time.Millisecond, nil)
	RecordModelLoad("file", 5*time.Millisecond, errors.New("missing"))

	assert.Equal(t, before+1, testutil.ToFloat64(modelErrors.WithLabelValues(StageLoad)))
}

func TestRecordPrediction(t *testing.T) {
	before := testutil.ToFloat64(predictionsTotal.WithLabelValues("Gentoo"))

	RecordPrediction("Gentoo")
	RecordPrediction("Gentoo")

	assert.Equal(t, before+2, testutil.ToFloat64(predictionsTotal.WithLabelValues("Gentoo")))
}

func TestRecordModelCache(t *testing.T) {
	hits := testutil.ToFloat64(modelCacheTotal.WithLabelValues("hit"))
	misses := testutil.ToFloat64(modelCacheTotal.WithLabelValues("miss"))

	RecordModelCache(true)
	RecordModelCache(false)
	RecordModelCache(false)

	assert.Equal(t, hits+1, testutil.ToFloat64(modelCacheTotal.WithLabelValues("hit")))
	assert.Equal(t, misses+2, testutil.ToFloat64(modelCacheTotal.WithLabelValues("miss")))
}
