package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUploadSessionSequentialAdvance(t *testing.T) {
	s := &UploadSession{Status: UploadStatusRegistered}

	require.NoError(t, s.Advance(UploadStatusUploading))
	require.NoError(t, s.Advance(UploadStatusUploaded))
	require.NoError(t, s.Advance(UploadStatusConfirmed))
	assert.Equal(t, UploadStatusConfirmed, s.Status)
}

func TestUploadSessionRejectsSkippedSteps(t *testing.T) {
	cases := []struct {
		name string
		from UploadStatus
		to   UploadStatus
	}{
		{"registered to uploaded", UploadStatusRegistered, UploadStatusUploaded},
		{"registered to confirmed", UploadStatusRegistered, UploadStatusConfirmed},
		{"uploading to confirmed", UploadStatusUploading, UploadStatusConfirmed},
		{"backwards", UploadStatusUploaded, UploadStatusUploading},
		{"from confirmed", UploadStatusConfirmed, UploadStatusUploading},
		{"from failed", UploadStatusFailed, UploadStatusUploading},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := &UploadSession{Status: tc.from}
			err := s.Advance(tc.to)
			require.Error(t, err)
			assert.Equal(t, tc.from, s.Status)
		})
	}
}

func TestUploadSessionFailFromAnyState(t *testing.T) {
	for _, from := range []UploadStatus{
		UploadStatusRegistered,
		UploadStatusUploading,
		UploadStatusUploaded,
		UploadStatusConfirmed,
	} {
		s := &UploadSession{Status: from}
		s.Fail()
		assert.Equal(t, UploadStatusFailed, s.Status)
	}
}
