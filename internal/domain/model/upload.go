package model

import "fmt"

// UploadStatus is the state of an in-flight media upload session.
type UploadStatus string

const (
	UploadStatusRegistered UploadStatus = "registered"
	UploadStatusUploading  UploadStatus = "uploading"
	UploadStatusUploaded   UploadStatus = "uploaded"
	UploadStatusConfirmed  UploadStatus = "confirmed"
	UploadStatusFailed     UploadStatus = "failed"
)

// UploadSession tracks one pass through the provider's multi-step binary
// upload protocol. Sessions are scoped to a single publish attempt and are
// discarded after confirmation or failure; they are never persisted.
type UploadSession struct {
	AssetID   string // Opaque media reference assigned by the provider.
	UploadURL string // One-time upload target.
	Status    UploadStatus
}

// Advance moves the session to the next status. The protocol is strictly
// sequential: registered -> uploading -> uploaded -> confirmed. Any other
// transition is a programming error and is rejected; Fail is the only other
// legal move.
func (s *UploadSession) Advance(next UploadStatus) error {
	allowed := map[UploadStatus]UploadStatus{
		UploadStatusRegistered: UploadStatusUploading,
		UploadStatusUploading:  UploadStatusUploaded,
		UploadStatusUploaded:   UploadStatusConfirmed,
	}
	if allowed[s.Status] != next {
		return fmt.Errorf("illegal upload transition %s -> %s", s.Status, next)
	}
	s.Status = next
	return nil
}

// Fail marks the session as terminally failed. Legal from any state.
func (s *UploadSession) Fail() {
	s.Status = UploadStatusFailed
}
