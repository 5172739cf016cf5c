package workspace

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ytnotebook/ytnotebook/internal/api/dto"
	"github.com/ytnotebook/ytnotebook/internal/id"
	"github.com/ytnotebook/ytnotebook/internal/logger"
)

// Validation failures caught before any network call.
var (
	ErrTitleRequired = errors.New("please enter a notebook title")
	ErrURLRequired   = errors.New("please enter a YouTube URL")
)

// Submission is one attempt to turn a YouTube link into a notebook. It
// records how far the attempt got, so submitting it again after a failure
// resumes instead of starting over.
type Submission struct {
	URL   string
	Title string

	// Filled in as the steps succeed.
	VideoID        string
	NotebookID     string
	IdempotencyKey string

	submittedURL string
}

// Done reports whether the notebook was created.
func (s *Submission) Done() bool {
	return s.NotebookID != ""
}

// PartialSubmissionError means the video was accepted but the notebook
// could not be created. Submitting the same Submission again retries only
// the notebook creation, with the same idempotency key.
type PartialSubmissionError struct {
	VideoID string
	Err     error
}

func (e *PartialSubmissionError) Error() string {
	return fmt.Sprintf("video %s was submitted but the notebook was not created: %v", e.VideoID, e.Err)
}

func (e *PartialSubmissionError) Unwrap() error { return e.Err }

// Submitter runs the two-step submission flow: submit the video, then
// create a notebook bound to it.
type Submitter struct {
	backend Backend
	userID  string
	logger  *logger.Logger
}

// NewSubmitter creates a submitter acting for userID.
func NewSubmitter(backend Backend, userID string, log *logger.Logger) *Submitter {
	if log == nil {
		log = logger.Discard()
	}
	return &Submitter{backend: backend, userID: userID, logger: log.WithComponent("submit")}
}

// Submit validates sub locally, then runs whichever steps have not
// succeeded yet. Nothing is retried automatically.
func (s *Submitter) Submit(ctx context.Context, sub *Submission) error {
	title := strings.TrimSpace(sub.Title)
	videoURL := strings.TrimSpace(sub.URL)
	if title == "" {
		return ErrTitleRequired
	}
	if videoURL == "" {
		return ErrURLRequired
	}
	if sub.Done() {
		return nil
	}

	// A different link is a different submission.
	if sub.VideoID != "" && sub.submittedURL != videoURL {
		sub.VideoID = ""
		sub.IdempotencyKey = ""
	}

	if sub.VideoID == "" {
		videoID, err := s.backend.SubmitVideo(ctx, videoURL)
		if err != nil {
			return err
		}
		sub.VideoID = videoID
		sub.submittedURL = videoURL
	}

	if sub.IdempotencyKey == "" {
		sub.IdempotencyKey = id.NewIdempotencyKey()
	}

	notebookID, err := s.backend.CreateNotebook(ctx, dto.CreateNotebookRequest{
		UserID:        s.userID,
		VideoID:       sub.VideoID,
		NotebookTitle: title,
	}, sub.IdempotencyKey)
	if err != nil {
		s.logger.Warn("notebook creation failed after video submit",
			"video_id", sub.VideoID,
			"error", err,
		)
		return &PartialSubmissionError{VideoID: sub.VideoID, Err: err}
	}

	sub.NotebookID = notebookID
	s.logger.Info("notebook created", "notebook_id", notebookID, "video_id", sub.VideoID)
	return nil
}
