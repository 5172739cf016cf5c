package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/ytnotebook/ytnotebook/internal/api/dto"
	"github.com/ytnotebook/ytnotebook/internal/service"
)

func (s *Server) registerVideoRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID:   "submitVideo",
		Method:        http.MethodPost,
		Path:          "/submit-video",
		Summary:       "Submit a video",
		Description:   "Resolves a YouTube link to its video id and loads the transcript. Resubmitting a known video is a no-op.",
		Tags:          []string{"Videos"},
		DefaultStatus: http.StatusOK,
	}, s.handleSubmitVideo)

	huma.Register(s.api, huma.Operation{
		OperationID: "getVideoDetails",
		Method:      http.MethodGet,
		Path:        "/video_details/{video_id}",
		Summary:     "Get video details",
		Description: "Returns the transcript and description of a submitted video",
		Tags:        []string{"Videos"},
	}, s.handleGetVideoDetails)

	huma.Register(s.api, huma.Operation{
		OperationID:   "getTimestamps",
		Method:        http.MethodPost,
		Path:          "/get_timestamps",
		Summary:       "Find timestamps",
		Description:   "Returns up to three transcript moments matching a query, in playback order",
		Tags:          []string{"Videos"},
		DefaultStatus: http.StatusOK,
	}, s.handleGetTimestamps)
}

// SubmitVideoInput wraps the submit request for Huma.
type SubmitVideoInput struct {
	Body dto.SubmitVideoRequest
}

// SubmitVideoOutput wraps the submit response for Huma.
type SubmitVideoOutput struct {
	Body dto.SubmitVideoResponse
}

// VideoIDParam is the path parameter naming a video.
type VideoIDParam struct {
	VideoID string `path:"video_id" doc:"Canonical video id"`
}

// VideoDetailsOutput wraps video details for Huma.
type VideoDetailsOutput struct {
	Body dto.VideoDetails
}

// TimestampInput wraps the timestamp request for Huma.
type TimestampInput struct {
	Body dto.TimestampRequest
}

// TimestampOutput wraps the timestamp response for Huma.
type TimestampOutput struct {
	Body dto.TimestampResponse
}

func (s *Server) handleSubmitVideo(ctx context.Context, input *SubmitVideoInput) (*SubmitVideoOutput, error) {
	videoID, err := s.services.Video.Submit(ctx, service.SubmitVideoRequest{URL: input.Body.URL})
	if err != nil {
		return nil, s.fail("submit video", err)
	}

	return &SubmitVideoOutput{Body: dto.SubmitVideoResponse{
		Message: "Video submitted successfully!",
		VideoID: videoID,
	}}, nil
}

func (s *Server) handleGetVideoDetails(ctx context.Context, input *VideoIDParam) (*VideoDetailsOutput, error) {
	video, err := s.services.Video.Details(ctx, input.VideoID)
	if err != nil {
		return nil, s.fail("video details", err)
	}
	return &VideoDetailsOutput{Body: dto.NewVideoDetails(video)}, nil
}

func (s *Server) handleGetTimestamps(ctx context.Context, input *TimestampInput) (*TimestampOutput, error) {
	matches, err := s.services.Timestamp.Find(ctx, service.TimestampRequest{
		Query:   input.Body.Query,
		VideoID: input.Body.VideoID,
	})
	if err != nil {
		return nil, s.fail("timestamps", err)
	}

	message := "Timestamps found."
	if len(matches) == 0 {
		message = "No relevant timestamps found."
	}
	return &TimestampOutput{Body: dto.TimestampResponse{
		Message:    message,
		Timestamps: matches,
	}}, nil
}
