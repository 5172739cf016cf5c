// Package main seeds a development database with demo users, notebooks and
// chat sessions built from the transcripts in the transcript directory.
//
// Running it again is safe: existing users are logged in instead of
// created, notebooks are deduplicated by idempotency key and notebooks that
// already have chat sessions are left alone.
//
// Usage:
//
//	go run ./cmd/seed -data-path ./data -transcript-dir ./data/transcripts
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/samber/do/v2"

	"github.com/ytnotebook/ytnotebook/internal/di"
	"github.com/ytnotebook/ytnotebook/internal/di/providers"
	"github.com/ytnotebook/ytnotebook/internal/domain"
	domainerrors "github.com/ytnotebook/ytnotebook/internal/errors"
	"github.com/ytnotebook/ytnotebook/internal/service"
	"github.com/ytnotebook/ytnotebook/internal/transcript"
	"github.com/ytnotebook/ytnotebook/internal/youtube"
)

const seedPassword = "password123"

var seedUsers = []service.SignupRequest{
	{UserName: "Ada Lovelace", UserEmail: "ada@example.com", Password: seedPassword},
	{UserName: "Grace Hopper", UserEmail: "grace@example.com", Password: seedPassword},
	{UserName: "Linus Torvalds", UserEmail: "linus@example.com", Password: seedPassword},
}

// Each notebook gets one session per prompt group.
var seedConversations = [][]string{
	{"What is this video about?", "What are the main points?"},
	{"Is there anything surprising in it?"},
}

func main() {
	injector := di.NewContainer()
	defer func() {
		if err := injector.Shutdown(); err != nil {
			log.Printf("Shutdown error: %v", err)
		}
	}()

	if err := seed(context.Background(), injector); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}
}

func seed(ctx context.Context, injector do.Injector) error {
	if _, err := do.Invoke[*providers.StoreHandle](injector); err != nil {
		return err
	}
	source, err := do.Invoke[*transcript.DirSource](injector)
	if err != nil {
		return err
	}
	authSvc := do.MustInvoke[*service.AuthService](injector)
	notebooks := do.MustInvoke[*service.NotebookService](injector)
	videos := do.MustInvoke[*service.VideoService](injector)
	chat := do.MustInvoke[*service.ChatService](injector)

	videoIDs, err := transcriptVideoIDs(source.Dir())
	if err != nil {
		return err
	}
	if len(videoIDs) == 0 {
		return fmt.Errorf("no transcripts found in %s; add <video_id>.srt files first", source.Dir())
	}
	fmt.Printf("Found %d transcripts in %s\n", len(videoIDs), source.Dir())

	titles := make(map[string]string, len(videoIDs))
	for _, videoID := range videoIDs {
		if _, err := videos.Submit(ctx, service.SubmitVideoRequest{URL: youtube.WatchURL(videoID)}); err != nil {
			return fmt.Errorf("submit %s: %w", videoID, err)
		}
		titles[videoID] = videoID
		if v, err := videos.Details(ctx, videoID); err == nil && v.Description.Title != "" {
			titles[videoID] = v.Description.Title
		}
	}

	for _, req := range seedUsers {
		identity, err := ensureUser(ctx, authSvc, req)
		if err != nil {
			return err
		}
		fmt.Printf("\nUser %s (%s)\n", identity.UserName, identity.UserID)

		for _, videoID := range videoIDs {
			nb, err := notebooks.Create(ctx, service.CreateNotebookRequest{
				UserID:         identity.UserID,
				VideoID:        videoID,
				Title:          titles[videoID],
				IdempotencyKey: "seed-" + videoID,
			})
			if err != nil {
				return fmt.Errorf("create notebook for %s: %w", videoID, err)
			}

			existing, err := notebooks.ChatSessions(ctx, nb.ID)
			if err != nil {
				return err
			}
			if len(existing) > 0 {
				fmt.Printf("  %s: %d sessions already, skipped\n", nb.Title, len(existing))
				continue
			}

			sessions, err := seedChats(ctx, chat, identity.UserID, nb)
			if err != nil {
				return err
			}
			fmt.Printf("  %s: %d sessions\n", nb.Title, sessions)
		}
	}

	fmt.Printf("\nDone. Log in with any seeded email and the password %q.\n", seedPassword)
	return nil
}

// ensureUser signs req up, or logs in when the account already exists.
func ensureUser(ctx context.Context, authSvc *service.AuthService, req service.SignupRequest) (domain.Identity, error) {
	u, err := authSvc.Signup(ctx, req)
	if err == nil {
		return domain.Identity{UserID: u.ID, UserName: u.Name}, nil
	}
	if !errors.Is(err, domainerrors.ErrAlreadyExists) {
		return domain.Identity{}, fmt.Errorf("signup %s: %w", req.UserEmail, err)
	}
	identity, err := authSvc.Login(ctx, service.LoginRequest{UserEmail: req.UserEmail, Password: req.Password})
	if err != nil {
		return domain.Identity{}, fmt.Errorf("login %s: %w", req.UserEmail, err)
	}
	return identity, nil
}

func seedChats(ctx context.Context, chat *service.ChatService, userID string, nb *domain.Notebook) (int, error) {
	for _, prompts := range seedConversations {
		sessionID := ""
		for _, prompt := range prompts {
			resp, err := chat.Chat(ctx, service.ChatRequest{
				Query:      prompt,
				VideoID:    nb.VideoID,
				UserID:     userID,
				NotebookID: nb.ID,
				SessionID:  sessionID,
			})
			if err != nil {
				return 0, fmt.Errorf("chat in %s: %w", nb.ID, err)
			}
			sessionID = resp.SessionID
		}
	}
	return len(seedConversations), nil
}

// transcriptVideoIDs lists the video ids that have an .srt file in dir.
func transcriptVideoIDs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var ids []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".srt") {
			continue
		}
		if id, ok := transcript.VideoIDForPath(e.Name()); ok {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids, nil
}
