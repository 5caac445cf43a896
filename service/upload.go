// Package service holds the upload orchestration logic between the
// Cloudinary gateway and the video repository
package service

import (
	"cloudreel/media-api/cloudinary"
	"cloudreel/media-api/db"
	"cloudreel/media-api/model"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var (
	ErrNoFile  = errors.New("no file provided")
	ErrNoTitle = errors.New("title can't be empty")
)

// Gateway is the single operation the orchestrator needs from the
// transcoding service. Satisfied by *cloudinary.Client.
type Gateway interface {
	Upload(ctx context.Context, r io.Reader, opts cloudinary.UploadOptions) (*cloudinary.UploadResult, error)
}

type Uploader struct {
	Gateway Gateway
	Videos  db.VideoRepo
}

func NewUploader(g Gateway, videos db.VideoRepo) *Uploader {
	return &Uploader{
		Gateway: g,
		Videos:  videos,
	}
}

type UploadRequest struct {
	File        io.Reader
	Title       string
	Description string

	// Size of the source file as declared by the caller. Trusted as-is
	DeclaredSize int64
}

// Do runs the whole upload pipeline once: validate, hand the payload to the
// gateway, persist the resulting record. The gateway is called at most once
// and nothing is written to the database unless it succeeded, so a failed
// round trip leaves no partial record behind. The reverse isn't true: a
// failed insert leaves an orphaned remote asset, which is accepted.
func (u *Uploader) Do(ctx context.Context, req UploadRequest) (*model.Video, error) {
	if req.File == nil {
		return nil, ErrNoFile
	}

	if strings.TrimSpace(req.Title) == "" {
		return nil, ErrNoTitle
	}

	now := time.Now()

	res, err := u.Gateway.Upload(ctx, req.File, cloudinary.UploadOptions{
		ResourceType:   "video",
		Folder:         viper.GetString("cloudinary.video_folder"),
		Transformation: "q_auto/f_mp4",
	})
	if err != nil {
		return nil, fmt.Errorf("gateway upload failed, %w", err)
	}

	zap.L().Debug("Gateway upload finished",
		zap.String("publicID", res.PublicID),
		zap.Duration("took", time.Since(now)),
	)

	video := &model.Video{
		Title:          strings.TrimSpace(req.Title),
		Description:    req.Description,
		PublicID:       res.PublicID,
		OriginalSize:   req.DeclaredSize,
		CompressedSize: res.Bytes,
		Duration:       res.Duration,
	}

	if err := u.Videos.Insert(ctx, video); err != nil {
		// The remote asset now exists with no local record. Nothing cleans
		// that orphan up automatically
		return nil, fmt.Errorf("failed to persist video record, %w", err)
	}

	return video, nil
}
