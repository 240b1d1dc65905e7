package runtime

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/creack/pty"

	"github.com/hugofloresgarcia/simplified-jukemir/internal/logger"
)

// ImageExists reports whether an image is present in the local Docker image
// cache. It shells out to the docker CLI, which handles reference
// normalization (implicit registry, implicit tag) consistently with what
// `docker run` will later resolve.
func ImageExists(ctx context.Context, imageRef string) (bool, error) {
	if imageRef == "" {
		return false, fmt.Errorf("image reference cannot be empty")
	}

	output, err := exec.CommandContext(ctx, "docker", "images", "-q", imageRef).Output()
	if err != nil {
		if ctx.Err() != nil {
			return false, ctx.Err()
		}
		return false, fmt.Errorf("failed to check Docker image: %w", err)
	}

	return len(strings.TrimSpace(string(output))) > 0, nil
}

// PullImage pulls an image via the docker CLI, streaming its native
// progress output to w.
//
// The pull runs under a PTY so Docker renders its layer progress bars
// exactly as it would interactively. Without a PTY the CLI falls back to
// line-buffered output that is much harder to follow for multi-gigabyte
// research images.
func PullImage(ctx context.Context, imageRef string, w io.Writer) error {
	if imageRef == "" {
		return fmt.Errorf("image reference cannot be empty")
	}

	logger.Info("Pulling Docker image: %s", imageRef)

	cmd := exec.CommandContext(ctx, "docker", "pull", imageRef)

	ptmx, err := pty.Start(cmd)
	if err != nil {
		return fmt.Errorf("failed to start docker pull: %w", err)
	}
	defer ptmx.Close()

	// The PTY read returns EIO when the child exits; treat that and EOF
	// as end of stream and let Wait report the actual outcome.
	if _, err := io.Copy(w, ptmx); err != nil && err != io.EOF {
		if pathErr, ok := err.(*os.PathError); !ok || pathErr.Err.Error() != "input/output error" {
			logger.Debug("Pull output stream ended: %v", err)
		}
	}

	if err := cmd.Wait(); err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("pull cancelled: %w", ctx.Err())
		}
		return fmt.Errorf("failed to pull image %s: %w", imageRef, err)
	}

	logger.Info("Successfully pulled Docker image: %s", imageRef)

	return nil
}

// EnsureImage checks for the image locally and pulls it if missing.
func EnsureImage(ctx context.Context, imageRef string, w io.Writer) error {
	exists, err := ImageExists(ctx, imageRef)
	if err != nil {
		return err
	}

	if exists {
		logger.Debug("Docker image already present: %s", imageRef)
		return nil
	}

	return PullImage(ctx, imageRef, w)
}
