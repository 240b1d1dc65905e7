package app

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stubPullHooks(t *testing.T, pullErr, ensureErr error) (pulled, ensured *bool) {
	t.Helper()

	pulled = new(bool)
	ensured = new(bool)

	origPull, origEnsure := pullImage, ensureImage
	pullImage = func(ctx context.Context, imageRef string, w io.Writer) error {
		*pulled = true
		return pullErr
	}
	ensureImage = func(ctx context.Context, imageRef string, w io.Writer) error {
		*ensured = true
		return ensureErr
	}
	t.Cleanup(func() {
		pullImage, ensureImage = origPull, origEnsure
	})

	return pulled, ensured
}

func TestRunPullPrintsReady(t *testing.T) {
	_, ensured := stubPullHooks(t, nil, nil)

	var out bytes.Buffer
	opts := &PullOptions{Image: "jukemir/jukemir:latest"}
	require.NoError(t, runPull(context.Background(), opts, &out))

	assert.True(t, *ensured)
	assert.Contains(t, out.String(), "Image ready: jukemir/jukemir:latest")
}

func TestRunPullForcePrintsReady(t *testing.T) {
	pulled, ensured := stubPullHooks(t, nil, nil)

	var out bytes.Buffer
	opts := &PullOptions{Image: "jukemir/jukemir:latest", Force: true}
	require.NoError(t, runPull(context.Background(), opts, &out))

	assert.True(t, *pulled)
	assert.False(t, *ensured)
	assert.Contains(t, out.String(), "Image ready: jukemir/jukemir:latest")
}

func TestRunPullFailureSuppressesReady(t *testing.T) {
	stubPullHooks(t, fmt.Errorf("pull failed"), nil)

	var out bytes.Buffer
	opts := &PullOptions{Image: "jukemir/jukemir:latest", Force: true}
	require.Error(t, runPull(context.Background(), opts, &out))

	assert.NotContains(t, out.String(), "Image ready")
}
