//go:build !gcloud

package notifier

import (
	"context"
	"fmt"
)

func newCloudTasksChannel(_ context.Context, _ *Config) (*Channel, error) {
	return nil, fmt.Errorf("%w: %q requires the gcloud build", ErrUnknownChannel, KindCloudTasks)
}
