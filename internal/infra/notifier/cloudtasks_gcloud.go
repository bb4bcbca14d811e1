//go:build gcloud

package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	cloudtasks "cloud.google.com/go/cloudtasks/apiv2"
	taskspb "cloud.google.com/go/cloudtasks/apiv2/cloudtaskspb"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/durationpb"

	"github.com/KasumiMercury/flock-watch/internal/idgen"
)

// Cloud Tasks rejects dispatch deadlines below this.
const minDispatchDeadline = 15 * time.Second

type cloudTaskPayload struct {
	DecisionID string `json:"decision_id,omitempty"`
	To         string `json:"to,omitempty"`
	From       string `json:"from,omitempty"`
	Message    string `json:"message"`
	CreatedAt  string `json:"created_at"`
}

// CloudTasksChannel hands the alert to a Cloud Tasks queue whose target does
// the provider call. Tasks are named after the decision, so a repeated send
// for the same decision is rejected by the queue.
type CloudTasksChannel struct {
	client         *cloudtasks.Client
	queuePath      string
	targetURL      string
	serviceAccount string
	deadline       time.Duration
}

func newCloudTasksChannel(ctx context.Context, cfg *Config) (*Channel, error) {
	var opts []option.ClientOption
	if cfg.CloudTasksEndpoint != "" {
		opts = append(opts,
			option.WithEndpoint(cfg.CloudTasksEndpoint),
			option.WithoutAuthentication(),
		)
	}

	client, err := cloudtasks.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create cloud tasks client: %w", err)
	}

	ch := &CloudTasksChannel{
		client: client,
		queuePath: fmt.Sprintf("projects/%s/locations/%s/queues/%s",
			cfg.CloudTasksProjectID, cfg.CloudTasksLocationID, cfg.CloudTasksQueueID),
		targetURL:      cfg.CloudTasksTargetURL,
		serviceAccount: cfg.CloudTasksServiceAccount,
		deadline:       cfg.Timeout,
	}

	slog.InfoContext(ctx, "notification channel initialized",
		slog.String("type", string(KindCloudTasks)),
		slog.String("queue", ch.queuePath),
	)

	return &Channel{NotificationChannel: ch, Kind: KindCloudTasks, close: client.Close}, nil
}

func (c *CloudTasksChannel) Send(ctx context.Context, to, from, message string) (string, error) {
	taskID, ok := decisionID(ctx)
	if !ok {
		taskID = idgen.New()
	}

	payload, err := json.Marshal(cloudTaskPayload{
		DecisionID: taskID,
		To:         to,
		From:       from,
		Message:    message,
		CreatedAt:  time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal notification task: %w", err)
	}

	taskName := fmt.Sprintf("%s/tasks/%s", c.queuePath, taskID)

	httpRequest := &taskspb.HttpRequest{
		HttpMethod: taskspb.HttpMethod_POST,
		Url:        c.targetURL,
		Headers: map[string]string{
			"Content-Type": "application/json",
		},
		Body: payload,
	}
	if c.serviceAccount != "" {
		httpRequest.AuthorizationHeader = &taskspb.HttpRequest_OidcToken{
			OidcToken: &taskspb.OidcToken{ServiceAccountEmail: c.serviceAccount},
		}
	}

	task := &taskspb.Task{
		Name:        taskName,
		MessageType: &taskspb.Task_HttpRequest{HttpRequest: httpRequest},
	}
	if c.deadline > 0 {
		task.DispatchDeadline = durationpb.New(max(c.deadline, minDispatchDeadline))
	}

	req := &taskspb.CreateTaskRequest{
		Parent: c.queuePath,
		Task:   task,
	}

	created, err := c.client.CreateTask(ctx, req)
	if err != nil {
		if status.Code(err) == codes.AlreadyExists {
			slog.InfoContext(ctx, "notification task already exists",
				slog.String("task_name", taskName),
			)
			return taskName, nil
		}
		return "", fmt.Errorf("failed to create cloud task: %w", err)
	}

	return created.Name, nil
}
