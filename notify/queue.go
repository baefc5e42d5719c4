package notify

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azqueue"
)

// Queue enqueues alerts to an Azure Storage queue for an out-of-process
// delivery worker (mail, push, whatever is hooked up downstream).
type Queue struct {
	queue *azqueue.QueueClient
	perm  Permission
}

// NewQueue builds a queue notifier from a storage connection string.
func NewQueue(connStr, queueName string) (*Queue, error) {
	opts := azqueue.ClientOptions{
		ClientOptions: azcore.ClientOptions{
			Retry: policy.RetryOptions{
				MaxRetries:    3,
				TryTimeout:    time.Minute,
				RetryDelay:    time.Second,
				MaxRetryDelay: time.Second * 30,
				StatusCodes:   []int{408, 429, 500, 502, 503, 504},
			},
		},
	}
	qc, err := azqueue.NewQueueClientFromConnectionString(connStr, queueName, &opts)
	if err != nil {
		return nil, err
	}
	return &Queue{queue: qc, perm: PermissionUndetermined}, nil
}

func (q *Queue) Permission() Permission { return q.perm }

// RequestPermission probes the queue once by fetching its properties.
func (q *Queue) RequestPermission(ctx context.Context) Permission {
	if _, err := q.queue.GetProperties(ctx, nil); err != nil {
		q.perm = PermissionDenied
	} else {
		q.perm = PermissionGranted
	}
	return q.perm
}

func (q *Queue) Notify(ctx context.Context, alert Alert) error {
	data, err := json.Marshal(alert)
	if err != nil {
		return err
	}
	_, err = q.queue.EnqueueMessage(ctx, string(data), nil)
	return err
}
