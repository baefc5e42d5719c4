package notify

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
)

// Redis publishes alerts to a pub/sub channel so a connected front end
// (or any other subscriber) can surface them. Permission starts
// undetermined and is decided by pinging the server.
type Redis struct {
	client  *redis.Client
	channel string
	perm    Permission
}

// NewRedis creates a pub/sub notifier for the given channel.
func NewRedis(client *redis.Client, channel string) *Redis {
	return &Redis{client: client, channel: channel, perm: PermissionUndetermined}
}

func (r *Redis) Permission() Permission { return r.perm }

// RequestPermission probes the server once. An unreachable server denies
// the capability for the rest of the session.
func (r *Redis) RequestPermission(ctx context.Context) Permission {
	if err := r.client.Ping(ctx).Err(); err != nil {
		r.perm = PermissionDenied
	} else {
		r.perm = PermissionGranted
	}
	return r.perm
}

func (r *Redis) Notify(ctx context.Context, alert Alert) error {
	data, err := json.Marshal(alert)
	if err != nil {
		return err
	}
	return r.client.Publish(ctx, r.channel, data).Err()
}
