package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/data/aztables"

	"duoboard/domain"
)

// TableBackend stores both records in a single Azure Storage table, one
// entity per record with the JSON blob in a Data property. Useful when the
// board should survive the device, e.g. a shared household instance.
type TableBackend struct {
	table     *aztables.Client
	partition string
}

// recordEntity is the wire shape of a persisted record.
type recordEntity struct {
	aztables.Entity
	Data string `json:"Data"`
}

// NewTableBackend builds a backend from a storage connection string.
func NewTableBackend(connStr, tableName, partition string) (*TableBackend, error) {
	opts := aztables.ClientOptions{
		ClientOptions: azcore.ClientOptions{
			Retry: policy.RetryOptions{
				MaxRetries:    3,
				TryTimeout:    time.Minute,
				RetryDelay:    time.Second,
				MaxRetryDelay: time.Second * 15,
				StatusCodes:   []int{408, 429, 500, 502, 503, 504},
			},
		},
	}
	svc, err := aztables.NewServiceClientFromConnectionString(connStr, &opts)
	if err != nil {
		return nil, err
	}
	if partition == "" {
		partition = "duoboard"
	}
	return &TableBackend{table: svc.NewClient(tableName), partition: partition}, nil
}

func (t *TableBackend) LoadBoard(ctx context.Context) (domain.Board, error) {
	var b domain.Board
	if err := t.loadRecord(ctx, BoardRecord, &b); err != nil {
		return domain.Board{}, err
	}
	return b, nil
}

func (t *TableBackend) SaveBoard(ctx context.Context, b domain.Board) error {
	return t.saveRecord(ctx, BoardRecord, b)
}

func (t *TableBackend) LoadInfo(ctx context.Context) ([]domain.InfoItem, error) {
	var items []domain.InfoItem
	if err := t.loadRecord(ctx, InfoRecord, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (t *TableBackend) SaveInfo(ctx context.Context, items []domain.InfoItem) error {
	return t.saveRecord(ctx, InfoRecord, items)
}

func (t *TableBackend) loadRecord(ctx context.Context, record string, out any) error {
	resp, err := t.table.GetEntity(ctx, t.partition, record, nil)
	if err != nil {
		var respErr *azcore.ResponseError
		if errors.As(err, &respErr) && respErr.StatusCode == http.StatusNotFound {
			return ErrNotFound
		}
		return fmt.Errorf("get %s entity: %w", record, err)
	}
	var ent recordEntity
	if err := json.Unmarshal(resp.Value, &ent); err != nil {
		return fmt.Errorf("decode %s entity: %w", record, err)
	}
	if err := json.Unmarshal([]byte(ent.Data), out); err != nil {
		return fmt.Errorf("decode %s record: %w", record, err)
	}
	return nil
}

func (t *TableBackend) saveRecord(ctx context.Context, record string, v any) error {
	blob, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s record: %w", record, err)
	}
	ent := recordEntity{
		Entity: aztables.Entity{PartitionKey: t.partition, RowKey: record},
		Data:   string(blob),
	}
	data, err := json.Marshal(ent)
	if err != nil {
		return fmt.Errorf("encode %s entity: %w", record, err)
	}
	if _, err := t.table.UpsertEntity(ctx, data, nil); err != nil {
		return fmt.Errorf("upsert %s entity: %w", record, err)
	}
	return nil
}
