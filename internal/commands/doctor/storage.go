package doctor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/hay-kot/textsnap/internal/core/history"
	"github.com/hay-kot/textsnap/internal/core/kv"
)

// StorageCheck verifies the data directory and the stored history record.
type StorageCheck struct {
	dataDir    string
	store      kv.Store
	historyKey string
}

// NewStorageCheck creates a new storage check.
func NewStorageCheck(dataDir string, store kv.Store, historyKey string) *StorageCheck {
	return &StorageCheck{dataDir: dataDir, store: store, historyKey: historyKey}
}

func (c *StorageCheck) Name() string {
	return "Storage"
}

func (c *StorageCheck) Run(ctx context.Context) Result {
	result := Result{Name: c.Name()}
	result.Items = append(result.Items, c.checkWritable())
	result.Items = append(result.Items, c.checkHistory(ctx))
	return result
}

func (c *StorageCheck) checkWritable() CheckItem {
	item := CheckItem{Label: "Data directory", Detail: c.dataDir}

	if err := os.MkdirAll(c.dataDir, 0o755); err != nil {
		item.Status = StatusFail
		item.Detail = err.Error()
		return item
	}

	f, err := os.CreateTemp(c.dataDir, ".doctor-*")
	if err != nil {
		item.Status = StatusFail
		item.Detail = fmt.Sprintf("%s is not writable: %v", c.dataDir, err)
		return item
	}
	_ = f.Close()
	_ = os.Remove(f.Name())

	item.Status = StatusPass
	return item
}

func (c *StorageCheck) checkHistory(ctx context.Context) CheckItem {
	item := CheckItem{Label: "History record"}

	entry, err := c.store.Get(ctx, c.historyKey)
	switch {
	case errors.Is(err, kv.ErrKeyNotFound):
		item.Status = StatusPass
		item.Detail = "empty"
		return item
	case err != nil:
		item.Status = StatusFail
		item.Detail = err.Error()
		item.HistoryUnreliable = true
		return item
	}

	var items []history.Item
	if err := json.Unmarshal([]byte(entry.Value), &items); err != nil {
		item.Status = StatusWarn
		item.Detail = "record is corrupt and will be treated as empty (run 'textsnap history clear')"
		item.HistoryUnreliable = true
		return item
	}

	item.Status = StatusPass
	item.Detail = fmt.Sprintf("%d entries", len(items))
	return item
}
