package internal

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/gin-gonic/gin"
)

const defaultInspectLimit = 200

type InspectRow struct {
	Key       string `json:"key"`
	Type      string `json:"type"`
	Timestamp string `json:"timestamp"`
	EntityID  string `json:"entity_id"`
	Namespace string `json:"namespace"`
	Detail    string `json:"detail"`
}

type RowMapper func(key string, val []byte) InspectRow
type StatsProvider func() map[string]any

type PageData struct {
	Prefix string         `json:"prefix"`
	Items  []InspectRow   `json:"items"`
	Stats  map[string]any `json:"stats"`
}

// Inspect lists the raw keys stored under prefix, at most limit of them.
func Inspect(db *badger.DB, prefix string, limit int, mapper RowMapper) ([]InspectRow, error) {
	if mapper == nil {
		mapper = DefaultMapper
	}
	if limit <= 0 {
		limit = defaultInspectLimit
	}
	var rows []InspectRow
	err := db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		for it.Seek([]byte(prefix)); it.ValidForPrefix([]byte(prefix)) && len(rows) < limit; it.Next() {
			item := it.Item()
			key := string(item.KeyCopy(nil))
			if err := item.Value(func(val []byte) error {
				rows = append(rows, mapper(key, val))
				return nil
			}); err != nil {
				return err
			}
		}
		return nil
	})
	return rows, err
}

// RegisterDebugRoutes exposes the store content at endpoint, e.g. /debug/inspect?prefix=idx:feed:
// Only meant for local troubleshooting.
func RegisterDebugRoutes(router gin.IRoutes, db *badger.DB, endpoint string, mapper RowMapper, statsProvider StatsProvider) {
	router.GET(endpoint, func(c *gin.Context) {
		prefix := c.DefaultQuery("prefix", "msg:")
		limit, _ := strconv.Atoi(c.Query("limit"))

		data := PageData{Prefix: prefix, Stats: make(map[string]any)}
		if statsProvider != nil {
			data.Stats = statsProvider()
		}
		rows, err := Inspect(db, prefix, limit, mapper)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		data.Items = rows
		c.JSON(http.StatusOK, data)
	})
}

// DefaultMapper understands the key layout of the repositories:
// "idx:feed:{kind}:{scope}:{nanos}:{id}", "rct:{message}:{nanos}:{id}" and "{type}:{id}".
func DefaultMapper(key string, val []byte) InspectRow {
	parts := strings.Split(key, ":")
	row := InspectRow{
		Key:       key,
		Type:      "RAW",
		Timestamp: "--:--:--",
		EntityID:  "--------",
		Namespace: "default",
		Detail:    "Size: " + strconv.Itoa(len(val)) + " bytes",
	}

	switch {
	case len(parts) == 6 && parts[0] == "idx" && parts[1] == "feed":
		row.Type = "FEED"
		row.Namespace = parts[2] + ":" + parts[3]
		row.Timestamp = formatNanos(parts[4])
		row.EntityID = shorten(parts[5])
	case len(parts) == 4 && parts[0] == "rct":
		row.Type = "REACTION"
		row.Namespace = shorten(parts[1])
		row.Timestamp = formatNanos(parts[2])
		row.EntityID = shorten(parts[3])
	case len(parts) == 2:
		row.Type = strings.ToUpper(parts[0])
		row.EntityID = shorten(parts[1])
	case len(parts) > 2:
		row.Type = strings.ToUpper(parts[0])
		row.Namespace = parts[1]
		row.EntityID = shorten(parts[len(parts)-1])
	}
	return row
}

func formatNanos(raw string) string {
	nanos, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return "--:--:--"
	}
	return time.Unix(0, nanos).UTC().Format("15:04:05")
}

func shorten(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
