package internal

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/mama165/sdk-go/database"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
)

func validConfig() Config {
	return Config{
		BufferSize:         1024,
		PageSize:           20,
		JWTSecret:          "0123456789abcdef",
		MaxAttachmentBytes: 1024,
		Host:               "localhost",
		Port:               8080,
	}
}

func TestConfig_Validate(t *testing.T) {
	t.Run("should accept a complete config", func(t *testing.T) {
		req := require.New(t)
		req.NoError(validConfig().Validate())
	})

	t.Run("should reject invalid values", func(t *testing.T) {
		req := require.New(t)
		cases := map[string]func(*Config){
			"buffer":   func(c *Config) { c.BufferSize = 0 },
			"page":     func(c *Config) { c.PageSize = -1 },
			"limit":    func(c *Config) { c.LimitMessages = lo.ToPtr(0) },
			"secret":   func(c *Config) { c.JWTSecret = "short" },
			"maxBytes": func(c *Config) { c.MaxAttachmentBytes = 0 },
		}
		for name, mutate := range cases {
			config := validConfig()
			mutate(&config)
			req.Error(config.Validate(), name)
		}
	})

	t.Run("should serve attachments from BASE_URL when set", func(t *testing.T) {
		req := require.New(t)
		config := validConfig()
		req.Equal("localhost:8080", config.Addr())
		req.Equal("http://localhost:8080", config.PublicURL())
		config.BaseURL = "https://chat.example.com"
		req.Equal("https://chat.example.com", config.PublicURL())
	})
}

func TestDefaultMapper(t *testing.T) {
	req := require.New(t)
	at := time.Date(2024, 3, 10, 9, 30, 15, 0, time.UTC)

	feed := DefaultMapper("idx:feed:channel:c-1:"+strconv.FormatInt(at.UnixNano(), 10)+":0123456789", []byte("0123456789"))
	req.Equal("FEED", feed.Type)
	req.Equal("channel:c-1", feed.Namespace)
	req.Equal("09:30:15", feed.Timestamp)
	req.Equal("01234567", feed.EntityID)

	reaction := DefaultMapper("rct:message-1:"+strconv.FormatInt(at.UnixNano(), 10)+":r-1", nil)
	req.Equal("REACTION", reaction.Type)
	req.Equal("message-", reaction.Namespace)
	req.Equal("r-1", reaction.EntityID)

	message := DefaultMapper("msg:m-1", []byte("{}"))
	req.Equal("MSG", message.Type)
	req.Equal("m-1", message.EntityID)
	req.Equal("Size: 2 bytes", message.Detail)

	raw := DefaultMapper("orphan", nil)
	req.Equal("RAW", raw.Type)
}

func TestInspect(t *testing.T) {
	req := require.New(t)
	_, _, badgerDB, blugeWriter, err := database.SetupBenchmark(database.DefaultPath)
	req.NoError(err)
	defer database.CleanupDB(badgerDB, blugeWriter)

	req.NoError(badgerDB.Update(func(txn *badger.Txn) error {
		for _, key := range []string{"msg:m-1", "msg:m-2", "msg:m-3", "user:u-1"} {
			if err := txn.Set([]byte(key), []byte("{}")); err != nil {
				return err
			}
		}
		return nil
	}))

	t.Run("should stop at the prefix and the limit", func(t *testing.T) {
		req := require.New(t)
		rows, err := Inspect(badgerDB, "msg:", 2, nil)
		req.NoError(err)
		req.Len(rows, 2)
		req.Equal("msg:m-1", rows[0].Key)
		req.Equal("msg:m-2", rows[1].Key)
	})

	t.Run("should serve rows and stats as JSON", func(t *testing.T) {
		req := require.New(t)
		gin.SetMode(gin.TestMode)
		router := gin.New()
		RegisterDebugRoutes(router, badgerDB, "/debug/inspect", nil, func() map[string]any {
			return map[string]any{"live_viewers": 3}
		})

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/debug/inspect?prefix=user:", nil))
		req.Equal(http.StatusOK, w.Code)

		var data PageData
		req.NoError(json.Unmarshal(w.Body.Bytes(), &data))
		req.Equal("user:", data.Prefix)
		req.Len(data.Items, 1)
		req.Equal("USER", data.Items[0].Type)
		req.EqualValues(3, data.Stats["live_viewers"])
	})
}
