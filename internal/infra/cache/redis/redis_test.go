package redisx

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Pulset/tinykit-cdn-worker/internal/domain"
)

func newTestCache(t *testing.T) (*Cache, redismock.ClientMock) {
	t.Helper()
	client, mock := redismock.NewClientMock()
	return NewWithClient(client, log.New(io.Discard, "", 0)), mock
}

func sampleResponse() *domain.CachedResponse {
	return &domain.CachedResponse{
		Status:  200,
		Headers: map[string][]string{"Content-Type": {"image/png"}},
		Body:    []byte("png-bytes"),
	}
}

func TestLookupMiss(t *testing.T) {
	c, mock := newTestCache(t)
	mock.ExpectGet("resp:/a.png").RedisNil()

	resp, err := c.Lookup(context.Background(), "resp:/a.png")
	require.NoError(t, err)
	assert.Nil(t, resp)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLookupHit(t *testing.T) {
	c, mock := newTestCache(t)
	b, err := json.Marshal(sampleResponse())
	require.NoError(t, err)
	mock.ExpectGet("resp:/a.png").SetVal(string(b))

	resp, err := c.Lookup(context.Background(), "resp:/a.png")
	require.NoError(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, 200, resp.Status)
	assert.Equal(t, []byte("png-bytes"), resp.Body)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLookupCorruptEntryDropped(t *testing.T) {
	c, mock := newTestCache(t)
	mock.ExpectGet("resp:/a.png").SetVal("{not json")
	mock.ExpectDel("resp:/a.png").SetVal(1)

	resp, err := c.Lookup(context.Background(), "resp:/a.png")
	require.NoError(t, err)
	assert.Nil(t, resp)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLookupError(t *testing.T) {
	c, mock := newTestCache(t)
	mock.ExpectGet("resp:/a.png").SetErr(errors.New("redis down"))

	_, err := c.Lookup(context.Background(), "resp:/a.png")
	assert.Error(t, err)
}

func TestStore(t *testing.T) {
	c, mock := newTestCache(t)
	resp := sampleResponse()
	b, err := json.Marshal(resp)
	require.NoError(t, err)
	mock.ExpectSet("resp:/a.png", b, 3600*time.Second).SetVal("OK")

	require.NoError(t, c.Store(context.Background(), "resp:/a.png", resp, 3600))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStoreError(t *testing.T) {
	c, mock := newTestCache(t)
	resp := sampleResponse()
	b, _ := json.Marshal(resp)
	mock.ExpectSet("resp:/a.png", b, 3600*time.Second).SetErr(errors.New("redis down"))

	assert.Error(t, c.Store(context.Background(), "resp:/a.png", resp, 3600))
}

func TestDel(t *testing.T) {
	c, mock := newTestCache(t)
	mock.ExpectDel("resp:/a.png").SetVal(1)

	require.NoError(t, c.Del(context.Background(), "resp:/a.png"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
