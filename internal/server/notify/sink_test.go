package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/taskledger/internal/identity"
	"github.com/dmitrijs2005/taskledger/internal/logging"
	"github.com/dmitrijs2005/taskledger/internal/server/models"
)

func TestLogSink_WritesStructuredRecord(t *testing.T) {
	var buf bytes.Buffer
	sink := NewLogSink(logging.NewJSONLogger(&buf, "info"))

	addr := identity.MustParse("0x00000000000000000000000000000000000000a1")
	payload, err := models.EncodeNotification(models.UserAdded{Address: addr})
	require.NoError(t, err)

	sink.Publish(context.Background(), models.Event{Seq: 4, Name: models.EventUserAdded, Payload: payload, Hash: []byte{0xab}})

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "event", rec["msg"])
	assert.Equal(t, "UserAdded", rec["event"])
	assert.Equal(t, float64(4), rec["seq"])
	assert.Equal(t, "ab", rec["hash"])
	assert.Contains(t, rec["args"], addr.Hex())
}

func TestLogSink_UndecodablePayload(t *testing.T) {
	var buf bytes.Buffer
	NewLogSink(logging.NewJSONLogger(&buf, "info")).
		Publish(context.Background(), models.Event{Seq: 1, Name: "X", Payload: []byte{0xff}})

	assert.Contains(t, buf.String(), "decode_error")
}

func TestDiscard_DropsEvents(t *testing.T) {
	var sink Sink = Discard{}
	assert.NotPanics(t, func() { sink.Publish(context.Background(), models.Event{Seq: 1}) })
}
