package mongo

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/chillpill/chillpill/internal/model"
	"github.com/chillpill/chillpill/internal/store"
	"github.com/chillpill/chillpill/internal/store/storetest"
)

func TestFilterMapsNilToNull(t *testing.T) {
	f := filter(model.Fields{
		model.FieldBody:          model.String("hello"),
		model.FieldLastTimestamp: nil,
	})
	assert.Equal(t, bson.M{"body": "hello", "last timestamp": nil}, f)
}

func TestMongoStore_Compliance(t *testing.T) {
	uri := os.Getenv("CHILLPILL_MONGO_URI")
	if uri == "" {
		t.Skip("CHILLPILL_MONGO_URI not set; skipping mongo store integration test")
	}
	storetest.Run(t, func(t *testing.T) store.Store {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		// a fresh collection per subtest keeps ordering assertions independent
		s, err := Open(ctx, uri, "chillpill_test", "log_"+uuid.NewString())
		require.NoError(t, err)
		return droppingStore{s}
	})
}

// droppingStore removes its collection before disconnecting.
type droppingStore struct{ *Store }

func (d droppingStore) Close() error {
	_ = d.coll.Drop(context.Background())
	return d.Store.Close()
}
