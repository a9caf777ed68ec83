package trigger

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wdm0006/intakegate/pkg/store"
)

const s3Event = `{
  "Records": [
    {
      "eventSource": "aws:s3",
      "eventName": "ObjectCreated:Put",
      "s3": {
        "bucket": {"name": "raw-zone", "arn": "arn:aws:s3:::raw-zone"},
        "object": {"key": "uploads/2024/car+prices%281%29.csv", "size": 1024}
      }
    }
  ]
}`

func TestParseS3(t *testing.T) {
	ev, err := Parse([]byte(s3Event))
	require.NoError(t, err)
	assert.Equal(t, store.Location{Bucket: "raw-zone", Key: "uploads/2024/car prices(1).csv"}, ev.Location)
	assert.Equal(t, 1, ev.Records)
}

func TestParseSNSEnvelope(t *testing.T) {
	env := `{"Type":"Notification","MessageId":"x","Message":` + strconv.Quote(s3Event) + `}`
	ev, err := Parse([]byte(env))
	require.NoError(t, err)
	assert.Equal(t, "raw-zone", ev.Location.Bucket)
}

func TestParsePlain(t *testing.T) {
	ev, err := Parse([]byte(`{"bucket":"raw","key":"cars.csv"}`))
	require.NoError(t, err)
	assert.Equal(t, store.Location{Bucket: "raw", Key: "cars.csv"}, ev.Location)
}

func TestParseRejects(t *testing.T) {
	for _, in := range []string{
		`not json`,
		`{"Records": []}`,
		`{"Service":"Amazon S3","Event":"s3:TestEvent"}`,
		`{"Records":[{"s3":{"bucket":{"name":"raw"},"object":{"key":"%zz"}}}]}`,
	} {
		_, err := Parse([]byte(in))
		assert.ErrorIs(t, err, ErrNoObject, in)
	}
}

func TestParseCountsRecords(t *testing.T) {
	in := `{"Records":[
	  {"s3":{"bucket":{"name":"raw"},"object":{"key":"a.csv"}}},
	  {"s3":{"bucket":{"name":"raw"},"object":{"key":"b.csv"}}}]}`
	ev, err := Parse([]byte(in))
	require.NoError(t, err)
	assert.Equal(t, 2, ev.Records)
	assert.Equal(t, "a.csv", ev.Location.Key)
}
