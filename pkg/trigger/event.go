// Package trigger extracts the object location from new-object
// notifications.
package trigger

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/tidwall/gjson"

	"github.com/wdm0006/intakegate/pkg/store"
)

var ErrNoObject = errors.New("notification does not name an object")

// Event is a parsed notification. Only the first record is processed; Records
// tells how many the notification carried.
type Event struct {
	Location store.Location
	Records  int
}

// Parse accepts an S3 event notification, the same notification wrapped in
// an SNS envelope (as delivered through SQS), or a plain {"bucket","key"}
// object. S3 keys arrive URL-encoded and are decoded.
func Parse(b []byte) (Event, error) {
	if !gjson.ValidBytes(b) {
		return Event{}, fmt.Errorf("%w: not valid JSON", ErrNoObject)
	}
	doc := gjson.ParseBytes(b)

	if msg := doc.Get("Message"); msg.Type == gjson.String && doc.Get("Type").String() == "Notification" {
		return Parse([]byte(msg.String()))
	}

	if records := doc.Get("Records"); records.IsArray() {
		n := len(records.Array())
		if n == 0 {
			return Event{}, fmt.Errorf("%w: no records", ErrNoObject)
		}
		first := records.Get("0.s3")
		bucket := first.Get("bucket.name").String()
		rawKey := first.Get("object.key").String()
		key, err := url.QueryUnescape(rawKey)
		if err != nil {
			return Event{}, fmt.Errorf("%w: undecodable key %q: %v", ErrNoObject, rawKey, err)
		}
		return newEvent(bucket, key, n)
	}

	return newEvent(doc.Get("bucket").String(), doc.Get("key").String(), 1)
}

func newEvent(bucket, key string, records int) (Event, error) {
	loc := store.Location{Bucket: bucket, Key: key}
	if err := loc.Validate(); err != nil {
		return Event{}, fmt.Errorf("%w: %v", ErrNoObject, err)
	}
	return Event{Location: loc, Records: records}, nil
}
